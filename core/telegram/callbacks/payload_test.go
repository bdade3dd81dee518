package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseIndexToken(t *testing.T) {
	cases := []struct {
		token string
		n     int
		ok    bool
	}{
		{"bar_1", 1, true},
		{"bar_6", 6, true},
		{"bar_12", 12, true},
		{"bar_0", 0, false},
		{"bar_", 0, false},
		{"bar_-1", 0, false},
		{"bar_1x", 0, false},
		{"bar_+2", 0, false},
		{"pub_1", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		n, ok := ParseIndexToken(tc.token, "bar_")
		if n != tc.n || ok != tc.ok {
			t.Errorf("ParseIndexToken(%q) = %d, %v; want %d, %v", tc.token, n, ok, tc.n, tc.ok)
		}
	}
}

func TestIndexTokenRoundTrip(t *testing.T) {
	for i := 1; i <= 6; i++ {
		n, ok := ParseIndexToken(IndexToken("bar_", i), "bar_")
		if !ok || n != i {
			t.Fatalf("round trip of %d gave %d, %v", i, n, ok)
		}
	}
}

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		cb      *tele.Callback
		key     string
		payload string
	}{
		{nil, "", ""},
		{&tele.Callback{Data: "bar_3"}, "bar_3", ""},
		{&tele.Callback{Data: "\fmenu|42"}, "menu", "42"},
		{&tele.Callback{Unique: "menu", Data: "7"}, "menu", "7"},
	}
	for _, tc := range cases {
		key, payload := ParseCallbackData(tc.cb)
		if key != tc.key || payload != tc.payload {
			t.Errorf("ParseCallbackData(%+v) = %q, %q; want %q, %q", tc.cb, key, payload, tc.key, tc.payload)
		}
	}
}
