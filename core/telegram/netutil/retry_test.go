package netutil

import (
	"context"
	"errors"
	"net"
	"net/url"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestShouldRetry(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("bad request"), false},
		{"dial", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}, true},
		{"timeout", timeoutErr{}, true},
		{"url wrapping dial", &url.Error{Op: "Post", URL: "https://api.telegram.org", Err: &net.OpError{Op: "dial", Err: errors.New("refused")}}, true},
		{"cancelled", context.Canceled, false},
	}
	for _, tc := range cases {
		if got := ShouldRetry(tc.err); got != tc.want {
			t.Errorf("%s: ShouldRetry = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestShouldRetryDNS(t *testing.T) {
	if ShouldRetry(&net.DNSError{Err: "no such host", Name: "api.yelp.com", IsNotFound: true}) {
		t.Fatal("permanent DNS failure should not be retried")
	}
	if !ShouldRetry(&net.DNSError{Err: "server misbehaving", Name: "api.telegram.org", IsTemporary: true}) {
		t.Fatal("temporary DNS failure should be retried")
	}
}
