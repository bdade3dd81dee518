package keyboard

import "testing"

func TestInlineButtonsOnePerRow(t *testing.T) {
	markup := InlineButtons([]InlineBtn{
		{Text: "1. One", Data: "bar_1"},
		{Text: "2. Two", Data: "bar_2"},
	})
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(markup.InlineKeyboard))
	}
	for i, row := range markup.InlineKeyboard {
		if len(row) != 1 {
			t.Fatalf("row %d has %d buttons", i, len(row))
		}
	}
	if got := markup.InlineKeyboard[1][0]; got.Text != "2. Two" || got.Data != "bar_2" || got.Unique != "" {
		t.Fatalf("unexpected button: %+v", got)
	}
}

func TestInlineButtonsNPerRow(t *testing.T) {
	buttons := make([]InlineBtn, 7)
	markup := InlineButtonsNPerRow(buttons, 3)
	want := []int{3, 3, 1}
	if len(markup.InlineKeyboard) != len(want) {
		t.Fatalf("rows = %d, want %d", len(markup.InlineKeyboard), len(want))
	}
	for i, n := range want {
		if len(markup.InlineKeyboard[i]) != n {
			t.Fatalf("row %d has %d buttons, want %d", i, len(markup.InlineKeyboard[i]), n)
		}
	}
}

func TestLocationRequest(t *testing.T) {
	markup := LocationRequest("Bars near my location")
	if len(markup.ReplyKeyboard) != 1 || len(markup.ReplyKeyboard[0]) != 1 {
		t.Fatalf("unexpected keyboard shape: %+v", markup.ReplyKeyboard)
	}
	btn := markup.ReplyKeyboard[0][0]
	if btn.Text != "Bars near my location" || !btn.Location {
		t.Fatalf("unexpected button: %+v", btn)
	}
}
