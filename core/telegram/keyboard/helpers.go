// Package keyboard builds telebot reply markups.
package keyboard

import (
	"slices"

	tele "gopkg.in/telebot.v4"
)

// InlineBtn is one inline button. With Unique empty, Data is sent verbatim
// as the callback data, which keeps tokens like "bar_3" readable.
type InlineBtn struct {
	Text   string
	Unique string
	Data   string
}

func (b InlineBtn) tele() tele.InlineButton {
	return tele.InlineButton{Text: b.Text, Unique: b.Unique, Data: b.Data}
}

// LocationRequest returns a resized reply keyboard whose single button
// shares the user's location. It stays visible until replaced.
func LocationRequest(label string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	markup.Reply(markup.Row(markup.Location(label)))
	return markup
}

// InlineButtons places each button on its own row.
func InlineButtons(buttons []InlineBtn) *tele.ReplyMarkup {
	return InlineButtonsNPerRow(buttons, 1)
}

// InlineButtonsNPerRow fills rows of up to n buttons, keeping order.
func InlineButtonsNPerRow(buttons []InlineBtn, n int) *tele.ReplyMarkup {
	n = max(n, 1)
	rows := make([][]tele.InlineButton, 0, (len(buttons)+n-1)/n)
	for chunk := range slices.Chunk(buttons, n) {
		row := make([]tele.InlineButton, len(chunk))
		for i, b := range chunk {
			row[i] = b.tele()
		}
		rows = append(rows, row)
	}
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}
