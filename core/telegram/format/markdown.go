// Package format holds text helpers for Telegram's legacy Markdown parse mode.
package format

import "strings"

// mdEscaper covers every character legacy Markdown treats as markup.
var mdEscaper = strings.NewReplacer(
	`_`, `\_`,
	`*`, `\*`,
	"`", "\\`",
	`[`, `\[`,
)

// EscapeMD makes arbitrary text safe to embed in a tele.ModeMarkdown message.
func EscapeMD(text string) string {
	return mdEscaper.Replace(text)
}

// Bold renders text in bold. Legacy Markdown has no escapes inside an
// entity, so each markup character closes the bold run, appears escaped and
// the run reopens after it: "2*2" becomes `*2*\**2*`.
func Bold(text string) string {
	var b strings.Builder
	run := 0
	flush := func(end int) {
		if end > run {
			b.WriteString("*" + text[run:end] + "*")
		}
	}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '_', '*', '`', '[':
			flush(i)
			b.WriteByte('\\')
			b.WriteByte(text[i])
			run = i + 1
		}
	}
	flush(len(text))
	return b.String()
}
