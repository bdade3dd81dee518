// Package commands describes slash commands published by the bot.
package commands

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Command is a slash command entry. Hidden commands still work but are not
// published to the Telegram command menu.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	Hidden      bool
	// Aliases are matched with or without a leading slash.
	Aliases []string
}

// MatchesAlias reports whether the normalized name ("/info") is one of the aliases.
func (c Command) MatchesAlias(name string) bool {
	name = strings.TrimPrefix(name, "/")
	for _, alias := range c.Aliases {
		if strings.EqualFold(strings.TrimPrefix(alias, "/"), name) {
			return true
		}
	}
	return false
}

// Menu converts the command registered as name into a menu entry.
func (c Command) Menu(name string) tele.Command {
	return tele.Command{Text: strings.TrimPrefix(name, "/"), Description: c.Description}
}
