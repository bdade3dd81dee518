package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/m3rciful/barbot/core/logger"
	"github.com/m3rciful/barbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

var (
	// ErrInvalidRegistration is returned for empty names, nil handlers or
	// command names without a leading slash.
	ErrInvalidRegistration = errors.New("telegram: invalid registration")
	// ErrDuplicate is returned when a name is registered twice.
	ErrDuplicate = errors.New("telegram: already registered")
)

// Registry maps commands and callback keys to handlers. Registration
// happens at wiring time; lookups may run concurrently.
type Registry struct {
	mu        sync.RWMutex
	commands  map[string]commands.Command
	callbacks map[string]tele.HandlerFunc
	prefixes  map[string]tele.HandlerFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]commands.Command),
		callbacks: make(map[string]tele.HandlerFunc),
		prefixes:  make(map[string]tele.HandlerFunc),
	}
}

// RegisterCommand adds cmd under name, e.g. "/start". Names are stored lower-cased.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) error {
	if !strings.HasPrefix(name, "/") || len(name) < 2 || cmd.Handler == nil || cmd.Description == "" {
		return r.reject("command", name, ErrInvalidRegistration)
	}
	name = strings.ToLower(name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.commands[name]; ok {
		return r.reject("command", name, ErrDuplicate)
	}
	r.commands[name] = cmd
	return nil
}

// RegisterCallback adds a handler for the exact callback key.
func (r *Registry) RegisterCallback(key string, handler tele.HandlerFunc) error {
	return r.addCallback(r.callbacks, key, handler)
}

// RegisterCallbackPrefix adds a handler for every callback key starting with prefix.
func (r *Registry) RegisterCallbackPrefix(prefix string, handler tele.HandlerFunc) error {
	return r.addCallback(r.prefixes, prefix, handler)
}

func (r *Registry) addCallback(dst map[string]tele.HandlerFunc, key string, handler tele.HandlerFunc) error {
	if key == "" || handler == nil {
		return r.reject("callback", key, ErrInvalidRegistration)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := dst[key]; ok {
		return r.reject("callback", key, ErrDuplicate)
	}
	dst[key] = handler
	return nil
}

func (r *Registry) reject(kind, name string, cause error) error {
	logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.skip",
		slog.String("kind", kind),
		slog.String("name", name),
		slog.String("cause", cause.Error()),
	)
	return fmt.Errorf("%s %q: %w", kind, name, cause)
}

// LookupCommand resolves free text to a registered command. Matching ignores
// case, surrounding spaces and a trailing @botname.
func (r *Registry) LookupCommand(text string) (string, commands.Command, bool) {
	name := NormalizeCommand(text)
	if name == "" {
		return "", commands.Command{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cmd, ok := r.commands[name]; ok {
		return name, cmd, true
	}
	for key, cmd := range r.commands {
		if cmd.MatchesAlias(name) {
			return key, cmd, true
		}
	}
	return "", commands.Command{}, false
}

// NormalizeCommand reduces " /Start@BarBot " to "/start". Text that does not
// start with a slash, or carries arguments after the command, yields "".
func NormalizeCommand(text string) string {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) != 1 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	name, _, _ := strings.Cut(fields[0], "@")
	if name == "/" {
		return ""
	}
	return name
}

// Commands returns a copy of the registered commands keyed by name.
func (r *Registry) Commands() map[string]commands.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]commands.Command, len(r.commands))
	for k, v := range r.commands {
		out[k] = v
	}
	return out
}

// ListCommands returns the command menu sorted by name.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []tele.Command
	for name, cmd := range r.commands {
		if !visibleOnly || !cmd.Hidden {
			list = append(list, cmd.Menu(name))
		}
	}
	slices.SortFunc(list, func(a, b tele.Command) int { return strings.Compare(a.Text, b.Text) })
	return list
}

// GetCallback returns the handler for key: an exact match first, then the
// longest registered prefix.
func (r *Registry) GetCallback(key string) (tele.HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h, ok := r.callbacks[key]; ok {
		return h, true
	}
	best := ""
	for prefix := range r.prefixes {
		if strings.HasPrefix(key, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best == "" {
		return nil, false
	}
	return r.prefixes[best], true
}

// ListCallbacks returns the sorted callback keys; prefixes end with '*'.
func (r *Registry) ListCallbacks() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.callbacks)+len(r.prefixes))
	for k := range r.callbacks {
		names = append(names, k)
	}
	for k := range r.prefixes {
		names = append(names, k+"*")
	}
	slices.Sort(names)
	return names
}

// SetupCommands publishes the visible commands in the Telegram command menu.
func SetupCommands(bot *tele.Bot, reg *Registry) {
	if bot == nil || reg == nil {
		return
	}
	list := reg.ListCommands(true)
	if len(list) == 0 {
		return
	}
	if err := bot.SetCommands(list); err != nil {
		logger.TWire.LogAttrs(context.Background(), slog.LevelError, "register.commands.set_failed",
			slog.String("err", err.Error()),
		)
		return
	}
	logger.TWire.LogAttrs(context.Background(), slog.LevelInfo, "register.commands.set",
		slog.Int("commands", len(list)),
	)
}
