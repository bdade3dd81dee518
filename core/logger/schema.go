package logger

import "strings"

// levelNames maps accepted spellings onto the level names written to logs.
var levelNames = map[string]string{
	"debug":   "DEBUG",
	"info":    "INFO",
	"warn":    "WARN",
	"warning": "WARN",
	"error":   "ERROR",
}

// statusValues are the status values handlers report; anything else is
// passed through lower-cased.
var statusValues = set("ok", "fail", "skip", "stale", "cancelled")

// outcomeValues are the only outcome values kept; others are dropped.
var outcomeValues = set("ok", "fail", "cancelled")

func set(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

func normalizeLevel(level string) string {
	if level == "" {
		return "INFO"
	}
	if name, ok := levelNames[strings.ToLower(level)]; ok {
		return name
	}
	// slog renders custom levels as e.g. "INFO+2".
	return strings.ToUpper(level)
}

func normalizeStatus(status string) (string, bool) {
	status = strings.ToLower(strings.TrimSpace(status))
	return status, statusValues[status]
}

func normalizeOutcome(outcome string) (string, bool) {
	outcome = strings.ToLower(strings.TrimSpace(outcome))
	return outcome, outcomeValues[outcome]
}

// defaultKeyOrder fixes the leading columns of every line. Keys not listed
// follow alphabetically.
var defaultKeyOrder = []string{
	// envelope
	"ts", "level", "component", "event", "status",
	"rid", "rid_full", "ts_unix_nano",
	// update
	"update_id", "user_id", "chat_id", "chat_type", "handler", "action",
	"cb_key", "token", "outcome", "duration_ms", "messages", "kb",
	// search and selection
	"provider", "lat", "lon", "venues", "index", "phase", "resend",
	"payload", "lang", "username",
	// transport and storage
	"mode", "listen", "public_url", "http_code", "db", "host", "port",
	"loops", "sessions",
	// failure
	"err", "err_code", "error_kind", "cause", "attempts",
}
