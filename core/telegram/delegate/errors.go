package delegate

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"
)

var tokenRe = regexp.MustCompile(`bot[0-9]+:[A-Za-z0-9_-]+`)

// probe reports a kind for err, or "" to pass it on.
type probe func(err error) string

// probes run in order; the first non-empty kind wins.
var probes = []probe{
	contextKind,
	domainCode,
	networkKind,
	httpKind,
}

// ClassifyError maps an error to a coarse kind for logs: timeout, cancelled,
// dns, dial, tls, http_4xx, http_5xx, a lowercased domain code, or unknown.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	for _, p := range probes {
		if kind := p(err); kind != "" {
			return kind
		}
	}
	return "unknown"
}

// SanitizeError renders err without leaking Telegram bot tokens.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return tokenRe.ReplaceAllString(err.Error(), "bot<redacted>")
}

func contextKind(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	}
	return ""
}

func domainCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return strings.ToLower(strings.TrimSpace(coded.Code()))
	}
	return ""
}

func networkKind(err error) string {
	if dnsErr := (*net.DNSError)(nil); errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return "timeout"
		}
		return "dns"
	}
	if netErr := net.Error(nil); errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	if opErr := (*net.OpError)(nil); errors.As(err, &opErr) && opErr.Op == "dial" {
		return "dial"
	}
	if alert := tls.AlertError(0); errors.As(err, &alert) {
		return "tls"
	}
	return ""
}

func httpKind(err error) string {
	status := statusOf(err)
	switch {
	case status >= 500:
		return "http_5xx"
	case status >= 400:
		return "http_4xx"
	}
	return ""
}

// statusOf digs an HTTP status out of Telegram errors, provider errors
// exposing StatusCode, or a trailing "(NNN)" in the message.
func statusOf(err error) int {
	var (
		apiErr *tele.Error
		flood  tele.FloodError
		coder  interface{ StatusCode() int }
	)
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Code
	case errors.As(err, &flood):
		return http.StatusTooManyRequests
	case errors.As(err, &coder):
		return coder.StatusCode()
	}

	msg := err.Error()
	open, end := strings.LastIndexByte(msg, '('), strings.LastIndexByte(msg, ')')
	if open < 0 || end <= open+1 {
		return 0
	}
	code, convErr := strconv.Atoi(strings.TrimSpace(msg[open+1 : end]))
	if convErr != nil {
		return 0
	}
	return code
}
