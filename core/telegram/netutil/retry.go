// Package netutil classifies transport errors for the Telegram HTTP client.
package netutil

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// ShouldRetry reports whether err looks like a transient transport failure:
// a timeout, a failed dial, a temporary DNS answer or a reset connection.
// Cancellation and HTTP-level errors are never retried.
func ShouldRetry(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.ECONNREFUSED):
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTimeout || dnsErr.IsTemporary
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	// *url.Error and *net.OpError both expose Timeout through net.Error.
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
