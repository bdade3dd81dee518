// Package state stores one value per chat with sliding idle expiry.
// The value type and its transitions belong to the caller.
package state
