// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshakeio

import (
	"errors"
	"fmt"

	"github.com/wlm328cs/tlshandshake/pkg/protocol/alert"
)

// ErrBlocked is returned (wrapped with the relevant Blocked value encoded
// in a *BlockedError) when the underlying RecordIO would block. Callers
// should re-arm I/O in the indicated direction and call Negotiate again.
var ErrBlocked = errors.New("handshakeio: blocked")

// ErrBadMessage indicates the peer sent a message the current handshake
// type's sequence did not expect, or a message too large to buffer.
var ErrBadMessage = errors.New("handshakeio: unexpected or malformed message")

// ErrHandshakeTooLong is returned by the read path when a handshake
// message's declared length exceeds MaxHandshakeMessageLength. It wraps
// ErrBadMessage.
var ErrHandshakeTooLong = fmt.Errorf("%w: handshake message exceeds maximum length", ErrBadMessage)

// ErrSSLv2Unsupported is returned when an SSLv2-style ClientHello record
// arrives at CLIENT_HELLO: this driver recognizes the legacy framing but
// has no handler for it, so the record (and the connection) is terminal
// rather than silently reinterpreted as an ordinary handshake record.
var ErrSSLv2Unsupported = errors.New("handshakeio: SSLv2-compatible ClientHello is not supported")

// BlockedError wraps ErrBlocked with the direction the caller should
// re-arm I/O on.
type BlockedError struct {
	Blocked Blocked
}

func (e *BlockedError) Error() string { return fmt.Sprintf("handshakeio: %s", e.Blocked) }
func (e *BlockedError) Unwrap() error { return ErrBlocked }

// AlertError reports a fatal or warning alert received from the peer in
// place of (or instead of surfacing) a local transport error, per the
// write-then-read-alert precedence rule.
type AlertError struct {
	Alert *alert.Alert
}

func (e *AlertError) Error() string { return fmt.Sprintf("handshakeio: peer alert: %s", e.Alert) }

// WriteError is returned by Negotiate when a write fails. It preserves the
// original cause, and carries the peer's alert if the follow-up read
// attempt found one.
type WriteError struct {
	Cause error
	Alert *AlertError // non-nil if a peer alert was found and preferred instead
}

func (e *WriteError) Error() string {
	if e.Alert != nil {
		return e.Alert.Error()
	}
	return fmt.Sprintf("handshakeio: write failed: %v", e.Cause)
}

func (e *WriteError) Unwrap() error {
	if e.Alert != nil {
		return e.Alert
	}
	return e.Cause
}
