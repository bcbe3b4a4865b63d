// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshakeio

import (
	"errors"
	"testing"

	"github.com/wlm328cs/tlshandshake/pkg/protocol/alert"
)

func TestBlockedErrorUnwrapsToErrBlocked(t *testing.T) {
	err := &BlockedError{Blocked: BlockedOnRead}
	if !errors.Is(err, ErrBlocked) {
		t.Fatal("BlockedError does not unwrap to ErrBlocked")
	}
	if !isBlocked(err) {
		t.Fatal("isBlocked(BlockedError) = false")
	}
}

func TestWriteErrorPrefersAlert(t *testing.T) {
	cause := errors.New("connection reset")
	alertErr := &AlertError{Alert: &alert.Alert{Level: alert.Fatal, Description: alert.HandshakeFailure}}
	werr := &WriteError{Cause: cause, Alert: alertErr}

	var got *AlertError
	if !errors.As(werr, &got) {
		t.Fatal("WriteError with an Alert set should unwrap to it")
	}
	if got != alertErr {
		t.Fatal("WriteError unwrapped to the wrong AlertError")
	}
}

func TestWriteErrorFallsBackToCause(t *testing.T) {
	cause := errors.New("connection reset")
	werr := &WriteError{Cause: cause}

	if !errors.Is(werr, cause) {
		t.Fatal("WriteError without an Alert should unwrap to Cause")
	}
}
