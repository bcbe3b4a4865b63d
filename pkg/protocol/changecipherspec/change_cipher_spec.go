// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package changecipherspec implements the single-byte ChangeCipherSpec
// protocol message, RFC 5246 Section 7.1. It is its own record content
// type, not a handshake message, so it carries no msg_type/length header.
package changecipherspec

import (
	"errors"

	"github.com/wlm328cs/tlshandshake/pkg/protocol"
)

var errInvalidChangeCipherSpec = errors.New("changecipherspec: invalid message")

// ChangeCipherSpec signals that the sender is switching to the
// newly-negotiated read or write state.
type ChangeCipherSpec struct{}

// ContentType returns the record layer content type of ChangeCipherSpec
func (c ChangeCipherSpec) ContentType() protocol.ContentType {
	return protocol.ContentTypeChangeCipherSpec
}

// Marshal encodes the ChangeCipherSpec to binary
func (c *ChangeCipherSpec) Marshal() ([]byte, error) {
	return []byte{0x01}, nil
}

// Unmarshal populates the message from encoded data
func (c *ChangeCipherSpec) Unmarshal(data []byte) error {
	if len(data) != 1 || data[0] != 0x01 {
		return errInvalidChangeCipherSpec
	}
	return nil
}
