// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshakeio

import (
	"github.com/wlm328cs/tlshandshake/pkg/protocol/changecipherspec"
	"github.com/wlm328cs/tlshandshake/pkg/protocol/handshake"
)

// sendHandshakeMessage builds, frames, and hashes one outgoing handshake
// message, then advances the state machine. It never blocks on its own: a
// RecordIO.Write/Flush failure is returned unwrapped to the caller, which
// is responsible for the write-then-read-alert recovery at the Negotiate
// level.
//
// If a prior call already built and hashed this message but
// writeFragmented blocked partway through, pendingOutput holds what's left
// to send; Build/Marshal/Transcript.Update only run once per message, not
// once per retry.
func (c *Conn) sendHandshakeMessage(kind MessageKind) error {
	if c.pendingOutput == nil {
		msg, err := c.Endpoint.Build(kind)
		if err != nil {
			return err
		}
		body, err := msg.Marshal()
		if err != nil {
			return err
		}

		header := handshake.Header{Type: Descriptor(kind).WireType, Length: uint32(len(body))}
		headerBytes, err := header.Marshal()
		if err != nil {
			return err
		}

		full := append(headerBytes, body...)
		c.Transcript.Update(full)
		c.pendingOutput = full
	}

	if err := c.writeFragmented(); err != nil {
		return err
	}

	c.advance()
	return nil
}

// writeFragmented splits c.pendingOutput across as many records as
// Record.MaxWritePayload requires, consuming it as each record is
// successfully written so a blocked retry resumes from where it left off
// rather than re-sending already-written bytes.
func (c *Conn) writeFragmented() error {
	max := c.Record.MaxWritePayload()
	if max <= 0 {
		max = len(c.pendingOutput)
	}
	for len(c.pendingOutput) > 0 {
		n := max
		if n > len(c.pendingOutput) {
			n = len(c.pendingOutput)
		}
		if err := c.Record.Write(Descriptor(c.CurrentMessageType()).RecordType, c.pendingOutput[:n]); err != nil {
			return err
		}
		c.pendingOutput = c.pendingOutput[n:]
	}
	c.pendingOutput = nil
	return nil
}

// sendChangeCipherSpec writes the fixed single-byte ChangeCipherSpec body.
// It is never run through the transcript hash (RFC 5246 Section 7.1) and
// activates this endpoint's write cipher immediately after.
func (c *Conn) sendChangeCipherSpec(kind MessageKind) error {
	var ccs changecipherspec.ChangeCipherSpec
	body, err := ccs.Marshal()
	if err != nil {
		return err
	}
	if err := c.Record.Write(Descriptor(kind).RecordType, body); err != nil {
		return err
	}
	if err := c.Record.ActivateWriteCipher(); err != nil {
		return err
	}
	c.advance()
	return nil
}
