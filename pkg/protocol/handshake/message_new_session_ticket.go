// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

import "encoding/binary"

// MessageNewSessionTicket hands the client an opaque, server-encrypted
// ticket it can present on a later connection instead of a session ID,
// RFC 5077 Section 3.3.
type MessageNewSessionTicket struct {
	LifetimeHint uint32
	Ticket       []byte
}

// Type returns the Handshake Type
func (m MessageNewSessionTicket) Type() Type {
	return TypeNewSessionTicket
}

// Marshal encodes the Handshake
func (m *MessageNewSessionTicket) Marshal() ([]byte, error) {
	out := make([]byte, 4, 6+len(m.Ticket))
	binary.BigEndian.PutUint32(out, m.LifetimeHint)
	ticketLen := make([]byte, 2)
	binary.BigEndian.PutUint16(ticketLen, uint16(len(m.Ticket)))
	out = append(out, ticketLen...)
	return append(out, m.Ticket...), nil
}

// Unmarshal populates the message from encoded data
func (m *MessageNewSessionTicket) Unmarshal(data []byte) error {
	if len(data) < 6 {
		return errBufferTooSmall
	}
	m.LifetimeHint = binary.BigEndian.Uint32(data)
	ticketLen := int(binary.BigEndian.Uint16(data[4:]))
	if len(data) < 6+ticketLen {
		return errLengthMismatch
	}
	m.Ticket = append([]byte{}, data[6:6+ticketLen]...)
	return nil
}
