// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package extension

// SessionTicket is the session_ticket extension, RFC 5077 Section 3.2. A
// non-empty Ticket in a ClientHello is the encrypted ticket presented for
// resumption; an empty one from either side just signals support.
type SessionTicket struct {
	Ticket []byte
}

// Type returns the Extension Type
func (s *SessionTicket) Type() Type { return TypeSessionTicket }

// Marshal encodes the Extension
func (s *SessionTicket) Marshal() ([]byte, error) {
	return append([]byte{}, s.Ticket...), nil
}

// Unmarshal populates the extension from encoded data
func (s *SessionTicket) Unmarshal(data []byte) error {
	s.Ticket = append([]byte{}, data...)
	return nil
}
