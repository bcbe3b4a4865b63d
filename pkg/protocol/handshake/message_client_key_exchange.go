// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

// MessageClientKeyExchange carries the client's half of the key exchange:
// an RSA-encrypted premaster secret, or an ECDHE public point. Both are
// framed here with a uint16 length prefix, wide enough for an RSA-4096
// ciphertext or any named-curve point.
//
// https://tools.ietf.org/html/rfc5246#section-7.4.7
type MessageClientKeyExchange struct {
	PublicKey []byte
}

// Type returns the Handshake Type
func (m MessageClientKeyExchange) Type() Type {
	return TypeClientKeyExchange
}

// Marshal encodes the Handshake
func (m *MessageClientKeyExchange) Marshal() ([]byte, error) {
	if len(m.PublicKey) == 0 {
		return nil, errBufferTooSmall
	}
	out := make([]byte, 2, 2+len(m.PublicKey))
	out[0] = byte(len(m.PublicKey) >> 8) //nolint:mnd
	out[1] = byte(len(m.PublicKey))
	return append(out, m.PublicKey...), nil
}

// Unmarshal populates the message from encoded data
func (m *MessageClientKeyExchange) Unmarshal(data []byte) error {
	if len(data) < 2 {
		return errBufferTooSmall
	}
	n := int(data[0])<<8 | int(data[1])
	if len(data) < 2+n {
		return errLengthMismatch
	}
	m.PublicKey = append([]byte{}, data[2:2+n]...)
	return nil
}
