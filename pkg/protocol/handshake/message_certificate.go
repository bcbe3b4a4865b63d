// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

// MessageCertificate carries the sender's certificate chain, leaf first.
//
// https://tools.ietf.org/html/rfc5246#section-7.4.2
type MessageCertificate struct {
	Certificate [][]byte
}

// Type returns the Handshake Type
func (m MessageCertificate) Type() Type {
	return TypeCertificate
}

// Marshal encodes the Handshake
func (m *MessageCertificate) Marshal() ([]byte, error) {
	var body []byte
	for _, cert := range m.Certificate {
		certLen := make([]byte, 3)
		putUint24(certLen, uint32(len(cert)))
		body = append(body, certLen...)
		body = append(body, cert...)
	}
	out := make([]byte, 3, 3+len(body))
	putUint24(out, uint32(len(body)))
	return append(out, body...), nil
}

// Unmarshal populates the message from encoded data
func (m *MessageCertificate) Unmarshal(data []byte) error {
	if len(data) < 3 {
		return errBufferTooSmall
	}
	totalLen := int(uint24(data))
	data = data[3:]
	if len(data) < totalLen {
		return errLengthMismatch
	}
	data = data[:totalLen]

	m.Certificate = nil
	for len(data) > 0 {
		if len(data) < 3 {
			return errBufferTooSmall
		}
		certLen := int(uint24(data))
		data = data[3:]
		if len(data) < certLen {
			return errLengthMismatch
		}
		m.Certificate = append(m.Certificate, append([]byte{}, data[:certLen]...))
		data = data[certLen:]
	}
	return nil
}
