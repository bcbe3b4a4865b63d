// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

// MessageCertificateVerify proves the client's possession of the private
// key matching the certificate it sent, by signing the transcript hash of
// every handshake message seen so far.
//
// https://tools.ietf.org/html/rfc5246#section-7.4.8
type MessageCertificateVerify struct {
	Algorithm SignatureHashAlgorithm
	Signature []byte
}

// Type returns the Handshake Type
func (m MessageCertificateVerify) Type() Type {
	return TypeCertificateVerify
}

// Marshal encodes the Handshake
func (m *MessageCertificateVerify) Marshal() ([]byte, error) {
	out := []byte{m.Algorithm.Hash, m.Algorithm.Signature, 0, 0}
	out[2] = byte(len(m.Signature) >> 8) //nolint:mnd
	out[3] = byte(len(m.Signature))
	return append(out, m.Signature...), nil
}

// Unmarshal populates the message from encoded data
func (m *MessageCertificateVerify) Unmarshal(data []byte) error {
	if len(data) < 4 {
		return errBufferTooSmall
	}
	m.Algorithm = SignatureHashAlgorithm{Hash: data[0], Signature: data[1]}
	sigLen := int(data[2])<<8 | int(data[3])
	if len(data) < 4+sigLen {
		return errLengthMismatch
	}
	m.Signature = append([]byte{}, data[4:4+sigLen]...)
	return nil
}
