// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

// MessageServerKeyExchange carries the ephemeral key exchange parameters
// and the server's signature over them when the negotiated cipher suite
// requires forward secrecy (DHE/ECDHE). This driver only ever sends the
// ECDHE form: named curve, public point, signature.
//
// https://tools.ietf.org/html/rfc5246#section-7.4.3
type MessageServerKeyExchange struct {
	IdentityHintOrCurveParams []byte
	Signature                 []byte
}

// Type returns the Handshake Type
func (m MessageServerKeyExchange) Type() Type {
	return TypeServerKeyExchange
}

// Marshal encodes the Handshake. The caller is responsible for having laid
// out IdentityHintOrCurveParams in the wire form for the chosen key exchange
// method; this message only appends the trailing signature block.
func (m *MessageServerKeyExchange) Marshal() ([]byte, error) {
	out := append([]byte{}, m.IdentityHintOrCurveParams...)
	if len(m.Signature) == 0 {
		return out, nil
	}
	sigLen := make([]byte, 2)
	sigLen[0] = byte(len(m.Signature) >> 8) //nolint:mnd
	sigLen[1] = byte(len(m.Signature))
	out = append(out, sigLen...)
	return append(out, m.Signature...), nil
}

// Unmarshal stores the whole raw body, signature tail included, in
// IdentityHintOrCurveParams and leaves Signature empty. Nothing in this
// module parses the curve parameters or verifies the signature.
func (m *MessageServerKeyExchange) Unmarshal(data []byte) error {
	m.IdentityHintOrCurveParams = append([]byte{}, data...)
	return nil
}
