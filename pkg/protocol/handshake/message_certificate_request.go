// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

// ClientCertificateType identifies an acceptable client certificate type,
// RFC 5246 Section 7.4.4.
type ClientCertificateType uint8

// Client certificate types this driver accepts.
const (
	ClientCertificateTypeRSASign   ClientCertificateType = 1
	ClientCertificateTypeECDSASign ClientCertificateType = 64
)

// MessageCertificateRequest asks the client for a certificate. Only sent
// when the connection's client-auth mode is REQUIRED or OPTIONAL.
//
// https://tools.ietf.org/html/rfc5246#section-7.4.4
type MessageCertificateRequest struct {
	CertificateTypes        []ClientCertificateType
	SignatureHashAlgorithms []SignatureHashAlgorithm
	CertificateAuthorities  [][]byte
}

// SignatureHashAlgorithm pairs a signature algorithm with a hash algorithm,
// RFC 5246 Section 7.4.1.4.1.
type SignatureHashAlgorithm struct {
	Hash      uint8
	Signature uint8
}

// Type returns the Handshake Type
func (m MessageCertificateRequest) Type() Type {
	return TypeCertificateRequest
}

// Marshal encodes the Handshake
func (m *MessageCertificateRequest) Marshal() ([]byte, error) {
	out := []byte{byte(len(m.CertificateTypes))}
	for _, t := range m.CertificateTypes {
		out = append(out, byte(t))
	}

	sigAlgs := make([]byte, 2, 2+2*len(m.SignatureHashAlgorithms))
	sigAlgs[0] = byte(len(m.SignatureHashAlgorithms) * 2 >> 8) //nolint:mnd
	sigAlgs[1] = byte(len(m.SignatureHashAlgorithms) * 2)
	for _, a := range m.SignatureHashAlgorithms {
		sigAlgs = append(sigAlgs, a.Hash, a.Signature)
	}
	out = append(out, sigAlgs...)

	var authorities []byte
	for _, ca := range m.CertificateAuthorities {
		l := make([]byte, 2)
		l[0] = byte(len(ca) >> 8) //nolint:mnd
		l[1] = byte(len(ca))
		authorities = append(authorities, l...)
		authorities = append(authorities, ca...)
	}
	authLen := make([]byte, 2)
	authLen[0] = byte(len(authorities) >> 8) //nolint:mnd
	authLen[1] = byte(len(authorities))
	out = append(out, authLen...)
	return append(out, authorities...), nil
}

// Unmarshal populates the message from encoded data
func (m *MessageCertificateRequest) Unmarshal(data []byte) error {
	if len(data) < 1 {
		return errBufferTooSmall
	}
	n := int(data[0])
	data = data[1:]
	if len(data) < n {
		return errBufferTooSmall
	}
	m.CertificateTypes = nil
	for i := 0; i < n; i++ {
		m.CertificateTypes = append(m.CertificateTypes, ClientCertificateType(data[i]))
	}
	data = data[n:]

	if len(data) < 2 {
		return errBufferTooSmall
	}
	sigAlgsLen := int(data[0])<<8 | int(data[1])
	data = data[2:]
	if len(data) < sigAlgsLen || sigAlgsLen%2 != 0 {
		return errLengthMismatch
	}
	m.SignatureHashAlgorithms = nil
	for i := 0; i < sigAlgsLen; i += 2 {
		m.SignatureHashAlgorithms = append(m.SignatureHashAlgorithms, SignatureHashAlgorithm{
			Hash:      data[i],
			Signature: data[i+1],
		})
	}
	data = data[sigAlgsLen:]

	if len(data) < 2 {
		return errBufferTooSmall
	}
	authLen := int(data[0])<<8 | int(data[1])
	data = data[2:]
	if len(data) < authLen {
		return errLengthMismatch
	}
	data = data[:authLen]

	m.CertificateAuthorities = nil
	for len(data) > 0 {
		if len(data) < 2 {
			return errBufferTooSmall
		}
		caLen := int(data[0])<<8 | int(data[1])
		data = data[2:]
		if len(data) < caLen {
			return errLengthMismatch
		}
		m.CertificateAuthorities = append(m.CertificateAuthorities, append([]byte{}, data[:caLen]...))
		data = data[caLen:]
	}
	return nil
}
