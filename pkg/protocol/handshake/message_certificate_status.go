// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

// CertificateStatusType identifies the kind of status response carried,
// RFC 6066 Section 8. This driver only implements OCSP.
type CertificateStatusType uint8

// CertificateStatusTypeOCSP is the only status type this driver supports.
const CertificateStatusTypeOCSP CertificateStatusType = 1

// MessageCertificateStatus carries a stapled OCSP response, sent instead of
// a separate round trip when the client requested it via status_request
// and the server has a cached response for its certificate.
//
// https://tools.ietf.org/html/rfc6066#section-8
type MessageCertificateStatus struct {
	StatusType CertificateStatusType
	Response   []byte
}

// Type returns the Handshake Type
func (m MessageCertificateStatus) Type() Type {
	return TypeCertificateStatus
}

// Marshal encodes the Handshake
func (m *MessageCertificateStatus) Marshal() ([]byte, error) {
	out := []byte{byte(m.StatusType), 0, 0, 0}
	putUint24(out[1:], uint32(len(m.Response)))
	return append(out, m.Response...), nil
}

// Unmarshal populates the message from encoded data
func (m *MessageCertificateStatus) Unmarshal(data []byte) error {
	if len(data) < 4 {
		return errBufferTooSmall
	}
	m.StatusType = CertificateStatusType(data[0])
	respLen := int(uint24(data[1:]))
	if len(data) < 4+respLen {
		return errLengthMismatch
	}
	m.Response = append([]byte{}, data[4:4+respLen]...)
	return nil
}
