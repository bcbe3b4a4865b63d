// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

import (
	"encoding/binary"

	"github.com/wlm328cs/tlshandshake/pkg/protocol"
	"github.com/wlm328cs/tlshandshake/pkg/protocol/extension"
	"github.com/zmap/zcrypto/tls"
)

// MessageClientHello is the first message a client sends, proposing a
// protocol version, random, optional session ID/ticket, cipher suites,
// compression methods and extensions.
//
// https://tools.ietf.org/html/rfc5246#section-7.4.1.2
type MessageClientHello struct {
	Version Version
	Random  Random

	SessionID []byte

	CipherSuiteIDs     []uint16
	CompressionMethods []*protocol.CompressionMethod
	Extensions         []extension.Extension
}

// Version is an alias so callers in this package can write handshake.Version
// without reaching into protocol directly.
type Version = protocol.Version

// Type returns the Handshake Type
func (m MessageClientHello) Type() Type {
	return TypeClientHello
}

// Marshal encodes the Handshake
func (m *MessageClientHello) Marshal() ([]byte, error) {
	out := make([]byte, 2+RandomLength)
	out[0] = m.Version.Major
	out[1] = m.Version.Minor

	rand := m.Random.MarshalFixed()
	copy(out[2:], rand[:])

	out = append(out, byte(len(m.SessionID)))
	out = append(out, m.SessionID...)

	cipherSuites := make([]byte, 2+2*len(m.CipherSuiteIDs))
	binary.BigEndian.PutUint16(cipherSuites, uint16(2*len(m.CipherSuiteIDs)))
	for i, id := range m.CipherSuiteIDs {
		binary.BigEndian.PutUint16(cipherSuites[2+2*i:], id)
	}
	out = append(out, cipherSuites...)

	out = append(out, byte(len(m.CompressionMethods)))
	for _, c := range m.CompressionMethods {
		out = append(out, byte(c.ID))
	}

	extensions, err := extension.Marshal(m.Extensions)
	if err != nil {
		return nil, err
	}

	return append(out, extensions...), nil
}

// Unmarshal populates the message from encoded data
func (m *MessageClientHello) Unmarshal(data []byte) error {
	if len(data) < 2+RandomLength {
		return errBufferTooSmall
	}

	m.Version.Major = data[0]
	m.Version.Minor = data[1]

	var random [RandomLength]byte
	copy(random[:], data[2:])
	m.Random.UnmarshalFixed(random)

	offset := 2 + RandomLength
	if len(data) <= offset {
		return errBufferTooSmall
	}
	sessionIDLen := int(data[offset])
	offset++
	if len(data) < offset+sessionIDLen {
		return errBufferTooSmall
	}
	m.SessionID = append([]byte{}, data[offset:offset+sessionIDLen]...)
	offset += sessionIDLen

	if len(data) < offset+2 {
		return errBufferTooSmall
	}
	cipherSuitesLen := int(binary.BigEndian.Uint16(data[offset:]))
	offset += 2
	if len(data) < offset+cipherSuitesLen || cipherSuitesLen%2 != 0 {
		return errLengthMismatch
	}
	m.CipherSuiteIDs = nil
	for i := 0; i < cipherSuitesLen; i += 2 {
		m.CipherSuiteIDs = append(m.CipherSuiteIDs, binary.BigEndian.Uint16(data[offset+i:]))
	}
	offset += cipherSuitesLen

	if len(data) <= offset {
		return errBufferTooSmall
	}
	compressionLen := int(data[offset])
	offset++
	if len(data) < offset+compressionLen {
		return errBufferTooSmall
	}
	m.CompressionMethods = nil
	for i := 0; i < compressionLen; i++ {
		id := protocol.CompressionMethodID(data[offset+i])
		if cm, ok := protocol.CompressionMethods()[id]; ok {
			m.CompressionMethods = append(m.CompressionMethods, cm)
		} else {
			return errInvalidCompressionMethod
		}
	}
	offset += compressionLen

	if len(data) <= offset {
		m.Extensions = []extension.Extension{}
		return nil
	}

	extensions, err := extension.Unmarshal(data[offset:])
	if err != nil {
		return err
	}
	m.Extensions = extensions
	return nil
}

func (m *MessageClientHello) MakeLog() *tls.ClientHello {
	ret := &tls.ClientHello{}
	ret.Version = tls.TLSVersion((uint16(m.Version.Major) << 8) | uint16(m.Version.Minor))

	fixed := m.Random.MarshalFixed()
	ret.Random = append([]byte{}, fixed[:]...)

	ret.SessionID = append([]byte{}, m.SessionID...)

	for _, id := range m.CipherSuiteIDs {
		ret.CipherSuites = append(ret.CipherSuites, tls.CipherSuiteID(id))
	}
	for _, c := range m.CompressionMethods {
		ret.CompressionMethods = append(ret.CompressionMethods, uint8(c.ID))
	}
	for _, anyExt := range m.Extensions {
		switch e := anyExt.(type) {
		case *extension.ALPN:
			ret.AlpnProtocols = append(ret.AlpnProtocols, e.ProtocolNameList...)
		case *extension.RenegotiationInfo:
			ret.SecureRenegotiation = true
		case *extension.UseExtendedMasterSecret:
			ret.ExtendedMasterSecret = e.Supported
		case *extension.SessionTicket:
			ret.TicketSupported = true
		case *extension.StatusRequest:
			ret.OcspStapling = true
		default:
		}
	}
	return ret
}
