// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package extension implements the TLS Hello extensions this driver's
// message handlers need to read or write, RFC 5246 Section 7.4.1.4.
package extension

import (
	"encoding/binary"
	"errors"
)

var (
	errBufferTooSmall  = errors.New("extension: buffer too small")
	errLengthMismatch  = errors.New("extension: declared length does not match body")
	errExtensionsTooLong = errors.New("extension: encoded extensions exceed uint16 length")
)

// Type is the two-byte extension_type field, RFC 5246 Section 7.4.1.4 /
// the IANA TLS ExtensionType registry.
type Type uint16

// Extension types this driver recognizes.
const (
	TypeServerName            Type = 0
	TypeStatusRequest         Type = 5
	TypeSupportedPointFormats Type = 11
	TypeSessionTicket         Type = 35
	TypeRenegotiationInfo     Type = 0xff01
	TypeExtendedMasterSecret  Type = 0x0017
	TypeALPN                  Type = 16
)

// Extension is a single parsed Hello extension.
type Extension interface {
	Type() Type
	Marshal() ([]byte, error)
	Unmarshal(data []byte) error
}

func newByType(t Type) Extension {
	switch t {
	case TypeStatusRequest:
		return &StatusRequest{}
	case TypeSessionTicket:
		return &SessionTicket{}
	case TypeRenegotiationInfo:
		return &RenegotiationInfo{}
	case TypeExtendedMasterSecret:
		return &UseExtendedMasterSecret{}
	case TypeALPN:
		return &ALPN{}
	case TypeSupportedPointFormats:
		return &SupportedPointFormats{}
	default:
		return &Generic{ExtType: t}
	}
}

// Marshal encodes a list of extensions into the wire form used after a
// ClientHello/ServerHello body: a two-byte total length followed by each
// extension's {type, length, body}.
func Marshal(extensions []Extension) ([]byte, error) {
	var body []byte
	for _, e := range extensions {
		encoded, err := e.Marshal()
		if err != nil {
			return nil, err
		}
		header := make([]byte, 4)
		binary.BigEndian.PutUint16(header, uint16(e.Type()))
		binary.BigEndian.PutUint16(header[2:], uint16(len(encoded)))
		body = append(body, header...)
		body = append(body, encoded...)
	}
	if len(body) > 0xFFFF {
		return nil, errExtensionsTooLong
	}
	out := make([]byte, 2, 2+len(body))
	binary.BigEndian.PutUint16(out, uint16(len(body)))
	return append(out, body...), nil
}

// Unmarshal decodes an extensions block starting at its two-byte
// total-length field; bytes past that length are ignored. A zero-length
// block yields an empty, non-nil slice.
func Unmarshal(data []byte) ([]Extension, error) {
	if len(data) < 2 {
		return nil, errBufferTooSmall
	}
	totalLen := int(binary.BigEndian.Uint16(data))
	data = data[2:]
	if len(data) < totalLen {
		return nil, errLengthMismatch
	}
	data = data[:totalLen]

	out := []Extension{}
	for len(data) > 0 {
		if len(data) < 4 {
			return nil, errBufferTooSmall
		}
		extType := Type(binary.BigEndian.Uint16(data))
		extLen := int(binary.BigEndian.Uint16(data[2:]))
		data = data[4:]
		if len(data) < extLen {
			return nil, errLengthMismatch
		}
		e := newByType(extType)
		if err := e.Unmarshal(data[:extLen]); err != nil {
			return nil, err
		}
		out = append(out, e)
		data = data[extLen:]
	}
	return out, nil
}
