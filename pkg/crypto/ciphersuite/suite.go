// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package ciphersuite

// KeyExchange identifies a cipher suite's key exchange method.
type KeyExchange uint8

// Key exchange methods this driver negotiates.
const (
	KeyExchangeRSA KeyExchange = iota
	KeyExchangeECDHERSA
	KeyExchangeECDHEECDSA
)

// Ephemeral reports whether this key exchange provides forward secrecy and
// therefore requires a ServerKeyExchange message.
func (k KeyExchange) Ephemeral() bool {
	return k == KeyExchangeECDHERSA || k == KeyExchangeECDHEECDSA
}

// Info is the static, negotiation-time metadata for one cipher suite: the
// fields handshakeio's Params and the PRF need, without handshakeio having
// to understand bulk-cipher construction itself.
type Info struct {
	ID          uint16
	KeyExchange KeyExchange
	PRFHash     string // "sha256" or "sha384", RFC 5246 Section 7.4.9
	KeyLength   int
	MACKeyLength int
	IVLength    int
	AEAD        bool
}

// Named cipher suite IDs, IANA TLS Cipher Suite registry.
const (
	TLSRSAWithAES128CBCSHA256        uint16 = 0x003c
	TLSECDHERSAWithAES128GCMSHA256   uint16 = 0xc02f
	TLSECDHEECDSAWithAES128GCMSHA256 uint16 = 0xc02b
	TLSECDHERSAWithAES256GCMSHA384   uint16 = 0xc030
	TLSRSAWithNULLSHA256             uint16 = 0x003b
)

var registry = map[uint16]Info{
	TLSRSAWithAES128CBCSHA256: {
		ID: TLSRSAWithAES128CBCSHA256, KeyExchange: KeyExchangeRSA, PRFHash: "sha256",
		KeyLength: 16, MACKeyLength: 32, IVLength: 16, AEAD: false,
	},
	TLSECDHERSAWithAES128GCMSHA256: {
		ID: TLSECDHERSAWithAES128GCMSHA256, KeyExchange: KeyExchangeECDHERSA, PRFHash: "sha256",
		KeyLength: 16, MACKeyLength: 0, IVLength: 4, AEAD: true,
	},
	TLSECDHEECDSAWithAES128GCMSHA256: {
		ID: TLSECDHEECDSAWithAES128GCMSHA256, KeyExchange: KeyExchangeECDHEECDSA, PRFHash: "sha256",
		KeyLength: 16, MACKeyLength: 0, IVLength: 4, AEAD: true,
	},
	TLSECDHERSAWithAES256GCMSHA384: {
		ID: TLSECDHERSAWithAES256GCMSHA384, KeyExchange: KeyExchangeECDHERSA, PRFHash: "sha384",
		KeyLength: 32, MACKeyLength: 0, IVLength: 4, AEAD: true,
	},
	TLSRSAWithNULLSHA256: {
		ID: TLSRSAWithNULLSHA256, KeyExchange: KeyExchangeRSA, PRFHash: "sha256",
		KeyLength: 0, MACKeyLength: 32, IVLength: 0, AEAD: false,
	},
}

// Lookup returns the static info for a cipher suite ID, and whether it's
// one this driver recognizes.
func Lookup(id uint16) (Info, bool) {
	info, ok := registry[id]
	return info, ok
}

// SupportedIDs returns every cipher suite ID this driver offers, in the
// order ClientHello should list them (strongest/most-preferred first).
func SupportedIDs() []uint16 {
	return []uint16{
		TLSECDHEECDSAWithAES128GCMSHA256,
		TLSECDHERSAWithAES128GCMSHA256,
		TLSECDHERSAWithAES256GCMSHA384,
		TLSRSAWithAES128CBCSHA256,
	}
}
