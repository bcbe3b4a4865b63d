// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package ciphersuite implements the bulk-encryption half of a TLS 1.2
// cipher suite: given the key material the PRF derived, it turns
// plaintext records into on-the-wire ciphertext and back.
package ciphersuite

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/wlm328cs/tlshandshake/pkg/protocol"
)

const (
	gcmTagLength          = 16
	gcmExplicitNonceLength = 8
	gcmImplicitNonceLength = 4
	gcmNonceLength        = gcmImplicitNonceLength + gcmExplicitNonceLength
)

var (
	errNotEnoughRoomForNonce = errors.New("ciphersuite: buffer too small to contain nonce")
	errDecryptPacket         = errors.New("ciphersuite: decrypt failed")
)

// AEAD is the suite-agnostic interface handshakeio's record-layer
// collaborator drives: seal an outgoing record, open an incoming one. The
// explicit sequence number is never transmitted on TLS 1.0-1.2's wire
// format; both ends derive it from the number of records already
// sent/received in the current epoch.
type AEAD interface {
	Encrypt(seq uint64, contentType protocol.ContentType, version protocol.Version, plaintext []byte) ([]byte, error)
	Decrypt(seq uint64, contentType protocol.ContentType, version protocol.Version, ciphertext []byte) ([]byte, error)
	Overhead() int
}

// GCM implements AES-GCM record protection, RFC 5288.
type GCM struct {
	local, remote         cipher.AEAD
	localWriteIV          []byte
	remoteWriteIV         []byte
}

// NewGCM constructs a GCM AEAD from the PRF-derived write keys and IVs.
func NewGCM(localKey, localWriteIV, remoteKey, remoteWriteIV []byte) (*GCM, error) {
	localBlock, err := aes.NewCipher(localKey)
	if err != nil {
		return nil, err
	}
	localGCM, err := cipher.NewGCM(localBlock)
	if err != nil {
		return nil, err
	}

	remoteBlock, err := aes.NewCipher(remoteKey)
	if err != nil {
		return nil, err
	}
	remoteGCM, err := cipher.NewGCM(remoteBlock)
	if err != nil {
		return nil, err
	}

	return &GCM{
		local:         localGCM,
		localWriteIV:  localWriteIV,
		remote:        remoteGCM,
		remoteWriteIV: remoteWriteIV,
	}, nil
}

// Overhead is the number of bytes Encrypt adds to a plaintext payload.
func (g *GCM) Overhead() int { return gcmExplicitNonceLength + gcmTagLength }

// Encrypt seals one record's plaintext, RFC 5246 Section 6.2.3.3: an
// explicit 8-byte nonce the peer can reconstruct the full 12-byte GCM
// nonce from, followed by the AEAD-sealed payload and tag.
func (g *GCM) Encrypt(seq uint64, contentType protocol.ContentType, version protocol.Version, plaintext []byte) ([]byte, error) {
	nonce := make([]byte, gcmNonceLength)
	copy(nonce, g.localWriteIV[:gcmImplicitNonceLength])
	explicit := nonce[gcmImplicitNonceLength:]
	if _, err := rand.Read(explicit); err != nil {
		return nil, err
	}

	additionalData := generateAdditionalData(seq, contentType, version, len(plaintext))
	sealed := g.local.Seal(nil, nonce, plaintext, additionalData)

	out := make([]byte, 0, len(explicit)+len(sealed))
	out = append(out, explicit...)
	return append(out, sealed...), nil
}

// Decrypt opens one record's ciphertext.
func (g *GCM) Decrypt(seq uint64, contentType protocol.ContentType, version protocol.Version, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < gcmExplicitNonceLength+gcmTagLength {
		return nil, errNotEnoughRoomForNonce
	}

	nonce := make([]byte, 0, gcmNonceLength)
	nonce = append(nonce, g.remoteWriteIV[:gcmImplicitNonceLength]...)
	nonce = append(nonce, ciphertext[:gcmExplicitNonceLength]...)
	sealed := ciphertext[gcmExplicitNonceLength:]

	additionalData := generateAdditionalData(seq, contentType, version, len(sealed)-gcmTagLength)
	out, err := g.remote.Open(sealed[:0], nonce, sealed, additionalData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errDecryptPacket, err) //nolint:errorlint
	}
	return out, nil
}

// generateAdditionalData builds the AEAD associated data TLS 1.2 AEAD
// suites authenticate alongside the ciphertext: an implicit 8-byte
// sequence number, the 1-byte content type, the 2-byte protocol version,
// and the 2-byte plaintext length, RFC 5246 Section 6.2.3.3.
func generateAdditionalData(seq uint64, contentType protocol.ContentType, version protocol.Version, length int) []byte {
	out := make([]byte, 13)
	binary.BigEndian.PutUint64(out, seq)
	out[8] = byte(contentType)
	out[9] = version.Major
	out[10] = version.Minor
	binary.BigEndian.PutUint16(out[11:], uint16(length))
	return out
}
