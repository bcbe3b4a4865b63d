// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package prf implements the TLS 1.2 pseudorandom function, RFC 5246
// Section 5, and the handful of key-material derivations built on it:
// the premaster-to-master secret expansion, bulk-cipher key expansion, and
// the Finished message's verify_data.
package prf

import (
	"crypto/hmac"
	"errors"
	"hash"

	"github.com/wlm328cs/tlshandshake/pkg/crypto/elliptic"
)

var errBufferTooSmall = errors.New("prf: buffer too small for requested output")

const (
	masterSecretLength = 48
	verifyDataLength   = 12

	labelMasterSecret    = "master secret"
	labelKeyExpansion    = "key expansion"
	labelClientFinished  = "client finished"
	labelServerFinished  = "server finished"
)

// PreMasterSecret runs the negotiated curve's Diffie-Hellman function over
// the peer's public key and this endpoint's private key, producing the raw
// ECDHE premaster secret RFC 4492 Section 5.10 feeds into MasterSecret.
func PreMasterSecret(publicKey, privateKey []byte, curve elliptic.Curve) ([]byte, error) {
	return curve.SharedSecret(publicKey, privateKey)
}

// MasterSecret derives the 48-byte master secret from the premaster secret
// and the two hello randoms, RFC 5246 Section 8.1.
func MasterSecret(preMasterSecret, clientRandom, serverRandom []byte, hashFunc func() hash.Hash) ([]byte, error) {
	seed := append(append([]byte{}, clientRandom...), serverRandom...)
	return pHash(preMasterSecret, []byte(labelMasterSecret), seed, masterSecretLength, hashFunc)
}

// EncryptionKeys is the full set of symmetric key material TLS 1.2's key
// expansion derives from the master secret, RFC 5246 Section 6.3. MAC keys
// are empty for AEAD suites, which authenticate without a separate MAC key.
type EncryptionKeys struct {
	MasterSecret   []byte
	ClientMACKey   []byte
	ServerMACKey   []byte
	ClientWriteKey []byte
	ServerWriteKey []byte
	ClientWriteIV  []byte
	ServerWriteIV  []byte
}

// GenerateEncryptionKeys runs the key-expansion PRF and slices its output
// into the six fields a cipher suite (CBC or AEAD) needs to encrypt and
// authenticate records in both directions.
func GenerateEncryptionKeys(masterSecret, clientRandom, serverRandom []byte, macLen, keyLen, ivLen int, hashFunc func() hash.Hash) (*EncryptionKeys, error) {
	seed := append(append([]byte{}, serverRandom...), clientRandom...)
	total := 2*macLen + 2*keyLen + 2*ivLen
	keyMaterial, err := pHash(masterSecret, []byte(labelKeyExpansion), seed, total, hashFunc)
	if err != nil {
		return nil, err
	}

	keys := &EncryptionKeys{MasterSecret: masterSecret}
	offset := 0
	take := func(n int) []byte {
		out := keyMaterial[offset : offset+n]
		offset += n
		return out
	}

	keys.ClientMACKey = take(macLen)
	keys.ServerMACKey = take(macLen)
	keys.ClientWriteKey = take(keyLen)
	keys.ServerWriteKey = take(keyLen)
	keys.ClientWriteIV = take(ivLen)
	keys.ServerWriteIV = take(ivLen)
	return keys, nil
}

// VerifyDataClient computes the client's Finished message verify_data, RFC
// 5246 Section 7.4.9: the first 12 bytes of PRF(master_secret,
// "client finished", Hash(handshake_messages)).
func VerifyDataClient(masterSecret, handshakeMessages []byte, hashFunc func() hash.Hash) ([]byte, error) {
	return verifyData(masterSecret, handshakeMessages, labelClientFinished, hashFunc)
}

// VerifyDataServer computes the server's Finished message verify_data, using
// the "server finished" label in place of "client finished".
func VerifyDataServer(masterSecret, handshakeMessages []byte, hashFunc func() hash.Hash) ([]byte, error) {
	return verifyData(masterSecret, handshakeMessages, labelServerFinished, hashFunc)
}

func verifyData(masterSecret, handshakeMessages []byte, label string, hashFunc func() hash.Hash) ([]byte, error) {
	h := hashFunc()
	h.Write(handshakeMessages)
	seed := h.Sum(nil)
	return pHash(masterSecret, []byte(label), seed, verifyDataLength, hashFunc)
}

// pHash implements RFC 5246 Section 5's P_hash: an HMAC-based expansion that
// iterates A(i) = HMAC_hash(secret, A(i-1)), A(0) = seed, concatenating
// HMAC_hash(secret, A(i) + seed) until there's enough output.
func pHash(secret, label, seed []byte, length int, hashFunc func() hash.Hash) ([]byte, error) {
	labelAndSeed := append(append([]byte{}, label...), seed...)

	hmacHash := hmac.New(hashFunc, secret)
	hmacHash.Write(labelAndSeed)
	a := hmacHash.Sum(nil)

	out := make([]byte, 0, length)
	for len(out) < length {
		hmacHash.Reset()
		hmacHash.Write(a)
		hmacHash.Write(labelAndSeed)
		out = append(out, hmacHash.Sum(nil)...)

		hmacHash.Reset()
		hmacHash.Write(a)
		a = hmacHash.Sum(nil)
	}
	if len(out) < length {
		return nil, errBufferTooSmall
	}
	return out[:length], nil
}
