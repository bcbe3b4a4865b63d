// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package kex decides, from a negotiated cipher suite, whether this
// handshake's key exchange is ephemeral (and therefore needs a
// ServerKeyExchange message) and drives the actual premaster-secret
// computation a Conn's Endpoint performs while building/consuming
// ClientKeyExchange and ServerKeyExchange.
package kex

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"

	"github.com/wlm328cs/tlshandshake/pkg/crypto/ciphersuite"
	"github.com/wlm328cs/tlshandshake/pkg/crypto/elliptic"
)

var (
	errNoCurveOffered  = errors.New("kex: no mutually supported curve")
	errNotRSA          = errors.New("kex: certificate key is not RSA")
)

// IsEphemeral reports whether suite's key exchange provides forward
// secrecy and therefore requires a ServerKeyExchange message in the
// handshake sequence — the value SetHandshakeType's Params.Ephemeral
// comes from.
func IsEphemeral(suite ciphersuite.Info) bool {
	return suite.KeyExchange.Ephemeral()
}

// ECDHE holds one side's state for an ECDHE key exchange across the
// ServerKeyExchange/ClientKeyExchange pair.
type ECDHE struct {
	Curve      elliptic.Curve
	PublicKey  []byte
	privateKey []byte
}

// PreferredCurves is the named-curve offer order this driver advertises
// and accepts, most-preferred first.
func PreferredCurves() []elliptic.Curve {
	return []elliptic.Curve{elliptic.X25519, elliptic.P256, elliptic.P384}
}

// SelectCurve picks the first of PreferredCurves also present in offered
// (the peer's supported_groups extension).
func SelectCurve(offered []elliptic.CurveType) (elliptic.Curve, error) {
	want := make(map[elliptic.CurveType]bool, len(offered))
	for _, t := range offered {
		want[t] = true
	}
	for _, c := range PreferredCurves() {
		if want[c.Type()] {
			return c, nil
		}
	}
	return nil, errNoCurveOffered
}

// GenerateEphemeral creates a fresh ECDHE keypair on curve, to be
// serialized into ServerKeyExchange (server) or ClientKeyExchange
// (client).
func GenerateEphemeral(curve elliptic.Curve) (*ECDHE, error) {
	public, private, err := curve.GenerateKeypair(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &ECDHE{Curve: curve, PublicKey: public, privateKey: private}, nil
}

// PreMasterSecret combines this side's ephemeral private key with the
// peer's public key into the ECDHE premaster secret, RFC 4492 Section 5.10.
func (e *ECDHE) PreMasterSecret(peerPublicKey []byte) ([]byte, error) {
	return e.Curve.SharedSecret(peerPublicKey, e.privateKey)
}

// RSAPreMasterSecret generates a fresh 48-byte RSA premaster secret and
// encrypts it under the peer's certificate public key, RFC 5246 Section
// 7.4.7.1. The two version bytes are the client's ClientHello.client_version,
// not the negotiated version — a deliberate, commonly-checked anti-rollback
// detail.
func RSAPreMasterSecret(pub *rsa.PublicKey, clientVersionMajor, clientVersionMinor uint8) ([]byte, []byte, error) {
	if pub == nil {
		return nil, nil, errNotRSA
	}
	secret := make([]byte, 48)
	secret[0], secret[1] = clientVersionMajor, clientVersionMinor
	if _, err := rand.Read(secret[2:]); err != nil {
		return nil, nil, err
	}
	encrypted, err := rsa.EncryptPKCS1v15(rand.Reader, pub, secret)
	if err != nil {
		return nil, nil, err
	}
	return secret, encrypted, nil
}

// DecryptRSAPreMasterSecret decrypts a ClientKeyExchange's RSA-encrypted
// premaster secret under the server's certificate private key. Per RFC
// 5246 Section 7.4.7.1's Bleichenbacher mitigation, a decryption failure
// or version mismatch must not be distinguishable from success to the
// network observer; callers should substitute a random secret rather than
// propagating this error directly into an alert.
func DecryptRSAPreMasterSecret(priv *rsa.PrivateKey, ciphertext []byte) ([]byte, error) {
	return rsa.DecryptPKCS1v15(rand.Reader, priv, ciphertext)
}
