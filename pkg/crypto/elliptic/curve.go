// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package elliptic wraps the named curves this driver's ECDHE key exchange
// offers behind one interface, so prf.PreMasterSecret and internal/kex don't
// need curve-specific branches.
package elliptic

import (
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"io"

	"golang.org/x/crypto/curve25519"
)

// CurveType is the IANA "Supported Groups" registry value TLS's
// elliptic_curves/supported_groups extension negotiates.
type CurveType uint16

// Curve types this driver recognizes in the named-curve ServerKeyExchange
// format, RFC 4492 Section 5.4 / RFC 8422.
const (
	CurveTypeSECP256R1 CurveType = 23
	CurveTypeSECP384R1 CurveType = 24
	CurveTypeX25519    CurveType = 29
)

var errInvalidPublicKey = errors.New("elliptic: invalid peer public key")

// Curve is one named elliptic curve a ServerKeyExchange/ClientKeyExchange
// pair can use for ECDHE: generate an ephemeral keypair, and combine a local
// private key with the peer's public key into the shared premaster secret.
type Curve interface {
	Type() CurveType
	GenerateKeypair(rand io.Reader) (public, private []byte, err error)
	SharedSecret(peerPublicKey, privateKey []byte) ([]byte, error)
}

// X25519 is RFC 7748's Curve25519 Diffie-Hellman function, the default and
// most commonly negotiated curve in modern TLS 1.2 deployments.
var X25519 Curve = x25519Curve{}

type x25519Curve struct{}

func (x25519Curve) Type() CurveType { return CurveTypeX25519 }

func (x25519Curve) GenerateKeypair(rng io.Reader) ([]byte, []byte, error) {
	if rng == nil {
		rng = rand.Reader
	}
	private := make([]byte, curve25519.ScalarSize)
	if _, err := io.ReadFull(rng, private); err != nil {
		return nil, nil, err
	}
	public, err := curve25519.X25519(private, curve25519.Basepoint)
	if err != nil {
		return nil, nil, err
	}
	return public, private, nil
}

func (x25519Curve) SharedSecret(peerPublicKey, privateKey []byte) ([]byte, error) {
	secret, err := curve25519.X25519(privateKey, peerPublicKey)
	if err != nil {
		return nil, err
	}
	return secret, nil
}

// namedNISTCurve adapts crypto/elliptic's NIST curves (P-256, P-384) to the
// Curve interface, for peers that don't offer X25519.
type namedNISTCurve struct {
	typ   CurveType
	curve elliptic.Curve
}

// P256 is NIST P-256 (secp256r1).
var P256 Curve = namedNISTCurve{typ: CurveTypeSECP256R1, curve: elliptic.P256()}

// P384 is NIST P-384 (secp384r1).
var P384 Curve = namedNISTCurve{typ: CurveTypeSECP384R1, curve: elliptic.P384()}

func (c namedNISTCurve) Type() CurveType { return c.typ }

func (c namedNISTCurve) GenerateKeypair(rng io.Reader) ([]byte, []byte, error) {
	if rng == nil {
		rng = rand.Reader
	}
	private, x, y, err := elliptic.GenerateKey(c.curve, rng)
	if err != nil {
		return nil, nil, err
	}
	return elliptic.Marshal(c.curve, x, y), private, nil
}

func (c namedNISTCurve) SharedSecret(peerPublicKey, privateKey []byte) ([]byte, error) {
	x, y := elliptic.Unmarshal(c.curve, peerPublicKey)
	if x == nil {
		return nil, errInvalidPublicKey
	}
	sharedX, _ := c.curve.ScalarMult(x, y, privateKey)
	byteLen := (c.curve.Params().BitSize + 7) / 8
	out := make([]byte, byteLen)
	sharedX.FillBytes(out)
	return out, nil
}

// ByType looks up a Curve by its IANA supported-groups value.
func ByType(t CurveType) (Curve, bool) {
	switch t {
	case CurveTypeX25519:
		return X25519, true
	case CurveTypeSECP256R1:
		return P256, true
	case CurveTypeSECP384R1:
		return P384, true
	default:
		return nil, false
	}
}
