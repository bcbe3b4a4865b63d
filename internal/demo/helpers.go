// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package demo

import (
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"crypto/x509"
	"errors"
	"hash"

	"github.com/wlm328cs/tlshandshake/pkg/crypto/ciphersuite"
	"github.com/wlm328cs/tlshandshake/pkg/crypto/prf"
)

var errNotRSACertificate = errors.New("demo: peer certificate does not carry an RSA public key")

func parseRSAPublicKey(der []byte) (*rsa.PublicKey, error) {
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, err
	}
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, errNotRSACertificate
	}
	return pub, nil
}

func hashFuncForPRF(prfHash string) func() hash.Hash {
	if prfHash == "sha384" {
		return sha512.New384
	}
	return sha256.New
}

func masterSecretForSuite(suite ciphersuite.Info, preMasterSecret, clientRandom, serverRandom []byte) ([]byte, error) {
	return prf.MasterSecret(preMasterSecret, clientRandom, serverRandom, hashFuncForPRF(suite.PRFHash))
}

func constantTimeEqual(a, b []byte) bool {
	return len(a) == len(b) && subtle.ConstantTimeCompare(a, b) == 1
}
