// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package transcript accumulates the running hash(es) of every handshake
// message seen on a connection, feeding the Finished and CertificateVerify
// computations. Which hashes are live is decided once, by the Required set
// passed to NewHashes, and never narrowed afterward.
package transcript

import (
	"crypto/md5"  //nolint:gosec
	"crypto/sha1" //nolint:gosec
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"io"
)

// Required records which hash algorithms this handshake needs to keep
// running, decided once from the negotiated cipher suite and signature
// algorithms and never retroactively narrowed.
type Required struct {
	MD5       bool
	SHA1      bool
	MD5SHA1   bool
	SHA224    bool
	SHA256    bool
	SHA384    bool
	SHA512    bool
}

// Union returns the superset of two Required sets, used when a connection
// upgrades its requirements (e.g. adding client auth mid-selection).
func (r Required) Union(other Required) Required {
	return Required{
		MD5:     r.MD5 || other.MD5,
		SHA1:    r.SHA1 || other.SHA1,
		MD5SHA1: r.MD5SHA1 || other.MD5SHA1,
		SHA224:  r.SHA224 || other.SHA224,
		SHA256:  r.SHA256 || other.SHA256,
		SHA384:  r.SHA384 || other.SHA384,
		SHA512:  r.SHA512 || other.SHA512,
	}
}

// Hashes is the set of running transcript digests for one connection.
type Hashes struct {
	required Required

	md5    hash.Hash
	sha1   hash.Hash
	sha224 hash.Hash
	sha256 hash.Hash
	sha384 hash.Hash
	sha512 hash.Hash
}

// NewHashes allocates only the hash.Hash instances the Required set calls
// for; combined md5-sha1 is synthesized from the individual md5/sha1
// instances rather than tracked separately.
func NewHashes(required Required) *Hashes {
	h := &Hashes{required: required.Union(Required{MD5SHA1: false})}
	if required.MD5 || required.MD5SHA1 {
		h.md5 = md5.New() //nolint:gosec
	}
	if required.SHA1 || required.MD5SHA1 {
		h.sha1 = sha1.New() //nolint:gosec
	}
	if required.SHA224 {
		h.sha224 = sha256.New224()
	}
	if required.SHA256 {
		h.sha256 = sha256.New()
	}
	if required.SHA384 {
		h.sha384 = sha512.New384()
	}
	if required.SHA512 {
		h.sha512 = sha512.New()
	}
	return h
}

// Update feeds a fully-reassembled handshake message (header + body) into
// every live hash, mirroring s2n_conn_update_handshake_hashes's "update
// every required digest with the same bytes" behavior.
func (h *Hashes) Update(data []byte) {
	for _, w := range []io.Writer{h.md5, h.sha1, h.sha224, h.sha256, h.sha384, h.sha512} {
		if w != nil {
			_, _ = w.Write(data)
		}
	}
}

// MD5SHA1 returns the concatenation of the current MD5 and SHA1 digests,
// the TLS 1.0/1.1 "handshake_messages" hash used by the Finished PRF and
// the RSA CertificateVerify signature.
func (h *Hashes) MD5SHA1() []byte {
	if h.md5 == nil || h.sha1 == nil {
		return nil
	}
	out := h.md5.Sum(nil)
	return h.sha1.Sum(out)
}

// SHA256 returns the current SHA-256 digest, the default TLS 1.2 PRF hash.
func (h *Hashes) SHA256() []byte {
	if h.sha256 == nil {
		return nil
	}
	return h.sha256.Sum(nil)
}

// SHA384 returns the current SHA-384 digest, used by TLS 1.2 cipher suites
// whose PRF hash is SHA-384.
func (h *Hashes) SHA384() []byte {
	if h.sha384 == nil {
		return nil
	}
	return h.sha384.Sum(nil)
}

// Sum returns the digest appropriate for the given PRF hash name ("sha256",
// "sha384", or the legacy "md5sha1"), matching whichever of those Required
// requested at construction.
func (h *Hashes) Sum(prfHash string) []byte {
	switch prfHash {
	case "sha384":
		return h.SHA384()
	case "md5sha1":
		return h.MD5SHA1()
	default:
		return h.SHA256()
	}
}
