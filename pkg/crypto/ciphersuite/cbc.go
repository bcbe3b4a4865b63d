// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package ciphersuite

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"hash"

	"github.com/wlm328cs/tlshandshake/pkg/protocol"
)

var (
	errInvalidMAC     = errors.New("ciphersuite: invalid record MAC")
	errInvalidPadding = errors.New("ciphersuite: invalid CBC padding")
	errShortCiphertext = errors.New("ciphersuite: ciphertext shorter than IV+MAC")
)

// CBC implements AES-CBC with an HMAC-SHA256 MAC-then-encrypt suite, RFC
// 5246 Section 6.2.3.2. It is not AEAD: MAC and cipher operate over the
// plaintext and ciphertext respectively, each record carrying its own
// random explicit IV (TLS 1.1+).
type CBC struct {
	localBlock, remoteBlock cipher.Block
	localMACKey, remoteMACKey []byte
	hashFn                  func() hash.Hash
	macLength               int
}

// NewCBC constructs a CBC suite from the PRF-derived write keys/MAC keys.
func NewCBC(localKey, remoteKey, localMACKey, remoteMACKey []byte) (*CBC, error) {
	localBlock, err := aes.NewCipher(localKey)
	if err != nil {
		return nil, err
	}
	remoteBlock, err := aes.NewCipher(remoteKey)
	if err != nil {
		return nil, err
	}
	return &CBC{
		localBlock: localBlock, remoteBlock: remoteBlock,
		localMACKey: localMACKey, remoteMACKey: remoteMACKey,
		hashFn: sha256.New, macLength: sha256.Size,
	}, nil
}

// Overhead is the worst-case bytes CBC adds: IV, MAC, and up to a full
// block of padding.
func (c *CBC) Overhead() int { return aes.BlockSize + c.macLength + aes.BlockSize }

// Encrypt MACs, pads, and CBC-encrypts one record's plaintext, prefixing a
// fresh random IV.
func (c *CBC) Encrypt(seq uint64, contentType protocol.ContentType, version protocol.Version, plaintext []byte) ([]byte, error) {
	mac := c.computeMAC(c.localMACKey, seq, contentType, version, plaintext)
	padded := append(append([]byte{}, plaintext...), mac...)
	padded = pad(padded, aes.BlockSize)

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}

	out := make([]byte, aes.BlockSize+len(padded))
	copy(out, iv)
	cipher.NewCBCEncrypter(c.localBlock, iv).CryptBlocks(out[aes.BlockSize:], padded)
	return out, nil
}

// Decrypt CBC-decrypts, strips padding, and verifies the MAC of one
// record's ciphertext.
func (c *CBC) Decrypt(seq uint64, contentType protocol.ContentType, version protocol.Version, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < aes.BlockSize+c.macLength {
		return nil, errShortCiphertext
	}
	iv := ciphertext[:aes.BlockSize]
	body := append([]byte{}, ciphertext[aes.BlockSize:]...)
	if len(body)%aes.BlockSize != 0 {
		return nil, errShortCiphertext
	}
	cipher.NewCBCDecrypter(c.remoteBlock, iv).CryptBlocks(body, body)

	unpadded, err := unpad(body)
	if err != nil {
		return nil, err
	}
	if len(unpadded) < c.macLength {
		return nil, errInvalidMAC
	}
	plaintext, gotMAC := unpadded[:len(unpadded)-c.macLength], unpadded[len(unpadded)-c.macLength:]

	wantMAC := c.computeMAC(c.remoteMACKey, seq, contentType, version, plaintext)
	if !hmac.Equal(wantMAC, gotMAC) {
		return nil, errInvalidMAC
	}
	return plaintext, nil
}

func (c *CBC) computeMAC(key []byte, seq uint64, contentType protocol.ContentType, version protocol.Version, plaintext []byte) []byte {
	h := hmac.New(c.hashFn, key)
	h.Write(generateAdditionalData(seq, contentType, version, len(plaintext)))
	h.Write(plaintext)
	return h.Sum(nil)
}

func pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padding := make([]byte, padLen)
	for i := range padding {
		padding[i] = byte(padLen - 1)
	}
	return append(data, padding...)
}

func unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errInvalidPadding
	}
	padLen := int(data[len(data)-1]) + 1
	if padLen > len(data) {
		return nil, errInvalidPadding
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen-1 {
			return nil, errInvalidPadding
		}
	}
	return data[:len(data)-padLen], nil
}
