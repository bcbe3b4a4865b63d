// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package sessionticket implements RFC 5077 session-ticket encryption: the
// AEAD-sealed blob a server hands the client in NewSessionTicket, and the
// client later re-presents (as the ClientHello session_ticket extension or
// in place of a session ID) for the server to decrypt and resume from,
// without any server-side cache at all.
package sessionticket

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	keyNameLength = 16
	nonceLength   = chacha20poly1305.NonceSize
)

var (
	errTicketTooShort = errors.New("sessionticket: ticket too short to contain key name and nonce")
	errUnknownKeyName = errors.New("sessionticket: unrecognized ticket key name")
	errTicketExpired  = errors.New("sessionticket: ticket has expired")
)

// State is the plaintext a ticket encrypts: everything a server needs to
// resume without consulting any cache.
type State struct {
	MasterSecret []byte
	CipherSuite  uint16
	CreatedAt    int64 // unix seconds
}

// Key is one (possibly rotated) ticket-encryption key. KeyName lets a
// server recognize and reject tickets minted under a key it has since
// retired, rather than failing decryption silently.
type Key struct {
	Name   [keyNameLength]byte
	Secret [chacha20poly1305.KeySize]byte
}

// NewKey generates a fresh random ticket key with a random key name.
func NewKey() (Key, error) {
	var k Key
	if _, err := rand.Read(k.Name[:]); err != nil {
		return Key{}, err
	}
	if _, err := rand.Read(k.Secret[:]); err != nil {
		return Key{}, err
	}
	return k, nil
}

// Keyring holds the active encryption key plus any still-valid keys
// retained only for decrypting tickets minted before the last rotation.
type Keyring struct {
	Active Key
	Prior  []Key
	TTL    time.Duration
}

// Encrypt seals state into a ticket under the active key. The wire layout
// is keyName || nonce || ChaCha20-Poly1305(seal).
func (k *Keyring) Encrypt(state State) ([]byte, error) {
	aead, err := chacha20poly1305.New(k.Active.Secret[:])
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, nonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	plaintext := marshalState(state)
	sealed := aead.Seal(nil, nonce, plaintext, k.Active.Name[:])

	out := make([]byte, 0, keyNameLength+nonceLength+len(sealed))
	out = append(out, k.Active.Name[:]...)
	out = append(out, nonce...)
	out = append(out, sealed...)
	return out, nil
}

// Decrypt opens a ticket, trying the active key and then any prior keys by
// matching the embedded key name, and rejects tickets older than TTL.
// decrypt_session_ticket's contract is "succeeds or fails cleanly": on any
// failure it returns a zero State and a non-nil error.
func (k *Keyring) Decrypt(ticket []byte) (State, error) {
	if len(ticket) < keyNameLength+nonceLength {
		return State{}, errTicketTooShort
	}
	name := ticket[:keyNameLength]
	nonce := ticket[keyNameLength : keyNameLength+nonceLength]
	sealed := ticket[keyNameLength+nonceLength:]

	key, ok := k.lookupKey(name)
	if !ok {
		return State{}, errUnknownKeyName
	}

	aead, err := chacha20poly1305.New(key.Secret[:])
	if err != nil {
		return State{}, err
	}
	plaintext, err := aead.Open(nil, nonce, sealed, name)
	if err != nil {
		return State{}, err
	}

	state, err := unmarshalState(plaintext)
	if err != nil {
		return State{}, err
	}
	if k.TTL > 0 && time.Since(time.Unix(state.CreatedAt, 0)) > k.TTL {
		return State{}, errTicketExpired
	}
	return state, nil
}

func (k *Keyring) lookupKey(name []byte) (Key, bool) {
	if string(k.Active.Name[:]) == string(name) {
		return k.Active, true
	}
	for _, prior := range k.Prior {
		if string(prior.Name[:]) == string(name) {
			return prior, true
		}
	}
	return Key{}, false
}

func marshalState(s State) []byte {
	out := make([]byte, 2+8+2+len(s.MasterSecret))
	binary.BigEndian.PutUint16(out, s.CipherSuite)
	binary.BigEndian.PutUint64(out[2:], uint64(s.CreatedAt))
	binary.BigEndian.PutUint16(out[10:], uint16(len(s.MasterSecret)))
	copy(out[12:], s.MasterSecret)
	return out
}

func unmarshalState(data []byte) (State, error) {
	if len(data) < 12 {
		return State{}, errTicketTooShort
	}
	cipherSuite := binary.BigEndian.Uint16(data)
	createdAt := int64(binary.BigEndian.Uint64(data[2:]))
	secretLen := int(binary.BigEndian.Uint16(data[10:]))
	if len(data) < 12+secretLen {
		return State{}, errTicketTooShort
	}
	secret := make([]byte, secretLen)
	copy(secret, data[12:12+secretLen])
	return State{MasterSecret: secret, CipherSuite: cipherSuite, CreatedAt: createdAt}, nil
}
