// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package demo implements handshakeio.Endpoint for a minimal RSA
// key-exchange handshake, wiring together pkg/crypto/prf,
// pkg/crypto/ciphersuite, internal/kex, internal/sessioncache, and
// internal/sessionticket end to end. It exists for cmd/handshakectl's
// smoke test and handshakeio's integration tests: a real CA-validated
// certificate chain, OCSP retrieval, and client-certificate policy
// enforcement are a separate collaborator's job, not the handshake driver's,
// so this Endpoint accepts whatever chain the peer presents.
package demo

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"math/big"
	"time"

	"github.com/wlm328cs/tlshandshake/handshakeio"
	"github.com/wlm328cs/tlshandshake/handshakeio/transcript"
	"github.com/wlm328cs/tlshandshake/internal/kex"
	"github.com/wlm328cs/tlshandshake/internal/record"
	"github.com/wlm328cs/tlshandshake/internal/sessioncache"
	"github.com/wlm328cs/tlshandshake/internal/sessionticket"
	"github.com/wlm328cs/tlshandshake/pkg/crypto/ciphersuite"
	"github.com/wlm328cs/tlshandshake/pkg/crypto/prf"
	"github.com/wlm328cs/tlshandshake/pkg/protocol"
	"github.com/wlm328cs/tlshandshake/pkg/protocol/extension"
	"github.com/wlm328cs/tlshandshake/pkg/protocol/handshake"
)

var (
	errUnexpectedKind   = errors.New("demo: Build/Process called for an unhandled MessageKind")
	errFinishedMismatch = errors.New("demo: peer verify_data does not match")
)

// Identity is one endpoint's certificate and private key, generated fresh
// for the demo rather than loaded from disk.
type Identity struct {
	Cert []byte
	Key  *rsa.PrivateKey
}

// GenerateIdentity creates a throwaway self-signed RSA identity for the
// demo harness.
func GenerateIdentity(commonName string) (*Identity, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: commonName},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, err
	}
	return &Identity{Cert: der, Key: key}, nil
}

// Endpoint implements handshakeio.Endpoint for one side of a plain RSA
// handshake (no client auth, no PFS) plus optional session-ID resumption
// via internal/sessioncache and optional ticket issuance via
// internal/sessionticket. A received ticket is not decrypted or resumed
// from.
type Endpoint struct {
	Self    handshakeio.Role
	Record  *record.Conn
	Suite   ciphersuite.Info
	Local   *Identity
	Tickets *sessionticket.Keyring
	Cache   *sessioncache.Cache

	clientRandom, serverRandom [handshake.RandomLength]byte
	peerCert                   []byte
	preMasterSecret            []byte
	masterSecret               []byte
	sessionID                  []byte
	resumed                    bool
	ciphersInstalled           bool
	transcript                 *transcript.Hashes
}

// PreloadSession seeds a resumed handshake with the session ID and master
// secret a prior connection negotiated, standing in for whatever persistent
// store a real caller would keep this in between connections.
func (e *Endpoint) PreloadSession(id, masterSecret []byte) {
	e.sessionID = id
	e.masterSecret = masterSecret
	e.resumed = true
}

// SessionID returns the session ID this connection ended up with, once
// ServerHello has been built or processed.
func (e *Endpoint) SessionID() []byte { return e.sessionID }

// MasterSecret returns the negotiated master secret, once key exchange (or
// resumption) has completed.
func (e *Endpoint) MasterSecret() []byte { return e.masterSecret }

// Build constructs the outgoing message for kind.
func (e *Endpoint) Build(kind handshakeio.MessageKind) (handshakeio.Message, error) {
	switch kind {
	case handshakeio.ClientHello:
		return e.buildClientHello()
	case handshakeio.ServerHello:
		return e.buildServerHello()
	case handshakeio.ServerCert, handshakeio.ClientCert:
		return &handshake.MessageCertificate{Certificate: [][]byte{e.Local.Cert}}, nil
	case handshakeio.ServerHelloDone:
		return &handshake.MessageServerHelloDone{}, nil
	case handshakeio.ClientKey:
		return e.buildClientKeyExchange()
	case handshakeio.ClientFinished:
		return e.buildFinished(true)
	case handshakeio.ServerFinished:
		return e.buildFinished(false)
	case handshakeio.ServerNewSessionTicket:
		return e.buildNewSessionTicket()
	default:
		return nil, errUnexpectedKind
	}
}

// Process validates a freshly-unmarshaled incoming message.
func (e *Endpoint) Process(kind handshakeio.MessageKind, msg handshakeio.Message) error {
	switch m := msg.(type) {
	case *handshake.MessageClientHello:
		e.clientRandom = m.Random.MarshalFixed()
		if len(m.SessionID) > 0 {
			if entry, ok := e.Cache.Lookup(m.SessionID); ok {
				e.masterSecret = entry.MasterSecret
				e.sessionID = m.SessionID
				e.resumed = true
			}
		}
		return nil
	case *handshake.MessageServerHello:
		e.serverRandom = m.Random.MarshalFixed()
		if e.resumed {
			// An abbreviated handshake has no ClientKeyExchange to trigger
			// deriveMasterSecret from, so install ciphers here instead, now
			// that both randoms and the cached master secret are known.
			e.sessionID = m.SessionID
			return e.installPendingCiphers()
		}
		e.sessionID = m.SessionID
		return nil
	case *handshake.MessageCertificate:
		if len(m.Certificate) == 0 {
			return errUnexpectedKind
		}
		e.peerCert = m.Certificate[0]
		return nil
	case *handshake.MessageClientKeyExchange:
		return e.consumeClientKeyExchange(m)
	case *handshake.MessageFinished:
		return e.verifyFinished(m, kind == handshakeio.ClientFinished)
	case *handshake.MessageServerHelloDone:
		return nil
	case *handshake.MessageNewSessionTicket:
		return nil
	default:
		return nil
	}
}

func (e *Endpoint) buildClientHello() (handshakeio.Message, error) {
	m := &handshake.MessageClientHello{Version: protocol.Version12}
	if err := m.Random.Populate(rand.Read); err != nil {
		return nil, err
	}
	e.clientRandom = m.Random.MarshalFixed()
	m.SessionID = e.sessionID
	m.CipherSuiteIDs = ciphersuite.SupportedIDs()
	m.CompressionMethods = []*protocol.CompressionMethod{{ID: protocol.CompressionMethodNull}}
	m.Extensions = []extension.Extension{
		&extension.SessionTicket{},
		&extension.UseExtendedMasterSecret{Supported: true},
	}
	return m, nil
}

func (e *Endpoint) buildServerHello() (handshakeio.Message, error) {
	m := &handshake.MessageServerHello{Version: protocol.Version12}
	if err := m.Random.Populate(rand.Read); err != nil {
		return nil, err
	}
	e.serverRandom = m.Random.MarshalFixed()

	if e.sessionID == nil {
		id, err := sessioncache.NewSessionID()
		if err != nil {
			return nil, err
		}
		e.sessionID = id
	}
	m.SessionID = e.sessionID

	id := e.Suite.ID
	m.CipherSuiteID = &id
	m.CompressionMethod = &protocol.CompressionMethod{ID: protocol.CompressionMethodNull}

	if e.resumed {
		// The server side of an abbreviated handshake sends its
		// ChangeCipherSpec right after ServerHello, so install ciphers now
		// that both randoms and the cached master secret are known.
		if err := e.installPendingCiphers(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (e *Endpoint) buildClientKeyExchange() (handshakeio.Message, error) {
	peerKey, err := parseRSAPublicKey(e.peerCert)
	if err != nil {
		return nil, err
	}
	secret, encrypted, err := kex.RSAPreMasterSecret(peerKey, protocol.Version12.Major, protocol.Version12.Minor)
	if err != nil {
		return nil, err
	}
	e.preMasterSecret = secret
	if err := e.deriveMasterSecret(); err != nil {
		return nil, err
	}
	return &handshake.MessageClientKeyExchange{PublicKey: encrypted}, nil
}

func (e *Endpoint) consumeClientKeyExchange(m *handshake.MessageClientKeyExchange) error {
	secret, err := kex.DecryptRSAPreMasterSecret(e.Local.Key, m.PublicKey)
	if err != nil {
		// Bleichenbacher mitigation: continue with a random secret rather
		// than surfacing the decryption failure, so the handshake fails
		// only later, at Finished verification.
		secret = make([]byte, 48)
		if _, randErr := rand.Read(secret); randErr != nil {
			return randErr
		}
	}
	e.preMasterSecret = secret
	return e.deriveMasterSecret()
}

func (e *Endpoint) deriveMasterSecret() error {
	if !e.resumed {
		ms, err := masterSecretForSuite(e.Suite, e.preMasterSecret, e.clientRandom[:], e.serverRandom[:])
		if err != nil {
			return err
		}
		e.masterSecret = ms
		if e.Self == handshakeio.RoleServer {
			e.Cache.Put(e.sessionID, sessioncache.Entry{MasterSecret: ms, CipherSuite: e.Suite.ID})
		}
	}
	return e.installPendingCiphers()
}

// installPendingCiphers runs TLS 1.2 key expansion over the now-known
// master secret and both hello randoms, builds this suite's bulk cipher,
// and installs it as the pending cipher in both directions: a single CBC or
// GCM instance handles both Encrypt (as "local") and Decrypt (as "remote"),
// so the same value backs both the write and read epoch.
func (e *Endpoint) installPendingCiphers() error {
	if e.ciphersInstalled {
		return nil
	}
	keys, err := prf.GenerateEncryptionKeys(
		e.masterSecret, e.clientRandom[:], e.serverRandom[:],
		e.Suite.MACKeyLength, e.Suite.KeyLength, e.Suite.IVLength, hashFuncForPRF(e.Suite.PRFHash),
	)
	if err != nil {
		return err
	}

	var suite ciphersuite.AEAD
	if e.Suite.AEAD {
		if e.Self == handshakeio.RoleClient {
			suite, err = ciphersuite.NewGCM(keys.ClientWriteKey, keys.ClientWriteIV, keys.ServerWriteKey, keys.ServerWriteIV)
		} else {
			suite, err = ciphersuite.NewGCM(keys.ServerWriteKey, keys.ServerWriteIV, keys.ClientWriteKey, keys.ClientWriteIV)
		}
	} else {
		if e.Self == handshakeio.RoleClient {
			suite, err = ciphersuite.NewCBC(keys.ClientWriteKey, keys.ServerWriteKey, keys.ClientMACKey, keys.ServerMACKey)
		} else {
			suite, err = ciphersuite.NewCBC(keys.ServerWriteKey, keys.ClientWriteKey, keys.ServerMACKey, keys.ClientMACKey)
		}
	}
	if err != nil {
		return err
	}

	e.Record.SetPendingCipher(true, suite)
	e.Record.SetPendingCipher(false, suite)
	e.ciphersInstalled = true
	return nil
}

func (e *Endpoint) buildFinished(wantClientLabel bool) (handshakeio.Message, error) {
	data, err := e.finishedVerifyData(wantClientLabel)
	if err != nil {
		return nil, err
	}
	return &handshake.MessageFinished{VerifyData: data}, nil
}

func (e *Endpoint) verifyFinished(m *handshake.MessageFinished, fromClient bool) error {
	want, err := e.finishedVerifyData(fromClient)
	if err != nil {
		return err
	}
	if !constantTimeEqual(want, m.VerifyData) {
		return errFinishedMismatch
	}
	return nil
}

func (e *Endpoint) finishedVerifyData(clientLabel bool) ([]byte, error) {
	sum := e.transcriptDigest()
	hashFunc := hashFuncForPRF(e.Suite.PRFHash)
	if clientLabel {
		return prf.VerifyDataClient(e.masterSecret, sum, hashFunc)
	}
	return prf.VerifyDataServer(e.masterSecret, sum, hashFunc)
}

// transcriptDigest is filled in by SetTranscript once handshakeio has the
// running Transcript available; kept as a separate hook so Endpoint itself
// never needs a circular import on *handshakeio.Conn.
func (e *Endpoint) transcriptDigest() []byte {
	if e.transcript == nil {
		return nil
	}
	return e.transcript.Sum(e.Suite.PRFHash)
}

// SetTranscript wires the live *transcript.Hashes the owning Conn
// maintains; called once, before the owning Conn starts negotiating.
func (e *Endpoint) SetTranscript(t *transcript.Hashes) { e.transcript = t }

func (e *Endpoint) buildNewSessionTicket() (handshakeio.Message, error) {
	ticket, err := e.Tickets.Encrypt(sessionticket.State{
		MasterSecret: e.masterSecret,
		CipherSuite:  e.Suite.ID,
		CreatedAt:    time.Now().Unix(),
	})
	if err != nil {
		return nil, err
	}
	return &handshake.MessageNewSessionTicket{Ticket: ticket}, nil
}
