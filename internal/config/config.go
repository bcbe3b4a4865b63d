// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package config holds the connection/endpoint configuration handshakeio's
// collaborators are built from: which cipher suites to offer,
// the client-auth policy, session cache/ticket settings, and the logger
// factory. A narrow, Validate-checked Config is built once; individual
// collaborators pull the fields they need out of it.
package config

import (
	"crypto/tls"
	"errors"
	"time"

	"github.com/pion/logging"

	"github.com/wlm328cs/tlshandshake/handshakeio"
	"github.com/wlm328cs/tlshandshake/pkg/crypto/ciphersuite"
)

var (
	errNoCertificates      = errors.New("config: server config requires at least one certificate")
	errNoCipherSuites      = errors.New("config: at least one cipher suite must be enabled")
	errClientAuthNeedsPool = errors.New("config: client auth mode requires a client CA pool")
)

// Config is the user-facing set of knobs for one endpoint. A server Config
// and a client Config share this type; fields only one side uses are
// simply left zero on the other (e.g. Certificates on a client Config).
type Config struct {
	// Certificates are this endpoint's own certificate chain(s), offered
	// in ServerCert/ClientCert.
	Certificates []tls.Certificate

	// ClientCAs validates a peer certificate when ClientAuth is not
	// ClientAuthNone (server) or always (client, validating the server).
	ClientCAs []byte

	// ClientAuth is the server's client-certificate policy. Ignored on a
	// client Config.
	ClientAuth handshakeio.ClientAuthMode

	// CipherSuites lists the enabled suite IDs in preference order; nil
	// means "use ciphersuite.SupportedIDs()".
	CipherSuites []uint16

	// SessionTicketsDisabled turns off RFC 5077 ticket issuance even when
	// the peer offered the extension.
	SessionTicketsDisabled bool

	// SessionTicketTTL bounds how long a minted ticket remains acceptable
	// to Decrypt.
	SessionTicketTTL time.Duration

	// OCSPStaple, when non-nil, is stapled into ServerCertStatus whenever
	// the peer's ClientHello requested status_request.
	OCSPStaple []byte

	// LoggerFactory builds the logging.LeveledLogger each Conn logs
	// through; nil means logging.NewDefaultLoggerFactory().
	LoggerFactory logging.LoggerFactory
}

// Validate checks a server (isServer) or client Config for the combinations
// that would make a running handshake fail deterministically rather than
// surfacing a clear startup error.
func Validate(c *Config, isServer bool) error {
	if isServer && len(c.Certificates) == 0 {
		return errNoCertificates
	}
	if len(c.enabledSuites()) == 0 {
		return errNoCipherSuites
	}
	if isServer && c.ClientAuth != handshakeio.ClientAuthNone && len(c.ClientCAs) == 0 {
		return errClientAuthNeedsPool
	}
	return nil
}

func (c *Config) enabledSuites() []uint16 {
	if len(c.CipherSuites) > 0 {
		return c.CipherSuites
	}
	return ciphersuite.SupportedIDs()
}

// Logger returns this Config's logger for the given scope name, building a
// default logger factory if none was configured.
func (c *Config) Logger(scope string) logging.LeveledLogger {
	factory := c.LoggerFactory
	if factory == nil {
		factory = logging.NewDefaultLoggerFactory()
	}
	return factory.NewLogger(scope)
}
