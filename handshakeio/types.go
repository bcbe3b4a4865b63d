// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package handshakeio drives one endpoint of a TLS 1.0-1.2 handshake
// through its message sequence: selecting which messages a given set of
// negotiated parameters requires, framing each one over the record layer
// under arbitrary fragmentation, and feeding the running transcript hash.
// It does not itself choose cipher suites, validate certificates, or
// perform key exchange — those are injected collaborators.
package handshakeio

import "sync"

// Role identifies which endpoint is expected to send a given message.
type Role uint8

// The two endpoint roles, plus Both for messages either side may send
// (ChangeCipherSpec has independent client and server instances, but
// HelloRequest, for instance, only ever travels server-to-client).
const (
	RoleServer Role = iota
	RoleClient
	RoleBoth
)

func (r Role) String() string {
	switch r {
	case RoleServer:
		return "server"
	case RoleClient:
		return "client"
	case RoleBoth:
		return "both"
	default:
		return "unknown"
	}
}

// roleIndex maps a concrete Role to the Handler array slot used when
// dispatching: index 0 is always "the server's action", index 1 "the
// client's action" for the handshake's two participants.
func roleIndex(self Role) int {
	if self == RoleClient {
		return 1
	}
	return 0
}

// MessageKind enumerates every message this driver can place in a
// handshake sequence, RFC 5246 Section 7.3's flow plus RFC 5077's
// NewSessionTicket and RFC 6066's CertificateStatus.
type MessageKind uint8

// The full message catalog. The order of these constants is not the wire
// order; each handshake variant's order is defined by the variant table.
const (
	ClientHello MessageKind = iota
	ServerHello
	ServerNewSessionTicket
	ServerCertStatus
	ServerCert
	ServerKey
	ServerCertReq
	ServerHelloDone
	ClientCert
	ClientKey
	ClientCertVerify
	ClientChangeCipherSpec
	ClientFinished
	ServerChangeCipherSpec
	ServerFinished
	ApplicationData
)

func (m MessageKind) String() string {
	switch m {
	case ClientHello:
		return "CLIENT_HELLO"
	case ServerHello:
		return "SERVER_HELLO"
	case ServerNewSessionTicket:
		return "SERVER_NEW_SESSION_TICKET"
	case ServerCertStatus:
		return "SERVER_CERT_STATUS"
	case ServerCert:
		return "SERVER_CERT"
	case ServerKey:
		return "SERVER_KEY"
	case ServerCertReq:
		return "SERVER_CERT_REQ"
	case ServerHelloDone:
		return "SERVER_HELLO_DONE"
	case ClientCert:
		return "CLIENT_CERT"
	case ClientKey:
		return "CLIENT_KEY"
	case ClientCertVerify:
		return "CLIENT_CERT_VERIFY"
	case ClientChangeCipherSpec:
		return "CLIENT_CHANGE_CIPHER_SPEC"
	case ClientFinished:
		return "CLIENT_FINISHED"
	case ServerChangeCipherSpec:
		return "SERVER_CHANGE_CIPHER_SPEC"
	case ServerFinished:
		return "SERVER_FINISHED"
	case ApplicationData:
		return "APPLICATION_DATA"
	default:
		return "UNKNOWN"
	}
}

// HandshakeType is the bitset describing which variant of the handshake is
// in progress: whether it's a full or abbreviated handshake, and which
// optional features (client auth, OCSP stapling, PFS, session tickets) are
// layered onto it.
type HandshakeType uint16

// Initial is the zero value: no handshake type has been selected yet.
const Initial HandshakeType = 0

// Handshake type flags, directly mirroring the bitset in
// s2n_handshake_io.c's state_machine/handshakes tables.
const (
	FlagNegotiated HandshakeType = 1 << iota
	FlagFullHandshake
	FlagClientAuth
	FlagNoClientCert
	FlagPerfectForwardSecrecy
	FlagOCSPStatus
	FlagWithSessionTicket
)

var (
	handshakeTypeNames   sync.Map // HandshakeType -> string, memoized since Name() can run on every trace line
	handshakeTypeFlagTbl = []struct {
		flag HandshakeType
		name string
	}{
		{FlagNegotiated, "NEGOTIATED"},
		{FlagFullHandshake, "FULL_HANDSHAKE"},
		{FlagClientAuth, "CLIENT_AUTH"},
		{FlagNoClientCert, "NO_CLIENT_CERT"},
		{FlagPerfectForwardSecrecy, "PERFECT_FORWARD_SECRECY"},
		{FlagOCSPStatus, "OCSP_STATUS"},
		{FlagWithSessionTicket, "WITH_SESSION_TICKET"},
	}
)

// Name returns the pipe-joined list of flag names set in t, memoized the
// first time each distinct HandshakeType value is named, mirroring
// s2n_connection_get_handshake_type_name's lazily-populated lookup table.
func (t HandshakeType) Name() string {
	if t == Initial {
		return "INITIAL"
	}
	if cached, ok := handshakeTypeNames.Load(t); ok {
		return cached.(string)
	}

	name := ""
	for _, entry := range handshakeTypeFlagTbl {
		if t&entry.flag == 0 {
			continue
		}
		if name != "" {
			name += "|"
		}
		name += entry.name
	}
	handshakeTypeNames.Store(t, name)
	return name
}
