// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshakeio

import (
	"github.com/wlm328cs/tlshandshake/pkg/protocol"
	"github.com/wlm328cs/tlshandshake/pkg/protocol/handshake"
)

// Handler invokes the Endpoint method responsible for sending or receiving
// one MessageKind, once the progression engine has decided it's that
// message's turn.
type Handler func(c *Conn) error

// MessageDescriptor is the immutable, process-wide description of one
// message kind: which record type it rides on, which handshake wire type
// it marshals to (zero for non-handshake record types), which role sends
// it, and the send/recv handler for each role.
type MessageDescriptor struct {
	Kind       MessageKind
	RecordType protocol.ContentType
	WireType   handshake.Type
	Writer     Role
	Handler    [2]Handler
}

var catalog [ApplicationData + 1]MessageDescriptor

// handshakeEntry registers a handshake-record-typed message: one side
// builds and sends it through the Endpoint, the other receives, unmarshals,
// and hands it to the Endpoint for validation.
func handshakeEntry(kind MessageKind, wireType handshake.Type, writer Role) MessageDescriptor {
	d := MessageDescriptor{Kind: kind, RecordType: protocol.ContentTypeHandshake, WireType: wireType, Writer: writer}
	d.Handler[roleIndex(writer)] = func(c *Conn) error { return c.sendHandshakeMessage(kind) }
	d.Handler[roleIndex(peerOf(writer))] = func(c *Conn) error { return c.recvHandshakeMessage(kind) }
	return d
}

// changeCipherSpecEntry registers one direction's ChangeCipherSpec. It is
// its own record content type, carries a fixed single-byte body, and is
// never run through the handshake hash (RFC 5246 Section 7.1).
func changeCipherSpecEntry(kind MessageKind, writer Role) MessageDescriptor {
	d := MessageDescriptor{Kind: kind, RecordType: protocol.ContentTypeChangeCipherSpec, Writer: writer}
	d.Handler[roleIndex(writer)] = func(c *Conn) error { return c.sendChangeCipherSpec(kind) }
	d.Handler[roleIndex(peerOf(writer))] = func(c *Conn) error { return c.recvChangeCipherSpec(kind) }
	return d
}

func peerOf(r Role) Role {
	if r == RoleClient {
		return RoleServer
	}
	return RoleClient
}

func init() {
	catalog[ClientHello] = handshakeEntry(ClientHello, handshake.TypeClientHello, RoleClient)
	catalog[ServerHello] = handshakeEntry(ServerHello, handshake.TypeServerHello, RoleServer)
	catalog[ServerNewSessionTicket] = handshakeEntry(ServerNewSessionTicket, handshake.TypeNewSessionTicket, RoleServer)
	catalog[ServerCertStatus] = handshakeEntry(ServerCertStatus, handshake.TypeCertificateStatus, RoleServer)
	catalog[ServerCert] = handshakeEntry(ServerCert, handshake.TypeCertificate, RoleServer)
	catalog[ServerKey] = handshakeEntry(ServerKey, handshake.TypeServerKeyExchange, RoleServer)
	catalog[ServerCertReq] = handshakeEntry(ServerCertReq, handshake.TypeCertificateRequest, RoleServer)
	catalog[ServerHelloDone] = handshakeEntry(ServerHelloDone, handshake.TypeServerHelloDone, RoleServer)
	catalog[ClientCert] = handshakeEntry(ClientCert, handshake.TypeCertificate, RoleClient)
	catalog[ClientKey] = handshakeEntry(ClientKey, handshake.TypeClientKeyExchange, RoleClient)
	catalog[ClientCertVerify] = handshakeEntry(ClientCertVerify, handshake.TypeCertificateVerify, RoleClient)
	catalog[ClientChangeCipherSpec] = changeCipherSpecEntry(ClientChangeCipherSpec, RoleClient)
	catalog[ClientFinished] = handshakeEntry(ClientFinished, handshake.TypeFinished, RoleClient)
	catalog[ServerChangeCipherSpec] = changeCipherSpecEntry(ServerChangeCipherSpec, RoleServer)
	catalog[ServerFinished] = handshakeEntry(ServerFinished, handshake.TypeFinished, RoleServer)
	catalog[ApplicationData] = MessageDescriptor{Kind: ApplicationData, RecordType: protocol.ContentTypeApplicationData, Writer: RoleBoth}
}

// Descriptor returns the immutable catalog entry for kind.
func Descriptor(kind MessageKind) MessageDescriptor {
	return catalog[kind]
}
