// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshakeio

import (
	"github.com/pion/logging"

	"github.com/wlm328cs/tlshandshake/handshakeio/transcript"
)

// ClientAuthMode controls whether a server requests a client certificate,
// and whether the client is allowed to decline.
type ClientAuthMode uint8

// Client auth modes a server connection can be configured with.
const (
	ClientAuthNone ClientAuthMode = iota
	ClientAuthOptional
	ClientAuthRequired
)

// Params is everything SetHandshakeType needs to pick a variant: the
// negotiated parameters, decided by code outside handshakeio (cipher suite
// selection, session cache lookup, client-auth policy).
type Params struct {
	// Resumed is true when the server found the client's offered session
	// ID (or decrypted ticket) in its cache and is resuming rather than
	// running a full handshake.
	Resumed bool

	// Ephemeral is true when the negotiated cipher suite's key exchange is
	// ephemeral (DHE/ECDHE), requiring a ServerKeyExchange message.
	Ephemeral bool

	// OCSPStatusAvailable is true when the server has a stapled OCSP
	// response ready for the certificate it's about to send and the client
	// requested status_request.
	OCSPStatusAvailable bool

	// ClientAuth is this connection's configured client-auth policy.
	ClientAuth ClientAuthMode

	// IssueSessionTicket is true when this connection should include a
	// NewSessionTicket message (RFC 5077), whether this is a full or
	// abbreviated handshake.
	IssueSessionTicket bool
}

// Conn drives one endpoint through a TLS 1.0-1.2 handshake: selecting the
// message sequence, framing each message over Record, and feeding
// Transcript. It holds no application-data state and is discarded once the
// handshake completes.
type Conn struct {
	Self     Role
	Record   RecordIO
	Endpoint Endpoint
	Log      logging.LeveledLogger

	handshakeType HandshakeType
	sequence      []MessageKind
	messageNumber int

	Transcript *transcript.Hashes

	// pending buffers handshake-content-type record payloads that have
	// arrived but don't yet add up to one complete message.
	pending []byte

	// pendingOutput holds the framed, already-transcript-hashed bytes of
	// the outgoing message currently being sent, from the point
	// sendHandshakeMessage builds it until writeFragmented finishes
	// writing it out. A blocked write leaves it set so a retried
	// Negotiate call resumes writing the same bytes instead of rebuilding
	// (and re-hashing) the message.
	pendingOutput []byte

	// corked tracks whether the last advance() left the transport corked,
	// so advance() only (un)corks on an actual writer-role transition,
	// mirroring s2n_advance_message's no-op-if-writer-unchanged rule.
	corked     bool
	lastWriter Role
	haveWriter bool

	sessionCache       SessionCache
	allocatedSessionID []byte
}

// NewConn constructs a Conn in its INITIAL state. Callers call
// SetHandshakeType with the negotiation parameters (cipher suite
// ephemerality, resumption, client-auth mode) before the first call to
// Negotiate.
func NewConn(self Role, record RecordIO, endpoint Endpoint, log logging.LeveledLogger) *Conn {
	return &Conn{Self: self, Record: record, Endpoint: endpoint, Log: log, handshakeType: Initial}
}

// HandshakeType returns the connection's current handshake type bitset.
func (c *Conn) HandshakeType() HandshakeType { return c.handshakeType }

// HandshakeTypeName returns the memoized pipe-joined flag name for the
// connection's current handshake type.
func (c *Conn) HandshakeTypeName() string { return c.handshakeType.Name() }

// SetHandshakeType seeds NEGOTIATED and layers on FULL_HANDSHAKE,
// PERFECT_FORWARD_SECRECY, OCSP_STATUS, and CLIENT_AUTH according to
// params, then looks up the resulting sequence. It must be called before
// the first call to Negotiate; calling it again before any message has been
// exchanged recomputes the type from the new params. Calling it once the
// handshake has started, with any params, is a driver bug and panics,
// matching handshakeio's internal-assertion posture for violations that can
// only come from the local caller, never the peer.
func (c *Conn) SetHandshakeType(params Params) error {
	if c.messageNumber != 0 {
		panic("handshakeio: SetHandshakeType called after handshake started")
	}

	ht := FlagNegotiated
	if !params.Resumed {
		ht |= FlagFullHandshake
		if params.ClientAuth != ClientAuthNone {
			ht |= FlagClientAuth
		}
		if params.Ephemeral {
			ht |= FlagPerfectForwardSecrecy
		}
		if params.OCSPStatusAvailable {
			ht |= FlagOCSPStatus
		}
	}
	if params.IssueSessionTicket {
		ht |= FlagWithSessionTicket
	}

	seq := SequenceOf(ht)
	if seq == nil {
		return ErrBadMessage
	}
	c.handshakeType = ht
	c.sequence = seq
	return nil
}

// DowngradeToNoClientCert adds NO_CLIENT_CERT to the handshake type when a
// client declines an optional certificate request, recomputing the
// sequence so the upcoming ClientCertVerify message is skipped. It fails if
// the handshake type does not carry CLIENT_AUTH. The Conn does not record
// whether client auth was REQUIRED or OPTIONAL, so a REQUIRED connection is
// not rejected here.
func (c *Conn) DowngradeToNoClientCert() error {
	if c.handshakeType&FlagClientAuth == 0 {
		return ErrBadMessage
	}
	next := c.handshakeType | FlagNoClientCert
	seq := SequenceOf(next)
	if seq == nil {
		return ErrBadMessage
	}
	c.handshakeType = next
	c.sequence = seq
	return nil
}

// CurrentMessageType returns the MessageKind the progression engine expects
// to send or receive next, or ApplicationData once the sequence is
// exhausted (meaning the handshake is complete).
func (c *Conn) CurrentMessageType() MessageKind {
	if c.messageNumber >= len(c.sequence) {
		return ApplicationData
	}
	return c.sequence[c.messageNumber]
}

// LastMessageName returns the name of the most recently completed message,
// or "" before the first message.
func (c *Conn) LastMessageName() string {
	if c.messageNumber == 0 || c.messageNumber > len(c.sequence) {
		return ""
	}
	return c.sequence[c.messageNumber-1].String()
}

// writerOf reports which Role is expected to send the connection's current
// message; BlockedOnWrite/BlockedOnRead in Negotiate and the cork/quickack
// hints in advance are all derived from comparing this to c.Self.
func (c *Conn) writerOf(kind MessageKind) Role {
	if kind == ApplicationData {
		return RoleBoth
	}
	return Descriptor(kind).Writer
}

// advance increments the message cursor, issues a QuickAck on every call
// (s2n_advance_message does this unconditionally), and (un)corks the
// transport only on an actual writer-role transition — never on every
// message. A transition to this endpoint corks; a transition to the peer or
// to RoleBoth (handshake complete) uncorks.
func (c *Conn) advance() {
	c.messageNumber++
	c.Record.QuickAck()

	next := c.writerOf(c.CurrentMessageType())
	if c.haveWriter && next == c.lastWriter {
		return
	}
	c.haveWriter = true
	c.lastWriter = next

	switch next {
	case c.Self:
		c.Record.SetCorked(true)
		c.corked = true
	default:
		if c.corked {
			c.Record.SetCorked(false)
			c.corked = false
		}
	}
}
