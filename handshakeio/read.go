// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshakeio

import (
	"github.com/wlm328cs/tlshandshake/pkg/protocol"
	"github.com/wlm328cs/tlshandshake/pkg/protocol/alert"
	"github.com/wlm328cs/tlshandshake/pkg/protocol/changecipherspec"
	"github.com/wlm328cs/tlshandshake/pkg/protocol/handshake"
)

// MaxHandshakeMessageLength bounds a single handshake message's declared
// length. Large enough for any realistic certificate chain, small enough
// that a malicious length field can't be used to force an unbounded
// allocation.
const MaxHandshakeMessageLength = 1 << 20

// recvHandshakeMessage reassembles one handshake message out of as many
// records as it takes, applies the two state-machine repairs if the wire
// type doesn't match what was expected, hands the message to the Endpoint,
// then hashes the full message, and advances.
func (c *Conn) recvHandshakeMessage(kind MessageKind) error {
	for len(c.pending) < handshake.HeaderLength {
		if err := c.readOneRecord(); err != nil {
			return err
		}
	}

	var header handshake.Header
	if err := header.Unmarshal(c.pending); err != nil {
		return err
	}
	if header.Length > MaxHandshakeMessageLength {
		return ErrHandshakeTooLong
	}

	total := handshake.HeaderLength + int(header.Length)
	for len(c.pending) < total {
		if err := c.readOneRecord(); err != nil {
			return err
		}
	}

	if header.Type != Descriptor(kind).WireType {
		if !c.tryRepair(header.Type) {
			return ErrBadMessage
		}
		kind = c.CurrentMessageType()
		total = handshake.HeaderLength + int(header.Length)
	}

	msg := messageFor(kind)
	if msg == nil {
		return ErrBadMessage
	}
	if err := msg.Unmarshal(c.pending[handshake.HeaderLength:total]); err != nil {
		return err
	}

	// The Endpoint validates this message (and, for Finished, computes its
	// own verify_data to compare against) before the transcript is updated
	// with the message's own bytes: Finished's verify_data covers every
	// handshake message that preceded it, never itself.
	if err := c.Endpoint.Process(kind, msg); err != nil {
		return err
	}

	c.Transcript.Update(c.pending[:total])
	c.pending = c.pending[total:]

	c.advance()
	return nil
}

// tryRepair applies the two client-side state-machine corrections s2n's
// handshake_read_io makes before rejecting a mismatched message type: a
// server that unexpectedly requests a client certificate upgrades this
// connection's handshake type to CLIENT_AUTH, and a server that skips the
// OCSP-stapled CertificateStatus this connection expected clears
// OCSP_STATUS. Both only ever affect the message at the *current* cursor
// position, so messageNumber itself never needs to change.
func (c *Conn) tryRepair(gotWireType handshake.Type) bool {
	if c.Self != RoleClient {
		return false
	}

	switch {
	case c.CurrentMessageType() == ServerHelloDone &&
		gotWireType == handshake.TypeCertificateRequest &&
		c.handshakeType&FlagClientAuth == 0:
		next := c.handshakeType | FlagClientAuth
		seq := SequenceOf(next)
		if seq == nil {
			return false
		}
		c.handshakeType, c.sequence = next, seq
		return Descriptor(c.CurrentMessageType()).WireType == gotWireType

	case c.CurrentMessageType() == ServerCertStatus &&
		gotWireType != handshake.TypeCertificateStatus &&
		c.handshakeType&FlagOCSPStatus != 0:
		next := c.handshakeType &^ FlagOCSPStatus
		seq := SequenceOf(next)
		if seq == nil {
			return false
		}
		c.handshakeType, c.sequence = next, seq
		return Descriptor(c.CurrentMessageType()).WireType == gotWireType

	default:
		return false
	}
}

// recordResult is one dispatched record, as classified by dispatchRecord.
type recordResult struct {
	contentType protocol.ContentType
	payload     []byte
}

// dispatchRecord reads exactly one record from Record and classifies it:
// an SSLv2-style ClientHello is only tolerated at CLIENT_HELLO (and is
// terminal there, since this driver has no SSLv2 handler); an Alert is
// always converted to an *AlertError, regardless of which caller was
// expecting what. Any other content type is returned unclassified for the
// caller to switch on.
func (c *Conn) dispatchRecord() (recordResult, error) {
	contentType, payload, isSSLv2, err := c.Record.ReadRecord()
	if err != nil {
		return recordResult{}, err
	}

	if isSSLv2 {
		if c.CurrentMessageType() != ClientHello {
			return recordResult{}, ErrBadMessage
		}
		return recordResult{}, ErrSSLv2Unsupported
	}

	if contentType == protocol.ContentTypeAlert {
		var a alert.Alert
		if err := a.Unmarshal(payload); err != nil {
			return recordResult{}, err
		}
		return recordResult{}, &AlertError{Alert: &a}
	}

	return recordResult{contentType: contentType, payload: payload}, nil
}

// readOneRecord pulls one more record from Record, dispatching
// ChangeCipherSpec/ApplicationData/unknown content types and appending
// handshake-content-type payloads to c.pending. It loops internally past
// unknown records since they don't advance the handshake message cursor on
// their own.
func (c *Conn) readOneRecord() error {
	for {
		result, err := c.dispatchRecord()
		if err != nil {
			return err
		}

		switch result.contentType {
		case protocol.ContentTypeHandshake:
			c.pending = append(c.pending, result.payload...)
			return nil
		case protocol.ContentTypeApplicationData:
			return ErrBadMessage
		case protocol.ContentTypeChangeCipherSpec:
			// Only valid when the progression engine is expecting it;
			// recvChangeCipherSpec reads it directly rather than through
			// this loop, so seeing one here means it arrived out of turn.
			return ErrBadMessage
		default:
			// Unknown content types are silently dropped, matching
			// handshake_read_io's default case.
			continue
		}
	}
}

// recvChangeCipherSpec reads the fixed single-byte ChangeCipherSpec body
// directly (it is never folded into the transcript hash and never
// fragmented), activates this endpoint's read cipher, and advances.
func (c *Conn) recvChangeCipherSpec(kind MessageKind) error {
	result, err := c.dispatchRecord()
	if err != nil {
		return err
	}
	if result.contentType != protocol.ContentTypeChangeCipherSpec {
		return ErrBadMessage
	}
	var ccs changecipherspec.ChangeCipherSpec
	if err := ccs.Unmarshal(result.payload); err != nil {
		return err
	}
	if err := c.Record.ActivateReadCipher(); err != nil {
		return err
	}
	c.advance()
	return nil
}

func messageFor(kind MessageKind) Message {
	switch kind {
	case ClientHello:
		return &handshake.MessageClientHello{}
	case ServerHello:
		return &handshake.MessageServerHello{}
	case ServerNewSessionTicket:
		return &handshake.MessageNewSessionTicket{}
	case ServerCertStatus:
		return &handshake.MessageCertificateStatus{}
	case ServerCert, ClientCert:
		return &handshake.MessageCertificate{}
	case ServerKey:
		return &handshake.MessageServerKeyExchange{}
	case ServerCertReq:
		return &handshake.MessageCertificateRequest{}
	case ServerHelloDone:
		return &handshake.MessageServerHelloDone{}
	case ClientKey:
		return &handshake.MessageClientKeyExchange{}
	case ClientCertVerify:
		return &handshake.MessageCertificateVerify{}
	case ClientFinished, ServerFinished:
		return &handshake.MessageFinished{}
	default:
		return nil
	}
}
