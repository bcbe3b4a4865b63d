// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshakeio

import "github.com/wlm328cs/tlshandshake/pkg/protocol"

// RecordIO is the record-layer collaborator handshakeio drives: it owns
// fragmentation, MAC/AEAD protection, and the underlying transport. An
// internal/record.Conn satisfies this.
type RecordIO interface {
	// Flush drains any corked/buffered output. May return ErrBlocked
	// wrapping BlockedOnWrite if the underlying transport would block.
	Flush() error

	// Write frames and sends payload as one record (or several, if it
	// exceeds MaxWritePayload), applying the current write cipher state.
	Write(recordType protocol.ContentType, payload []byte) error

	// MaxWritePayload returns the largest plaintext payload that fits in a
	// single outgoing record under the current cipher suite.
	MaxWritePayload() int

	// ReadRecord reads and decrypts exactly one record, returning its
	// content type, payload, and whether it was framed as a legacy
	// SSLv2-compatible record rather than a normal TLS record. Returns
	// ErrBlocked wrapping BlockedOnRead if no complete record is yet
	// available.
	ReadRecord() (recordType protocol.ContentType, payload []byte, isSSLv2 bool, err error)

	// SetCorked hints to the transport whether more writes are coming
	// immediately (true) or this is the last write before a flush/read
	// (false), mirroring TCP_CORK/TCP_NOPUSH.
	SetCorked(corked bool)

	// QuickAck hints to the transport to ACK promptly, mirroring
	// TCP_QUICKACK; called on every state-machine advance.
	QuickAck()

	// ActivateWriteCipher switches the write direction to the
	// newly-negotiated cipher state; called immediately after this
	// endpoint sends ChangeCipherSpec.
	ActivateWriteCipher() error

	// ActivateReadCipher switches the read direction to the
	// newly-negotiated cipher state; called immediately after this
	// endpoint receives ChangeCipherSpec.
	ActivateReadCipher() error
}
