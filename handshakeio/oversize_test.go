// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshakeio

import (
	"errors"
	"io"
	"testing"

	"github.com/wlm328cs/tlshandshake/handshakeio/transcript"
	"github.com/wlm328cs/tlshandshake/pkg/protocol"
	"github.com/wlm328cs/tlshandshake/pkg/protocol/handshake"
)

// fakeRecord is one canned ReadRecord result.
type fakeRecord struct {
	contentType protocol.ContentType
	payload     []byte
	isSSLv2     bool
}

// fakeRecordIO serves a fixed list of records and discards writes, letting
// read-path tests exercise Conn without a real transport.
type fakeRecordIO struct {
	records []fakeRecord
	idx     int
}

func (f *fakeRecordIO) Flush() error { return nil }
func (f *fakeRecordIO) Write(protocol.ContentType, []byte) error { return nil }
func (f *fakeRecordIO) MaxWritePayload() int { return 1 << 14 }

func (f *fakeRecordIO) ReadRecord() (protocol.ContentType, []byte, bool, error) {
	if f.idx >= len(f.records) {
		return 0, nil, false, io.EOF
	}
	r := f.records[f.idx]
	f.idx++
	return r.contentType, r.payload, r.isSSLv2, nil
}

func (f *fakeRecordIO) SetCorked(bool)           {}
func (f *fakeRecordIO) QuickAck()                {}
func (f *fakeRecordIO) ActivateWriteCipher() error { return nil }
func (f *fakeRecordIO) ActivateReadCipher() error  { return nil }

// TestRecvHandshakeMessageRejectsOversizeLength checks a handshake header
// whose declared length exceeds MaxHandshakeMessageLength is rejected
// before any attempt to buffer its body, so a malicious peer can't force an
// unbounded allocation.
func TestRecvHandshakeMessageRejectsOversizeLength(t *testing.T) {
	header := handshake.Header{Type: handshake.TypeClientHello, Length: MaxHandshakeMessageLength + 1}
	headerBytes, err := header.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	io := &fakeRecordIO{records: []fakeRecord{{contentType: protocol.ContentTypeHandshake, payload: headerBytes}}}
	c := NewConn(RoleServer, io, nopEndpoint{}, nil)
	c.Transcript = transcript.NewHashes(transcript.Required{SHA256: true})
	if err := c.SetHandshakeType(Params{}); err != nil {
		t.Fatal(err)
	}

	var blocked Blocked
	err = c.Negotiate(&blocked)
	if !errors.Is(err, ErrHandshakeTooLong) {
		t.Fatalf("Negotiate() error = %v, want ErrHandshakeTooLong", err)
	}
}

// TestRecvHandshakeMessageRejectsUnexpectedWireType covers a peer sending a
// well-formed message of the wrong type, with none of tryRepair's two
// state-machine corrections applicable.
func TestRecvHandshakeMessageRejectsUnexpectedWireType(t *testing.T) {
	body := []byte{}
	header := handshake.Header{Type: handshake.TypeServerHelloDone, Length: uint32(len(body))}
	headerBytes, err := header.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	io := &fakeRecordIO{records: []fakeRecord{{contentType: protocol.ContentTypeHandshake, payload: append(headerBytes, body...)}}}
	c := NewConn(RoleServer, io, nopEndpoint{}, nil)
	c.Transcript = transcript.NewHashes(transcript.Required{SHA256: true})
	if err := c.SetHandshakeType(Params{}); err != nil {
		t.Fatal(err)
	}

	var blocked Blocked
	err = c.Negotiate(&blocked)
	if !errors.Is(err, ErrBadMessage) {
		t.Fatalf("Negotiate() error = %v, want ErrBadMessage (server expected CLIENT_HELLO, got SERVER_HELLO_DONE)", err)
	}
}
