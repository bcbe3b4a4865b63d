// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package record implements the TLS 1.0-1.2 record layer: the 5-byte
// {content type, version, length} framing, bulk-cipher protection, and the
// SSLv2-compatible ClientHello sniff, exactly the "record_write /
// read_full_record" collaborator handshakeio.RecordIO is written against.
// Fragmentation of one handshake message across several records and
// reassembly of several records into one handshake message is
// handshakeio's job; this package only ever sees whole records.
package record

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"time"

	"github.com/pion/logging"

	"github.com/wlm328cs/tlshandshake/handshakeio"
	"github.com/wlm328cs/tlshandshake/internal/socketopts"
	"github.com/wlm328cs/tlshandshake/pkg/crypto/ciphersuite"
	"github.com/wlm328cs/tlshandshake/pkg/protocol"
)

const (
	headerLength = 5

	// maxPlaintextLength is RFC 5246 Section 6.2.1's 2^14 byte limit on a
	// single record's plaintext payload.
	maxPlaintextLength = 1 << 14

	// sslv2HeaderLength is the 2-byte length-only header of an SSLv2
	// CLIENT-HELLO, distinguished from a TLS record header by its high bit.
	sslv2HeaderLength = 2
)

var (
	errRecordOverflow  = errors.New("record: record exceeds maximum plaintext length")
	errShortCCS        = errors.New("record: change_cipher_spec record is not exactly one byte")
	errNoCipherToSwap  = errors.New("record: no pending cipher state to activate")
)

// epoch is one direction's bulk-cipher state: nil before the first
// ChangeCipherSpec, non-nil (with the suite's AEAD or CBC cipher) after.
type epoch struct {
	aead    ciphersuite.AEAD
	seq     uint64
}

// Conn is the record-layer collaborator handshakeio.Conn drives. It
// satisfies handshakeio.RecordIO.
type Conn struct {
	nc  net.Conn
	buf *bufio.Writer
	rd  *bufio.Reader
	sock *socketopts.Conn
	log logging.LeveledLogger

	version protocol.Version

	write epoch
	read  epoch

	// pendingWrite/pendingRead are installed by the Endpoint (via
	// SetPendingCipher) once key derivation completes, and swapped into
	// write/read by ActivateWriteCipher/ActivateReadCipher exactly when
	// this endpoint sends or receives its ChangeCipherSpec, never before.
	pendingWrite *epoch
	pendingRead  *epoch
}

// New wraps conn for record-layer framing. version is the protocol version
// stamped on outgoing record headers (RFC 5246 permits servers to echo the
// negotiated version once it's known; until then callers pass the
// ClientHello's advertised version).
func New(conn net.Conn, version protocol.Version, log logging.LeveledLogger) *Conn {
	return &Conn{
		nc:      conn,
		buf:     bufio.NewWriter(conn),
		rd:      bufio.NewReader(conn),
		sock:    socketopts.New(conn),
		log:     log,
		version: version,
	}
}

// SetVersion updates the version stamped on subsequent outgoing headers,
// called once the server's chosen version is known.
func (c *Conn) SetVersion(v protocol.Version) { c.version = v }

// SetPendingCipher installs the key material derived for the given
// direction once the PRF has run; ActivateWriteCipher/ActivateReadCipher
// promote it to the live cipher when this endpoint's ChangeCipherSpec is
// sent or the peer's is received.
func (c *Conn) SetPendingCipher(write bool, aead ciphersuite.AEAD) {
	e := &epoch{aead: aead}
	if write {
		c.pendingWrite = e
	} else {
		c.pendingRead = e
	}
}

// MaxWritePayload returns the largest plaintext chunk that still fits in
// one on-the-wire record once header and cipher overhead (MAC/AEAD tag,
// explicit nonce, CBC padding) are accounted for.
func (c *Conn) MaxWritePayload() int {
	max := maxPlaintextLength
	if c.write.aead != nil {
		max -= c.write.aead.Overhead()
	}
	return max
}

// Write frames payload as one on-the-wire record, encrypting it under the
// current write epoch if one is active. Payloads larger than
// MaxWritePayload are the caller's bug, not this package's: handshakeio's
// writeFragmented never produces one.
func (c *Conn) Write(recordType protocol.ContentType, payload []byte) error {
	if recordType == protocol.ContentTypeChangeCipherSpec && len(payload) != 1 {
		return errShortCCS
	}

	out := payload
	if c.write.aead != nil {
		sealed, err := c.write.aead.Encrypt(c.write.seq, recordType, c.version, payload)
		if err != nil {
			return err
		}
		out = sealed
		c.write.seq++
	}
	if len(out) > maxPlaintextLength+maxAEADOverhead {
		return errRecordOverflow
	}

	header := make([]byte, headerLength)
	header[0] = byte(recordType)
	header[1], header[2] = c.version.Major, c.version.Minor
	binary.BigEndian.PutUint16(header[3:], uint16(len(out)))

	if _, err := c.buf.Write(header); err != nil {
		return wrapWriteErr(err)
	}
	if _, err := c.buf.Write(out); err != nil {
		return wrapWriteErr(err)
	}
	return nil
}

// maxAEADOverhead bounds the largest overhead any registered AEAD suite
// adds, used only to sanity-check Write's output length.
const maxAEADOverhead = 32

// Flush drains buffered writes to the transport. Blocking deadlines are
// the Go stand-in for the C driver's EWOULDBLOCK: a timeout set by the
// caller via SetWriteDeadline surfaces here as handshakeio.ErrBlocked
// wrapped in a *handshakeio.BlockedError so Negotiate can report
// BlockedOnWrite and let the caller re-arm I/O.
func (c *Conn) Flush() error {
	if err := c.buf.Flush(); err != nil {
		if isTimeout(err) {
			return &handshakeio.BlockedError{Blocked: handshakeio.BlockedOnWrite}
		}
		return err
	}
	return nil
}

// ReadRecord reads and, if a cipher is active, decrypts exactly one
// record, returning its content type, plaintext payload, and whether it
// was framed as a legacy SSLv2-compatible record.
func (c *Conn) ReadRecord() (protocol.ContentType, []byte, bool, error) {
	first, err := c.rd.Peek(1)
	if err != nil {
		return 0, nil, false, wrapReadErr(err)
	}

	// An SSLv2-style CLIENT-HELLO record's first byte has its high bit
	// set (the 2-byte length field's top bit, RFC 5246 Appendix E). This
	// driver's Negotiate only tolerates it at CLIENT_HELLO; ReadRecord
	// itself just reports what it saw.
	if first[0]&0x80 != 0 {
		return c.readSSLv2Record()
	}

	header := make([]byte, headerLength)
	if _, err := io.ReadFull(c.rd, header); err != nil {
		return 0, nil, false, wrapReadErr(err)
	}

	contentType := protocol.ContentType(header[0])
	length := binary.BigEndian.Uint16(header[3:])
	if length > maxPlaintextLength+maxAEADOverhead {
		return 0, nil, false, errRecordOverflow
	}

	ciphertext := make([]byte, length)
	if _, err := io.ReadFull(c.rd, ciphertext); err != nil {
		return 0, nil, false, wrapReadErr(err)
	}

	if c.read.aead == nil {
		return contentType, ciphertext, false, nil
	}

	plaintext, err := c.read.aead.Decrypt(c.read.seq, contentType, c.version, ciphertext)
	if err != nil {
		return 0, nil, false, err
	}
	c.read.seq++
	return contentType, plaintext, false, nil
}

// readSSLv2Record reads a legacy 2-byte-length-prefixed SSLv2 CLIENT-HELLO
// record and returns it tagged as protocol.ContentTypeHandshake with
// isSSLv2 set; the caller (handshakeio) recognizes the signal and rejects
// the record instead of passing it to the normal reassembly path.
func (c *Conn) readSSLv2Record() (protocol.ContentType, []byte, bool, error) {
	header := make([]byte, sslv2HeaderLength)
	if _, err := io.ReadFull(c.rd, header); err != nil {
		return 0, nil, false, wrapReadErr(err)
	}
	length := int(binary.BigEndian.Uint16(header)) & 0x7fff

	body := make([]byte, length)
	if _, err := io.ReadFull(c.rd, body); err != nil {
		return 0, nil, false, wrapReadErr(err)
	}
	return protocol.ContentTypeHandshake, body, true, nil
}

// SetCorked hints the transport to buffer writes (true) or flush
// immediately (false), mirroring TCP_CORK.
func (c *Conn) SetCorked(corked bool) {
	var err error
	if corked {
		err = c.sock.Cork()
	} else {
		err = c.sock.Uncork()
	}
	if err != nil {
		c.log.Tracef("record: cork(%v) failed: %v", corked, err)
	}
}

// QuickAck hints the transport to ACK promptly, mirroring TCP_QUICKACK.
func (c *Conn) QuickAck() {
	if err := c.sock.QuickAck(); err != nil {
		c.log.Tracef("record: quickack failed: %v", err)
	}
}

// ActivateWriteCipher promotes the pending write epoch (installed via
// SetPendingCipher) to live, called immediately after this endpoint sends
// its ChangeCipherSpec.
func (c *Conn) ActivateWriteCipher() error {
	if c.pendingWrite == nil {
		return errNoCipherToSwap
	}
	c.write = *c.pendingWrite
	c.pendingWrite = nil
	return nil
}

// ActivateReadCipher promotes the pending read epoch to live, called
// immediately after this endpoint receives the peer's ChangeCipherSpec.
func (c *Conn) ActivateReadCipher() error {
	if c.pendingRead == nil {
		return errNoCipherToSwap
	}
	c.read = *c.pendingRead
	c.pendingRead = nil
	return nil
}

func wrapReadErr(err error) error {
	if isTimeout(err) {
		return &handshakeio.BlockedError{Blocked: handshakeio.BlockedOnRead}
	}
	return err
}

// wrapWriteErr mirrors wrapReadErr for the write side: a deadline timeout
// mid-Write (bufio.Writer flushes through to the underlying net.Conn once a
// write would overflow its buffer, so large handshake messages can block
// here, not just in Flush) must surface as a resumable BlockedOnWrite, not
// a terminal error.
func wrapWriteErr(err error) error {
	if isTimeout(err) {
		return &handshakeio.BlockedError{Blocked: handshakeio.BlockedOnWrite}
	}
	return err
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// SetDeadlines is a convenience the demo CLI and tests use to arm
// non-blocking reads/writes without reaching into the wrapped net.Conn.
func (c *Conn) SetDeadlines(read, write time.Duration) {
	if read > 0 {
		_ = c.nc.SetReadDeadline(time.Now().Add(read))
	}
	if write > 0 {
		_ = c.nc.SetWriteDeadline(time.Now().Add(write))
	}
}
