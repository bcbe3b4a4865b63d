// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package nettest provides the in-memory, deterministically-fragmenting
// net.Conn pair handshakeio's tests drive both a client and server Conn
// over: the standard library's synchronous in-memory net.Pipe gives two
// connected net.Conn half the harness, golang.org/x/net/nettest supplies a
// real loopback listener for the TCP-backed smoke test, and ChunkedConn and
// FixedChunks wrap one side to force arbitrary read fragmentation: proving
// fragmentation-independence needs control over read chunk sizes that a
// bare net.Pipe doesn't give you.
package nettest

import (
	"net"

	xnettest "golang.org/x/net/nettest"
)

// Pipe returns two connected, in-memory net.Conn endpoints, client and
// server, suitable for driving a full client/server handshakeio.Conn pair
// against each other without touching a real socket.
func Pipe() (client, server net.Conn, err error) {
	c, s := net.Pipe()
	return c, s, nil
}

// NewLoopbackListener opens a TCP listener bound to a local loopback
// address through golang.org/x/net/nettest.NewLocalListener. In an
// environment that can't bind one, it returns that function's error.
func NewLoopbackListener() (net.Listener, error) {
	return xnettest.NewLocalListener("tcp")
}

// ChunkedConn wraps a net.Conn so every Read returns at most ChunkSize
// bytes, regardless of how much the peer wrote in one call, simulating a
// network path that delivers handshake records split at arbitrary byte
// boundaries.
type ChunkedConn struct {
	net.Conn
	ChunkSize int
}

// Read caps each underlying read at c.ChunkSize bytes so a caller that
// asks for more only gets a fragment, forcing the record layer to assemble
// each record out of several underlying Reads.
func (c *ChunkedConn) Read(b []byte) (int, error) {
	if c.ChunkSize > 0 && len(b) > c.ChunkSize {
		b = b[:c.ChunkSize]
	}
	return c.Conn.Read(b)
}

// FixedChunks wraps conn's Reads with a deterministic sequence of chunk
// sizes (including 0-byte chunks, to exercise the "zero bytes read,
// nothing happened" path without an error), cycling once the sequence is
// exhausted. Used to replay a handful of small records interleaved with a
// 0-byte read, the kind of delivery pattern a real TCP stack can produce.
type FixedChunks struct {
	net.Conn
	Sizes []int
	pos   int
}

// Read serves exactly c.Sizes[c.pos] bytes (or fewer, if the underlying
// Conn has less available) per call, advancing through the configured
// sequence and wrapping back to the start once exhausted.
func (c *FixedChunks) Read(b []byte) (int, error) {
	if len(c.Sizes) == 0 {
		return c.Conn.Read(b)
	}
	want := c.Sizes[c.pos]
	c.pos = (c.pos + 1) % len(c.Sizes)
	if want == 0 {
		return 0, nil
	}
	if len(b) > want {
		b = b[:want]
	}
	return c.Conn.Read(b)
}
