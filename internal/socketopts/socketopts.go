// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package socketopts applies the TCP_CORK/TCP_QUICKACK transport hints the
// progression engine uses to cut round trips during a handshake: corking a
// connection's flight of writes so the kernel coalesces them into fewer
// segments, and requesting a quick ACK when the peer is about to become the
// writer. Both are Linux-only socket options; on every other platform the
// calls are no-ops, matching how the caddy and pion examples split
// platform-specific syscall.RawConn use into its own build-tagged file
// rather than guarding every call site with a runtime.GOOS check.
package socketopts

import "net"

// Conn applies TCP_CORK and TCP_QUICKACK to an underlying *net.TCPConn.
// Managed reports whether this platform actually implements the hints.
// When Managed is false, Cork, Uncork and QuickAck return nil without
// touching the socket, so the SetCorked/QuickAck calls handshakeio's
// advance() makes through internal/record change nothing on the transport.
type Conn struct {
	tcp     *net.TCPConn
	managed bool
}

// New wraps conn if it is a *net.TCPConn on a platform that supports
// TCP_CORK/TCP_QUICKACK. Any other net.Conn (net.Pipe, a TLS-over-TLS test
// harness, a UDS) yields an unmanaged Conn whose methods are all no-ops.
func New(conn net.Conn) *Conn {
	tcp, ok := conn.(*net.TCPConn)
	if !ok {
		return &Conn{}
	}
	return &Conn{tcp: tcp, managed: corkSupported}
}

// Managed reports whether Cork/Uncork/QuickAck do anything on this
// connection. Nothing in this module calls it; on an unmanaged Conn the
// hint methods are no-ops, so advance() causes no transport changes.
func (c *Conn) Managed() bool { return c.managed }

// Cork buffers subsequent writes at the kernel level until Uncork is
// called, reducing the handshake's packet count when a flight of several
// handshake messages is about to be written back to back.
func (c *Conn) Cork() error {
	if !c.managed {
		return nil
	}
	return setCork(c.tcp, true)
}

// Uncork flushes any writes buffered since Cork and resumes normal
// Nagle-governed segment coalescing.
func (c *Conn) Uncork() error {
	if !c.managed {
		return nil
	}
	return setCork(c.tcp, false)
}

// QuickAck requests that the kernel ACK promptly instead of delaying the
// ACK in hopes of piggybacking it on outgoing data, called on every
// progression-engine advance regardless of whether corking is managed.
func (c *Conn) QuickAck() error {
	if !c.managed {
		return nil
	}
	return setQuickAck(c.tcp)
}
