// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshakeio

import "errors"

// SessionCache is the subset of a session-ID cache Negotiate needs: the
// ability to evict an entry this connection allocated, if the handshake
// that was going to populate it fails on a read.
type SessionCache interface {
	Delete(id []byte)
}

// AllocatedSessionID, when set (typically by a server Endpoint right after
// generating a fresh session ID for a new, cacheable session), is deleted
// from SessionCache if a subsequent read in this handshake fails — an
// entry is never left pointing at a connection that never finished.
func (c *Conn) SetAllocatedSessionID(cache SessionCache, id []byte) {
	c.sessionCache, c.allocatedSessionID = cache, id
}

// Negotiate drives the connection through as much of the handshake as it
// can without blocking, returning ErrBlocked (via blocked) when the
// underlying transport isn't ready. Call it again, after re-arming I/O in
// the indicated direction, to resume. It is cooperative and re-entrant:
// no goroutines, no internal blocking beyond what Record.Flush/ReadRecord
// do.
func (c *Conn) Negotiate(blocked *Blocked) error {
	for c.writerOf(c.CurrentMessageType()) != RoleBoth {
		if err := c.Record.Flush(); err != nil {
			*blocked = BlockedOnWrite
			return err
		}

		if c.writerOf(c.CurrentMessageType()) == c.Self {
			*blocked = BlockedOnWrite
			kind := c.CurrentMessageType()
			if err := c.sendOne(kind); err != nil {
				if isBlocked(err) {
					return err
				}
				return c.recoverWriteError(err)
			}
		} else {
			*blocked = BlockedOnRead
			kind := c.CurrentMessageType()
			if err := c.recvOne(kind); err != nil {
				if !isBlocked(err) && c.allocatedSessionID != nil && c.sessionCache != nil {
					c.sessionCache.Delete(c.allocatedSessionID)
				}
				return err
			}
		}
	}

	if err := c.Record.Flush(); err != nil {
		*blocked = BlockedOnWrite
		return err
	}

	c.pending = nil
	*blocked = NotBlocked
	return nil
}

func (c *Conn) sendOne(kind MessageKind) error {
	return Descriptor(kind).Handler[roleIndex(c.Self)](c)
}

func (c *Conn) recvOne(kind MessageKind) error {
	return Descriptor(kind).Handler[roleIndex(c.Self)](c)
}

// recoverWriteError implements the write-then-read-alert precedence rule:
// on a non-retryable write failure, make one attempt to read a record,
// preferring whatever alert that surfaces over the original write error,
// and otherwise returning the original error untouched.
func (c *Conn) recoverWriteError(writeErr error) error {
	if _, readErr := c.dispatchRecord(); readErr != nil {
		var alertErr *AlertError
		if errors.As(readErr, &alertErr) {
			return &WriteError{Cause: writeErr, Alert: alertErr}
		}
	}
	return &WriteError{Cause: writeErr}
}

func isBlocked(err error) bool {
	return errors.Is(err, ErrBlocked)
}
