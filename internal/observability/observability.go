// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package observability wraps pion/logging.LeveledLogger with the
// record/handshake tracing calls handshakeio's collaborators make, at
// per-message granularity
// (c.log.Tracef("[handshake:%v] -> %s (epoch %d)", ...)).
package observability

import "github.com/pion/logging"

// HandshakeTracer logs the per-message, per-direction trace lines a
// running handshake produces: which message is about to be sent/received,
// and the outcome once it completes or blocks.
type HandshakeTracer struct {
	log logging.LeveledLogger
}

// NewHandshakeTracer wraps log, or a logger from
// logging.NewDefaultLoggerFactory if log is nil.
func NewHandshakeTracer(log logging.LeveledLogger) *HandshakeTracer {
	if log == nil {
		log = logging.NewDefaultLoggerFactory().NewLogger("handshakeio")
	}
	return &HandshakeTracer{log: log}
}

// Sending traces an outbound message about to be written.
func (t *HandshakeTracer) Sending(role, messageName string) {
	t.log.Tracef("[handshake:%s] -> %s", role, messageName)
}

// Received traces an inbound message just reassembled and dispatched.
func (t *HandshakeTracer) Received(role, messageName string) {
	t.log.Tracef("[handshake:%s] <- %s", role, messageName)
}

// Blocked traces a Negotiate call returning without completing the
// handshake.
func (t *HandshakeTracer) Blocked(role, reason string) {
	t.log.Debugf("[handshake:%s] blocked: %s", role, reason)
}

// Completed traces a handshake reaching APPLICATION_DATA.
func (t *HandshakeTracer) Completed(role, handshakeTypeName string) {
	t.log.Debugf("[handshake:%s] complete: %s", role, handshakeTypeName)
}

// Failed traces a handshake terminating with a fatal error.
func (t *HandshakeTracer) Failed(role string, err error) {
	t.log.Errorf("[handshake:%s] failed: %v", role, err)
}
