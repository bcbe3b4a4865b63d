// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshakeio

// Message is implemented by every handshake-record-typed message
// (pkg/protocol/handshake.Message already satisfies it) and by
// pkg/protocol/changecipherspec.ChangeCipherSpec.
type Message interface {
	Marshal() ([]byte, error)
	Unmarshal(data []byte) error
}

// Endpoint is the collaborator that knows how to build outgoing messages
// and validate incoming ones for a given connection: certificate
// selection/validation, key exchange, session resumption decisions, and
// Finished/CertificateVerify computation. handshakeio itself only knows how
// to sequence, frame, and hash these messages — it never inspects their
// contents beyond the handshake wire type; the parameters that pick the
// sequence (resumption, cipher suite ephemerality, client-auth mode) reach
// it through Params.
type Endpoint interface {
	// Build constructs the outgoing message for kind. Returning a nil
	// Message for ClientChangeCipherSpec/ServerChangeCipherSpec is valid;
	// the driver supplies the fixed single-byte body itself.
	Build(kind MessageKind) (Message, error)

	// Process validates a freshly-unmarshaled incoming message. It may
	// mutate endpoint-private state (record the peer's randoms, cache a
	// premaster secret) but must never mutate the Conn's handshake type or
	// message cursor; that remains handshakeio's job.
	Process(kind MessageKind, msg Message) error
}
