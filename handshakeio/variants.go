// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshakeio

// variantTable maps every reachable HandshakeType to its ordered message
// sequence. It is built once, at package init, by composing the same
// per-flag fragments the C state machine's static table encodes by hand —
// the table itself is still data consulted by lookup, never control flow
// consulted per-connection; advance() only ever indexes into it.
var variantTable map[HandshakeType][]MessageKind

func init() {
	variantTable = buildVariantTable()
}

func buildVariantTable() map[HandshakeType][]MessageKind {
	t := make(map[HandshakeType][]MessageKind)

	// Abbreviated (session-resumed) handshake: the server already has the
	// master secret cached, so it sends its ChangeCipherSpec/Finished
	// flight first.
	for _, withTicket := range []bool{false, true} {
		ht := FlagNegotiated
		seq := []MessageKind{ClientHello, ServerHello}
		if withTicket {
			ht |= FlagWithSessionTicket
			seq = append(seq, ServerNewSessionTicket)
		}
		seq = append(seq, ServerChangeCipherSpec, ServerFinished, ClientChangeCipherSpec, ClientFinished, ApplicationData)
		t[ht] = seq
	}

	// Full handshake: every combination of perfect-forward-secrecy,
	// OCSP stapling, client-auth mode, and session-ticket issuance that a
	// connection can actually reach.
	type authMode struct {
		flags HandshakeType
		name  string
	}
	authModes := []authMode{
		{0, "none"},
		{FlagClientAuth, "required-or-optional-with-cert"},
		{FlagClientAuth | FlagNoClientCert, "optional-no-cert"},
	}

	for _, pfs := range []bool{false, true} {
		for _, ocsp := range []bool{false, true} {
			for _, auth := range authModes {
				for _, withTicket := range []bool{false, true} {
					ht := FlagNegotiated | FlagFullHandshake | auth.flags
					if pfs {
						ht |= FlagPerfectForwardSecrecy
					}
					if ocsp {
						ht |= FlagOCSPStatus
					}
					if withTicket {
						ht |= FlagWithSessionTicket
					}
					t[ht] = fullHandshakeSequence(pfs, ocsp, auth.flags, withTicket)
				}
			}
		}
	}

	return t
}

func fullHandshakeSequence(pfs, ocsp bool, authFlags HandshakeType, withTicket bool) []MessageKind {
	seq := []MessageKind{ClientHello, ServerHello, ServerCert}
	if ocsp {
		seq = append(seq, ServerCertStatus)
	}
	if pfs {
		seq = append(seq, ServerKey)
	}
	if authFlags&FlagClientAuth != 0 {
		seq = append(seq, ServerCertReq)
	}
	seq = append(seq, ServerHelloDone)
	if authFlags&FlagClientAuth != 0 {
		seq = append(seq, ClientCert)
	}
	seq = append(seq, ClientKey)
	if authFlags&FlagClientAuth != 0 && authFlags&FlagNoClientCert == 0 {
		seq = append(seq, ClientCertVerify)
	}
	seq = append(seq, ClientChangeCipherSpec, ClientFinished)
	if withTicket {
		seq = append(seq, ServerNewSessionTicket)
	}
	seq = append(seq, ServerChangeCipherSpec, ServerFinished, ApplicationData)
	return seq
}

// SequenceOf returns the ordered message sequence for a reachable
// HandshakeType, or nil if t has never been registered (a driver bug: every
// type SetHandshakeType can produce must be reachable here).
func SequenceOf(t HandshakeType) []MessageKind {
	return variantTable[t]
}
