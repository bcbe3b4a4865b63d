// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package extension

// StatusRequest is the OCSP-stapling request extension, RFC 6066 Section 8.
// Only the presence of the extension matters to this driver: it is what
// flips OCSP_STATUS into the negotiated handshake type.
type StatusRequest struct {
	StatusType uint8
}

// Type returns the Extension Type
func (s *StatusRequest) Type() Type { return TypeStatusRequest } //nolint:revive

// Marshal encodes the Extension
func (s *StatusRequest) Marshal() ([]byte, error) {
	// type=ocsp(1), empty responder_id_list, empty request_extensions.
	return []byte{1, 0, 0, 0, 0}, nil
}

// Unmarshal populates the extension from encoded data
func (s *StatusRequest) Unmarshal(data []byte) error {
	if len(data) > 0 {
		s.StatusType = data[0]
	} else {
		s.StatusType = 1
	}
	return nil
}
