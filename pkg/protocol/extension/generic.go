// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package extension

// Generic carries the raw body of an extension type this driver doesn't
// interpret. Handshake handlers that care about a specific extension type
// switch on the concrete types defined elsewhere in this package instead.
type Generic struct {
	ExtType Type
	Data    []byte
}

// Type returns the Extension Type
func (g *Generic) Type() Type { return g.ExtType }

// Marshal encodes the Extension
func (g *Generic) Marshal() ([]byte, error) {
	return append([]byte{}, g.Data...), nil
}

// Unmarshal populates the extension from encoded data
func (g *Generic) Unmarshal(data []byte) error {
	g.Data = append([]byte{}, data...)
	return nil
}
