// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package extension

// UseExtendedMasterSecret signals RFC 7627 extended master secret
// derivation. Body is empty; presence is the signal.
type UseExtendedMasterSecret struct {
	Supported bool
}

// Type returns the Extension Type
func (u *UseExtendedMasterSecret) Type() Type { return TypeExtendedMasterSecret }

// Marshal encodes the Extension
func (u *UseExtendedMasterSecret) Marshal() ([]byte, error) {
	return []byte{}, nil
}

// Unmarshal populates the extension from encoded data
func (u *UseExtendedMasterSecret) Unmarshal(_ []byte) error {
	u.Supported = true
	return nil
}
