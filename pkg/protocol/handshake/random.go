// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

import (
	"encoding/binary"
	"time"
)

// RandomLength is the wire size of the random field: 4 bytes gmt_unix_time
// plus 28 bytes random_bytes, RFC 5246 Section 7.4.1.2.
const RandomLength = 32

// RandomBytesLength is the size of the random_bytes portion alone.
const RandomBytesLength = 28

// Random is the random struct sent in ClientHello/ServerHello.
type Random struct {
	GMTUnixTime time.Time
	RandomBytes [RandomBytesLength]byte
}

// MarshalFixed encodes the Random into a fixed-size array, mirroring the
// teacher's MarshalFixed/UnmarshalFixed convention for inline struct fields.
func (r *Random) MarshalFixed() [RandomLength]byte {
	var out [RandomLength]byte
	binary.BigEndian.PutUint32(out[:4], uint32(r.GMTUnixTime.Unix()))
	copy(out[4:], r.RandomBytes[:])
	return out
}

// UnmarshalFixed decodes the Random from a fixed-size array.
func (r *Random) UnmarshalFixed(data [RandomLength]byte) {
	r.GMTUnixTime = time.Unix(int64(binary.BigEndian.Uint32(data[:4])), 0)
	copy(r.RandomBytes[:], data[4:])
}

// Populate fills in the current time and fresh random bytes, mirroring how
// both hello messages stamp a new Random before sending.
func (r *Random) Populate(rand func([]byte) (int, error)) error {
	r.GMTUnixTime = time.Now()
	_, err := rand(r.RandomBytes[:])
	return err
}
