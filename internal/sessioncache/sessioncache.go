// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package sessioncache implements the server-side session-ID resumption
// cache: storing a master secret under a fresh session ID on a full
// handshake, and looking it up on a later ClientHello that offers it.
// handshakeio's SetHandshakeType consults it (indirectly, through the
// Endpoint) to decide between a full and an abbreviated sequence, and
// Negotiate's read-failure path deletes a tentative entry that never
// finished, via the handshakeio.SessionCache interface.
package sessioncache

import (
	"crypto/rand"
	"sync"
	"time"
)

const sessionIDLength = 32

// Entry is the cached state a resumed handshake restores instead of
// re-running key exchange and certificate verification.
type Entry struct {
	MasterSecret []byte
	CipherSuite  uint16
	CreatedAt    time.Time
}

// Cache is an in-memory session-ID cache keyed by the 32-byte session ID a
// server hands the client in ServerHello.session_id. Production
// deployments typically back this with a shared store (memcached, Redis)
// so resumption works across a load-balanced fleet; this implementation
// keeps state in a plain in-process map since the resumption backend itself
// is a pluggable concern, not the handshake driver's.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Entry
	ttl     time.Duration
}

// New constructs an empty Cache. Entries older than ttl are treated as
// misses by Lookup and lazily evicted.
func New(ttl time.Duration) *Cache {
	return &Cache{entries: make(map[string]Entry), ttl: ttl}
}

// NewSessionID generates a fresh, random session ID for a server beginning
// a new, cacheable full handshake, mirroring
// s2n_generate_new_client_session_id.
func NewSessionID() ([]byte, error) {
	id := make([]byte, sessionIDLength)
	if _, err := rand.Read(id); err != nil {
		return nil, err
	}
	return id, nil
}

// Put installs (or overwrites) the entry for id. Called once the full
// handshake's master secret is available, before the Finished messages are
// exchanged — the entry is tentative until the handshake actually
// completes, which is why Negotiate deletes it on a later read failure.
func (c *Cache) Put(id []byte, e Entry) {
	e.CreatedAt = time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[string(id)] = e
}

// Lookup returns the cached entry for id and whether it was found and not
// expired.
func (c *Cache) Lookup(id []byte) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[string(id)]
	if !ok {
		return Entry{}, false
	}
	if c.ttl > 0 && time.Since(e.CreatedAt) > c.ttl {
		delete(c.entries, string(id))
		return Entry{}, false
	}
	return e, true
}

// Delete evicts id, satisfying handshakeio.SessionCache. Called when a
// handshake that allocated a fresh session ID fails on a subsequent read,
// so a half-finished session is never left resumable.
func (c *Cache) Delete(id []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, string(id))
}
