// Copyright (C) 2025 SAGE-X Project
//
// This file is part of sage-pay-go.
//
// sage-pay-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// sage-pay-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with sage-pay-go.  If not, see <https://www.gnu.org/licenses/>.

package certificate

import (
	"crypto/rsa"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Entry is one platform certificate known to the cache
type Entry struct {
	// SerialNo is the certificate serial number
	SerialNo string

	// PublicKeyPEM is the PKIX PEM of the verification key
	PublicKeyPEM string

	// PublicKey is PublicKeyPEM parsed once at install time
	PublicKey *rsa.PublicKey

	// EffectiveTime and ExpireTime are informational; entries are never evicted
	EffectiveTime time.Time
	ExpireTime    time.Time
}

// Cache maps certificate serial numbers to verification keys.
//
// Reads are lock free. Merges copy the current map, apply the batch and swap
// the pointer, so a reader sees either the old or the new set, never a mix.
type Cache struct {
	mu      sync.Mutex
	entries atomic.Pointer[map[string]*Entry]
}

// NewCache creates an empty cache
func NewCache() *Cache {
	c := &Cache{}
	empty := map[string]*Entry{}
	c.entries.Store(&empty)
	return c
}

var (
	defaultCache     *Cache
	defaultCacheOnce sync.Once
)

// Default returns the process-wide cache shared by clients that are not
// given their own
func Default() *Cache {
	defaultCacheOnce.Do(func() {
		defaultCache = NewCache()
	})
	return defaultCache
}

// Lookup returns the entry for serial, if present
func (c *Cache) Lookup(serial string) (*Entry, bool) {
	e, ok := (*c.entries.Load())[serial]
	return e, ok
}

// Merge installs a batch of entries. Existing serials not in the batch are
// kept; serials in the batch overwrite what was there.
func (c *Cache) Merge(entries ...*Entry) {
	if len(entries) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	current := *c.entries.Load()
	next := make(map[string]*Entry, len(current)+len(entries))
	for k, v := range current {
		next[k] = v
	}
	for _, e := range entries {
		if e == nil || e.SerialNo == "" {
			continue
		}
		next[e.SerialNo] = e
	}
	c.entries.Store(&next)
}

// Len returns the number of cached certificates
func (c *Cache) Len() int {
	return len(*c.entries.Load())
}

// Serials returns the cached serial numbers in sorted order
func (c *Cache) Serials() []string {
	m := *c.entries.Load()
	serials := make([]string, 0, len(m))
	for s := range m {
		serials = append(serials, s)
	}
	sort.Strings(serials)
	return serials
}
