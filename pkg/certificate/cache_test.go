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
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache_LookupMiss(t *testing.T) {
	c := NewCache()

	e, ok := c.Lookup("ABC")

	assert.False(t, ok)
	assert.Nil(t, e)
	assert.Equal(t, 0, c.Len())
}

func TestCache_MergeIsUnion(t *testing.T) {
	c := NewCache()
	c.Merge(&Entry{SerialNo: "A", PublicKeyPEM: "a1"}, &Entry{SerialNo: "B", PublicKeyPEM: "b1"})

	c.Merge(&Entry{SerialNo: "B", PublicKeyPEM: "b2"}, &Entry{SerialNo: "C", PublicKeyPEM: "c1"})

	assert.Equal(t, []string{"A", "B", "C"}, c.Serials())
	a, _ := c.Lookup("A")
	b, _ := c.Lookup("B")
	assert.Equal(t, "a1", a.PublicKeyPEM)
	assert.Equal(t, "b2", b.PublicKeyPEM)
}

func TestCache_MergeIdempotent(t *testing.T) {
	batch := []*Entry{{SerialNo: "A", PublicKeyPEM: "a"}, {SerialNo: "B", PublicKeyPEM: "b"}}

	once := NewCache()
	once.Merge(batch...)

	twice := NewCache()
	twice.Merge(batch...)
	twice.Merge(batch...)

	assert.Equal(t, once.Serials(), twice.Serials())
	for _, s := range once.Serials() {
		e1, _ := once.Lookup(s)
		e2, _ := twice.Lookup(s)
		assert.Equal(t, e1, e2)
	}
}

func TestCache_MergeSkipsInvalid(t *testing.T) {
	c := NewCache()

	c.Merge(nil, &Entry{SerialNo: ""}, &Entry{SerialNo: "A"})
	c.Merge()

	assert.Equal(t, 1, c.Len())
}

func TestCache_ConcurrentMergeAndLookup(t *testing.T) {
	c := NewCache()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.Merge(&Entry{SerialNo: fmt.Sprintf("S%02d", i)})
		}(i)
		go func() {
			defer wg.Done()
			_ = c.Serials()
			_, _ = c.Lookup("S00")
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, c.Len())
}

func TestDefault_IsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}
