/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package keyspace allocates unique small unsigned integers from a dense
// range, reusing released keys and growing a caller-owned parallel array in
// fixed-size chunks. The Ancillary Store's per-module key tables are built
// on one of these; numnick does not use it.
package keyspace

import (
	"github.com/bits-and-blooms/bitset"
)

// Key is a handle returned by Reserve. Invalid marks reservation failure.
type Key int

// Invalid is returned by Reserve when the space has reached its configured
// maximum.
const Invalid Key = -1

// GrowFunc is invoked whenever the external-array size watermark advances,
// so the embedder can grow its parallel slice to newSize elements.
type GrowFunc func(newSize uint) error

// Space is one dense-integer allocator.
type Space struct {
	bitmap  *bitset.BitSet
	count   uint
	highest Key
	max     uint
	chunk   uint
	extSize uint
	grow    GrowFunc

	// Extra carries an embedder-chosen opaque value, mirroring the spec's
	// "opaque extra" field on Keyspace.
	Extra interface{}
}

// New creates a Space with the given absolute maximum and growth-chunk
// size. A chunk of 0 disables the grow callback entirely. grow may be nil.
func New(max uint, chunk uint, grow GrowFunc) *Space {
	return &Space{
		bitmap:  bitset.New(0),
		highest: Invalid,
		max:     max,
		chunk:   chunk,
		grow:    grow,
	}
}

// Count returns the number of keys currently held.
func (s *Space) Count() uint {
	return s.count
}

// Highest returns the highest key ever reserved, or Invalid if none.
func (s *Space) Highest() Key {
	return s.highest
}

// Reserve allocates the lowest-numbered free key, growing the bitmap by one
// word when none is free, per spec §4.2's allocation policy.
func (s *Space) Reserve() (Key, error) {
	if s.count >= s.max {
		return Invalid, ErrExhausted.Error(nil)
	}

	idx, found := s.bitmap.NextClear(0)
	if !found {
		idx = s.bitmap.Len()
	}

	if uint64(idx) >= uint64(s.max) {
		return Invalid, ErrExhausted.Error(nil)
	}

	s.bitmap.Set(idx)
	s.count++

	key := Key(idx)
	if key > s.highest {
		s.highest = key
	}

	if s.chunk > 0 {
		needed := (uint(idx)/s.chunk + 1) * s.chunk
		if needed > s.extSize {
			s.extSize = needed

			if s.grow != nil {
				if err := s.grow(s.extSize); err != nil {
					return Invalid, err
				}
			}
		}
	}

	return key, nil
}

// Release clears a held key without shrinking the bitmap.
func (s *Space) Release(key Key) {
	if key < 0 {
		return
	}

	idx := uint(key)
	if !s.bitmap.Test(idx) {
		return
	}

	s.bitmap.Clear(idx)
	s.count--
}

// Clean resets the space to empty, discarding the bitmap and the
// highest-key watermark. The external-array size watermark is kept so the
// embedder's parallel array is never asked to shrink.
func (s *Space) Clean() {
	s.bitmap = bitset.New(0)
	s.count = 0
	s.highest = Invalid
}
