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

// Package numnick implements the daemon's base-64 wire-identifier space:
// a two-character server numeric (YY) and, per server, a ring-allocated
// three-character client suffix (XXX) giving the five-character client
// numnick YYXXX.
//
// Like the rest of the core, this package assumes the single-threaded
// cooperative scheduling model: every exported call runs on the event
// loop's goroutine, so no internal locking is used.
package numnick

import (
	"github.com/sabouaram/ircd-core/logger"
	"github.com/sabouaram/ircd-core/metrics"
)

// Alphabet is the canonical 64-character wire alphabet, index == value.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789[]"

var decodeTable [256]int8

func init() {
	for i := range decodeTable {
		decodeTable[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		decodeTable[Alphabet[i]] = int8(i)
	}
}

// EncodeBase64 renders v as a fixed-width string of `width` alphabet
// digits, most significant digit first.
func EncodeBase64(v uint, width int) string {
	buf := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		buf[i] = Alphabet[v&0x3f]
		v >>= 6
	}
	return string(buf)
}

// DecodeBase64 parses a run of alphabet digits back into its value.
func DecodeBase64(s string) (uint, error) {
	var v uint
	for i := 0; i < len(s); i++ {
		d := decodeTable[s[i]]
		if d < 0 {
			return 0, ErrInvalidNumnick.Error(nil)
		}
		v = (v << 6) | uint(d)
	}
	return v, nil
}

// GhostFunc is invoked when a remote announcement evicts the prior
// occupant of a slot; reason distinguishes the two causes spelled out
// in spec §14 ("local" vs "numeric collision").
type GhostFunc func(occupant interface{}, reason string)

const (
	// ReasonGhost is the kill reason for an ordinary local ghost, e.g. a
	// client reconnecting faster than its old session timed out.
	ReasonGhost = "Ghost"
	// ReasonProtocolViolation is the kill reason BindRemote uses: a remote
	// server announced a numnick whose slot this table already holds.
	ReasonProtocolViolation = "numeric collision"
)

// Server is one server's client-numeric space: a ring of mask+1 slots,
// each holding an arbitrary occupant value (nil when free).
type Server struct {
	yy      string
	mask    uint
	lastNN  uint
	slots   []interface{}
	ghost   GhostFunc
	metrics *metrics.Metrics
}

// YY returns the server's two-character numeric.
func (s *Server) YY() string { return s.yy }

// Mask returns the server's client-numeric mask (slot count - 1).
func (s *Server) Mask() uint { return s.mask }

// roundupMask returns the smallest (power-of-two - 1) >= maxClients.
func roundupMask(maxClients uint) uint {
	if maxClients == 0 {
		return 0
	}
	n := uint(1)
	for n <= maxClients {
		n <<= 1
	}
	return n - 1
}

// Table owns every server's numeric space, keyed by YY.
type Table struct {
	servers map[string]*Server
	log     logger.Logger
	metrics *metrics.Metrics
}

// New returns an empty numnick table. log and m may be nil.
func New(log logger.Logger, m *metrics.Metrics) *Table {
	return &Table{
		servers: make(map[string]*Server),
		log:     log,
		metrics: m,
	}
}

// SetServerNumeric registers a new server numeric with capacity rounded
// up to the next power-of-two-minus-one (spec §4.6.1). The caller's ghost
// callback is wrapped so every eviction is also logged and counted.
func (t *Table) SetServerNumeric(yy string, maxClients uint, ghost GhostFunc) (*Server, error) {
	if _, exists := t.servers[yy]; exists {
		return nil, ErrServerExists.Error(nil)
	}

	mask := roundupMask(maxClients)
	s := &Server{
		yy:      yy,
		mask:    mask,
		slots:   make([]interface{}, mask+1),
		ghost:   t.wrapGhost(yy, ghost),
		metrics: t.metrics,
	}
	t.servers[yy] = s
	return s, nil
}

func (t *Table) wrapGhost(yy string, ghost GhostFunc) GhostFunc {
	return func(occupant interface{}, reason string) {
		if t.log != nil {
			t.log.Warn("numnick slot ghosted", logger.NewFields().
				Add("server", yy).
				Add("reason", reason))
		}
		if t.metrics != nil {
			t.metrics.GhostEvictions.Inc()
		}
		if ghost != nil {
			ghost(occupant, reason)
		}
	}
}

// Server looks a server numeric up by YY.
func (t *Table) Server(yy string) (*Server, error) {
	s, ok := t.servers[yy]
	if !ok {
		return nil, ErrNoSuchServer.Error(nil)
	}
	return s, nil
}

// DropServer removes a server's entire numeric space.
func (t *Table) DropServer(yy string) {
	delete(t.servers, yy)
}

// AllocateLocal claims the next free slot starting from the rolling
// cursor, per the sweep-and-advance algorithm of spec §4.6.1, and
// returns the newly minted YYXXX.
func (s *Server) AllocateLocal(occupant interface{}) (string, error) {
	n := s.mask + 1

	for i := uint(0); i < n; i++ {
		idx := (s.lastNN + i) % n
		if s.slots[idx] == nil {
			s.slots[idx] = occupant
			s.lastNN = (idx + 1) % n
			return s.yy + EncodeBase64(idx, 3), nil
		}
	}

	if s.metrics != nil {
		s.metrics.NumnickExhausted.Inc()
	}
	return "", ErrTableFull.Error(nil)
}

// BindRemote installs occupant at the slot a remote server announced
// via xxx, evicting any prior occupant unconditionally (spec §4.6.1).
func (s *Server) BindRemote(xxx string, occupant interface{}) error {
	v, err := DecodeBase64(xxx)
	if err != nil {
		return err
	}

	idx := v & s.mask
	if prior := s.slots[idx]; prior != nil && s.ghost != nil {
		s.ghost(prior, ReasonProtocolViolation)
	}

	s.slots[idx] = occupant
	return nil
}

// Release frees a slot previously claimed by AllocateLocal or BindRemote.
func (s *Server) Release(xxx string) error {
	v, err := DecodeBase64(xxx)
	if err != nil {
		return err
	}

	idx := v & s.mask
	s.slots[idx] = nil
	return nil
}

// LookupByID resolves a numnick of 2, 3, or 5 characters to its occupant,
// per spec §4.6.1's find-by-YXX rule. A 3-char id is the legacy
// single-character server form (`FindNServer`'s `len==3` branch, which
// indexes `server_list` directly by `convert2n[*numeric]`): only its
// first character carries the server number, decoded here and re-encoded
// as the equivalent 2-char YY before the normal table lookup, since this
// table is keyed by YY rather than by a raw server_list index.
func (t *Table) LookupByID(id string) (interface{}, error) {
	switch len(id) {
	case 2:
		s, err := t.Server(id)
		if err != nil {
			return nil, err
		}
		return s, nil
	case 3:
		v, err := DecodeBase64(id[:1])
		if err != nil {
			return nil, err
		}
		s, err := t.Server(EncodeBase64(v, 2))
		if err != nil {
			return nil, err
		}
		return s, nil
	case 5:
		s, err := t.Server(id[:2])
		if err != nil {
			return nil, err
		}
		v, err := DecodeBase64(id[2:])
		if err != nil {
			return nil, err
		}
		idx := v & s.mask
		occupant := s.slots[idx]
		if occupant == nil {
			return nil, ErrNoSuchServer.Error(nil)
		}
		return occupant, nil
	default:
		return nil, ErrInvalidNumnick.Error(nil)
	}
}
