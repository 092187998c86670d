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

// Package ancillary lets independently developed modules attach their own
// per-object data to core objects (users, channels, servers) without those
// objects knowing about them. A Module is one object type's binding: it
// owns a private key space and a walker that enumerates every live object
// of that type, so a key can be destroyed cleanly across the whole set.
package ancillary

import (
	"github.com/sabouaram/ircd-core/keyspace"
	"github.com/sabouaram/ircd-core/registry"
)

const moduleTableName = "ancillary-modules"

// moduleMagic tags every Module registered into the shared "ancillary-
// modules" table; callers never choose their own magic for this table.
const moduleMagic uint32 = 0x616e6300 // "anc\0"

// Data is embedded in a host object to make it ancillary-enabled. The slice
// grows lazily to key+1 slots on first Set under that key.
type Data struct {
	values []interface{}
}

// WalkFunc enumerates every live object of a module's type, calling yield
// with each one's Data until yield returns false.
type WalkFunc func(yield func(*Data) bool)

// Module binds one object type to a private key space and destructor set.
type Module struct {
	name        string
	keys        *keyspace.Space
	destructors map[keyspace.Key]func(interface{})
	walker      WalkFunc
}

func (m *Module) Name() string  { return m.name }
func (m *Module) Magic() uint32 { return moduleMagic }

// Store is the ancillary registry: one Store per daemon context, holding
// every object-type Module it has been asked to bind.
type Store struct {
	reg     registry.Registry
	modules map[string]*Module
}

// NewStore creates the "ancillary-modules" table on reg and returns a Store
// bound to it.
func NewStore(reg registry.Registry) (*Store, error) {
	if err := reg.NewTable(moduleTableName, moduleMagic, nil, nil); err != nil {
		return nil, err
	}

	return &Store{
		reg:     reg,
		modules: make(map[string]*Module),
	}, nil
}

// BindModule registers a new object type under name, walked via walker.
// The key space draws from a chunk of 4 per spec §4.3.
func (s *Store) BindModule(name string, walker WalkFunc) (*Module, error) {
	if _, exists := s.modules[name]; exists {
		return nil, ErrModuleExists.Error(nil)
	}

	m := &Module{
		name:        name,
		keys:        keyspace.New(4096, 4, nil),
		destructors: make(map[keyspace.Key]func(interface{})),
		walker:      walker,
	}

	if err := s.reg.Register(moduleTableName, m); err != nil {
		return nil, err
	}

	s.modules[name] = m
	return m, nil
}

// Module looks up a previously bound object type.
func (s *Store) Module(name string) *Module {
	return s.modules[name]
}

// CreateKey draws a new key from the module's private space and records
// its destructor, which must not be nil.
func (m *Module) CreateKey(destructor func(interface{})) (keyspace.Key, error) {
	if destructor == nil {
		return keyspace.Invalid, ErrNilDestructor.Error(nil)
	}

	key, err := m.keys.Reserve()
	if err != nil {
		return keyspace.Invalid, err
	}

	m.destructors[key] = destructor
	return key, nil
}

// DestroyKey walks every live object of this module, running the key's
// destructor on any stored value, then frees the key.
func (m *Module) DestroyKey(key keyspace.Key) error {
	destructor, ok := m.destructors[key]
	if !ok {
		return ErrNoSuchKey.Error(nil)
	}

	if m.walker != nil {
		m.walker(func(d *Data) bool {
			if v := m.Get(d, key); v != nil {
				destructor(v)
				m.clear(d, key)
			}
			return true
		})
	}

	delete(m.destructors, key)
	m.keys.Release(key)
	return nil
}

// Get returns the value stored under key, or nil if none.
func (m *Module) Get(d *Data, key keyspace.Key) interface{} {
	idx := int(key)
	if idx < 0 || idx >= len(d.values) {
		return nil
	}
	return d.values[idx]
}

// Set installs value under key, growing d's slot array on demand. If a
// prior value was stored under key, its destructor runs on it first.
func (m *Module) Set(d *Data, key keyspace.Key, value interface{}) {
	idx := int(key)

	if idx >= len(d.values) {
		grown := make([]interface{}, idx+1)
		copy(grown, d.values)
		d.values = grown
	}

	if old := d.values[idx]; old != nil {
		if destructor, ok := m.destructors[key]; ok {
			destructor(old)
		}
	}

	d.values[idx] = value
}

func (m *Module) clear(d *Data, key keyspace.Key) {
	idx := int(key)
	if idx >= 0 && idx < len(d.values) {
		d.values[idx] = nil
	}
}

// Iter trampolines into the module's registered walker.
func (m *Module) Iter(fn func(*Data) bool) error {
	if m.walker == nil {
		return nil
	}

	m.walker(fn)
	return nil
}

// Flush runs every stored value's destructor and releases d's array; used
// when the host object itself is being destroyed.
func (m *Module) Flush(d *Data) {
	for key, value := range d.values {
		if value == nil {
			continue
		}

		if destructor, ok := m.destructors[keyspace.Key(key)]; ok {
			destructor(value)
		}
	}

	d.values = nil
}
