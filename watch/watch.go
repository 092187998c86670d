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

// Package watch lets modules subscribe to lifecycle and user-defined events
// on classes of objects, with deterministic priority ordering. A Table is a
// registry.Entry in its own right: every watch table is registered in the
// Bus's "watch-tables" registry table, which the Registry's "tables"
// pseudo-table lists in turn.
package watch

import (
	"github.com/sabouaram/ircd-core/registry"
)

// EventCreate and EventDestroy are the two reserved event codes; 2-31 are
// free for module use. A watch's Mask selects which event codes it fires
// on via the bit 1<<code.
const (
	EventCreate  uint32 = 0
	EventDestroy uint32 = 1
)

// MaxPriority is the highest accepted priority; values above it clamp down
// to it. Lower priorities run earlier.
const MaxPriority uint32 = 10000

// tablesMagic tags every Table registered into the shared bootstrap table.
const tablesMagic uint32 = 0x77617463 // "watc"

// Callback runs for one watch when its mask matches the fired event. A
// non-zero return stops dispatch and that value propagates to the caller
// of Event.
type Callback func(event uint32, object interface{}, extra interface{}) int

// Watch is one subscription: a priority, an event mask, and a callback.
type Watch struct {
	Priority uint32
	Mask     uint32
	Callback Callback
	Extra    interface{}

	table *Table
}

// Table holds the priority-ordered watch list for one class of objects.
type Table struct {
	name    string
	watches []*Watch
}

func (t *Table) Name() string  { return t.name }
func (t *Table) Magic() uint32 { return tablesMagic }

// Bus is the daemon-wide collection of watch tables.
type Bus struct {
	reg    registry.Registry
	tables map[string]*Table
}

const busTableName = "watch-tables"

// NewBus creates the bootstrap "watch-tables" entry on reg and returns a
// Bus bound to it.
func NewBus(reg registry.Registry) (*Bus, error) {
	if err := reg.NewTable(busTableName, tablesMagic, nil, nil); err != nil {
		return nil, err
	}

	return &Bus{
		reg:    reg,
		tables: make(map[string]*Table),
	}, nil
}

// NewTable creates a new, empty watch table under name.
func (b *Bus) NewTable(name string) (*Table, error) {
	if _, exists := b.tables[name]; exists {
		return nil, ErrTableExists.Error(nil)
	}

	t := &Table{name: name}

	if err := b.reg.Register(busTableName, t); err != nil {
		return nil, err
	}

	b.tables[name] = t
	return t, nil
}

func (b *Bus) table(name string) (*Table, error) {
	t, ok := b.tables[name]
	if !ok {
		return nil, ErrNoSuchTable.Error(nil)
	}
	return t, nil
}

// Add inserts w before the first watch of strictly greater priority,
// clamping w.Priority to MaxPriority first.
func (b *Bus) Add(tableName string, w *Watch) error {
	t, err := b.table(tableName)
	if err != nil {
		return err
	}

	if w.Priority > MaxPriority {
		w.Priority = MaxPriority
	}

	idx := len(t.watches)
	for i, existing := range t.watches {
		if existing.Priority > w.Priority {
			idx = i
			break
		}
	}

	t.watches = append(t.watches, nil)
	copy(t.watches[idx+1:], t.watches[idx:])
	t.watches[idx] = w
	w.table = t

	return nil
}

// Remove detaches w from tableName. w must have been added to that exact
// table.
func (b *Bus) Remove(tableName string, w *Watch) error {
	t, err := b.table(tableName)
	if err != nil {
		return err
	}

	if w.table != t {
		return ErrWatchNotOwnedByTable.Error(nil)
	}

	for i, existing := range t.watches {
		if existing == w {
			t.watches = append(t.watches[:i], t.watches[i+1:]...)
			w.table = nil
			return nil
		}
	}

	return ErrWatchNotOwnedByTable.Error(nil)
}

// Event dispatches event in ascending priority order, stopping at the
// first callback that returns non-zero and propagating that value.
// Watches are visited from a snapshot of the table, so a callback that
// detaches itself never corrupts the in-progress walk.
func (b *Bus) Event(tableName string, event uint32, object interface{}, extra interface{}) (int, error) {
	t, err := b.table(tableName)
	if err != nil {
		return 0, err
	}

	snapshot := make([]*Watch, len(t.watches))
	copy(snapshot, t.watches)

	bit := uint32(1) << event

	for _, w := range snapshot {
		if w.Mask&bit == 0 {
			continue
		}

		if rc := w.Callback(event, object, extra); rc != 0 {
			return rc, nil
		}
	}

	return 0, nil
}

// Flush detaches every watch from tableName.
func (b *Bus) Flush(tableName string) error {
	t, err := b.table(tableName)
	if err != nil {
		return err
	}

	for _, w := range t.watches {
		w.table = nil
	}

	t.watches = nil
	return nil
}
