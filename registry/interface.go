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

// Package registry provides named, typed lookup tables that hold named
// entries, with optional gatekeeping on insertion and removal, and uniform
// iteration. It is the extensibility spine the Watch Bus and Ancillary
// Store are built on.
package registry

// Entry is anything a table can hold: a stable name for lookup and a magic
// word the table gates insertion on.
type Entry interface {
	Name() string
	Magic() uint32
}

// RegHook is invoked on register/unregister; returning a non-nil error
// vetoes the operation.
type RegHook func(table string, entry Entry) error

// FuncWalk visits one entry during Iter; returning false stops iteration
// early.
type FuncWalk func(entry Entry) bool

// Registry holds every named table in one daemon context.
type Registry interface {
	// NewTable creates a table with the given expected entry magic and
	// optional hooks. Re-creating an existing table name replaces its
	// hooks but keeps its entries.
	NewTable(name string, magic uint32, onReg, onUnreg RegHook) error

	// DropTable unregisters every entry of a table (invoking onUnreg for
	// each) before releasing the table itself.
	DropTable(name string) error

	// Register inserts entry into table, subject to magic-word and hook
	// gating. See the Err* sentinels for rejection reasons.
	Register(table string, entry Entry) error

	// RegisterN is the bulk variant; it registers each entry in order and
	// stops at the first failure, returning that index and n on full
	// success. Earlier successes are not rolled back.
	RegisterN(table string, entries []Entry) (int, error)

	Unregister(table string, entry Entry) error
	UnregisterN(table string, entries []Entry) (int, error)

	// Find performs a linear walk and, on a hit, moves the entry one step
	// toward the head of the table's list.
	Find(table string, name string) Entry

	// Iter visits every entry of table in an unspecified order until fn
	// returns false.
	Iter(table string, fn FuncWalk) error
}

// New returns an empty Registry. The self-describing "tables" pseudo-table
// is created lazily on first use, not here.
func New() Registry {
	return &registry{
		tables: make(map[string]*table),
	}
}
