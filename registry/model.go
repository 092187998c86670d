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

package registry

// tablesTableName is the self-describing pseudo-table whose entries are the
// registered tables themselves (spec §4.1 "Bootstrap").
const tablesTableName = "tables"

// tablesMagic tags the synthetic tableRef entries inserted into the
// "tables" pseudo-table; it never collides with a caller-chosen magic
// because callers pick their own uint32 space.
const tablesMagic uint32 = 0x7461626c // "tabl"

type table struct {
	name    string
	magic   uint32
	onReg   RegHook
	onUnreg RegHook
	entries []Entry
}

// tableRef is the Entry installed into "tables" for every real table, so
// that Iter("tables", ...) enumerates table names without exposing the
// table struct itself.
type tableRef struct {
	name string
}

func (t *tableRef) Name() string  { return t.name }
func (t *tableRef) Magic() uint32 { return tablesMagic }

type registry struct {
	tables map[string]*table
}

func (r *registry) ensureTablesTable() *table {
	t, ok := r.tables[tablesTableName]
	if !ok {
		t = &table{name: tablesTableName, magic: tablesMagic}
		r.tables[tablesTableName] = t
	}

	return t
}

func (r *registry) NewTable(name string, magic uint32, onReg, onUnreg RegHook) error {
	t, exists := r.tables[name]

	if !exists {
		t = &table{name: name, magic: magic}
		r.tables[name] = t

		if name != tablesTableName {
			meta := r.ensureTablesTable()
			meta.entries = append(meta.entries, &tableRef{name: name})
		}
	}

	t.magic = magic
	t.onReg = onReg
	t.onUnreg = onUnreg

	return nil
}

func (r *registry) DropTable(name string) error {
	t, ok := r.tables[name]
	if !ok {
		return ErrNoSuchTable.Error(nil)
	}

	for len(t.entries) > 0 {
		e := t.entries[0]

		if t.onUnreg != nil {
			if err := t.onUnreg(name, e); err != nil {
				return err
			}
		}

		t.entries = t.entries[1:]
	}

	delete(r.tables, name)

	if meta, ok := r.tables[tablesTableName]; ok {
		meta.entries = removeByName(meta.entries, name)
	}

	return nil
}

func (r *registry) Register(tableName string, entry Entry) error {
	t, ok := r.tables[tableName]
	if !ok {
		return ErrNoSuchTable.Error(nil)
	}

	if entry.Magic() != t.magic {
		return ErrMagicMismatch.Error(nil)
	}

	for _, e := range t.entries {
		if e.Name() == entry.Name() {
			return ErrDuplicateName.Error(nil)
		}
	}

	if t.onReg != nil {
		if err := t.onReg(tableName, entry); err != nil {
			return err
		}
	}

	t.entries = append(t.entries, entry)
	return nil
}

func (r *registry) RegisterN(tableName string, entries []Entry) (int, error) {
	for i, e := range entries {
		if err := r.Register(tableName, e); err != nil {
			return i, err
		}
	}

	return len(entries), nil
}

func (r *registry) Unregister(tableName string, entry Entry) error {
	t, ok := r.tables[tableName]
	if !ok {
		return ErrNoSuchTable.Error(nil)
	}

	idx := -1
	for i, e := range t.entries {
		if e.Name() == entry.Name() {
			idx = i
			break
		}
	}

	if idx == -1 {
		return ErrNotFound.Error(nil)
	}

	if t.onUnreg != nil {
		if err := t.onUnreg(tableName, t.entries[idx]); err != nil {
			return err
		}
	}

	t.entries = append(t.entries[:idx], t.entries[idx+1:]...)
	return nil
}

func (r *registry) UnregisterN(tableName string, entries []Entry) (int, error) {
	for i, e := range entries {
		if err := r.Unregister(tableName, e); err != nil {
			return i, err
		}
	}

	return len(entries), nil
}

// Find performs a linear walk and, on a hit, bubbles the entry one step
// toward the head of the list (spec §4.1 move-to-front heuristic).
func (r *registry) Find(tableName string, name string) Entry {
	t, ok := r.tables[tableName]
	if !ok {
		return nil
	}

	for i, e := range t.entries {
		if e.Name() != name {
			continue
		}

		if i > 0 {
			t.entries[i-1], t.entries[i] = t.entries[i], t.entries[i-1]
		}

		return e
	}

	return nil
}

func (r *registry) Iter(tableName string, fn FuncWalk) error {
	t, ok := r.tables[tableName]
	if !ok {
		return ErrNoSuchTable.Error(nil)
	}

	for _, e := range t.entries {
		if !fn(e) {
			break
		}
	}

	return nil
}

func removeByName(entries []Entry, name string) []Entry {
	for i, e := range entries {
		if e.Name() == name {
			return append(entries[:i], entries[i+1:]...)
		}
	}

	return entries
}
