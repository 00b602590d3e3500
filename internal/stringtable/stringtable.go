// Package stringtable interns byte strings to stable numeric IDs.
//
// TorqueScript identifiers (function names, namespaces, package names,
// variable names, field names, type names) and tagged string literals are
// all routed through a Table so that later lookups compare small integers
// instead of bytes. Interning is idempotent and IDs are never reused.
package stringtable

import (
	"golang.org/x/text/cases"
)

// ID is an opaque handle into a Table.
type ID int32

// InvalidID is returned by lookups that found nothing.
const InvalidID ID = -1

// Table interns strings, optionally case-folding them first.
//
// When CaseSensitive is false (the interpreter default), every string is
// folded with a Unicode-aware caser before interning or lookup, so that
// "Foo", "FOO" and "foo" all resolve to the same ID. This mirrors the
// case-insensitive identifier handling the teacher's pkg/ident package
// performs ad hoc with strings.ToLower, but uses golang.org/x/text/cases so
// folding is Unicode-correct rather than ASCII-only.
type Table struct {
	byString map[string]ID
	strings  []string
	caser    cases.Caser
	foldCase bool
}

// New creates a Table. When caseSensitive is false, all interning and
// lookup calls fold their input before acting on it.
func New(caseSensitive bool) *Table {
	return &Table{
		byString: make(map[string]ID),
		strings:  make([]string, 0, 64),
		caser:    cases.Fold(),
		foldCase: !caseSensitive,
	}
}

func (t *Table) normalize(s string) string {
	if !t.foldCase {
		return s
	}
	return t.caser.String(s)
}

// Intern returns the ID for s, assigning a new one if s was never seen.
func (t *Table) Intern(s string) ID {
	key := t.normalize(s)
	if id, ok := t.byString[key]; ok {
		return id
	}
	id := ID(len(t.strings))
	t.strings = append(t.strings, key)
	t.byString[key] = id
	return id
}

// Fold normalizes s the same way Intern/Lookup do, without interning it.
// Callers that need a stable comparison key for a name that is resolved
// dynamically at runtime (array-folded local variable names, tagged-field
// names) use this instead of Intern so they don't grow the table with
// names that are only ever used as map keys.
func (t *Table) Fold(s string) string {
	return t.normalize(s)
}

// Lookup returns the ID already assigned to s without interning it.
func (t *Table) Lookup(s string) (ID, bool) {
	id, ok := t.byString[t.normalize(s)]
	return id, ok
}

// Resolve returns the bytes stored for id.
func (t *Table) Resolve(id ID) string {
	if id < 0 || int(id) >= len(t.strings) {
		return ""
	}
	return t.strings[id]
}

// Len reports how many distinct strings have been interned.
func (t *Table) Len() int {
	return len(t.strings)
}

// CaseSensitive reports whether this table preserves case (no folding).
func (t *Table) CaseSensitive() bool {
	return !t.foldCase
}
