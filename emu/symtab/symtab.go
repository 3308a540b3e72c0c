/*
 * sicsim - Assembler symbol table
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package symtab holds the assembler's label -> location-counter table.
// A Saver keeps a "working" Table being built during the current
// assembly and a "saved" Table, the frozen snapshot of the most recent
// successful assembly (the only one the "symbol" command displays).
package symtab

import (
	"fmt"
	"sort"
	"strings"
)

// Registers known to the assembler and simulator, consulted before
// any user label. Ordinal values are architecturally fixed.
var registers = map[string]uint32{
	"A":  0,
	"X":  1,
	"L":  2,
	"B":  3,
	"S":  4,
	"T":  5,
	"F":  6,
	"PC": 8,
	"SW": 9,
}

// ErrDuplicate is returned by Insert when the label already exists.
type ErrDuplicate struct {
	Label string
}

func (e *ErrDuplicate) Error() string {
	return fmt.Sprintf("duplicate symbol %s", e.Label)
}

// ErrNotFound is returned by Lookup when a label is unknown.
type ErrNotFound struct {
	Label string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("undefined symbol %s", e.Label)
}

// entry preserves insertion order so Display can render "alphabetical
// by first letter, then insertion order" deterministically.
type entry struct {
	label  string
	locctr uint32
	order  int
}

// Table is a single symbol table (working or saved).
type Table struct {
	byLabel map[string]*entry
	next    int
}

// New returns an empty table.
func New() *Table {
	return &Table{byLabel: make(map[string]*entry)}
}

// IsRegister reports whether label names a register rather than a
// user symbol.
func IsRegister(label string) bool {
	_, ok := registers[strings.ToUpper(label)]
	return ok
}

// RegisterNumber returns the ordinal of a register name.
func RegisterNumber(label string) (uint32, bool) {
	n, ok := registers[strings.ToUpper(label)]
	return n, ok
}

// Insert adds label -> locctr to the table. It fails with
// *ErrDuplicate if label is already present.
func (t *Table) Insert(label string, locctr uint32) error {
	label = strings.ToUpper(label)
	if _, dup := t.byLabel[label]; dup {
		return &ErrDuplicate{Label: label}
	}
	t.byLabel[label] = &entry{label: label, locctr: locctr, order: t.next}
	t.next++
	return nil
}

// Contains reports whether label is present in the table.
func (t *Table) Contains(label string) bool {
	_, ok := t.byLabel[strings.ToUpper(label)]
	return ok
}

// Lookup resolves label to a location counter, consulting the register
// table first.
func (t *Table) Lookup(label string) (uint32, error) {
	if n, ok := RegisterNumber(label); ok {
		return n, nil
	}
	label = strings.ToUpper(label)
	if e, ok := t.byLabel[label]; ok {
		return e.locctr, nil
	}
	return 0, &ErrNotFound{Label: label}
}

// Len returns the number of user labels in the table.
func (t *Table) Len() int {
	return len(t.byLabel)
}

// Clone returns a deep copy of t, used to freeze the working table
// into the saved table on a successful assembly.
func (t *Table) Clone() *Table {
	clone := New()
	clone.next = t.next
	for k, v := range t.byLabel {
		cp := *v
		clone.byLabel[k] = &cp
	}
	return clone
}

// Display renders the table grouped by initial letter in sorted
// order, each entry as "LABEL\tHHHH" with four upper-case hex digits,
// within a letter group ordered by insertion (earliest inserted
// first).
func (t *Table) Display() string {
	entries := make([]*entry, 0, len(t.byLabel))
	for _, e := range t.byLabel {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.label[0] != b.label[0] {
			return a.label[0] < b.label[0]
		}
		return a.order < b.order
	})

	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%s\t%04X\n", e.label, e.locctr)
	}
	return sb.String()
}
