/*
 * sicsim - External symbol table
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

// Package extsym holds the loader's external-symbol table: one entry
// per loaded control section, each carrying the absolute addresses of
// its defined (exported) symbols after relocation.
package extsym

import (
	"fmt"
	"strings"
)

// ErrDuplicate is returned when a control section or defined symbol
// name collides with one already present.
type ErrDuplicate struct {
	Name string
}

func (e *ErrDuplicate) Error() string {
	return fmt.Sprintf("duplicate external symbol %s", e.Name)
}

// ErrNotFound is returned by AddressOf for an unknown symbol.
type ErrNotFound struct {
	Name string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("undefined external reference %s", e.Name)
}

// Symbol is one defined (exported) symbol of a control section.
type Symbol struct {
	Name    string
	Address uint32
}

// Section is one control section: one object file's worth of code.
type Section struct {
	Name    string
	Base    uint32
	Length  uint32
	Symbols []Symbol
}

// Table is the process-wide external-symbol table populated by the
// loader's pass 1 and consulted by its pass 2.
type Table struct {
	sections []*Section
	byName   map[string]uint32 // symbol name -> absolute address, across all sections.
	secNames map[string]bool
}

// New returns an empty table.
func New() *Table {
	return &Table{
		byName:   make(map[string]uint32),
		secNames: make(map[string]bool),
	}
}

// Reset clears the table for a fresh loader run.
func (t *Table) Reset() {
	t.sections = nil
	t.byName = make(map[string]uint32)
	t.secNames = make(map[string]bool)
}

// AddSection registers a new control section. name must be globally
// unique across the life of the table.
func (t *Table) AddSection(name string, base, length uint32) (*Section, error) {
	if t.secNames[name] {
		return nil, &ErrDuplicate{Name: name}
	}
	sec := &Section{Name: name, Base: base, Length: length}
	t.sections = append(t.sections, sec)
	t.secNames[name] = true
	return sec, nil
}

// AddSymbol records a defined symbol belonging to section. The symbol
// name must be globally unique across every section in the table.
func (t *Table) AddSymbol(section *Section, name string, absoluteAddr uint32) error {
	if _, dup := t.byName[name]; dup {
		return &ErrDuplicate{Name: name}
	}
	section.Symbols = append(section.Symbols, Symbol{Name: name, Address: absoluteAddr})
	t.byName[name] = absoluteAddr
	return nil
}

// AddressOf resolves a defined external symbol to its absolute
// address.
func (t *Table) AddressOf(name string) (uint32, error) {
	addr, ok := t.byName[name]
	if !ok {
		return 0, &ErrNotFound{Name: name}
	}
	return addr, nil
}

// Sections returns every control section in load order.
func (t *Table) Sections() []*Section {
	return t.sections
}

// Display renders the table the way §4.3 specifies: tab-delimited,
// with a header, a rule, one line per section giving its base and
// length, one indented line per defined symbol giving its absolute
// address, a closing rule, and a total-length line.
func (t *Table) Display() string {
	var sb strings.Builder
	sb.WriteString("Control\tSymbol\tAddress\tLength\n")
	sb.WriteString("section\tname\n")
	sb.WriteString("--------------------------------\n")

	var total uint32
	for _, sec := range t.sections {
		fmt.Fprintf(&sb, "%s\t\t%05X\t%05X\n", sec.Name, sec.Base, sec.Length)
		for _, sym := range sec.Symbols {
			fmt.Fprintf(&sb, "\t%s\t%05X\n", sym.Name, sym.Address)
		}
		total += sec.Length
	}
	sb.WriteString("--------------------------------\n")
	fmt.Fprintf(&sb, "\tTotal length %05X\n", total)
	return sb.String()
}
