/*
 * sicsim - SIC/XE opcode dictionary
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

// Package opcode holds the mnemonic <-> opcode dictionary used by the
// assembler, loader and simulator. It is built once from a text file
// of the form "<hex opcode> <mnemonic> <format>" and never mutated
// after load.
package opcode

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Format is a bit-set of the instruction formats a mnemonic supports.
type Format uint8

const (
	Format1 Format = 1 << iota
	Format2
	Format3
	Format4
)

// Has reports whether f includes format g.
func (f Format) Has(g Format) bool {
	return f&g != 0
}

// Entry is one dictionary row.
type Entry struct {
	Mnemonic string
	Opcode   byte
	Formats  Format
}

// Table is a process-wide opcode dictionary. The zero value is empty.
type Table struct {
	byName   map[string]Entry
	byOpcode map[byte]Entry // reverse index for the simulator's fetch cycle.
	order    []string       // insertion order, for deterministic opcodelist output.
}

var ErrNotFound = errors.New("cannot find mnemonic")

// New returns an empty table.
func New() *Table {
	return &Table{byName: make(map[string]Entry)}
}

// Load reads a whitespace-separated opcode table file and replaces the
// receiver's contents, in the format of the repository's opcode.txt. Each line is
// "<hex> <mnemonic> <format>" where format is 1, 2, 3/4, 3 or 4.
func (t *Table) Load(r io.Reader) error {
	byName := make(map[string]Entry)
	byOpcode := make(map[byte]Entry)
	order := make([]string, 0, 256)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return fmt.Errorf("opcode.txt:%d: expected 3 fields, got %d", lineNo, len(fields))
		}
		op, err := strconv.ParseUint(fields[0], 16, 8)
		if err != nil {
			return fmt.Errorf("opcode.txt:%d: invalid opcode %q", lineNo, fields[0])
		}
		mnemonic := strings.ToUpper(fields[1])
		formats, err := parseFormat(fields[2])
		if err != nil {
			return fmt.Errorf("opcode.txt:%d: %w", lineNo, err)
		}
		if _, dup := byName[mnemonic]; dup {
			return fmt.Errorf("opcode.txt:%d: duplicate mnemonic %s", lineNo, mnemonic)
		}
		entry := Entry{Mnemonic: mnemonic, Opcode: byte(op), Formats: formats}
		byName[mnemonic] = entry
		byOpcode[entry.Opcode] = entry
		order = append(order, mnemonic)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	t.byName = byName
	t.byOpcode = byOpcode
	t.order = order
	return nil
}

// LoadFile opens path and calls Load.
func (t *Table) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return t.Load(f)
}

func parseFormat(spec string) (Format, error) {
	switch spec {
	case "1":
		return Format1, nil
	case "2":
		return Format2, nil
	case "3":
		return Format3, nil
	case "4":
		return Format4, nil
	case "3/4":
		return Format3 | Format4, nil
	default:
		return 0, fmt.Errorf("invalid format spec %q", spec)
	}
}

// Lookup returns the dictionary entry for mnemonic, case-insensitive.
func (t *Table) Lookup(mnemonic string) (Entry, bool) {
	e, ok := t.byName[strings.ToUpper(mnemonic)]
	return e, ok
}

// OpcodeOf returns the numeric opcode for mnemonic.
func (t *Table) OpcodeOf(mnemonic string) (byte, error) {
	e, ok := t.Lookup(mnemonic)
	if !ok {
		return 0, fmt.Errorf("%w %s", ErrNotFound, mnemonic)
	}
	return e.Opcode, nil
}

// ByOpcode returns the dictionary entry for a numeric opcode, masked
// to its top six bits the way the fetch cycle reads byte0 (the low
// two bits of a format 3/4 instruction's first byte are the n/i
// addressing flags, not part of the opcode).
func (t *Table) ByOpcode(op byte) (Entry, bool) {
	e, ok := t.byOpcode[op&0xFC]
	return e, ok
}

// FormatOf returns the admissible format set for mnemonic.
func (t *Table) FormatOf(mnemonic string) (Format, error) {
	e, ok := t.Lookup(mnemonic)
	if !ok {
		return 0, fmt.Errorf("%w %s", ErrNotFound, mnemonic)
	}
	return e.Formats, nil
}

// ListBuckets returns every entry in the table, in a stable order for
// the life of one process (the order opcode.txt was read in).
func (t *Table) ListBuckets() []Entry {
	entries := make([]Entry, 0, len(t.order))
	for _, name := range t.order {
		entries = append(entries, t.byName[name])
	}
	return entries
}

// Len returns the number of mnemonics known to the table.
func (t *Table) Len() int {
	return len(t.byName)
}

// String renders a format set the way §6.4 writes it back.
func (f Format) String() string {
	switch {
	case f.Has(Format3) && f.Has(Format4):
		return "3/4"
	case f.Has(Format1):
		return "1"
	case f.Has(Format2):
		return "2"
	case f.Has(Format3):
		return "3"
	case f.Has(Format4):
		return "4"
	default:
		return "?"
	}
}
