/*
 * sicsim - Linking loader
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

// Package loader implements the two-pass linking loader: pass 1 walks
// every object file to assign control-section base addresses and
// populate the external symbol table, pass 2 walks them again to
// write object bytes into memory and apply modification records.
package loader

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sicxe/sicsim/emu/extsym"
	"github.com/sicxe/sicsim/emu/memory"
)

// ErrorKind is the loader's error taxonomy (§7).
type ErrorKind int

const (
	MissingFile ErrorKind = iota
	MalformedRecord
	UnresolvedReference
	OutOfRangeAddress
)

func (k ErrorKind) String() string {
	switch k {
	case MissingFile:
		return "missing file"
	case MalformedRecord:
		return "malformed object record"
	case UnresolvedReference:
		return "unresolved external reference"
	case OutOfRangeAddress:
		return "address out of range"
	default:
		return "unknown error"
	}
}

// LoadError reports a loader failure against the file and record that
// triggered it.
type LoadError struct {
	Kind   ErrorKind
	File   string
	Detail string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.File, e.Kind, e.Detail)
}

// PrepareRun is satisfied by the simulator: after pass 1 completes the
// loader primes the program address and length for the next run.
type PrepareRun interface {
	PrepareRun(addr, length uint32)
}

// Loader ties the external-symbol table, the memory image and the
// simulator's run-priming hook together.
type Loader struct {
	Symbols *extsym.Table
	Memory  *memory.Image
	Runner  PrepareRun
}

// New returns a Loader over the given external-symbol table, memory
// image and run-priming target.
func New(symbols *extsym.Table, mem *memory.Image, runner PrepareRun) *Loader {
	return &Loader{Symbols: symbols, Memory: mem, Runner: runner}
}

type fileRecords struct {
	path   string
	name   string
	length uint32
	dRecs  []dRecord
	rRecs  []rRecord
	tRecs  []tRecord
	mRecs  []mRecord
}

type dRecord struct {
	name string
	addr uint32
}

type rRecord struct {
	refnum int
	name   string
}

type tRecord struct {
	addr  uint32
	bytes []byte
}

type mRecord struct {
	addr     uint32
	halfByte int
	negative bool
	refnum   int
}

// Load processes one to three object files strictly left to right,
// starting the first file's first section at progaddr.
func (l *Loader) Load(progaddr uint32, paths ...string) error {
	l.Symbols.Reset()

	var files []fileRecords
	for _, p := range paths {
		fr, err := readObjectFile(p)
		if err != nil {
			return err
		}
		files = append(files, fr)
	}

	cursor := progaddr
	var sections []*extsym.Section
	for _, fr := range files {
		sec, err := l.Symbols.AddSection(fr.name, cursor, fr.length)
		if err != nil {
			return &LoadError{MalformedRecord, fr.path, err.Error()}
		}
		sections = append(sections, sec)
		for _, d := range fr.dRecs {
			if err := l.Symbols.AddSymbol(sec, d.name, cursor+d.addr); err != nil {
				return &LoadError{MalformedRecord, fr.path, err.Error()}
			}
		}
		cursor += fr.length
	}

	if l.Runner != nil {
		l.Runner.PrepareRun(progaddr, cursor-progaddr)
	}

	cursor = progaddr
	for _, fr := range files {
		refs := map[int]uint32{1: cursor}
		for _, r := range fr.rRecs {
			addr, err := l.Symbols.AddressOf(r.name)
			if err != nil {
				return &LoadError{UnresolvedReference, fr.path, r.name}
			}
			refs[r.refnum] = addr
		}

		for _, t := range fr.tRecs {
			if err := l.Memory.Set(cursor+t.addr, t.bytes); err != nil {
				return &LoadError{OutOfRangeAddress, fr.path, err.Error()}
			}
		}

		for _, m := range fr.mRecs {
			amount, ok := refs[m.refnum]
			if !ok {
				return &LoadError{UnresolvedReference, fr.path, fmt.Sprintf("refnum %02d", m.refnum)}
			}
			sign := memory.Positive
			if m.negative {
				sign = memory.Negative
			}
			if err := l.Memory.Modify(cursor+m.addr, m.halfByte, sign, amount); err != nil {
				return &LoadError{OutOfRangeAddress, fr.path, err.Error()}
			}
		}

		cursor += fr.length
	}

	return nil
}

func readObjectFile(path string) (fileRecords, error) {
	f, err := os.Open(path)
	if err != nil {
		return fileRecords{}, &LoadError{MissingFile, path, err.Error()}
	}
	defer f.Close()

	fr := fileRecords{path: path}
	scanner := bufio.NewScanner(f)
	sawHeader := false
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		switch line[0] {
		case 'H':
			if len(line) < 19 {
				return fileRecords{}, &LoadError{MalformedRecord, path, line}
			}
			fr.name = strings.TrimSpace(line[1:7])
			length, err := strconv.ParseUint(line[13:19], 16, 32)
			if err != nil {
				return fileRecords{}, &LoadError{MalformedRecord, path, line}
			}
			fr.length = uint32(length)
			sawHeader = true
		case 'D':
			recs, err := parsePairs(line[1:], path, line)
			if err != nil {
				return fileRecords{}, err
			}
			for _, rec := range recs {
				fr.dRecs = append(fr.dRecs, dRecord{name: rec.name, addr: rec.addr})
			}
		case 'R':
			body := line[1:]
			for len(body) >= 8 {
				n, err := strconv.Atoi(body[:2])
				if err != nil {
					return fileRecords{}, &LoadError{MalformedRecord, path, line}
				}
				fr.rRecs = append(fr.rRecs, rRecord{refnum: n, name: strings.TrimSpace(body[2:8])})
				body = body[8:]
			}
		case 'T':
			if len(line) < 9 {
				return fileRecords{}, &LoadError{MalformedRecord, path, line}
			}
			addr, err := strconv.ParseUint(line[1:7], 16, 32)
			if err != nil {
				return fileRecords{}, &LoadError{MalformedRecord, path, line}
			}
			n, err := strconv.ParseUint(line[7:9], 16, 8)
			if err != nil {
				return fileRecords{}, &LoadError{MalformedRecord, path, line}
			}
			data := line[9:]
			bytes := make([]byte, n)
			for i := range bytes {
				v, err := strconv.ParseUint(data[2*i:2*i+2], 16, 8)
				if err != nil {
					return fileRecords{}, &LoadError{MalformedRecord, path, line}
				}
				bytes[i] = byte(v)
			}
			fr.tRecs = append(fr.tRecs, tRecord{addr: uint32(addr), bytes: bytes})
		case 'M':
			if len(line) < 12 {
				return fileRecords{}, &LoadError{MalformedRecord, path, line}
			}
			addr, err := strconv.ParseUint(line[1:7], 16, 32)
			if err != nil {
				return fileRecords{}, &LoadError{MalformedRecord, path, line}
			}
			halfByte, err := strconv.ParseUint(line[7:9], 16, 8)
			if err != nil {
				return fileRecords{}, &LoadError{MalformedRecord, path, line}
			}
			neg := line[9] == '-'
			refnum, err := strconv.Atoi(line[10:12])
			if err != nil {
				return fileRecords{}, &LoadError{MalformedRecord, path, line}
			}
			fr.mRecs = append(fr.mRecs, mRecord{addr: uint32(addr), halfByte: int(halfByte), negative: neg, refnum: refnum})
		case 'E':
			// Entry address is informational only: the run address is
			// progaddr, primed separately once every section is placed.
		}
	}
	if !sawHeader {
		return fileRecords{}, &LoadError{MalformedRecord, path, "missing H record"}
	}
	return fr, nil
}

func parsePairs(body, path, line string) ([]dRecord, error) {
	var out []dRecord
	for len(body) >= 12 {
		name := strings.TrimSpace(body[:6])
		addr, err := strconv.ParseUint(body[6:12], 16, 32)
		if err != nil {
			return nil, &LoadError{MalformedRecord, path, line}
		}
		out = append(out, dRecord{name: name, addr: uint32(addr)})
		body = body[12:]
	}
	return out, nil
}
