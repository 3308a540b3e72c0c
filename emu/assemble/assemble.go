/*
 * sicsim - Two-pass SIC/XE assembler
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

// Package assembler implements the two-pass SIC/XE assembler: pass 1
// builds the working symbol table and an in-memory record of each
// source line's location counter and instruction length, pass 2 uses
// that record to emit object and listing files.
package assembler

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sicxe/sicsim/emu/opcode"
	"github.com/sicxe/sicsim/emu/symtab"
)

var directives = map[string]bool{
	"START": true, "END": true, "BYTE": true, "WORD": true,
	"RESB": true, "RESW": true, "BASE": true, "NOBASE": true,
}

// Assembler ties the opcode dictionary and the symbol-table saver
// together so Assemble can both look up mnemonics and promote a
// successful pass over the working table.
type Assembler struct {
	Opcodes *opcode.Table
	Symbols *symtab.Saver
}

// New returns an Assembler backed by the given opcode dictionary and
// symbol-table saver.
func New(opcodes *opcode.Table, symbols *symtab.Saver) *Assembler {
	return &Assembler{Opcodes: opcodes, Symbols: symbols}
}

// sourceLine is one line of the .asm file plus everything pass 1
// learned about it. It stands in for the source's ephemeral .int
// intermediate file -- an in-memory sequence keyed by line ordinal is
// an adequate substitute for the disk round-trip.
type sourceLine struct {
	lineNo    int
	raw       string
	isComment bool
	isBlank   bool
	label     string
	mnemonic  string
	operand1  string
	operand2  string
	locctr    uint32
	instrLen  int
	hasLocctr bool
}

func isMnemonicOrDirective(opcodes *opcode.Table, word string) bool {
	upper := strings.ToUpper(word)
	if directives[upper] {
		return true
	}
	base := strings.TrimPrefix(upper, "+")
	_, ok := opcodes.Lookup(base)
	return ok
}

func parseSourceLine(raw string, lineNo int, opcodes *opcode.Table) sourceLine {
	sl := sourceLine{lineNo: lineNo, raw: raw}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		sl.isBlank = true
		return sl
	}
	if strings.HasPrefix(trimmed, ".") {
		sl.isComment = true
		return sl
	}

	first, rest := getWord(raw)
	var mnemonicStart string
	if isMnemonicOrDirective(opcodes, first) {
		mnemonicStart = first
	} else {
		sl.label = first
		mnemonicStart, rest = getWord(rest)
	}
	sl.mnemonic = strings.ToUpper(mnemonicStart)
	sl.operand1, sl.operand2 = splitOperands(rest)
	return sl
}

// Assemble reads path (which must end in .asm), builds path's object
// and listing files, and on success promotes the working symbol table
// to the saved one. On any failure it removes partial output and
// leaves the saved symbol table untouched.
func (a *Assembler) Assemble(path string) error {
	if filepath.Ext(path) != ".asm" {
		return fmt.Errorf("assemble: %s is not a .asm file", path)
	}
	base := strings.TrimSuffix(path, ".asm")
	objPath := base + ".obj"
	lstPath := base + ".lst"

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("assemble: %w", err)
	}
	lines := strings.Split(strings.TrimRight(string(src), "\n"), "\n")

	a.Symbols.NewWorking()
	working := a.Symbols.Working()

	records, programName, programStart, programLen, perr := a.pass1(lines, working)
	if perr != nil {
		return perr
	}

	if werr := a.pass2(records, programName, programStart, programLen, working, objPath, lstPath); werr != nil {
		_ = os.Remove(objPath)
		_ = os.Remove(lstPath)
		return werr
	}

	a.Symbols.Save()
	return nil
}

func (a *Assembler) pass1(lines []string, working *symtab.Table) ([]sourceLine, string, uint32, uint32, error) {
	var records []sourceLine
	var locctr uint32
	var programStart uint32
	var programName string

	lineNo := 0
	first := true
	ended := false

	for _, raw := range lines {
		lineNo += 5
		sl := parseSourceLine(raw, lineNo, a.Opcodes)

		if sl.isBlank || sl.isComment {
			records = append(records, sl)
			continue
		}

		if first {
			first = false
			if sl.mnemonic == "START" {
				v, err := strconv.ParseUint(sl.operand1, 16, 32)
				if err != nil {
					return nil, "", 0, 0, &SymbolError{InvalidOperand, sl.lineNo, sl.operand1}
				}
				locctr = uint32(v)
				programStart = locctr
				programName = sl.label
				if sl.label != "" {
					if err := working.Insert(sl.label, locctr); err != nil {
						return nil, "", 0, 0, &SymbolError{DuplicateSymbol, sl.lineNo, sl.label}
					}
				}
				sl.locctr, sl.hasLocctr, sl.instrLen = locctr, true, 0
				records = append(records, sl)
				continue
			}
		}

		if sl.mnemonic == "END" {
			sl.locctr, sl.hasLocctr = locctr, true
			records = append(records, sl)
			ended = true
			break
		}

		if sl.label != "" {
			if err := working.Insert(sl.label, locctr); err != nil {
				return nil, "", 0, 0, &SymbolError{DuplicateSymbol, sl.lineNo, sl.label}
			}
		}

		instrLen, err := instructionLength(a.Opcodes, sl)
		if err != nil {
			return nil, "", 0, 0, err
		}

		sl.locctr, sl.hasLocctr, sl.instrLen = locctr, true, instrLen
		records = append(records, sl)
		locctr += uint32(instrLen)
	}

	if !ended {
		return nil, "", 0, 0, &SymbolError{InvalidOperand, lineNo, "END"}
	}

	return records, programName, programStart, locctr - programStart, nil
}

func instructionLength(opcodes *opcode.Table, sl sourceLine) (int, error) {
	switch sl.mnemonic {
	case "BYTE":
		return byteLiteralLength(sl.operand1, sl.lineNo)
	case "WORD":
		return 3, nil
	case "RESB":
		n, err := strconv.Atoi(sl.operand1)
		if err != nil || n < 0 {
			return 0, &SymbolError{InvalidOperand, sl.lineNo, sl.operand1}
		}
		return n, nil
	case "RESW":
		n, err := strconv.Atoi(sl.operand1)
		if err != nil || n < 0 {
			return 0, &SymbolError{InvalidOperand, sl.lineNo, sl.operand1}
		}
		return n * 3, nil
	case "BASE", "NOBASE":
		return 0, nil
	}

	plus := strings.HasPrefix(sl.mnemonic, "+")
	base := strings.TrimPrefix(sl.mnemonic, "+")
	entry, ok := opcodes.Lookup(base)
	if !ok {
		return 0, &SymbolError{InvalidOpcode, sl.lineNo, sl.mnemonic}
	}
	if plus {
		if !entry.Formats.Has(opcode.Format4) {
			return 0, &SymbolError{InvalidOpcode, sl.lineNo, sl.mnemonic}
		}
		return 4, nil
	}
	switch {
	case entry.Formats.Has(opcode.Format1):
		return 1, nil
	case entry.Formats.Has(opcode.Format2):
		return 2, nil
	case entry.Formats.Has(opcode.Format3):
		return 3, nil
	}
	return 0, &SymbolError{InvalidOpcode, sl.lineNo, sl.mnemonic}
}

func (a *Assembler) pass2(records []sourceLine, programName string, programStart, programLen uint32, working *symtab.Table, objPath, lstPath string) error {
	objFile, err := os.Create(objPath)
	if err != nil {
		return fmt.Errorf("assemble: cannot create %s: %w", objPath, err)
	}
	defer objFile.Close()
	lstFile, err := os.Create(lstPath)
	if err != nil {
		return fmt.Errorf("assemble: cannot create %s: %w", lstPath, err)
	}
	defer lstFile.Close()

	obj := bufio.NewWriter(objFile)
	lst := bufio.NewWriter(lstFile)
	defer obj.Flush()
	defer lst.Flush()

	name := programName
	if len(name) > 6 {
		name = name[:6]
	}
	fmt.Fprintf(obj, "H%-6s%06X%06X\n", name, programStart, programLen)

	var tr textRecord
	var mods []modRecord
	var baseAddr *uint32

	flush := func() {
		if !tr.empty() {
			fmt.Fprintln(obj, tr.render())
		}
		tr = textRecord{}
	}

	for _, sl := range records {
		if sl.isBlank {
			continue
		}
		if sl.isComment {
			fmt.Fprintf(lst, "%3d\t   \t%s\n", sl.lineNo, sl.raw)
			continue
		}

		if sl.mnemonic == "END" {
			fmt.Fprintf(lst, "%3d\t   \t%s\n", sl.lineNo, sl.raw)
			continue
		}

		var code []byte
		switch sl.mnemonic {
		case "START":
			fmt.Fprintf(lst, "%3d\t%04X\t%-6s\t%-6s\t%s\n", sl.lineNo, sl.locctr, sl.label, sl.mnemonic, sl.operand1)
			continue
		case "BASE":
			v, err := working.Lookup(sl.operand1)
			if err != nil {
				return &SymbolError{InvalidOperand, sl.lineNo, sl.operand1}
			}
			baseAddr = new(uint32)
			*baseAddr = v
			fmt.Fprintf(lst, "%3d\t   \t%-6s\t%-6s\t%s\n", sl.lineNo, sl.label, sl.mnemonic, sl.operand1)
			continue
		case "NOBASE":
			baseAddr = nil
			fmt.Fprintf(lst, "%3d\t   \t%-6s\t%-6s\n", sl.lineNo, sl.label, sl.mnemonic)
			continue
		case "BYTE":
			code, err = decodeByteLiteral(sl.operand1, sl.lineNo)
			if err != nil {
				return err
			}
		case "WORD":
			n, _ := strconv.Atoi(sl.operand1)
			code = []byte{byte(n >> 16), byte(n >> 8), byte(n)}
		case "RESB", "RESW":
			flush()
			fmt.Fprintf(lst, "%3d\t%04X\t%-6s\t%-6s\t%s\n", sl.lineNo, sl.locctr, sl.label, sl.mnemonic, sl.operand1)
			continue
		default:
			var mod *modRecord
			code, mod, err = assembleInstruction(a.Opcodes, working, sl, baseAddr, programStart)
			if err != nil {
				return err
			}
			if mod != nil {
				mods = append(mods, *mod)
			}
		}

		// Object-record addresses are stored relative to the section's
		// own start so the loader's "section_base + addr" arithmetic
		// relocates correctly regardless of where progaddr places it;
		// the listing keeps the absolute locctr for readability.
		relLocctr := sl.locctr - programStart
		if tr.empty() {
			tr.start = relLocctr
		} else if tr.start+uint32(len(tr.bytes)) != relLocctr || len(tr.bytes)+len(code) > 30 {
			flush()
			tr.start = relLocctr
		}
		tr.bytes = append(tr.bytes, code...)

		operand := sl.operand1
		if sl.operand2 != "" {
			operand = operand + ", " + sl.operand2
		}
		fmt.Fprintf(lst, "%3d\t%04X\t%-6s\t%-6s\t%-14s%s\n", sl.lineNo, sl.locctr, sl.label, sl.mnemonic, operand, hexBytes(code))
	}
	flush()

	for _, m := range mods {
		fmt.Fprintln(obj, m.render())
	}
	fmt.Fprintf(obj, "E%06X\n", programStart)

	return nil
}

// assembleInstruction encodes one format-1/2/3/4 instruction, also
// returning a modification record when its address field was resolved
// through a symbol in a format-4 (+-prefixed) instruction.
func assembleInstruction(opcodes *opcode.Table, working *symtab.Table, sl sourceLine, base *uint32, programStart uint32) ([]byte, *modRecord, error) {
	plus := strings.HasPrefix(sl.mnemonic, "+")
	name := strings.TrimPrefix(sl.mnemonic, "+")
	entry, ok := opcodes.Lookup(name)
	if !ok {
		return nil, nil, &SymbolError{InvalidOpcode, sl.lineNo, sl.mnemonic}
	}

	switch {
	case entry.Formats.Has(opcode.Format1) && !entry.Formats.Has(opcode.Format2) && !entry.Formats.Has(opcode.Format3):
		return []byte{entry.Opcode}, nil, nil
	case entry.Formats.Has(opcode.Format2):
		var r1, r2 uint32
		if sl.operand1 != "" {
			var regOK bool
			r1, regOK = symtab.RegisterNumber(sl.operand1)
			if !regOK {
				return nil, nil, &SymbolError{InvalidOperand, sl.lineNo, sl.operand1}
			}
		}
		if sl.operand2 != "" {
			var regOK bool
			r2, regOK = symtab.RegisterNumber(sl.operand2)
			if !regOK {
				return nil, nil, &SymbolError{InvalidOperand, sl.lineNo, sl.operand2}
			}
		}
		return []byte{entry.Opcode, byte(r1<<4) | byte(r2)}, nil, nil
	}

	return assembleFormat34(name, entry, sl, working, base, plus, programStart)
}

func assembleFormat34(name string, entry opcode.Entry, sl sourceLine, working *symtab.Table, base *uint32, plus bool, programStart uint32) ([]byte, *modRecord, error) {
	n, i := 1, 1
	operand := sl.operand1
	switch {
	case name == "RSUB":
		operand = ""
	case strings.HasPrefix(operand, "#"):
		n, i = 0, 1
		operand = operand[1:]
	case strings.HasPrefix(operand, "@"):
		n, i = 1, 0
		operand = operand[1:]
	}

	x := 0
	if sl.operand2 != "" {
		if strings.ToUpper(sl.operand2) != "X" {
			return nil, nil, &SymbolError{InvalidOperand, sl.lineNo, sl.operand2}
		}
		x = 1
	}

	var target uint32
	var b, p int
	var mod *modRecord

	switch {
	case name == "RSUB":
		target, b, p = 0, 0, 0
	case n == 0 && i == 1:
		if v, err := strconv.ParseInt(operand, 10, 64); err == nil {
			target, b, p = uint32(v), 0, 0
			break
		}
		fallthrough
	default:
		addr, err := working.Lookup(operand)
		if err != nil {
			return nil, nil, &SymbolError{InvalidOperand, sl.lineNo, operand}
		}
		if plus {
			// Bake in the address as if the section loads at 0; the
			// loader's modification record adds back the section's
			// actual load base (external-reference slot 01).
			target, b, p = addr-programStart, 0, 0
			mod = &modRecord{addr: sl.locctr + 1 - programStart, halfByte: 5}
			break
		}
		nextLocctr := sl.locctr + uint32(sl.instrLen)
		disp := int64(addr) - int64(nextLocctr)
		switch {
		case disp >= -2048 && disp <= 2047:
			target, b, p = uint32(disp)&0xFFF, 0, 1
		case base != nil && int64(addr)-int64(*base) >= 0 && int64(addr)-int64(*base) <= 4095:
			target, b, p = addr-*base, 1, 0
		default:
			return nil, nil, &SymbolError{InvalidOperand, sl.lineNo, operand}
		}
	}

	flagByte := byte(x<<3) | byte(b<<2) | byte(p<<1)
	if plus {
		flagByte |= 1 // e bit
		byte1 := entry.Opcode | byte(n<<1) | byte(i)
		return []byte{
			byte1,
			(flagByte << 4) | byte((target>>16)&0xF),
			byte((target >> 8) & 0xFF),
			byte(target & 0xFF),
		}, mod, nil
	}

	byte1 := entry.Opcode | byte(n<<1) | byte(i)
	return []byte{
		byte1,
		(flagByte << 4) | byte((target>>8)&0xF),
		byte(target & 0xFF),
	}, nil, nil
}
