/*
 * sicsim - Command handlers
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

package shell

import (
	"fmt"
	"os"
	"strings"

	"github.com/sicxe/sicsim/emu/cpu"
	"github.com/sicxe/sicsim/emu/memory"
	"github.com/sicxe/sicsim/util/hex"
)

func (s *Shell) cmdHelp(args []string) error {
	if len(args) != 0 {
		return errArgCount("0", len(args))
	}
	fmt.Fprint(s.out, `help | h
dir | d
quit | q
history | hi
type <filename>
dump | du  [ <start-hex> [, <end-hex> ] ]
edit | e   <address-hex>, <value-hex>
fill | f   <start-hex>, <end-hex>, <value-hex>
reset
opcode <mnemonic>
opcodelist
assemble <file.asm>
symbol
progaddr <address-hex>
loader <file.obj> [<file.obj> [<file.obj>]]
bp
bp <address-hex>
bp clear
run
`)
	return nil
}

func (s *Shell) cmdDir(args []string) error {
	if len(args) != 0 {
		return errArgCount("0", len(args))
	}
	entries, err := os.ReadDir(".")
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintln(s.out, e.Name())
	}
	return nil
}

func (s *Shell) cmdQuit(args []string) error {
	if len(args) != 0 {
		return errArgCount("0", len(args))
	}
	return errQuit
}

func (s *Shell) cmdHistory(args []string) error {
	if len(args) != 0 {
		return errArgCount("0", len(args))
	}
	fmt.Fprint(s.out, s.history.render())
	return nil
}

func (s *Shell) cmdType(args []string) error {
	if len(args) != 1 {
		return errArgCount("1", len(args))
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

// dumpLineLen is the width of a bare dump with no explicit end: one
// rendered line's worth of bytes.
const dumpLineLen = 16

func (s *Shell) cmdDump(args []string) error {
	var start, end uint32
	var err error

	switch len(args) {
	case 0:
		start = s.Memory.NextDumpStart()
		end = start + dumpLineLen - 1
	case 1:
		start, err = parseAddr(args[0])
		if err != nil {
			return err
		}
		end = start + dumpLineLen - 1
	case 2:
		start, err = parseAddr(args[0])
		if err != nil {
			return err
		}
		end, err = parseAddr(args[1])
		if err != nil {
			return err
		}
	default:
		return errArgCount("0, 1 or 2", len(args))
	}

	if end > memory.AddrMask {
		end = memory.AddrMask
	}
	if start > end {
		return fmt.Errorf("start %05X > end %05X", start, end)
	}

	out, err := s.Memory.Dump(start, end)
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, out)
	return nil
}

func (s *Shell) cmdEdit(args []string) error {
	if len(args) != 2 {
		return errArgCount("2", len(args))
	}
	addr, err := parseAddr(args[0])
	if err != nil {
		return err
	}
	value, err := parseByte(args[1])
	if err != nil {
		return err
	}
	return s.Memory.Edit(addr, value)
}

func (s *Shell) cmdFill(args []string) error {
	if len(args) != 3 {
		return errArgCount("3", len(args))
	}
	start, err := parseAddr(args[0])
	if err != nil {
		return err
	}
	end, err := parseAddr(args[1])
	if err != nil {
		return err
	}
	value, err := parseByte(args[2])
	if err != nil {
		return err
	}
	return s.Memory.Fill(start, end, value)
}

func (s *Shell) cmdReset(args []string) error {
	if len(args) != 0 {
		return errArgCount("0", len(args))
	}
	s.Memory.Reset()
	return nil
}

func (s *Shell) cmdOpcode(args []string) error {
	if len(args) != 1 {
		return errArgCount("1", len(args))
	}
	op, err := s.Opcodes.OpcodeOf(args[0])
	if err != nil {
		return err
	}
	var sb strings.Builder
	hex.FormatHex(&sb, uint32(op))
	fmt.Fprintf(s.out, "opcode is %s\n", sb.String())
	return nil
}

func (s *Shell) cmdOpcodeList(args []string) error {
	if len(args) != 0 {
		return errArgCount("0", len(args))
	}
	for _, e := range s.Opcodes.ListBuckets() {
		var sb strings.Builder
		hex.FormatByte(&sb, e.Opcode)
		fmt.Fprintf(s.out, "%s %s %s\n", sb.String(), e.Mnemonic, e.Formats)
	}
	return nil
}

func (s *Shell) cmdAssemble(args []string) error {
	if len(args) != 1 {
		return errArgCount("1", len(args))
	}
	return s.Assembler.Assemble(args[0])
}

func (s *Shell) cmdSymbol(args []string) error {
	if len(args) != 0 {
		return errArgCount("0", len(args))
	}
	fmt.Fprint(s.out, s.Symbols.Saved().Display())
	return nil
}

func (s *Shell) cmdProgAddr(args []string) error {
	if len(args) != 1 {
		return errArgCount("1", len(args))
	}
	addr, err := parseAddr(args[0])
	if err != nil {
		return err
	}
	s.Memory.SetProgAddr(addr)
	return nil
}

func (s *Shell) cmdLoader(args []string) error {
	if len(args) < 1 || len(args) > 3 {
		return errArgCount("1 to 3", len(args))
	}
	if err := s.Loader.Load(s.Memory.ProgAddr(), args...); err != nil {
		return err
	}
	fmt.Fprint(s.out, s.ExtSyms.Display())
	return nil
}

func (s *Shell) cmdBreakpoint(args []string) error {
	switch len(args) {
	case 0:
		for _, addr := range s.CPU.Breakpoints() {
			var sb strings.Builder
			hex.FormatAddr(&sb, addr)
			fmt.Fprintln(s.out, sb.String())
		}
		return nil
	case 1:
		if args[0] == "clear" {
			s.CPU.ClearBreakpoints()
			return nil
		}
		addr, err := parseAddr(args[0])
		if err != nil {
			return err
		}
		s.CPU.SetBreakpoint(addr)
		return nil
	default:
		return errArgCount("0 or 1", len(args))
	}
}

func (s *Shell) cmdRun(args []string) error {
	if len(args) != 0 {
		return errArgCount("0", len(args))
	}
	reason, regs, err := s.CPU.Run()
	if err != nil {
		return err
	}

	printRegisters(s.out, regs)
	switch reason {
	case cpu.StoppedFinished:
		fmt.Fprintln(s.out, "Program finished")
	default:
		var sb strings.Builder
		hex.FormatHex(&sb, regs.PC)
		fmt.Fprintf(s.out, "Breakpoint at %s\n", sb.String())
	}
	return nil
}
