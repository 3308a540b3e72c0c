/*
 * sicsim - SIC/XE instruction-set simulator
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

// Package cpu implements the SIC/XE fetch-decode-execute cycle: a
// register file, a breakpoint set, and the opcode semantics table.
// The loader primes program_address/program_length through the
// PrepareRun hook; "run" then steps the cycle until the program
// counter leaves the loaded image or hits a breakpoint.
package cpu

import (
	"sort"

	"github.com/sicxe/sicsim/emu/memory"
	"github.com/sicxe/sicsim/emu/opcode"
)

// StopReason explains why Run returned.
type StopReason int

const (
	StoppedFinished StopReason = iota
	StoppedBreakpoint
)

func (s StopReason) String() string {
	if s == StoppedBreakpoint {
		return "breakpoint"
	}
	return "finished"
}

// Registers is a snapshot of the register file, suitable for display.
type Registers struct {
	A, X, L, B, S, T, F, PC, SW uint32
}

// CPU is the process-wide simulator singleton: memory image, opcode
// dictionary and register file, threaded through the shell the same
// way the assembler and loader are.
type CPU struct {
	Memory  *memory.Image
	Opcodes *opcode.Table

	regs [10]uint32

	breakpoints map[uint32]struct{}

	programAddr uint32
	programLen  uint32
}

// New returns a simulator over the given memory image and opcode
// dictionary, with an empty register file and breakpoint set.
func New(mem *memory.Image, opcodes *opcode.Table) *CPU {
	return &CPU{
		Memory:      mem,
		Opcodes:     opcodes,
		breakpoints: make(map[uint32]struct{}),
	}
}

// PrepareRun satisfies loader.PrepareRun: a successful load primes the
// next run's entry point and resets the register file, so that a
// half-finished prior run can't leak into the next program.
func (c *CPU) PrepareRun(addr, length uint32) {
	c.regs = [10]uint32{}
	c.regs[regPC] = addr
	c.programAddr = addr
	c.programLen = length
}

// Registers returns a snapshot of the current register file.
func (c *CPU) Registers() Registers {
	return Registers{
		A: c.regs[regA], X: c.regs[regX], L: c.regs[regL],
		B: c.regs[regB], S: c.regs[regS], T: c.regs[regT],
		F: c.regs[regF], PC: c.regs[regPC], SW: c.regs[regSW],
	}
}

// SetBreakpoint adds addr to the breakpoint set.
func (c *CPU) SetBreakpoint(addr uint32) {
	c.breakpoints[addr&memory.AddrMask] = struct{}{}
}

// ClearBreakpoints empties the breakpoint set.
func (c *CPU) ClearBreakpoints() {
	c.breakpoints = make(map[uint32]struct{})
}

// Breakpoints returns every set breakpoint, sorted for stable display.
func (c *CPU) Breakpoints() []uint32 {
	out := make([]uint32, 0, len(c.breakpoints))
	for addr := range c.breakpoints {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (c *CPU) atBreakpoint() bool {
	_, ok := c.breakpoints[c.regs[regPC]]
	return ok
}

func (c *CPU) programEnded() bool {
	return c.regs[regPC] >= c.programAddr+c.programLen
}

// Run steps the fetch-decode-execute cycle until the program counter
// leaves the loaded image (StoppedFinished, after which the register
// file is cleared and a new loader is required) or lands on a
// breakpoint (StoppedBreakpoint, state retained for a later Run).
func (c *CPU) Run() (StopReason, Registers, error) {
	if c.programLen == 0 {
		return 0, Registers{}, &RunError{Kind: NoProgramLoaded}
	}

	for {
		if err := c.step(); err != nil {
			return 0, Registers{}, err
		}

		if c.programEnded() {
			snap := c.Registers()
			c.regs = [10]uint32{}
			c.programLen = 0
			return StoppedFinished, snap, nil
		}
		if c.atBreakpoint() {
			return StoppedBreakpoint, c.Registers(), nil
		}
	}
}

func (c *CPU) step() error {
	pc := c.regs[regPC]
	raw, err := c.Memory.Get(pc, 3)
	if err != nil {
		return &RunError{Kind: InvalidAddressingMode, PC: pc}
	}

	entry, ok := c.Opcodes.ByOpcode(raw[0])
	if !ok {
		return &RunError{Kind: UnknownOpcode, PC: pc, Byte: raw[0]}
	}

	switch {
	case entry.Formats.Has(opcode.Format1) && !entry.Formats.Has(opcode.Format2) &&
		!entry.Formats.Has(opcode.Format3) && !entry.Formats.Has(opcode.Format4):
		c.regs[regPC] = pc + 1
		return c.execute(&decoded{mnemonic: entry.Mnemonic, format: 1})

	case entry.Formats.Has(opcode.Format2):
		c.regs[regPC] = pc + 2
		d := &decoded{
			mnemonic: entry.Mnemonic,
			format:   2,
			r1:       uint32(raw[1] >> 4),
			r2:       uint32(raw[1] & 0x0F),
		}
		return c.execute(d)

	default:
		return c.stepFormat34(entry, raw, pc)
	}
}

func (c *CPU) stepFormat34(entry opcode.Entry, raw []byte, pc uint32) error {
	n := (raw[0] >> 1) & 0x01
	i := raw[0] & 0x01
	x := (raw[1] >> 7) & 0x01
	b := (raw[1] >> 6) & 0x01
	p := (raw[1] >> 5) & 0x01
	e := (raw[1] >> 4) & 0x01

	var target uint32
	var nextPC uint32

	if e == 0 {
		disp := (uint32(raw[1]&0x0F) << 8) | uint32(raw[2])
		nextPC = pc + 3

		switch {
		case n == 0 && i == 0:
			target = (uint32(b)<<14 | uint32(p)<<13 | uint32(e)<<12) | disp
		case b == 0 && p == 1:
			signed := int32(disp)
			if disp > 2047 {
				signed = -int32((-int64(disp)) & 0xFFF)
			}
			target = uint32(int64(nextPC) + int64(signed))
		case b == 1 && p == 0:
			target = c.regs[regB] + disp
		case b == 0 && p == 0:
			target = disp
		default:
			return &RunError{Kind: InvalidAddressingMode, PC: pc, Byte: raw[1]}
		}
	} else {
		fourth, err := c.Memory.Get(pc+3, 1)
		if err != nil {
			return &RunError{Kind: InvalidAddressingMode, PC: pc}
		}
		target = (uint32(raw[1]&0x0F) << 16) | (uint32(raw[2]) << 8) | uint32(fourth[0])
		nextPC = pc + 4
	}

	if x == 1 {
		target += c.regs[regX]
	}
	target &= memory.AddrMask

	var value uint32
	switch {
	case n == 1 && i == 0: // indirect
		ind, err := c.Memory.Get(target, 3)
		if err != nil {
			return &RunError{Kind: InvalidAddressingMode, PC: pc}
		}
		indTarget := (uint32(ind[0]) << 16) | (uint32(ind[1]) << 8) | uint32(ind[2])
		direct, err := c.Memory.Get(indTarget&memory.AddrMask, 3)
		if err != nil {
			return &RunError{Kind: InvalidAddressingMode, PC: pc}
		}
		value = (uint32(direct[0]) << 16) | (uint32(direct[1]) << 8) | uint32(direct[2])
	case n == 0 && i == 1: // immediate
		value = target
	case n == 1 && i == 1: // simple
		direct, err := c.Memory.Get(target, 3)
		if err != nil {
			return &RunError{Kind: InvalidAddressingMode, PC: pc}
		}
		value = (uint32(direct[0]) << 16) | (uint32(direct[1]) << 8) | uint32(direct[2])
	default: // n=0, i=0: SIC
		value = target
	}

	c.regs[regPC] = nextPC
	return c.execute(&decoded{mnemonic: entry.Mnemonic, format: 3, target: target, value: value})
}
