/*
 * sicsim - Simulator register and condition-code definitions
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

package cpu

// Register ordinals, architecturally fixed and shared with the
// assembler's symtab package (register names double as Format 2
// operands and as symbols when resolving BASE).
const (
	regA  = 0
	regX  = 1
	regL  = 2
	regB  = 3
	regS  = 4
	regT  = 5
	regF  = 6 // floating-point accumulator; never touched, ops are stubbed.
	regPC = 8
	regSW = 9
)

// regMask keeps arithmetic results within the 24-bit register width
// (§3, §4.7); it is wider than memory.AddrMask, which bounds the
// 20-bit address space instead.
const regMask = 0xFFFFFF

// Condition is the three-way result SW holds after a comparison,
// stored in SW as the ASCII byte the data model documents rather
// than a small ordinal.
type Condition uint32

const (
	CondLT Condition = '<'
	CondEQ Condition = '='
	CondGT Condition = '>'
)

func (c Condition) String() string {
	switch c {
	case CondLT:
		return "<"
	case CondEQ:
		return "="
	case CondGT:
		return ">"
	default:
		return "?"
	}
}

func compare(a, b uint32) Condition {
	switch {
	case a < b:
		return CondLT
	case a > b:
		return CondGT
	default:
		return CondEQ
	}
}

// decoded holds one instruction's fetch/decode results, threaded into
// its opcode handler. Mirrors the teacher's stepInfo scratch struct.
type decoded struct {
	mnemonic string
	format   int // 1, 2, or 3 (4 collapses into 3 once the address is resolved)
	r1, r2   uint32
	value    uint32 // resolved operand for format 3/4 instructions
	target   uint32 // resolved target address, before indirection/immediate resolution
}
