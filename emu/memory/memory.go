/*
 * sicsim - Flat 1 MiB memory image
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

// Package memory models the SIC/XE machine's flat, byte-addressable
// 1 MiB memory image shared by the assembler-produced object code, the
// loader and the simulator.
package memory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sicxe/sicsim/util/hex"
)

// Size is the number of addressable bytes: 2^20.
const Size = 1 << 20

// AddrMask is the highest legal address.
const AddrMask = Size - 1

// ErrAddressOutOfRange is returned whenever an access falls partly or
// wholly outside [0, 0xFFFFF].
type ErrAddressOutOfRange struct {
	Address uint32
	Length  int
}

func (e *ErrAddressOutOfRange) Error() string {
	return fmt.Sprintf("address out of range: %05X+%d", e.Address, e.Length)
}

// Image is the memory image singleton plus the bookkeeping the dump
// and loader commands need (the "progaddr" register and the cursor
// left over from the previous dump).
type Image struct {
	mem        [Size]byte
	progaddr   uint32
	lastDumped uint32
}

// New returns a fresh, zeroed memory image.
func New() *Image {
	return &Image{}
}

func inRange(addr uint32, n int) bool {
	if n <= 0 {
		return addr <= AddrMask
	}
	last := uint64(addr) + uint64(n) - 1
	return last <= AddrMask
}

// Get returns n bytes starting at addr.
func (m *Image) Get(addr uint32, n int) ([]byte, error) {
	if !inRange(addr, n) {
		return nil, &ErrAddressOutOfRange{Address: addr, Length: n}
	}
	out := make([]byte, n)
	copy(out, m.mem[addr:int(addr)+n])
	return out, nil
}

// Set writes data starting at addr.
func (m *Image) Set(addr uint32, data []byte) error {
	if !inRange(addr, len(data)) {
		return &ErrAddressOutOfRange{Address: addr, Length: len(data)}
	}
	copy(m.mem[addr:], data)
	return nil
}

// Sign is the direction a Modify applies its amount in.
type Sign int

const (
	Positive Sign = iota
	Negative
)

// Modify implements the modification-record semantics of §4.4: read
// ceil(halfBytes/2) bytes at addr as a big-endian unsigned integer,
// add or subtract amount, and write back the low halfBytes nibbles,
// preserving the high nibble of the first byte when halfBytes is odd.
func (m *Image) Modify(addr uint32, halfBytes int, sign Sign, amount uint32) error {
	byteLen := (halfBytes + 1) / 2
	if !inRange(addr, byteLen) {
		return &ErrAddressOutOfRange{Address: addr, Length: byteLen}
	}

	var value uint64
	for i := 0; i < byteLen; i++ {
		value = (value << 8) | uint64(m.mem[int(addr)+i])
	}

	var highNibble byte
	odd := halfBytes%2 != 0
	if odd {
		highNibble = m.mem[addr] & 0xF0
		value &= (uint64(1) << uint(4*halfBytes+4)) - 1
	}

	if sign == Positive {
		value += uint64(amount)
	} else {
		value -= uint64(amount)
	}

	mask := uint64(1)<<uint(4*halfBytes) - 1
	value &= mask

	for i := byteLen - 1; i >= 0; i-- {
		m.mem[int(addr)+i] = byte(value)
		value >>= 8
	}
	if odd {
		m.mem[addr] = (m.mem[addr] & 0x0F) | highNibble
	}
	return nil
}

// Fill sets every byte in [start, end] (inclusive) to value.
func (m *Image) Fill(start, end uint32, value byte) error {
	if start > end {
		return fmt.Errorf("fill: start %05X > end %05X", start, end)
	}
	if !inRange(start, 1) || !inRange(end, 1) {
		return &ErrAddressOutOfRange{Address: end, Length: 1}
	}
	for i := start; i <= end; i++ {
		m.mem[i] = value
	}
	return nil
}

// Edit sets a single byte.
func (m *Image) Edit(addr uint32, value byte) error {
	if !inRange(addr, 1) {
		return &ErrAddressOutOfRange{Address: addr, Length: 1}
	}
	m.mem[addr] = value
	return nil
}

// Reset zeroes every byte of memory. progaddr and the dump cursor are
// untouched -- only the byte image is defined to be cleared by §4.4.
func (m *Image) Reset() {
	for i := range m.mem {
		m.mem[i] = 0
	}
}

// SetProgAddr sets the base for the next loader run.
func (m *Image) SetProgAddr(addr uint32) {
	m.progaddr = addr
}

// ProgAddr returns the base for the next loader run.
func (m *Image) ProgAddr() uint32 {
	return m.progaddr
}

var errEmptyRange = errors.New("dump: empty range")

// Dump renders [start, end] 16 bytes per line in the format:
//
//	AAAAA HH HH ... ; <ascii-or-dot x16>
//
// Bytes before start, after end, or outside printable ASCII render as
// '.' in the trailing column; out-of-range bytes in the hex columns
// render as blank pairs of spaces. Advances the dump cursor to end.
func (m *Image) Dump(start, end uint32) (string, error) {
	if start > end {
		return "", errEmptyRange
	}
	lineStart := start - (start % 16)
	lineEnd := end - (end % 16)

	var sb strings.Builder
	for line := lineStart; ; line += 16 {
		hex.FormatAddr(&sb, line)
		sb.WriteByte(' ')
		var ascii strings.Builder
		for col := uint32(0); col < 16; col++ {
			addr := line + col
			if addr < start || addr > end {
				sb.WriteString("   ")
				ascii.WriteByte('.')
				continue
			}
			b := m.mem[addr]
			hex.FormatByte(&sb, b)
			sb.WriteByte(' ')
			if b >= 0x20 && b <= 0x7E {
				ascii.WriteByte(b)
			} else {
				ascii.WriteByte('.')
			}
		}
		sb.WriteString("; ")
		sb.WriteString(ascii.String())
		sb.WriteByte('\n')
		if line >= lineEnd {
			break
		}
	}

	m.lastDumped = end
	return sb.String(), nil
}

// LastDumped returns the address the previous Dump stopped at, used
// so a bare "dump" with no arguments continues from where the last
// one left off (wrapping past 0xFFFFF to 0).
func (m *Image) LastDumped() uint32 {
	return m.lastDumped
}

// NextDumpStart returns the address a bare "dump" command should
// start from: one past the last dumped address, wrapping to 0.
func (m *Image) NextDumpStart() uint32 {
	if m.lastDumped >= AddrMask {
		return 0
	}
	return m.lastDumped + 1
}
