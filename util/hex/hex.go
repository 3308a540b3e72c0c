/*
 * sicsim - Convert hex to strings.
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

// Package hex centralizes the shell and memory dump's hex rendering
// so every component writes addresses and bytes the same way instead
// of scattering ad hoc fmt.Sprintf calls.
package hex

import "strings"

var hexMap = "0123456789ABCDEF"

// FormatAddr writes a 20-bit address as five upper-case hex digits.
func FormatAddr(str *strings.Builder, addr uint32) {
	shift := 16
	for range 5 {
		str.WriteByte(hexMap[(addr>>shift)&0xf])
		shift -= 4
	}
}

// FormatWord writes a 24-bit register or target value as six upper-case
// hex digits.
func FormatWord(str *strings.Builder, word uint32) {
	shift := 20
	for range 6 {
		str.WriteByte(hexMap[(word>>shift)&0xf])
		shift -= 4
	}
}

// FormatBytes writes each byte as two hex digits, optionally
// separated by spaces.
func FormatBytes(str *strings.Builder, space bool, data []byte) {
	for _, by := range data {
		str.WriteByte(hexMap[(by>>4)&0xf])
		str.WriteByte(hexMap[by&0xf])
		if space {
			str.WriteByte(' ')
		}
	}
}

// FormatByte writes a single byte as two hex digits.
func FormatByte(str *strings.Builder, data byte) {
	str.WriteByte(hexMap[(data>>4)&0xf])
	str.WriteByte(hexMap[data&0xf])
}

// FormatHex writes num in hex with no leading-zero padding, used
// where the shell reports a single value rather than a fixed-width
// field ("opcode is 0", "Breakpoint at 1005").
func FormatHex(str *strings.Builder, num uint32) {
	if num == 0 {
		str.WriteByte('0')
		return
	}
	var digits [8]byte
	n := 0
	for num > 0 {
		digits[n] = hexMap[num&0xf]
		num >>= 4
		n++
	}
	for i := n - 1; i >= 0; i-- {
		str.WriteByte(digits[i])
	}
}

// FormatDecimal writes num in decimal, used for the 1-indexed entry
// numbers of the shell's command history.
func FormatDecimal(str *strings.Builder, num int) {
	if num == 0 {
		str.WriteByte('0')
		return
	}
	var digits [10]byte
	n := 0
	for num > 0 {
		digits[n] = byte('0' + num%10)
		num /= 10
		n++
	}
	for i := n - 1; i >= 0; i-- {
		str.WriteByte(digits[i])
	}
}
