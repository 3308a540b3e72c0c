/*
 * sicsim - Argument parsing helpers
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
	"strconv"

	"github.com/sicxe/sicsim/emu/memory"
)

// errArgCount is returned by handlers on the wrong number of arguments.
func errArgCount(want string, got int) error {
	return fmt.Errorf("wrong argument count: expected %s, got %d", want, got)
}

// parseAddr parses a hex string and requires it to land in the
// 20-bit address space [0, 0xFFFFF] of §7's argument-error taxonomy.
func parseAddr(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%q is not a hex address", s)
	}
	if v > memory.AddrMask {
		return 0, fmt.Errorf("address %s out of range [0,FFFFF]", s)
	}
	return uint32(v), nil
}

// parseByte parses a hex string and requires it to fit a single byte
// [0, 0xFF].
func parseByte(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%q is not a hex byte", s)
	}
	if v > 0xFF {
		return 0, fmt.Errorf("value %s out of range [0,FF]", s)
	}
	return byte(v), nil
}
