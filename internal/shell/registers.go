/*
 * sicsim - Register-file rendering
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
	"io"
	"strings"

	"github.com/sicxe/sicsim/emu/cpu"
	"github.com/sicxe/sicsim/util/hex"
)

// printRegisters renders the register file on program finish or
// breakpoint, one register per line. SW holds one of the ASCII
// condition bytes the data model documents ('<', '=', '>').
func printRegisters(w io.Writer, regs cpu.Registers) {
	named := []struct {
		name string
		val  uint32
	}{
		{"A", regs.A}, {"X", regs.X}, {"L", regs.L}, {"B", regs.B},
		{"S", regs.S}, {"T", regs.T}, {"PC", regs.PC},
	}
	for _, r := range named {
		var sb strings.Builder
		hex.FormatWord(&sb, r.val)
		fmt.Fprintf(w, "%s\t%s\n", r.name, sb.String())
	}
	fmt.Fprintf(w, "SW\t%s\n", cpu.Condition(regs.SW))
}
