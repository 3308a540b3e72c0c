/*
 * sicsim - Command history
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
	"strings"

	"github.com/sicxe/sicsim/util/hex"
)

// history is the semantic command log of §C.3, distinct from liner's
// own line-edit recall buffer: only commands that executed without
// error are appended, reconstructed as "cmd arg1, arg2, ...", and the
// oldest entry is dropped once capacity is exceeded.
type history struct {
	entries []string
	cap     int
}

func newHistory(capacity int) *history {
	if capacity <= 0 {
		capacity = 20
	}
	return &history{cap: capacity}
}

func (h *history) record(cmd string, args []string) {
	line := cmd
	if len(args) > 0 {
		line = cmd + " " + strings.Join(args, ", ")
	}
	h.entries = append(h.entries, line)
	if len(h.entries) > h.cap {
		h.entries = h.entries[len(h.entries)-h.cap:]
	}
}

// render prints the log newest-last, one per line, 1-indexed.
func (h *history) render() string {
	var sb strings.Builder
	for i, e := range h.entries {
		hex.FormatDecimal(&sb, i+1)
		sb.WriteString("\t")
		sb.WriteString(e)
		sb.WriteString("\n")
	}
	return sb.String()
}
