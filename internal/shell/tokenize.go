/*
 * sicsim - Command-line tokenizer
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
	"errors"
	"unicode"
)

// errTooManyArgs is returned by tokenize when a line carries a fourth
// argument.
var errTooManyArgs = errors.New("too many arguments")

// cmdLine walks a raw command line one byte at a time, the way
// command/parser's cmdLine does for S370.
type cmdLine struct {
	line string
	pos  int
}

func (l *cmdLine) isEOL() bool {
	return l.pos >= len(l.line)
}

func (l *cmdLine) skipSpace() {
	for !l.isEOL() && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

// getWord reads a run of non-space, non-comma bytes.
func (l *cmdLine) getWord() string {
	l.skipSpace()
	start := l.pos
	for !l.isEOL() && !unicode.IsSpace(rune(l.line[l.pos])) && l.line[l.pos] != ',' {
		l.pos++
	}
	return l.line[start:l.pos]
}

// skipSeparator consumes at most one comma, plus any surrounding
// whitespace, between two arguments.
func (l *cmdLine) skipSeparator() {
	l.skipSpace()
	if !l.isEOL() && l.line[l.pos] == ',' {
		l.pos++
		l.skipSpace()
	}
}

// tokenize splits a raw input line into a command word and up to
// three arguments, per §6.1: whitespace separates the command from
// its arguments; commas and whitespace separate arguments themselves.
// A fourth argument is a syntax error.
func tokenize(raw string) (cmd string, args []string, err error) {
	l := &cmdLine{line: raw}
	cmd = l.getWord()
	if cmd == "" {
		return "", nil, nil
	}

	for {
		l.skipSeparator()
		if l.isEOL() {
			break
		}
		word := l.getWord()
		if word == "" {
			break
		}
		if len(args) == 3 {
			return cmd, args, errTooManyArgs
		}
		args = append(args, word)
	}
	return cmd, args, nil
}
