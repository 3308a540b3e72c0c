/*
 * sicsim - Interactive command shell
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

// Package shell is the REPL: it tokenizes a raw input line, dispatches
// to one of the fixed command handlers, and renders any error the
// handler returns as "<cmd>: <message>" before returning to the
// prompt, the way command/parser.ProcessCommand does for the teacher.
package shell

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/peterh/liner"

	assembler "github.com/sicxe/sicsim/emu/assemble"
	"github.com/sicxe/sicsim/emu/cpu"
	"github.com/sicxe/sicsim/emu/extsym"
	"github.com/sicxe/sicsim/emu/memory"
	"github.com/sicxe/sicsim/emu/opcode"
	"github.com/sicxe/sicsim/emu/symtab"
)

// Shell wires the five components together behind the command
// surface of §6.1. It is constructed once by main and owns no state
// beyond the command history and liner's line editor.
type Shell struct {
	Opcodes   *opcode.Table
	Symbols   *symtab.Saver
	ExtSyms   *extsym.Table
	Memory    *memory.Image
	Assembler *assembler.Assembler
	Loader    loader
	CPU       *cpu.CPU

	out     io.Writer
	history *history
}

// loader is the narrow interface Shell needs from emu/loader, named
// to avoid a stutter with the package of the same name.
type loader interface {
	Load(progaddr uint32, paths ...string) error
}

// New returns a Shell ready to run. historyCap is the -history flag's
// value (default 20 per §A.3).
func New(opcodes *opcode.Table, symbols *symtab.Saver, extSyms *extsym.Table, mem *memory.Image, asm *assembler.Assembler, ld loader, c *cpu.CPU, historyCap int) *Shell {
	return &Shell{
		Opcodes:   opcodes,
		Symbols:   symbols,
		ExtSyms:   extSyms,
		Memory:    mem,
		Assembler: asm,
		Loader:    ld,
		CPU:       c,
		out:       os.Stdout,
		history:   newHistory(historyCap),
	}
}

type handlerFunc func(s *Shell, args []string) error

// commands is the exact-alias dispatch table of §6.1: unlike the
// teacher's prefix-abbreviation matching, this surface names specific
// short aliases ("dump"/"du") rather than any unambiguous prefix.
var commands = map[string]handlerFunc{
	"help": (*Shell).cmdHelp, "h": (*Shell).cmdHelp,
	"dir": (*Shell).cmdDir, "d": (*Shell).cmdDir,
	"quit": (*Shell).cmdQuit, "q": (*Shell).cmdQuit,
	"history": (*Shell).cmdHistory, "hi": (*Shell).cmdHistory,
	"type": (*Shell).cmdType,
	"dump": (*Shell).cmdDump, "du": (*Shell).cmdDump,
	"edit": (*Shell).cmdEdit, "e": (*Shell).cmdEdit,
	"fill": (*Shell).cmdFill, "f": (*Shell).cmdFill,
	"reset":      (*Shell).cmdReset,
	"opcode":     (*Shell).cmdOpcode,
	"opcodelist": (*Shell).cmdOpcodeList,
	"assemble":   (*Shell).cmdAssemble,
	"symbol":     (*Shell).cmdSymbol,
	"progaddr":   (*Shell).cmdProgAddr,
	"loader":     (*Shell).cmdLoader,
	"bp":         (*Shell).cmdBreakpoint,
	"run":        (*Shell).cmdRun,
}

var errQuit = errors.New("quit")

// commandNames lists every alias, for liner's tab completer.
func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	return names
}

// Dispatch tokenizes raw and runs the matching handler. A command that
// executes successfully is recorded in the history; the return value
// reports whether the shell should exit.
func (s *Shell) Dispatch(raw string) (quit bool) {
	cmd, args, terr := tokenize(raw)
	if cmd == "" {
		return false
	}
	if terr != nil {
		fmt.Fprintf(s.out, "%s: %s\n", cmd, terr)
		return false
	}

	handler, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(s.out, "%s: command not found\n", cmd)
		return false
	}

	if err := handler(s, args); err != nil {
		if errors.Is(err, errQuit) {
			return true
		}
		fmt.Fprintf(s.out, "%s: %s\n", cmd, err)
		slog.Error("command failed", "cmd", cmd, "error", err)
		return false
	}

	slog.Info("command "+cmd+" ok", "args", args)
	s.history.record(cmd, args)
	return false
}

// Run drives the REPL loop with peterh/liner, grounded on
// command/reader.ConsoleReader: prompt, execute, append to liner's
// own line-edit history, repeat until quit or EOF.
func (s *Shell) Run() {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(partial string) []string {
		var matches []string
		for _, name := range commandNames() {
			if len(partial) <= len(name) && name[:len(partial)] == partial {
				matches = append(matches, name)
			}
		}
		return matches
	})

	for {
		input, err := line.Prompt("sicsim> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return
			}
			slog.Error("error reading line", "error", err)
			return
		}

		line.AppendHistory(input)
		if s.Dispatch(input) {
			return
		}
	}
}
