/*
 * sicsim - Main process.
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

package main

import (
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	assembler "github.com/sicxe/sicsim/emu/assemble"
	"github.com/sicxe/sicsim/emu/cpu"
	"github.com/sicxe/sicsim/emu/extsym"
	"github.com/sicxe/sicsim/emu/loader"
	"github.com/sicxe/sicsim/emu/memory"
	"github.com/sicxe/sicsim/emu/opcode"
	"github.com/sicxe/sicsim/emu/symtab"
	"github.com/sicxe/sicsim/internal/logsink"
	"github.com/sicxe/sicsim/internal/shell"
)

func main() {
	optOpcode := getopt.StringLong("opcode", 'o', "opcode.txt", "Opcode dictionary file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.BoolLong("debug", 'd', "Enable verbose logging and stderr echo")
	optHistory := getopt.IntLong("history", 'n', 20, "Command history capacity")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var logFile *os.File
	if *optLogFile != "" {
		var err error
		logFile, err = os.Create(*optLogFile)
		if err != nil {
			os.Stderr.WriteString("sicsim: cannot create log file: " + err.Error() + "\n")
			os.Exit(1)
		}
	}

	level := new(slog.LevelVar)
	if *optDebug {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
	slog.SetDefault(slog.New(logsink.New(logFile, level, *optDebug)))

	opcodes := opcode.New()
	if err := opcodes.LoadFile(*optOpcode); err != nil {
		slog.Error("cannot load opcode dictionary", "file", *optOpcode, "error", err)
		os.Exit(1)
	}

	symbols := symtab.NewSaver()
	extSyms := extsym.New()
	mem := memory.New()
	simulator := cpu.New(mem, opcodes)
	ld := loader.New(extSyms, mem, simulator)
	asm := assembler.New(opcodes, symbols)

	slog.Info("sicsim started", "opcodes", opcodes.Len())

	sh := shell.New(opcodes, symbols, extSyms, mem, asm, ld, simulator, *optHistory)
	sh.Run()
}
