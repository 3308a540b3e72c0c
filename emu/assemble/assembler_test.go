package assembler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sicxe/sicsim/emu/opcode"
	"github.com/sicxe/sicsim/emu/symtab"
)

func testOpcodes() *opcode.Table {
	t := opcode.New()
	_ = t.Load(strings.NewReader(`
00 LDA 3/4
0C STA 3/4
04 LDX 3/4
48 JSUB 3/4
4C RSUB 3/4
3C J 3/4
90 ADDR 2
B4 CLEAR 2
C4 FIX 1
`))
	return t
}

func writeSource(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestAssembleSimpleProgramBuildsSymbolTable(t *testing.T) {
	dir := t.TempDir()
	src := "FIRST START 1000\nLDA FIVE\nFIVE RESW 1\nEND FIRST\n"
	path := writeSource(t, dir, "prog.asm", src)

	a := New(testOpcodes(), symtab.NewSaver())
	if err := a.Assemble(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	saved := a.Symbols.Saved()
	got, err := saved.Lookup("FIRST")
	if err != nil || got != 0x1000 {
		t.Errorf("FIRST got: %05X, err %v expected: 01000", got, err)
	}
	got, err = saved.Lookup("FIVE")
	if err != nil || got != 0x1003 {
		t.Errorf("FIVE got: %05X, err %v expected: 01003", got, err)
	}
}

func TestAssembleWritesHeaderAndEndRecords(t *testing.T) {
	dir := t.TempDir()
	src := "FIRST START 1000\nLDA FIVE\nFIVE RESW 1\nEND FIRST\n"
	path := writeSource(t, dir, "prog.asm", src)

	a := New(testOpcodes(), symtab.NewSaver())
	if err := a.Assemble(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	obj, err := os.ReadFile(filepath.Join(dir, "prog.obj"))
	if err != nil {
		t.Fatalf("reading object file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(obj)), "\n")
	if !strings.HasPrefix(lines[0], "HFIRST 001000000006") {
		t.Errorf("header record got: %q", lines[0])
	}
	last := lines[len(lines)-1]
	if last != "E001000" {
		t.Errorf("end record got: %q expected: E001000", last)
	}
}

func TestAssembleDuplicateSymbolFails(t *testing.T) {
	dir := t.TempDir()
	src := "FIRST START 1000\nFIRST LDA FIRST\nEND FIRST\n"
	path := writeSource(t, dir, "dup.asm", src)

	a := New(testOpcodes(), symtab.NewSaver())
	err := a.Assemble(path)
	if err == nil {
		t.Fatalf("expected duplicate-symbol error")
	}
	var se *SymbolError
	if se, _ = err.(*SymbolError); se == nil || se.Kind != DuplicateSymbol {
		t.Errorf("got: %v expected DuplicateSymbol", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "dup.obj")); statErr == nil {
		t.Errorf("expected no object file left behind on failure")
	}
}

func TestAssembleUnknownOpcodeFails(t *testing.T) {
	dir := t.TempDir()
	src := "FIRST START 1000\nBOGUS FIVE\nEND FIRST\n"
	path := writeSource(t, dir, "bad.asm", src)

	a := New(testOpcodes(), symtab.NewSaver())
	err := a.Assemble(path)
	var se *SymbolError
	if se, _ = err.(*SymbolError); se == nil || se.Kind != InvalidOpcode {
		t.Errorf("got: %v expected InvalidOpcode", err)
	}
}

func TestAssemblePCRelativeOutOfRangeRequiresFormat4(t *testing.T) {
	dir := t.TempDir()
	var sb strings.Builder
	sb.WriteString("FIRST START 1000\n")
	sb.WriteString("J THERE\n")
	for i := 0; i < 700; i++ {
		sb.WriteString("WORD 1\n")
	}
	sb.WriteString("THERE RESW 1\n")
	sb.WriteString("END FIRST\n")
	path := writeSource(t, dir, "wrap.asm", sb.String())

	a := New(testOpcodes(), symtab.NewSaver())
	err := a.Assemble(path)
	var se *SymbolError
	if se, _ = err.(*SymbolError); se == nil || se.Kind != InvalidOperand {
		t.Errorf("got: %v expected InvalidOperand for out-of-range PC-relative jump", err)
	}
}

func TestAssembleFormat4EmitsModificationRecord(t *testing.T) {
	dir := t.TempDir()
	var sb strings.Builder
	sb.WriteString("FIRST START 1000\n")
	sb.WriteString("+J THERE\n")
	for i := 0; i < 700; i++ {
		sb.WriteString("WORD 1\n")
	}
	sb.WriteString("THERE RESW 1\n")
	sb.WriteString("END FIRST\n")
	path := writeSource(t, dir, "far.asm", sb.String())

	a := New(testOpcodes(), symtab.NewSaver())
	if err := a.Assemble(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obj, _ := os.ReadFile(filepath.Join(dir, "far.obj"))
	if !strings.Contains(string(obj), "M000001") {
		t.Errorf("expected a modification record for the format-4 jump, got:\n%s", obj)
	}
}

func TestAssembleByteCharacterLiteral(t *testing.T) {
	dir := t.TempDir()
	src := "FIRST START 1000\nMSG BYTE C'HI'\nEND FIRST\n"
	path := writeSource(t, dir, "msg.asm", src)

	a := New(testOpcodes(), symtab.NewSaver())
	if err := a.Assemble(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obj, _ := os.ReadFile(filepath.Join(dir, "msg.obj"))
	if !strings.Contains(string(obj), "4849") {
		t.Errorf("expected hex bytes for 'HI', got:\n%s", obj)
	}
}

func TestAssembleRejectsNonAsmExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "prog.txt", "FIRST START 1000\nEND FIRST\n")
	a := New(testOpcodes(), symtab.NewSaver())
	if err := a.Assemble(path); err == nil {
		t.Errorf("expected rejection of non-.asm file")
	}
}
