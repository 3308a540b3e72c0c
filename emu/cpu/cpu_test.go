package cpu

import (
	"strings"
	"testing"

	"github.com/sicxe/sicsim/emu/memory"
	"github.com/sicxe/sicsim/emu/opcode"
)

func testOpcodes(t *testing.T) *opcode.Table {
	t.Helper()
	tbl := opcode.New()
	err := tbl.Load(strings.NewReader(`
00 LDA 3/4
04 LDX 3/4
0C STA 3/4
18 ADD 3/4
3C J 3/4
2C TIX 3/4
48 JSUB 3/4
4C RSUB 3/4
90 ADDR 2
A0 COMPR 2
C4 FIX 1
`))
	if err != nil {
		t.Fatalf("loading opcode table: %v", err)
	}
	return tbl
}

func newCPU(t *testing.T) (*CPU, *memory.Image) {
	mem := memory.New()
	c := New(mem, testOpcodes(t))
	return c, mem
}

// lda3Imm returns the three bytes for "LDA #value" (direct-mode
// immediate: n=0, i=1, b=0, p=0).
func lda3Imm(opc byte, value uint16) [3]byte {
	return [3]byte{opc | 0x01, byte(value >> 8 & 0x0F), byte(value)}
}

func TestRunFinishesAtProgramEnd(t *testing.T) {
	c, mem := newCPU(t)
	bytes := lda3Imm(0x00, 5)
	if err := mem.Set(0x1000, bytes[:]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.PrepareRun(0x1000, 3)

	reason, regs, err := c.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reason != StoppedFinished {
		t.Errorf("reason got: %v expected: finished", reason)
	}
	if regs.A != 5 {
		t.Errorf("A got: %d expected: 5", regs.A)
	}
}

func TestRunAddrQuirkStoresIntoR1(t *testing.T) {
	c, mem := newCPU(t)
	prog := []byte{}
	lda := lda3Imm(0x00, 3)
	ldx := lda3Imm(0x04, 4)
	prog = append(prog, lda[:]...)
	prog = append(prog, ldx[:]...)
	prog = append(prog, 0x90, 0x01) // ADDR A,X
	if err := mem.Set(0x1000, prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.PrepareRun(0x1000, uint32(len(prog)))

	reason, regs, err := c.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reason != StoppedFinished {
		t.Errorf("reason got: %v expected: finished", reason)
	}
	if regs.A != 7 {
		t.Errorf("A got: %d expected: 7 (quirk writes sum into r1)", regs.A)
	}
	if regs.X != 4 {
		t.Errorf("X got: %d expected: 4 (r2 left unchanged)", regs.X)
	}
}

func TestRunFormat4DirectJump(t *testing.T) {
	c, mem := newCPU(t)
	// +J 002000, simple addressing (n=1, i=1), no index, extended.
	instr := []byte{0x3C | 0x03, 0x10, 0x20, 0x00}
	if err := mem.Set(0x1000, instr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.PrepareRun(0x1000, 4)

	reason, regs, err := c.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reason != StoppedFinished {
		t.Errorf("reason got: %v expected: finished (jumped past loaded image)", reason)
	}
	if regs.PC != 0x2000 {
		t.Errorf("PC got: %05X expected: 02000", regs.PC)
	}
}

func TestRunStopsAtBreakpointThenResumes(t *testing.T) {
	c, mem := newCPU(t)
	lda := lda3Imm(0x00, 5)
	ldx := lda3Imm(0x04, 9)
	prog := append(append([]byte{}, lda[:]...), ldx[:]...)
	if err := mem.Set(0x1000, prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.PrepareRun(0x1000, uint32(len(prog)))
	c.SetBreakpoint(0x1003)

	reason, regs, err := c.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reason != StoppedBreakpoint {
		t.Errorf("reason got: %v expected: breakpoint", reason)
	}
	if regs.PC != 0x1003 || regs.A != 5 {
		t.Errorf("got PC=%05X A=%d, expected PC=01003 A=5", regs.PC, regs.A)
	}

	reason, regs, err = c.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reason != StoppedFinished {
		t.Errorf("reason got: %v expected: finished on resume", reason)
	}
	if regs.X != 9 {
		t.Errorf("X got: %d expected: 9", regs.X)
	}
}

func TestRunNoProgramLoadedFails(t *testing.T) {
	c, _ := newCPU(t)
	_, _, err := c.Run()
	if err == nil {
		t.Fatalf("expected error")
	}
	re, ok := err.(*RunError)
	if !ok || re.Kind != NoProgramLoaded {
		t.Errorf("got: %v expected NoProgramLoaded", err)
	}
}

func TestRunUnknownOpcodeFails(t *testing.T) {
	c, mem := newCPU(t)
	if err := mem.Set(0x1000, []byte{0xFE, 0x00, 0x00}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.PrepareRun(0x1000, 3)

	_, _, err := c.Run()
	if err == nil {
		t.Fatalf("expected error")
	}
	re, ok := err.(*RunError)
	if !ok || re.Kind != UnknownOpcode {
		t.Errorf("got: %v expected UnknownOpcode", err)
	}
}

func TestBreakpointSetAndClear(t *testing.T) {
	c, _ := newCPU(t)
	c.SetBreakpoint(0x1000)
	c.SetBreakpoint(0x2000)
	if got := c.Breakpoints(); len(got) != 2 || got[0] != 0x1000 || got[1] != 0x2000 {
		t.Errorf("got: %v expected [01000 02000]", got)
	}
	c.ClearBreakpoints()
	if got := c.Breakpoints(); len(got) != 0 {
		t.Errorf("expected empty breakpoint set, got %v", got)
	}
}
