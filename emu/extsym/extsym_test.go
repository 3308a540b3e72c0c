package extsym

import (
	"strings"
	"testing"
)

func TestAddSectionAndSymbol(t *testing.T) {
	tbl := New()
	sec, err := tbl.AddSection("PROG1", 0x1000, 0x0020)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tbl.AddSymbol(sec, "LISTA", 0x1010); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	addr, err := tbl.AddressOf("LISTA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr != 0x1010 {
		t.Errorf("AddressOf got: %05X expected: 01010", addr)
	}
}

func TestAddSectionDuplicate(t *testing.T) {
	tbl := New()
	_, _ = tbl.AddSection("PROG1", 0x1000, 0x10)
	_, err := tbl.AddSection("PROG1", 0x2000, 0x10)
	if err == nil {
		t.Errorf("expected duplicate section error")
	}
}

func TestAddSymbolDuplicateAcrossSections(t *testing.T) {
	tbl := New()
	sec1, _ := tbl.AddSection("PROG1", 0x1000, 0x10)
	sec2, _ := tbl.AddSection("PROG2", 0x1010, 0x10)
	if err := tbl.AddSymbol(sec1, "LISTA", 0x1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tbl.AddSymbol(sec2, "LISTA", 0x1010); err == nil {
		t.Errorf("expected duplicate symbol error across sections")
	}
}

func TestAddressOfNotFound(t *testing.T) {
	tbl := New()
	if _, err := tbl.AddressOf("NOPE"); err == nil {
		t.Errorf("expected not-found error")
	}
}

func TestReset(t *testing.T) {
	tbl := New()
	sec, _ := tbl.AddSection("PROG1", 0x1000, 0x10)
	_ = tbl.AddSymbol(sec, "LISTA", 0x1000)

	tbl.Reset()

	if len(tbl.Sections()) != 0 {
		t.Errorf("expected no sections after reset")
	}
	if _, err := tbl.AddressOf("LISTA"); err == nil {
		t.Errorf("expected LISTA to be gone after reset")
	}
}

func TestDisplayFormat(t *testing.T) {
	tbl := New()
	sec, _ := tbl.AddSection("PROG1", 0x1000, 0x0020)
	_ = tbl.AddSymbol(sec, "LISTA", 0x1010)

	out := tbl.Display()
	if !strings.Contains(out, "PROG1") {
		t.Errorf("expected section name in display output")
	}
	if !strings.Contains(out, "LISTA") {
		t.Errorf("expected symbol name in display output")
	}
	if !strings.Contains(out, "Total length 00020") {
		t.Errorf("expected total length line, got:\n%s", out)
	}
}

func TestSectionsOrderedByLoad(t *testing.T) {
	tbl := New()
	_, _ = tbl.AddSection("PROG1", 0x1000, 0x10)
	_, _ = tbl.AddSection("PROG2", 0x1010, 0x10)

	secs := tbl.Sections()
	if len(secs) != 2 || secs[0].Name != "PROG1" || secs[1].Name != "PROG2" {
		t.Errorf("expected sections in load order, got %+v", secs)
	}
}
