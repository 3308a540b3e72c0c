package opcode

import (
	"strings"
	"testing"
)

const sampleTable = `
00 LDA 3/4
18 ADD 3/4
90 ADDR 2
C4 FIX 1
`

func load(t *testing.T) *Table {
	t.Helper()
	tbl := New()
	if err := tbl.Load(strings.NewReader(sampleTable)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return tbl
}

func TestLookup(t *testing.T) {
	tbl := load(t)

	e, ok := tbl.Lookup("lda")
	if !ok {
		t.Fatalf("expected to find LDA")
	}
	if e.Opcode != 0x00 {
		t.Errorf("opcode got: %02X expected: 00", e.Opcode)
	}
	if !e.Formats.Has(Format3) || !e.Formats.Has(Format4) {
		t.Errorf("LDA should be format 3/4, got %v", e.Formats)
	}
}

func TestLookupNotFound(t *testing.T) {
	tbl := load(t)
	if _, ok := tbl.Lookup("FOO"); ok {
		t.Errorf("expected FOO to be absent")
	}
}

func TestOpcodeOf(t *testing.T) {
	tbl := load(t)

	op, err := tbl.OpcodeOf("ADD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op != 0x18 {
		t.Errorf("opcode got: %02X expected: 18", op)
	}

	if _, err := tbl.OpcodeOf("FOO"); err == nil {
		t.Errorf("expected error for unknown mnemonic")
	}
}

func TestFormatOf(t *testing.T) {
	tbl := load(t)

	f, err := tbl.FormatOf("ADDR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f != Format2 {
		t.Errorf("format got: %v expected: Format2", f)
	}
}

func TestListBucketsStableOrder(t *testing.T) {
	tbl := load(t)

	want := []string{"LDA", "ADD", "ADDR", "FIX"}
	got := tbl.ListBuckets()
	if len(got) != len(want) {
		t.Fatalf("got %d entries, expected %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Mnemonic != name {
			t.Errorf("entry %d got: %s expected: %s", i, got[i].Mnemonic, name)
		}
	}

	// Must be stable across repeated calls.
	again := tbl.ListBuckets()
	for i := range got {
		if got[i].Mnemonic != again[i].Mnemonic {
			t.Errorf("bucket order not stable at %d", i)
		}
	}
}

func TestFormatString(t *testing.T) {
	cases := []struct {
		f    Format
		want string
	}{
		{Format1, "1"},
		{Format2, "2"},
		{Format3, "3"},
		{Format4, "4"},
		{Format3 | Format4, "3/4"},
	}
	for _, c := range cases {
		if got := c.f.String(); got != c.want {
			t.Errorf("String() got: %s expected: %s", got, c.want)
		}
	}
}

func TestLoadRejectsDuplicateMnemonic(t *testing.T) {
	tbl := New()
	err := tbl.Load(strings.NewReader("00 LDA 3/4\n04 LDA 3/4\n"))
	if err == nil {
		t.Errorf("expected duplicate mnemonic error")
	}
}

func TestLoadRejectsBadFormat(t *testing.T) {
	tbl := New()
	err := tbl.Load(strings.NewReader("00 LDA 5\n"))
	if err == nil {
		t.Errorf("expected invalid format error")
	}
}
