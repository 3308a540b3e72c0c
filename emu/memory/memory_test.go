package memory

import "testing"

func TestSetAndGetRoundTrip(t *testing.T) {
	m := New()
	data := []byte{0x01, 0x02, 0x03, 0x04}
	if err := m.Set(0x1000, data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := m.Get(0x1000, len(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range data {
		if got[i] != data[i] {
			t.Errorf("byte %d got: %02X expected: %02X", i, got[i], data[i])
		}
	}
}

func TestGetOutOfRange(t *testing.T) {
	m := New()
	if _, err := m.Get(AddrMask-2, 5); err == nil {
		t.Errorf("expected out-of-range error")
	}
}

func TestSetOutOfRange(t *testing.T) {
	m := New()
	if err := m.Set(AddrMask, []byte{0x01, 0x02}); err == nil {
		t.Errorf("expected out-of-range error")
	}
}

func TestModifyAddEvenHalfBytes(t *testing.T) {
	m := New()
	_ = m.Set(0x2000, []byte{0x00, 0x10})
	if err := m.Modify(0x2000, 4, Positive, 0x05); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := m.Get(0x2000, 2)
	if got[0] != 0x00 || got[1] != 0x15 {
		t.Errorf("got: %02X%02X expected: 0015", got[0], got[1])
	}
}

func TestModifySubtract(t *testing.T) {
	m := New()
	_ = m.Set(0x2000, []byte{0x00, 0x20})
	if err := m.Modify(0x2000, 4, Negative, 0x05); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := m.Get(0x2000, 2)
	if got[1] != 0x1B {
		t.Errorf("got: %02X expected: 1B", got[1])
	}
}

func TestModifyOddHalfBytesPreservesHighNibble(t *testing.T) {
	m := New()
	// 3 half-bytes (a format-3 12-bit address field) packed into the
	// low 12 bits of 2 bytes; the high nibble of the first byte
	// belongs to the opcode/flag bits and must survive untouched.
	_ = m.Set(0x3000, []byte{0xC1, 0x00})
	if err := m.Modify(0x3000, 3, Positive, 0x001); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := m.Get(0x3000, 2)
	if got[0]&0xF0 != 0xC0 {
		t.Errorf("high nibble got: %X expected: C", got[0]&0xF0)
	}
	if (uint32(got[0]&0x0F)<<8)|uint32(got[1]) != 0x101 {
		t.Errorf("low 12 bits got: %03X expected: 101", (uint32(got[0]&0x0F)<<8)|uint32(got[1]))
	}
}

func TestFillRange(t *testing.T) {
	m := New()
	if err := m.Fill(0x100, 0x10F, 0xFF); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := m.Get(0x100, 16)
	for i, b := range got {
		if b != 0xFF {
			t.Errorf("byte %d got: %02X expected: FF", i, b)
		}
	}
	if got2, _ := m.Get(0x110, 1); got2[0] != 0x00 {
		t.Errorf("byte past end of fill got: %02X expected: 00", got2[0])
	}
}

func TestEditSingleByte(t *testing.T) {
	m := New()
	if err := m.Edit(0x500, 0xAB); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := m.Get(0x500, 1)
	if got[0] != 0xAB {
		t.Errorf("got: %02X expected: AB", got[0])
	}
}

func TestReset(t *testing.T) {
	m := New()
	_ = m.Set(0x10, []byte{0x01, 0x02})
	m.Reset()
	got, _ := m.Get(0x10, 2)
	if got[0] != 0 || got[1] != 0 {
		t.Errorf("expected zeroed memory after Reset, got: %02X%02X", got[0], got[1])
	}
}

func TestProgAddr(t *testing.T) {
	m := New()
	m.SetProgAddr(0x1000)
	if got := m.ProgAddr(); got != 0x1000 {
		t.Errorf("ProgAddr() got: %05X expected: 01000", got)
	}
}

func TestDumpFormat(t *testing.T) {
	m := New()
	_ = m.Set(0x000, []byte("HELLO, WORLD!!!!"))
	out, err := m.Dump(0x000, 0x00F)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "00000 48 45 4C 4C 4F 2C 20 57 4F 52 4C 44 21 21 21 21 ; HELLO, WORLD!!!!\n"
	if out != want {
		t.Errorf("Dump() got:\n%q\nexpected:\n%q", out, want)
	}
}

func TestDumpUpdatesCursorAndWraps(t *testing.T) {
	m := New()
	if _, err := m.Dump(0x000, 0x00F); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.NextDumpStart(); got != 0x010 {
		t.Errorf("NextDumpStart() got: %05X expected: 00010", got)
	}

	if _, err := m.Dump(AddrMask-1, AddrMask); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.NextDumpStart(); got != 0 {
		t.Errorf("NextDumpStart() after wrap got: %05X expected: 00000", got)
	}
}

func TestDumpEmptyRangeError(t *testing.T) {
	m := New()
	if _, err := m.Dump(0x10, 0x05); err == nil {
		t.Errorf("expected error for start > end")
	}
}
