package hex

import (
	"strings"
	"testing"
)

func TestFormatAddr(t *testing.T) {
	var sb strings.Builder
	FormatAddr(&sb, 0x1A2B3)
	if got := sb.String(); got != "1A2B3" {
		t.Errorf("got: %s expected: 1A2B3", got)
	}
}

func TestFormatWord(t *testing.T) {
	var sb strings.Builder
	FormatWord(&sb, 0x00ABCD)
	if got := sb.String(); got != "00ABCD" {
		t.Errorf("got: %s expected: 00ABCD", got)
	}
}

func TestFormatBytes(t *testing.T) {
	var sb strings.Builder
	FormatBytes(&sb, true, []byte{0x01, 0xFF})
	if got := sb.String(); got != "01 FF " {
		t.Errorf("got: %q expected: %q", got, "01 FF ")
	}
}

func TestFormatHex(t *testing.T) {
	cases := []struct {
		n    uint32
		want string
	}{
		{0, "0"}, {0xFF, "FF"}, {0x1005, "1005"}, {0xABCDEF, "ABCDEF"},
	}
	for _, c := range cases {
		var sb strings.Builder
		FormatHex(&sb, c.n)
		if got := sb.String(); got != c.want {
			t.Errorf("FormatHex(%X) got: %s expected: %s", c.n, got, c.want)
		}
	}
}

func TestFormatDecimal(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, "0"}, {7, "7"}, {42, "42"}, {1000, "1000"},
	}
	for _, c := range cases {
		var sb strings.Builder
		FormatDecimal(&sb, c.n)
		if got := sb.String(); got != c.want {
			t.Errorf("FormatDecimal(%d) got: %s expected: %s", c.n, got, c.want)
		}
	}
}
