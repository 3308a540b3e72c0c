package assembler

import (
	"fmt"
	"strconv"
)

// decodeByteLiteral parses a BYTE operand of the form C'...' or X'...'
// into the raw bytes it assembles to.
func decodeByteLiteral(op string, lineNo int) ([]byte, error) {
	if len(op) < 3 || op[1] != '\'' || op[len(op)-1] != '\'' {
		return nil, &SymbolError{InvalidOperand, lineNo, op}
	}
	body := op[2 : len(op)-1]
	switch op[0] {
	case 'C', 'c':
		out := make([]byte, len(body))
		for i := 0; i < len(body); i++ {
			c := body[i]
			if !((c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
				return nil, &SymbolError{InvalidOperand, lineNo, op}
			}
			out[i] = c
		}
		return out, nil
	case 'X', 'x':
		digits := body
		if len(digits)%2 != 0 {
			digits = "0" + digits
		}
		out := make([]byte, len(digits)/2)
		for i := range out {
			v, err := strconv.ParseUint(digits[2*i:2*i+2], 16, 8)
			if err != nil {
				return nil, &SymbolError{InvalidOperand, lineNo, op}
			}
			out[i] = byte(v)
		}
		return out, nil
	default:
		return nil, &SymbolError{InvalidOperand, lineNo, op}
	}
}

// byteLiteralLength is decodeByteLiteral's length-only twin used by
// pass 1, where only the instruction length is needed.
func byteLiteralLength(op string, lineNo int) (int, error) {
	b, err := decodeByteLiteral(op, lineNo)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

// textRecord accumulates consecutive object bytes into a single T
// record, flushing whenever a gap (RESB/RESW) appears, the buffer
// would exceed 30 bytes, or the program ends.
type textRecord struct {
	start uint32
	bytes []byte
}

func (tr *textRecord) empty() bool { return len(tr.bytes) == 0 }

func (tr *textRecord) render() string {
	return fmt.Sprintf("T%06X%02X%s", tr.start, len(tr.bytes), hexBytes(tr.bytes))
}

func hexBytes(b []byte) string {
	out := make([]byte, 0, len(b)*2)
	const digits = "0123456789ABCDEF"
	for _, v := range b {
		out = append(out, digits[v>>4], digits[v&0xF])
	}
	return string(out)
}

// modRecord patches a format-4 address field that was resolved against
// a symbol: the assembler always computes the field assuming its
// section loads at address 0, so relocation only ever needs to add
// the section's own base -- external-reference slot 01 in the
// loader's contract.
type modRecord struct {
	addr     uint32
	halfByte int
}

func (m modRecord) render() string {
	return fmt.Sprintf("M%06X%02X+01", m.addr, m.halfByte)
}
