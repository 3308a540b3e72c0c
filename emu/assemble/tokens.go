package assembler

import "unicode"

// skipSpace returns str with leading whitespace removed.
func skipSpace(str string) string {
	for i := range str {
		if !unicode.IsSpace(rune(str[i])) {
			return str[i:]
		}
	}
	return ""
}

// getWord returns the leading non-space token of str and the remainder.
func getWord(str string) (string, string) {
	str = skipSpace(str)
	for i := range str {
		if unicode.IsSpace(rune(str[i])) {
			return str[:i], str[i+1:]
		}
	}
	return str, ""
}

// splitOperands splits an operand field on the first top-level comma,
// ignoring commas inside a C'...' or X'...' literal.
func splitOperands(str string) (string, string) {
	inQuote := false
	for i := 0; i < len(str); i++ {
		switch str[i] {
		case '\'':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				return trimEdges(str[:i]), trimEdges(str[i+1:])
			}
		}
	}
	return trimEdges(str), ""
}

func trimEdges(str string) string {
	start := 0
	for start < len(str) && unicode.IsSpace(rune(str[start])) {
		start++
	}
	end := len(str)
	for end > start && unicode.IsSpace(rune(str[end-1])) {
		end--
	}
	return str[start:end]
}
