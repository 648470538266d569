package lexer

import "strings"

// Unquote performs quote removal on the raw text of an atom.
//
// Single-quoted text is literal. Inside double quotes a backslash only
// escapes ", \, $, ` and newline. Outside quotes a backslash escapes the
// following byte, and a backslash-newline pair disappears.
func Unquote(s string) string {
	if !strings.ContainsAny(s, `'"\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			if i+1 >= len(s) {
				b.WriteByte(c)
				break
			}
			i++
			if s[i] != '\n' {
				b.WriteByte(s[i])
			}
		case '\'':
			end := strings.IndexByte(s[i+1:], '\'')
			if end < 0 {
				b.WriteString(s[i+1:])
				return b.String()
			}
			b.WriteString(s[i+1 : i+1+end])
			i += end + 1
		case '"':
			i = unquoteDouble(&b, s, i+1)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// unquoteDouble copies a double-quoted region starting at from into b and
// returns the index of the closing quote (or len(s)-1 if unterminated).
func unquoteDouble(b *strings.Builder, s string, from int) int {
	for i := from; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			return i
		case '\\':
			if i+1 < len(s) {
				switch s[i+1] {
				case '"', '\\', '$', '`':
					b.WriteByte(s[i+1])
					i++
					continue
				case '\n':
					i++
					continue
				}
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return len(s) - 1
}
