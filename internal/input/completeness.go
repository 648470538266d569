// Package input reads command lines, continuing across physical lines
// until quotes, brackets and trailing backslashes are closed.
package input

// Completeness classifies accumulated input text.
type Completeness int

const (
	Complete Completeness = iota
	OpenDoubleQuote
	OpenSingleQuote
	OpenParens
	OpenBraces
	OpenBracket
	Backslash
)

// Prompt returns the continuation prompt for c, or "" for Complete.
func (c Completeness) Prompt() string {
	switch c {
	case OpenDoubleQuote:
		return "(dquote)> "
	case OpenSingleQuote:
		return "(quote)> "
	case OpenParens:
		return "(paren)> "
	case OpenBraces:
		return "(brace)> "
	case OpenBracket:
		return "(bracket)> "
	case Backslash:
		return "> "
	default:
		return ""
	}
}

func (c Completeness) String() string {
	switch c {
	case Complete:
		return "complete"
	case OpenDoubleQuote:
		return "open double quote"
	case OpenSingleQuote:
		return "open single quote"
	case OpenParens:
		return "open parenthesis"
	case OpenBraces:
		return "open brace"
	case OpenBracket:
		return "open bracket"
	case Backslash:
		return "trailing backslash"
	default:
		return "unknown"
	}
}

// Check reports whether text is a complete command or what it is still
// waiting for. Quotes take priority over brackets. A backslash escapes the
// next byte except inside single quotes; a backslash-newline at the very
// end asks for another line.
func Check(text string) Completeness {
	var (
		single, double           bool
		parens, braces, brackets int
	)

	for i := 0; i < len(text); i++ {
		c := text[i]
		quoted := single || double
		switch {
		case c == '\'' && !double:
			single = !single
		case c == '"' && !single:
			double = !double
		case c == '\\' && !single:
			switch {
			case i+1 == len(text):
				return Backslash
			case text[i+1] == '\n':
				i++
				if i+1 == len(text) {
					return Backslash
				}
			case text[i+1] == '\r':
				i++
				if i+1 < len(text) && text[i+1] == '\n' {
					i++
				}
				if i+1 == len(text) {
					return Backslash
				}
			default:
				i++
			}
		case quoted:
		case c == '(':
			parens++
		case c == ')' && parens > 0:
			parens--
		case c == '{':
			braces++
		case c == '}' && braces > 0:
			braces--
		case c == '[':
			brackets++
		case c == ']' && brackets > 0:
			brackets--
		}
	}

	switch {
	case single:
		return OpenSingleQuote
	case double:
		return OpenDoubleQuote
	case parens > 0:
		return OpenParens
	case braces > 0:
		return OpenBraces
	case brackets > 0:
		return OpenBracket
	default:
		return Complete
	}
}
