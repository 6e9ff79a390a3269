package structurer

import (
	"fmt"
	"strings"
)

// Repair rewrites near-JSON model output into strict JSON. It fixes the
// defects models actually produce: trailing commas before a closing brace
// or bracket, single-quoted strings, unquoted object keys, and literal
// control characters inside string values. Anything it cannot fix passes
// through unchanged and fails the second parse instead.
func Repair(in string) string {
	var out strings.Builder
	out.Grow(len(in))

	i := 0
	for i < len(in) {
		c := in[i]
		switch {
		case c == '"':
			i = copyQuoted(&out, in, i, '"')
		case c == '\'':
			i = copyQuoted(&out, in, i, '\'')
		case c == ',':
			j := i + 1
			for j < len(in) && isSpace(in[j]) {
				j++
			}
			if j < len(in) && (in[j] == '}' || in[j] == ']') {
				i++ // trailing comma, drop it
				continue
			}
			out.WriteByte(c)
			i++
		case isIdentStart(c):
			j := i
			for j < len(in) && isIdentPart(in[j]) {
				j++
			}
			k := j
			for k < len(in) && isSpace(in[k]) {
				k++
			}
			if k < len(in) && in[k] == ':' {
				// unquoted key
				out.WriteByte('"')
				out.WriteString(in[i:j])
				out.WriteByte('"')
			} else {
				out.WriteString(in[i:j])
			}
			i = j
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// copyQuoted copies a string literal starting at in[i] (the opening quote,
// either " or ') as a double-quoted JSON string, escaping literal control
// characters and any inner double quotes from single-quoted input.
func copyQuoted(out *strings.Builder, in string, i int, quote byte) int {
	out.WriteByte('"')
	i++
	for i < len(in) {
		c := in[i]
		switch {
		case c == '\\' && i+1 < len(in):
			next := in[i+1]
			if quote == '\'' && next == '\'' {
				out.WriteByte('\'')
			} else {
				out.WriteByte('\\')
				out.WriteByte(next)
			}
			i += 2
		case c == quote:
			out.WriteByte('"')
			return i + 1
		case c == '"':
			out.WriteString(`\"`)
			i++
		case c == '\n':
			out.WriteString(`\n`)
			i++
		case c == '\r':
			out.WriteString(`\r`)
			i++
		case c == '\t':
			out.WriteString(`\t`)
			i++
		case c < 0x20:
			fmt.Fprintf(out, `\u%04x`, c)
			i++
		default:
			out.WriteByte(c)
			i++
		}
	}
	out.WriteByte('"') // unterminated literal, close it
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
