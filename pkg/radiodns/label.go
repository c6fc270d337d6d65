package radiodns

import "strings"

// FirstLabel returns the first label of a presentation-format domain name
// with DNS escaping removed. `\DDD` becomes the byte with decimal value DDD
// and `\X` becomes X. Copying stops at the first unescaped dot.
//
//	FirstLabel(`Studio\0321\.hd._radioepg._tcp.example.com.`) == "Studio 1.hd"
func FirstLabel(name string) string {
	label, _ := unescape(name, true)
	return label
}

// unescapePresentation removes DNS presentation escaping from s.
func unescapePresentation(s string) string {
	out, _ := unescape(s, false)
	return out
}

// unescape decodes s up to the end of the string or, when stopAtDot is set,
// the first unescaped dot. It returns the decoded text and the number of
// input bytes consumed.
func unescape(s string, stopAtDot bool) (string, int) {
	if strings.IndexByte(s, '\\') < 0 {
		if stopAtDot {
			if i := strings.IndexByte(s, '.'); i >= 0 {
				return s[:i], i
			}
		}
		return s, len(s)
	}

	var b strings.Builder
	b.Grow(len(s))

	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '.' && stopAtDot:
			return b.String(), i
		case c != '\\':
			b.WriteByte(c)
			i++
		case i+3 < len(s) && isDigit(s[i+1]) && isDigit(s[i+2]) && isDigit(s[i+3]):
			v := int(s[i+1]-'0')*100 + int(s[i+2]-'0')*10 + int(s[i+3]-'0')
			if v > 0xFF {
				// Not a byte value; keep the digits as literal text.
				b.WriteByte(s[i+1])
				i += 2
				continue
			}
			b.WriteByte(byte(v))
			i += 4
		case i+1 < len(s):
			b.WriteByte(s[i+1])
			i += 2
		default:
			// Trailing backslash.
			i++
		}
	}
	return b.String(), i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
