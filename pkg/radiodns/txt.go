package radiodns

import "strings"

// DecodeTXT decodes the character-strings of one TXT record and appends the
// resulting key/value pairs to params. Each string is a sequence of
// whitespace separated key=value tokens in which %XX escapes stand for raw
// bytes. Strings are given in presentation form, as miekg/dns reports them.
//
// Once params holds MaxParams pairs further tokens are ignored. A token
// without '=' yields a key with an empty value; tokens with an empty key
// are skipped.
func DecodeTXT(strs []string, params []Param) []Param {
	for _, s := range strs {
		raw := unescapePresentation(s)
		for _, token := range strings.Fields(raw) {
			if len(params) >= MaxParams {
				return params
			}
			key, value, _ := strings.Cut(token, "=")
			if key == "" {
				continue
			}
			params = append(params, Param{
				Key:   percentDecode(key),
				Value: percentDecode(value),
			})
		}
	}
	return params
}

// percentDecode replaces %XX hex escapes with the bytes they encode.
// Malformed escapes are kept as written.
func percentDecode(s string) string {
	if strings.IndexByte(s, '%') < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHexDigit(s[i+1]) && isHexDigit(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func unhex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
