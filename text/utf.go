package text

import "unicode/utf8"

// Utf8ToUtf32 decodes UTF-8 permissively. Every invalid byte sequence is
// replaced by U+FFFD; decoding never fails. The second result reports
// whether any replacement happened.
func Utf8ToUtf32(s []byte) ([]Character, bool) {
	out := make([]Character, 0, utf8.RuneCount(s))
	replaced := false
	for len(s) > 0 {
		r, size := utf8.DecodeRune(s)
		if r == utf8.RuneError && size <= 1 {
			replaced = true
		}
		out = append(out, r)
		s = s[size:]
	}
	return out, replaced
}

// StringToUtf32 is Utf8ToUtf32 for strings.
func StringToUtf32(s string) ([]Character, bool) {
	return Utf8ToUtf32([]byte(s))
}

// Utf32ToString encodes characters as UTF-8. Invalid code points are
// encoded as U+FFFD.
func Utf32ToString(chars []Character) string {
	buf := make([]byte, 0, len(chars))
	for _, c := range chars {
		buf = utf8.AppendRune(buf, c)
	}
	return string(buf)
}
