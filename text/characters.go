package text

import "unicode"

// Special characters the pipeline treats explicitly.
const (
	CharZeroWidthSpace      Character = 0x200B
	CharZeroWidthNonJoiner  Character = 0x200C
	CharZeroWidthJoiner     Character = 0x200D
	CharLeftToRightMark     Character = 0x200E
	CharRightToLeftMark     Character = 0x200F
	CharLineSeparator       Character = 0x2028
	CharParagraphSeparator  Character = 0x2029
	CharEllipsis            Character = 0x2026
	CharObjectReplacement   Character = 0xFFFC
	CharReplacement         Character = 0xFFFD
	CharLineFeed            Character = '\n'
	CharCarriageReturn      Character = '\r'
	CharVerticalTab         Character = '\v'
	CharFormFeed            Character = '\f'
	CharNextLine            Character = 0x0085
	CharArabicLetterMark    Character = 0x061C
	CharLeftToRightEmbed    Character = 0x202A
	CharPopDirectional      Character = 0x202C
	CharRightToLeftOverride Character = 0x202E
	CharFirstStrongIsolate  Character = 0x2068
	CharPopDirectionalIso   Character = 0x2069
)

// IsNewParagraph reports whether c ends a paragraph.
func IsNewParagraph(c Character) bool {
	switch c {
	case CharLineFeed, CharCarriageReturn, CharVerticalTab, CharFormFeed,
		CharNextLine, CharLineSeparator, CharParagraphSeparator:
		return true
	}
	return false
}

// IsWhiteSpace reports whether c is a white space character, including
// paragraph separators.
func IsWhiteSpace(c Character) bool {
	return unicode.IsSpace(c) || c == CharZeroWidthSpace
}

// IsZeroWidth reports whether c is a zero width joiner, non-joiner or space.
func IsZeroWidth(c Character) bool {
	return c == CharZeroWidthSpace || c == CharZeroWidthNonJoiner || c == CharZeroWidthJoiner
}

// IsDirectionMark reports whether c is an invisible bidi formatting
// character.
func IsDirectionMark(c Character) bool {
	switch {
	case c == CharLeftToRightMark, c == CharRightToLeftMark, c == CharArabicLetterMark:
		return true
	case c >= CharLeftToRightEmbed && c <= CharRightToLeftOverride:
		return true
	case c >= 0x2066 && c <= CharPopDirectionalIso:
		return true
	}
	return false
}
