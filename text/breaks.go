package text

// LineBreakInfo describes the break opportunity after a character.
type LineBreakInfo uint8

const (
	// LineNoBreak forbids a line break after the character.
	LineNoBreak LineBreakInfo = iota
	// LineAllowBreak allows a line break after the character.
	LineAllowBreak
	// LineMustBreak forces a line break after the character.
	LineMustBreak
)

// WordBreakInfo describes whether a word ends after a character.
type WordBreakInfo uint8

const (
	// WordNoBreak means the next character belongs to the same word.
	WordNoBreak WordBreakInfo = iota
	// WordBreak means a word boundary follows the character.
	WordBreak
)
