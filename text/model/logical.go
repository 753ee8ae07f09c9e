package model

import (
	"fmt"
	"slices"

	"github.com/gogpu/textkit/text"
)

// LogicalModel owns the UTF-32 text and the per-character annotations:
// script and font runs, style runs from markup, break information and
// bidirectional paragraph information.
//
// LogicalModel is not safe for concurrent use. It has a single writer, the
// owning Controller or AsyncTextLoader.
type LogicalModel struct {
	text []text.Character

	scriptRuns []text.ScriptRun
	fontRuns   []text.FontRun

	colorRuns            []text.ColorRun
	fontDescriptionRuns  []text.FontDescriptionRun
	underlineRuns        []text.UnderlinedCharacterRun
	characterSpacingRuns []text.CharacterSpacingRun

	lineBreakInfo []text.LineBreakInfo
	wordBreakInfo []text.WordBreakInfo

	bidiParagraphs      []text.BidirectionalParagraphInfoRun
	characterDirections []text.Direction
}

// NewLogicalModel returns an empty logical model.
func NewLogicalModel() *LogicalModel {
	return &LogicalModel{}
}

// SetText replaces the whole text. All derived runs are invalidated; style
// runs are dropped as well.
func (m *LogicalModel) SetText(chars []text.Character) {
	m.text = slices.Clone(chars)
	m.scriptRuns = nil
	m.fontRuns = nil
	m.colorRuns = nil
	m.fontDescriptionRuns = nil
	m.underlineRuns = nil
	m.characterSpacingRuns = nil
	m.invalidateBreaks()
}

// Text returns the character buffer. The slice is owned by the model.
func (m *LogicalModel) Text() []text.Character {
	return m.text
}

// NumberOfCharacters returns the length of the text.
func (m *LogicalModel) NumberOfCharacters() int {
	return len(m.text)
}

// GetText copies count characters starting at index into out.
func (m *LogicalModel) GetText(index int, out []text.Character, count int) error {
	if index < 0 || count < 0 || index+count > len(m.text) {
		return fmt.Errorf("get text [%d, %d) of %d: %w", index, index+count, len(m.text), text.ErrOutOfRange)
	}
	if len(out) < count {
		return fmt.Errorf("get text: buffer holds %d, need %d: %w", len(out), count, text.ErrOutOfRange)
	}
	copy(out, m.text[index:index+count])
	return nil
}

// Character returns the character at index or 0 when out of range.
func (m *LogicalModel) Character(index int) text.Character {
	if index < 0 || index >= len(m.text) {
		return 0
	}
	return m.text[index]
}

// InsertText inserts chars at index, clamped to the text bounds, and shifts
// the style runs. Script and font runs must be recomputed by the caller for
// the affected range. It returns the index actually used.
func (m *LogicalModel) InsertText(index int, chars []text.Character) int {
	index = clamp(index, 0, len(m.text))
	m.text = slices.Insert(m.text, index, chars...)
	m.UpdateTextStyleRuns(index, len(chars))
	m.invalidateBreaks()
	return index
}

// RemoveText removes count characters at index, clamped to the text bounds.
// It returns the range actually removed.
func (m *LogicalModel) RemoveText(index, count int) (int, int) {
	index = clamp(index, 0, len(m.text))
	count = clamp(count, 0, len(m.text)-index)
	if count == 0 {
		return index, 0
	}
	m.text = slices.Delete(m.text, index, index+count)
	m.UpdateTextStyleRuns(index, -count)
	m.invalidateBreaks()
	return index, count
}

func (m *LogicalModel) invalidateBreaks() {
	m.lineBreakInfo = nil
	m.wordBreakInfo = nil
	m.bidiParagraphs = nil
	m.characterDirections = nil
}

// SetScripts replaces the script runs.
func (m *LogicalModel) SetScripts(runs []text.ScriptRun) {
	m.scriptRuns = runs
}

// Scripts returns the script runs.
func (m *LogicalModel) Scripts() []text.ScriptRun {
	return m.scriptRuns
}

// GetNumberOfScriptRuns counts the script runs overlapping
// [index, index+count), partial overlaps included.
func (m *LogicalModel) GetNumberOfScriptRuns(index, count int) int {
	return text.CountOverlappingRuns(m.scriptRuns, index, count)
}

// GetScriptRuns returns the script runs overlapping [index, index+count).
func (m *LogicalModel) GetScriptRuns(index, count int) []text.ScriptRun {
	return text.OverlappingRuns(m.scriptRuns, index, count)
}

// GetScript returns the script of the character at index, or
// ScriptUnknown when no run covers it.
func (m *LogicalModel) GetScript(index int) text.Script {
	if i := text.FindRun(m.scriptRuns, index); i >= 0 {
		return m.scriptRuns[i].Script
	}
	return text.ScriptUnknown
}

// SetFonts replaces the font runs.
func (m *LogicalModel) SetFonts(runs []text.FontRun) {
	m.fontRuns = runs
}

// Fonts returns the font runs.
func (m *LogicalModel) Fonts() []text.FontRun {
	return m.fontRuns
}

// GetNumberOfFontRuns counts the font runs overlapping [index, index+count).
func (m *LogicalModel) GetNumberOfFontRuns(index, count int) int {
	return text.CountOverlappingRuns(m.fontRuns, index, count)
}

// GetFontRuns returns the font runs overlapping [index, index+count).
func (m *LogicalModel) GetFontRuns(index, count int) []text.FontRun {
	return text.OverlappingRuns(m.fontRuns, index, count)
}

// GetFont returns the font of the character at index, or 0.
func (m *LogicalModel) GetFont(index int) text.FontID {
	if i := text.FindRun(m.fontRuns, index); i >= 0 {
		return m.fontRuns[i].FontID
	}
	return 0
}

// SetColorRuns replaces the color runs.
func (m *LogicalModel) SetColorRuns(runs []text.ColorRun) { m.colorRuns = runs }

// ColorRuns returns the color runs.
func (m *LogicalModel) ColorRuns() []text.ColorRun { return m.colorRuns }

// SetFontDescriptionRuns replaces the font description runs.
func (m *LogicalModel) SetFontDescriptionRuns(runs []text.FontDescriptionRun) {
	m.fontDescriptionRuns = runs
}

// FontDescriptionRuns returns the font description runs.
func (m *LogicalModel) FontDescriptionRuns() []text.FontDescriptionRun {
	return m.fontDescriptionRuns
}

// SetUnderlineRuns replaces the underline runs.
func (m *LogicalModel) SetUnderlineRuns(runs []text.UnderlinedCharacterRun) {
	m.underlineRuns = runs
}

// UnderlineRuns returns the underline runs.
func (m *LogicalModel) UnderlineRuns() []text.UnderlinedCharacterRun { return m.underlineRuns }

// SetCharacterSpacingRuns replaces the character spacing runs.
func (m *LogicalModel) SetCharacterSpacingRuns(runs []text.CharacterSpacingRun) {
	m.characterSpacingRuns = runs
}

// CharacterSpacingRuns returns the character spacing runs.
func (m *LogicalModel) CharacterSpacingRuns() []text.CharacterSpacingRun {
	return m.characterSpacingRuns
}

// CharacterSpacing returns the spacing of the character at index, or
// fallback when no spacing run covers it.
func (m *LogicalModel) CharacterSpacing(index int, fallback float64) float64 {
	if i := text.FindRun(m.characterSpacingRuns, index); i >= 0 {
		return m.characterSpacingRuns[i].Value
	}
	return fallback
}

// SetLineBreakInfo sets the line break info, one entry per character.
func (m *LogicalModel) SetLineBreakInfo(info []text.LineBreakInfo) { m.lineBreakInfo = info }

// LineBreakInfo returns the line break info.
func (m *LogicalModel) LineBreakInfo() []text.LineBreakInfo { return m.lineBreakInfo }

// SetWordBreakInfo sets the word break info, one entry per character.
func (m *LogicalModel) SetWordBreakInfo(info []text.WordBreakInfo) { m.wordBreakInfo = info }

// WordBreakInfo returns the word break info.
func (m *LogicalModel) WordBreakInfo() []text.WordBreakInfo { return m.wordBreakInfo }

// SetBidirectionalInfo sets the paragraph bidi runs and per-character
// directions.
func (m *LogicalModel) SetBidirectionalInfo(paragraphs []text.BidirectionalParagraphInfoRun, directions []text.Direction) {
	m.bidiParagraphs = paragraphs
	m.characterDirections = directions
}

// BidirectionalParagraphs returns the paragraphs that contain right-to-left
// text.
func (m *LogicalModel) BidirectionalParagraphs() []text.BidirectionalParagraphInfoRun {
	return m.bidiParagraphs
}

// CharacterDirection returns the resolved direction of a character.
func (m *LogicalModel) CharacterDirection(index int) text.Direction {
	if index < 0 || index >= len(m.characterDirections) {
		return text.DirectionLTR
	}
	return m.characterDirections[index]
}

// CharacterDirections returns the direction of every character, or nil
// when no bidirectional information was computed.
func (m *LogicalModel) CharacterDirections() []text.Direction {
	return m.characterDirections
}

// HasBidirectionalText reports whether any paragraph needs reordering.
func (m *LogicalModel) HasBidirectionalText() bool {
	return len(m.bidiParagraphs) > 0
}

// UpdateTextStyleRuns shifts the style runs after an edit. A positive delta
// is an insertion at index: runs after it move right and the run containing
// index (or ending at it) grows. A negative delta removes -delta characters
// at index: runs shrink, move left, and empty runs are dropped.
func (m *LogicalModel) UpdateTextStyleRuns(index, delta int) {
	m.colorRuns = updateRuns(m.colorRuns, func(r *text.ColorRun) *text.CharacterRun { return &r.CharacterRun }, index, delta)
	m.fontDescriptionRuns = updateRuns(m.fontDescriptionRuns, func(r *text.FontDescriptionRun) *text.CharacterRun { return &r.CharacterRun }, index, delta)
	m.underlineRuns = updateRuns(m.underlineRuns, func(r *text.UnderlinedCharacterRun) *text.CharacterRun { return &r.CharacterRun }, index, delta)
	m.characterSpacingRuns = updateRuns(m.characterSpacingRuns, func(r *text.CharacterSpacingRun) *text.CharacterRun { return &r.CharacterRun }, index, delta)
}

func updateRuns[R any](runs []R, get func(*R) *text.CharacterRun, index, delta int) []R {
	if delta == 0 || len(runs) == 0 {
		return runs
	}
	out := runs[:0]
	for i := range runs {
		if ShiftRun(get(&runs[i]), index, delta) {
			out = append(out, runs[i])
		}
	}
	return out
}

// ShiftRun applies an edit of delta characters at index to r, with the
// semantics of UpdateTextStyleRuns, and reports whether r survives.
func ShiftRun(r *text.CharacterRun, index, delta int) bool {
	if delta > 0 {
		switch {
		case index < r.CharacterIndex:
			r.CharacterIndex += delta
		case index <= r.End():
			r.NumberOfCharacters += delta
		}
		return true
	}

	removeStart, removeEnd := index, index-delta
	start, end := r.CharacterIndex, r.End()
	switch {
	case removeEnd <= start:
		r.CharacterIndex += delta
	case removeStart >= end:
		// Edit after the run.
	default:
		overlap := min(end, removeEnd) - max(start, removeStart)
		r.NumberOfCharacters -= overlap
		if removeStart < start {
			r.CharacterIndex = removeStart
		}
	}
	return r.NumberOfCharacters > 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
