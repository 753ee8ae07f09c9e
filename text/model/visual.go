package model

import "github.com/gogpu/textkit/text"

// VisualModel holds the shaped and laid out representation of the text:
// glyphs, the glyph⇄character conversion tables, glyph positions and lines.
// Everything here is derived from the LogicalModel and rebuilt when an
// upstream operation is dirtied.
type VisualModel struct {
	glyphs             []text.GlyphInfo
	glyphsToCharacters []int
	charactersPerGlyph []int
	charactersToGlyph  []int
	glyphsPerCharacter []int

	positions []text.Vector2
	lines     []text.LineRun

	// LayoutSize is the size of the laid out text constrained by the box.
	LayoutSize text.Size
	// NaturalSize is the size of the text with no width constraint.
	NaturalSize text.Size
	// ControlSize is the size of the box the text was laid out in.
	ControlSize text.Size

	// Ellipsis is set when the last visible line was elided.
	Ellipsis *Ellipsis
}

// Ellipsis is the glyph drawn at the end of an elided line. Glyphs of the
// line past Line.Glyphs are hidden.
type Ellipsis struct {
	Line     int
	Glyph    text.GlyphInfo
	Position text.Vector2
}

// NewVisualModel returns an empty visual model.
func NewVisualModel() *VisualModel {
	return &VisualModel{}
}

// SetGlyphs stores the shaped glyphs and builds the character→glyph and
// glyphs-per-character tables. glyphsToCharacters holds, for every glyph,
// the first character it was shaped from; charactersPerGlyph is 0 for a
// glyph that continues the cluster of the previous glyph.
func (v *VisualModel) SetGlyphs(glyphs []text.GlyphInfo, glyphsToCharacters, charactersPerGlyph []int, numberOfCharacters int) {
	v.glyphs = glyphs
	v.glyphsToCharacters = glyphsToCharacters
	v.charactersPerGlyph = charactersPerGlyph
	v.charactersToGlyph, v.glyphsPerCharacter = BuildConversionTables(glyphsToCharacters, charactersPerGlyph, numberOfCharacters)
	v.positions = nil
	v.lines = nil
}

// BuildConversionTables computes the character→first-glyph table and the
// number of glyphs each character produced. Characters folded into a
// ligature map to the ligature glyph and produce zero glyphs.
func BuildConversionTables(glyphsToCharacters, charactersPerGlyph []int, numberOfCharacters int) (charactersToGlyph, glyphsPerCharacter []int) {
	charactersToGlyph = make([]int, numberOfCharacters)
	glyphsPerCharacter = make([]int, numberOfCharacters)
	for i := range charactersToGlyph {
		charactersToGlyph[i] = -1
	}
	for g, c := range glyphsToCharacters {
		if c < 0 || c >= numberOfCharacters {
			continue
		}
		glyphsPerCharacter[c]++
		n := 1
		if g < len(charactersPerGlyph) && charactersPerGlyph[g] > 1 {
			n = charactersPerGlyph[g]
		}
		for k := 0; k < n && c+k < numberOfCharacters; k++ {
			if charactersToGlyph[c+k] < 0 {
				charactersToGlyph[c+k] = g
			}
		}
	}
	// Characters that produced nothing (e.g. dropped controls) map to the
	// previous glyph so hit-testing stays monotonic.
	last := 0
	for i, g := range charactersToGlyph {
		if g < 0 {
			charactersToGlyph[i] = last
			continue
		}
		last = g
	}
	return charactersToGlyph, glyphsPerCharacter
}

// Glyphs returns the shaped glyphs.
func (v *VisualModel) Glyphs() []text.GlyphInfo { return v.glyphs }

// NumberOfGlyphs returns the number of shaped glyphs.
func (v *VisualModel) NumberOfGlyphs() int { return len(v.glyphs) }

// GlyphsToCharacters returns the glyph→first character table.
func (v *VisualModel) GlyphsToCharacters() []int { return v.glyphsToCharacters }

// CharactersPerGlyph returns the number of characters each glyph covers.
func (v *VisualModel) CharactersPerGlyph() []int { return v.charactersPerGlyph }

// CharactersToGlyph returns the character→first glyph table.
func (v *VisualModel) CharactersToGlyph() []int { return v.charactersToGlyph }

// GlyphsPerCharacter returns the number of glyphs each character produced.
func (v *VisualModel) GlyphsPerCharacter() []int { return v.glyphsPerCharacter }

// SetGlyphPositions stores the pen positions of the glyphs.
func (v *VisualModel) SetGlyphPositions(positions []text.Vector2) { v.positions = positions }

// GlyphPositions returns the pen positions, one per glyph.
func (v *VisualModel) GlyphPositions() []text.Vector2 { return v.positions }

// SetLines stores the laid out lines.
func (v *VisualModel) SetLines(lines []text.LineRun) { v.lines = lines }

// Lines returns the laid out lines.
func (v *VisualModel) Lines() []text.LineRun { return v.lines }

// NumberOfLines returns the number of laid out lines.
func (v *VisualModel) NumberOfLines() int { return len(v.lines) }

// LineOfCharacter returns the index of the line containing the character.
// Indices past the end map to the last line.
func (v *VisualModel) LineOfCharacter(index int) int {
	for i, l := range v.lines {
		if index < l.Characters.End() {
			return i
		}
	}
	if len(v.lines) == 0 {
		return 0
	}
	return len(v.lines) - 1
}

// LineOfGlyph returns the index of the line containing the glyph.
func (v *VisualModel) LineOfGlyph(index int) int {
	for i, l := range v.lines {
		if index < l.Glyphs.End() {
			return i
		}
	}
	if len(v.lines) == 0 {
		return 0
	}
	return len(v.lines) - 1
}

// GetNumberOfLines counts the lines overlapping the glyph range.
func (v *VisualModel) GetNumberOfLines(glyphIndex, count int) int {
	n := 0
	for _, l := range v.lines {
		if l.Glyphs.GlyphIndex < glyphIndex+count && glyphIndex < l.Glyphs.End() {
			n++
		}
	}
	return n
}

// Clear drops every derived table.
func (v *VisualModel) Clear() {
	*v = VisualModel{ControlSize: v.ControlSize}
}
