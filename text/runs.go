package text

import "image/color"

// CharacterRun is a contiguous range of characters.
// It also describes a cluster of characters that must be edited and
// selected as one unit.
type CharacterRun struct {
	CharacterIndex     int
	NumberOfCharacters int
}

// End returns the index one past the last character of the run.
func (r CharacterRun) End() int {
	return r.CharacterIndex + r.NumberOfCharacters
}

// Contains reports whether index falls inside the run.
func (r CharacterRun) Contains(index int) bool {
	return index >= r.CharacterIndex && index < r.End()
}

// Overlaps reports whether the run shares at least one character with
// [index, index+count).
func (r CharacterRun) Overlaps(index, count int) bool {
	if count <= 0 || r.NumberOfCharacters <= 0 {
		return false
	}
	return r.CharacterIndex < index+count && index < r.End()
}

// GlyphRun is a contiguous range of glyphs.
type GlyphRun struct {
	GlyphIndex     int
	NumberOfGlyphs int
}

// End returns the index one past the last glyph of the run.
func (r GlyphRun) End() int {
	return r.GlyphIndex + r.NumberOfGlyphs
}

// ScriptRun is a maximal character range sharing one script.
type ScriptRun struct {
	CharacterRun
	Script Script
}

// FontRun is a maximal character range sharing one resolved font.
type FontRun struct {
	CharacterRun
	FontID           FontID
	IsItalicRequired bool
	IsBoldRequired   bool
}

// ColorRun overrides the text color for a character range.
type ColorRun struct {
	CharacterRun
	Color color.NRGBA
}

// FontWeight is a CSS-like font weight.
type FontWeight int

// Common font weights.
const (
	WeightNormal FontWeight = 400
	WeightBold   FontWeight = 700
)

// FontSlant is the font slant style.
type FontSlant int

const (
	// SlantNormal is the upright style.
	SlantNormal FontSlant = iota
	// SlantItalic is the italic style.
	SlantItalic
)

// FontDescription requests a font by family, weight, slant and size.
// Zero-valued fields mean "not defined".
type FontDescription struct {
	Family    string
	Weight    FontWeight
	Slant     FontSlant
	PointSize float64
}

// FontDescriptionRun applies a font description to a character range.
// Each field of the description is applied only when its Defined bit is set.
type FontDescriptionRun struct {
	CharacterRun
	Description   FontDescription
	FamilyDefined bool
	WeightDefined bool
	SlantDefined  bool
	SizeDefined   bool
}

// Apply overrides the fields of d that the run defines.
func (r FontDescriptionRun) Apply(d *FontDescription) {
	if r.FamilyDefined {
		d.Family = r.Description.Family
	}
	if r.WeightDefined {
		d.Weight = r.Description.Weight
	}
	if r.SlantDefined {
		d.Slant = r.Description.Slant
	}
	if r.SizeDefined {
		d.PointSize = r.Description.PointSize
	}
}

// CharacterSpacingRun overrides the character spacing for a range.
type CharacterSpacingRun struct {
	CharacterRun
	Value float64
}

// UnderlinedCharacterRun applies underline properties to a range.
type UnderlinedCharacterRun struct {
	CharacterRun
	Properties UnderlineStyleProperties
}

// BidirectionalParagraphInfoRun describes a paragraph that contains
// right-to-left characters.
type BidirectionalParagraphInfoRun struct {
	CharacterRun
	Direction Direction
	// Levels holds the embedding level of every character of the paragraph.
	Levels []uint8
}

// LineRun describes one laid out line.
type LineRun struct {
	Glyphs     GlyphRun
	Characters CharacterRun
	Width      float64
	Ascender   float64
	Descender  float64
	// Extra is the whitespace advance trailing the line.
	Extra           float64
	AlignmentOffset float64
	Direction       Direction
	Ellipsis        bool
}

// Height returns the line height (ascender - descender).
func (l LineRun) Height() float64 {
	return l.Ascender - l.Descender
}

// Ranged is implemented by all run types.
type Ranged interface {
	Range() CharacterRun
}

// Range implements Ranged.
func (r CharacterRun) Range() CharacterRun { return r }

// CountOverlappingRuns counts the runs that share at least one character with
// [index, index+count). A run partially overlapping the range counts once.
func CountOverlappingRuns[R Ranged](runs []R, index, count int) int {
	n := 0
	for _, r := range runs {
		rr := r.Range()
		if rr.CharacterIndex >= index+count {
			break
		}
		if rr.Overlaps(index, count) {
			n++
		}
	}
	return n
}

// OverlappingRuns returns the sub-slice of runs sharing at least one
// character with [index, index+count). Runs must be sorted.
func OverlappingRuns[R Ranged](runs []R, index, count int) []R {
	first, last := -1, -1
	for i, r := range runs {
		rr := r.Range()
		if rr.CharacterIndex >= index+count {
			break
		}
		if rr.Overlaps(index, count) {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return nil
	}
	return runs[first : last+1]
}

// FindRun returns the index of the run containing the character, or -1.
// Runs must be sorted and non-overlapping.
func FindRun[R Ranged](runs []R, index int) int {
	lo, hi := 0, len(runs)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		rr := runs[mid].Range()
		switch {
		case index < rr.CharacterIndex:
			hi = mid - 1
		case index >= rr.End():
			lo = mid + 1
		default:
			return mid
		}
	}
	return -1
}
