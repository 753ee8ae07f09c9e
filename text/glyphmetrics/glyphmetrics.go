// Package glyphmetrics sizes glyph clusters.
//
// A cluster is a glyph followed by the glyphs continuing it, marked with a
// characters-per-glyph count of zero. Complex scripts and emoji sequences
// produce such clusters; layout and hit-testing treat each as one unit.
package glyphmetrics

import (
	"math"

	"github.com/gogpu/textkit/text"
)

// ItalicAngle is the slant of synthetic italics, in radians.
const ItalicAngle = 12 * math.Pi / 180

// Metrics is the font capability needed to size clusters.
// *fontclient.Client implements it.
type Metrics interface {
	FontMetrics(id text.FontID) text.FontMetrics
	HasItalicStyle(id text.FontID) bool
}

// GlyphMetrics is the size of a glyph cluster.
type GlyphMetrics struct {
	FontID     text.FontID
	FontHeight float64
	Width      float64
	Advance    float64
	Ascender   float64
	Descender  float64
	XBearing   float64
}

// GetNumberOfGlyphsOfGroup returns the number of glyphs of the cluster
// starting at glyphIndex: the glyph itself and the continuation glyphs
// following it, up to lastGlyphPlusOne. The result is at least 1 and never
// exceeds lastGlyphPlusOne-glyphIndex when that range is not empty.
func GetNumberOfGlyphsOfGroup(glyphIndex, lastGlyphPlusOne int, charactersPerGlyph []int) int {
	last := min(lastGlyphPlusOne, len(charactersPerGlyph))
	n := 1
	for i := glyphIndex + 1; i < last && charactersPerGlyph[i] == 0; i++ {
		n++
	}
	return n
}

// GetGlyphsMetrics returns the metrics of the numberOfGlyphs glyphs
// starting at glyphIndex.
//
// Font metrics give the ascender, descender and height. An embedded image
// has no font: its height is its ascender and its descender is zero.
// The width of a multi-glyph cluster is its bounding span and its advance
// the sum of the advances. Glyphs requiring italics drawn with an upright
// font get the synthetic slant added to their width.
func GetGlyphsMetrics(glyphIndex, numberOfGlyphs int, glyphs []text.GlyphInfo, metrics Metrics) GlyphMetrics {
	first := glyphs[glyphIndex]

	var fm text.FontMetrics
	switch {
	case first.FontID != 0:
		fm = metrics.FontMetrics(first.FontID)
	case first.Index != 0:
		fm = text.FontMetrics{Ascender: first.Height, Height: first.Height}
	}

	gm := GlyphMetrics{
		FontID:     first.FontID,
		FontHeight: fm.LineHeight(),
		Ascender:   fm.Ascender,
		Descender:  fm.Descender,
		XBearing:   first.XBearing,
	}

	if numberOfGlyphs > 1 {
		maxEdge := first.XBearing + first.Width
		for i := glyphIndex; i < glyphIndex+numberOfGlyphs && i < len(glyphs); i++ {
			g := glyphs[i]
			gm.XBearing = min(gm.XBearing, gm.Advance+g.XBearing)
			maxEdge = max(maxEdge, gm.Advance+g.XBearing+g.Width)
			gm.Advance += g.Advance
		}
		gm.Width = maxEdge - gm.XBearing
	} else {
		gm.Width = first.Width
		gm.Advance = first.Advance
	}

	if first.IsItalicRequired && !metrics.HasItalicStyle(first.FontID) {
		gm.Width += math.Tan(ItalicAngle) * first.Height
	}
	return gm
}

// GetCalculatedAdvance returns advance plus the character spacing.
// Zero-width characters, paragraph separators and direction marks never
// get spacing.
func GetCalculatedAdvance(character text.Character, characterSpacing, advance float64) float64 {
	if text.IsZeroWidth(character) || text.IsNewParagraph(character) || text.IsDirectionMark(character) {
		return advance
	}
	return advance + characterSpacing
}
