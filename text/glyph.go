package text

// GlyphInfo is a shaped glyph with its metrics, in pixels.
type GlyphInfo struct {
	FontID FontID
	Index  GlyphID

	Width    float64
	Height   float64
	XBearing float64
	YBearing float64
	Advance  float64

	// XOffset and YOffset adjust the glyph position as computed by the
	// shaper (mark attachment, kerning in vertical direction).
	XOffset float64
	YOffset float64

	// ScaleFactor is applied to bitmap glyphs whose strike does not match
	// the requested size.
	ScaleFactor float64

	IsItalicRequired bool
	IsBoldRequired   bool
}

// IsEmbeddedImage reports whether the glyph is an embedded image rather
// than a font glyph.
func (g GlyphInfo) IsEmbeddedImage() bool {
	return g.FontID == 0 && g.Index != 0
}

// FontMetrics holds font-level metrics at a point size, in pixels.
type FontMetrics struct {
	// Ascender is the distance from the baseline to the top (positive).
	Ascender float64
	// Descender is the distance from the baseline to the bottom (negative).
	Descender float64
	// Height is the recommended baseline-to-baseline distance.
	Height float64

	UnderlinePosition  float64
	UnderlineThickness float64
}

// LineHeight returns ascender - descender, or Height when that is larger.
func (m FontMetrics) LineHeight() float64 {
	h := m.Ascender - m.Descender
	if m.Height > h {
		return m.Height
	}
	return h
}
