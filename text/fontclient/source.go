package fontclient

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/textkit/text"
)

// Source is a parsed font file. One Source backs every FontID created for
// it at different point sizes.
//
// Source is safe for concurrent use. Source must not be copied after
// creation.
type Source struct {
	// addr is used for copy protection. It must point to the Source itself.
	addr *Source

	data []byte
	font *opentype.Font

	family string
	weight text.FontWeight
	slant  text.FontSlant
}

// NewSource parses font data (TTF or OTF). The data slice is copied.
func NewSource(data []byte) (*Source, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fontclient: failed to parse font: %w", err)
	}

	s := &Source{
		data: append([]byte(nil), data...),
		font: f,
	}
	s.addr = s
	s.family = nameOf(f, sfnt.NameIDFamily)
	if s.family == "" {
		s.family = nameOf(f, sfnt.NameIDFull)
	}
	s.weight, s.slant = styleOf(nameOf(f, sfnt.NameIDSubfamily))
	return s, nil
}

// NewSourceFromFile loads a Source from a font file path.
func NewSourceFromFile(path string) (*Source, error) {
	// #nosec G304 -- Font file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fontclient: failed to read font file: %w", err)
	}
	return NewSource(data)
}

func nameOf(f *opentype.Font, id sfnt.NameID) string {
	name, err := f.Name(nil, id)
	if err != nil {
		return ""
	}
	return name
}

// styleOf derives weight and slant from a subfamily name such as
// "Bold Italic".
func styleOf(subfamily string) (text.FontWeight, text.FontSlant) {
	s := strings.ToLower(subfamily)
	weight := text.WeightNormal
	switch {
	case strings.Contains(s, "black"), strings.Contains(s, "heavy"):
		weight = 900
	case strings.Contains(s, "extrabold"), strings.Contains(s, "extra bold"):
		weight = 800
	case strings.Contains(s, "semibold"), strings.Contains(s, "semi bold"):
		weight = 600
	case strings.Contains(s, "medium"):
		weight = 500
	case strings.Contains(s, "bold"):
		weight = text.WeightBold
	case strings.Contains(s, "light"):
		weight = 300
	case strings.Contains(s, "thin"):
		weight = 100
	}
	slant := text.SlantNormal
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		slant = text.SlantItalic
	}
	return weight, slant
}

// Family returns the font family name.
func (s *Source) Family() string {
	s.copyCheck()
	return s.family
}

// Weight returns the weight derived from the subfamily name.
func (s *Source) Weight() text.FontWeight {
	s.copyCheck()
	return s.weight
}

// Slant returns the slant derived from the subfamily name.
func (s *Source) Slant() text.FontSlant {
	s.copyCheck()
	return s.slant
}

// Data returns the raw font data. The slice must not be modified.
func (s *Source) Data() []byte {
	s.copyCheck()
	return s.data
}

// SFNT returns the parsed font for outline access.
func (s *Source) SFNT() *sfnt.Font {
	s.copyCheck()
	return s.font
}

// glyphIndex returns the glyph for r, or 0 when the font lacks it.
func (s *Source) glyphIndex(buf *sfnt.Buffer, r rune) sfnt.GlyphIndex {
	idx, err := s.font.GlyphIndex(buf, r)
	if err != nil {
		return 0
	}
	return idx
}

func (s *Source) metrics(ppem fixed.Int26_6) text.FontMetrics {
	var buf sfnt.Buffer
	m, err := s.font.Metrics(&buf, ppem, font.HintingNone)
	if err != nil {
		return text.FontMetrics{}
	}
	ascender := fixedToFloat64(m.Ascent)
	descender := -fixedToFloat64(m.Descent)
	size := fixedToFloat64(ppem)
	return text.FontMetrics{
		Ascender:           ascender,
		Descender:          descender,
		Height:             fixedToFloat64(m.Height),
		UnderlinePosition:  -descender / 2,
		UnderlineThickness: max(1, size/14),
	}
}

// glyphMetrics fills width, height, bearings and advance of g.
func (s *Source) glyphMetrics(buf *sfnt.Buffer, g *text.GlyphInfo, ppem fixed.Int26_6) bool {
	gid := sfnt.GlyphIndex(g.Index)
	bounds, advance, err := s.font.GlyphBounds(buf, gid, ppem, font.HintingNone)
	if err != nil {
		return false
	}
	g.XBearing = fixedToFloat64(bounds.Min.X)
	g.YBearing = -fixedToFloat64(bounds.Min.Y)
	g.Width = fixedToFloat64(bounds.Max.X - bounds.Min.X)
	g.Height = fixedToFloat64(bounds.Max.Y - bounds.Min.Y)
	g.Advance = fixedToFloat64(advance)
	return true
}

// copyCheck panics if Source was copied by value.
func (s *Source) copyCheck() {
	if s.addr != s {
		panic("fontclient: Source must not be copied by value")
	}
}

func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}
