package typesetter

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/gogpu/textkit/text"
	"github.com/gogpu/textkit/text/model"
)

// underlineAt returns the underline properties of a character. The model
// underline applies to every character when enabled; runs refine it.
func underlineAt(m *model.Model, index int) (text.UnderlineStyleProperties, bool) {
	var props text.UnderlineStyleProperties
	found := m.UnderlineEnabled
	if found {
		props = m.Underline
	}
	for _, r := range m.Logical.UnderlineRuns() {
		if !r.Contains(index) {
			continue
		}
		p := r.Properties
		if found {
			p.CopyIfNotDefined(props)
		}
		props, found = p, true
	}
	return props, found
}

func (t *Typesetter) drawUnderlines(dst draw.Image, m *model.Model, line text.LineRun, baseline float64, origin text.Vector2, colors colorLookup) {
	if !m.UnderlineEnabled && len(m.Logical.UnderlineRuns()) == 0 {
		return
	}
	v := m.Visual
	glyphs := v.Glyphs()
	positions := v.GlyphPositions()
	g2c := v.GlyphsToCharacters()
	for g := line.Glyphs.GlyphIndex; g < line.Glyphs.End(); g++ {
		props, ok := underlineAt(m, g2c[g])
		if !ok {
			continue
		}
		glyph := glyphs[g]
		metrics := t.fonts.FontMetrics(glyph.FontID)
		props = props.Resolved(text.UnderlineStyleProperties{
			Color:         colors.at(g2c[g]),
			ColorDefined:  true,
			Height:        metrics.UnderlineThickness,
			HeightDefined: true,
		})
		x0 := origin.X + positions[g].X - glyph.XOffset
		y := origin.Y + baseline + metrics.UnderlinePosition
		drawRule(dst, x0, x0+glyph.Advance, y, origin.X, props)
	}
}

// drawRule draws an underline from x0 to x1 with its top at y. Dashes are
// aligned on dashOrigin so adjacent glyphs continue the pattern.
func drawRule(dst draw.Image, x0, x1, y, dashOrigin float64, p text.UnderlineStyleProperties) {
	thickness := max(1, int(math.Round(p.Height)))
	left, right := int(math.Round(x0)), int(math.Round(x1))
	top := int(math.Round(y))
	if right <= left {
		return
	}
	src := image.NewUniform(p.Color)
	fill := func(l, r, t int) {
		draw.Draw(dst, image.Rect(l, t, r, t+thickness), src, image.Point{}, draw.Over)
	}

	switch p.Type {
	case text.UnderlineDouble:
		fill(left, right, top)
		fill(left, right, top+2*thickness)
	case text.UnderlineDashed:
		dash := p.DashWidth
		if !p.DashWidthDefined || dash <= 0 {
			dash = float64(2 * thickness)
		}
		gap := p.DashGap
		if !p.DashGapDefined || gap < 0 {
			gap = float64(thickness)
		}
		period := dash + gap
		start := dashOrigin + math.Floor((x0-dashOrigin)/period)*period
		for s := start; s < x1; s += period {
			l := int(math.Round(max(s, x0)))
			r := int(math.Round(min(s+dash, x1)))
			if r > l {
				fill(l, r, top)
			}
		}
	default:
		fill(left, right, top)
	}
}
