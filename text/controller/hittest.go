package controller

import (
	"cmp"
	"math"
	"slices"

	"github.com/gogpu/textkit/text"
	"github.com/gogpu/textkit/text/glyphmetrics"
	"github.com/gogpu/textkit/text/layout"
)

// span is the visual extent of one glyph cluster of a line, in layout
// coordinates without the alignment offset.
type span struct {
	first, count int
	left, right  float64
	rtl          bool
}

func (s span) width() float64 { return s.right - s.left }

// spans returns the glyph clusters of a line.
func (c *Controller) spans(line text.LineRun) []span {
	v := c.model.Visual
	glyphs := v.Glyphs()
	positions := v.GlyphPositions()
	g2c := v.GlyphsToCharacters()
	cpg := v.CharactersPerGlyph()
	advances := c.pipeline.Engine().Advances()
	if len(positions) < len(glyphs) || len(advances) < len(glyphs) {
		return nil
	}

	var out []span
	end := line.Glyphs.End()
	for g := line.Glyphs.GlyphIndex; g < end; {
		n := glyphmetrics.GetNumberOfGlyphsOfGroup(g, end, cpg)
		s := span{
			first: g2c[g],
			count: max(1, cpg[g]),
			left:  math.Inf(1),
			right: math.Inf(-1),
			rtl:   c.model.Logical.CharacterDirection(g2c[g]).IsRTL(),
		}
		for k := g; k < g+n; k++ {
			x := positions[k].X - glyphs[k].XOffset
			s.left = min(s.left, x)
			s.right = max(s.right, x+advances[k])
		}
		out = append(out, s)
		g += n
	}
	return out
}

// origin is the position of the laid out text in the control.
func (c *Controller) origin() text.Vector2 {
	m := c.model
	return text.Vector2{
		X: m.ScrollPosition.X,
		Y: m.ScrollPosition.Y + layout.VerticalOffset(m.VerticalAlignment, m.Visual.LayoutSize.Height, c.size.Height),
	}
}

// lineEnd returns the end of the characters of a line without the
// paragraph separator ending it.
func (c *Controller) lineEnd(line text.LineRun) int {
	chars := c.chars()
	start, end := line.Characters.CharacterIndex, min(line.Characters.End(), len(chars))
	if end > start && text.IsNewParagraph(chars[end-1]) {
		end--
		if end > start && chars[end] == text.CharLineFeed && chars[end-1] == text.CharCarriageReturn {
			end--
		}
	}
	return end
}

func (c *Controller) endsParagraph(line text.LineRun) bool {
	return c.lineEnd(line) < line.Characters.End()
}

// lineAt returns the line under y, in layout coordinates. Positions above
// or below the text map to the first or last line.
func (c *Controller) lineAt(y float64) int {
	lines := c.model.Visual.Lines()
	top := 0.0
	for i, l := range lines {
		top += l.Height() + c.model.LineSpacing
		if y < top {
			return i
		}
	}
	return len(lines) - 1
}

// cursorIndexAt returns the cursor position closest to p, in control
// coordinates.
func (c *Controller) cursorIndexAt(p text.Vector2) int {
	if c.placeholderShown || c.model.Visual.NumberOfLines() == 0 {
		return 0
	}
	o := c.origin()
	return c.indexOnLine(c.lineAt(p.Y-o.Y), p.X-o.X)
}

// indexOnLine returns the cursor position of a line closest to x, in
// layout coordinates.
func (c *Controller) indexOnLine(li int, x float64) int {
	line := c.model.Visual.Lines()[li]
	x -= line.AlignmentOffset
	spans := c.spans(line)
	if len(spans) == 0 {
		return line.Characters.CharacterIndex
	}

	best, bestDist := 0, math.Inf(1)
	for i, s := range spans {
		var d float64
		switch {
		case x < s.left:
			d = s.left - x
		case x > s.right:
			d = x - s.right
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	s := spans[best]
	frac := 0.0
	if w := s.width(); w > 0 {
		frac = max(0, min(1, (x-s.left)/w))
	}
	if s.rtl {
		frac = 1 - frac
	}
	index := s.first + int(math.Round(frac*float64(s.count)))
	return c.snap(min(index, c.lineEnd(line)))
}

// characterAt returns the character under p, in control coordinates.
func (c *Controller) characterAt(p text.Vector2) (int, bool) {
	lines := c.model.Visual.Lines()
	if len(lines) == 0 {
		return 0, false
	}
	o := c.origin()
	y := p.Y - o.Y
	if y < 0 || y >= c.model.Visual.LayoutSize.Height {
		return 0, false
	}
	line := lines[c.lineAt(y)]
	x := p.X - o.X - line.AlignmentOffset
	for _, s := range c.spans(line) {
		if x < s.left || x >= s.right {
			continue
		}
		frac := (x - s.left) / s.width()
		if s.rtl {
			frac = 1 - frac
		}
		return s.first + min(s.count-1, int(frac*float64(s.count))), true
	}
	return 0, false
}

// lineOfCursor returns the line showing the cursor at index. A cursor at
// the end of a wrapped line is shown at the start of the next one.
func (c *Controller) lineOfCursor(index int) int {
	lines := c.model.Visual.Lines()
	for i, l := range lines {
		end := c.lineEnd(l)
		if index < end || (index == end && (c.endsParagraph(l) || i == len(lines)-1)) {
			return i
		}
	}
	return len(lines) - 1
}

// CursorInfo returns the placement of the cursor at index, clamped to the
// text, in control coordinates.
func (c *Controller) CursorInfo(index int) CursorInfo {
	index = max(0, min(index, len(c.chars())))
	o := c.origin()
	lines := c.model.Visual.Lines()
	if len(lines) == 0 {
		return CursorInfo{X: o.X + c.emptyCursorX(), Y: o.Y, Height: c.defaultLineHeight()}
	}
	li := c.lineOfCursor(index)
	line := lines[li]
	top := layout.Baselines(lines, c.model.LineSpacing)[li] - line.Ascender
	return CursorInfo{
		X:      o.X + line.AlignmentOffset + c.cursorX(line, index),
		Y:      o.Y + top,
		Height: line.Height(),
		Line:   li,
	}
}

// cursorX returns the x of the cursor at index on line, in layout
// coordinates without the alignment offset.
func (c *Controller) cursorX(line text.LineRun, index int) float64 {
	spans := c.spans(line)
	for _, s := range spans {
		if index >= s.first && index < s.first+s.count {
			frac := float64(index-s.first) / float64(s.count)
			if s.rtl {
				return s.right - frac*s.width()
			}
			return s.left + frac*s.width()
		}
	}
	for _, s := range spans {
		if index-1 >= s.first && index-1 < s.first+s.count {
			if s.rtl {
				return s.left
			}
			return s.right
		}
	}
	return 0
}

func (c *Controller) emptyCursorX() float64 {
	switch c.model.HorizontalAlignment {
	case text.AlignCenter:
		return c.size.Width / 2
	case text.AlignEnd:
		return c.size.Width
	}
	return 0
}

// defaultLineHeight is the height of a line in the default font.
func (c *Controller) defaultLineHeight() float64 {
	id, err := c.fonts.FontID(c.model.Font, c.model.PointSize)
	if err != nil {
		return c.model.PointSize
	}
	m := c.fonts.FontMetrics(id)
	return m.Ascender - m.Descender
}

// SelectionBoxes returns the highlight rectangles of the character range
// [start, end), one per line and visual run, in control coordinates.
func (c *Controller) SelectionBoxes(start, end int) []Rect {
	lines := c.model.Visual.Lines()
	if start >= end || len(lines) == 0 || c.placeholderShown {
		return nil
	}
	o := c.origin()
	baselines := layout.Baselines(lines, c.model.LineSpacing)

	var boxes []Rect
	var xs [][2]float64
	for li, line := range lines {
		if line.Characters.End() <= start || line.Characters.CharacterIndex >= end {
			continue
		}
		xs = xs[:0]
		for _, s := range c.spans(line) {
			lo, hi := max(s.first, start), min(s.first+s.count, end)
			if lo >= hi {
				continue
			}
			f0 := float64(lo-s.first) / float64(s.count)
			f1 := float64(hi-s.first) / float64(s.count)
			l, r := s.left+f0*s.width(), s.left+f1*s.width()
			if s.rtl {
				l, r = s.right-f1*s.width(), s.right-f0*s.width()
			}
			xs = append(xs, [2]float64{l, r})
		}
		slices.SortFunc(xs, func(a, b [2]float64) int { return cmp.Compare(a[0], b[0]) })

		top := o.Y + baselines[li] - line.Ascender
		x0 := o.X + line.AlignmentOffset
		for i := 0; i < len(xs); {
			l, r := xs[i][0], xs[i][1]
			j := i + 1
			for ; j < len(xs) && xs[j][0] <= r+0.5; j++ {
				r = max(r, xs[j][1])
			}
			boxes = append(boxes, Rect{X: x0 + l, Y: top, Width: r - l, Height: line.Height()})
			i = j
		}
	}
	return boxes
}
