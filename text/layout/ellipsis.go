package layout

import (
	"github.com/gogpu/textkit/text"
	"github.com/gogpu/textkit/text/glyphmetrics"
	"github.com/gogpu/textkit/text/model"
)

// elide replaces the end of the last visible line with an ellipsis when
// the text overflows box: horizontally for single-line text, vertically
// for multi-line text. Lines below the last visible one are dropped.
func (e *Engine) elide(m *model.Model, box text.Size) {
	v := m.Visual
	lines := v.Lines()
	index := -1
	if kindOf(m).wraps {
		visible := visibleLines(lines, m.LineSpacing, box.Height)
		if hasGlyphs(lines[visible:]) {
			index = visible - 1
		} else if lines[visible-1].Width > box.Width {
			index = visible - 1
		}
		lines = lines[:visible]
	} else if lines[0].Width > box.Width {
		index = 0
	}
	v.SetLines(lines)
	if index < 0 {
		return
	}

	line := &lines[index]
	ellipsis, ok := e.ellipsisGlyph(v.Glyphs(), *line)
	if !ok {
		return
	}

	chars := m.Logical.Text()
	g2c := v.GlyphsToCharacters()
	cpg := v.CharactersPerGlyph()
	start, end := line.Glyphs.GlyphIndex, line.Glyphs.End()
	room := box.Width - ellipsis.Advance

	pen := 0.0
	kept := start
	for g := start; g < end; {
		n := glyphmetrics.GetNumberOfGlyphsOfGroup(g, end, cpg)
		adv := 0.0
		for _, a := range e.advances[g : g+n] {
			adv += a
		}
		if pen+adv > room {
			break
		}
		pen += adv
		g += n
		kept = g
	}
	for kept > start && text.IsWhiteSpace(chars[g2c[kept-1]]) {
		kept--
		pen -= e.advances[kept]
	}

	charEnd := line.Characters.End()
	if kept < end {
		charEnd = g2c[kept]
	}
	line.Glyphs.NumberOfGlyphs = kept - start
	line.Characters.NumberOfCharacters = charEnd - line.Characters.CharacterIndex
	line.Width = pen + ellipsis.Advance
	line.Extra = 0
	line.Ellipsis = true

	v.Ellipsis = &model.Ellipsis{
		Line:     index,
		Glyph:    ellipsis,
		Position: text.Vector2{X: pen, Y: Baselines(lines, m.LineSpacing)[index]},
	}
}

// visibleLines returns how many lines fit height, at least one.
func visibleLines(lines []text.LineRun, lineSpacing, height float64) int {
	bottom := 0.0
	visible := 0
	for i, l := range lines {
		if i > 0 {
			bottom += lineSpacing
		}
		bottom += l.Height()
		if bottom > height {
			break
		}
		visible = i + 1
	}
	return max(visible, 1)
}

func hasGlyphs(lines []text.LineRun) bool {
	for _, l := range lines {
		if l.Glyphs.NumberOfGlyphs > 0 {
			return true
		}
	}
	return false
}

// ellipsisGlyph returns the ellipsis in the font of the last glyph of the
// line drawn with a font.
func (e *Engine) ellipsisGlyph(glyphs []text.GlyphInfo, line text.LineRun) (text.GlyphInfo, bool) {
	for g := line.Glyphs.End() - 1; g >= line.Glyphs.GlyphIndex; g-- {
		id := glyphs[g].FontID
		if id == 0 {
			continue
		}
		info := []text.GlyphInfo{{
			FontID:      id,
			Index:       e.fonts.GlyphIndex(id, text.CharEllipsis),
			ScaleFactor: 1,
		}}
		if info[0].Index == 0 || !e.fonts.GlyphMetrics(info) {
			return text.GlyphInfo{}, false
		}
		return info[0], true
	}
	return text.GlyphInfo{}, false
}
