package layout

import (
	"github.com/gogpu/textkit/text"
	"github.com/gogpu/textkit/text/model"
)

// ReorderLines places the glyphs of every line holding right-to-left text
// in visual order. Lines of paragraphs without bidirectional information
// keep their logical positions.
func (e *Engine) ReorderLines(m *model.Model) {
	v := m.Visual
	paragraphs := m.Logical.BidirectionalParagraphs()
	if len(paragraphs) == 0 || len(e.advances) != v.NumberOfGlyphs() {
		return
	}
	chars := m.Logical.Text()
	glyphs := v.Glyphs()
	g2c := v.GlyphsToCharacters()
	positions := v.GlyphPositions()

	for i, line := range v.Lines() {
		if line.Glyphs.NumberOfGlyphs == 0 {
			continue
		}
		p := findParagraph(paragraphs, line.Characters.CharacterIndex)
		if p == nil {
			continue
		}
		paragraphLevel := uint8(0)
		if p.Direction.IsRTL() {
			paragraphLevel = 1
		}
		levelOf := func(g int) uint8 {
			c := g2c[g] - p.CharacterIndex
			if c < 0 || c >= len(p.Levels) {
				return paragraphLevel
			}
			return p.Levels[c]
		}
		isWhiteSpace := func(g int) bool {
			return text.IsWhiteSpace(chars[g2c[g]])
		}
		order := visualOrder(line.Glyphs.GlyphIndex, line.Glyphs.End(), levelOf, isWhiteSpace, paragraphLevel)

		pen := 0.0
		if line.Ellipsis && line.Direction.IsRTL() && v.Ellipsis != nil && v.Ellipsis.Line == i {
			v.Ellipsis.Position.X = 0
			pen = v.Ellipsis.Glyph.Advance
		}
		for _, g := range order {
			positions[g].X = pen + glyphs[g].XOffset
			pen += e.advances[g]
		}
	}
}
