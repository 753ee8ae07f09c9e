package layout

import (
	"github.com/gogpu/textkit/text"
	"github.com/gogpu/textkit/text/glyphmetrics"
	"github.com/gogpu/textkit/text/model"
)

// FontClient is the font capability the engine needs to size clusters and
// to create the ellipsis glyph. *fontclient.Client implements it.
type FontClient interface {
	glyphmetrics.Metrics
	GlyphIndex(id text.FontID, r rune) text.GlyphID
	GlyphMetrics(glyphs []text.GlyphInfo) bool
}

// Engine breaks shaped glyphs into lines and positions them.
//
// Positions are glyph origins on the baseline, relative to the top-left
// corner of the laid out text, with Y growing down. They do not include
// the line alignment offset, which is stored per line so alignment can
// change without a new layout.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	fonts FontClient

	// advances holds the effective advance of every glyph of the last
	// layout: character spacing applied, leading white space of wrapped
	// lines collapsed. Reordering places glyphs with it.
	advances []float64
}

// NewEngine returns an Engine using fonts for metrics.
func NewEngine(fonts FontClient) *Engine {
	return &Engine{fonts: fonts}
}

// Advances returns the effective glyph advances of the last layout. The
// slice is owned by the engine.
func (e *Engine) Advances() []float64 { return e.advances }

// cluster is a glyph group with the characters it was shaped from.
type cluster struct {
	glyph, glyphs int
	first, last   int
	metrics       glyphmetrics.GlyphMetrics
	// advance includes character spacing.
	advance    float64
	whiteSpace bool
}

// lineLayout is the state of one LayoutText call.
type lineLayout struct {
	m        *model.Model
	chars    []text.Character
	glyphs   []text.GlyphInfo
	breaks   []text.LineBreakInfo
	clusters []cluster
	width    float64
	wrap     bool
	wrapMode text.WrapMode
}

// LayoutText breaks the glyphs of m into lines fitting box and computes the
// glyph positions. It reports whether there was anything to lay out.
//
// In multi-line mode lines are broken greedily at the last break
// opportunity before the box width, or at any cluster with
// text.WrapCharacter. A cluster wider than the box is still placed,
// overflowing its line. Single-line mode never wraps.
func (e *Engine) LayoutText(m *model.Model, box text.Size) bool {
	v := m.Visual
	v.ControlSize = box
	v.Ellipsis = nil
	glyphs := v.Glyphs()
	if len(glyphs) == 0 {
		v.SetGlyphPositions(nil)
		v.SetLines(nil)
		e.advances = e.advances[:0]
		return false
	}

	l := &lineLayout{
		m:        m,
		chars:    m.Logical.Text(),
		glyphs:   glyphs,
		breaks:   m.Logical.LineBreakInfo(),
		width:    box.Width,
		wrapMode: m.WrapMode,
	}
	l.wrap = kindOf(m).wraps
	l.clusters = e.clusters(l)

	e.advances = resize(e.advances, len(glyphs))
	positions := make([]text.Vector2, len(glyphs))
	var lines []text.LineRun

	top := 0.0
	for start := 0; start < len(l.clusters); {
		end := l.nextLine(start)
		line := e.buildLine(l, start, end)
		e.place(l, line, top+line.Ascender, positions)
		lines = append(lines, line)
		top += line.Height() + m.LineSpacing
		start = end
	}
	if n := len(l.chars); l.wrap && n > 0 && text.IsNewParagraph(l.chars[n-1]) {
		lines = append(lines, l.emptyLine(lines[len(lines)-1]))
	}

	v.SetGlyphPositions(positions)
	v.SetLines(lines)
	if m.ElideEnabled {
		e.elide(m, box)
	}
	return true
}

func resize(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	s = s[:n]
	clear(s)
	return s
}

func (e *Engine) clusters(l *lineLayout) []cluster {
	v := l.m.Visual
	g2c := v.GlyphsToCharacters()
	cpg := v.CharactersPerGlyph()
	n := len(l.glyphs)
	out := make([]cluster, 0, n)
	for g := 0; g < n; {
		count := glyphmetrics.GetNumberOfGlyphsOfGroup(g, n, cpg)
		first := g2c[g]
		last := first + max(cpg[g], 1) - 1
		last = min(last, len(l.chars)-1)
		gm := glyphmetrics.GetGlyphsMetrics(g, count, l.glyphs, e.fonts)
		c := cluster{
			glyph:      g,
			glyphs:     count,
			first:      first,
			last:       last,
			metrics:    gm,
			whiteSpace: text.IsWhiteSpace(l.chars[first]),
		}
		spacing := l.m.Logical.CharacterSpacing(first, l.m.CharacterSpacing)
		c.advance = glyphmetrics.GetCalculatedAdvance(l.chars[first], spacing, gm.Advance)
		out = append(out, c)
		g += count
	}
	return out
}

// startsParagraph reports whether the line starting at cluster i is the
// first line of its paragraph.
func (l *lineLayout) startsParagraph(i int) bool {
	first := l.clusters[i].first
	return first == 0 || text.IsNewParagraph(l.chars[first-1])
}

// collapsed reports whether cluster i is white space leading a wrapped
// line. Such clusters take no width.
func (l *lineLayout) collapsed(start, i int) bool {
	if l.startsParagraph(start) {
		return false
	}
	for k := start; k <= i; k++ {
		c := l.clusters[k]
		if !c.whiteSpace || text.IsNewParagraph(l.chars[c.last]) {
			return false
		}
	}
	return true
}

// nextLine returns the cluster ending the line that starts at start.
func (l *lineLayout) nextLine(start int) int {
	if !l.wrap {
		return len(l.clusters)
	}
	pen := 0.0
	breakAt := -1
	content := false
	for i := start; i < len(l.clusters); i++ {
		c := l.clusters[i]
		if l.collapsed(start, i) {
			continue
		}
		if content && !c.whiteSpace && pen+c.advance > l.width {
			if breakAt >= start {
				return breakAt + 1
			}
			return i
		}
		pen += c.advance
		content = true
		info := text.LineNoBreak
		if c.last < len(l.breaks) {
			info = l.breaks[c.last]
		}
		if info == text.LineMustBreak && text.IsNewParagraph(l.chars[c.last]) {
			return i + 1
		}
		if l.wrapMode == text.WrapCharacter || info != text.LineNoBreak {
			breakAt = i
		}
	}
	return len(l.clusters)
}

// buildLine measures the clusters [start, end) and records the effective
// glyph advances.
func (e *Engine) buildLine(l *lineLayout, start, end int) text.LineRun {
	first, last := l.clusters[start], l.clusters[end-1]
	line := text.LineRun{
		Glyphs: text.GlyphRun{
			GlyphIndex:     first.glyph,
			NumberOfGlyphs: last.glyph + last.glyphs - first.glyph,
		},
		Characters: text.CharacterRun{
			CharacterIndex:     first.first,
			NumberOfCharacters: last.last + 1 - first.first,
		},
		Direction: paragraphDirectionAt(l.m.Logical.BidirectionalParagraphs(), first.first),
	}

	lastContent := end - 1
	for lastContent >= start && l.clusters[lastContent].whiteSpace {
		lastContent--
	}

	for i := start; i < end; i++ {
		c := l.clusters[i]
		line.Ascender = max(line.Ascender, c.metrics.Ascender)
		line.Descender = min(line.Descender, c.metrics.Descender)

		adv := c.advance
		collapsed := l.collapsed(start, i)
		if collapsed {
			adv = 0
		}
		spent := 0.0
		for g := c.glyph; g < c.glyph+c.glyphs; g++ {
			a := l.glyphs[g].Advance
			if collapsed {
				a = 0
			}
			e.advances[g] = a
			spent += a
		}
		e.advances[c.glyph+c.glyphs-1] += adv - spent

		if i <= lastContent {
			line.Width += adv
		} else {
			line.Extra += adv
		}
	}
	return line
}

// place writes the logical positions of the glyphs of line.
func (e *Engine) place(l *lineLayout, line text.LineRun, baseline float64, positions []text.Vector2) {
	pen := 0.0
	for g := line.Glyphs.GlyphIndex; g < line.Glyphs.End(); g++ {
		positions[g] = text.Vector2{
			X: pen + l.glyphs[g].XOffset,
			Y: baseline - l.glyphs[g].YOffset,
		}
		pen += e.advances[g]
	}
}

// emptyLine is the line following a trailing paragraph separator. It has
// the height of the line before it.
func (l *lineLayout) emptyLine(prev text.LineRun) text.LineRun {
	return text.LineRun{
		Glyphs:     text.GlyphRun{GlyphIndex: len(l.glyphs)},
		Characters: text.CharacterRun{CharacterIndex: len(l.chars)},
		Ascender:   prev.Ascender,
		Descender:  prev.Descender,
		Direction:  prev.Direction,
	}
}

func paragraphDirectionAt(paragraphs []text.BidirectionalParagraphInfoRun, index int) text.Direction {
	if p := findParagraph(paragraphs, index); p != nil {
		return p.Direction
	}
	return text.DirectionLTR
}

func findParagraph(paragraphs []text.BidirectionalParagraphInfoRun, index int) *text.BidirectionalParagraphInfoRun {
	for i := range paragraphs {
		if paragraphs[i].Contains(index) {
			return &paragraphs[i]
		}
	}
	return nil
}

// Baselines returns the baseline of every line, from the top of the laid
// out text.
func Baselines(lines []text.LineRun, lineSpacing float64) []float64 {
	out := make([]float64, len(lines))
	top := 0.0
	for i, l := range lines {
		out[i] = top + l.Ascender
		top += l.Height() + lineSpacing
	}
	return out
}

// ActualSize returns the size of the laid out lines: the widest line by the
// total height.
func ActualSize(lines []text.LineRun, lineSpacing float64) text.Size {
	var s text.Size
	for i, l := range lines {
		s.Width = max(s.Width, l.Width)
		s.Height += l.Height()
		if i > 0 {
			s.Height += lineSpacing
		}
	}
	return s
}

// updateActualSize stores the size of the laid out text in the visual
// model.
func updateActualSize(m *model.Model) {
	m.Visual.LayoutSize = ActualSize(m.Visual.Lines(), m.LineSpacing)
}
