package layout

import (
	"strings"

	"github.com/gogpu/textkit"
	"github.com/gogpu/textkit/text"
	"github.com/gogpu/textkit/text/model"
	"github.com/gogpu/textkit/text/multilang"
	"github.com/gogpu/textkit/text/segmentation"
	"github.com/gogpu/textkit/text/shaper"
)

// Operations is the set of pipeline stages a relayout runs.
type Operations uint32

// Pipeline stages, in the order they run.
const (
	// ConvertToUTF32 is consumed by the owner of the UTF-8 input; the
	// pipeline works on the UTF-32 text of the logical model.
	ConvertToUTF32 Operations = 1 << iota
	GetScripts
	ValidateFonts
	GetLineBreaks
	GetWordBreaks
	BidiInfo
	ShapeText
	GetGlyphMetrics
	Layout
	UpdateActualSize
	UpdatePositions
	Reorder
	Align
	// Render is consumed by the owner of the typesetter.
	Render
)

const (
	NoOperation   Operations = 0
	AllOperations            = Render<<1 - 1

	// LayoutOperations is what a new box size needs.
	LayoutOperations = Layout | UpdateActualSize | UpdatePositions | Reorder | Align | Render
	// TextOperations is what a text change needs.
	TextOperations = AllOperations
	// StyleOperations is what a font change needs.
	StyleOperations = ValidateFonts | ShapeText | GetGlyphMetrics | LayoutOperations
)

var operationNames = [...]string{
	"ConvertToUTF32", "GetScripts", "ValidateFonts", "GetLineBreaks",
	"GetWordBreaks", "BidiInfo", "ShapeText", "GetGlyphMetrics", "Layout",
	"UpdateActualSize", "UpdatePositions", "Reorder", "Align", "Render",
}

// String lists the stages of ops.
func (ops Operations) String() string {
	if ops == NoOperation {
		return "NoOperation"
	}
	var b strings.Builder
	for i, name := range operationNames {
		if ops&(1<<i) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('|')
		}
		b.WriteString(name)
	}
	return b.String()
}

// Has reports whether ops contains every stage of o.
func (ops Operations) Has(o Operations) bool {
	return ops&o == o && o != NoOperation
}

// PipelineFontClient is the font capability of the whole pipeline.
// *fontclient.Client implements it.
type PipelineFontClient interface {
	multilang.FontClient
	shaper.FontSource
	FontClient
}

// Edit describes a text change for the partial script and font updates:
// removed characters at Index were replaced by inserted ones.
type Edit struct {
	Index    int
	Removed  int
	Inserted int
}

// Pipeline runs the layout stages over a model.
// A Pipeline is not safe for concurrent use.
type Pipeline struct {
	fonts     PipelineFontClient
	multilang *multilang.Support
	shaper    *shaper.Shaper
	engine    *Engine
}

// NewPipeline creates a Pipeline using fonts.
func NewPipeline(fonts PipelineFontClient, opts ...shaper.Option) *Pipeline {
	return &Pipeline{
		fonts:     fonts,
		multilang: multilang.New(fonts),
		shaper:    shaper.New(fonts, opts...),
		engine:    NewEngine(fonts),
	}
}

// Engine returns the layout engine of the pipeline.
func (p *Pipeline) Engine() *Engine { return p.engine }

// Shaper returns the shaper of the pipeline.
func (p *Pipeline) Shaper() *shaper.Shaper { return p.shaper }

// ClearCaches drops cached fallback fonts and shaped runs.
func (p *Pipeline) ClearCaches() {
	p.multilang.ClearCache()
	p.shaper.ClearCache()
}

// Relayout runs the stages of ops over m for a box of the given size. When
// edit is not nil scripts and fonts are only recomputed around it. It
// reports whether the visual model changed.
func (p *Pipeline) Relayout(m *model.Model, box text.Size, ops Operations, edit *Edit) bool {
	textkit.Logger().Debug("layout: relayout",
		"operations", ops.String(),
		"characters", m.NumberOfCharacters(),
		"width", box.Width, "height", box.Height)

	logical := m.Logical
	chars := logical.Text()
	updated := false

	if ops&GetScripts != 0 {
		if edit != nil && len(logical.Scripts()) > 0 {
			logical.SetScripts(p.multilang.ReplaceScripts(chars, logical.Scripts(), edit.Index, edit.Removed, edit.Inserted))
		} else {
			logical.SetScripts(p.multilang.SetScripts(chars))
		}
	}
	if ops&ValidateFonts != 0 {
		defaults := multilang.FontDefaults{Description: m.Font, PointSize: m.PointSize}
		descriptions := logical.FontDescriptionRuns()
		if edit != nil && len(logical.Fonts()) > 0 {
			logical.SetFonts(p.multilang.ReplaceFonts(chars, logical.Scripts(), descriptions, defaults, logical.Fonts(), edit.Index, edit.Removed, edit.Inserted))
		} else {
			logical.SetFonts(p.multilang.ValidateFonts(chars, logical.Scripts(), descriptions, defaults, nil))
		}
	}
	if ops&GetLineBreaks != 0 {
		logical.SetLineBreakInfo(segmentation.LineBreakInfo(chars))
	}
	if ops&GetWordBreaks != 0 {
		logical.SetWordBreakInfo(segmentation.WordBreakInfo(chars))
	}
	if ops&BidiInfo != 0 {
		logical.SetBidirectionalInfo(SetBidirectionalInfo(chars, m.BaseDirection))
	}
	if ops&ShapeText != 0 {
		res := p.shaper.Shape(chars, logical.Scripts(), logical.Fonts(), logical.CharacterDirections())
		m.Visual.SetGlyphs(res.Glyphs, res.GlyphsToCharacters, res.CharactersPerGlyph, len(chars))
		updated = true
	}
	if ops&GetGlyphMetrics != 0 {
		p.glyphMetrics(m.Visual.Glyphs())
	}
	if ops&Layout != 0 {
		p.engine.LayoutText(m, box)
		updated = true
	}
	if ops&UpdateActualSize != 0 {
		updateActualSize(m)
	}
	if ops&UpdatePositions != 0 {
		ClampScroll(m, box)
	}
	if ops&Reorder != 0 {
		p.engine.ReorderLines(m)
		updated = true
	}
	if ops&Align != 0 {
		alignLines(m, box.Width)
		updated = true
	}
	return updated
}

// glyphMetrics fills in the glyph metrics but keeps the shaped advances,
// which hold kerning.
func (p *Pipeline) glyphMetrics(glyphs []text.GlyphInfo) {
	advances := make([]float64, len(glyphs))
	for i, g := range glyphs {
		advances[i] = g.Advance
	}
	p.fonts.GlyphMetrics(glyphs)
	for i := range glyphs {
		if glyphs[i].FontID != 0 {
			glyphs[i].Advance = advances[i]
		}
	}
}

// NaturalSize lays out m without a width constraint and returns the size
// of the text. The visual model is left laid out for the natural size.
func (p *Pipeline) NaturalSize(m *model.Model) text.Size {
	elide := m.ElideEnabled
	m.ElideEnabled = false
	box := text.Size{Width: unbounded, Height: unbounded}
	p.engine.LayoutText(m, box)
	updateActualSize(m)
	m.ElideEnabled = elide
	m.Visual.NaturalSize = m.Visual.LayoutSize
	return m.Visual.NaturalSize
}

// HeightForWidth lays out m in a box of the given width and unbounded
// height and returns the height of the text.
func (p *Pipeline) HeightForWidth(m *model.Model, width float64) float64 {
	elide := m.ElideEnabled
	m.ElideEnabled = false
	p.engine.LayoutText(m, text.Size{Width: width, Height: unbounded})
	updateActualSize(m)
	m.ElideEnabled = elide
	return m.Visual.LayoutSize.Height
}

// unbounded is the extent of a box without constraint.
const unbounded = 1 << 30
