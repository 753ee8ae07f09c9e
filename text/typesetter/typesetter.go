// Package typesetter rasterizes laid out text into pixel buffers.
//
// Glyph outlines come from golang.org/x/image/font/sfnt and are filled with
// the anti-aliasing rasterizer of golang.org/x/image/vector. Rasterized
// glyphs are kept in a sharded LRU cache keyed by font, glyph and synthetic
// style, so a Typesetter should be reused across renders.
package typesetter

import (
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font/sfnt"

	"github.com/gogpu/textkit/cache"
	"github.com/gogpu/textkit/text"
	"github.com/gogpu/textkit/text/fontclient"
	"github.com/gogpu/textkit/text/layout"
	"github.com/gogpu/textkit/text/model"
)

// Fonts is the font capability of the typesetter.
// *fontclient.Client implements it.
type Fonts interface {
	Source(id text.FontID) (*fontclient.Source, bool)
	PixelSize(id text.FontID) float64
	FontMetrics(id text.FontID) text.FontMetrics
	HasItalicStyle(id text.FontID) bool
}

// Typesetter renders models. It is safe for concurrent use.
type Typesetter struct {
	fonts      Fonts
	background color.NRGBA
	masks      *cache.ShardedCache[maskKey, *glyphMask]
	bufPool    sync.Pool
}

// Option configures a Typesetter.
type Option func(*Typesetter)

// WithBackground sets the color the buffer is cleared with. The default is
// transparent.
func WithBackground(c color.NRGBA) Option {
	return func(t *Typesetter) { t.background = c }
}

// WithGlyphCacheCapacity sets the number of glyph masks cached per shard.
func WithGlyphCacheCapacity(n int) Option {
	return func(t *Typesetter) {
		t.masks = cache.NewSharded[maskKey, *glyphMask](n, hashMaskKey)
	}
}

// New creates a Typesetter drawing glyphs of fonts.
func New(fonts Fonts, opts ...Option) *Typesetter {
	t := &Typesetter{
		fonts: fonts,
		masks: cache.NewSharded[maskKey, *glyphMask](cache.DefaultCapacity, hashMaskKey),
		bufPool: sync.Pool{
			New: func() any { return &sfnt.Buffer{} },
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ClearCache drops the cached glyph masks.
func (t *Typesetter) ClearCache() {
	t.masks.Clear()
}

// CacheStats returns the statistics of the glyph mask cache.
func (t *Typesetter) CacheStats() cache.Stats {
	return t.masks.Stats()
}

// Render draws the laid out text of m into a new buffer of the given size.
// Lines are placed with their alignment offsets, the block with the
// vertical alignment of m, and everything is moved by the scroll position.
func (t *Typesetter) Render(m *model.Model, size image.Point) *image.NRGBA {
	dst := image.NewNRGBA(image.Rectangle{Max: size})
	if t.background != (color.NRGBA{}) {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(t.background), image.Point{}, draw.Src)
	}
	t.Draw(dst, m)
	return dst
}

// Draw draws the laid out text of m over dst.
func (t *Typesetter) Draw(dst draw.Image, m *model.Model) {
	v := m.Visual
	lines := v.Lines()
	if len(lines) == 0 {
		return
	}
	box := dst.Bounds()
	origin := text.Vector2{
		X: float64(box.Min.X) + m.ScrollPosition.X,
		Y: float64(box.Min.Y) + m.ScrollPosition.Y +
			layout.VerticalOffset(m.VerticalAlignment, v.LayoutSize.Height, float64(box.Dy())),
	}

	glyphs := v.Glyphs()
	positions := v.GlyphPositions()
	g2c := v.GlyphsToCharacters()
	colors := newColorLookup(m)
	baselines := layout.Baselines(lines, m.LineSpacing)

	for i, line := range lines {
		lineOrigin := origin
		lineOrigin.X += line.AlignmentOffset
		for g := line.Glyphs.GlyphIndex; g < line.Glyphs.End(); g++ {
			glyph := glyphs[g]
			if glyph.FontID == 0 {
				continue
			}
			t.drawGlyph(dst, glyph, positions[g].Add(lineOrigin), colors.at(g2c[g]))
		}
		if e := v.Ellipsis; e != nil && e.Line == i {
			c := m.TextColor
			if end := line.Characters.End(); end > 0 {
				c = colors.at(end - 1)
			}
			t.drawGlyph(dst, e.Glyph, e.Position.Add(lineOrigin), c)
		}
		t.drawUnderlines(dst, m, line, baselines[i], lineOrigin, colors)
	}
}

func (t *Typesetter) drawGlyph(dst draw.Image, g text.GlyphInfo, pos text.Vector2, c color.NRGBA) {
	gm := t.mask(g)
	if gm == nil {
		return
	}
	x := int(math.Round(pos.X)) + gm.origin.X
	y := int(math.Round(pos.Y)) + gm.origin.Y
	r := gm.mask.Bounds().Add(image.Point{X: x, Y: y})
	draw.DrawMask(dst, r, image.NewUniform(c), image.Point{}, gm.mask, image.Point{}, draw.Over)
}

// colorLookup resolves the color of characters. Later runs override
// earlier ones.
type colorLookup struct {
	def  color.NRGBA
	runs []text.ColorRun
}

func newColorLookup(m *model.Model) colorLookup {
	return colorLookup{def: m.TextColor, runs: m.Logical.ColorRuns()}
}

func (l colorLookup) at(index int) color.NRGBA {
	c := l.def
	for _, r := range l.runs {
		if r.Contains(index) {
			c = r.Color
		}
	}
	return c
}
