package typesetter

import (
	"image"
	"math"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/textkit/cache"
	"github.com/gogpu/textkit/text"
	"github.com/gogpu/textkit/text/glyphmetrics"
)

type maskKey struct {
	font   text.FontID
	glyph  text.GlyphID
	italic bool
	bold   bool
}

func hashMaskKey(k maskKey) uint64 {
	h := cache.Uint64Hasher(uint64(k.font)<<32 | uint64(k.glyph))
	var flags uint64
	if k.italic {
		flags |= 1
	}
	if k.bold {
		flags |= 2
	}
	return cache.Mix(h, flags)
}

// glyphMask is a rasterized glyph. origin is the offset of the top-left
// corner of the mask from the glyph origin on the baseline.
type glyphMask struct {
	mask   *image.Alpha
	origin image.Point
}

// mask returns the cached mask of a glyph, rasterizing it on a miss. It
// returns nil for glyphs without outline.
func (t *Typesetter) mask(g text.GlyphInfo) *glyphMask {
	key := maskKey{
		font:   g.FontID,
		glyph:  g.Index,
		italic: g.IsItalicRequired && !t.fonts.HasItalicStyle(g.FontID),
		bold:   g.IsBoldRequired && !t.isBold(g.FontID),
	}
	return t.masks.GetOrCreate(key, func() *glyphMask {
		return t.rasterize(key)
	})
}

func (t *Typesetter) isBold(id text.FontID) bool {
	src, ok := t.fonts.Source(id)
	return ok && src.Weight() >= text.WeightBold
}

func (t *Typesetter) rasterize(key maskKey) *glyphMask {
	src, ok := t.fonts.Source(key.font)
	if !ok {
		return nil
	}
	buf := t.bufPool.Get().(*sfnt.Buffer)
	defer t.bufPool.Put(buf)

	ppem := fixed.Int26_6(t.fonts.PixelSize(key.font) * 64)
	segments, err := src.SFNT().LoadGlyph(buf, sfnt.GlyphIndex(key.glyph), ppem, nil)
	if err != nil || len(segments) == 0 {
		return nil
	}

	// Y grows down; synthetic italics shear points above the baseline to
	// the right.
	shear := 0.0
	if key.italic {
		shear = math.Tan(glyphmetrics.ItalicAngle)
	}
	point := func(p fixed.Point26_6) (float32, float32) {
		x := float64(p.X) / 64
		y := float64(p.Y) / 64
		return float32(x - y*shear), float32(y)
	}

	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxY := float32(-math.MaxFloat32), float32(-math.MaxFloat32)
	for _, s := range segments {
		n := 1
		switch s.Op {
		case sfnt.SegmentOpQuadTo:
			n = 2
		case sfnt.SegmentOpCubeTo:
			n = 3
		}
		for _, p := range s.Args[:n] {
			x, y := point(p)
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	x0 := int(math.Floor(float64(minX)))
	y0 := int(math.Floor(float64(minY)))
	w := int(math.Ceil(float64(maxX))) - x0
	h := int(math.Ceil(float64(maxY))) - y0
	if w <= 0 || h <= 0 {
		return nil
	}

	z := vector.NewRasterizer(w, h)
	at := func(p fixed.Point26_6) (float32, float32) {
		x, y := point(p)
		return x - float32(x0), y - float32(y0)
	}
	started := false
	for _, s := range segments {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if started {
				z.ClosePath()
			}
			z.MoveTo(at(s.Args[0]))
			started = true
		case sfnt.SegmentOpLineTo:
			z.LineTo(at(s.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := at(s.Args[0])
			cx, cy := at(s.Args[1])
			z.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := at(s.Args[0])
			cx, cy := at(s.Args[1])
			dx, dy := at(s.Args[2])
			z.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	if started {
		z.ClosePath()
	}
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	if key.bold {
		mask = embolden(mask, max(1, int(math.Round(float64(ppem)/64/24))))
	}
	return &glyphMask{mask: mask, origin: image.Point{X: x0, Y: y0}}
}

// embolden widens a mask by strength pixels to the right.
func embolden(src *image.Alpha, strength int) *image.Alpha {
	b := src.Bounds()
	dst := image.NewAlpha(image.Rect(0, 0, b.Dx()+strength, b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < dst.Rect.Dx(); x++ {
			var a uint8
			for k := 0; k <= strength; k++ {
				if sx := x - k; sx >= 0 && sx < b.Dx() {
					a = max(a, src.AlphaAt(sx, y).A)
				}
			}
			dst.Pix[y*dst.Stride+x] = a
		}
	}
	return dst
}
