// Package async renders text away from the thread that owns the controls.
//
// A Loader owns a private model, layout pipeline and typesetter. Every
// public method locks the loader for a whole set-up, layout and render
// sequence, so a Loader can be called from any goroutine, one task at a
// time. TaskManager runs loaders on a pool of workers and hands the
// results back through a queue the caller drains.
package async

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gogpu/textkit"
	"github.com/gogpu/textkit/text"
	"github.com/gogpu/textkit/text/layout"
	"github.com/gogpu/textkit/text/markup"
	"github.com/gogpu/textkit/text/model"
	"github.com/gogpu/textkit/text/typesetter"
)

// Errors reported in RenderInfo.Err.
var (
	// ErrInvalidPointSize is returned for a point size that is not positive.
	ErrInvalidPointSize = errors.New("async: point size must be positive")

	// ErrInvalidSize is returned for a box that cannot be rendered into.
	ErrInvalidSize = errors.New("async: invalid box size")
)

// Default fit and auto-scroll settings.
const (
	DefaultMinPointSize  = 10
	DefaultMaxPointSize  = 100
	DefaultPointSizeStep = 1
	DefaultAutoScrollGap = 50
)

// Fonts is what a Loader needs from the font registry.
// *fontclient.Client implements it.
type Fonts interface {
	layout.PipelineFontClient
	typesetter.Fonts
}

// Parameters describe one render request.
type Parameters struct {
	// Text is plain text, or markup when Markup is set.
	Text   string
	Markup bool

	// PointSize is the size the text is laid out at. Font.PointSize is
	// only used when PointSize is zero.
	Font      text.FontDescription
	PointSize float64
	TextColor color.NRGBA

	// Size is the box to render into. A zero width uses the natural width
	// of the text and a zero height the height the text needs.
	Size    text.Size
	// MinSize and MaxSize clamp the rendered size, {width, height}. Either
	// may be nil or shorter.
	MinSize []float64
	MaxSize []float64

	MultiLine           bool
	WrapMode            text.WrapMode
	HorizontalAlignment text.HorizontalAlignment
	VerticalAlignment   text.VerticalAlignment
	BaseDirection       text.Direction
	LineSpacing         float64
	CharacterSpacing    float64
	Ellipsis            bool

	UnderlineEnabled bool
	Underline        text.UnderlineStyleProperties

	// Fit settings. Zero values select the defaults.
	MinPointSize  float64
	MaxPointSize  float64
	PointSizeStep float64

	// AutoScrollGap is the space after the text before it repeats.
	AutoScrollGap float64
}

// RenderInfo is the outcome of a render.
type RenderInfo struct {
	Success bool
	Err     error

	Image      *image.NRGBA
	// Size is the size of Image and LayoutSize the size of the laid out
	// text.
	Size       text.Size
	LayoutSize text.Size
	LineCount  int
	// PointSize is the point size the text was rendered at.
	PointSize  float64
	// Fitted is false when RenderTextFit found no size that fits and fell
	// back to the minimum size with an ellipsis.
	Fitted     bool

	// AutoScrollGap and LoopWidth describe an auto-scroll render: the
	// image holds the text followed by the gap, and repeats every
	// LoopWidth pixels.
	AutoScrollGap float64
	LoopWidth     float64
}

func failed(err error) RenderInfo {
	return RenderInfo{Err: err}
}

// Loader renders text with its own pipeline. It is safe for concurrent
// use; calls are serialized.
type Loader struct {
	mu          sync.Mutex
	fonts       Fonts
	model       *model.Model
	pipeline    *layout.Pipeline
	typesetter  *typesetter.Typesetter
	clearNeeded atomic.Bool
}

// NewLoader creates a Loader drawing with fonts.
func NewLoader(fonts Fonts, opts ...typesetter.Option) *Loader {
	return &Loader{
		fonts:      fonts,
		model:      model.New(),
		pipeline:   layout.NewPipeline(fonts),
		typesetter: typesetter.New(fonts, opts...),
	}
}

// SetModuleClearNeeded marks the cached fonts and glyphs as stale. The
// next task clears them before it starts.
func (l *Loader) SetModuleClearNeeded(needed bool) {
	l.clearNeeded.Store(needed)
}

// IsModuleClearNeeded reports whether the next task clears the caches.
func (l *Loader) IsModuleClearNeeded() bool {
	return l.clearNeeded.Load()
}

// ClearModule drops the cached fonts, shaped runs and glyph masks and
// resets the model.
func (l *Loader) ClearModule() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clear()
}

func (l *Loader) clear() {
	l.pipeline.ClearCaches()
	l.typesetter.ClearCache()
	l.model = model.New()
	l.clearNeeded.Store(false)
	textkit.Logger().Info("async: module cleared")
}

// initialize loads p into the model and shapes the text. Layout is left
// to the caller.
func (l *Loader) initialize(p Parameters) error {
	if l.clearNeeded.Load() {
		l.clear()
	}
	if !(p.PointSize > 0) {
		p.PointSize = p.Font.PointSize
	}
	if !(p.PointSize > 0) {
		return ErrInvalidPointSize
	}
	if invalidExtent(p.Size.Width) || invalidExtent(p.Size.Height) {
		return fmt.Errorf("%w: %vx%v", ErrInvalidSize, p.Size.Width, p.Size.Height)
	}

	m := l.model
	m.Reset()
	m.Font = p.Font
	m.Font.PointSize = 0
	m.PointSize = p.PointSize
	m.TextColor = p.TextColor
	if m.TextColor == (color.NRGBA{}) {
		m.TextColor = color.NRGBA{A: 255}
	}
	m.MultiLine = p.MultiLine
	m.WrapMode = p.WrapMode
	m.HorizontalAlignment = p.HorizontalAlignment
	m.VerticalAlignment = p.VerticalAlignment
	m.BaseDirection = p.BaseDirection
	m.LineSpacing = p.LineSpacing
	m.CharacterSpacing = p.CharacterSpacing
	m.ElideEnabled = p.Ellipsis
	m.UnderlineEnabled = p.UnderlineEnabled
	m.Underline = p.Underline

	if p.Markup {
		res, err := markup.Parse(p.Text)
		if err != nil {
			textkit.Logger().Warn("async: markup parsed with errors",
				"diagnostics", len(res.Diagnostics))
		}
		res.Apply(m.Logical)
	} else {
		chars, ok := text.StringToUtf32(p.Text)
		if !ok {
			textkit.Logger().Warn("async: invalid UTF-8 replaced")
		}
		m.Logical.SetText(chars)
	}
	l.pipeline.Relayout(m, p.Size, shapeOperations, nil)
	return nil
}

// shapeOperations are the stages that do not depend on the box.
const shapeOperations = layout.AllOperations &^ layout.LayoutOperations

// layoutOperations lay out without rendering.
const layoutOperations = layout.LayoutOperations &^ layout.Render

func invalidExtent(v float64) bool {
	return v < 0 || math.IsNaN(v) || math.IsInf(v, 0)
}

// boxFor resolves the zero extents of size against the text and clamps the
// result to p's limits.
func (l *Loader) boxFor(p Parameters, size text.Size) text.Size {
	if size.Width <= 0 {
		size.Width = l.pipeline.NaturalSize(l.model).Width
	}
	if size.Height <= 0 {
		size.Height = l.pipeline.HeightForWidth(l.model, size.Width)
	}
	buf := []float64{size.Width, size.Height}
	text.ApplyMinMax(p.MinSize, p.MaxSize, 1, buf)
	return text.Size{Width: buf[0], Height: buf[1]}
}

// render lays out the model in box and draws it into an image of the
// box size.
func (l *Loader) render(box text.Size) RenderInfo {
	m := l.model
	l.pipeline.Relayout(m, box, layout.LayoutOperations, nil)
	size := image.Pt(int(math.Ceil(box.Width)), int(math.Ceil(box.Height)))
	return RenderInfo{
		Success:    true,
		Image:      l.typesetter.Render(m, size),
		Size:       text.Size{Width: float64(size.X), Height: float64(size.Y)},
		LayoutSize: m.Visual.LayoutSize,
		LineCount:  m.Visual.NumberOfLines(),
		PointSize:  m.PointSize,
		Fitted:     true,
	}
}

// RenderText lays out and renders p in one pass.
func (l *Loader) RenderText(p Parameters) RenderInfo {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.initialize(p); err != nil {
		return failed(err)
	}
	info := l.render(l.boxFor(p, p.Size))
	textkit.Logger().Debug("async: rendered",
		"characters", l.model.NumberOfCharacters(),
		"lines", info.LineCount, "width", info.Size.Width, "height", info.Size.Height)
	return info
}

// fitRange returns the candidate point sizes of p, smallest first.
func fitRange(p Parameters) []float64 {
	lo, hi, step := p.MinPointSize, p.MaxPointSize, p.PointSizeStep
	if lo <= 0 {
		lo = DefaultMinPointSize
	}
	if hi <= 0 {
		hi = DefaultMaxPointSize
	}
	if step <= 0 {
		step = DefaultPointSizeStep
	}
	hi = max(lo, hi)
	sizes := make([]float64, 0, int((hi-lo)/step)+1)
	for i := 0; ; i++ {
		s := lo + float64(i)*step
		if s > hi+1e-9 {
			break
		}
		sizes = append(sizes, s)
	}
	return sizes
}

// fits lays out the model at pointSize and reports whether the text stays
// inside box. Nothing is drawn.
func (l *Loader) fits(box text.Size, pointSize float64) bool {
	m := l.model
	m.PointSize = pointSize
	elide := m.ElideEnabled
	m.ElideEnabled = false
	l.pipeline.Relayout(m, box, layout.ValidateFonts|layout.ShapeText|layout.GetGlyphMetrics|layoutOperations, nil)
	m.ElideEnabled = elide
	size := m.Visual.LayoutSize
	const epsilon = 1e-6
	return size.Width <= box.Width+epsilon && size.Height <= box.Height+epsilon
}

// CheckForTextFit reports whether p laid out at pointSize fits p.Size. It
// runs layout only.
func (l *Loader) CheckForTextFit(p Parameters, pointSize float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if p.Size.Width <= 0 || p.Size.Height <= 0 || !(pointSize > 0) {
		return false
	}
	p.PointSize = pointSize
	if err := l.initialize(p); err != nil {
		return false
	}
	return l.fits(p.Size, pointSize)
}

// RenderTextFit renders p at the largest candidate point size whose layout
// fits p.Size. The candidates run from MinPointSize to MaxPointSize in
// PointSizeStep steps. When not even the smallest fits, the text is
// rendered at the smallest size with an ellipsis and Fitted is false.
func (l *Loader) RenderTextFit(p Parameters) RenderInfo {
	l.mu.Lock()
	defer l.mu.Unlock()
	if p.Size.Width <= 0 || p.Size.Height <= 0 {
		return failed(fmt.Errorf("%w: fitting needs a fixed box", ErrInvalidSize))
	}
	sizes := fitRange(p)
	p.PointSize = sizes[0]
	if err := l.initialize(p); err != nil {
		return failed(err)
	}

	// Larger sizes never fit better, so the sizes that fit are a prefix.
	lo, hi := 0, len(sizes)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if l.fits(p.Size, sizes[mid]) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	m := l.model
	fitted := lo > 0
	if fitted {
		m.PointSize = sizes[lo-1]
	} else {
		m.PointSize = sizes[0]
		m.ElideEnabled = true
	}
	l.pipeline.Relayout(m, p.Size, layout.StyleOperations&^layout.LayoutOperations, nil)
	info := l.render(p.Size)
	info.Fitted = fitted
	textkit.Logger().Debug("async: fitted",
		"point_size", info.PointSize, "fitted", fitted, "candidates", len(sizes))
	return info
}

// RenderAutoScroll renders p on a single line of unconstrained width for
// marquee scrolling. The image holds the text followed by the gap. A text
// narrower than the box gets a gap that fills the box, so it scrolls
// across the whole control before repeating.
func (l *Loader) RenderAutoScroll(p Parameters) RenderInfo {
	l.mu.Lock()
	defer l.mu.Unlock()
	p.MultiLine = false
	p.Ellipsis = false
	if err := l.initialize(p); err != nil {
		return failed(err)
	}
	natural := l.pipeline.NaturalSize(l.model)

	gap := p.AutoScrollGap
	if gap <= 0 {
		gap = DefaultAutoScrollGap
	}
	loop := natural.Width + gap
	if p.Size.Width > loop {
		gap = p.Size.Width - natural.Width
		loop = p.Size.Width
	}
	height := p.Size.Height
	if height <= 0 {
		height = natural.Height
	}

	// Alignment would move the text inside the loop.
	l.model.HorizontalAlignment = text.AlignBegin
	info := l.render(text.Size{Width: loop, Height: height})
	info.AutoScrollGap = gap
	info.LoopWidth = loop
	return info
}

// NaturalSize returns the size of p laid out without a width limit.
func (l *Loader) NaturalSize(p Parameters) (text.Size, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.initialize(p); err != nil {
		return text.Size{}, err
	}
	return l.pipeline.NaturalSize(l.model), nil
}

// HeightForWidth returns the height of p laid out in the given width.
func (l *Loader) HeightForWidth(p Parameters, width float64) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.initialize(p); err != nil {
		return 0, err
	}
	return l.pipeline.HeightForWidth(l.model, width), nil
}
