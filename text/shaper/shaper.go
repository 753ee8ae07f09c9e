// Package shaper converts character runs into glyph runs using the
// HarfBuzz port of github.com/go-text/typesetting.
//
// Text is split at script, font, direction and paragraph boundaries and
// every piece is shaped on its own. Glyphs are returned in logical order:
// the output of right-to-left runs is reversed so that glyph order follows
// character order, and the layout engine reorders lines visually.
package shaper

import (
	"bytes"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/textkit"
	"github.com/gogpu/textkit/cache"
	"github.com/gogpu/textkit/text"
	"github.com/gogpu/textkit/text/fontclient"
)

// FontSource gives the shaper access to the font data behind a FontID.
// *fontclient.Client implements it.
type FontSource interface {
	Source(id text.FontID) (*fontclient.Source, bool)
	PixelSize(id text.FontID) float64
}

// Result is the shaped text.
type Result struct {
	Glyphs []text.GlyphInfo
	// GlyphsToCharacters holds the first character of every glyph.
	GlyphsToCharacters []int
	// CharactersPerGlyph holds the number of characters of every glyph.
	// Glyphs continuing a cluster have 0.
	CharactersPerGlyph []int
}

// Shaper shapes text. It is safe for concurrent use: parsed fonts are
// shared, faces are created per call and HarfBuzz shapers are pooled.
type Shaper struct {
	fonts FontSource

	shaperPool sync.Pool

	mu    sync.RWMutex
	faces map[*fontclient.Source]*font.Font

	runs *cache.ShardedCache[runKey, []shapedGlyph]
}

type runKey struct {
	font      text.FontID
	script    text.Script
	direction text.Direction
	text      string
}

func hashRunKey(k runKey) uint64 {
	h := cache.StringHasher(k.text)
	h = cache.Mix(h, uint64(k.font))
	h = cache.Mix(h, uint64(k.script))
	return cache.Mix(h, uint64(k.direction))
}

// shapedGlyph is a glyph of a cached run. cluster is relative to the run.
type shapedGlyph struct {
	index      text.GlyphID
	cluster    int
	characters int
	advance    float64
	xOffset    float64
	yOffset    float64
}

// Option configures a Shaper.
type Option func(*Shaper)

// WithRunCacheCapacity sets the number of shaped runs cached per cache
// shard. Values <= 0 select cache.DefaultCapacity.
func WithRunCacheCapacity(n int) Option {
	return func(s *Shaper) {
		s.runs = cache.NewSharded[runKey, []shapedGlyph](n, hashRunKey)
	}
}

// New creates a Shaper reading fonts from fonts.
func New(fonts FontSource, opts ...Option) *Shaper {
	s := &Shaper{
		fonts: fonts,
		shaperPool: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
		faces: make(map[*fontclient.Source]*font.Font),
		runs:  cache.NewSharded[runKey, []shapedGlyph](cache.DefaultCapacity, hashRunKey),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ClearCache drops parsed fonts and shaped runs.
func (s *Shaper) ClearCache() {
	s.mu.Lock()
	s.faces = make(map[*fontclient.Source]*font.Font)
	s.mu.Unlock()
	s.runs.Clear()
}

// CacheStats returns the statistics of the shaped-run cache.
func (s *Shaper) CacheStats() cache.Stats {
	return s.runs.Stats()
}

// Shape shapes chars. scripts and fonts must cover the text; directions
// holds the direction of every character, or nil for left-to-right text.
func (s *Shaper) Shape(chars []text.Character, scripts []text.ScriptRun, fonts []text.FontRun, directions []text.Direction) Result {
	var res Result
	n := len(chars)
	if n == 0 {
		return res
	}
	res.Glyphs = make([]text.GlyphInfo, 0, n)
	res.GlyphsToCharacters = make([]int, 0, n)
	res.CharactersPerGlyph = make([]int, 0, n)

	scriptIndex, fontIndex := 0, 0
	for start := 0; start < n; {
		for scriptIndex < len(scripts) && scripts[scriptIndex].End() <= start {
			scriptIndex++
		}
		for fontIndex < len(fonts) && fonts[fontIndex].End() <= start {
			fontIndex++
		}

		end := n
		script := text.ScriptUnknown
		if scriptIndex < len(scripts) {
			script = scripts[scriptIndex].Script
			end = min(end, scripts[scriptIndex].End())
		}
		var run text.FontRun
		if fontIndex < len(fonts) {
			run = fonts[fontIndex]
			end = min(end, run.End())
		}
		dir := directionAt(directions, start)
		for i := start; i < end; i++ {
			if i > start && directionAt(directions, i) != dir {
				end = i
				break
			}
			if text.IsNewParagraph(chars[i]) && !(chars[i] == text.CharCarriageReturn && i+1 < end && chars[i+1] == text.CharLineFeed) {
				end = i + 1
				break
			}
		}

		glyphs := s.shapeRun(chars[start:end], run.FontID, script, dir)
		for _, g := range glyphs {
			res.Glyphs = append(res.Glyphs, text.GlyphInfo{
				FontID:           run.FontID,
				Index:            g.index,
				Advance:          g.advance,
				XOffset:          g.xOffset,
				YOffset:          g.yOffset,
				ScaleFactor:      1,
				IsItalicRequired: run.IsItalicRequired,
				IsBoldRequired:   run.IsBoldRequired,
			})
			res.GlyphsToCharacters = append(res.GlyphsToCharacters, start+g.cluster)
			res.CharactersPerGlyph = append(res.CharactersPerGlyph, g.characters)
		}
		start = end
	}
	textkit.Logger().Debug("shaper: text shaped", "characters", n, "glyphs", len(res.Glyphs))
	return res
}

func directionAt(directions []text.Direction, i int) text.Direction {
	if i < len(directions) {
		return directions[i]
	}
	return text.DirectionLTR
}

// shapeRun shapes one run, consulting the run cache first.
func (s *Shaper) shapeRun(chars []text.Character, id text.FontID, script text.Script, dir text.Direction) []shapedGlyph {
	key := runKey{font: id, script: script, direction: dir, text: string(chars)}
	return s.runs.GetOrCreate(key, func() []shapedGlyph {
		f := s.fontFor(id)
		if f == nil {
			return placeholderGlyphs(chars)
		}
		return s.harfbuzz(chars, f, s.fonts.PixelSize(id), script, dir)
	})
}

// placeholderGlyphs returns one empty glyph per character, used when the
// run has no usable font.
func placeholderGlyphs(chars []text.Character) []shapedGlyph {
	out := make([]shapedGlyph, len(chars))
	for i := range out {
		out[i] = shapedGlyph{cluster: i, characters: 1}
	}
	return out
}

func (s *Shaper) harfbuzz(chars []text.Character, f *font.Font, size float64, script text.Script, dir text.Direction) []shapedGlyph {
	input := shaping.Input{
		Text:      chars,
		RunStart:  0,
		RunEnd:    len(chars),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(f),
		Size:      fixed.Int26_6(size * 64),
		Script:    script.Language(),
		Language:  language.NewLanguage("en"),
	}
	if dir == text.DirectionRTL {
		input.Direction = di.DirectionRTL
	}

	hb := s.shaperPool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	s.shaperPool.Put(hb)

	glyphs := output.Glyphs
	out := make([]shapedGlyph, len(glyphs))
	for i := range glyphs {
		// Right-to-left output is in visual order; store it logically.
		g := glyphs[i]
		if dir == text.DirectionRTL {
			g = glyphs[len(glyphs)-1-i]
		}
		out[i] = shapedGlyph{
			index:   text.GlyphID(g.GlyphID),
			cluster: g.ClusterIndex,
			advance: fixedToFloat(g.Advance),
			xOffset: fixedToFloat(g.XOffset),
			yOffset: fixedToFloat(g.YOffset),
		}
		if i == 0 || out[i-1].cluster != g.ClusterIndex {
			out[i].characters = g.RuneCount
		}
		// Paragraph separators take no room on the line.
		if c := chars[g.ClusterIndex]; text.IsNewParagraph(c) {
			out[i].advance = 0
		}
	}
	return out
}

// fontFor returns the parsed go-text font of a FontID, or nil.
func (s *Shaper) fontFor(id text.FontID) *font.Font {
	src, ok := s.fonts.Source(id)
	if !ok || src == nil {
		return nil
	}

	s.mu.RLock()
	f, ok := s.faces[src]
	s.mu.RUnlock()
	if ok {
		return f
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.faces[src]; ok {
		return f
	}
	face, err := font.ParseTTF(bytes.NewReader(src.Data()))
	if err != nil {
		textkit.Logger().Warn("shaper: failed to parse font", "family", src.Family(), "err", err)
		s.faces[src] = nil
		return nil
	}
	s.faces[src] = face.Font
	return face.Font
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
