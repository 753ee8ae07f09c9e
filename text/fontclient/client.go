// Package fontclient resolves font descriptions to FontIDs and answers the
// glyph and metrics queries of the text pipeline.
//
// Fonts are parsed with golang.org/x/image/font/opentype. A FontID names a
// (Source, point size) pair; IDs start at 1 and are never reused while the
// Client lives.
package fontclient

import (
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/textkit"
	"github.com/gogpu/textkit/text"
)

// DefaultPointSize is used when a description has no size.
const DefaultPointSize = 18

// Option configures a Client.
type Option func(*Client)

// WithDPI sets the resolution used to convert points to pixels.
// The default is 72, where one point is one pixel.
func WithDPI(dpi float64) Option {
	return func(c *Client) {
		if dpi > 0 {
			c.dpi = dpi
		}
	}
}

// WithDefaultFamily sets the family used when a description names none.
func WithDefaultFamily(family string) Option {
	return func(c *Client) {
		c.defaultFamily = family
	}
}

type fontKey struct {
	source    *Source
	pointSize float64
}

type fontEntry struct {
	source    *Source
	pointSize float64
	ppem      fixed.Int26_6
	metrics   text.FontMetrics
}

// Client is the font registry. It is safe for concurrent use.
type Client struct {
	mu sync.RWMutex

	dpi           float64
	defaultFamily string

	sources  []*Source
	families map[string][]*Source
	scripts  map[text.Script][]string

	fonts     []fontEntry // FontID-1
	fontIndex map[fontKey]text.FontID

	bufPool sync.Pool
}

// New creates an empty Client.
func New(opts ...Option) *Client {
	c := &Client{
		dpi:       72,
		families:  make(map[string][]*Source),
		scripts:   make(map[text.Script][]string),
		fontIndex: make(map[fontKey]text.FontID),
		bufPool: sync.Pool{
			New: func() any { return new(sfnt.Buffer) },
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewWithGoFonts creates a Client with the Go font family registered and
// set as the default family.
func NewWithGoFonts(opts ...Option) *Client {
	c := New(append([]Option{WithDefaultFamily("Go")}, opts...)...)
	for _, data := range [][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF, gomono.TTF} {
		if _, err := c.RegisterFont(data); err != nil {
			// The embedded Go fonts always parse.
			panic(err)
		}
	}
	return c
}

// RegisterFont parses data and adds it to its family.
func (c *Client) RegisterFont(data []byte) (*Source, error) {
	src, err := NewSource(data)
	if err != nil {
		return nil, err
	}
	c.AddSource(src)
	return src, nil
}

// RegisterFontFile loads a font file and adds it to its family.
func (c *Client) RegisterFontFile(path string) (*Source, error) {
	src, err := NewSourceFromFile(path)
	if err != nil {
		return nil, err
	}
	c.AddSource(src)
	return src, nil
}

// AddSource adds a parsed source. The first family added becomes the
// default family unless one was configured.
func (c *Client) AddSource(src *Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources = append(c.sources, src)
	key := strings.ToLower(src.Family())
	c.families[key] = append(c.families[key], src)
	if c.defaultFamily == "" {
		c.defaultFamily = src.Family()
	}
	textkit.Logger().Debug("fontclient: font registered", "family", src.Family(), "weight", int(src.Weight()), "italic", src.Slant() == text.SlantItalic)
}

// SetScriptFamilies sets the preferred families for a script, used when a
// run needs a default font.
func (c *Client) SetScriptFamilies(script text.Script, families ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scripts[script] = families
}

// DefaultFamily returns the family used for undefined descriptions.
func (c *Client) DefaultFamily() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultFamily
}

// FontID resolves a description to a FontID. An empty family resolves to
// the default family. The source closest in weight and slant is chosen.
func (c *Client) FontID(desc text.FontDescription, pointSize float64) (text.FontID, error) {
	if pointSize <= 0 {
		pointSize = desc.PointSize
	}
	if pointSize <= 0 {
		pointSize = DefaultPointSize
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.sources) == 0 {
		return 0, ErrNoFonts
	}
	family := desc.Family
	if family == "" {
		family = c.defaultFamily
	}
	candidates := c.families[strings.ToLower(family)]
	if len(candidates) == 0 {
		return 0, &FontNotFoundError{Family: family}
	}
	return c.fontIDLocked(bestMatch(candidates, desc), pointSize), nil
}

// bestMatch picks the source closest to the requested style. Slant
// mismatches weigh more than weight distance.
func bestMatch(candidates []*Source, desc text.FontDescription) *Source {
	weight := desc.Weight
	if weight == 0 {
		weight = text.WeightNormal
	}
	best, bestScore := candidates[0], -1
	for _, s := range candidates {
		score := int(s.Weight() - weight)
		if score < 0 {
			score = -score
		}
		if s.Slant() != desc.Slant {
			score += 10000
		}
		if bestScore < 0 || score < bestScore {
			best, bestScore = s, score
		}
	}
	return best
}

func (c *Client) fontIDLocked(src *Source, pointSize float64) text.FontID {
	key := fontKey{source: src, pointSize: pointSize}
	if id, ok := c.fontIndex[key]; ok {
		return id
	}
	ppem := floatToFixed(pointSize * c.dpi / 72)
	c.fonts = append(c.fonts, fontEntry{
		source:    src,
		pointSize: pointSize,
		ppem:      ppem,
		metrics:   src.metrics(ppem),
	})
	id := text.FontID(len(c.fonts))
	c.fontIndex[key] = id
	return id
}

func (c *Client) entry(id text.FontID) (fontEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if id == 0 || int(id) > len(c.fonts) {
		return fontEntry{}, false
	}
	return c.fonts[id-1], true
}

// Source returns the source behind a FontID.
func (c *Client) Source(id text.FontID) (*Source, bool) {
	e, ok := c.entry(id)
	return e.source, ok
}

// PointSize returns the point size of a FontID.
func (c *Client) PointSize(id text.FontID) float64 {
	e, _ := c.entry(id)
	return e.pointSize
}

// PixelSize returns the size in pixels per em of a FontID.
func (c *Client) PixelSize(id text.FontID) float64 {
	e, _ := c.entry(id)
	return fixedToFloat64(e.ppem)
}

// Description returns the family and style of a FontID.
func (c *Client) Description(id text.FontID) text.FontDescription {
	e, ok := c.entry(id)
	if !ok {
		return text.FontDescription{}
	}
	return text.FontDescription{
		Family:    e.source.Family(),
		Weight:    e.source.Weight(),
		Slant:     e.source.Slant(),
		PointSize: e.pointSize,
	}
}

// HasItalicStyle reports whether the font is natively italic. When it is
// not, italic text needs synthetic slanting.
func (c *Client) HasItalicStyle(id text.FontID) bool {
	e, ok := c.entry(id)
	return ok && e.source.Slant() == text.SlantItalic
}

// FontMetrics returns the metrics of a FontID.
func (c *Client) FontMetrics(id text.FontID) text.FontMetrics {
	e, _ := c.entry(id)
	return e.metrics
}

// GlyphIndex returns the glyph of r in the font, or 0.
func (c *Client) GlyphIndex(id text.FontID, r rune) text.GlyphID {
	e, ok := c.entry(id)
	if !ok {
		return 0
	}
	buf := c.bufPool.Get().(*sfnt.Buffer)
	defer c.bufPool.Put(buf)
	return text.GlyphID(e.source.glyphIndex(buf, r))
}

// IsCharacterSupported reports whether the font has a glyph for r.
// Zero-width, direction and paragraph control characters are always
// supported since they produce no visible glyph.
func (c *Client) IsCharacterSupported(id text.FontID, r rune) bool {
	if text.IsZeroWidth(r) || text.IsDirectionMark(r) || text.IsNewParagraph(r) || r == '\t' {
		return true
	}
	return c.GlyphIndex(id, r) != 0
}

// GlyphMetrics fills the metrics of glyphs from their fonts. It returns
// false if any glyph could not be measured; measured glyphs are still
// filled.
func (c *Client) GlyphMetrics(glyphs []text.GlyphInfo) bool {
	buf := c.bufPool.Get().(*sfnt.Buffer)
	defer c.bufPool.Put(buf)
	ok := true
	for i := range glyphs {
		g := &glyphs[i]
		e, found := c.entry(g.FontID)
		if !found {
			ok = false
			continue
		}
		if !e.source.glyphMetrics(buf, g, e.ppem) {
			ok = false
		}
	}
	return ok
}

// FindFallbackFont returns a font supporting r at pointSize, preferring
// the style of desc. script is the script of the run r belongs to. Its
// preferred families are tried first, then those of r's own script, then
// the default family, then every registered source. When nothing supports
// r the default family is returned.
func (c *Client) FindFallbackFont(r rune, script text.Script, desc text.FontDescription, pointSize float64) text.FontID {
	if pointSize <= 0 {
		pointSize = DefaultPointSize
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.sources) == 0 {
		return 0
	}

	buf := c.bufPool.Get().(*sfnt.Buffer)
	defer c.bufPool.Put(buf)

	var order [][]*Source
	scripts := []text.Script{script}
	if own := text.DetectScript(r); own != script {
		scripts = append(scripts, own)
	}
	for _, sc := range scripts {
		for _, family := range c.scripts[sc] {
			order = append(order, c.families[strings.ToLower(family)])
		}
	}
	order = append(order, c.families[strings.ToLower(c.defaultFamily)], c.sources)

	for _, candidates := range order {
		var supporting []*Source
		for _, s := range candidates {
			if s.glyphIndex(buf, r) != 0 {
				supporting = append(supporting, s)
			}
		}
		if len(supporting) > 0 {
			return c.fontIDLocked(bestMatch(supporting, desc), pointSize)
		}
	}

	textkit.Logger().Warn("fontclient: no font supports character, using default", "rune", string(r))
	def := c.families[strings.ToLower(c.defaultFamily)]
	if len(def) == 0 {
		def = c.sources
	}
	return c.fontIDLocked(bestMatch(def, desc), pointSize)
}

// DefaultFontForScript returns the first preferred family of the script,
// or the default family, at pointSize.
func (c *Client) DefaultFontForScript(script text.Script, desc text.FontDescription, pointSize float64) text.FontID {
	c.mu.RLock()
	families := append([]string(nil), c.scripts[script]...)
	c.mu.RUnlock()
	for _, family := range families {
		d := desc
		d.Family = family
		if id, err := c.FontID(d, pointSize); err == nil {
			return id
		}
	}
	d := desc
	d.Family = ""
	id, _ := c.FontID(d, pointSize)
	return id
}
