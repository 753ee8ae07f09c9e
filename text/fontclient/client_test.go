package fontclient

import (
	"errors"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/textkit/text"
)

func TestNewSource(t *testing.T) {
	src, err := NewSource(goregular.TTF)
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}
	if src.Family() != "Go" {
		t.Errorf("Family() = %q, want %q", src.Family(), "Go")
	}
	if src.Weight() != text.WeightNormal || src.Slant() != text.SlantNormal {
		t.Errorf("style = %d/%d, want regular", src.Weight(), src.Slant())
	}

	if _, err := NewSource(nil); !errors.Is(err, ErrEmptyFontData) {
		t.Errorf("NewSource(nil) error = %v, want ErrEmptyFontData", err)
	}
	if _, err := NewSource([]byte("not a font")); err == nil {
		t.Error("NewSource(garbage) should fail")
	}
}

func TestStyleOf(t *testing.T) {
	tests := []struct {
		sub    string
		weight text.FontWeight
		slant  text.FontSlant
	}{
		{"Regular", text.WeightNormal, text.SlantNormal},
		{"Bold", text.WeightBold, text.SlantNormal},
		{"Bold Italic", text.WeightBold, text.SlantItalic},
		{"SemiBold", 600, text.SlantNormal},
		{"Light Oblique", 300, text.SlantItalic},
	}
	for _, tt := range tests {
		t.Run(tt.sub, func(t *testing.T) {
			w, s := styleOf(tt.sub)
			if w != tt.weight || s != tt.slant {
				t.Errorf("styleOf(%q) = %d/%d, want %d/%d", tt.sub, w, s, tt.weight, tt.slant)
			}
		})
	}
}

func TestClientFontID(t *testing.T) {
	c := NewWithGoFonts()

	regular, err := c.FontID(text.FontDescription{}, 16)
	if err != nil {
		t.Fatalf("FontID() error = %v", err)
	}
	if regular == 0 {
		t.Fatal("FontID() = 0")
	}
	again, _ := c.FontID(text.FontDescription{Family: "go"}, 16)
	if again != regular {
		t.Errorf("same description resolved to %d and %d", regular, again)
	}
	bigger, _ := c.FontID(text.FontDescription{}, 32)
	if bigger == regular {
		t.Error("different sizes must get different ids")
	}
	if c.PointSize(bigger) != 32 {
		t.Errorf("PointSize() = %v, want 32", c.PointSize(bigger))
	}

	bold, _ := c.FontID(text.FontDescription{Weight: text.WeightBold}, 16)
	if d := c.Description(bold); d.Weight != text.WeightBold || d.Slant != text.SlantNormal {
		t.Errorf("bold description = %+v", d)
	}
	italic, _ := c.FontID(text.FontDescription{Slant: text.SlantItalic}, 16)
	if !c.HasItalicStyle(italic) {
		t.Error("HasItalicStyle(italic) = false")
	}
	if c.HasItalicStyle(regular) {
		t.Error("HasItalicStyle(regular) = true")
	}

	var nf *FontNotFoundError
	if _, err := c.FontID(text.FontDescription{Family: "Nope"}, 16); !errors.As(err, &nf) {
		t.Errorf("unknown family error = %v, want FontNotFoundError", err)
	}
	if _, err := New().FontID(text.FontDescription{}, 16); !errors.Is(err, ErrNoFonts) {
		t.Errorf("empty client error = %v, want ErrNoFonts", err)
	}
}

func TestClientGlyphs(t *testing.T) {
	c := NewWithGoFonts()
	id, _ := c.FontID(text.FontDescription{}, 20)

	if c.GlyphIndex(id, 'A') == 0 {
		t.Error("GlyphIndex('A') = 0")
	}
	if !c.IsCharacterSupported(id, 'A') {
		t.Error("'A' should be supported")
	}
	if c.IsCharacterSupported(id, '世') {
		t.Error("Go fonts have no CJK glyphs")
	}
	if !c.IsCharacterSupported(id, text.CharZeroWidthJoiner) {
		t.Error("control characters are always supported")
	}

	m := c.FontMetrics(id)
	if m.Ascender <= 0 || m.Descender >= 0 {
		t.Errorf("metrics = %+v, want positive ascender and negative descender", m)
	}
	if m.LineHeight() <= 0 {
		t.Errorf("LineHeight() = %v", m.LineHeight())
	}

	glyphs := []text.GlyphInfo{
		{FontID: id, Index: c.GlyphIndex(id, 'W')},
		{FontID: id, Index: c.GlyphIndex(id, 'i')},
	}
	if !c.GlyphMetrics(glyphs) {
		t.Fatal("GlyphMetrics() = false")
	}
	if glyphs[0].Advance <= glyphs[1].Advance {
		t.Errorf("advance W=%v i=%v, want W wider", glyphs[0].Advance, glyphs[1].Advance)
	}
	if glyphs[0].Width <= 0 || glyphs[0].Height <= 0 {
		t.Errorf("W bounds = %vx%v", glyphs[0].Width, glyphs[0].Height)
	}
	if c.GlyphMetrics([]text.GlyphInfo{{FontID: 999, Index: 1}}) {
		t.Error("unknown font should fail")
	}
}

func TestClientFallback(t *testing.T) {
	c := NewWithGoFonts()
	id := c.FindFallbackFont('a', text.ScriptLatin, text.FontDescription{}, 12)
	if id == 0 || c.Description(id).Family != "Go" {
		t.Errorf("FindFallbackFont('a') = %d (%+v)", id, c.Description(id))
	}

	c.SetScriptFamilies(text.ScriptLatin, "Go Mono")
	mono := c.FindFallbackFont('a', text.ScriptLatin, text.FontDescription{}, 12)
	if got := c.Description(mono).Family; got != "Go Mono" {
		t.Errorf("preferred family = %q, want Go Mono", got)
	}
	if got := c.Description(c.DefaultFontForScript(text.ScriptLatin, text.FontDescription{}, 12)).Family; got != "Go Mono" {
		t.Errorf("DefaultFontForScript() family = %q", got)
	}
	if got := c.Description(c.DefaultFontForScript(text.ScriptGreek, text.FontDescription{}, 12)).Family; got != "Go" {
		t.Errorf("DefaultFontForScript() without preference = %q, want the default family", got)
	}

	// A digit inside a Latin run takes the Latin preference, not the
	// default family of Common characters.
	if got := c.Description(c.FindFallbackFont('7', text.ScriptLatin, text.FontDescription{}, 12)).Family; got != "Go Mono" {
		t.Errorf("digit in a Latin run = %q, want Go Mono", got)
	}
	if got := c.Description(c.FindFallbackFont('7', text.ScriptCommon, text.FontDescription{}, 12)).Family; got != "Go" {
		t.Errorf("digit in a Common run = %q, want Go", got)
	}

	// Nothing supports CJK: the default family is returned.
	if id := c.FindFallbackFont('世', text.ScriptHan, text.FontDescription{}, 12); c.Description(id).Family != "Go" {
		t.Errorf("unsupported fallback family = %q", c.Description(id).Family)
	}
}

func TestSourceCopyCheck(t *testing.T) {
	src, err := NewSource(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Error("copied Source should panic")
		}
	}()
	copied := *src //nolint:govet // testing copy detection
	_ = copied.Family()
}
