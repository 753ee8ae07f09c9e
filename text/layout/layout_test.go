package layout

import (
	"math"
	"slices"
	"testing"

	"github.com/gogpu/textkit/text"
	"github.com/gogpu/textkit/text/fontclient"
	"github.com/gogpu/textkit/text/model"
)

var goFonts = fontclient.NewWithGoFonts()

const wide = 10000

func newModel(s string, setup func(m *model.Model)) *model.Model {
	m := model.New()
	m.PointSize = 16
	m.MultiLine = true
	if setup != nil {
		setup(m)
	}
	chars, _ := text.StringToUtf32(s)
	m.Logical.SetText(chars)
	return m
}

func layoutText(s string, box text.Size, setup func(m *model.Model)) *model.Model {
	m := newModel(s, setup)
	NewPipeline(goFonts).Relayout(m, box, AllOperations, nil)
	return m
}

func lineChars(m *model.Model) []text.CharacterRun {
	var out []text.CharacterRun
	for _, l := range m.Visual.Lines() {
		out = append(out, l.Characters)
	}
	return out
}

func TestLayoutEmpty(t *testing.T) {
	m := layoutText("", text.Size{Width: 100, Height: 100}, nil)
	if n := m.Visual.NumberOfLines(); n != 0 {
		t.Errorf("lines = %d, want 0", n)
	}
	if p := m.Visual.GlyphPositions(); len(p) != 0 {
		t.Errorf("positions = %v, want none", p)
	}
	if s := m.Visual.LayoutSize; !s.IsZero() {
		t.Errorf("LayoutSize = %v, want zero", s)
	}
}

func TestLayoutSingleLine(t *testing.T) {
	m := layoutText("Hello world", text.Size{Width: wide, Height: 100}, nil)
	lines := m.Visual.Lines()
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	l := lines[0]
	if l.Characters != (text.CharacterRun{CharacterIndex: 0, NumberOfCharacters: 11}) {
		t.Errorf("characters = %+v", l.Characters)
	}
	if l.Ascender <= 0 || l.Descender >= 0 {
		t.Errorf("ascender %v descender %v", l.Ascender, l.Descender)
	}
	positions := m.Visual.GlyphPositions()
	for i := 1; i < len(positions); i++ {
		if positions[i].X <= positions[i-1].X {
			t.Errorf("glyph %d at %v not after glyph %d at %v", i, positions[i].X, i-1, positions[i-1].X)
		}
		if positions[i].Y != l.Ascender {
			t.Errorf("glyph %d baseline %v, want %v", i, positions[i].Y, l.Ascender)
		}
	}
	size := m.Visual.LayoutSize
	if size.Width != l.Width || size.Height != l.Height() {
		t.Errorf("LayoutSize = %v, want %vx%v", size, l.Width, l.Height())
	}
}

func TestLayoutWordWrap(t *testing.T) {
	natural := layoutText("Hello world", text.Size{Width: wide, Height: wide}, nil).Visual.Lines()[0].Width
	m := layoutText("Hello world", text.Size{Width: natural * 0.75, Height: wide}, nil)

	want := []text.CharacterRun{
		{CharacterIndex: 0, NumberOfCharacters: 6},
		{CharacterIndex: 6, NumberOfCharacters: 5},
	}
	if got := lineChars(m); !slices.Equal(got, want) {
		t.Fatalf("lines = %+v, want %+v", got, want)
	}
	lines := m.Visual.Lines()
	if lines[0].Extra <= 0 {
		t.Errorf("trailing space not in Extra: %+v", lines[0])
	}
	positions := m.Visual.GlyphPositions()
	if positions[6].X != 0 {
		t.Errorf("second line starts at %v, want 0", positions[6].X)
	}
	if positions[6].Y <= positions[0].Y {
		t.Errorf("second baseline %v not below first %v", positions[6].Y, positions[0].Y)
	}
	wantBaseline := lines[0].Height() + lines[1].Ascender
	if math.Abs(positions[6].Y-wantBaseline) > 1e-9 {
		t.Errorf("second baseline = %v, want %v", positions[6].Y, wantBaseline)
	}
}

func TestLayoutLineSpacing(t *testing.T) {
	box := text.Size{Width: wide, Height: wide}
	plain := layoutText("a\nb", box, nil)
	spaced := layoutText("a\nb", box, func(m *model.Model) { m.LineSpacing = 5 })
	diff := spaced.Visual.GlyphPositions()[2].Y - plain.Visual.GlyphPositions()[2].Y
	if math.Abs(diff-5) > 1e-9 {
		t.Errorf("line spacing moved second line by %v, want 5", diff)
	}
	if d := spaced.Visual.LayoutSize.Height - plain.Visual.LayoutSize.Height; math.Abs(d-5) > 1e-9 {
		t.Errorf("height grew by %v, want 5", d)
	}
}

func TestLayoutForcedBreak(t *testing.T) {
	m := layoutText("abc", text.Size{Width: 1, Height: wide}, nil)
	want := []text.CharacterRun{
		{CharacterIndex: 0, NumberOfCharacters: 1},
		{CharacterIndex: 1, NumberOfCharacters: 1},
		{CharacterIndex: 2, NumberOfCharacters: 1},
	}
	if got := lineChars(m); !slices.Equal(got, want) {
		t.Errorf("lines = %+v, want %+v", got, want)
	}
	for i, l := range m.Visual.Lines() {
		if l.Width <= 1 {
			t.Errorf("line %d width %v: overflowing glyph should keep its width", i, l.Width)
		}
	}
}

func TestLayoutParagraphs(t *testing.T) {
	tests := []struct {
		in   string
		want []text.CharacterRun
	}{
		{"ab\ncd", []text.CharacterRun{{CharacterIndex: 0, NumberOfCharacters: 3}, {CharacterIndex: 3, NumberOfCharacters: 2}}},
		{"ab\n", []text.CharacterRun{{CharacterIndex: 0, NumberOfCharacters: 3}, {CharacterIndex: 3, NumberOfCharacters: 0}}},
		{"ab\r\ncd", []text.CharacterRun{{CharacterIndex: 0, NumberOfCharacters: 4}, {CharacterIndex: 4, NumberOfCharacters: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m := layoutText(tt.in, text.Size{Width: wide, Height: wide}, nil)
			if got := lineChars(m); !slices.Equal(got, tt.want) {
				t.Errorf("lines = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLayoutSingleLineModeIgnoresWidth(t *testing.T) {
	m := layoutText("Hello world", text.Size{Width: 10, Height: wide}, func(m *model.Model) {
		m.MultiLine = false
	})
	if n := m.Visual.NumberOfLines(); n != 1 {
		t.Errorf("lines = %d, want 1", n)
	}
}

func TestLayoutCharacterWrap(t *testing.T) {
	natural := layoutText("Hello world", text.Size{Width: wide, Height: wide}, nil).Visual.Lines()[0].Width
	m := layoutText("Hello world", text.Size{Width: natural * 0.75, Height: wide}, func(m *model.Model) {
		m.WrapMode = text.WrapCharacter
	})
	lines := m.Visual.Lines()
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if n := lines[0].Characters.NumberOfCharacters; n <= 6 {
		t.Errorf("first line has %d characters, want more than a word wrap gives", n)
	}
}

func TestCollapsedLeadingWhiteSpace(t *testing.T) {
	l := &lineLayout{
		chars: []text.Character("ab  cd\n  e"),
		clusters: []cluster{
			{first: 0, last: 0}, {first: 1, last: 1},
			{first: 2, last: 2, whiteSpace: true}, {first: 3, last: 3, whiteSpace: true},
			{first: 4, last: 4}, {first: 5, last: 5},
			{first: 6, last: 6, whiteSpace: true},
			{first: 7, last: 7, whiteSpace: true}, {first: 8, last: 8, whiteSpace: true},
			{first: 9, last: 9},
		},
	}
	tests := []struct {
		start, i int
		want     bool
	}{
		{0, 0, false},
		{2, 2, true},
		{2, 3, true},
		{2, 4, false},
		// A line starting a paragraph keeps its indentation.
		{7, 7, false},
		{7, 8, false},
	}
	for _, tt := range tests {
		if got := l.collapsed(tt.start, tt.i); got != tt.want {
			t.Errorf("collapsed(%d, %d) = %v, want %v", tt.start, tt.i, got, tt.want)
		}
	}
}

func TestLayoutCharacterSpacing(t *testing.T) {
	box := text.Size{Width: wide, Height: wide}
	plain := layoutText("abc", box, nil).Visual.Lines()[0].Width
	spaced := layoutText("abc", box, func(m *model.Model) { m.CharacterSpacing = 2 }).Visual.Lines()[0].Width
	if math.Abs(spaced-plain-6) > 1e-9 {
		t.Errorf("spacing added %v, want 6", spaced-plain)
	}
}

func TestElideSingleLine(t *testing.T) {
	natural := layoutText("Hello world", text.Size{Width: wide, Height: wide}, nil).Visual.Lines()[0].Width
	box := text.Size{Width: natural / 2, Height: wide}
	m := layoutText("Hello world", box, func(m *model.Model) {
		m.MultiLine = false
		m.ElideEnabled = true
	})
	l := m.Visual.Lines()[0]
	if !l.Ellipsis {
		t.Fatal("line not elided")
	}
	if l.Width > box.Width {
		t.Errorf("elided width %v exceeds box %v", l.Width, box.Width)
	}
	e := m.Visual.Ellipsis
	if e == nil || e.Glyph.Index == 0 {
		t.Fatalf("ellipsis glyph = %+v", e)
	}
	if l.Characters.NumberOfCharacters >= 11 {
		t.Errorf("elided line keeps %d characters", l.Characters.NumberOfCharacters)
	}
}

func TestElideNotNeeded(t *testing.T) {
	m := layoutText("Hello", text.Size{Width: wide, Height: wide}, func(m *model.Model) {
		m.ElideEnabled = true
	})
	if m.Visual.Ellipsis != nil || m.Visual.Lines()[0].Ellipsis {
		t.Error("text that fits was elided")
	}
}

func TestElideMultiLine(t *testing.T) {
	one := layoutText("a", text.Size{Width: wide, Height: wide}, nil).Visual.Lines()[0].Height()
	m := layoutText("first\nsecond\nthird", text.Size{Width: wide, Height: one * 1.5}, func(m *model.Model) {
		m.ElideEnabled = true
	})
	lines := m.Visual.Lines()
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	if !lines[0].Ellipsis || m.Visual.Ellipsis == nil || m.Visual.Ellipsis.Line != 0 {
		t.Errorf("last visible line not elided: %+v", lines[0])
	}
	if m.Visual.LayoutSize.Height > one*1.5 {
		t.Errorf("LayoutSize height %v exceeds box", m.Visual.LayoutSize.Height)
	}
}

func TestAlign(t *testing.T) {
	line := text.LineRun{Width: 40, Extra: 4}
	rtl := line
	rtl.Direction = text.DirectionRTL
	tests := []struct {
		name  string
		align text.HorizontalAlignment
		line  text.LineRun
		want  float64
	}{
		{"begin", text.AlignBegin, line, 0},
		{"center", text.AlignCenter, line, 30},
		{"end", text.AlignEnd, line, 60},
		{"rtl begin", text.AlignBegin, rtl, 56},
		{"rtl center", text.AlignCenter, rtl, 26},
		{"rtl end", text.AlignEnd, rtl, -4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := alignmentOffset(tt.align, tt.line, 100); got != tt.want {
				t.Errorf("offset = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAlignModel(t *testing.T) {
	m := layoutText("Hi", text.Size{Width: 200, Height: 100}, func(m *model.Model) {
		m.HorizontalAlignment = text.AlignCenter
	})
	l := m.Visual.Lines()[0]
	if want := (200 - l.Width) / 2; math.Abs(l.AlignmentOffset-want) > 1e-9 {
		t.Errorf("AlignmentOffset = %v, want %v", l.AlignmentOffset, want)
	}
}

func TestVerticalOffset(t *testing.T) {
	tests := []struct {
		align text.VerticalAlignment
		want  float64
	}{
		{text.AlignTop, 0},
		{text.AlignMiddle, 30},
		{text.AlignBottom, 60},
	}
	for _, tt := range tests {
		if got := VerticalOffset(tt.align, 40, 100); got != tt.want {
			t.Errorf("%v: offset = %v, want %v", tt.align, got, tt.want)
		}
	}
}

func TestClampScroll(t *testing.T) {
	m := model.New()
	m.Visual.LayoutSize = text.Size{Width: 300, Height: 50}
	m.ScrollPosition = text.Vector2{X: -500, Y: 20}
	ClampScroll(m, text.Size{Width: 100, Height: 100})
	if m.ScrollPosition != (text.Vector2{X: -200, Y: 0}) {
		t.Errorf("ScrollPosition = %v, want {-200 0}", m.ScrollPosition)
	}
}

func TestNaturalSizeAndHeightForWidth(t *testing.T) {
	p := NewPipeline(goFonts)
	m := newModel("Hello wide world", nil)
	p.Relayout(m, text.Size{Width: 50, Height: wide}, AllOperations, nil)

	natural := p.NaturalSize(m)
	if m.Visual.NumberOfLines() != 1 {
		t.Errorf("natural layout has %d lines, want 1", m.Visual.NumberOfLines())
	}
	narrow := p.HeightForWidth(m, natural.Width/3)
	if narrow <= natural.Height {
		t.Errorf("height for narrow width %v not above natural height %v", narrow, natural.Height)
	}
	if h := p.HeightForWidth(m, natural.Width); h != natural.Height {
		t.Errorf("height for natural width = %v, want %v", h, natural.Height)
	}
}

func TestRelayoutEditMatchesFull(t *testing.T) {
	p := NewPipeline(goFonts)
	box := text.Size{Width: 120, Height: wide}
	m := newModel("Hello world", nil)
	p.Relayout(m, box, AllOperations, nil)

	inserted, _ := text.StringToUtf32(" brave new")
	m.Logical.InsertText(5, inserted)
	p.Relayout(m, box, TextOperations, &Edit{Index: 5, Inserted: len(inserted)})

	full := layoutText("Hello brave new world", box, nil)
	if !slices.Equal(m.Logical.Scripts(), full.Logical.Scripts()) {
		t.Errorf("scripts = %+v, want %+v", m.Logical.Scripts(), full.Logical.Scripts())
	}
	if !slices.Equal(m.Logical.Fonts(), full.Logical.Fonts()) {
		t.Errorf("fonts = %+v, want %+v", m.Logical.Fonts(), full.Logical.Fonts())
	}
	if !slices.Equal(lineChars(m), lineChars(full)) {
		t.Errorf("lines = %+v, want %+v", lineChars(m), lineChars(full))
	}
}

func TestRelayoutOperationsGate(t *testing.T) {
	p := NewPipeline(goFonts)
	m := newModel("Hello", nil)
	if p.Relayout(m, text.Size{Width: 100, Height: 100}, UpdatePositions, nil) {
		t.Error("scroll-only relayout reported a visual change")
	}
	if m.Visual.NumberOfGlyphs() != 0 {
		t.Error("scroll-only relayout shaped text")
	}
	if !p.Relayout(m, text.Size{Width: 100, Height: 100}, AllOperations, nil) {
		t.Error("full relayout reported no change")
	}
}

func TestOperationsString(t *testing.T) {
	tests := []struct {
		ops  Operations
		want string
	}{
		{NoOperation, "NoOperation"},
		{Layout, "Layout"},
		{Layout | Align, "Layout|Align"},
	}
	for _, tt := range tests {
		if got := tt.ops.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
	if !AllOperations.Has(ShapeText | Render) {
		t.Error("AllOperations misses stages")
	}
	if LayoutOperations.Has(ShapeText) {
		t.Error("LayoutOperations shapes text")
	}
}

func BenchmarkRelayout(b *testing.B) {
	p := NewPipeline(goFonts)
	m := newModel("The quick brown fox jumps over the lazy dog. ", nil)
	box := text.Size{Width: 200, Height: wide}
	b.ResetTimer()
	for b.Loop() {
		p.Relayout(m, box, AllOperations, nil)
	}
}
