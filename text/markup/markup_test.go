package markup

import (
	"errors"
	"image/color"
	"slices"
	"testing"

	"github.com/gogpu/textkit/text"
	"github.com/gogpu/textkit/text/model"
)

func run(index, count int) text.CharacterRun {
	return text.CharacterRun{CharacterIndex: index, NumberOfCharacters: count}
}

func TestParsePlainText(t *testing.T) {
	res, err := Parse("Hello &lt;world&gt; &amp; more")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := text.Utf32ToString(res.Text); got != "Hello <world> & more" {
		t.Errorf("text = %q", got)
	}
	if res.Colors != nil || res.Fonts != nil || res.Underlines != nil {
		t.Errorf("unexpected runs: %+v", res)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"red", color.NRGBA{R: 255, A: 255}, true},
		{"#00ff00", color.NRGBA{G: 255, A: 255}, true},
		{"0x0000FF", color.NRGBA{B: 255, A: 255}, true},
		{"#f00", color.NRGBA{R: 255, A: 255}, true},
		{"#ff000080", color.NRGBA{R: 255, A: 128}, true},
		{"#f008", color.NRGBA{R: 255, A: 136}, true},
		{"#ggg", color.NRGBA{}, false},
		{"#12345", color.NRGBA{}, false},
		{"chartreuse", color.NRGBA{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseColor(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseColor(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseColorRuns(t *testing.T) {
	res, err := Parse(`a<color value="red">bc<color value="#0000ff">d</color></color>e`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []text.ColorRun{
		{CharacterRun: run(1, 3), Color: color.NRGBA{R: 255, A: 255}},
		{CharacterRun: run(3, 1), Color: color.NRGBA{B: 255, A: 255}},
	}
	if !slices.Equal(res.Colors, want) {
		t.Errorf("colors = %+v, want %+v", res.Colors, want)
	}
}

func TestParseFontRuns(t *testing.T) {
	res, err := Parse(`<font family="Go Mono" size="24" weight="bold" slant="italic">ab</font><b>c</b><i>d</i>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Fonts) != 3 {
		t.Fatalf("fonts = %+v", res.Fonts)
	}
	f := res.Fonts[0]
	if f.CharacterRun != run(0, 2) || !f.FamilyDefined || f.Description.Family != "Go Mono" ||
		!f.SizeDefined || f.Description.PointSize != 24 ||
		!f.WeightDefined || f.Description.Weight != text.WeightBold ||
		!f.SlantDefined || f.Description.Slant != text.SlantItalic {
		t.Errorf("font run = %+v", f)
	}
	if b := res.Fonts[1]; b.CharacterRun != run(2, 1) || !b.WeightDefined || b.SlantDefined {
		t.Errorf("bold run = %+v", b)
	}
	if i := res.Fonts[2]; i.CharacterRun != run(3, 1) || !i.SlantDefined || i.WeightDefined {
		t.Errorf("italic run = %+v", i)
	}
}

func TestParseNestedUnderline(t *testing.T) {
	res, err := Parse(`<u height="2" color="red">ab<u color="blue">cd</u></u>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Underlines) != 2 {
		t.Fatalf("underlines = %+v", res.Underlines)
	}
	outer, inner := res.Underlines[0], res.Underlines[1]
	if outer.CharacterRun != run(0, 4) || inner.CharacterRun != run(2, 2) {
		t.Errorf("ranges = %+v, %+v", outer.CharacterRun, inner.CharacterRun)
	}
	p := inner.Properties
	if !p.ColorDefined || p.Color != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("inner color = %v, want blue", p.Color)
	}
	if !p.HeightDefined || p.Height != 2 {
		t.Errorf("inner height = %v (defined %v), want inherited 2", p.Height, p.HeightDefined)
	}
}

func TestParseUnderlineAttributes(t *testing.T) {
	res, err := Parse(`<u type="dashed" dash-width="3" dash-gap="1">x</u>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p := res.Underlines[0].Properties
	if p.Type != text.UnderlineDashed || p.DashWidth != 3 || p.DashGap != 1 || !p.DashWidthDefined || !p.DashGapDefined {
		t.Errorf("properties = %+v", p)
	}
}

func TestParseCharacterSpacingAndBreak(t *testing.T) {
	res, err := Parse(`a<br/><char-spacing value="1.5">bc</char-spacing>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := text.Utf32ToString(res.Text); got != "a\nbc" {
		t.Errorf("text = %q", got)
	}
	want := []text.CharacterSpacingRun{{CharacterRun: run(2, 2), Value: 1.5}}
	if !slices.Equal(res.CharacterSpacings, want) {
		t.Errorf("spacing = %+v, want %+v", res.CharacterSpacings, want)
	}
}

func TestParseAnchor(t *testing.T) {
	res, err := Parse(`see <a href="https://example.com">docs</a>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	a, ok := res.AnchorAt(5)
	if !ok || a.Href != "https://example.com" || a.CharacterRun != run(4, 4) {
		t.Errorf("anchor = %+v, %v", a, ok)
	}
	if _, ok := res.AnchorAt(1); ok {
		t.Error("anchor found outside the link")
	}
	if len(res.Colors) != 1 || res.Colors[0].Color != AnchorColor {
		t.Errorf("anchor color runs = %+v", res.Colors)
	}
	if len(res.Underlines) != 1 || res.Underlines[0].CharacterRun != run(4, 4) {
		t.Errorf("anchor underline runs = %+v", res.Underlines)
	}
}

func TestParseDiagnostics(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		text    string
		wantErr error
		tag     string
	}{
		{"unknown tag", "a<blink>b</blink>", "ab", ErrUnknownTag, "blink"},
		{"unmatched close", "ab</b>", "ab", ErrUnmatchedClose, "b"},
		{"unclosed", "<b>ab", "ab", ErrUnclosedTag, "b"},
		{"bad color", `<color value="nope">ab</color>`, "ab", ErrBadAttribute, "color"},
		{"bad size", `<font size="big">ab</font>`, "ab", ErrBadAttribute, "font"},
		{"crossed tags", "<b><i>ab</b></i>", "ab", ErrUnclosedTag, "i"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(tt.in)
			if res == nil {
				t.Fatal("nil result")
			}
			if got := text.Utf32ToString(res.Text); got != tt.text {
				t.Errorf("text = %q, want %q", got, tt.text)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %v is not a *ParseError", err)
			}
			if pe.Tag != tt.tag {
				t.Errorf("tag = %q, want %q", pe.Tag, tt.tag)
			}
		})
	}
}

func TestParseErrorOffset(t *testing.T) {
	_, err := Parse("abc<blink>")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v", err)
	}
	if pe.Offset != 3 {
		t.Errorf("offset = %d, want 3", pe.Offset)
	}
}

func TestParseCrossedTagsKeepRuns(t *testing.T) {
	res, _ := Parse("<b>a<i>b</b>c</i>")
	if got := text.Utf32ToString(res.Text); got != "abc" {
		t.Errorf("text = %q", got)
	}
	if len(res.Fonts) != 2 || res.Fonts[0].CharacterRun != run(0, 2) || res.Fonts[1].CharacterRun != run(1, 1) {
		t.Errorf("fonts = %+v", res.Fonts)
	}
}

func TestResultApply(t *testing.T) {
	res, _ := Parse(`<color value="red">ab</color>c`)
	m := model.NewLogicalModel()
	res.Apply(m)
	if got := text.Utf32ToString(m.Text()); got != "abc" {
		t.Errorf("text = %q", got)
	}
	if runs := m.ColorRuns(); len(runs) != 1 || runs[0].CharacterRun != run(0, 2) {
		t.Errorf("color runs = %+v", runs)
	}
}
