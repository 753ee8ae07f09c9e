package text

import (
	"image/color"
	"slices"
	"testing"
)

func TestDirectionString(t *testing.T) {
	tests := []struct {
		d    Direction
		want string
	}{
		{DirectionLTR, "LTR"},
		{DirectionRTL, "RTL"},
		{Direction(99), unknownStr},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("Direction(%d).String() = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestSizeFits(t *testing.T) {
	tests := []struct {
		name string
		s    Size
		box  Size
		want bool
	}{
		{"inside", Size{10, 10}, Size{20, 20}, true},
		{"exact", Size{20, 20}, Size{20, 20}, true},
		{"too wide", Size{21, 10}, Size{20, 20}, false},
		{"too tall", Size{10, 21}, Size{20, 20}, false},
		{"unbounded height", Size{10, 500}, Size{20, 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Fits(tt.box); got != tt.want {
				t.Errorf("Fits() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyMinMax(t *testing.T) {
	buffer := []float64{4, 6, 8, 10, 12}
	ApplyMinMax([]float64{5}, []float64{10}, 5, buffer)
	want := []float64{5, 6, 8, 10, 10}
	if !slices.Equal(buffer, want) {
		t.Errorf("ApplyMinMax = %v, want %v", buffer, want)
	}
}

func TestApplyMinMaxPartialComponents(t *testing.T) {
	// Two elements of three components; only the first component is bounded.
	buffer := []float64{-1, -5, 50, 20, 7, -3}
	ApplyMinMax([]float64{0}, []float64{10}, 2, buffer)
	want := []float64{0, -5, 50, 10, 7, -3}
	if !slices.Equal(buffer, want) {
		t.Errorf("ApplyMinMax = %v, want %v", buffer, want)
	}
}

func TestApplyMinMaxNoBounds(t *testing.T) {
	buffer := []float64{1, 2, 3}
	ApplyMinMax(nil, nil, 3, buffer)
	if !slices.Equal(buffer, []float64{1, 2, 3}) {
		t.Errorf("ApplyMinMax without bounds changed buffer: %v", buffer)
	}
}

func TestUnderlineCopyIfNotDefined(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}

	outer := UnderlineStyleProperties{
		Color: blue, ColorDefined: true,
		Height: 3, HeightDefined: true,
	}
	inner := UnderlineStyleProperties{Color: red, ColorDefined: true}

	inner.CopyIfNotDefined(outer)

	if inner.Color != red {
		t.Errorf("Color = %v, want inner color %v", inner.Color, red)
	}
	if !inner.HeightDefined || inner.Height != 3 {
		t.Errorf("Height = %v (defined %v), want outer height 3", inner.Height, inner.HeightDefined)
	}
	if inner.TypeDefined {
		t.Error("Type became defined although neither span defines it")
	}
}

func TestUnderlineOverrideByDefinedProperties(t *testing.T) {
	base := UnderlineStyleProperties{
		Type: UnderlineSolid, TypeDefined: true,
		Height: 1, HeightDefined: true,
	}
	override := UnderlineStyleProperties{
		Type: UnderlineDashed, TypeDefined: true,
		DashGap: 2, DashGapDefined: true,
	}
	base.OverrideByDefinedProperties(override)

	if base.Type != UnderlineDashed {
		t.Errorf("Type = %v, want Dashed", base.Type)
	}
	if base.Height != 1 {
		t.Errorf("Height = %v, want untouched 1", base.Height)
	}
	if !base.DashGapDefined || base.DashGap != 2 {
		t.Errorf("DashGap = %v, want 2", base.DashGap)
	}
}

func TestUtf8RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"Hello world",
		"مرحبا بالعالم",
		"AB\U0001F468\u200d\U0001F469\u200d\U0001F467\u200d\U0001F466AB",
		"日本語テキスト",
	}
	for _, in := range inputs {
		chars, replaced := StringToUtf32(in)
		if replaced {
			t.Errorf("%q: unexpected replacement", in)
		}
		if got := Utf32ToString(chars); got != in {
			t.Errorf("round trip = %q, want %q", got, in)
		}
	}
}

func TestUtf8ToUtf32Permissive(t *testing.T) {
	chars, replaced := Utf8ToUtf32([]byte{'a', 0xff, 'b', 0xe2, 0x82})
	if !replaced {
		t.Fatal("expected replacement for invalid input")
	}
	if chars[0] != 'a' || chars[1] != CharReplacement || chars[2] != 'b' {
		t.Errorf("decoded = %q", chars)
	}
}

func TestDetectScript(t *testing.T) {
	tests := []struct {
		name string
		r    rune
		want Script
	}{
		{"Latin A", 'A', ScriptLatin},
		{"space", ' ', ScriptCommon},
		{"digit", '7', ScriptCommon},
		{"Latin e-acute", 'é', ScriptLatin},
		{"Cyrillic A", 'А', ScriptCyrillic},
		{"Greek alpha", 'α', ScriptGreek},
		{"Arabic Alef", 'ا', ScriptArabic},
		{"Hebrew Alef", 'א', ScriptHebrew},
		{"Han", '中', ScriptHan},
		{"Hiragana", 'あ', ScriptHiragana},
		{"Hangul", '가', ScriptHangul},
		{"Devanagari", 'क', ScriptDevanagari},
		{"Thai", 'ก', ScriptThai},
		{"grinning face", '\U0001F600', ScriptEmoji},
		{"ZWJ", '\u200d', ScriptInherited},
		{"combining acute", '\u0301', ScriptInherited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectScript(tt.r); got != tt.want {
				t.Errorf("DetectScript(%U) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestIsEmojiCharacter(t *testing.T) {
	tests := []struct {
		r    rune
		want bool
	}{
		{'\U0001F600', true}, // grinning face
		{'\U0001F3FB', true}, // skin tone modifier
		{'\U0001F680', true}, // rocket
		{'\U0001F9D1', true}, // person
		{'\U0001F1FA', true}, // regional indicator U
		{'\u2764', true},     // heavy black heart
		{'\u20E3', true},     // combining enclosing keycap
		{'A', false},
		{'7', false},
		{'\u200d', false},
		{'中', false},
	}
	for _, tt := range tests {
		if got := IsEmojiCharacter(tt.r); got != tt.want {
			t.Errorf("IsEmojiCharacter(%U) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestScriptNeutralAndRTL(t *testing.T) {
	if !ScriptCommon.IsNeutral() || !ScriptInherited.IsNeutral() {
		t.Error("Common and Inherited must be neutral")
	}
	if ScriptLatin.IsNeutral() {
		t.Error("Latin must not be neutral")
	}
	if !ScriptArabic.IsRTL() || !ScriptHebrew.IsRTL() || ScriptLatin.IsRTL() {
		t.Error("unexpected IsRTL result")
	}
}

func TestCountOverlappingRuns(t *testing.T) {
	runs := []ScriptRun{
		{CharacterRun{0, 5}, ScriptLatin},
		{CharacterRun{5, 3}, ScriptArabic},
		{CharacterRun{8, 4}, ScriptLatin},
	}
	tests := []struct {
		index, count, want int
	}{
		{0, 12, 3},
		{4, 2, 2},  // partial overlap with the first two runs
		{6, 1, 1},  // inside the second run
		{7, 2, 2},  // straddles runs 2 and 3
		{12, 3, 0}, // past the end
		{3, 0, 0},  // empty range
	}
	for _, tt := range tests {
		if got := CountOverlappingRuns(runs, tt.index, tt.count); got != tt.want {
			t.Errorf("CountOverlappingRuns(%d, %d) = %d, want %d", tt.index, tt.count, got, tt.want)
		}
	}
	if got := OverlappingRuns(runs, 7, 2); len(got) != 2 || got[0].Script != ScriptArabic {
		t.Errorf("OverlappingRuns(7, 2) = %v", got)
	}
}

func TestFindRun(t *testing.T) {
	runs := []FontRun{
		{CharacterRun: CharacterRun{0, 2}, FontID: 1},
		{CharacterRun: CharacterRun{2, 6}, FontID: 2},
		{CharacterRun: CharacterRun{8, 1}, FontID: 3},
	}
	for index, want := range map[int]int{0: 0, 1: 0, 2: 1, 7: 1, 8: 2, 9: -1, -1: -1} {
		if got := FindRun(runs, index); got != want {
			t.Errorf("FindRun(%d) = %d, want %d", index, got, want)
		}
	}
}

func TestSpecialCharacterPredicates(t *testing.T) {
	for _, c := range []Character{'\n', '\r', CharParagraphSeparator, CharLineSeparator} {
		if !IsNewParagraph(c) {
			t.Errorf("IsNewParagraph(%U) = false", c)
		}
	}
	if IsNewParagraph('a') {
		t.Error("IsNewParagraph('a') = true")
	}
	for _, c := range []Character{CharLeftToRightMark, CharRightToLeftMark, CharArabicLetterMark, 0x202B, 0x2067} {
		if !IsDirectionMark(c) {
			t.Errorf("IsDirectionMark(%U) = false", c)
		}
	}
	if !IsZeroWidth(CharZeroWidthJoiner) || IsZeroWidth(' ') {
		t.Error("unexpected IsZeroWidth result")
	}
}
