package model

import (
	"slices"
	"testing"

	"github.com/gogpu/textkit/text"
)

func TestBuildConversionTables(t *testing.T) {
	tests := []struct {
		name               string
		glyphsToCharacters []int
		charactersPerGlyph []int
		numberOfCharacters int
		wantCharToGlyph    []int
		wantGlyphsPerChar  []int
	}{
		{
			name:               "one to one",
			glyphsToCharacters: []int{0, 1, 2},
			charactersPerGlyph: []int{1, 1, 1},
			numberOfCharacters: 3,
			wantCharToGlyph:    []int{0, 1, 2},
			wantGlyphsPerChar:  []int{1, 1, 1},
		},
		{
			name:               "ligature fi",
			glyphsToCharacters: []int{0, 2},
			charactersPerGlyph: []int{2, 1},
			numberOfCharacters: 3,
			wantCharToGlyph:    []int{0, 0, 1},
			wantGlyphsPerChar:  []int{1, 0, 1},
		},
		{
			name:               "one character two glyphs",
			glyphsToCharacters: []int{0, 0, 1},
			charactersPerGlyph: []int{1, 0, 1},
			numberOfCharacters: 2,
			wantCharToGlyph:    []int{0, 2},
			wantGlyphsPerChar:  []int{2, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c2g, gpc := BuildConversionTables(tt.glyphsToCharacters, tt.charactersPerGlyph, tt.numberOfCharacters)
			if !slices.Equal(c2g, tt.wantCharToGlyph) {
				t.Errorf("charactersToGlyph = %v, want %v", c2g, tt.wantCharToGlyph)
			}
			if !slices.Equal(gpc, tt.wantGlyphsPerChar) {
				t.Errorf("glyphsPerCharacter = %v, want %v", gpc, tt.wantGlyphsPerChar)
			}
		})
	}
}

func TestVisualModelLines(t *testing.T) {
	v := NewVisualModel()
	v.SetLines([]text.LineRun{
		{Glyphs: text.GlyphRun{GlyphIndex: 0, NumberOfGlyphs: 4}, Characters: text.CharacterRun{CharacterIndex: 0, NumberOfCharacters: 4}},
		{Glyphs: text.GlyphRun{GlyphIndex: 4, NumberOfGlyphs: 3}, Characters: text.CharacterRun{CharacterIndex: 4, NumberOfCharacters: 3}},
	})
	if got := v.LineOfCharacter(5); got != 1 {
		t.Errorf("LineOfCharacter(5) = %d, want 1", got)
	}
	if got := v.LineOfCharacter(99); got != 1 {
		t.Errorf("LineOfCharacter(99) = %d, want last line", got)
	}
	if got := v.LineOfGlyph(2); got != 0 {
		t.Errorf("LineOfGlyph(2) = %d, want 0", got)
	}
	if got := v.GetNumberOfLines(3, 2); got != 2 {
		t.Errorf("GetNumberOfLines(3, 2) = %d, want 2", got)
	}
}

func TestModelReset(t *testing.T) {
	m := New()
	m.Logical.SetText(chars("abc"))
	m.ScrollPosition = text.Vector2{X: 4}
	m.MultiLine = true
	m.Reset()
	if !m.IsEmpty() {
		t.Error("Reset must clear the text")
	}
	if m.ScrollPosition != (text.Vector2{}) {
		t.Error("Reset must clear the scroll position")
	}
	if !m.MultiLine {
		t.Error("Reset must keep settings")
	}
}
