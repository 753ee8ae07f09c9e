package layout

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/gogpu/textkit/text"
)

func TestSetBidirectionalInfo(t *testing.T) {
	t.Run("left to right only", func(t *testing.T) {
		paragraphs, directions := SetBidirectionalInfo([]text.Character("abc def"), text.DirectionLTR)
		if paragraphs != nil {
			t.Errorf("paragraphs = %+v, want none", paragraphs)
		}
		for i, d := range directions {
			if d != text.DirectionLTR {
				t.Errorf("direction[%d] = %v", i, d)
			}
		}
	})

	t.Run("hebrew in latin paragraph", func(t *testing.T) {
		paragraphs, directions := SetBidirectionalInfo([]text.Character("abc שלום"), text.DirectionLTR)
		if len(paragraphs) != 1 {
			t.Fatalf("paragraphs = %d, want 1", len(paragraphs))
		}
		p := paragraphs[0]
		if p.Direction != text.DirectionLTR {
			t.Errorf("paragraph direction = %v, want LTR", p.Direction)
		}
		want := []uint8{0, 0, 0, 0, 1, 1, 1, 1}
		if !slices.Equal(p.Levels, want) {
			t.Errorf("levels = %v, want %v", p.Levels, want)
		}
		for i := 4; i < 8; i++ {
			if directions[i] != text.DirectionRTL {
				t.Errorf("direction[%d] = %v, want RTL", i, directions[i])
			}
		}
	})

	t.Run("latin in hebrew paragraph", func(t *testing.T) {
		paragraphs, _ := SetBidirectionalInfo([]text.Character("שלום abc"), text.DirectionLTR)
		if len(paragraphs) != 1 || paragraphs[0].Direction != text.DirectionRTL {
			t.Fatalf("paragraphs = %+v, want one RTL paragraph", paragraphs)
		}
		levels := paragraphs[0].Levels
		for i := 0; i < 4; i++ {
			if levels[i] != 1 {
				t.Errorf("level[%d] = %d, want 1", i, levels[i])
			}
		}
		for i := 5; i < 8; i++ {
			if levels[i] != 2 {
				t.Errorf("level[%d] = %d, want 2", i, levels[i])
			}
		}
	})

	t.Run("only the paragraph with right to left text", func(t *testing.T) {
		paragraphs, _ := SetBidirectionalInfo([]text.Character("abc\nשלום"), text.DirectionLTR)
		if len(paragraphs) != 1 {
			t.Fatalf("paragraphs = %d, want 1", len(paragraphs))
		}
		want := text.CharacterRun{CharacterIndex: 4, NumberOfCharacters: 4}
		if paragraphs[0].CharacterRun != want {
			t.Errorf("paragraph = %+v, want %+v", paragraphs[0].CharacterRun, want)
		}
	})

	t.Run("right to left base", func(t *testing.T) {
		paragraphs, _ := SetBidirectionalInfo([]text.Character("123"), text.DirectionRTL)
		if len(paragraphs) != 1 || paragraphs[0].Direction != text.DirectionRTL {
			t.Errorf("paragraphs = %+v, want one RTL paragraph", paragraphs)
		}
	})
}

func TestVisualOrder(t *testing.T) {
	tests := []struct {
		name           string
		levels         []uint8
		space          []bool
		paragraphLevel uint8
		want           []int
	}{
		{"ltr", []uint8{0, 0, 0}, nil, 0, []int{0, 1, 2}},
		{"rtl run", []uint8{0, 0, 1, 1, 1}, nil, 0, []int{0, 1, 4, 3, 2}},
		{"ltr inside rtl", []uint8{1, 1, 2, 2, 1}, nil, 1, []int{4, 2, 3, 1, 0}},
		{"trailing space", []uint8{0, 1, 1}, []bool{false, false, true}, 0, []int{0, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := visualOrder(0, len(tt.levels),
				func(g int) uint8 { return tt.levels[g] },
				func(g int) bool { return tt.space != nil && tt.space[g] },
				tt.paragraphLevel)
			if !slices.Equal(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReorderLines(t *testing.T) {
	m := layoutText("ab שלום", text.Size{Width: wide, Height: wide}, nil)
	positions := m.Visual.GlyphPositions()
	if len(positions) != 7 {
		t.Fatalf("glyphs = %d, want 7", len(positions))
	}
	for g := 3; g < 6; g++ {
		if positions[g].X <= positions[g+1].X {
			t.Errorf("hebrew glyph %d at %v not right of glyph %d at %v", g, positions[g].X, g+1, positions[g+1].X)
		}
	}
	if positions[6].X <= positions[2].X {
		t.Errorf("hebrew run starts at %v, before the space at %v", positions[6].X, positions[2].X)
	}
}

func TestKinds(t *testing.T) {
	if !KindSingleLine.IsText() || !KindMultiLine.IsText() || KindGrid.IsText() {
		t.Error("IsText mismatch")
	}
	if s := KindSpiral.String(); s != "Spiral" {
		t.Errorf("String() = %q", s)
	}
	if _, err := KindMultiLine.LayoutItems(ItemParameters{Count: 1}); !errors.Is(err, ErrNotItemKind) {
		t.Errorf("text kind LayoutItems error = %v, want ErrNotItemKind", err)
	}

	p := ItemParameters{
		Count:    6,
		Box:      text.Size{Width: 100, Height: 100},
		ItemSize: text.Size{Width: 10, Height: 10},
		Columns:  3,
		Spacing:  2,
	}
	grid, err := KindGrid.LayoutItems(p)
	if err != nil {
		t.Fatal(err)
	}
	if grid[4].Position != (text.Vector2{X: 12, Y: 12}) {
		t.Errorf("grid item 4 at %v, want {12 12}", grid[4].Position)
	}

	p.Scroll = 2
	nav, _ := KindNavigation.LayoutItems(p)
	if nav[2].Position != (text.Vector2{X: 45, Y: 45}) || nav[2].Scale != 1 || nav[2].Depth != 0 {
		t.Errorf("current navigation item = %+v", nav[2])
	}
	if nav[3].Scale >= 1 || nav[3].Position.X <= nav[2].Position.X {
		t.Errorf("next navigation item = %+v", nav[3])
	}

	p.Scroll = 0
	spiral, _ := KindSpiral.LayoutItems(p)
	if math.Abs(spiral[0].Position.X-45) > 1e-9 || spiral[0].Depth != 0 {
		t.Errorf("front spiral item = %+v", spiral[0])
	}

	depth, _ := KindDepth.LayoutItems(p)
	if depth[0].Scale != 1 || depth[0].Position.Y != 90 {
		t.Errorf("front depth item = %+v", depth[0])
	}
	if depth[3].Scale >= 1 || depth[3].Position.Y >= depth[0].Position.Y {
		t.Errorf("second row depth item = %+v", depth[3])
	}
}
