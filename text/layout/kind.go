package layout

import (
	"errors"
	"math"

	"github.com/gogpu/textkit/text"
	"github.com/gogpu/textkit/text/model"
)

// ErrNotItemKind is returned when item boxes are requested from a text
// layout kind.
var ErrNotItemKind = errors.New("layout: kind does not lay out items")

// Kind is a layout strategy. SingleLine and MultiLine lay out text; the
// other kinds position the item boxes of a host item view.
type Kind uint8

const (
	KindSingleLine Kind = iota
	KindMultiLine
	KindDepth
	KindNavigation
	KindSpiral
	KindGrid
)

// ItemParameters describes the items of an item view.
type ItemParameters struct {
	Count    int
	Box      text.Size
	ItemSize text.Size
	// Columns is the number of columns of the grid and depth kinds and the
	// number of items per turn of the spiral kind.
	Columns int
	Spacing float64
	// Scroll is the scroll position, in items (rows for grid and depth).
	Scroll float64
}

// ItemBox is the placement of one item.
type ItemBox struct {
	// Position is the top-left corner of the scaled item.
	Position text.Vector2
	Size     text.Size
	// Depth is the distance from the front plane.
	Depth float64
	Scale float64
}

type strategy struct {
	name  string
	text  bool
	wraps bool
	item  func(p ItemParameters, index int) ItemBox
}

var strategies = [...]strategy{
	KindSingleLine: {name: "SingleLine", text: true},
	KindMultiLine:  {name: "MultiLine", text: true, wraps: true},
	KindDepth:      {name: "Depth", item: depthItem},
	KindNavigation: {name: "Navigation", item: navigationItem},
	KindSpiral:     {name: "Spiral", item: spiralItem},
	KindGrid:       {name: "Grid", item: gridItem},
}

// String returns the name of the kind.
func (k Kind) String() string {
	if int(k) < len(strategies) {
		return strategies[k].name
	}
	return "Unknown"
}

// IsText reports whether k lays out text.
func (k Kind) IsText() bool {
	return int(k) < len(strategies) && strategies[k].text
}

// KindOf returns the text layout kind of m.
func KindOf(m *model.Model) Kind {
	if m.MultiLine {
		return KindMultiLine
	}
	return KindSingleLine
}

func kindOf(m *model.Model) strategy {
	return strategies[KindOf(m)]
}

// LayoutItems returns the boxes of the p.Count items.
func (k Kind) LayoutItems(p ItemParameters) ([]ItemBox, error) {
	if int(k) >= len(strategies) || strategies[k].item == nil {
		return nil, ErrNotItemKind
	}
	item := strategies[k].item
	p.Columns = max(p.Columns, 1)
	boxes := make([]ItemBox, p.Count)
	for i := range boxes {
		boxes[i] = item(p, i)
	}
	return boxes, nil
}

func scaled(s text.Size, scale float64) text.Size {
	return text.Size{Width: s.Width * scale, Height: s.Height * scale}
}

// gridItem places items in rows of p.Columns, scrolling vertically.
func gridItem(p ItemParameters, index int) ItemBox {
	row, col := index/p.Columns, index%p.Columns
	stepX := p.ItemSize.Width + p.Spacing
	stepY := p.ItemSize.Height + p.Spacing
	return ItemBox{
		Position: text.Vector2{X: float64(col) * stepX, Y: (float64(row) - p.Scroll) * stepY},
		Size:     p.ItemSize,
		Scale:    1,
	}
}

// depthItem places rows receding from the bottom of the box; rows behind
// the front row shrink and move up.
func depthItem(p ItemParameters, index int) ItemBox {
	row, col := index/p.Columns, index%p.Columns
	behind := max(float64(row)-p.Scroll, 0)
	scale := 1 / (1 + 0.25*behind)
	size := scaled(p.ItemSize, scale)
	stepX := (p.ItemSize.Width + p.Spacing) * scale
	rowWidth := stepX*float64(p.Columns) - p.Spacing*scale
	x := (p.Box.Width-rowWidth)/2 + float64(col)*stepX
	y := p.Box.Height - size.Height - behind*(p.ItemSize.Height+p.Spacing)*0.5*scale
	return ItemBox{
		Position: text.Vector2{X: x, Y: y},
		Size:     size,
		Depth:    behind * (p.ItemSize.Height + p.Spacing),
		Scale:    scale,
	}
}

// navigationItem places items on a horizontal strip with the current item
// centered; neighbours shrink with their distance.
func navigationItem(p ItemParameters, index int) ItemBox {
	offset := float64(index) - p.Scroll
	distance := math.Abs(offset)
	scale := 1 / (1 + 0.2*distance)
	size := scaled(p.ItemSize, scale)
	center := p.Box.Width/2 + offset*(p.ItemSize.Width+p.Spacing)
	return ItemBox{
		Position: text.Vector2{X: center - size.Width/2, Y: (p.Box.Height - size.Height) / 2},
		Size:     size,
		Depth:    distance * (p.ItemSize.Width + p.Spacing) / 2,
		Scale:    scale,
	}
}

// spiralItem places items on a helix around the vertical axis of the box,
// p.Columns items per turn.
func spiralItem(p ItemParameters, index int) ItemBox {
	offset := float64(index) - p.Scroll
	angle := offset * 2 * math.Pi / float64(p.Columns)
	radius := max(p.Box.Width-p.ItemSize.Width, 0) / 2
	rise := (p.ItemSize.Height + p.Spacing) / float64(p.Columns)
	return ItemBox{
		Position: text.Vector2{
			X: p.Box.Width/2 + radius*math.Sin(angle) - p.ItemSize.Width/2,
			Y: (p.Box.Height-p.ItemSize.Height)/2 + offset*rise,
		},
		Size:  p.ItemSize,
		Depth: radius * (1 - math.Cos(angle)),
		Scale: 1,
	}
}
