package layout

import (
	"github.com/gogpu/textkit/text"
	"github.com/gogpu/textkit/text/model"
)

// alignLines computes the alignment offset of every line inside a box of the
// given width. Begin and End follow the direction of the line paragraph.
func alignLines(m *model.Model, width float64) {
	lines := m.Visual.Lines()
	for i := range lines {
		lines[i].AlignmentOffset = alignmentOffset(m.HorizontalAlignment, lines[i], width)
	}
}

func alignmentOffset(a text.HorizontalAlignment, line text.LineRun, width float64) float64 {
	free := width - line.Width
	rtl := line.Direction.IsRTL()
	var offset float64
	switch a {
	case text.AlignCenter:
		offset = free / 2
	case text.AlignEnd:
		if !rtl {
			offset = free
		}
	default:
		if rtl {
			offset = free
		}
	}
	// Trailing white space of a right-to-left line is drawn on its left.
	if rtl {
		offset -= line.Extra
	}
	return offset
}

// VerticalOffset returns the offset of a block of the given height inside
// a box of height boxHeight.
func VerticalOffset(a text.VerticalAlignment, height, boxHeight float64) float64 {
	switch a {
	case text.AlignMiddle:
		return (boxHeight - height) / 2
	case text.AlignBottom:
		return boxHeight - height
	}
	return 0
}

// ClampScroll keeps the scroll position of m in the range where the laid
// out text still covers a box of the given size.
func ClampScroll(m *model.Model, box text.Size) {
	size := m.Visual.LayoutSize
	m.ScrollPosition.X = clampf(m.ScrollPosition.X, min(0, box.Width-size.Width), 0)
	m.ScrollPosition.Y = clampf(m.ScrollPosition.Y, min(0, box.Height-size.Height), 0)
}

func clampf(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
