package layout

import (
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/textkit/text"
	"github.com/gogpu/textkit/text/segmentation"
)

// SetBidirectionalInfo computes the bidirectional information of every
// paragraph holding right-to-left characters, and the direction of every
// character. Paragraphs without right-to-left characters get no info run
// unless base is right-to-left.
//
// Embedding levels follow the paragraph direction: in a left-to-right
// paragraph left-to-right text is level 0 and right-to-left text level 1;
// in a right-to-left paragraph they are 2 and 1.
func SetBidirectionalInfo(chars []text.Character, base text.Direction) ([]text.BidirectionalParagraphInfoRun, []text.Direction) {
	directions := make([]text.Direction, len(chars))
	var paragraphs []text.BidirectionalParagraphInfoRun
	if len(chars) == 0 {
		return nil, directions
	}
	for _, p := range segmentation.Paragraphs(chars) {
		para := chars[p.CharacterIndex:p.End()]
		if !hasRightToLeft(para) && base != text.DirectionRTL {
			continue
		}
		dir := paragraphDirection(para, base)
		levels := paragraphLevels(para, dir)
		for i, l := range levels {
			if l%2 == 1 {
				directions[p.CharacterIndex+i] = text.DirectionRTL
			}
		}
		paragraphs = append(paragraphs, text.BidirectionalParagraphInfoRun{
			CharacterRun: p,
			Direction:    dir,
			Levels:       levels,
		})
	}
	return paragraphs, directions
}

func hasRightToLeft(chars []text.Character) bool {
	for _, c := range chars {
		switch classOf(c) {
		case bidi.R, bidi.AL, bidi.RLE, bidi.RLO, bidi.RLI:
			return true
		}
	}
	return false
}

func classOf(c text.Character) bidi.Class {
	props, _ := bidi.LookupRune(c)
	return props.Class()
}

// paragraphDirection returns the direction of the first strong character,
// or base when there is none.
func paragraphDirection(chars []text.Character, base text.Direction) text.Direction {
	for _, c := range chars {
		switch classOf(c) {
		case bidi.L:
			return text.DirectionLTR
		case bidi.R, bidi.AL:
			return text.DirectionRTL
		}
	}
	return base
}

// paragraphLevels returns the embedding level of every character of one
// paragraph. The paragraph separator takes the paragraph level.
func paragraphLevels(chars []text.Character, dir text.Direction) []uint8 {
	levels := make([]uint8, len(chars))
	ltrLevel, rtlLevel := uint8(0), uint8(1)
	if dir == text.DirectionRTL {
		ltrLevel = 2
	}
	paragraphLevel := ltrLevel
	if dir == text.DirectionRTL {
		paragraphLevel = rtlLevel
	}
	for i := range levels {
		levels[i] = paragraphLevel
	}

	body := chars
	for len(body) > 0 && text.IsNewParagraph(body[len(body)-1]) {
		body = body[:len(body)-1]
	}
	if len(body) == 0 {
		return levels
	}

	defaultDir := bidi.LeftToRight
	if dir == text.DirectionRTL {
		defaultDir = bidi.RightToLeft
	}
	var p bidi.Paragraph
	if _, err := p.SetString(string(body), bidi.DefaultDirection(defaultDir)); err != nil {
		return scriptLevels(body, levels, ltrLevel, rtlLevel)
	}
	ordering, err := p.Order()
	if err != nil {
		return scriptLevels(body, levels, ltrLevel, rtlLevel)
	}
	// Run positions are rune indices, end inclusive.
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		start, end := run.Pos()
		level := ltrLevel
		if run.Direction() == bidi.RightToLeft {
			level = rtlLevel
		}
		for j := start; j <= end && j < len(body); j++ {
			levels[j] = level
		}
	}
	return levels
}

// scriptLevels derives levels from the character scripts when the bidi
// algorithm fails.
func scriptLevels(body []text.Character, levels []uint8, ltrLevel, rtlLevel uint8) []uint8 {
	for i, c := range body {
		switch classOf(c) {
		case bidi.R, bidi.AL:
			levels[i] = rtlLevel
		case bidi.L:
			levels[i] = ltrLevel
		}
	}
	return levels
}

// visualOrder returns the glyphs [start, end) in visual order, given the
// level of every glyph. Trailing white space takes the paragraph level and
// runs are reversed from the highest level down to the lowest odd level.
func visualOrder(start, end int, levelOf func(glyph int) uint8, isWhiteSpace func(glyph int) bool, paragraphLevel uint8) []int {
	n := end - start
	order := make([]int, n)
	levels := make([]uint8, n)
	var highest, lowestOdd uint8 = 0, 255
	for i := range n {
		order[i] = start + i
		levels[i] = levelOf(start + i)
	}
	for i := n - 1; i >= 0 && isWhiteSpace(start+i); i-- {
		levels[i] = paragraphLevel
	}
	for _, l := range levels {
		highest = max(highest, l)
		if l%2 == 1 {
			lowestOdd = min(lowestOdd, l)
		}
	}
	for level := highest; level >= lowestOdd && level > 0; level-- {
		for i := 0; i < n; {
			if levels[i] < level {
				i++
				continue
			}
			j := i
			for j < n && levels[j] >= level {
				j++
			}
			reverse(order[i:j])
			reverse(levels[i:j])
			i = j
		}
	}
	return order
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
