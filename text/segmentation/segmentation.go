// Package segmentation computes line-break, word-break and grapheme-cluster
// information for UTF-32 text.
//
// Line breaking follows UAX #14 and word and grapheme boundaries follow
// UAX #29, both provided by github.com/rivo/uniseg. Results are indexed per
// character: entry i describes the opportunity after character i.
package segmentation

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/gogpu/textkit/text"
)

// cluster is one grapheme cluster with the boundaries following it.
type cluster struct {
	start, count int
	boundaries   int
}

// walk splits chars into grapheme clusters and calls fn for each of them.
func walk(chars []text.Character, fn func(c cluster)) {
	if len(chars) == 0 {
		return
	}
	str := text.Utf32ToString(chars)
	state := -1
	index := 0
	for len(str) > 0 {
		var c string
		var boundaries int
		c, str, boundaries, state = uniseg.StepString(str, state)
		n := utf8.RuneCountInString(c)
		fn(cluster{start: index, count: n, boundaries: boundaries})
		index += n
	}
}

// LineBreakInfo returns the line break opportunity after every character.
// Characters inside a grapheme cluster never allow a break. The last
// character always has LineMustBreak.
func LineBreakInfo(chars []text.Character) []text.LineBreakInfo {
	info := make([]text.LineBreakInfo, len(chars))
	walk(chars, func(c cluster) {
		last := c.start + c.count - 1
		switch c.boundaries & uniseg.MaskLine {
		case uniseg.LineMustBreak:
			info[last] = text.LineMustBreak
		case uniseg.LineCanBreak:
			info[last] = text.LineAllowBreak
		default:
			info[last] = text.LineNoBreak
		}
	})
	// uniseg reports the mandatory break after a newline on the cluster
	// containing it; make sure explicit paragraph separators always force.
	for i, ch := range chars {
		switch {
		case isCRLF(chars, i):
			info[i] = text.LineNoBreak
		case text.IsNewParagraph(ch):
			info[i] = text.LineMustBreak
		}
	}
	if n := len(info); n > 0 {
		info[n-1] = text.LineMustBreak
	}
	return info
}

// WordBreakInfo returns whether a word boundary follows every character.
func WordBreakInfo(chars []text.Character) []text.WordBreakInfo {
	info := make([]text.WordBreakInfo, len(chars))
	walk(chars, func(c cluster) {
		if c.boundaries&uniseg.MaskWord != 0 {
			info[c.start+c.count-1] = text.WordBreak
		}
	})
	return info
}

// CharacterRuns returns the grapheme clusters of chars.
func CharacterRuns(chars []text.Character) []text.CharacterRun {
	runs := make([]text.CharacterRun, 0, len(chars))
	walk(chars, func(c cluster) {
		runs = append(runs, text.CharacterRun{CharacterIndex: c.start, NumberOfCharacters: c.count})
	})
	return runs
}

// ClusterBoundary returns the largest grapheme cluster boundary of chars
// that is not after n.
func ClusterBoundary(chars []text.Character, n int) int {
	if n >= len(chars) {
		return len(chars)
	}
	boundary := 0
	for i, g := 0, uniseg.NewGraphemes(text.Utf32ToString(chars)); g.Next(); {
		i += len(g.Runes())
		if i > n {
			break
		}
		boundary = i
	}
	return boundary
}

// GetCharacterRun returns the grapheme cluster containing index. Out of
// range indices are clamped; an empty text yields an empty run.
func GetCharacterRun(chars []text.Character, index int) text.CharacterRun {
	if len(chars) == 0 {
		return text.CharacterRun{}
	}
	index = max(0, min(index, len(chars)-1))

	// Clusters never cross paragraph separators, so only the paragraph
	// containing index needs to be walked.
	start, end := ParagraphBounds(chars, index)
	var found text.CharacterRun
	walk(chars[start:end], func(c cluster) {
		if index-start >= c.start && index-start < c.start+c.count {
			found = text.CharacterRun{CharacterIndex: start + c.start, NumberOfCharacters: c.count}
		}
	})
	return found
}

// ParagraphBounds returns [start, end) of the paragraph containing index.
// The paragraph separator belongs to the paragraph it ends; CR LF is one
// separator.
func ParagraphBounds(chars []text.Character, index int) (int, int) {
	if len(chars) == 0 {
		return 0, 0
	}
	index = max(0, min(index, len(chars)-1))
	start := index
	for start > 0 {
		prev := chars[start-1]
		if text.IsNewParagraph(prev) && !isCRLF(chars, start-1) {
			break
		}
		start--
	}
	end := index
	for end < len(chars) && !text.IsNewParagraph(chars[end]) {
		end++
	}
	if end < len(chars) {
		if isCRLF(chars, end) {
			end++
		}
		end++
	}
	return start, end
}

// isCRLF reports whether chars[i] is the CR of a CR LF pair.
func isCRLF(chars []text.Character, i int) bool {
	return chars[i] == text.CharCarriageReturn && i+1 < len(chars) && chars[i+1] == text.CharLineFeed
}

// Paragraphs splits chars into paragraphs. Every paragraph but the last
// ends with its separator.
func Paragraphs(chars []text.Character) []text.CharacterRun {
	var out []text.CharacterRun
	start := 0
	for i, c := range chars {
		if text.IsNewParagraph(c) {
			// CR LF counts as one separator.
			if isCRLF(chars, i) {
				continue
			}
			out = append(out, text.CharacterRun{CharacterIndex: start, NumberOfCharacters: i + 1 - start})
			start = i + 1
		}
	}
	if start < len(chars) || len(out) == 0 {
		out = append(out, text.CharacterRun{CharacterIndex: start, NumberOfCharacters: len(chars) - start})
	}
	return out
}
