package multilang

import (
	"github.com/gogpu/textkit"
	"github.com/gogpu/textkit/text"
	"github.com/gogpu/textkit/text/segmentation"
)

// SetScripts computes the script runs of the whole text. The runs are
// sorted, contiguous and cover every character exactly once.
func (s *Support) SetScripts(chars []text.Character) []text.ScriptRun {
	return appendParagraphScripts(nil, chars, 0, len(chars))
}

// ReplaceScripts updates runs after an edit. chars is the text after the
// edit, in which removed characters at index were replaced by inserted
// characters. Only the paragraphs touched by the edit are recomputed.
//
// If runs do not describe the text before the edit, the scripts of the
// whole text are recomputed.
func (s *Support) ReplaceScripts(chars []text.Character, runs []text.ScriptRun, index, removed, inserted int) []text.ScriptRun {
	n := len(chars)
	oldLength := n - inserted + removed
	if index < 0 || removed < 0 || inserted < 0 || index+inserted > n || runsLength(runs) != oldLength {
		textkit.Logger().Debug("multilang: script runs out of sync, recomputing", "characters", n)
		return s.SetScripts(chars)
	}
	if n == 0 {
		return nil
	}

	start, _ := segmentation.ParagraphBounds(chars, index)
	_, end := segmentation.ParagraphBounds(chars, min(index+inserted, n-1))
	oldEnd := end - inserted + removed

	out := cutRuns(runs, scriptRange, 0, start, 0)
	out = appendParagraphScripts(out, chars, start, end)
	for _, r := range cutRuns(runs, scriptRange, oldEnd, oldLength, inserted-removed) {
		out = appendCoalesced(out, r, scriptRange, sameScript)
	}
	return out
}

// appendParagraphScripts resolves chars[from:to], which must start and end
// on paragraph boundaries, and appends the runs to out.
func appendParagraphScripts(out []text.ScriptRun, chars []text.Character, from, to int) []text.ScriptRun {
	for _, p := range segmentation.Paragraphs(chars[from:to]) {
		start := from + p.CharacterIndex
		scripts := resolveParagraph(chars[start : start+p.NumberOfCharacters])
		for i, script := range scripts {
			out = appendCoalesced(out, text.ScriptRun{
				CharacterRun: text.CharacterRun{CharacterIndex: start + i, NumberOfCharacters: 1},
				Script:       script,
			}, scriptRange, sameScript)
		}
	}
	return out
}

// resolveParagraph returns the script of every character of one paragraph.
//
// A neutral character takes the script of the character before it. Leading
// neutrals take the first script that follows them. A neutral run between
// two scripts of different writing direction takes the script of the
// paragraph's first character instead, so that the neutrals follow the
// paragraph direction. A paragraph without any script is Common.
func resolveParagraph(chars []text.Character) []text.Script {
	scripts := make([]text.Script, len(chars))
	first := -1
	for i, c := range chars {
		sc := text.DetectScript(c)
		// Combining marks and joiners stay with their base character.
		if sc == text.ScriptInherited && i > 0 && !scripts[i-1].IsNeutral() {
			sc = scripts[i-1]
		}
		scripts[i] = sc
		if first < 0 && !sc.IsNeutral() {
			first = i
		}
	}
	if first < 0 {
		for i := range scripts {
			scripts[i] = text.ScriptCommon
		}
		return scripts
	}

	paragraphScript := scripts[first]
	for i := 0; i < len(scripts); {
		if !scripts[i].IsNeutral() {
			i++
			continue
		}
		j := i
		for j < len(scripts) && scripts[j].IsNeutral() {
			j++
		}
		var resolved text.Script
		switch {
		case i == 0:
			resolved = scripts[j]
		case j == len(scripts):
			resolved = scripts[i-1]
		default:
			prev, next := scripts[i-1], scripts[j]
			resolved = prev
			if prev != next && prev.IsRTL() != next.IsRTL() {
				resolved = paragraphScript
				if resolved != prev && resolved != next {
					textkit.Logger().Debug("multilang: neutral run between mixed directions takes a non-adjacent script",
						"before", prev.String(), "after", next.String(), "paragraph", paragraphScript.String())
				}
			}
		}
		for k := i; k < j; k++ {
			scripts[k] = resolved
		}
		i = j
	}
	return scripts
}
