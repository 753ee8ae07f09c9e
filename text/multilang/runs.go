package multilang

import "github.com/gogpu/textkit/text"

// cutRuns returns copies of the runs clipped to [from, to), moved by shift.
func cutRuns[R any](runs []R, get func(*R) *text.CharacterRun, from, to, shift int) []R {
	var out []R
	for _, r := range runs {
		cr := get(&r)
		start, end := max(cr.CharacterIndex, from), min(cr.End(), to)
		if start >= end {
			continue
		}
		cr.CharacterIndex = start + shift
		cr.NumberOfCharacters = end - start
		out = append(out, r)
	}
	return out
}

// appendCoalesced appends r to runs, merging it into the last run when
// both are contiguous and same reports them equal.
func appendCoalesced[R any](runs []R, r R, get func(*R) *text.CharacterRun, same func(a, b *R) bool) []R {
	if n := len(runs); n > 0 {
		last := &runs[n-1]
		lr, cr := get(last), get(&r)
		if lr.End() == cr.CharacterIndex && same(last, &r) {
			lr.NumberOfCharacters += cr.NumberOfCharacters
			return runs
		}
	}
	return append(runs, r)
}

func scriptRange(r *text.ScriptRun) *text.CharacterRun { return &r.CharacterRun }
func fontRange(r *text.FontRun) *text.CharacterRun     { return &r.CharacterRun }

func sameScript(a, b *text.ScriptRun) bool { return a.Script == b.Script }

func sameFont(a, b *text.FontRun) bool {
	return a.FontID == b.FontID && a.IsItalicRequired == b.IsItalicRequired && a.IsBoldRequired == b.IsBoldRequired
}

// runsLength returns the number of characters covered by runs.
func runsLength[R text.Ranged](runs []R) int {
	if len(runs) == 0 {
		return 0
	}
	return runs[len(runs)-1].Range().End()
}
