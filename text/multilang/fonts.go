package multilang

import (
	"github.com/gogpu/textkit"
	"github.com/gogpu/textkit/text"
)

// ValidateFonts computes the font runs of the whole text.
//
// fonts holds runs already set for the text, or nil. A character keeps
// its set font when the font supports it. Otherwise the font requested by
// the font description runs (over defaults) is used. Without a requested
// family that is the default font of the script run the character belongs
// to, so neutral characters merged into a run share its font. When the
// font cannot display the character a fallback font is chosen for the
// run's script. Running ValidateFonts on its own output changes nothing.
func (s *Support) ValidateFonts(chars []text.Character, scripts []text.ScriptRun, descriptions []text.FontDescriptionRun, defaults FontDefaults, fonts []text.FontRun) []text.FontRun {
	return s.appendValidated(nil, chars, 0, len(chars), scripts, descriptions, defaults, fonts)
}

// ReplaceFonts updates font runs after an edit: removed characters at
// index were replaced by inserted characters and chars, scripts and
// descriptions describe the text after the edit. Runs outside the edit
// are kept and the inserted characters are validated.
func (s *Support) ReplaceFonts(chars []text.Character, scripts []text.ScriptRun, descriptions []text.FontDescriptionRun, defaults FontDefaults, fonts []text.FontRun, index, removed, inserted int) []text.FontRun {
	n := len(chars)
	oldLength := n - inserted + removed
	if index < 0 || removed < 0 || inserted < 0 || index+inserted > n || runsLength(fonts) != oldLength {
		textkit.Logger().Debug("multilang: font runs out of sync, revalidating", "characters", n)
		return s.ValidateFonts(chars, scripts, descriptions, defaults, nil)
	}

	out := cutRuns(fonts, fontRange, 0, index, 0)
	out = s.appendValidated(out, chars, index, index+inserted, scripts, descriptions, defaults, nil)
	for _, r := range cutRuns(fonts, fontRange, index+removed, oldLength, inserted-removed) {
		out = appendCoalesced(out, r, fontRange, sameFont)
	}
	return out
}

// appendValidated validates chars[from:to] and appends the font runs to out.
func (s *Support) appendValidated(out []text.FontRun, chars []text.Character, from, to int, scripts []text.ScriptRun, descriptions []text.FontDescriptionRun, defaults FontDefaults, fonts []text.FontRun) []text.FontRun {
	if from >= to {
		return out
	}
	requested := make(map[fallbackKey]text.FontID)
	scriptIndex, fontIndex := 0, 0
	scriptAt := func(i int) text.Script {
		for scriptIndex < len(scripts) && scripts[scriptIndex].End() <= i {
			scriptIndex++
		}
		if scriptIndex < len(scripts) && scripts[scriptIndex].Contains(i) {
			return scripts[scriptIndex].Script
		}
		return text.DetectScript(chars[i])
	}

	// The previous character's font is kept for characters of the same
	// script and style, so spaces inside a fallback run do not split it.
	var prevID text.FontID
	var prevScript text.Script
	var prevDesc text.FontDescription
	if n := len(out); n > 0 && out[n-1].End() == from {
		prevID = out[n-1].FontID
		prevScript = scriptAt(from - 1)
		prevDesc = describe(descriptions, defaults, from-1)
	}

	for i := from; i < to; i++ {
		c := chars[i]
		desc := describe(descriptions, defaults, i)
		script := scriptAt(i)

		var id text.FontID
		for fontIndex < len(fonts) && fonts[fontIndex].End() <= i {
			fontIndex++
		}
		if fontIndex < len(fonts) && fonts[fontIndex].Contains(i) {
			id = fonts[fontIndex].FontID
		}
		if (id == 0 || !s.client.IsCharacterSupported(id, c)) && prevID != 0 && script == prevScript && desc == prevDesc {
			id = prevID
		}
		if id == 0 || !s.client.IsCharacterSupported(id, c) {
			id = s.requestedFont(requested, script, desc)
		}
		if !s.client.IsCharacterSupported(id, c) {
			id = s.fallbackFont(c, script, desc)
		}
		prevID, prevScript, prevDesc = id, script, desc

		out = appendCoalesced(out, text.FontRun{
			CharacterRun:     text.CharacterRun{CharacterIndex: i, NumberOfCharacters: 1},
			FontID:           id,
			IsItalicRequired: desc.Slant == text.SlantItalic,
			IsBoldRequired:   desc.Weight >= text.WeightBold,
		}, fontRange, sameFont)
	}
	return out
}

// describe merges defaults with every description run covering index.
// Later runs override earlier ones, so nested spans win. defaults.PointSize
// wins over the size of defaults.Description; only a run sets another size.
func describe(runs []text.FontDescriptionRun, defaults FontDefaults, index int) text.FontDescription {
	desc := defaults.Description
	if defaults.PointSize > 0 {
		desc.PointSize = defaults.PointSize
	}
	for _, r := range runs {
		if r.CharacterIndex > index {
			break
		}
		if r.Contains(index) {
			r.Apply(&desc)
		}
	}
	return desc
}

// requestedFont resolves desc for a character of script. An undefined
// family, or a family that is not registered, resolves to the default font
// of the script.
func (s *Support) requestedFont(cache map[fallbackKey]text.FontID, script text.Script, desc text.FontDescription) text.FontID {
	key := fallbackKey{script: script, desc: desc}
	if id, ok := cache[key]; ok {
		return id
	}
	var id text.FontID
	if desc.Family != "" {
		var err error
		id, err = s.client.FontID(desc, desc.PointSize)
		if err != nil {
			textkit.Logger().Warn("multilang: font family unavailable, using default", "family", desc.Family, "err", err)
		}
	}
	if id == 0 {
		fallback := desc
		fallback.Family = ""
		id = s.client.DefaultFontForScript(script, fallback, desc.PointSize)
		if id == 0 {
			textkit.Logger().Warn("multilang: no font available", "script", script.String())
		}
	}
	cache[key] = id
	return id
}

// fallbackFont returns a font for c, a character of a script run of
// script. The last fallback of every script is reused while it keeps
// supporting the characters.
func (s *Support) fallbackFont(c text.Character, script text.Script, desc text.FontDescription) text.FontID {
	key := fallbackKey{script: script, desc: desc}
	if id, ok := s.fallbacks[key]; ok && s.client.IsCharacterSupported(id, c) {
		return id
	}
	id := s.client.FindFallbackFont(c, script, desc, desc.PointSize)
	s.fallbacks[key] = id
	textkit.Logger().Debug("multilang: fallback font", "script", script.String(), "font", uint32(id))
	return id
}
