package text

import "github.com/go-text/typesetting/language"

// Script represents a Unicode script for text segmentation.
// Scripts are used to identify runs of text that should be shaped together.
type Script uint32

// Script constants for the scripts the pipeline distinguishes.
const (
	// ScriptCommon is used for punctuation, numbers, and symbols shared across scripts.
	ScriptCommon Script = iota
	// ScriptInherited is used for combining marks that inherit the script of the base character.
	ScriptInherited
	ScriptLatin
	ScriptCyrillic
	ScriptGreek
	ScriptArabic
	ScriptHebrew
	ScriptHan
	ScriptHiragana
	ScriptKatakana
	ScriptHangul
	ScriptDevanagari
	ScriptThai
	ScriptGeorgian
	ScriptArmenian
	ScriptBengali
	ScriptTamil
	ScriptTelugu
	ScriptKannada
	ScriptMalayalam
	ScriptGujarati
	ScriptOriya
	ScriptGurmukhi
	ScriptSinhala
	ScriptKhmer
	ScriptLao
	ScriptMyanmar
	ScriptTibetan
	ScriptEthiopic
	// ScriptEmoji is used for pictographic characters and emoji sequences.
	ScriptEmoji
	// ScriptUnknown is used for unrecognized scripts.
	ScriptUnknown
)

var scriptNames = [...]string{
	ScriptCommon:     "Common",
	ScriptInherited:  "Inherited",
	ScriptLatin:      "Latin",
	ScriptCyrillic:   "Cyrillic",
	ScriptGreek:      "Greek",
	ScriptArabic:     "Arabic",
	ScriptHebrew:     "Hebrew",
	ScriptHan:        "Han",
	ScriptHiragana:   "Hiragana",
	ScriptKatakana:   "Katakana",
	ScriptHangul:     "Hangul",
	ScriptDevanagari: "Devanagari",
	ScriptThai:       "Thai",
	ScriptGeorgian:   "Georgian",
	ScriptArmenian:   "Armenian",
	ScriptBengali:    "Bengali",
	ScriptTamil:      "Tamil",
	ScriptTelugu:     "Telugu",
	ScriptKannada:    "Kannada",
	ScriptMalayalam:  "Malayalam",
	ScriptGujarati:   "Gujarati",
	ScriptOriya:      "Oriya",
	ScriptGurmukhi:   "Gurmukhi",
	ScriptSinhala:    "Sinhala",
	ScriptKhmer:      "Khmer",
	ScriptLao:        "Lao",
	ScriptMyanmar:    "Myanmar",
	ScriptTibetan:    "Tibetan",
	ScriptEthiopic:   "Ethiopic",
	ScriptEmoji:      "Emoji",
	ScriptUnknown:    "Unknown",
}

// String returns the name of the script.
func (s Script) String() string {
	if int(s) < len(scriptNames) {
		return scriptNames[s]
	}
	return unknownStr
}

// IsRTL returns true if the script is written right-to-left.
func (s Script) IsRTL() bool {
	return s == ScriptArabic || s == ScriptHebrew
}

// IsNeutral reports whether the script does not start its own run.
func (s Script) IsNeutral() bool {
	return s == ScriptCommon || s == ScriptInherited
}

// Language returns the go-text script tag for s, used by the shaper.
func (s Script) Language() language.Script {
	for k, v := range fromLanguage {
		if v == s {
			return k
		}
	}
	switch s {
	case ScriptEmoji, ScriptCommon:
		return language.Common
	case ScriptInherited:
		return language.Inherited
	default:
		return language.Unknown
	}
}

var fromLanguage = map[language.Script]Script{
	language.Latin:      ScriptLatin,
	language.Cyrillic:   ScriptCyrillic,
	language.Greek:      ScriptGreek,
	language.Arabic:     ScriptArabic,
	language.Hebrew:     ScriptHebrew,
	language.Han:        ScriptHan,
	language.Hiragana:   ScriptHiragana,
	language.Katakana:   ScriptKatakana,
	language.Hangul:     ScriptHangul,
	language.Devanagari: ScriptDevanagari,
	language.Thai:       ScriptThai,
	language.Georgian:   ScriptGeorgian,
	language.Armenian:   ScriptArmenian,
	language.Bengali:    ScriptBengali,
	language.Tamil:      ScriptTamil,
	language.Telugu:     ScriptTelugu,
	language.Kannada:    ScriptKannada,
	language.Malayalam:  ScriptMalayalam,
	language.Gujarati:   ScriptGujarati,
	language.Oriya:      ScriptOriya,
	language.Gurmukhi:   ScriptGurmukhi,
	language.Sinhala:    ScriptSinhala,
	language.Khmer:      ScriptKhmer,
	language.Lao:        ScriptLao,
	language.Myanmar:    ScriptMyanmar,
	language.Tibetan:    ScriptTibetan,
	language.Ethiopic:   ScriptEthiopic,
}

// DetectScript returns the script of a single character.
//
// Punctuation, digits and whitespace return ScriptCommon; combining marks,
// variation selectors and joiners return ScriptCommon or ScriptInherited.
// Pictographs return ScriptEmoji.
func DetectScript(r rune) Script {
	if r < 0x80 {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			return ScriptLatin
		}
		return ScriptCommon
	}
	if IsEmojiCharacter(r) {
		return ScriptEmoji
	}
	ls := language.LookupScript(r)
	switch ls {
	case language.Common:
		return ScriptCommon
	case language.Inherited:
		return ScriptInherited
	}
	if s, ok := fromLanguage[ls]; ok {
		return s
	}
	return ScriptUnknown
}

// IsEmojiCharacter reports whether r defaults to emoji presentation or is
// an emoji component (skin tone, regional indicator, keycap).
func IsEmojiCharacter(r rune) bool {
	switch {
	case r >= 0x1F600 && r <= 0x1F64F: // Emoticons
		return true
	case r >= 0x1F300 && r <= 0x1F5FF: // Misc Symbols and Pictographs (incl. skin tones)
		return true
	case r >= 0x1F680 && r <= 0x1F6FF: // Transport and Map
		return true
	case r >= 0x1F900 && r <= 0x1FAFF: // Supplemental Symbols, Extended-A/B
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // Regional indicators
		return true
	case r >= 0x1F000 && r <= 0x1F0FF: // Mahjong, playing cards
		return true
	case r >= 0x2600 && r <= 0x27BF: // Misc symbols, dingbats
		return true
	case r == 0x20E3: // Combining enclosing keycap
		return true
	default:
		return false
	}
}
