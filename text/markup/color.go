package markup

import (
	"image/color"
	"strings"
)

var namedColors = map[string]color.NRGBA{
	"black":       {A: 255},
	"white":       {R: 255, G: 255, B: 255, A: 255},
	"red":         {R: 255, A: 255},
	"green":       {G: 255, A: 255},
	"blue":        {B: 255, A: 255},
	"yellow":      {R: 255, G: 255, A: 255},
	"cyan":        {G: 255, B: 255, A: 255},
	"magenta":     {R: 255, B: 255, A: 255},
	"transparent": {},
}

// ParseColor parses a color name or a hex color in one of the forms RGB,
// RGBA, RRGGBB or RRGGBBAA, with an optional leading '#' or "0x".
func ParseColor(s string) (color.NRGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	switch {
	case strings.HasPrefix(s, "#"):
		s = s[1:]
	case strings.HasPrefix(s, "0x"):
		s = s[2:]
	}

	var r, g, b uint8
	a := uint8(255)
	var ok bool
	switch len(s) {
	case 3, 4:
		var v [4]uint8
		for i := 0; i < len(s); i++ {
			n, valid := hexDigit(s[i])
			if !valid {
				return color.NRGBA{}, false
			}
			v[i] = n * 17
		}
		r, g, b = v[0], v[1], v[2]
		if len(s) == 4 {
			a = v[3]
		}
		ok = true
	case 6, 8:
		if r, ok = hexByte(s[0:2]); !ok {
			break
		}
		if g, ok = hexByte(s[2:4]); !ok {
			break
		}
		if b, ok = hexByte(s[4:6]); !ok {
			break
		}
		if len(s) == 8 {
			a, ok = hexByte(s[6:8])
		}
	}
	if !ok {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}, true
}

func hexByte(s string) (uint8, bool) {
	hi, ok1 := hexDigit(s[0])
	lo, ok2 := hexDigit(s[1])
	return hi<<4 | lo, ok1 && ok2
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}
