package text

import "image/color"

// UnderlineType selects the underline pattern.
type UnderlineType int

const (
	// UnderlineSolid draws a continuous line.
	UnderlineSolid UnderlineType = iota
	// UnderlineDashed draws dashes of DashWidth separated by DashGap.
	UnderlineDashed
	// UnderlineDouble draws two parallel lines.
	UnderlineDouble
)

// String returns the string representation of the underline type.
func (t UnderlineType) String() string {
	switch t {
	case UnderlineSolid:
		return "Solid"
	case UnderlineDashed:
		return "Dashed"
	case UnderlineDouble:
		return "Double"
	default:
		return unknownStr
	}
}

// UnderlineStyleProperties holds per-span underline overrides. Every field
// has a Defined bit; an undefined field inherits from the enclosing span.
type UnderlineStyleProperties struct {
	Type      UnderlineType
	Color     color.NRGBA
	Height    float64
	DashGap   float64
	DashWidth float64

	TypeDefined      bool
	ColorDefined     bool
	HeightDefined    bool
	DashGapDefined   bool
	DashWidthDefined bool
}

// CopyIfNotDefined copies the fields defined in other that are not defined
// in p. Fields p already defines are kept.
func (p *UnderlineStyleProperties) CopyIfNotDefined(other UnderlineStyleProperties) *UnderlineStyleProperties {
	if !p.TypeDefined && other.TypeDefined {
		p.Type = other.Type
		p.TypeDefined = true
	}
	if !p.ColorDefined && other.ColorDefined {
		p.Color = other.Color
		p.ColorDefined = true
	}
	if !p.HeightDefined && other.HeightDefined {
		p.Height = other.Height
		p.HeightDefined = true
	}
	if !p.DashGapDefined && other.DashGapDefined {
		p.DashGap = other.DashGap
		p.DashGapDefined = true
	}
	if !p.DashWidthDefined && other.DashWidthDefined {
		p.DashWidth = other.DashWidth
		p.DashWidthDefined = true
	}
	return p
}

// OverrideByDefinedProperties copies every field defined in other into p,
// regardless of whether p defines it.
func (p *UnderlineStyleProperties) OverrideByDefinedProperties(other UnderlineStyleProperties) *UnderlineStyleProperties {
	if other.TypeDefined {
		p.Type = other.Type
		p.TypeDefined = true
	}
	if other.ColorDefined {
		p.Color = other.Color
		p.ColorDefined = true
	}
	if other.HeightDefined {
		p.Height = other.Height
		p.HeightDefined = true
	}
	if other.DashGapDefined {
		p.DashGap = other.DashGap
		p.DashGapDefined = true
	}
	if other.DashWidthDefined {
		p.DashWidth = other.DashWidth
		p.DashWidthDefined = true
	}
	return p
}

// Resolved returns a copy with undefined fields filled from defaults.
func (p UnderlineStyleProperties) Resolved(defaults UnderlineStyleProperties) UnderlineStyleProperties {
	out := p
	out.CopyIfNotDefined(defaults)
	return out
}
