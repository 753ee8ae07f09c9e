// Package markup parses styled text.
//
// The markup is HTML-like and tokenized with golang.org/x/net/html, which
// decodes character references and tolerates malformed input. Supported
// tags:
//
//	<color value="red|#rrggbb">     text color
//	<font family size weight slant> font description
//	<b>, <i>                        bold, italic
//	<u color height type dash-width dash-gap>
//	<char-spacing value>            extra advance per character, in pixels
//	<a href>                        anchor, underlined and colored
//	<br>                            line break
//
// Parsing never fails: problems are reported as ParseError diagnostics
// next to a result holding everything that could be parsed.
package markup

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/gogpu/textkit"
	"github.com/gogpu/textkit/text"
	"github.com/gogpu/textkit/text/model"
)

// Diagnostic causes.
var (
	ErrUnknownTag     = errors.New("markup: unknown tag")
	ErrUnmatchedClose = errors.New("markup: closing tag without opening tag")
	ErrUnclosedTag    = errors.New("markup: tag not closed")
	ErrBadAttribute   = errors.New("markup: bad attribute value")
	ErrSyntax         = errors.New("markup: syntax error")
)

// ParseError locates a markup problem.
type ParseError struct {
	// Offset is the byte offset of the offending token.
	Offset int
	Tag    string
	// Attribute is set for ErrBadAttribute.
	Attribute string
	Err       error
}

func (e *ParseError) Error() string {
	if e.Attribute != "" {
		return fmt.Sprintf("%v: <%s %s> at byte %d", e.Err, e.Tag, e.Attribute, e.Offset)
	}
	return fmt.Sprintf("%v: <%s> at byte %d", e.Err, e.Tag, e.Offset)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Anchor is a link span.
type Anchor struct {
	text.CharacterRun
	Href string
}

// AnchorColor is the default color of anchors.
var AnchorColor = color.NRGBA{B: 255, A: 255}

// Result is parsed markup: the plain text and its style runs. Runs are in
// the order their tags were opened, so a nested run follows and overrides
// the run enclosing it.
type Result struct {
	Text              []text.Character
	Colors            []text.ColorRun
	Fonts             []text.FontDescriptionRun
	Underlines        []text.UnderlinedCharacterRun
	CharacterSpacings []text.CharacterSpacingRun
	Anchors           []Anchor
	Diagnostics       []*ParseError
}

// Apply sets the text and the style runs of m.
func (r *Result) Apply(m *model.LogicalModel) {
	m.SetText(r.Text)
	m.SetColorRuns(r.Colors)
	m.SetFontDescriptionRuns(r.Fonts)
	m.SetUnderlineRuns(r.Underlines)
	m.SetCharacterSpacingRuns(r.CharacterSpacings)
}

// AnchorAt returns the anchor containing the character index.
func (r *Result) AnchorAt(index int) (Anchor, bool) {
	for _, a := range r.Anchors {
		if a.Contains(index) {
			return a, true
		}
	}
	return Anchor{}, false
}

// element is an open tag. end fixes the length of the runs it started.
type element struct {
	tag       string
	underline *text.UnderlineStyleProperties
	end       func(r *Result, length int)
}

type parser struct {
	res    Result
	stack  []element
	offset int
}

// Parse parses markup. The result is never nil; the error joins the
// diagnostics, if any.
func Parse(markup string) (*Result, error) {
	p := &parser{}
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		raw := len(z.Raw())
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				p.diagnose("", "", fmt.Errorf("%w: %v", ErrSyntax, err))
			}
			return p.finish()
		case html.TextToken:
			chars, _ := text.Utf8ToUtf32(z.Text())
			p.res.Text = append(p.res.Text, chars...)
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			attrs := map[string]string{}
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				attrs[string(k)] = string(v)
			}
			p.open(string(name), attrs, tt == html.SelfClosingTagToken)
		case html.EndTagToken:
			name, _ := z.TagName()
			p.close(string(name))
		}
		p.offset += raw
	}
}

func (p *parser) finish() (*Result, error) {
	for len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		p.diagnose(top.tag, "", ErrUnclosedTag)
		p.pop()
	}
	p.res.Colors = pruneEmpty(p.res.Colors, func(r text.ColorRun) int { return r.NumberOfCharacters })
	p.res.Fonts = pruneEmpty(p.res.Fonts, func(r text.FontDescriptionRun) int { return r.NumberOfCharacters })
	p.res.Underlines = pruneEmpty(p.res.Underlines, func(r text.UnderlinedCharacterRun) int { return r.NumberOfCharacters })
	p.res.CharacterSpacings = pruneEmpty(p.res.CharacterSpacings, func(r text.CharacterSpacingRun) int { return r.NumberOfCharacters })
	p.res.Anchors = pruneEmpty(p.res.Anchors, func(r Anchor) int { return r.NumberOfCharacters })

	if len(p.res.Diagnostics) == 0 {
		return &p.res, nil
	}
	textkit.Logger().Warn("markup: parsed with errors", "diagnostics", len(p.res.Diagnostics))
	errs := make([]error, len(p.res.Diagnostics))
	for i, d := range p.res.Diagnostics {
		errs[i] = d
	}
	return &p.res, errors.Join(errs...)
}

func pruneEmpty[R any](runs []R, length func(R) int) []R {
	out := runs[:0]
	for _, r := range runs {
		if length(r) > 0 {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (p *parser) diagnose(tag, attribute string, err error) {
	p.res.Diagnostics = append(p.res.Diagnostics, &ParseError{
		Offset:    p.offset,
		Tag:       tag,
		Attribute: attribute,
		Err:       err,
	})
}

func (p *parser) position() int { return len(p.res.Text) }

// open starts a span. Self-closing span tags have no effect.
func (p *parser) open(tag string, attrs map[string]string, selfClosing bool) {
	start := p.position()
	run := text.CharacterRun{CharacterIndex: start}
	el := element{tag: tag}

	switch tag {
	case "br":
		p.res.Text = append(p.res.Text, text.CharLineFeed)
		return
	case "color":
		c, ok := p.color(tag, attrs, "value")
		if !ok {
			break
		}
		i := len(p.res.Colors)
		p.res.Colors = append(p.res.Colors, text.ColorRun{CharacterRun: run, Color: c})
		el.end = func(r *Result, n int) { r.Colors[i].NumberOfCharacters = n }
	case "font", "b", "i":
		fr, ok := p.fontRun(tag, attrs)
		if !ok {
			break
		}
		fr.CharacterRun = run
		i := len(p.res.Fonts)
		p.res.Fonts = append(p.res.Fonts, fr)
		el.end = func(r *Result, n int) { r.Fonts[i].NumberOfCharacters = n }
	case "u":
		props := p.underline(tag, attrs)
		el.underline = p.inheritUnderline(props)
		i := len(p.res.Underlines)
		p.res.Underlines = append(p.res.Underlines, text.UnderlinedCharacterRun{CharacterRun: run, Properties: *el.underline})
		el.end = func(r *Result, n int) { r.Underlines[i].NumberOfCharacters = n }
	case "char-spacing":
		v, ok := p.float(tag, attrs, "value")
		if !ok {
			break
		}
		i := len(p.res.CharacterSpacings)
		p.res.CharacterSpacings = append(p.res.CharacterSpacings, text.CharacterSpacingRun{CharacterRun: run, Value: v})
		el.end = func(r *Result, n int) { r.CharacterSpacings[i].NumberOfCharacters = n }
	case "a":
		c := AnchorColor
		if _, ok := attrs["color"]; ok {
			if parsed, ok := p.color(tag, attrs, "color"); ok {
				c = parsed
			}
		}
		el.underline = p.inheritUnderline(text.UnderlineStyleProperties{})
		ci, ui, ai := len(p.res.Colors), len(p.res.Underlines), len(p.res.Anchors)
		p.res.Colors = append(p.res.Colors, text.ColorRun{CharacterRun: run, Color: c})
		p.res.Underlines = append(p.res.Underlines, text.UnderlinedCharacterRun{CharacterRun: run, Properties: *el.underline})
		p.res.Anchors = append(p.res.Anchors, Anchor{CharacterRun: run, Href: attrs["href"]})
		el.end = func(r *Result, n int) {
			r.Colors[ci].NumberOfCharacters = n
			r.Underlines[ui].NumberOfCharacters = n
			r.Anchors[ai].NumberOfCharacters = n
		}
	default:
		p.diagnose(tag, "", ErrUnknownTag)
		return
	}
	if selfClosing {
		return
	}
	start0 := start
	end := el.end
	el.end = func(r *Result, pos int) {
		if end != nil {
			end(r, pos-start0)
		}
	}
	p.stack = append(p.stack, el)
}

// close ends the innermost span with the tag. Spans opened inside it are
// closed as well and reported.
func (p *parser) close(tag string) {
	if !knownTag(tag) || tag == "br" {
		return
	}
	i := len(p.stack) - 1
	for i >= 0 && p.stack[i].tag != tag {
		i--
	}
	if i < 0 {
		p.diagnose(tag, "", ErrUnmatchedClose)
		return
	}
	for len(p.stack)-1 > i {
		p.diagnose(p.stack[len(p.stack)-1].tag, "", ErrUnclosedTag)
		p.pop()
	}
	p.pop()
}

func (p *parser) pop() {
	top := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	top.end(&p.res, p.position())
}

func knownTag(tag string) bool {
	switch tag {
	case "color", "font", "b", "i", "u", "char-spacing", "a", "br":
		return true
	}
	return false
}

// inheritUnderline completes props with the properties of the innermost
// enclosing underline.
func (p *parser) inheritUnderline(props text.UnderlineStyleProperties) *text.UnderlineStyleProperties {
	for i := len(p.stack) - 1; i >= 0; i-- {
		if outer := p.stack[i].underline; outer != nil {
			props.CopyIfNotDefined(*outer)
			break
		}
	}
	return &props
}

func (p *parser) color(tag string, attrs map[string]string, key string) (color.NRGBA, bool) {
	v, ok := attrs[key]
	if !ok {
		p.diagnose(tag, key, ErrBadAttribute)
		return color.NRGBA{}, false
	}
	c, ok := ParseColor(v)
	if !ok {
		p.diagnose(tag, key, ErrBadAttribute)
	}
	return c, ok
}

func (p *parser) float(tag string, attrs map[string]string, key string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(attrs[key]), 64)
	if err != nil {
		p.diagnose(tag, key, ErrBadAttribute)
		return 0, false
	}
	return v, true
}

var weights = map[string]text.FontWeight{
	"thin":       100,
	"extralight": 200,
	"light":      300,
	"normal":     text.WeightNormal,
	"regular":    text.WeightNormal,
	"medium":     500,
	"semibold":   600,
	"bold":       text.WeightBold,
	"extrabold":  800,
	"black":      900,
}

func (p *parser) fontRun(tag string, attrs map[string]string) (text.FontDescriptionRun, bool) {
	var fr text.FontDescriptionRun
	switch tag {
	case "b":
		fr.Description.Weight = text.WeightBold
		fr.WeightDefined = true
		return fr, true
	case "i":
		fr.Description.Slant = text.SlantItalic
		fr.SlantDefined = true
		return fr, true
	}
	if v, ok := attrs["family"]; ok && v != "" {
		fr.Description.Family = v
		fr.FamilyDefined = true
	}
	if _, ok := attrs["size"]; ok {
		if v, ok := p.float(tag, attrs, "size"); ok && v > 0 {
			fr.Description.PointSize = v
			fr.SizeDefined = true
		}
	}
	if v, ok := attrs["weight"]; ok {
		if w, found := weights[strings.ToLower(v)]; found {
			fr.Description.Weight = w
			fr.WeightDefined = true
		} else if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			fr.Description.Weight = text.FontWeight(n)
			fr.WeightDefined = true
		} else {
			p.diagnose(tag, "weight", ErrBadAttribute)
		}
	}
	if v, ok := attrs["slant"]; ok {
		switch strings.ToLower(v) {
		case "normal", "roman":
			fr.Description.Slant = text.SlantNormal
			fr.SlantDefined = true
		case "italic", "oblique":
			fr.Description.Slant = text.SlantItalic
			fr.SlantDefined = true
		default:
			p.diagnose(tag, "slant", ErrBadAttribute)
		}
	}
	return fr, true
}

func (p *parser) underline(tag string, attrs map[string]string) text.UnderlineStyleProperties {
	var props text.UnderlineStyleProperties
	if _, ok := attrs["color"]; ok {
		if c, ok := p.color(tag, attrs, "color"); ok {
			props.Color = c
			props.ColorDefined = true
		}
	}
	if v, ok := attrs["type"]; ok {
		switch strings.ToLower(v) {
		case "solid":
			props.Type, props.TypeDefined = text.UnderlineSolid, true
		case "dashed":
			props.Type, props.TypeDefined = text.UnderlineDashed, true
		case "double":
			props.Type, props.TypeDefined = text.UnderlineDouble, true
		default:
			p.diagnose(tag, "type", ErrBadAttribute)
		}
	}
	for _, f := range []struct {
		key     string
		value   *float64
		defined *bool
	}{
		{"height", &props.Height, &props.HeightDefined},
		{"dash-width", &props.DashWidth, &props.DashWidthDefined},
		{"dash-gap", &props.DashGap, &props.DashGapDefined},
	} {
		if _, ok := attrs[f.key]; !ok {
			continue
		}
		if v, ok := p.float(tag, attrs, f.key); ok && v >= 0 {
			*f.value, *f.defined = v, true
		}
	}
	return props
}
