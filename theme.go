package mdtree

import (
	"sort"
	"strings"

	"pkt.systems/mdtree/internal/palette"
)

const ansiReset = palette.Reset

// Style describes a terminal style as an ANSI prefix sequence.
type Style struct {
	Prefix string
}

// Styles groups the styles used by tree dumps.
type Styles struct {
	LineNumber Style
	LineKind   Style
	Node       Style
	Text       Style
	LinkURL    Style
	Meta       Style
}

// Theme provides named styles for tree dumps.
type Theme interface {
	Name() string
	Styles() Styles
}

type theme struct {
	name   string
	styles Styles
}

func (t theme) Name() string   { return t.name }
func (t theme) Styles() Styles { return t.styles }

// NewTheme returns a Theme from a Styles definition.
func NewTheme(name string, styles Styles) Theme {
	return theme{name: name, styles: styles}
}

func style(prefixes ...string) Style {
	var b strings.Builder
	for _, p := range prefixes {
		b.WriteString(p)
	}
	return Style{Prefix: b.String()}
}

func stylesFromPalette(p palette.Palette) Styles {
	return Styles{
		LineNumber: style(palette.Faint, p.LineNumber),
		LineKind:   style(palette.Bold, p.LineKind),
		Node:       style(p.Node),
		Text:       style(p.Text),
		LinkURL:    style(palette.Underline, p.LinkURL),
		Meta:       style(palette.Italic, p.Meta),
	}
}

var builtinThemes = map[string]Theme{
	"default": theme{name: "default", styles: stylesFromPalette(palette.PaletteDefault)},
	"gruvbox": theme{name: "gruvbox", styles: stylesFromPalette(palette.PaletteGruvbox)},
	"nord":    theme{name: "nord", styles: stylesFromPalette(palette.PaletteNord)},
	"dracula": theme{name: "dracula", styles: stylesFromPalette(palette.PaletteDracula)},
	"boring":  theme{name: "boring"},
}

// AvailableThemes returns the names of built-in themes.
func AvailableThemes() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme by name.
func ThemeByName(name string) (Theme, bool) {
	if name == "" {
		return builtinThemes["default"], true
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	theme, ok := builtinThemes[normalized]
	return theme, ok
}

// DefaultTheme returns the default built-in theme.
func DefaultTheme() Theme {
	return builtinThemes["default"]
}

// BoringTheme returns a theme without any ANSI styling.
func BoringTheme() Theme {
	return builtinThemes["boring"]
}

func (s Style) apply(text string) string {
	if s.Prefix == "" || text == "" {
		return text
	}
	return s.Prefix + text + ansiReset
}
