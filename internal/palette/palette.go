// Package palette holds the ANSI colours behind the built-in dump themes.
package palette

import "strconv"

const (
	Reset     = "\x1b[0m"
	Bold      = "\x1b[1m"
	Faint     = "\x1b[2m"
	Italic    = "\x1b[3m"
	Underline = "\x1b[4m"
)

// Palette assigns a foreground sequence to every dump element.
type Palette struct {
	LineNumber string
	LineKind   string
	Node       string
	Text       string
	LinkURL    string
	Meta       string
}

// RGB returns a 24-bit foreground colour sequence.
func RGB(r, g, b uint8) string {
	return "\x1b[38;2;" + strconv.Itoa(int(r)) + ";" + strconv.Itoa(int(g)) + ";" + strconv.Itoa(int(b)) + "m"
}

var (
	PaletteDefault = Palette{
		LineNumber: RGB(0x6c, 0x70, 0x86),
		LineKind:   RGB(0x89, 0xb4, 0xfa),
		Node:       RGB(0xcb, 0xa6, 0xf7),
		Text:       RGB(0xa6, 0xe3, 0xa1),
		LinkURL:    RGB(0x74, 0xc7, 0xec),
		Meta:       RGB(0xf9, 0xe2, 0xaf),
	}
	PaletteGruvbox = Palette{
		LineNumber: RGB(0x92, 0x83, 0x74),
		LineKind:   RGB(0x83, 0xa5, 0x98),
		Node:       RGB(0xd3, 0x86, 0x9b),
		Text:       RGB(0xb8, 0xbb, 0x26),
		LinkURL:    RGB(0x8e, 0xc0, 0x7c),
		Meta:       RGB(0xfa, 0xbd, 0x2f),
	}
	PaletteNord = Palette{
		LineNumber: RGB(0x4c, 0x56, 0x6a),
		LineKind:   RGB(0x81, 0xa1, 0xc1),
		Node:       RGB(0xb4, 0x8e, 0xad),
		Text:       RGB(0xa3, 0xbe, 0x8c),
		LinkURL:    RGB(0x88, 0xc0, 0xd0),
		Meta:       RGB(0xeb, 0xcb, 0x8b),
	}
	PaletteDracula = Palette{
		LineNumber: RGB(0x62, 0x72, 0xa4),
		LineKind:   RGB(0x8b, 0xe9, 0xfd),
		Node:       RGB(0xff, 0x79, 0xc6),
		Text:       RGB(0x50, 0xfa, 0x7b),
		LinkURL:    RGB(0xbd, 0x93, 0xf9),
		Meta:       RGB(0xf1, 0xfa, 0x8c),
	}
)
