package mdtree

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/muesli/reflow/ansi"
)

const dumpIndent = "  "

// DumpRequest configures Dump.
type DumpRequest struct {
	Writer   io.Writer
	Document *Document
	// Width truncates text leaves to fit; 0 disables truncation.
	Width   int
	Theme   Theme
	Options []DumpOption
}

// Dump writes a readable outline of a document: an optional meta section,
// then one header per line followed by its inline tree.
func Dump(req DumpRequest) error {
	if req.Writer == nil {
		return fmt.Errorf("dump: writer is nil")
	}
	if req.Document == nil {
		return fmt.Errorf("dump: document is nil")
	}
	cfg := dumpConfig{}
	for _, opt := range req.Options {
		if opt != nil {
			opt(&cfg)
		}
	}
	d := newDumper(req.Theme, req.Width, cfg)
	d.meta(req.Document.Meta)
	for i := range req.Document.Lines {
		d.line(&req.Document.Lines[i])
	}
	if _, err := io.WriteString(req.Writer, d.out.String()); err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	return nil
}

// DumpFragment writes the outline of a single inline tree.
func DumpFragment(w io.Writer, frag Fragment, theme Theme) error {
	d := newDumper(theme, 0, dumpConfig{})
	d.fragment(frag, 0, "")
	if _, err := io.WriteString(w, d.out.String()); err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	return nil
}

type dumper struct {
	styles Styles
	width  int
	osc8   bool
	out    strings.Builder
}

func newDumper(theme Theme, width int, cfg dumpConfig) *dumper {
	if theme == nil {
		theme = DefaultTheme()
	}
	return &dumper{styles: theme.Styles(), width: width, osc8: cfg.osc8}
}

func (d *dumper) meta(meta map[string]any) {
	if len(meta) == 0 {
		return
	}
	keys := make([]string, 0, len(meta))
	for key := range meta {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	d.out.WriteString(d.styles.Meta.apply("meta"))
	d.out.WriteByte('\n')
	for _, key := range keys {
		d.out.WriteString(dumpIndent)
		d.out.WriteString(key)
		d.out.WriteString(": ")
		d.out.WriteString(fmt.Sprint(meta[key]))
		d.out.WriteByte('\n')
	}
}

func (d *dumper) line(line *Line) {
	d.out.WriteString(d.styles.LineNumber.apply(strconv.Itoa(line.Number)))
	d.out.WriteByte(' ')
	d.out.WriteString(d.styles.LineKind.apply(line.Kind.String()))
	d.out.WriteString(d.lineDetails(line))
	d.out.WriteByte('\n')
	if line.Kind == LineTableRow {
		for i, cell := range line.Cells {
			d.out.WriteString(dumpIndent)
			d.out.WriteString("cell ")
			d.out.WriteString(strconv.Itoa(i + 1))
			d.out.WriteByte('\n')
			d.fragment(cell, 2, "")
		}
		return
	}
	d.fragment(line.Content, 1, "")
}

func (d *dumper) lineDetails(line *Line) string {
	switch line.Kind {
	case LineHeading:
		details := " h" + strconv.Itoa(line.Level)
		if line.Anchor != "" {
			details += " #" + line.Anchor
		}
		return details
	case LineOrderedItem:
		return " " + strconv.Itoa(line.Ordinal) + "."
	case LineTaskItem:
		if line.Done {
			return " [x]"
		}
		return " [ ]"
	case LineFence:
		if line.Info != "" {
			return " " + strconv.Quote(line.Info)
		}
	case LineCode:
		return " " + d.quoted(line.Raw, len(strconv.Itoa(line.Number))+len(" code "))
	case LineImage:
		url := line.URL
		if d.width > 0 {
			url = fitURL(url, d.width-len(strconv.Itoa(line.Number))-len(" image "))
		}
		return " " + d.styles.LinkURL.apply(url)
	}
	return ""
}

// fragment writes one node per line, two spaces per nesting level. Text
// leaves under a link target become OSC 8 hyperlinks to href.
func (d *dumper) fragment(frag Fragment, depth int, href string) {
	pad := strings.Repeat(dumpIndent, depth)
	for _, n := range frag.nodes {
		d.out.WriteString(pad)
		if n.Kind == NodeText {
			text := d.styles.Text.apply(d.quoted(n.Text, len(pad)+len("Text ")))
			if href != "" {
				text = hyperlink(href, text)
			}
			d.out.WriteString(d.styles.Node.apply("Text"))
			d.out.WriteByte(' ')
			d.out.WriteString(text)
			d.out.WriteByte('\n')
			continue
		}
		d.out.WriteString(d.styles.Node.apply(n.Kind.String()))
		d.out.WriteByte('\n')
		childHref := href
		if n.Kind == NodeLinkURL && d.osc8 {
			childHref = n.PlainText()
		}
		d.fragment(n.Children, depth+1, childHref)
	}
}

// quoted returns the Go-quoted text, truncated to the columns left after used.
func (d *dumper) quoted(text string, used int) string {
	q := strconv.Quote(text)
	if d.width <= 0 {
		return q
	}
	limit := d.width - used
	if ansi.PrintableRuneWidth(q) <= limit {
		return q
	}
	return truncateWithEllipsis(q, limit)
}
