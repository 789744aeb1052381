package mdtree

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-slug"
)

// LineKind identifies what a source line was classified as.
type LineKind uint8

const (
	LineText LineKind = iota
	LineEmpty
	LineHeading
	LineQuote
	LineOrderedItem
	LineBulletItem
	LineTaskItem
	LineRule
	LineImage
	LineTableRow
	LineTableRule
	LineFence
	LineCode
	LineDefinition
	LineIndented
)

var lineKindNames = [...]string{
	LineText:        "text",
	LineEmpty:       "empty",
	LineHeading:     "heading",
	LineQuote:       "quote",
	LineOrderedItem: "ordered",
	LineBulletItem:  "bullet",
	LineTaskItem:    "task",
	LineRule:        "rule",
	LineImage:       "image",
	LineTableRow:    "table",
	LineTableRule:   "table-rule",
	LineFence:       "fence",
	LineCode:        "code",
	LineDefinition:  "definition",
	LineIndented:    "indented",
}

func (k LineKind) String() string {
	if int(k) < len(lineKindNames) {
		return lineKindNames[k]
	}
	return "LineKind(" + strconv.Itoa(int(k)) + ")"
}

// MarshalText encodes the kind by name.
func (k LineKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Line is one classified source line. Span holds the text handed to the
// inline engine and Content its tree; table rows use Cells instead.
type Line struct {
	Number  int        `json:"number"`
	Kind    LineKind   `json:"kind"`
	Raw     string     `json:"raw"`
	Level   int        `json:"level,omitempty"`
	Ordinal int        `json:"ordinal,omitempty"`
	ID      string     `json:"id,omitempty"`
	Anchor  string     `json:"anchor,omitempty"`
	Done    bool       `json:"done,omitempty"`
	Info    string     `json:"info,omitempty"`
	Alt     string     `json:"alt,omitempty"`
	URL     string     `json:"url,omitempty"`
	Span    string     `json:"-"`
	Content Fragment   `json:"content"`
	Cells   []Fragment `json:"cells,omitempty"`

	cellSpans []string
}

// hasSpan reports whether the line carries inline content.
func (l *Line) hasSpan() bool {
	switch l.Kind {
	case LineEmpty, LineRule, LineFence, LineCode, LineTableRule, LineTableRow:
		return false
	}
	return true
}

// ClassifyLine classifies a single line outside a code fence. Inline content
// is not parsed; see Parse.
func ClassifyLine(raw string) Line {
	line := Line{Kind: LineText, Raw: raw, Span: raw}
	switch {
	case strings.HasPrefix(raw, "#"):
		classifyHeading(&line)
	case strings.HasPrefix(raw, "> "):
		line.Kind = LineQuote
		line.Span = raw[2:]
	case strings.HasPrefix(raw, "- [ ] "):
		line.Kind = LineTaskItem
		line.Span = raw[6:]
	case strings.HasPrefix(raw, "- [x] "), strings.HasPrefix(raw, "- [X] "):
		line.Kind = LineTaskItem
		line.Done = true
		line.Span = raw[6:]
	case classifyOrdered(&line):
	case strings.HasPrefix(raw, "- "):
		line.Kind = LineBulletItem
		line.Span = raw[2:]
	case strings.HasPrefix(raw, "---"):
		line.Kind = LineRule
		line.Span = ""
	case strings.HasPrefix(raw, "!["):
		classifyImage(&line)
	case strings.HasPrefix(raw, "|"):
		classifyTableRow(&line)
	case strings.HasPrefix(raw, "```"):
		line.Kind = LineFence
		line.Info = strings.TrimSpace(raw[3:])
		line.Span = ""
	case strings.HasPrefix(raw, ": "):
		line.Kind = LineDefinition
		line.Span = raw[2:]
	case strings.HasPrefix(raw, "\t"):
		line.Kind = LineIndented
		line.Span = raw[1:]
	case strings.TrimSpace(raw) == "":
		line.Kind = LineEmpty
		line.Span = ""
	}
	return line
}

// classifyHeading handles "## title {#id}". Hashes must be followed by a
// space and number 1 to 6; otherwise the line stays text.
func classifyHeading(line *Line) {
	raw := line.Raw
	level := 0
	for level < len(raw) && raw[level] == '#' {
		level++
	}
	if level == len(raw) || raw[level] != ' ' || level > 6 {
		return
	}
	words := strings.Split(raw[level+1:], " ")
	var title strings.Builder
	for _, word := range words {
		if strings.HasPrefix(word, "{#") && strings.HasSuffix(word, "}") && len(word) > 3 {
			line.ID = word[2 : len(word)-1]
			break
		}
		title.WriteString(word)
		title.WriteByte(' ')
	}
	line.Kind = LineHeading
	line.Level = level
	line.Span = strings.TrimRight(title.String(), " ")
}

func classifyOrdered(line *Line) bool {
	raw := line.Raw
	i := 0
	for i < len(raw) && raw[i] >= '0' && raw[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(raw) || raw[i] != '.' {
		return false
	}
	n, err := strconv.Atoi(raw[:i])
	if err != nil {
		return false
	}
	line.Kind = LineOrderedItem
	line.Ordinal = n
	line.Span = strings.TrimPrefix(raw[i+1:], " ")
	return true
}

// classifyImage accepts "![alt](url)" with nothing after the closing paren.
func classifyImage(line *Line) {
	raw := line.Raw
	mid := strings.Index(raw, "](")
	if mid < 0 || !strings.HasSuffix(raw, ")") || mid+2 > len(raw)-1 {
		return
	}
	line.Kind = LineImage
	line.Alt = raw[2:mid]
	line.URL = raw[mid+2 : len(raw)-1]
	line.Span = line.Alt
}

func classifyTableRow(line *Line) {
	cells := splitTableCells(line.Raw)
	line.Span = ""
	if isTableRule(cells) {
		line.Kind = LineTableRule
		return
	}
	line.Kind = LineTableRow
	line.cellSpans = cells
}

// splitTableCells splits a row on unescaped '|', dropping the outer pipes.
// Escapes stay in the cell text for the inline engine to resolve.
func splitTableCells(raw string) []string {
	row := strings.TrimSpace(raw)
	row = strings.TrimPrefix(row, "|")
	if strings.HasSuffix(row, "|") && !escapedAt(row, len(row)-1) {
		row = row[:len(row)-1]
	}
	var cells []string
	start := 0
	for i := 0; i < len(row); i++ {
		switch row[i] {
		case '\\':
			i++
		case '|':
			cells = append(cells, strings.TrimSpace(row[start:i]))
			start = i + 1
		}
	}
	return append(cells, strings.TrimSpace(row[start:]))
}

// escapedAt reports whether row[i] follows an odd run of backslashes.
func escapedAt(row string, i int) bool {
	n := 0
	for i > 0 && row[i-1] == '\\' {
		n++
		i--
	}
	return n%2 == 1
}

func isTableRule(cells []string) bool {
	for _, cell := range cells {
		if cell == "" {
			return false
		}
		dashes := 0
		for i := 0; i < len(cell); i++ {
			switch cell[i] {
			case '-':
				dashes++
			case ':':
			default:
				return false
			}
		}
		if dashes == 0 {
			return false
		}
	}
	return true
}

// headingAnchor prefers an explicit {#id} and falls back to a slug of the
// title text.
func headingAnchor(line *Line) string {
	if line.ID != "" {
		return line.ID
	}
	anchor, err := slug.Normalize(line.Content.PlainText())
	if err != nil {
		return ""
	}
	return anchor
}
