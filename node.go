package mdtree

import (
	"encoding/json"
	"strconv"
	"strings"
)

// NodeKind identifies the variant of a Node.
type NodeKind uint8

const (
	// NodeText is a literal leaf.
	NodeText NodeKind = iota
	NodeBold
	NodeItalic
	NodeBoldItalic
	NodeCode
	NodeStrike
	NodeSuper
	NodeSub
	NodeHighlight
	NodeLinkText
	NodeLinkURL
	NodeFootnote
)

type nodeSyntax struct {
	name  string
	key   string
	open  string
	close string
}

var nodeSyntaxes = [...]nodeSyntax{
	NodeText:       {name: "Text", key: "text"},
	NodeBold:       {name: "Bold", key: "bold", open: "**", close: "**"},
	NodeItalic:     {name: "Italic", key: "italic", open: "*", close: "*"},
	NodeBoldItalic: {name: "BoldItalic", key: "bold_italic", open: "***", close: "***"},
	NodeCode:       {name: "Code", key: "code", open: "`", close: "`"},
	NodeStrike:     {name: "Strike", key: "strike", open: "~~", close: "~~"},
	NodeSuper:      {name: "Super", key: "super", open: "~", close: "~"},
	NodeSub:        {name: "Sub", key: "sub", open: "^", close: "^"},
	NodeHighlight:  {name: "Highlight", key: "highlight", open: "==", close: "=="},
	NodeLinkText:   {name: "LinkText", key: "link_text", open: "[", close: "]"},
	NodeLinkURL:    {name: "LinkURL", key: "link_url", open: "(", close: "]"},
	NodeFootnote:   {name: "Footnote", key: "footnote", open: "[^", close: "]"},
}

func (k NodeKind) syntax() nodeSyntax {
	if int(k) < len(nodeSyntaxes) {
		return nodeSyntaxes[k]
	}
	return nodeSyntax{name: "NodeKind(" + strconv.Itoa(int(k)) + ")"}
}

func (k NodeKind) String() string {
	return k.syntax().name
}

// Node is one element of an inline tree: a text leaf or a composite owning a
// child Fragment.
type Node struct {
	Kind     NodeKind
	Text     string
	Children Fragment
}

// TextRun returns a text leaf.
func TextRun(text string) Node {
	return Node{Kind: NodeText, Text: text}
}

// Wrap returns a composite node of kind around children. Adjacent text
// children are coalesced.
func Wrap(kind NodeKind, children ...Node) Node {
	return Node{Kind: kind, Children: FragmentOf(children...)}
}

// Equal reports whether two nodes are structurally identical.
func (n Node) Equal(other Node) bool {
	if n.Kind != other.Kind {
		return false
	}
	if n.Kind == NodeText {
		return n.Text == other.Text
	}
	return n.Children.Equal(other.Children)
}

// String returns the debug form, e.g. Bold[Text("a")].
func (n Node) String() string {
	var b strings.Builder
	n.writeDebug(&b)
	return b.String()
}

func (n Node) writeDebug(b *strings.Builder) {
	if n.Kind == NodeText {
		b.WriteString("Text(")
		b.WriteString(strconv.Quote(n.Text))
		b.WriteByte(')')
		return
	}
	b.WriteString(n.Kind.String())
	n.Children.writeDebug(b)
}

// Markdown returns the canonical markup of the node. Literal text is not
// re-escaped.
func (n Node) Markdown() string {
	var b strings.Builder
	n.writeMarkdown(&b)
	return b.String()
}

func (n Node) writeMarkdown(b *strings.Builder) {
	if n.Kind == NodeText {
		b.WriteString(n.Text)
		return
	}
	syn := n.Kind.syntax()
	b.WriteString(syn.open)
	for _, child := range n.Children.nodes {
		child.writeMarkdown(b)
	}
	b.WriteString(syn.close)
}

// PlainText returns the text content of the node without markup.
func (n Node) PlainText() string {
	if n.Kind == NodeText {
		return n.Text
	}
	return n.Children.PlainText()
}

type textNodeJSON struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type compositeNodeJSON struct {
	Kind     string   `json:"kind"`
	Children Fragment `json:"children"`
}

// MarshalJSON encodes text leaves as {"kind":"text","text":...} and
// composites as {"kind":...,"children":[...]}.
func (n Node) MarshalJSON() ([]byte, error) {
	key := n.Kind.syntax().key
	if n.Kind == NodeText {
		return json.Marshal(textNodeJSON{Kind: key, Text: n.Text})
	}
	return json.Marshal(compositeNodeJSON{Kind: key, Children: n.Children})
}
