package mdtree

import (
	"encoding/json"
	"strings"
)

// Fragment is an ordered sequence of nodes. No two adjacent elements are
// both text: appending text after text extends the last element in place.
// The zero value is an empty fragment ready for use.
type Fragment struct {
	nodes []Node
}

// FragmentOf builds a fragment by appending nodes in order.
func FragmentOf(nodes ...Node) Fragment {
	var f Fragment
	for _, n := range nodes {
		f.Append(n)
	}
	return f
}

// Append adds n to the end of the fragment. Empty text is ignored.
func (f *Fragment) Append(n Node) {
	if n.Kind == NodeText {
		if n.Text == "" {
			return
		}
		if last := f.Last(); last != nil && last.Kind == NodeText {
			last.Text += n.Text
			return
		}
	}
	f.nodes = append(f.nodes, n)
}

// Last returns the last node for in-place mutation, or nil if empty.
func (f *Fragment) Last() *Node {
	if len(f.nodes) == 0 {
		return nil
	}
	return &f.nodes[len(f.nodes)-1]
}

// Len returns the number of top-level nodes.
func (f Fragment) Len() int {
	return len(f.nodes)
}

// At returns the i-th node.
func (f Fragment) At(i int) Node {
	return f.nodes[i]
}

// Nodes returns the nodes of the fragment. Callers must not modify the slice.
func (f Fragment) Nodes() []Node {
	return f.nodes
}

// Equal reports whether two fragments hold structurally identical nodes.
func (f Fragment) Equal(other Fragment) bool {
	if len(f.nodes) != len(other.nodes) {
		return false
	}
	for i := range f.nodes {
		if !f.nodes[i].Equal(other.nodes[i]) {
			return false
		}
	}
	return true
}

// String returns the debug form, e.g. [Text("a") Bold[Text("b")]].
func (f Fragment) String() string {
	var b strings.Builder
	f.writeDebug(&b)
	return b.String()
}

func (f Fragment) writeDebug(b *strings.Builder) {
	b.WriteByte('[')
	for i, n := range f.nodes {
		if i > 0 {
			b.WriteByte(' ')
		}
		n.writeDebug(b)
	}
	b.WriteByte(']')
}

// Markdown returns the canonical markup of the fragment.
func (f Fragment) Markdown() string {
	var b strings.Builder
	for _, n := range f.nodes {
		n.writeMarkdown(&b)
	}
	return b.String()
}

// PlainText returns the concatenated text content without markup.
func (f Fragment) PlainText() string {
	var b strings.Builder
	Walk(f, func(n Node, _ int) bool {
		if n.Kind == NodeText {
			b.WriteString(n.Text)
		}
		return true
	})
	return b.String()
}

// MarshalJSON encodes the fragment as an array of nodes; empty is [].
func (f Fragment) MarshalJSON() ([]byte, error) {
	if len(f.nodes) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(f.nodes)
}

// WalkFunc is called for every node in depth-first order. Returning false
// skips the children of n.
type WalkFunc func(n Node, depth int) bool

// Walk visits every node of f depth-first, left to right.
func Walk(f Fragment, fn WalkFunc) {
	walk(f, fn, 0)
}

func walk(f Fragment, fn WalkFunc, depth int) {
	for _, n := range f.nodes {
		if fn(n, depth) && n.Kind != NodeText {
			walk(n.Children, fn, depth+1)
		}
	}
}
