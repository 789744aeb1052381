package mdtree

import (
	"strings"
	"sync"
)

var tokenPool = sync.Pool{
	New: func() any {
		buf := make([]Token, 0, 64)
		return &buf
	},
}

// ParseInline tokenizes span and builds its inline tree.
func ParseInline(span string, opts ...Option) Fragment {
	cfg := newConfig(opts)
	return parseInline(span, cfg.maxDepth)
}

func parseInline(span string, maxDepth int) Fragment {
	bufp := tokenPool.Get().(*[]Token)
	tokens := AppendTokens((*bufp)[:0], span)
	frag := build(tokens, maxDepth)
	clear(tokens)
	*bufp = tokens[:0]
	tokenPool.Put(bufp)
	return frag
}

// Build turns a token sequence into an inline tree. Unterminated scopes close
// at the end of the sequence and unmatched closers are dropped.
func Build(tokens []Token, opts ...Option) Fragment {
	cfg := newConfig(opts)
	return build(tokens, cfg.maxDepth)
}

func build(tokens []Token, maxDepth int) Fragment {
	b := builder{tokens: tokens, maxDepth: maxDepth}
	var out Fragment
	b.build(&out, nil, false, 0)
	return out
}

// builder owns the forward cursor shared by every nested scope, so a closed
// scope hands the remaining tokens back to its parent.
type builder struct {
	tokens   []Token
	pos      int
	maxDepth int
}

type scope struct {
	kind     NodeKind
	until    Token
	verbatim bool
}

func scopeFor(tok Token) (scope, bool) {
	switch tok.Kind {
	case TokenStar:
		switch tok.Count {
		case 1:
			return scope{kind: NodeItalic, until: tok}, true
		case 2:
			return scope{kind: NodeBold, until: tok}, true
		case 3:
			return scope{kind: NodeBoldItalic, until: tok}, true
		}
	case TokenStrike:
		switch tok.Count {
		case 1:
			return scope{kind: NodeSuper, until: tok}, true
		case 2:
			return scope{kind: NodeStrike, until: tok}, true
		}
	case TokenEqual:
		if tok.Count == 2 {
			return scope{kind: NodeHighlight, until: tok}, true
		}
	case TokenCarat:
		return scope{kind: NodeSub, until: tok}, true
	case TokenQuote:
		if tok.Count == 1 || tok.Count == 2 {
			return scope{kind: NodeCode, until: tok, verbatim: true}, true
		}
	case TokenSquareOpen:
		return scope{kind: NodeLinkText, until: SymbolToken(TokenSquareClose)}, true
	case TokenCircleOpen:
		return scope{kind: NodeLinkURL, until: SymbolToken(TokenSquareClose), verbatim: true}, true
	case TokenFootnoteOpen:
		return scope{kind: NodeFootnote, until: SymbolToken(TokenSquareClose), verbatim: true}, true
	}
	return scope{}, false
}

// build consumes tokens into out until the cursor is exhausted or until is
// consumed. The terminator check runs before verbatim literalisation.
func (b *builder) build(out *Fragment, until *Token, verbatim bool, depth int) {
	var run textRun
	for b.pos < len(b.tokens) {
		tok := b.tokens[b.pos]
		b.pos++
		if until != nil && tok == *until {
			break
		}
		if verbatim {
			run.add(tok.String())
			continue
		}
		switch tok.Kind {
		case TokenText:
			run.add(tok.Text)
			continue
		case TokenEscape, TokenSquareClose, TokenCircleClose:
			continue
		case TokenEqual:
			if tok.Count == 1 {
				run.add("=")
				continue
			}
		}
		sc, ok := scopeFor(tok)
		if !ok || depth >= b.maxDepth {
			run.add(tok.String())
			continue
		}
		run.flush(out)
		var child Fragment
		b.build(&child, &sc.until, sc.verbatim, depth+1)
		out.Append(Node{Kind: sc.kind, Children: child})
	}
	run.flush(out)
}

// textRun gathers adjacent literal text so a span split by dropped closers
// is joined once instead of on every append. A lone piece is kept as the
// original substring.
type textRun struct {
	first string
	buf   strings.Builder
}

func (r *textRun) add(s string) {
	switch {
	case s == "":
	case r.buf.Len() > 0:
		r.buf.WriteString(s)
	case r.first == "":
		r.first = s
	default:
		r.buf.WriteString(r.first)
		r.buf.WriteString(s)
		r.first = ""
	}
}

func (r *textRun) flush(out *Fragment) {
	if r.buf.Len() > 0 {
		out.Append(TextRun(r.buf.String()))
		r.buf = strings.Builder{}
		return
	}
	out.Append(TextRun(r.first))
	r.first = ""
}
