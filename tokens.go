package mdtree

import (
	"strconv"
	"strings"
)

// Token is one lexical unit of an inline span.
type Token struct {
	Kind TokenKind
	// Count is the multiplicity of a delimiter token (Star, Quote, Strike, Equal).
	Count uint8
	// Text holds the literal run of a TokenText.
	Text string
}

// TokenKind identifies the variant of a Token.
type TokenKind uint8

const (
	// TokenText is a non-empty literal run.
	TokenText TokenKind = iota
	// TokenEscape is a pending backslash escape.
	TokenEscape
	// TokenStar is a run of up to three '*'.
	TokenStar
	// TokenQuote is a run of up to two '`'.
	TokenQuote
	// TokenStrike is a run of up to two '~'.
	TokenStrike
	// TokenEqual is a run of up to two '='.
	TokenEqual
	// TokenSquareOpen is '['.
	TokenSquareOpen
	// TokenSquareClose is ']'.
	TokenSquareClose
	// TokenCircleOpen is '('.
	TokenCircleOpen
	// TokenCircleClose is ')'.
	TokenCircleClose
	// TokenCarat is '^'.
	TokenCarat
	// TokenFootnoteOpen is "[^".
	TokenFootnoteOpen
)

const (
	maxStar  = 3
	maxQuote = 2
	maxTilde = 2
	maxEqual = 2
)

var tokenKindNames = [...]string{
	TokenText:         "Text",
	TokenEscape:       "Escape",
	TokenStar:         "Star",
	TokenQuote:        "Quote",
	TokenStrike:       "Strike",
	TokenEqual:        "Equal",
	TokenSquareOpen:   "SquareOpen",
	TokenSquareClose:  "SquareClose",
	TokenCircleOpen:   "CircleOpen",
	TokenCircleClose:  "CircleClose",
	TokenCarat:        "Carat",
	TokenFootnoteOpen: "FootnoteOpen",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// TextToken returns a literal run token.
func TextToken(text string) Token {
	return Token{Kind: TokenText, Text: text}
}

// DelimToken returns a delimiter token of the given kind and multiplicity.
func DelimToken(kind TokenKind, count int) Token {
	return Token{Kind: kind, Count: uint8(count)}
}

// SymbolToken returns a single-character structural token.
func SymbolToken(kind TokenKind) Token {
	return Token{Kind: kind}
}

// String returns the literal surface text the token was scanned from.
func (t Token) String() string {
	switch t.Kind {
	case TokenText:
		return t.Text
	case TokenEscape:
		return `\`
	case TokenStar:
		return repeatDelim("*", t.Count)
	case TokenQuote:
		return repeatDelim("`", t.Count)
	case TokenStrike:
		return repeatDelim("~", t.Count)
	case TokenEqual:
		return repeatDelim("=", t.Count)
	case TokenSquareOpen:
		return "["
	case TokenSquareClose:
		return "]"
	case TokenCircleOpen:
		return "("
	case TokenCircleClose:
		return ")"
	case TokenCarat:
		return "^"
	case TokenFootnoteOpen:
		return "[^"
	}
	return ""
}

// GoString renders the token in its debug form, e.g. Star{2} or Text("a").
func (t Token) GoString() string {
	switch t.Kind {
	case TokenText:
		return "Text(" + strconv.Quote(t.Text) + ")"
	case TokenStar, TokenQuote, TokenStrike, TokenEqual:
		return t.Kind.String() + "{" + strconv.Itoa(int(t.Count)) + "}"
	}
	return t.Kind.String()
}

func repeatDelim(ch string, count uint8) string {
	switch count {
	case 0, 1:
		return ch
	case 2:
		return ch + ch
	case 3:
		return ch + ch + ch
	}
	return strings.Repeat(ch, int(count))
}
