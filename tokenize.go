package mdtree

import "unicode/utf8"

// Tokenize scans an inline span into a flat token sequence. Repeated
// delimiters are folded into multiplicity-tagged tokens and backslash escapes
// are resolved into literal text. Every input produces a sequence.
func Tokenize(span string) []Token {
	return AppendTokens(nil, span)
}

// AppendTokens tokenizes span and appends the tokens to dst. Lookback never
// reaches into tokens that were already in dst.
func AppendTokens(dst []Token, span string) []Token {
	s := scanner{span: span, tokens: dst, base: len(dst)}
	for i := 0; i < len(span); {
		r, size := utf8.DecodeRuneInString(span[i:])
		s.scan(r, i, size)
		i += size
	}
	return s.finish()
}

// scanner keeps the pending text run as a slice of the span while it is
// contiguous and only copies once an escape splices it.
type scanner struct {
	span    string
	tokens  []Token
	base    int
	escaped bool

	inRun    bool
	spliced  bool
	runStart int
	runEnd   int
	runBuf   []byte
}

func (s *scanner) scan(r rune, at, size int) {
	if s.escaped {
		s.escaped = false
		s.literal(at, size)
		return
	}
	switch r {
	case '\\':
		s.escaped = true
	case '*':
		s.delim(TokenStar, maxStar)
	case '`':
		s.delim(TokenQuote, maxQuote)
	case '~':
		s.delim(TokenStrike, maxTilde)
	case '=':
		s.delim(TokenEqual, maxEqual)
	case '[':
		s.push(TokenSquareOpen)
	case ']':
		s.push(TokenSquareClose)
	case '(':
		s.push(TokenCircleOpen)
	case ')':
		s.push(TokenCircleClose)
	case '^':
		if last := s.last(); last != nil && last.Kind == TokenSquareOpen {
			last.Kind = TokenFootnoteOpen
			return
		}
		s.literal(at, size)
	default:
		s.literal(at, size)
	}
}

// last returns the previously emitted token, or nil when the pending text run
// is the previous token or nothing was emitted yet.
func (s *scanner) last() *Token {
	if s.inRun || len(s.tokens) == s.base {
		return nil
	}
	return &s.tokens[len(s.tokens)-1]
}

func (s *scanner) delim(kind TokenKind, max uint8) {
	if last := s.last(); last != nil && last.Kind == kind && last.Count < max {
		last.Count++
		return
	}
	s.flushRun()
	s.tokens = append(s.tokens, Token{Kind: kind, Count: 1})
}

func (s *scanner) push(kind TokenKind) {
	s.flushRun()
	s.tokens = append(s.tokens, Token{Kind: kind})
}

func (s *scanner) literal(at, size int) {
	switch {
	case !s.inRun:
		s.inRun = true
		s.spliced = false
		s.runStart = at
		s.runEnd = at + size
	case !s.spliced && s.runEnd == at:
		s.runEnd += size
	default:
		if !s.spliced {
			s.runBuf = append(s.runBuf[:0], s.span[s.runStart:s.runEnd]...)
			s.spliced = true
		}
		s.runBuf = append(s.runBuf, s.span[at:at+size]...)
	}
}

func (s *scanner) flushRun() {
	if !s.inRun {
		return
	}
	text := s.span[s.runStart:s.runEnd]
	if s.spliced {
		text = string(s.runBuf)
	}
	s.tokens = append(s.tokens, Token{Kind: TokenText, Text: text})
	s.inRun = false
	s.spliced = false
}

// finish flushes the pending run. A dangling escape is dropped.
func (s *scanner) finish() []Token {
	s.flushRun()
	s.escaped = false
	return s.tokens
}
