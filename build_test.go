package mdtree

import (
	"strings"
	"sync"
	"testing"
	"testing/quick"
)

func TestParseInline(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Fragment
	}{
		{
			name: "plain",
			in:   "just text",
			want: FragmentOf(TextRun("just text")),
		},
		{
			name: "bold italic",
			in:   "***a***",
			want: FragmentOf(Wrap(NodeBoldItalic, TextRun("a"))),
		},
		{
			name: "nested italic in bold",
			in:   "**a*b*c**",
			want: FragmentOf(Wrap(NodeBold, TextRun("a"), Wrap(NodeItalic, TextRun("b")), TextRun("c"))),
		},
		{
			name: "bold in italic",
			in:   "*a **b** c*",
			want: FragmentOf(Wrap(NodeItalic, TextRun("a "), Wrap(NodeBold, TextRun("b")), TextRun(" c"))),
		},
		{
			name: "code is verbatim",
			in:   "`a**b**c`",
			want: FragmentOf(Wrap(NodeCode, TextRun("a**b**c"))),
		},
		{
			name: "double quote code keeps single quote",
			in:   "``a`b``",
			want: FragmentOf(Wrap(NodeCode, TextRun("a`b"))),
		},
		{
			name: "code keeps brackets",
			in:   "`a]b`",
			want: FragmentOf(Wrap(NodeCode, TextRun("a]b"))),
		},
		{
			name: "unterminated italic",
			in:   "*open",
			want: FragmentOf(Wrap(NodeItalic, TextRun("open"))),
		},
		{
			name: "unterminated inner scope",
			in:   "*a**",
			want: FragmentOf(Wrap(NodeItalic, TextRun("a"), Wrap(NodeBold))),
		},
		{
			name: "empty code",
			in:   "``",
			want: FragmentOf(Wrap(NodeCode)),
		},
		{
			name: "footnote",
			in:   "[^123]",
			want: FragmentOf(Wrap(NodeFootnote, TextRun("123"))),
		},
		{
			name: "footnote is verbatim",
			in:   "[^*a*]",
			want: FragmentOf(Wrap(NodeFootnote, TextRun("*a*"))),
		},
		{
			name: "link text",
			in:   "[text]",
			want: FragmentOf(Wrap(NodeLinkText, TextRun("text"))),
		},
		{
			name: "link text is parsed",
			in:   "[**b**]",
			want: FragmentOf(Wrap(NodeLinkText, Wrap(NodeBold, TextRun("b")))),
		},
		{
			name: "link target runs to square close",
			in:   "[text](http://x)",
			want: FragmentOf(Wrap(NodeLinkText, TextRun("text")), Wrap(NodeLinkURL, TextRun("http://x)"))),
		},
		{
			name: "link target closed by square close",
			in:   "(a]b",
			want: FragmentOf(Wrap(NodeLinkURL, TextRun("a")), TextRun("b")),
		},
		{
			name: "link target is verbatim",
			in:   "(**x**",
			want: FragmentOf(Wrap(NodeLinkURL, TextRun("**x**"))),
		},
		{
			name: "terminator wins over verbatim",
			in:   "`code`]",
			want: FragmentOf(Wrap(NodeCode, TextRun("code"))),
		},
		{
			name: "unmatched closers dropped",
			in:   "a]b)c",
			want: FragmentOf(TextRun("abc")),
		},
		{
			name: "single tilde is super",
			in:   "~a~ ~~b~~",
			want: FragmentOf(Wrap(NodeSuper, TextRun("a")), TextRun(" "), Wrap(NodeStrike, TextRun("b"))),
		},
		{
			name: "highlight",
			in:   "==hi==",
			want: FragmentOf(Wrap(NodeHighlight, TextRun("hi"))),
		},
		{
			name: "single equal is literal",
			in:   "a=b",
			want: FragmentOf(TextRun("a=b")),
		},
		{
			name: "escaped markup stays literal",
			in:   `\*\*bold\*\*`,
			want: FragmentOf(TextRun("**bold**")),
		},
		{
			name: "escaped footnote opener",
			in:   `[\^1]`,
			want: FragmentOf(Wrap(NodeLinkText, TextRun("^1"))),
		},
		{
			name: "dangling escape",
			in:   `a\`,
			want: FragmentOf(TextRun("a")),
		},
		{
			name: "empty",
			in:   "",
			want: Fragment{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseInline(tc.in)
			if !got.Equal(tc.want) {
				t.Fatalf("ParseInline(%q)\n got: %s\nwant: %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestBuildFromTokens(t *testing.T) {
	tests := []struct {
		name   string
		tokens []Token
		want   Fragment
	}{
		{
			name:   "carat opens sub",
			tokens: []Token{SymbolToken(TokenCarat), TextToken("x"), SymbolToken(TokenCarat), TextToken("y")},
			want:   FragmentOf(Wrap(NodeSub, TextRun("x")), TextRun("y")),
		},
		{
			name:   "escape is dropped",
			tokens: []Token{SymbolToken(TokenEscape), TextToken("a")},
			want:   FragmentOf(TextRun("a")),
		},
		{
			name:   "adjacent text coalesces",
			tokens: []Token{TextToken("a"), TextToken("b"), SymbolToken(TokenCircleClose), TextToken("c")},
			want:   FragmentOf(TextRun("abc")),
		},
		{
			name:   "verbatim escape re-renders",
			tokens: []Token{DelimToken(TokenQuote, 1), SymbolToken(TokenEscape), DelimToken(TokenQuote, 1)},
			want:   FragmentOf(Wrap(NodeCode, TextRun(`\`))),
		},
		{
			name:   "out of range multiplicity is literal",
			tokens: []Token{DelimToken(TokenStar, 4), TextToken("a")},
			want:   FragmentOf(TextRun("****a")),
		},
		{
			name:   "terminator must match multiplicity",
			tokens: []Token{DelimToken(TokenStar, 2), TextToken("a"), DelimToken(TokenStar, 1), TextToken("b"), DelimToken(TokenStar, 1), DelimToken(TokenStar, 2)},
			want:   FragmentOf(Wrap(NodeBold, TextRun("a"), Wrap(NodeItalic, TextRun("b")))),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Build(tc.tokens)
			if !got.Equal(tc.want) {
				t.Fatalf("Build\n got: %s\nwant: %s", got, tc.want)
			}
		})
	}
}

func TestParseInlineMaxDepth(t *testing.T) {
	got := ParseInline("**a*b*c**", WithMaxDepth(1))
	want := FragmentOf(Wrap(NodeBold, TextRun("a*b*c")))
	if !got.Equal(want) {
		t.Fatalf("got %s want %s", got, want)
	}

	got = ParseInline("**a*b*c**", WithMaxDepth(0))
	want = FragmentOf(Wrap(NodeBold, TextRun("a"), Wrap(NodeItalic, TextRun("b")), TextRun("c")))
	if !got.Equal(want) {
		t.Fatalf("max depth 0 should use the default: got %s", got)
	}
}

func TestParseInlinePathologicalNesting(t *testing.T) {
	const openers = 10000
	frag := ParseInline(strings.Repeat("[", openers))
	depth := 0
	for frag.Len() == 1 && frag.At(0).Kind == NodeLinkText {
		frag = frag.At(0).Children
		depth++
	}
	if depth != DefaultMaxDepth {
		t.Fatalf("nested %d scopes, want %d", depth, DefaultMaxDepth)
	}
	want := FragmentOf(TextRun(strings.Repeat("[", openers-DefaultMaxDepth)))
	if !frag.Equal(want) {
		t.Fatalf("innermost scope should hold the excess openers as text, got %d nodes", frag.Len())
	}
}

func TestParseInlineSplitTextJoinsLinearly(t *testing.T) {
	const pieces = 20000
	tests := []struct {
		unit string
		want string
	}{
		{unit: "a]", want: "a"},
		{unit: "a)", want: "a"},
		{unit: "a=", want: "a="},
		{unit: `a\*`, want: "a*"},
	}
	for _, tc := range tests {
		tokens := Tokenize(strings.Repeat(tc.unit, pieces))
		want := FragmentOf(TextRun(strings.Repeat(tc.want, pieces)))
		if got := Build(tokens); !got.Equal(want) {
			t.Fatalf("%q x %d: expected a single text run, got %d nodes", tc.unit, pieces, got.Len())
		}
		allocs := testing.AllocsPerRun(5, func() {
			_ = Build(tokens)
		})
		if allocs > 64 {
			t.Fatalf("%q x %d: joining split text took %.0f allocations", tc.unit, pieces, allocs)
		}
	}
}

func TestParseInlinePlainTextRoundTrip(t *testing.T) {
	const special = "\\*`[]()^~="
	property := func(s string) bool {
		plain := strings.Map(func(r rune) rune {
			if strings.ContainsRune(special, r) {
				return -1
			}
			return r
		}, s)
		frag := ParseInline(plain)
		if plain == "" {
			return frag.Len() == 0
		}
		return frag.Len() == 1 && frag.At(0).Kind == NodeText && frag.At(0).Text == plain
	}
	if err := quick.Check(property, nil); err != nil {
		t.Fatal(err)
	}
}

func TestParseInlineNeverPanics(t *testing.T) {
	property := func(s string) bool {
		frag := ParseInline(s)
		return checkCoalesced(frag)
	}
	if err := quick.Check(property, &quick.Config{MaxCount: 500}); err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"*`[(^~=]\\)", "]]]]", "((((", "[^[^[^", "``````", "\\\\\\"} {
		if !checkCoalesced(ParseInline(s)) {
			t.Fatalf("adjacent text nodes in %q", s)
		}
	}
}

func checkCoalesced(f Fragment) bool {
	for i, n := range f.Nodes() {
		if n.Kind == NodeText {
			if n.Text == "" {
				return false
			}
			if i > 0 && f.At(i-1).Kind == NodeText {
				return false
			}
			continue
		}
		if !checkCoalesced(n.Children) {
			return false
		}
	}
	return true
}

func TestParseInlineMarkdownRoundTrip(t *testing.T) {
	inputs := []string{
		"**a*b*c**",
		"***x***",
		"`co*de`",
		"[^note]",
		"~~gone~~ and ~up~",
		"==mark==",
		"[label]",
		"plain",
	}
	for _, in := range inputs {
		if got := ParseInline(in).Markdown(); got != in {
			t.Fatalf("Markdown round trip of %q gave %q", in, got)
		}
	}
}

func TestParseInlineConcurrent(t *testing.T) {
	want := ParseInline("**a*b*c** and `x` [^1]")
	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if got := ParseInline("**a*b*c** and `x` [^1]"); !got.Equal(want) {
					errs <- got.String()
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Fatalf("concurrent parse mismatch: %s", got)
	}
}
