// Package mdtree turns lightweight markup into a document tree.
//
// Parsing happens in two passes. A line classifier dispatches on line
// prefixes (headings, quotes, list items, tables, fences) and hands one text
// span per line, or per table cell, to the inline engine. The inline engine
// tokenizes the span, folding delimiter runs and resolving backslash escapes,
// then builds a nested Fragment of emphasis, code, link and footnote nodes by
// recursive descent.
//
// Core properties:
//   - Total: every input produces a tree, nothing is reported as an error
//   - Unterminated scopes close at the end of the span
//   - Code spans, link targets and footnote labels are verbatim
//   - Nesting depth is capped (DefaultMaxDepth) and excess openers stay literal
//
// Example:
//
//	frag := mdtree.ParseInline("**bold *and* italic**")
//	fmt.Println(frag) // [Bold[Text("bold ") Italic[Text("and")] Text(" italic")]]
//
//	doc, err := mdtree.Parse(mdtree.ParseRequest{Reader: os.Stdin})
//	if err != nil {
//		log.Fatal(err)
//	}
//	_ = mdtree.Dump(mdtree.DumpRequest{Writer: os.Stdout, Document: doc})
package mdtree
