package mdtree

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
)

// splitFrontMatter separates a leading metadata block from the body. The block
// is only recognised at the very start: an opening delimiter line, a second
// line that looks like metadata and a matching closing delimiter. Otherwise
// block is nil and body is src.
func splitFrontMatter(src []byte) (block, body []byte) {
	openLine, openNext, ok := nextLine(src, 0)
	if !ok {
		return nil, src
	}
	delim, isFrontMatter := parseOpeningFrontMatterDelimiter(openLine)
	if !isFrontMatter {
		return nil, src
	}
	secondLine, secondNext, ok := nextLine(src, openNext)
	if !ok || !frontMatterMetadataLikely(secondLine) {
		return nil, src
	}
	closeNext, found := findClosingFrontMatterDelimiter(src, secondNext, delim)
	if !found {
		return nil, src
	}
	return src[:closeNext], src[closeNext:]
}

// decodeFrontMatter decodes a block found by splitFrontMatter.
func decodeFrontMatter(block []byte) (map[string]any, error) {
	meta := map[string]any{}
	block = bytes.ReplaceAll(trimBOM(block), []byte("\r\n"), []byte("\n"))
	if _, err := frontmatter.Parse(bytes.NewReader(block), &meta); err != nil {
		return nil, err
	}
	for key, value := range meta {
		meta[key] = normalizeMetaValue(value)
	}
	return meta, nil
}

// normalizeMetaValue turns YAML's map[interface{}]interface{} into
// map[string]any so metadata can be encoded as JSON.
func normalizeMetaValue(value any) any {
	switch v := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalizeMetaValue(item)
		}
		return out
	case map[string]any:
		for key, item := range v {
			v[key] = normalizeMetaValue(item)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = normalizeMetaValue(item)
		}
		return v
	}
	return value
}

func nextLine(src []byte, start int) ([]byte, int, bool) {
	if start >= len(src) {
		return nil, 0, false
	}
	i := bytes.IndexByte(src[start:], '\n')
	if i < 0 {
		return trimCR(src[start:]), len(src), true
	}
	lineEnd := start + i
	return trimCR(src[start:lineEnd]), lineEnd + 1, true
}

func parseOpeningFrontMatterDelimiter(line []byte) ([]byte, bool) {
	trimmed := bytes.TrimSpace(trimBOM(line))
	switch {
	case bytes.Equal(trimmed, []byte("---")):
		return []byte("---"), true
	case bytes.Equal(trimmed, []byte("+++")):
		return []byte("+++"), true
	case bytes.Equal(trimmed, []byte(";;;")):
		return []byte(";;;"), true
	default:
		return nil, false
	}
}

func frontMatterMetadataLikely(line []byte) bool {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return false
	}
	if bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("[")) {
		return true
	}
	return bytes.Contains(trimmed, []byte(":")) || bytes.Contains(trimmed, []byte("="))
}

func findClosingFrontMatterDelimiter(src []byte, start int, delim []byte) (int, bool) {
	for idx := start; idx < len(src); {
		line, next, ok := nextLine(src, idx)
		if !ok {
			return 0, false
		}
		if bytes.Equal(bytes.TrimSpace(line), delim) {
			return next, true
		}
		idx = next
	}
	return 0, false
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
