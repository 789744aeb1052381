package mdtree

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Document is a parsed source: leading metadata plus classified lines.
type Document struct {
	Meta  map[string]any `json:"meta,omitempty"`
	Lines []Line         `json:"lines"`
}

// ParseRequest configures Parse.
type ParseRequest struct {
	Reader io.Reader
	// Strict rejects invalid UTF-8 and binary input instead of dropping the
	// offending bytes.
	Strict  bool
	Options []Option
}

// Parse reads a whole document, splits off front matter, classifies lines
// and builds the inline tree of every span.
func Parse(req ParseRequest) (*Document, error) {
	if req.Reader == nil {
		return nil, fmt.Errorf("parse: reader is nil")
	}
	src, err := io.ReadAll(req.Reader)
	if err != nil {
		return nil, fmt.Errorf("parse: read: %w", err)
	}
	return parseBytes(src, req.Strict, newConfig(req.Options))
}

// ParseString parses src as a document with default settings.
func ParseString(src string, opts ...Option) (*Document, error) {
	return parseBytes([]byte(src), false, newConfig(opts))
}

func parseBytes(src []byte, strict bool, cfg config) (*Document, error) {
	if strict {
		if err := ValidateInput(src); err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
	} else {
		src = sanitize(src)
	}
	block, body := splitFrontMatter(src)
	doc := &Document{}
	if len(block) > 0 {
		meta, err := decodeFrontMatter(block)
		if err != nil {
			return nil, fmt.Errorf("parse: front matter: %w", err)
		}
		doc.Meta = meta
	}
	doc.Lines = classifyLines(string(body), bytes.Count(block, []byte{'\n'}))
	parseSpans(doc.Lines, cfg)
	return doc, nil
}

// classifyLines runs the prefix dispatch over every line. Fence state is the
// only thing carried from one line to the next.
func classifyLines(body string, offset int) []Line {
	if body == "" {
		return nil
	}
	raws := strings.Split(strings.TrimSuffix(body, "\n"), "\n")
	lines := make([]Line, 0, len(raws))
	inFence := false
	for i, raw := range raws {
		raw = strings.TrimSuffix(raw, "\r")
		var line Line
		switch {
		case inFence && strings.HasPrefix(raw, "```"):
			line = Line{Kind: LineFence, Raw: raw}
			inFence = false
		case inFence:
			line = Line{Kind: LineCode, Raw: raw}
		default:
			line = ClassifyLine(raw)
			inFence = line.Kind == LineFence
		}
		line.Number = offset + i + 1
		lines = append(lines, line)
	}
	return lines
}

type spanJob struct {
	span string
	dst  *Fragment
}

func collectSpanJobs(lines []Line) []spanJob {
	jobs := make([]spanJob, 0, len(lines))
	for i := range lines {
		line := &lines[i]
		if line.Kind == LineTableRow {
			line.Cells = make([]Fragment, len(line.cellSpans))
			for j, span := range line.cellSpans {
				jobs = append(jobs, spanJob{span: span, dst: &line.Cells[j]})
			}
			continue
		}
		if line.hasSpan() {
			jobs = append(jobs, spanJob{span: line.Span, dst: &line.Content})
		}
	}
	return jobs
}

// parseSpans builds every span's tree. Spans share nothing, so workers write
// to distinct destinations without locking.
func parseSpans(lines []Line, cfg config) {
	jobs := collectSpanJobs(lines)
	if cfg.workers <= 1 || len(jobs) < 2 {
		for _, job := range jobs {
			*job.dst = parseInline(job.span, cfg.maxDepth)
		}
	} else {
		workers := min(cfg.workers, len(jobs))
		queue := make(chan spanJob)
		var wg sync.WaitGroup
		wg.Add(workers)
		for w := 0; w < workers; w++ {
			go func() {
				defer wg.Done()
				for job := range queue {
					*job.dst = parseInline(job.span, cfg.maxDepth)
				}
			}()
		}
		for _, job := range jobs {
			queue <- job
		}
		close(queue)
		wg.Wait()
	}
	for i := range lines {
		if lines[i].Kind == LineHeading {
			lines[i].Anchor = headingAnchor(&lines[i])
		}
		lines[i].cellSpans = nil
	}
}
