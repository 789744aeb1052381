package mdtree

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"
)

// Goldens are regenerated with: go run ./cmd/gen-golden
func TestDumpGoldens(t *testing.T) {
	root := "testdata"
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() && strings.HasSuffix(path, ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk testdata: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("no markup files found under %s", root)
	}
	for _, path := range paths {
		path := path
		t.Run(path, func(t *testing.T) {
			src, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read %s: %v", path, err)
			}
			widths, err := goldenWidthsForFile(root, path)
			if err != nil {
				t.Fatalf("golden widths %s: %v", path, err)
			}
			doc, err := Parse(ParseRequest{Reader: bytes.NewReader(src)})
			if err != nil {
				t.Fatalf("parse %s: %v", path, err)
			}
			for _, width := range widths {
				goldenPath := goldenTreePath(path, width)
				want, err := os.ReadFile(goldenPath)
				if err != nil {
					t.Fatalf("read golden %s: %v", goldenPath, err)
				}
				var out bytes.Buffer
				err = Dump(DumpRequest{
					Writer:   &out,
					Document: doc,
					Width:    width,
					Theme:    BoringTheme(),
				})
				if err != nil {
					t.Fatalf("dump %s width %d: %v", path, width, err)
				}
				got := out.String()
				if string(want) != got {
					diff := firstDiffContext(string(want), got, 3)
					t.Fatalf("golden mismatch %s width %d\n%s", path, width, diff)
				}
			}
		})
	}
}

func goldenWidthsForFile(root string, mdPath string) ([]int, error) {
	rel, err := filepath.Rel(root, mdPath)
	if err != nil {
		rel = mdPath
	}
	name := strings.TrimSuffix(rel, ".md")
	name = strings.ReplaceAll(filepath.ToSlash(name), "/", "__")
	matches, err := filepath.Glob(filepath.Join(root, name+".w*.golden"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no golden files found for %s", mdPath)
	}
	widths := make([]int, 0, len(matches))
	for _, match := range matches {
		base := filepath.Base(match)
		start := strings.LastIndex(base, ".w")
		end := strings.LastIndex(base, ".golden")
		if start == -1 || end <= start+2 {
			continue
		}
		width, err := strconv.Atoi(base[start+2 : end])
		if err != nil {
			return nil, fmt.Errorf("parse width from %s: %w", base, err)
		}
		widths = append(widths, width)
	}
	sort.Ints(widths)
	if len(widths) == 0 {
		return nil, fmt.Errorf("no golden widths parsed for %s", mdPath)
	}
	return widths, nil
}

func goldenTreePath(mdPath string, width int) string {
	rel, err := filepath.Rel("testdata", mdPath)
	if err != nil {
		rel = mdPath
	}
	name := strings.TrimSuffix(rel, ".md")
	name = strings.ReplaceAll(filepath.ToSlash(name), "/", "__")
	return filepath.Join("testdata", fmt.Sprintf("%s.w%d.golden", name, width))
}

func firstDiffContext(want string, got string, ctx int) string {
	wantLines := strings.Split(want, "\n")
	gotLines := strings.Split(got, "\n")
	n := max(len(wantLines), len(gotLines))
	diffAt := -1
	for i := 0; i < n; i++ {
		var w, g string
		if i < len(wantLines) {
			w = wantLines[i]
		}
		if i < len(gotLines) {
			g = gotLines[i]
		}
		if w != g {
			diffAt = i
			break
		}
	}
	if diffAt == -1 {
		return "---want---\n" + want + "\n---got---\n" + got
	}
	start := max(diffAt-ctx, 0)
	end := min(diffAt+ctx, n-1)
	var b strings.Builder
	fmt.Fprintf(&b, "first difference at line %d\n", diffAt+1)
	b.WriteString("---want---\n")
	for i := start; i <= end; i++ {
		line := ""
		if i < len(wantLines) {
			line = wantLines[i]
		}
		fmt.Fprintf(&b, "%5d | %s\n", i+1, line)
	}
	b.WriteString("---got---\n")
	for i := start; i <= end; i++ {
		line := ""
		if i < len(gotLines) {
			line = gotLines[i]
		}
		fmt.Fprintf(&b, "%5d | %s\n", i+1, line)
	}
	return b.String()
}
