package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"pkt.systems/mdtree"
)

// goldenSet is one markup input and every width it has a tree dump for.
type goldenSet struct {
	source string
	name   string
	widths []int
}

// gen-golden rewrites testdata/<name>.w<width>.golden from testdata/<name>.md.
// Widths already on disk are regenerated; inputs without goldens get -width.
func main() {
	fs := pflag.NewFlagSet("gen-golden", pflag.ExitOnError)
	root := fs.StringP("root", "r", "testdata", "directory holding .md inputs and .golden outputs")
	fallback := fs.IntSliceP("width", "w", []int{0}, "widths for inputs without goldens (0 = untruncated)")
	_ = fs.Parse(os.Args[1:])

	sets, err := collectGoldenSets(*root, *fallback)
	if err != nil {
		fatalf("%v", err)
	}
	for _, set := range sets {
		if err := writeGoldenSet(*root, set); err != nil {
			fatalf("%v", err)
		}
	}
}

func collectGoldenSets(root string, fallback []int) ([]goldenSet, error) {
	byName := map[string]*goldenSet{}
	known := map[string][]int{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return walkErr
		}
		switch {
		case strings.HasSuffix(path, ".md"):
			name := goldenName(root, path)
			byName[name] = &goldenSet{source: path, name: name}
		case strings.HasSuffix(path, ".golden"):
			if name, width, ok := parseGoldenWidth(root, path); ok {
				known[name] = append(known[name], width)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	if len(byName) == 0 {
		return nil, fmt.Errorf("no markup files found under %s", root)
	}
	sets := make([]goldenSet, 0, len(byName))
	for name, set := range byName {
		set.widths = known[name]
		if len(set.widths) == 0 {
			set.widths = fallback
		}
		sort.Ints(set.widths)
		sets = append(sets, *set)
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].name < sets[j].name })
	return sets, nil
}

func writeGoldenSet(root string, set goldenSet) error {
	src, err := os.ReadFile(set.source)
	if err != nil {
		return fmt.Errorf("read %s: %w", set.source, err)
	}
	doc, err := mdtree.Parse(mdtree.ParseRequest{Reader: bytes.NewReader(src)})
	if err != nil {
		return fmt.Errorf("parse %s: %w", set.source, err)
	}
	for _, width := range set.widths {
		var out bytes.Buffer
		err := mdtree.Dump(mdtree.DumpRequest{
			Writer:   &out,
			Document: doc,
			Width:    width,
			Theme:    mdtree.BoringTheme(),
		})
		if err != nil {
			return fmt.Errorf("dump %s width %d: %w", set.source, width, err)
		}
		path := filepath.Join(root, fmt.Sprintf("%s.w%d.golden", set.name, width))
		if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(os.Stdout, "wrote %s\n", path)
	}
	return nil
}

// goldenName flattens nested inputs: testdata/a/b.md becomes a__b.
func goldenName(root, mdPath string) string {
	rel, err := filepath.Rel(root, mdPath)
	if err != nil {
		rel = mdPath
	}
	return strings.ReplaceAll(filepath.ToSlash(strings.TrimSuffix(rel, ".md")), "/", "__")
}

func parseGoldenWidth(root, goldenPath string) (string, int, bool) {
	rel, err := filepath.Rel(root, goldenPath)
	if err != nil {
		return "", 0, false
	}
	name := strings.TrimSuffix(filepath.ToSlash(rel), ".golden")
	idx := strings.LastIndex(name, ".w")
	if idx == -1 {
		return "", 0, false
	}
	width, err := strconv.Atoi(name[idx+2:])
	if err != nil || width < 0 {
		return "", 0, false
	}
	return name[:idx], width, true
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "gen-golden: "+format+"\n", args...)
	os.Exit(1)
}
