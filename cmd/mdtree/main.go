package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/mdtree"
	"pkt.systems/version"
)

const (
	defaultThemeName = "default"
	defaultWidth     = 80
	maxDepthCeiling  = 1 << 16
)

func init() {
	version.SetDefaultModule("pkt.systems/mdtree")
}

type cliConfig struct {
	Format      string `json:"format"`
	Theme       string `json:"theme"`
	Width       int    `json:"width"`
	OSC8        string `json:"osc8"`
	Output      string `json:"output"`
	Boring      bool   `json:"boring"`
	MaxDepth    int    `json:"max-depth"`
	Concurrency int    `json:"concurrency"`
	Strict      bool   `json:"strict"`
}

func (c *cliConfig) validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Format, validation.Required, validation.In("tree", "json")),
		validation.Field(&c.Width, validation.Min(0)),
		validation.Field(&c.OSC8, validation.In("", "auto", "on", "off", "true", "false", "1", "0", "yes", "no")),
		validation.Field(&c.MaxDepth, validation.Required, validation.Min(1), validation.Max(maxDepthCeiling)),
		validation.Field(&c.Concurrency, validation.Required, validation.Min(1)),
	)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		cfg        cliConfig
		listThemes bool
	)
	flags := pflag.NewFlagSet("mdtree", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&cfg.Format, "format", "f", "tree", "Output format: tree|json")
	flags.StringVarP(&cfg.Theme, "theme", "t", defaultThemeName, "Theme name for tree output")
	flags.IntVarP(&cfg.Width, "width", "w", 0, "Output width override (0 uses terminal width if available)")
	flags.StringVarP(&cfg.OSC8, "osc8", "8", "auto", "OSC8 hyperlinks on link targets: auto|on|off")
	flags.BoolVar(&listThemes, "list-themes", false, "List available themes")
	flags.StringVarP(&cfg.Output, "output", "o", "", "Output file instead of stdout")
	flags.BoolVarP(&cfg.Boring, "boring", "b", false, "Generate non-ANSI tree output")
	flags.IntVar(&cfg.MaxDepth, "max-depth", mdtree.DefaultMaxDepth, "Maximum inline nesting depth")
	flags.IntVarP(&cfg.Concurrency, "concurrency", "j", 1, "Number of workers parsing inline spans")
	flags.BoolVar(&cfg.Strict, "strict", false, "Reject invalid UTF-8 or binary input instead of sanitizing it")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: mdtree [flags] [inputs...]\n")
		fmt.Fprintln(stderr, "\nIf no input is provided, markup is read from stdin.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	if listThemes {
		printThemes(stdout)
		return 0
	}

	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	cfg.OSC8 = strings.ToLower(strings.TrimSpace(cfg.OSC8))
	if err := cfg.validate(); err != nil {
		fmt.Fprintf(stderr, "invalid flags: %v\n", err)
		return 2
	}

	theme, ok := mdtree.ThemeByName(cfg.Theme)
	if !ok {
		fmt.Fprintf(stderr, "unknown theme %q\n\n", cfg.Theme)
		printThemes(stderr)
		return 2
	}
	if cfg.Boring {
		theme = mdtree.BoringTheme()
	}

	reader, closer, err := openInputs(flags.Args(), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "open input: %v\n", err)
		return 1
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	writer, closeOut, err := resolveOutput(cfg.Output, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "open output: %v\n", err)
		return 1
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	doc, err := mdtree.Parse(mdtree.ParseRequest{
		Reader: reader,
		Strict: cfg.Strict,
		Options: []mdtree.Option{
			mdtree.WithMaxDepth(cfg.MaxDepth),
			mdtree.WithConcurrency(cfg.Concurrency),
		},
	})
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	if err := writeDocument(writer, doc, cfg, theme); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	return 0
}

func writeDocument(w io.Writer, doc *mdtree.Document, cfg cliConfig, theme mdtree.Theme) error {
	if cfg.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
	osc8, err := resolveOSC8(cfg.OSC8)
	if err != nil {
		return fmt.Errorf("invalid --osc8 %q: %w", cfg.OSC8, err)
	}
	width := cfg.Width
	if width == 0 && isTerminal(w) {
		width = terminalWidth(defaultWidth)
	}
	return mdtree.Dump(mdtree.DumpRequest{
		Writer:   w,
		Document: doc,
		Width:    width,
		Theme:    theme,
		Options:  []mdtree.DumpOption{mdtree.WithOSC8(osc8 && isTerminal(w))},
	})
}

func printThemes(w io.Writer) {
	for _, name := range mdtree.AvailableThemes() {
		fmt.Fprintln(w, name)
	}
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconv.Atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func resolveOSC8(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return mdtree.DetectOSC8Support(), nil
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected auto|on|off")
	}
}

// lazyInput opens its source on first read and closes it at EOF, so at most
// one input is open while the concatenation is consumed.
type lazyInput struct {
	open func() (io.ReadCloser, error)
	rc   io.ReadCloser
	done bool
}

func (l *lazyInput) Read(p []byte) (int, error) {
	if l.done {
		return 0, io.EOF
	}
	if l.rc == nil {
		rc, err := l.open()
		if err != nil {
			l.done = true
			return 0, err
		}
		l.rc = rc
	}
	n, err := l.rc.Read(p)
	if err == io.EOF {
		_ = l.Close()
	}
	return n, err
}

func (l *lazyInput) Close() error {
	l.done = true
	if l.rc == nil {
		return nil
	}
	rc := l.rc
	l.rc = nil
	return rc.Close()
}

type inputSet []*lazyInput

func (s inputSet) Close() error {
	var first error
	for _, in := range s {
		if err := in.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openInputs concatenates files, file:// URLs and http(s) URLs in argument
// order. With no arguments stdin is read.
func openInputs(args []string, stdin io.Reader) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return stdin, nil, nil
	}
	inputs := make(inputSet, 0, len(args))
	readers := make([]io.Reader, 0, len(args))
	for _, raw := range args {
		open, err := inputOpener(raw)
		if err != nil {
			return nil, nil, err
		}
		in := &lazyInput{open: open}
		inputs = append(inputs, in)
		readers = append(readers, in)
	}
	return io.MultiReader(readers...), inputs, nil
}

func inputOpener(raw string) (func() (io.ReadCloser, error), error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty input argument")
	}
	path := raw
	if u, err := url.Parse(raw); err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return func() (io.ReadCloser, error) {
				body, err := mdtree.Fetch(context.Background(), mdtree.FetchRequest{URL: raw})
				if err != nil {
					return nil, fmt.Errorf("fetch %s: %w", raw, err)
				}
				return body, nil
			}, nil
		case "file":
			path = u.Path
			if path == "" {
				path = u.Host
			}
		}
	}
	return func() (io.ReadCloser, error) {
		return os.Open(expandHome(path))
	}, nil
}

func resolveOutput(path string, stdout io.Writer) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return stdout, nil, nil
	}
	clean := expandHome(path)
	if dir := filepath.Dir(clean); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
