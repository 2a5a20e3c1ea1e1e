// Command greplex searches files (or standard input) for lines
// matching a restricted-dialect regular expression, grounded on the
// reference implementation's cli.py/main.py control flow: parse
// flags, resolve patterns and targets, search, format, exit with the
// match/no-match/error status the reference tool used.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/anbasement/greplex/internal/format"
	"github.com/anbasement/greplex/internal/search"
	"github.com/anbasement/greplex/internal/walker"
)

// Exit codes, grounded on the reference implementation's constants
// module: EXIT_MATCH_FOUND, EXIT_NO_MATCH, EXIT_ERROR.
const (
	exitMatchFound = 0
	exitNoMatch    = 1
	exitError      = 2
)

var version = "0.1.0"

func main() {
	var stdin io.Reader
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		stdin = os.Stdin
	}
	code := run(os.Args, stdin, os.Stdout, os.Stderr)
	os.Exit(code)
}

type options struct {
	patterns       []string
	ignoreCase     bool
	invertMatch    bool
	lineNumber     bool
	count          bool
	recursive      bool
	filesWithMatch bool
	filesWithoutM  bool
	maxCount       int
	after          int
	before         int
	formatName     string
	color          string
	highlightColor string
	copyFirstMatch bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("greplex", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := options{}
	showVersion := fs.Bool("version", false, "print version and exit")
	fs.BoolP("extended-regexp", "E", true, "use extended regular expression syntax (always on)")
	fs.StringArrayVarP(&opts.patterns, "regexp", "e", nil, "pattern to match (may be repeated)")
	fs.BoolVarP(&opts.ignoreCase, "ignore-case", "i", false, "ignore case distinctions")
	fs.BoolVarP(&opts.invertMatch, "invert-match", "v", false, "select non-matching lines")
	fs.BoolVarP(&opts.lineNumber, "line-number", "n", false, "prefix each match with its line number")
	fs.BoolVarP(&opts.count, "count", "c", false, "print only a count of matching lines")
	fs.BoolVarP(&opts.recursive, "recursive", "r", false, "recursively search directories")
	fs.BoolVarP(&opts.filesWithMatch, "files-with-matches", "l", false, "print only filenames with a match")
	fs.BoolVarP(&opts.filesWithoutM, "files-without-match", "L", false, "print only filenames without a match")
	fs.IntVarP(&opts.maxCount, "max-count", "m", 0, "stop after this many matches per file (0 = unlimited)")
	fs.IntVarP(&opts.after, "after-context", "A", 0, "lines of trailing context")
	fs.IntVarP(&opts.before, "before-context", "B", 0, "lines of leading context")
	context := fs.IntP("context", "C", 0, "lines of leading and trailing context")
	fs.StringVar(&opts.formatName, "format", "plain", "output format: "+strings.Join(format.List(), "|"))
	fs.StringVar(&opts.color, "color", "auto", "colorize matches: auto|always|never")
	fs.StringVar(&opts.highlightColor, "highlight-color", "", "hex color for match highlighting")
	fs.BoolVar(&opts.copyFirstMatch, "copy-first-match", false, "copy the first match to the terminal clipboard via OSC52")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "greplex - search for a restricted regular expression dialect\n\n")
		fmt.Fprintf(stderr, "Usage:\n  greplex [flags] PATTERN [FILE...]\n  greplex [flags] -e PATTERN [-e PATTERN...] [FILE...]\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return exitMatchFound
		}
		return exitError
	}

	if *showVersion {
		fmt.Fprintf(stdout, "greplex version %s\n", version)
		return exitMatchFound
	}

	if *context > 0 {
		opts.after = *context
		opts.before = *context
	}

	rest := fs.Args()
	if len(opts.patterns) == 0 {
		if len(rest) == 0 {
			fmt.Fprintln(stderr, "greplex: expected a pattern")
			fs.Usage()
			return exitError
		}
		opts.patterns = []string{rest[0]}
		rest = rest[1:]
	}

	fmtr, ok := format.Get(opts.formatName)
	if !ok {
		fmt.Fprintf(stderr, "greplex: unknown output format %q (available: %s)\n", opts.formatName, strings.Join(format.List(), ", "))
		return exitError
	}

	compiled := make([]*search.Pattern, 0, len(opts.patterns))
	for _, p := range opts.patterns {
		cp, err := search.Compile(p, opts.ignoreCase)
		if err != nil {
			fmt.Fprintf(stderr, "greplex: invalid pattern %q: %v\n", p, err)
			return exitError
		}
		compiled = append(compiled, cp)
	}

	colorEnabled := resolveColor(opts.color, stdout)

	var results []format.MatchResult
	var matchedFiles, unmatchedFiles []string
	var copyText string
	var copyOnce sync.Once
	showFilename := false

	if len(rest) == 0 {
		results = searchReader(stdin, "(standard input)", compiled, opts, &copyText, &copyOnce)
	} else {
		files, discoverErrs := walker.Discover(rest, opts.recursive)
		for _, e := range discoverErrs {
			fmt.Fprintln(stderr, "greplex:", e)
		}
		if len(files) == 0 && len(discoverErrs) > 0 {
			return exitError
		}

		showFilename = len(files) > 1 || opts.recursive

		perFile := make([][]format.MatchResult, len(files))
		var mu sync.Mutex
		var wg sync.WaitGroup
		for i, f := range files {
			wg.Add(1)
			go func(i int, filename string) {
				defer wg.Done()
				fileResults := searchFile(filename, compiled, opts, &copyText, &copyOnce, stderr, &mu)
				perFile[i] = fileResults
			}(i, f)
		}
		wg.Wait()

		for i, f := range files {
			if len(perFile[i]) > 0 {
				matchedFiles = append(matchedFiles, f)
			} else {
				unmatchedFiles = append(unmatchedFiles, f)
			}
			results = append(results, perFile[i]...)
		}
	}

	if opts.copyFirstMatch && copyText != "" {
		if _, err := osc52.New(copyText).WriteTo(stdout); err != nil {
			fmt.Fprintf(stderr, "greplex: copy-first-match failed: %v\n", err)
		}
	}

	switch {
	case opts.filesWithMatch:
		sort.Strings(matchedFiles)
		for _, f := range matchedFiles {
			fmt.Fprintln(stdout, f)
		}
		return exitCode(len(matchedFiles) > 0)

	case opts.filesWithoutM:
		sort.Strings(unmatchedFiles)
		for _, f := range unmatchedFiles {
			fmt.Fprintln(stdout, f)
		}
		return exitCode(len(unmatchedFiles) > 0)
	}

	formatOpts := format.Options{
		Pattern:        strings.Join(opts.patterns, "|"),
		IgnoreCase:     opts.ignoreCase,
		InvertMatch:    opts.invertMatch,
		ShowLineNumber: opts.lineNumber,
		ShowFilename:   showFilename,
		Recursive:      opts.recursive,
		ColorEnabled:   colorEnabled,
		HighlightColor: opts.highlightColor,
	}
	if opts.count {
		fmtr, _ = format.Get("count")
	}

	out, err := fmtr.Format(results, formatOpts)
	if err != nil {
		fmt.Fprintf(stderr, "greplex: formatting output: %v\n", err)
		return exitError
	}
	fmt.Fprint(stdout, out)

	return exitCode(len(results) > 0)
}

func exitCode(matched bool) int {
	if matched {
		return exitMatchFound
	}
	return exitNoMatch
}

func resolveColor(mode string, stdout io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		f, ok := stdout.(*os.File)
		return ok && isatty.IsTerminal(f.Fd())
	}
}

func searchFile(filename string, patterns []*search.Pattern, opts options, copyText *string, copyOnce *sync.Once, stderr io.Writer, stderrMu *sync.Mutex) []format.MatchResult {
	s := newLineScanner(filename, patterns, opts, copyText, copyOnce)
	err := walker.Lines(filename, s.feed)
	if err != nil {
		stderrMu.Lock()
		fmt.Fprintln(stderr, "greplex:", err)
		stderrMu.Unlock()
	}
	return s.results
}

func searchReader(r io.Reader, label string, patterns []*search.Pattern, opts options, copyText *string, copyOnce *sync.Once) []format.MatchResult {
	s := newLineScanner(label, patterns, opts, copyText, copyOnce)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if !s.feed(lineNum, scanner.Text()) {
			break
		}
	}
	return s.results
}

// lineScanner accumulates MatchResult entries across a single
// stream of lines, threading the -A/-B/-C context window (grep's own
// "include N surrounding lines" behavior) through an otherwise
// one-pass scan.
type lineScanner struct {
	filename     string
	patterns     []*search.Pattern
	opts         options
	copyText     *string
	copyOnce     *sync.Once
	results      []format.MatchResult
	matches      int
	before       []format.MatchResult // ring buffer of the last opts.before lines
	afterPending int
}

func newLineScanner(filename string, patterns []*search.Pattern, opts options, copyText *string, copyOnce *sync.Once) *lineScanner {
	return &lineScanner{filename: filename, patterns: patterns, opts: opts, copyText: copyText, copyOnce: copyOnce}
}

// feed processes one line, returning false once maxCount has been
// reached so the caller can stop reading early.
func (s *lineScanner) feed(lineNum int, line string) bool {
	if s.opts.maxCount > 0 && s.matches >= s.opts.maxCount {
		return false
	}

	ok, start, end := matchAny(s.patterns, line)
	if s.opts.invertMatch {
		ok = !ok
	}

	context := format.MatchResult{Filename: s.filename, LineNumber: lineNum, Line: line, MatchStart: -1, MatchEnd: -1}

	if !ok {
		if s.afterPending > 0 {
			s.afterPending--
			s.results = append(s.results, context)
		} else if s.opts.before > 0 {
			s.before = append(s.before, context)
			if len(s.before) > s.opts.before {
				s.before = s.before[1:]
			}
		}
		return true
	}

	s.matches++
	if !s.opts.invertMatch {
		if start >= 0 {
			s.copyOnce.Do(func() { *s.copyText = line[start:end] })
		}
	} else {
		start, end = -1, -1
	}

	s.results = append(s.results, s.before...)
	s.before = nil
	s.results = append(s.results, format.MatchResult{
		Filename: s.filename, LineNumber: lineNum, Line: line,
		MatchStart: start, MatchEnd: end,
	})
	s.afterPending = s.opts.after
	return true
}

// matchAny reports whether any of the compiled patterns matches line,
// and the byte span of the first such match for highlighting/copy
// purposes (-1, -1 when no span is known, e.g. no match at all).
func matchAny(patterns []*search.Pattern, line string) (bool, int, int) {
	for _, p := range patterns {
		ok, caps := p.FindSubmatch(line)
		if ok {
			start, end := spanOf(line, caps)
			return true, start, end
		}
	}
	return false, -1, -1
}

// spanOf approximates the matched span for highlighting: the search
// package does not track the unnamed whole-match span separately from
// numbered captures, so this uses capture group 1 when present and
// otherwise falls back to highlighting nothing (-1, -1), which leaves
// the line unstyled but still reported as a match.
func spanOf(line string, caps map[int]string) (int, int) {
	if caps == nil {
		return -1, -1
	}
	if g1, ok := caps[1]; ok {
		if idx := strings.Index(line, g1); idx >= 0 {
			return idx, idx + len(g1)
		}
	}
	return -1, -1
}
