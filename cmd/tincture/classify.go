package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/jward/tincture"
	"github.com/jward/tincture/internal/syntax"
)

var flagRange string

var classifyCmd = &cobra.Command{
	Use:   "classify <files|globs>...",
	Short: "Classify C# files and print the tagged spans",
	Long: "Parses each file and prints its classification spans. Globs use doublestar syntax (src/**/*.cs). " +
		"Files that fail to open are reported after the others are printed.",
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringVar(&flagRange, "range", "", "classify only start:length (byte offsets)")
}

func runClassify(cmd *cobra.Command, args []string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	result := CLIResult{Command: "classify"}

	paths, err := expandPaths(args)
	if err != nil {
		return outputError(out, errOut, result, err)
	}
	var rng *syntax.Span
	if flagRange != "" {
		r, err := parseRange(flagRange)
		if err != nil {
			return outputError(out, errOut, result, err)
		}
		rng = &r
	}

	ctx := cmd.Context()
	e, err := newEngine(ctx, false)
	if err != nil {
		return outputError(out, errOut, result, err)
	}
	defer e.Close()

	files, openErr := e.OpenFiles(ctx, paths)
	results := make([]CLIFileSpans, 0, len(files))
	for _, f := range files {
		r := syntax.NewSpan(0, len(f.Source))
		if rng != nil {
			r = clampRange(*rng, len(f.Source))
		}
		results = append(results, fileSpans(f, f.Classify(ctx, r)))
	}
	n := len(results)
	result.Results = results
	result.TotalCount = &n
	if openErr != nil {
		return outputError(out, errOut, result, openErr)
	}
	return outputResult(out, result)
}

func fileSpans(f *tincture.File, spans []tincture.Span) CLIFileSpans {
	out := CLIFileSpans{File: f.Path, Spans: make([]CLISpan, 0, len(spans))}
	for _, s := range spans {
		loc := f.Location(syntax.Span{Start: s.Start, Length: s.Length})
		out.Spans = append(out.Spans, CLISpan{
			Start:  s.Start,
			Length: s.Length,
			Tag:    s.Tag.String(),
			Line:   loc.StartLine,
			Col:    loc.StartCol,
			Text:   string(f.Source[s.Start:s.End()]),
		})
	}
	return out
}

// parseRange parses "start:length".
func parseRange(s string) (syntax.Span, error) {
	startText, lengthText, ok := strings.Cut(s, ":")
	if !ok {
		return syntax.Span{}, errors.Errorf("invalid range %q: want start:length", s)
	}
	start, err := strconv.Atoi(startText)
	if err != nil || start < 0 {
		return syntax.Span{}, errors.Errorf("invalid range start %q", startText)
	}
	length, err := strconv.Atoi(lengthText)
	if err != nil || length < 0 {
		return syntax.Span{}, errors.Errorf("invalid range length %q", lengthText)
	}
	return syntax.Span{Start: start, Length: length}, nil
}

func clampRange(r syntax.Span, n int) syntax.Span {
	start := min(r.Start, n)
	end := min(r.End(), n)
	return syntax.NewSpan(start, end)
}
