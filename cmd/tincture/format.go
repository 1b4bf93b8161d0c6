package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"gitlab.com/tozd/go/errors"
)

var (
	fileColor   = color.New(color.FgCyan, color.Bold)
	posColor    = color.New(color.FgHiBlack)
	tagColor    = color.New(color.FgYellow)
	markerColor = color.New(color.FgMagenta, color.Bold)
)

// formatSpansText prints one "file:line:col  tag  text" line per span,
// grouped by file.
func formatSpansText(w io.Writer, files []CLIFileSpans) {
	for i, f := range files {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fileColor.Fprintln(w, f.File)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, s := range f.Spans {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n",
				posColor.Sprintf("%d:%d", s.Line, s.Col),
				colorTag(s.Tag),
				quoteText(s.Text))
		}
		tw.Flush()
	}
}

func colorTag(name string) string {
	if strings.HasPrefix(name, "marker.") {
		return markerColor.Sprint(name)
	}
	return tagColor.Sprint(name)
}

// quoteText keeps span text on one line.
func quoteText(s string) string {
	const maxText = 40
	if len(s) > maxText {
		s = s[:maxText] + "..."
	}
	return fmt.Sprintf("%q", s)
}

// formatTagsText prints tag names, marker styles highlighted.
func formatTagsText(w io.Writer, tags []CLITag) {
	for _, t := range tags {
		if t.Marker {
			markerColor.Fprintln(w, t.Name)
			continue
		}
		fmt.Fprintln(w, t.Name)
	}
}

// formatMarkersText formats CLIMarker results as aligned columns.
func formatMarkersText(w io.Writer, markers []CLIMarker) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "IDENTITY\tNAME\tKIND\tSTYLE\tSOURCE")
	for _, m := range markers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			m.Identity, m.Name, m.Kind, markerColor.Sprint(m.Style), m.Source)
	}
	tw.Flush()
}

func formatApplyText(w io.Writer, a CLIApply) {
	fmt.Fprintf(w, "Pinned %d of %d symbols in %d files (%s)\n", a.Pinned, a.Symbols, a.Files, a.Source)
	fmt.Fprintf(w, "Rules hash: %s\n", a.RulesHash)
}

// outputResultText dispatches to the appropriate text formatter based on the
// result type.
func outputResultText(w io.Writer, result CLIResult) error {
	switch v := result.Results.(type) {
	case []CLIFileSpans:
		formatSpansText(w, v)
	case []CLITag:
		formatTagsText(w, v)
	case []CLIMarker:
		formatMarkersText(w, v)
	case CLIMarker:
		formatMarkersText(w, []CLIMarker{v})
	case CLIApply:
		formatApplyText(w, v)
	case CLIClear:
		fmt.Fprintf(w, "Removed %d markers (%s)\n", v.Removed, v.Source)
	case nil:
		// No output for nil results (e.g., unpin with nothing pinned).
	default:
		return errors.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

// outputResult writes a CLIResult to w in the selected format.
func outputResult(w io.Writer, result CLIResult) error {
	if flagFormat == "text" {
		return outputResultText(w, result)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON mode the error is written to w as a
// CLIResult envelope, along with any partial results. In text mode partial
// results go to w and the error to errw.
func outputError(w, errw io.Writer, result CLIResult, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		if result.Results != nil {
			_ = outputResultText(w, result)
		}
		fmt.Fprintf(errw, "Error: %s\n", err)
		return err
	}
	result.Error = err.Error()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
	return err
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return errors.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
