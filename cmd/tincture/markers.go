package main

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/hbollon/go-edlib"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/jward/tincture"
	"github.com/jward/tincture/internal/markrules"
	"github.com/jward/tincture/internal/store"
	"github.com/jward/tincture/internal/style"
)

var (
	flagScript string
	flagSource string
)

var markersCmd = &cobra.Command{
	Use:   "markers",
	Short: "Manage symbols pinned to marker styles",
	Long:  "Pins are stored in the marker database and apply to every reference of the pinned symbol.",
}

func init() {
	markersCmd.AddCommand(markersListCmd)
	markersCmd.AddCommand(markersPinCmd)
	markersCmd.AddCommand(markersUnpinCmd)
	markersCmd.AddCommand(markersApplyCmd)
	markersCmd.AddCommand(markersClearCmd)

	markersListCmd.Flags().StringVar(&flagSource, "source", "", "only markers recorded under this source (manual, rules, script:<path>)")
	markersClearCmd.Flags().StringVar(&flagSource, "source", "", "source whose markers are removed (required)")
	markersApplyCmd.Flags().StringVar(&flagScript, "script", "", "Risor script to run instead of the configured glob rules")
}

// --- list ---

var markersListCmd = &cobra.Command{
	Use:   "list [--source src] [files|globs]...",
	Short: "List pinned symbols",
	Long:  "Lists every pin, the pins of one source, or the pins of the symbols declared in the given files.",
	RunE:  runMarkersList,
}

func runMarkersList(cmd *cobra.Command, args []string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	result := CLIResult{Command: "markers list"}

	ctx := cmd.Context()
	e, err := newEngine(ctx, true)
	if err != nil {
		return outputError(out, errOut, result, err)
	}
	defer e.Close()

	var stored []*store.Marker
	switch {
	case len(args) > 0:
		var files []*tincture.File
		files, err = openArgs(ctx, e, args)
		if err == nil {
			stored, err = e.StoredMarkersFor(tincture.Symbols(files))
		}
	case flagSource != "":
		stored, err = e.StoredMarkersBySource(flagSource)
	default:
		stored, err = e.StoredMarkers()
	}
	if err != nil {
		return outputError(out, errOut, result, err)
	}
	markers := make([]CLIMarker, 0, len(stored))
	for _, m := range stored {
		if flagSource != "" && m.Source != flagSource {
			continue
		}
		markers = append(markers, markerToCLI(m))
	}
	n := len(markers)
	result.Results = markers
	result.TotalCount = &n
	return outputResult(out, result)
}

// --- pin / unpin ---

var markersPinCmd = &cobra.Command{
	Use:   "pin <file> <offset> <style>",
	Short: "Pin the symbol at a byte offset to a marker style",
	Args:  cobra.ExactArgs(3),
	RunE:  runMarkersPin,
}

func runMarkersPin(cmd *cobra.Command, args []string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	result := CLIResult{Command: "markers pin"}

	tag, err := markerStyle(args[2])
	if err != nil {
		return outputError(out, errOut, result, err)
	}
	e, sym, err := symbolAtArgs(cmd, args[0], args[1])
	if err != nil {
		return outputError(out, errOut, result, err)
	}
	defer e.Close()

	if err := e.PinMarker(sym, tag); err != nil {
		return outputError(out, errOut, result, err)
	}
	stored, err := e.Store().MarkerByIdentity(sym.ID.String())
	if err != nil {
		return outputError(out, errOut, result, err)
	}
	if stored == nil {
		return outputError(out, errOut, result, errors.Errorf("pinned %s but could not read it back", sym.QualifiedName()))
	}
	one := 1
	result.Results = markerToCLI(stored)
	result.TotalCount = &one
	return outputResult(out, result)
}

var markersUnpinCmd = &cobra.Command{
	Use:   "unpin <file> <offset>",
	Short: "Remove the pin of the symbol at a byte offset",
	Args:  cobra.ExactArgs(2),
	RunE:  runMarkersUnpin,
}

func runMarkersUnpin(cmd *cobra.Command, args []string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	result := CLIResult{Command: "markers unpin"}

	e, sym, err := symbolAtArgs(cmd, args[0], args[1])
	if err != nil {
		return outputError(out, errOut, result, err)
	}
	defer e.Close()

	stored, err := e.Store().MarkerByIdentity(sym.ID.String())
	if err != nil {
		return outputError(out, errOut, result, err)
	}
	if _, err := e.UnpinMarker(sym.ID); err != nil {
		return outputError(out, errOut, result, err)
	}
	if stored != nil {
		one := 1
		result.Results = markerToCLI(stored)
		result.TotalCount = &one
	}
	return outputResult(out, result)
}

// symbolAtArgs opens the engine with its database, opens file and resolves
// the symbol at the offset argument. The caller closes the engine.
func symbolAtArgs(cmd *cobra.Command, file, offsetArg string) (*tincture.Engine, *tincture.Symbol, error) {
	offset, err := strconv.Atoi(offsetArg)
	if err != nil || offset < 0 {
		return nil, nil, errors.Errorf("invalid offset %q", offsetArg)
	}
	ctx := cmd.Context()
	e, err := newEngine(ctx, true)
	if err != nil {
		return nil, nil, err
	}
	f, err := e.OpenFile(ctx, file)
	if err != nil {
		e.Close()
		return nil, nil, err
	}
	sym := f.SymbolAt(offset)
	if sym == nil {
		e.Close()
		return nil, nil, errors.Errorf("no symbol at %s:%d", file, offset)
	}
	return e, sym, nil
}

// --- apply ---

var markersApplyCmd = &cobra.Command{
	Use:   "apply [--script file.risor] <files|globs>...",
	Short: "Pin symbols in bulk from the configured glob rules or a Risor script",
	Long: "Runs the [[markers.rules]] glob rules from the configuration, or the given Risor script, over the symbols " +
		"declared in the files. The run replaces every pin made by earlier runs of the same rules or script.",
	Args: cobra.MinimumNArgs(1),
	RunE: runMarkersApply,
}

func runMarkersApply(cmd *cobra.Command, args []string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	result := CLIResult{Command: "markers apply"}

	ctx := cmd.Context()
	e, err := newEngine(ctx, true)
	if err != nil {
		return outputError(out, errOut, result, err)
	}
	defer e.Close()

	files, err := openArgs(ctx, e, args)
	if err != nil {
		return outputError(out, errOut, result, err)
	}
	syms := tincture.Symbols(files)

	var res markrules.Result
	if flagScript != "" {
		res, err = e.ApplyScript(ctx, flagScript, syms)
	} else {
		res, err = e.ApplyRules(ctx, syms)
	}
	if err != nil {
		return outputError(out, errOut, result, err)
	}
	result.Results = CLIApply{
		Source:    res.Source,
		Files:     len(files),
		Symbols:   len(syms),
		Pinned:    res.Pinned,
		RulesHash: res.RulesHash,
	}
	return outputResult(out, result)
}

// --- clear ---

var markersClearCmd = &cobra.Command{
	Use:   "clear --source src",
	Short: "Remove every pin recorded under a source",
	Args:  cobra.NoArgs,
	RunE:  runMarkersClear,
}

func runMarkersClear(cmd *cobra.Command, args []string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	result := CLIResult{Command: "markers clear"}

	if flagSource == "" {
		return outputError(out, errOut, result, errors.New("--source is required"))
	}
	e, err := newEngine(cmd.Context(), true)
	if err != nil {
		return outputError(out, errOut, result, err)
	}
	defer e.Close()

	n, err := e.ClearMarkers(flagSource)
	if err != nil {
		return outputError(out, errOut, result, err)
	}
	result.Results = CLIClear{Source: flagSource, Removed: int(n)}
	return outputResult(out, result)
}

// --- helpers ---

// openArgs expands file arguments and opens them all in e.
func openArgs(ctx context.Context, e *tincture.Engine, args []string) ([]*tincture.File, error) {
	paths, err := expandPaths(args)
	if err != nil {
		return nil, err
	}
	return e.OpenFiles(ctx, paths)
}

func markerToCLI(m *store.Marker) CLIMarker {
	c := CLIMarker{
		Identity: m.Identity,
		Name:     m.Name,
		Kind:     m.Kind,
		Style:    m.Style,
		Source:   m.Source,
	}
	if !m.UpdatedAt.IsZero() {
		c.UpdatedAt = m.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return c
}

// markerStyle resolves a marker style name, suggesting the closest marker
// style when the name is unknown.
func markerStyle(name string) (style.Tag, error) {
	if tag, ok := style.Resolve(name); ok && tag.IsMarker() {
		return tag, nil
	}
	if s := suggestStyle(name); s != "" {
		return 0, errors.Errorf("%q is not a marker style (did you mean %q?)", name, s)
	}
	return 0, errors.Errorf("%q is not a marker style", name)
}

// suggestStyle returns the marker style most similar to name, or "" when
// none is close.
func suggestStyle(name string) string {
	type candidate struct {
		name  string
		score float32
	}
	var cands []candidate
	for _, t := range style.Markers() {
		score, err := edlib.StringsSimilarity(name, t.String(), edlib.JaroWinkler)
		if err != nil {
			continue
		}
		cands = append(cands, candidate{t.String(), score})
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })
	if len(cands) == 0 || cands[0].score < 0.7 {
		return ""
	}
	return cands[0].name
}
