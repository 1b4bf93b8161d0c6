package markrules

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/importer"
	"github.com/risor-io/risor/object"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/jward/tincture/internal/store"
	"github.com/jward/tincture/internal/syntax"
)

// Runtime embeds a Risor VM and exposes the symbols of a document set to
// marker scripts. Scripts pin and unpin symbols through host functions; the
// writes go to the MarkerWriter given to each run.
type Runtime struct {
	scriptsDir string
	fsys       fs.FS
	files      afero.Fs
	log        zerolog.Logger
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithRuntimeFS loads scripts, and resolves their import statements, from
// fsys instead of the scripts directory.
func WithRuntimeFS(fsys fs.FS) RuntimeOption {
	return func(r *Runtime) {
		r.fsys = fsys
	}
}

// WithLogger sets the logger behind the scripts' log object.
func WithLogger(log zerolog.Logger) RuntimeOption {
	return func(r *Runtime) {
		r.log = log
	}
}

// WithFiles sets the filesystem scripts are read from when no fs.FS is
// configured. Defaults to the OS filesystem.
func WithFiles(files afero.Fs) RuntimeOption {
	return func(r *Runtime) {
		r.files = files
	}
}

// NewRuntime creates a Runtime that resolves relative script paths and
// imports against scriptsDir.
func NewRuntime(scriptsDir string, opts ...RuntimeOption) *Runtime {
	r := &Runtime{
		scriptsDir: scriptsDir,
		files:      afero.NewOsFs(),
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run is the input of one script execution.
type Run struct {
	Symbols []*syntax.Symbol
	Writer  store.MarkerWriter
	// Source is recorded on every marker the script pins.
	Source string
	// Globals are extra values visible to the script.
	Globals map[string]any
}

// ScriptSource is the marker source recorded for pins made by the script
// at path.
func ScriptSource(path string) string {
	return "script:" + filepath.ToSlash(path)
}

// RunScript loads and executes the script at path. Pins are recorded under
// ScriptSource(path) unless run.Source is set.
func (r *Runtime) RunScript(ctx context.Context, path string, run Run) (int, error) {
	src, err := r.LoadScript(path)
	if err != nil {
		return 0, err
	}
	if run.Source == "" {
		run.Source = ScriptSource(path)
	}
	return r.eval(ctx, src, path, run)
}

// RunSource executes Risor source directly and returns the number of pins
// the script made.
func (r *Runtime) RunSource(ctx context.Context, source string, run Run) (int, error) {
	if run.Source == "" {
		run.Source = ScriptSource("<inline>")
	}
	return r.eval(ctx, source, "<inline>", run)
}

func (r *Runtime) eval(ctx context.Context, source, label string, run Run) (int, error) {
	if run.Writer == nil {
		return 0, errors.Errorf("markrules: script %s: no marker writer", label)
	}
	host := newHost(run, r.log.With().Str("script", label).Logger())
	globals := r.buildGlobals(host, run.Globals)

	var opts []risor.Option
	for name, val := range globals {
		opts = append(opts, risor.WithGlobal(name, val))
	}
	if imp := r.buildImporter(globals); imp != nil {
		opts = append(opts, risor.WithImporter(imp))
	}

	if _, err := risor.Eval(ctx, source, opts...); err != nil {
		return host.pinned, errors.Errorf("markrules: script %s: %w", label, err)
	}
	return host.pinned, nil
}

// buildImporter returns nil when neither an fs.FS nor a scripts directory
// is configured.
func (r *Runtime) buildImporter(globals map[string]any) importer.Importer {
	globalNames := make([]string, 0, len(globals))
	for name := range globals {
		globalNames = append(globalNames, name)
	}

	if r.fsys != nil {
		return importer.NewFSImporter(importer.FSImporterOptions{
			GlobalNames: globalNames,
			SourceFS:    r.fsys,
			Extensions:  []string{".risor"},
		})
	}
	if r.scriptsDir != "" {
		return importer.NewLocalImporter(importer.LocalImporterOptions{
			GlobalNames: globalNames,
			SourceDir:   r.scriptsDir,
			Extensions:  []string{".risor"},
		})
	}
	return nil
}

// LoadScript reads a .risor file. With an fs.FS configured the path is
// taken relative to its root; otherwise relative paths are joined to the
// scripts directory.
func (r *Runtime) LoadScript(path string) (string, error) {
	if r.fsys != nil {
		fsPath := strings.TrimPrefix(filepath.ToSlash(path), "/")
		data, err := fs.ReadFile(r.fsys, fsPath)
		if err != nil {
			return "", errors.Errorf("markrules: loading script %s from fs: %w", fsPath, err)
		}
		return string(data), nil
	}

	fullPath := path
	if !filepath.IsAbs(path) && r.scriptsDir != "" {
		fullPath = filepath.Join(r.scriptsDir, path)
	}
	data, err := afero.ReadFile(r.files, fullPath)
	if err != nil {
		return "", errors.Errorf("markrules: loading script %s: %w", fullPath, err)
	}
	return string(data), nil
}

func (r *Runtime) buildGlobals(h *host, extra map[string]any) map[string]any {
	globals := map[string]any{
		"symbols":     h.symbolsFn(),
		"mark":        h.markFn(),
		"unmark":      h.unmarkFn(),
		"style_names": styleNamesFn(),
		"log":         mustProxy(&logObject{log: h.log}),
	}
	for k, v := range extra {
		globals[k] = v
	}
	return globals
}

func mustProxy(v any) object.Object {
	p, err := object.NewProxy(v)
	if err != nil {
		panic("markrules: proxy error: " + err.Error())
	}
	return p
}
