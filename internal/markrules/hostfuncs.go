package markrules

import (
	"context"

	"github.com/risor-io/risor/object"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/jward/tincture/internal/style"
	"github.com/jward/tincture/internal/syntax"
)

// host is the per-run state behind the script builtins.
type host struct {
	run    Run
	byID   map[string]*syntax.Symbol
	log    zerolog.Logger
	pinned int
}

func newHost(run Run, log zerolog.Logger) *host {
	h := &host{run: run, byID: make(map[string]*syntax.Symbol, len(run.Symbols)), log: log}
	for _, sym := range run.Symbols {
		if _, ok := h.byID[sym.ID.String()]; !ok {
			h.byID[sym.ID.String()] = sym
		}
	}
	return h
}

// symbolsFn creates the "symbols" host function.
//
// symbols() → []map, or symbols(kind) for one kind
//
// Each map has name, qualified, kind, identity, signature, container and
// static keys.
func (h *host) symbolsFn() *object.Builtin {
	return object.NewBuiltin("symbols", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) > 1 {
			return object.NewArgsError("symbols", 1, len(args))
		}
		kind := ""
		if len(args) == 1 {
			k, err := toString(args[0])
			if err != nil {
				return object.Errorf("symbols: kind: %v", err)
			}
			kind = k
		}

		results := []object.Object{}
		for _, sym := range h.run.Symbols {
			if kind != "" && sym.Kind.String() != kind {
				continue
			}
			results = append(results, symbolObject(sym))
		}
		return object.NewList(results)
	})
}

func symbolObject(sym *syntax.Symbol) *object.Map {
	container := ""
	if sym.Container != nil {
		container = sym.Container.QualifiedName()
	}
	return object.NewMap(map[string]object.Object{
		"name":      object.NewString(sym.Name),
		"qualified": object.NewString(sym.QualifiedName()),
		"kind":      object.NewString(sym.Kind.String()),
		"identity":  object.NewString(sym.ID.String()),
		"signature": object.NewString(sym.Signature),
		"container": object.NewString(container),
		"static":    object.NewBool(sym.IsStatic()),
	})
}

// markFn creates the "mark" host function.
//
// mark(symbol_or_identity, style) → true
func (h *host) markFn() *object.Builtin {
	return object.NewBuiltin("mark", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("mark", 2, len(args))
		}
		sym, err := h.symbolArg(args[0])
		if err != nil {
			return object.Errorf("mark: %v", err)
		}
		name, err := toString(args[1])
		if err != nil {
			return object.Errorf("mark: style: %v", err)
		}
		tag, ok := style.Resolve(name)
		if !ok || !tag.IsMarker() {
			return object.Errorf("mark: %q is not a marker style", name)
		}

		if err := h.run.Writer.UpsertMarker(NewMarker(sym, tag, h.run.Source)); err != nil {
			return object.Errorf("mark: %v", err)
		}
		h.pinned++
		h.log.Debug().Str("symbol", sym.QualifiedName()).Str("style", name).Msg("pinned")
		return object.NewBool(true)
	})
}

// unmarkFn creates the "unmark" host function.
//
// unmark(symbol_or_identity) → bool, whether a pin was removed
func (h *host) unmarkFn() *object.Builtin {
	return object.NewBuiltin("unmark", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("unmark", 1, len(args))
		}
		id, err := identityArg(args[0])
		if err != nil {
			return object.Errorf("unmark: %v", err)
		}
		if _, err := syntax.ParseIdentity(id); err != nil {
			return object.Errorf("unmark: bad identity %q", id)
		}
		found, err := h.run.Writer.DeleteMarker(id)
		if err != nil {
			return object.Errorf("unmark: %v", err)
		}
		return object.NewBool(found)
	})
}

// styleNamesFn creates "style_names", listing the styles mark accepts.
func styleNamesFn() *object.Builtin {
	return object.NewBuiltin("style_names", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("style_names", 0, len(args))
		}
		tags := style.Markers()
		results := make([]object.Object, 0, len(tags))
		for _, t := range tags {
			results = append(results, object.NewString(t.String()))
		}
		return object.NewList(results)
	})
}

// symbolArg resolves a symbol map or identity string to a symbol of the
// current run.
func (h *host) symbolArg(obj object.Object) (*syntax.Symbol, error) {
	id, err := identityArg(obj)
	if err != nil {
		return nil, err
	}
	sym, ok := h.byID[id]
	if !ok {
		return nil, errors.Errorf("unknown symbol %q", id)
	}
	return sym, nil
}

func identityArg(obj object.Object) (string, error) {
	if m, err := extractMap(obj); err == nil {
		id := getString(m, "identity")
		if id == "" {
			return "", errors.New("symbol map has no identity")
		}
		return id, nil
	}
	return toString(obj)
}

// logObject provides log.info/warn/error methods for Risor scripts.
type logObject struct {
	log zerolog.Logger
}

func (l *logObject) Info(msg string) {
	l.log.Info().Msg(msg)
}

func (l *logObject) Warn(msg string) {
	l.log.Warn().Msg(msg)
}

func (l *logObject) Error(msg string) {
	l.log.Error().Msg(msg)
}

func extractMap(obj object.Object) (map[string]object.Object, error) {
	m, ok := obj.(*object.Map)
	if !ok {
		return nil, errors.Errorf("expected map, got %s", obj.Type())
	}
	return m.Value(), nil
}

func getString(m map[string]object.Object, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	if s, ok := v.(*object.String); ok {
		return s.Value()
	}
	return ""
}

func toString(obj object.Object) (string, error) {
	if s, ok := obj.(*object.String); ok {
		return s.Value(), nil
	}
	return "", errors.Errorf("expected string, got %s", obj.Type())
}
