package markrules

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/jward/tincture/internal/config"
	"github.com/jward/tincture/internal/store"
	"github.com/jward/tincture/internal/syntax"
)

// Result summarizes one committed rule or script run.
type Result struct {
	Source    string
	Pinned    int
	RulesHash string
}

// ApplyRules runs the configured glob rules over syms and commits the pins
// to s in one transaction, replacing every earlier glob rule pin.
func ApplyRules(ctx context.Context, s *store.Store, rules []config.Rule, syms []*syntax.Symbol) (Result, error) {
	compiled, err := Compile(rules)
	if err != nil {
		return Result{}, err
	}
	batch := store.NewBatchedStore()
	n, err := Apply(compiled, syms, batch)
	if err != nil {
		return Result{}, err
	}
	return commit(ctx, s, batch, Result{Source: SourceRules, Pinned: n}, rulesText(rules))
}

// ApplyScript runs the script at path over syms and commits its pins to s
// in one transaction, replacing the pins of earlier runs of the same
// script. A failing script commits nothing.
func ApplyScript(ctx context.Context, s *store.Store, rt *Runtime, path string, syms []*syntax.Symbol) (Result, error) {
	src, err := rt.LoadScript(path)
	if err != nil {
		return Result{}, err
	}
	batch := store.NewBatchedStore()
	source := ScriptSource(path)
	n, err := rt.eval(ctx, src, path, Run{Symbols: syms, Writer: batch, Source: source})
	if err != nil {
		return Result{}, err
	}
	return commit(ctx, s, batch, Result{Source: source, Pinned: n}, src)
}

func commit(ctx context.Context, s *store.Store, batch *store.BatchedStore, res Result, body string) (Result, error) {
	if err := s.CommitBatch(batch, res.Source); err != nil {
		return Result{}, errors.Errorf("markrules: %w", err)
	}
	res.RulesHash = store.ComputeRulesHash(map[string]string{res.Source: body})
	if err := s.SetMeta(store.MetaRulesHash, res.RulesHash); err != nil {
		return Result{}, errors.Errorf("markrules: %w", err)
	}
	zerolog.Ctx(ctx).Debug().
		Str("source", res.Source).
		Int("pinned", res.Pinned).
		Msg("marker rules applied")
	return res, nil
}

// rulesText renders rules canonically for hashing.
func rulesText(rules []config.Rule) string {
	var b strings.Builder
	for _, r := range rules {
		b.WriteString(r.Pattern)
		b.WriteByte('\t')
		b.WriteString(r.Kind)
		b.WriteByte('\t')
		b.WriteString(r.Style)
		b.WriteByte('\n')
	}
	return b.String()
}
