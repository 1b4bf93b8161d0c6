// Package markrules populates the marker table out-of-band: glob rules from
// the configuration file and Risor scripts both pin marker styles to the
// symbols of a set of parsed documents.
package markrules

import (
	"strings"

	"github.com/gobwas/glob"
	"gitlab.com/tozd/go/errors"

	"github.com/jward/tincture/internal/config"
	"github.com/jward/tincture/internal/store"
	"github.com/jward/tincture/internal/style"
	"github.com/jward/tincture/internal/syntax"
)

// Rule is a compiled glob rule.
type Rule struct {
	Pattern string
	Style   style.Tag

	kind      syntax.SymbolKind
	anyKind   bool
	qualified bool
	g         glob.Glob
}

// Compile compiles configuration rules in order. Patterns containing a dot
// match qualified names (`*` stops at dots, `**` does not); other patterns
// match the bare symbol name.
func Compile(rules []config.Rule) ([]*Rule, error) {
	out := make([]*Rule, 0, len(rules))
	for i, r := range rules {
		g, err := glob.Compile(r.Pattern, '.')
		if err != nil {
			return nil, errors.Errorf("markrules: rule %d: pattern %q: %w", i, r.Pattern, err)
		}
		tag, ok := style.Resolve(r.Style)
		if !ok || !tag.IsMarker() {
			return nil, errors.Errorf("markrules: rule %d: %q is not a marker style", i, r.Style)
		}
		cr := &Rule{
			Pattern:   r.Pattern,
			Style:     tag,
			anyKind:   r.Kind == "",
			qualified: strings.Contains(r.Pattern, "."),
			g:         g,
		}
		if !cr.anyKind {
			k, ok := config.ParseKind(r.Kind)
			if !ok {
				return nil, errors.Errorf("markrules: rule %d: unknown kind %q", i, r.Kind)
			}
			cr.kind = k
		}
		out = append(out, cr)
	}
	return out, nil
}

// SourceRules is the marker source recorded for glob rule pins. Every
// rule run replaces all pins recorded under it.
const SourceRules = "rules"

// Match reports whether sym is selected by the rule.
func (r *Rule) Match(sym *syntax.Symbol) bool {
	if sym == nil || sym.Name == "" {
		return false
	}
	if !r.anyKind && sym.Kind != r.kind {
		return false
	}
	if r.qualified {
		return r.g.Match(sym.QualifiedName())
	}
	return r.g.Match(sym.Name)
}

// Apply writes one marker per matching symbol into w and returns how many
// were written. A symbol matched by several rules takes the first rule's
// style.
func Apply(rules []*Rule, syms []*syntax.Symbol, w store.MarkerWriter) (int, error) {
	seen := make(map[syntax.Identity]bool)
	n := 0
	for _, r := range rules {
		for _, sym := range syms {
			if seen[sym.ID] || !r.Match(sym) {
				continue
			}
			seen[sym.ID] = true
			if err := w.UpsertMarker(NewMarker(sym, r.Style, SourceRules)); err != nil {
				return n, errors.Errorf("markrules: %s: %w", r.Pattern, err)
			}
			n++
		}
	}
	return n, nil
}

// NewMarker builds the persisted form of a pin.
func NewMarker(sym *syntax.Symbol, tag style.Tag, source string) *store.Marker {
	return &store.Marker{
		Identity: sym.ID.String(),
		Name:     sym.QualifiedName(),
		Kind:     sym.Kind.String(),
		Style:    tag.String(),
		Source:   source,
	}
}
