package classify

import (
	"github.com/jward/tincture/internal/style"
	"github.com/jward/tincture/internal/syntax"
)

// roleFunc yields the primary tag for a symbol. more is false when no
// marker or modifier tags may follow.
type roleFunc func(sym *syntax.Symbol, n syntax.Node) (tag style.Tag, more bool)

var symbolRoles = map[syntax.SymbolKind]roleFunc{
	syntax.SymbolLabel:         final(style.Label),
	syntax.SymbolTypeParameter: final(style.TypeParameter),
	syntax.SymbolNamespace:     final(style.Namespace),
	syntax.SymbolField:         fieldRole,
	syntax.SymbolProperty:      primary(style.Property),
	syntax.SymbolEvent:         primary(style.Event),
	syntax.SymbolLocal:         localRole,
	syntax.SymbolParameter:     primary(style.Parameter),
	syntax.SymbolMethod:        methodRole,
	syntax.SymbolNamedType:     primary(0),
}

var methodRoles = map[syntax.MethodKind]roleFunc{
	syntax.MethodConstructor:       constructorRole,
	syntax.MethodDestructor:        primary(style.ConstructorMethod),
	syntax.MethodStaticConstructor: primary(style.ConstructorMethod),
}

func final(tag style.Tag) roleFunc {
	return func(*syntax.Symbol, syntax.Node) (style.Tag, bool) { return tag, false }
}

func primary(tag style.Tag) roleFunc {
	return func(*syntax.Symbol, syntax.Node) (style.Tag, bool) { return tag, true }
}

func fieldRole(sym *syntax.Symbol, _ syntax.Node) (style.Tag, bool) {
	switch {
	case sym.IsConst():
		return style.ConstField, true
	case sym.IsReadonly():
		return style.ReadonlyField, true
	}
	return style.Field, true
}

func localRole(sym *syntax.Symbol, _ syntax.Node) (style.Tag, bool) {
	if sym.IsConst() {
		return style.ConstField, true
	}
	return style.LocalVariable, true
}

func methodRole(sym *syntax.Symbol, n syntax.Node) (style.Tag, bool) {
	if fn, ok := methodRoles[sym.MethodKind]; ok {
		return fn(sym, n)
	}
	switch {
	case sym.IsExtension:
		return style.ExtensionMethod, true
	case sym.IsExtern():
		return style.ExternMethod, true
	}
	return style.Method, true
}

// constructorRole styles attribute usages like the attribute they name.
func constructorRole(_ *syntax.Symbol, n syntax.Node) (style.Tag, bool) {
	for i, cur := 0, n; i < 3 && cur != nil; i, cur = i+1, cur.Parent() {
		if cur.Kind() == syntax.Attribute {
			return style.AttributeName, true
		}
	}
	return style.ConstructorMethod, true
}

// declarationTag is the tag a declared symbol's own name receives.
func declarationTag(sym *syntax.Symbol) (style.Tag, bool) {
	switch sym.Kind {
	case syntax.SymbolNamedType, syntax.SymbolEvent:
		if sym.ContainingType() != nil {
			return style.NestedDeclaration, true
		}
		return style.Declaration, true
	case syntax.SymbolMethod:
		return style.Declaration, true
	case syntax.SymbolProperty:
		if ct := sym.ContainingType(); ct != nil && ct.IsAnonymousType {
			return 0, false
		}
		return style.Declaration, true
	}
	return 0, false
}

// modifierTag picks the single modifier tag for a symbol. ok is false when
// the symbol gets none.
func modifierTag(sym *syntax.Symbol) (style.Tag, bool) {
	switch {
	case sym.IsStatic():
		if sym.Kind == syntax.SymbolNamespace {
			return 0, false
		}
		return style.StaticMember, true
	case sym.IsSealed():
		if sym.Kind == syntax.SymbolNamedType && sym.TypeKind != syntax.TypeClass {
			return 0, false
		}
		return style.SealedMember, true
	case sym.IsOverride():
		return style.OverrideMember, true
	case sym.IsVirtual():
		return style.VirtualMember, true
	case sym.IsAbstract():
		return style.AbstractMember, true
	}
	return 0, false
}

// isAliasName reports whether n is the alias introduced by a using
// directive, as in `using A = X.Y;`.
func isAliasName(n syntax.Node) bool {
	p := n.Parent()
	if p == nil {
		return false
	}
	switch p.Kind() {
	case syntax.NameEquals:
		gp := p.Parent()
		return gp != nil && gp.Kind() == syntax.UsingDirective
	case syntax.UsingDirective:
		alias := p.Field(syntax.FieldAlias)
		return alias != nil && alias.Span() == n.Span() && alias.Kind() == n.Kind()
	}
	return false
}

// firstCandidate returns the first candidate of an unbound reference.
func firstCandidate(model syntax.SemanticModel, n syntax.Node) *syntax.Symbol {
	if n == nil {
		return nil
	}
	if c := model.CandidateSymbols(n); len(c) > 0 {
		return c[0]
	}
	return nil
}

func unwrapArgument(n syntax.Node) syntax.Node {
	switch n.Kind() {
	case syntax.Argument, syntax.AttributeArgument:
		if e := n.Field(syntax.FieldExpression); e != nil {
			return e
		}
	}
	return n
}

// roles emits the semantic tags of the identifier-like node n over span.
func (r *run) roles(model syntax.SemanticModel, n syntax.Node, span syntax.Span) {
	n = unwrapArgument(n)
	sym := model.ResolveSymbol(n)
	if sym == nil {
		if sym = model.ResolveDeclaredSymbol(n); sym != nil {
			if tag, ok := declarationTag(sym); ok {
				r.add(span, tag)
			}
		}
	}
	if sym == nil {
		if isAliasName(n) {
			r.add(span, style.AliasNamespace)
			return
		}
		if p := n.Parent(); p != nil {
			switch p.Kind() {
			case syntax.MemberAccessExpression:
				sym = firstCandidate(model, p)
			case syntax.Argument:
				sym = firstCandidate(model, p.Field(syntax.FieldExpression))
			}
		}
		if sym == nil {
			return
		}
	}

	fn, ok := symbolRoles[sym.Kind]
	if !ok {
		return
	}
	tag, more := fn(sym, n)
	if tag.Valid() {
		r.add(span, tag)
	}
	if !more {
		return
	}
	if tag, ok := r.c.markers.Get(sym.ID); ok {
		r.add(span, tag)
	}
	if tag, ok := modifierTag(sym); ok {
		r.add(span, tag)
	}
}
