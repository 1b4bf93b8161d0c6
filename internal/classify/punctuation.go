package classify

import (
	"github.com/jward/tincture/internal/style"
	"github.com/jward/tincture/internal/syntax"
)

// markBrace tags a delimiter with the special punctuation tag and, when
// gate is on, with tag itself.
func (r *run) markBrace(span syntax.Span, tag style.Tag, gate Flags) {
	if r.flags.Has(SpecialPunctuation) {
		r.add(span, style.SpecialPunctuation)
	}
	if r.flags.Has(gate) {
		r.add(span, tag)
	}
}

// categoryGate returns the brace flag that governs a keyword category tag.
func categoryGate(tag style.Tag) (Flags, bool) {
	switch tag {
	case style.BranchingKeyword:
		return BranchBrace, true
	case style.LoopKeyword:
		return LoopBrace, true
	case style.ResourceKeyword:
		return ResourceBrace, true
	}
	return 0, false
}

func (r *run) punctuation(span syntax.Span) {
	if !r.flags.HasAny(AllBraces) {
		return
	}
	switch r.tree.Text(span) {
	case "{", "}":
		r.brace(span)
	case "(", ")":
		if r.flags.HasAny(ParameterBrace | BranchBrace | LoopBrace | ResourceBrace) {
			r.paren(span)
		}
	}
}

func (r *run) brace(span syntax.Span) {
	n := r.tree.FindNode(span, true)
	if n == nil {
		return
	}
	if k := n.Kind(); !(k.IsTypeDeclaration() || k.IsExpression() || k.IsNamespaceDeclaration() || k == syntax.SwitchStatement) {
		if n = n.Parent(); n == nil {
			return
		}
	}
	tag, ok := constructTag(n)
	if !ok {
		return
	}
	if r.flags.Has(SpecialPunctuation) {
		r.add(span, style.SpecialPunctuation)
	}
	if gate, ok := categoryGate(tag); ok {
		if r.flags.Has(gate) {
			r.add(span, tag)
		}
		return
	}
	if !n.Kind().IsExpression() {
		r.add(span, style.DeclarationBrace)
	}
	if r.flags.Has(DeclarationBrace) {
		r.add(span, tag)
	}
}

func (r *run) paren(span syntax.Span) {
	n := r.tree.FindNode(span, true)
	if n == nil {
		return
	}
	k := n.Kind()
	if k == syntax.CastExpression {
		if !r.flags.Has(ParameterBrace) {
			return
		}
		typ := n.Field(syntax.FieldType)
		if typ == nil {
			return
		}
		sym := r.model.ResolveSymbol(typ)
		if sym == nil {
			return
		}
		if tag, ok := typeNameTag(sym); ok {
			r.add(span, tag)
			return
		}
	}
	switch {
	case k.IsBranch():
		r.markBrace(span, style.BranchingKeyword, BranchBrace)
		return
	case k.IsLoop():
		r.markBrace(span, style.LoopKeyword, LoopBrace)
		return
	case k.IsResource():
		r.markBrace(span, style.ResourceKeyword, ResourceBrace)
		return
	}
	switch k {
	case syntax.ArgumentList, syntax.AttributeArgumentList, syntax.ParameterList, syntax.CastExpression:
		n = n.Parent()
	default:
		return
	}
	if n == nil {
		return
	}
	if tag, ok := constructTag(n); ok {
		r.markBrace(span, tag, ParameterBrace)
	}
}

// typeNameTag maps a type symbol to the tag of its name.
func typeNameTag(sym *syntax.Symbol) (style.Tag, bool) {
	switch sym.Kind {
	case syntax.SymbolTypeParameter:
		return style.TypeParameterName, true
	case syntax.SymbolNamedType:
		switch sym.TypeKind {
		case syntax.TypeClass:
			return style.ClassName, true
		case syntax.TypeInterface:
			return style.InterfaceName, true
		case syntax.TypeStruct:
			return style.StructName, true
		case syntax.TypeDelegate:
			return style.DelegateName, true
		case syntax.TypeEnum:
			return style.EnumName, true
		}
	}
	return 0, false
}
