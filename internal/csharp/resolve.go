package csharp

import (
	"sort"
	"strings"

	"github.com/jward/tincture/internal/syntax"
)

// maxDepth bounds receiver chains and base type walks.
const maxDepth = 16

var _ syntax.SemanticModel = (*binder)(nil)

// finish runs once every declaration is known. It resolves base lists and
// using aliases, synthesizes implicit constructors and declares attribute
// types that are not part of the file. After finish the binder is read-only.
func (b *binder) finish() {
	for _, ti := range b.sortedTypes() {
		for _, bn := range ti.bases {
			if bt := b.typeFromNode(bn, 0); bt != nil && bt != ti.sym {
				ti.baseTypes = append(ti.baseTypes, bt)
			}
		}
	}
	for alias, target := range b.aliases {
		text := compactName(target.Text())
		if ns, ok := b.namespaces[text]; ok {
			b.aliasTargets[alias] = ns
			continue
		}
		if t := b.typeFromNode(target, 0); t != nil {
			b.aliasTargets[alias] = t
			continue
		}
		b.aliasTargets[alias] = b.ensureNamespace(text)
	}
	b.declareAttributeTypes(b.tree.root)
	for _, ti := range b.sortedTypes() {
		b.implicitCtor(ti)
	}
	for _, ti := range b.external {
		b.implicitCtor(ti)
	}
}

func (b *binder) sortedTypes() []*typeInfo {
	out := make([]*typeInfo, 0, len(b.info))
	for _, ti := range b.info {
		out = append(out, ti)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].sym.Declaration.Start != out[j].sym.Declaration.Start {
			return out[i].sym.Declaration.Start < out[j].sym.Declaration.Start
		}
		return out[i].sym.ID < out[j].sym.ID
	})
	return out
}

func (b *binder) implicitCtor(ti *typeInfo) {
	if len(ti.ctors) > 0 || ti.implicit != nil {
		return
	}
	switch ti.sym.TypeKind {
	case syntax.TypeClass, syntax.TypeStruct:
	default:
		return
	}
	if ti.sym.IsAnonymousType {
		return
	}
	ti.implicit = b.newSymbol(&syntax.Symbol{
		Kind:       syntax.SymbolMethod,
		MethodKind: syntax.MethodConstructor,
		Name:       ti.sym.Name,
		Container:  ti.sym,
		Signature:  ".ctor()",
	}, nil, nil)
}

func (b *binder) declareAttributeTypes(n *node) {
	if n.typ == "attribute" {
		if name := attributeName(n); name != "" && b.attributeType(n) == nil {
			full := name
			if !strings.HasSuffix(full, "Attribute") {
				full += "Attribute"
			}
			sym := b.newSymbol(&syntax.Symbol{Kind: syntax.SymbolNamedType, TypeKind: syntax.TypeClass, Name: full}, nil, nil)
			b.external[name] = &typeInfo{sym: sym, members: make(map[string][]*syntax.Symbol)}
		}
	}
	for _, c := range n.namedKids {
		b.declareAttributeTypes(c)
	}
}

// attributeName returns the simple type name written in an attribute.
func attributeName(attr *node) string {
	name := attr.field("name")
	if name == nil && len(attr.namedKids) > 0 {
		name = attr.namedKids[0]
	}
	if name == nil {
		return ""
	}
	return lastSegment(name).Text()
}

// lastSegment returns the rightmost simple name of a possibly qualified name.
func lastSegment(n *node) *node {
	for {
		switch n.typ {
		case "qualified_name", "alias_qualified_name", "member_access_expression", "member_binding_expression":
			next := nameOf(n)
			if next == nil || next == n {
				return n
			}
			n = next
		case "generic_name":
			if id := n.field("name"); id != nil {
				return id
			}
			if id := n.firstNamed("identifier"); id != nil {
				return id
			}
			return n
		default:
			return n
		}
	}
}

// nameOf returns the name part of a qualified name or member access.
func nameOf(n *node) *node {
	if name := n.field("name"); name != nil {
		return name
	}
	if len(n.namedKids) > 0 {
		return n.namedKids[len(n.namedKids)-1]
	}
	return nil
}

// attributeType returns the type an attribute names, trying the written
// name first and then the name with the Attribute suffix.
func (b *binder) attributeType(attr *node) *typeInfo {
	name := attributeName(attr)
	if name == "" {
		return nil
	}
	sc := b.scopeFor(attr)
	for _, candidate := range []string{name, name + "Attribute"} {
		if t := b.lookupType(candidate, sc); t != nil {
			if ti := b.info[t]; ti != nil {
				return ti
			}
		}
	}
	return b.external[name]
}

func (b *binder) scopeFor(n *node) *scope {
	for p := n; p != nil; p = p.parent {
		if sc, ok := b.scopes[p]; ok {
			return sc
		}
	}
	return b.global
}

func isTypeSymbol(s *syntax.Symbol) bool {
	return s.Kind == syntax.SymbolNamedType || s.Kind == syntax.SymbolTypeParameter
}

func anySymbol(*syntax.Symbol) bool { return true }

// lookup resolves a simple name from sc outwards: scope declarations, then
// members of enclosing types, then aliases, file-level types and namespaces.
func (b *binder) lookup(name string, sc *scope, want func(*syntax.Symbol) bool) []*syntax.Symbol {
	for s := sc; s != nil; s = s.parent {
		if syms := filter(s.names[name], want); len(syms) > 0 {
			return syms
		}
		if s.owner != nil && s.owner.Kind == syntax.SymbolNamedType {
			if syms := filter(b.members(s.owner, name, 0), want); len(syms) > 0 {
				return syms
			}
		}
	}
	if t, ok := b.aliasTargets[name]; ok && want(t) {
		return []*syntax.Symbol{t}
	}
	for _, ti := range b.types[name] {
		if want(ti.sym) {
			return []*syntax.Symbol{ti.sym}
		}
	}
	if ns, ok := b.namespaces[name]; ok && want(ns) {
		return []*syntax.Symbol{ns}
	}
	return nil
}

func (b *binder) lookupType(name string, sc *scope) *syntax.Symbol {
	if syms := b.lookup(name, sc, isTypeSymbol); len(syms) > 0 {
		return syms[0]
	}
	return nil
}

func filter(syms []*syntax.Symbol, want func(*syntax.Symbol) bool) []*syntax.Symbol {
	var out []*syntax.Symbol
	for _, s := range syms {
		if want(s) {
			out = append(out, s)
		}
	}
	return out
}

// members returns the members of t named name, searching base types once
// they are known.
func (b *binder) members(t *syntax.Symbol, name string, depth int) []*syntax.Symbol {
	ti := b.info[t]
	if ti == nil || depth > maxDepth {
		return nil
	}
	if syms := ti.members[name]; len(syms) > 0 {
		return syms
	}
	if !b.ready {
		return nil
	}
	for _, bt := range ti.baseTypes {
		if syms := b.members(bt, name, depth+1); len(syms) > 0 {
			return syms
		}
	}
	return nil
}

// typeFromNode resolves type syntax to a named type or type parameter.
func (b *binder) typeFromNode(n *node, depth int) *syntax.Symbol {
	if n == nil || depth > maxDepth {
		return nil
	}
	switch n.typ {
	case "identifier":
		return b.lookupType(n.Text(), b.scopeFor(n))
	case "generic_name":
		if id := lastSegment(n); id != n {
			return b.lookupType(id.Text(), b.scopeFor(n))
		}
	case "qualified_name", "alias_qualified_name":
		if ns, ok := b.namespaces[compactName(n.Text())]; ok {
			return ns
		}
		last := lastSegment(n)
		qual := n.field("qualifier")
		if qual == nil && len(n.namedKids) > 1 {
			qual = n.namedKids[0]
		}
		if q := b.resolveContainer(qual, depth+1); q != nil {
			if m := b.memberOf(q, last.Text(), isTypeSymbol, depth+1); m != nil {
				return m
			}
		}
		if tis := b.types[last.Text()]; len(tis) > 0 {
			return tis[0].sym
		}
	case "nullable_type":
		if len(n.namedKids) > 0 {
			return b.typeFromNode(n.namedKids[0], depth+1)
		}
	}
	return nil
}

// memberOf looks up name inside a namespace or type symbol.
func (b *binder) memberOf(container *syntax.Symbol, name string, want func(*syntax.Symbol) bool, depth int) *syntax.Symbol {
	switch container.Kind {
	case syntax.SymbolNamespace:
		if ns, ok := b.namespaces[container.QualifiedName()+"."+name]; ok && want(ns) {
			return ns
		}
		for _, ti := range b.types[name] {
			if ti.sym.Container == container && want(ti.sym) {
				return ti.sym
			}
		}
	case syntax.SymbolNamedType:
		if syms := filter(b.members(container, name, depth), want); len(syms) > 0 {
			return syms[0]
		}
	}
	return nil
}

// ResolveSymbol returns the symbol a reference binds to.
func (b *binder) ResolveSymbol(sn syntax.Node) *syntax.Symbol {
	n, ok := sn.(*node)
	if !ok || n == nil {
		return nil
	}
	return b.resolve(n, 0)
}

func (b *binder) resolve(n *node, depth int) *syntax.Symbol {
	if n == nil || depth > maxDepth {
		return nil
	}
	switch n.typ {
	case "argument", "attribute_argument":
		return b.resolve(n.field("expression"), depth+1)
	case "identifier":
		return b.resolveIdentifier(n, depth)
	case "generic_name":
		if id := lastSegment(n); id != n {
			return b.resolveIdentifier(id, depth)
		}
	case "qualified_name", "alias_qualified_name", "member_access_expression", "member_binding_expression":
		if last := lastSegment(n); last != n {
			return b.resolve(last, depth+1)
		}
	case "invocation_expression":
		return b.resolve(n.field("function"), depth+1)
	case "parenthesized_expression":
		if len(n.namedKids) == 1 {
			return b.resolve(n.namedKids[0], depth+1)
		}
	case "attribute":
		return b.resolveAttribute(n)
	case "object_creation_expression":
		if t := b.typeFromNode(n.field("type"), depth+1); t != nil {
			return b.pickCtor(b.info[t], argCount(n.field("arguments")))
		}
	case "constructor_initializer":
		return b.resolveCtorInitializer(n)
	}
	return nil
}

func (b *binder) resolveIdentifier(n *node, depth int) *syntax.Symbol {
	if _, ok := b.declared[n]; ok {
		return nil
	}
	pos := n
	if p := n.parent; p != nil && p.typ == "generic_name" && lastSegment(p) == n {
		pos = p
	}
	name := n.Text()
	p := pos.parent
	if p == nil {
		return b.pick(b.lookup(name, b.scopeFor(n), anySymbol), pos)
	}
	switch p.typ {
	case "member_access_expression":
		if nameOf(p) == pos {
			recv := p.field("expression")
			if recv == nil && len(p.namedKids) > 0 {
				recv = p.namedKids[0]
			}
			return b.resolveMember(recv, name, pos, depth)
		}
	case "member_binding_expression":
		if ca := pos.ancestor("conditional_access_expression"); ca != nil && len(ca.namedKids) > 0 {
			return b.resolveMember(ca.namedKids[0], name, pos, depth)
		}
		return nil
	case "qualified_name", "alias_qualified_name":
		qual := p.field("qualifier")
		if qual == nil && len(p.namedKids) > 1 {
			qual = p.namedKids[0]
		}
		if qual != nil && qual != pos {
			if ns, ok := b.namespaces[compactName(p.Text())]; ok {
				return ns
			}
			if q := b.resolveContainer(qual, depth+1); q != nil {
				return b.memberOf(q, name, anySymbol, 0)
			}
			if tis := b.types[name]; len(tis) > 0 {
				return tis[0].sym
			}
			return nil
		}
		return b.resolveContainer(pos, depth+1)
	case "name_colon":
		return b.resolveNamedArgument(p, name)
	case "name_equals":
		if arg := p.parent; arg != nil && arg.typ == "attribute_argument" {
			if ti := b.attributeType(arg.ancestor("attribute")); ti != nil {
				if syms := b.members(ti.sym, name, 0); len(syms) > 0 {
					return syms[0]
				}
			}
		}
		return nil
	case "goto_statement":
		syms := b.lookup(name, b.scopeFor(n), func(s *syntax.Symbol) bool { return s.Kind == syntax.SymbolLabel })
		if len(syms) > 0 {
			return syms[0]
		}
		return nil
	case "attribute":
		if attributeName(p) == name {
			return b.resolveAttribute(p)
		}
	case "using_directive":
		if p.field("alias") == n {
			return nil
		}
		return b.resolveContainer(pos, depth+1)
	case "namespace_declaration", "file_scoped_namespace_declaration":
		if ns, ok := b.declared[p]; ok {
			return ns
		}
	}
	return b.pick(b.lookup(name, b.scopeFor(n), anySymbol), pos)
}

// resolveContainer resolves a name that is the left part of a qualified
// name, which can only be a namespace or a type.
func (b *binder) resolveContainer(n *node, depth int) *syntax.Symbol {
	if n == nil || depth > maxDepth {
		return nil
	}
	text := compactName(n.Text())
	if t, ok := b.aliasTargets[text]; ok {
		return t
	}
	if ns, ok := b.namespaces[text]; ok {
		return ns
	}
	// A partially qualified namespace inside a namespace declaration.
	for sc := b.scopeFor(n); sc != nil; sc = sc.parent {
		if sc.owner != nil && sc.owner.Kind == syntax.SymbolNamespace {
			if ns, ok := b.namespaces[sc.owner.QualifiedName()+"."+text]; ok {
				return ns
			}
		}
	}
	return b.typeFromNode(n, depth+1)
}

// resolveMember binds name accessed on recv.
func (b *binder) resolveMember(recv *node, name string, pos *node, depth int) *syntax.Symbol {
	want := anySymbol
	if isInvoked(pos) {
		want = func(s *syntax.Symbol) bool { return s.Kind == syntax.SymbolMethod }
	}
	if t := b.receiverType(recv, depth+1); t != nil {
		switch t.Kind {
		case syntax.SymbolNamespace:
			return b.memberOf(t, name, want, 0)
		case syntax.SymbolNamedType:
			if syms := filter(b.members(t, name, 0), want); len(syms) > 0 {
				return b.pick(syms, pos)
			}
		}
	}
	if exts := b.extensions[name]; len(exts) == 1 {
		return exts[0]
	}
	return nil
}

// receiverType returns the namespace or type that members of recv are
// looked up in.
func (b *binder) receiverType(recv *node, depth int) *syntax.Symbol {
	if recv == nil || depth > maxDepth {
		return nil
	}
	switch recv.typ {
	case "this_expression", "this":
		return b.enclosingType(recv)
	case "base_expression", "base":
		if t := b.enclosingType(recv); t != nil {
			if ti := b.info[t]; ti != nil && len(ti.baseTypes) > 0 {
				return ti.baseTypes[0]
			}
		}
		return nil
	case "object_creation_expression":
		return b.typeFromNode(recv.field("type"), depth+1)
	case "parenthesized_expression":
		if len(recv.namedKids) == 1 {
			return b.receiverType(recv.namedKids[0], depth+1)
		}
		return nil
	case "cast_expression":
		return b.typeFromNode(recv.field("type"), depth+1)
	case "predefined_type":
		return nil
	}
	if recv.typ == "qualified_name" || recv.typ == "identifier" || recv.typ == "member_access_expression" {
		if ns, ok := b.namespaces[compactName(recv.Text())]; ok {
			return ns
		}
	}
	sym := b.resolve(recv, depth+1)
	if sym == nil {
		return nil
	}
	return b.valueType(sym, depth+1)
}

// valueType is the type of the value a symbol denotes. Types and
// namespaces denote themselves.
func (b *binder) valueType(sym *syntax.Symbol, depth int) *syntax.Symbol {
	if depth > maxDepth {
		return nil
	}
	switch sym.Kind {
	case syntax.SymbolNamedType, syntax.SymbolNamespace:
		return sym
	case syntax.SymbolMethod:
		if sym.MethodKind == syntax.MethodConstructor {
			return sym.Container
		}
	}
	tn := b.typeNode[sym]
	if tn == nil || tn.typ == "implicit_type" || (tn.typ == "identifier" && tn.Text() == "var") {
		if init := b.initOf[sym]; init != nil {
			return b.receiverType(init, depth+1)
		}
		return nil
	}
	if t := b.typeFromNode(tn, depth+1); t != nil && t.Kind == syntax.SymbolNamedType {
		return t
	}
	return nil
}

func (b *binder) enclosingType(n *node) *syntax.Symbol {
	for p := n.parent; p != nil; p = p.parent {
		if sym, ok := b.declared[p]; ok && sym.Kind == syntax.SymbolNamedType && !sym.IsAnonymousType {
			return sym
		}
	}
	return nil
}

func (b *binder) resolveAttribute(attr *node) *syntax.Symbol {
	ti := b.attributeType(attr)
	if ti == nil {
		return nil
	}
	args := 0
	if al := attr.firstNamed("attribute_argument_list"); al != nil {
		for _, a := range al.namedKids {
			if a.typ == "attribute_argument" && a.firstNamed("name_equals") == nil {
				args++
			}
		}
	}
	return b.pickCtor(ti, args)
}

func (b *binder) resolveCtorInitializer(n *node) *syntax.Symbol {
	t := b.enclosingType(n)
	if t == nil {
		return nil
	}
	ti := b.info[t]
	if n.hasToken("base") || n.firstNamed("base") != nil {
		if ti == nil || len(ti.baseTypes) == 0 {
			return nil
		}
		ti = b.info[ti.baseTypes[0]]
	}
	return b.pickCtor(ti, argCount(n.firstNamed("argument_list")))
}

func (b *binder) pickCtor(ti *typeInfo, args int) *syntax.Symbol {
	if ti == nil {
		return nil
	}
	for _, c := range ti.ctors {
		if c.MethodKind == syntax.MethodConstructor && len(b.params[c]) == args {
			return c
		}
	}
	for _, c := range ti.ctors {
		if c.MethodKind == syntax.MethodConstructor {
			return c
		}
	}
	return ti.implicit
}

// resolveNamedArgument binds the name in `name: value` to a parameter of
// the invoked method, constructor or attribute constructor.
func (b *binder) resolveNamedArgument(nc *node, name string) *syntax.Symbol {
	arg := nc.parent
	if arg == nil || arg.parent == nil || arg.parent.parent == nil {
		return nil
	}
	owner := arg.parent.parent
	var m *syntax.Symbol
	if owner.typ == "attribute" {
		m = b.resolveAttribute(owner)
	} else {
		m = b.resolve(owner, 0)
	}
	if m == nil {
		return nil
	}
	for _, p := range b.params[m] {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// isInvoked reports whether pos is the callee of an invocation.
func isInvoked(pos *node) bool {
	callee := pos
	if p := pos.parent; p != nil && (p.typ == "member_access_expression" || p.typ == "member_binding_expression") && nameOf(p) == pos {
		callee = p
	}
	inv := callee.parent
	if inv != nil && inv.typ == "conditional_access_expression" {
		inv = inv.parent
	}
	if inv == nil || inv.typ != "invocation_expression" {
		return false
	}
	fn := inv.field("function")
	if fn == nil && len(inv.namedKids) > 0 {
		fn = inv.namedKids[0]
	}
	return fn == callee || fn == callee.parent
}

func invocationOf(pos *node) *node {
	if !isInvoked(pos) {
		return nil
	}
	for p := pos.parent; p != nil; p = p.parent {
		if p.typ == "invocation_expression" {
			return p
		}
	}
	return nil
}

func argCount(list *node) int {
	if list == nil {
		return 0
	}
	n := 0
	for _, c := range list.namedKids {
		if c.typ == "argument" {
			n++
		}
	}
	return n
}

// pick chooses among overloads by argument count when pos is invoked.
func (b *binder) pick(syms []*syntax.Symbol, pos *node) *syntax.Symbol {
	if len(syms) == 0 {
		return nil
	}
	if len(syms) == 1 {
		return syms[0]
	}
	if inv := invocationOf(pos); inv != nil {
		args := argCount(inv.field("arguments"))
		if args == 0 {
			args = argCount(inv.firstNamed("argument_list"))
		}
		for _, s := range syms {
			if s.Kind == syntax.SymbolMethod && len(b.params[s]) == args {
				return s
			}
		}
	}
	return syms[0]
}

// CandidateSymbols lists declared members that an unbound reference could
// mean, ordered by declaration position.
func (b *binder) CandidateSymbols(sn syntax.Node) []*syntax.Symbol {
	n, ok := sn.(*node)
	if !ok || n == nil || b.resolve(n, 0) != nil {
		return nil
	}
	switch n.typ {
	case "invocation_expression", "member_access_expression", "member_binding_expression",
		"qualified_name", "generic_name":
		n = referenceName(n)
	}
	if n == nil || n.typ != "identifier" {
		return nil
	}
	name := n.Text()
	invoked := isInvoked(n) || (n.parent != nil && n.parent.typ == "generic_name" && isInvoked(n.parent))
	var out []*syntax.Symbol
	for _, ti := range b.sortedTypes() {
		for _, m := range ti.members[name] {
			if (m.Kind == syntax.SymbolMethod) == invoked {
				out = append(out, m)
			}
		}
	}
	if invoked {
		for _, e := range b.extensions[name] {
			if !containsSymbol(out, e) {
				out = append(out, e)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Declaration.Start < out[j].Declaration.Start })
	return out
}

// referenceName returns the identifier a compound reference names.
func referenceName(n *node) *node {
	for i := 0; i < maxDepth && n != nil; i++ {
		switch n.typ {
		case "identifier":
			return n
		case "invocation_expression":
			n = n.field("function")
		default:
			last := lastSegment(n)
			if last == n {
				return nil
			}
			n = last
		}
	}
	return nil
}

func containsSymbol(list []*syntax.Symbol, s *syntax.Symbol) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// ResolveDeclaredSymbol returns the symbol introduced by a declaration or a
// declaration's name.
func (b *binder) ResolveDeclaredSymbol(sn syntax.Node) *syntax.Symbol {
	n, ok := sn.(*node)
	if !ok || n == nil {
		return nil
	}
	return b.declared[n]
}

// symbols returns the declared symbols ordered by declaration position.
func (b *binder) symbols() []*syntax.Symbol {
	seen := make(map[*syntax.Symbol]bool, len(b.declared))
	out := make([]*syntax.Symbol, 0, len(b.declared))
	for _, sym := range b.declared {
		if !seen[sym] {
			seen[sym] = true
			out = append(out, sym)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Declaration.Start != out[j].Declaration.Start {
			return out[i].Declaration.Start < out[j].Declaration.Start
		}
		return out[i].ID < out[j].ID
	})
	return out
}
