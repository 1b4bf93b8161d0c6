package csharp

import (
	"strconv"
	"strings"

	"github.com/jward/tincture/internal/syntax"
)

// scope is a lexical region holding the names declared directly in it.
type scope struct {
	parent *scope
	owner  *syntax.Symbol
	names  map[string][]*syntax.Symbol
}

func newScope(parent *scope, owner *syntax.Symbol) *scope {
	return &scope{parent: parent, owner: owner, names: make(map[string][]*syntax.Symbol)}
}

func (s *scope) declare(sym *syntax.Symbol) {
	if sym.Name == "" {
		return
	}
	s.names[sym.Name] = append(s.names[sym.Name], sym)
}

// typeInfo is everything the binder knows about one named type.
type typeInfo struct {
	sym     *syntax.Symbol
	node    *node
	members map[string][]*syntax.Symbol
	bases   []*node
	// baseTypes are the resolved declared bases, filled in after binding.
	baseTypes []*syntax.Symbol
	ctors     []*syntax.Symbol
	// implicit is the synthesized parameterless constructor, built on demand.
	implicit *syntax.Symbol
}

// binder walks a tree once, declaring every symbol it can see, and then
// answers reference lookups against those declarations.
type binder struct {
	tree *tree

	declared   map[*node]*syntax.Symbol
	scopes     map[*node]*scope
	global     *scope
	types      map[string][]*typeInfo
	info       map[*syntax.Symbol]*typeInfo
	external   map[string]*typeInfo
	namespaces map[string]*syntax.Symbol
	aliases    map[string]*node
	extensions map[string][]*syntax.Symbol
	typeNode   map[*syntax.Symbol]*node
	initOf     map[*syntax.Symbol]*node
	params     map[*syntax.Symbol][]*syntax.Symbol
	ordinals   map[syntax.Identity]map[string]int
	anonymous  int

	aliasTargets map[string]*syntax.Symbol
	// ready is set once declarations are complete and base types are known.
	ready bool
}

func bind(t *tree) *binder {
	b := &binder{
		tree:       t,
		declared:   make(map[*node]*syntax.Symbol),
		scopes:     make(map[*node]*scope),
		types:      make(map[string][]*typeInfo),
		info:       make(map[*syntax.Symbol]*typeInfo),
		external:   make(map[string]*typeInfo),
		namespaces: make(map[string]*syntax.Symbol),
		aliases:    make(map[string]*node),
		extensions: make(map[string][]*syntax.Symbol),
		typeNode:   make(map[*syntax.Symbol]*node),
		initOf:     make(map[*syntax.Symbol]*node),
		params:     make(map[*syntax.Symbol][]*syntax.Symbol),
		ordinals:   make(map[syntax.Identity]map[string]int),

		aliasTargets: make(map[string]*syntax.Symbol),
	}
	b.global = newScope(nil, nil)
	if t.root != nil {
		b.scopes[t.root] = b.global
		b.walkChildren(t.root, b.global, nil)
		b.finish()
	}
	b.ready = true
	return b
}

// newSymbol fills in the identity of sym from its container and registers
// the declaring node and its name node.
func (b *binder) newSymbol(sym *syntax.Symbol, decl, name *node) *syntax.Symbol {
	var cid syntax.Identity
	if sym.Container != nil {
		cid = sym.Container.ID
	}
	sig := sym.Signature
	switch sym.Kind {
	case syntax.SymbolLocal, syntax.SymbolRangeVariable, syntax.SymbolLabel:
		// Same-named locals in one method are told apart by declaration order.
		byName := b.ordinals[cid]
		if byName == nil {
			byName = make(map[string]int)
			b.ordinals[cid] = byName
		}
		byName[sym.Name]++
		sig = sig + "#" + strconv.Itoa(byName[sym.Name])
	}
	sym.ID = syntax.NewIdentity(cid, sym.Kind, sym.Name, sig)
	if name != nil {
		sym.Declaration = name.Span()
		b.declared[name] = sym
	} else if decl != nil {
		sym.Declaration = decl.Span()
	}
	if decl != nil {
		b.declared[decl] = sym
	}
	return sym
}

func (b *binder) walkChildren(n *node, sc *scope, container *syntax.Symbol) {
	for _, c := range n.namedKids {
		if c.typ == "file_scoped_namespace_declaration" {
			// The namespace covers the rest of the file, siblings included.
			sc, container = b.namespaceScope(c, sc)
			b.walkChildren(c, sc, container)
			continue
		}
		b.walk(c, sc, container)
	}
}

func (b *binder) walk(n *node, sc *scope, container *syntax.Symbol) {
	switch n.typ {
	case "using_directive":
		b.bindUsing(n)
		return
	case "namespace_declaration":
		inner, ns := b.namespaceScope(n, sc)
		b.walkChildren(n, inner, ns)
		return
	case "class_declaration", "struct_declaration", "interface_declaration",
		"enum_declaration", "record_declaration", "record_struct_declaration":
		b.bindType(n, sc, container)
		return
	case "delegate_declaration":
		b.bindDelegate(n, sc, container)
		return
	case "field_declaration", "event_field_declaration":
		b.bindFields(n, sc, container)
		return
	case "property_declaration", "event_declaration", "indexer_declaration":
		b.bindProperty(n, sc, container)
		return
	case "method_declaration", "constructor_declaration", "destructor_declaration",
		"operator_declaration", "conversion_operator_declaration", "local_function_statement":
		b.bindMethod(n, sc, container)
		return
	case "enum_member_declaration":
		b.bindEnumMember(n, sc, container)
		return
	case "accessor_declaration":
		b.bindAccessor(n, sc, container)
		return
	case "block", "for_statement", "for_each_statement", "foreach_statement",
		"using_statement", "fixed_statement", "catch_clause", "switch_section",
		"query_expression", "while_statement", "if_statement":
		inner := newScope(sc, container)
		b.scopes[n] = inner
		if n.typ == "for_each_statement" || n.typ == "foreach_statement" {
			b.bindLoopVariable(n, inner, container)
		}
		b.walkChildren(n, inner, container)
		return
	case "lambda_expression", "anonymous_method_expression":
		b.bindLambda(n, sc, container)
		return
	case "local_declaration_statement":
		b.bindLocals(n, sc, container)
		return
	case "variable_declaration":
		// for/using/fixed headers.
		b.bindVariables(n, sc, container, syntax.SymbolLocal, 0)
		return
	case "catch_declaration", "declaration_expression":
		if name := n.field("name"); name != nil && name.typ == "identifier" {
			sym := b.newSymbol(&syntax.Symbol{Kind: syntax.SymbolLocal, Name: name.Text(), Container: container}, n, name)
			b.typeNode[sym] = n.field("type")
			sc.declare(sym)
		}
	case "declaration_pattern", "recursive_pattern", "var_pattern":
		if id := n.lastNamed("identifier"); id != nil && id != n.field("type") {
			sym := b.newSymbol(&syntax.Symbol{Kind: syntax.SymbolLocal, Name: id.Text(), Container: container}, nil, id)
			b.typeNode[sym] = n.field("type")
			sc.declare(sym)
		}
	case "labeled_statement":
		if name := n.field("name"); name != nil {
			sym := b.newSymbol(&syntax.Symbol{Kind: syntax.SymbolLabel, Name: name.Text(), Container: container}, n, name)
			b.methodScope(sc).declare(sym)
		}
	case "from_clause", "let_clause", "join_clause":
		if name := n.field("name"); name != nil && name.typ == "identifier" {
			sym := b.newSymbol(&syntax.Symbol{Kind: syntax.SymbolRangeVariable, Name: name.Text(), Container: container}, n, name)
			sc.declare(sym)
		}
	case "anonymous_object_creation_expression":
		b.bindAnonymous(n, sc, container)
		return
	}
	b.walkChildren(n, sc, container)
}

func (b *binder) bindLoopVariable(n *node, sc *scope, container *syntax.Symbol) {
	typ := n.field("type")
	name := n.field("left")
	if name == nil {
		for _, c := range n.namedKids {
			if c.typ == "identifier" && c != typ {
				name = c
				break
			}
		}
	}
	if name == nil || name.typ != "identifier" {
		return
	}
	sym := b.newSymbol(&syntax.Symbol{Kind: syntax.SymbolLocal, Name: name.Text(), Container: container}, nil, name)
	b.typeNode[sym] = typ
	sc.declare(sym)
}

// methodScope returns the outermost scope owned by the same container as
// sc, which is where labels live.
func (b *binder) methodScope(sc *scope) *scope {
	for sc.parent != nil && sc.parent.owner == sc.owner {
		sc = sc.parent
	}
	return sc
}

func (b *binder) bindUsing(n *node) {
	alias := n.field("alias")
	var target *node
	for _, c := range n.namedKids {
		if c == alias || c.typ == "name_equals" {
			continue
		}
		if c.typ == "identifier" || c.typ == "qualified_name" || c.typ == "generic_name" || c.typ == "alias_qualified_name" {
			target = c
		}
	}
	if target == nil {
		return
	}
	if alias != nil {
		b.aliases[alias.Text()] = target
		return
	}
	if n.hasToken("static") {
		return
	}
	b.ensureNamespace(compactName(target.Text()))
}

// ensureNamespace returns the namespace symbol for a dotted name, creating
// every missing segment.
func (b *binder) ensureNamespace(qualified string) *syntax.Symbol {
	if qualified == "" {
		return nil
	}
	if ns, ok := b.namespaces[qualified]; ok {
		return ns
	}
	var parent *syntax.Symbol
	name := qualified
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		parent = b.ensureNamespace(qualified[:i])
		name = qualified[i+1:]
	}
	ns := b.newSymbol(&syntax.Symbol{Kind: syntax.SymbolNamespace, Name: name, Container: parent}, nil, nil)
	b.namespaces[qualified] = ns
	return ns
}

func (b *binder) namespaceScope(n *node, sc *scope) (*scope, *syntax.Symbol) {
	name := n.field("name")
	prefix := ""
	if sc.owner != nil && sc.owner.Kind == syntax.SymbolNamespace {
		prefix = sc.owner.QualifiedName() + "."
	}
	var ns *syntax.Symbol
	if name != nil {
		ns = b.ensureNamespace(prefix + compactName(name.Text()))
		b.declared[n] = ns
	}
	inner := newScope(sc, ns)
	b.scopes[n] = inner
	return inner, ns
}

func (b *binder) bindType(n *node, sc *scope, container *syntax.Symbol) {
	name := n.field("name")
	if name == nil {
		b.walkChildren(n, sc, container)
		return
	}
	sym := &syntax.Symbol{Kind: syntax.SymbolNamedType, Name: name.Text(), Container: container}
	mods := n.modifiers()
	sym.Modifiers = modifierSet(mods)
	switch n.typ {
	case "class_declaration":
		sym.TypeKind = syntax.TypeClass
	case "struct_declaration", "record_struct_declaration":
		sym.TypeKind = syntax.TypeStruct
		sym.Modifiers |= syntax.ModSealed
	case "interface_declaration":
		sym.TypeKind = syntax.TypeInterface
		sym.Modifiers |= syntax.ModAbstract
	case "enum_declaration":
		sym.TypeKind = syntax.TypeEnum
		sym.Modifiers |= syntax.ModSealed
	case "record_declaration":
		sym.TypeKind = syntax.TypeClass
		if n.hasToken("struct") {
			sym.TypeKind = syntax.TypeStruct
			sym.Modifiers |= syntax.ModSealed
		}
	}
	if tps := n.firstNamed("type_parameter_list"); tps != nil {
		sym.Signature = "`" + strconv.Itoa(len(tps.namedKids))
	}
	b.newSymbol(sym, n, name)

	ti := &typeInfo{sym: sym, node: n, members: make(map[string][]*syntax.Symbol)}
	if bl := n.firstNamed("base_list"); bl != nil {
		ti.bases = append(ti.bases, bl.namedKids...)
	}
	b.info[sym] = ti
	b.types[sym.Name] = append(b.types[sym.Name], ti)
	if outer := b.info[container]; outer != nil {
		outer.members[sym.Name] = append(outer.members[sym.Name], sym)
	} else {
		sc.declare(sym)
	}

	inner := newScope(sc, sym)
	b.scopes[n] = inner
	b.bindTypeParameters(n, inner, sym)
	if pl := n.firstNamed("parameter_list"); pl != nil {
		// Record primary constructor parameters.
		b.bindParameters(pl, inner, sym)
	}
	body := n.field("body")
	if body == nil {
		body = n.firstNamed("declaration_list")
		if body == nil {
			body = n.firstNamed("enum_member_declaration_list")
		}
	}
	if body != nil {
		b.walkChildren(body, inner, sym)
	}
}

func (b *binder) bindDelegate(n *node, sc *scope, container *syntax.Symbol) {
	name := n.field("name")
	if name == nil {
		return
	}
	sym := &syntax.Symbol{
		Kind:      syntax.SymbolNamedType,
		TypeKind:  syntax.TypeDelegate,
		Name:      name.Text(),
		Container: container,
		Modifiers: modifierSet(n.modifiers()) | syntax.ModSealed,
	}
	b.newSymbol(sym, n, name)
	ti := &typeInfo{sym: sym, node: n, members: make(map[string][]*syntax.Symbol)}
	b.info[sym] = ti
	b.types[sym.Name] = append(b.types[sym.Name], ti)
	if outer := b.info[container]; outer != nil {
		outer.members[sym.Name] = append(outer.members[sym.Name], sym)
	} else {
		sc.declare(sym)
	}
	inner := newScope(sc, sym)
	b.scopes[n] = inner
	b.bindTypeParameters(n, inner, sym)
	if pl := n.field("parameters"); pl != nil {
		b.bindParameters(pl, inner, sym)
	}
}

func (b *binder) bindTypeParameters(n *node, sc *scope, owner *syntax.Symbol) {
	tps := n.firstNamed("type_parameter_list")
	if tps == nil {
		return
	}
	for _, tp := range tps.namedKids {
		if tp.typ != "type_parameter" {
			continue
		}
		name := tp.field("name")
		if name == nil {
			continue
		}
		sym := b.newSymbol(&syntax.Symbol{Kind: syntax.SymbolTypeParameter, Name: name.Text(), Container: owner}, tp, name)
		sc.declare(sym)
	}
}

func (b *binder) addMember(container *syntax.Symbol, sc *scope, sym *syntax.Symbol) {
	if ti := b.info[container]; ti != nil {
		ti.members[sym.Name] = append(ti.members[sym.Name], sym)
		return
	}
	// Members of scripts and anonymous containers fall back to lexical scope.
	sc.declare(sym)
}

func (b *binder) inInterface(container *syntax.Symbol) bool {
	return container != nil && container.Kind == syntax.SymbolNamedType && container.TypeKind == syntax.TypeInterface
}

func (b *binder) bindFields(n *node, sc *scope, container *syntax.Symbol) {
	kind := syntax.SymbolField
	if n.typ == "event_field_declaration" {
		kind = syntax.SymbolEvent
	}
	mods := modifierSet(n.modifiers())
	if mods.Has(syntax.ModConst) {
		mods |= syntax.ModStatic
	}
	decl := n.firstNamed("variable_declaration")
	if decl == nil {
		return
	}
	typ := decl.field("type")
	for _, v := range decl.namedKids {
		if v.typ != "variable_declarator" {
			continue
		}
		name := v.field("name")
		if name == nil {
			continue
		}
		sym := b.newSymbol(&syntax.Symbol{Kind: kind, Name: name.Text(), Container: container, Modifiers: mods}, v, name)
		if kind == syntax.SymbolEvent && b.inInterface(container) && !mods.Has(syntax.ModStatic) {
			sym.Modifiers |= syntax.ModAbstract
		}
		b.typeNode[sym] = typ
		b.addMember(container, sc, sym)
		b.walkChildren(v, sc, container)
	}
}

func (b *binder) bindProperty(n *node, sc *scope, container *syntax.Symbol) {
	kind := syntax.SymbolProperty
	if n.typ == "event_declaration" {
		kind = syntax.SymbolEvent
	}
	name := n.field("name")
	sym := &syntax.Symbol{Kind: kind, Container: container, Modifiers: modifierSet(n.modifiers())}
	if name != nil {
		sym.Name = name.Text()
	} else {
		sym.Name = "this[]"
	}
	if b.inInterface(container) && !sym.IsStatic() && !hasBodies(n) {
		sym.Modifiers |= syntax.ModAbstract
	}
	b.newSymbol(sym, n, name)
	b.typeNode[sym] = n.field("type")
	b.addMember(container, sc, sym)

	inner := newScope(sc, sym)
	b.scopes[n] = inner
	if pl := n.field("parameters"); pl != nil {
		b.bindParameters(pl, inner, sym)
	}
	for _, c := range n.namedKids {
		if c == name || c == n.field("type") || c == n.field("parameters") {
			continue
		}
		b.walk(c, inner, sym)
	}
}

// hasBodies reports whether any accessor or expression body is present.
func hasBodies(n *node) bool {
	if n.firstNamed("arrow_expression_clause") != nil || n.firstNamed("block") != nil {
		return true
	}
	if al := n.firstNamed("accessor_list"); al != nil {
		for _, acc := range al.namedKids {
			if acc.firstNamed("block") != nil || acc.firstNamed("arrow_expression_clause") != nil {
				return true
			}
		}
	}
	return false
}

func (b *binder) bindAccessor(n *node, sc *scope, container *syntax.Symbol) {
	inner := newScope(sc, container)
	b.scopes[n] = inner
	switch {
	case n.hasToken("set"), n.hasToken("init"), n.hasToken("add"), n.hasToken("remove"):
		value := b.newSymbol(&syntax.Symbol{Kind: syntax.SymbolParameter, Name: "value", Container: container}, nil, nil)
		if prop := n.ancestor("property_declaration", "indexer_declaration", "event_declaration"); prop != nil {
			if psym := b.declared[prop]; psym != nil {
				b.typeNode[value] = b.typeNode[psym]
			}
		}
		inner.declare(value)
	}
	b.walkChildren(n, inner, container)
}

func (b *binder) bindMethod(n *node, sc *scope, container *syntax.Symbol) {
	name := n.field("name")
	mods := modifierSet(n.modifiers())
	sym := &syntax.Symbol{Kind: syntax.SymbolMethod, Container: container, Modifiers: mods}
	switch n.typ {
	case "constructor_declaration":
		sym.MethodKind = syntax.MethodConstructor
		if mods.Has(syntax.ModStatic) {
			sym.MethodKind = syntax.MethodStaticConstructor
		}
	case "destructor_declaration":
		sym.MethodKind = syntax.MethodDestructor
	case "operator_declaration":
		sym.MethodKind = syntax.MethodOperator
		name = nil
		sym.Name = "op_" + opText(n)
	case "conversion_operator_declaration":
		sym.MethodKind = syntax.MethodConversion
		name = nil
		sym.Name = "op_Conversion"
	case "local_function_statement":
		sym.MethodKind = syntax.MethodLocalFunction
	}
	if name != nil {
		sym.Name = name.Text()
	}
	params := n.field("parameters")
	if params == nil {
		params = n.firstNamed("parameter_list")
	}
	sym.Signature = signature(params)
	if tps := n.firstNamed("type_parameter_list"); tps != nil {
		sym.Signature = "`" + strconv.Itoa(len(tps.namedKids)) + sym.Signature
	}
	if sym.MethodKind == syntax.MethodConstructor || sym.MethodKind == syntax.MethodStaticConstructor {
		sym.Signature = ".ctor" + sym.Signature
	} else if sym.MethodKind == syntax.MethodDestructor {
		sym.Signature = "~" + sym.Signature
	}
	if b.inInterface(container) && !mods.Has(syntax.ModStatic) && n.field("body") == nil &&
		n.firstNamed("block") == nil && n.firstNamed("arrow_expression_clause") == nil {
		sym.Modifiers |= syntax.ModAbstract
	}
	if params != nil && mods.Has(syntax.ModStatic) && sym.MethodKind == syntax.MethodOrdinary {
		if first := firstParameter(params); first != nil && isThisParameter(first) {
			sym.IsExtension = true
		}
	}
	b.newSymbol(sym, n, name)
	b.typeNode[sym] = n.field("type")

	switch sym.MethodKind {
	case syntax.MethodLocalFunction:
		sc.declare(sym)
	case syntax.MethodConstructor, syntax.MethodStaticConstructor:
		if ti := b.info[container]; ti != nil {
			ti.ctors = append(ti.ctors, sym)
		}
	case syntax.MethodDestructor:
	default:
		b.addMember(container, sc, sym)
	}
	if sym.IsExtension {
		b.extensions[sym.Name] = append(b.extensions[sym.Name], sym)
	}

	inner := newScope(sc, sym)
	b.scopes[n] = inner
	b.bindTypeParameters(n, inner, sym)
	if params != nil {
		b.bindParameters(params, inner, sym)
	}
	for _, c := range n.namedKids {
		if c == name || c == params || c.typ == "type_parameter_list" || c == n.field("type") {
			continue
		}
		b.walk(c, inner, sym)
	}
}

func opText(n *node) string {
	for _, c := range n.children {
		if !c.named && c.typ != "operator" && c.typ != "(" && c.typ != ")" && c.typ != ";" && !isModifierKeyword(c.typ) {
			return c.typ
		}
	}
	return "unknown"
}

func firstParameter(pl *node) *node {
	for _, c := range pl.namedKids {
		if c.typ == "parameter" {
			return c
		}
	}
	return nil
}

func isThisParameter(p *node) bool {
	for _, c := range p.children {
		if c.typ == "this" || (c.typ == "parameter_modifier" && strings.TrimSpace(c.Text()) == "this") {
			return true
		}
		if c.typ == "modifier" && strings.TrimSpace(c.Text()) == "this" {
			return true
		}
	}
	return false
}

// signature renders parameter types for overload identity.
func signature(pl *node) string {
	if pl == nil {
		return "()"
	}
	var parts []string
	for _, p := range pl.namedKids {
		if p.typ != "parameter" {
			continue
		}
		if t := p.field("type"); t != nil {
			parts = append(parts, compactName(t.Text()))
		} else {
			parts = append(parts, "?")
		}
	}
	return "(" + strings.Join(parts, ",") + ")"
}

func (b *binder) bindParameters(pl *node, sc *scope, owner *syntax.Symbol) {
	var list []*syntax.Symbol
	for _, p := range pl.namedKids {
		if p.typ != "parameter" {
			continue
		}
		name := p.field("name")
		if name == nil {
			continue
		}
		sym := b.newSymbol(&syntax.Symbol{Kind: syntax.SymbolParameter, Name: name.Text(), Container: owner}, p, name)
		b.typeNode[sym] = p.field("type")
		sc.declare(sym)
		list = append(list, sym)
		b.walkChildren(p, sc, owner)
	}
	b.params[owner] = list
}

func (b *binder) bindEnumMember(n *node, sc *scope, container *syntax.Symbol) {
	name := n.field("name")
	if name == nil {
		return
	}
	sym := &syntax.Symbol{
		Kind:      syntax.SymbolField,
		Name:      name.Text(),
		Container: container,
		Modifiers: syntax.ModConst | syntax.ModStatic,
	}
	b.newSymbol(sym, n, name)
	b.addMember(container, sc, sym)
}

func (b *binder) bindLambda(n *node, sc *scope, container *syntax.Symbol) {
	inner := newScope(sc, container)
	b.scopes[n] = inner
	params := n.field("parameters")
	switch {
	case params != nil && params.typ == "identifier":
		sym := b.newSymbol(&syntax.Symbol{Kind: syntax.SymbolParameter, Name: params.Text(), Container: container, Signature: "λ"}, nil, params)
		inner.declare(sym)
	case params != nil:
		for _, p := range params.namedKids {
			name := p.field("name")
			if p.typ == "identifier" {
				name = p
			}
			if name == nil {
				continue
			}
			sym := b.newSymbol(&syntax.Symbol{Kind: syntax.SymbolParameter, Name: name.Text(), Container: container, Signature: "λ"}, p, name)
			b.typeNode[sym] = p.field("type")
			inner.declare(sym)
		}
	case n.typ == "anonymous_method_expression":
		if pl := n.firstNamed("parameter_list"); pl != nil {
			params = pl
			b.bindParameters(pl, inner, container)
		}
	}
	for _, c := range n.namedKids {
		if c == params {
			continue
		}
		b.walk(c, inner, container)
	}
}

func (b *binder) bindLocals(n *node, sc *scope, container *syntax.Symbol) {
	var mods syntax.Modifiers
	for _, m := range n.modifiers() {
		if m == "const" {
			mods |= syntax.ModConst
		}
	}
	if decl := n.firstNamed("variable_declaration"); decl != nil {
		b.bindVariables(decl, sc, container, syntax.SymbolLocal, mods)
	}
}

func (b *binder) bindVariables(decl *node, sc *scope, container *syntax.Symbol, kind syntax.SymbolKind, mods syntax.Modifiers) {
	typ := decl.field("type")
	for _, v := range decl.namedKids {
		if v.typ != "variable_declarator" {
			b.walk(v, sc, container)
			continue
		}
		name := v.field("name")
		if name == nil {
			continue
		}
		sym := b.newSymbol(&syntax.Symbol{Kind: kind, Name: name.Text(), Container: container, Modifiers: mods}, v, name)
		b.typeNode[sym] = typ
		if init := initializerOf(v); init != nil {
			b.initOf[sym] = init
		}
		sc.declare(sym)
		b.walkChildren(v, sc, container)
	}
}

// initializerOf returns the value expression of a declarator.
func initializerOf(v *node) *node {
	if ev := v.firstNamed("equals_value_clause"); ev != nil && len(ev.namedKids) > 0 {
		return ev.namedKids[len(ev.namedKids)-1]
	}
	if val := v.field("value"); val != nil {
		return val
	}
	seenEq := false
	for _, c := range v.children {
		if !c.named && c.typ == "=" {
			seenEq = true
			continue
		}
		if seenEq && c.named {
			return c
		}
	}
	return nil
}

func (b *binder) bindAnonymous(n *node, sc *scope, container *syntax.Symbol) {
	anon := b.newSymbol(&syntax.Symbol{
		Kind:            syntax.SymbolNamedType,
		TypeKind:        syntax.TypeClass,
		IsAnonymousType: true,
		Container:       container,
		Signature:       "<anon>#" + strconv.Itoa(b.nextAnonymous()),
	}, n, nil)
	for _, c := range n.namedKids {
		var ne *node
		switch c.typ {
		case "name_equals":
			ne = c
		case "anonymous_object_member_declarator":
			ne = c.firstNamed("name_equals")
		}
		if ne != nil {
			if id := ne.firstNamed("identifier"); id != nil {
				prop := b.newSymbol(&syntax.Symbol{Kind: syntax.SymbolProperty, Name: id.Text(), Container: anon}, nil, id)
				b.declared[ne] = prop
			}
		}
		if c.typ != "name_equals" {
			b.walk(c, sc, container)
		}
	}
}

func (b *binder) nextAnonymous() int {
	b.anonymous++
	return b.anonymous
}

func modifierSet(mods []string) syntax.Modifiers {
	var m syntax.Modifiers
	for _, s := range mods {
		switch s {
		case "static":
			m |= syntax.ModStatic
		case "sealed":
			m |= syntax.ModSealed
		case "override":
			m |= syntax.ModOverride
		case "virtual":
			m |= syntax.ModVirtual
		case "abstract":
			m |= syntax.ModAbstract
		case "const":
			m |= syntax.ModConst
		case "readonly":
			m |= syntax.ModReadonly
		case "extern":
			m |= syntax.ModExtern
		}
	}
	return m
}

// compactName strips whitespace and comments-free formatting from a type or
// namespace name so it can be used as a key.
func compactName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, s)
}
