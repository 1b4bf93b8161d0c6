package csharp

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/tincture/internal/syntax"
)

// node is an immutable copy of a tree-sitter node. Copying the tree once
// gives stable pointers for symbol tables and parent links without holding
// cgo handles during lookups.
type node struct {
	typ       string
	kind      syntax.Kind
	named     bool
	start     int
	end       int
	parent    *node
	children  []*node // named and anonymous, in source order
	namedKids []*node // named children only
	fields    map[string]*node
	tree      *tree
}

var _ syntax.Node = (*node)(nil)

func (n *node) Kind() syntax.Kind { return n.kind }

func (n *node) Span() syntax.Span { return syntax.NewSpan(n.start, n.end) }

func (n *node) Parent() syntax.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *node) ChildCount() int { return len(n.namedKids) }

func (n *node) Child(i int) syntax.Node {
	if i < 0 || i >= len(n.namedKids) {
		return nil
	}
	return n.namedKids[i]
}

func (n *node) Field(name string) syntax.Node {
	if c := n.field(name); c != nil {
		return c
	}
	return nil
}

func (n *node) field(name string) *node {
	if n.fields == nil {
		return nil
	}
	return n.fields[name]
}

func (n *node) Text() string { return string(n.tree.src[n.start:n.end]) }

func (n *node) LeadingTrivia() syntax.Span {
	start := 0
	if p := n.parent; p != nil {
		start = p.start
		for _, c := range p.children {
			if c == n {
				break
			}
			if c.typ != "comment" {
				start = c.end
			}
		}
	}
	if start > n.start {
		start = n.start
	}
	return syntax.NewSpan(start, n.start)
}

// Type returns the grammar node type.
func (n *node) Type() string { return n.typ }

// hasToken reports whether n has a direct anonymous child with text tok.
func (n *node) hasToken(tok string) bool {
	for _, c := range n.children {
		if !c.named && c.typ == tok {
			return true
		}
	}
	return false
}

// firstNamed returns the first named child of type typ.
func (n *node) firstNamed(typ string) *node {
	for _, c := range n.namedKids {
		if c.typ == typ {
			return c
		}
	}
	return nil
}

// lastNamed returns the last named child of type typ.
func (n *node) lastNamed(typ string) *node {
	for i := len(n.namedKids) - 1; i >= 0; i-- {
		if n.namedKids[i].typ == typ {
			return n.namedKids[i]
		}
	}
	return nil
}

// ancestor returns the nearest ancestor of one of the given types.
func (n *node) ancestor(types ...string) *node {
	for p := n.parent; p != nil; p = p.parent {
		for _, t := range types {
			if p.typ == t {
				return p
			}
		}
	}
	return nil
}

// modifiers returns the modifier keywords written on a declaration.
func (n *node) modifiers() []string {
	var out []string
	for _, c := range n.children {
		switch {
		case c.typ == "modifier":
			out = append(out, strings.TrimSpace(c.Text()))
		case !c.named && isModifierKeyword(c.typ):
			out = append(out, c.typ)
		}
	}
	return out
}

func isModifierKeyword(s string) bool {
	switch s {
	case "static", "sealed", "override", "virtual", "abstract", "const",
		"readonly", "extern", "public", "private", "protected", "internal",
		"new", "partial", "async", "unsafe", "volatile", "required", "file":
		return true
	}
	return false
}

// tree implements syntax.Tree over a converted tree-sitter tree.
type tree struct {
	src      []byte
	root     *node
	docs     []syntax.Span // merged `///` comment blocks, sorted
	hasError bool
}

var _ syntax.Tree = (*tree)(nil)

func (t *tree) Root() syntax.Node { return t.root }

func (t *tree) Len() int { return len(t.src) }

func (t *tree) Text(span syntax.Span) string {
	start, end := clamp(span.Start, len(t.src)), clamp(span.End(), len(t.src))
	return string(t.src[start:end])
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func (t *tree) FindNode(span syntax.Span, innermost bool) syntax.Node {
	n := t.findNode(span, innermost)
	if n == nil {
		return nil
	}
	return n
}

func (t *tree) findNode(span syntax.Span, innermost bool) *node {
	if t.root == nil || !t.root.Span().Contains(span) {
		return nil
	}
	cur := t.root
	for {
		var next *node
		for _, c := range cur.namedKids {
			if c.start <= span.Start && span.End() <= c.end && (c.end > c.start || span.Length == 0) {
				next = c
				break
			}
		}
		if next == nil {
			break
		}
		cur = next
	}
	for cur.parent != nil && transparent[cur.typ] {
		cur = cur.parent
	}
	if !innermost {
		for p := cur.parent; p != nil && p.start == cur.start && p.end == cur.end; p = cur.parent {
			if transparent[p.typ] {
				break
			}
			cur = p
		}
	}
	return cur
}

func (t *tree) DocCommentAt(offset int) (syntax.Span, bool) {
	for _, s := range t.docs {
		if s.ContainsOffset(offset) {
			return s, true
		}
		if s.Start > offset {
			break
		}
	}
	return syntax.Span{}, false
}

// convert copies a tree-sitter tree into the package's node model.
func convert(ts *sitter.Tree, src []byte) *tree {
	t := &tree{src: src}
	root := ts.RootNode()
	t.hasError = root.HasError()
	t.root = t.copyNode(root, nil)
	t.docs = mergeDocComments(t.root, src)
	return t
}

func (t *tree) copyNode(sn *sitter.Node, parent *node) *node {
	n := &node{
		typ:    sn.Type(),
		named:  sn.IsNamed(),
		start:  int(sn.StartByte()),
		end:    int(sn.EndByte()),
		parent: parent,
		tree:   t,
	}
	if n.named {
		n.kind = kindOf(n.typ)
	}

	count := int(sn.ChildCount())
	if count == 0 {
		return n
	}
	n.children = make([]*node, 0, count)
	for i := 0; i < count; i++ {
		c := sn.Child(i)
		if c == nil {
			continue
		}
		cn := t.copyNode(c, n)
		n.children = append(n.children, cn)
		if cn.named {
			n.namedKids = append(n.namedKids, cn)
		}
	}

	for _, name := range fieldNames {
		fc := sn.ChildByFieldName(name)
		if fc == nil {
			continue
		}
		start, end, typ := int(fc.StartByte()), int(fc.EndByte()), fc.Type()
		for _, cn := range n.children {
			if cn.start == start && cn.end == end && cn.typ == typ {
				if n.fields == nil {
					n.fields = make(map[string]*node, 4)
				}
				n.fields[name] = cn
				break
			}
		}
	}
	refineKind(n)
	return n
}

// refineKind splits grammar nodes that the host model treats as several
// kinds, and fills in aliases for field names that changed between
// grammar releases.
func refineKind(n *node) {
	switch n.typ {
	case "goto_statement":
		switch {
		case n.hasToken("case"):
			n.kind = syntax.GotoCaseStatement
		case n.hasToken("default"):
			n.kind = syntax.GotoDefaultStatement
		}
	case "yield_statement":
		if n.hasToken("break") {
			n.kind = syntax.YieldBreakStatement
		}
	case "method_declaration", "local_function_statement", "delegate_declaration":
		if n.field("type") == nil && n.field("returns") != nil {
			n.setField("type", n.field("returns"))
		}
	case "using_directive":
		if n.field("alias") == nil {
			if ne := n.firstNamed("name_equals"); ne != nil {
				if id := ne.firstNamed("identifier"); id != nil {
					n.setField("alias", id)
				}
			} else if n.hasToken("=") && n.field("name") != nil {
				// using A = X.Y; with the alias in the name field.
				n.setField("alias", n.field("name"))
			}
		}
	case "argument", "attribute_argument":
		if n.field("expression") == nil {
			for i := len(n.namedKids) - 1; i >= 0; i-- {
				c := n.namedKids[i]
				if c.typ != "name_colon" && c.typ != "name_equals" && c.typ != "comment" {
					n.setField("expression", c)
					break
				}
			}
		}
	}
	if n.field("name") == nil {
		switch n.typ {
		case "from_clause", "let_clause", "join_clause":
			if id := n.identBefore("in"); id != nil {
				n.setField("name", id)
			} else if id := n.firstNamed("identifier"); id != nil && n.typ == "let_clause" {
				n.setField("name", id)
			}
		case "catch_declaration", "declaration_expression":
			if len(n.namedKids) >= 2 {
				if id := n.lastNamed("identifier"); id != nil && id != n.field("type") {
					n.setField("name", id)
				}
			}
		case "variable_declarator", "type_parameter", "enum_member_declaration",
			"class_declaration", "struct_declaration", "interface_declaration",
			"enum_declaration", "record_declaration", "record_struct_declaration",
			"delegate_declaration", "method_declaration", "constructor_declaration",
			"destructor_declaration", "property_declaration", "event_declaration",
			"local_function_statement", "parameter", "labeled_statement",
			"generic_name", "name_equals", "name_colon", "namespace_declaration",
			"file_scoped_namespace_declaration":
			if id := n.firstNamed("identifier"); id != nil && id != n.field("type") {
				n.setField("name", id)
			}
		}
	}
	if n.field("left") == nil && (n.typ == "for_each_statement" || n.typ == "foreach_statement") {
		if id := n.identBefore("in"); id != nil {
			n.setField("left", id)
		}
	}
}

// identBefore returns the identifier child directly preceding the anonymous
// token tok.
func (n *node) identBefore(tok string) *node {
	for i, c := range n.children {
		if !c.named && c.typ == tok && i > 0 && n.children[i-1].typ == "identifier" {
			return n.children[i-1]
		}
	}
	return nil
}

func (n *node) setField(name string, c *node) {
	if n.fields == nil {
		n.fields = make(map[string]*node, 4)
	}
	n.fields[name] = c
}

// mergeDocComments collects `///` comments and merges runs separated only
// by whitespace into one documentation block.
func mergeDocComments(root *node, src []byte) []syntax.Span {
	var out []syntax.Span
	var walk func(n *node)
	walk = func(n *node) {
		if n.typ == "comment" {
			if !isDocComment(src[n.start:n.end]) {
				return
			}
			if k := len(out) - 1; k >= 0 && onlySpace(src[out[k].End():n.start]) {
				out[k] = syntax.NewSpan(out[k].Start, n.end)
				return
			}
			out = append(out, n.Span())
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(root)
	return out
}

func isDocComment(b []byte) bool {
	return len(b) >= 3 && string(b[:3]) == "///" && (len(b) == 3 || b[3] != '/')
}

func onlySpace(b []byte) bool {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n':
		default:
			return false
		}
	}
	return true
}
