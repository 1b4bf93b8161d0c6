package csharp

import (
	"strings"

	"github.com/jward/tincture/internal/syntax"
)

// LexicalSpans returns the base classification of every token and comment
// intersecting rng, in text order.
func (d *Document) LexicalSpans(rng syntax.Span) []syntax.LexicalSpan {
	lx := &lexer{doc: d, rng: rng, lastDoc: -1}
	if d.tree.root != nil {
		lx.walk(d.tree.root)
	}
	return lx.out
}

type lexer struct {
	doc *Document
	rng syntax.Span
	out []syntax.LexicalSpan
	// lastDoc is the start of the last documentation block tokenized, so
	// each `///` line of one block is not tokenized again.
	lastDoc int
}

func (lx *lexer) emit(start, end int, class string) {
	if end <= start {
		return
	}
	s := syntax.NewSpan(start, end)
	if !s.Overlaps(lx.rng) {
		return
	}
	lx.out = append(lx.out, syntax.LexicalSpan{Span: s, Class: class})
}

func (lx *lexer) walk(n *node) {
	if n.end <= lx.rng.Start || n.start >= lx.rng.End() {
		return
	}
	if n.typ == "comment" {
		lx.comment(n)
		return
	}
	if class, ok := atomicTypes[n.typ]; ok && n.named {
		lx.emit(n.start, n.end, class)
		return
	}
	if len(n.children) == 0 {
		lx.emit(n.start, n.end, lx.leafClass(n))
		return
	}
	for _, c := range n.children {
		lx.walk(c)
	}
}

func (lx *lexer) leafClass(n *node) string {
	text := n.Text()
	if n.named {
		switch {
		case n.typ == "identifier":
			return lx.identifierClass(n)
		case strings.HasPrefix(n.typ, "preproc"):
			return syntax.ClassPreprocessor
		case strings.Contains(n.typ, "string") || strings.Contains(n.typ, "escape"):
			return syntax.ClassString
		}
	}
	return tokenClass(text)
}

// tokenClass classifies a token from its text alone.
func tokenClass(text string) string {
	switch {
	case text == "":
		return syntax.ClassOperator
	case text[0] == '#':
		return syntax.ClassPreprocessor
	case isWord(text):
		return syntax.ClassKeyword
	case text[0] >= '0' && text[0] <= '9':
		return syntax.ClassNumber
	case strings.ContainsAny(text, "\"'"):
		return syntax.ClassString
	case punctuation[text]:
		return syntax.ClassPunctuation
	}
	return syntax.ClassOperator
}

func isWord(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || i > 0 && c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

// identifierClass names type identifiers by their type kind, the way the
// base stream reports "class name" or "struct name".
func (lx *lexer) identifierClass(n *node) string {
	m := lx.doc.model
	sym := m.declared[n]
	if sym == nil {
		sym = m.resolve(n, 0)
	}
	if sym == nil {
		return syntax.ClassIdentifier
	}
	if sym.Kind == syntax.SymbolMethod {
		switch sym.MethodKind {
		case syntax.MethodConstructor, syntax.MethodStaticConstructor, syntax.MethodDestructor:
			if sym.Container != nil {
				sym = sym.Container
			}
		}
	}
	return typeClass(sym)
}

func typeClass(sym *syntax.Symbol) string {
	switch sym.Kind {
	case syntax.SymbolTypeParameter:
		return syntax.ClassTypeParamName
	case syntax.SymbolNamedType:
		switch sym.TypeKind {
		case syntax.TypeClass:
			return syntax.ClassClassName
		case syntax.TypeInterface:
			return syntax.ClassInterfaceName
		case syntax.TypeStruct:
			return syntax.ClassStructName
		case syntax.TypeEnum:
			return syntax.ClassEnumName
		case syntax.TypeDelegate:
			return syntax.ClassDelegateName
		}
	}
	return syntax.ClassIdentifier
}

func (lx *lexer) comment(n *node) {
	block, ok := lx.doc.tree.DocCommentAt(n.start)
	if !ok {
		lx.emit(n.start, n.end, syntax.ClassComment)
		return
	}
	if block.Start == lx.lastDoc {
		return
	}
	lx.lastDoc = block.Start
	lx.docBlock(block)
}

// docBlock tokenizes a documentation comment block: the `///` prefixes and
// XML punctuation are delimiters, element and attribute names are names,
// CDATA content is a cdata section and everything else is text.
func (lx *lexer) docBlock(block syntax.Span) {
	src := lx.doc.tree.src
	i, end := block.Start, block.End()
	inCData := false
	for i < end {
		// Line prefix.
		for i < end && (src[i] == ' ' || src[i] == '\t' || src[i] == '\r' || src[i] == '\n') {
			i++
		}
		if i+3 <= end && string(src[i:i+3]) == "///" {
			lx.emit(i, i+3, syntax.ClassXmlDelimiter)
			i += 3
		}
		lineEnd := i
		for lineEnd < end && src[lineEnd] != '\n' {
			lineEnd++
		}
		lx.docLine(src, i, trimCR(src, i, lineEnd), &inCData)
		i = lineEnd
	}
}

func trimCR(src []byte, start, end int) int {
	if end > start && src[end-1] == '\r' {
		return end - 1
	}
	return end
}

func (lx *lexer) docLine(src []byte, i, end int, inCData *bool) {
	for i < end {
		if *inCData {
			stop := indexFrom(src, i, end, "]]>")
			if stop < 0 {
				lx.emit(i, end, syntax.ClassXmlCData)
				return
			}
			lx.emit(i, stop, syntax.ClassXmlCData)
			lx.emit(stop, stop+3, syntax.ClassXmlDelimiter)
			*inCData = false
			i = stop + 3
			continue
		}
		switch {
		case hasAt(src, i, end, "<![CDATA["):
			lx.emit(i, i+9, syntax.ClassXmlDelimiter)
			*inCData = true
			i += 9
		case src[i] == '<':
			i = lx.docTag(src, i, end)
		default:
			j := i
			for j < end && src[j] != '<' {
				j++
			}
			s, e := trimSpace(src, i, j)
			lx.emit(s, e, syntax.ClassXmlText)
			i = j
		}
	}
}

// docTag tokenizes one element tag starting at `<`.
func (lx *lexer) docTag(src []byte, i, end int) int {
	open := 1
	if hasAt(src, i, end, "</") {
		open = 2
	}
	lx.emit(i, i+open, syntax.ClassXmlDelimiter)
	i += open
	i = lx.docName(src, i, end)
	for i < end {
		switch c := src[i]; {
		case c == ' ' || c == '\t':
			i++
		case hasAt(src, i, end, "/>"):
			lx.emit(i, i+2, syntax.ClassXmlDelimiter)
			return i + 2
		case c == '>':
			lx.emit(i, i+1, syntax.ClassXmlDelimiter)
			return i + 1
		case c == '=':
			lx.emit(i, i+1, syntax.ClassXmlDelimiter)
			i++
		case c == '"' || c == '\'':
			lx.emit(i, i+1, syntax.ClassXmlDelimiter)
			j := i + 1
			for j < end && src[j] != c {
				j++
			}
			lx.emit(i+1, j, syntax.ClassXmlText)
			if j < end {
				lx.emit(j, j+1, syntax.ClassXmlDelimiter)
				j++
			}
			i = j
		case isNameByte(c):
			i = lx.docName(src, i, end)
		default:
			i++
		}
	}
	return i
}

func (lx *lexer) docName(src []byte, i, end int) int {
	j := i
	for j < end && isNameByte(src[j]) {
		j++
	}
	lx.emit(i, j, syntax.ClassXmlName)
	return j
}

func isNameByte(c byte) bool {
	return c == '_' || c == ':' || c == '-' || c == '.' ||
		c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func hasAt(src []byte, i, end int, s string) bool {
	return i+len(s) <= end && string(src[i:i+len(s)]) == s
}

func indexFrom(src []byte, i, end int, s string) int {
	if k := strings.Index(string(src[i:end]), s); k >= 0 {
		return i + k
	}
	return -1
}

func trimSpace(src []byte, i, j int) (int, int) {
	for i < j && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	for j > i && (src[j-1] == ' ' || src[j-1] == '\t') {
		j--
	}
	return i, j
}
