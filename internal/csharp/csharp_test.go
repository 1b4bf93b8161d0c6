package csharp

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/tincture/internal/syntax"
)

func parseDoc(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	t.Cleanup(doc.Close)
	return doc
}

// spanOf returns the span of the nth (0-based) occurrence of text in src.
func spanOf(t *testing.T, src, text string, nth int) syntax.Span {
	t.Helper()
	off := 0
	for i := 0; ; i++ {
		k := strings.Index(src[off:], text)
		require.GreaterOrEqual(t, k, 0, "occurrence %d of %q not found", nth, text)
		if i == nth {
			return syntax.NewSpan(off+k, off+k+len(text))
		}
		off += k + len(text)
	}
}

// symbolAt resolves the identifier at the nth occurrence of name the way
// the classifier does: reference first, then declaration.
func symbolAt(t *testing.T, doc *Document, src, name string, nth int) *syntax.Symbol {
	t.Helper()
	n := doc.Tree().FindNode(spanOf(t, src, name, nth), false)
	require.NotNil(t, n)
	if sym := doc.Model().ResolveSymbol(n); sym != nil {
		return sym
	}
	return doc.Model().ResolveDeclaredSymbol(n)
}

// ============================================================================
// Declarations
// ============================================================================

const declSource = `namespace Shop.Sales
{
    public class Order
    {
        public const int Max = 10;
        public static readonly int Seed = 1;
        private int count;
        public event System.EventHandler Changed;
        public string Name { get; set; }
        public Order() { }
        static Order() { }
        ~Order() { }
        public virtual void Submit(int qty) { }
        public sealed override string ToString() { return Name; }
        public class Line { }
    }

    public interface IStore { void Save(); }
    public struct Point { }
    public enum Color { Red, Green }
    public delegate void Handler(int x);

    public static class OrderExtensions
    {
        public static int Total(this Order o) { return 0; }
        public static extern void Native();
    }
}
`

func TestDeclaredSymbols(t *testing.T) {
	t.Parallel()
	doc := parseDoc(t, declSource)

	tests := []struct {
		name  string
		text  string
		nth   int
		kind  syntax.SymbolKind
		check func(t *testing.T, s *syntax.Symbol)
	}{
		{name: "class", text: "Order", kind: syntax.SymbolNamedType, check: func(t *testing.T, s *syntax.Symbol) {
			assert.Equal(t, syntax.TypeClass, s.TypeKind)
			assert.Equal(t, "Shop.Sales.Order", s.QualifiedName())
		}},
		{name: "const field", text: "Max", kind: syntax.SymbolField, check: func(t *testing.T, s *syntax.Symbol) {
			assert.True(t, s.IsConst())
			assert.True(t, s.IsStatic())
		}},
		{name: "static readonly field", text: "Seed", kind: syntax.SymbolField, check: func(t *testing.T, s *syntax.Symbol) {
			assert.True(t, s.IsReadonly())
			assert.True(t, s.IsStatic())
			assert.False(t, s.IsConst())
		}},
		{name: "event", text: "Changed", kind: syntax.SymbolEvent},
		{name: "property", text: "Name", kind: syntax.SymbolProperty},
		{name: "constructor", text: "Order()", kind: syntax.SymbolMethod, check: func(t *testing.T, s *syntax.Symbol) {
			assert.Equal(t, syntax.MethodConstructor, s.MethodKind)
		}},
		{name: "virtual method", text: "Submit", kind: syntax.SymbolMethod, check: func(t *testing.T, s *syntax.Symbol) {
			assert.True(t, s.IsVirtual())
		}},
		{name: "sealed override", text: "ToString", kind: syntax.SymbolMethod, check: func(t *testing.T, s *syntax.Symbol) {
			assert.True(t, s.IsSealed())
			assert.True(t, s.IsOverride())
		}},
		{name: "nested class", text: "Line", kind: syntax.SymbolNamedType, check: func(t *testing.T, s *syntax.Symbol) {
			require.NotNil(t, s.ContainingType())
			assert.Equal(t, "Order", s.ContainingType().Name)
		}},
		{name: "interface", text: "IStore", kind: syntax.SymbolNamedType, check: func(t *testing.T, s *syntax.Symbol) {
			assert.Equal(t, syntax.TypeInterface, s.TypeKind)
			assert.True(t, s.IsAbstract())
		}},
		{name: "interface member", text: "Save", kind: syntax.SymbolMethod, check: func(t *testing.T, s *syntax.Symbol) {
			assert.True(t, s.IsAbstract())
		}},
		{name: "struct", text: "Point", kind: syntax.SymbolNamedType, check: func(t *testing.T, s *syntax.Symbol) {
			assert.Equal(t, syntax.TypeStruct, s.TypeKind)
			assert.True(t, s.IsSealed())
		}},
		{name: "enum member", text: "Red", kind: syntax.SymbolField, check: func(t *testing.T, s *syntax.Symbol) {
			assert.True(t, s.IsConst())
			assert.True(t, s.IsStatic())
		}},
		{name: "delegate", text: "Handler", nth: 1, kind: syntax.SymbolNamedType, check: func(t *testing.T, s *syntax.Symbol) {
			assert.Equal(t, syntax.TypeDelegate, s.TypeKind)
		}},
		{name: "extension method", text: "Total", kind: syntax.SymbolMethod, check: func(t *testing.T, s *syntax.Symbol) {
			assert.True(t, s.IsExtension)
		}},
		{name: "extern method", text: "Native", kind: syntax.SymbolMethod, check: func(t *testing.T, s *syntax.Symbol) {
			assert.True(t, s.IsExtern())
			assert.True(t, s.IsStatic())
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := tt.text
			span := spanOf(t, declSource, text, tt.nth)
			if i := strings.IndexByte(text, '('); i > 0 {
				span = syntax.NewSpan(span.Start, span.Start+i)
			}
			n := doc.Tree().FindNode(span, false)
			require.NotNil(t, n)
			sym := doc.Model().ResolveDeclaredSymbol(n)
			require.NotNil(t, sym, "no declared symbol for %q", tt.text)
			assert.Equal(t, tt.kind, sym.Kind)
			if tt.check != nil {
				tt.check(t, sym)
			}
		})
	}
}

func TestStaticConstructorAndDestructor(t *testing.T) {
	t.Parallel()
	doc := parseDoc(t, declSource)

	static := symbolAt(t, doc, declSource, "Order", 2)
	require.NotNil(t, static)
	assert.Equal(t, syntax.MethodStaticConstructor, static.MethodKind)

	dtor := symbolAt(t, doc, declSource, "Order", 3)
	require.NotNil(t, dtor)
	assert.Equal(t, syntax.MethodDestructor, dtor.MethodKind)
}

// ============================================================================
// References
// ============================================================================

const refSource = `using System;

namespace App
{
    public enum Mode { Fast, Slow }

    public class Counter
    {
        private int total;
        public static int Instances;

        public void Add(int amount) { total += amount; }
        public void Add(int a, int b) { total += a + b; }

        public int Run(Mode mode)
        {
            var local = new Counter();
            local.Add(1, 2);
            this.total = 0;
            Counter.Instances++;
            if (mode == Mode.Fast) { return total; }
            const int limit = 3;
            return limit + local.Twice();
        }
    }

    public static class CounterExtensions
    {
        public static int Twice(this Counter c) { return 2; }
    }
}
`

func TestResolveReferences(t *testing.T) {
	t.Parallel()
	doc := parseDoc(t, refSource)

	t.Run("parameter", func(t *testing.T) {
		sym := symbolAt(t, doc, refSource, "amount", 1)
		require.NotNil(t, sym)
		assert.Equal(t, syntax.SymbolParameter, sym.Kind)
	})
	t.Run("field in expression", func(t *testing.T) {
		sym := symbolAt(t, doc, refSource, "total", 1)
		require.NotNil(t, sym)
		assert.Equal(t, syntax.SymbolField, sym.Kind)
		assert.Equal(t, symbolAt(t, doc, refSource, "total", 0).ID, sym.ID)
	})
	t.Run("this member access", func(t *testing.T) {
		sym := symbolAt(t, doc, refSource, "total", 3)
		require.NotNil(t, sym)
		assert.Equal(t, syntax.SymbolField, sym.Kind)
	})
	t.Run("static member access", func(t *testing.T) {
		sym := symbolAt(t, doc, refSource, "Instances", 1)
		require.NotNil(t, sym)
		assert.True(t, sym.IsStatic())
	})
	t.Run("overload by argument count", func(t *testing.T) {
		sym := symbolAt(t, doc, refSource, "Add", 2)
		require.NotNil(t, sym)
		assert.Equal(t, syntax.SymbolMethod, sym.Kind)
		assert.Equal(t, symbolAt(t, doc, refSource, "Add", 1).ID, sym.ID)
	})
	t.Run("enum member", func(t *testing.T) {
		sym := symbolAt(t, doc, refSource, "Fast", 1)
		require.NotNil(t, sym)
		assert.Equal(t, syntax.SymbolField, sym.Kind)
		assert.True(t, sym.IsConst())
	})
	t.Run("local", func(t *testing.T) {
		sym := symbolAt(t, doc, refSource, "local", 1)
		require.NotNil(t, sym)
		assert.Equal(t, syntax.SymbolLocal, sym.Kind)
	})
	t.Run("const local", func(t *testing.T) {
		sym := symbolAt(t, doc, refSource, "limit", 1)
		require.NotNil(t, sym)
		assert.Equal(t, syntax.SymbolLocal, sym.Kind)
		assert.True(t, sym.IsConst())
	})
	t.Run("extension method", func(t *testing.T) {
		sym := symbolAt(t, doc, refSource, "Twice", 0)
		require.NotNil(t, sym)
		assert.True(t, sym.IsExtension)
	})
	t.Run("namespace", func(t *testing.T) {
		sym := symbolAt(t, doc, refSource, "System", 0)
		require.NotNil(t, sym)
		assert.Equal(t, syntax.SymbolNamespace, sym.Kind)
	})
	t.Run("declaration name is not a reference", func(t *testing.T) {
		n := doc.Tree().FindNode(spanOf(t, refSource, "total", 0), false)
		assert.Nil(t, doc.Model().ResolveSymbol(n))
		assert.NotNil(t, doc.Model().ResolveDeclaredSymbol(n))
	})
}

func TestAttributeConstructors(t *testing.T) {
	t.Parallel()
	src := `class MarkAttribute : System.Attribute
{
    public MarkAttribute(int level) { }
}

[Mark(2)]
[Obsolete]
class Target { }
`
	doc := parseDoc(t, src)

	mark := symbolAt(t, doc, src, "Mark", 2)
	require.NotNil(t, mark)
	assert.Equal(t, syntax.MethodConstructor, mark.MethodKind)
	assert.Equal(t, "MarkAttribute", mark.Container.Name)

	obsolete := symbolAt(t, doc, src, "Obsolete", 0)
	require.NotNil(t, obsolete)
	assert.Equal(t, syntax.MethodConstructor, obsolete.MethodKind)
	assert.Equal(t, "ObsoleteAttribute", obsolete.Container.Name)
}

func TestUsingAlias(t *testing.T) {
	t.Parallel()
	src := `using IO = System.IO;

class Reader
{
    void Open() { IO.File.Exists("x"); }
}
`
	doc := parseDoc(t, src)

	alias := doc.Tree().FindNode(spanOf(t, src, "IO", 0), false)
	require.NotNil(t, alias)
	assert.Nil(t, doc.Model().ResolveSymbol(alias))

	directive := alias.Parent()
	require.NotNil(t, directive)
	require.Equal(t, syntax.UsingDirective, directive.Kind())
	field := directive.Field(syntax.FieldAlias)
	require.NotNil(t, field)
	assert.Equal(t, "IO", field.Text())

	ref := symbolAt(t, doc, src, "IO", 2)
	require.NotNil(t, ref)
	assert.Equal(t, syntax.SymbolNamespace, ref.Kind)
	assert.Equal(t, "System.IO", ref.QualifiedName())
}

func TestIdentityStableAcrossEdits(t *testing.T) {
	t.Parallel()
	before := parseDoc(t, refSource)
	edited := "// a leading comment\n" + strings.Replace(refSource, "total += amount;", "total += amount * 1;", 1)
	after := parseDoc(t, edited)

	for _, name := range []string{"total", "Instances", "Counter", "Twice"} {
		a := symbolAt(t, before, refSource, name, 0)
		b := symbolAt(t, after, edited, name, 0)
		require.NotNil(t, a, name)
		require.NotNil(t, b, name)
		assert.Equal(t, a.ID, b.ID, name)
	}
}

// ============================================================================
// Tree lookups
// ============================================================================

func TestFindNode(t *testing.T) {
	t.Parallel()
	src := `[Serializable]
class Box
{
    int size;
    void Grow() { for (int i = 0; i < 2; i++) { size++; } }
}
`
	doc := parseDoc(t, src)
	tree := doc.Tree()

	attr := tree.FindNode(spanOf(t, src, "Serializable", 0), false)
	require.NotNil(t, attr)
	assert.Equal(t, syntax.Attribute, attr.Kind())

	brace := tree.FindNode(spanOf(t, src, "{", 0), true)
	require.NotNil(t, brace)
	assert.Equal(t, syntax.ClassDeclaration, brace.Kind())

	kw := tree.FindNode(spanOf(t, src, "for", 0), true)
	require.NotNil(t, kw)
	assert.Equal(t, syntax.ForStatement, kw.Kind())

	decl := tree.FindNode(spanOf(t, src, "size", 0), false)
	require.NotNil(t, decl)
	assert.Equal(t, syntax.VariableDeclarator, decl.Kind())

	assert.Nil(t, tree.FindNode(syntax.NewSpan(0, len(src)+10), false))
}

func TestDocCommentAt(t *testing.T) {
	t.Parallel()
	src := "/// <summary>\n/// Adds.\n/// </summary>\n// plain\nclass A { }\n"
	doc := parseDoc(t, src)

	block, ok := doc.Tree().DocCommentAt(spanOf(t, src, "Adds", 0).Start)
	require.True(t, ok)
	assert.Equal(t, 0, block.Start)
	assert.Equal(t, strings.Index(src, "\n// plain"), block.End())

	_, ok = doc.Tree().DocCommentAt(spanOf(t, src, "plain", 0).Start)
	assert.False(t, ok)
}

// ============================================================================
// Lexical stream
// ============================================================================

func classAt(spans []syntax.LexicalSpan, span syntax.Span) string {
	for _, s := range spans {
		if s.Span == span {
			return s.Class
		}
	}
	return ""
}

func TestLexicalSpans(t *testing.T) {
	t.Parallel()
	src := `interface IShape { }
struct Vec { }
class Canvas<T> : IShape
{
    // note
    int Draw(Vec v, T item) { return 42 + "s".Length; }
}
`
	doc := parseDoc(t, src)
	spans := doc.LexicalSpans(syntax.NewSpan(0, len(src)))

	assert.Equal(t, syntax.ClassKeyword, classAt(spans, spanOf(t, src, "class", 0)))
	assert.Equal(t, syntax.ClassClassName, classAt(spans, spanOf(t, src, "Canvas", 0)))
	assert.Equal(t, syntax.ClassInterfaceName, classAt(spans, spanOf(t, src, "IShape", 1)))
	assert.Equal(t, syntax.ClassStructName, classAt(spans, spanOf(t, src, "Vec", 1)))
	assert.Equal(t, syntax.ClassTypeParamName, classAt(spans, spanOf(t, src, "T", 1)))
	assert.Equal(t, syntax.ClassIdentifier, classAt(spans, spanOf(t, src, "item", 0)))
	assert.Equal(t, syntax.ClassPunctuation, classAt(spans, spanOf(t, src, "{", 2)))
	assert.Equal(t, syntax.ClassOperator, classAt(spans, spanOf(t, src, "+", 0)))
	assert.Equal(t, syntax.ClassNumber, classAt(spans, spanOf(t, src, "42", 0)))
	assert.Equal(t, syntax.ClassString, classAt(spans, spanOf(t, src, `"s"`, 0)))
	assert.Equal(t, syntax.ClassComment, classAt(spans, spanOf(t, src, "// note", 0)))

	for i := 1; i < len(spans); i++ {
		assert.LessOrEqual(t, spans[i-1].Span.Start, spans[i].Span.Start, "spans out of order")
	}
}

func TestLexicalSpansRange(t *testing.T) {
	t.Parallel()
	src := "class A { int x; }\nclass B { }\n"
	doc := parseDoc(t, src)

	rng := spanOf(t, src, "class B { }", 0)
	for _, s := range doc.LexicalSpans(rng) {
		assert.True(t, s.Span.Overlaps(rng), "span %s outside range", s.Span)
	}
}

func TestDocCommentTokens(t *testing.T) {
	t.Parallel()
	src := "/// <see cref=\"A\"/> text <![CDATA[var x = 1;]]>\nclass A { }\n"
	doc := parseDoc(t, src)
	spans := doc.LexicalSpans(syntax.NewSpan(0, len(src)))

	assert.Equal(t, syntax.ClassXmlDelimiter, classAt(spans, spanOf(t, src, "///", 0)))
	assert.Equal(t, syntax.ClassXmlDelimiter, classAt(spans, spanOf(t, src, "<", 0)))
	assert.Equal(t, syntax.ClassXmlName, classAt(spans, spanOf(t, src, "see", 0)))
	assert.Equal(t, syntax.ClassXmlName, classAt(spans, spanOf(t, src, "cref", 0)))
	assert.Equal(t, syntax.ClassXmlDelimiter, classAt(spans, spanOf(t, src, "/>", 0)))
	assert.Equal(t, syntax.ClassXmlText, classAt(spans, spanOf(t, src, "text", 0)))
	assert.Equal(t, syntax.ClassXmlDelimiter, classAt(spans, spanOf(t, src, "<![CDATA[", 0)))
	assert.Equal(t, syntax.ClassXmlCData, classAt(spans, spanOf(t, src, "var x = 1;", 0)))
	assert.Equal(t, syntax.ClassXmlDelimiter, classAt(spans, spanOf(t, src, "]]>", 0)))
}

// ============================================================================
// Scripts
// ============================================================================

func TestParseScript(t *testing.T) {
	t.Parallel()

	doc, err := ParseScript(context.Background(), "var total = Compute(1, 2);")
	require.NoError(t, err)
	defer doc.Close()
	assert.False(t, doc.HasErrors())

	_, err = ParseScript(context.Background(), "class {")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSyntax)

	var p syntax.ScriptParser = Parser{}
	sdoc, err := p.ParseScript(context.Background(), "int x = 1;")
	require.NoError(t, err)
	sdoc.Close()
}

func TestIsSourceFile(t *testing.T) {
	t.Parallel()
	assert.True(t, IsSourceFile("src/Program.cs"))
	assert.True(t, IsSourceFile("build.CSX"))
	assert.False(t, IsSourceFile("main.go"))
}

func TestSymbolsOrdered(t *testing.T) {
	t.Parallel()
	doc := parseDoc(t, declSource)
	syms := doc.Symbols()
	require.NotEmpty(t, syms)
	for i := 1; i < len(syms); i++ {
		assert.LessOrEqual(t, syms[i-1].Declaration.Start, syms[i].Declaration.Start)
	}
}
