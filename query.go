package tincture

import (
	"sort"

	"github.com/jward/tincture/internal/syntax"
)

// Location is a source position range. Lines and columns are 1-based;
// columns count bytes.
type Location struct {
	File      string `json:"file"`
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
	EndLine   int    `json:"end_line"`
	EndCol    int    `json:"end_col"`
}

// SymbolAt returns the symbol referenced or declared at offset, or nil.
// A reference wins over the declaration it sits in.
func (f *File) SymbolAt(offset int) *syntax.Symbol {
	if offset < 0 || offset >= len(f.Source) {
		return nil
	}
	n := f.Doc.Tree().FindNode(syntax.NewSpan(offset, offset+1), false)
	if n == nil {
		return nil
	}
	m := f.Doc.Model()
	if sym := m.ResolveSymbol(n); sym != nil {
		return sym
	}
	if sym := m.ResolveDeclaredSymbol(n); sym != nil {
		return sym
	}
	if cands := m.CandidateSymbols(n); len(cands) > 0 {
		return cands[0]
	}
	return nil
}

// Location converts span to line and column positions.
func (f *File) Location(span Range) Location {
	lines := f.lineStarts()
	sl, sc := position(lines, span.Start)
	el, ec := position(lines, span.End())
	return Location{File: f.Path, StartLine: sl, StartCol: sc, EndLine: el, EndCol: ec}
}

func (f *File) lineStarts() []int {
	starts := []int{0}
	for i, c := range f.Source {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func position(lines []int, offset int) (line, col int) {
	i := sort.Search(len(lines), func(i int) bool { return lines[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, offset - lines[i] + 1
}
