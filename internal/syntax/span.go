// Package syntax declares the contracts the classifier consumes: text spans,
// syntax trees and nodes, the semantic model, and the base lexical stream.
// Language providers (see internal/csharp) implement them.
package syntax

import "fmt"

// Span is a half-open byte range [Start, Start+Length) in a source snapshot.
type Span struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// NewSpan builds a span from start and end offsets.
func NewSpan(start, end int) Span {
	if end < start {
		end = start
	}
	return Span{Start: start, Length: end - start}
}

// End returns the exclusive end offset.
func (s Span) End() int { return s.Start + s.Length }

// IsEmpty reports whether the span covers no text.
func (s Span) IsEmpty() bool { return s.Length <= 0 }

// Contains reports whether o lies entirely within s.
func (s Span) Contains(o Span) bool {
	return o.Start >= s.Start && o.End() <= s.End()
}

// ContainsOffset reports whether offset falls inside s.
func (s Span) ContainsOffset(offset int) bool {
	return offset >= s.Start && offset < s.End()
}

// Overlaps reports whether s and o share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End() && o.Start < s.End()
}

// Shift returns s moved by delta bytes.
func (s Span) Shift(delta int) Span {
	return Span{Start: s.Start + delta, Length: s.Length}
}

func (s Span) String() string {
	return fmt.Sprintf("[%d..%d)", s.Start, s.End())
}
