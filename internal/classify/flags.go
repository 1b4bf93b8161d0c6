package classify

import (
	"sort"
	"strings"
)

// Flags selects the refinements a classification call applies.
type Flags uint16

const (
	SyntaxHighlight Flags = 1 << iota
	SpecialComment
	DeclarationBrace
	ParameterBrace
	XmlDocCode
	BranchBrace
	LoopBrace
	ResourceBrace
	SpecialPunctuation

	// AllBraces is every flag that makes punctuation interesting.
	AllBraces = DeclarationBrace | ParameterBrace | BranchBrace | LoopBrace | ResourceBrace | SpecialPunctuation

	DefaultFlags = SyntaxHighlight | SpecialComment | DeclarationBrace | ParameterBrace |
		XmlDocCode | BranchBrace | LoopBrace | ResourceBrace
)

var flagNames = map[string]Flags{
	"syntax-highlight":    SyntaxHighlight,
	"special-comment":     SpecialComment,
	"declaration-brace":   DeclarationBrace,
	"parameter-brace":     ParameterBrace,
	"xml-doc-code":        XmlDocCode,
	"branch-brace":        BranchBrace,
	"loop-brace":          LoopBrace,
	"resource-brace":      ResourceBrace,
	"special-punctuation": SpecialPunctuation,
}

// Has reports whether every flag in g is set.
func (f Flags) Has(g Flags) bool { return f&g == g }

// HasAny reports whether at least one flag in g is set.
func (f Flags) HasAny(g Flags) bool { return f&g != 0 }

// ParseFlag returns the flag with the given configuration name.
func ParseFlag(name string) (Flags, bool) {
	f, ok := flagNames[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// FlagNames lists the configuration names of all flags, sorted.
func FlagNames() []string {
	out := make([]string, 0, len(flagNames))
	for name := range flagNames {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// String renders the set flags as a comma separated list of names.
func (f Flags) String() string {
	var parts []string
	for _, name := range FlagNames() {
		if f.Has(flagNames[name]) {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// FlagSource yields the flags for one call. Implementations return an
// immutable snapshot; changes apply to the next call.
type FlagSource interface {
	Flags() Flags
}

// StaticFlags is a FlagSource that never changes.
type StaticFlags Flags

func (s StaticFlags) Flags() Flags { return Flags(s) }
