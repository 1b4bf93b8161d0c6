package config

import "github.com/jward/tincture/internal/syntax"

var kindNames = map[string]syntax.SymbolKind{
	"event":          syntax.SymbolEvent,
	"field":          syntax.SymbolField,
	"label":          syntax.SymbolLabel,
	"local":          syntax.SymbolLocal,
	"method":         syntax.SymbolMethod,
	"type":           syntax.SymbolNamedType,
	"namespace":      syntax.SymbolNamespace,
	"parameter":      syntax.SymbolParameter,
	"property":       syntax.SymbolProperty,
	"range variable": syntax.SymbolRangeVariable,
	"type parameter": syntax.SymbolTypeParameter,
}

// KnownKind reports whether name is a symbol kind a rule may target.
func KnownKind(name string) bool {
	_, ok := kindNames[name]
	return ok
}

// ParseKind returns the symbol kind with the given rule name.
func ParseKind(name string) (syntax.SymbolKind, bool) {
	k, ok := kindNames[name]
	return k, ok
}
