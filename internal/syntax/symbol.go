package syntax

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// SymbolKind is the kind of entity a symbol names.
type SymbolKind uint8

const (
	SymbolUnknown SymbolKind = iota
	SymbolAlias
	SymbolArrayType
	SymbolAssembly
	SymbolDynamicType
	SymbolErrorType
	SymbolEvent
	SymbolField
	SymbolLabel
	SymbolLocal
	SymbolMethod
	SymbolModule
	SymbolNamedType
	SymbolNamespace
	SymbolParameter
	SymbolPointerType
	SymbolProperty
	SymbolRangeVariable
	SymbolTypeParameter
	SymbolPreprocessing
)

var symbolKindNames = map[SymbolKind]string{
	SymbolUnknown:       "unknown",
	SymbolAlias:         "alias",
	SymbolArrayType:     "array",
	SymbolAssembly:      "assembly",
	SymbolDynamicType:   "dynamic",
	SymbolErrorType:     "error",
	SymbolEvent:         "event",
	SymbolField:         "field",
	SymbolLabel:         "label",
	SymbolLocal:         "local",
	SymbolMethod:        "method",
	SymbolModule:        "module",
	SymbolNamedType:     "type",
	SymbolNamespace:     "namespace",
	SymbolParameter:     "parameter",
	SymbolPointerType:   "pointer",
	SymbolProperty:      "property",
	SymbolRangeVariable: "range variable",
	SymbolTypeParameter: "type parameter",
	SymbolPreprocessing: "preprocessing",
}

func (k SymbolKind) String() string {
	if s, ok := symbolKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// MethodKind refines SymbolMethod.
type MethodKind uint8

const (
	MethodOrdinary MethodKind = iota
	MethodConstructor
	MethodStaticConstructor
	MethodDestructor
	MethodOperator
	MethodConversion
	MethodAccessor
	MethodLocalFunction
	MethodAnonymous
)

// TypeKind refines SymbolNamedType.
type TypeKind uint8

const (
	TypeUnknown TypeKind = iota
	TypeClass
	TypeStruct
	TypeInterface
	TypeEnum
	TypeDelegate
)

// Modifiers is a set of declaration modifiers.
type Modifiers uint16

const (
	ModStatic Modifiers = 1 << iota
	ModSealed
	ModOverride
	ModVirtual
	ModAbstract
	ModConst
	ModReadonly
	ModExtern
)

// Has reports whether all bits of m2 are set in m.
func (m Modifiers) Has(m2 Modifiers) bool { return m&m2 == m2 }

// Symbol is a resolved program entity.
type Symbol struct {
	Kind       SymbolKind
	Name       string
	TypeKind   TypeKind
	MethodKind MethodKind
	Modifiers  Modifiers
	// IsExtension is set on methods whose first parameter carries `this`.
	IsExtension bool
	// IsAnonymousType is set on types synthesized for anonymous objects.
	IsAnonymousType bool
	// Container is the enclosing namespace, type or method.
	Container *Symbol
	// Signature distinguishes overloads (parameter type texts).
	Signature string
	// Declaration is the span of the declaring node, empty for synthesized
	// symbols.
	Declaration Span
	ID          Identity
}

func (s *Symbol) IsStatic() bool   { return s.Modifiers.Has(ModStatic) }
func (s *Symbol) IsSealed() bool   { return s.Modifiers.Has(ModSealed) }
func (s *Symbol) IsOverride() bool { return s.Modifiers.Has(ModOverride) }
func (s *Symbol) IsVirtual() bool  { return s.Modifiers.Has(ModVirtual) }
func (s *Symbol) IsAbstract() bool { return s.Modifiers.Has(ModAbstract) }
func (s *Symbol) IsConst() bool    { return s.Modifiers.Has(ModConst) }
func (s *Symbol) IsReadonly() bool { return s.Modifiers.Has(ModReadonly) }
func (s *Symbol) IsExtern() bool   { return s.Modifiers.Has(ModExtern) }

// ContainingType returns the nearest enclosing named type, or nil.
func (s *Symbol) ContainingType() *Symbol {
	for c := s.Container; c != nil; c = c.Container {
		if c.Kind == SymbolNamedType {
			return c
		}
	}
	return nil
}

// QualifiedName joins the container chain with dots, skipping method
// bodies' anonymous scopes.
func (s *Symbol) QualifiedName() string {
	var parts []string
	for c := s; c != nil; c = c.Container {
		if c.Name != "" {
			parts = append(parts, c.Name)
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// Identity is a stable hash of a symbol's declaration site and signature.
// Every reference to one logical entity yields the same Identity, and the
// value survives unrelated edits to the file.
type Identity uint64

// NewIdentity derives the identity of a symbol from its container's
// identity, kind, name and signature.
func NewIdentity(container Identity, kind SymbolKind, name, signature string) Identity {
	d := xxhash.New()
	_, _ = d.WriteString(strconv.FormatUint(uint64(container), 16))
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(kind.String())
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(name)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(signature)
	return Identity(d.Sum64())
}

func (id Identity) String() string {
	s := strconv.FormatUint(uint64(id), 16)
	if len(s) < 16 {
		s = strings.Repeat("0", 16-len(s)) + s
	}
	return s
}

// ParseIdentity parses the 16 hex digit form produced by String.
func ParseIdentity(s string) (Identity, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, err
	}
	return Identity(v), nil
}
