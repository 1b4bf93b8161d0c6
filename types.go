package tincture

import (
	"github.com/jward/tincture/internal/classify"
	"github.com/jward/tincture/internal/style"
	"github.com/jward/tincture/internal/syntax"
)

// Public type aliases for the internal types that appear in the Engine
// API. External consumers use these names; no conversion is needed.

type Classifier = classify.Classifier
type Span = classify.Span
type Flags = classify.Flags
type Range = syntax.Span
type Provider = syntax.Provider
type Document = syntax.Document
type Symbol = syntax.Symbol
type Identity = syntax.Identity
type Tag = style.Tag
