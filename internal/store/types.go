package store

import "time"

// Marker is one persisted pin of a symbol to a marker style.
type Marker struct {
	Identity  string // 16 hex digit symbol identity
	Name      string // qualified display name at pin time
	Kind      string // symbol kind, e.g. "method"
	Style     string // marker style name, e.g. "marker.symbol.2"
	Source    string // "manual", "rules" or "script:<path>"
	UpdatedAt time.Time
}

// SourceManual tags markers pinned by hand.
const SourceManual = "manual"

// Metadata keys.
const (
	MetaSchemaVersion = "schema_version"
	MetaRulesHash     = "rules_hash"
)
