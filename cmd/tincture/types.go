package main

// CLIResult is the top-level JSON envelope for all commands.
type CLIResult struct {
	Command    string `json:"command"`
	Results    any    `json:"results"`
	TotalCount *int   `json:"total_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CLIFileSpans is the classification of one file.
type CLIFileSpans struct {
	File  string    `json:"file"`
	Spans []CLISpan `json:"spans"`
}

// CLISpan is a classified span with its 1-based position and text.
type CLISpan struct {
	Start  int    `json:"start"`
	Length int    `json:"length"`
	Tag    string `json:"tag"`
	Line   int    `json:"line"`
	Col    int    `json:"col"`
	Text   string `json:"text"`
}

// CLITag is one style tag.
type CLITag struct {
	Name   string `json:"name"`
	Marker bool   `json:"marker"`
}

// CLIMarker is a pinned symbol.
type CLIMarker struct {
	Identity  string `json:"identity"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Style     string `json:"style"`
	Source    string `json:"source"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// CLIApply summarizes a marker rule run.
type CLIApply struct {
	Source    string `json:"source"`
	Files     int    `json:"files"`
	Symbols   int    `json:"symbols"`
	Pinned    int    `json:"pinned"`
	RulesHash string `json:"rules_hash"`
}

// CLIClear reports the pins removed for one source.
type CLIClear struct {
	Source  string `json:"source"`
	Removed int    `json:"removed"`
}
