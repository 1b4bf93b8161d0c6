// Package tincture provides semantic classification for C# source: it
// refines the base lexical stream of a buffer into role-aware style tags
// for editors and other renderers.
//
// # Pipeline
//
// For every requested range a [Classifier]:
//
//  1. takes the current syntax tree, semantic model and base lexical spans
//     from the buffer's document provider;
//  2. routes each span by its lexical class: keywords to the structural
//     classifier, braces and parentheses to the punctuation
//     contextualizer, identifiers to the symbol role resolver;
//  3. re-parses code samples inside documentation comments and projects
//     their spans back into the buffer;
//  4. consults the marker registry for symbols the user pinned to a marker
//     style.
//
// # Usage
//
// Create an Engine, open a buffer and classify a range:
//
//	e, err := tincture.New(tincture.WithDatabase("tincture.db"))
//	if err != nil { ... }
//	defer e.Close()
//
//	f, err := e.OpenSource(ctx, "Program.cs", src)
//	spans := f.Classify(ctx, tincture.Range{Start: 0, Length: len(src)})
//
// Hosts that manage their own documents register a provider instead:
//
//	c := e.Buffers().Open("Program.cs", provider)
//	spans := c.Classify(ctx, rng)
//
// # Markers
//
// [Engine.PinMarker] pins a symbol to one of the marker styles; every
// reference to the symbol is then tagged with it. Pins are persisted in
// SQLite when the Engine has a database, and can be populated in bulk from
// glob rules in the configuration file ([Engine.ApplyRules]) or from Risor
// scripts ([Engine.ApplyScript]).
//
// # Configuration
//
// Feature flags, special comment labels and marker rules are read from a
// TOML file. [Engine.WatchConfig] reloads it on change; classifiers read
// the new snapshot on their next call.
package tincture
