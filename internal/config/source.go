package config

import (
	"sync/atomic"

	"github.com/jward/tincture/internal/classify"
)

// Snapshot is the compiled form of one Config. It is never modified after
// publication.
type Snapshot struct {
	Config *Config
	Flags  classify.Flags
	Labels *classify.LabelSet
}

func compile(cfg *Config) *Snapshot {
	return &Snapshot{Config: cfg, Flags: cfg.ClassifyFlags(), Labels: cfg.LabelSet()}
}

// Source publishes the current snapshot to classifiers. Readers take the
// snapshot with one atomic load; Update swaps in a new one.
type Source struct {
	cur atomic.Pointer[Snapshot]
}

var (
	_ classify.FlagSource  = (*Source)(nil)
	_ classify.LabelSource = (*Source)(nil)
)

// NewSource returns a source serving cfg, or the defaults when cfg is nil.
func NewSource(cfg *Config) *Source {
	if cfg == nil {
		cfg = Default()
	}
	s := &Source{}
	s.cur.Store(compile(cfg))
	return s
}

// Update replaces the snapshot. A nil cfg is ignored.
func (s *Source) Update(cfg *Config) {
	if cfg == nil {
		return
	}
	s.cur.Store(compile(cfg))
}

func (s *Source) Snapshot() *Snapshot { return s.cur.Load() }

func (s *Source) Config() *Config { return s.cur.Load().Config }

// Flags implements classify.FlagSource.
func (s *Source) Flags() classify.Flags { return s.cur.Load().Flags }

// Labels implements classify.LabelSource.
func (s *Source) Labels() *classify.LabelSet { return s.cur.Load().Labels }
