// Package config loads tincture's TOML configuration and publishes it as
// immutable snapshots.
package config

import (
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/jward/tincture/internal/classify"
	"github.com/jward/tincture/internal/style"
)

// DefaultFile is the configuration file name looked up by the CLI.
const DefaultFile = "tincture.toml"

// Config is the decoded configuration file.
type Config struct {
	// Flags switches individual classification flags on or off, keyed by
	// flag name. Unlisted flags keep their default.
	Flags   map[string]bool `toml:"flags"`
	Labels  []Label         `toml:"labels"`
	Markers Markers         `toml:"markers"`
	Watch   WatchConfig     `toml:"watch"`
}

// Label is one special comment label.
type Label struct {
	Text             string `toml:"text"`
	Style            string `toml:"style"`
	IgnoreCase       bool   `toml:"ignore_case"`
	AllowPunctuation bool   `toml:"allow_punctuation"`
}

// Markers locates the marker database and lists the glob rules.
type Markers struct {
	Database string `toml:"database"`
	Rules    []Rule `toml:"rules"`
}

// Rule pins a marker style to every symbol whose name matches Pattern.
type Rule struct {
	Pattern string `toml:"pattern"`
	// Kind restricts the rule to one symbol kind, e.g. "method".
	Kind  string `toml:"kind"`
	Style string `toml:"style"`
}

// WatchConfig tunes the configuration file watcher.
type WatchConfig struct {
	Debounce time.Duration `toml:"debounce"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and validates the configuration at path.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("config: read %s: %w", path, err)
	}
	return Parse(string(data))
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(fs afero.Fs, path string) (*Config, error) {
	ok, err := afero.Exists(fs, path)
	if err != nil {
		return nil, errors.Errorf("config: stat %s: %w", path, err)
	}
	if !ok {
		return Default(), nil
	}
	return Load(fs, path)
}

// Parse decodes and validates TOML text.
func Parse(data string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return nil, errors.Errorf("config: decode: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Errorf("config: unknown keys: %s", strings.Join(keys, ", "))
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Flags == nil {
		cfg.Flags = map[string]bool{}
	}
	if strings.TrimSpace(cfg.Markers.Database) == "" {
		cfg.Markers.Database = "tincture.db"
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 200 * time.Millisecond
	}
}

func validate(cfg *Config) error {
	for name := range cfg.Flags {
		if _, ok := classify.ParseFlag(name); !ok {
			return errors.Errorf("config: flags: unknown flag %q (known: %s)", name, strings.Join(classify.FlagNames(), ", "))
		}
	}
	for i, l := range cfg.Labels {
		if l.Text == "" {
			return errors.Errorf("config: labels[%d].text must not be empty", i)
		}
		if _, ok := style.Resolve(l.Style); !ok {
			return errors.Errorf("config: labels[%d].style: unknown style %q", i, l.Style)
		}
	}
	for i, r := range cfg.Markers.Rules {
		if strings.TrimSpace(r.Pattern) == "" {
			return errors.Errorf("config: markers.rules[%d].pattern must not be empty", i)
		}
		if _, err := glob.Compile(r.Pattern, '.'); err != nil {
			return errors.Errorf("config: markers.rules[%d].pattern: %w", i, err)
		}
		tag, ok := style.Resolve(r.Style)
		if !ok || !tag.IsMarker() {
			return errors.Errorf("config: markers.rules[%d].style: %q is not a marker style", i, r.Style)
		}
		if r.Kind != "" && !KnownKind(r.Kind) {
			return errors.Errorf("config: markers.rules[%d].kind: unknown symbol kind %q", i, r.Kind)
		}
	}
	if cfg.Watch.Debounce > time.Minute {
		return errors.Errorf("config: watch.debounce must be at most 1m, got %s", cfg.Watch.Debounce)
	}
	return nil
}

// ClassifyFlags applies the flag switches to the default flag set.
func (c *Config) ClassifyFlags() classify.Flags {
	flags := classify.DefaultFlags
	for name, on := range c.Flags {
		f, ok := classify.ParseFlag(name)
		if !ok {
			continue
		}
		if on {
			flags |= f
		} else {
			flags &^= f
		}
	}
	return flags
}

// LabelSet returns the configured comment labels, or the defaults when the
// file lists none.
func (c *Config) LabelSet() *classify.LabelSet {
	if len(c.Labels) == 0 {
		return classify.DefaultLabels()
	}
	labels := make([]classify.Label, 0, len(c.Labels))
	for _, l := range c.Labels {
		tag, _ := style.Resolve(l.Style)
		labels = append(labels, classify.Label{
			Text:             l.Text,
			Tag:              tag,
			IgnoreCase:       l.IgnoreCase,
			AllowPunctuation: l.AllowPunctuation,
		})
	}
	return classify.NewLabelSet(labels)
}
