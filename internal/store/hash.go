package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// ComputeRulesHash computes a deterministic hash over a set of named rule
// sources (glob rules or script bodies). Order of the input map does not
// affect the result.
func ComputeRulesHash(sources map[string]string) string {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		fmt.Fprintf(h, "rule:%s\n%d\n%s\n", name, len(sources[name]), sources[name])
	}
	return hex.EncodeToString(h.Sum(nil))
}
