package csharp

import (
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
)

// extensions lists the file extensions parsed as C#.
var extensions = map[string]bool{
	".cs":  true,
	".csx": true,
}

// grammar is initialized on first use.
var (
	grammar     *sitter.Language
	grammarOnce sync.Once
)

func language() *sitter.Language {
	grammarOnce.Do(func() {
		grammar = csharp.GetLanguage()
	})
	return grammar
}

// IsSourceFile reports whether path has a C# source extension.
func IsSourceFile(path string) bool {
	return extensions[strings.ToLower(filepath.Ext(path))]
}
