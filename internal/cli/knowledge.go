package cli

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/aretw0/waterfall/pkg/adapters/memory"
)

//go:embed kb/default.yaml
var defaultKnowledgeBase []byte

// LoadKnowledgeBase reads path, or the built-in sample when path is empty.
func LoadKnowledgeBase(path string) (*memory.KnowledgeBase, error) {
	if path == "" {
		kb, err := memory.LoadKnowledgeBase(bytes.NewReader(defaultKnowledgeBase))
		if err != nil {
			return nil, fmt.Errorf("built-in knowledge base: %w", err)
		}
		return kb, nil
	}
	return memory.LoadKnowledgeBaseFile(path)
}
