package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/anreach/pkg/domain"
)

// LoadFile reads a model, choosing the format from the file extension.
// .yaml, .yml and .json are documents; anything else is the .an format.
func LoadFile(path string) (*domain.Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}

	var net *domain.Network
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		net, err = ParseYAML(data)
	default:
		net, err = Parse(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return net, nil
}
