package contenttype

import (
	"embed"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/types.yaml
var configFiles embed.FS

// DefaultType is used when a file's extension is unknown or missing
const DefaultType = "application/octet-stream"

// Registry maps file extensions to MIME types. The mapping is consulted
// once at upload time; the stored type is never re-derived.
type Registry struct {
	types map[string]string
	mu    sync.RWMutex
}

type typesFile struct {
	Types map[string]string `yaml:"types"`
}

// NewRegistry loads the embedded extension-to-MIME mapping
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/types.yaml")
	if err != nil {
		return nil, fmt.Errorf("read types.yaml: %w", err)
	}

	var tf typesFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("unmarshal types.yaml: %w", err)
	}

	return &Registry{types: tf.Types}, nil
}

// Lookup returns the MIME type for a file name's extension
func (r *Registry) Lookup(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return DefaultType
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if t, ok := r.types[ext]; ok {
		return t
	}
	return DefaultType
}
