package contenttype

import "testing"

func TestRegistryLookup(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("failed to load registry: %v", err)
	}

	tests := []struct {
		name string
		want string
	}{
		{"notes.txt", "text/plain"},
		{"README.md", "text/markdown"},
		{"photo.JPG", "image/jpeg"},
		{"archive.tar", "application/x-tar"},
		{"data.json", "application/json"},
		{"unknown.xyz", DefaultType},
		{"no-extension", DefaultType},
		{"", DefaultType},
		{"trailing.", DefaultType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := registry.Lookup(tt.name); got != tt.want {
				t.Errorf("Lookup(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}
