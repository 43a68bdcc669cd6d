package persona

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type fileLayout struct {
	Default  string    `toml:"default"`
	Personas []Persona `toml:"personas"`
}

// LoadFile reads persona records from a TOML document and builds a registry.
// defaultID is used when the file does not declare its own default.
func LoadFile(path, defaultID string) (*MemoryStore, error) {
	var layout fileLayout
	meta, err := toml.DecodeFile(path, &layout)
	if err != nil {
		return nil, fmt.Errorf("decode personas file %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("personas file %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	if layout.Default != "" {
		defaultID = layout.Default
	}

	store, err := NewMemoryStore(layout.Personas, defaultID)
	if err != nil {
		return nil, fmt.Errorf("personas file %s: %w", path, err)
	}
	return store, nil
}
