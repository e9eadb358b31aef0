package ops

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// FileConfig mirrors the JSON run config layout. Every field is optional;
// flags override whatever the file sets.
type FileConfig struct {
	Root    string   `json:"root"`
	Workers int      `json:"workers"`
	Venues  []string `json:"venues"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Root    string
	Workers int
	Venues  []string
}

// Load reads a JSON run config. An empty path yields the defaults.
func Load(path string) (Loaded, error) {
	loaded := Loaded{Root: "."}
	if path == "" {
		return loaded, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, err
	}
	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, err
	}

	if cfg.Root != "" {
		loaded.Root = cfg.Root
	}
	if cfg.Workers < 0 {
		return Loaded{}, fmt.Errorf("workers must be >= 0, got %d", cfg.Workers)
	}
	loaded.Workers = cfg.Workers
	for _, v := range cfg.Venues {
		v = strings.TrimSpace(v)
		if v != "" {
			loaded.Venues = append(loaded.Venues, v)
		}
	}
	return loaded, nil
}
