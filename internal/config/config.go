// internal/config/config.go
package config

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// File holds run defaults that flags override. Zero values mean
// "not set"; callers fill in their own fallbacks afterwards.
type File struct {
	Database      string  `json:"database"`
	K             int     `json:"k"`
	Threads       int     `json:"threads"`
	Metric        string  `json:"metric"`
	MinSimilarity float64 `json:"min_similarity"`
	MinShared     int     `json:"min_shared_kmers"`
	LogFile       string  `json:"log_file"`
}

// Load reads a JSON config. An empty path returns defaults; a missing
// file at an explicit path is an error (silent fallback hides typos).
func Load(path string) (*File, error) {
	if path == "" {
		return &File{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer func() { _ = f.Close() }()

	var c File
	if err := json.NewDecoder(f).Decode(&c); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return &c, nil
}
