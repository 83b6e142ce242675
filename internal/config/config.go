// Package config loads the application configuration from a YAML file,
// filling in defaults for anything left unset.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/hailam/chesseval/internal/storage"
)

// Config holds all tunables for the evaluator and the miner.
type Config struct {
	// WeightsPath locates the lc0 weights file. Relative paths are
	// resolved against the data directory's weights folder.
	WeightsPath string `yaml:"weights_path"`

	// TerminalAware makes the classical fallback detect checkmate and
	// stalemate via move generation.
	TerminalAware bool `yaml:"terminal_aware"`

	Miner MinerConfig `yaml:"miner"`
}

// MinerConfig configures bulk FEN evaluation.
type MinerConfig struct {
	// Workers is the number of concurrent evaluation goroutines.
	Workers int `yaml:"workers"`

	// InputDir holds *.fen shard files, one position per line.
	InputDir string `yaml:"input_dir"`

	// OutputDir receives one .jsonl result file per shard.
	OutputDir string `yaml:"output_dir"`

	// SkipStored skips positions that already have a stored result.
	SkipStored bool `yaml:"skip_stored"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		WeightsPath:   "best.lc0",
		TerminalAware: true,
		Miner: MinerConfig{
			Workers:    runtime.NumCPU(),
			InputDir:   "shards",
			OutputDir:  "results",
			SkipStored: true,
		},
	}
}

// Load reads the configuration from path. A missing file yields the
// defaults, written back to path so they can be edited; a malformed
// file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if werr := cfg.Save(path); werr != nil {
			log.Printf("could not write default config to %s: %v", path, werr)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) validate() error {
	if c.WeightsPath == "" {
		return fmt.Errorf("weights_path must not be empty")
	}
	if c.Miner.Workers < 1 {
		return fmt.Errorf("miner.workers must be at least 1, got %d", c.Miner.Workers)
	}
	return nil
}

// ResolveWeights returns the absolute weights path, resolving relative
// paths against the data directory's weights folder.
func (c *Config) ResolveWeights() (string, error) {
	if filepath.IsAbs(c.WeightsPath) {
		return c.WeightsPath, nil
	}
	dir, err := storage.GetWeightsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.WeightsPath), nil
}
