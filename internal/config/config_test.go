package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	def := Default()
	if cfg.WeightsPath != def.WeightsPath {
		t.Errorf("weights_path = %q, want default %q", cfg.WeightsPath, def.WeightsPath)
	}
	if !cfg.TerminalAware {
		t.Error("terminal_aware should default to true")
	}
	if cfg.Miner.Workers < 1 {
		t.Errorf("miner workers = %d, want at least 1", cfg.Miner.Workers)
	}

	// The defaults are written back for editing.
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config file was not created: %v", err)
	}
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written defaults failed: %v", err)
	}
	if *reloaded != *cfg {
		t.Errorf("written defaults do not round-trip: %+v vs %+v", reloaded, cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
weights_path: /opt/nets/t79.lc0
terminal_aware: false
miner:
  workers: 3
  input_dir: /data/in
  output_dir: /data/out
  skip_stored: false
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.WeightsPath != "/opt/nets/t79.lc0" {
		t.Errorf("weights_path = %q", cfg.WeightsPath)
	}
	if cfg.TerminalAware {
		t.Error("terminal_aware should be false")
	}
	if cfg.Miner.Workers != 3 || cfg.Miner.InputDir != "/data/in" || cfg.Miner.OutputDir != "/data/out" {
		t.Errorf("miner config not applied: %+v", cfg.Miner)
	}
	if cfg.Miner.SkipStored {
		t.Error("skip_stored should be false")
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("weights_path: mynet.lc0\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.WeightsPath != "mynet.lc0" {
		t.Errorf("weights_path = %q", cfg.WeightsPath)
	}
	if cfg.Miner.Workers != Default().Miner.Workers {
		t.Errorf("untouched fields must keep defaults, workers = %d", cfg.Miner.Workers)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("weights_path: [not a string\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("malformed YAML should fail")
	}

	zero := filepath.Join(dir, "zero.yaml")
	if err := os.WriteFile(zero, []byte("miner:\n  workers: 0\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(zero); err == nil {
		t.Error("zero workers should fail validation")
	}

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("weights_path: \"\"\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(empty); err == nil {
		t.Error("empty weights_path should fail validation")
	}
}

func TestResolveWeightsAbsolute(t *testing.T) {
	cfg := Default()
	cfg.WeightsPath = "/abs/path/net.lc0"
	resolved, err := cfg.ResolveWeights()
	if err != nil {
		t.Fatalf("ResolveWeights: %v", err)
	}
	if resolved != "/abs/path/net.lc0" {
		t.Errorf("absolute paths must pass through, got %q", resolved)
	}
}
