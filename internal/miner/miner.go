// Package miner evaluates FEN shard files in bulk and writes the
// results as JSON lines, one output file per shard.
package miner

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesseval/internal/board"
	"github.com/hailam/chesseval/internal/config"
	"github.com/hailam/chesseval/internal/eval"
	"github.com/hailam/chesseval/internal/storage"
)

// Record is one evaluated position as written to the output shard.
type Record struct {
	Fen        string  `json:"fen"`
	Signature  uint64  `json:"signature"`
	Backend    string  `json:"backend"`
	Win        int     `json:"win"`
	Draw       int     `json:"draw"`
	Loss       int     `json:"loss"`
	Value      float64 `json:"value"`
	Centipawns *int    `json:"centipawns,omitempty"`

	reused bool
}

// Summary reports what a mining run did.
type Summary struct {
	Shards    int
	Positions int
	Reused    int
	Invalid   int
}

// Miner drives bulk evaluation. The store is optional; without one,
// every position is evaluated fresh and nothing is persisted.
type Miner struct {
	cfg   config.MinerConfig
	eval  *eval.Evaluator
	store *storage.Store
}

// New creates a miner sharing the given evaluator.
func New(cfg config.MinerConfig, evaluator *eval.Evaluator, store *storage.Store) *Miner {
	return &Miner{cfg: cfg, eval: evaluator, store: store}
}

// Run evaluates every *.fen shard in the input directory, writing one
// .jsonl file per shard to the output directory. Lines within a shard
// are evaluated concurrently; output order matches input order.
func (m *Miner) Run(ctx context.Context) (Summary, error) {
	shards, err := filepath.Glob(filepath.Join(m.cfg.InputDir, "*.fen"))
	if err != nil {
		return Summary{}, fmt.Errorf("miner: list shards: %w", err)
	}
	if len(shards) == 0 {
		return Summary{}, fmt.Errorf("miner: no *.fen shards in %s", m.cfg.InputDir)
	}
	sort.Strings(shards)

	if err := os.MkdirAll(m.cfg.OutputDir, 0755); err != nil {
		return Summary{}, fmt.Errorf("miner: create output dir: %w", err)
	}

	var total Summary
	for _, shard := range shards {
		summary, err := m.mineShard(ctx, shard)
		if err != nil {
			return total, fmt.Errorf("miner: shard %s: %w", filepath.Base(shard), err)
		}
		total.Shards++
		total.Positions += summary.Positions
		total.Reused += summary.Reused
		total.Invalid += summary.Invalid
	}
	return total, nil
}

func (m *Miner) mineShard(ctx context.Context, path string) (Summary, error) {
	fens, err := readShard(path)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	records := make([]*Record, len(fens))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.Workers)
	for i, fen := range fens {
		i, fen := i, fen
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := m.mineOne(fen)
			if err != nil {
				log.Printf("skipping bad position %q: %v", fen, err)
				return nil
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	out := filepath.Join(m.cfg.OutputDir, shardOutputName(path))
	if err := writeRecords(out, records); err != nil {
		return Summary{}, err
	}

	for _, rec := range records {
		if rec == nil {
			summary.Invalid++
			continue
		}
		summary.Positions++
		if rec.reused {
			summary.Reused++
		}
	}
	return summary, nil
}

// mineOne evaluates a single FEN, consulting the store first when
// configured to, and persisting fresh results.
func (m *Miner) mineOne(fen string) (*Record, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	signature := pos.Signature()

	if m.store != nil && m.cfg.SkipStored {
		stored, err := m.store.GetResult(signature)
		if err == nil {
			rec := newRecord(fen, signature, stored)
			rec.reused = true
			return rec, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
	}

	result := m.eval.Evaluate(pos)
	if m.store != nil {
		if err := m.store.PutResult(signature, result); err != nil {
			return nil, err
		}
	}
	return newRecord(fen, signature, result), nil
}

func newRecord(fen string, signature uint64, result eval.Result) *Record {
	return &Record{
		Fen:        fen,
		Signature:  signature,
		Backend:    result.Backend.String(),
		Win:        result.Wdl.Win,
		Draw:       result.Wdl.Draw,
		Loss:       result.Wdl.Loss,
		Value:      result.Value,
		Centipawns: result.Centipawns,
	}
}

// readShard loads one FEN per line, skipping blanks and # comments.
func readShard(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var fens []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fens = append(fens, line)
	}
	return fens, scanner.Err()
}

func writeRecords(path string, records []*Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if rec == nil {
			continue
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return w.Flush()
}

func shardOutputName(shard string) string {
	base := filepath.Base(shard)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".jsonl"
}
