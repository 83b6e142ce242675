// Chesseval - position evaluation with an lc0 network and a classical
// fallback.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hailam/chesseval/internal/board"
	"github.com/hailam/chesseval/internal/config"
	"github.com/hailam/chesseval/internal/eval"
	"github.com/hailam/chesseval/internal/miner"
	"github.com/hailam/chesseval/internal/storage"
)

var (
	configPath  string
	weightsPath string
)

func main() {
	root := &cobra.Command{
		Use:           "chesseval",
		Short:         "Evaluate chess positions with lc0 or a classical fallback",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "configuration file")
	root.PersistentFlags().StringVarP(&weightsPath, "weights", "w", "", "lc0 weights file (overrides config)")

	root.AddCommand(evalCmd(), ablateCmd(), mineCmd())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

// loadSetup reads the configuration and builds the shared evaluator.
func loadSetup() (*config.Config, *eval.Evaluator, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if weightsPath != "" {
		cfg.WeightsPath = weightsPath
	}

	weights, err := cfg.ResolveWeights()
	if err != nil {
		return nil, nil, err
	}
	return cfg, eval.New(weights, cfg.TerminalAware), nil
}

func evalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval \"FEN\"",
		Short: "Evaluate a single position",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, evaluator, err := loadSetup()
			if err != nil {
				return err
			}
			defer evaluator.Close()

			pos, err := board.ParseFEN(strings.Join(args, " "))
			if err != nil {
				return err
			}

			result := evaluator.Evaluate(pos)
			fmt.Printf("backend:    %s\n", result.Backend)
			fmt.Printf("wdl:        %d / %d / %d\n", result.Wdl.Win, result.Wdl.Draw, result.Wdl.Loss)
			fmt.Printf("value:      %+.3f\n", result.Value)
			if result.Centipawns != nil {
				fmt.Printf("centipawns: %+d\n", *result.Centipawns)
			} else {
				fmt.Printf("centipawns: %+d (from wdl)\n", eval.WdlCentipawns(result.Wdl))
			}
			return nil
		},
	}
}

func ablateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ablate \"FEN\"",
		Short: "Show each piece's contribution to the evaluation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, evaluator, err := loadSetup()
			if err != nil {
				return err
			}
			defer evaluator.Close()

			pos, err := board.ParseFEN(strings.Join(args, " "))
			if err != nil {
				return err
			}

			matrix := evaluator.Ablation(pos)
			for rank := 7; rank >= 0; rank-- {
				fmt.Printf("%d ", rank+1)
				for file := 0; file < 8; file++ {
					fmt.Printf("%+6d", matrix[rank][file])
				}
				fmt.Println()
			}
			fmt.Println("       a     b     c     d     e     f     g     h")
			if backend, ok := evaluator.LastBackend(); ok {
				fmt.Printf("backend: %s\n", backend)
			}
			return nil
		},
	}
}

func mineCmd() *cobra.Command {
	var noStore bool

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Bulk-evaluate FEN shard files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, evaluator, err := loadSetup()
			if err != nil {
				return err
			}
			defer evaluator.Close()

			var store *storage.Store
			if !noStore {
				store, err = storage.Open()
				if err != nil {
					return err
				}
				defer store.Close()
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m := miner.New(cfg.Miner, evaluator, store)
			summary, err := m.Run(ctx)
			if err != nil {
				return err
			}

			log.Printf("mined %d positions across %d shards (%d reused, %d invalid)",
				summary.Positions, summary.Shards, summary.Reused, summary.Invalid)
			if store != nil {
				count, err := store.CountResults()
				if err != nil {
					return err
				}
				weights, _ := cfg.ResolveWeights()
				if err := store.SaveMeta(&storage.Meta{WeightsPath: weights, Results: count}); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noStore, "no-store", false, "do not read or write the result database")
	return cmd
}
