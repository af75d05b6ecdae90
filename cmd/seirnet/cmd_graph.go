package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/nvandessel/seirnet/internal/config"
	"github.com/nvandessel/seirnet/internal/contactgraph"
	"github.com/nvandessel/seirnet/internal/ensemble"
	"github.com/nvandessel/seirnet/internal/logging"
	"github.com/nvandessel/seirnet/internal/seir"
	"github.com/nvandessel/seirnet/internal/visualization"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Visualize the contact network",
		Long: `Output the contact network in DOT (Graphviz) or JSON format.

With --day, a single replicate is simulated and each node is colored by
its compartment on that day. Without it, only the topology is rendered.

Example:
  seirnet graph --format dot > network.dot
  seirnet graph --format json --day 20 --output day20.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			logLevel, _ := cmd.Flags().GetString("log-level")
			format, _ := cmd.Flags().GetString("format")
			day, _ := cmd.Flags().GetInt("day")
			output, _ := cmd.Flags().GetString("output")

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("seed") {
				seed, _ := cmd.Flags().GetUint64("seed")
				cfg.Run.Seed = seed
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if day >= 0 && day > cfg.Run.NumDays {
				return fmt.Errorf("day %d exceeds configured num_days %d", day, cfg.Run.NumDays)
			}

			logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)

			graphRNG := rand.New(rand.NewPCG(cfg.Run.Seed, graphStream))
			g, err := contactgraph.Build(
				cfg.Population.TotalUnits,
				cfg.Population.AverageContacts,
				cfg.Population.ClusteringProbability,
				graphRNG,
			)
			if err != nil {
				return fmt.Errorf("build contact network: %w", err)
			}

			var snap seir.Snapshot
			if day >= 0 {
				snap, err = simulateSnapshot(cmd, cfg, g, day, logger)
				if err != nil {
					return err
				}
			}

			var rendered string
			switch visualization.Format(format) {
			case visualization.FormatDOT:
				rendered, err = visualization.RenderDOT(g, snap)
			case visualization.FormatJSON:
				rendered, err = visualization.RenderJSON(g, snap)
			default:
				return fmt.Errorf("unsupported format %q (use 'dot' or 'json')", format)
			}
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(rendered), 0644); err != nil {
					return fmt.Errorf("write output file: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Graph written to %s\n", output)
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	cmd.Flags().String("format", "dot", "Output format: dot or json")
	cmd.Flags().Int("day", -1, "Color nodes by compartment on this simulated day (-1 = topology only)")
	cmd.Flags().StringP("output", "o", "", "Output file path (default stdout)")
	cmd.Flags().Uint64("seed", 0, "Base random seed (overrides config)")

	return cmd
}

// simulateSnapshot runs one replicate with snapshot capture and returns
// the compartment snapshot for the requested day.
func simulateSnapshot(cmd *cobra.Command, cfg *config.Config, g *contactgraph.Graph, day int, logger *slog.Logger) (seir.Snapshot, error) {
	opts := cfg.EnsembleOptions()
	opts.Replicates = 1
	opts.SnapshotReplicate = 0
	opts.Days = day

	o, err := ensemble.New(g, cfg.Params(), opts, logger)
	if err != nil {
		return nil, err
	}
	results, err := o.Run(cmd.Context())
	if err != nil {
		return nil, err
	}

	return results[0].Snapshots[day], nil
}
