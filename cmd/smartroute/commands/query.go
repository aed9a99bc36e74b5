package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sherolroses/Transport/pkg/engine"
	"github.com/Sherolroses/Transport/pkg/report"
)

func newPathCmd(opts *rootOptions) *cobra.Command {
	var (
		hour    int
		explain bool
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "path FROM TO",
		Short: "Shortest congestion-adjusted path",
		Long: `Finds the minimum total adjusted distance between two intersections.
Every route distance is multiplied by the congestion factor for --hour,
which defaults to the current local hour.

Example:
  smartroute path 0 3 --hour 8 --explain
  smartroute path 0 3 --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args...)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("hour") {
				hour = time.Now().Hour()
			}
			return withEngine(cmd, opts, func(eng *engine.Engine) error {
				p, err := eng.ShortestPath(cmd.Context(), ids[0], ids[1], hour)
				if err != nil {
					return err
				}
				if asJSON {
					return report.WritePathJSON(cmd.OutOrStdout(), p)
				}
				return report.Path(cmd.OutOrStdout(), p, explain)
			})
		},
	}
	cmd.Flags().IntVar(&hour, "hour", 0, "Hour of day 0-23 (default current hour)")
	cmd.Flags().BoolVar(&explain, "explain", false, "Show the multiplier and every relaxation")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the path as JSON")
	return cmd
}

func newNetworkCmd(opts *rootOptions) *cobra.Command {
	var components bool
	cmd := &cobra.Command{
		Use:   "network",
		Short: "Print every intersection and its routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, opts, func(eng *engine.Engine) error {
				if components {
					return report.Components(cmd.OutOrStdout(), eng.Components(cmd.Context()))
				}
				return report.Network(cmd.OutOrStdout(), eng.Network(cmd.Context()))
			})
		},
	}
	cmd.Flags().BoolVar(&components, "components", false, "List connected components instead")
	return cmd
}

func newNeighborsCmd(opts *rootOptions) *cobra.Command {
	var sorted bool
	cmd := &cobra.Command{
		Use:   "neighbors ID",
		Short: "List the routes leaving an intersection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args...)
			if err != nil {
				return err
			}
			return withEngine(cmd, opts, func(eng *engine.Engine) error {
				if sorted {
					n, edges, err := eng.SortedNeighbors(cmd.Context(), ids[0])
					if err != nil {
						return err
					}
					return report.Neighbors(cmd.OutOrStdout(), n, edges, true)
				}
				n, err := eng.Neighbors(cmd.Context(), ids[0])
				if err != nil {
					return err
				}
				return report.Neighbors(cmd.OutOrStdout(), n, n.Edges, false)
			})
		},
	}
	cmd.Flags().BoolVar(&sorted, "sorted", false, "Order by ascending distance")
	return cmd
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search FROM TO",
		Short: "Check for a direct route",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args...)
			if err != nil {
				return err
			}
			return withEngine(cmd, opts, func(eng *engine.Engine) error {
				r, err := eng.SearchRoute(cmd.Context(), ids[0], ids[1])
				if err != nil {
					return err
				}
				return report.DirectRoute(cmd.OutOrStdout(), r)
			})
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		hour   int
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every route entry (CSV, JSON)",
		Long: `Writes every adjacency entry with its congestion-adjusted distance
for --hour to a local path or an s3:// location.

Example:
  smartroute export --format csv --hour 8 --out ./routes.csv
  smartroute export --format json --out s3://routes/exports/peak.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, opts, func(eng *engine.Engine) error {
				n, err := eng.Export(cmd.Context(), format, hour, out)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", n, out)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "Export format (csv, json)")
	cmd.Flags().IntVar(&hour, "hour", 0, "Hour of day 0-23 for adjusted distances")
	cmd.Flags().StringVar(&out, "out", "", "Destination: local path or s3://bucket/key")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
