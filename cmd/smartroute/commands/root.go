// Package commands is the smartroute command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Sherolroses/Transport/pkg/config"
	"github.com/Sherolroses/Transport/pkg/engine"
	"github.com/Sherolroses/Transport/pkg/graph"
	"github.com/Sherolroses/Transport/pkg/shell"
	"github.com/Sherolroses/Transport/pkg/version"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	cfgFile      string
	seed         string
	noSeed       bool
	verbose      bool
	jsonLogs     bool
	otelEndpoint string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   version.AppName,
		Short: "Congestion-aware routing over a transport network",
		Long: `smartroute - Transport Network Routing

Build a network of intersections, then ask for the shortest path at any
hour of the day. Without a subcommand it opens the interactive shell.`,
		Version:       version.Current,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, opts, false)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.cfgFile, "config", "", "Config file (default ~/.smartroute.yaml)")
	pf.StringVar(&opts.seed, "seed", "", "Seed network: local path or s3://bucket/key (.yaml or .hcl)")
	pf.BoolVar(&opts.noSeed, "no-seed", false, "Start with an empty network")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging, including route relaxations")
	pf.BoolVar(&opts.jsonLogs, "json-logs", true, "Log as JSON (text otherwise)")
	pf.StringVar(&opts.otelEndpoint, "otel-endpoint", "", "OTLP/HTTP endpoint for traces")

	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		renderHelp(cmd)
	})

	root.AddCommand(
		newShellCmd(opts),
		newRunCmd(opts),
		newPathCmd(opts),
		newNetworkCmd(opts),
		newNeighborsCmd(opts),
		newSearchCmd(opts),
		newExportCmd(opts),
		newCompletionCmd(root),
	)
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.Is(err, shell.ErrUsage) {
		return 2
	}
	return 1
}

// loadConfig reads the config file and environment, then applies the
// persistent flags that were set on the command line.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	file := opts.cfgFile
	if file == "" {
		if home, err := os.UserHomeDir(); err == nil {
			file = filepath.Join(home, ".smartroute.yaml")
		}
	}

	v, err := config.NewViper(file)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	for key, name := range map[string]string{
		"seed.location":      "seed",
		"seed.disabled":      "no-seed",
		"log.json":           "json-logs",
		"telemetry.endpoint": "otel-endpoint",
	} {
		if f := flags.Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return config.Config{}, fmt.Errorf("bind --%s: %w", name, err)
			}
		}
	}
	if opts.verbose {
		v.Set("log.level", "debug")
	}
	return config.Load(v)
}

// newEngine builds an engine from config and flags. A non-nil logOut
// replaces the configured stderr logger.
func newEngine(cmd *cobra.Command, opts *rootOptions, logOut io.Writer) (*engine.Engine, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	engOpts := []engine.Option{engine.WithConfig(cfg)}
	if logOut != nil {
		lvl, err := cfg.SlogLevel()
		if err != nil {
			return nil, err
		}
		engOpts = append(engOpts, engine.WithLogger(engine.NewLogger(logOut, lvl, cfg.Log.JSON)))
	}
	return engine.New(cmd.Context(), engOpts...)
}

// withEngine runs fn against a fresh engine and flushes telemetry after.
func withEngine(cmd *cobra.Command, opts *rootOptions, fn func(*engine.Engine) error) error {
	eng, err := newEngine(cmd, opts, nil)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := eng.Close(context.WithoutCancel(cmd.Context())); cerr != nil {
			eng.Logger.Warn("Telemetry shutdown failed", "error", cerr)
		}
	}()
	return fn(eng)
}

func parseIDs(args ...string) ([]graph.NodeID, error) {
	ids := make([]graph.NodeID, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%w: intersection id %q is not an integer", shell.ErrUsage, a)
		}
		ids[i] = graph.NodeID(n)
	}
	return ids, nil
}

var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FF99")).
			MarginBottom(1)
	helpFlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0055")).Bold(true)
)

func renderHelp(cmd *cobra.Command) {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w, helpTitleStyle.Render(fmt.Sprintf("SMARTROUTE %s", version.Current)))
	fmt.Fprintln(w, cmd.Short)
	fmt.Fprintln(w)

	fmt.Fprintln(w, helpTitleStyle.Render("USAGE"))
	fmt.Fprintf(w, "  %s\n\n", cmd.UseLine())

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(w, helpTitleStyle.Render("COMMANDS"))
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() {
				fmt.Fprintf(w, "  %-12s %s\n", c.Name(), c.Short)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, helpTitleStyle.Render("FLAGS"))
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		line := fmt.Sprintf("  --%-15s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
			line += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Fprintln(w, helpFlagStyle.Render(line))
	})
	fmt.Fprintln(w)
}
