package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Sherolroses/Transport/pkg/engine"
	"github.com/Sherolroses/Transport/pkg/shell"
	"github.com/Sherolroses/Transport/pkg/tui"
)

// debugLogFile receives logs while the full-screen shell owns the terminal.
const debugLogFile = "smartroute-debug.log"

func newShellCmd(opts *rootOptions) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive command shell",
		Long: `Opens the full-screen shell. With --plain, or when stdin is not a
terminal, commands are read line by line from stdin instead.

Example:
  smartroute shell
  echo "path 0 3 8 explain" | smartroute shell --plain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, opts, plain)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Line mode without the full-screen interface")
	return cmd
}

func runShell(cmd *cobra.Command, opts *rootOptions, plain bool) error {
	if plain || !isatty.IsTerminal(os.Stdin.Fd()) {
		return withEngine(cmd, opts, func(eng *engine.Engine) error {
			return shell.New(eng).Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		})
	}

	var logOut io.Writer = io.Discard
	if opts.verbose {
		f, err := os.OpenFile(debugLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open %s: %w", debugLogFile, err)
		}
		defer f.Close()
		logOut = f
	}

	eng, err := newEngine(cmd, opts, logOut)
	if err != nil {
		return err
	}
	defer eng.Close(context.WithoutCancel(cmd.Context()))

	p := tea.NewProgram(tui.NewModel(eng), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("shell: %w", err)
	}
	return nil
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run SCRIPT",
		Short: "Run a command script from disk or S3",
		Long: `Executes every line of SCRIPT as a shell command. Failing lines are
reported and the script carries on; the exit status is non-zero if any
line failed.

Example:
  smartroute run ./detour.txt
  smartroute run s3://routes/scripts/detour.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, opts, func(eng *engine.Engine) error {
				data, err := eng.Fetch(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return shell.New(eng).Run(cmd.Context(), bytes.NewReader(data), cmd.OutOrStdout())
			})
		},
	}
}
