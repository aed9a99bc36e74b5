package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate completion script",
		Long: `To load completions:

Bash:
  $ source <(smartroute completion bash)

Zsh:
  $ smartroute completion zsh > "${fpath[1]}/_smartroute"

Fish:
  $ smartroute completion fish | source
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				_, err := fmt.Fprint(w, bashCompletion)
				return err
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			default:
				return root.GenPowerShellCompletion(w)
			}
		},
	}
}

// bashCompletion is a small handwritten script; subcommand flags are few.
const bashCompletion = `
# smartroute bash completion

_smartroute_completion() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="shell run path network neighbors search export completion help"

    case "${prev}" in
        shell)
            COMPREPLY=( $(compgen -W "--plain --help" -- ${cur}) )
            return 0
            ;;
        path)
            COMPREPLY=( $(compgen -W "--hour --explain --json --help" -- ${cur}) )
            return 0
            ;;
        network)
            COMPREPLY=( $(compgen -W "--components --help" -- ${cur}) )
            return 0
            ;;
        neighbors)
            COMPREPLY=( $(compgen -W "--sorted --help" -- ${cur}) )
            return 0
            ;;
        export)
            COMPREPLY=( $(compgen -W "--format --hour --out --help" -- ${cur}) )
            return 0
            ;;
        --format)
            COMPREPLY=( $(compgen -W "csv json" -- ${cur}) )
            return 0
            ;;
        --seed|--config|--out|run)
            COMPREPLY=( $(compgen -f -- ${cur}) )
            return 0
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh fish powershell" -- ${cur}) )
            return 0
            ;;
        *)
            ;;
    esac

    if [[ ${cur} == -* ]] ; then
        COMPREPLY=( $(compgen -W "--help --version --config --seed --no-seed --verbose --json-logs --otel-endpoint" -- ${cur}) )
        return 0
    fi

    COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
}

complete -F _smartroute_completion smartroute
`
