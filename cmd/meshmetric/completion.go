package main

import (
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for meshmetric.

To load completions:

Bash:

  $ source <(meshmetric completion bash)

  To load completions for each session, execute once:
  Linux:
    $ meshmetric completion bash > /etc/bash_completion.d/meshmetric
  macOS:
    $ meshmetric completion bash > /usr/local/etc/bash_completion.d/meshmetric

Zsh:

  If shell completion is not already enabled in your environment,
  you will need to enable it. You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  To load completions for each session, execute once:
  $ meshmetric completion zsh > "${fpath[1]}/_meshmetric"

  You will need to start a new shell for this setup to take effect.

Fish:

  $ meshmetric completion fish | source

  To load completions for each session, execute once:
  $ meshmetric completion fish > ~/.config/fish/completions/meshmetric.fish
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			rootCmd.GenFishCompletion(os.Stdout, true)
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
