package cmd

import (
	"fmt"
	"strings"

	"github.com/chris-regnier/termdiary/internal/shell"
	"github.com/spf13/cobra"
)

var initShellCmd = &cobra.Command{
	Use:   "init <shell>",
	Short: "Output shell integration script",
	Long: `Output shell integration script for eval.

Generates shell-specific initialization code that sets up:
- Shell completions
- Prompt hook exporting TERMDIARY_TODAY, TERMDIARY_STREAK and friends
- termdiary_prompt_info helper function

Supported shells: bash, zsh`,
	Example: `  # Add to ~/.bashrc
  eval "$(termdiary init bash)"

  # Add to ~/.zshrc
  eval "$(termdiary init zsh)"`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{skipStoreAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !shell.WriteInit(cmd.OutOrStdout(), args[0]) {
			return fmt.Errorf("%w: unsupported shell %q (supported: %s)",
				errUsage, args[0], strings.Join(shell.Shells, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initShellCmd)
}
