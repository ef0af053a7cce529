package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

// Exit codes. Generation problems never change the exit code; only usage
// and configuration errors do.
const (
	ExitSuccess    = 0
	ExitUsageError = 2
)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Suggest a commit message for the staged changes",
	Long: "Quill sends the staged diff to an OpenAI-compatible chat completion API " +
		"and prints a suggested commit message.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSuggest,
}

// Run executes the root command and returns an exit code.
func Run() int {
	return execute(nil)
}

func execute(args []string) int {
	if args != nil {
		rootCmd.SetArgs(args)
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return ExitUsageError
	}
	return ExitSuccess
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print quill version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "quill version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(versionCmd)
}
