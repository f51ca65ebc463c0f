// Package cli defines the tea command-line surface. Each subcommand is a
// thin shell over internal/app or the external formatter/linter tools.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:           "tea",
	Short:         "A package-manager-style build tool for C leaves",
	Long:          "tea resolves a leaf's tea.toml dependencies, computes feature sets,\nand compiles C sources in parallel into executables or static libraries.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level: 'debug', 'info', 'warn' or 'error'")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log output format: 'text' or 'json'")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(brewCmd)
	rootCmd.AddCommand(pourCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(lintCmd)
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return rootCmd.Execute()
}

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}
