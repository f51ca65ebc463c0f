package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Lint the leaf's sources with clang-tidy",
	Args:  cobra.NoArgs,
	RunE:  runLint,
}

func runLint(cmd *cobra.Command, args []string) error {
	files, err := leafSources(".")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No sources found.")
		return nil
	}
	return runTool(cmd, "clang-tidy", append(files, "--", "-Isrc", "-Iinclude"))
}
