package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vk/tea/internal/app"
)

var (
	pourRelease bool
	pourJobs    int
)

var pourCmd = &cobra.Command{
	Use:   "pour [-- args...]",
	Short: "Build the current leaf and run the resulting binary",
	RunE:  runPour,
}

func init() {
	pourCmd.Flags().BoolVar(&pourRelease, "release", false, "Build with the release profile into target/release")
	pourCmd.Flags().IntVarP(&pourJobs, "jobs", "j", 0, "Number of parallel compile jobs (default: available CPUs)")
}

func runPour(cmd *cobra.Command, args []string) error {
	a := app.New(cmd.OutOrStdout(), os.Stderr, app.Config{
		Release:   pourRelease,
		Jobs:      pourJobs,
		LogLevel:  logLevel,
		LogFormat: logFormat,
	})
	return a.BuildAndRun(cmd.Context(), args)
}
