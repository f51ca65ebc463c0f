package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vk/tea/internal/app"
)

var (
	brewRelease bool
	brewJobs    int
)

var brewCmd = &cobra.Command{
	Use:   "brew",
	Short: "Build the current leaf and its dependencies",
	Args:  cobra.NoArgs,
	RunE:  runBrew,
}

func init() {
	brewCmd.Flags().BoolVar(&brewRelease, "release", false, "Build with the release profile into target/release")
	brewCmd.Flags().IntVarP(&brewJobs, "jobs", "j", 0, "Number of parallel compile jobs (default: available CPUs)")
}

func runBrew(cmd *cobra.Command, args []string) error {
	a := app.New(cmd.OutOrStdout(), os.Stderr, app.Config{
		Release:   brewRelease,
		Jobs:      brewJobs,
		LogLevel:  logLevel,
		LogFormat: logFormat,
	})
	_, err := a.Build(cmd.Context())
	return err
}
