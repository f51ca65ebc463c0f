package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/vk/tea/internal/manifest"
	"github.com/vk/tea/internal/scaffold"
)

var (
	newLib bool
	newBin bool
)

var newCmd = &cobra.Command{
	Use:   "new [--bin|--lib] <name>",
	Short: "Create a new leaf",
	Args:  cobra.ExactArgs(1),
	RunE:  runNew,
}

func init() {
	newCmd.Flags().BoolVar(&newBin, "bin", false, "Create a binary leaf")
	newCmd.Flags().BoolVar(&newLib, "lib", false, "Create a library leaf")
}

func runNew(cmd *cobra.Command, args []string) error {
	if newLib == newBin {
		return errors.New("either --lib or --bin must be set")
	}

	kind := manifest.KindBinary
	if newLib {
		kind = manifest.KindLibrary
	}
	return scaffold.New(".", args[0], kind)
}
