package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vk/tea/internal/manifest"
)

var (
	addPath     string
	addFeatures []string
)

var addCmd = &cobra.Command{
	Use:   "add <name> --path <p>",
	Short: "Add a path dependency to the current leaf",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addPath, "path", "", "Filesystem path to the dependency leaf")
	addCmd.Flags().StringSliceVar(&addFeatures, "features", nil, "Features to enable on the dependency")
	addCmd.MarkFlagRequired("path")
}

func runAdd(cmd *cobra.Command, args []string) error {
	name := args[0]

	m, err := manifest.Load(".")
	if err != nil {
		return err
	}
	if _, exists := m.Dependencies[name]; exists {
		return fmt.Errorf("dependency %q already declared", name)
	}

	// The declared path must already hold a valid leaf.
	if _, err := manifest.Load(filepath.Join(".", addPath)); err != nil {
		return fmt.Errorf("dependency path invalid: %w", err)
	}

	if m.Dependencies == nil {
		m.Dependencies = make(map[string]manifest.DependencyDecl)
	}
	m.Dependencies[name] = manifest.DependencyDecl{Path: addPath, Features: addFeatures}

	if err := manifest.Save(".", m); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", name, addPath)
	return nil
}
