package cli

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var fmtCheck bool

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Format the leaf's sources with clang-format",
	Args:  cobra.NoArgs,
	RunE:  runFmt,
}

func init() {
	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "Check formatting without making changes (exit non-zero if not formatted)")
}

func runFmt(cmd *cobra.Command, args []string) error {
	files, err := leafSources(".")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No sources found.")
		return nil
	}

	toolArgs := []string{"-i"}
	if fmtCheck {
		toolArgs = []string{"--dry-run", "-Werror"}
	}
	return runTool(cmd, "clang-format", append(toolArgs, files...))
}

// leafSources collects the .c and .h files under src/ and include/.
func leafSources(dir string) ([]string, error) {
	var files []string
	for _, root := range []string{filepath.Join(dir, "src"), filepath.Join(dir, "include")} {
		if _, err := os.Stat(root); err != nil {
			continue
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && (strings.HasSuffix(d.Name(), ".c") || strings.HasSuffix(d.Name(), ".h")) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func runTool(cmd *cobra.Command, tool string, toolArgs []string) error {
	if _, err := exec.LookPath(tool); err != nil {
		return fmt.Errorf("%s not found in PATH: %w", tool, err)
	}
	c := exec.CommandContext(cmd.Context(), tool, toolArgs...)
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	if err := c.Run(); err != nil {
		return fmt.Errorf("%s: %w", tool, err)
	}
	return nil
}
