// Package scaffold creates the skeleton of a new leaf: directory layout,
// starter sources, and a minimal tea.toml.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/tea/internal/manifest"
)

const binaryMain = `#include <stdio.h>

int main() {
	printf("Hello, World!\n");
	return 0;
}
`

// New creates a leaf named name under parentDir. Libraries get src/ and
// include/ with a starter pair; binaries get src/main.c. Fails if the
// directory already exists.
func New(parentDir, name string, kind manifest.Kind) error {
	root := filepath.Join(parentDir, name)
	if _, err := os.Stat(root); err == nil {
		return fmt.Errorf("%s already exists", root)
	}

	srcDir := filepath.Join(root, "src")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", srcDir, err)
	}

	switch kind {
	case manifest.KindBinary:
		if err := os.WriteFile(filepath.Join(srcDir, "main.c"), []byte(binaryMain), 0o644); err != nil {
			return err
		}
	case manifest.KindLibrary:
		includeDir := filepath.Join(root, "include")
		if err := os.MkdirAll(includeDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", includeDir, err)
		}
		src := fmt.Sprintf("#include \"%s.h\"\n\nint %s_version(void) {\n\treturn 1;\n}\n", name, name)
		header := fmt.Sprintf("#pragma once\n\nint %s_version(void);\n", name)
		if err := os.WriteFile(filepath.Join(srcDir, name+".c"), []byte(src), 0o644); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(includeDir, name+".h"), []byte(header), 0o644); err != nil {
			return err
		}
	}

	m := &manifest.Manifest{
		Package: manifest.Package{
			Name:    name,
			Kind:    kind,
			Version: "0.0.1",
		},
	}
	return manifest.Save(root, m)
}
