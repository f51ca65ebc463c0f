// Package source selects the translation units of a leaf and fingerprints
// them for incremental rebuilds.
package source

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/tea/internal/feature"
)

// TranslationUnit is one source file selected for compilation.
type TranslationUnit struct {
	// Source is the absolute path of the .c file.
	Source string
	// Object is the object file path relative to the leaf's object
	// directory, mirroring the layout under src/.
	Object string
}

// Warn receives non-fatal selection notices, such as a file naming a feature
// nobody declares.
type Warn func(file, featureName string)

// Select walks srcDir and returns the translation units to compile under the
// given feature set.
//
// A file with no feature suffix is always included. A file named
// name.<feature>.c is included only when that feature is enabled; files
// naming a feature outside known are excluded with a warning, since feature
// sets legitimately differ across build targets. Results are sorted by path
// so selection order is stable.
func Select(srcDir string, feats feature.Set, known map[string]bool, warn Warn) ([]TranslationUnit, error) {
	var units []TranslationUnit
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".c") {
			return nil
		}

		if suffix, ok := featureSuffix(d.Name()); ok {
			if !known[suffix] {
				if warn != nil {
					warn(path, suffix)
				}
				return nil
			}
			if !feats.Has(suffix) {
				return nil
			}
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		units = append(units, TranslationUnit{
			Source: path,
			Object: strings.TrimSuffix(rel, ".c") + ".o",
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(units, func(i, j int) bool { return units[i].Source < units[j].Source })
	return units, nil
}

// featureSuffix extracts the feature segment from a filename of the form
// name.<feature>.c. The second return is false for plain name.c files.
func featureSuffix(name string) (string, bool) {
	stem := strings.TrimSuffix(name, ".c")
	dot := strings.LastIndex(stem, ".")
	if dot < 0 {
		return "", false
	}
	return stem[dot+1:], true
}
