// Package fixtures resolves the (sample document, expected table) pair a
// target is validated against. Fixtures live under dataDir/<target>/ and
// are matched by extension; the first file of each kind wins.
package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	documentExts = []string{".pdf", ".txt"}
	tableExts    = []string{".csv", ".xlsx"}
)

// Fixture is an immutable pair of resolved fixture paths.
type Fixture struct {
	Target       string
	DocumentPath string
	TablePath    string
}

// SampleName returns the base name of the sample document, as embedded in
// generation prompts.
func (f *Fixture) SampleName() string {
	return filepath.Base(f.DocumentPath)
}

// MissingFixtureError reports an unusable fixture directory. It is fatal:
// with no document or no expected table there is nothing to verify against.
type MissingFixtureError struct {
	Target string
	Dir    string
	Kind   string // "document" or "table"
}

func (e *MissingFixtureError) Error() string {
	return fmt.Sprintf("no %s fixture for target %q in %s", e.Kind, e.Target, e.Dir)
}

// Locate scans dataDir/<target>/ for one document file and one expected
// table file. os.ReadDir returns entries sorted by name, so ties resolve
// deterministically to the lexically first match.
func Locate(dataDir, target string) (*Fixture, error) {
	dir := filepath.Join(dataDir, target)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &MissingFixtureError{Target: target, Dir: dir, Kind: "document"}
	}

	doc := firstByExt(entries, dir, documentExts)
	if doc == "" {
		return nil, &MissingFixtureError{Target: target, Dir: dir, Kind: "document"}
	}
	tab := firstByExt(entries, dir, tableExts)
	if tab == "" {
		return nil, &MissingFixtureError{Target: target, Dir: dir, Kind: "table"}
	}

	return &Fixture{Target: target, DocumentPath: doc, TablePath: tab}, nil
}

func firstByExt(entries []os.DirEntry, dir string, exts []string) string {
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range exts {
			if ext == want {
				return filepath.Join(dir, e.Name())
			}
		}
	}
	return ""
}
