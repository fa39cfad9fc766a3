package filter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	gitignore "github.com/monochromegane/go-gitignore"
)

// GitIgnoreFile is the ignore file looked up at the scan root.
const GitIgnoreFile = ".gitignore"

// GitIgnore adapts a .gitignore matcher anchored at a scan root.
type GitIgnore struct {
	root    string
	matcher gitignore.IgnoreMatcher
}

// LoadGitIgnore reads root/.gitignore. It returns (nil, nil) when the file does not exist.
func LoadGitIgnore(root string) (*GitIgnore, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	path := filepath.Join(root, GitIgnoreFile)

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil //nolint:nilnil // Absent ignore file is not an error
	}

	matcher, err := gitignore.NewGitIgnore(path, root)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &GitIgnore{root: root, matcher: matcher}, nil
}

// Ignored implements Ignorer.
func (g *GitIgnore) Ignored(relPath string, isDir bool) bool {
	return g.matcher.Match(filepath.Join(g.root, relPath), isDir)
}
