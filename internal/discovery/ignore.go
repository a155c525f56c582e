package discovery

import (
	"errors"
	"io/fs"
	"path/filepath"

	gitignore "github.com/monochromegane/go-gitignore"

	"github.com/bamsammich/sieve/internal/transport"
)

// IgnoreFile is read from each root directory when Options.GitIgnore is set.
const IgnoreFile = ".gitignore"

// loadIgnore reads root/.gitignore through fsys. A missing file yields a
// nil matcher.
//
//nolint:ireturn // the library only exposes the interface
func loadIgnore(fsys transport.FS, root string) (gitignore.IgnoreMatcher, error) {
	path := filepath.Join(root, IgnoreFile)
	r, err := fsys.OpenRead(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, ioError("open", path, err)
	}
	defer r.Close()
	return gitignore.NewGitIgnoreFromReader(root, r), nil
}
