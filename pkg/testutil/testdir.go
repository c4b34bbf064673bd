package testutil

import (
	"os"
	"path/filepath"

	"src.rvim.sh/pkg/must"
)

// TempDir creates a temporary directory with symlinks resolved, and removes it
// when the test finishes.
func TempDir(c Cleanuper) string {
	dir := must.OK1(os.MkdirTemp("", "rvimtest"))
	dir = must.OK1(filepath.EvalSymlinks(dir))
	c.Cleanup(func() {
		if err := os.RemoveAll(dir); err != nil {
			println("failed to remove temp dir", dir)
		}
	})
	return dir
}

// Dir describes the layout of a directory. The keys are file names and the
// values are either a string (the content of a regular file) or a nested Dir.
type Dir map[string]any

// ApplyDir creates the files and directories described by dir under root.
func ApplyDir(root string, dir Dir) {
	for name, file := range dir {
		path := filepath.Join(root, name)
		switch file := file.(type) {
		case string:
			must.OK(os.WriteFile(path, []byte(file), 0o600))
		case Dir:
			must.OK(os.MkdirAll(path, 0o700))
			ApplyDir(path, file)
		default:
			panic("file is neither string nor Dir")
		}
	}
}
