// Package probe reports the on-disk state of resolved asset paths.
package probe

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// Info is the observed state of one path at probe time.
type Info struct {
	Exists  bool
	Size    int64
	ModTime time.Time
	// Err carries a stat failure other than non-existence. Callers render
	// such paths as missing but flag the error instead of failing the view.
	Err error
}

// Probe stats every path relative to baseDir. The base directory is treated
// as mutable between calls: results are never cached. Symlinks are
// followed, so a broken symlink reports as not existing. ENOTDIR counts as
// not existing too: a flat-layout file may occupy a component where the
// other layout expects a directory.
func Probe(baseDir string, paths []string) map[string]Info {
	out := make(map[string]Info, len(paths))
	for _, rel := range paths {
		fi, err := os.Stat(filepath.Join(baseDir, rel))
		switch {
		case err == nil:
			out[rel] = Info{Exists: !fi.IsDir(), Size: fi.Size(), ModTime: fi.ModTime()}
		case errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR):
			out[rel] = Info{}
		default:
			out[rel] = Info{Err: err}
		}
	}
	return out
}
