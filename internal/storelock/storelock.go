// Package storelock provides the advisory lock that coordinates writers of
// the asset store. Migration holds the exclusive side for a whole run;
// downloads hold the shared side per write, so artwork is never moved out
// from under an in-flight download and vice versa.
package storelock

import (
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFile = ".artkeep.lock"

// New returns the advisory lock for an asset store root. The lock file
// lives inside the store so every process sharing the directory contends
// on the same file.
func New(baseDir string) *flock.Flock {
	return flock.New(filepath.Join(baseDir, lockFile))
}

// IsLockFile reports whether a directory entry is the lock file itself,
// so store walkers can skip it.
func IsLockFile(name string) bool {
	return name == lockFile
}
