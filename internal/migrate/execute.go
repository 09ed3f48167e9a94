package migrate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/artkeep/artkeep/internal/storelock"
)

// ErrMigrationRunning indicates another migration holds the store lock.
var ErrMigrationRunning = errors.New("another migration is already running")

// PairError records one pair that could not be moved.
type PairError struct {
	Pair Pair
	Err  error
}

// Report enumerates every outcome of an Execute run so the caller can
// retry just the failures.
type Report struct {
	Moved     int
	Skipped   int
	Conflicts []Pair
	Failed    []PairError
	Unparsed  []UnparsedFile
}

// Executor performs planned migrations.
type Executor struct {
	log *slog.Logger
}

// NewExecutor creates an executor.
func NewExecutor(log *slog.Logger) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{log: log.With("component", "migrate")}
}

// Execute applies a plan. The store's exclusive lock is held for the whole
// run so no download or second migration interleaves. A single pair's
// failure is recorded and does not abort the rest; conflicts leave both
// files untouched. Destinations are re-checked at move time so a stale
// plan degrades to skips and conflicts rather than overwrites.
func (e *Executor) Execute(ctx context.Context, plan *Plan) (*Report, error) {
	lock := storelock.New(plan.BaseDir)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire store lock: %w", err)
	}
	if !locked {
		return nil, ErrMigrationRunning
	}
	defer func() { _ = lock.Unlock() }()

	report := &Report{Unparsed: plan.Unparsed}

	for _, pair := range plan.Pairs {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		src := filepath.Join(plan.BaseDir, filepath.FromSlash(pair.Source))
		dst := filepath.Join(plan.BaseDir, filepath.FromSlash(pair.Dest))

		// A source that already made it to the destination (an earlier,
		// interrupted run) counts as done.
		if _, serr := os.Stat(src); errors.Is(serr, fs.ErrNotExist) {
			if _, derr := os.Stat(dst); derr == nil {
				report.Skipped++
				continue
			}
		}

		// Re-check the destination: the plan may be stale.
		conflict, identical := classifyDest(plan.BaseDir, pair.Source, pair.Dest)
		switch {
		case identical:
			report.Skipped++
			continue
		case conflict:
			pair.Conflict = true
			report.Conflicts = append(report.Conflicts, pair)
			e.log.Warn("destination occupied, leaving both files",
				"source", pair.Source, "dest", pair.Dest)
			continue
		}

		if err := moveFile(src, dst); err != nil {
			report.Failed = append(report.Failed, PairError{Pair: pair, Err: err})
			e.log.Error("move failed", "source", pair.Source, "dest", pair.Dest, "error", err)
			continue
		}
		report.Moved++
		e.log.Debug("moved", "source", pair.Source, "dest", pair.Dest)
	}

	pruneEmptyDirs(plan.BaseDir)

	e.log.Info("migration finished",
		"moved", report.Moved,
		"skipped", report.Skipped,
		"conflicts", len(report.Conflicts),
		"failed", len(report.Failed),
		"unparsed", len(report.Unparsed))
	return report, nil
}

// moveFile renames src to dst, creating parent directories just in time.
// Rename keeps the operation atomic; when src and dst are on different
// devices it falls back to copy, verify, then delete the source.
func moveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return fmt.Errorf("rename: %w", err)
	}

	if err := copyVerify(src, dst); err != nil {
		_ = os.Remove(dst)
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// copyVerify copies src to dst and reads dst back to confirm the bytes
// made it before the caller deletes the source.
func copyVerify(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create dest: %w", err)
	}
	if _, err := out.Write(data); err != nil {
		_ = out.Close()
		return fmt.Errorf("write dest: %w", err)
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return fmt.Errorf("sync dest: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close dest: %w", err)
	}

	written, err := os.ReadFile(dst)
	if err != nil {
		return fmt.Errorf("verify dest: %w", err)
	}
	if !bytes.Equal(data, written) {
		return fmt.Errorf("verify dest: content mismatch after copy")
	}
	return nil
}

// sameContent compares two files byte by byte.
func sameContent(a, b string) (bool, error) {
	fa, err := os.Open(a)
	if err != nil {
		return false, err
	}
	defer func() { _ = fa.Close() }()

	fb, err := os.Open(b)
	if err != nil {
		return false, err
	}
	defer func() { _ = fb.Close() }()

	sa, err := fa.Stat()
	if err != nil {
		return false, err
	}
	sb, err := fb.Stat()
	if err != nil {
		return false, err
	}
	if sa.Size() != sb.Size() {
		return false, nil
	}

	bufA := make([]byte, 64*1024)
	bufB := make([]byte, 64*1024)
	for {
		na, errA := io.ReadFull(fa, bufA)
		nb, errB := io.ReadFull(fb, bufB)
		if !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}
		if errA == io.EOF || errA == io.ErrUnexpectedEOF {
			return errB == io.EOF || errB == io.ErrUnexpectedEOF, nil
		}
		if errA != nil {
			return false, errA
		}
		if errB != nil {
			return false, errB
		}
	}
}

// pruneEmptyDirs removes item and legacy season directories a migration
// emptied out. Errors are ignored: a non-empty dir simply stays.
func pruneEmptyDirs(baseDir string) {
	libs, err := os.ReadDir(baseDir)
	if err != nil {
		return
	}
	for _, lib := range libs {
		if !lib.IsDir() {
			continue
		}
		libPath := filepath.Join(baseDir, lib.Name())
		items, err := os.ReadDir(libPath)
		if err != nil {
			continue
		}
		for _, item := range items {
			if !item.IsDir() {
				continue
			}
			itemPath := filepath.Join(libPath, item.Name())
			subs, err := os.ReadDir(itemPath)
			if err == nil {
				for _, sub := range subs {
					if sub.IsDir() {
						_ = os.Remove(filepath.Join(itemPath, sub.Name()))
					}
				}
			}
			_ = os.Remove(itemPath)
		}
	}
}
