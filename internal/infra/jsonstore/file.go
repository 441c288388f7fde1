package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// lockedFile is a JSON document guarded by an flock'd sidecar file.
// A missing document reads as the zero value of the target.
type lockedFile struct {
	path     string
	lockPath string
}

func newLockedFile(path string) lockedFile {
	return lockedFile{path: path, lockPath: path + ".lock"}
}

// view reads the document into v under a shared lock.
func (f lockedFile) view(v any) error {
	lock, err := f.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer f.releaseLock(lock)

	return f.read(v)
}

// update reads the document into v under an exclusive lock, runs fn and
// writes v back when fn succeeds.
func (f lockedFile) update(v any, fn func() error) error {
	lock, err := f.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer f.releaseLock(lock)

	if err := f.read(v); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	return f.write(v)
}

func (f lockedFile) exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

func (f lockedFile) acquireLock(lockType int) (*os.File, error) {
	dir := filepath.Dir(f.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(f.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (f lockedFile) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (f lockedFile) read(v any) error {
	content, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", filepath.Base(f.path), err)
	}
	if len(content) == 0 {
		return nil
	}

	if err := json.Unmarshal(content, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(f.path), err)
	}
	return nil
}

func (f lockedFile) write(v any) error {
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(f.path), err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
