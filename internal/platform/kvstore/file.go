package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
)

// File implements Store as a single JSON object on disk, the way a browser
// persists its local storage area. Every write rewrites the whole file through
// a temp file and rename.
type File struct {
	mu    sync.Mutex
	path  string
	quota int
	data  map[string]string
	used  int
}

// OpenFile loads path (creating parent directories) and returns a File store.
// A missing file starts empty. quota <= 0 means unlimited.
func OpenFile(path string, quota int) (*File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	clean := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(clean), 0o750); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	f := &File{path: clean, quota: quota, data: make(map[string]string)}

	raw, err := os.ReadFile(clean)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("read storage file: %w", err)
	}
	if len(strings.TrimSpace(string(raw))) > 0 {
		if err := json.Unmarshal(raw, &f.data); err != nil {
			return nil, fmt.Errorf("decode storage file %s: %w", clean, err)
		}
	}
	for k := range f.data {
		f.used += sizeOf(f.data, k)
	}

	return f, nil
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.data[key]
	return v, ok, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	used := f.used - sizeOf(f.data, key) + len(key) + len(value)
	if f.quota > 0 && used > f.quota {
		return fmt.Errorf("set %q (%d of %d bytes): %w", key, used, f.quota, ErrQuotaExceeded)
	}

	prev, had := f.data[key]
	f.data[key] = value
	if err := f.flush(); err != nil {
		if had {
			f.data[key] = prev
		} else {
			delete(f.data, key)
		}
		return err
	}
	f.used = used

	return nil
}

func (f *File) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, had := f.data[key]
	if !had {
		return nil
	}
	delete(f.data, key)
	if err := f.flush(); err != nil {
		f.data[key] = prev
		return err
	}
	f.used -= len(key) + len(prev)

	return nil
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

func (f *File) flush() error {
	raw, err := json.Marshal(f.data)
	if err != nil {
		return fmt.Errorf("encode storage file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return classifyWriteErr(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return classifyWriteErr(err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace storage file: %w", err)
	}

	return nil
}

// classifyWriteErr maps ENOSPC to ErrQuotaExceeded.
func classifyWriteErr(err error) error {
	if errors.Is(err, syscall.ENOSPC) {
		return fmt.Errorf("write storage file: %w: %w", ErrQuotaExceeded, err)
	}
	return fmt.Errorf("write storage file: %w", err)
}

var _ Store = (*File)(nil)
