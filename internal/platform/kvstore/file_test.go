package kvstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func TestFile_Contract(t *testing.T) {
	s, err := OpenFile(filepath.Join(t.TempDir(), "storage.json"), 0)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	exerciseStore(t, s)
}

func TestFile_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	ctx := context.Background()

	s, err := OpenFile(path, 0)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := s.Set(ctx, KeyActiveProfileID, "profile_1"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	reopened, err := OpenFile(path, 0)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	v, ok, err := reopened.Get(ctx, KeyActiveProfileID)
	if err != nil || !ok || v != "profile_1" {
		t.Fatalf("expected persisted value, got %q ok=%v err=%v", v, ok, err)
	}
	if reopened.Path() != filepath.Clean(path) {
		t.Fatalf("unexpected path %q", reopened.Path())
	}
}

func TestFile_CorruptFileFailsOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := OpenFile(path, 0); err == nil {
		t.Fatal("expected error for corrupt storage file")
	}
}

func TestFile_EmptyPath(t *testing.T) {
	if _, err := OpenFile("  ", 0); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestFile_QuotaExceeded(t *testing.T) {
	s, err := OpenFile(filepath.Join(t.TempDir(), "storage.json"), 8)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	err = s.Set(context.Background(), "key", "too-long-value")
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestClassifyWriteErr(t *testing.T) {
	full := &os.PathError{Op: "write", Path: "storage.json", Err: syscall.ENOSPC}
	if err := classifyWriteErr(full); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded for ENOSPC, got %v", err)
	}

	other := &os.PathError{Op: "write", Path: "storage.json", Err: errors.New("no space left in the message only")}
	if err := classifyWriteErr(other); errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("message text must not classify as quota, got %v", err)
	}
	if err := classifyWriteErr(other); !errors.Is(err, other) {
		t.Fatal("expected original error wrapped")
	}
}
