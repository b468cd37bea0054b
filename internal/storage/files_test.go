package storage

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestFileStore_SaveAndOpen(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	stored, err := s.Save("отчёт.pdf", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if stored.Size != 5 {
		t.Fatalf("size: got %d, want 5", stored.Size)
	}

	f, err := s.Open(stored.Path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("content mismatch: %q", data)
	}
}

func TestFileStore_UniqueNames(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	a, err := s.Save("dup.txt", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("save a: %v", err)
	}
	b, err := s.Save("dup.txt", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("save b: %v", err)
	}
	if a.Path == b.Path {
		t.Fatalf("same source name must not collide on disk: %q", a.Path)
	}
}

func TestFileStore_TooLarge(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), 4)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if _, err := s.Save("big.bin", strings.NewReader("12345")); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}

	// ровно в лимит — проходит
	if _, err := s.Save("fit.bin", strings.NewReader("1234")); err != nil {
		t.Fatalf("exact limit must pass: %v", err)
	}
}

func TestFileStore_PathEscape(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if _, err := s.Open("../etc/passwd"); !errors.Is(err, ErrBadPath) {
		t.Fatalf("expected ErrBadPath, got %v", err)
	}
	if err := s.Delete("../../x"); !errors.Is(err, ErrBadPath) {
		t.Fatalf("expected ErrBadPath, got %v", err)
	}
}
