package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrFileTooLarge = errors.New("file too large")
	ErrBadPath      = errors.New("path escapes storage root")
)

// FileStore хранит вложения чата на локальном диске.
// Имя на диске — uuid-префикс + очищенное исходное имя.
type FileStore struct {
	root    string
	maxSize int64
}

type StoredFile struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

func NewFileStore(root string, maxSize int64) (*FileStore, error) {
	if maxSize <= 0 {
		maxSize = 32 << 20 // 32 MiB
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir storage root: %w", err)
	}
	return &FileStore{root: root, maxSize: maxSize}, nil
}

func (s *FileStore) Save(name string, src io.Reader) (*StoredFile, error) {
	name = sanitizeName(name)
	rel := uuid.New().String()[:8] + "_" + name

	f, err := os.Create(filepath.Join(s.root, rel))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// лимит с запасом в 1 байт, чтобы отличить «ровно лимит» от «больше»
	n, err := io.Copy(f, io.LimitReader(src, s.maxSize+1))
	if err != nil {
		os.Remove(f.Name())
		return nil, err
	}
	if n > s.maxSize {
		os.Remove(f.Name())
		return nil, ErrFileTooLarge
	}

	return &StoredFile{Path: rel, Name: name, Size: n}, nil
}

func (s *FileStore) Delete(rel string) error {
	full, err := s.resolve(rel)
	if err != nil {
		return err
	}
	return os.Remove(full)
}

func (s *FileStore) Open(rel string) (*os.File, error) {
	full, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

func (s *FileStore) resolve(rel string) (string, error) {
	full := filepath.Join(s.root, filepath.Clean("/"+rel))
	if !strings.HasPrefix(full, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return "", ErrBadPath
	}
	return full, nil
}

func sanitizeName(name string) string {
	clean := filepath.Base(filepath.Clean(name))
	clean = strings.ReplaceAll(clean, "/", "_")
	clean = strings.ReplaceAll(clean, "\\", "_")
	if clean == "." || clean == ".." || clean == "" {
		return "unnamed"
	}
	return clean
}
