package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// FileStorage — локальное файловое хранилище фото и документов участников.
// Пути наружу отдаются относительными, абсолютные остаются внутри.
type FileStorage struct {
	rootDir        string
	maxUploadBytes int64
}

func NewFileStorage(rootDir string, maxUploadMB int64) (*FileStorage, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root %s: %w", rootDir, err)
	}
	return &FileStorage{
		rootDir:        filepath.Clean(rootDir),
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}, nil
}

// Save кладёт файл в <root>/<category>/<memberID>/ под уникальным именем
// и возвращает относительный путь. Запись через tmp + rename.
func (s *FileStorage) Save(memberID int, category, originalName string, r io.Reader) (string, int64, error) {
	ext := filepath.Ext(sanitizeFilename(originalName))
	fileName := uuid.NewString() + ext

	dir := filepath.Join(s.rootDir, category, strconv.Itoa(memberID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("storage: create dir: %w", err)
	}

	targetPath := filepath.Join(dir, fileName)
	tempPath := targetPath + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return "", 0, fmt.Errorf("storage: create file: %w", err)
	}
	defer f.Close()

	limited := io.LimitedReader{R: r, N: s.maxUploadBytes + 1}
	written, err := io.Copy(f, &limited)
	if err != nil {
		_ = os.Remove(tempPath)
		return "", 0, fmt.Errorf("storage: write file: %w", err)
	}
	if written > s.maxUploadBytes {
		_ = os.Remove(tempPath)
		return "", 0, fmt.Errorf("storage: file exceeds %d bytes", s.maxUploadBytes)
	}
	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("storage: close file: %w", err)
	}
	if err := os.Rename(tempPath, targetPath); err != nil {
		return "", 0, fmt.Errorf("storage: rename: %w", err)
	}

	relative := filepath.Join(category, strconv.Itoa(memberID), fileName)
	return relative, written, nil
}

// Open открывает сохранённый файл по относительному пути.
func (s *FileStorage) Open(relativePath string) (*os.File, int64, error) {
	clean := filepath.Clean("/" + relativePath) // отрезаем попытки выйти из корня
	target := filepath.Join(s.rootDir, clean)

	f, err := os.Open(target)
	if err != nil {
		return nil, 0, fmt.Errorf("storage: open %s: %w", relativePath, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("storage: stat %s: %w", relativePath, err)
	}
	return f, st.Size(), nil
}

// Remove удаляет сохранённый файл по относительному пути.
func (s *FileStorage) Remove(relativePath string) error {
	clean := filepath.Clean("/" + relativePath)
	return os.Remove(filepath.Join(s.rootDir, clean))
}

// RootDir — корень хранилища (нужен генератору PDF).
func (s *FileStorage) RootDir() string { return s.rootDir }

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" {
		name = "file"
	}
	return name
}
