package services

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hauswerk/property-service/internal/utils"
)

// FileService stores uploaded declaration documents on local disk. The
// storage name it hands back is the only reference the rest of the
// system uses; display-layer renaming is not its concern.
type FileService struct {
	uploadDir string
}

func NewFileService(uploadDir string) (*FileService, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileService{uploadDir: uploadDir}, nil
}

// Save writes the upload under a unique storage name derived from the
// original: base-<unix millis>-<random>.ext.
func (s *FileService) Save(originalName string, data []byte) (string, error) {
	base := filepath.Base(originalName)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	name := fmt.Sprintf("%s-%d-%d%s", stem, time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)

	if err := os.WriteFile(filepath.Join(s.uploadDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write upload: %v", utils.ErrStorageFailure, err)
	}
	return name, nil
}

func (s *FileService) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(s.uploadDir, filepath.Base(name)))
	return err == nil
}

// Read returns the stored file's contents. Missing files map to
// ErrFileNotFound so callers can answer 404 without inspecting os errors.
func (s *FileService) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.uploadDir, filepath.Base(name)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, utils.ErrFileNotFound
		}
		return nil, err
	}
	return data, nil
}

// SweepOrphans deletes stored files not referenced by any property.
// Files younger than an hour are kept: they may belong to a wizard
// session that has not submitted yet.
func (s *FileService) SweepOrphans(referenced map[string]struct{}) (int, error) {
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-1 * time.Hour)
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := referenced[e.Name()]; ok {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.uploadDir, e.Name())); err != nil {
			utils.Logger.WithError(err).Warnf("Failed to remove orphaned upload %s", e.Name())
			continue
		}
		removed++
	}
	return removed, nil
}
