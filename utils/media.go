// utils/media.go
package utils

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var allowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// ValidateImageFile checks extension and size of an uploaded image
func ValidateImageFile(filename string, size int64) error {
	if size > 5*1024*1024 {
		return errors.New("file too large (5MB max)")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range allowedImageExtensions {
		if ext == allowed {
			return nil
		}
	}
	return errors.New("unsupported image type")
}

// SaveImage writes an uploaded image under uploads/<subDir> with a unique
// name and generates a 320px-wide thumbnail next to it. Returns the
// relative URL of the stored image.
func SaveImage(data []byte, originalName, subDir string) (string, error) {
	dir := filepath.Join("uploads", subDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".jpg"
	}
	filename := uuid.NewString() + ext
	fullPath := filepath.Join(dir, filename)

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	// Best-effort thumbnail; the original remains the canonical asset
	if img, err := imaging.Decode(bytes.NewReader(data)); err == nil {
		thumb := imaging.Resize(img, 320, 0, imaging.Lanczos)
		thumbDir := filepath.Join(dir, "thumbnails")
		if err := os.MkdirAll(thumbDir, 0755); err == nil {
			_ = imaging.Save(thumb, filepath.Join(thumbDir, filename))
		}
	}

	return "/" + filepath.ToSlash(fullPath), nil
}
