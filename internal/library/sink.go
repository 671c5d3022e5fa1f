package library

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Save writes img and reports the stored path through completion, which is
// called exactly once, on the calling goroutine.
func (l *Library) Save(ctx context.Context, img image.Image, completion func(path string, err error)) {
	path, err := l.Write(ctx, img)
	completion(path, err)
}

// Write encodes img as JPEG into a temp file in the library and renames it
// into place under a fresh name.
func (l *Library) Write(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if img == nil || img.Bounds().Empty() {
		return "", fmt.Errorf("nothing to save")
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", err
	}

	tmpFile, err := os.CreateTemp(l.dir, "filterlab-*.tmp")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmpFile.Name())

	if err := imaging.Encode(tmpFile, img, imaging.JPEG, imaging.JPEGQuality(l.quality)); err != nil {
		_ = tmpFile.Close()
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return "", err
	}
	if err := tmpFile.Close(); err != nil {
		return "", err
	}

	destPath := filepath.Join(l.dir, l.fileName())
	if err := replaceFile(tmpFile.Name(), destPath); err != nil {
		return "", err
	}

	l.log.Debug("library write", "path", destPath, "quality", l.quality)
	return destPath, nil
}

func (l *Library) fileName() string {
	id := uuid.New().String()[:8]
	return fmt.Sprintf("filterlab-%s-%s.jpg", l.now().Format("20060102-150405"), id)
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}
