package library

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"filterlab/pkg/imgutil"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, solid(4, 4)))
}

func writeJPEG(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, solid(4, 4), nil))
}

func TestScanFindsImages(t *testing.T) {
	dir := t.TempDir()
	writeJPEG(t, filepath.Join(dir, "b.jpg"))
	writePNG(t, filepath.Join(dir, "nested", "a.png"))
	writePNG(t, filepath.Join(dir, ".cache", "hidden.png"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an image at all"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tiny"), []byte{0xff}, 0o644))

	updates := make(chan ProgressUpdate, 64)
	summary, entries, err := Scan(context.Background(), dir, updates)
	close(updates)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "b.jpg", entries[0].RelPath)
	assert.Equal(t, imgutil.KindJPEG, entries[0].Kind)
	assert.Equal(t, filepath.Join("nested", "a.png"), entries[1].RelPath)
	assert.Equal(t, imgutil.KindPNG, entries[1].Kind)
	assert.Positive(t, entries[1].Size)
	assert.True(t, filepath.IsAbs(entries[1].Path))

	assert.Equal(t, Summary{Files: 4, Images: 2, Errors: 0}, summary)

	var total ProgressUpdate
	for u := range updates {
		total.FilesDelta += u.FilesDelta
		total.ImagesDelta += u.ImagesDelta
		total.ErrorDelta += u.ErrorDelta
	}
	assert.Equal(t, ProgressUpdate{FilesDelta: 4, ImagesDelta: 2}, total)
}

func TestScanSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.png")
	writePNG(t, path)

	summary, entries, err := Scan(context.Background(), path, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "one.png", entries[0].RelPath)
	assert.Equal(t, 1, summary.Images)
}

func TestScanMissingRoot(t *testing.T) {
	_, _, err := Scan(context.Background(), filepath.Join(t.TempDir(), "missing"), nil)
	require.Error(t, err)
}

func TestWriteStoresJPEG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "library")
	fixed := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	lib := New(dir, WithJPEGQuality(80), withClock(func() time.Time { return fixed }))

	path, err := lib.Write(context.Background(), solid(10, 6))
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Regexp(t, regexp.MustCompile(`^filterlab-20240506-070809-[0-9a-f]{8}\.jpg$`), filepath.Base(path))

	kind, err := imgutil.SniffFile(path)
	require.NoError(t, err)
	assert.Equal(t, imgutil.KindJPEG, kind)

	img, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 6), img.Bounds())

	// Only the saved file is left behind.
	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)

	other, err := lib.Write(context.Background(), solid(2, 2))
	require.NoError(t, err)
	assert.NotEqual(t, path, other)
}

func TestWriteRejects(t *testing.T) {
	lib := New(t.TempDir())

	_, err := lib.Write(context.Background(), image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = lib.Write(ctx, solid(2, 2))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSaveCompletesOnce(t *testing.T) {
	lib := New(t.TempDir())
	calls := 0
	var saved string
	lib.Save(context.Background(), solid(3, 3), func(path string, err error) {
		calls++
		require.NoError(t, err)
		saved = path
	})
	assert.Equal(t, 1, calls)
	assert.FileExists(t, saved)

	calls = 0
	lib.Save(context.Background(), nil, func(path string, err error) {
		calls++
		assert.Error(t, err)
		assert.Empty(t, path)
	})
	assert.Equal(t, 1, calls)
}

func TestPermissionGate(t *testing.T) {
	root := t.TempDir()

	var granted bool
	New(filepath.Join(root, "new", "library")).RequestPhotoLibraryAccess(func(ok bool) { granted = ok })
	assert.True(t, granted)
	assert.DirExists(t, filepath.Join(root, "new", "library"))

	blocker := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	New(filepath.Join(blocker, "library")).RequestPhotoLibraryAccess(func(ok bool) { granted = ok })
	assert.False(t, granted)
}

func TestJPEGQualityBounds(t *testing.T) {
	assert.Equal(t, DefaultJPEGQuality, New("x", WithJPEGQuality(0)).quality)
	assert.Equal(t, 50, New("x", WithJPEGQuality(50)).quality)
}
