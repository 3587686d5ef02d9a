package journal

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPrepareUploadResizesWideImages(t *testing.T) {
	up, err := PrepareUpload(bytes.NewReader(pngBytes(t, 3200, 800)), "Beach Day.PNG")
	require.NoError(t, err)

	assert.Equal(t, "beach-day.jpg", up.Filename)
	assert.Equal(t, "image/jpeg", up.ContentType)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(up.Data))
	require.NoError(t, err)
	assert.Equal(t, maxImageWidth, cfg.Width)
	assert.Equal(t, 400, cfg.Height)
}

func TestPrepareUploadKeepsSmallImages(t *testing.T) {
	up, err := PrepareUpload(bytes.NewReader(pngBytes(t, 640, 480)), "small.png")
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(up.Data))
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
}

func TestPrepareUploadRejectsNonImages(t *testing.T) {
	_, err := PrepareUpload(bytes.NewReader([]byte("not an image")), "notes.txt")
	require.ErrorIs(t, err, ErrValidation)
}

func TestOpenUpload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "!!!.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 10, 10), 0o644))

	up, err := OpenUpload(path)
	require.NoError(t, err)
	assert.Equal(t, "image.jpg", up.Filename)
}
