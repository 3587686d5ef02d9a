package journal

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 1600
	jpegQuality   = 85
	maxUploadSize = 10 << 20 // 10MB
)

// PrepareUpload decodes an image from src, scales it down to maxImageWidth
// when wider, and re-encodes it as JPEG ready for a multipart upload.
func PrepareUpload(src io.Reader, filename string) (Upload, error) {
	data, err := io.ReadAll(io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		return Upload{}, fmt.Errorf("read image: %w", err)
	}
	if len(data) > maxUploadSize {
		return Upload{}, ValidationErrors{"image": "File too large (max 10MB)"}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Upload{}, ValidationErrors{"image": "Invalid image: " + err.Error()}
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Upload{}, fmt.Errorf("encode jpeg: %w", err)
	}

	return Upload{
		Data:        buf.Bytes(),
		Filename:    uploadName(filename),
		ContentType: "image/jpeg",
	}, nil
}

// OpenUpload reads and prepares the image file at path.
func OpenUpload(path string) (Upload, error) {
	f, err := os.Open(path)
	if err != nil {
		return Upload{}, err
	}
	defer f.Close()
	return PrepareUpload(f, filepath.Base(path))
}

// uploadName turns "My Photo.PNG" into "my-photo.jpg".
func uploadName(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	slug := Slugify(base)
	if slug == "" {
		slug = "image"
	}
	return slug + ".jpg"
}
