package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/labstack/echo/v4"
)

// Upload is an image file sent as a multipart part.
type Upload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// ImageField is either a URL string, an uploaded file, or unset. A form
// carries exactly one representation per field.
type ImageField struct {
	url    string
	upload *Upload
}

// ImageURL sets an image field to an existing URL.
func ImageURL(u string) ImageField { return ImageField{url: u} }

// ImageUpload sets an image field to a file to upload.
func ImageUpload(u Upload) ImageField { return ImageField{upload: &u} }

// IsSet reports whether the field carries a URL or an upload.
func (f ImageField) IsSet() bool { return f.url != "" || f.upload != nil }

// IsUpload reports whether the field carries a file.
func (f ImageField) IsUpload() bool { return f.upload != nil }

// URL returns the URL representation, or "" for uploads.
func (f ImageField) URL() string { return f.url }

// File returns the upload, or nil for URL fields.
func (f ImageField) File() *Upload { return f.upload }

// requestBody knows how to encode itself and which content type it carries.
type requestBody interface {
	encode() (io.Reader, string, error)
}

type jsonBody struct{ v any }

func (b jsonBody) encode() (io.Reader, string, error) {
	data, err := json.Marshal(b.v)
	if err != nil {
		return nil, "", fmt.Errorf("encode json: %w", err)
	}
	return bytes.NewReader(data), echo.MIMEApplicationJSON, nil
}

// formBody is an ordered multipart form.
type formBody struct {
	fields []formField
	files  []formFile
}

type formField struct{ name, value string }

type formFile struct {
	name   string
	upload Upload
}

func (f *formBody) set(name, value string) {
	f.fields = append(f.fields, formField{name, value})
}

// setOptional adds the field only when v is non-nil.
func (f *formBody) setOptional(name string, v *string) {
	if v != nil {
		f.set(name, *v)
	}
}

// setImage adds either the URL as a plain field or the upload as a file part.
func (f *formBody) setImage(name string, img ImageField) {
	switch {
	case img.upload != nil:
		f.files = append(f.files, formFile{name, *img.upload})
	case img.url != "":
		f.set(name, img.url)
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (f *formBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, fld := range f.fields {
		if err := w.WriteField(fld.name, fld.value); err != nil {
			return nil, "", fmt.Errorf("encode form field %s: %w", fld.name, err)
		}
	}
	for _, file := range f.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(file.name), quoteEscaper.Replace(file.upload.Filename)))
		ct := file.upload.ContentType
		if ct == "" {
			ct = echo.MIMEOctetStream
		}
		h.Set(echo.HeaderContentType, ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("encode form file %s: %w", file.name, err)
		}
		if _, err := part.Write(file.upload.Data); err != nil {
			return nil, "", fmt.Errorf("encode form file %s: %w", file.name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
