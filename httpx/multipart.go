package httpx

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// FilePart is a single file field in a multipart payload.
type FilePart struct {
	Field    string
	FileName string
	Content  io.Reader
}

// Multipart is a multipart/form-data payload. Fields are written before
// files so the backend can reject oversized uploads early.
type Multipart struct {
	Fields map[string]string
	Files  []FilePart
}

// encode renders the payload into a buffer. Payloads here are form
// submissions and avatars, small enough to buffer; the buffered body also
// gives the retry path a replayable GetBody for free.
func (m *Multipart) encode() (contentType string, body []byte, err error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for field, value := range m.Fields {
		if err := w.WriteField(field, value); err != nil {
			return "", nil, fmt.Errorf("httpx: multipart field %q: %w", field, err)
		}
	}
	for _, f := range m.Files {
		part, err := w.CreateFormFile(f.Field, f.FileName)
		if err != nil {
			return "", nil, fmt.Errorf("httpx: multipart file %q: %w", f.Field, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return "", nil, fmt.Errorf("httpx: multipart copy %q: %w", f.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return "", nil, fmt.Errorf("httpx: multipart close: %w", err)
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}
