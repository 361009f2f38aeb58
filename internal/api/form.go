package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/five82/packetdesk/internal/media"
)

// Form is a multipart body under construction.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name, value string
}

type formFile struct {
	field, filename string
	r               io.Reader
}

// NewForm returns an empty multipart form.
func NewForm() *Form {
	return &Form{}
}

// AddField appends a plain text field.
func (f *Form) AddField(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// AddFile appends a file part. The part's Content-Type is sniffed from the
// first bytes of r.
func (f *Form) AddFile(field, filename string, r io.Reader) *Form {
	f.files = append(f.files, formFile{field: field, filename: filename, r: r})
	return f
}

func (f *Form) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", field.name, err)
		}
	}

	for _, file := range f.files {
		res, head, err := media.Detect(file.r)
		contentType := "application/octet-stream"
		if err == nil {
			contentType = res.MIME
		} else if head == nil {
			return nil, "", fmt.Errorf("read %s: %w", file.filename, err)
		}

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(file.field), escapeQuotes(file.filename)))
		header.Set("Content-Type", contentType)
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", file.field, err)
		}
		if _, err := io.Copy(part, io.MultiReader(bytes.NewReader(head), file.r)); err != nil {
			return nil, "", fmt.Errorf("copy %s: %w", file.filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
