package upstream

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
)

// Form builds a multipart/form-data body in the bracketed style the content
// API expects: repeated groups arrive as field[index][key] pairs with
// sequential indices, files as plain file parts.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	key   string
	value string
}

type formFile struct {
	field    string
	filename string
	content  io.Reader
}

// NewForm returns an empty form.
func NewForm() *Form {
	return &Form{}
}

// Set appends a scalar field.
func (f *Form) Set(key, value string) *Form {
	f.fields = append(f.fields, formField{key: key, value: value})
	return f
}

// SetInt appends a scalar field from an integer value.
func (f *Form) SetInt(key string, value int) *Form {
	return f.Set(key, strconv.Itoa(value))
}

// SetIndexed appends one key of a repeated group, e.g.
// SetIndexed("teachers", 0, "teacher_id", "7") -> teachers[0][teacher_id]=7.
func (f *Form) SetIndexed(group string, index int, key, value string) *Form {
	return f.Set(fmt.Sprintf("%s[%d][%s]", group, index, key), value)
}

// AddFile appends a file part read from r when the body is encoded.
func (f *Form) AddFile(field, filename string, r io.Reader) *Form {
	f.files = append(f.files, formFile{field: field, filename: filename, content: r})
	return f
}

// Encode renders the multipart body and returns it with its content type.
func (f *Form) Encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range f.fields {
		if err := w.WriteField(field.key, field.value); err != nil {
			return nil, "", err
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.field, file.filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, file.content); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
