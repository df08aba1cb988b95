// Package upload validates dropped or picked files before they reach the shell.
package upload

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/akolanti/DocForm/internal/config"
	"github.com/akolanti/DocForm/internal/domain/errorModel"
	"github.com/gabriel-vasile/mimetype"
)

const FormField = "file"

// File is an accepted upload held in memory.
type File struct {
	Name string
	MIME string
	Size int64
	Data []byte
}

// FromRequest reads the single file of a multipart upload.
func FromRequest(w http.ResponseWriter, r *http.Request) (File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		return File{}, fmt.Errorf("parse upload: %v: %w", err, errorModel.ErrUnsupportedFile)
	}
	headers := r.MultipartForm.File[FormField]
	if len(headers) != 1 {
		return File{}, fmt.Errorf("expected one file, got %d: %w", len(headers), errorModel.ErrUnsupportedFile)
	}
	return Accept(headers[0])
}

// Accept checks the declared type, the size and the sniffed content.
func Accept(header *multipart.FileHeader) (File, error) {
	if header == nil {
		return File{}, errorModel.ErrUnsupportedFile
	}
	if header.Size > config.MaxUploadSize {
		return File{}, fmt.Errorf("%s is %d bytes: %w", header.Filename, header.Size, errorModel.ErrUnsupportedFile)
	}
	if declared := header.Header.Get("Content-Type"); declared != "" {
		mediaType, _, err := mime.ParseMediaType(declared)
		if err != nil || mediaType != config.AcceptedMIMEType {
			return File{}, fmt.Errorf("%s declared as %q: %w", header.Filename, declared, errorModel.ErrUnsupportedFile)
		}
	}

	f, err := header.Open()
	if err != nil {
		return File{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, config.MaxUploadSize+1))
	if err != nil {
		return File{}, fmt.Errorf("read upload: %w", err)
	}
	return AcceptBytes(header.Filename, data)
}

// AcceptBytes validates content that did not arrive as a multipart part.
func AcceptBytes(name string, data []byte) (File, error) {
	if len(data) > config.MaxUploadSize {
		return File{}, fmt.Errorf("%s exceeds upload limit: %w", name, errorModel.ErrUnsupportedFile)
	}
	detected := mimetype.Detect(data)
	if !detected.Is(config.AcceptedMIMEType) {
		return File{}, fmt.Errorf("%s looks like %s: %w", name, detected.String(), errorModel.ErrUnsupportedFile)
	}
	return File{
		Name: name,
		MIME: config.AcceptedMIMEType,
		Size: int64(len(data)),
		Data: data,
	}, nil
}
