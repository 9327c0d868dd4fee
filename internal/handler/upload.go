package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"shams-elarab/internal/media"

	"github.com/rs/zerolog"
)

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const multipartMemory = 8 << 20

// parseMultipart bounds the body to maxBytes and parses the form. It writes
// the error response itself and reports false on failure.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64, logger zerolog.Logger) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "upload exceeds the size limit", logger)
			return false
		}
		writeError(w, http.StatusBadRequest, "INVALID_FORM", "invalid multipart form", logger)
		return false
	}
	return true
}

// formFile returns the named file of a parsed multipart form. A missing
// file yields a nil *media.File.
func formFile(r *http.Request, field string) (*media.File, func(), error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	return fileFromPart(file, header), func() { file.Close() }, nil
}

func fileFromPart(file multipart.File, header *multipart.FileHeader) *media.File {
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &media.File{
		Name:        header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	}
}
