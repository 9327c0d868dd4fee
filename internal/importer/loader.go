// Package importer loads the legacy catalog documents and writes them into
// the store.
package importer

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Loader reads one document by path or key.
type Loader interface {
	Load(ctx context.Context, path string) ([]byte, error)
}

var gzipMagic = []byte{0x1f, 0x8b}

// readDocument returns the content of r, transparently gunzipping it.
func readDocument(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read document header: %w", err)
	}

	if bytes.Equal(head, gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		return io.ReadAll(gz)
	}

	return io.ReadAll(br)
}

// fileLoader implements Loader for the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based document loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "file-loader").Logger(),
	}
}

// Load reads a plain or gzipped document.
func (l *fileLoader) Load(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.logger.Info().Str("file", path).Msg("loading document")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open document")
		return nil, fmt.Errorf("failed to open document %s: %w", path, err)
	}
	defer file.Close()

	data, err := readDocument(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to read document")
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("bytes", len(data)).
		Msg("document loaded")

	return data, nil
}
