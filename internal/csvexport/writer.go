package csvexport

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/jo-hoe/qrextract/internal/extractor"
)

// WriteError reports a failure to produce the output CSV file
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write CSV file %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Marshal writes the header row followed by one row per record to w.
// The header is written even when records is empty.
func Marshal(records []extractor.ImageRecord, w io.Writer) error {
	if records == nil {
		records = []extractor.ImageRecord{}
	}
	return gocsv.Marshal(&records, w)
}

// WriteCSV writes records to path, replacing any existing file
func WriteCSV(records []extractor.ImageRecord, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	if err := Marshal(records, file); err != nil {
		_ = file.Close()
		return &WriteError{Path: path, Err: err}
	}

	if err := file.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	slog.Debug("csvexport: wrote CSV file", "path", path, "rows", len(records))
	return nil
}
