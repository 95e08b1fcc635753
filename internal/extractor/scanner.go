package extractor

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jo-hoe/qrextract/internal/qr"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif"}

// Decoder decodes the QR payload of a single image file
type Decoder interface {
	Decode(path string) qr.Result
}

// IsImageFile reports whether name carries one of the recognized image
// extensions. The match is case-insensitive.
func IsImageFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Scanner extracts QR payloads from the image files of a directory
type Scanner struct {
	decoder Decoder
	workers int
	logger  *slog.Logger
}

// NewScanner creates a scanner. workers <= 0 uses GOMAXPROCS, 1 decodes sequentially.
func NewScanner(decoder Decoder, workers int, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		decoder: decoder,
		workers: workers,
		logger:  logger,
	}
}

// ScanDirectory returns one record per image in sourceDir that holds a
// readable QR code. Subdirectories are not descended into.
func (s *Scanner) ScanDirectory(sourceDir string) ([]ImageRecord, error) {
	report, err := s.Scan(sourceDir)
	if err != nil {
		return nil, err
	}
	return report.Records, nil
}

// Scan is ScanDirectory with the per-file outcomes retained
func (s *Scanner) Scan(sourceDir string) (*ScanReport, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory %s: %w", sourceDir, err)
	}

	// os.ReadDir returns entries sorted by filename
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsImageFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}

	s.logger.Debug("extractor: listed source directory",
		"source_dir", sourceDir,
		"entries", len(entries),
		"eligible", len(names),
		"workers", s.workers)

	// one slot per file keeps output in listing order whatever the completion order
	outcomes := make([]FileOutcome, len(names))
	parallelFor(len(names), s.workers, func(i int) {
		result := s.decoder.Decode(filepath.Join(sourceDir, names[i]))
		outcomes[i] = FileOutcome{Filename: names[i], Result: result}
		s.logOutcome(outcomes[i])
	})

	records := make([]ImageRecord, 0, len(outcomes))
	for _, outcome := range outcomes {
		if !outcome.Result.OK() {
			continue
		}
		records = append(records, ImageRecord{
			Filename: outcome.Filename,
			Value:    outcome.Result.Text,
		})
	}

	return &ScanReport{
		Records:  records,
		Outcomes: outcomes,
	}, nil
}

func (s *Scanner) logOutcome(outcome FileOutcome) {
	switch outcome.Result.Status {
	case qr.StatusDecoded:
		s.logger.Debug("extractor: decoded QR code", "file", outcome.Filename)
	case qr.StatusLoadFailed:
		s.logger.Warn("extractor: failed to load image, skipping",
			"file", outcome.Filename,
			"error", outcome.Result.Err)
	default:
		s.logger.Debug("extractor: no QR code found, skipping",
			"file", outcome.Filename,
			"error", outcome.Result.Err)
	}
}
