package core

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jo-hoe/qrextract/internal/csvexport"
	"github.com/jo-hoe/qrextract/internal/extractor"
	"github.com/jo-hoe/qrextract/internal/qr"
)

type CoreService struct {
	config  *ExtractConfig
	scanner *extractor.Scanner
	logger  *slog.Logger
}

// NewCoreService wires a scanner for the given configuration. A nil decoder
// selects the gozxing based QR decoder.
func NewCoreService(config *ExtractConfig, decoder extractor.Decoder) *CoreService {
	if decoder == nil {
		decoder = qr.NewDecoder(config.TryHarder)
	}
	logger := slog.Default().With("run_id", uuid.NewString())

	return &CoreService{
		config:  config,
		scanner: extractor.NewScanner(decoder, config.Workers, logger),
		logger:  logger,
	}
}

// Run scans the source directory, writes the CSV file and prints a
// confirmation to out. The output file is only touched once the scan succeeded.
func (service *CoreService) Run(out io.Writer) error {
	service.logger.Info("starting batch run",
		"source_dir", service.config.SourceDir,
		"output_csv", service.config.OutputCSV)

	report, err := service.scanner.Scan(service.config.SourceDir)
	if err != nil {
		return err
	}

	service.logger.Info("scan complete",
		"eligible", len(report.Outcomes),
		"decoded", report.Count(qr.StatusDecoded),
		"load_failed", report.Count(qr.StatusLoadFailed),
		"no_symbol", report.Count(qr.StatusNoSymbol))

	if err := csvexport.WriteCSV(report.Records, service.config.OutputCSV); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(out, "CSV file written to %s\n", service.config.OutputCSV); err != nil {
		service.logger.Warn("failed to print confirmation", "error", err)
	}
	return nil
}
