package csvexport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/jo-hoe/qrextract/internal/extractor"
)

func TestWriteCSV_ExpectedOutput(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "qr_codes.csv")
	records := []extractor.ImageRecord{
		{Filename: "a.png", Value: "X1"},
		{Filename: "c.bmp", Value: "X2"},
	}

	if err := WriteCSV(records, outputPath); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	expected := "Filename,QR Data\na.png,X1\nc.bmp,X2\n"
	if string(data) != expected {
		t.Errorf("Expected output %q, got %q", expected, string(data))
	}
}

func TestWriteCSV_HeaderOnlyForNoRecords(t *testing.T) {
	tests := []struct {
		name    string
		records []extractor.ImageRecord
	}{
		{name: "Nil slice", records: nil},
		{name: "Empty slice", records: []extractor.ImageRecord{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputPath := filepath.Join(t.TempDir(), "out.csv")
			if err := WriteCSV(tt.records, outputPath); err != nil {
				t.Fatalf("WriteCSV failed: %v", err)
			}
			data, err := os.ReadFile(outputPath)
			if err != nil {
				t.Fatalf("Failed to read output: %v", err)
			}
			if string(data) != "Filename,QR Data\n" {
				t.Errorf("Expected header only, got %q", string(data))
			}
		})
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "out.csv")
	records := []extractor.ImageRecord{
		{Filename: "plain.png", Value: "guest-42"},
		{Filename: "comma.jpg", Value: "Doe, Jane"},
		{Filename: "quote.gif", Value: `say "hi"`},
		{Filename: "newline.bmp", Value: "line1\nline2"},
		{Filename: "unicode, name.png", Value: "Zoë"},
	}

	if err := WriteCSV(records, outputPath); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	file, err := os.Open(outputPath)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse output: %v", err)
	}
	if len(rows) != len(records)+1 {
		t.Fatalf("Expected %d rows, got %d", len(records)+1, len(rows))
	}
	if rows[0][0] != "Filename" || rows[0][1] != "QR Data" {
		t.Errorf("Unexpected header %v", rows[0])
	}
	for i, record := range records {
		row := rows[i+1]
		if len(row) != 2 || row[0] != record.Filename || row[1] != record.Value {
			t.Errorf("Row %d: expected %v, got %v", i, record, row)
		}
	}
}

func TestMarshal_UnmarshalsIntoRecords(t *testing.T) {
	records := []extractor.ImageRecord{
		{Filename: "a.png", Value: "X1"},
		{Filename: "b.png", Value: "X,2"},
	}

	var buf bytes.Buffer
	if err := Marshal(records, &buf); err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var parsed []extractor.ImageRecord
	if err := gocsv.Unmarshal(&buf, &parsed); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(parsed) != len(records) {
		t.Fatalf("Expected %d records, got %d", len(records), len(parsed))
	}
	for i := range records {
		if parsed[i] != records[i] {
			t.Errorf("Record %d: expected %v, got %v", i, records[i], parsed[i])
		}
	}
}

func TestWriteCSV_OverwritesExistingFile(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "out.csv")
	if err := os.WriteFile(outputPath, []byte("stale content that is longer than the new output\n"), 0644); err != nil {
		t.Fatalf("Failed to seed output: %v", err)
	}

	if err := WriteCSV([]extractor.ImageRecord{{Filename: "a.png", Value: "X1"}}, outputPath); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if string(data) != "Filename,QR Data\na.png,X1\n" {
		t.Errorf("Expected file to be replaced, got %q", string(data))
	}
}

func TestWriteCSV_UnwritablePath(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "missing", "out.csv")

	err := WriteCSV(nil, outputPath)
	if err == nil {
		t.Fatal("Expected error for missing parent directory, got nil")
	}

	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("Expected *WriteError, got %T", err)
	}
	if writeErr.Path != outputPath {
		t.Errorf("Expected path %s, got %s", outputPath, writeErr.Path)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected error to unwrap to os.ErrNotExist, got %v", err)
	}
}
