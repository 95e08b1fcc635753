package extractor

import "github.com/jo-hoe/qrextract/internal/qr"

// ImageRecord pairs a source filename with the QR payload decoded from it.
// The csv tags define the output header.
type ImageRecord struct {
	Filename string `csv:"Filename"`
	Value    string `csv:"QR Data"`
}

// FileOutcome is the decode result for one eligible file
type FileOutcome struct {
	Filename string
	Result   qr.Result
}

// ScanReport holds the records of a scan together with every per-file outcome,
// both in directory listing order.
type ScanReport struct {
	Records  []ImageRecord
	Outcomes []FileOutcome
}

// Count returns how many outcomes ended with the given status
func (r *ScanReport) Count(status qr.Status) int {
	count := 0
	for _, outcome := range r.Outcomes {
		if outcome.Result.Status == status {
			count++
		}
	}
	return count
}
