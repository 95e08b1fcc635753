package qr

import (
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// Status tags the outcome of decoding a single image
type Status int

const (
	// StatusDecoded means a QR symbol was found and its payload read
	StatusDecoded Status = iota
	// StatusLoadFailed means the file could not be read or decoded as an image
	StatusLoadFailed
	// StatusNoSymbol means the image loaded but no readable QR symbol was found
	StatusNoSymbol
)

func (s Status) String() string {
	switch s {
	case StatusDecoded:
		return "decoded"
	case StatusLoadFailed:
		return "load_failed"
	case StatusNoSymbol:
		return "no_symbol"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is the tagged outcome of a decode attempt.
// Text is only meaningful when Status is StatusDecoded.
type Result struct {
	Status Status
	Text   string
	Err    error
}

// OK reports whether the result carries a decoded payload
func (r Result) OK() bool {
	return r.Status == StatusDecoded
}

// Decoder locates and reads QR symbols in raster images.
// It is safe for concurrent use.
type Decoder struct {
	tryHarder bool
}

// NewDecoder creates a new QR decoder. With tryHarder the detector spends
// more time looking for symbols in difficult images.
func NewDecoder(tryHarder bool) *Decoder {
	return &Decoder{tryHarder: tryHarder}
}

// Decode loads the image at path and returns the payload of the first QR
// symbol the detector reports. When an image holds several symbols, which one
// is returned is decided by the detector.
func (d *Decoder) Decode(path string) Result {
	img, _, err := LoadImage(path)
	if err != nil {
		return Result{Status: StatusLoadFailed, Err: err}
	}
	return d.DecodeImage(img)
}

// DecodeImage runs QR detection on an already loaded image
func (d *Decoder) DecodeImage(img image.Image) (result Result) {
	if img == nil || img.Bounds().Empty() {
		return Result{Status: StatusLoadFailed, Err: fmt.Errorf("invalid image buffer")}
	}

	// gozxing panics on some degenerate inputs
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("qr: detector panicked", "panic", r)
			result = Result{Status: StatusNoSymbol, Err: fmt.Errorf("qr detector panicked: %v", r)}
		}
	}()

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return Result{Status: StatusLoadFailed, Err: fmt.Errorf("failed to binarize image: %w", err)}
	}

	// a fresh reader per call keeps the decoder free of shared state
	reader := qrcode.NewQRCodeReader()
	decoded, err := reader.Decode(bmp, d.hints())
	if err != nil {
		return Result{Status: StatusNoSymbol, Err: err}
	}

	return resultFromText(decoded.GetText())
}

// resultFromText turns a decoded payload into a Result. An empty payload
// carries nothing to record and counts as no symbol.
func resultFromText(text string) Result {
	if text == "" {
		return Result{Status: StatusNoSymbol, Err: fmt.Errorf("qr symbol has an empty payload")}
	}
	return Result{
		Status: StatusDecoded,
		Text:   strings.ToValidUTF8(text, "\uFFFD"),
	}
}

func (d *Decoder) hints() map[gozxing.DecodeHintType]interface{} {
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_CHARACTER_SET: "UTF-8",
	}
	if d.tryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}
	return hints
}
