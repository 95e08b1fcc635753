// Package qrtest generates QR fixture images for tests.
package qrtest

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"golang.org/x/image/bmp"
)

// RenderSymbol draws a QR code carrying payload into a size x size grayscale image
func RenderSymbol(payload string, size int) (*image.Gray, error) {
	writer := qrcode.NewQRCodeWriter()
	hints := map[gozxing.EncodeHintType]interface{}{
		gozxing.EncodeHintType_CHARACTER_SET: "UTF-8",
	}
	matrix, err := writer.Encode(payload, gozxing.BarcodeFormat_QR_CODE, size, size, hints)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR payload: %w", err)
	}

	w, h := matrix.GetWidth(), matrix.GetHeight()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if matrix.Get(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img, nil
}

// BlankImage returns a white size x size image with no symbol on it
func BlankImage(size int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size, size))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

// EncodeAs serializes img in the format implied by the file extension of name
func EncodeAs(name string, img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".png"):
		err = png.Encode(&buf, img)
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95})
	case strings.HasSuffix(lower, ".gif"):
		err = gif.Encode(&buf, img, nil)
	case strings.HasSuffix(lower, ".bmp"):
		err = bmp.Encode(&buf, img)
	default:
		return nil, fmt.Errorf("unsupported image extension: %s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// WriteSymbolFile renders payload as a QR code and writes it to dir/name,
// encoded according to the extension of name.
func WriteSymbolFile(dir, name, payload string) error {
	img, err := RenderSymbol(payload, 256)
	if err != nil {
		return err
	}
	return writeImageFile(dir, name, img)
}

// WriteBlankFile writes an image without any symbol to dir/name
func WriteBlankFile(dir, name string) error {
	return writeImageFile(dir, name, BlankImage(128))
}

func writeImageFile(dir, name string, img image.Image) error {
	data, err := EncodeAs(name, img)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
