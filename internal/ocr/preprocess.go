package ocr

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// MinOCRWidth is the width frames are upscaled to before OCR; small captions
// recognize poorly below it.
const MinOCRWidth = 1280

// Preprocess decodes a frame, converts it to grayscale, upscales narrow frames to
// MinOCRWidth and writes the result next to the source as <name>_ocr.png.
func Preprocess(framePath string) (string, error) {
	f, err := os.Open(framePath)
	if err != nil {
		return "", fmt.Errorf("open frame: %w", err)
	}
	src, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return "", fmt.Errorf("decode frame: %w", err)
	}

	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return "", fmt.Errorf("decode frame: empty image")
	}

	w, h := b.Dx(), b.Dy()
	if w < MinOCRWidth {
		h = h * MinOCRWidth / w
		w = MinOCRWidth
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == b.Dx() {
		xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	} else {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	}

	out := strings.TrimSuffix(framePath, filepath.Ext(framePath)) + "_ocr.png"
	of, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("create preprocessed frame: %w", err)
	}
	if err := png.Encode(of, dst); err != nil {
		of.Close()
		return "", fmt.Errorf("encode preprocessed frame: %w", err)
	}
	if err := of.Close(); err != nil {
		return "", fmt.Errorf("close preprocessed frame: %w", err)
	}
	return out, nil
}
