package ocr

import (
	"context"
	"time"
)

// FrameTimeout bounds one OCR call.
const FrameTimeout = 30 * time.Second

// UnknownConfidence marks lines whose engine reports no confidence.
const UnknownConfidence = -1.0

// Line is one recognized line of text with a 0–100 confidence.
type Line struct {
	Text       string
	Confidence float64
}

// Engine recognizes text in an image file.
type Engine interface {
	Recognize(ctx context.Context, imagePath, lang string) ([]Line, error)
	Close() error
}
