package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/nguyentantai21042004/video-digest/internal/logger"
)

type visionEngine struct {
	client *vision.ImageAnnotatorClient
	logger logger.Logger
}

// NewVision creates an Engine backed by Google Cloud Vision TEXT_DETECTION.
// Credentials come from Application Default Credentials.
func NewVision(ctx context.Context, log logger.Logger) (Engine, error) {
	client, err := vision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &visionEngine{client: client, logger: log}, nil
}

func (e *visionEngine) Recognize(ctx context.Context, imagePath, lang string) ([]Line, error) {
	img, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	if len(img) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, FrameTimeout)
	defer cancel()

	req := &visionpb.AnnotateImageRequest{
		Image: &visionpb.Image{Content: img},
		Features: []*visionpb.Feature{
			{Type: visionpb.Feature_TEXT_DETECTION},
		},
	}
	if hint := visionLanguage(lang); hint != "" {
		req.ImageContext = &visionpb.ImageContext{LanguageHints: []string{hint}}
	}

	resp, err := e.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{req},
	})
	if err != nil {
		return nil, fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if resp == nil || len(resp.Responses) == 0 {
		return nil, nil
	}
	return visionLines(resp.Responses[0])
}

// visionLines splits the full text annotation into lines. TEXT_DETECTION leaves block
// confidences at zero, so lines only carry a confidence when at least one block reports it.
func visionLines(r *visionpb.AnnotateImageResponse) ([]Line, error) {
	if r == nil {
		return nil, nil
	}
	if r.Error != nil && r.Error.Message != "" {
		return nil, fmt.Errorf("vision annotate error: %s", r.Error.Message)
	}

	fta := r.FullTextAnnotation
	if fta == nil || strings.TrimSpace(fta.Text) == "" {
		return nil, nil
	}

	conf := UnknownConfidence
	var sum float64
	var n int
	for _, pg := range fta.Pages {
		if pg == nil {
			continue
		}
		for _, b := range pg.Blocks {
			if b == nil || b.Confidence <= 0 {
				continue
			}
			sum += float64(b.Confidence)
			n++
		}
	}
	if n > 0 {
		conf = sum / float64(n) * 100
	}

	var lines []Line
	for _, l := range strings.Split(fta.Text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, Line{Text: l, Confidence: conf})
		}
	}
	return lines, nil
}

func (e *visionEngine) Close() error {
	return e.client.Close()
}

// visionLanguage maps tesseract language codes to the BCP-47 hints Vision expects.
func visionLanguage(lang string) string {
	first := strings.SplitN(lang, "+", 2)[0]
	switch first {
	case "rus":
		return "ru"
	case "eng":
		return "en"
	case "ukr":
		return "uk"
	case "deu":
		return "de"
	case "fra":
		return "fr"
	case "spa":
		return "es"
	default:
		return first
	}
}
