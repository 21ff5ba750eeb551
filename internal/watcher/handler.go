package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/video-digest/internal/ingest"
	"github.com/nguyentantai21042004/video-digest/internal/logger"
	"github.com/nguyentantai21042004/video-digest/internal/processor"
	"github.com/nguyentantai21042004/video-digest/internal/summarizer"
)

// NewDigestHandler returns an EventHandler that runs each dropped video through p and
// writes the digest to outDir as <name>.md and <name>.docx, or the failure reason to
// <name>.error.txt. The input file is left in place.
func NewDigestHandler(p processor.Processor, outDir string, log logger.Logger) EventHandler {
	return func(ctx context.Context, filePath string) error {
		f, err := os.Open(filePath)
		if err != nil {
			return fmt.Errorf("open video: %w", err)
		}
		defer f.Close()

		filename := filepath.Base(filePath)
		name := strings.TrimSuffix(filename, filepath.Ext(filename))
		videoID := uuid.NewString()

		resp := p.Process(ctx, ingest.ReaderSource(f, ingest.DefaultChunkSize, videoID, filename))

		if resp.Status != processor.StatusCompleted {
			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			errPath := filepath.Join(outDir, name+".error.txt")
			if err := os.WriteFile(errPath, []byte(resp.Error+"\n"), 0644); err != nil {
				log.Warn(ctx, "Failed to write %s: %v", errPath, err)
			}
			return fmt.Errorf("processing failed: %s", resp.Error)
		}

		mdPath, docxPath, err := summarizer.WriteDigest(outDir, name, resp.Summary, time.Now())
		if err != nil {
			return err
		}

		log.Info(ctx, "[DONE] %s -> %s, %s", filename, mdPath, docxPath)
		return nil
	}
}
