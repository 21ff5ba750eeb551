package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nguyentantai21042004/video-digest/internal/scratch"
)

// Upload is the outcome of ingestion. VideoID and Filename are set to whatever the
// stream supplied even when Ingest returns an error; Artifact is non-nil only on success
// and is then owned by the caller.
type Upload struct {
	VideoID  string
	Filename string
	Artifact *scratch.Artifact
	Chunks   int
}

// Ingest consumes src until io.EOF, writing payloads straight to a scratch artifact.
func (i *implIngestor) Ingest(ctx context.Context, src Source) (Upload, error) {
	var up Upload

	a, f, err := i.scratch.Create(i.suffix)
	if err != nil {
		return up, fmt.Errorf("create upload artifact: %w", err)
	}

	// The partial artifact is closed and deleted on every path that does not hand it to
	// the caller, including a panic out of src.Recv.
	committed := false
	defer func() {
		if !committed {
			_ = f.Close()
			i.scratch.Release(ctx, a)
		}
	}()

	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return up, &AbortedError{Received: total, Err: err}
		}

		chunk, err := src.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			i.logger.Warn(ctx, "Upload stream broke off after %d chunks, %d bytes: %v", up.Chunks, total, err)
			return up, &AbortedError{Received: total, Err: err}
		}
		up.Chunks++

		if chunk.Filename != "" && up.Filename == "" {
			up.Filename = chunk.Filename
			i.logger.Info(ctx, "Filename received: %s", up.Filename)
		}
		if chunk.VideoID != "" && up.VideoID == "" {
			up.VideoID = chunk.VideoID
			i.logger.Info(ctx, "Video ID received: %s", up.VideoID)
		}

		if len(chunk.Data) > 0 {
			n, err := f.Write(chunk.Data)
			total += int64(n)
			if err != nil {
					return up, fmt.Errorf("write upload artifact: %w", err)
			}
		}

		if total > i.limit {
			return up, &SizeExceededError{Total: total, Limit: i.limit}
		}

		if up.Chunks%10 == 0 {
			i.logger.Debug(ctx, "Receiving progress: %d chunks, %d bytes", up.Chunks, total)
		}
	}

	if total == 0 {
		return up, ErrNoData
	}

	if err := f.Close(); err != nil {
		return up, fmt.Errorf("close upload artifact: %w", err)
	}

	committed = true
	a.SetSize(total)
	up.Artifact = a
	i.logger.Info(ctx, "File completely received: %d chunks, %d bytes -> %s", up.Chunks, total, a.Path)
	return up, nil
}
