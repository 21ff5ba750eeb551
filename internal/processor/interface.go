package processor

import (
	"context"

	"github.com/nguyentantai21042004/video-digest/internal/ingest"
)

// Status is the terminal status carried by a Response.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Response is the single result of a pipeline run. Exactly one of Summary and Error
// is set; VideoID echoes whatever the upload supplied.
type Response struct {
	VideoID string
	Summary string
	Error   string
	Status  Status
}

// Extraction is what one modality stage produced. Empty is a normal outcome.
type Extraction struct {
	Text  string
	Empty bool
}

// Processor runs one upload through the whole pipeline.
type Processor interface {
	Process(ctx context.Context, src ingest.Source) Response
}
