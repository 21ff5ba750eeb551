package ingest

import "context"

// Chunk is one message of an upload stream. Empty VideoID or Filename means the
// field is not set on this chunk.
type Chunk struct {
	VideoID  string
	Filename string
	Data     []byte
}

// Source yields the chunks of one upload in arrival order. Recv returns io.EOF after
// the last chunk; any other error means the stream was abandoned.
type Source interface {
	Recv() (*Chunk, error)
}

// Ingestor materializes an upload stream into a scratch artifact.
type Ingestor interface {
	Ingest(ctx context.Context, src Source) (Upload, error)
}
