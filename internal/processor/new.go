package processor

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/nguyentantai21042004/video-digest/internal/ingest"
	"github.com/nguyentantai21042004/video-digest/internal/logger"
	"github.com/nguyentantai21042004/video-digest/internal/media"
	"github.com/nguyentantai21042004/video-digest/internal/ocr"
	"github.com/nguyentantai21042004/video-digest/internal/scratch"
	"github.com/nguyentantai21042004/video-digest/internal/summarizer"
	"github.com/nguyentantai21042004/video-digest/internal/transcriber"
	"github.com/nguyentantai21042004/video-digest/internal/validator"
)

const tracerName = "github.com/nguyentantai21042004/video-digest/internal/processor"

// Deps are the collaborators a Processor drives.
type Deps struct {
	Ingestor    ingest.Ingestor
	Validator   validator.Validator
	Media       media.Toolkit
	Transcriber transcriber.Transcriber
	OCR         ocr.Engine
	Scratch     scratch.Manager
	Summarizer  summarizer.Summarizer
	Logger      logger.Logger
}

// Options tune the pipeline.
type Options struct {
	MaxWorkers  int
	FrameStep   float64
	MaxFrames   int
	OCRLanguage string
	Filter      TextFilter
	DedupWindow int
	// Observe, when set, is called on every state transition of every run.
	Observe func(ctx context.Context, s State)
}

type implProcessor struct {
	ingestor    ingest.Ingestor
	validator   validator.Validator
	media       media.Toolkit
	transcriber transcriber.Transcriber
	ocr         ocr.Engine
	scratch     scratch.Manager
	summarizer  summarizer.Summarizer
	logger      logger.Logger
	tracer      trace.Tracer

	opts Options
	pool *semaphore
}

// New creates a Processor. Zero options fall back to the documented defaults.
func New(deps Deps, opts Options) Processor {
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = 2
	}
	if opts.FrameStep <= 0 {
		opts.FrameStep = 2.0
	}
	if opts.MaxFrames <= 0 {
		opts.MaxFrames = 300
	}
	if opts.OCRLanguage == "" {
		opts.OCRLanguage = "rus"
	}
	if opts.Filter == (TextFilter{}) {
		opts.Filter = DefaultTextFilter()
	}
	if opts.DedupWindow <= 0 {
		opts.DedupWindow = DefaultDedupWindow
	}

	return &implProcessor{
		ingestor:    deps.Ingestor,
		validator:   deps.Validator,
		media:       deps.Media,
		transcriber: deps.Transcriber,
		ocr:         deps.OCR,
		scratch:     deps.Scratch,
		summarizer:  deps.Summarizer,
		logger:      deps.Logger,
		tracer:      otel.Tracer(tracerName),
		opts:        opts,
		pool:        newSemaphore(opts.MaxWorkers),
	}
}
