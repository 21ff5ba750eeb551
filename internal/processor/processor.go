package processor

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nguyentantai21042004/video-digest/internal/ingest"
	"github.com/nguyentantai21042004/video-digest/internal/logger"
	"github.com/nguyentantai21042004/video-digest/internal/scratch"
)

// run is the state of one pipeline execution.
type run struct {
	p       *implProcessor
	ctx     context.Context
	logger  logger.Logger
	scope   *scratch.Scope
	span    trace.Span
	state   State
	videoID string
	resp    Response
}

// Process orchestrates the entire pipeline for one upload and always returns
// exactly one Response. The uploaded video is released when the run ends.
func (p *implProcessor) Process(ctx context.Context, src ingest.Source) Response {
	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)
	ctx, span := p.tracer.Start(ctx, "processor.Process",
		trace.WithAttributes(attribute.String("run.id", runID)))
	defer span.End()

	r := &run{
		p:      p,
		ctx:    ctx,
		logger: p.logger,
		scope:  p.scratch.Scope(),
		state:  StateIdle,
	}

	startTime := time.Now()
	resp := r.execute(src)

	span.SetAttributes(
		attribute.String("video.id", resp.VideoID),
		attribute.String("run.status", string(resp.Status)),
	)
	if resp.Status == StatusFailed {
		span.SetStatus(codes.Error, resp.Error)
	}

	p.logger.Info(ctx, "Run finished in %s with status %s", time.Since(startTime).Round(time.Millisecond), resp.Status)
	return resp
}

func (r *run) execute(src ingest.Source) (resp Response) {
	defer func() {
		if v := recover(); v != nil {
			r.logger.Error(r.ctx, "Panic in pipeline run during %s: %v\n%s", r.state, v, debug.Stack())
			resp = r.fail(fmt.Sprintf("panic: %v", v))
		}
	}()

	if err := r.p.pool.acquire(r.ctx); err != nil {
		return r.fail(fmt.Sprintf("server busy: %v", err))
	}
	defer r.p.pool.release()

	ctx := r.enter(StateIngesting)
	up, err := r.p.ingestor.Ingest(ctx, src)
	r.videoID = up.VideoID
	if err != nil {
		return r.fail(ingestMessage(err))
	}
	r.scope.Track(r.ctx, up.Artifact)
	r.span.SetAttributes(attribute.Int64("video.bytes", up.Artifact.Size()))

	ctx = r.enter(StateValidating)
	outcome := r.p.validator.Validate(ctx, up.Artifact)
	if !outcome.Accepted() {
		return r.fail(outcome.Rejection().Error())
	}

	ctx = r.enter(StateExtractingAudio)
	audio := r.p.processAudio(ctx, up.Artifact)
	r.span.SetAttributes(attribute.Bool("audio.empty", audio.Empty))

	ctx = r.enter(StateExtractingFrames)
	frames := r.p.processFrames(ctx, up.Artifact, r.p.opts.FrameStep)
	r.span.SetAttributes(attribute.Int("frames.with_text", len(frames)))

	ctx = r.enter(StateSummarizing)
	summary := r.p.summarizer.Summarize(ctx, audio.Text, frames, up.Filename)
	if summary == "" {
		return r.fail("internal error: empty summary")
	}

	return r.complete(summary)
}

// enter moves to a non-terminal state, closing the previous stage span.
func (r *run) enter(to State) context.Context {
	r.transition(to)
	ctx, span := r.p.tracer.Start(r.ctx, "stage."+to.String())
	r.span = span
	return ctx
}

func (r *run) transition(to State) {
	if r.span != nil {
		r.span.End()
		r.span = nil
	}
	r.logger.Info(r.ctx, "State %s -> %s", r.state, to)
	r.state = to
	if r.p.opts.Observe != nil {
		r.p.opts.Observe(r.ctx, to)
	}
}

// finish enters a terminal state once and releases the run's artifacts.
func (r *run) finish(to State, resp Response) Response {
	if r.state.Terminal() {
		return r.resp
	}
	r.transition(to)
	r.scope.Close(r.ctx)
	r.resp = resp
	return resp
}

func (r *run) fail(msg string) Response {
	if r.span != nil {
		r.span.SetStatus(codes.Error, msg)
	}
	r.logger.Error(r.ctx, "Run failed in %s: %s", r.state, msg)
	return r.finish(StateFailed, Response{
		VideoID: r.videoID,
		Error:   msg,
		Status:  StatusFailed,
	})
}

func (r *run) complete(summary string) Response {
	r.logger.Info(r.ctx, "Processing completed successfully (%d characters)", len(summary))
	return r.finish(StateCompleted, Response{
		VideoID: r.videoID,
		Summary: summary,
		Status:  StatusCompleted,
	})
}

// ingestMessage maps an ingestion error to the response error text.
func ingestMessage(err error) string {
	var sizeErr *ingest.SizeExceededError
	var abortErr *ingest.AbortedError
	switch {
	case errors.Is(err, ingest.ErrNoData):
		return ingest.ErrNoData.Error()
	case errors.As(err, &sizeErr):
		return sizeErr.Error()
	case errors.As(err, &abortErr):
		return fmt.Sprintf("upload aborted: %v", abortErr.Err)
	default:
		return fmt.Sprintf("internal error: %v", err)
	}
}
