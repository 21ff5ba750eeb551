package processor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/video-digest/internal/ingest"
	"github.com/nguyentantai21042004/video-digest/internal/logger"
	"github.com/nguyentantai21042004/video-digest/internal/ocr"
	"github.com/nguyentantai21042004/video-digest/internal/scratch"
	"github.com/nguyentantai21042004/video-digest/internal/summarizer"
	"github.com/nguyentantai21042004/video-digest/internal/transcriber"
	"github.com/nguyentantai21042004/video-digest/internal/validator"
)

type fakeMedia struct {
	mu sync.Mutex

	duration    float64
	durationErr error
	hasAudio    bool
	probeErr    error
	extractErr  error
	audioBytes  []byte
	frameCount  int
	sampleErrs  []error
	remuxErr    error
	hold        time.Duration

	calls    map[string]int
	inFlight int
	peak     int
}

func (f *fakeMedia) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeMedia) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeMedia) Duration(ctx context.Context, videoPath string) (float64, error) {
	f.record("duration")
	return f.duration, f.durationErr
}

func (f *fakeMedia) HasAudio(ctx context.Context, videoPath string) (bool, error) {
	f.record("has_audio")
	if f.hold > 0 {
		f.mu.Lock()
		f.inFlight++
		if f.inFlight > f.peak {
			f.peak = f.inFlight
		}
		f.mu.Unlock()
		time.Sleep(f.hold)
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}
	return f.hasAudio, f.probeErr
}

func (f *fakeMedia) ExtractAudio(ctx context.Context, videoPath, outPath string) error {
	f.record("extract_audio")
	if f.extractErr != nil {
		return f.extractErr
	}
	return os.WriteFile(outPath, f.audioBytes, 0o644)
}

func (f *fakeMedia) Remux(ctx context.Context, videoPath, outPath string) error {
	f.record("remux")
	if f.remuxErr != nil {
		return f.remuxErr
	}
	data, err := os.ReadFile(videoPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}

func (f *fakeMedia) SampleFrames(ctx context.Context, videoPath, outDir string, interval float64, maxFrames int) ([]string, error) {
	f.mu.Lock()
	n := 0
	if f.calls != nil {
		n = f.calls["sample_frames"]
	}
	var err error
	if n < len(f.sampleErrs) {
		err = f.sampleErrs[n]
	}
	f.mu.Unlock()
	f.record("sample_frames")
	if err != nil {
		return nil, err
	}

	var frames []string
	for i := 1; i <= f.frameCount && (maxFrames <= 0 || i <= maxFrames); i++ {
		path := filepath.Join(outDir, fmt.Sprintf("frame_%06d.png", i))
		if err := writeFrame(path); err != nil {
			return nil, err
		}
		frames = append(frames, path)
	}
	return frames, nil
}

func writeFrame(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, image.NewGray(image.Rect(0, 0, 64, 36)))
}

type fakeTranscriber struct {
	text  string
	err   error
	panic string

	calls     int
	sawBytes  int
	audioPath string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f.calls++
	f.audioPath = audioPath
	if data, err := os.ReadFile(audioPath); err == nil {
		f.sawBytes = len(data)
	}
	if f.panic != "" {
		panic(f.panic)
	}
	return f.text, f.err
}

func (f *fakeTranscriber) Handle(ctx context.Context) (*transcriber.Handle, error) {
	return &transcriber.Handle{Device: transcriber.DeviceCPU}, nil
}

// fakeOCR answers by frame number, so both the raw and the preprocessed
// frame resolve to the same lines.
type fakeOCR struct {
	mu     sync.Mutex
	lines  map[string][]ocr.Line
	errs   map[string]error
	inputs []string
	langs  []string
}

func (f *fakeOCR) Recognize(ctx context.Context, imagePath, lang string) ([]ocr.Line, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, imagePath)
	f.langs = append(f.langs, lang)

	key := strings.TrimSuffix(strings.TrimSuffix(filepath.Base(imagePath), ".png"), "_ocr")
	if err := f.errs[key]; err != nil {
		return nil, err
	}
	return f.lines[key], nil
}

func (f *fakeOCR) Close() error { return nil }

// sliceSource replays chunks, then returns err (io.EOF when nil).
type sliceSource struct {
	chunks []*ingest.Chunk
	err    error
	recvs  int
}

func (s *sliceSource) Recv() (*ingest.Chunk, error) {
	s.recvs++
	if len(s.chunks) == 0 {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	c := s.chunks[0]
	s.chunks = s.chunks[1:]
	return c, nil
}

// panicSource replays chunks, then panics with msg.
type panicSource struct {
	*sliceSource
	msg string
}

func (s *panicSource) Recv() (*ingest.Chunk, error) {
	if len(s.chunks) == 0 {
		panic(s.msg)
	}
	return s.sliceSource.Recv()
}

// upload splits size bytes into chunks of chunkSize; the first chunk carries metadata.
func upload(videoID, filename string, size, chunkSize int) *sliceSource {
	src := &sliceSource{}
	for sent := 0; sent < size; sent += chunkSize {
		n := chunkSize
		if size-sent < n {
			n = size - sent
		}
		c := &ingest.Chunk{Data: make([]byte, n)}
		if sent == 0 {
			c.VideoID = videoID
			c.Filename = filename
		}
		src.chunks = append(src.chunks, c)
	}
	return src
}

var errStreamReset = errors.New("stream reset by peer")

type harness struct {
	proc   Processor
	root   string
	media  *fakeMedia
	trans  *fakeTranscriber
	ocr    *fakeOCR
	states []State
	mu     sync.Mutex
}

func newHarness(t *testing.T, fm *fakeMedia, ft *fakeTranscriber, fo *fakeOCR, opts Options) *harness {
	t.Helper()
	log := logger.NewNop()

	root := filepath.Join(t.TempDir(), "scratch")
	sm, err := scratch.New(root, log)
	if err != nil {
		t.Fatal(err)
	}

	const maxBytes = 10 << 20
	h := &harness{root: root, media: fm, trans: ft, ocr: fo}
	if opts.Observe == nil {
		opts.Observe = func(ctx context.Context, s State) {
			h.mu.Lock()
			h.states = append(h.states, s)
			h.mu.Unlock()
		}
	}

	h.proc = New(Deps{
		Ingestor: ingest.New(sm, log, maxBytes),
		Validator: validator.New(validator.Limits{
			MinBytes:    1024,
			MaxBytes:    maxBytes,
			MaxDuration: 300,
			FailOpen:    true,
		}, fm, log),
		Media:       fm,
		Transcriber: ft,
		OCR:         fo,
		Scratch:     sm,
		Summarizer:  summarizer.New(nil, log),
		Logger:      log,
	}, opts)
	return h
}

// assertClean fails when anything is left in the scratch root.
func (h *harness) assertClean(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(h.root)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		t.Errorf("residual scratch entry: %s", e.Name())
	}
}
