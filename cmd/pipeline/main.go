package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/nguyentantai21042004/video-digest/internal/config"
	"github.com/nguyentantai21042004/video-digest/internal/ingest"
	"github.com/nguyentantai21042004/video-digest/internal/logger"
	"github.com/nguyentantai21042004/video-digest/internal/media"
	"github.com/nguyentantai21042004/video-digest/internal/observability"
	"github.com/nguyentantai21042004/video-digest/internal/ocr"
	"github.com/nguyentantai21042004/video-digest/internal/processor"
	"github.com/nguyentantai21042004/video-digest/internal/scratch"
	"github.com/nguyentantai21042004/video-digest/internal/summarizer"
	"github.com/nguyentantai21042004/video-digest/internal/transcriber"
	"github.com/nguyentantai21042004/video-digest/internal/transport"
	"github.com/nguyentantai21042004/video-digest/internal/validator"
	"github.com/nguyentantai21042004/video-digest/internal/watcher"
	"github.com/nguyentantai21042004/video-digest/pkg/executor"
)

const serviceName = "video-digest"

var version = "dev"

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "optional YAML config file")
	flag.Parse()

	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error(context.Background(), "Video digest server stopped with error: %v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Video Digest Processor %s", version)
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s, CPU cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	log.Info(ctx, "Max workers: %d", cfg.Server.MaxWorkers)
	log.Info(ctx, "Limits: %d-%d bytes, %.0fs", cfg.Limits.MinFileSize, cfg.Limits.MaxFileSize, cfg.Limits.MaxVideoDuration)

	shutdownTracing, err := observability.InitTracing(ctx, log, observability.TracingConfig{
		ServiceName: serviceName,
		Version:     version,
		Exporter:    cfg.Tracing.Exporter,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn(ctx, "Tracing shutdown failed: %v", err)
		}
	}()

	proc, closeOCR, err := buildProcessor(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeOCR()

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.Port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", cfg.Server.Port, err)
	}

	gs := grpc.NewServer(transport.ServerOptions(cfg.Server.MaxMessageSize)...)
	transport.RegisterVideoProcessorServer(gs, transport.NewServer(proc, log))
	hs := health.NewServer()
	hs.SetServingStatus(transport.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info(gctx, "gRPC server listening on %s", lis.Addr())
		if err := gs.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	if cfg.WatchEnabled() {
		w, err := newWatcher(cfg, proc, log)
		if err != nil {
			gs.Stop()
			return err
		}
		defer w.Stop()

		g.Go(func() error {
			return w.Start(gctx)
		})
		log.Info(ctx, "Drop folder: %s -> %s", cfg.Paths.WatchInput, cfg.Paths.WatchOutput)
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info(ctx, "Shutting down gracefully...")
		hs.Shutdown()
		gs.GracefulStop()
		return nil
	})

	log.Info(ctx, "Video digest server is ready. Press Ctrl+C to stop")

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info(ctx, "Video digest server stopped")
	return nil
}

// buildProcessor wires the pipeline collaborators. The returned func closes the OCR engine.
func buildProcessor(ctx context.Context, cfg *config.Config, log logger.Logger) (processor.Processor, func(), error) {
	exec := executor.New()

	sm, err := scratch.New(cfg.Paths.Temp, log)
	if err != nil {
		return nil, nil, err
	}
	toolkit := media.New(exec, log)

	engine, err := newOCREngine(ctx, cfg, exec, log)
	if err != nil {
		return nil, nil, err
	}
	closeOCR := func() {
		if err := engine.Close(); err != nil {
			log.Warn(ctx, "Failed to close OCR engine: %v", err)
		}
	}

	var refiner summarizer.Refiner
	if len(cfg.Gemini.APIKeys) > 0 {
		refiner, err = summarizer.NewGemini(cfg.Gemini.APIKeys, cfg.Gemini.Model, log)
		if err != nil {
			closeOCR()
			return nil, nil, err
		}
		log.Info(ctx, "Gemini refinement enabled (%s, %d keys)", cfg.Gemini.Model, len(cfg.Gemini.APIKeys))
	}

	proc := processor.New(processor.Deps{
		Ingestor: ingest.New(sm, log, cfg.Limits.MaxFileSize),
		Validator: validator.New(validator.Limits{
			MinBytes:    cfg.Limits.MinFileSize,
			MaxBytes:    cfg.Limits.MaxFileSize,
			MaxDuration: cfg.Limits.MaxVideoDuration,
			FailOpen:    cfg.Limits.FailOpen(),
		}, toolkit, log),
		Media: toolkit,
		Transcriber: transcriber.New(transcriber.Options{
			BinaryPath: cfg.Whisper.BinaryPath,
			Model:      cfg.Whisper.Model,
			ModelDir:   cfg.Whisper.ModelDir,
			Language:   cfg.Whisper.Language,
			ForceCPU:   cfg.Whisper.ForceCPU,
			WorkDir:    sm.Root(),
		}, exec, log),
		OCR:        engine,
		Scratch:    sm,
		Summarizer: summarizer.New(refiner, log),
		Logger:     log,
	}, processor.Options{
		MaxWorkers:  cfg.Server.MaxWorkers,
		FrameStep:   cfg.Frames.Step,
		MaxFrames:   cfg.Frames.MaxFrames,
		OCRLanguage: cfg.OCR.Language,
	})

	return proc, closeOCR, nil
}

func newOCREngine(ctx context.Context, cfg *config.Config, exec executor.Executor, log logger.Logger) (ocr.Engine, error) {
	switch cfg.OCR.Engine {
	case "vision":
		log.Info(ctx, "OCR engine: Google Cloud Vision")
		return ocr.NewVision(ctx, log)
	default:
		log.Info(ctx, "OCR engine: %s (%s)", cfg.OCR.BinaryPath, cfg.OCR.Language)
		return ocr.NewTesseract(exec, log, cfg.OCR.BinaryPath), nil
	}
}

func newWatcher(cfg *config.Config, proc processor.Processor, log logger.Logger) (watcher.Watcher, error) {
	for _, dir := range []string{cfg.Paths.WatchInput, cfg.Paths.WatchOutput} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	handler := watcher.NewDigestHandler(proc, cfg.Paths.WatchOutput, log)
	w, err := watcher.New(cfg.Paths.WatchInput, handler, log, cfg.Server.MaxWorkers)
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return w, nil
}
