package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/nguyentantai21042004/video-digest/internal/logger"
	"github.com/nguyentantai21042004/video-digest/internal/transport"
)

func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", envOr("GRPC_SERVER_ADDR", "localhost:50051"), "processor address")
	videoID := flag.String("id", "", "video id sent with the upload (random when empty)")
	chunkSize := flag.Int("chunk", transport.DefaultChunkSize, "chunk size in bytes")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall request timeout")
	maxMsg := flag.Int("max-message", 500*1024*1024, "gRPC message size limit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <video file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	log := logger.New(envOr("LOG_LEVEL", "info"), "console")
	defer log.Sync()

	if *videoID == "" {
		*videoID = uuid.NewString()
	}

	if err := upload(log, *addr, *videoID, flag.Arg(0), *chunkSize, *maxMsg, *timeout); err != nil {
		log.Error(context.Background(), "%v", err)
		os.Exit(1)
	}
}

func upload(log logger.Logger, addr, videoID, path string, chunkSize, maxMsg int, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open video: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat video: %w", err)
	}

	conn, err := transport.Dial(addr, maxMsg)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Info(ctx, "Uploading %s (%d bytes) to %s as %s", path, info.Size(), addr, videoID)
	start := time.Now()

	resp, err := transport.NewClient(conn, chunkSize).ProcessVideo(ctx, videoID, filepath.Base(path), f)
	if err != nil {
		return fmt.Errorf("process video: %w", err)
	}

	log.Info(ctx, "Finished in %s with status %s", time.Since(start).Round(time.Millisecond), resp.Status)
	if resp.Status != "completed" {
		return fmt.Errorf("processing failed: %s", resp.Error)
	}

	fmt.Println(resp.Summary)
	return nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
