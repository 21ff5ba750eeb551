package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/nguyentantai21042004/video-digest/internal/ingest"
	"github.com/nguyentantai21042004/video-digest/internal/logger"
	"github.com/nguyentantai21042004/video-digest/internal/processor"
)

func TestVideoChunkWireFormat(t *testing.T) {
	m := &VideoChunk{VideoID: "v1", Filename: "a.mp4", Data: []byte{0x01, 0x02}}

	got, err := Codec().Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0x0a, 0x02, 'v', '1',
		0x12, 0x05, 'a', '.', 'm', 'p', '4',
		0x1a, 0x02, 0x01, 0x02,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Marshal() = % x, want % x", got, want)
	}

	var back VideoChunk
	if err := Codec().Unmarshal(got, &back); err != nil {
		t.Fatal(err)
	}
	got[len(got)-1] = 0xff
	if back.VideoID != "v1" || back.Filename != "a.mp4" || !bytes.Equal(back.Data, []byte{0x01, 0x02}) {
		t.Errorf("Unmarshal() = %+v", back)
	}
}

func TestProcessResponseWireFormat(t *testing.T) {
	m := &ProcessResponse{VideoID: "v", Error: "boom", Status: "failed"}

	got, err := Codec().Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0x0a, 0x01, 'v',
		0x1a, 0x04, 'b', 'o', 'o', 'm',
		0x22, 0x06, 'f', 'a', 'i', 'l', 'e', 'd',
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Marshal() = % x, want % x", got, want)
	}
}

func TestUnmarshalSkipsUnknownFields(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 9, protowire.VarintType)
	b = protowire.AppendVarint(b, 300)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendString(b, "clip.mp4")
	b = protowire.AppendTag(b, 10, protowire.BytesType)
	b = protowire.AppendString(b, "ignored")

	var m VideoChunk
	if err := Codec().Unmarshal(b, &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if m.Filename != "clip.mp4" || m.VideoID != "" || m.Data != nil {
		t.Errorf("Unmarshal() = %+v", m)
	}
}

func TestCodecErrors(t *testing.T) {
	if _, err := Codec().Marshal("not a message"); err == nil {
		t.Error("Marshal(string) should fail")
	}
	var s string
	if err := Codec().Unmarshal(nil, &s); err == nil {
		t.Error("Unmarshal into *string should fail")
	}
	var m VideoChunk
	if err := Codec().Unmarshal([]byte{0x1a, 0x05, 0x01}, &m); err == nil {
		t.Error("Unmarshal of a truncated field should fail")
	}
	if Codec().Name() != "proto" {
		t.Errorf("Name() = %q", Codec().Name())
	}
}

func TestCodecFallsBackToProto(t *testing.T) {
	in := &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}
	b, err := Codec().Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out healthpb.HealthCheckResponse
	if err := Codec().Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if out.Status != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("Status = %v", out.Status)
	}
}

// fakeProcessor drains the source, or reads only maxChunks of it.
type fakeProcessor struct {
	maxChunks int

	mu       sync.Mutex
	chunks   int
	bytes    int
	videoID  string
	filename string
}

func (f *fakeProcessor) Process(ctx context.Context, src ingest.Source) processor.Response {
	f.mu.Lock()
	defer f.mu.Unlock()
	for f.maxChunks == 0 || f.chunks < f.maxChunks {
		c, err := src.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return processor.Response{VideoID: f.videoID, Error: err.Error(), Status: processor.StatusFailed}
		}
		f.chunks++
		f.bytes += len(c.Data)
		if f.videoID == "" {
			f.videoID = c.VideoID
		}
		if f.filename == "" {
			f.filename = c.Filename
		}
	}
	if f.maxChunks > 0 {
		return processor.Response{VideoID: f.videoID, Error: "file size exceeded limit during upload", Status: processor.StatusFailed}
	}
	return processor.Response{VideoID: f.videoID, Summary: "digest of " + f.filename, Status: processor.StatusCompleted}
}

func startServer(t *testing.T, p processor.Processor) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)

	gs := grpc.NewServer(ServerOptions(64 << 20)...)
	RegisterVideoProcessorServer(gs, NewServer(p, logger.NewNop()))
	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)

	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestProcessVideoRoundTrip(t *testing.T) {
	fp := &fakeProcessor{}
	conn := startServer(t, fp)
	client := NewClient(conn, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	video := bytes.Repeat([]byte{0xab}, 600*1024)
	resp, err := client.ProcessVideo(ctx, "vid-7", "lecture.mp4", bytes.NewReader(video))
	if err != nil {
		t.Fatalf("ProcessVideo() error = %v", err)
	}

	if resp.Status != "completed" || resp.Summary != "digest of lecture.mp4" || resp.VideoID != "vid-7" {
		t.Errorf("response = %+v", resp)
	}
	if resp.Error != "" {
		t.Errorf("Error = %q", resp.Error)
	}

	fp.mu.Lock()
	defer fp.mu.Unlock()
	// metadata chunk + 256 KiB + 256 KiB + 88 KiB
	if fp.chunks != 4 {
		t.Errorf("server saw %d chunks, want 4", fp.chunks)
	}
	if fp.bytes != len(video) {
		t.Errorf("server saw %d bytes, want %d", fp.bytes, len(video))
	}
}

func TestProcessVideoServerStopsEarly(t *testing.T) {
	fp := &fakeProcessor{maxChunks: 2}
	conn := startServer(t, fp)
	client := NewClient(conn, 64*1024)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := client.ProcessVideo(ctx, "vid-8", "huge.mp4", bytes.NewReader(make([]byte, 4<<20)))
	if err != nil {
		t.Fatalf("ProcessVideo() error = %v", err)
	}
	if resp.Status != "failed" || resp.Error == "" {
		t.Errorf("response = %+v, want a failed response", resp)
	}
}

func TestHealthService(t *testing.T) {
	conn := startServer(t, &fakeProcessor{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if resp.Status != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("Status = %v", resp.Status)
	}
}
