package transport

import (
	"google.golang.org/grpc"

	"github.com/nguyentantai21042004/video-digest/internal/ingest"
	"github.com/nguyentantai21042004/video-digest/internal/logger"
	"github.com/nguyentantai21042004/video-digest/internal/processor"
)

type server struct {
	processor processor.Processor
	logger    logger.Logger
}

// NewServer adapts a Processor to the VideoProcessor service.
func NewServer(p processor.Processor, log logger.Logger) VideoProcessorServer {
	return &server{
		processor: p,
		logger:    log,
	}
}

// ProcessVideo runs the pipeline over the upload stream and sends its one response.
// Pipeline failures travel in the response; only a failed send is a transport error.
func (s *server) ProcessVideo(stream grpc.ServerStream) error {
	ctx := stream.Context()
	s.logger.Info(ctx, "Received new video processing request")

	resp := s.processor.Process(ctx, &streamSource{stream: stream})

	if err := stream.SendMsg(&ProcessResponse{
		VideoID: resp.VideoID,
		Summary: resp.Summary,
		Error:   resp.Error,
		Status:  string(resp.Status),
	}); err != nil {
		s.logger.Warn(ctx, "Failed to send response for video %q: %v", resp.VideoID, err)
		return err
	}
	return nil
}

// streamSource reads VideoChunk messages off a server stream.
type streamSource struct {
	stream grpc.ServerStream
}

func (s *streamSource) Recv() (*ingest.Chunk, error) {
	var m VideoChunk
	if err := s.stream.RecvMsg(&m); err != nil {
		return nil, err
	}
	return &ingest.Chunk{
		VideoID:  m.VideoID,
		Filename: m.Filename,
		Data:     m.Data,
	}, nil
}
