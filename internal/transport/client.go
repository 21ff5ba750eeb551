package transport

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// DefaultChunkSize is the payload size of each uploaded chunk.
const DefaultChunkSize = 256 * 1024

// Client uploads videos to a VideoProcessor server.
type Client struct {
	conn      grpc.ClientConnInterface
	chunkSize int
}

// NewClient wraps an existing connection.
func NewClient(conn grpc.ClientConnInterface, chunkSize int) *Client {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Client{conn: conn, chunkSize: chunkSize}
}

// Dial opens an insecure connection with message limits raised to maxMessageSize.
func Dial(addr string, maxMessageSize int) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(maxMessageSize),
			grpc.MaxCallSendMsgSize(maxMessageSize),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return conn, nil
}

// ProcessVideo streams r to the server and waits for the response. The first chunk
// carries only the metadata.
func (c *Client) ProcessVideo(ctx context.Context, videoID, filename string, r io.Reader) (*ProcessResponse, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := c.conn.NewStream(ctx, &serviceDesc.Streams[0], processVideoMethod, grpc.ForceCodec(Codec()))
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}

	if err := stream.SendMsg(&VideoChunk{VideoID: videoID, Filename: filename}); err != nil {
		return finishEarly(stream, fmt.Errorf("send metadata: %w", err))
	}

	buf := make([]byte, c.chunkSize)
	for {
		n, rerr := io.ReadFull(r, buf)
		if n > 0 {
			if err := stream.SendMsg(&VideoChunk{Data: buf[:n]}); err != nil {
				return finishEarly(stream, fmt.Errorf("send chunk: %w", err))
			}
		}
		if errors.Is(rerr, io.EOF) || errors.Is(rerr, io.ErrUnexpectedEOF) {
			break
		}
		if rerr != nil {
			return nil, fmt.Errorf("read video: %w", rerr)
		}
	}

	if err := stream.CloseSend(); err != nil {
		return nil, fmt.Errorf("close send: %w", err)
	}

	var resp ProcessResponse
	if err := stream.RecvMsg(&resp); err != nil {
		return nil, fmt.Errorf("receive response: %w", err)
	}
	return &resp, nil
}

// finishEarly handles a failed send. io.EOF means the server stopped reading, for
// example on an oversized upload, and its response is still waiting on the stream.
func finishEarly(stream grpc.ClientStream, err error) (*ProcessResponse, error) {
	if !errors.Is(err, io.EOF) {
		return nil, err
	}
	var resp ProcessResponse
	if rerr := stream.RecvMsg(&resp); rerr != nil {
		return nil, fmt.Errorf("server closed stream: %w", rerr)
	}
	return &resp, nil
}
