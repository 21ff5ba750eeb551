package ingest

import (
	"errors"
	"io"
)

// DefaultChunkSize matches the 256 KiB chunks upload clients send.
const DefaultChunkSize = 256 * 1024

type readerSource struct {
	r         io.Reader
	chunkSize int
	videoID   string
	filename  string
	sentMeta  bool
	done      bool
}

// ReaderSource adapts r into a Source. The first chunk carries videoID and filename.
func ReaderSource(r io.Reader, chunkSize int, videoID, filename string) Source {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &readerSource{r: r, chunkSize: chunkSize, videoID: videoID, filename: filename}
}

func (s *readerSource) Recv() (*Chunk, error) {
	if s.done {
		return nil, io.EOF
	}

	buf := make([]byte, s.chunkSize)
	n, err := io.ReadFull(s.r, buf)
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		s.done = true
	case err != nil:
		return nil, err
	}

	if n == 0 && s.sentMeta {
		return nil, io.EOF
	}

	c := &Chunk{Data: buf[:n]}
	if !s.sentMeta {
		c.VideoID = s.videoID
		c.Filename = s.filename
		s.sentMeta = true
	}
	return c, nil
}
