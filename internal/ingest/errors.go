package ingest

import (
	"errors"
	"fmt"
)

// ErrNoData is returned when the stream ended without any payload bytes.
var ErrNoData = errors.New("no video data received")

// SizeExceededError is returned when the running total passed the ceiling mid-upload.
type SizeExceededError struct {
	Total int64
	Limit int64
}

func (e *SizeExceededError) Error() string {
	return fmt.Sprintf("file size exceeded limit during upload: %d > %d", e.Total, e.Limit)
}

// AbortedError is returned when the stream broke off before io.EOF.
type AbortedError struct {
	Received int64
	Err      error
}

func (e *AbortedError) Error() string {
	return fmt.Sprintf("upload aborted after %d bytes: %v", e.Received, e.Err)
}

func (e *AbortedError) Unwrap() error {
	return e.Err
}
