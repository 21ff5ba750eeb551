package transcriber

import (
	"os"
	"sync"
	"sync/atomic"

	"github.com/nguyentantai21042004/video-digest/internal/logger"
	"github.com/nguyentantai21042004/video-digest/pkg/executor"
)

type implTranscriber struct {
	opts     Options
	executor executor.Executor
	logger   logger.Logger

	// lookPath resolves binaries; replaced in tests.
	lookPath func(string) (string, error)

	// handle is read without locking once set; mu only serializes the load.
	handle atomic.Pointer[Handle]
	mu     sync.Mutex
	loads  int
}

// New creates a Transcriber. The model handle is not loaded until first use.
func New(opts Options, exec executor.Executor, log logger.Logger) Transcriber {
	if opts.WorkDir == "" {
		opts.WorkDir = os.TempDir()
	}
	return &implTranscriber{
		opts:     opts,
		executor: exec,
		logger:   log,
		lookPath: defaultLookPath,
	}
}
