package media

import (
	"github.com/nguyentantai21042004/video-digest/internal/logger"
	"github.com/nguyentantai21042004/video-digest/pkg/executor"
)

type implToolkit struct {
	executor    executor.Executor
	logger      logger.Logger
	ffmpegPath  string
	ffprobePath string
}

// New creates a Toolkit that shells out to ffmpeg and ffprobe from PATH.
func New(exec executor.Executor, log logger.Logger) Toolkit {
	return &implToolkit{
		executor:    exec,
		logger:      log,
		ffmpegPath:  "ffmpeg",
		ffprobePath: "ffprobe",
	}
}
