package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Limits  LimitsConfig  `yaml:"limits"`
	Frames  FramesConfig  `yaml:"frames"`
	Whisper WhisperConfig `yaml:"whisper"`
	OCR     OCRConfig     `yaml:"ocr"`
	Paths   PathsConfig   `yaml:"paths"`
	Logging LoggingConfig `yaml:"logging"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	Tracing TracingConfig `yaml:"tracing"`
}

type ServerConfig struct {
	Port           int `yaml:"port"`
	MaxWorkers     int `yaml:"max_workers"`
	MaxMessageSize int `yaml:"max_message_size"`
}

type LimitsConfig struct {
	MinFileSize           int64   `yaml:"min_file_size"`
	MaxFileSize           int64   `yaml:"max_file_size"`
	MaxVideoDuration      float64 `yaml:"max_video_duration"`
	DurationProbeFailOpen *bool   `yaml:"duration_probe_fail_open"`
}

type FramesConfig struct {
	Step      float64 `yaml:"step"`
	MaxFrames int     `yaml:"max_frames"`
}

type WhisperConfig struct {
	BinaryPath string `yaml:"binary_path"`
	Model      string `yaml:"model"`
	ModelDir   string `yaml:"model_dir"`
	Language   string `yaml:"language"`
	ForceCPU   bool   `yaml:"force_cpu"`
}

type OCRConfig struct {
	Engine     string `yaml:"engine"`
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
}

type PathsConfig struct {
	Temp        string `yaml:"temp"`
	WatchInput  string `yaml:"watch_input"`
	WatchOutput string `yaml:"watch_output"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type GeminiConfig struct {
	Model   string   `yaml:"model"`
	APIKeys []string `yaml:"api_keys"`
}

type TracingConfig struct {
	Exporter string `yaml:"exporter"`
}

// FailOpen reports whether a failed duration probe lets the video through.
func (l LimitsConfig) FailOpen() bool {
	return l.DurationProbeFailOpen == nil || *l.DurationProbeFailOpen
}

// WatchEnabled reports whether the drop-folder mode is configured.
func (c *Config) WatchEnabled() bool {
	return c.Paths.WatchInput != ""
}

// Validate checks required values and fills in defaults.
func (c *Config) Validate() error {
	if c.Server.Port == 0 {
		c.Server.Port = 50051
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.MaxWorkers == 0 {
		c.Server.MaxWorkers = 2
	}
	if c.Server.MaxWorkers < 0 {
		return fmt.Errorf("server.max_workers must be positive, got %d", c.Server.MaxWorkers)
	}
	if c.Server.MaxMessageSize == 0 {
		c.Server.MaxMessageSize = 500 * 1024 * 1024
	}

	if c.Limits.MinFileSize == 0 {
		c.Limits.MinFileSize = 1024
	}
	if c.Limits.MaxFileSize == 0 {
		c.Limits.MaxFileSize = 1 << 30
	}
	if c.Limits.MaxFileSize < c.Limits.MinFileSize {
		return fmt.Errorf("limits.max_file_size (%d) is below limits.min_file_size (%d)",
			c.Limits.MaxFileSize, c.Limits.MinFileSize)
	}
	if c.Limits.MaxVideoDuration == 0 {
		c.Limits.MaxVideoDuration = 300
	}
	if c.Limits.MaxVideoDuration < 0 {
		return fmt.Errorf("limits.max_video_duration must be positive")
	}

	if c.Frames.Step == 0 {
		c.Frames.Step = 2.0
	}
	if c.Frames.Step < 0 {
		return fmt.Errorf("frames.step must be positive, got %v", c.Frames.Step)
	}
	if c.Frames.MaxFrames == 0 {
		c.Frames.MaxFrames = 300
	}

	if c.Whisper.BinaryPath == "" {
		c.Whisper.BinaryPath = "whisper"
	}
	if c.Whisper.Model == "" {
		c.Whisper.Model = "base"
	}
	if c.Whisper.ModelDir == "" {
		c.Whisper.ModelDir = "/root/.cache/whisper"
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "ru"
	}

	c.OCR.Engine = strings.ToLower(c.OCR.Engine)
	switch c.OCR.Engine {
	case "":
		c.OCR.Engine = "tesseract"
	case "tesseract", "vision":
	default:
		return fmt.Errorf("ocr.engine must be tesseract or vision, got %q", c.OCR.Engine)
	}
	if c.OCR.BinaryPath == "" {
		c.OCR.BinaryPath = "tesseract"
	}
	if c.OCR.Language == "" {
		c.OCR.Language = "rus"
	}

	if c.Paths.Temp == "" {
		c.Paths.Temp = filepath.Join(os.TempDir(), "video-digest")
	}
	if c.Paths.WatchInput != "" && c.Paths.WatchOutput == "" {
		return fmt.Errorf("paths.watch_output is required when paths.watch_input is set")
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}

	c.Tracing.Exporter = strings.ToLower(c.Tracing.Exporter)
	switch c.Tracing.Exporter {
	case "":
		c.Tracing.Exporter = "none"
	case "none", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be none, stdout or otlp, got %q", c.Tracing.Exporter)
	}

	return nil
}
