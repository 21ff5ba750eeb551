package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load builds the configuration: the YAML file at path (skipped when path is empty),
// then environment overrides, then defaults via Validate.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(c *Config) error {
	var errs []string
	fail := func(name string, err error) {
		errs = append(errs, fmt.Sprintf("%s: %v", name, err))
	}

	if v, ok := lookup("GRPC_SERVER_PORT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			fail("GRPC_SERVER_PORT", err)
		}
		c.Server.Port = n
	}
	setInt(&c.Server.Port, "PORT", fail)
	setInt(&c.Server.MaxWorkers, "MAX_WORKERS", fail)
	setInt(&c.Server.MaxMessageSize, "MAX_MESSAGE_SIZE", fail)

	setInt64(&c.Limits.MinFileSize, "MIN_FILE_SIZE", fail)
	setInt64(&c.Limits.MaxFileSize, "MAX_FILE_SIZE", fail)
	setFloat(&c.Limits.MaxVideoDuration, "MAX_VIDEO_DURATION", fail)
	if v, ok := lookup("DURATION_PROBE_FAIL_OPEN"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			fail("DURATION_PROBE_FAIL_OPEN", err)
		}
		c.Limits.DurationProbeFailOpen = &b
	}

	setFloat(&c.Frames.Step, "FRAME_STEP", fail)
	setInt(&c.Frames.MaxFrames, "MAX_FRAMES", fail)

	setString(&c.Whisper.BinaryPath, "WHISPER_BINARY")
	setString(&c.Whisper.Model, "WHISPER_MODEL")
	setString(&c.Whisper.ModelDir, "WHISPER_MODEL_DIR")
	setString(&c.Whisper.Language, "WHISPER_LANGUAGE")
	if v, ok := lookup("FORCE_CPU"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			fail("FORCE_CPU", err)
		}
		c.Whisper.ForceCPU = b
	}

	setString(&c.OCR.Engine, "OCR_ENGINE")
	setString(&c.OCR.BinaryPath, "TESSERACT_BINARY")
	setString(&c.OCR.Language, "OCR_LANGUAGE")

	setString(&c.Paths.Temp, "TEMP_DIR")
	setString(&c.Paths.WatchInput, "WATCH_INPUT_DIR")
	setString(&c.Paths.WatchOutput, "WATCH_OUTPUT_DIR")

	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Logging.Format, "LOG_FORMAT")

	setString(&c.Gemini.Model, "GEMINI_MODEL")
	if v, ok := lookup("GEMINI_API_KEYS"); ok {
		c.Gemini.APIKeys = splitList(v)
	}

	setString(&c.Tracing.Exporter, "OTEL_TRACES_EXPORTER")

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func setString(dst *string, name string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

func setInt(dst *int, name string, fail func(string, error)) {
	if v, ok := lookup(name); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			fail(name, err)
			return
		}
		*dst = n
	}
}

func setInt64(dst *int64, name string, fail func(string, error)) {
	if v, ok := lookup(name); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			fail(name, err)
			return
		}
		*dst = n
	}
}

func setFloat(dst *float64, name string, fail func(string, error)) {
	if v, ok := lookup(name); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			fail(name, err)
			return
		}
		*dst = f
	}
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
