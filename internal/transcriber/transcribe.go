package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Transcribe runs whisper on audioPath with the configured language and task
// "transcribe". fp16 is enabled only on CUDA. There is no timeout beyond ctx.
func (t *implTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	h, err := t.Handle(ctx)
	if err != nil {
		return "", fmt.Errorf("load whisper model: %w", err)
	}

	outDir, err := os.MkdirTemp(t.opts.WorkDir, "whisper-*")
	if err != nil {
		return "", fmt.Errorf("create whisper output dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(outDir); err != nil {
			t.logger.Warn(ctx, "Failed to remove whisper output dir %s: %v", outDir, err)
		}
	}()

	fp16 := "False"
	if h.FP16() {
		fp16 = "True"
	}

	args := []string{
		audioPath,
		"--model", h.Model,
		"--model_dir", h.ModelDir,
		"--device", string(h.Device),
		"--language", t.opts.Language,
		"--task", "transcribe",
		"--fp16", fp16,
		"--output_format", "txt",
		"--output_dir", outDir,
		"--verbose", "False",
	}

	t.logger.Info(ctx, "Transcribing audio with Whisper (%s, fp16=%s): %s", h.Device, fp16, audioPath)

	if _, err := t.executor.Execute(ctx, h.Binary, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	data, err := os.ReadFile(filepath.Join(outDir, base+".txt"))
	if err != nil {
		return "", fmt.Errorf("read whisper output: %w", err)
	}

	text := strings.TrimSpace(string(data))
	t.logger.Info(ctx, "Audio transcription completed: %d characters", len(text))
	return text, nil
}
