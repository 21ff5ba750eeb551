package transcriber

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

const deviceProbeTimeout = 5 * time.Second

func defaultLookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Handle returns the process-wide model handle. Once loaded it is returned without
// locking. The first caller loads it under the mutex; concurrent callers wait and share
// the result. A failed load is not cached.
func (t *implTranscriber) Handle(ctx context.Context) (*Handle, error) {
	if h := t.handle.Load(); h != nil {
		return h, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if h := t.handle.Load(); h != nil {
		return h, nil
	}

	h, err := t.load(ctx)
	if err != nil {
		return nil, err
	}
	t.loads++
	t.handle.Store(h)
	return h, nil
}

func (t *implTranscriber) load(ctx context.Context) (*Handle, error) {
	t.logger.Info(ctx, "Loading Whisper model (%s)...", t.opts.Model)

	bin, err := t.lookPath(t.opts.BinaryPath)
	if err != nil {
		return nil, fmt.Errorf("whisper binary %q not found: %w", t.opts.BinaryPath, err)
	}

	if err := os.MkdirAll(t.opts.ModelDir, 0o755); err != nil {
		return nil, fmt.Errorf("create model dir: %w", err)
	}

	h := &Handle{
		Binary:   bin,
		Model:    t.opts.Model,
		ModelDir: t.opts.ModelDir,
		Device:   t.detectDevice(ctx),
	}

	t.logger.Info(ctx, "Whisper model ready on %s (model dir %s)", h.Device, h.ModelDir)
	return h, nil
}

// detectDevice picks CUDA when an NVIDIA GPU answers and FORCE_CPU is off.
func (t *implTranscriber) detectDevice(ctx context.Context) Device {
	if t.opts.ForceCPU {
		t.logger.Warn(ctx, "GPU usage forced to OFF via FORCE_CPU")
		return DeviceCPU
	}

	smi, err := t.lookPath("nvidia-smi")
	if err != nil {
		t.logger.Info(ctx, "Using CPU for processing")
		return DeviceCPU
	}

	ctx, cancel := context.WithTimeout(ctx, deviceProbeTimeout)
	defer cancel()
	if _, err := t.executor.Execute(ctx, smi, "-L"); err != nil {
		t.logger.Info(ctx, "nvidia-smi present but no usable GPU, using CPU: %v", err)
		return DeviceCPU
	}

	t.logger.Info(ctx, "GPU detected (CUDA available)")
	return DeviceCUDA
}
