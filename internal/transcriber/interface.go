package transcriber

import "context"

// Device is where inference runs.
type Device string

const (
	DeviceCPU  Device = "cpu"
	DeviceCUDA Device = "cuda"
)

// Options configures the whisper collaborator.
type Options struct {
	BinaryPath string
	Model      string
	ModelDir   string
	Language   string
	ForceCPU   bool
	// WorkDir holds per-call output directories.
	WorkDir string
}

// Handle is the loaded model: resolved once per process and read-only afterwards.
type Handle struct {
	Binary   string
	Model    string
	ModelDir string
	Device   Device
}

// FP16 reports whether the half-precision mode should be used.
func (h *Handle) FP16() bool {
	return h.Device == DeviceCUDA
}

// Transcriber turns a normalized audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
	// Handle returns the shared model handle, loading it on first use.
	Handle(ctx context.Context) (*Handle, error)
}
