package processor

// State is a step of the pipeline state machine.
type State int

const (
	StateIdle State = iota
	StateIngesting
	StateValidating
	StateExtractingAudio
	StateExtractingFrames
	StateSummarizing
	StateCompleted
	StateFailed
)

var stateNames = [...]string{
	StateIdle:             "idle",
	StateIngesting:        "ingesting",
	StateValidating:       "validating",
	StateExtractingAudio:  "extracting_audio",
	StateExtractingFrames: "extracting_frames",
	StateSummarizing:      "summarizing",
	StateCompleted:        "completed",
	StateFailed:           "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}
