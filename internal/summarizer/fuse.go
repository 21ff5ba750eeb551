package summarizer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Fusion limits. Changing them changes every digest, so they are fixed.
const (
	MaxSpeechRunes = 2000
	MaxFrameTexts  = 20
	MaxFrameRunes  = 200

	untitledName = "untitled video"
	ellipsis     = "…"
)

// Fuse combines the transcript and the per-frame on-screen text into one digest.
// The result depends only on its arguments and is never empty.
func Fuse(audioText string, frameTexts []string, filename string) string {
	name := strings.TrimSpace(filename)
	if name == "" {
		name = untitledName
	}

	speech := collapse(audioText)
	var frames []string
	for _, t := range frameTexts {
		if c := collapse(t); c != "" {
			frames = append(frames, c)
		}
	}

	if speech == "" && len(frames) == 0 {
		return fmt.Sprintf("No speech or on-screen text was detected in \"%s\".", name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Summary of \"%s\"\n\n", name)

	if speech == "" {
		b.WriteString("Speech: none detected.\n")
	} else {
		b.WriteString("Speech:\n")
		b.WriteString(truncate(speech, MaxSpeechRunes))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(frames) == 0 {
		b.WriteString("On-screen text: none detected.")
	} else {
		b.WriteString("On-screen text:")
		if len(frames) > MaxFrameTexts {
			frames = frames[:MaxFrameTexts]
		}
		for _, f := range frames {
			b.WriteString("\n- ")
			b.WriteString(truncate(f, MaxFrameRunes))
		}
	}

	return b.String()
}

// collapse folds every run of whitespace, newlines included, into one space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts s to at most max runes, preferring the last word boundary in the
// second half of the window, and marks the cut with an ellipsis.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)[:max]
	cut := len(r)
	for i := len(r) - 1; i > max/2; i-- {
		if r[i] == ' ' {
			cut = i
			break
		}
	}
	return strings.TrimRight(string(r[:cut]), " ") + ellipsis
}
