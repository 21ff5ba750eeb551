package processor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nguyentantai21042004/video-digest/internal/ocr"
)

// DefaultDedupWindow is how many accepted lines a Deduper remembers.
const DefaultDedupWindow = 8

// TextFilter decides whether an OCR line is legible text or noise.
type TextFilter struct {
	// MinConfidence is the lowest accepted engine confidence (0-100). Lines with
	// unknown confidence are accepted.
	MinConfidence float64
	// MinLength is the minimum rune count after trimming.
	MinLength int
	// MinLetterRatio is the minimum share of letters among non-space runes.
	MinLetterRatio float64
	// MinWordLetters is the letter count at least one word must reach.
	MinWordLetters int
}

// DefaultTextFilter returns the thresholds used unless configured otherwise.
func DefaultTextFilter() TextFilter {
	return TextFilter{
		MinConfidence:  60,
		MinLength:      3,
		MinLetterRatio: 0.5,
		MinWordLetters: 2,
	}
}

// Clean returns the line with collapsed whitespace and whether it passes the filter.
func (f TextFilter) Clean(l ocr.Line) (string, bool) {
	text := strings.Join(strings.Fields(l.Text), " ")

	if l.Confidence >= 0 && l.Confidence < f.MinConfidence {
		return "", false
	}
	if utf8.RuneCountInString(text) < f.MinLength {
		return "", false
	}

	var letters, visible int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		visible++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if visible == 0 || float64(letters)/float64(visible) < f.MinLetterRatio {
		return "", false
	}

	for _, w := range strings.Fields(text) {
		n := 0
		for _, r := range w {
			if unicode.IsLetter(r) {
				n++
			}
		}
		if n >= f.MinWordLetters {
			return text, true
		}
	}
	return "", false
}

// Deduper drops lines already accepted within a sliding window, since on-screen
// text usually persists across many consecutive samples. Not safe for concurrent use.
type Deduper struct {
	window int
	recent []string
}

func NewDeduper(window int) *Deduper {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	return &Deduper{window: window}
}

// Seen reports whether text duplicates a recent line. Unseen text is remembered.
func (d *Deduper) Seen(text string) bool {
	key := normalize(text)
	if key == "" {
		return true
	}
	for _, r := range d.recent {
		if r == key {
			return true
		}
	}
	d.recent = append(d.recent, key)
	if len(d.recent) > d.window {
		d.recent = d.recent[len(d.recent)-d.window:]
	}
	return false
}

// normalize lower-cases s and keeps letters and digits only.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
