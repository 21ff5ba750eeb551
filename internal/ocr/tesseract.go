package ocr

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/video-digest/internal/logger"
	"github.com/nguyentantai21042004/video-digest/pkg/executor"
)

type tesseractEngine struct {
	executor executor.Executor
	logger   logger.Logger
	binary   string
}

// NewTesseract creates an Engine backed by the tesseract CLI.
func NewTesseract(exec executor.Executor, log logger.Logger, binary string) Engine {
	if binary == "" {
		binary = "tesseract"
	}
	return &tesseractEngine{
		executor: exec,
		logger:   log,
		binary:   binary,
	}
}

// Recognize runs tesseract in TSV mode and folds words into lines.
// --psm 6 assumes a uniform block of text, which suits captions and slides.
func (e *tesseractEngine) Recognize(ctx context.Context, imagePath, lang string) ([]Line, error) {
	ctx, cancel := context.WithTimeout(ctx, FrameTimeout)
	defer cancel()

	args := []string{imagePath, "stdout", "--psm", "6"}
	if lang != "" {
		args = append(args, "-l", lang)
	}
	args = append(args, "tsv")

	out, err := e.executor.Execute(ctx, e.binary, args...)
	if err != nil {
		return nil, fmt.Errorf("tesseract: %w", err)
	}
	return parseTSV(out), nil
}

func (e *tesseractEngine) Close() error {
	return nil
}

type lineKey struct {
	page, block, par, line int
}

type lineAcc struct {
	words   []string
	confSum float64
	confN   int
}

// parseTSV groups word rows (level 5) by page/block/paragraph/line in output order.
// Line confidence is the mean of the word confidences that are not -1.
func parseTSV(out string) []Line {
	var order []lineKey
	acc := map[lineKey]*lineAcc{}

	for i, row := range strings.Split(out, "\n") {
		if i == 0 && strings.HasPrefix(row, "level") {
			continue
		}
		cols := strings.Split(strings.TrimRight(row, "\r"), "\t")
		if len(cols) < 12 || cols[0] != "5" {
			continue
		}
		word := strings.TrimSpace(cols[11])
		if word == "" {
			continue
		}

		k := lineKey{atoi(cols[1]), atoi(cols[2]), atoi(cols[3]), atoi(cols[4])}
		a, ok := acc[k]
		if !ok {
			a = &lineAcc{}
			acc[k] = a
			order = append(order, k)
		}
		a.words = append(a.words, word)
		if conf, err := strconv.ParseFloat(cols[10], 64); err == nil && conf >= 0 {
			a.confSum += conf
			a.confN++
		}
	}

	lines := make([]Line, 0, len(order))
	for _, k := range order {
		a := acc[k]
		conf := UnknownConfidence
		if a.confN > 0 {
			conf = a.confSum / float64(a.confN)
		}
		lines = append(lines, Line{Text: strings.Join(a.words, " "), Confidence: conf})
	}
	return lines
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
