package ocr

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	rpcstatus "google.golang.org/genproto/googleapis/rpc/status"

	"github.com/nguyentantai21042004/video-digest/internal/logger"
)

const sampleTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t640\t360\t-1\t\n" +
	"4\t1\t1\t1\t1\t0\t10\t10\t300\t30\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t10\t10\t100\t30\t96.5\tПривет\n" +
	"5\t1\t1\t1\t1\t2\t120\t10\t100\t30\t91.5\tмир\n" +
	"5\t1\t1\t1\t2\t1\t10\t50\t100\t30\t12\t~~\n" +
	"5\t1\t2\t1\t1\t1\t10\t90\t100\t30\t-1\t \n" +
	"5\t1\t2\t1\t1\t2\t10\t90\t100\t30\t-1\tlogo\n"

func TestParseTSV(t *testing.T) {
	lines := parseTSV(sampleTSV)
	if len(lines) != 3 {
		t.Fatalf("parseTSV() = %d lines, want 3: %+v", len(lines), lines)
	}

	tests := []struct {
		text string
		conf float64
	}{
		{"Привет мир", 94},
		{"~~", 12},
		{"logo", UnknownConfidence},
	}
	for i, tt := range tests {
		if lines[i].Text != tt.text || lines[i].Confidence != tt.conf {
			t.Errorf("line %d = %+v, want %q @ %v", i, lines[i], tt.text, tt.conf)
		}
	}
}

type fakeExecutor struct {
	args []string
	out  string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.args = append([]string{name}, args...)
	return f.out, nil
}

func TestTesseractRecognize(t *testing.T) {
	fe := &fakeExecutor{out: sampleTSV}
	eng := NewTesseract(fe, logger.NewNop(), "")
	defer eng.Close()

	lines, err := eng.Recognize(context.Background(), "/frames/frame_000001.png", "rus")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 3 {
		t.Errorf("Recognize() = %d lines, want 3", len(lines))
	}

	got := strings.Join(fe.args, " ")
	want := "tesseract /frames/frame_000001.png stdout --psm 6 -l rus tsv"
	if got != want {
		t.Errorf("command = %q, want %q", got, want)
	}
}

func TestVisionLines(t *testing.T) {
	page := func(confs ...float32) *visionpb.Page {
		pg := &visionpb.Page{}
		for _, c := range confs {
			pg.Blocks = append(pg.Blocks, &visionpb.Block{Confidence: c})
		}
		return pg
	}

	tests := []struct {
		name     string
		resp     *visionpb.AnnotateImageResponse
		wantText []string
		wantConf float64
		wantErr  bool
	}{
		{
			name: "text detection leaves confidence unknown",
			resp: &visionpb.AnnotateImageResponse{FullTextAnnotation: &visionpb.TextAnnotation{
				Text:  "Quarterly results\n\n  Revenue up \n",
				Pages: []*visionpb.Page{page(0, 0)},
			}},
			wantText: []string{"Quarterly results", "Revenue up"},
			wantConf: UnknownConfidence,
		},
		{
			name: "block confidences averaged",
			resp: &visionpb.AnnotateImageResponse{FullTextAnnotation: &visionpb.TextAnnotation{
				Text:  "Agenda",
				Pages: []*visionpb.Page{page(0.9, 0, 0.7)},
			}},
			wantText: []string{"Agenda"},
			wantConf: 80,
		},
		{
			name: "no annotation",
			resp: &visionpb.AnnotateImageResponse{},
		},
		{
			name:    "annotate error",
			resp:    &visionpb.AnnotateImageResponse{Error: &rpcstatus.Status{Code: 3, Message: "bad image"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := visionLines(tt.resp)
			if (err != nil) != tt.wantErr {
				t.Fatalf("visionLines() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(lines) != len(tt.wantText) {
				t.Fatalf("visionLines() = %+v, want %d lines", lines, len(tt.wantText))
			}
			for i, l := range lines {
				if l.Text != tt.wantText[i] {
					t.Errorf("line %d = %q, want %q", i, l.Text, tt.wantText[i])
				}
				if diff := l.Confidence - tt.wantConf; diff > 0.01 || diff < -0.01 {
					t.Errorf("line %d confidence = %v, want %v", i, l.Confidence, tt.wantConf)
				}
			}
		})
	}
}

func TestVisionLanguage(t *testing.T) {
	tests := map[string]string{
		"rus":     "ru",
		"rus+eng": "ru",
		"eng":     "en",
		"ja":      "ja",
		"":        "",
	}
	for in, want := range tests {
		if got := visionLanguage(in); got != want {
			t.Errorf("visionLanguage(%q) = %q, want %q", in, got, want)
		}
	}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 255, A: 255})
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		wantW int
		wantH int
	}{
		{"small frame upscaled", 640, 360, 1280, 720},
		{"wide frame kept", 1920, 1080, 1920, 1080},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := filepath.Join(t.TempDir(), "frame_000001.png")
			writePNG(t, src, tt.w, tt.h)

			out, err := Preprocess(src)
			if err != nil {
				t.Fatalf("Preprocess() error = %v", err)
			}
			if filepath.Base(out) != "frame_000001_ocr.png" {
				t.Errorf("output = %s", out)
			}

			f, err := os.Open(out)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			img, err := png.Decode(f)
			if err != nil {
				t.Fatal(err)
			}
			if _, ok := img.(*image.Gray); !ok {
				t.Errorf("output is %T, want grayscale", img)
			}
			if b := img.Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("output size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestPreprocessCorrupt(t *testing.T) {
	src := filepath.Join(t.TempDir(), "frame_000001.png")
	if err := os.WriteFile(src, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Preprocess(src); err == nil {
		t.Error("Preprocess() should fail on a corrupt frame")
	}
}
