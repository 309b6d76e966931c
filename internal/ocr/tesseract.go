package ocr

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const wordLevel = "5"

// Tesseract shells out to the tesseract CLI and reads its TSV output.
type Tesseract struct {
	Path     string
	Language string
}

func NewTesseract(path string) *Tesseract {
	if path == "" {
		path = "tesseract"
	}
	return &Tesseract{Path: path, Language: "eng"}
}

func (t *Tesseract) Recognize(ctx context.Context, image []byte) ([]Span, error) {
	cmd := exec.CommandContext(ctx, t.Path, "stdin", "stdout", "-l", t.Language, "tsv")
	cmd.Stdin = bytes.NewReader(image)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("tesseract failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return ParseTSV(stdout.Bytes())
}

// ParseTSV reads tesseract TSV output and returns its word-level spans in
// reading order. Rows with negative confidence or blank text are skipped.
func ParseTSV(tsv []byte) ([]Span, error) {
	var spans []Span
	scanner := bufio.NewScanner(bytes.NewReader(tsv))
	header := true
	for scanner.Scan() {
		if header {
			header = false
			continue
		}
		cols := strings.Split(scanner.Text(), "\t")
		if len(cols) < 12 || cols[0] != wordLevel {
			continue
		}
		text := strings.TrimSpace(cols[11])
		if text == "" {
			continue
		}
		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid confidence %q: %w", cols[10], err)
		}
		if conf < 0 {
			continue
		}
		spans = append(spans, Span{Text: text, Confidence: conf / 100})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return spans, nil
}
