package ocr

import (
	"context"
	"strings"
)

// Span is one recognised piece of text with the engine's confidence in [0, 1].
type Span struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Engine recognises text in an encoded image (PNG, JPEG, ...).
type Engine interface {
	Recognize(ctx context.Context, image []byte) ([]Span, error)
}

// JoinSpans concatenates span texts separated by single spaces.
func JoinSpans(spans []Span) string {
	parts := make([]string, 0, len(spans))
	for _, s := range spans {
		if text := strings.TrimSpace(s.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
