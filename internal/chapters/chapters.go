// Package chapters finds chapter boundaries in extracted text. An LLM is
// asked only for titles and exact start markers over a bounded window; full
// chapter text is reconstructed locally from the untruncated document.
package chapters

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taleify/taleify/internal/providers"
)

const (
	// AnalysisWindow caps the text sent for boundary detection. Only
	// title/marker detection happens remotely, so the window does not need
	// to cover the whole document.
	AnalysisWindow = 50000

	// markerLength is the marker size the model is asked for.
	markerLength = 50

	detectTemperature = 0.2
)

// Chapter is one detected chapter with its reconstructed text span.
type Chapter struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Text   string `json:"text"`
}

// Result carries the detected chapters. Fallback is set when detection
// degraded to the single-chapter default; the pipeline continues either way.
type Result struct {
	Chapters []Chapter
	Fallback bool
}

// responseSchema validates the model's boundary list before decoding.
var responseSchema = json.RawMessage(`{
	"type": "object",
	"required": ["chapters"],
	"properties": {
		"chapters": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["title", "startMarker"],
				"properties": {
					"number": {"type": "integer"},
					"title": {"type": "string"},
					"startMarker": {"type": "string"}
				}
			}
		}
	}
}`)

type boundaryResponse struct {
	Chapters []boundary `json:"chapters"`
}

type boundary struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	StartMarker string `json:"startMarker"`
}

// Detector finds chapter boundaries using an LLM.
type Detector struct {
	chat   providers.ChatClient
	logger *slog.Logger
}

// NewDetector creates a chapter detector.
func NewDetector(chat providers.ChatClient, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{chat: chat, logger: logger}
}

// Detect returns the ordered chapter list for fullText. It never returns an
// empty list and never hard-fails: malformed or missing model output
// degrades to a single chapter spanning the whole document.
func (d *Detector) Detect(ctx context.Context, fullText string) *Result {
	window := fullText
	if len(window) > AnalysisWindow {
		window = window[:AnalysisWindow]
	}

	result, err := d.chat.Chat(ctx, &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: "Find chapter boundaries. Return valid JSON with exact start markers."},
			{Role: "user", Content: detectPrompt(window)},
		},
		Temperature: detectTemperature,
		JSONObject:  true,
	})
	if err != nil {
		d.logger.Warn("chapter detection call failed, using single-chapter fallback", "error", err)
		return fallbackResult(fullText)
	}

	var parsed boundaryResponse
	if err := providers.DecodeStructured(result.Content, responseSchema, &parsed); err != nil {
		d.logger.Warn("chapter detection returned unusable output, using single-chapter fallback", "error", err)
		return fallbackResult(fullText)
	}
	if len(parsed.Chapters) == 0 {
		d.logger.Warn("chapter detection found no boundaries, using single-chapter fallback")
		return fallbackResult(fullText)
	}

	chapters := reconstruct(fullText, parsed.Chapters)
	if len(chapters) == 0 {
		// Every marker was hallucinated or out of order.
		d.logger.Warn("no chapter markers located in source text, using single-chapter fallback")
		return fallbackResult(fullText)
	}

	d.logger.Info("detected chapters", "count", len(chapters))
	return &Result{Chapters: chapters}
}

// reconstruct locates each boundary marker in the full text and slices out
// chapter spans. A marker that cannot be found verbatim, or that would move
// backwards, drops that boundary; the previous chapter extends over it.
func reconstruct(fullText string, raw []boundary) []Chapter {
	type located struct {
		boundary
		start int
	}

	kept := make([]located, 0, len(raw))
	prevStart := -1
	for _, b := range raw {
		marker := b.StartMarker
		if marker == "" {
			continue
		}
		pos := strings.Index(fullText, marker)
		if pos < 0 || pos <= prevStart {
			continue
		}
		kept = append(kept, located{boundary: b, start: pos})
		prevStart = pos
	}

	chapters := make([]Chapter, 0, len(kept))
	for i, b := range kept {
		end := len(fullText)
		if i+1 < len(kept) {
			end = kept[i+1].start
		}

		number := b.Number
		if number == 0 {
			number = i + 1
		}
		title := b.Title
		if title == "" {
			title = fmt.Sprintf("Chapter %d", i+1)
		}

		chapters = append(chapters, Chapter{
			Number: number,
			Title:  title,
			Text:   strings.TrimSpace(fullText[b.start:end]),
		})
	}
	return chapters
}

func fallbackResult(fullText string) *Result {
	return &Result{
		Chapters: []Chapter{{
			Number: 1,
			Title:  "Chapter 1",
			Text:   strings.TrimSpace(fullText),
		}},
		Fallback: true,
	}
}

func detectPrompt(window string) string {
	return fmt.Sprintf(`Analyze this text and identify all chapters. Find the EXACT position where each chapter starts.

Return JSON:
{"chapters": [{"number": 1, "title": "Chapter title", "startMarker": "exact text that starts the chapter (first %d chars)"}]}

The startMarker must be the EXACT text from the document so I can find it.

Text:
%s`, markerLength, window)
}
