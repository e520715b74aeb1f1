// Package speakers determines who is speaking in a chapter and splits the
// chapter text into ordered speaker-tagged segments.
package speakers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/taleify/taleify/internal/chapters"
	"github.com/taleify/taleify/internal/providers"
)

const (
	// Narrator is the fixed identity for non-dialogue text.
	Narrator = "Narrator"

	// MinChapterLength is the short-circuit threshold: chapters below it
	// skip the model call entirely and play as a single narrator segment.
	MinChapterLength = 500

	// AnalysisWindow caps the chapter text sent to the model.
	AnalysisWindow = 15000

	analyzeTemperature = 0.3
)

// Speaker is a voice-bearing entity local to one chapter. Gender and age
// are model-inferred, not authoritative; voice casting tolerates unknown
// values.
type Speaker struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`     // male, female, neutral
	Age    string `json:"age_range"`  // child, young, mature, elderly
	Role   string `json:"voice_type"` // narrator, protagonist, antagonist, supporting
}

// Segment is a contiguous span of chapter text attributed to one speaker.
type Segment struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Analysis carries the speakers and ordered segments for one chapter.
// Fallback is set when the analysis degraded to a single narrator segment.
type Analysis struct {
	Speakers []Speaker
	Segments []Segment
	Fallback bool
}

var responseSchema = json.RawMessage(`{
	"type": "object",
	"required": ["segments"],
	"properties": {
		"characters": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name"],
				"properties": {
					"name": {"type": "string"},
					"gender": {"type": "string"},
					"age_range": {"type": "string"},
					"voice_type": {"type": "string"}
				}
			}
		},
		"segments": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["speaker", "text"],
				"properties": {
					"speaker": {"type": "string"},
					"text": {"type": "string"}
				}
			}
		}
	}
}`)

type analysisResponse struct {
	Characters []Speaker `json:"characters"`
	Segments   []Segment `json:"segments"`
}

// Analyzer splits chapters by speaker using an LLM.
type Analyzer struct {
	chat   providers.ChatClient
	logger *slog.Logger
}

// NewAnalyzer creates a speaker analyzer.
func NewAnalyzer(chat providers.ChatClient, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{chat: chat, logger: logger}
}

// Analyze returns the speaker set and ordered segments for one chapter.
// It never hard-fails: short chapters skip the model call, and unusable
// model output degrades to a single narrator segment covering the whole
// chapter. Segment order is the playback and synthesis order.
func (a *Analyzer) Analyze(ctx context.Context, ch chapters.Chapter) *Analysis {
	if len(ch.Text) < MinChapterLength {
		return narratorOnly(ch.Text, false)
	}

	window := ch.Text
	if len(window) > AnalysisWindow {
		window = window[:AnalysisWindow]
	}

	result, err := a.chat.Chat(ctx, &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: "Analyze characters and split by speaker. Return valid JSON."},
			{Role: "user", Content: analyzePrompt(ch.Number, ch.Title, window)},
		},
		Temperature: analyzeTemperature,
		JSONObject:  true,
	})
	if err != nil {
		a.logger.Warn("speaker analysis call failed, using narrator fallback",
			"chapter", ch.Number, "error", err)
		return narratorOnly(ch.Text, true)
	}

	var parsed analysisResponse
	if err := providers.DecodeStructured(result.Content, responseSchema, &parsed); err != nil {
		a.logger.Warn("speaker analysis returned unusable output, using narrator fallback",
			"chapter", ch.Number, "error", err)
		return narratorOnly(ch.Text, true)
	}
	if len(parsed.Segments) == 0 {
		return narratorOnly(ch.Text, true)
	}

	for i := range parsed.Characters {
		if parsed.Characters[i].Gender == "" {
			parsed.Characters[i].Gender = "neutral"
		}
		if parsed.Characters[i].Age == "" {
			parsed.Characters[i].Age = "mature"
		}
		if parsed.Characters[i].Role == "" {
			parsed.Characters[i].Role = "supporting"
		}
	}

	a.logger.Debug("analyzed chapter",
		"chapter", ch.Number, "speakers", len(parsed.Characters), "segments", len(parsed.Segments))

	return &Analysis{
		Speakers: parsed.Characters,
		Segments: parsed.Segments,
	}
}

func narratorOnly(text string, fallback bool) *Analysis {
	return &Analysis{
		Speakers: []Speaker{{Name: Narrator, Gender: "neutral", Age: "mature", Role: "narrator"}},
		Segments: []Segment{{Speaker: Narrator, Text: text}},
		Fallback: fallback,
	}
}

func analyzePrompt(number int, title, text string) string {
	return fmt.Sprintf(`Analyze this chapter and identify all speaking characters. Split the text into segments by speaker.

For each character provide: name, gender (male/female/neutral), age_range (child/young/mature/elderly), voice_type (narrator/protagonist/antagonist/supporting)

Return JSON:
{
  "characters": [
    {"name": "Narrator", "gender": "neutral", "age_range": "mature", "voice_type": "narrator"},
    {"name": "Alice", "gender": "female", "age_range": "young", "voice_type": "protagonist"}
  ],
  "segments": [
    {"speaker": "Narrator", "text": "Once upon a time..."},
    {"speaker": "Alice", "text": "Where am I?"}
  ]
}

Chapter %d: %s

%s`, number, title, text)
}
