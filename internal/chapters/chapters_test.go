package chapters

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/taleify/taleify/internal/providers"
)

const sampleText = `THE LIGHTHOUSE

Chapter One: The Arrival
Mara stepped off the ferry into the fog. The island smelled of salt and rust.

Chapter Two: The Keeper
The old keeper met her at the door. He said nothing for a long while.

Chapter Three: The Light
That night the lamp went dark for the first time in forty years.`

func boundariesJSON(t *testing.T, bs []map[string]any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"chapters": bs})
	if err != nil {
		t.Fatalf("marshal boundaries: %v", err)
	}
	return raw
}

func TestDetect(t *testing.T) {
	t.Run("reconstructs chapter spans from markers", func(t *testing.T) {
		chat := &providers.MockChatClient{
			ResponseJSON: boundariesJSON(t, []map[string]any{
				{"number": 1, "title": "The Arrival", "startMarker": "Chapter One: The Arrival"},
				{"number": 2, "title": "The Keeper", "startMarker": "Chapter Two: The Keeper"},
				{"number": 3, "title": "The Light", "startMarker": "Chapter Three: The Light"},
			}),
		}
		res := NewDetector(chat, nil).Detect(context.Background(), sampleText)

		if res.Fallback {
			t.Fatal("unexpected fallback")
		}
		if len(res.Chapters) != 3 {
			t.Fatalf("got %d chapters, want 3", len(res.Chapters))
		}
		if res.Chapters[0].Title != "The Arrival" {
			t.Fatalf("chapter 1 title = %q", res.Chapters[0].Title)
		}
		if !strings.Contains(res.Chapters[0].Text, "stepped off the ferry") {
			t.Fatalf("chapter 1 text wrong: %q", res.Chapters[0].Text)
		}
		if strings.Contains(res.Chapters[0].Text, "keeper met her") {
			t.Fatal("chapter 1 bleeds into chapter 2")
		}
		if !strings.Contains(res.Chapters[2].Text, "forty years") {
			t.Fatal("final chapter must extend to end of document")
		}
	})

	t.Run("chapters partition text in order", func(t *testing.T) {
		chat := &providers.MockChatClient{
			ResponseJSON: boundariesJSON(t, []map[string]any{
				{"number": 1, "title": "A", "startMarker": "Chapter One"},
				{"number": 2, "title": "B", "startMarker": "Chapter Two"},
			}),
		}
		res := NewDetector(chat, nil).Detect(context.Background(), sampleText)

		var prevEnd int
		for i, ch := range res.Chapters {
			pos := strings.Index(sampleText, ch.Text[:20])
			if pos < prevEnd {
				t.Fatalf("chapter %d overlaps previous span", i+1)
			}
			prevEnd = pos
		}
	})

	t.Run("unfindable marker drops boundary not the run", func(t *testing.T) {
		chat := &providers.MockChatClient{
			ResponseJSON: boundariesJSON(t, []map[string]any{
				{"number": 1, "title": "A", "startMarker": "Chapter One: The Arrival"},
				{"number": 2, "title": "B", "startMarker": "THIS TEXT DOES NOT EXIST"},
				{"number": 3, "title": "C", "startMarker": "Chapter Three: The Light"},
			}),
		}
		res := NewDetector(chat, nil).Detect(context.Background(), sampleText)

		if res.Fallback {
			t.Fatal("unexpected fallback")
		}
		if len(res.Chapters) != 2 {
			t.Fatalf("got %d chapters, want 2 (hallucinated marker dropped)", len(res.Chapters))
		}
		// The chapter before the dropped boundary absorbs its span.
		if !strings.Contains(res.Chapters[0].Text, "keeper met her") {
			t.Fatal("chapter before dropped boundary must extend over its span")
		}
	})

	t.Run("backwards marker dropped", func(t *testing.T) {
		chat := &providers.MockChatClient{
			ResponseJSON: boundariesJSON(t, []map[string]any{
				{"number": 1, "title": "A", "startMarker": "Chapter Two: The Keeper"},
				{"number": 2, "title": "B", "startMarker": "Chapter One: The Arrival"},
			}),
		}
		res := NewDetector(chat, nil).Detect(context.Background(), sampleText)

		if len(res.Chapters) != 1 {
			t.Fatalf("got %d chapters, want 1 (non-advancing marker dropped)", len(res.Chapters))
		}
		if res.Chapters[0].Title != "A" {
			t.Fatalf("kept wrong boundary: %q", res.Chapters[0].Title)
		}
	})

	t.Run("all markers hallucinated falls back", func(t *testing.T) {
		chat := &providers.MockChatClient{
			ResponseJSON: boundariesJSON(t, []map[string]any{
				{"number": 1, "title": "A", "startMarker": "NOPE"},
			}),
		}
		res := NewDetector(chat, nil).Detect(context.Background(), sampleText)

		if !res.Fallback {
			t.Fatal("expected fallback")
		}
		if len(res.Chapters) != 1 || res.Chapters[0].Title != "Chapter 1" {
			t.Fatalf("fallback shape wrong: %+v", res.Chapters)
		}
		if res.Chapters[0].Text != strings.TrimSpace(sampleText) {
			t.Fatal("fallback chapter must span the whole document")
		}
	})

	t.Run("chat failure falls back", func(t *testing.T) {
		chat := &providers.MockChatClient{ShouldFail: true}
		res := NewDetector(chat, nil).Detect(context.Background(), sampleText)

		if !res.Fallback || len(res.Chapters) != 1 {
			t.Fatalf("expected single-chapter fallback, got %+v", res)
		}
	})

	t.Run("malformed JSON falls back", func(t *testing.T) {
		chat := &providers.MockChatClient{ResponseText: "I could not find any chapters, sorry!"}
		res := NewDetector(chat, nil).Detect(context.Background(), sampleText)

		if !res.Fallback || len(res.Chapters) != 1 {
			t.Fatalf("expected single-chapter fallback, got %+v", res)
		}
	})

	t.Run("empty boundary list falls back", func(t *testing.T) {
		chat := &providers.MockChatClient{ResponseJSON: boundariesJSON(t, []map[string]any{})}
		res := NewDetector(chat, nil).Detect(context.Background(), sampleText)

		if !res.Fallback {
			t.Fatal("expected fallback for empty boundary list")
		}
	})

	t.Run("missing number and title defaulted", func(t *testing.T) {
		chat := &providers.MockChatClient{
			ResponseJSON: boundariesJSON(t, []map[string]any{
				{"title": "", "startMarker": "Chapter One: The Arrival"},
			}),
		}
		res := NewDetector(chat, nil).Detect(context.Background(), sampleText)

		if res.Chapters[0].Number != 1 {
			t.Fatalf("number = %d, want positional default 1", res.Chapters[0].Number)
		}
		if res.Chapters[0].Title != "Chapter 1" {
			t.Fatalf("title = %q, want positional default", res.Chapters[0].Title)
		}
	})
}
