package audio

import (
	"strings"
	"testing"
)

func TestChunkText(t *testing.T) {
	t.Run("short text passes through", func(t *testing.T) {
		got := ChunkText("Hello there.", 100)
		if len(got) != 1 || got[0] != "Hello there." {
			t.Fatalf("got %q, want single passthrough chunk", got)
		}
	})

	t.Run("exact limit passes through", func(t *testing.T) {
		text := strings.Repeat("a", 50)
		got := ChunkText(text, 50)
		if len(got) != 1 || got[0] != text {
			t.Fatalf("text at the limit must not be split, got %d chunks", len(got))
		}
	})

	t.Run("splits on sentence boundaries", func(t *testing.T) {
		text := "First sentence here. Second sentence here. Third sentence here."
		got := ChunkText(text, 45)
		if len(got) < 2 {
			t.Fatalf("expected multiple chunks, got %q", got)
		}
		for i, c := range got {
			if len(c) > 45 {
				t.Fatalf("chunk %d exceeds limit: %d chars", i, len(c))
			}
			if !strings.HasSuffix(c, ".") {
				t.Fatalf("chunk %d does not end on a sentence: %q", i, c)
			}
		}
	})

	t.Run("no text dropped", func(t *testing.T) {
		text := "Alpha beta gamma. Delta epsilon zeta! Eta theta iota? Kappa lambda."
		got := ChunkText(text, 25)
		var total int
		for _, c := range got {
			total += len(c)
		}
		// Joining trims inter-chunk whitespace, so compare without spaces.
		joined := strings.ReplaceAll(strings.Join(got, ""), " ", "")
		want := strings.ReplaceAll(text, " ", "")
		if joined != want {
			t.Fatalf("content lost in chunking:\n got %q\nwant %q", joined, want)
		}
	})

	t.Run("oversized sentence hard-split", func(t *testing.T) {
		text := strings.Repeat("a", 120) + "."
		got := ChunkText(text, 50)
		if len(got) < 3 {
			t.Fatalf("expected hard split into >=3 chunks, got %d", len(got))
		}
		for i, c := range got {
			if len(c) > 50 {
				t.Fatalf("chunk %d exceeds limit: %d chars", i, len(c))
			}
		}
	})

	t.Run("trailing text without punctuation kept", func(t *testing.T) {
		text := "A complete sentence. " + strings.Repeat("trailing words ", 3)
		got := ChunkText(text, 22)
		joined := strings.Join(got, " ")
		if !strings.Contains(joined, "trailing words") {
			t.Fatalf("trailing unpunctuated text dropped: %q", got)
		}
	})

	t.Run("zero max passes through", func(t *testing.T) {
		got := ChunkText("anything", 0)
		if len(got) != 1 || got[0] != "anything" {
			t.Fatalf("non-positive limit must pass through, got %q", got)
		}
	})
}
