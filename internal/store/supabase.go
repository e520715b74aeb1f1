// Package store persists generated audio and story metadata to Supabase:
// object storage for chapter MP3s and PostgREST row inserts for the
// stories/chapters tables the consumer apps read.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBucket is the storage bucket holding chapter audio.
const DefaultBucket = "audiobooks"

// Config holds Supabase connection settings.
type Config struct {
	// URL is the project base URL, e.g. https://xyz.supabase.co
	URL string
	// ServiceKey is the service-role key. Row inserts and uploads run with
	// admin rights; this client never handles end-user sessions.
	ServiceKey string
	// Bucket overrides the storage bucket (default: audiobooks).
	Bucket  string
	Timeout time.Duration
}

// Client talks to Supabase storage and PostgREST.
type Client struct {
	baseURL    string
	serviceKey string
	bucket     string
	httpClient *http.Client
}

// New creates a Supabase client.
func New(cfg Config) *Client {
	if cfg.Bucket == "" {
		cfg.Bucket = DefaultBucket
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second // uploads can be tens of MB
	}
	return &Client{
		baseURL:    cfg.URL,
		serviceKey: cfg.ServiceKey,
		bucket:     cfg.Bucket,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Story is a persisted story row. Created once per pipeline run, immutable
// thereafter as far as this service is concerned.
type Story struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Description string  `json:"description"`
	CoverURL    *string `json:"cover_url"`
}

// ChapterRecord is a persisted chapter row referencing its story.
type ChapterRecord struct {
	StoryID    string `json:"story_id"`
	Title      string `json:"title"`
	OrderIndex int    `json:"order_index"`
	AudioURL   string `json:"audio_url"`
	DurationMS *int   `json:"duration_ms,omitempty"`
}

// ChapterAudioPath returns the storage path for a chapter's audio, keyed by
// story and zero-padded chapter number.
func ChapterAudioPath(storyID string, chapterNumber int) string {
	return fmt.Sprintf("%s/chapter_%02d.mp3", storyID, chapterNumber)
}

// UploadChapterAudio uploads chapter audio with upsert and returns the
// public URL. Upload failure is fatal to the run.
func (c *Client) UploadChapterAudio(ctx context.Context, storyID string, chapterNumber int, data []byte) (string, error) {
	path := ChapterAudioPath(storyID, chapterNumber)
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "audio/mpeg")
	req.Header.Set("x-upsert", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("failed to upload audio (status %d): %s", resp.StatusCode, string(body))
	}

	return c.PublicURL(path), nil
}

// PublicURL derives the public URL for a storage path.
func (c *Client) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, path)
}

// CreateStory inserts a story row.
func (c *Client) CreateStory(ctx context.Context, story Story) error {
	if err := c.insert(ctx, "stories", story); err != nil {
		return fmt.Errorf("failed to create story record: %w", err)
	}
	return nil
}

// CreateChapter inserts a chapter row. Rows are plain inserts; there is no
// multi-row transaction across chapters.
func (c *Client) CreateChapter(ctx context.Context, record ChapterRecord) error {
	if err := c.insert(ctx, "chapters", record); err != nil {
		return fmt.Errorf("failed to create chapter record: %w", err)
	}
	return nil
}

// insert posts one row to a PostgREST table.
func (c *Client) insert(ctx context.Context, table string, row any) error {
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to marshal row: %w", err)
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("insert request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("insert into %s failed (status %d): %s", table, resp.StatusCode, string(respBody))
	}
	return nil
}
