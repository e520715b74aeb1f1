package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/taleify/taleify/internal/extract"
	"github.com/taleify/taleify/internal/pipeline"
	"github.com/taleify/taleify/internal/voicecast"
)

// maxUploadBytes bounds the multipart form (manuscript PDFs are tens of MB
// at most).
const maxUploadBytes = 100 << 20

// registerRoutes sets up all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.HandleFunc("POST /api/audiobook/generate", s.handleGenerate)
	mux.HandleFunc("POST /api/audiobook/check-voice", s.handleCheckVoice)
}

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status string `json:"status"`
	TTS    string `json:"tts,omitempty"`
}

// ErrorResponse is the terminal error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// handleHealth returns basic server health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// handleReady returns readiness including TTS provider reachability.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.tts.HealthCheck(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded", TTS: "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", TTS: "ok"})
}

// handleGenerate runs one manuscript through the pipeline. Synchronous from
// the caller's perspective: the response is the complete payload or a
// single terminal error.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid multipart form", Details: err.Error()})
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "PDF file is required"})
		return
	}
	defer file.Close()

	manuscript, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "failed to read uploaded file", Details: err.Error()})
		return
	}

	title := r.FormValue("title")
	author := r.FormValue("author")
	if title == "" || author == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Title and author are required"})
		return
	}

	req := pipeline.Request{
		Manuscript:     manuscript,
		Title:          title,
		Author:         author,
		CoverURL:       r.FormValue("coverUrl"),
		NarratorVoice:  r.FormValue("narratorVoice"),
		VoiceStability: parseFloatField(r, "voiceStability"),
		VoiceStyle:     parseFloatField(r, "voiceStyle"),
		VoiceSpeed:     parseFloatField(r, "voiceSpeed"),
		VoiceClarity:   parseBoolField(r, "voiceClarity"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	result, err := s.generator.Generate(ctx, req)
	if err != nil {
		var extractionErr *extract.ExtractionError
		if errors.As(err, &extractionErr) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Failed to parse PDF", Details: err.Error()})
			return
		}
		s.logger.Error("generation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate audiobook", Details: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// CheckVoiceRequest is the voice pre-check input.
type CheckVoiceRequest struct {
	Voice string `json:"voice"`
}

// CheckVoiceResponse reports how a narrator voice input would resolve.
type CheckVoiceResponse struct {
	Success bool   `json:"success"`
	VoiceID string `json:"voiceId,omitempty"`
	Warning string `json:"warning,omitempty"`
	Error   string `json:"error,omitempty"`
}

// handleCheckVoice resolves a narrator voice input without starting a run.
func (s *Server) handleCheckVoice(w http.ResponseWriter, r *http.Request) {
	var req CheckVoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, CheckVoiceResponse{Success: false, Error: "invalid JSON body"})
		return
	}
	if req.Voice == "" {
		writeJSON(w, http.StatusBadRequest, CheckVoiceResponse{Success: false, Error: "voice is required"})
		return
	}

	resolution := voicecast.ResolveNarratorVoice(r.Context(), s.tts, req.Voice, s.logger)
	writeJSON(w, http.StatusOK, CheckVoiceResponse{
		Success: resolution.Warning == "",
		VoiceID: resolution.VoiceID,
		Warning: resolution.Warning,
	})
}

func parseFloatField(r *http.Request, name string) *float64 {
	raw := r.FormValue(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseBoolField(r *http.Request, name string) *bool {
	raw := r.FormValue(name)
	if raw == "" {
		return nil
	}
	v := raw == "true"
	return &v
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
