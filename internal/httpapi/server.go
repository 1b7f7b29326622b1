package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/wealthlens/fundadvisor/internal/advisor"
)

// ReportProducer runs the recommendation pipeline for one investor profile.
type ReportProducer interface {
	Run(ctx context.Context, profile advisor.UserProfile) (advisor.StructuredReport, error)
}

type Server struct {
	pipeline ReportProducer
	timeout  time.Duration
}

func NewServer(pipeline ReportProducer) http.Handler {
	s := &Server{pipeline: pipeline, timeout: 120 * time.Second}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/recommendations", s.handleRecommendations)
	mux.HandleFunc("/v1/health", s.handleHealth)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeAdvisorError(w http.ResponseWriter, err error) {
	var ae *advisor.Error
	if errors.As(err, &ae) {
		writeJSON(w, advisor.StatusForKind(ae.Kind), map[string]any{
			"error": map[string]any{
				"kind":    ae.Kind,
				"message": ae.Message,
			},
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"error": map[string]any{
			"kind":    "internal",
			"message": err.Error(),
		},
	})
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return []byte("{}"), nil
	}
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		blob = []byte("{}")
	}
	return blob, nil
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	blob, err := readBody(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": map[string]any{"kind": "invalid_parameters", "message": "unreadable request body"},
		})
		return
	}
	var profile advisor.UserProfile
	if err := json.Unmarshal(blob, &profile); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": map[string]any{"kind": "invalid_parameters", "message": "request body is not valid JSON"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	report, err := s.pipeline.Run(ctx, profile)
	if err != nil {
		writeAdvisorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recommendations": report})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
