package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/claude/fitplanner/internal/models"
	"github.com/claude/fitplanner/internal/report"
	"github.com/claude/fitplanner/internal/sampler"
)

// NoMatchWarning is shown when a body part has no exercises.
const NoMatchWarning = "No exercises found for this body part."

const defaultHistoryLimit = 20

type sampleResponse struct {
	BodyPart  string                  `json:"body_part"`
	Exercises []models.ExerciseRecord `json:"exercises"`
	Warning   string                  `json:"warning,omitempty"`
}

type adviceRequest struct {
	Goal string `json:"goal"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"dataset_loaded": s.svc.DatasetLoaded(),
		"model_ready":    s.svc.AdviceReady(),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	top, err := intParam(r, "top", report.DefaultTopN)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sum, err := s.svc.Summary(r.Context(), top)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", report.DefaultPreviewRows)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := s.svc.Preview(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleBodyParts(w http.ResponseWriter, r *http.Request) {
	parts, err := s.svc.BodyParts(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, parts)
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	bodyPart := r.URL.Query().Get("body_part")
	if bodyPart == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body_part parameter required"})
		return
	}
	limit, err := intParam(r, "limit", sampler.DefaultMaxSamples)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	recs, err := s.svc.Sample(r.Context(), bodyPart, limit)
	switch {
	case errors.Is(err, models.ErrNoMatch):
		writeJSON(w, http.StatusOK, sampleResponse{
			BodyPart:  bodyPart,
			Exercises: []models.ExerciseRecord{},
			Warning:   NoMatchWarning,
		})
	case err != nil:
		s.writeError(w, err)
	default:
		writeJSON(w, http.StatusOK, sampleResponse{BodyPart: bodyPart, Exercises: recs})
	}
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Goals())
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	var req adviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	res, err := s.svc.Advice(r.Context(), req.Goal)
	if err != nil {
		if errors.Is(err, models.ErrUnknownGoal) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.writeError(w, err)
		return
	}

	status := http.StatusOK
	if res.Failed() {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, res)
}

func (s *Server) handleAdviceHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", defaultHistoryLimit)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	hist, err := s.svc.History(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hist)
}

// writeError maps service errors to HTTP responses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrDataUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": models.ErrDataUnavailable.Error(),
			"kind":  string(models.KindDataUnavailable),
		})
	default:
		s.log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// intParam parses a non-negative integer query parameter, returning def when
// it is absent.
func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}
