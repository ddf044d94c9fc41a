package server

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/leaflens-ai/go-diagnose/diagnosis"
	"github.com/leaflens-ai/go-diagnose/history"
	"github.com/leaflens-ai/go-diagnose/models"
)

// Server wires the diagnosis pipeline, record history, playbooks and the
// outbreak log behind an HTTP handler.
type Server struct {
	registry  *models.Registry
	pipeline  *diagnosis.Pipeline
	store     history.Store
	playbooks map[string]Playbook
	plugins   []Plugin
	outbreaks *OutbreakLog
	log       *slog.Logger
}

// New builds a Server.
//
// Arguments:
//   - registry: the model registry, reported by /health.
//   - pipeline: the diagnosis pipeline.
//   - store: record storage for /v1/diagnoses lookups.
//   - log: structured logger, nil for the default.
//
// Returns:
//   - The server, ready for Handler().
func New(registry *models.Registry, pipeline *diagnosis.Pipeline, store history.Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		registry:  registry,
		pipeline:  pipeline,
		store:     store,
		playbooks: Playbooks(),
		plugins:   Plugins(),
		outbreaks: NewOutbreakLog(),
		log:       log,
	}
}

// Handler returns the route table as an http.Handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /v1/diagnose", s.handleDiagnose)
	mux.HandleFunc("GET /v1/diagnoses/{id}", s.handleGetDiagnosis)
	mux.HandleFunc("POST /v1/symptoms", s.handleAnalyzeSymptoms)
	mux.HandleFunc("GET /v1/playbooks/{code}", s.handleGetPlaybook)
	mux.HandleFunc("GET /v1/plugins", s.handleListPlugins)
	mux.HandleFunc("GET /v1/plugins/{id}", s.handleGetPlugin)
	mux.HandleFunc("POST /v1/outbreaks", s.handleReportOutbreak)
	mux.HandleFunc("GET /v1/outbreaks", s.handleGetOutbreaks)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Models: s.registry.State().String()}
	if !s.registry.Ready() {
		resp.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	var req DiagnoseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.Wrap(err, "server: decoding request body"))
		return
	}
	if req.ImageBase64 == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("server: image_base64 is required"))
		return
	}
	imageBytes, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errors.Wrap(err, "server: image_base64 is not valid base64"))
		return
	}

	result, err := s.pipeline.Diagnose(r.Context(), diagnosis.DiagnoseRequest{
		ImageBytes: imageBytes,
		CropHint:   req.Crop,
	})
	if err != nil {
		s.writeError(w, diagnoseStatus(err), err)
		return
	}

	resp := DiagnoseResponse{
		ID:              uuid.NewString(),
		Predictions:     result.Predictions,
		Confidence:      result.Confidence,
		CropType:        req.Crop,
		Recommendations: Recommend(result.Predictions),
		Timestamp:       result.Timestamp,
	}
	if err := s.store.Put(resp.ID, result); err != nil {
		s.log.Warn("storing diagnosis record", "id", resp.ID, "error", err)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDiagnosis(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	result, ok := s.store.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, errors.Errorf("server: no diagnosis record %q", id))
		return
	}
	writeJSON(w, http.StatusOK, DiagnoseResponse{
		ID:              id,
		Predictions:     result.Predictions,
		Confidence:      result.Confidence,
		CropType:        result.CropHint,
		Recommendations: Recommend(result.Predictions),
		Timestamp:       result.Timestamp,
	})
}

func (s *Server) handleAnalyzeSymptoms(w http.ResponseWriter, r *http.Request) {
	var req SymptomsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.Wrap(err, "server: decoding request body"))
		return
	}
	if req.Crop == "" || len(req.Symptoms) == 0 {
		s.writeError(w, http.StatusBadRequest, errors.New("server: crop and at least one symptom are required"))
		return
	}

	causes := AnalyzeSymptoms(req.Symptoms)
	var confidence float64
	for _, cause := range causes {
		if cause.Confidence > confidence {
			confidence = cause.Confidence
		}
	}
	writeJSON(w, http.StatusOK, SymptomsResponse{
		PossibleCauses:  causes,
		Recommendations: RecommendForCauses(causes),
		Confidence:      confidence,
	})
}

func (s *Server) handleListPlugins(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, PluginsResponse{
		Plugins:    s.plugins,
		TotalCount: len(s.plugins),
	})
}

func (s *Server) handleGetPlugin(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.Wrapf(err, "server: invalid plugin id %q", id))
		return
	}
	for _, plugin := range s.plugins {
		if plugin.ID == id {
			writeJSON(w, http.StatusOK, plugin)
			return
		}
	}
	s.writeError(w, http.StatusNotFound, errors.Errorf("server: no plugin %q", id))
}

func (s *Server) handleGetPlaybook(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	playbook, ok := s.playbooks[code]
	if !ok {
		s.writeError(w, http.StatusNotFound, errors.Errorf("server: no playbook %q", code))
		return
	}
	writeJSON(w, http.StatusOK, playbook)
}

func (s *Server) handleReportOutbreak(w http.ResponseWriter, r *http.Request) {
	var req OutbreakReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.Wrap(err, "server: decoding request body"))
		return
	}
	id, err := s.outbreaks.Report(req, time.Now().UTC())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, OutbreakReportResponse{
		ID:        id,
		Message:   "Outbreak report submitted successfully",
		Timestamp: time.Now().UTC(),
	})
}

func (s *Server) handleGetOutbreaks(w http.ResponseWriter, r *http.Request) {
	region := DefaultRegion
	reports := s.outbreaks.InRegion(region, outbreakListingLimit)
	writeJSON(w, http.StatusOK, OutbreaksResponse{
		Outbreaks:  reports,
		TotalCount: len(reports),
		Region:     region,
	})
}

// diagnoseStatus maps a pipeline error to an HTTP status. Undecodable
// images are the caller's fault; an unready registry or missing classifier
// means the service cannot serve yet.
func diagnoseStatus(err error) int {
	switch {
	case errors.Is(err, diagnosis.ErrImageDecode):
		return http.StatusBadRequest
	case errors.Is(err, diagnosis.ErrNotInitialized),
		errors.Is(err, diagnosis.ErrClassifierUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "status", status, "error", err)
	} else {
		s.log.Debug("request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
