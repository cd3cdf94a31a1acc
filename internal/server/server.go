// Package server is the inbound HTTP glue around the analysis pipeline. It
// translates requests into orchestrator calls and pipeline errors into
// transport responses; detailed diagnostics go to logs, end users see a
// generic failure.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/redlinehq/redline/internal/analysis"
	"github.com/redlinehq/redline/internal/domain"
	"github.com/redlinehq/redline/internal/playbook"
	"github.com/redlinehq/redline/internal/prompt"
)

// maxDocumentBytes bounds the request body; contracts are text, not archives.
const maxDocumentBytes = 2 << 20

// Server hosts the analysis endpoints.
type Server struct {
	comparison *analysis.Orchestrator[domain.ComparisonReport]
	risk       *analysis.Orchestrator[domain.RiskReport]
	playbooks  *playbook.Registry
	logger     *slog.Logger
}

// New creates a server around the two orchestrators and the playbook registry.
func New(
	comparison *analysis.Orchestrator[domain.ComparisonReport],
	risk *analysis.Orchestrator[domain.RiskReport],
	playbooks *playbook.Registry,
) *Server {
	return &Server{
		comparison: comparison,
		risk:       risk,
		playbooks:  playbooks,
		logger:     slog.Default().With("component", "server"),
	}
}

// Handler returns the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze/comparison", withMethod(http.MethodPost, s.handleComparison))
	mux.HandleFunc("/api/analyze/risk", withMethod(http.MethodPost, s.handleRisk))
	mux.HandleFunc("/api/playbooks", withMethod(http.MethodGet, s.handlePlaybooks))
	mux.HandleFunc("/healthz", withMethod(http.MethodGet, s.handleHealth))
	return mux
}

// withMethod restricts a handler to one HTTP method, answering 405 with the
// Allow header otherwise, matching the Go 1.22+ ServeMux method patterns this
// routing was written against.
func withMethod(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

type comparisonRequest struct {
	DocumentText string `json:"documentText"`
	Playbook     string `json:"playbook"`
}

type riskRequest struct {
	DocumentText string `json:"documentText"`
	Jurisdiction string `json:"jurisdiction"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()
	logger := s.logger.With("request_id", reqID)

	var req comparisonRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.DocumentText) == "" {
		writeError(w, http.StatusBadRequest, "documentText is required")
		return
	}

	pb, ok := s.playbooks.Get(req.Playbook)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown playbook %q", req.Playbook))
		return
	}

	pair := prompt.Comparison(req.DocumentText, pb)
	report, err := s.comparison.Run(r.Context(), pair)
	if err != nil {
		logger.Error("comparison analysis failed", "playbook", req.Playbook, "error", err)
		writeAnalysisError(w, err)
		return
	}

	logger.Info("comparison analysis complete",
		"playbook", req.Playbook,
		"clauses", report.TotalClauses,
		"score", report.OverallScore)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()
	logger := s.logger.With("request_id", reqID)

	var req riskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.DocumentText) == "" {
		writeError(w, http.StatusBadRequest, "documentText is required")
		return
	}

	pair := prompt.Risk(req.DocumentText, req.Jurisdiction)
	report, err := s.risk.Run(r.Context(), pair)
	if err != nil {
		logger.Error("risk analysis failed", "error", err)
		writeAnalysisError(w, err)
		return
	}

	logger.Info("risk analysis complete",
		"findings", report.TotalFindings,
		"score", report.OverallScore)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handlePlaybooks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"playbooks": s.playbooks.Names()})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeAnalysisError maps pipeline failures to transport status. Both
// generation and validation failures are upstream faults from the caller's
// perspective; the detailed diagnostics stay in the logs.
func writeAnalysisError(w http.ResponseWriter, _ error) {
	writeError(w, http.StatusBadGateway, "analysis failed, please try again")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
