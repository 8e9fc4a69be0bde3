package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/custodia-labs/taxclause/internal/core/domain"
	"github.com/custodia-labs/taxclause/internal/logger"
)

const defaultMaxBodyBytes = 10 << 20

var usage = []string{
	"POST /contracts",
	"GET /contracts/{cid}/clauses",
	"POST /contracts/{cid}/evaluate",
}

type indexRequest struct {
	ID   *string `json:"id"`
	Text *string `json:"text"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "use": usage})
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Detail: "Not Found"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var body indexRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Detail: "request body too large"})
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: "invalid JSON body: " + err.Error()})
		return
	}
	switch {
	case body.ID == nil:
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: "field required: id"})
		return
	case body.Text == nil:
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: "field required: text"})
		return
	}

	if err := s.contracts.Index(r.Context(), *body.ID, *body.Text); err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"indexed": *body.ID})
}

func (s *Server) handleClauses(w http.ResponseWriter, r *http.Request) {
	report, err := s.contracts.GetClauses(r.Context(), r.PathValue("cid"))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	eval, err := s.contracts.Evaluate(r.Context(), r.PathValue("cid"))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, eval)
}

func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "contract not found"})
		return
	}
	s.internalError(w, r, err)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	logger.L().Error("request failed",
		zap.String("request_id", w.Header().Get(requestIDHeader)),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("writing response: %v", err)
	}
}
