package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"debt-planner/engine"
	"debt-planner/repository"
	"debt-planner/service"
)

const defaultMaxBodyBytes = 1 << 20

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes into a buffer first so a failed encode never leaves a
// half-written 200 behind.
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("failed to write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, status int, code, message string) {
	writeJSON(w, logger, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

// writeServiceError maps service and engine errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, repository.ErrPlanNotFound):
		writeError(w, logger, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, engine.ErrInvalidDebtParameters),
		errors.Is(err, engine.ErrInvalidBudget),
		errors.Is(err, engine.ErrInvalidFunding),
		errors.Is(err, engine.ErrInvalidStrategy),
		errors.Is(err, engine.ErrDuplicateDebt):
		writeError(w, logger, http.StatusUnprocessableEntity, "invalid_request", err.Error())
	default:
		logger.Error("request failed", zap.Error(err))
		writeError(w, logger, http.StatusInternalServerError, "internal", "internal server error")
	}
}

// decodeJSON enforces a POST with a JSON body and decodes it into dst. It
// writes the error response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, logger *zap.Logger, maxBody int64, dst any) bool {
	if r.Method != http.MethodPost {
		writeError(w, logger, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return false
	}
	if ct := r.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		writeError(w, logger, http.StatusUnsupportedMediaType, "unsupported_media_type", "Content-Type must be application/json")
		return false
	}
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(dst); err != nil {
		logger.Debug("invalid request body", zap.Error(err))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, logger, http.StatusRequestEntityTooLarge, "body_too_large", fmt.Sprintf("request body exceeds %d bytes", maxBody))
			return false
		}
		writeError(w, logger, http.StatusBadRequest, "invalid_body", "invalid request body")
		return false
	}
	return true
}
