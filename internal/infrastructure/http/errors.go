package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"fxchart-service/internal/application"
	"fxchart-service/internal/graph"
	"fxchart-service/internal/infrastructure/logx"

	"go.uber.org/zap"
)

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Code: status, Message: msg})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusBadRequest, msg)
}

// writeAppError maps service errors to the JSON error envelope.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, application.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, application.ErrConflict):
		writeError(w, http.StatusConflict, "duplicate idempotency key")
	case errors.Is(err, application.ErrNotReady):
		writeError(w, http.StatusConflict, "view not ready")
	case errors.Is(err, application.ErrUnknownPair),
		errors.Is(err, application.ErrBadRequest),
		errors.Is(err, graph.ErrUnsupportedFormat):
		badRequest(w, err.Error())
	case errors.Is(err, graph.ErrEmptyDataset):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		logx.WithFields(r.Context()).Error("request_failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
