package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/templui/lifeplan/internal/ctxkeys"
	"github.com/templui/lifeplan/internal/repository"
	"github.com/templui/lifeplan/internal/service"
	"github.com/templui/lifeplan/internal/validation"
)

const maxBodyBytes = 1 << 20

// errBadRequest marks request bodies that are not valid JSON.
var errBadRequest = errors.New("malformed request body")

type errorBody struct {
	Message string                   `json:"message"`
	Data    []validation.FieldError `json:"data,omitempty"`
	Stack   []string                 `json:"stack,omitempty"`
}

// decodeJSON decodes the request body into dst. Unknown fields (including
// any userId) are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// decodeOptionalJSON is decodeJSON that accepts an empty body.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("%w: %v", errBadRequest, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

// writeError is the single place errors become HTTP responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := errorResponse(err)

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
	}

	if cfg := ctxkeys.Config(r.Context()); cfg != nil && !cfg.IsProduction() {
		body.Stack = errorChain(err)
	}
	writeJSON(w, status, body)
}

func errorResponse(err error) (int, errorBody) {
	var verr *validation.Errors
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, errorBody{Message: "validation failed", Data: verr.Fields}
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, errorBody{Message: err.Error()}
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, errorBody{Message: err.Error()}
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, errorBody{Message: err.Error()}
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, errorBody{Message: err.Error()}
	case errors.Is(err, repository.ErrDuplicateEmail):
		return http.StatusConflict, errorBody{Message: err.Error()}
	case errors.Is(err, service.ErrStorageDisabled):
		return http.StatusServiceUnavailable, errorBody{Message: err.Error()}
	}
	return http.StatusInternalServerError, errorBody{Message: "internal server error"}
}

// errorChain lists err and every error it wraps, outermost first.
func errorChain(err error) []string {
	var chain []string
	queue := []error{err}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		if e == nil {
			continue
		}
		chain = append(chain, e.Error())
		switch u := e.(type) {
		case interface{ Unwrap() error }:
			queue = append(queue, u.Unwrap())
		case interface{ Unwrap() []error }:
			queue = append(queue, u.Unwrap()...)
		}
	}
	return chain
}
