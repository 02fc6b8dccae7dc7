// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API of storesmith. Every response
// body is an envelope: {"success": bool, "data"?: any, "error"?: string}.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"storesmith/internal/draft"
	"storesmith/internal/middleware"
	"storesmith/internal/storefront"
	"storesmith/internal/theme"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// envelope is the shape of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("write json response failed", "error", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Error: msg})
}

// writeResult writes data on success, or the error mapped to its status.
// Unexpected errors are logged and reported without detail.
func writeResult(w http.ResponseWriter, r *http.Request, status int, data any, err error) {
	if err == nil {
		writeData(w, status, data)
		return
	}

	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, code, http.StatusText(code))
		return
	}
	writeError(w, code, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, storefront.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storefront.ErrPromptRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storefront.ErrEmptyStore):
		return http.StatusConflict
	case errors.Is(err, storefront.ErrInvalidPrompt),
		errors.Is(err, storefront.ErrInvalidTheme),
		errors.Is(err, storefront.ErrInvalidContent),
		errors.Is(err, storefront.ErrInvalidSectionType),
		errors.Is(err, storefront.ErrInvalidReorder),
		errors.Is(err, storefront.ErrUnknownLayout),
		errors.Is(err, draft.ErrIndex),
		errors.Is(err, theme.ErrInvalid),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// errBadRequest marks request decoding and validation failures.
var errBadRequest = errors.New("bad request")

func badRequest(msg string) error {
	return fmt.Errorf("%w: %s", errBadRequest, msg)
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid JSON body")
	}
	return nil
}

// ownerID returns the signed-in user. Routes using it sit behind
// RequireAuth, so a missing session is a wiring error.
func ownerID(r *http.Request) uuid.UUID {
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		return sess.UserID
	}
	return uuid.Nil
}

// uuidParam parses a UUID route parameter.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, storefront.ErrNotFound
	}
	return id, nil
}
