// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"storesmith/internal/session"
)

// SessionCreator starts cookie sessions. *session.Store satisfies it.
type SessionCreator interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
}

// devUserNamespace derives stable user ids from emails in development.
var devUserNamespace = uuid.MustParse("6f1c1e1a-3f0c-4c8e-9a3e-5d2b7c4e9f10")

// Dev holds development-only handlers. Production sessions are issued by
// the external auth service.
type Dev struct {
	sessions SessionCreator
}

// NewDev creates the development handlers.
func NewDev(sessions SessionCreator) *Dev {
	return &Dev{sessions: sessions}
}

type devSessionRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// Session signs in as the user identified by the given email. The same
// email always maps to the same user id.
func (d *Dev) Session(w http.ResponseWriter, r *http.Request) {
	var req devSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}
	if msg := validateDevSession(req.Email, req.DisplayName); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	data := &session.Data{
		UserID:      uuid.NewSHA1(devUserNamespace, []byte(email)),
		Email:       email,
		DisplayName: strings.TrimSpace(req.DisplayName),
	}
	if _, err := d.sessions.Create(r.Context(), w, data); err != nil {
		writeResult(w, r, 0, nil, err)
		return
	}

	slog.Info("development session created", "user_id", data.UserID)
	writeData(w, http.StatusCreated, data)
}
