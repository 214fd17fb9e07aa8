package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/khalfanathman/portfolio-api/internal/services"
	"github.com/khalfanathman/portfolio-api/types"
)

// ContactHandler accepts visitor messages and exposes them to admins.
type ContactHandler struct {
	contacts *services.ContactService
	logger   *zap.Logger
}

func NewContactHandler(contacts *services.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{contacts: contacts, logger: logger}
}

// ContactRouter registers contact routes. Submitting is open to anyone;
// admin guards the inbox. limit, when non-nil, wraps submission.
func ContactRouter(
	r chi.Router,
	contacts *services.ContactService,
	admin func(http.Handler) http.Handler,
	limit func(http.Handler) http.Handler,
	logger *zap.Logger,
) {
	h := NewContactHandler(contacts, logger)

	if limit != nil {
		r.With(limit).Post("/", h.Submit)
	} else {
		r.Post("/", h.Submit)
	}
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth, admin)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var msg types.ContactMessage
	if err := decodeJSON(w, r, &msg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.contacts.Submit(r.Context(), msg)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.contacts.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	if msgs == nil {
		msgs = []types.ContactMessage{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}
	msg, err := h.contacts.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}
	if err := h.contacts.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
