package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/khalfanathman/portfolio-api/internal/access"
	"github.com/khalfanathman/portfolio-api/internal/services"
)

// ResourceService is the CRUD surface shared by owned and public content.
type ResourceService[T any] interface {
	List(ctx context.Context, p access.Principal) ([]T, error)
	Get(ctx context.Context, p access.Principal, id int) (T, error)
	Create(ctx context.Context, p access.Principal, item T) (T, error)
	Update(ctx context.Context, p access.Principal, id int, mutate func(*T) error) (T, error)
	Delete(ctx context.Context, p access.Principal, id int) error
}

// publicResource adapts a PublicService, whose reads ignore the principal.
type publicResource[T any] struct {
	*services.PublicService[T]
}

func (p publicResource[T]) List(ctx context.Context, _ access.Principal) ([]T, error) {
	return p.PublicService.List(ctx)
}

func (p publicResource[T]) Get(ctx context.Context, _ access.Principal, id int) (T, error) {
	return p.PublicService.Get(ctx, id)
}

// ResourceHandler serves list, detail and mutation endpoints for one resource.
type ResourceHandler[T any] struct {
	svc    ResourceService[T]
	logger *zap.Logger
}

func NewResourceHandler[T any](svc ResourceService[T], logger *zap.Logger) *ResourceHandler[T] {
	return &ResourceHandler[T]{svc: svc, logger: logger}
}

// OwnedRouter registers routes for owner-scoped content.
func OwnedRouter[T any](r chi.Router, svc *services.OwnedService[T], logger *zap.Logger) {
	resourceRoutes[T](r, NewResourceHandler[T](svc, logger))
}

// PublicRouter registers routes for the shared catalog.
func PublicRouter[T any](r chi.Router, svc *services.PublicService[T], logger *zap.Logger) {
	resourceRoutes[T](r, NewResourceHandler[T](publicResource[T]{svc}, logger))
}

func resourceRoutes[T any](r chi.Router, h *ResourceHandler[T]) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Replace)
		r.Patch("/", h.Patch)
		r.Delete("/", h.Delete)
	})
}

func (h *ResourceHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), access.FromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ResourceHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}

	item, err := h.svc.Get(r.Context(), access.FromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ResourceHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	p := access.FromContext(r.Context())
	if !p.IsAuthenticated() {
		writeServiceError(w, r, h.logger, access.ErrAuthenticationRequired)
		return
	}

	var item T
	if err := decodeJSON(w, r, &item); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.svc.Create(r.Context(), p, item)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Replace handles PUT: fields absent from the body are reset.
func (h *ResourceHandler[T]) Replace(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

// Patch handles PATCH: only fields present in the body change.
func (h *ResourceHandler[T]) Patch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *ResourceHandler[T]) update(w http.ResponseWriter, r *http.Request, replace bool) {
	p := access.FromContext(r.Context())
	if !p.IsAuthenticated() {
		writeServiceError(w, r, h.logger, access.ErrAuthenticationRequired)
		return
	}
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}
	// The body is read inside mutate so that permission errors win over
	// malformed input.
	var decodeErr error
	updated, err := h.svc.Update(r.Context(), p, id, func(item *T) error {
		body, err := readJSON(w, r)
		if err != nil {
			decodeErr = err
			return err
		}
		if replace {
			var zero T
			*item = zero
		}
		decodeErr = json.Unmarshal(body, item)
		return decodeErr
	})
	if decodeErr != nil {
		writeError(w, http.StatusBadRequest, decodeErr.Error())
		return
	}
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ResourceHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	p := access.FromContext(r.Context())
	if !p.IsAuthenticated() {
		writeServiceError(w, r, h.logger, access.ErrAuthenticationRequired)
		return
	}
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}

	if err := h.svc.Delete(r.Context(), p, id); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
