package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/khalfanathman/portfolio-api/internal/storage"
)

// MediaHandler streams stored media objects by key.
type MediaHandler struct {
	objects storage.ObjectStorage
	logger  *zap.Logger
}

func NewMediaHandler(objects storage.ObjectStorage, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{objects: objects, logger: logger}
}

// Serve expects to be mounted on a wildcard route; the wildcard is the key.
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if h.objects == nil || key == "" || path.Clean("/"+key) != "/"+key {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}

	obj, err := h.objects.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		writeServiceError(w, r, h.logger, err)
		return
	}
	defer obj.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, obj); err != nil {
		h.logger.Warn("media stream interrupted", zap.String("key", key), zap.Error(err))
	}
}
