package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/khalfanathman/portfolio-api/internal/access"
	"github.com/khalfanathman/portfolio-api/internal/services"
)

const (
	maxAvatarBytes   = 5 << 20
	formFieldAvatar  = "profile_image"
	multipartMemory  = 1 << 20
	multipartOverrun = 64 << 10
)

// UserHandler provides account, token and profile endpoints.
type UserHandler struct {
	users  *services.UserService
	logger *zap.Logger
}

// NewUserHandler constructs a UserHandler with the provided dependencies.
func NewUserHandler(users *services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// UserRouter registers user routes on the given router. limit, when non-nil,
// wraps the anonymous credential endpoints.
func UserRouter(r chi.Router, users *services.UserService, logger *zap.Logger, limit func(http.Handler) http.Handler) {
	h := NewUserHandler(users, logger)

	anon := r
	if limit != nil {
		anon = r.With(limit)
	}
	anon.Post("/register", h.Register)
	anon.Post("/login", h.Login)
	r.Post("/token/refresh", h.Refresh)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth)
		r.Get("/me", h.Me)
		r.Post("/profile/update", h.UpdateProfile)
		r.Patch("/profile/update", h.UpdateProfile)
		r.Post("/profile/avatar", h.UploadAvatar)
	})
}

// LoginRequest carries credentials for the token pair endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest carries a refresh token.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse carries the newly issued access token.
type RefreshResponse struct {
	Access string `json:"access"`
}

// Register creates an account and its empty profile.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := h.users.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

// Login exchanges credentials for an access/refresh token pair.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	missing := &services.ValidationError{}
	if req.Email == "" {
		missing.Add("email", "This field is required.")
	}
	if req.Password == "" {
		missing.Add("password", "This field is required.")
	}
	if len(missing.Fields) > 0 {
		writeServiceError(w, r, h.logger, missing)
		return
	}

	pair, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// Refresh issues a new access token from a refresh token.
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Refresh == "" {
		writeServiceError(w, r, h.logger, services.NewValidationError("refresh", "This field is required."))
		return
	}

	token, err := h.users.Refresh(req.Refresh)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, RefreshResponse{Access: token})
}

// Me returns the authenticated user's account.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	account, err := h.users.Me(r.Context(), access.FromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// UpdateProfile applies a partial edit to the caller's own profile.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req services.ProfileUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.users.UpdateProfile(r.Context(), access.FromContext(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// UploadAvatar replaces the caller's profile image from a multipart upload.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes+multipartOverrun)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeServiceError(w, r, h.logger, services.NewValidationError(formFieldAvatar, "Image file too large ( > 5mb )"))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(formFieldAvatar)
	if err != nil {
		writeServiceError(w, r, h.logger, services.NewValidationError(formFieldAvatar, "No file was submitted."))
		return
	}
	defer file.Close()

	if header.Size > maxAvatarBytes {
		writeServiceError(w, r, h.logger, services.NewValidationError(formFieldAvatar, "Image file too large ( > 5mb )"))
		return
	}

	view, err := h.users.UploadAvatar(r.Context(), access.FromContext(r.Context()), file)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
