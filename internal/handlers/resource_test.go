package handlers

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/khalfanathman/portfolio-api/internal/services"
	"github.com/khalfanathman/portfolio-api/types"
)

const (
	ownerA = 1
	ownerB = 2
)

func newProjectAPI(t *testing.T) (http.Handler, *memoryProjects, string, string) {
	t.Helper()
	tokens := newTestTokens()
	repo := newMemoryProjects()

	r := chi.NewRouter()
	r.Use(Authenticate(tokens))
	r.Route("/api/projects", func(r chi.Router) {
		OwnedRouter(r, services.NewProjectService(repo), zap.NewNop())
	})
	return r, repo, accessToken(t, tokens, ownerA), accessToken(t, tokens, ownerB)
}

func TestProjects_CreateStampsOwner(t *testing.T) {
	h, _, tokenA, _ := newProjectAPI(t)

	rec := do(t, h, http.MethodPost, "/api/projects/", tokenA, map[string]any{
		"name": "Portfolio",
		"user": ownerB,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeBody[types.Project](t, rec)
	assert.Equal(t, ownerA, created.UserID)
	assert.Equal(t, "Portfolio", created.Name)
}

func TestProjects_AnonymousIsReadOnly(t *testing.T) {
	h, repo, tokenA, _ := newProjectAPI(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/projects/", tokenA, map[string]any{"name": "x"}).Code)

	rec := do(t, h, http.MethodGet, "/api/projects/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]types.Project](t, rec), 1)

	rec = do(t, h, http.MethodGet, "/api/projects/1", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/projects/", "", map[string]any{"name": "y"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/projects/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Len(t, repo.items, 1)
}

func TestProjects_EmptyListIsArray(t *testing.T) {
	h, _, _, _ := newProjectAPI(t)

	rec := do(t, h, http.MethodGet, "/api/projects/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestProjects_NonOwnerForbidden(t *testing.T) {
	h, repo, tokenA, tokenB := newProjectAPI(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/projects/", tokenA, map[string]any{"name": "mine"}).Code)

	rec := do(t, h, http.MethodPatch, "/api/projects/1", tokenB, map[string]any{"name": "stolen"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"detail":"You do not have permission to perform this action."}`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/api/projects/1", tokenB, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	assert.Equal(t, "mine", repo.items[1].Name)
}

func TestProjects_PermissionCheckedBeforeBody(t *testing.T) {
	h, _, tokenA, tokenB := newProjectAPI(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/projects/", tokenA, map[string]any{"name": "mine"}).Code)

	for _, body := range []string{"", `{"name":`} {
		rec := do(t, h, http.MethodPatch, "/api/projects/1", tokenB, body)
		assert.Equal(t, http.StatusForbidden, rec.Code, body)

		rec = do(t, h, http.MethodPut, "/api/projects/1", tokenB, body)
		assert.Equal(t, http.StatusForbidden, rec.Code, body)

		rec = do(t, h, http.MethodPatch, "/api/projects/99", tokenA, body)
		assert.Equal(t, http.StatusNotFound, rec.Code, body)

		rec = do(t, h, http.MethodPatch, "/api/projects/1", tokenA, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestProjects_AuthenticatedListIsScoped(t *testing.T) {
	h, _, tokenA, tokenB := newProjectAPI(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/projects/", tokenA, map[string]any{"name": "a"}).Code)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/projects/", tokenB, map[string]any{"name": "b"}).Code)

	rec := do(t, h, http.MethodGet, "/api/projects/", tokenB, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]types.Project](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].Name)

	rec = do(t, h, http.MethodGet, "/api/projects/1", tokenB, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjects_PatchKeepsOmittedFields(t *testing.T) {
	h, _, tokenA, _ := newProjectAPI(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/projects/", tokenA, map[string]any{
		"name":        "site",
		"description": "kept",
	}).Code)

	rec := do(t, h, http.MethodPatch, "/api/projects/1", tokenA, map[string]any{"status": "done"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeBody[types.Project](t, rec)
	assert.Equal(t, "kept", got.Description)
	assert.Equal(t, "done", got.Status)
	assert.Equal(t, ownerA, got.UserID)
}

func TestProjects_PutReplacesFields(t *testing.T) {
	h, _, tokenA, _ := newProjectAPI(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/projects/", tokenA, map[string]any{
		"name":        "site",
		"description": "dropped",
	}).Code)

	rec := do(t, h, http.MethodPut, "/api/projects/1", tokenA, map[string]any{"name": "site v2"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeBody[types.Project](t, rec)
	assert.Equal(t, "site v2", got.Name)
	assert.Empty(t, got.Description)
	assert.Equal(t, 1, got.ID)
	assert.Equal(t, ownerA, got.UserID)

	rec = do(t, h, http.MethodPut, "/api/projects/1", tokenA, map[string]any{"description": "no name"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"name":["This field is required."]}`, rec.Body.String())
}

func TestProjects_DeleteThenMissing(t *testing.T) {
	h, _, tokenA, _ := newProjectAPI(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/projects/", tokenA, map[string]any{"name": "tmp"}).Code)

	rec := do(t, h, http.MethodDelete, "/api/projects/1", tokenA, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/projects/1", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Not found."}`, rec.Body.String())
}

func TestProjects_BadInput(t *testing.T) {
	h, _, tokenA, _ := newProjectAPI(t)

	rec := do(t, h, http.MethodPost, "/api/projects/", tokenA, `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/projects/", tokenA, map[string]any{"name": "x", "link": "not a url"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[map[string][]string](t, rec), "link")

	rec = do(t, h, http.MethodGet, "/api/projects/abc", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthenticate_RejectsBadToken(t *testing.T) {
	h, _, _, _ := newProjectAPI(t)

	rec := do(t, h, http.MethodGet, "/api/projects/", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	refresh, err := newTestTokens().IssuePair(ownerA)
	require.NoError(t, err)
	rec = do(t, h, http.MethodGet, "/api/projects/", refresh.Refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLanguages_AnyUserMayEdit(t *testing.T) {
	tokens := newTestTokens()
	r := chi.NewRouter()
	r.Use(Authenticate(tokens))
	r.Route("/api/languages", func(r chi.Router) {
		PublicRouter(r, services.NewLanguageService(&memoryLanguages{}), zap.NewNop())
	})

	rec := do(t, r, http.MethodPost, "/api/languages/", accessToken(t, tokens, ownerA), map[string]any{
		"name":        "Swahili",
		"proficiency": "Native",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, r, http.MethodPatch, "/api/languages/1", accessToken(t, tokens, ownerB), map[string]any{"proficiency": "Fluent"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Fluent", decodeBody[types.Language](t, rec).Proficiency)

	rec = do(t, r, http.MethodPatch, "/api/languages/1", "", map[string]any{"proficiency": "Basic"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/languages/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]types.Language](t, rec), 1)
}
