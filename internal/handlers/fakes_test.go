package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/khalfanathman/portfolio-api/internal/auth"
	"github.com/khalfanathman/portfolio-api/internal/db"
	"github.com/khalfanathman/portfolio-api/internal/services"
	"github.com/khalfanathman/portfolio-api/internal/store"
	"github.com/khalfanathman/portfolio-api/types"
)

const testSecret = "test-secret"

func newTestTokens() *auth.Tokens {
	return auth.NewTokens(testSecret, time.Minute, time.Hour)
}

type memoryProjects struct {
	mu     sync.Mutex
	nextID int
	items  map[int]types.Project
}

func newMemoryProjects() *memoryProjects {
	return &memoryProjects{items: make(map[int]types.Project)}
}

func (m *memoryProjects) List(_ context.Context, ownerID *int) ([]types.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.Project
	for _, p := range m.items {
		if ownerID == nil || p.UserID == *ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryProjects) Get(_ context.Context, id int) (types.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return types.Project{}, store.ErrNotFound
	}
	return p, nil
}

func (m *memoryProjects) Create(_ context.Context, p types.Project) (types.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	m.items[p.ID] = p
	return p, nil
}

func (m *memoryProjects) Update(_ context.Context, p types.Project) (types.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[p.ID]; !ok {
		return types.Project{}, store.ErrNotFound
	}
	m.items[p.ID] = p
	return p, nil
}

func (m *memoryProjects) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// memoryIdentity backs UserService without a database. Profiles are never
// stored.
type memoryIdentity struct {
	mu    sync.Mutex
	users map[int]types.User
}

func newMemoryIdentity(users ...types.User) *memoryIdentity {
	m := &memoryIdentity{users: make(map[int]types.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memoryIdentity) Users(db.DBTX) services.UserRepository {
	return memoryUsers{m}
}

func (m *memoryIdentity) Profiles(db.DBTX) services.ProfileRepository {
	return memoryProfiles{}
}

type memoryUsers struct {
	*memoryIdentity
}

func (m memoryUsers) GetByID(_ context.Context, id int) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return u, nil
}

func (m memoryUsers) GetByEmail(_ context.Context, email string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m memoryUsers) Create(_ context.Context, u types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = len(m.users) + 1
	m.users[u.ID] = u
	return u, nil
}

func (m memoryUsers) UpdateNames(_ context.Context, u types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return u, nil
}

type memoryProfiles struct{}

func (memoryProfiles) GetByUserID(context.Context, int) (types.Profile, error) {
	return types.Profile{}, store.ErrNotFound
}

func (memoryProfiles) LockByUserID(_ context.Context, userID int) (types.Profile, error) {
	return types.Profile{UserID: userID}, nil
}

func (memoryProfiles) Ensure(context.Context, int) error {
	return nil
}

func (memoryProfiles) Create(_ context.Context, p types.Profile) (types.Profile, error) {
	return p, nil
}

func (memoryProfiles) Update(_ context.Context, p types.Profile) (types.Profile, error) {
	return p, nil
}

type memoryContacts struct {
	mu    sync.Mutex
	items []types.ContactMessage
}

func (m *memoryContacts) List(context.Context) ([]types.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.ContactMessage(nil), m.items...), nil
}

func (m *memoryContacts) Get(_ context.Context, id int) (types.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.items {
		if msg.ID == id {
			return msg, nil
		}
	}
	return types.ContactMessage{}, store.ErrNotFound
}

func (m *memoryContacts) Create(_ context.Context, msg types.ContactMessage) (types.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = len(m.items) + 1
	msg.CreatedAt = time.Now()
	m.items = append(m.items, msg)
	return msg, nil
}

func (m *memoryContacts) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, msg := range m.items {
		if msg.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// do sends a request through h with an optional JSON body and bearer token.
func do(t *testing.T, h http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func accessToken(t *testing.T, tokens *auth.Tokens, userID int) string {
	t.Helper()
	pair, err := tokens.IssuePair(userID)
	require.NoError(t, err)
	return pair.Access
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type memoryLanguages struct {
	mu    sync.Mutex
	items []types.Language
}

func (m *memoryLanguages) List(context.Context) ([]types.Language, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.Language(nil), m.items...), nil
}

func (m *memoryLanguages) Get(_ context.Context, id int) (types.Language, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.items {
		if l.ID == id {
			return l, nil
		}
	}
	return types.Language{}, store.ErrNotFound
}

func (m *memoryLanguages) Create(_ context.Context, l types.Language) (types.Language, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = len(m.items) + 1
	m.items = append(m.items, l)
	return l, nil
}

func (m *memoryLanguages) Update(_ context.Context, l types.Language) (types.Language, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == l.ID {
			m.items[i] = l
			return l, nil
		}
	}
	return types.Language{}, store.ErrNotFound
}

func (m *memoryLanguages) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.items {
		if l.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}
