package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khalfanathman/portfolio-api/types"
)

func TestUserRepository_CreateDefaultsRole(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`(?s)INSERT INTO users \(username, email, first_name, last_name, role, password_hash, created_at, updated_at\)`).
		WithArgs("a@x.com", "a@x.com", "Ada", "L", types.RoleUser, "hash", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	user, err := repo.Create(context.Background(), types.User{
		Username:     "a@x.com",
		Email:        "a@x.com",
		FirstName:    "Ada",
		LastName:     "L",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, types.RoleUser, user.Role)
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	_, err := repo.Create(context.Background(), types.User{Email: "a@x.com"})
	require.ErrorIs(t, err, ErrConflict)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "username", "email", "first_name", "last_name", "role", "password_hash", "created_at", "updated_at",
	}).AddRow(5, "a@x.com", "a@x.com", "Ada", "L", "admin", "hash", now, now)
	mock.ExpectQuery(`SELECT .+ FROM users WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WithArgs("A@X.com").
		WillReturnRows(rows)

	user, err := repo.GetByEmail(context.Background(), "A@X.com")
	require.NoError(t, err)
	assert.Equal(t, 5, user.ID)
	assert.True(t, user.IsAdmin())
}

func TestUserRepository_GetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).WithArgs(8).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 8)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_UpdateNames(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`(?s)UPDATE users\s+SET first_name = \$1,\s+last_name = \$2`).
		WithArgs("Grace", "Hopper", sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user, err := repo.UpdateNames(context.Background(), types.User{ID: 5, FirstName: "Grace", LastName: "Hopper"})
	require.NoError(t, err)
	assert.Equal(t, "Grace", user.FirstName)
}

func TestProfileRepository_GetByUserIDMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfileRepository(db)

	mock.ExpectQuery(`(?s)SELECT .+ FROM profiles\s+WHERE user_id = \$1`).WithArgs(5).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUserID(context.Background(), 5)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestProfileRepository_CreateEmpty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfileRepository(db)

	mock.ExpectQuery(`(?s)INSERT INTO profiles`).
		WithArgs(5, "", "", "", "", "", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

	profile, err := repo.Create(context.Background(), types.Profile{UserID: 5})
	require.NoError(t, err)
	assert.Equal(t, 9, profile.ID)
	assert.Equal(t, 5, profile.UserID)
}

func TestProfileRepository_UpdateKeyedByUser(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfileRepository(db)

	mock.ExpectExec(`(?s)UPDATE profiles\s+SET bio = \$1,.+WHERE user_id = \$8`).
		WithArgs("hello", "", "https://github.com/ada", "", "", "", sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := repo.Update(context.Background(), types.Profile{ID: 9, UserID: 5, Bio: "hello", GitHub: "https://github.com/ada"})
	require.NoError(t, err)
}

func TestProfileRepository_EnsureIgnoresExisting(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfileRepository(db)

	mock.ExpectExec(`(?s)INSERT INTO profiles \(user_id, created_at, updated_at\).+ON CONFLICT \(user_id\) DO NOTHING`).
		WithArgs(5, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Ensure(context.Background(), 5))
}

func TestProfileRepository_LockByUserID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfileRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM profiles WHERE user_id = \$1 FOR UPDATE`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "bio", "website", "github", "linkedin", "twitter", "profile_image", "created_at", "updated_at",
		}).AddRow(9, 5, "bio", "", "", "", "", "", now, now))

	profile, err := repo.LockByUserID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 9, profile.ID)
	assert.Equal(t, "bio", profile.Bio)
}
