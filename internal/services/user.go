package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khalfanathman/portfolio-api/internal/access"
	"github.com/khalfanathman/portfolio-api/internal/auth"
	"github.com/khalfanathman/portfolio-api/internal/db"
	"github.com/khalfanathman/portfolio-api/internal/storage"
	"github.com/khalfanathman/portfolio-api/internal/store"
	"github.com/khalfanathman/portfolio-api/types"
)

var (
	ErrInvalidCredentials = errors.New("no active account found with the given credentials")
	ErrInvalidToken       = errors.New("token is invalid or expired")
	ErrStorageUnavailable = errors.New("media storage is not configured")
)

const avatarKeyPrefix = "profiles/"

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	UpdateNames(ctx context.Context, user types.User) (types.User, error)
}

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID int) (types.Profile, error)
	LockByUserID(ctx context.Context, userID int) (types.Profile, error)
	Ensure(ctx context.Context, userID int) error
	Create(ctx context.Context, profile types.Profile) (types.Profile, error)
	Update(ctx context.Context, profile types.Profile) (types.Profile, error)
}

// IdentityRepositories vends user and profile repositories bound to a
// connection or transaction.
type IdentityRepositories interface {
	Users(db db.DBTX) UserRepository
	Profiles(db db.DBTX) ProfileRepository
}

// StoreRepositories is the Postgres implementation of IdentityRepositories.
type StoreRepositories struct{}

func (StoreRepositories) Users(db db.DBTX) UserRepository {
	return store.NewUserRepository(db)
}

func (StoreRepositories) Profiles(db db.DBTX) ProfileRepository {
	return store.NewProfileRepository(db)
}

// RegisterInput is the registration payload. The email doubles as the
// username.
type RegisterInput struct {
	Email           string `json:"email" validate:"required,email,max=254"`
	FirstName       string `json:"first_name" validate:"max=150"`
	LastName        string `json:"last_name" validate:"max=150"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// ProfileUpdate is a partial profile edit; nil fields are left unchanged.
type ProfileUpdate struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Website   *string `json:"website"`
	GitHub    *string `json:"github"`
	LinkedIn  *string `json:"linkedin"`
	Twitter   *string `json:"twitter"`
}

// Account is the public view of a user.
type Account struct {
	types.User
	ProfileImage *string `json:"profile_image"`
}

// ProfileView is a profile together with the user fields it mirrors.
type ProfileView struct {
	types.Profile
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	ProfileImage *string `json:"profile_image"`
}

// profileChecks holds the validated columns of a profile edit.
type profileChecks struct {
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Website   string `json:"website" validate:"omitempty,url"`
	GitHub    string `json:"github" validate:"omitempty,url"`
	LinkedIn  string `json:"linkedin" validate:"omitempty,url"`
	Twitter   string `json:"twitter" validate:"omitempty,url"`
}

// UserService encapsulates registration, authentication and profile
// use-cases.
type UserService struct {
	db       *sql.DB
	repos    IdentityRepositories
	tokens   *auth.Tokens
	media    storage.ObjectStorage
	mediaURL string
	logger   *zap.Logger
}

// NewUserService wires the service. media may be nil, in which case avatar
// uploads fail with ErrStorageUnavailable.
func NewUserService(
	sqlDB *sql.DB,
	repos IdentityRepositories,
	tokens *auth.Tokens,
	media storage.ObjectStorage,
	mediaURL string,
	logger *zap.Logger,
) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		db:       sqlDB,
		repos:    repos,
		tokens:   tokens,
		media:    media,
		mediaURL: mediaURL,
		logger:   logger,
	}
}

// Register creates a user and an empty profile in one transaction.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (Account, error) {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if err := validateStruct(in); err != nil {
		return Account{}, err
	}
	if in.Password != in.PasswordConfirm {
		return Account{}, NewValidationError(NonFieldErrors, "Passwords don't match")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Account{}, fmt.Errorf("hash password: %w", err)
	}

	var user types.User
	err = db.WithTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		created, err := s.repos.Users(tx).Create(ctx, types.User{
			Username:     in.Email,
			Email:        in.Email,
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Role:         types.RoleUser,
			PasswordHash: hash,
		})
		if err != nil {
			return fieldError(err)
		}
		if _, err := s.repos.Profiles(tx).Create(ctx, types.Profile{UserID: created.ID}); err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		user = created
		return nil
	})
	if err != nil {
		return Account{}, err
	}
	return Account{User: user}, nil
}

// Login checks the credentials and returns an access/refresh pair.
func (s *UserService) Login(ctx context.Context, email, password string) (auth.TokenPair, error) {
	user, err := s.repos.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return auth.TokenPair{}, ErrInvalidCredentials
		}
		return auth.TokenPair{}, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return auth.TokenPair{}, ErrInvalidCredentials
	}
	return s.tokens.IssuePair(user.ID)
}

// Refresh exchanges a refresh token for a new access token.
func (s *UserService) Refresh(refreshToken string) (string, error) {
	access, err := s.tokens.Refresh(refreshToken)
	if err != nil {
		return "", ErrInvalidToken
	}
	return access, nil
}

// User loads the principal's user record.
func (s *UserService) User(ctx context.Context, p access.Principal) (types.User, error) {
	userID, err := p.Require()
	if err != nil {
		return types.User{}, err
	}
	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return types.User{}, access.ErrAuthenticationRequired
	}
	return user, err
}

// Me returns the principal's account with the avatar URL, if any.
func (s *UserService) Me(ctx context.Context, p access.Principal) (Account, error) {
	user, err := s.User(ctx, p)
	if err != nil {
		return Account{}, err
	}
	profile, err := s.repos.Profiles(s.db).GetByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return Account{}, err
	}
	return Account{User: user, ProfileImage: s.imageURL(profile.ProfileImage)}, nil
}

// UpdateProfile applies a partial edit to the principal's own profile,
// creating the profile if it does not exist yet. First and last name are
// written through to the user record in the same transaction.
func (s *UserService) UpdateProfile(ctx context.Context, p access.Principal, in ProfileUpdate) (ProfileView, error) {
	userID, err := p.Require()
	if err != nil {
		return ProfileView{}, err
	}

	var view ProfileView
	err = db.WithTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		users := s.repos.Users(tx)
		user, err := users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return access.ErrAuthenticationRequired
			}
			return err
		}

		namesChanged := applyNames(&user, in)
		profile, err := s.upsertProfile(ctx, tx, userID, func(profile *types.Profile) error {
			applyProfile(profile, in)
			return validateStruct(profileChecks{
				FirstName: user.FirstName,
				LastName:  user.LastName,
				Website:   profile.Website,
				GitHub:    profile.GitHub,
				LinkedIn:  profile.LinkedIn,
				Twitter:   profile.Twitter,
			})
		})
		if err != nil {
			return err
		}

		if namesChanged {
			if user, err = users.UpdateNames(ctx, user); err != nil {
				return err
			}
		}
		view = s.profileView(user, profile)
		return nil
	})
	if err != nil {
		return ProfileView{}, err
	}
	return view, nil
}

// UploadAvatar resizes the image read from r, stores it and points the
// principal's profile at it. The previous avatar is removed best effort.
func (s *UserService) UploadAvatar(ctx context.Context, p access.Principal, r io.Reader) (ProfileView, error) {
	userID, err := p.Require()
	if err != nil {
		return ProfileView{}, err
	}
	if s.media == nil {
		return ProfileView{}, ErrStorageUnavailable
	}

	data, err := storage.ResizeAvatar(r, storage.AvatarMaxSide)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			return ProfileView{}, NewValidationError("profile_image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
		}
		if errors.Is(err, storage.ErrImageTooLarge) {
			return ProfileView{}, NewValidationError("profile_image", "Image dimensions are too large.")
		}
		return ProfileView{}, err
	}

	key := avatarKeyPrefix + uuid.NewString() + ".jpg"
	if err := s.media.Put(ctx, key, bytes.NewReader(data), int64(len(data)), storage.AvatarContentType); err != nil {
		return ProfileView{}, fmt.Errorf("store avatar: %w", err)
	}

	var (
		view     ProfileView
		previous string
	)
	err = db.WithTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		user, err := s.repos.Users(tx).GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return access.ErrAuthenticationRequired
			}
			return err
		}
		profile, err := s.upsertProfile(ctx, tx, userID, func(profile *types.Profile) error {
			previous = profile.ProfileImage
			profile.ProfileImage = key
			return nil
		})
		if err != nil {
			return err
		}
		view = s.profileView(user, profile)
		return nil
	})
	if err != nil {
		s.removeObject(ctx, key)
		return ProfileView{}, err
	}

	if previous != "" && previous != key {
		s.removeObject(ctx, previous)
	}
	return view, nil
}

// upsertProfile makes sure the user's profile row exists, locks it, applies
// edit and saves it. Concurrent first edits serialize on the row lock.
func (s *UserService) upsertProfile(ctx context.Context, tx db.DBTX, userID int, edit func(*types.Profile) error) (types.Profile, error) {
	profiles := s.repos.Profiles(tx)
	if err := profiles.Ensure(ctx, userID); err != nil {
		return types.Profile{}, fmt.Errorf("ensure profile: %w", err)
	}
	profile, err := profiles.LockByUserID(ctx, userID)
	if err != nil {
		return types.Profile{}, err
	}
	if err := edit(&profile); err != nil {
		return types.Profile{}, err
	}
	return profiles.Update(ctx, profile)
}

func (s *UserService) removeObject(ctx context.Context, key string) {
	if err := s.media.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete avatar object", zap.String("key", key), zap.Error(err))
	}
}

func (s *UserService) profileView(user types.User, profile types.Profile) ProfileView {
	return ProfileView{
		Profile:      profile,
		Username:     user.Username,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		ProfileImage: s.imageURL(profile.ProfileImage),
	}
}

func (s *UserService) imageURL(key string) *string {
	if key == "" {
		return nil
	}
	url := s.mediaURL + key
	return &url
}

// normalizeEmail lowercases the whole address so that it matches the
// users_email_lower_key index.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func applyNames(user *types.User, in ProfileUpdate) bool {
	changed := false
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
		changed = true
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
		changed = true
	}
	return changed
}

func applyProfile(profile *types.Profile, in ProfileUpdate) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&profile.Bio, in.Bio)
	set(&profile.Website, in.Website)
	set(&profile.GitHub, in.GitHub)
	set(&profile.LinkedIn, in.LinkedIn)
	set(&profile.Twitter, in.Twitter)
}
