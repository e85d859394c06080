// Package services contains server-side business logic. This file implements
// UserService, which handles registration, credential verification with
// session-token issuance, and the data-blob sync operation.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tetherhq/tether/internal/common"
	"github.com/tetherhq/tether/internal/dbx"
	"github.com/tetherhq/tether/internal/server/auth"
	"github.com/tetherhq/tether/internal/server/config"
	"github.com/tetherhq/tether/internal/server/models"
	"github.com/tetherhq/tether/internal/server/repositories/repomanager"
)

// UserService provides account and sync operations:
// - Register: create an account from email + password
// - Login: verify credentials and mint a session token
// - GetUserByID: resolve the user behind a validated token
// - Sync: overwrite the user's stored data blob (last write wins)
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a new user with the given email and password. The password
// is stored only as a bcrypt digest. A duplicate email yields
// common.ErrorAlreadyExists; missing or malformed fields yield
// common.ErrorValidation.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{Email: email, PasswordHash: hash}
	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the provided password against the stored digest and, on
// success, returns a signed session token. Unknown email and wrong password
// are indistinguishable: both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

// GetUserByID returns the user for the given id, or common.ErrorNotFound.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	return repo.GetUserByID(ctx, id)
}

// Sync unconditionally overwrites the user's stored data blob with the
// client-submitted value and echoes the accepted state back. This is
// last-write-wins with no merge: whichever client syncs most recently fully
// replaces prior state.
func (s *UserService) Sync(ctx context.Context, userID int64, localData json.RawMessage) (json.RawMessage, error) {
	if len(localData) == 0 || !json.Valid(localData) {
		return nil, common.ErrorValidation
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		return repo.UpdateData(ctx, userID, string(localData))
	}); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating data: %w", err)
	}

	return localData, nil
}

func validateCredentials(email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return common.ErrorValidation
	}
	if password == "" {
		return common.ErrorValidation
	}
	return nil
}
