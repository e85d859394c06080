package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/tetherhq/tether/internal/common"
	"github.com/tetherhq/tether/internal/dbx"
	"github.com/tetherhq/tether/internal/server/auth"
	"github.com/tetherhq/tether/internal/server/config"
	"github.com/tetherhq/tether/internal/server/models"
	usersrepo "github.com/tetherhq/tether/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func newUserService(t *testing.T, db *sql.DB, rm *fakeRepoManager) *UserService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:             "k",
		TokenValidityDuration: time.Hour,
	}
	return NewUserService(db, rm, cfg)
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getByEmailOut *models.User
	getByEmailErr error

	getByIDOut *models.User
	getByIDErr error

	updateErr  error
	updateData string
	updateID   int64
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getByEmailErr != nil {
		return nil, f.getByEmailErr
	}
	return f.getByEmailOut, nil
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	return f.getByIDOut, nil
}

func (f *fakeUsersRepo) UpdateData(ctx context.Context, id int64, data string) error {
	f.updateID = id
	f.updateData = data
	return f.updateErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }

// --- Register ---

func TestRegister_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{
		createOut: &models.User{ID: 1, Email: "alice@example.com", Data: "{}"},
	}}
	s := newUserService(t, db, rm)

	u, err := s.Register(context.Background(), "alice@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if u.ID != 1 || u.Data != "{}" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestRegister_Validation(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{}}
	s := newUserService(t, db, rm)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "empty email", email: "", password: "pw"},
		{name: "email without at-sign", email: "alice", password: "pw"},
		{name: "empty password", email: "alice@example.com", password: ""},
		{name: "blank email", email: "   ", password: "pw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tt.email, tt.password)
			if !errors.Is(err, common.ErrorValidation) {
				t.Fatalf("want common.ErrorValidation, got %v", err)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{createErr: common.ErrorAlreadyExists}}
	s := newUserService(t, db, rm)

	_, err := s.Register(context.Background(), "alice@example.com", "whatever")
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

// --- Login ---

func loginFixtureUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	return &models.User{ID: 5, Email: "alice@example.com", PasswordHash: hash}
}

func TestLogin_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{getByEmailOut: loginFixtureUser(t, "hunter2")}}
	s := newUserService(t, db, rm)

	token, err := s.Login(context.Background(), "alice@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	userID, err := auth.GetUserIDFromToken(token, []byte("k"))
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if userID != 5 {
		t.Fatalf("token user id mismatch: got %d want 5", userID)
	}
}

func TestLogin_UnknownEmailAndWrongPassword_Indistinguishable(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	unknown := &fakeRepoManager{u: &fakeUsersRepo{getByEmailErr: common.ErrorNotFound}}
	wrongPw := &fakeRepoManager{u: &fakeUsersRepo{getByEmailOut: loginFixtureUser(t, "hunter2")}}

	s1 := newUserService(t, db, unknown)
	s2 := newUserService(t, db, wrongPw)

	_, err1 := s1.Login(context.Background(), "ghost@example.com", "whatever")
	_, err2 := s2.Login(context.Background(), "alice@example.com", "wrong")
	_, err3 := s2.Login(context.Background(), "alice@example.com", "also-wrong")

	for i, err := range []error{err1, err2, err3} {
		if !errors.Is(err, common.ErrorUnauthorized) {
			t.Fatalf("case %d: want common.ErrorUnauthorized, got %v", i+1, err)
		}
	}
	if err1.Error() != err2.Error() || err2.Error() != err3.Error() {
		t.Fatal("login failures must be indistinguishable")
	}
}

func TestLogin_RepoError(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{getByEmailErr: errors.New("db down")}}
	s := newUserService(t, db, rm)

	_, err := s.Login(context.Background(), "alice@example.com", "pw")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want common.ErrorInternal, got %v", err)
	}
}

// --- GetUserByID ---

func TestGetUserByID_NotFound(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{getByIDErr: common.ErrorNotFound}}
	s := newUserService(t, db, rm)

	_, err := s.GetUserByID(context.Background(), 42)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

// --- Sync ---

func TestSync_OverwritesAndEchoes(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := &fakeUsersRepo{}
	rm := &fakeRepoManager{u: repo}
	s := newUserService(t, db, rm)

	payload := json.RawMessage(`{"a":1}`)
	got, err := s.Sync(context.Background(), 5, payload)
	if err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Fatalf("echo mismatch: %s", got)
	}
	if repo.updateID != 5 || repo.updateData != `{"a":1}` {
		t.Fatalf("unexpected write: id=%d data=%s", repo.updateID, repo.updateData)
	}
}

func TestSync_SecondWriteReplacesFirst(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := &fakeUsersRepo{}
	rm := &fakeRepoManager{u: repo}
	s := newUserService(t, db, rm)

	if _, err := s.Sync(context.Background(), 5, json.RawMessage(`{"a":1}`)); err != nil {
		t.Fatalf("first Sync error: %v", err)
	}
	if _, err := s.Sync(context.Background(), 5, json.RawMessage(`{"b":2}`)); err != nil {
		t.Fatalf("second Sync error: %v", err)
	}
	if repo.updateData != `{"b":2}` {
		t.Fatalf("prior content must be fully replaced, got %s", repo.updateData)
	}
}

func TestSync_InvalidPayload(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{}}
	s := newUserService(t, db, rm)

	for _, payload := range []json.RawMessage{nil, json.RawMessage(`{"a":`)} {
		_, err := s.Sync(context.Background(), 5, payload)
		if !errors.Is(err, common.ErrorValidation) {
			t.Fatalf("want common.ErrorValidation for %q, got %v", payload, err)
		}
	}
}

func TestSync_UserVanished(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{u: &fakeUsersRepo{updateErr: common.ErrorNotFound}}
	s := newUserService(t, db, rm)

	_, err := s.Sync(context.Background(), 99, json.RawMessage(`{}`))
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
