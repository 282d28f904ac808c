package repository

import (
	"context"
	"errors"
	"os"
	"regexp"
	"testing"
	"time"

	"farmertwin/config"
	"farmertwin/model"
	"farmertwin/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{
	"id", "email", "password_hash", "name", "created_at",
	"last_login", "status", "last_readiness", "profile_image",
}

func newMockRepo(t *testing.T) (*PostgresUserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresUserRepo(db), mock
}

func testUser() *model.User {
	return &model.User{
		UserID:       "u1",
		Email:        "ravi@farm.in",
		Name:         "Ravi",
		PasswordHash: "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Status:       model.StatusActive,
	}
}

func TestPostgresAddUser(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"inserted", nil, nil},
		{"duplicate email", &pgconn.PgError{Code: pgUniqueViolation}, utils.ErrConflict},
		{"driver failure", errors.New("connection reset"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			u := testUser()

			exp := mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
				WithArgs(u.UserID, u.Email, u.PasswordHash, "Ravi", u.CreatedAt, u.Status)
			if tt.err != nil {
				exp.WillReturnError(tt.err)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := repo.AddUser(context.Background(), u)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.err != nil:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, utils.ErrConflict)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresFindUserByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	login := created.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("ravi@farm.in").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("u1", "ravi@farm.in", "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA", "Ravi", created, login, "active", "CAUTION", nil))

	user, err := repo.FindUserByEmail(context.Background(), "ravi@farm.in")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.UserID)
	assert.Equal(t, "Ravi", user.Name)
	require.NotNil(t, user.LastLogin)
	assert.True(t, login.Equal(*user.LastLogin))
	require.NotNil(t, user.LastReadiness)
	assert.Equal(t, "CAUTION", *user.LastReadiness)
	assert.Nil(t, user.ProfileImage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindUserMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.FindUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, utils.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRecordLogin(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	readiness := "READY"

	t.Run("with readiness", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET last_login = $2")).
			WithArgs("u1", at, "READY").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.RecordLogin(context.Background(), "u1", at, &readiness))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET last_login = $2")).
			WithArgs("ghost", at, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.RecordLogin(context.Background(), "ghost", at, nil)
		assert.ErrorIs(t, err, utils.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresUpdateProfileImage(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET profile_image = $2 WHERE id = $1")).
		WithArgs("u1", "/static/uploads/user_u1_1_me.png").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateProfileImage(context.Background(), "u1", "/static/uploads/user_u1_1_me.png"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepo()

	u := testUser()
	require.NoError(t, repo.AddUser(ctx, u))
	assert.ErrorIs(t, repo.AddUser(ctx, testUser()), utils.ErrConflict)

	found, err := repo.FindUserByEmail(ctx, "ravi@farm.in")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.UserID)

	found.Name = "mutated"
	again, _ := repo.FindUser(ctx, "u1")
	assert.Equal(t, "Ravi", again.Name, "returned users are copies")

	readiness := "CAUTION"
	at := time.Now()
	require.NoError(t, repo.RecordLogin(ctx, "u1", at, &readiness))
	require.NoError(t, repo.RecordLogin(ctx, "u1", at, nil))
	again, _ = repo.FindUser(ctx, "u1")
	require.NotNil(t, again.LastReadiness)
	assert.Equal(t, "CAUTION", *again.LastReadiness, "nil readiness keeps the last value")

	require.NoError(t, repo.UpdateProfileImage(ctx, "u1", "/static/uploads/a.png"))
	again, _ = repo.FindUser(ctx, "u1")
	assert.Equal(t, "/static/uploads/a.png", *again.ProfileImage)

	assert.ErrorIs(t, repo.UpdateProfileImage(ctx, "ghost", "x"), utils.ErrNotFound)

	repo.Delete("u1")
	_, err = repo.FindUserByEmail(ctx, "ravi@farm.in")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestOpenDefaultsToMemory(t *testing.T) {
	repo, err := Open(context.Background(), config.DatabaseConfig{Driver: config.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryUserRepo{}, repo)
}

// Runs against a real server when MONGO_TEST_URI is set.
func TestMongoUserRepo(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx := context.Background()
	cfg := config.DatabaseConfig{
		URL:             uri,
		Driver:          config.DriverMongo,
		MaxPoolSize:     10,
		MinPoolSize:     1,
		MaxConnIdleTime: time.Minute,
		DatabaseName:    "farmer_twin_test",
		UsersCollection: "users_" + uuid.NewString()[:8],
		RetryWrites:     true,
	}

	opened, err := Open(ctx, cfg)
	require.NoError(t, err)
	repo := opened.(*UserRepo)
	defer func() {
		_ = repo.MongoCollection.Drop(ctx)
		_ = repo.Close(ctx)
	}()

	u := testUser()
	u.UserID = uuid.NewString()
	require.NoError(t, repo.AddUser(ctx, u))
	assert.ErrorIs(t, repo.AddUser(ctx, u), utils.ErrConflict)

	found, err := repo.FindUserByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.UserID, found.UserID)

	readiness := "READY"
	require.NoError(t, repo.RecordLogin(ctx, u.UserID, time.Now(), &readiness))
	found, err = repo.FindUser(ctx, u.UserID)
	require.NoError(t, err)
	require.NotNil(t, found.LastReadiness)
	assert.Equal(t, "READY", *found.LastReadiness)

	_, err = repo.FindUser(ctx, "ghost")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}
