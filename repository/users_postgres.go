package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"farmertwin/model"
	"farmertwin/repository/migrations"
	"farmertwin/utils"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const pgUniqueViolation = "23505"

// DBTX is the subset of database/sql used by the repository.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresUserRepo stores users in the relational users table.
type PostgresUserRepo struct {
	db     DBTX
	closer func() error
}

func NewPostgresUserRepo(db DBTX) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// OpenPostgres opens a pgx-backed pool, applies the embedded migrations and
// returns the repository owning the pool.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresUserRepo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	repo := NewPostgresUserRepo(db)
	repo.closer = db.Close
	return repo, nil
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (r *PostgresUserRepo) AddUser(ctx context.Context, user *model.User) error {
	timer := utils.TrackDBOperation("insert", "users")
	defer timer.ObserveDuration()

	query :=
		`INSERT INTO users (id, email, password_hash, name, created_at, status)
		 VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		user.UserID, user.Email, user.PasswordHash, nullString(user.Name), user.CreatedAt, user.Status)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("email %s: %w", user.Email, utils.ErrConflict)
		}
		utils.TrackError("database", "user_creation_failed")
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

const selectUser = `SELECT id, email, password_hash, name, created_at, last_login, status, last_readiness, profile_image
		 FROM users`

func (r *PostgresUserRepo) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.queryUser(ctx, selectUser+` WHERE email = $1`, email)
}

func (r *PostgresUserRepo) FindUser(ctx context.Context, userID string) (*model.User, error) {
	return r.queryUser(ctx, selectUser+` WHERE id = $1`, userID)
}

func (r *PostgresUserRepo) queryUser(ctx context.Context, query string, arg string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var (
		user                          model.User
		name, readiness, profileImage sql.NullString
		lastLogin                     sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.UserID, &user.Email, &user.PasswordHash, &name, &user.CreatedAt,
		&lastLogin, &user.Status, &readiness, &profileImage)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.Name = name.String
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLogin = &t
	}
	if readiness.Valid {
		user.LastReadiness = &readiness.String
	}
	if profileImage.Valid {
		user.ProfileImage = &profileImage.String
	}

	return &user, nil
}

func (r *PostgresUserRepo) RecordLogin(ctx context.Context, userID string, at time.Time, readiness *string) error {
	query :=
		`UPDATE users SET last_login = $2, last_readiness = COALESCE($3, last_readiness)
		 WHERE id = $1`

	var value sql.NullString
	if readiness != nil {
		value = sql.NullString{String: *readiness, Valid: true}
	}
	return r.exec(ctx, query, userID, at, value)
}

func (r *PostgresUserRepo) UpdateProfileImage(ctx context.Context, userID, path string) error {
	return r.exec(ctx, `UPDATE users SET profile_image = $2 WHERE id = $1`, userID, path)
}

func (r *PostgresUserRepo) exec(ctx context.Context, query string, args ...any) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		utils.TrackError("database", "user_update_failed")
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepo) Close(context.Context) error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
