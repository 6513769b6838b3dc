package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"
	"todo_api/internal/common"
	"todo_api/internal/domain/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestPgUserRepositoryCreate(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPgUserRepository(db)

	user := &model.User{
		ID:             "uid-1",
		Email:          "alice@example.com",
		HashedPassword: "$2a$04$hash",
		CreatedAt:      time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.Email, user.HashedPassword, user.Name, user.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), user))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepositoryCreateDuplicateEmail(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPgUserRepository(db)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &model.User{ID: "uid-1", Email: "alice@example.com"})
	assert.ErrorIs(t, err, common.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepositoryFindByEmail(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPgUserRepository(db)
	createdAt := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "email", "hashed_password", "name", "created_at"}).
		AddRow("uid-1", "alice@example.com", "$2a$04$hash", nil, createdAt)
	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("alice@example.com").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", user.ID)
	assert.Nil(t, user.Name)
	assert.Equal(t, createdAt, user.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepositoryFindByEmailNotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPgUserRepository(db)

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepositoryFindByIDNotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPgUserRepository(db)

	mock.ExpectQuery("FROM users WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
