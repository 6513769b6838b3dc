package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"
	"todo_api/internal/common"
	"todo_api/internal/domain/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgTaskRepositoryCreateAllocatesID(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPgTaskRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT nextval\('tasks_id_seq'\)`).
		WillReturnRows(sqlmock.NewRows([]string{"nextval"}).AddRow(int64(7)))
	mock.ExpectExec("INSERT INTO tasks").
		WithArgs(int64(7), "uid-1", "Buy milk", nil, false, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	task := &model.Task{
		OwnerID:   "uid-1",
		Title:     "Buy milk",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), task))
	assert.Equal(t, int64(7), task.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgTaskRepositoryListByOwner(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPgTaskRepository(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "owner_id", "title", "description", "completed", "created_at", "updated_at"}).
		AddRow(int64(1), "uid-1", "first", nil, false, now, now).
		AddRow(int64(2), "uid-1", "second", "details", true, now, now)
	mock.ExpectQuery("FROM tasks WHERE owner_id").
		WithArgs("uid-1").
		WillReturnRows(rows)

	tasks, err := repo.ListByOwner(context.Background(), "uid-1", nil)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "first", tasks[0].Title)
	require.NotNil(t, tasks[1].Description)
	assert.Equal(t, "details", *tasks[1].Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgTaskRepositoryListByOwnerCompletedFilter(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPgTaskRepository(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "owner_id", "title", "description", "completed", "created_at", "updated_at"}).
		AddRow(int64(2), "uid-1", "done", nil, true, now, now)
	mock.ExpectQuery("FROM tasks WHERE owner_id").
		WithArgs("uid-1", true).
		WillReturnRows(rows)

	completed := true
	tasks, err := repo.ListByOwner(context.Background(), "uid-1", &completed)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgTaskRepositoryListByOwnerEmpty(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPgTaskRepository(db)

	mock.ExpectQuery("FROM tasks WHERE owner_id").
		WithArgs("uid-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title", "description", "completed", "created_at", "updated_at"}))

	tasks, err := repo.ListByOwner(context.Background(), "uid-1", nil)
	require.NoError(t, err)
	assert.NotNil(t, tasks, "empty list serializes as [], not null")
	assert.Len(t, tasks, 0)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgTaskRepositoryFindByIDAndOwnerNotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPgTaskRepository(db)

	mock.ExpectQuery("FROM tasks WHERE id").
		WithArgs(int64(42), "uid-2").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByIDAndOwner(context.Background(), 42, "uid-2")
	assert.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgTaskRepositoryUpdateMissingRow(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPgTaskRepository(db)
	now := time.Now().UTC()

	mock.ExpectExec("UPDATE tasks SET").
		WithArgs("title", nil, true, now, int64(42), "uid-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	task := &model.Task{ID: 42, OwnerID: "uid-2", Title: "title", Completed: true, UpdatedAt: now}
	err := repo.Update(context.Background(), task)
	assert.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgTaskRepositoryDelete(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPgTaskRepository(db)

	mock.ExpectExec("DELETE FROM tasks WHERE id").
		WithArgs(int64(7), "uid-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 7, "uid-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgTaskRepositoryDeleteMissingRow(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo := NewPgTaskRepository(db)

	mock.ExpectExec("DELETE FROM tasks WHERE id").
		WithArgs(int64(7), "uid-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 7, "uid-2")
	assert.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
