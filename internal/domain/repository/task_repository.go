package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"todo_api/internal/common"
	"todo_api/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// TaskRepository persists tasks. Every read and write is scoped by owner id,
// so a task owned by someone else is indistinguishable from a missing one.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	ListByOwner(ctx context.Context, ownerID string, completed *bool) ([]model.Task, error)
	FindByIDAndOwner(ctx context.Context, id int64, ownerID string) (*model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id int64, ownerID string) error
}

type pgTaskRepository struct {
	db *sql.DB
}

func NewPgTaskRepository(db *sql.DB) TaskRepository {
	return &pgTaskRepository{db: db}
}

// Create allocates the task id from the tasks_id_seq sequence and inserts the
// row with it, keeping id allocation at the repository rather than in a column
// default. The allocated id is written back into task.
func (r *pgTaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.QueryRowContext(ctx, `SELECT nextval('tasks_id_seq')`).Scan(&task.ID); err != nil {
		return fmt.Errorf("pgTaskRepository.Create: allocate id: %w", err)
	}

	query := `INSERT INTO tasks (id, owner_id, title, description, completed, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.OwnerID, task.Title, task.Description, task.Completed, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // Foreign key violation
			return fmt.Errorf("task owner does not exist: %w", common.ErrNotFound)
		}
		return fmt.Errorf("pgTaskRepository.Create: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's tasks ordered by created_at ascending with
// id as a stable tiebreak. A non-nil completed narrows to that status.
func (r *pgTaskRepository) ListByOwner(ctx context.Context, ownerID string, completed *bool) ([]model.Task, error) {
	query := `SELECT id, owner_id, title, description, completed, created_at, updated_at
	          FROM tasks WHERE owner_id = $1`
	args := []interface{}{ownerID}
	if completed != nil {
		query += ` AND completed = $2`
		args = append(args, *completed)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgTaskRepository.ListByOwner: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var task model.Task
		if err := rows.Scan(
			&task.ID, &task.OwnerID, &task.Title, &task.Description, &task.Completed, &task.CreatedAt, &task.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgTaskRepository.ListByOwner: scan: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgTaskRepository.ListByOwner: rows: %w", err)
	}
	return tasks, nil
}

func (r *pgTaskRepository) FindByIDAndOwner(ctx context.Context, id int64, ownerID string) (*model.Task, error) {
	query := `SELECT id, owner_id, title, description, completed, created_at, updated_at
	          FROM tasks WHERE id = $1 AND owner_id = $2`
	task := &model.Task{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&task.ID, &task.OwnerID, &task.Title, &task.Description, &task.Completed, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTaskRepository.FindByIDAndOwner: %w", err)
	}
	return task, nil
}

func (r *pgTaskRepository) Update(ctx context.Context, task *model.Task) error {
	query := `UPDATE tasks SET title = $1, description = $2, completed = $3, updated_at = $4
	          WHERE id = $5 AND owner_id = $6`
	result, err := r.db.ExecContext(ctx, query,
		task.Title, task.Description, task.Completed, task.UpdatedAt, task.ID, task.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Update: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Update: rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgTaskRepository) Delete(ctx context.Context, id int64, ownerID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Delete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Delete: rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
