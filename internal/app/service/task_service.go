package service

import (
	"context"
	"fmt"
	"time"
	"todo_api/internal/common"
	"todo_api/internal/domain/model"
	"todo_api/internal/domain/repository"
	"unicode/utf8"
)

// TaskService implements the per-user task CRUD. Every operation takes the
// owner id resolved by the auth middleware; tasks of other users are never
// reachable and surface as not-found.
type TaskService struct {
	taskRepo repository.TaskRepository
}

func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// UpdateTaskRequest is a partial patch: nil fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

func (s *TaskService) CreateTask(ctx context.Context, ownerID string, req CreateTaskRequest) (*model.Task, error) {
	if err := validateTitle(req.Title); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := &model.Task{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// ListTasks returns the owner's tasks ordered by creation time ascending.
// A non-nil completed restricts the result to that status.
func (s *TaskService) ListTasks(ctx context.Context, ownerID string, completed *bool) ([]model.Task, error) {
	tasks, err := s.taskRepo.ListByOwner(ctx, ownerID, completed)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, ownerID string, taskID int64) (*model.Task, error) {
	task, err := s.taskRepo.FindByIDAndOwner(ctx, taskID, ownerID)
	if err != nil {
		return nil, err // common.ErrNotFound for missing or foreign tasks
	}
	return task, nil
}

// UpdateTask applies the patch and refreshes updated_at. An empty patch is
// valid and still refreshes updated_at.
func (s *TaskService) UpdateTask(ctx context.Context, ownerID string, taskID int64, req UpdateTaskRequest) (*model.Task, error) {
	task, err := s.taskRepo.FindByIDAndOwner(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := validateTitle(*req.Title); err != nil {
			return nil, err
		}
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err // ErrNotFound if the task was deleted concurrently
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, ownerID string, taskID int64) error {
	return s.taskRepo.Delete(ctx, taskID, ownerID)
}

func validateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("title must not be empty: %w", common.ErrValidation)
	}
	if utf8.RuneCountInString(title) > model.MaxTitleLength {
		return fmt.Errorf("title exceeds %d characters: %w", model.MaxTitleLength, common.ErrValidation)
	}
	return nil
}
