package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/smartcalendar/backend/internal/models"
)

type TaskStore interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, taskID uuid.UUID) (*models.Task, error)
	ByUserID(ctx context.Context, userID int64) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	UpdateStatus(ctx context.Context, taskID uuid.UUID, completed bool) error
	Delete(ctx context.Context, taskID uuid.UUID) error
}

type TaskService struct {
	tasks TaskStore
}

func NewTaskService(tasks TaskStore) *TaskService {
	return &TaskService{tasks: tasks}
}

func (s *TaskService) Create(ctx context.Context, actor *models.User, task *models.Task) (*models.Task, error) {
	task.UserID = actor.ID
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) ByUser(ctx context.Context, actor *models.User, userID int64) ([]*models.Task, error) {
	if actor.ID != userID {
		return nil, ErrForbidden
	}
	return s.tasks.ByUserID(ctx, userID)
}

func (s *TaskService) Edit(ctx context.Context, actor *models.User, taskID uuid.UUID, changes *models.Task) (*models.Task, error) {
	task, err := s.loadOwned(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	task.Title = changes.Title
	task.Description = changes.Description
	task.DueTime = changes.DueTime
	task.AllDay = changes.AllDay
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) SetStatus(ctx context.Context, actor *models.User, taskID uuid.UUID, completed bool) error {
	if _, err := s.loadOwned(ctx, actor, taskID); err != nil {
		return err
	}
	return s.tasks.UpdateStatus(ctx, taskID, completed)
}

func (s *TaskService) Description(ctx context.Context, actor *models.User, taskID uuid.UUID) (string, error) {
	task, err := s.loadOwned(ctx, actor, taskID)
	if err != nil {
		return "", err
	}
	return task.Description, nil
}

func (s *TaskService) Delete(ctx context.Context, actor *models.User, taskID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, actor, taskID); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, taskID)
}

// loadOwned fetches the task and rejects anyone but its owner.
func (s *TaskService) loadOwned(ctx context.Context, actor *models.User, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != actor.ID {
		return nil, ErrForbidden
	}
	return task, nil
}
