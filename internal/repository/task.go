package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/smartcalendar/backend/internal/database"
	"github.com/smartcalendar/backend/internal/models"
)

type TaskRepository struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `task_id, user_id, title, description, completed, due_time, all_day, created_at`

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO tasks (task_id, user_id, title, description, completed, due_time, all_day, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		task.ID, task.UserID, task.Title, task.Description, task.Completed,
		task.DueTime, task.AllDay, task.CreatedAt,
	)
	return err
}

func (r *TaskRepository) GetByID(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	task := &models.Task{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE task_id = $1`, taskID,
	).Scan(&task.ID, &task.UserID, &task.Title, &task.Description,
		&task.Completed, &task.DueTime, &task.AllDay, &task.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return task, nil
}

func (r *TaskRepository) ByUserID(ctx context.Context, userID int64) ([]*models.Task, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = $1
		 ORDER BY due_time ASC NULLS LAST, created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task := &models.Task{}
		if err := rows.Scan(&task.ID, &task.UserID, &task.Title, &task.Description,
			&task.Completed, &task.DueTime, &task.AllDay, &task.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE tasks SET title = $1, description = $2, completed = $3,
		 due_time = $4, all_day = $5
		 WHERE task_id = $6`,
		task.Title, task.Description, task.Completed, task.DueTime,
		task.AllDay, task.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, taskID uuid.UUID, completed bool) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE tasks SET completed = $1 WHERE task_id = $2`, completed, taskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, taskID uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM tasks WHERE task_id = $1`, taskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
