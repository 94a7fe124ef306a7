package models

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      int64      `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueTime     *time.Time `json:"dueDateTime"`
	AllDay      bool       `json:"allDay"`
	CreatedAt   time.Time  `json:"creationTime"`
}
