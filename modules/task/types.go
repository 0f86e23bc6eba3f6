package task

import (
	domain "github.com/Mgahed/SkyloovTask/domain/task"
)

// ListTasksRequest is the request for listing tasks.
type ListTasksRequest = domain.Query

// GetTaskRequest is the request for getting a task.
type GetTaskRequest struct {
	ID uint `json:"id" form:"id"`
}

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest = domain.Input

// UpdateTaskRequest is the request for updating a task. Only the supplied
// fields are changed.
type UpdateTaskRequest struct {
	ID uint `json:"id" form:"id"`
	domain.Input
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	ID uint `json:"id" form:"id"`
}
