package task

import (
	"context"
	"net/http"

	"github.com/go-monolith/mono"

	"github.com/Mgahed/SkyloovTask/envelope"
)

// Request-reply handlers. Failures are carried inside the envelope so
// callers see the same status codes as HTTP clients.

func (m *Module) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (envelope.Envelope, error) {
	return ListReply(m.service.List(ctx, req)), nil
}

func (m *Module) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (envelope.Envelope, error) {
	t, err := m.service.Get(ctx, req.ID)
	return TaskReply(t, http.StatusOK, err), nil
}

func (m *Module) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (envelope.Envelope, error) {
	t, err := m.service.Create(ctx, req)
	return TaskReply(t, http.StatusCreated, err), nil
}

func (m *Module) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (envelope.Envelope, error) {
	t, err := m.service.Update(ctx, req.ID, req.Input)
	return TaskReply(t, http.StatusOK, err), nil
}

func (m *Module) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (envelope.Envelope, error) {
	return DeleteReply(m.service.Delete(ctx, req.ID)), nil
}
