package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"

	domain "github.com/Mgahed/SkyloovTask/domain/task"
	"github.com/Mgahed/SkyloovTask/envelope"
	"github.com/Mgahed/SkyloovTask/modules/task"
)

// Handlers contains HTTP request handlers for task operations.
type Handlers struct {
	service *task.Service
	checks  map[string]mono.HealthCheckableModule
	logger  types.Logger
}

// NewHandlers creates a new handlers instance.
func NewHandlers(service *task.Service, checks map[string]mono.HealthCheckableModule, logger types.Logger) *Handlers {
	return &Handlers{
		service: service,
		checks:  checks,
		logger:  logger,
	}
}

// ListTasks handles GET /api/tasks?status=&due_date=&title=&page=.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	q := domain.Query{
		Status:  c.Query("status"),
		DueDate: c.Query("due_date"),
		Title:   c.Query("title"),
		Page:    c.QueryInt("page", 1),
	}
	return respond(c, task.ListReply(h.service.List(c.UserContext(), q)))
}

// GetTask handles GET /api/tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	t, err := h.service.Get(c.UserContext(), taskID(c, 0))
	return respond(c, task.TaskReply(t, http.StatusOK, err))
}

// CreateTask handles POST /api/tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	var req task.CreateTaskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	t, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		h.logFailure(c, "create", err)
	}
	return respond(c, task.TaskReply(t, http.StatusCreated, err))
}

// UpdateTask handles PUT /api/tasks?id=N. The id may also be given as a
// path parameter or in the body.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	var req task.UpdateTaskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	t, err := h.service.Update(c.UserContext(), taskID(c, req.ID), req.Input)
	if err != nil {
		h.logFailure(c, "update", err)
	}
	return respond(c, task.TaskReply(t, http.StatusOK, err))
}

// DeleteTask handles DELETE /api/tasks?id=N.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	var req task.DeleteTaskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	err := h.service.Delete(c.UserContext(), taskID(c, req.ID))
	if err != nil {
		h.logFailure(c, "delete", err)
	}
	return respond(c, task.DeleteReply(err))
}

// Health handles GET /health.
func (h *Handlers) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	healthy := true
	modules := make(map[string]mono.HealthStatus, len(h.checks))
	for name, module := range h.checks {
		status := module.Health(ctx)
		modules[name] = status
		healthy = healthy && status.Healthy
	}

	code := http.StatusOK
	state := "healthy"
	if !healthy {
		code = http.StatusServiceUnavailable
		state = "unhealthy"
	}
	return respond(c, envelope.Format(fiber.Map{
		"state":   state,
		"modules": modules,
	}, code, nil))
}

// taskID resolves the target id from the path, the query string or the
// body, in that order. Anything that is not a positive integer yields 0,
// which never names a task.
func taskID(c *fiber.Ctx, fromBody uint) uint {
	for _, raw := range []string{c.Params("id"), c.Query("id")} {
		if raw == "" {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return 0
		}
		return uint(id)
	}
	return fromBody
}

func (h *Handlers) logFailure(c *fiber.Ctx, op string, err error) {
	if task.StatusOf(err) < http.StatusInternalServerError {
		return
	}
	h.logger.Error("Task operation failed",
		"op", op,
		"requestID", c.Locals("requestid"),
		"error", err)
}

func respond(c *fiber.Ctx, env envelope.Envelope) error {
	return c.Status(env.Status()).JSON(env)
}
