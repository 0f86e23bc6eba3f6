package task

import (
	"errors"
	"net/http"

	domain "github.com/Mgahed/SkyloovTask/domain/task"
	"github.com/Mgahed/SkyloovTask/envelope"
)

// Client-facing messages.
const (
	MessageNotFound = "Task not found"
	MessageDeleted  = "Task deleted successfully"
	MessageInvalid  = "The given data was invalid."
)

// StatusOf maps a service error to its response status.
func StatusOf(err error) int {
	var verr *domain.ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorReply renders err as an envelope. Unexpected errors keep their raw
// message.
func ErrorReply(err error) envelope.Envelope {
	status := StatusOf(err)
	switch status {
	case http.StatusUnprocessableEntity:
		var verr *domain.ValidationError
		errors.As(err, &verr)
		return envelope.Format(verr.Fields(), status, map[string]any{"message": MessageInvalid})
	case http.StatusNotFound:
		return envelope.Format(MessageNotFound, status, nil)
	default:
		return envelope.Format(err.Error(), status, nil)
	}
}

// ListReply renders a page of tasks with its pagination metadata.
func ListReply(page *domain.Page, err error) envelope.Envelope {
	if err != nil {
		return ErrorReply(err)
	}
	return envelope.Format(domain.ToResources(page.Tasks), http.StatusOK, map[string]any{
		"meta": page.Meta(),
	})
}

// TaskReply renders a single task with the given success status.
func TaskReply(t *domain.Task, status int, err error) envelope.Envelope {
	if err != nil {
		return ErrorReply(err)
	}
	return envelope.Format(domain.ToResource(t), status, nil)
}

// DeleteReply renders the outcome of a delete.
func DeleteReply(err error) envelope.Envelope {
	if err != nil {
		return ErrorReply(err)
	}
	return envelope.Format(MessageDeleted, http.StatusOK, nil)
}
