package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Mgahed/SkyloovTask/envelope"
	"github.com/Mgahed/SkyloovTask/modules/task"
)

const healthTimeout = 2 * time.Second

// errInvalidBody is returned for request bodies that cannot be decoded.
var errInvalidBody = fiber.NewError(fiber.StatusBadRequest, "Invalid request body")

// parseBody decodes a request body into out. An empty body leaves out
// untouched; a body without a Content-Type is treated as JSON.
func parseBody(c *fiber.Ctx, out any) error {
	body := c.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}

	var err error
	if c.Get(fiber.HeaderContentType) == "" {
		err = c.App().Config().JSONDecoder(body, out)
	} else {
		err = c.BodyParser(out)
	}
	if err != nil {
		return errInvalidBody
	}
	return nil
}

// errorHandler renders every unhandled error, including recovered panics,
// as an envelope.
func (m *Module) errorHandler(c *fiber.Ctx, err error) error {
	var env envelope.Envelope

	var fe *fiber.Error
	if errors.As(err, &fe) {
		env = envelope.Format(fe.Message, fe.Code, nil)
	} else {
		env = task.ErrorReply(err)
	}

	if env.Status() >= fiber.StatusInternalServerError {
		m.logger.Error("HTTP error",
			"code", env.Status(),
			"path", c.Path(),
			"requestID", c.Locals("requestid"),
			"error", err)
	}

	return c.Status(env.Status()).JSON(env)
}
