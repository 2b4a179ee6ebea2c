package handlers

import (
	"strconv"

	"github.com/anjiri1684/corporate_training/services"
	"github.com/anjiri1684/corporate_training/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var validate = validator.New()

// respondError maps service errors onto HTTP statuses. Storage failures are
// logged and reported without their cause.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	}

	if status == fiber.StatusInternalServerError {
		utils.Log.WithError(err).WithField("path", c.Path()).Error("request failed")
		return c.Status(status).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": publicMessage(err)})
}

// publicMessage drops the sentinel suffix that errors.Wrap appends.
func publicMessage(err error) string {
	for _, sentinel := range []error{
		services.ErrNotFound, services.ErrForbidden, services.ErrConflict,
		services.ErrInvalidInput, services.ErrUnauthorized,
	} {
		if err == sentinel {
			return err.Error()
		}
		if errors.Cause(err) == sentinel {
			msg := err.Error()
			if n := len(msg) - len(sentinel.Error()) - 2; n > 0 {
				return msg[:n]
			}
			return msg
		}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "not found"
	}
	return err.Error()
}

// bind parses the JSON body into req and validates it.
func bind(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return services.Invalid("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return errors.Wrap(services.ErrInvalidInput, err.Error())
	}
	return nil
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || n == 0 {
		return 0, services.Invalid("invalid " + name)
	}
	return uint(n), nil
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return services.NotFound(what)
	}
	return err
}
