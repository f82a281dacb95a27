package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"isnad-backend/models"
	apimodels "isnad-backend/models/api"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("failed to parse the request")
		return errors.New("failed to read request data")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := ctx.Params("id")
	if id == "" {
		return "", errors.New("record id is required")
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
}

// SendError maps the engine error taxonomy onto HTTP statuses. Engine errors
// go out with their own message; anything unrecognized is a 500 with the
// generic message only.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, hMsg string) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, models.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, models.ErrSectionNotEditable):
		status = fiber.StatusForbidden
	case errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrDuplicateActiveForm),
		errors.Is(err, models.ErrFormNotEligible):
		status = fiber.StatusConflict
	}
	if status == fiber.StatusInternalServerError {
		logger.WithError(err).Error(hMsg)
		return ctx.Status(status).JSON(apimodels.NewError(hMsg))
	}
	logger.WithError(err).Warn(hMsg)
	return ctx.Status(status).JSON(apimodels.NewError(err.Error()))
}
