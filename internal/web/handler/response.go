package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/BayiPanel/BayiPanel/internal/auth"
	"github.com/BayiPanel/BayiPanel/internal/db/controller/role"
	"github.com/BayiPanel/BayiPanel/internal/permission"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK writes a successful reply carrying data.
func OK(c *fiber.Ctx, data any) error {
	return c.JSON(Response{Success: true, Data: data})
}

// Created writes a 201 reply carrying data.
func Created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Response{Success: true, Data: data})
}

// Message writes a successful reply with a message only.
func Message(c *fiber.Ctx, msg string) error {
	return c.JSON(Response{Success: true, Message: msg})
}

// FromError maps a service error to a fiber error with the matching status.
// Storage failures become 503; no storage error is ever answered as a success.
func FromError(err error) *fiber.Error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe
	}

	switch {
	case errors.Is(err, permission.ErrValidation),
		errors.Is(err, permission.ErrInvalidArgument),
		errors.Is(err, role.ErrRoleNameEmpty):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, permission.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, role.ErrSystemRole):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, auth.ErrSelfLockout),
		errors.Is(err, role.ErrRoleInUse),
		errors.Is(err, role.ErrRoleExists):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, permission.ErrStorage):
		log.Error().Err(err).Msg("permission storage unavailable")

		return fiber.NewError(fiber.StatusServiceUnavailable, "Permission service unavailable")
	default:
		log.Error().Err(err).Msg("unhandled handler error")

		return fiber.NewError(fiber.StatusInternalServerError, fiber.ErrInternalServerError.Message)
	}
}

// ErrorHandler renders every error returned by a handler or middleware as the envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	fe := FromError(err)

	return c.Status(fe.Code).JSON(Response{Success: false, Message: fe.Message})
}
