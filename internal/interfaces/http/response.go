package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/warehouse-ledger/internal/application/dto"
	"github.com/jhoicas/warehouse-ledger/internal/domain"
)

// Códigos de error expuestos por la API.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeInternal          = "INTERNAL_ERROR"
)

const genericInternalMessage = "error interno del servidor"

func ok(c *fiber.Ctx, status int, data any, message string) error {
	return c.Status(status).JSON(dto.Response{Success: true, Data: data, Message: message})
}

func okList(c *fiber.Ctx, data any, p dto.Pagination) error {
	return c.Status(fiber.StatusOK).JSON(dto.ListResponse{Success: true, Data: data, Pagination: p})
}

func fail(c *fiber.Ctx, status int, code, message string, details map[string][]string) error {
	return c.Status(status).JSON(dto.ErrorResponse{
		Error: dto.ErrorBody{Code: code, Message: message, Details: details},
	})
}

// ErrorWriter traduce errores de dominio al sobre de error HTTP.
// Con hideInternal los errores no clasificados se responden con un mensaje genérico.
type ErrorWriter struct {
	log          zerolog.Logger
	hideInternal bool
}

// NewErrorWriter construye el traductor de errores.
func NewErrorWriter(log zerolog.Logger, hideInternal bool) *ErrorWriter {
	return &ErrorWriter{log: log, hideInternal: hideInternal}
}

// Write responde el error con el código y status correspondientes.
func (w *ErrorWriter) Write(c *fiber.Ctx, err error) error {
	var (
		ve *domain.ValidationError
		nf *domain.NotFoundError
		is *domain.InsufficientStockError
		ce *domain.ConflictError
		fe *fiber.Error
	)
	switch {
	case errors.As(err, &ve):
		return fail(c, fiber.StatusBadRequest, CodeValidation, ve.Message, ve.Fields)
	case errors.Is(err, domain.ErrInvalidInput):
		return fail(c, fiber.StatusBadRequest, CodeValidation, "datos inválidos", nil)
	case errors.As(err, &nf):
		return fail(c, fiber.StatusNotFound, CodeNotFound, nf.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, fiber.StatusNotFound, CodeNotFound, domain.ErrNotFound.Error(), nil)
	case errors.As(err, &is):
		return fail(c, fiber.StatusUnprocessableEntity, CodeInsufficientStock, is.Error(), map[string][]string{
			"available": {strconv.Itoa(is.Available)},
			"requested": {strconv.Itoa(is.Requested)},
		})
	case errors.As(err, &ce):
		return fail(c, fiber.StatusConflict, CodeConflict, ce.Message, nil)
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		return fail(c, fiber.StatusConflict, CodeConflict, "conflicto con el estado actual", nil)
	case errors.As(err, &fe):
		return w.writeFiberError(c, fe)
	}

	w.log.Error().Err(err).
		Str("request_id", RequestIDFrom(c)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("error interno")
	msg := err.Error()
	if w.hideInternal {
		msg = genericInternalMessage
	}
	return fail(c, fiber.StatusInternalServerError, CodeInternal, msg, nil)
}

// writeFiberError errores propios de fiber (ruta inexistente, método, body demasiado grande).
func (w *ErrorWriter) writeFiberError(c *fiber.Ctx, fe *fiber.Error) error {
	switch {
	case fe.Code == fiber.StatusNotFound:
		return fail(c, fe.Code, CodeNotFound, "ruta no encontrada", nil)
	case fe.Code >= 500:
		w.log.Error().Int("status", fe.Code).Str("path", c.Path()).Msg(fe.Message)
		msg := fe.Message
		if w.hideInternal {
			msg = genericInternalMessage
		}
		return fail(c, fe.Code, CodeInternal, msg, nil)
	default:
		return fail(c, fe.Code, CodeValidation, fe.Message, nil)
	}
}

// Handler adapta el ErrorWriter como fiber.ErrorHandler de la app.
func (w *ErrorWriter) Handler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return w.Write(c, err)
	}
}
