package http

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/erp-ledger/internal/application/dto"
	"github.com/jhoicas/erp-ledger/internal/domain"
)

// retryAfterSeconds sugerencia enviada con 503 cuando no se obtuvo un bloqueo.
const retryAfterSeconds = 1

// writeError traduce errores de dominio a status + dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	var invalid *domain.InvalidMovementError
	var busy *domain.ConcurrencyTimeoutError
	switch {
	case errors.As(err, &invalid):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: invalid.Error()})
	case errors.Is(err, domain.ErrConcurrencyTimeout):
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds))
		msg := "recurso ocupado, reintente"
		if errors.As(err, &busy) {
			msg = fmt.Sprintf("bloqueo no obtenido para %s, reintente", busy.Key)
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "CONCURRENCY_TIMEOUT", Message: msg})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	}
	// El detalle (SQL, driver) queda en el log, no en la respuesta.
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("request_id", c.GetRespHeader(HeaderRequestID)).
		Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
