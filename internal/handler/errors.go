package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nursery-service/internal/records"
	"nursery-service/internal/render"
	"nursery-service/internal/validation"
	"nursery-service/pkg/logger"
)

// respondError maps a service error onto a status and JSON body.
func (h *Handler) respondError(c echo.Context, err error) error {
	log := logger.FromEcho(c)

	var verrs validation.Errors
	var perr *records.PersistenceError
	switch {
	case errors.As(err, &verrs):
		body := echo.Map{"error": "validation failed", "fields": verrs}
		if info, ierr := h.records.Describe(actor(c), c.Param("slug")); ierr == nil {
			body["firstInvalid"] = render.FirstInvalid(info.Edit, verrs)
		}
		return c.JSON(http.StatusUnprocessableEntity, body)
	case errors.Is(err, records.ErrTableNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
	case errors.Is(err, records.ErrColumnNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "column not found"})
	case errors.Is(err, records.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
	case errors.Is(err, records.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you do not have permission to do this"})
	case errors.As(err, &perr):
		log.Error("Persistence failure", zap.String("op", perr.Op), zap.Error(perr.Err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": perr.Error()})
	default:
		log.Error("Unexpected error", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
