package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusFor maps core errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, order.ErrInvalidOrderItem),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func statusLine(code int) string {
	text := strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_"))
	return fmt.Sprintf("%d %s", code, text)
}

func (s *Server) writeError(c echo.Context, err error) error {
	code := statusFor(err)
	message := err.Error()

	level := slog.LevelWarn
	if code == http.StatusInternalServerError {
		level = slog.LevelError
		message = "internal error"
	}
	s.logger.Log(c.Request().Context(), level, "Request failed",
		"method", c.Request().Method,
		"path", c.Path(),
		"status", code,
		"error", err,
	)

	return c.JSON(code, errorDTO{
		Error:     message,
		Status:    statusLine(code),
		Timestamp: strconv.FormatInt(s.clock.Now().UnixMilli(), 10),
	})
}
