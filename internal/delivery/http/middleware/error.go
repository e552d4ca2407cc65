package middleware

import (
	"errors"

	"team-forge/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// AppError is the one error shape handlers return. Fields, when set,
// renders as a field-keyed body for direct form display; otherwise the
// body is {"detail": Message}.
type AppError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Cause: cause}
}

func NewFieldError(statusCode int, fields map[string]string, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Fields: fields, Cause: cause}
}

type ErrorMiddleware struct {
	logger *zap.Logger
}

func NewErrorMiddleware(logger *zap.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				if m.logger != nil {
					m.logger.Error("panic recovered", zap.Any("panic", r))
				}
				err = response.Detail(c, fiber.StatusInternalServerError, response.DetailInternalServerError)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		var appErr *AppError
		if errors.As(err, &appErr) {
			status := appErr.StatusCode
			if status <= 0 {
				status = fiber.StatusInternalServerError
			}
			if status >= 500 {
				if m.logger != nil {
					m.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
				}
				return response.Detail(c, status, response.DetailInternalServerError)
			}
			if len(appErr.Fields) > 0 {
				return response.Fields(c, status, appErr.Fields)
			}
			return response.Detail(c, status, appErr.Message)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status := fiberErr.Code
			if status <= 0 || status >= 500 {
				return response.Detail(c, fiber.StatusInternalServerError, response.DetailInternalServerError)
			}
			return response.Detail(c, status, fiberErr.Message)
		}

		if m.logger != nil {
			m.logger.Error("unhandled error", zap.Error(err))
		}
		return response.Detail(c, fiber.StatusInternalServerError, response.DetailInternalServerError)
	}
}
