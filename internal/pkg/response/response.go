package response

import (
	"errors"
	"net/http"
	"strings"

	"toklen/internal/domain"
	"toklen/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

// Success writes {message, ...payload}.
func Success(c *gin.Context, statusCode int, message string, payload gin.H) {
	body := gin.H{"message": message}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"error": message,
		"code":  code,
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"error":   message,
		"code":    code,
		"details": details,
	})
}

// AbortWithError is Error followed by c.Abort, for middleware.
func AbortWithError(c *gin.Context, statusCode int, code string, message string) {
	Error(c, statusCode, code, message)
	c.Abort()
}

type mapping struct {
	target   error
	status   int
	code     string
	fallback string
}

// Ordered: specific conflicts before the generic sentinels they wrap.
var mappings = []mapping{
	{domain.ErrServiceUnavailable, http.StatusConflict, "SERVICE_NOT_AVAILABLE", "Service no longer available"},
	{domain.ErrAlreadyRegistered, http.StatusConflict, "ALREADY_REGISTERED", "Professional profile already exists"},
	{domain.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input"},
	{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND", "Resource not found"},
	{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN", "Access denied"},
	{domain.ErrInvalidTransition, http.StatusBadRequest, "INVALID_TRANSITION", "Invalid status transition"},
	{domain.ErrAlreadyRated, http.StatusBadRequest, "ALREADY_RATED", "Service already rated"},
	{domain.ErrNotCompleted, http.StatusBadRequest, "SERVICE_NOT_COMPLETED", "Service must be completed before rating"},
	{domain.ErrConflict, http.StatusConflict, "CONFLICT", "Conflicting state"},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required"},
}

// FromError translates a service error into the JSON error envelope.
func FromError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	if details := validator.Details(err); details != nil {
		ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", details)
		return
	}

	for _, m := range mappings {
		if errors.Is(err, m.target) {
			Error(c, m.status, m.code, publicMessage(err, m.target, m.fallback))
			return
		}
	}

	msg := "Internal server error"
	if gin.Mode() != gin.ReleaseMode {
		msg = err.Error()
	}
	Error(c, http.StatusInternalServerError, "INTERNAL", msg)
}

// publicMessage strips the sentinel prefix added by fmt.Errorf("%w: ...").
func publicMessage(err, target error, fallback string) string {
	msg := err.Error()
	if msg == target.Error() {
		return fallback
	}
	for e := target; e != nil; e = errors.Unwrap(e) {
		if trimmed, ok := strings.CutPrefix(msg, e.Error()+": "); ok {
			msg = trimmed
			break
		}
	}
	if msg == "" {
		return fallback
	}
	return msg
}

// BindError reports a failed ShouldBind*: field details for validation
// errors, a generic 400 for malformed bodies.
func BindError(c *gin.Context, err error) {
	_ = c.Error(err)
	if details := validator.Details(err); details != nil {
		ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", details)
		return
	}
	Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
}
