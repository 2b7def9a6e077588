// file: internals/helpers/app_errors.go
package helper

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

/* ===============================
   Error kinds
=================================*/

// ValidationError carries field -> messages, rendered as 422.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError(field, message string) *ValidationError {
	e := &ValidationError{Fields: map[string][]string{}}
	e.Add(field, message)
	return e
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) Empty() bool { return e == nil || len(e.Fields) == 0 }

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msgs := range e.Fields {
		parts = append(parts, f+": "+strings.Join(msgs, ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConflictError is a uniqueness clash (duplicate week, duplicate department name).
type ConflictError struct {
	Message string
}

func NewConflict(format string, args ...any) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

func (e *ConflictError) Error() string        { return e.Message }
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// DependentsError refuses a delete while other rows still point at the target.
type DependentsError struct {
	Message    string
	Dependents int64
}

func (e *DependentsError) Error() string {
	return fmt.Sprintf("%s (%d dependents)", e.Message, e.Dependents)
}

// NotFound wraps ErrNotFound with a readable message.
func NotFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

/* ===============================
   DB error mapping
=================================*/

// MapDBError translates driver errors into an HTTP status + message.
// Returns 0 when the error is not a known constraint violation.
func MapDBError(err error) (int, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapSQLState(pgErr.Code, pgErr.ConstraintName)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return mapSQLState(string(pqErr.Code), pqErr.Constraint)
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict, "duplicate value violates a unique constraint"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return http.StatusUnprocessableEntity, "referenced record does not exist"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint"), strings.Contains(msg, "duplicate key"):
		return http.StatusConflict, "duplicate value violates a unique constraint"
	case strings.Contains(msg, "foreign key constraint"):
		return http.StatusUnprocessableEntity, "referenced record does not exist"
	}
	return 0, ""
}

func mapSQLState(code, constraint string) (int, string) {
	switch code {
	case "23505":
		if constraint != "" {
			return http.StatusConflict, "duplicate value violates " + constraint
		}
		return http.StatusConflict, "duplicate value violates a unique constraint"
	case "23503":
		return http.StatusUnprocessableEntity, "referenced record does not exist"
	case "23514", "22P02":
		return http.StatusUnprocessableEntity, "value rejected by database check"
	}
	return 0, ""
}

/* ===============================
   Rendering
=================================*/

// JsonFromError renders any service/store error through the standard envelope.
// Unknown errors are logged and hidden behind an opaque 500.
func JsonFromError(c *fiber.Ctx, err error) error {
	var (
		vErr *ValidationError
		dErr *DependentsError
		cErr *ConflictError
		fErr *fiber.Error
	)
	switch {
	case errors.As(err, &vErr):
		return JsonValidationError(c, vErr.Fields)
	case errors.As(err, &dErr):
		return JsonDependentsError(c, dErr.Message, dErr.Dependents)
	case errors.As(err, &cErr):
		return JsonError(c, fiber.StatusConflict, cErr.Message)
	case errors.Is(err, ErrNotFound):
		return JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		return JsonError(c, fiber.StatusNotFound, "record not found")
	case errors.As(err, &fErr):
		return JsonError(c, fErr.Code, fErr.Message)
	}

	if status, msg := MapDBError(err); status != 0 {
		return JsonError(c, status, msg)
	}

	lgr.Printf("[ERROR] %s %s reqid=%v: %v", c.Method(), c.OriginalURL(), c.Locals("reqid"), err)
	return JsonError(c, fiber.StatusInternalServerError, "internal server error")
}

// FiberErrorHandler plugs JsonFromError into fiber.Config.ErrorHandler.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	return JsonFromError(c, err)
}
