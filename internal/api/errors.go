package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/authz"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
)

// Client-facing messages for the task rules. They are part of the API
// contract and stay in Spanish.
const (
	MsgDuplicateTitle   = "Ya existe una tarea con el mismo título para este usuario."
	MsgPendingMissing   = "El estado 'Pendiente' no existe. Por favor, creelo primero."
	msgUnexpectedError  = "An unexpected error occurred"
	msgValidationFailed = "Validation error"
)

// MapErrorToStatusCode maps service and domain errors to HTTP status codes.
// Anything unrecognized is a 500.
func MapErrorToStatusCode(err error) int {
	var valErrs validator.ValidationErrors
	switch {
	case errors.Is(err, authz.ErrAuthenticationRequired),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, authz.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrInUse),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict

	case errors.Is(err, service.ErrDuplicateTitle),
		errors.Is(err, service.ErrPendingStatusMissing),
		errors.Is(err, service.ErrInvalidReference),
		errors.Is(err, service.ErrDuplicateName),
		errors.Is(err, domain.ErrValidation),
		isUserInputError(err),
		errors.As(err, &valErrs):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the message a client may see for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgUnexpectedError
	}

	var (
		vErr    *domain.ValidationError
		refErr  *service.ReferenceError
		valErrs validator.ValidationErrors
	)
	switch {
	case errors.Is(err, service.ErrDuplicateTitle):
		return MsgDuplicateTitle
	case errors.Is(err, service.ErrPendingStatusMissing):
		return MsgPendingMissing

	case errors.Is(err, authz.ErrAuthenticationRequired):
		return "Authentication required"
	case errors.Is(err, authz.ErrForbidden):
		return "You do not have permission to perform this action"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, service.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, service.ErrStatusNotFound):
		return "Status not found"
	case errors.Is(err, service.ErrCategoryNotFound):
		return "Category not found"
	case errors.Is(err, service.ErrTaskLogNotFound):
		return "Log entry not found"
	case errors.Is(err, service.ErrNotFound):
		return "Not found"

	case errors.Is(err, service.ErrInUse):
		return "The status is still used by one or more tasks"
	case errors.Is(err, service.ErrEmailTaken):
		return "Email already exists"
	case errors.Is(err, service.ErrDuplicateName):
		return "An entry with this name already exists"
	case errors.As(err, &refErr):
		return fmt.Sprintf("Invalid %s: no such entry", refErr.Field)

	case errors.As(err, &vErr):
		return vErr.Error()
	case isUserInputError(err):
		return err.Error()
	case errors.As(err, &valErrs):
		return SanitizeValidationError(valErrs)
	case errors.Is(err, domain.ErrValidation):
		return msgValidationFailed

	default:
		return msgUnexpectedError
	}
}

// userInputErrors are domain sentinels whose text is safe to show as is.
var userInputErrors = []error{
	domain.ErrInvalidEmail,
	domain.ErrEmptyEmail,
	domain.ErrPasswordTooShort,
	domain.ErrPasswordTooLong,
	domain.ErrEmptyPassword,
	domain.ErrTitleEmpty,
	domain.ErrTitleTooLong,
	domain.ErrEmptyStatus,
	domain.ErrNameEmpty,
	domain.ErrNameTooLong,
	shared.ErrEmptyBody,
}

func isUserInputError(err error) bool {
	for _, target := range userInputErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// SanitizeValidationError describes the first failed field of a validator
// error without echoing the submitted value.
func SanitizeValidationError(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return msgValidationFailed
	}
	fe := errs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe.Tag()))
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the response for err. Server errors are logged with
// the full, redacted error; client errors are logged at debug.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}
