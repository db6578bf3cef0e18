package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeValid decodes the request body into dst and runs struct validation.
// The returned error is always an AppError suitable for WriteError.
func DecodeValid(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return NewAppError("BAD_REQUEST", "invalid request body", http.StatusBadRequest, err)
	}
	if err := validate.Struct(dst); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			fields := make([]string, 0, len(invalid))
			for _, fe := range invalid {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return &AppError{
				Code:       "VALIDATION",
				Message:    "validation failed: " + strings.Join(fields, ", "),
				HTTPStatus: http.StatusBadRequest,
				Err:        err,
			}
		}
		return Internal(err)
	}
	return nil
}

// ValidUUID reports whether s parses as a UUID.
func ValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// RequireUUID validates a path or body identifier, naming the field in the
// error message.
func RequireUUID(field, s string) error {
	if !ValidUUID(s) {
		return Invalid("invalid " + field + " format: " + s)
	}
	return nil
}
