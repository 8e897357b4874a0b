package middleware

import (
	"net/http"

	"github.com/kbukum/startup-analyzer/errors"
	"github.com/kbukum/startup-analyzer/util"
)

// TooLarge is the error answered when a request body exceeds limit bytes.
func TooLarge(limit int64) *errors.AppError {
	return errors.New(errors.ErrCodeInvalidInput,
		"The uploaded file is too large. The limit is "+util.FormatSize(limit)+".",
		http.StatusRequestEntityTooLarge).WithDetail("limit_bytes", limit)
}
