package internalerrors

import "fmt"

// Error kinds used by every operation. A domain error wraps exactly one of these so
// callers (including main's exit code mapping) can discriminate with errors.Is.
var (
	ErrAuthentication = fmt.Errorf("authentication failed")
	ErrValidation     = fmt.Errorf("validation failed")
	ErrNotFound       = fmt.Errorf("resource not found")
	ErrConflict       = fmt.Errorf("resource conflict")
	ErrOperation      = fmt.Errorf("operation failed")
	ErrTimeout        = fmt.Errorf("timed out")
)
