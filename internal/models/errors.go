package models

import "fmt"

// AppError is a structured application error with HTTP status code.
//
// Errors of the same kind share a Code; errors.Is(err, ErrInvalidArgument)
// and friends match on Code only, so callers can test the kind of any
// wrapped AppError without caring about its message.
type AppError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	if e.Message == "" {
		return e.Code
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Is reports whether target is an AppError of the same kind.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Error kinds. Use with errors.Is; construct instances with the helpers below.
var (
	// ErrTransport: the underlying EC read or write failed. Never retried here.
	ErrTransport = &AppError{Code: "TRANSPORT", Status: 502}
	// ErrUnsupportedHardware: no model configuration matches the firmware.
	ErrUnsupportedHardware = &AppError{Code: "UNSUPPORTED_HARDWARE", Status: 501}
	// ErrInvalidArgument: caller input rejected before touching hardware.
	ErrInvalidArgument = &AppError{Code: "INVALID_ARGUMENT", Status: 400}
	// ErrInvalidState: a value read back from hardware is outside its declared window.
	ErrInvalidState = &AppError{Code: "INVALID_STATE", Status: 500}
	// ErrNotSupported: the feature or address is absent or unverified on this model.
	ErrNotSupported = &AppError{Code: "NOT_SUPPORTED", Status: 404}
	ErrNotFound     = &AppError{Code: "NOT_FOUND", Status: 404}
	ErrUnauthorized = &AppError{Code: "UNAUTHORIZED", Message: "authentication required", Status: 401}
)

func newErr(kind *AppError, err error, format string, args ...any) *AppError {
	return &AppError{
		Code:    kind.Code,
		Message: fmt.Sprintf(format, args...),
		Status:  kind.Status,
		Err:     err,
	}
}

// Transport wraps a failed EC bus operation.
func Transport(err error, format string, args ...any) *AppError {
	return newErr(ErrTransport, err, format, args...)
}

// UnsupportedHardware reports that no configuration matches the machine.
func UnsupportedHardware(format string, args ...any) *AppError {
	return newErr(ErrUnsupportedHardware, nil, format, args...)
}

// InvalidArgument rejects caller-supplied input.
func InvalidArgument(format string, args ...any) *AppError {
	return newErr(ErrInvalidArgument, nil, format, args...)
}

// InvalidState reports a raw hardware value outside its declared window.
func InvalidState(format string, args ...any) *AppError {
	return newErr(ErrInvalidState, nil, format, args...)
}

// NotSupported reports an access to a sentinel address or hidden feature.
func NotSupported(format string, args ...any) *AppError {
	return newErr(ErrNotSupported, nil, format, args...)
}

// NotFound reports an unknown feature name.
func NotFound(format string, args ...any) *AppError {
	return newErr(ErrNotFound, nil, format, args...)
}
