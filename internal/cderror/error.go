package cderror

import "net/http"

// Error kinds carried by the tag field.
const (
	TagValidation         = "validation"
	TagDuplicateEmail     = "duplicate-email"
	TagInvalidCredentials = "invalid-credentials"
	TagNotFound           = "not-found"
)

type (
	// A CDError represents the error format rendered by the CloudDrop API.
	CDError struct {
		HTTPCode   int `json:"-"`
		FieldError err `json:"error"`
	}

	err struct {
		Tag     string `json:"tag,omitempty"`
		Message string `json:"message"`
	}
)

// StatusCode returns the HTTP status code.
func StatusCode(e error) int {
	if cderr, ok := e.(*CDError); ok && cderr.HTTPCode != 0 {
		return cderr.HTTPCode
	}
	return http.StatusInternalServerError
}

// Is returns true when e is a CDError carrying the given tag.
func Is(e error, tag string) bool {
	cderr, ok := e.(*CDError)
	return ok && cderr.FieldError.Tag == tag
}

// New returns a new CDError with the given message.
func New(message string) *CDError {
	return &CDError{FieldError: err{Message: message}}
}

// NewWithTagCode returns a new CDError with the given code, tag and message.
func NewWithTagCode(code int, tag, message string) *CDError {
	return &CDError{HTTPCode: code, FieldError: err{Tag: tag, Message: message}}
}

// Validation returns a CDError for missing or malformed input.
func Validation(message string) *CDError {
	return NewWithTagCode(http.StatusBadRequest, TagValidation, message)
}

// DuplicateEmail returns a CDError for an already registered email.
func DuplicateEmail(message string) *CDError {
	return NewWithTagCode(http.StatusConflict, TagDuplicateEmail, message)
}

// InvalidCredentials returns a CDError for a failed authentication.
// The same message is used whether the email is unknown or the password
// mismatches, so accounts cannot be enumerated.
func InvalidCredentials(message string) *CDError {
	return NewWithTagCode(http.StatusUnauthorized, TagInvalidCredentials, message)
}

// NotFound returns a CDError for an unknown user id.
func NotFound(message string) *CDError {
	return NewWithTagCode(http.StatusNotFound, TagNotFound, message)
}

// Error implements error interface.
func (e *CDError) Error() string {
	return e.FieldError.Message
}

// Tag returns the error kind.
func (e *CDError) Tag() string {
	return e.FieldError.Tag
}
