package videos

import "errors"

// Error kinds. Match them with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")
)

const (
	msgIDType           = "id must be a string"
	msgIDTaken          = "id already exists"
	msgIDEmpty          = "id must not be empty"
	msgTitleType        = "title must be a string"
	msgDurationType     = "duration must be a number"
	msgDurationPositive = "duration must be greater than zero"
	msgIDNotFound       = "id not found"
	msgVideoNotFound    = "video not found"
	msgInvalidBody      = "invalid request body"
)

// Error is returned by Service operations. Message is safe to show to clients.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ValidationError reports input that failed a field check.
func ValidationError(message string) *Error {
	return &Error{Kind: ErrValidation, Message: message}
}

// ConflictError reports a clash with an existing video.
func ConflictError(message string) *Error {
	return &Error{Kind: ErrConflict, Message: message}
}

// NotFoundError reports that the targeted video does not exist.
func NotFoundError(message string) *Error {
	return &Error{Kind: ErrNotFound, Message: message}
}

// StorageError wraps a persistence failure, keeping its message.
func StorageError(err error) *Error {
	return &Error{Kind: ErrStorage, Message: err.Error(), Err: err}
}
