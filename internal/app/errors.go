package app

import "errors"

var (
	// ErrInvalidCredentials covers unknown emails and bad passwords alike
	// so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("Invalid credentials")

	ErrEmailAlreadyExists = errors.New("User already exists with this email")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("Admin access required")
)

// invalidInputError marks a validation failure whose message is safe to
// show to the client.
type invalidInputError struct {
	msg string
}

func (e invalidInputError) Error() string { return e.msg }

func invalidInput(msg string) error { return invalidInputError{msg: msg} }

// IsInvalidInput reports whether err is a validation failure.
func IsInvalidInput(err error) bool {
	var e invalidInputError
	return errors.As(err, &e)
}
