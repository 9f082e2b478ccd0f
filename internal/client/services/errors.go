package services

import (
	"errors"

	"github.com/dmitrijs2005/authapp/internal/client/client"
)

// ErrNotAuthenticated is returned by operations that need a session when
// there is none.
var ErrNotAuthenticated = errors.New("not authenticated")

// Fallback messages shown when the server gives no reason.
const (
	MsgLoginFailed       = "Login failed."
	MsgRegisterFailed    = "Registration failed."
	MsgUpdateFailed      = "Error updating profile."
	MsgLoadProfileFailed = "Failed to load profile."
	MsgDeleteFailed      = "Error deleting account."
	MsgNotAuthenticated  = "You are not logged in."
)

// OpError is a failed manager operation. Error returns a message that is
// safe to show to the user; the underlying cause stays reachable through
// errors.Is and errors.As.
type OpError struct {
	Op      string
	Message string
	Err     error
}

func (e *OpError) Error() string {
	return e.Message
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func fail(op, fallback string, err error) *OpError {
	return &OpError{Op: op, Message: client.UserMessage(err, fallback), Err: err}
}
