package envelope

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyBody        = errors.New("got empty message")
	ErrMalformed        = errors.New("malformed message")
	ErrUnregisteredType = errors.New("unregistered message type")
)

// DomainError is an ERROR envelope sent by the server.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("server error %s: %s", e.Code, e.Message)
}
