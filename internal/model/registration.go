package model

import (
	"errors"
	"fmt"
)

// Registration is the outcome of a successful nation claim.
// Nation.Era is EraNone when the nation came from a live roster.
type Registration struct {
	ServerAlias   ServerAlias
	DiscordUserID DiscordUserID
	Nation        Nation
}

// RegistrationError is returned by every failed registration.
// Reason is one of the registration sentinel errors and is matched by errors.Is.
type RegistrationError struct {
	Reason error
	Query  string
	// PretenderHint is set on ErrNationNotFound when the game has not started
	// and the player has probably not uploaded a pretender yet
	PretenderHint bool
	Cause         error
}

// NewRegistrationError builds a RegistrationError with an optional cause
func NewRegistrationError(reason error, query string, cause error) *RegistrationError {
	return &RegistrationError{Reason: reason, Query: query, Cause: cause}
}

func (e *RegistrationError) Error() string {
	msg := e.Reason.Error()
	if e.Query != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Query)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *RegistrationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Cause}
}

// RegistrationReason extracts the registration sentinel from err.
// Errors that are not registration errors are reported as ErrStorage.
func RegistrationReason(err error) error {
	var re *RegistrationError
	if errors.As(err, &re) {
		return re.Reason
	}
	return ErrStorage
}
