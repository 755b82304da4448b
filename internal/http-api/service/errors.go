package service

import (
	"errors"
	"sort"
	"strings"

	"foodgram/internal/http-api/repository"
)

var (
	ErrNotFound      = repository.ErrNotFound
	ErrAlreadyExists = repository.ErrDuplicate

	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("you do not have permission to perform this action")
	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSelfSubscription   = errors.New("you cannot subscribe to yourself")
	ErrAlreadySubscribed  = errors.New("already subscribed to this user")
	ErrNotSubscribed      = errors.New("not subscribed to this user")
	ErrAlreadyInList      = errors.New("recipe is already added")
	ErrNotInList          = errors.New("recipe is not in the list")
	ErrNoAvatar           = errors.New("avatar is not set")
)

// ValidationError carries per-field messages. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Add records the first message for field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// OrNil returns e as an error when it holds at least one field.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func fieldError(field, msg string) error {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}
