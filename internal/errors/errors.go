// Package errors holds the domain error taxonomy shared by services and
// handlers. Each DomainError carries the HTTP status it maps to.
package errors

import (
	"errors"
	"net/http"
)

type DomainError struct {
	Code    string
	Message string
	Status  int
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches on Code so wrapped copies compare equal.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// StatusOf returns the HTTP status for err, 500 for anything that is not a
// DomainError.
func StatusOf(err error) int {
	var de *DomainError
	if errors.As(err, &de) && de.Status != 0 {
		return de.Status
	}
	return http.StatusInternalServerError
}
