// Package errors holds the sentinel errors shared by the store, services and handlers.
package errors

import (
	"fmt"
)

var (
	ErrNotFound     = fmt.Errorf("not found")
	ErrInvalidInput = fmt.Errorf("invalid input")
	ErrConflict     = fmt.Errorf("already exists")
	ErrNoCompany    = fmt.Errorf("no company for user")
	ErrForbidden    = fmt.Errorf("forbidden")
	ErrUnavailable  = fmt.Errorf("unavailable")
)
