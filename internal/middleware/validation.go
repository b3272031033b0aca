package middleware

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxMessageLen = 100000
	maxNameLen    = 256
)

// ValidateMessageContent validates message content.
func ValidateMessageContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("content cannot be empty")
	}
	if len(content) > maxMessageLen {
		return errors.New("content exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("content must be valid UTF-8")
	}
	return nil
}

// ParseID parses a path ID, naming the resource in the error.
func ParseID(kind, id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, errors.New("invalid " + kind + " ID format")
	}
	return parsed, nil
}

// ValidateName validates a person or company name.
func ValidateName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New(field + " is required")
	}
	if len(name) > maxNameLen {
		return errors.New(field + " exceeds maximum length")
	}
	if !utf8.ValidString(name) {
		return errors.New(field + " must be valid UTF-8")
	}
	return nil
}
