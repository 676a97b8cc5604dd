package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"

	// Generation pipeline errors
	ErrNoSourceMaterial ErrorCode = "NO_SOURCE_MATERIAL"
	ErrNoArticleContent ErrorCode = "NO_ARTICLE_CONTENT"
	ErrGenerationFailed ErrorCode = "GENERATION_FAILED"
	ErrParseShortfall   ErrorCode = "PARSE_SHORTFALL"

	// Attempt / submission errors
	ErrQuizNotAvailable ErrorCode = "QUIZ_NOT_AVAILABLE"
	ErrWindowClosed     ErrorCode = "WINDOW_CLOSED"
	ErrNotRegistered    ErrorCode = "NOT_REGISTERED"
	ErrAlreadySubmitted ErrorCode = "ALREADY_SUBMITTED"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(ErrUnauthorized, message, nil)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(ErrNotFound, fmt.Sprintf("Quiz not found with ID: %s", quizID), nil)
}

func NewNoSourceMaterialError(topic string) *DomainError {
	return NewError(ErrNoSourceMaterial, fmt.Sprintf("No news articles found for topic '%s'", topic), nil)
}

func NewNoArticleContentError(topic string) *DomainError {
	return NewError(ErrNoArticleContent, fmt.Sprintf("Could not extract content from news articles for topic '%s'", topic), nil)
}

func NewGenerationFailedError(err error) *DomainError {
	return NewError(ErrGenerationFailed, "Text generation returned no usable content", err)
}

func NewParseShortfallError(expected, parsed int) *DomainError {
	return NewError(ErrParseShortfall,
		fmt.Sprintf("Failed to parse enough questions: expected %d, parsed %d", expected, parsed), nil)
}

func NewQuizNotAvailableError(message string) *DomainError {
	return NewError(ErrQuizNotAvailable, message, nil)
}

func NewWindowClosedError() *DomainError {
	return NewError(ErrWindowClosed, "The submission window for this quiz has closed", nil)
}

func NewNotRegisteredError() *DomainError {
	return NewError(ErrNotRegistered, "You are not registered for this quiz", nil)
}

func NewAlreadySubmittedError() *DomainError {
	return NewError(ErrAlreadySubmitted, "You have already submitted answers for this quiz", nil)
}
