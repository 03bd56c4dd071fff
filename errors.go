package gorecipes

import "errors"

var (
	ErrNotFound     = errors.New("document not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// ValidationError marks a missing or malformed field in a request payload.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	ErrEmptyUsername   = &ValidationError{Message: "username is required"}
	ErrInvalidEmail    = &ValidationError{Message: "invalid email address"}
	ErrInvalidPassword = &ValidationError{Message: "password must be at least 10 characters"}
	ErrInvalidRole     = &ValidationError{Message: "invalid role"}
	ErrEmptyTitle      = &ValidationError{Message: "title is required"}
	ErrNoIngredients   = &ValidationError{Message: "ingredients are required"}
	ErrEmptyServings   = &ValidationError{Message: "servings are required"}
	ErrNoInstructions  = &ValidationError{Message: "instructions are required"}
	ErrEmptyBody       = &ValidationError{Message: "request body cannot be empty"}
	ErrEmptySearchTerm = &ValidationError{Message: "search term not provided"}
	ErrEmptyWebhookURL = &ValidationError{Message: "webhook url is required"}
)

// RepositoryError wraps a store failure so no driver-specific error shape
// crosses the repository boundary. The cause is preserved for errors.Is/As.
type RepositoryError struct {
	Message string
	Cause   error
}

func (e *RepositoryError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RepositoryError) Unwrap() error { return e.Cause }

// WebhookError wraps an outbound notification failure.
type WebhookError struct {
	Cause error
}

func (e *WebhookError) Error() string {
	if e.Cause != nil {
		return "webhook delivery failed: " + e.Cause.Error()
	}
	return "webhook delivery failed"
}

func (e *WebhookError) Unwrap() error { return e.Cause }
