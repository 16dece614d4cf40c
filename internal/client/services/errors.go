package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bookflix/internal/client/client"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrValidation       = errors.New("validation failed")
	ErrTierNotFound     = errors.New("subscription tier not found")
	ErrEmptyQuery       = errors.New("search query is empty")
)

// FieldProblem is one failed validation rule.
type FieldProblem struct {
	Field   string
	Message string
}

// ValidationError lists every rule a form failed, in check order.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.Message)
	}
	return strings.Join(msgs, " ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Field returns the first message reported for field, or "".
func (e *ValidationError) Field(field string) string {
	for _, p := range e.Problems {
		if p.Field == field {
			return p.Message
		}
	}
	return ""
}

type TierNotFoundError struct {
	Name      string
	Available []string
}

func (e *TierNotFoundError) Error() string {
	return fmt.Sprintf("Subscription tier '%s' not found. Available tiers: %s",
		e.Name, strings.Join(e.Available, ", "))
}

func (e *TierNotFoundError) Is(target error) bool {
	return target == ErrTierNotFound
}

// DisplayMessage renders err as a single line for the view layer.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		validationErr *ValidationError
		tierErr       *TierNotFoundError
		apiErr        *client.APIError
	)

	switch {
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &tierErr):
		return tierErr.Error()
	case errors.Is(err, client.ErrSessionExpired):
		return "Your session has expired. Please log in again."
	case errors.Is(err, ErrNotAuthenticated):
		return "Please log in first."
	case errors.Is(err, ErrEmptyQuery):
		return "Please enter something to search for."
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, client.ErrUnavailable):
		return "Cannot reach the server. Please try again later."
	case errors.Is(err, context.DeadlineExceeded):
		return "The request timed out. Please try again."
	case errors.Is(err, context.Canceled):
		return "Cancelled."
	default:
		return client.GenericErrorMessage
	}
}
