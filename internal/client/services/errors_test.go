package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/bookflix/internal/client/client"
	"github.com/stretchr/testify/assert"
)

func TestDisplayMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", &ValidationError{Problems: []FieldProblem{{"password", "Password must be at least 8 characters."}}}, "Password must be at least 8 characters."},
		{"tier", &TierNotFoundError{Name: "x", Available: []string{"Free"}}, "Subscription tier 'x' not found. Available tiers: Free"},
		{"expired", fmt.Errorf("get: %w", client.ErrSessionExpired), "Your session has expired. Please log in again."},
		{"anonymous", ErrNotAuthenticated, "Please log in first."},
		{"api", fmt.Errorf("login: %w", &client.APIError{Status: 400, Message: "Invalid credentials"}), "Invalid credentials"},
		{"unavailable", fmt.Errorf("%w: dial tcp", client.ErrUnavailable), "Cannot reach the server. Please try again later."},
		{"timeout", context.DeadlineExceeded, "The request timed out. Please try again."},
		{"other", errors.New("boom"), client.GenericErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayMessage(tt.err))
		})
	}
}
