package auth

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nyumba-homes/storefront-api/internal/domain"
)

// Provider signs visitors in. The storefront only ships a mock.
type Provider interface {
	SignIn(ctx context.Context, name, email string) (domain.User, error)
}

// MockProvider accepts any name with a bare email address and mints a user id
type MockProvider struct {
	validate *validator.Validate
}

// NewMockProvider creates the mock sign-in provider
func NewMockProvider() *MockProvider {
	return &MockProvider{validate: validator.New()}
}

// SignIn returns a new user for the given identity
func (p *MockProvider) SignIn(ctx context.Context, name, email string) (domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return domain.User{}, domain.NewValidationError("Please enter your name and email.")
	}
	if err := p.validate.Var(email, "email"); err != nil {
		return domain.User{}, domain.NewValidationError("Please enter a valid email address.")
	}

	return domain.User{
		ID:    uuid.New().String(),
		Name:  name,
		Email: strings.ToLower(email),
	}, nil
}
