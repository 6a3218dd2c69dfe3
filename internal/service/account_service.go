package service

import (
	"context"
	"fmt"

	"github.com/nyumba-homes/storefront-api/internal/auth"
	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/nyumba-homes/storefront-api/internal/queue"
	"github.com/nyumba-homes/storefront-api/internal/storage"
	"go.uber.org/zap"
)

// MsgSignedOut confirms a sign out
const MsgSignedOut = "You have been signed out."

// AccountService signs visitors in and out through the mock auth provider
type AccountService struct {
	provider   auth.Provider
	store      storage.Store
	dispatcher *queue.Dispatcher
	logger     *zap.Logger
}

func NewAccountService(
	provider auth.Provider,
	store storage.Store,
	dispatcher *queue.Dispatcher,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		provider:   provider,
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// SignIn stores the provider's user under the visitor session
func (s *AccountService) SignIn(ctx context.Context, req *domain.SignInRequest) (*domain.UserResponse, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.provider.SignIn(ctx, req.Name, req.Email)
	if err != nil {
		return nil, err
	}

	err = s.dispatcher.Do(ctx, sid, func(ctx context.Context) error {
		return clientState(s.store, sid, s.logger).SaveUser(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Visitor signed in",
		zap.String("session_id", sid),
		zap.String("user_id", user.ID),
	)

	notification := domain.Success(fmt.Sprintf("Welcome, %s!", user.Name))
	return &domain.UserResponse{Notification: &notification, User: &user}, nil
}

// SignOut forgets the stored user. Signing out twice is not an error.
func (s *AccountService) SignOut(ctx context.Context) (*domain.UserResponse, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}

	err = s.dispatcher.Do(ctx, sid, func(ctx context.Context) error {
		return clientState(s.store, sid, s.logger).ClearUser(ctx)
	})
	if err != nil {
		return nil, err
	}

	notification := domain.Success(MsgSignedOut)
	return &domain.UserResponse{Notification: &notification}, nil
}

// Me returns the signed-in user or domain.ErrNotSignedIn
func (s *AccountService) Me(ctx context.Context) (*domain.UserResponse, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}

	user := clientState(s.store, sid, s.logger).LoadUser(ctx)
	if user == nil {
		return nil, domain.ErrNotSignedIn
	}
	return &domain.UserResponse{User: user}, nil
}
