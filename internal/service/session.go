package service

import (
	"context"

	"github.com/nyumba-homes/storefront-api/internal/auth"
	"github.com/nyumba-homes/storefront-api/internal/repository"
	"github.com/nyumba-homes/storefront-api/internal/storage"
	"go.uber.org/zap"
)

// sessionID returns the id of the visitor the request belongs to
func sessionID(ctx context.Context) (string, error) {
	session, ok := auth.FromContext(ctx)
	if !ok || session.SessionID == "" {
		return "", ErrNoSession
	}
	return session.SessionID, nil
}

// clientState opens the client state of one visitor
func clientState(store storage.Store, sessionID string, logger *zap.Logger) *repository.ClientStateRepository {
	return repository.NewClientStateRepository(
		storage.Namespace(store, sessionID),
		logger.With(zap.String("session_id", sessionID)),
	)
}

// orderLog opens the order log of one visitor
func orderLog(store storage.Store, sessionID string, logger *zap.Logger) *repository.OrderRepository {
	return repository.NewOrderRepository(
		storage.Namespace(store, sessionID),
		logger.With(zap.String("session_id", sessionID)),
	)
}
