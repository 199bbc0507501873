// Package fulfillment applies status transitions to orders. Every change is
// committed to the collaborator before local state is touched; there is no
// optimistic commit, so a failed commit leaves the order exactly as it was
// and the caller retries.
package fulfillment

import (
	"context"
	"fmt"

	"confeitaria/internal/client"
	"confeitaria/internal/domain"
	"confeitaria/internal/normalize"

	"go.uber.org/zap"
)

// Service validates and commits fulfillment transitions.
type Service struct {
	api        client.API
	normalizer *normalize.Normalizer
	logger     *zap.Logger
}

// NewService creates a fulfillment Service.
func NewService(api client.API, normalizer *normalize.Normalizer, logger *zap.Logger) *Service {
	return &Service{api: api, normalizer: normalizer, logger: logger}
}

// Transition moves pedido to target. It fails with ErrIllegalTransition when
// target is outside the allowed graph, and with the collaborator's error when
// the commit fails; in both cases pedido is unchanged. On success pedido is
// replaced with the server's normalized record.
func (s *Service) Transition(ctx context.Context, pedido *domain.Pedido, target domain.StatusPedido) error {
	if !pedido.Status.CanTransition(target) {
		return fmt.Errorf("%s -> %s: %w", pedido.Status, target, domain.ErrIllegalTransition)
	}

	record, err := s.api.UpdateStatus(ctx, pedido.Kind, pedido.ID, target)
	if err != nil {
		s.logger.Error("Status commit failed",
			zap.String("pedido_id", pedido.ID.String()),
			zap.String("target", string(target)),
			zap.Error(err),
		)
		return fmt.Errorf("commit status: %w", err)
	}

	*pedido = s.normalizer.Pedido(*record, pedido.Kind)
	s.logger.Info("Pedido transitioned",
		zap.String("pedido_id", pedido.ID.String()),
		zap.String("status", string(pedido.Status)),
	)
	return nil
}

// Advance moves pedido to the next status on the main chain.
func (s *Service) Advance(ctx context.Context, pedido *domain.Pedido) error {
	if !pedido.Status.CanAdvance() {
		return fmt.Errorf("%s is terminal: %w", pedido.Status, domain.ErrIllegalTransition)
	}
	return s.Transition(ctx, pedido, pedido.Status.Next())
}

// Cancel moves pedido to CANCELADO while cancellation is still allowed.
func (s *Service) Cancel(ctx context.Context, pedido *domain.Pedido) error {
	return s.Transition(ctx, pedido, domain.StatusCancelado)
}
