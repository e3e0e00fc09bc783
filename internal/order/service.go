package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var ErrEmptyOrder = errors.New("order has no lines")

// Service owns the placement flow: header first, then line items, with a
// best-effort compensating delete of the header if the line write fails.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Place converts a draft into a persisted order. On failure the caller must
// keep the cart intact so the customer does not lose their selection; only a
// fully placed order may clear it.
func (s *Service) Place(ctx context.Context, d Draft) (*Order, error) {
	if len(d.Lines) == 0 {
		return nil, ErrEmptyOrder
	}

	header, err := s.repo.CreateHeader(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("create header: %w", err)
	}

	if err := s.repo.CreateItems(ctx, header.ID, d.Lines); err != nil {
		// Compensate so no orphaned header remains. Not a transaction: a
		// failure here is only logged and the original error is reported.
		if delErr := s.repo.DeleteHeader(ctx, header.ID); delErr != nil {
			s.logger.Error("order rollback failed, header may be orphaned",
				"order_id", header.ID, "error", delErr)
		}
		return nil, fmt.Errorf("create items: %w", err)
	}

	placed, err := s.repo.GetByID(ctx, header.ID)
	if err != nil {
		return nil, fmt.Errorf("load placed order: %w", err)
	}
	if placed == nil {
		return nil, fmt.Errorf("placed order %d not found", header.ID)
	}

	s.logger.Info("order placed", "order_id", placed.ID, "total", placed.Total, "lines", len(placed.Items))
	return placed, nil
}
