package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/kv"
)

// storageKeyPrefix matches the localStorage key of the original web client.
const storageKeyPrefix = "ramones_cart_v1:"

// Store holds the cart line lists for active sessions, keyed by an opaque
// cart ID the client carries. Mutations are synchronous; the write-behind to
// durable storage is best-effort and never fails the triggering operation.
type Store struct {
	storage kv.Store
	logger  *slog.Logger

	mu    sync.Mutex
	carts map[string][]Line
}

func NewStore(storage kv.Store, logger *slog.Logger) *Store {
	return &Store{
		storage: storage,
		logger:  logger,
		carts:   make(map[string][]Line),
	}
}

func (s *Store) Get(ctx context.Context, cartID string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.load(ctx, cartID))
}

func (s *Store) ItemQuantity(ctx context.Context, cartID string, productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.load(ctx, cartID) {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

func (s *Store) AddItem(ctx context.Context, cartID string, productID int64, name string, unitPrice decimal.Decimal) Snapshot {
	return s.mutate(ctx, cartID, func(lines []Line) []Line {
		return addLine(lines, productID, name, unitPrice)
	})
}

func (s *Store) IncrementItem(ctx context.Context, cartID string, productID int64) Snapshot {
	return s.mutate(ctx, cartID, func(lines []Line) []Line {
		return incrementLine(lines, productID)
	})
}

func (s *Store) DecrementItem(ctx context.Context, cartID string, productID int64) Snapshot {
	return s.mutate(ctx, cartID, func(lines []Line) []Line {
		return decrementLine(lines, productID)
	})
}

func (s *Store) UpdateQuantity(ctx context.Context, cartID string, productID int64, quantity int) Snapshot {
	return s.mutate(ctx, cartID, func(lines []Line) []Line {
		return updateLineQuantity(lines, productID, quantity)
	})
}

func (s *Store) RemoveItem(ctx context.Context, cartID string, productID int64) Snapshot {
	return s.mutate(ctx, cartID, func(lines []Line) []Line {
		return removeLine(lines, productID)
	})
}

func (s *Store) Clear(ctx context.Context, cartID string) Snapshot {
	return s.mutate(ctx, cartID, func([]Line) []Line {
		return nil
	})
}

func (s *Store) mutate(ctx context.Context, cartID string, transition func([]Line) []Line) Snapshot {
	s.mu.Lock()
	lines := transition(s.load(ctx, cartID))
	s.carts[cartID] = lines
	s.mu.Unlock()

	s.persist(ctx, cartID, lines)
	return snapshot(lines)
}

// load rehydrates a cart from durable storage the first time it is seen.
// Absent, unreadable or malformed data means an empty cart: fail open,
// never an error. Callers must hold s.mu.
func (s *Store) load(ctx context.Context, cartID string) []Line {
	if lines, ok := s.carts[cartID]; ok {
		return lines
	}

	var lines []Line
	raw, err := s.storage.Get(ctx, storageKeyPrefix+cartID)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		// first visit, start empty
	case err != nil:
		s.logger.Warn("cart load failed, starting empty", "cart_id", cartID, "error", err)
	default:
		if err := json.Unmarshal([]byte(raw), &lines); err != nil {
			s.logger.Warn("stored cart is malformed, starting empty", "cart_id", cartID, "error", err)
			lines = nil
		}
	}

	s.carts[cartID] = lines
	return lines
}

func (s *Store) persist(ctx context.Context, cartID string, lines []Line) {
	if lines == nil {
		lines = []Line{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		s.logger.Warn("cart serialize failed", "cart_id", cartID, "error", err)
		return
	}
	if err := s.storage.Set(ctx, storageKeyPrefix+cartID, string(raw)); err != nil {
		s.logger.Warn("cart write failed", "cart_id", cartID, "error", err)
	}
}
