// Package chatwidget manages the third-party chat widget configuration. The
// widget script itself lives in the web client; the service only stores the
// injection flag and identifiers, fail-open to the shipped defaults.
package chatwidget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/kv"
)

const (
	storageKey = "chatbase-config"

	DefaultChatbotID = "ME-qZh_caXMauEwvUSSJv"
)

type Settings struct {
	ChatbotID string `json:"chatbotId"`
	SecretKey string `json:"secretKey,omitempty"`
	Enabled   bool   `json:"isEnabled"`
}

// Public is the subset exposed to the storefront: just enough to decide
// whether to inject the widget script.
type Public struct {
	ChatbotID string `json:"chatbotId"`
	Enabled   bool   `json:"isEnabled"`
}

func defaults() Settings {
	return Settings{ChatbotID: DefaultChatbotID, Enabled: true}
}

type Service struct {
	storage kv.Store
	logger  *slog.Logger
}

func NewService(storage kv.Store, logger *slog.Logger) *Service {
	return &Service{storage: storage, logger: logger}
}

// Load returns the stored settings, falling back to defaults when nothing is
// stored or the stored value is unreadable.
func (s *Service) Load(ctx context.Context) Settings {
	raw, err := s.storage.Get(ctx, storageKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.Warn("chat widget config load failed, using defaults", "error", err)
		}
		return defaults()
	}

	var cfg Settings
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		s.logger.Warn("chat widget config malformed, using defaults", "error", err)
		return defaults()
	}
	if cfg.ChatbotID == "" {
		cfg.ChatbotID = DefaultChatbotID
	}
	return cfg
}

func (s *Service) Save(ctx context.Context, cfg Settings) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := s.storage.Set(ctx, storageKey, string(raw)); err != nil {
		return fmt.Errorf("store config: %w", err)
	}
	return nil
}

func (s *Service) PublicView(ctx context.Context) Public {
	cfg := s.Load(ctx)
	return Public{ChatbotID: cfg.ChatbotID, Enabled: cfg.Enabled}
}
