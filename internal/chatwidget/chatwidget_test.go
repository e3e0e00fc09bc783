package chatwidget

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/kv"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestLoad_DefaultsWhenUnset(t *testing.T) {
	svc := NewService(kv.NewMemory(), testLogger())

	cfg := svc.Load(context.Background())

	assert.Equal(t, DefaultChatbotID, cfg.ChatbotID)
	assert.True(t, cfg.Enabled)
	assert.Empty(t, cfg.SecretKey)
}

func TestLoad_DefaultsOnMalformedValue(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemory()
	require.NoError(t, storage.Set(ctx, storageKey, "not json"))

	svc := NewService(storage, testLogger())
	cfg := svc.Load(ctx)

	assert.Equal(t, DefaultChatbotID, cfg.ChatbotID)
	assert.True(t, cfg.Enabled)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewService(kv.NewMemory(), testLogger())

	want := Settings{ChatbotID: "custom-id", SecretKey: "sk-1", Enabled: false}
	require.NoError(t, svc.Save(ctx, want))

	assert.Equal(t, want, svc.Load(ctx))
}

func TestPublicView_OmitsSecretKey(t *testing.T) {
	ctx := context.Background()
	svc := NewService(kv.NewMemory(), testLogger())
	require.NoError(t, svc.Save(ctx, Settings{ChatbotID: "custom-id", SecretKey: "sk-1", Enabled: true}))

	pub := svc.PublicView(ctx)

	assert.Equal(t, Public{ChatbotID: "custom-id", Enabled: true}, pub)
}
