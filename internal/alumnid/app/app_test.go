package app

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/alumni/pkg/alumnisdk"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"ALUMNI_ISSUER", "ALUMNI_PORT", "ALUMNI_SEED", "ALUMNI_ACCESS_TTL",
		"ALUMNI_SESSION_TTL", "ALUMNI_SIGNING_KEY_FILE", "ALUMNI_SESSION_SECRET",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	require.Equal(t, "alumni-dev", cfg.Issuer)
	require.Equal(t, 8080, cfg.Port)
	require.False(t, cfg.Seed)
	require.Equal(t, 15*time.Minute, cfg.AccessTTL)
	require.Equal(t, 30*24*time.Hour, cfg.SessionTTL)
	require.Empty(t, cfg.SigningKeyFile)
	require.Empty(t, cfg.SessionSecret)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ALUMNI_PORT", "9090")
	t.Setenv("ALUMNI_SEED", "true")
	t.Setenv("ALUMNI_ACCESS_TTL", "30s")
	t.Setenv("ALUMNI_SESSION_TTL", "90")
	t.Setenv("ALUMNI_COOKIE_SECURE", "not-a-bool")

	cfg := LoadConfig()
	require.Equal(t, 9090, cfg.Port)
	require.True(t, cfg.Seed)
	require.Equal(t, 30*time.Second, cfg.AccessTTL)
	require.Equal(t, 90*time.Minute, cfg.SessionTTL, "bare integers are minutes")
	require.False(t, cfg.CookieSecure)
}

func TestApplicationServesSeededBoard(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Issuer:               "alumni-test",
		Audience:             "alumni",
		AccessTTL:            time.Minute,
		SessionTTL:           time.Hour,
		DatabaseFile:         filepath.Join(dir, "alumni.db"),
		PepperFile:           filepath.Join(dir, "pepper"),
		SigningKeyFile:       filepath.Join(dir, "signing.pem"),
		MediaDir:             filepath.Join(dir, "media"),
		Seed:                 true,
		Env:                  "test",
		LogLevel:             "error",
		LogFormat:            "text",
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
	}

	application, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.db.Close() })

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(srv.Close)

	ctx := context.Background()
	client := alumnisdk.NewSDKClient(srv.URL)
	_, err = client.Register(ctx, alumnisdk.RegisterRequest{
		Email:    "grace@example.com",
		Password: "Sup3r$ecret",
		FullName: "Grace Hopper",
	})
	require.NoError(t, err)

	s, _, err := client.LoginSession(ctx, alumnisdk.NewMemoryStore(""), "grace@example.com", "Sup3r$ecret")
	require.NoError(t, err)

	posts, err := s.ListPosts(ctx, "")
	require.NoError(t, err)
	require.NotEmpty(t, posts)

	topics, err := s.ListTopics(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, topics)

	t.Run("signing key is persisted", func(t *testing.T) {
		signer, _, err := InitSigningKeys(cfg, application.logger)
		require.NoError(t, err)
		require.Equal(t, application.signer.KID(), signer.KID())
	})
}
