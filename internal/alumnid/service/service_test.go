package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
	"github.com/aussiebroadwan/alumni/internal/alumnid/service"
	"github.com/aussiebroadwan/alumni/internal/alumnid/store/drivers/sqlite"
	"github.com/aussiebroadwan/alumni/pkg/cryptox"
	"github.com/aussiebroadwan/alumni/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "http://alumni.test"
	testAudience = "alumni"
)

var fastArgon = cryptox.Argon2Params{Memory: 64, Iterations: 1, Parallelism: 1, KeyLength: 16, SaltLength: 8}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	store    *sqlite.Store
	clock    *clock
	hasher   *cryptox.PasswordHasher
	verifier *jwtx.EdDSAVerifier
	auth     *service.AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA(pemKey)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	clk := &clock{t: time.Now().UTC().Truncate(time.Millisecond)}
	hasher := cryptox.NewPasswordHasher("test-pepper").WithParams(fastArgon)

	return &fixture{
		store:    st,
		clock:    clk,
		hasher:   hasher,
		verifier: jwtx.NewVerifierEdDSA(keys, testIssuer, []string{testAudience}, jwtx.WithClock(clk.Now)),
		auth: &service.AuthService{
			Store:      st,
			Hasher:     hasher,
			Signer:     signer,
			Issuer:     testIssuer,
			Audience:   []string{testAudience},
			SessionTTL: 24 * time.Hour,
			Now:        clk.Now,
		},
	}
}

func (f *fixture) register(t *testing.T, email, name string) domain.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), email, "Sup3r$ecret", name)
	require.NoError(t, err)
	return u
}

func (f *fixture) login(t *testing.T, email string) (domain.User, domain.TokenPair) {
	t.Helper()
	u, pair, err := f.auth.Login(context.Background(), email, "Sup3r$ecret")
	require.NoError(t, err)
	return u, pair
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
