package alumni_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/alumni/pkg/alumnisdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for the alumni backend end-to-end
 * tests. This includes container setup, account helpers and assertions.
 */

const (
	testImageName = "alumni-backend-test:latest"

	testPassword = "Sup3r$ecret"

	// shortAccessTTL makes access tokens expire within a test so the
	// refresh path runs against the real backend.
	shortAccessTTL = 2 * time.Second
)

// TestMain builds the Docker image once before all tests and cleans it up
// after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building alumni backend Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up alumni backend Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

// buildDockerImage builds the test Docker image.
func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/alumnid/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

// cleanupDockerImage removes the test Docker image.
func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// relaxedRateLimits raises every preset so tests can make many rapid
// requests without hitting the production limits.
var relaxedRateLimits = map[string]string{
	"RATELIMIT_AUTH_REQUESTS":    "1000",
	"RATELIMIT_AUTH_WINDOW_SEC":  "60",
	"RATELIMIT_AUTH_BURST":       "1000",
	"RATELIMIT_REFRESH_REQUESTS": "1000",
	"RATELIMIT_REFRESH_BURST":    "1000",
	"RATELIMIT_WRITE_REQUESTS":   "1000",
	"RATELIMIT_WRITE_BURST":      "1000",
	"RATELIMIT_READ_REQUESTS":    "1000",
	"RATELIMIT_READ_BURST":       "1000",
}

// setupBackend starts the backend in a container and returns its base URL.
// extra entries are added to the container environment, overriding the
// defaults.
func setupBackend(t *testing.T, extra map[string]string) string {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{}
	for k, v := range relaxedRateLimits {
		env[k] = v
	}
	for k, v := range map[string]string{
		"ALUMNI_SESSION_SECRET": "e2e-session-secret-0123456789abcdef",
		"ALUMNI_ISSUER":         "alumni-e2e",
		"ALUMNI_SEED":           "true",
		"ALUMNI_ACCESS_TTL":     shortAccessTTL.String(),
		"ENV":                   "test",
		"LOG_LEVEL":             "info",
		"LOG_FORMAT":            "json",
	} {
		env[k] = v
	}
	for k, v := range extra {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// signUp registers an account and returns a logged-in session for it.
func signUp(t *testing.T, baseURL, email, name string, opts ...alumnisdk.SessionOption) *alumnisdk.Session {
	t.Helper()
	ctx := context.Background()

	client := alumnisdk.NewSDKClient(baseURL)
	_, err := client.Register(ctx, alumnisdk.RegisterRequest{Email: email, Password: testPassword, FullName: name})
	require.NoError(t, err, "Register should succeed")

	session, auth, err := client.LoginSession(ctx, alumnisdk.NewMemoryStore(""), email, testPassword, opts...)
	require.NoError(t, err, "Login should succeed")
	assertAuthResponse(t, auth)

	return session
}

// assertAuthResponse verifies a login response has all required fields.
func assertAuthResponse(t *testing.T, resp *alumnisdk.AuthResponse) {
	t.Helper()
	require.NotNil(t, resp)
	require.NotEmpty(t, resp.AccessToken, "Access token should not be empty")
	require.Equal(t, "Bearer", resp.TokenType, "Token type should be Bearer")
	require.Positive(t, resp.ExpiresIn, "ExpiresIn should be set")
	require.NotEmpty(t, resp.User.ID, "User should be returned")
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *alumnisdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}

// waitForExpiry sleeps past the access token lifetime.
func waitForExpiry() {
	time.Sleep(shortAccessTTL + time.Second)
}
