//go:build e2e

package invites_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/futurgenie/pkg/invitesdk"
	"github.com/aussiebroadwan/futurgenie/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcexec "github.com/testcontainers/testcontainers-go/exec"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for invitation service end-to-end
 * tests: container setup, session minting and assertions.
 */

const (
	testImageName = "futurgenie-invites-test:latest"

	jwtSecret   = "e2e-shared-jwt-secret-0123456789abcdef"
	jwtIssuer   = "https://id.e2e.example"
	jwtAudience = "authenticated"
	baseInvite  = "https://app.e2e.example/join/"
	masterKey   = "e2e master key material"
)

// TestMain builds the Docker image once before all tests and removes it
// after they complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Invites Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Invites Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/invites/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func cleanupDockerImage() {
	cmd := exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might not exist
}

// serviceEnv is the container environment. Rate limits are relaxed because
// tests make many rapid requests.
func serviceEnv() map[string]string {
	return map[string]string{
		"INVITES_JWT_ALGORITHM":   "HS256",
		"INVITES_JWT_SECRET":      jwtSecret,
		"INVITES_JWT_ISSUER":      jwtIssuer,
		"INVITES_JWT_AUDIENCE":    jwtAudience,
		"INVITES_PUBLIC_BASE_URL": baseInvite,
		"INVITES_MASTER_KEY":      masterKey,
		"ENV":                     "test",
		"LOG_LEVEL":               "info",
		"LOG_FORMAT":              "json",

		"RATELIMIT_REDEEM_REQUESTS":  "1000",
		"RATELIMIT_REDEEM_BURST":     "1000",
		"RATELIMIT_ONBOARD_REQUESTS": "1000",
		"RATELIMIT_ONBOARD_BURST":    "1000",
		"RATELIMIT_WRITE_REQUESTS":   "1000",
		"RATELIMIT_WRITE_BURST":      "1000",
	}
}

type service struct {
	baseURL   string
	container testcontainers.Container
}

// setupInvitesContainer starts the service with relaxed rate limits.
func setupInvitesContainer(t *testing.T) *service {
	return startContainer(t, serviceEnv())
}

// setupInvitesContainerWithDefaultRateLimits uses production limits, for
// the rate limit tests only.
func setupInvitesContainerWithDefaultRateLimits(t *testing.T) *service {
	env := serviceEnv()
	for k := range env {
		if strings.HasPrefix(k, "RATELIMIT_") {
			delete(env, k)
		}
	}
	return startContainer(t, env)
}

func startContainer(t *testing.T, env map[string]string) *service {
	t.Helper()
	ctx := context.Background()

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
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	return &service{
		baseURL:   fmt.Sprintf("http://%s:%s", host, mappedPort.Port()),
		container: container,
	}
}

// client returns an anonymous SDK client.
func (s *service) client() *invitesdk.Client {
	return invitesdk.NewClient(s.baseURL)
}

// as returns a client carrying a provider session for subject.
func (s *service) as(t *testing.T, subject string) *invitesdk.Client {
	t.Helper()
	signer, err := jwtx.NewSignerHS256([]byte(jwtSecret))
	require.NoError(t, err)

	raw, err := signer.Sign(jwtx.NewSessionClaims(subject, subject+"@e2e.example", time.Hour, jwtIssuer, []string{jwtAudience}, time.Now()))
	require.NoError(t, err)
	return s.client().WithToken(raw)
}

// invitectl runs the operator CLI inside the container.
func (s *service) invitectl(t *testing.T, args ...string) (int, string) {
	t.Helper()
	code, reader, err := s.container.Exec(t.Context(), append([]string{"invitectl"}, args...), tcexec.Multiplexed())
	require.NoError(t, err)
	out, err := io.ReadAll(reader)
	require.NoError(t, err)
	return code, string(out)
}

// setupSchool onboards a director and creates one classroom.
func setupSchool(t *testing.T, svc *service, director string) (*invitesdk.Client, *invitesdk.Classroom) {
	t.Helper()
	c := svc.as(t, director)

	_, err := c.OnboardSchool(t.Context(), "", invitesdk.OnboardRequest{SchoolName: director + " primary"})
	require.NoError(t, err)

	room, err := c.CreateClassroom(t.Context(), invitesdk.ClassroomRequest{Name: "1A", Grade: "1"})
	require.NoError(t, err)
	return c, room
}

// assertAPIError checks status and error code of a failed call.
func assertAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	var apiErr *invitesdk.APIError
	require.True(t, errors.As(err, &apiErr), "want *invitesdk.APIError, got %T: %v", err, err)
	require.Equal(t, status, apiErr.StatusCode, apiErr.Error())
	require.Equal(t, code, apiErr.Code)
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *invitesdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
