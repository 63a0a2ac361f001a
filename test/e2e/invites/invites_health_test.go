//go:build e2e

package invites_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHealthEndpoints verifies both probes on a fresh service.
func TestHealthEndpoints(t *testing.T) {
	svc := setupInvitesContainer(t)

	live, err := svc.client().GetLiveness(t.Context())
	assertHealthy(t, live, err)
	require.NotEmpty(t, live.Version)

	ready, err := svc.client().GetReadiness(t.Context())
	assertHealthy(t, ready, err)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
}

// TestSwaggerUI verifies the API documentation is served.
func TestSwaggerUI(t *testing.T) {
	svc := setupInvitesContainer(t)

	resp, err := http.Get(svc.baseURL + "/swagger/doc.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
