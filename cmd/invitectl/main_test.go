package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aussiebroadwan/futurgenie/pkg/invitesdk"
	"github.com/aussiebroadwan/futurgenie/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func decodeOutput[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCLI(t)
	require.Equal(t, 2, code)
	require.Contains(t, stderr, "Usage: invitectl")

	code, _, stderr = runCLI(t, "frobnicate")
	require.Equal(t, 2, code)
	require.Contains(t, stderr, `unknown command "frobnicate"`)
}

func TestMigrateCmd(t *testing.T) {
	db := filepath.Join(t.TempDir(), "invites.db")

	code, out, stderr := runCLI(t, "migrate", "-db", db, "version")
	require.Equal(t, 0, code, stderr)
	require.Equal(t, "schema version 0\n", out)

	code, out, stderr = runCLI(t, "migrate", "-db", db, "up")
	require.Equal(t, 0, code, stderr)
	require.Equal(t, "schema version 1\n", out)

	code, out, stderr = runCLI(t, "migrate", "-db", db, "down")
	require.Equal(t, 0, code, stderr)
	require.Equal(t, "schema version 0\n", out)

	code, _, _ = runCLI(t, "migrate", "-db", db, "sideways")
	require.Equal(t, 2, code)
	code, _, _ = runCLI(t, "migrate", "-db", db)
	require.Equal(t, 2, code)
}

func TestSchoolWorkflow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "invites.db")
	t.Setenv("INVITES_MASTER_KEY", "cli test master key")

	code, out, stderr := runCLI(t, "onboard", "-db", db, "-subject", "dir-1", "-school", "Springfield", "-name", "Seymour")
	require.Equal(t, 0, code, stderr)
	school := decodeOutput[invitesdk.OnboardResponse](t, out)
	require.Equal(t, "DIRECTOR", school.Role)
	require.Equal(t, "dir-1", school.UserID)

	code, _, stderr = runCLI(t, "onboard", "-db", db, "-subject", "dir-1", "-school", "Again")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "Error:")

	code, out, stderr = runCLI(t, "classroom", "-db", db, "-director", "dir-1", "-name", "2B", "-grade", "2")
	require.Equal(t, 0, code, stderr)
	room := decodeOutput[invitesdk.Classroom](t, out)
	require.Equal(t, school.SchoolID, room.SchoolID)

	issue := []string{"issue", "-db", db, "-director", "dir-1", "-classroom", room.ID, "-role", "parent", "-base-url", "https://app.example/join/"}
	code, out, stderr = runCLI(t, issue...)
	require.Equal(t, 0, code, stderr)
	inv := decodeOutput[invitesdk.Invitation](t, out)
	require.Equal(t, "PARENT", inv.IntendedRole)
	require.False(t, inv.Reused)
	require.Equal(t, "https://app.example/join/"+inv.Secret, inv.InviteURL)

	code, out, stderr = runCLI(t, issue...)
	require.Equal(t, 0, code, stderr)
	again := decodeOutput[invitesdk.Invitation](t, out)
	require.True(t, again.Reused)
	require.Equal(t, inv.Secret, again.Secret)

	code, _, stderr = runCLI(t, "issue", "-db", db, "-director", "stranger", "-classroom", room.ID, "-role", "PARENT")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "may not perform this action")

	code, out, stderr = runCLI(t, "sweep", "-db", db)
	require.Equal(t, 0, code, stderr)
	require.Equal(t, "deleted 0 expired invitations\n", out)
}

func TestIssueCmd_RequiresMasterKey(t *testing.T) {
	t.Setenv("INVITES_MASTER_KEY", "")
	t.Setenv("INVITES_MASTER_KEY_PATH", "")

	db := filepath.Join(t.TempDir(), "invites.db")
	code, _, stderr := runCLI(t, "issue", "-db", db, "-director", "d", "-classroom", "c", "-role", "PARENT")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "no master key")
}

func TestSessionCmd_HS256(t *testing.T) {
	secret := strings.Repeat("s", 32)

	code, out, stderr := runCLI(t, "session", "-alg", "HS256", "-secret", secret, "-subject", "dir-1", "-audience", "authenticated")
	require.Equal(t, 0, code, stderr)

	v, err := jwtx.NewVerifierHS256([]byte(secret), jwtx.VerifyOptions{Audience: []string{"authenticated"}})
	require.NoError(t, err)
	claims, err := v.Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	require.Equal(t, "dir-1", claims.Subject)

	code, _, _ = runCLI(t, "session", "-alg", "HS256", "-secret", secret)
	require.Equal(t, 2, code, "subject is required")
}

func TestKeygenAndEdDSASession(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "signing.pem")

	code, out, stderr := runCLI(t, "keygen", "-out", keyFile, "-kid", "local-1")
	require.Equal(t, 0, code, stderr)
	set := decodeOutput[jwtx.JWKS](t, out)
	require.Len(t, set.Keys, 1)
	require.Equal(t, "local-1", set.Keys[0].Kid)

	code, out, stderr = runCLI(t, "session", "-alg", "EdDSA", "-key", keyFile, "-kid", "local-1", "-subject", "dir-1")
	require.Equal(t, 0, code, stderr)

	keys := jwtx.NewKeySet()
	_, err := keys.ResetFromJWKS(set)
	require.NoError(t, err)
	claims, err := jwtx.NewVerifierEdDSA(keys, jwtx.VerifyOptions{}).Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	require.Equal(t, "dir-1", claims.Subject)

	code, _, stderr = runCLI(t, "session", "-alg", "EdDSA", "-subject", "dir-1")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "-key is required")
}
