package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aussiebroadwan/futurgenie/internal/invites/service"
	"github.com/aussiebroadwan/futurgenie/pkg/cryptox"
	"github.com/aussiebroadwan/futurgenie/pkg/invitesdk"
)

// runOnboardCmd implements `invitectl onboard`, the offline equivalent of
// POST /v1/onboarding/school. The onboarding token gate does not apply.
func runOnboardCmd(args []string, stdout, stderr io.Writer) int {
	fs, dbPath := newFlagSet("onboard", stderr)
	var subject, school, displayName string
	fs.StringVar(&subject, "subject", "", "Identity-provider account id of the director (REQUIRED)")
	fs.StringVar(&school, "school", "", "School name (REQUIRED)")
	fs.StringVar(&displayName, "name", "", "Director display name")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if subject == "" || school == "" {
		_, _ = fmt.Fprintln(stderr, "Error: -subject and -school are required")
		return 2
	}

	st, err := openStore(*dbPath, true)
	if err != nil {
		return fail(stderr, err)
	}
	defer func() { _ = st.Close() }()

	svc := &service.OnboardingService{Store: st}
	out, err := svc.OnboardSchool(background(), subject, "", service.OnboardRequest{
		SchoolName:  school,
		DisplayName: displayName,
	})
	if err != nil {
		return fail(stderr, err)
	}

	return printJSON(stdout, stderr, invitesdk.OnboardResponse{
		SchoolID:   out.School.ID,
		SchoolName: out.School.Name,
		UserID:     out.Profile.ID,
		Role:       out.Profile.Role.String(),
		CreatedAt:  out.School.CreatedAt,
	})
}

// runClassroomCmd implements `invitectl classroom`, acting as the director.
func runClassroomCmd(args []string, stdout, stderr io.Writer) int {
	fs, dbPath := newFlagSet("classroom", stderr)
	var director, name, grade string
	fs.StringVar(&director, "director", "", "Director account id (REQUIRED)")
	fs.StringVar(&name, "name", "", "Classroom name (REQUIRED)")
	fs.StringVar(&grade, "grade", "", "Grade label")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if director == "" || name == "" {
		_, _ = fmt.Fprintln(stderr, "Error: -director and -name are required")
		return 2
	}

	st, err := openStore(*dbPath, true)
	if err != nil {
		return fail(stderr, err)
	}
	defer func() { _ = st.Close() }()

	ctx := background()
	actor, err := (&service.IdentityService{Store: st}).ResolveActor(ctx, director)
	if err != nil {
		return fail(stderr, err)
	}

	room, err := (&service.ClassroomService{Store: st}).CreateClassroom(ctx, actor, name, grade)
	if err != nil {
		return fail(stderr, err)
	}

	return printJSON(stdout, stderr, invitesdk.Classroom{
		ID:        room.ID,
		SchoolID:  room.SchoolID,
		Name:      room.Name,
		Grade:     room.Grade,
		CreatedAt: room.CreatedAt,
	})
}

// runIssueCmd implements `invitectl issue`. It needs the same master key as
// the server, otherwise the server cannot show the secret again.
func runIssueCmd(args []string, stdout, stderr io.Writer) int {
	fs, dbPath := newFlagSet("issue", stderr)
	var director, classroomID, role, keyPath, baseURL string
	var ttl time.Duration
	fs.StringVar(&director, "director", "", "Director account id (REQUIRED)")
	fs.StringVar(&classroomID, "classroom", "", "Classroom id (REQUIRED)")
	fs.StringVar(&role, "role", "", "TEACHER or PARENT (REQUIRED)")
	fs.StringVar(&keyPath, "master-key", envOr("INVITES_MASTER_KEY_PATH", ""), "Master key file (defaults to INVITES_MASTER_KEY)")
	fs.StringVar(&baseURL, "base-url", envOr("INVITES_PUBLIC_BASE_URL", ""), "Prefix for the printed invite URL")
	fs.DurationVar(&ttl, "ttl", service.DefaultTokenTTL, "Invitation lifetime")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if director == "" || classroomID == "" || role == "" {
		_, _ = fmt.Fprintln(stderr, "Error: -director, -classroom and -role are required")
		return 2
	}

	sealer, err := cryptox.LoadSealer(keyPath, envOr("INVITES_MASTER_KEY", ""))
	if err != nil {
		return fail(stderr, err)
	}
	if sealer.Ephemeral() {
		return fail(stderr, errors.New("no master key: set -master-key or INVITES_MASTER_KEY"))
	}

	st, err := openStore(*dbPath, true)
	if err != nil {
		return fail(stderr, err)
	}
	defer func() { _ = st.Close() }()

	ctx := background()
	actor, err := (&service.IdentityService{Store: st}).ResolveActor(ctx, director)
	if err != nil {
		return fail(stderr, err)
	}

	svc := &service.InvitationService{Store: st, Sealer: sealer, TTL: ttl}
	tok, err := svc.IssueToken(ctx, actor, classroomID, role)
	if err != nil {
		return fail(stderr, err)
	}

	out := invitesdk.Invitation{
		ID:           tok.ID,
		Secret:       tok.Secret,
		ClassroomID:  tok.ClassroomID,
		IntendedRole: tok.IntendedRole.String(),
		CreatedBy:    director,
		CreatedAt:    tok.CreatedAt,
		ExpiresAt:    tok.ExpiresAt,
		Reused:       tok.Reused,
	}
	if baseURL != "" {
		out.InviteURL = strings.TrimSpace(baseURL) + tok.Secret
	}
	return printJSON(stdout, stderr, out)
}

// runSweepCmd implements `invitectl sweep`, a one-off housekeeping pass.
func runSweepCmd(args []string, stdout, stderr io.Writer) int {
	fs, dbPath := newFlagSet("sweep", stderr)
	retention := fs.Duration("retention", service.DefaultExpiredRetention, "Keep invitations this long after they expire")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *retention < 0 {
		_, _ = fmt.Fprintln(stderr, "Error: -retention must not be negative")
		return 2
	}

	st, err := openStore(*dbPath, true)
	if err != nil {
		return fail(stderr, err)
	}
	defer func() { _ = st.Close() }()

	hk := &service.HousekeepingService{Store: st, Retention: *retention}
	n, err := hk.Sweep(background())
	if err != nil {
		return fail(stderr, err)
	}
	_, _ = fmt.Fprintf(stdout, "deleted %d expired invitations\n", n)
	return 0
}

func printJSON(stdout, stderr io.Writer, v any) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fail(stderr, err)
	}
	return 0
}
