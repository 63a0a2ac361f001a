package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/futurgenie/internal/invites/domain"
	"github.com/aussiebroadwan/futurgenie/internal/invites/store"
	"github.com/aussiebroadwan/futurgenie/pkg/cryptox"
	"github.com/aussiebroadwan/futurgenie/pkg/idx"
	"github.com/aussiebroadwan/futurgenie/pkg/slogx"
)

// DefaultTokenTTL is how long an invitation stays redeemable.
const DefaultTokenTTL = 30 * 24 * time.Hour

// InvitationService issues, lists, revokes and redeems classroom invitations.
type InvitationService struct {
	Store  store.Store
	Sealer *cryptox.Sealer

	// TTL defaults to DefaultTokenTTL.
	TTL time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// IssuedToken is returned by IssueToken. Secret is the bearer credential and
// must only be shown to the issuing director.
type IssuedToken struct {
	ID           string
	Secret       string
	ClassroomID  string
	IntendedRole domain.Role
	CreatedAt    time.Time
	ExpiresAt    time.Time

	// Reused is true when an existing valid token was returned.
	Reused bool
}

// TokenSummary is one row of ListActiveTokens. Secret is empty when it
// could not be unsealed, for example after the master key changed.
type TokenSummary struct {
	ID           string
	Secret       string
	ClassroomID  string
	IntendedRole domain.Role
	CreatedBy    string
	CreatedAt    time.Time
	ExpiresAt    time.Time
	Expired      bool
}

// AccountClaim identifies the account being attached on redemption.
// Verified is set only when Subject comes from an authenticated session.
// An unverified claim may create a new account but never touches an
// existing one.
type AccountClaim struct {
	Subject     string
	DisplayName string
	Verified    bool
}

// Redemption is where a redeemed invitation placed the account.
type Redemption struct {
	TokenID     string
	ClassroomID string
	SchoolID    string
	SchoolName  string
	Role        domain.Role
	UserID      string
	RedeemedAt  time.Time
}

func (s *InvitationService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultTokenTTL
}

// IssueToken returns a valid invitation for (classroom, role), reusing the
// newest one still valid or minting a new one.
func (s *InvitationService) IssueToken(
	ctx context.Context,
	actor domain.Actor,
	classroomID string,
	intendedRole string,
) (IssuedToken, error) {
	log := slogx.FromContext(ctx)

	// 1. Authorize and validate.
	if err := requireDirector(actor); err != nil {
		log.Warn("invitation issue refused",
			slog.String("subject", actor.Subject),
			slog.String("role", actor.Role.String()),
		)
		return IssuedToken{}, err
	}
	role, err := parseInvitableRole(intendedRole)
	if err != nil {
		return IssuedToken{}, err
	}
	classroomID = strings.TrimSpace(classroomID)
	if classroomID == "" {
		return IssuedToken{}, fmt.Errorf("%w: classroom_id is required", ErrInvalidInput)
	}

	// 2. The classroom must belong to the director's school.
	classroom, err := loadOwnedClassroom(ctx, s.Store, actor, classroomID)
	if err != nil {
		return IssuedToken{}, err
	}

	now := clock(s.Now)

	// 3. Idempotent reuse.
	existing, err := s.Store.Tokens().FindValidToken(ctx, actor.SchoolID, classroom.ID, role, now)
	switch {
	case err == nil:
		secret, openErr := s.Sealer.Open(existing.SecretSealed)
		if openErr == nil {
			log.Debug("reusing valid invitation",
				slog.String("token_id", existing.ID),
				slog.String("classroom_id", classroom.ID),
			)
			return IssuedToken{
				ID:           existing.ID,
				Secret:       secret,
				ClassroomID:  existing.ClassroomID,
				IntendedRole: existing.IntendedRole,
				CreatedAt:    existing.CreatedAt,
				ExpiresAt:    existing.ExpiresAt,
				Reused:       true,
			}, nil
		}
		// Sealed under another key; the old link still works but we can't
		// show it, so mint a fresh one.
		log.Warn("cannot unseal existing invitation, issuing a new one",
			slog.String("token_id", existing.ID),
			slog.Any("error", openErr),
		)
	case errors.Is(err, store.ErrNotFound):
	default:
		log.Error("failed to look up valid invitation", slog.Any("error", err))
		return IssuedToken{}, fmt.Errorf("find valid token: %w", err)
	}

	// 4. Mint.
	secret, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invitation secret", slog.Any("error", err))
		return IssuedToken{}, err
	}
	sealed, err := s.Sealer.Seal(secret)
	if err != nil {
		log.Error("failed to seal invitation secret", slog.Any("error", err))
		return IssuedToken{}, err
	}

	tok := domain.InvitationToken{
		ID:           idx.NewAt(now).String(),
		SecretHash:   cryptox.FingerprintToken(secret),
		SecretSealed: sealed,
		SchoolID:     actor.SchoolID,
		ClassroomID:  classroom.ID,
		IntendedRole: role,
		CreatedBy:    actor.Subject,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl()),
	}
	if err := s.Store.Tokens().CreateToken(ctx, tok); err != nil {
		log.Error("failed to store invitation",
			slog.String("token_id", tok.ID),
			slog.Any("error", err),
		)
		return IssuedToken{}, fmt.Errorf("create token: %w", err)
	}

	log.Info("invitation issued",
		slog.String("token_id", tok.ID),
		slog.String("classroom_id", tok.ClassroomID),
		slog.String("intended_role", tok.IntendedRole.String()),
		slog.Time("expires_at", tok.ExpiresAt),
	)

	return IssuedToken{
		ID:           tok.ID,
		Secret:       secret,
		ClassroomID:  tok.ClassroomID,
		IntendedRole: tok.IntendedRole,
		CreatedAt:    tok.CreatedAt,
		ExpiresAt:    tok.ExpiresAt,
	}, nil
}

// ListActiveTokens lists the classroom's unused invitations, newest first.
// Expired ones are included and flagged.
func (s *InvitationService) ListActiveTokens(
	ctx context.Context,
	actor domain.Actor,
	classroomID string,
) ([]TokenSummary, error) {
	log := slogx.FromContext(ctx)

	if err := requireDirector(actor); err != nil {
		return nil, err
	}
	classroomID = strings.TrimSpace(classroomID)
	if classroomID == "" {
		return nil, fmt.Errorf("%w: classroom_id is required", ErrInvalidInput)
	}

	classroom, err := loadOwnedClassroom(ctx, s.Store, actor, classroomID)
	if err != nil {
		return nil, err
	}

	tokens, err := s.Store.Tokens().ListUnusedTokens(ctx, classroom.ID)
	if err != nil {
		log.Error("failed to list invitations", slog.Any("error", err))
		return nil, fmt.Errorf("list tokens: %w", err)
	}

	now := clock(s.Now)
	out := make([]TokenSummary, 0, len(tokens))
	for _, t := range tokens {
		secret, err := s.Sealer.Open(t.SecretSealed)
		if err != nil {
			log.Warn("cannot unseal invitation", slog.String("token_id", t.ID), slog.Any("error", err))
			secret = ""
		}
		out = append(out, TokenSummary{
			ID:           t.ID,
			Secret:       secret,
			ClassroomID:  t.ClassroomID,
			IntendedRole: t.IntendedRole,
			CreatedBy:    t.CreatedBy,
			CreatedAt:    t.CreatedAt,
			ExpiresAt:    t.ExpiresAt,
			Expired:      t.Expired(now),
		})
	}
	return out, nil
}

// RevokeToken deletes an invitation of the actor's school whatever its state.
func (s *InvitationService) RevokeToken(ctx context.Context, actor domain.Actor, tokenID string) error {
	log := slogx.FromContext(ctx)

	if err := requireDirector(actor); err != nil {
		return err
	}
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return fmt.Errorf("%w: token id is required", ErrInvalidInput)
	}
	tokenID, err := parseID(tokenID)
	if err != nil {
		return err
	}

	tok, err := s.Store.Tokens().GetTokenByID(ctx, tokenID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		log.Error("failed to load invitation", slog.String("token_id", tokenID), slog.Any("error", err))
		return fmt.Errorf("get token: %w", err)
	}

	// Other schools' tokens are indistinguishable from missing ones.
	if tok.SchoolID != actor.SchoolID {
		log.Warn("revoke attempted across schools",
			slog.String("token_id", tokenID),
			slog.String("subject", actor.Subject),
		)
		return ErrNotFound
	}

	if err := s.Store.Tokens().DeleteToken(ctx, tok.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		log.Error("failed to delete invitation", slog.String("token_id", tokenID), slog.Any("error", err))
		return fmt.Errorf("delete token: %w", err)
	}

	log.Info("invitation revoked",
		slog.String("token_id", tok.ID),
		slog.String("state", string(tok.State(clock(s.Now)))),
	)
	return nil
}

// RedeemToken consumes the invitation identified by secret and attaches the
// claimed account to its classroom. Marking the token used and attaching the
// account commit together or not at all.
func (s *InvitationService) RedeemToken(
	ctx context.Context,
	secret string,
	requestedRole string,
	claim AccountClaim,
) (Redemption, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return Redemption{}, fmt.Errorf("%w: secret is required", ErrInvalidInput)
	}
	requested, err := domain.ParseRole(requestedRole)
	if err != nil {
		return Redemption{}, fmt.Errorf("%w: requested_role: %v", ErrInvalidInput, err)
	}
	claim.Subject = strings.TrimSpace(claim.Subject)
	if claim.Subject == "" {
		return Redemption{}, fmt.Errorf("%w: account is required", ErrInvalidInput)
	}

	// 2. Look the token up by fingerprint and check it.
	tok, err := s.Store.Tokens().GetTokenBySecretHash(ctx, cryptox.FingerprintToken(secret))
	if errors.Is(err, store.ErrNotFound) {
		log.Warn("redemption with unknown secret")
		return Redemption{}, ErrNotFound
	}
	if err != nil {
		log.Error("failed to look up invitation", slog.Any("error", err))
		return Redemption{}, fmt.Errorf("get token: %w", err)
	}

	now := clock(s.Now)
	switch {
	case tok.Expired(now):
		log.Info("redemption of expired invitation", slog.String("token_id", tok.ID))
		return Redemption{}, ErrExpired
	case tok.Used():
		log.Info("redemption of used invitation", slog.String("token_id", tok.ID))
		return Redemption{}, ErrAlreadyUsed
	case requested != tok.IntendedRole:
		log.Warn("redemption role mismatch",
			slog.String("token_id", tok.ID),
			slog.String("requested_role", requested.String()),
		)
		return Redemption{}, ErrRoleMismatch
	}

	// 3. Consume and attach atomically. The conditional update is the
	// serialization point between concurrent redeemers and re-checks expiry
	// at the moment of consumption.
	var school domain.School
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		now = clock(s.Now)
		if err := tx.Tokens().MarkTokenUsed(ctx, tok.ID, claim.Subject, now); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return consumeConflict(ctx, tx, tok.ID, now)
			}
			return fmt.Errorf("mark token used: %w", err)
		}
		if err := attachAccount(ctx, tx, tok, claim, now); err != nil {
			return err
		}

		sc, err := tx.Schools().GetSchoolByID(ctx, tok.SchoolID)
		if err != nil {
			return fmt.Errorf("get school: %w", err)
		}
		school = sc
		return nil
	})
	if err != nil {
		if !isServiceErr(err) {
			log.Error("redemption failed", slog.String("token_id", tok.ID), slog.Any("error", err))
		} else {
			log.Info("redemption refused", slog.String("token_id", tok.ID), slog.Any("reason", err))
		}
		return Redemption{}, err
	}

	log.Info("invitation redeemed",
		slog.String("token_id", tok.ID),
		slog.String("user_id", claim.Subject),
		slog.String("classroom_id", tok.ClassroomID),
	)

	return Redemption{
		TokenID:     tok.ID,
		ClassroomID: tok.ClassroomID,
		SchoolID:    tok.SchoolID,
		SchoolName:  school.Name,
		Role:        tok.IntendedRole,
		UserID:      claim.Subject,
		RedeemedAt:  now,
	}, nil
}

// consumeConflict explains why the conditional update matched no row.
func consumeConflict(ctx context.Context, tx store.Tx, id string, now time.Time) error {
	cur, err := tx.Tokens().GetTokenByID(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case err != nil:
		return fmt.Errorf("get token: %w", err)
	case cur.Used():
		return ErrAlreadyUsed
	case cur.Expired(now):
		return ErrExpired
	default:
		return fmt.Errorf("mark token used: %w", store.ErrConflict)
	}
}

// attachAccount gives the account a profile in the token's school and makes
// it a member of the token's classroom.
func attachAccount(
	ctx context.Context,
	tx store.Tx,
	tok domain.InvitationToken,
	claim AccountClaim,
	now time.Time,
) error {
	profile, err := tx.Profiles().GetProfileByID(ctx, claim.Subject)
	switch {
	case errors.Is(err, store.ErrNotFound):
		err = tx.Profiles().CreateProfile(ctx, domain.Profile{
			ID:          claim.Subject,
			Role:        tok.IntendedRole,
			SchoolID:    tok.SchoolID,
			DisplayName: strings.TrimSpace(claim.DisplayName),
			CreatedAt:   now,
		})
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrAccountConflict
		}
		if err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
	case err != nil:
		return fmt.Errorf("get profile: %w", err)
	case !claim.Verified:
		return ErrAccountConflict
	case profile.Role != tok.IntendedRole:
		return ErrAccountConflict
	case profile.SchoolID == "":
		if err := tx.Profiles().AssignSchool(ctx, profile.ID, tok.IntendedRole, tok.SchoolID); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrAccountConflict
			}
			return fmt.Errorf("assign school: %w", err)
		}
	case profile.SchoolID != tok.SchoolID:
		return ErrAccountConflict
	}

	err = tx.Members().AddMember(ctx, domain.ClassroomMember{
		ClassroomID: tok.ClassroomID,
		UserID:      claim.Subject,
		Role:        tok.IntendedRole,
		JoinedAt:    now,
	})
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		return ErrAccountConflict
	case errors.Is(err, store.ErrNotFound):
		// Classroom deleted since the token was read.
		return ErrNotFound
	case err != nil:
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

// loadOwnedClassroom returns the classroom if it belongs to the actor's
// school. Foreign classrooms are reported as missing.
func loadOwnedClassroom(
	ctx context.Context,
	st store.Store,
	actor domain.Actor,
	classroomID string,
) (domain.Classroom, error) {
	classroomID, err := parseID(classroomID)
	if err != nil {
		return domain.Classroom{}, err
	}

	classroom, err := st.Classrooms().GetClassroomByID(ctx, classroomID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Classroom{}, ErrNotFound
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to load classroom",
			slog.String("classroom_id", classroomID),
			slog.Any("error", err),
		)
		return domain.Classroom{}, fmt.Errorf("get classroom: %w", err)
	}
	if classroom.SchoolID != actor.SchoolID {
		return domain.Classroom{}, ErrNotFound
	}
	return classroom, nil
}

// parseID normalises a caller supplied id. A malformed id cannot name a
// row, so it is reported as missing without a lookup.
func parseID(s string) (string, error) {
	id, err := idx.Parse(s)
	if err != nil {
		return "", ErrNotFound
	}
	return id.String(), nil
}

func parseInvitableRole(s string) (domain.Role, error) {
	role, err := domain.ParseRole(s)
	if err != nil {
		return "", fmt.Errorf("%w: intended_role: %v", ErrInvalidInput, err)
	}
	if !role.Invitable() {
		return "", fmt.Errorf("%w: intended_role must be TEACHER or PARENT", ErrInvalidInput)
	}
	return role, nil
}

func isServiceErr(err error) bool {
	for _, target := range []error{
		ErrUnauthorized, ErrForbidden, ErrNotFound, ErrInvalidInput, ErrExpired,
		ErrAlreadyUsed, ErrRoleMismatch, ErrAccountConflict, ErrAlreadyOnboarded,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
