package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/futurgenie/internal/invites/domain"
	"github.com/aussiebroadwan/futurgenie/internal/invites/store"
	"github.com/aussiebroadwan/futurgenie/pkg/slogx"
)

// IdentityService turns a verified session subject into an Actor. Role and
// school come from our profile table, never from token claims.
type IdentityService struct {
	Store store.Store
}

// ResolveActor loads the caller's profile. A subject without a profile is
// still authenticated but holds no role.
func (s *IdentityService) ResolveActor(ctx context.Context, subject string) (domain.Actor, error) {
	if subject == "" {
		return domain.Actor{}, ErrUnauthorized
	}

	profile, err := s.Store.Profiles().GetProfileByID(ctx, subject)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Actor{Subject: subject}, nil
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to load profile",
			slog.String("subject", subject),
			slog.Any("error", err),
		)
		return domain.Actor{}, fmt.Errorf("resolve actor: %w", err)
	}

	return domain.Actor{
		Subject:  subject,
		Role:     profile.Role,
		SchoolID: profile.SchoolID,
	}, nil
}
