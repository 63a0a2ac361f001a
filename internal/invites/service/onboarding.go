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

// OnboardingService lets a signed-in account found a school and become its
// director.
type OnboardingService struct {
	Store store.Store

	// Token, when set, must be presented to onboard. Empty leaves
	// onboarding open to any authenticated account.
	Token string

	Now func() time.Time
}

// OnboardRequest is the school being founded.
type OnboardRequest struct {
	SchoolName  string
	DisplayName string
}

// Onboarded is the result of OnboardSchool.
type Onboarded struct {
	School  domain.School
	Profile domain.Profile
}

// OnboardSchool creates a school and makes subject its director in one
// transaction.
func (s *OnboardingService) OnboardSchool(
	ctx context.Context,
	subject string,
	token string,
	req OnboardRequest,
) (Onboarded, error) {
	log := slogx.FromContext(ctx)

	// 1. Gate.
	if subject == "" {
		return Onboarded{}, ErrUnauthorized
	}
	if s.Token != "" && !cryptox.EqualTokens(token, s.Token) {
		log.Warn("onboarding with wrong onboarding token", slog.String("subject", subject))
		return Onboarded{}, ErrForbidden
	}

	// 2. Validate.
	name := strings.TrimSpace(req.SchoolName)
	if name == "" {
		return Onboarded{}, fmt.Errorf("%w: school_name is required", ErrInvalidInput)
	}

	now := clock(s.Now)
	school := domain.School{
		ID:        idx.NewAt(now).String(),
		Name:      name,
		CreatedBy: subject,
		CreatedAt: now,
	}
	profile := domain.Profile{
		ID:          subject,
		Role:        domain.RoleDirector,
		SchoolID:    school.ID,
		DisplayName: strings.TrimSpace(req.DisplayName),
		CreatedAt:   now,
	}

	// 3. Create school and director profile together.
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		existing, err := tx.Profiles().GetProfileByID(ctx, subject)
		switch {
		case errors.Is(err, store.ErrNotFound):
			existing = domain.Profile{}
		case err != nil:
			return fmt.Errorf("get profile: %w", err)
		}

		if existing.ID != "" {
			switch existing.Role {
			case domain.RoleDirector:
				if existing.SchoolID != "" {
					return ErrAlreadyOnboarded
				}
			case domain.RoleTeacher, domain.RoleParent:
				return ErrForbidden
			default:
				return ErrForbidden
			}
		}

		if err := tx.Schools().CreateSchool(ctx, school); err != nil {
			return fmt.Errorf("create school: %w", err)
		}

		if existing.ID != "" {
			if err := tx.Profiles().AssignSchool(ctx, subject, domain.RoleDirector, school.ID); err != nil {
				if errors.Is(err, store.ErrConflict) {
					return ErrAlreadyOnboarded
				}
				return fmt.Errorf("assign school: %w", err)
			}
			profile.DisplayName = existing.DisplayName
			profile.CreatedAt = existing.CreatedAt
			return nil
		}

		if err := tx.Profiles().CreateProfile(ctx, profile); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrAlreadyOnboarded
			}
			return fmt.Errorf("create profile: %w", err)
		}
		return nil
	})
	if err != nil {
		if isServiceErr(err) {
			log.Info("onboarding refused", slog.String("subject", subject), slog.Any("reason", err))
		} else {
			log.Error("onboarding failed", slog.String("subject", subject), slog.Any("error", err))
		}
		return Onboarded{}, err
	}

	log.Info("school onboarded",
		slog.String("school_id", school.ID),
		slog.String("director", subject),
	)
	return Onboarded{School: school, Profile: profile}, nil
}
