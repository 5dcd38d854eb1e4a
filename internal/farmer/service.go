package farmer

import (
	"context"
	"net/mail"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"agrolink/internal/domain"
	apperrors "agrolink/internal/errors"
)

type profileService struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &profileService{repo: repo, logger: logger}
}

// Upsert writes the caller's own profile. The email given here is where
// order notifications for the farmer's products are sent.
func (s *profileService) Upsert(ctx context.Context, in UpsertInput) (*domain.FarmerProfile, error) {
	profile := &domain.FarmerProfile{
		FarmerID: in.FarmerID,
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Phone:    trimOptional(in.Phone),
		Location: strings.TrimSpace(in.Location),
		Bio:      trimOptional(in.Bio),
		Website:  trimOptional(in.Website),
	}

	if err := validate(profile); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("farmer profile saved", zap.String("farmerId", profile.FarmerID))
	return profile, nil
}

func (s *profileService) Get(ctx context.Context, farmerID string) (*domain.FarmerProfile, error) {
	return s.repo.FindByID(ctx, farmerID)
}

func (s *profileService) List(ctx context.Context) ([]domain.FarmerProfile, error) {
	return s.repo.List(ctx)
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func validate(p *domain.FarmerProfile) error {
	var details []apperrors.ValidationDetail
	if p.FarmerID == "" {
		details = append(details, apperrors.ValidationDetail{Field: "farmerId", Message: "farmerId is required"})
	}
	if p.Name == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	}
	if p.Email == "" {
		details = append(details, apperrors.ValidationDetail{Field: "email", Message: "email is required"})
	} else if addr, err := mail.ParseAddress(p.Email); err != nil || addr.Address != p.Email {
		details = append(details, apperrors.ValidationDetail{Field: "email", Message: "email must be a plain address"})
	}
	if p.Website != nil {
		if u, err := url.Parse(*p.Website); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			details = append(details, apperrors.ValidationDetail{Field: "website", Message: "website must be an http(s) URL"})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
