package deliverypoint

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"agrolink/internal/domain"
	apperrors "agrolink/internal/errors"
)

type deliveryPointService struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &deliveryPointService{repo: repo, logger: logger}
}

func (s *deliveryPointService) Create(ctx context.Context, in CreateInput) (*domain.DeliveryPoint, error) {
	point := &domain.DeliveryPoint{
		FarmerID:  in.FarmerID,
		Name:      strings.TrimSpace(in.Name),
		Address:   strings.TrimSpace(in.Address),
		Zone:      strings.TrimSpace(in.Zone),
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		IsActive:  true,
	}
	if in.IsActive != nil {
		point.IsActive = *in.IsActive
	}

	if err := validate(point); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, point); err != nil {
		return nil, err
	}

	s.logger.Info("delivery point created", zap.String("deliveryPointId", point.ID), zap.String("farmerId", point.FarmerID))
	return point, nil
}

func (s *deliveryPointService) Update(ctx context.Context, id, requesterID string, patch Patch) (*domain.DeliveryPoint, error) {
	point, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if point.FarmerID != requesterID {
		return nil, apperrors.NewForbiddenError("only the owning farmer can update this delivery point")
	}

	if patch.Name != nil {
		point.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Address != nil {
		point.Address = strings.TrimSpace(*patch.Address)
	}
	if patch.Zone != nil {
		point.Zone = strings.TrimSpace(*patch.Zone)
	}
	if patch.Latitude != nil {
		point.Latitude = patch.Latitude
	}
	if patch.Longitude != nil {
		point.Longitude = patch.Longitude
	}
	if patch.IsActive != nil {
		point.IsActive = *patch.IsActive
	}

	if err := validate(point); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, point); err != nil {
		return nil, err
	}
	return point, nil
}

func (s *deliveryPointService) Get(ctx context.Context, id string) (*domain.DeliveryPoint, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *deliveryPointService) List(ctx context.Context, filter domain.DeliveryPointFilter) ([]domain.DeliveryPoint, error) {
	return s.repo.List(ctx, filter)
}

func validate(point *domain.DeliveryPoint) error {
	var details []apperrors.ValidationDetail
	if point.FarmerID == "" {
		details = append(details, apperrors.ValidationDetail{Field: "farmerId", Message: "farmerId is required"})
	}
	if point.Name == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	}
	if point.Address == "" {
		details = append(details, apperrors.ValidationDetail{Field: "address", Message: "address is required"})
	}
	if point.Zone == "" {
		details = append(details, apperrors.ValidationDetail{Field: "zone", Message: "zone is required"})
	}
	if point.Latitude != nil && (*point.Latitude < -90 || *point.Latitude > 90) {
		details = append(details, apperrors.ValidationDetail{Field: "latitude", Message: "latitude must be between -90 and 90"})
	}
	if point.Longitude != nil && (*point.Longitude < -180 || *point.Longitude > 180) {
		details = append(details, apperrors.ValidationDetail{Field: "longitude", Message: "longitude must be between -180 and 180"})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
