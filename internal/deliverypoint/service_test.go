package deliverypoint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agrolink/internal/domain"
	apperrors "agrolink/internal/errors"
	"agrolink/internal/infrastructure/memory"
)

func newTestService() Service {
	return NewService(memory.NewDeliveryPointRepository(memory.NewStore()), zap.NewNop())
}

func TestService_Create(t *testing.T) {
	svc := newTestService()

	point, err := svc.Create(context.Background(), CreateInput{
		FarmerID: "farmer-1",
		Name:     " Plaza Mayor ",
		Address:  "Calle 1",
		Zone:     "centro",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, point.ID)
	assert.Equal(t, "Plaza Mayor", point.Name)
	assert.True(t, point.IsActive)
}

func TestService_Create_Validation(t *testing.T) {
	svc := newTestService()
	lat := 120.0

	_, err := svc.Create(context.Background(), CreateInput{FarmerID: "farmer-1", Latitude: &lat})

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	fields := make([]string, 0, len(ve.Details))
	for _, d := range ve.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"name", "address", "zone", "latitude"}, fields)
}

func TestService_Update_OwnerOnly(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	point, err := svc.Create(ctx, CreateInput{FarmerID: "farmer-1", Name: "Barn", Address: "Km 3", Zone: "north"})
	require.NoError(t, err)

	name := "Other"
	_, err = svc.Update(ctx, point.ID, "farmer-2", Patch{Name: &name})
	_, ok := apperrors.IsForbiddenError(err)
	assert.True(t, ok)

	inactive := false
	updated, err := svc.Update(ctx, point.ID, "farmer-1", Patch{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	active, err := svc.List(ctx, domain.DeliveryPointFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Empty(t, active)
}
