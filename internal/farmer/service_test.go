package farmer

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agrolink/internal/domain"
	apperrors "agrolink/internal/errors"
	"agrolink/internal/infrastructure/memory"
	"agrolink/internal/notification"
)

func strPtr(s string) *string { return &s }

func TestService_UpsertCreatesThenUpdates(t *testing.T) {
	repo := memory.NewFarmerRepository(memory.NewStore())
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	created, err := svc.Upsert(ctx, UpsertInput{
		FarmerID: "farmer-1",
		Name:     " Finca Sol ",
		Email:    "sol@example.com",
		Bio:      strPtr("   "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Finca Sol", created.Name)
	assert.Nil(t, created.Bio)

	updated, err := svc.Upsert(ctx, UpsertInput{
		FarmerID: "farmer-1",
		Name:     "Finca Sol",
		Email:    "pedidos@fincasol.example",
		Location: "Valencia",
		Website:  strPtr("https://fincasol.example"),
	})
	require.NoError(t, err)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	got, err := svc.Get(ctx, "farmer-1")
	require.NoError(t, err)
	assert.Equal(t, "pedidos@fincasol.example", got.Email)
	assert.Equal(t, "Valencia", got.Location)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestService_UpsertValidation(t *testing.T) {
	svc := NewService(memory.NewFarmerRepository(memory.NewStore()), zap.NewNop())

	_, err := svc.Upsert(context.Background(), UpsertInput{
		FarmerID: "farmer-1",
		Email:    "Sol <sol@example.com>",
		Website:  strPtr("ftp://fincasol.example"),
	})

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	fields := make([]string, 0, len(ve.Details))
	for _, d := range ve.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"name", "email", "website"}, fields)
}

func TestService_GetUnknown(t *testing.T) {
	svc := NewService(memory.NewFarmerRepository(memory.NewStore()), zap.NewNop())

	_, err := svc.Get(context.Background(), "nobody")

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

type capturingSender struct {
	mu   sync.Mutex
	sent []notification.Message
}

func (s *capturingSender) Send(ctx context.Context, msg notification.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return fmt.Sprintf("msg-%d", len(s.sent)), nil
}

// A profile saved through the service is the address the dispatcher mails
// when one of the farmer's products is ordered.
func TestService_SavedProfileReceivesOrderNotifications(t *testing.T) {
	repo := memory.NewFarmerRepository(memory.NewStore())
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Upsert(ctx, UpsertInput{FarmerID: "farmer-1", Name: "Finca Sol", Email: "sol@example.com"})
	require.NoError(t, err)

	sender := &capturingSender{}
	dispatcher := notification.NewDispatcher(sender, repo, zap.NewNop(), notification.Options{
		Workers: 1, QueueSize: 4, MaxAttempts: 1, SendTimeout: time.Second,
	})
	dispatcher.Start(ctx)

	dispatcher.OrderPlaced(domain.Order{
		ID:           "0123456789abcdef",
		DeliverySlot: domain.SlotFridayAfternoon,
		Logistics:    domain.PlatformDelivery(),
		CreatedAt:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Lines: []domain.OrderLine{
			{ProductID: "p-1", FarmerID: "farmer-1", ProductName: "Tomatoes", Quantity: 3},
		},
	})
	require.NoError(t, dispatcher.Stop(ctx))

	sender.mu.Lock()
	defer sender.mu.Unlock()
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "sol@example.com", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Text, "Tomatoes (3 units)")
}
