package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	drv "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agrolink/internal/domain"
	"agrolink/internal/dto"
	apperrors "agrolink/internal/errors"
)

func createDeadlockError() error {
	return fmt.Errorf("locking products: %w", &drv.MySQLError{Number: 1213})
}

func createLockWaitError() error {
	return apperrors.NewTimeoutError("store operation timed out", &drv.MySQLError{Number: 1205})
}

// Mock implementations

type mockPlacer struct {
	PlaceOrderFunc func(ctx context.Context, in dto.PlaceOrderInput) (*domain.Order, error)
	calls          int
}

func (m *mockPlacer) PlaceOrder(ctx context.Context, in dto.PlaceOrderInput) (*domain.Order, error) {
	m.calls++
	return m.PlaceOrderFunc(ctx, in)
}

type mockReader struct {
	FindByIDFunc func(ctx context.Context, id string) (*domain.Order, error)
}

func (m *mockReader) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return m.FindByIDFunc(ctx, id)
}

type mockIdempotency struct {
	ClaimFunc func(ctx context.Context, key string) (string, bool, error)
	completed map[string]string
	released  []string
}

func (m *mockIdempotency) Claim(ctx context.Context, key string) (string, bool, error) {
	return m.ClaimFunc(ctx, key)
}

func (m *mockIdempotency) Complete(ctx context.Context, key, orderID string) error {
	if m.completed == nil {
		m.completed = map[string]string{}
	}
	m.completed[key] = orderID
	return nil
}

func (m *mockIdempotency) Release(ctx context.Context, key string) error {
	m.released = append(m.released, key)
	return nil
}

type mockFulfiller struct {
	TransitionFunc func(ctx context.Context, in dto.TransitionInput) (*domain.Order, error)
	DeleteFunc     func(ctx context.Context, orderID, requesterID string) error
	calls          int
}

func (m *mockFulfiller) Transition(ctx context.Context, in dto.TransitionInput) (*domain.Order, error) {
	m.calls++
	return m.TransitionFunc(ctx, in)
}

func (m *mockFulfiller) DeleteCancelledOrder(ctx context.Context, orderID, requesterID string) error {
	m.calls++
	return m.DeleteFunc(ctx, orderID, requesterID)
}

func noSleep(context.Context, time.Duration) error { return nil }

func newTestPlaceOrderUseCase(placer OrderPlacer, reader OrderReader, idem IdempotencyStore) *PlaceOrderUseCase {
	uc := NewPlaceOrderUseCase(placer, reader, idem, zap.NewNop(), 3)
	uc.retry.sleep = noSleep
	return uc
}

// Tests

func TestPlaceOrder_Success(t *testing.T) {
	placer := &mockPlacer{PlaceOrderFunc: func(ctx context.Context, in dto.PlaceOrderInput) (*domain.Order, error) {
		return &domain.Order{ID: "order-1"}, nil
	}}
	uc := newTestPlaceOrderUseCase(placer, &mockReader{}, nil)

	order, replayed, err := uc.PlaceOrder(context.Background(), "", dto.PlaceOrderInput{})

	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, 1, placer.calls)
}

func TestPlaceOrder_RetriesDeadlockThenSucceeds(t *testing.T) {
	placer := &mockPlacer{}
	placer.PlaceOrderFunc = func(ctx context.Context, in dto.PlaceOrderInput) (*domain.Order, error) {
		if placer.calls < 3 {
			return nil, createDeadlockError()
		}
		return &domain.Order{ID: "order-1"}, nil
	}
	uc := newTestPlaceOrderUseCase(placer, &mockReader{}, nil)

	order, _, err := uc.PlaceOrder(context.Background(), "", dto.PlaceOrderInput{})

	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, 3, placer.calls)
}

func TestPlaceOrder_DeadlockExhausted(t *testing.T) {
	placer := &mockPlacer{PlaceOrderFunc: func(ctx context.Context, in dto.PlaceOrderInput) (*domain.Order, error) {
		return nil, createDeadlockError()
	}}
	uc := newTestPlaceOrderUseCase(placer, &mockReader{}, nil)

	_, _, err := uc.PlaceOrder(context.Background(), "", dto.PlaceOrderInput{})

	_, ok := apperrors.IsDeadlockError(err)
	assert.True(t, ok)
	assert.Equal(t, 3, placer.calls)
}

func TestPlaceOrder_LockWaitExhaustedIsTimeout(t *testing.T) {
	placer := &mockPlacer{PlaceOrderFunc: func(ctx context.Context, in dto.PlaceOrderInput) (*domain.Order, error) {
		return nil, createLockWaitError()
	}}
	uc := newTestPlaceOrderUseCase(placer, &mockReader{}, nil)

	_, _, err := uc.PlaceOrder(context.Background(), "", dto.PlaceOrderInput{})

	_, ok := apperrors.IsTimeoutError(err)
	assert.True(t, ok)
	assert.Equal(t, 3, placer.calls)
}

func TestPlaceOrder_BusinessErrorIsNotRetried(t *testing.T) {
	placer := &mockPlacer{PlaceOrderFunc: func(ctx context.Context, in dto.PlaceOrderInput) (*domain.Order, error) {
		return nil, apperrors.NewInsufficientStockError("p", "Tomatoes", 5, 10)
	}}
	uc := newTestPlaceOrderUseCase(placer, &mockReader{}, nil)

	_, _, err := uc.PlaceOrder(context.Background(), "", dto.PlaceOrderInput{})

	_, ok := apperrors.IsInsufficientStockError(err)
	assert.True(t, ok)
	assert.Equal(t, 1, placer.calls)
}

func TestPlaceOrder_IdempotentReplay(t *testing.T) {
	placer := &mockPlacer{}
	reader := &mockReader{FindByIDFunc: func(ctx context.Context, id string) (*domain.Order, error) {
		return &domain.Order{ID: id}, nil
	}}
	idem := &mockIdempotency{ClaimFunc: func(ctx context.Context, key string) (string, bool, error) {
		return "order-7", false, nil
	}}
	uc := newTestPlaceOrderUseCase(placer, reader, idem)

	order, replayed, err := uc.PlaceOrder(context.Background(), "key-1", dto.PlaceOrderInput{})

	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, "order-7", order.ID)
	assert.Zero(t, placer.calls)
}

func TestPlaceOrder_IdempotencyCompletesOnSuccess(t *testing.T) {
	placer := &mockPlacer{PlaceOrderFunc: func(ctx context.Context, in dto.PlaceOrderInput) (*domain.Order, error) {
		return &domain.Order{ID: "order-1"}, nil
	}}
	idem := &mockIdempotency{ClaimFunc: func(ctx context.Context, key string) (string, bool, error) {
		return "", true, nil
	}}
	uc := newTestPlaceOrderUseCase(placer, &mockReader{}, idem)

	_, _, err := uc.PlaceOrder(context.Background(), "key-1", dto.PlaceOrderInput{})

	require.NoError(t, err)
	assert.Equal(t, "order-1", idem.completed["key-1"])
	assert.Empty(t, idem.released)
}

func TestPlaceOrder_IdempotencyReleasedOnFailure(t *testing.T) {
	placer := &mockPlacer{PlaceOrderFunc: func(ctx context.Context, in dto.PlaceOrderInput) (*domain.Order, error) {
		return nil, apperrors.NewEmptyCartError()
	}}
	idem := &mockIdempotency{ClaimFunc: func(ctx context.Context, key string) (string, bool, error) {
		return "", true, nil
	}}
	uc := newTestPlaceOrderUseCase(placer, &mockReader{}, idem)

	_, _, err := uc.PlaceOrder(context.Background(), "key-1", dto.PlaceOrderInput{})

	assert.True(t, apperrors.HasCode(err, apperrors.CodeEmptyCart))
	assert.Equal(t, []string{"key-1"}, idem.released)
	assert.Empty(t, idem.completed)
}

func TestPlaceOrder_InFlightKeyConflicts(t *testing.T) {
	placer := &mockPlacer{}
	idem := &mockIdempotency{ClaimFunc: func(ctx context.Context, key string) (string, bool, error) {
		return "", false, apperrors.NewConflictError("a request with this idempotency key is in progress")
	}}
	uc := newTestPlaceOrderUseCase(placer, &mockReader{}, idem)

	_, _, err := uc.PlaceOrder(context.Background(), "key-1", dto.PlaceOrderInput{})

	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)
	assert.Zero(t, placer.calls)
}

func TestFulfillment_TransitionRetriesDeadlock(t *testing.T) {
	f := &mockFulfiller{}
	f.TransitionFunc = func(ctx context.Context, in dto.TransitionInput) (*domain.Order, error) {
		if f.calls == 1 {
			return nil, createDeadlockError()
		}
		return &domain.Order{ID: in.OrderID, Status: in.Status}, nil
	}
	uc := NewFulfillmentUseCase(f, zap.NewNop(), 3)
	uc.retry.sleep = noSleep

	order, err := uc.Transition(context.Background(), dto.TransitionInput{OrderID: "o-1", Status: domain.OrderStatusConfirmed})

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
	assert.Equal(t, 2, f.calls)
}

func TestFulfillment_DeletePassesErrorsThrough(t *testing.T) {
	f := &mockFulfiller{DeleteFunc: func(ctx context.Context, orderID, requesterID string) error {
		return apperrors.NewForbiddenError("not yours")
	}}
	uc := NewFulfillmentUseCase(f, zap.NewNop(), 3)

	err := uc.DeleteCancelledOrder(context.Background(), "o-1", "user-2")

	_, ok := apperrors.IsForbiddenError(err)
	assert.True(t, ok)
	assert.Equal(t, 1, f.calls)
}

func TestRetrier_CancelledContextStopsRetrying(t *testing.T) {
	r := newRetrier(3, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := r.do(ctx, "op", func() error {
		calls++
		return createDeadlockError()
	})

	_, ok := apperrors.IsTimeoutError(err)
	assert.True(t, ok)
	assert.Equal(t, 1, calls)
}
