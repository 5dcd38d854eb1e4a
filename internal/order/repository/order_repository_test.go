package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrolink/internal/domain"
	"agrolink/internal/errors"
	"agrolink/internal/infrastructure/mysql"
	"agrolink/internal/storage"
	"agrolink/internal/testutil"
)

// Unit Tests

func TestNewMySQLOrderRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLOrderRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestOrderRepository_Create_EmptyCart(t *testing.T) {
	repo := NewMySQLOrderRepository(&sql.DB{})

	err := repo.Create(context.Background(), nil, &domain.Order{})
	assert.True(t, errors.HasCode(err, errors.CodeEmptyCart))
}

func TestOrderRepository_UpdateStatus_RejectsBeforeTouchingStorage(t *testing.T) {
	repo := NewMySQLOrderRepository(&sql.DB{})
	ctx := context.Background()

	err := repo.UpdateStatus(ctx, nil, "id", domain.OrderStatusDelivered, domain.OrderStatusCancelled, strPtr("late"))
	assert.True(t, errors.HasCode(err, errors.CodeInvalidTransition))

	err = repo.UpdateStatus(ctx, nil, "id", domain.OrderStatusPending, domain.OrderStatusCancelled, strPtr("  "))
	assert.True(t, errors.HasCode(err, errors.CodeMissingReason))
}

// Integration Tests

func strPtr(s string) *string { return &s }

func withTx(t *testing.T, db *sql.DB, fn func(tx storage.Tx)) {
	t.Helper()
	tx, err := mysql.NewTxManager(db).BeginTx(context.Background())
	require.NoError(t, err)
	fn(tx)
	require.NoError(t, tx.Commit())
}

func newOrder(userID string) *domain.Order {
	return &domain.Order{
		UserID:       strPtr(userID),
		Customer:     domain.Customer{Name: strPtr("Ana"), Email: strPtr("ana@example.com")},
		DeliverySlot: domain.SlotTuesdayMorning,
		Logistics:    domain.MeetingPoint("dp-1"),
		Lines: []domain.OrderLine{
			{ProductID: "p-1", FarmerID: "farmer-1", ProductName: "Tomatoes", Quantity: 3},
			{ProductID: "p-2", FarmerID: "farmer-2", ProductName: "Lettuce", Quantity: 2},
		},
	}
}

func TestOrderRepository_CreateAndFindByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	order := newOrder("user-1")
	withTx(t, db, func(tx storage.Tx) {
		require.NoError(t, repo.Create(context.Background(), tx, order))
	})

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, found.Status)
	assert.Equal(t, 5, found.TotalItems)
	assert.Equal(t, "meeting-point(dp-1)", found.Logistics.String())
	require.Len(t, found.Lines, 2)
	assert.Equal(t, "Tomatoes", found.Lines[0].ProductName)
	assert.Equal(t, "farmer-2", found.Lines[1].FarmerID)
}

func TestOrderRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	order, err := repo.FindByID(context.Background(), "missing")
	assert.Nil(t, order)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	ctx := context.Background()
	repo := NewMySQLOrderRepository(db)
	order := newOrder("user-1")
	withTx(t, db, func(tx storage.Tx) {
		require.NoError(t, repo.Create(ctx, tx, order))
	})

	withTx(t, db, func(tx storage.Tx) {
		require.NoError(t, repo.UpdateStatus(ctx, tx, order.ID, domain.OrderStatusPending, domain.OrderStatusConfirmed, nil))
	})

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, found.Status)
	assert.Nil(t, found.CancellationReason)
}

func TestOrderRepository_UpdateStatus_StaleFromIsConflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	ctx := context.Background()
	repo := NewMySQLOrderRepository(db)
	order := newOrder("user-1")
	withTx(t, db, func(tx storage.Tx) {
		require.NoError(t, repo.Create(ctx, tx, order))
	})

	withTx(t, db, func(tx storage.Tx) {
		err := repo.UpdateStatus(ctx, tx, order.ID, domain.OrderStatusConfirmed, domain.OrderStatusPreparing, nil)
		_, ok := errors.IsConflictError(err)
		assert.True(t, ok)
	})
}

func TestOrderRepository_CancellationsAndListing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	ctx := context.Background()
	repo := NewMySQLOrderRepository(db)
	first := newOrder("user-1")
	second := newOrder("user-1")
	withTx(t, db, func(tx storage.Tx) {
		require.NoError(t, repo.Create(ctx, tx, first))
		require.NoError(t, repo.Create(ctx, tx, second))
		require.NoError(t, repo.UpdateStatus(ctx, tx, first.ID, domain.OrderStatusPending, domain.OrderStatusCancelled, strPtr("out of season")))
	})

	count, err := repo.CountUnviewedCancellations(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	marked, err := repo.MarkCancellationsViewed(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	count, err = repo.CountUnviewedCancellations(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, count)

	byUser, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	byFarmer, err := repo.ListByFarmer(ctx, "farmer-2")
	require.NoError(t, err)
	assert.Len(t, byFarmer, 2)

	none, err := repo.ListByFarmer(ctx, "farmer-9")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOrderRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	ctx := context.Background()
	repo := NewMySQLOrderRepository(db)
	order := newOrder("user-1")
	withTx(t, db, func(tx storage.Tx) {
		require.NoError(t, repo.Create(ctx, tx, order))
	})
	withTx(t, db, func(tx storage.Tx) {
		require.NoError(t, repo.Delete(ctx, tx, order.ID))
	})

	_, err := repo.FindByID(ctx, order.ID)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}
