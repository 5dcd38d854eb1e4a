package farmer

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrolink/internal/domain"
	apperrors "agrolink/internal/errors"
	"agrolink/internal/testutil"
)

func TestNewMySQLRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLRepository(db)

	assert.Equal(t, db, repo.db)
}

func TestMySQLRepository_UpsertAndContact(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	ctx := context.Background()

	profile := &domain.FarmerProfile{FarmerID: "farmer-1", Name: "Finca Sol", Email: "sol@example.com"}
	require.NoError(t, repo.Upsert(ctx, profile))

	profile.Email = "pedidos@fincasol.example"
	require.NoError(t, repo.Upsert(ctx, profile))

	contact, err := repo.FindByFarmerID(ctx, "farmer-1")
	require.NoError(t, err)
	assert.Equal(t, "pedidos@fincasol.example", contact.Email)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = repo.FindByFarmerID(ctx, "farmer-2")
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}
