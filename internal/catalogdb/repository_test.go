package catalogdb_test

import (
	"context"
	"testing"
	"time"

	"github.com/craftline/storefront/internal/catalog"
	"github.com/craftline/storefront/internal/catalogdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *catalogdb.Repository {
	// Use in-memory database for tests
	repo, err := catalogdb.NewRepository(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	if err := repo.RunMigrations("./migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return repo
}

func TestListProducts_ReturnsSeededCatalog(t *testing.T) {
	repo := setupTestDB(t)

	products, err := repo.ListProducts(context.Background())
	require.NoError(t, err)

	// The seed migration inserts 5 products
	assert.Len(t, products, 5)
}

func TestListProducts_AttachesVariations(t *testing.T) {
	repo := setupTestDB(t)

	products, err := repo.ListProducts(context.Background())
	require.NoError(t, err)

	byID := make(map[string]catalog.Product)
	for _, p := range products {
		byID[p.ID] = p
	}

	throw, ok := byID["prd-001"]
	require.True(t, ok)
	assert.Len(t, throw.Variations, 2)

	vase, ok := byID["prd-002"]
	require.True(t, ok)
	assert.Len(t, vase.Variations, 3)

	// Zero-stock variations are still listed; the cart service needs
	// them to distinguish "sold out" from "unknown variation".
	snapshot := catalog.NewSnapshot(products)
	ceiling, known := snapshot.Ceiling("prd-002", "Terracotta", "S")
	assert.True(t, known)
	assert.Equal(t, 0, ceiling)
}

func TestListProducts_WithContext(t *testing.T) {
	repo := setupTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, products)
}

func TestListProducts_CancelledContext(t *testing.T) {
	repo := setupTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListProducts(ctx)
	assert.Error(t, err)
}
