package surrealdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/moneta/internal/models"
)

func TestFXStoreLatest(t *testing.T) {
	db := testDB(t)
	store := NewFXStore(db, testLogger())
	ctx := context.Background()

	rates := []models.FXRate{
		{UserID: "u1", GBPUSD: 1.25, Date: day("2025-07-01")},
		{UserID: "u1", GBPUSD: 1.31, Date: day("2025-07-10")},
		{UserID: "u2", GBPUSD: 1.09, Date: day("2025-07-12")},
	}
	for i := range rates {
		require.NoError(t, store.Put(ctx, &rates[i]))
	}

	got, err := store.Latest(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1.31, got.GBPUSD)
	assert.True(t, got.Date.Equal(day("2025-07-10")))

	all, err := store.ListAll(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1.25, all[0].GBPUSD)
	assert.Equal(t, 1.31, all[1].GBPUSD)
}

func TestFXStoreLatestMissing(t *testing.T) {
	db := testDB(t)
	store := NewFXStore(db, testLogger())
	ctx := context.Background()

	got, err := store.Latest(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}
