package repository

import (
	"context"
	"errors"
	"testing"

	"marketly-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_InTxRollsBack(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	owner := &models.User{Name: "Sara", Email: "sara@x.com", PasswordHash: "h"}
	require.NoError(t, store.Users().Create(ctx, owner))

	boom := errors.New("boom")
	err := store.InTx(ctx, func(tx Store) error {
		c := &models.Campaign{UserID: owner.ID, GeneratedContent: "text"}
		require.NoError(t, tx.Campaigns().Create(ctx, c))
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, store.CampaignCount())

	err = store.InTx(ctx, func(tx Store) error {
		return tx.Campaigns().Create(ctx, &models.Campaign{UserID: owner.ID})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.CampaignCount())
}

func TestMemoryStore_OwnerScopingAndOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	owner, other := uuid.New(), uuid.New()

	first := &models.Campaign{UserID: owner}
	second := &models.Campaign{UserID: owner}
	foreign := &models.Campaign{UserID: other}
	for _, c := range []*models.Campaign{first, second, foreign} {
		require.NoError(t, store.Campaigns().Create(ctx, c))
	}

	list, err := store.Campaigns().ListByUserID(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	_, err = store.Campaigns().GetByUserIDAndID(ctx, owner, foreign.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Campaigns().DeleteByUserIDAndID(ctx, owner, foreign.ID), ErrNotFound)
	assert.Equal(t, 3, store.CampaignCount())
}

func TestMemoryStore_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Users().Create(ctx, &models.User{Email: "a@x.com"}))
	err := store.Users().Create(ctx, &models.User{Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
	err = store.Users().Create(ctx, &models.User{Email: "A@X.com"})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	got, err := store.Users().GetByEmail(ctx, "A@x.COM")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)
}
