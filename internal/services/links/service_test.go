package links

import (
	"context"
	"testing"

	apperr "droppay/internal/errors"
	"droppay/internal/models"
	"droppay/internal/repositories"
	"droppay/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Lifecycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewService(repositories.NewLinkRepository(db))
	ctx := context.Background()
	m := testutil.SeedMerchant(t, db, "uid-l", "alice")

	pay, err := svc.Create(ctx, m.ID, CreateInput{Title: " Coffee ", Amount: decimal.RequireFromString("3.14")})
	require.NoError(t, err)
	assert.Equal(t, models.LinkKindPayment, pay.Kind)
	assert.Equal(t, "Coffee", pay.Title)
	assert.Len(t, pay.Slug, slugLength)

	checkout, err := svc.Create(ctx, m.ID, CreateInput{
		Title: "Cart", Amount: decimal.NewFromInt(12), Checkout: true,
		Metadata: map[string]interface{}{"order": "42"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.LinkKindCheckout, checkout.Kind)

	all, err := svc.List(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := svc.GetBySlug(ctx, checkout.Slug)
	require.NoError(t, err)
	assert.Equal(t, checkout.ID, got.ID)
	assert.Equal(t, "42", got.Metadata.String("order"))

	require.NoError(t, svc.Deactivate(ctx, m.ID, checkout.ID, true))
	_, err = svc.GetBySlug(ctx, checkout.Slug)
	assert.ErrorIs(t, err, apperr.ErrLinkNotFound)

	assert.ErrorIs(t, svc.Deactivate(ctx, "someone-else", pay.ID, false), apperr.ErrLinkNotFound)
}

func TestService_CreateValidation(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewService(repositories.NewLinkRepository(db))
	ctx := context.Background()

	_, err := svc.Create(ctx, "m", CreateInput{Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, apperr.ErrMissingField)

	_, err = svc.Create(ctx, "m", CreateInput{Title: "Free", Amount: decimal.Zero})
	assert.ErrorIs(t, err, apperr.ErrInvalidAmount)
}
