package entitlements

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/CineFox/app/models"
)

func TestPurchaseGrants(t *testing.T) {
	past := testNow.Add(-time.Hour)
	future := testNow.Add(time.Hour)

	tests := []struct {
		name     string
		purchase *models.PayPerViewPurchase
		want     bool
	}{
		{name: "no purchase", purchase: nil, want: false},
		{name: "buy without expiry", purchase: &models.PayPerViewPurchase{PurchaseType: models.PurchaseTypeBuy}, want: true},
		{name: "buy ignores past expiry", purchase: &models.PayPerViewPurchase{PurchaseType: models.PurchaseTypeBuy, ExpiresAt: &past}, want: true},
		{name: "rent in the future", purchase: &models.PayPerViewPurchase{PurchaseType: models.PurchaseTypeRent, ExpiresAt: &future}, want: true},
		{name: "rent expired", purchase: &models.PayPerViewPurchase{PurchaseType: models.PurchaseTypeRent, ExpiresAt: &past}, want: false},
		{name: "rent expiring exactly now", purchase: &models.PayPerViewPurchase{PurchaseType: models.PurchaseTypeRent, ExpiresAt: timePtr(testNow)}, want: false},
		// A rental without expiry is granted. Changing this is a product decision.
		{name: "rent without expiry", purchase: &models.PayPerViewPurchase{PurchaseType: models.PurchaseTypeRent}, want: true},
		{name: "unknown purchase type", purchase: &models.PayPerViewPurchase{PurchaseType: "gift"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PurchaseGrants(tt.purchase, testNow))
		})
	}
}

func TestHasPPVAccess(t *testing.T) {
	m := newMemoryStores()
	m.addPurchase(5, models.ContentTypeMovie, 100, models.PurchaseTypeBuy, nil)
	m.addPurchase(5, models.ContentTypeEpisode, 100, models.PurchaseTypeRent, timePtr(testNow.Add(-time.Minute)))
	r := newTestResolver(m, false)

	ok, err := r.ppv.HasPPVAccess(context.Background(), 5, models.ContentTypeMovie, 100)
	require.NoError(t, err)
	assert.True(t, ok)

	// Same id, different target type.
	ok, err = r.ppv.HasPPVAccess(context.Background(), 5, models.ContentTypeEpisode, 100)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.ppv.HasPPVAccess(context.Background(), 6, models.ContentTypeMovie, 100)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasPPVAccessStoreError(t *testing.T) {
	m := newMemoryStores()
	m.failPurchases = errors.New("i/o timeout")
	r := newTestResolver(m, false)

	ok, err := r.ppv.HasPPVAccess(context.Background(), 5, models.ContentTypeMovie, 1)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
