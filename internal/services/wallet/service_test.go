package wallet

import (
	"context"
	"testing"

	"droppay/internal/models"
	"droppay/internal/repositories"
	"droppay/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetMerchant(ctx context.Context, merchantID string) (*models.Merchant, error) {
	args := m.Called(ctx, merchantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Merchant), args.Error(1)
}

func (m *MockCache) GetMerchantIDByPiUser(ctx context.Context, piUserID string) (string, error) {
	args := m.Called(ctx, piUserID)
	return args.String(0), args.Error(1)
}

func (m *MockCache) CacheMerchant(ctx context.Context, merchant *models.Merchant) error {
	args := m.Called(ctx, merchant)
	return args.Error(0)
}

func (m *MockCache) InvalidateMerchant(ctx context.Context, merchantID string) error {
	args := m.Called(ctx, merchantID)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendWithdrawal(ctx context.Context, merchantID string, w *models.Withdrawal) error {
	args := m.Called(ctx, merchantID, w)
	return args.Error(0)
}

func newTestService(t *testing.T, cache *MockCache, notifier Notifier) (Service, *gorm.DB) {
	db := testutil.NewTestDB(t)
	svc := NewService(
		repositories.NewWalletRepository(db),
		repositories.NewMerchantRepository(db),
		cache,
		notifier,
		nil,
	)
	return svc, db
}

func balanceOf(t *testing.T, db *gorm.DB, id string) (available, revenue float64) {
	var m models.Merchant
	require.NoError(t, db.First(&m, "id = ?", id).Error)
	return m.AvailableBalance.InexactFloat64(), m.TotalRevenue.InexactFloat64()
}

func TestWalletService_Credit(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		unknown   bool
		setupMock func(*MockCache, string)
		wantErr   error
		want      float64
	}{
		{
			name:   "successful credit",
			amount: "0.005",
			setupMock: func(c *MockCache, id string) {
				c.On("InvalidateMerchant", mock.Anything, id).Return(nil).Once()
			},
			want: 0.005,
		},
		{
			name:    "invalid amount",
			amount:  "-1",
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "unknown merchant",
			amount:  "1",
			unknown: true,
			wantErr: repositories.ErrMerchantNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := new(MockCache)
			svc, db := newTestService(t, cache, nil)
			m := testutil.SeedMerchant(t, db, "uid-"+tt.name, "alice")

			id := m.ID
			if tt.unknown {
				id = "missing"
			}
			if tt.setupMock != nil {
				tt.setupMock(cache, id)
			}

			err := svc.Credit(context.Background(), id, decimal.RequireFromString(tt.amount))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				available, revenue := balanceOf(t, db, m.ID)
				assert.InDelta(t, tt.want, available, 1e-9)
				assert.InDelta(t, tt.want, revenue, 1e-9)
			}
			cache.AssertExpectations(t)
		})
	}
}

func TestWalletService_Withdraw(t *testing.T) {
	cache := new(MockCache)
	cache.On("InvalidateMerchant", mock.Anything, mock.Anything).Return(nil)
	notifier := new(MockNotifier)
	svc, db := newTestService(t, cache, notifier)
	ctx := context.Background()

	m := testutil.SeedMerchant(t, db, "uid-w", "bob")
	notifier.On("SendWithdrawal", mock.Anything, m.ID, mock.AnythingOfType("*models.Withdrawal")).Return(nil).Once()
	require.NoError(t, svc.Credit(ctx, m.ID, decimal.NewFromInt(2)))

	t.Run("reserves balance", func(t *testing.T) {
		w, err := svc.Withdraw(ctx, m.ID, decimal.RequireFromString("1.5"))
		require.NoError(t, err)
		assert.Equal(t, models.WithdrawalStatusPending, w.Status)
		assert.Equal(t, m.WalletAddress, w.WalletAddress)

		available, revenue := balanceOf(t, db, m.ID)
		assert.InDelta(t, 0.5, available, 1e-9)
		assert.InDelta(t, 2.0, revenue, 1e-9)
		notifier.AssertNumberOfCalls(t, "SendWithdrawal", 1)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		_, err := svc.Withdraw(ctx, m.ID, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, ErrInsufficientBalance)

		items, total, err := svc.ListWithdrawals(ctx, m.ID, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, items, 1)
	})

	t.Run("no wallet address", func(t *testing.T) {
		other := testutil.SeedMerchant(t, db, "uid-nowallet", "carol")
		require.NoError(t, db.Model(other).Update("wallet_address", "").Error)

		_, err := svc.Withdraw(ctx, other.ID, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, ErrNoWalletAddress)
	})

	// Only the successful withdrawal notified.
	notifier.AssertExpectations(t)
}
