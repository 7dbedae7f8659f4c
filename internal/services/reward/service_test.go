package reward

import (
	"context"
	"errors"
	"testing"

	"droppay/internal/config"
	apperr "droppay/internal/errors"
	"droppay/internal/models"
	"droppay/internal/pinetwork"
	"droppay/internal/repositories"
	"droppay/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockPiClient struct {
	mock.Mock
}

func (m *MockPiClient) AdStatus(ctx context.Context, apiKey, adID string) (*pinetwork.AdStatus, error) {
	args := m.Called(ctx, apiKey, adID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pinetwork.AdStatus), args.Error(1)
}

type MockWallet struct {
	mock.Mock
}

func (m *MockWallet) Credit(ctx context.Context, merchantID string, amount decimal.Decimal) error {
	args := m.Called(ctx, merchantID, amount)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendReward(ctx context.Context, merchantID string, amount decimal.Decimal) error {
	args := m.Called(ctx, merchantID, amount)
	return args.Error(0)
}

type fixture struct {
	svc      Service
	db       *gorm.DB
	client   *MockPiClient
	wallet   *MockWallet
	notifier *MockNotifier
}

func newFixture(t *testing.T, secrets config.SecretSource) *fixture {
	f := &fixture{
		db:       testutil.NewTestDB(t),
		client:   new(MockPiClient),
		wallet:   new(MockWallet),
		notifier: new(MockNotifier),
	}
	f.svc = NewService(repositories.NewAdRewardRepository(f.db), f.client, secrets, f.wallet, f.notifier, nil)
	return f
}

var testSecrets = config.MapSecrets{config.PiAPIKey: "pi-key"}

func TestRewardService_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("missing api key fails before upstream", func(t *testing.T) {
		f := newFixture(t, config.MapSecrets{})
		_, err := f.svc.Verify(ctx, VerifyRequest{AdID: "ad-1"})

		var missingErr *config.MissingSecretError
		require.True(t, errors.As(err, &missingErr))
		assert.Equal(t, config.PiAPIKey, missingErr.Name)
		f.client.AssertNotCalled(t, "AdStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing ad id", func(t *testing.T) {
		f := newFixture(t, testSecrets)
		_, err := f.svc.Verify(ctx, VerifyRequest{})
		assert.ErrorIs(t, err, apperr.ErrMissingField)
	})

	t.Run("granted ad credits once", func(t *testing.T) {
		f := newFixture(t, testSecrets)
		f.client.On("AdStatus", mock.Anything, "pi-key", "ad-1").
			Return(&pinetwork.AdStatus{Identifier: "ad-1", MediatorAckStatus: "granted"}, nil)
		f.wallet.On("Credit", mock.Anything, "m-1", Amount).Return(nil)
		f.notifier.On("SendReward", mock.Anything, "m-1", Amount).Return(nil)

		req := VerifyRequest{AdID: "ad-1", MerchantID: "m-1", PiUsername: "alice"}
		first, err := f.svc.Verify(ctx, req)
		require.NoError(t, err)
		assert.True(t, first.Success)
		assert.False(t, first.AlreadyProcessed)
		assert.Equal(t, models.RewardStatusGranted, first.Status)
		assert.Equal(t, 0.005, first.RewardAmount)

		second, err := f.svc.Verify(ctx, req)
		require.NoError(t, err)
		assert.True(t, second.AlreadyProcessed)
		assert.Equal(t, models.RewardStatusGranted, second.Status)

		f.client.AssertNumberOfCalls(t, "AdStatus", 1)
		f.wallet.AssertNumberOfCalls(t, "Credit", 1)
		f.notifier.AssertNumberOfCalls(t, "SendReward", 1)
	})

	t.Run("not granted stores pending without credit", func(t *testing.T) {
		f := newFixture(t, testSecrets)
		f.client.On("AdStatus", mock.Anything, "pi-key", "ad-2").
			Return(&pinetwork.AdStatus{Identifier: "ad-2", MediatorAckStatus: "revoked"}, nil)

		res, err := f.svc.Verify(ctx, VerifyRequest{AdID: "ad-2", MerchantID: "m-1"})
		require.NoError(t, err)
		assert.Equal(t, models.RewardStatusPending, res.Status)
		assert.Equal(t, "revoked", res.MediatorStatus)
		f.wallet.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("credit failure is swallowed", func(t *testing.T) {
		f := newFixture(t, testSecrets)
		f.client.On("AdStatus", mock.Anything, "pi-key", "ad-3").
			Return(&pinetwork.AdStatus{MediatorAckStatus: "granted"}, nil)
		f.wallet.On("Credit", mock.Anything, "m-gone", Amount).Return(repositories.ErrMerchantNotFound)

		res, err := f.svc.Verify(ctx, VerifyRequest{AdID: "ad-3", MerchantID: "m-gone"})
		require.NoError(t, err)
		assert.Equal(t, models.RewardStatusGranted, res.Status)
		f.notifier.AssertNotCalled(t, "SendReward", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("upstream failure stores nothing", func(t *testing.T) {
		f := newFixture(t, testSecrets)
		f.client.On("AdStatus", mock.Anything, "pi-key", "ad-4").
			Return(nil, &pinetwork.UpstreamError{Op: "ad status", Status: 500})

		_, err := f.svc.Verify(ctx, VerifyRequest{AdID: "ad-4"})
		assert.ErrorIs(t, err, apperr.ErrUpstream)

		var count int64
		require.NoError(t, f.db.Model(&models.AdReward{}).Count(&count).Error)
		assert.Zero(t, count)
	})
}

type MockRewardRepo struct {
	mock.Mock
}

func (m *MockRewardRepo) GetByAdID(ctx context.Context, adID string) (*models.AdReward, error) {
	args := m.Called(ctx, adID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdReward), args.Error(1)
}

func (m *MockRewardRepo) Insert(ctx context.Context, reward *models.AdReward) (bool, error) {
	args := m.Called(ctx, reward)
	return args.Bool(0), args.Error(1)
}

func TestRewardService_VerifyLosesInsertRace(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRewardRepo)
	client := new(MockPiClient)
	wallet := new(MockWallet)
	notifier := new(MockNotifier)
	svc := NewService(repo, client, testSecrets, wallet, notifier, nil)

	winner := &models.AdReward{
		AdID:              "ad-race",
		RewardAmount:      Amount,
		Status:            models.RewardStatusGranted,
		MediatorAckStatus: "granted",
	}
	repo.On("GetByAdID", mock.Anything, "ad-race").Return(nil, repositories.ErrRewardNotFound).Once()
	repo.On("GetByAdID", mock.Anything, "ad-race").Return(winner, nil).Once()
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*models.AdReward")).Return(false, nil).Once()
	client.On("AdStatus", mock.Anything, "pi-key", "ad-race").
		Return(&pinetwork.AdStatus{Identifier: "ad-race", MediatorAckStatus: "granted"}, nil)

	res, err := svc.Verify(ctx, VerifyRequest{AdID: "ad-race", MerchantID: "m-1", PiUsername: "alice"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, res.AlreadyProcessed)
	assert.Equal(t, models.RewardStatusGranted, res.Status)
	assert.Equal(t, 0.005, res.RewardAmount)

	repo.AssertExpectations(t)
	wallet.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "SendReward", mock.Anything, mock.Anything, mock.Anything)
}
