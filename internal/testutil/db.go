// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"droppay/internal/models"
	"droppay/internal/repositories"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory SQLite database with the full schema.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := repositories.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { repositories.Close(db) })
	return db
}

// SeedMerchant inserts a merchant with the given Pi identity.
func SeedMerchant(t *testing.T, db *gorm.DB, piUserID, username string) *models.Merchant {
	t.Helper()
	m := &models.Merchant{
		PiUserID:         piUserID,
		PiUsername:       username,
		WalletAddress:    "G" + piUserID,
		AvailableBalance: decimal.Zero,
		TotalRevenue:     decimal.Zero,
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("seed merchant: %v", err)
	}
	return m
}

// SeedLink inserts a link of the given kind. Inactive links are flipped
// after insert because the column has a true default.
func SeedLink(t *testing.T, db *gorm.DB, kind, merchantID string, amount string, active bool) *models.Link {
	t.Helper()
	link := &models.PaymentLink{
		MerchantID: merchantID,
		Slug:       uuid.NewString()[:8],
		Title:      "Test link",
		Amount:     decimal.RequireFromString(amount),
	}
	repo := repositories.NewLinkRepository(db)
	created, err := repo.Create(context.Background(), kind, link)
	if err != nil {
		t.Fatalf("seed link: %v", err)
	}
	if !active {
		if err := repo.SetActive(context.Background(), kind, created.ID, merchantID, false); err != nil {
			t.Fatalf("deactivate link: %v", err)
		}
		created.IsActive = false
	}
	return created
}
