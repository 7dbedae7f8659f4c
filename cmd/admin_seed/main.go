// Command admin_seed promotes an existing merchant to admin and issues it an
// API key.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"droppay/internal/config"
	"droppay/internal/pinetwork"
	"droppay/internal/repositories"
	"droppay/internal/repositories/cache"
	"droppay/internal/services/merchant"
)

func main() {
	config.LoadEnv()

	piUserID := os.Getenv("ADMIN_PI_USER_ID")
	if piUserID == "" {
		log.Fatal("ADMIN_PI_USER_ID must be set in environment")
	}

	db, err := repositories.InitDB(repositories.DBConfigFromEnv())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer repositories.Close(db)

	ctx := context.Background()
	merchantRepo := repositories.NewMerchantRepository(db)

	m, err := merchantRepo.GetByPiUserID(ctx, piUserID)
	if err != nil {
		log.Fatalf("Failed to find merchant for Pi user %s: %v", piUserID, err)
	}

	svc := merchant.NewService(
		merchantRepo,
		repositories.NewAPIKeyRepository(db),
		cache.Noop{},
		pinetwork.New(pinetwork.Config{}),
		config.EnvSecrets{},
	)

	if m.IsAdmin {
		log.Printf("Merchant %s is already an admin", m.ID)
	} else if err := svc.SetAdmin(ctx, m.ID, true); err != nil {
		log.Fatalf("Failed to promote merchant: %v", err)
	}

	if os.Getenv("ADMIN_ISSUE_API_KEY") == "false" {
		log.Println("✅ Admin account ready")
		return
	}

	key, err := svc.IssueAPIKey(ctx, m.ID)
	if err != nil {
		log.Fatalf("Failed to issue API key: %v", err)
	}
	log.Println("✅ Admin account ready")
	fmt.Println(key.Key)
}
