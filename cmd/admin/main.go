package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"penpost/backend/internal/config"
	"penpost/backend/internal/session"
	"penpost/backend/internal/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	store := storage.NewStorageService(db)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	sessions := session.NewStore(rdb, cfg.SessionTTL)

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: revoke-session <token>, deactivate-user <user_id>, reactivate-user <user_id>")
		os.Exit(1)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "revoke-session":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin revoke-session <token>")
			os.Exit(1)
		}
		removed, err := sessions.Remove(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("Error revoking session: %v", err)
		}
		if !removed {
			fmt.Println("No such session.")
			os.Exit(1)
		}
		fmt.Println("Session revoked.")
	case "deactivate-user":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin deactivate-user <user_id>")
			os.Exit(1)
		}
		if err := setUserActive(store, os.Args[2], false); err != nil {
			log.Fatalf("Error deactivating user: %v", err)
		}
		fmt.Printf("User %s has been deactivated.\n", os.Args[2])
	case "reactivate-user":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin reactivate-user <user_id>")
			os.Exit(1)
		}
		if err := setUserActive(store, os.Args[2], true); err != nil {
			log.Fatalf("Error reactivating user: %v", err)
		}
		fmt.Printf("User %s has been reactivated.\n", os.Args[2])
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func setUserActive(s storage.Storage, userID string, active bool) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %s not found", userID)
	}
	user.IsActive = active
	return s.SaveUser(user)
}
