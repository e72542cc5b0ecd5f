package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"mailcraft-backend/auth"
	"mailcraft-backend/config"
	"mailcraft-backend/models"
	"mailcraft-backend/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"
)

func main() {
	// Load .env file if it exists
	if err := config.LoadDotEnv(); err != nil {
		log.Printf("Warning: %v", err)
	}

	email := pflag.String("email", "test@example.com", "email of the test user")
	username := pflag.String("username", "testuser", "username of the test user")
	password := pflag.String("password", "testpassword123", "password of the test user")
	pflag.Parse()

	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		connString = config.DefaultDatabaseURL
		log.Println("Warning: DATABASE_URL not set, using default connection string")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	users := repository.NewUserRepository(pool)

	// Check if user already exists
	existing, err := users.GetByEmail(ctx, *email)
	if err == nil {
		log.Printf("User with email %s already exists (ID: %s)", *email, existing.ID)
		return
	}
	if !errors.Is(err, repository.ErrNotFound) {
		log.Fatalf("Failed to look up user: %v", err)
	}

	hash, err := auth.NewBcryptHasher().Hash(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{Email: *email, Username: *username, PasswordHash: hash}
	if err := users.Create(ctx, user); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("✅ Test user created successfully!\n")
	fmt.Printf("   ID: %s\n", user.ID)
	fmt.Printf("   Email: %s\n", user.Email)
	fmt.Printf("   Username: %s\n", user.Username)
	fmt.Printf("   Password: %s\n", *password)
}
