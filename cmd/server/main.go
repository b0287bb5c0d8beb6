package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/hawk-journal/hawk/internal/auth"
	"github.com/hawk-journal/hawk/internal/kv"
	"github.com/hawk-journal/hawk/internal/server"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Configuration from environment
	port := getEnv("PORT", "5690")
	dbPath := getEnv("DB_PATH", "/data/hawk.db")
	jwtSecret := getEnv("JWT_SECRET", "")
	password := getEnv("HAWK_PASSWORD", "")

	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}
	if password == "" {
		log.Fatal("HAWK_PASSWORD environment variable is required")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	// JWT expiration: 30 days
	jwtExpiration := 30 * 24 * time.Hour

	store, err := kv.NewSQLite(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	jwtManager := auth.NewJWTManager(jwtSecret, jwtExpiration)
	srv := server.New(store, jwtManager, passwordHash)

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting server on %s", addr)
	log.Printf("Database: %s", dbPath)

	if err := http.ListenAndServe(addr, srv); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
