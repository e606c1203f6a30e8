package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/campusjobs/jobboard-api/config"
	"github.com/campusjobs/jobboard-api/database"
	"github.com/campusjobs/jobboard-api/utils/auth"
)

func main() {
	// Load environment variables
	if err := config.LoadENV(); err != nil {
		log.Println("Warning: .env file could not be loaded, using system environment variables")
	}

	env, err := config.Get()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database connection using GORM
	store, err := database.StartGORM(env)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	fmt.Println("Campus Job Board - Database Seeding")
	fmt.Println(separator)

	seeder := database.NewSeeder(store.DB(), auth.NewPasswordHasher(env.BCRYPT_COST))
	if err := seeder.SeedAll(env.SEED_ADMIN_EMAIL, env.SEED_ADMIN_PASSWORD); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	fmt.Println(separator)
	fmt.Println("Seeding completed successfully")
	fmt.Println("Admin user is created from SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD when both are set.")
	fmt.Println(separator)
}
