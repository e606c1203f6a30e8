package app

import (
	"fmt"

	"github.com/campusjobs/jobboard-api/api"
	"github.com/campusjobs/jobboard-api/config"
	"github.com/campusjobs/jobboard-api/database"
	"github.com/campusjobs/jobboard-api/router"
	"github.com/campusjobs/jobboard-api/storage"
	"github.com/campusjobs/jobboard-api/utils/cache"
	"github.com/gofiber/fiber/v2/log"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}
	if err := getEnv.Validate(); err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM(getEnv)
	if err != nil {
		if getEnv.DB_DRIVER == "postgres" {
			log.Errorf("Check that PostgreSQL is reachable at %s:%s (DB_HOST, DB_PORT) and that DB_NAME, DB_USER_NAME and DB_PASSWORD are set",
				getEnv.DB_HOST, getEnv.DB_PORT)
			log.Error("For local development without PostgreSQL set DB_DRIVER=sqlite and DB_PATH")
		}
		return err
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Errorf("Failed to run database migrations: %v", err)
		return err
	}

	blobs, err := storage.New(getEnv)
	if err != nil {
		return fmt.Errorf("resume storage: %w", err)
	}

	deps := router.Dependencies{Env: getEnv, Blobs: blobs}

	// Redis only backs login throttling; without it the limiter is off
	if getEnv.REDIS_URL != "" {
		redisCache, err := cache.NewRedisCache(getEnv.REDIS_URL)
		if err != nil {
			log.Warnf("Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
		} else {
			defer redisCache.Close()
			deps.Attempts = redisCache
		}
	} else {
		log.Warn("REDIS_URL not set. Brute force protection will be disabled.")
	}

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT), getEnv.IsProduction(), getEnv.MAX_RESUME_BYTES)

	// Setup Routes
	router.SetupRoutes(server.GetEngine(), store, deps)

	// Get the PORT & Start the Server
	return server.Run()
}
