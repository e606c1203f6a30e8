package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/campusjobs/jobboard-api/config"
	"github.com/campusjobs/jobboard-api/model"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage is what the HTTP layer needs from the database.
type Storage interface {
	Init() error
	Close() error
	HealthCheck() error
	DB() *gorm.DB
}

type GORMStore struct {
	db *gorm.DB
}

// StartGORM opens the database selected by DB_DRIVER.
func StartGORM(env *config.EnvironmentVariable) (*GORMStore, error) {
	if env == nil {
		return nil, errors.New("database: nil configuration")
	}

	gormLogger := logger.Default.LogMode(logger.Info)
	if env.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	var dialector gorm.Dialector
	switch env.DB_DRIVER {
	case "sqlite":
		dialector = sqlite.Open(SQLiteDSN(env.DB_PATH))
	default:
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			env.DB_HOST,
			env.DB_USER_NAME,
			env.DB_PASSWORD,
			env.DB_NAME,
			env.DB_PORT,
			env.DB_SSL_MODE,
		)
		dialector = postgres.Open(dsn)
	}

	db, err := Open(dialector, gormLogger)
	if err != nil {
		log.Errorf("Unable to connect to %s with GORM: %v", env.DB_DRIVER, err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if env.DB_DRIVER == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.Infof("Connected to %s database with GORM", env.DB_DRIVER)

	return &GORMStore{db: db}, nil
}

// Open applies the settings every connection in this service relies on:
// unique violations surface as gorm.ErrDuplicatedKey and timestamps are UTC.
func Open(dialector gorm.Dialector, gormLogger logger.Interface) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// SQLiteDSN builds a DSN with foreign keys enforced, which cascading
// deletes depend on.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}

// NewGORMStore wraps an already opened connection.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

// Init creates or updates every table.
func (s *GORMStore) Init() error {
	log.Info("Running GORM AutoMigrate for all models...")
	if err := Migrate(s.db); err != nil {
		log.Errorf("Error running AutoMigrate: %v", err)
		return err
	}
	log.Info("GORM AutoMigrate completed successfully")
	return nil
}

// Migrate runs AutoMigrate over all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(model.AllModels()...)
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	log.Info("Closing database connection...")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB returns the GORM handle shared by services.
func (s *GORMStore) DB() *gorm.DB {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
