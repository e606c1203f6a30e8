package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/campusjobs/jobboard-api/model"
	"github.com/campusjobs/jobboard-api/utils/auth"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db     *gorm.DB
	hasher *auth.PasswordHasher
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, hasher *auth.PasswordHasher) *Seeder {
	return &Seeder{db: db, hasher: hasher}
}

// DefaultDepartments are created on an empty database.
var DefaultDepartments = []model.Department{
	{Name: "Career Services", Office: "Student Union 210", Phone: "555-0100"},
	{Name: "Library", Office: "Main Library 1F", Phone: "555-0110"},
	{Name: "Information Technology", Office: "Tech Center 005", Phone: "555-0120"},
	{Name: "Dining Services", Office: "Commons Hall", Phone: "555-0130"},
	{Name: "Recreation Center", Office: "Rec Center Lobby", Phone: "555-0140"},
}

// SeedAll runs every seed step. Each step is a no-op when its data exists.
func (s *Seeder) SeedAll(adminEmail, adminPassword string) error {
	log.Info("Starting database seeding...")

	if err := s.SeedDepartments(); err != nil {
		return fmt.Errorf("failed to seed departments: %w", err)
	}

	if err := s.SeedAdminUser(adminEmail, adminPassword); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Info("Database seeding completed")
	return nil
}

// SeedDepartments inserts DefaultDepartments when the table is empty.
func (s *Seeder) SeedDepartments() error {
	var count int64
	if err := s.db.Model(&model.Department{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Info("Departments already exist, skipping")
		return nil
	}

	departments := make([]model.Department, len(DefaultDepartments))
	copy(departments, DefaultDepartments)

	if err := s.db.Create(&departments).Error; err != nil {
		return err
	}

	log.Infof("Created %d departments", len(departments))
	return nil
}

// SeedAdminUser creates an admin account unless one already exists.
func (s *Seeder) SeedAdminUser(email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		log.Warn("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD not set, skipping admin user creation")
		return nil
	}

	var existing model.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Infof("User %s already exists, skipping", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         "System Administrator",
		Role:         model.RoleAdmin,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Infof("Created admin user: %s", admin.Email)
	return nil
}
