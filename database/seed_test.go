package database_test

import (
	"testing"

	"github.com/campusjobs/jobboard-api/database"
	"github.com/campusjobs/jobboard-api/database/dbtest"
	"github.com/campusjobs/jobboard-api/model"
	"github.com/campusjobs/jobboard-api/utils/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedAllIsIdempotent(t *testing.T) {
	db := dbtest.Open(t)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	seeder := database.NewSeeder(db, hasher)

	require.NoError(t, seeder.SeedAll("Admin@Campus.edu", "s3cret-pass"))
	require.NoError(t, seeder.SeedAll("admin@campus.edu", "s3cret-pass"))

	var departments int64
	require.NoError(t, db.Model(&model.Department{}).Count(&departments).Error)
	assert.Equal(t, int64(len(database.DefaultDepartments)), departments)

	var admins []model.User
	require.NoError(t, db.Where("role = ?", model.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin@campus.edu", admins[0].Email)
	assert.True(t, hasher.Verify("s3cret-pass", admins[0].PasswordHash))
}

func TestSeedAdminSkippedWithoutCredentials(t *testing.T) {
	db := dbtest.Open(t)
	seeder := database.NewSeeder(db, auth.NewPasswordHasher(bcrypt.MinCost))

	require.NoError(t, seeder.SeedAdminUser("", ""))

	var users int64
	require.NoError(t, db.Model(&model.User{}).Count(&users).Error)
	assert.Zero(t, users)
}

func TestStoreHealthCheck(t *testing.T) {
	store := database.NewGORMStore(dbtest.Open(t))
	assert.NoError(t, store.HealthCheck())
	assert.NotNil(t, store.DB())
}
