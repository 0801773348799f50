package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/minhhai1907/social-network-BE/internal/config"
	"github.com/minhhai1907/social-network-BE/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConnect_SQLiteMigratesSchema(t *testing.T) {
	cfg := &config.Config{
		Env:            "test",
		DBDriver:       "sqlite",
		DBSQLitePath:   filepath.Join(t.TempDir(), "test.db"),
		DBMaxOpenConns: 1,
		DBMaxIdleConns: 1,
	}

	db, err := Connect(cfg)
	require.NoError(t, err)

	for _, model := range []interface{}{
		&models.User{}, &models.Friendship{}, &models.Post{}, &models.Comment{}, &models.Reaction{},
	} {
		assert.True(t, db.Migrator().HasTable(model))
	}
	assert.True(t, db.Migrator().HasIndex(&models.Friendship{}, "idx_friendship_pair"))
	assert.True(t, db.Migrator().HasColumn(&models.Post{}, "reactions_like"))
	assert.NoError(t, Ping(context.Background(), db))
}

func TestConnect_UnknownDriver(t *testing.T) {
	_, err := Connect(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestPairIndexRejectsReversedDuplicate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	a := models.User{Name: "a", Email: "a@e.com", Password: "x"}
	b := models.User{Name: "b", Email: "b@e.com", Password: "x"}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)

	require.NoError(t, db.Create(&models.Friendship{RequesterID: a.ID, AddresseeID: b.ID, Status: models.FriendshipStatusPending}).Error)
	err = db.Create(&models.Friendship{RequesterID: b.ID, AddresseeID: a.ID, Status: models.FriendshipStatusPending}).Error
	require.Error(t, err)
	assert.True(t, models.IsUniqueViolation(err))
}
