package database

import (
	"testing"

	"platebook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMigrateCreatesSchema(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasTable(&models.Recipe{}))
	assert.True(t, db.Migrator().HasTable(&models.Comment{}))
}

func TestCustomGormLoggerLogMode(t *testing.T) {
	base := &CustomGormLogger{Config: logger.Config{LogLevel: logger.Warn}}

	silenced := base.LogMode(logger.Silent)

	// LogMode must return a copy, not mutate the receiver.
	assert.Equal(t, logger.Warn, base.Config.LogLevel)
	assert.Equal(t, logger.Silent, silenced.(*CustomGormLogger).Config.LogLevel)
}
