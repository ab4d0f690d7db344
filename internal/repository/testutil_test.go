package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mailhoard/mailhoard/internal/models"
)

// openTestDB opens an in-memory SQLite database with all models migrated
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.EmailList{},
		&models.Thread{},
		&models.Message{},
		&models.Attachment{},
		&models.Legacy{},
	)
	require.NoError(t, err)
	return db
}
