package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sidtheone/ecoticker-sub001/internal/testutil"
)

func TestMigrateOrClose_FailureClosesConnection(t *testing.T) {
	db := testutil.NewDB(t)

	err := migrateOrClose(db, func(*gorm.DB) error {
		return errors.New("dirty database version 3")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run migrations")
	assert.Contains(t, err.Error(), "dirty database version 3")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping())
}

func TestMigrateOrClose_Success(t *testing.T) {
	db := testutil.NewDB(t)

	var migrated bool
	require.NoError(t, migrateOrClose(db, func(*gorm.DB) error {
		migrated = true
		return nil
	}))
	assert.True(t, migrated)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
}
