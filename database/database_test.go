package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// The services classify duplicates via gorm.ErrDuplicatedKey, which only
// matches when error translation is enabled in the shared gorm config.
func TestGormConfigTranslatesDriverErrors(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), newGormConfig())
	require.NoError(t, err)

	type account struct {
		ID    uint
		Email string `gorm:"uniqueIndex"`
	}
	require.NoError(t, db.AutoMigrate(&account{}))
	require.NoError(t, db.Create(&account{Email: "sari@sekolah.id"}).Error)

	err = db.Create(&account{Email: "sari@sekolah.id"}).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
