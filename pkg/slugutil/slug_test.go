package slugutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type slugRow struct {
	ID   uint   `gorm:"primarykey"`
	Slug string `gorm:"uniqueIndex"`
}

func (slugRow) TableName() string { return "slug_rows" }

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&slugRow{}))
	return db
}

func TestUniqueSlugifies(t *testing.T) {
	db := testDB(t)

	got, err := Unique(db, "slug_rows", "Wool Sweater, Blue!")
	require.NoError(t, err)
	assert.Equal(t, "wool-sweater-blue", got)
}

func TestUniqueSuffixesOnCollision(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Create(&slugRow{Slug: "widget"}).Error)

	got, err := Unique(db, "slug_rows", "Widget")
	require.NoError(t, err)
	assert.Equal(t, "widget-1", got)
}

func TestUniqueSuffixesAccumulate(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Create(&slugRow{Slug: "widget"}).Error)
	require.NoError(t, db.Create(&slugRow{Slug: "widget-1"}).Error)

	// Each retry appends to the previous candidate, not to the base
	got, err := Unique(db, "slug_rows", "Widget")
	require.NoError(t, err)
	assert.Equal(t, "widget-1-2", got)
}
