package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"study-sync/studysync/config"
)

func TestClose(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	database := &Database{DB: db}

	assert.NotPanics(t, func() {
		database.Close()
	})
	assert.NotPanics(t, func() {
		(&Database{}).Close()
	})
}

func TestRunMigrations(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, RunMigrations(db))
	for _, table := range []string{"users", "spaces", "notes", "events"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestSetup_SQLite(t *testing.T) {
	cfg := config.Config{
		AppEnv:         "test",
		DBDriver:       "sqlite",
		DBSQLitePath:   ":memory:",
		DBMaxIdleConns: 1,
		DBMaxOpenConns: 1,
	}

	db, err := Setup(cfg)
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, db.DB.Migrator().HasTable("notes"))
	now := db.Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.Equal(t, now, now.Truncate(time.Microsecond))
}

func TestDialector_Unsupported(t *testing.T) {
	_, err := Dialector(config.Config{DBDriver: "mysql"})
	assert.Error(t, err)
}
