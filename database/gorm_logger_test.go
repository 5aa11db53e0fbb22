package database

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func bufferLogger(level gormlogger.LogLevel) (*GormLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewGormLogger(zerolog.New(&buf).Level(zerolog.DebugLevel), level), &buf
}

func statement() (string, int64) {
	return "SELECT * FROM notes", 3
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := context.Background()

	t.Run("failed query is an error", func(t *testing.T) {
		l, buf := bufferLogger(gormlogger.Warn)
		l.Trace(ctx, time.Now(), statement, errors.New("no such table"))

		out := buf.String()
		assert.Contains(t, out, `"level":"error"`)
		assert.Contains(t, out, "no such table")
		assert.Contains(t, out, "SELECT * FROM notes")
		assert.Contains(t, out, `"component":"gorm"`)
	})

	t.Run("record not found is quiet", func(t *testing.T) {
		l, buf := bufferLogger(gormlogger.Warn)
		l.Trace(ctx, time.Now(), statement, gorm.ErrRecordNotFound)
		assert.Empty(t, buf.String())
	})

	t.Run("slow query is a warning", func(t *testing.T) {
		l, buf := bufferLogger(gormlogger.Warn)
		l.Trace(ctx, time.Now().Add(-time.Second), statement, nil)
		assert.Contains(t, buf.String(), "slow query")
	})

	t.Run("info level logs every statement", func(t *testing.T) {
		l, buf := bufferLogger(gormlogger.Info)
		l.Trace(ctx, time.Now(), statement, nil)
		assert.Contains(t, buf.String(), `"level":"debug"`)
		assert.Contains(t, buf.String(), `"rows":3`)
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		l, buf := bufferLogger(gormlogger.Info)
		silent := l.LogMode(gormlogger.Silent)
		silent.Trace(ctx, time.Now(), statement, errors.New("boom"))
		silent.Error(ctx, "boom %d", 1)
		assert.Empty(t, buf.String())
	})
}

func TestGormLogger_WiredIntoGorm(t *testing.T) {
	l, buf := bufferLogger(gormlogger.Warn)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: l})
	require.NoError(t, err)

	err = db.Exec("SELECT * FROM missing_table").Error
	require.Error(t, err)
	assert.Contains(t, buf.String(), "missing_table")
	assert.Contains(t, buf.String(), "query failed")
}
