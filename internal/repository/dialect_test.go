package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// sqlRecorder 记录 DryRun 模式下生成的 SQL
type sqlRecorder struct {
	gormlogger.Interface
	statements []string
}

func (r *sqlRecorder) LogMode(gormlogger.LogLevel) gormlogger.Interface {
	return r
}

func (r *sqlRecorder) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, _ := fc()
	r.statements = append(r.statements, sql)
}

func newPostgresDryRun(t *testing.T) (*gorm.DB, *sqlRecorder) {
	t.Helper()
	recorder := &sqlRecorder{Interface: gormlogger.Discard}
	db, err := gorm.Open(postgres.Open("host=localhost user=skilldev dbname=skilldev sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               recorder,
	})
	require.NoError(t, err)
	return db, recorder
}

func TestModuleOrderQuotedPerDialect(t *testing.T) {
	db, recorder := newPostgresDryRun(t)

	_, err := NewCourseRepository(db).FindModules(1)
	require.NoError(t, err)
	require.NotEmpty(t, recorder.statements)
	modulesSQL := recorder.statements[0]

	recorder.statements = nil
	_, err = NewEnrollmentRepository(db).ListProgress(1)
	require.NoError(t, err)
	require.NotEmpty(t, recorder.statements)
	progressSQL := recorder.statements[0]

	assert.NotContains(t, modulesSQL, "`")
	assert.NotContains(t, progressSQL, "`")
	assert.True(t, strings.Contains(modulesSQL, `ORDER BY "order"`), modulesSQL)
	assert.True(t, strings.Contains(progressSQL, `ORDER BY "course_modules"."order"`), progressSQL)
}
