// Package testdb 为仓储、服务、控制器测试提供内存 SQLite 数据库与数据构造函数
package testdb

import (
	"testing"

	"skilldev_backend/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// New 每次调用得到一个独立的内存库，已完成迁移并开启外键约束
// 内存库只存在于单个连接内，因此连接池限制为 1
func New(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}
