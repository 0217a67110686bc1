package database

import (
	"fmt"

	"skilldev_backend/internal/config"
	"skilldev_backend/internal/model"
	"skilldev_backend/pkg/logger"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DSN 按驱动拼接连接串；sqlite 时 DBName 即文件路径
func DSN(cfg *config.DatabaseConfig) string {
	switch cfg.Driver {
	case config.DriverPostgres:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
	case config.DriverSQLite:
		return cfg.DBName + "?_pragma=foreign_keys(1)"
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
	}
}

func dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	dsn := DSN(cfg)
	switch cfg.Driver {
	case config.DriverMySQL, "":
		return mysql.Open(dsn), nil
	case config.DriverPostgres:
		return postgres.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func InitDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger:         logger.NewGormLogger(debug),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == config.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	logger.Log.Info("Database connection established",
		zap.String("driver", d.Name()),
		zap.String("host", cfg.Host),
		zap.String("db", cfg.DBName),
	)
	return db, nil
}

// Migrate 按依赖顺序建表，外键级联规则由模型上的 constraint 标签声明
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.SkillCategory{},
		&model.Skill{},
		&model.Worker{},
		&model.WorkerSkill{},
		&model.Course{},
		&model.CourseModule{},
		&model.Enrollment{},
		&model.CourseProgress{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	logger.Log.Info("Database migration completed")
	return nil
}
