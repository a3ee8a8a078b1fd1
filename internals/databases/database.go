package database

import (
	"fmt"
	"net/url"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"diemdanh_backend/internals/configs"
	attendanceModel "diemdanh_backend/internals/features/attendance/model"
	eventModel "diemdanh_backend/internals/features/events/event/model"
	authModel "diemdanh_backend/internals/features/users/auth/model"
	userModel "diemdanh_backend/internals/features/users/user/model"
	"diemdanh_backend/internals/helpers/logging"
)

var DB *gorm.DB

func ConnectDB() {
	logging.Info().Msg("🔌 connecting to PostgreSQL...")

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=diemdanh&options=%s",
		url.QueryEscape(configs.GetEnv("DB_USER")),
		url.QueryEscape(configs.GetEnv("DB_PASSWORD")),
		configs.GetEnv("DB_HOST", "localhost"),
		configs.GetEnv("DB_PORT", "5432"),
		configs.GetEnv("DB_NAME"),
		configs.GetEnv("DB_SSLMODE", "require"),
		url.QueryEscape("-c statement_timeout=5000"),
	)

	db, err := Open(dsn)
	if err != nil {
		logging.Fatal().Err(err).Msg("❌ database connection failed")
	}
	DB = db
	logging.Info().Msg("✅ DB connected")
}

// Open connects with the project's GORM settings.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // PgBouncer transaction pooling
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		logging.Warn().Err(err).Msg("pool tune failed")
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(); err != nil {
			logging.Warn().Err(err).Msg("warm-up ping failed")
		}
	}()
}

func Ping() error {
	if DB == nil {
		return fmt.Errorf("database not initialised")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Migrate creates or updates every table owned by this service.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel.UserModel{},
		&eventModel.EventModel{},
		&attendanceModel.AttendanceModel{},
		&attendanceModel.AttendanceLogModel{},
		&authModel.TokenBlacklistModel{},
	)
}
