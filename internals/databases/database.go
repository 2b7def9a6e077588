package database

import (
	"fmt"
	"net/url"
	"time"

	"github.com/go-pkgz/lgr"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"weekreport_backend/internals/configs"
	deptModel "weekreport_backend/internals/features/departments/model"
	eventModel "weekreport_backend/internals/features/events/model"
	mtModel "weekreport_backend/internals/features/master_tasks/model"
	metricModel "weekreport_backend/internals/features/metrics/model"
	authModel "weekreport_backend/internals/features/users/auth/model"
	userModel "weekreport_backend/internals/features/users/user/model"
	weekModel "weekreport_backend/internals/features/weeks/model"
)

var DB *gorm.DB

// DSN builds the postgres URL with a statement_timeout aligned to the HTTP timeout.
func DSN() string {
	q := url.Values{}
	q.Set("sslmode", configs.GetEnv("DB_SSLMODE", "disable"))
	q.Set("application_name", "weekreport")
	q.Set("options", "-c statement_timeout=5000")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(configs.GetEnv("DB_USER", "postgres"), configs.GetEnv("DB_PASSWORD")),
		Host:     fmt.Sprintf("%s:%s", configs.GetEnv("DB_HOST", "localhost"), configs.GetEnv("DB_PORT", "5432")),
		Path:     "/" + configs.GetEnv("DB_NAME", "weekreport"),
		RawQuery: q.Encode(),
	}
	return u.String()
}

func ConnectDB() {
	lgr.Printf("[INFO] 🔌 connecting to PostgreSQL...")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  DSN(),
		PreferSimpleProtocol: true, // PgBouncer in transaction pooling mode
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		lgr.Fatalf("[ERROR] ❌ cannot connect DB: %v", err)
	}
	DB = db
	lgr.Printf("[INFO] ✅ DB connected.")

	if configs.GetEnvBool("DB_AUTOMIGRATE", true) {
		if err := AutoMigrate(DB); err != nil {
			lgr.Fatalf("[ERROR] ❌ auto-migrate failed: %v", err)
		}
		lgr.Printf("[INFO] ✅ schema migrated")
	}
}

// Models lists every table owned by the service, in no particular order; gorm sorts dependencies.
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&authModel.TokenBlacklist{},
		&deptModel.DepartmentModel{},
		&mtModel.MasterTaskModel{},
		&weekModel.WeekModel{},
		&weekModel.WeekTaskProgressModel{},
		&weekModel.AdHocTaskModel{},
		&metricModel.MetricDefinitionModel{},
		&metricModel.WeekMetricValueModel{},
		&eventModel.EventModel{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		lgr.Printf("[WARN] pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(configs.GetEnvInt("DB_MAX_OPEN_CONNS", 20))
	sqlDB.SetMaxIdleConns(configs.GetEnvInt("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// WarmUpQueries fills the pool in the background so the first request does not pay for it.
func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(); err != nil {
			lgr.Printf("[WARN] warm-up ping err: %v", err)
		}
	}()
}

func Ping() error {
	if DB == nil {
		return fmt.Errorf("database not connected")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
