// Package store is the tenant-scoped data access layer backed by GORM.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/repguardian/dashboard-api/internal/config"
	e "github.com/repguardian/dashboard-api/internal/errors"
	"github.com/repguardian/dashboard-api/internal/model"
	"github.com/repguardian/dashboard-api/pkg/logger"
)

type Repository struct {
	db *gorm.DB
}

// New wraps an already opened connection.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GormConfig is shared by the production and test connections.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// Open connects to Postgres, retrying with exponential backoff until
// cfg.ConnectTimeout elapses, and applies the connection pool settings.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*Repository, error) {
	var db *gorm.DB

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = cfg.ConnectTimeout

	err := backoff.RetryNotify(func() error {
		conn, err := gorm.Open(postgres.Open(cfg.DSN()), GormConfig())
		if err != nil {
			return err
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return backoff.Permanent(err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return err
		}
		db = conn
		return nil
	}, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		log.Warn("database not ready, retrying",
			zap.String("host", cfg.Host),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &Repository{db: db}, nil
}

// Migrate creates or updates every table.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Ping checks the connection is alive.
func (r *Repository) Ping(ctx context.Context) error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

// WithTransaction runs fn against a repository bound to one transaction.
func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// Create inserts any model row. Seeding and tests use it directly.
func (r *Repository) Create(ctx context.Context, value any) error {
	return r.db.WithContext(ctx).Create(value).Error
}

// ForCompany returns a GORM scope that filters by company_id.
func ForCompany(companyID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return e.ErrNotFound
	}
	return err
}

func listForCompany[T any](ctx context.Context, db *gorm.DB, companyID uuid.UUID, order string, preloads ...string) ([]T, error) {
	q := db.WithContext(ctx).Scopes(ForCompany(companyID))
	for _, p := range preloads {
		q = q.Preload(p)
	}
	var rows []T
	if err := q.Order(order).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
