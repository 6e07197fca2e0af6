package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/estoquelab/estoque-advisor/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/sync/semaphore"
)

type DB struct {
	*sqlx.DB
	sem *semaphore.Weighted
}

var (
	dbInstance *DB
	once       sync.Once
)

// NewDB creates a new database connection pool
func NewDB(cfg *config.DatabaseConfig) (*DB, error) {
	var err error
	once.Do(func() {
		connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

		var db *sqlx.DB
		db, err = sqlx.Connect("postgres", connStr)
		if err != nil {
			return
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		dbInstance = &DB{
			DB:  db,
			sem: semaphore.NewWeighted(10), // bound concurrent snapshot work
		}
	})

	return dbInstance, err
}

// Acquire reserves a query slot, blocking until one frees up or the context
// is cancelled. Snapshot queries scan whole daily exports, so the slot count
// stays below the pool size to leave headroom for health checks.
func (db *DB) Acquire(ctx context.Context) error {
	if err := db.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("could not acquire query slot: %w", err)
	}
	return nil
}

// Release frees a slot taken by Acquire.
func (db *DB) Release() {
	db.sem.Release(1)
}
