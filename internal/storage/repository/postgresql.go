// Package repository реализует хранилище учетных записей на основе PostgreSQL.
// Единственная точка синхронизации между процессами: ограничение
// уникальности username в таблице accounts.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/product-service/internal/config"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New открывает пул соединений по настройкам cfg.
// ConnMaxAge ограничивает время жизни соединения, при HealthChecks база
// проверяется сразу, иначе ошибка подключения проявится на первом запросе.
func New(ctx context.Context, cfg config.Database) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxAge)

	if cfg.HealthChecks {
		if err = db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет, что таблица accounts существует в текущей схеме,
// той же, в которую пишут запросы без квалификатора.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	const op = "storage.CheckDatabaseReady"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_schema = current_schema()
          AND table_name = 'accounts'
    )`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return fmt.Errorf("%s: required table accounts missing", op)
	}
	return nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}
