package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/product-service/internal/models"
	"github.com/magabrotheeeer/product-service/internal/storage"
)

// AccountExists проверяет наличие учетной записи с указанным username.
func (s *Storage) AccountExists(ctx context.Context, username string) (bool, error) {
	const op = "storage.AccountExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1)`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CreateSuperuser сохраняет учетную запись и возвращает ее ID.
// Нарушение уникальности username возвращается как storage.ErrAccountExists.
func (s *Storage) CreateSuperuser(ctx context.Context, account models.Account) (string, error) {
	const op = "storage.CreateSuperuser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO accounts (id, username, email, password_hash,
			      is_staff, is_superuser, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id;`
	err := s.DB.QueryRowContext(ctx, query,
		account.ID, account.Username, account.Email, account.PasswordHash,
		account.IsStaff, account.IsSuperuser, account.IsActive).Scan(&newID)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, storage.ErrAccountExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetAccountByUsername возвращает учетную запись по username.
func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	const op = "storage.GetAccountByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, email, password_hash, is_staff, is_superuser,
			      is_active, date_joined
			  FROM accounts
			  WHERE username = $1`
	a := &models.Account{}
	err := s.DB.QueryRowContext(ctx, query, username).Scan(&a.ID, &a.Username, &a.Email,
		&a.PasswordHash, &a.IsStaff, &a.IsSuperuser, &a.IsActive, &a.DateJoined)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// CountAccounts возвращает количество учетных записей с указанным username.
func (s *Storage) CountAccounts(ctx context.Context, username string) (int, error) {
	const op = "storage.CountAccounts"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE username = $1`, username).
		Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
