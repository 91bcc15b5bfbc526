// Package bootstrap собирает зависимости процедуры создания администратора.
// New выполняется один раз за процесс до запуска процедуры и возвращает
// App, через который идет весь доступ к хранилищу.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/product-service/internal/config"
	"github.com/magabrotheeeer/product-service/internal/lib/password"
	"github.com/magabrotheeeer/product-service/internal/lib/sl"
	"github.com/magabrotheeeer/product-service/internal/migrations"
	bootstrapservice "github.com/magabrotheeeer/product-service/internal/services/bootstrap"
	"github.com/magabrotheeeer/product-service/internal/storage/repository"
)

// App представляет инициализированное приложение bootstrap.
type App struct {
	storage *repository.Storage
	service *bootstrapservice.Service
	creds   bootstrapservice.Credentials
	logger  *slog.Logger
}

// New открывает хранилище, при необходимости применяет миграции и проверяет
// наличие таблицы accounts. Повторных попыток нет: повторный запуск
// процесса и есть повтор.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.bootstrap.New"

	db, err := repository.New(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cfg.AutoMigrate {
		if err := migrations.Run(db.DB); err != nil {
			closeStorage(db, logger)
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.Debug("migrations applied")
	}

	if err := db.CheckDatabaseReady(ctx); err != nil {
		closeStorage(db, logger)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	creds, mismatched := bootstrapservice.ResolveCredentials(cfg.CredentialSource, cfg.Superuser)
	if len(mismatched) > 0 {
		logger.Warn("built-in superuser credentials differ from DJANGO_SUPERUSER_* settings",
			slog.String("credential_source", cfg.CredentialSource),
			slog.Any("fields", mismatched),
		)
	}

	return &App{
		storage: db,
		service: bootstrapservice.NewService(db, creds, logger),
		creds:   creds,
		logger:  logger,
	}, nil
}

// Run выполняет процедуру один раз. На уровне debug после успешного
// итога в лог пишется состояние записи администратора.
func (a *App) Run(ctx context.Context) bootstrapservice.Result {
	res := a.service.EnsureAdminAccount(ctx)
	if res.Outcome != bootstrapservice.OutcomeError && a.logger.Enabled(ctx, slog.LevelDebug) {
		a.reportAccount(ctx)
	}
	return res
}

// reportAccount только пишет в лог и не влияет на итог запуска.
func (a *App) reportAccount(ctx context.Context) {
	const op = "app.bootstrap.reportAccount"
	log := a.logger.With(sl.Op(op), slog.String("username", a.creds.Username))

	count, err := a.storage.CountAccounts(ctx, a.creds.Username)
	if err != nil {
		log.Debug("failed to count accounts", sl.Err(err))
		return
	}

	account, err := a.storage.GetAccountByUsername(ctx, a.creds.Username)
	if err != nil {
		log.Debug("failed to read superuser", sl.Err(err))
		return
	}

	log.Debug("superuser state",
		slog.String("uid", account.ID),
		slog.Int("count", count),
		slog.Bool("is_staff", account.IsStaff),
		slog.Bool("is_superuser", account.IsSuperuser),
		slog.Bool("is_active", account.IsActive),
		slog.Bool("password_matches", password.CompareHash(account.PasswordHash, a.creds.Password) == nil),
	)
}

// Close освобождает соединения с базой.
func (a *App) Close() error {
	return a.storage.Close()
}

func closeStorage(db *repository.Storage, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("failed to close storage", sl.Err(err))
	}
}
