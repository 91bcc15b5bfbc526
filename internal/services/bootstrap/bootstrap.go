// Package bootstrap гарантирует существование единственной учетной записи
// администратора. Процедура идемпотентна: повторные и параллельные вызовы
// оставляют в хранилище ровно одну запись с зарезервированным username.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/product-service/internal/config"
	"github.com/magabrotheeeer/product-service/internal/lib/password"
	"github.com/magabrotheeeer/product-service/internal/lib/sl"
	"github.com/magabrotheeeer/product-service/internal/models"
	"github.com/magabrotheeeer/product-service/internal/storage"
)

// AccountRepository описывает контракт хранилища учетных записей.
type AccountRepository interface {
	// AccountExists сообщает, есть ли учетная запись с таким username.
	AccountExists(ctx context.Context, username string) (bool, error)

	// CreateSuperuser сохраняет учетную запись и возвращает ее ID.
	// При нарушении уникальности возвращает storage.ErrAccountExists.
	CreateSuperuser(ctx context.Context, account models.Account) (string, error)
}

// Outcome итог одного запуска процедуры. Нулевое значение не является
// допустимым итогом.
type Outcome int

const (
	OutcomeCreated Outcome = iota + 1
	OutcomeAlreadyExists
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeAlreadyExists:
		return "already exists"
	case OutcomeError:
		return "error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result результат запуска. Err заполнен только для OutcomeError.
type Result struct {
	Outcome Outcome
	Err     error
}

// Failed оборачивает ошибку в результат OutcomeError.
func Failed(err error) Result {
	return Result{Outcome: OutcomeError, Err: err}
}

// String возвращает строку статуса для оператора. Строка всегда одна:
// многострочное описание ошибки склеивается через "; ".
func (r Result) String() string {
	switch r.Outcome {
	case OutcomeCreated:
		return "Superuser created successfully"
	case OutcomeAlreadyExists:
		return "Superuser already exists"
	default:
		msg := "unknown error"
		if r.Err != nil {
			if line := singleLine(r.Err.Error()); line != "" {
				msg = line
			}
		}
		return "An error occurred: " + msg
	}
}

func singleLine(msg string) string {
	lines := strings.FieldsFunc(msg, func(r rune) bool {
		return r == '\n' || r == '\r'
	})
	parts := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, "; ")
}

// Credentials учетные данные создаваемого администратора.
type Credentials struct {
	Username string
	Email    string
	Password string
}

// BuiltinCredentials возвращает встроенные учетные данные, которые процедура
// использует по умолчанию.
func BuiltinCredentials() Credentials {
	return Credentials{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "Admin123!",
	}
}

// ResolveCredentials выбирает учетные данные по источнику и возвращает
// имена полей, в которых встроенные значения расходятся с настройками.
// Источник settings берет значения из DJANGO_SUPERUSER_*, для любого другого
// берутся встроенные значения.
func ResolveCredentials(source string, settings config.Superuser) (Credentials, []string) {
	builtin := BuiltinCredentials()

	var mismatched []string
	if builtin.Username != settings.Username {
		mismatched = append(mismatched, "username")
	}
	if builtin.Email != settings.Email {
		mismatched = append(mismatched, "email")
	}
	if builtin.Password != settings.Password {
		mismatched = append(mismatched, "password")
	}

	if source == config.CredentialSourceSettings {
		return Credentials{
			Username: settings.Username,
			Email:    settings.Email,
			Password: settings.Password,
		}, mismatched
	}
	return builtin, mismatched
}

// Service создает учетную запись администратора.
type Service struct {
	accounts AccountRepository
	creds    Credentials
	logger   *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(accounts AccountRepository, creds Credentials, logger *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		creds:    creds,
		logger:   logger,
	}
}

// EnsureAdminAccount делает одну попытку создать администратора.
// Ошибки и паники не пробрасываются, а возвращаются как OutcomeError.
// Проигранная гонка за вставку (нарушение уникальности) дает OutcomeAlreadyExists.
func (s *Service) EnsureAdminAccount(ctx context.Context) (result Result) {
	const op = "services.bootstrap.EnsureAdminAccount"
	log := s.logger.With(sl.Op(op), slog.String("username", s.creds.Username))

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%s: panic: %v", op, r)
			log.Error("bootstrap panicked", sl.Err(err))
			result = Failed(err)
		}
	}()

	exists, err := s.accounts.AccountExists(ctx, s.creds.Username)
	if err != nil {
		log.Error("failed to look up superuser", sl.Err(err))
		return Failed(err)
	}
	if exists {
		log.Info("superuser already exists")
		return Result{Outcome: OutcomeAlreadyExists}
	}

	hash, err := password.GetHash(s.creds.Password)
	if err != nil {
		log.Error("failed to hash superuser password", sl.Err(err))
		return Failed(err)
	}

	id, err := s.accounts.CreateSuperuser(ctx, models.Account{
		ID:           uuid.NewString(),
		Username:     s.creds.Username,
		Email:        s.creds.Email,
		PasswordHash: hash,
		IsStaff:      true,
		IsSuperuser:  true,
		IsActive:     true,
	})
	if errors.Is(err, storage.ErrAccountExists) {
		log.Info("superuser created concurrently by another process")
		return Result{Outcome: OutcomeAlreadyExists}
	}
	if err != nil {
		log.Error("failed to create superuser", sl.Err(err))
		return Failed(err)
	}

	log.Info("superuser created", slog.String("uid", id))
	return Result{Outcome: OutcomeCreated}
}
