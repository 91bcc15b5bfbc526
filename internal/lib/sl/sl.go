// Package sl содержит вспомогательные функции для формирования атрибутов slog.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
// Для nil возвращается пустая строка, чтобы логирование не паниковало.
//
// Пример:
//
//	log.Error("failed to create superuser", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Op возвращает атрибут с именем операции, например "services.bootstrap.EnsureAdminAccount".
func Op(op string) slog.Attr {
	return slog.String("op", op)
}
