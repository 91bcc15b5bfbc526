// Package models содержит доменную модель учетной записи администратора.
package models

import "time"

// Account представляет учетную запись в хранилище идентификаторов.
type Account struct {
	ID           string    // UUID учетной записи
	Username     string    // Имя пользователя (уникальное)
	Email        string    // Электронная почта, не уникальна
	PasswordHash string    // bcrypt-хэш пароля
	IsStaff      bool      // Доступ к админке
	IsSuperuser  bool      // Полные права
	IsActive     bool      // Учетная запись активна
	DateJoined   time.Time // Заполняется хранилищем при вставке
}
