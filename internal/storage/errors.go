// Package storage содержит общие ошибки слоя хранения.
package storage

import "errors"

var (
	// ErrAccountExists возвращается при нарушении уникальности username.
	ErrAccountExists = errors.New("account already exists")
	// ErrAccountNotFound возвращается, если учетной записи с таким username нет.
	ErrAccountNotFound = errors.New("account not found")
)
