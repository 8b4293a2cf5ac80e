// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях сервиса.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Ошибки справочника сотрудников
var (
	// ErrEmployeeNotFound — сотрудник не найден в хранилище
	ErrEmployeeNotFound = errors.New("сотрудник не найден")
)

// Тексты отказов при отправке благодарности.
// Это НЕ фатальные ошибки: они возвращаются пользователю списком
// в структурном результате, процесс не прерывают.
const (
	// MsgReceiverNotFound — получатель не найден
	MsgReceiverNotFound = "Получатель не найден"
	// MsgSenderNotFound — отправитель не найден
	MsgSenderNotFound = "Отправитель не найден"
)
