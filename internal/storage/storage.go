// Package storage — storage.go определяет контракт хранилища.
// Движок правил работает только через этот интерфейс; бэкенды
// (jsonfile, postgres) взаимозаменяемы и выбираются конфигурацией.
package storage

import "context"

// Store — абстрактное хранилище сотрудников, благодарностей и бейджей.
//
// Списки возвращаются в порядке вставки. Благодарности и бейджи
// только добавляются.
type Store interface {
	// Employees возвращает всех сотрудников.
	Employees(ctx context.Context) ([]Employee, error)
	// EmployeeByID возвращает сотрудника или common.ErrEmployeeNotFound.
	EmployeeByID(ctx context.Context, id string) (*Employee, error)
	// SearchEmployees ищет по подстроке имени (без учёта регистра)
	// или точному совпадению id.
	SearchEmployees(ctx context.Context, term string) ([]Employee, error)

	ListGratitudes(ctx context.Context) ([]Gratitude, error)
	AddGratitude(ctx context.Context, g Gratitude) error

	ListBadges(ctx context.Context) ([]Badge, error)
	AddBadge(ctx context.Context, b Badge) error

	// Close освобождает ресурсы бэкенда.
	Close()
}
