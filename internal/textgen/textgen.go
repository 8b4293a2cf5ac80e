// Package textgen — опциональная внешняя генерация формулировки
// благодарности. Любая ошибка генератора не фатальна: отправка
// всегда может упасть обратно на эвристический синтез.
package textgen

import (
	"context"
	"errors"
)

// ErrDisabled — генерация выключена конфигурацией.
var ErrDisabled = errors.New("внешняя генерация текста выключена")

// Generator превращает сырые части SBI в готовую формулировку.
// Пустой результат или ошибка означают «сформулируй сам».
type Generator interface {
	Generate(ctx context.Context, situation, behavior, impact string) (string, error)
}

// Disabled — генератор-заглушка: всегда сигнализирует отказ.
// Используется, когда эндпоинт не настроен.
type Disabled struct{}

func (Disabled) Generate(ctx context.Context, situation, behavior, impact string) (string, error) {
	return "", ErrDisabled
}
