// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация и форматирование дат.
package common

import (
	"fmt"
	"math"
	"time"
)

// PluralizePoints возвращает правильную форму слова «балл» для числа n.
//
// Правила русского языка:
//   - n%10==1 И n%100!=11 → "балл" (1, 21, 31, 101, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → "балла" (2, 3, 4, 22, ...)
//   - Остальные случаи → "баллов" (0, 5-20, 25-30, 100, ...)
func PluralizePoints(n int) string {
	absN := int(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "балл"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "балла"
	}
	return "баллов"
}

// PluralizeGratitudes возвращает правильную форму слова «благодарность».
func PluralizeGratitudes(n int) string {
	absN := int(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "благодарность"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "благодарности"
	}
	return "благодарностей"
}

// FormatPoints форматирует количество баллов в читабельную строку.
// Пример: FormatPoints(3) → "3 балла"
func FormatPoints(n int) string {
	return fmt.Sprintf("%d %s", n, PluralizePoints(n))
}

// FormatDateTime форматирует время в формат "02.01.2006 15:04".
func FormatDateTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("02.01.2006 15:04")
}
