// Package period считает границы календарных окон, по которым работают
// все правила: начало текущей недели и начало текущего дня.
//
// Обе функции чистые: окно каждый раз пересчитывается от переданного
// момента, никакого глобального состояния «текущая неделя» нет.
package period

import "time"

// StartOfWeek возвращает ближайший прошедший понедельник 00:00
// в часовом поясе переданного момента.
// Неделя начинается с понедельника (ISO): воскресенье — шестой день.
func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	day := StartOfDay(t)
	return day.AddDate(0, 0, -offset)
}

// StartOfDay возвращает момент, усечённый до полуночи его часового пояса.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
