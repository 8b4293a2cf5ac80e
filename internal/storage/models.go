// Package storage описывает доменные записи и контракт хранилища.
// models.go — структуры сотрудника, благодарности и бейджа.
package storage

import "time"

// Employee — справочная запись сотрудника.
// Создаётся извне (сид или администрирование), сервис её не изменяет.
type Employee struct {
	ID         string `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	Department string `json:"department" db:"department"`
	// Дата выхода на работу, календарная, формат "2006-01-02".
	JoinDate string `json:"join_date" db:"join_date"`
}

// Gratitude — запись благодарности. Только добавляется, никогда
// не изменяется и не удаляется.
type Gratitude struct {
	ID         string `json:"id" db:"id"`
	SenderID   string `json:"sender_id" db:"sender_id"`
	ReceiverID string `json:"receiver_id" db:"receiver_id"`
	// Снимок отдела получателя на момент отправки. Последующие переводы
	// сотрудника исторические записи не трогают.
	ReceiverDepartment string    `json:"receiver_department" db:"receiver_department"`
	Text               string    `json:"text" db:"text"`
	Category           string    `json:"category" db:"category"`
	Type               string    `json:"type" db:"type"`
	Points             int       `json:"points" db:"points"`
	Extra              string    `json:"extra" db:"extra"`
	Date               time.Time `json:"date" db:"date"`
}

// Badge — награда пользователя. Не более одного бейджа каждого имени
// на пользователя за всё время.
type Badge struct {
	UserID      string    `json:"user_id" db:"user_id"`
	BadgeName   string    `json:"badge_name" db:"badge_name"`
	Description string    `json:"description" db:"description"`
	DateAwarded time.Time `json:"date_awarded" db:"date_awarded"`
}
