// Package api — dto.go описывает JSON-формы запросов и ответов веб-фронта.
package api

import (
	"time"

	"spasibo.team/recognition-bot/internal/storage"
)

// submitRequest — тело POST /api/gratitudes.
type submitRequest struct {
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Situation  string `json:"situation"`
	Behavior   string `json:"behavior"`
	Impact     string `json:"impact"`
	Category   string `json:"category"`
	// "normal" или "big".
	Type        string `json:"type"`
	ExtraImpact string `json:"extra_impact,omitempty"`
	// Готовая формулировка от фронта (например, его собственной
	// AI-интеграции); если пуста — движок сформулирует сам.
	PregeneratedText string `json:"pregenerated_text,omitempty"`
}

// submitResponse — структурный итог отправки.
type submitResponse struct {
	OK         bool               `json:"ok"`
	Errors     []string           `json:"errors,omitempty"`
	Entry      *storage.Gratitude `json:"entry,omitempty"`
	PointsUsed int                `json:"points_used"`
}

type employeeDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	JoinDate   string `json:"join_date"`
}

type feedItemDTO struct {
	Entry        storage.Gratitude `json:"entry"`
	SenderName   string            `json:"sender_name"`
	ReceiverName string            `json:"receiver_name"`
}

type weeklyHeroDTO struct {
	Receiver        employeeDTO `json:"receiver"`
	Total           int         `json:"total"`
	DepartmentCount int         `json:"department_count"`
	Categories      []string    `json:"categories"`
	Score           float64     `json:"score"`
}

type scoredEmployeeDTO struct {
	employeeDTO
	Score int `json:"score"`
}

type metricsDTO struct {
	WeekStart             time.Time       `json:"week_start"`
	PointsUsed            int             `json:"points_used"`
	PointsLeft            int             `json:"points_left"`
	ReceivedCount         int             `json:"received_count"`
	UniqueDepartmentCount int             `json:"unique_department_count"`
	Badges                []storage.Badge `json:"badges"`
	NextRewardPoints      int             `json:"next_reward_points"`
}

func toEmployeeDTO(e storage.Employee) employeeDTO {
	return employeeDTO{ID: e.ID, Name: e.Name, Department: e.Department, JoinDate: e.JoinDate}
}
