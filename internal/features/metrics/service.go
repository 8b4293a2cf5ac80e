// Package metrics собирает персональную сводку пользователя по
// данным недели: баллы, полученные благодарности, бейджи и
// расстояние до следующей награды.
package metrics

import (
	"context"
	"time"

	"spasibo.team/recognition-bot/internal/config"
	"spasibo.team/recognition-bot/internal/features/badges"
	"spasibo.team/recognition-bot/internal/period"
	"spasibo.team/recognition-bot/internal/storage"
)

// UserMetrics — сводка за текущую неделю.
type UserMetrics struct {
	WeekStart  time.Time
	PointsUsed int
	PointsLeft int
	// Сколько благодарностей получено на этой неделе.
	ReceivedCount int
	// Сколько разных отделов благодарили пользователя на этой неделе.
	UniqueDepartmentCount int
	Badges                []storage.Badge
	// Баллов до следующей награды. Порог наград выше недельного
	// бюджета — это намеренная двухуровневая система.
	NextRewardPoints int
}

// Service считает сводки.
type Service struct {
	store  storage.Store
	badges *badges.Service
	cfg    *config.Config
	now    func() time.Time
}

// NewService создаёт сервис метрик.
func NewService(store storage.Store, badgeSvc *badges.Service, cfg *config.Config, now func() time.Time) *Service {
	return &Service{store: store, badges: badgeSvc, cfg: cfg, now: now}
}

// UserMetrics строит сводку пользователя за текущую неделю.
func (s *Service) UserMetrics(ctx context.Context, userID string) (*UserMetrics, error) {
	all, err := s.store.ListGratitudes(ctx)
	if err != nil {
		return nil, err
	}

	weekStart := period.StartOfWeek(s.now())

	pointsUsed := 0
	receivedCount := 0
	senderDepts := make(map[string]bool)
	for _, g := range all {
		if g.Date.Before(weekStart) {
			continue
		}
		if g.SenderID == userID {
			pointsUsed += g.Points
		}
		if g.ReceiverID == userID {
			receivedCount++
			if sender, err := s.store.EmployeeByID(ctx, g.SenderID); err == nil {
				senderDepts[sender.Department] = true
			}
		}
	}

	userBadges, err := s.badges.UserBadges(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserMetrics{
		WeekStart:             weekStart,
		PointsUsed:            pointsUsed,
		PointsLeft:            max(0, s.cfg.WeeklyPointLimit-pointsUsed),
		ReceivedCount:         receivedCount,
		UniqueDepartmentCount: len(senderDepts),
		Badges:                userBadges,
		NextRewardPoints:      max(0, s.cfg.RewardThreshold-pointsUsed),
	}, nil
}
