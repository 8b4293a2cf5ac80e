// Package badges начисляет награды по итогам отправленной благодарности.
// Не более одного бейджа каждого имени на пользователя за всё время;
// повторное срабатывание условия — не ошибка, а no-op.
package badges

import (
	"context"
	"fmt"
	"time"

	"spasibo.team/recognition-bot/internal/config"
	"spasibo.team/recognition-bot/internal/storage"
)

// Имена бейджей — закрытый набор.
const (
	BigContribution   = "Большой вклад"
	GenerousColleague = "Щедрый коллега"
)

const (
	descBigContribution   = "Получил благодарность за большой вклад"
	descGenerousColleague = "Использовал весь недельный лимит благодарностей"
)

// Service решает, какие бейджи выдать после новой записи.
type Service struct {
	store storage.Store
	cfg   *config.Config
	now   func() time.Time
}

// NewService создаёт сервис бейджей.
func NewService(store storage.Store, cfg *config.Config, now func() time.Time) *Service {
	return &Service{store: store, cfg: cfg, now: now}
}

// Evaluate смотрит на свежесозданную запись и недельный итог отправителя
// (уже с учётом этой записи) и выдаёт 0, 1 или 2 бейджа.
func (s *Service) Evaluate(ctx context.Context, entry storage.Gratitude, senderWeekTotal int) error {
	existing, err := s.store.ListBadges(ctx)
	if err != nil {
		return fmt.Errorf("список бейджей: %w", err)
	}

	// Получателю — за большой вклад.
	if entry.Points >= 3 && !has(existing, entry.ReceiverID, BigContribution) {
		if err := s.store.AddBadge(ctx, storage.Badge{
			UserID:      entry.ReceiverID,
			BadgeName:   BigContribution,
			Description: descBigContribution,
			DateAwarded: s.now(),
		}); err != nil {
			return fmt.Errorf("бейдж получателю: %w", err)
		}
	}

	// Отправителю — за полностью использованный недельный лимит.
	if senderWeekTotal >= s.cfg.WeeklyPointLimit && !has(existing, entry.SenderID, GenerousColleague) {
		if err := s.store.AddBadge(ctx, storage.Badge{
			UserID:      entry.SenderID,
			BadgeName:   GenerousColleague,
			Description: descGenerousColleague,
			DateAwarded: s.now(),
		}); err != nil {
			return fmt.Errorf("бейдж отправителю: %w", err)
		}
	}

	return nil
}

// UserBadges возвращает бейджи пользователя.
func (s *Service) UserBadges(ctx context.Context, userID string) ([]storage.Badge, error) {
	all, err := s.store.ListBadges(ctx)
	if err != nil {
		return nil, err
	}
	var out []storage.Badge
	for _, b := range all {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func has(badges []storage.Badge, userID, name string) bool {
	for _, b := range badges {
		if b.UserID == userID && b.BadgeName == name {
			return true
		}
	}
	return false
}
