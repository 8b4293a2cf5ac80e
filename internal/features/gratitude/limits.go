// Package gratitude — limits.go проверяет четыре недельно-дневных правила
// перед отправкой. Все проверки выполняются безусловно и складывают
// нарушения в один список: пользователь видит всё за один заход.
package gratitude

import (
	"context"
	"fmt"
	"time"

	"spasibo.team/recognition-bot/internal/common"
	"spasibo.team/recognition-bot/internal/config"
	"spasibo.team/recognition-bot/internal/period"
	"spasibo.team/recognition-bot/internal/storage"
)

// LimitReport — итог проверки лимитов.
type LimitReport struct {
	OK bool
	// Нарушения в фиксированном порядке: бюджет, дневной повтор,
	// подряд одному человеку, отдел.
	Errors []string
	// Баллы, потраченные отправителем на этой неделе ДО этой отправки.
	PointsUsed int
}

// Validator оценивает предложенную отправку против истории.
type Validator struct {
	store storage.Store
	cfg   *config.Config
}

// NewValidator создаёт проверку лимитов.
func NewValidator(store storage.Store, cfg *config.Config) *Validator {
	return &Validator{store: store, cfg: cfg}
}

// Check прогоняет все правила для тройки (отправитель, получатель, баллы).
// now передаётся явно: окна недели и дня пересчитываются от него.
func (v *Validator) Check(ctx context.Context, now time.Time, senderID, receiverID, receiverDept string, points int) (*LimitReport, error) {
	all, err := v.store.ListGratitudes(ctx)
	if err != nil {
		return nil, fmt.Errorf("история благодарностей: %w", err)
	}

	weekStart := period.StartOfWeek(now)
	dayStart := period.StartOfDay(now)

	// Отправленное на этой неделе, в хронологическом порядке.
	var sent []storage.Gratitude
	pointsUsed := 0
	for _, g := range all {
		if g.SenderID == senderID && !g.Date.Before(weekStart) {
			sent = append(sent, g)
			pointsUsed += g.Points
		}
	}

	var errs []string

	// 1. Недельный бюджет баллов.
	if pointsUsed+points > v.cfg.WeeklyPointLimit {
		errs = append(errs, fmt.Sprintf(
			"Лимит %d баллов на неделю превышен (уже %d, нужно ещё %d)",
			v.cfg.WeeklyPointLimit, pointsUsed, points,
		))
	}

	// 2. Дневной повтор тому же получателю. Окно — календарный день,
	// не неделя.
	samePersonToday := 0
	for _, g := range all {
		if g.SenderID == senderID && g.ReceiverID == receiverID && !g.Date.Before(dayStart) {
			samePersonToday++
		}
	}
	if samePersonToday >= v.cfg.MaxDailySamePerson {
		errs = append(errs, fmt.Sprintf(
			"За сегодня уже %d %s этому коллеге (макс %d)",
			samePersonToday, common.PluralizeGratitudes(samePersonToday), v.cfg.MaxDailySamePerson,
		))
	}

	// 3. Нельзя дважды подряд одному человеку, пока неделя не
	// сбросилась — даже через день.
	if len(sent) > 0 && sent[len(sent)-1].ReceiverID == receiverID {
		errs = append(errs, "Нельзя благодарить того же коллегу дважды подряд. Выбери другого.")
	}

	// 4. Недельный лимит на отдел получателя (по снимку отдела в записях).
	deptCount := 0
	for _, g := range sent {
		if g.ReceiverDepartment == receiverDept {
			deptCount++
		}
	}
	if deptCount >= v.cfg.MaxDeptPerWeek {
		errs = append(errs, fmt.Sprintf(
			"Уже %d %s в отдел %s на этой неделе (макс %d)",
			deptCount, common.PluralizeGratitudes(deptCount), receiverDept, v.cfg.MaxDeptPerWeek,
		))
	}

	return &LimitReport{OK: len(errs) == 0, Errors: errs, PointsUsed: pointsUsed}, nil
}
