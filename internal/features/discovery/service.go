// Package discovery — эвристики поиска и ранжирования: невидимые герои,
// герой недели и подсказка получателей. Все три — независимые чтения
// одной и той же истории.
package discovery

import (
	"context"
	"math/rand/v2"
	"sort"
	"time"

	"spasibo.team/recognition-bot/internal/config"
	"spasibo.team/recognition-bot/internal/period"
	"spasibo.team/recognition-bot/internal/storage"
)

// Сколько дней без благодарностей делают сотрудника «невидимым».
const invisibleWindowDays = 14

const (
	invisibleTop   = 5
	weeklyHeroTop  = 3
	suggestionsTop = 6
)

// InvisibleHero — кандидат без благодарностей за 14 дней.
type InvisibleHero struct {
	storage.Employee
	Score int
}

// WeeklyHeroStats — получатель недели с разбивкой его счёта.
type WeeklyHeroStats struct {
	Receiver        storage.Employee
	Total           int
	DepartmentCount int
	Categories      []string
	Score           float64
}

// Suggestion — кандидат в получатели для конкретного отправителя.
type Suggestion struct {
	storage.Employee
	Score int
}

// Service считает эвристики. perturb — инжектируемый случайный
// довесок [0,3) к счёту невидимого героя; в тестах подменяется
// детерминированным, чтобы проверять точный порядок.
type Service struct {
	store   storage.Store
	cfg     *config.Config
	now     func() time.Time
	perturb func() int
}

// NewService создаёт сервис эвристик с боевым случайным довеском.
func NewService(store storage.Store, cfg *config.Config, now func() time.Time) *Service {
	return &Service{
		store:   store,
		cfg:     cfg,
		now:     now,
		perturb: func() int { return rand.IntN(3) },
	}
}

// WithPerturb заменяет случайный довесок. Для тестов.
func (s *Service) WithPerturb(fn func() int) *Service {
	s.perturb = fn
	return s
}

// InvisibleHeroes возвращает до 5 сотрудников, не получавших
// благодарностей последние 14 дней, по убыванию счёта.
// Счёт: +2 за «теневой» отдел плюс случайный довесок.
func (s *Service) InvisibleHeroes(ctx context.Context) ([]InvisibleHero, error) {
	all, err := s.store.ListGratitudes(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := s.now().AddDate(0, 0, -invisibleWindowDays)
	recentReceivers := make(map[string]bool)
	for _, g := range all {
		if !g.Date.Before(cutoff) {
			recentReceivers[g.ReceiverID] = true
		}
	}

	employees, err := s.store.Employees(ctx)
	if err != nil {
		return nil, err
	}

	var heroes []InvisibleHero
	for _, e := range employees {
		if recentReceivers[e.ID] {
			continue
		}
		score := 0
		if s.cfg.IsShadowDepartment(e.Department) {
			score = 2
		}
		heroes = append(heroes, InvisibleHero{Employee: e, Score: score + s.perturb()})
	}

	sort.SliceStable(heroes, func(i, j int) bool { return heroes[i].Score > heroes[j].Score })
	if len(heroes) > invisibleTop {
		heroes = heroes[:invisibleTop]
	}
	return heroes, nil
}

// WeeklyHero возвращает до 3 получателей недели по убыванию счёта.
// Счёт: всего получено + 1.5 × отделов-отправителей + 0.5 × категорий.
func (s *Service) WeeklyHero(ctx context.Context) ([]WeeklyHeroStats, error) {
	all, err := s.store.ListGratitudes(ctx)
	if err != nil {
		return nil, err
	}

	weekStart := period.StartOfWeek(s.now())

	type bucket struct {
		receiverID  string
		total       int
		departments map[string]bool
		categories  []string
		seenCat     map[string]bool
	}
	byUser := make(map[string]*bucket)
	var order []string

	for _, g := range all {
		if g.Date.Before(weekStart) {
			continue
		}
		b, ok := byUser[g.ReceiverID]
		if !ok {
			b = &bucket{
				receiverID:  g.ReceiverID,
				departments: make(map[string]bool),
				seenCat:     make(map[string]bool),
			}
			byUser[g.ReceiverID] = b
			order = append(order, g.ReceiverID)
		}
		b.total++
		// Отдел отправителя — текущий, по справочнику.
		if sender, err := s.store.EmployeeByID(ctx, g.SenderID); err == nil {
			b.departments[sender.Department] = true
		}
		if !b.seenCat[g.Category] {
			b.seenCat[g.Category] = true
			b.categories = append(b.categories, g.Category)
		}
	}

	var scored []WeeklyHeroStats
	for _, id := range order {
		b := byUser[id]
		receiver, err := s.store.EmployeeByID(ctx, b.receiverID)
		if err != nil {
			continue
		}
		scored = append(scored, WeeklyHeroStats{
			Receiver:        *receiver,
			Total:           b.total,
			DepartmentCount: len(b.departments),
			Categories:      b.categories,
			Score:           float64(b.total) + 1.5*float64(len(b.departments)) + 0.5*float64(len(b.categories)),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > weeklyHeroTop {
		scored = scored[:weeklyHeroTop]
	}
	return scored, nil
}

// SuggestReceivers возвращает до 6 кандидатов для отправителя:
// исключает его самого и всех, кого он уже благодарил на этой неделе.
// Счёт: +3 невидимый герой, +2 чужой отдел, +1 теневой отдел,
// минус число отправок в отдел кандидата на этой неделе.
func (s *Service) SuggestReceivers(ctx context.Context, senderID string) ([]Suggestion, error) {
	all, err := s.store.ListGratitudes(ctx)
	if err != nil {
		return nil, err
	}

	weekStart := period.StartOfWeek(s.now())
	excluded := make(map[string]bool)
	deptSends := make(map[string]int)
	for _, g := range all {
		if g.SenderID == senderID && !g.Date.Before(weekStart) {
			excluded[g.ReceiverID] = true
			deptSends[g.ReceiverDepartment]++
		}
	}

	sender, err := s.store.EmployeeByID(ctx, senderID)
	if err != nil {
		// Отправителя нет в справочнике — бонус за чужой отдел не даём.
		sender = nil
	}

	invisible, err := s.InvisibleHeroes(ctx)
	if err != nil {
		return nil, err
	}
	invisibleIDs := make(map[string]bool, len(invisible))
	for _, h := range invisible {
		invisibleIDs[h.ID] = true
	}

	employees, err := s.store.Employees(ctx)
	if err != nil {
		return nil, err
	}

	var scored []Suggestion
	for _, e := range employees {
		if e.ID == senderID || excluded[e.ID] {
			continue
		}
		score := 0
		if invisibleIDs[e.ID] {
			score += 3
		}
		if sender != nil && e.Department != sender.Department {
			score += 2
		}
		if s.cfg.IsShadowDepartment(e.Department) {
			score++
		}
		score -= deptSends[e.Department]
		scored = append(scored, Suggestion{Employee: e, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > suggestionsTop {
		scored = scored[:suggestionsTop]
	}
	return scored, nil
}
