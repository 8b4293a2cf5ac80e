// Package gratitude — service.go оркестрирует отправку благодарности:
// лимиты → SBI-валидация → текст → запись → бейджи, как одна логическая
// транзакция. Никакая запись не создаётся, если хоть одна проверка упала.
package gratitude

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"spasibo.team/recognition-bot/internal/common"
	"spasibo.team/recognition-bot/internal/config"
	"spasibo.team/recognition-bot/internal/features/badges"
	"spasibo.team/recognition-bot/internal/period"
	"spasibo.team/recognition-bot/internal/storage"
	"spasibo.team/recognition-bot/internal/textgen"
)

// Типы благодарности и их отображаемые имена.
const (
	TypeNormal = "normal"
	TypeBig    = "big"

	TypeNameNormal = "Обычная благодарность"
	TypeNameBig    = "Большой вклад"
)

// SubmitInput — входные данные отправки.
type SubmitInput struct {
	SenderID   string
	ReceiverID string
	SBI        SBI
	Category   string
	// "normal" (1 балл) или "big" (3 балла).
	Type string
	// Уточнение «что делает вклад большим», учитывается только при big.
	ExtraImpact string
	// Готовый текст от фронта. Если задан — доверяем как есть,
	// конвейер доводки не трогает его.
	PregeneratedText string
}

// Result — структурный итог отправки. Отказ — это не ошибка процесса:
// все нарушения собраны в Errors для показа пользователю.
type Result struct {
	OK     bool
	Errors []string
	Entry  *storage.Gratitude
	// Баллы отправителя за неделю: при успехе — с учётом новой записи.
	PointsUsed int
}

// Service — движок отправки благодарностей.
type Service struct {
	store     storage.Store
	limits    *Validator
	badges    *badges.Service
	generator textgen.Generator
	cfg       *config.Config
	now       func() time.Time

	// Последовательность «прочитал-проверил-записал» обязана быть
	// атомарной между конкурентными отправками, иначе две гонки
	// одновременно пройдут проверку бюджета.
	mu sync.Mutex
}

// NewService создаёт движок отправки.
func NewService(
	store storage.Store,
	limits *Validator,
	badgeSvc *badges.Service,
	generator textgen.Generator,
	cfg *config.Config,
	now func() time.Time,
) *Service {
	if generator == nil {
		generator = textgen.Disabled{}
	}
	return &Service{
		store:     store,
		limits:    limits,
		badges:    badgeSvc,
		generator: generator,
		cfg:       cfg,
		now:       now,
	}
}

// Submit проводит полную отправку благодарности.
// Ошибка возвращается только при отказе хранилища; отказ правил
// приходит как Result с OK=false.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if _, err := s.store.EmployeeByID(ctx, in.SenderID); err != nil {
		if errors.Is(err, common.ErrEmployeeNotFound) {
			return &Result{Errors: []string{common.MsgSenderNotFound}}, nil
		}
		return nil, err
	}

	receiver, err := s.store.EmployeeByID(ctx, in.ReceiverID)
	if err != nil {
		if errors.Is(err, common.ErrEmployeeNotFound) {
			return &Result{Errors: []string{common.MsgReceiverNotFound}}, nil
		}
		return nil, err
	}

	points := 1
	typeName := TypeNameNormal
	if in.Type == TypeBig {
		points = 3
		typeName = TypeNameBig
	}

	// Лимиты проверяются по ТЕКУЩЕМУ отделу получателя.
	report, err := s.limits.Check(ctx, now, in.SenderID, in.ReceiverID, receiver.Department, points)
	if err != nil {
		return nil, err
	}
	if !report.OK {
		return &Result{Errors: report.Errors, PointsUsed: report.PointsUsed}, nil
	}

	if sbiErrs := ValidateSBI(in.SBI); len(sbiErrs) > 0 {
		return &Result{Errors: sbiErrs, PointsUsed: report.PointsUsed}, nil
	}

	extra := ""
	if in.Type == TypeBig {
		extra = strings.TrimSpace(in.ExtraImpact)
	}

	entry := storage.Gratitude{
		ID:         uuid.NewString(),
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		// Снимок отдела на момент отправки: будущие переводы сотрудника
		// эту запись не изменят.
		ReceiverDepartment: receiver.Department,
		Text:               s.resolveText(ctx, in),
		Category:           in.Category,
		Type:               typeName,
		Points:             points,
		Extra:              extra,
		Date:               now,
	}

	if err := s.store.AddGratitude(ctx, entry); err != nil {
		return nil, err
	}

	if err := s.badges.Evaluate(ctx, entry, report.PointsUsed+points); err != nil {
		log.WithError(err).Error("Ошибка начисления бейджей")
	}

	return &Result{OK: true, Entry: &entry, PointsUsed: report.PointsUsed + points}, nil
}

// resolveText выбирает итоговую формулировку: готовый текст фронта,
// потом внешний генератор, потом эвристический синтез. Отказ генератора
// гасится молча — пользователь его не видит.
func (s *Service) resolveText(ctx context.Context, in SubmitInput) string {
	if text := strings.TrimSpace(in.PregeneratedText); text != "" {
		return text
	}

	genCtx, cancel := context.WithTimeout(ctx, s.cfg.AITimeout)
	defer cancel()

	text, err := s.generator.Generate(genCtx, in.SBI.Situation, in.SBI.Behavior, in.SBI.Impact)
	if err == nil {
		if text = strings.TrimSpace(text); text != "" {
			return text
		}
	} else if !errors.Is(err, textgen.ErrDisabled) {
		log.WithError(err).Debug("Генератор текста недоступен, собираем эвристикой")
	}

	return BuildSentence(in.SBI)
}

// FeedItem — запись недельной ленты с разрешёнными именами.
type FeedItem struct {
	Entry        storage.Gratitude
	SenderName   string
	ReceiverName string
}

// WeeklyFeed возвращает последние limit благодарностей с начала недели,
// самые свежие первыми.
func (s *Service) WeeklyFeed(ctx context.Context, limit int) ([]FeedItem, error) {
	all, err := s.store.ListGratitudes(ctx)
	if err != nil {
		return nil, err
	}

	weekStart := period.StartOfWeek(s.now())
	var week []storage.Gratitude
	for _, g := range all {
		if !g.Date.Before(weekStart) {
			week = append(week, g)
		}
	}

	if limit > 0 && len(week) > limit {
		week = week[len(week)-limit:]
	}

	out := make([]FeedItem, 0, len(week))
	for i := len(week) - 1; i >= 0; i-- {
		g := week[i]
		out = append(out, FeedItem{
			Entry:        g,
			SenderName:   s.employeeName(ctx, g.SenderID),
			ReceiverName: s.employeeName(ctx, g.ReceiverID),
		})
	}
	return out, nil
}

func (s *Service) employeeName(ctx context.Context, id string) string {
	e, err := s.store.EmployeeByID(ctx, id)
	if err != nil {
		return id
	}
	return e.Name
}
