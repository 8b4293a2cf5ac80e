// Package jobs управляет фоновыми задачами (cron): еженедельный анонс
// героя недели и напоминание про невидимых героев в чате команды.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"spasibo.team/recognition-bot/internal/features/discovery"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron             *cron.Cron
	discoveryService *discovery.Service
	teamChatID       int64
	sendFunc         func(chatID int64, text string)
}

// NewScheduler создаёт планировщик задач в заданном часовом поясе.
// teamChatID == 0 — анонсы выключены.
func NewScheduler(
	loc *time.Location,
	discoveryService *discovery.Service,
	teamChatID int64,
	sendFunc func(chatID int64, text string),
) *Scheduler {
	return &Scheduler{
		cron:             cron.New(cron.WithLocation(loc)),
		discoveryService: discoveryService,
		teamChatID:       teamChatID,
		sendFunc:         sendFunc,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	if s.teamChatID == 0 {
		log.Info("TEAM_CHAT_ID не задан, анонсы выключены")
		return
	}

	// Итог недели — в пятницу днём, пока лента ещё не сброшена.
	s.cron.AddFunc("0 16 * * 5", func() {
		log.Info("[CRON] Анонс героя недели")
		if err := s.announceWeeklyHero(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка анонса героя недели")
		}
	})

	// Напоминание про невидимых героев — в среду утром.
	s.cron.AddFunc("0 11 * * 3", func() {
		log.Info("[CRON] Напоминание о невидимых героях")
		if err := s.announceInvisibleHeroes(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка напоминания")
		}
	})

	s.cron.Start()
	log.Info("Планировщик задач запущен")
}

// Stop останавливает планировщик и ждёт завершения задач.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info("Планировщик задач остановлен")
}

func (s *Scheduler) announceWeeklyHero(ctx context.Context) error {
	heroes, err := s.discoveryService.WeeklyHero(ctx)
	if err != nil {
		return err
	}
	if len(heroes) == 0 {
		return nil
	}
	top := heroes[0]
	s.sendFunc(s.teamChatID, fmt.Sprintf(
		"🏆 Герой недели — %s!\nБлагодарностей: %d | Отделов: %d\nКатегории: %s",
		top.Receiver.Name, top.Total, top.DepartmentCount, strings.Join(top.Categories, ", "),
	))
	return nil
}

func (s *Scheduler) announceInvisibleHeroes(ctx context.Context) error {
	heroes, err := s.discoveryService.InvisibleHeroes(ctx)
	if err != nil {
		return err
	}
	if len(heroes) == 0 {
		return nil
	}
	lines := make([]string, 0, len(heroes))
	for _, h := range heroes {
		lines = append(lines, fmt.Sprintf("• %s — %s", h.Name, h.Department))
	}
	s.sendFunc(s.teamChatID, "✨ Невидимые герои — коллеги без благодарностей уже 2 недели:\n"+
		strings.Join(lines, "\n")+"\nСамое время сказать спасибо!")
	return nil
}
