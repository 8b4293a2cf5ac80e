// Package bot — views.go рисует read-only экраны: лента недели,
// герой недели, достижения, невидимые герои, лимит.
package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// Сколько записей показываем в ленте недели.
const weeklyFeedSize = 5

// showWeeklyFeed показывает последние благодарности этой недели.
func (b *Bot) showWeeklyFeed(ctx context.Context, chatID int64) {
	feed, err := b.gratitudeService.WeeklyFeed(ctx, weeklyFeedSize)
	if err != nil {
		log.WithError(err).Error("Ошибка получения ленты")
		b.reply(chatID, "❌ Не получилось загрузить ленту.", mainMenuKeyboard())
		return
	}
	if len(feed) == 0 {
		b.reply(chatID, "Пока нет благодарностей за эту неделю. Будь первым!", mainMenuKeyboard())
		return
	}

	lines := make([]string, 0, len(feed))
	for _, item := range feed {
		lines = append(lines, fmt.Sprintf(
			"✨ %s → %s\n%s\nКатегория: %s | %s",
			item.SenderName, item.ReceiverName,
			item.Entry.Text, item.Entry.Category, item.Entry.Type,
		))
	}
	b.reply(chatID, "Благодарности недели:\n\n"+strings.Join(lines, "\n\n"), mainMenuKeyboard())
}

// showWeeklyHero показывает лидера недели.
func (b *Bot) showWeeklyHero(ctx context.Context, chatID int64) {
	heroes, err := b.discoveryService.WeeklyHero(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка расчёта героя недели")
		b.reply(chatID, "❌ Не получилось посчитать героя недели.", mainMenuKeyboard())
		return
	}
	if len(heroes) == 0 {
		b.reply(chatID, "На этой неделе пока нет благодарностей. Будь первым!", mainMenuKeyboard())
		return
	}

	top := heroes[0]
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Сказать спасибо", "menu_send"),
		),
	)
	b.reply(chatID, fmt.Sprintf(
		"🏆 Герой недели — %s\nБлагодарностей: %d\nОтделов: %d\nКатегории: %s",
		top.Receiver.Name, top.Total, top.DepartmentCount, strings.Join(top.Categories, ", "),
	), &kb)
}

// showMetrics показывает личные достижения пользователя.
func (b *Bot) showMetrics(ctx context.Context, chatID, userID int64) {
	m, err := b.metricsService.UserMetrics(ctx, employeeID(userID))
	if err != nil {
		log.WithError(err).Error("Ошибка получения метрик")
		b.reply(chatID, "❌ Не получилось загрузить достижения.", mainMenuKeyboard())
		return
	}

	badgeText := "Бейджей пока нет — самое время их заработать!"
	if len(m.Badges) > 0 {
		lines := make([]string, 0, len(m.Badges))
		for _, badge := range m.Badges {
			lines = append(lines, fmt.Sprintf("🏅 %s — %s", badge.BadgeName, badge.Description))
		}
		badgeText = strings.Join(lines, "\n")
	}

	b.reply(chatID, fmt.Sprintf(
		"Твои достижения:\n🌟 Баллы за неделю: %d/%d\n🔁 От разных отделов: %d\n✨ Получено благодарностей: %d\n🎯 До следующей награды осталось ~%d баллов\n%s",
		m.PointsUsed, b.cfg.WeeklyPointLimit, m.UniqueDepartmentCount, m.ReceivedCount, m.NextRewardPoints, badgeText,
	), mainMenuKeyboard())
}

// showInvisible показывает невидимых героев и сразу предлагает
// поблагодарить одного из них.
func (b *Bot) showInvisible(ctx context.Context, chatID, userID int64) {
	heroes, err := b.discoveryService.InvisibleHeroes(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка поиска невидимых героев")
		b.reply(chatID, "❌ Не получилось найти невидимых героев.", mainMenuKeyboard())
		return
	}
	if len(heroes) == 0 {
		b.reply(chatID, "Кажется, невидимых героев нет. Отличная работа команды! 🎉", mainMenuKeyboard())
		return
	}

	lines := make([]string, 0, len(heroes))
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, h := range heroes {
		lines = append(lines, fmt.Sprintf(
			"%d. %s — %s (не получали благодарностей 2 недели)", i+1, h.Name, h.Department,
		))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Сказать спасибо "+h.Name, "recv:"+h.ID),
		))
	}

	// Нажатие кнопки сразу продолжит диалог выбором получателя.
	b.sessions.set(userID, &session{Step: stepChooseReceiver})

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.reply(chatID, "✨ Невидимые герои:\n"+strings.Join(lines, "\n")+"\nКого поблагодарим?", &kb)
}

// showLimit показывает использование недельного лимита.
func (b *Bot) showLimit(ctx context.Context, chatID, userID int64) {
	m, err := b.metricsService.UserMetrics(ctx, employeeID(userID))
	if err != nil {
		log.WithError(err).Error("Ошибка получения метрик")
		b.reply(chatID, "❌ Не получилось загрузить лимит.", mainMenuKeyboard())
		return
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Предложить получателей", "menu_send"),
		),
	)
	b.reply(chatID, fmt.Sprintf(
		"Твой лимит на неделю: %d баллов\nИспользовано: %d\nОсталось: %d\nСовет: выбери коллегу из другого отдела или невидимого героя 👇",
		b.cfg.WeeklyPointLimit, m.PointsUsed, m.PointsLeft,
	), &kb)
}
