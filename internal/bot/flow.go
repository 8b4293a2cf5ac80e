// Package bot — flow.go ведёт диалог отправки благодарности:
// шаги, черновик и финальная отправка через движок.
package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"spasibo.team/recognition-bot/internal/features/gratitude"
)

// startSendFlow начинает диалог: предлагает получателей кнопками.
func (b *Bot) startSendFlow(ctx context.Context, chatID, userID int64) {
	b.sessions.set(userID, &session{Step: stepChooseReceiver})

	suggestions, err := b.discoveryService.SuggestReceivers(ctx, employeeID(userID))
	if err != nil {
		log.WithError(err).Error("Ошибка подбора получателей")
		b.reply(chatID, "❌ Не получилось подобрать получателей, попробуй позже.", mainMenuKeyboard())
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range suggestions {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s (%s)", p.Name, p.Department),
				"recv:"+p.ID,
			),
		))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)

	b.reply(chatID,
		"Шаг 1. Кому хочешь сказать спасибо?\n(можешь выбрать кнопку или написать имя вручную)",
		&kb,
	)
}

// selectReceiver фиксирует получателя и спрашивает ситуацию.
func (b *Bot) selectReceiver(ctx context.Context, chatID, userID int64, receiverID string) {
	st := b.sessions.get(userID)
	if st == nil || st.Step != stepChooseReceiver {
		return
	}
	st.ReceiverID = receiverID
	st.Step = stepSituation
	b.sessions.set(userID, st)
	b.reply(chatID, "Шаг 2. S — ситуация: что произошло? (1–2 предложения)", nil)
}

// handleStepInput принимает свободный текст на текущем шаге диалога.
func (b *Bot) handleStepInput(ctx context.Context, chatID, userID int64, st *session, text string) {
	trimmed := strings.TrimSpace(text)

	switch st.Step {
	case stepChooseReceiver:
		found, err := b.store.SearchEmployees(ctx, trimmed)
		if err != nil {
			log.WithError(err).Error("Ошибка поиска сотрудника")
			return
		}
		if len(found) == 1 {
			b.selectReceiver(ctx, chatID, userID, found[0].ID)
		} else {
			b.reply(chatID, "Не нашёл такого коллегу. Выбери из списка или уточни имя.", nil)
		}

	case stepSituation:
		st.Situation = trimmed
		st.Step = stepBehavior
		b.sessions.set(userID, st)
		b.reply(chatID, "Шаг 2. B — поведение: что сделал человек?", nil)

	case stepBehavior:
		st.Behavior = trimmed
		st.Step = stepImpact
		b.sessions.set(userID, st)
		b.reply(chatID, "Шаг 2. I — влияние: какой был эффект?", nil)

	case stepImpact:
		st.Impact = trimmed
		st.Step = stepCategory
		b.sessions.set(userID, st)
		b.showCategories(chatID)

	case stepExtra:
		st.Extra = trimmed
		st.Step = stepConfirm
		b.sessions.set(userID, st)
		b.showDraft(ctx, chatID, userID)

	default:
		b.reply(chatID, "Не понял сообщение. Используй кнопки.", mainMenuKeyboard())
	}
}

// showCategories предлагает категории вклада кнопками.
func (b *Bot) showCategories(chatID int64) {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, c := range b.cfg.Categories {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c, fmt.Sprintf("cat:%d", i)),
		))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.reply(chatID, "Шаг 3. Выбери категорию вклада:", &kb)
}

// chooseCategory фиксирует категорию и спрашивает тип.
func (b *Bot) chooseCategory(ctx context.Context, chatID, userID int64, idx int) {
	st := b.sessions.get(userID)
	if st == nil || st.Step != stepCategory {
		return
	}
	if idx < 0 || idx >= len(b.cfg.Categories) {
		return
	}
	st.Category = b.cfg.Categories[idx]
	st.Step = stepType
	b.sessions.set(userID, st)

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✨ Обычная (1 балл)", "type:normal"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔥 Большой вклад (3 балла)", "type:big"),
		),
	)
	b.reply(chatID, "Шаг 4. Тип благодарности:", &kb)
}

// chooseType фиксирует тип; для «большого вклада» сначала спрашивает
// уточнение.
func (b *Bot) chooseType(ctx context.Context, chatID, userID int64, gtype string) {
	st := b.sessions.get(userID)
	if st == nil || st.Step != stepType {
		return
	}
	st.Type = gtype
	if gtype == gratitude.TypeBig {
		st.Step = stepExtra
		b.sessions.set(userID, st)
		b.reply(chatID, "Что делает вклад большим? Уточни в 1 фразе.", nil)
		return
	}
	st.Step = stepConfirm
	b.sessions.set(userID, st)
	b.showDraft(ctx, chatID, userID)
}

// showDraft показывает черновик и кнопки подтверждения.
func (b *Bot) showDraft(ctx context.Context, chatID, userID int64) {
	st := b.sessions.get(userID)
	if st == nil {
		return
	}

	receiverName := st.ReceiverID
	if receiver, err := b.store.EmployeeByID(ctx, st.ReceiverID); err == nil {
		receiverName = receiver.Name
	}

	typeLabel := "Обычная (1 балл)"
	if st.Type == gratitude.TypeBig {
		typeLabel = "Большой вклад (3 балла)"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🎉 Черновик:\nПолучатель: %s\n", receiverName)
	fmt.Fprintf(&sb, "S: %s\nB: %s\nI: %s\n", st.Situation, st.Behavior, st.Impact)
	fmt.Fprintf(&sb, "Категория: %s\nТип: %s", st.Category, typeLabel)
	if st.Extra != "" {
		fmt.Fprintf(&sb, "\nУточнение: %s", st.Extra)
	}
	sb.WriteString("\n\nОтправляем?")

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Да", "confirm:send"),
			tgbotapi.NewInlineKeyboardButtonData("Редактировать", "confirm:edit"),
			tgbotapi.NewInlineKeyboardButtonData("Отмена", "confirm:cancel"),
		),
	)
	b.reply(chatID, sb.String(), &kb)
}

// submitGratitude отправляет накопленный черновик через движок.
func (b *Bot) submitGratitude(ctx context.Context, chatID, userID int64) {
	st := b.sessions.get(userID)
	if st == nil {
		return
	}

	res, err := b.gratitudeService.Submit(ctx, gratitude.SubmitInput{
		SenderID:   employeeID(userID),
		ReceiverID: st.ReceiverID,
		SBI: gratitude.SBI{
			Situation: st.Situation,
			Behavior:  st.Behavior,
			Impact:    st.Impact,
		},
		Category:    st.Category,
		Type:        st.Type,
		ExtraImpact: st.Extra,
	})
	if err != nil {
		log.WithError(err).Error("Ошибка отправки благодарности")
		b.reply(chatID, "❌ Что-то пошло не так, попробуй позже.", mainMenuKeyboard())
		return
	}
	if !res.OK {
		b.reply(chatID, "Не получилось отправить:\n- "+strings.Join(res.Errors, "\n- "), nil)
		return
	}

	b.sessions.drop(userID)

	m, err := b.metricsService.UserMetrics(ctx, employeeID(userID))
	if err != nil {
		log.WithError(err).Error("Ошибка получения метрик")
		b.reply(chatID, "✅ Благодарность отправлена!", mainMenuKeyboard())
		return
	}
	b.reply(chatID, fmt.Sprintf(
		"✅ Благодарность отправлена!\nБаллы за неделю: %d/%d\nОсталось: %d\nСовет: попробуй выбрать коллегу из другого отдела 😉",
		m.PointsUsed, b.cfg.WeeklyPointLimit, m.PointsLeft,
	), mainMenuKeyboard())
}
