// Package bot содержит главный модуль бота — инициализацию, запуск и
// остановку. bot.go принимает апдейты, прогоняет их через фильтры и
// rate-limiter и маршрутизирует к обработчикам меню и диалога.
package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"spasibo.team/recognition-bot/internal/bot/filters"
	"spasibo.team/recognition-bot/internal/bot/middleware"
	"spasibo.team/recognition-bot/internal/config"
	"spasibo.team/recognition-bot/internal/features/discovery"
	"spasibo.team/recognition-bot/internal/features/gratitude"
	"spasibo.team/recognition-bot/internal/features/metrics"
	"spasibo.team/recognition-bot/internal/storage"
)

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	chatFilter  *filters.ChatFilter
	rateLimiter *middleware.RateLimiter

	store            storage.Store
	gratitudeService *gratitude.Service
	discoveryService *discovery.Service
	metricsService   *metrics.Service

	sessions *sessionStore

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	store storage.Store,
	gratitudeService *gratitude.Service,
	discoveryService *discovery.Service,
	metricsService *metrics.Service,
) *Bot {
	maxInflight := cfg.BotMaxInflight
	if maxInflight <= 0 {
		maxInflight = 64
	}

	return &Bot{
		api:              api,
		cfg:              cfg,
		chatFilter:       filters.NewChatFilter(cfg.TeamChatID),
		rateLimiter:      middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		store:            store,
		gratitudeService: gratitudeService,
		discoveryService: discoveryService,
		metricsService:   metricsService,
		sessions:         newSessionStore(),
		inflight:         make(chan struct{}, maxInflight),
	}
}

// Start запускает polling обновлений от Telegram.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			b.rateLimiter.Close()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer middleware.RecoverFromPanic()

	if update.CallbackQuery != nil {
		middleware.LogCallback(update.CallbackQuery)
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.Text == "" {
		return
	}

	message := update.Message
	middleware.LogMessage(message)

	if !b.chatFilter.Allow(message) {
		return
	}

	if message.From != nil && !b.rateLimiter.Allow(message.From.ID) {
		log.WithField("user_id", message.From.ID).Debug("rate limited")
		return
	}

	chatID := message.Chat.ID
	userID := message.From.ID

	if strings.HasPrefix(message.Text, "/") {
		b.handleCommand(ctx, chatID, userID, message)
		return
	}

	// Не команда: либо шаг диалога, либо показываем меню.
	current := b.sessions.get(userID)
	if current == nil {
		b.startMenu(chatID, message.From.FirstName)
		return
	}
	b.handleStepInput(ctx, chatID, userID, current, message.Text)
}

// handleCommand обрабатывает /start и /menu.
func (b *Bot) handleCommand(ctx context.Context, chatID, userID int64, message *tgbotapi.Message) {
	cmd := strings.ToLower(strings.TrimPrefix(strings.Fields(message.Text)[0], "/"))
	// Команда может прийти в виде /start@имябота
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}

	switch cmd {
	case "start", "menu":
		b.sessions.drop(userID)
		b.startMenu(chatID, message.From.FirstName)
	default:
		b.reply(chatID, "Не понял команду. Попробуй /menu.", mainMenuKeyboard())
	}
}

// handleCallback маршрутизирует нажатия inline-кнопок.
func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	defer middleware.RecoverFromPanic()

	if query.Message == nil || query.From == nil {
		return
	}
	chatID := query.Message.Chat.ID
	userID := query.From.ID
	data := query.Data

	// Убираем «часики» на кнопке.
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.WithError(err).Debug("Не удалось ответить на callback")
	}

	switch {
	case data == "menu_send":
		b.startSendFlow(ctx, chatID, userID)
	case data == "menu_feed":
		b.showWeeklyFeed(ctx, chatID)
	case data == "menu_hero":
		b.showWeeklyHero(ctx, chatID)
	case data == "menu_metrics":
		b.showMetrics(ctx, chatID, userID)
	case data == "menu_invisible":
		b.showInvisible(ctx, chatID, userID)
	case data == "menu_limit":
		b.showLimit(ctx, chatID, userID)
	case strings.HasPrefix(data, "recv:"):
		b.selectReceiver(ctx, chatID, userID, strings.TrimPrefix(data, "recv:"))
	case strings.HasPrefix(data, "cat:"):
		idx, err := strconv.Atoi(strings.TrimPrefix(data, "cat:"))
		if err != nil {
			return
		}
		b.chooseCategory(ctx, chatID, userID, idx)
	case strings.HasPrefix(data, "type:"):
		b.chooseType(ctx, chatID, userID, strings.TrimPrefix(data, "type:"))
	case data == "confirm:send":
		b.submitGratitude(ctx, chatID, userID)
	case data == "confirm:edit":
		b.startSendFlow(ctx, chatID, userID)
	case data == "confirm:cancel":
		b.sessions.drop(userID)
		b.reply(chatID, "Отменено. Вернулся в меню.", mainMenuKeyboard())
	default:
		b.reply(chatID, "Не понял действие. Попробуй снова.", mainMenuKeyboard())
	}
}

// employeeID — сотрудники заведены по telegram id отправителя.
func employeeID(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// startMenu показывает главное меню.
func (b *Bot) startMenu(chatID int64, firstName string) {
	if firstName == "" {
		firstName = "коллега"
	}
	b.reply(chatID,
		"👋 Привет, "+firstName+"!\nЯ бот признаний компании. Что хочешь сделать?",
		mainMenuKeyboard(),
	)
}

func mainMenuKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("1. Отправить благодарность", "menu_send"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("2. Благодарности недели", "menu_feed"),
			tgbotapi.NewInlineKeyboardButtonData("3. Герой недели", "menu_hero"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("4. Мои достижения", "menu_metrics"),
			tgbotapi.NewInlineKeyboardButtonData("5. Невидимые герои", "menu_invisible"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("6. Лимит на неделю", "menu_limit"),
		),
	)
	return &kb
}

// reply отправляет сообщение, опционально с inline-клавиатурой.
func (b *Bot) reply(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// SendMessageToChat отправляет сообщение в произвольный чат
// (используется планировщиком анонсов).
func (b *Bot) SendMessageToChat(chatID int64, text string) {
	b.reply(chatID, text, nil)
}
