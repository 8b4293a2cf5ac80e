// Package filters решает, какие чаты бот обслуживает.
// Диалог отправки благодарности живёт в личке; в чате команды
// бот только отвечает на команды и публикует анонсы.
package filters

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// ChatFilter пропускает личные сообщения и сообщения из чата команды.
type ChatFilter struct {
	teamChatID int64
}

// NewChatFilter создаёт фильтр. teamChatID == 0 означает
// «только личные сообщения».
func NewChatFilter(teamChatID int64) *ChatFilter {
	return &ChatFilter{teamChatID: teamChatID}
}

// Allow сообщает, стоит ли обрабатывать сообщение.
func (f *ChatFilter) Allow(message *tgbotapi.Message) bool {
	if message == nil || message.Chat == nil {
		return false
	}
	if message.Chat.IsPrivate() {
		return true
	}
	if f.teamChatID != 0 && message.Chat.ID == f.teamChatID {
		return true
	}
	log.WithField("chat_id", message.Chat.ID).Debug("Чат не обслуживается")
	return false
}
