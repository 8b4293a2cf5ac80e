package filters_test

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"

	"spasibo.team/recognition-bot/internal/bot/filters"
)

func message(chatID int64, chatType string) *tgbotapi.Message {
	return &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID, Type: chatType}}
}

func TestChatFilter(t *testing.T) {
	f := filters.NewChatFilter(-100500)

	tests := []struct {
		name string
		msg  *tgbotapi.Message
		want bool
	}{
		{"личка всегда проходит", message(42, "private"), true},
		{"чат команды проходит", message(-100500, "supergroup"), true},
		{"чужая группа отбрасывается", message(-200600, "supergroup"), false},
		{"nil-сообщение отбрасывается", nil, false},
		{"сообщение без чата отбрасывается", &tgbotapi.Message{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Allow(tt.msg))
		})
	}
}

func TestChatFilter_NoTeamChatMeansPrivateOnly(t *testing.T) {
	f := filters.NewChatFilter(0)

	assert.True(t, f.Allow(message(42, "private")))
	assert.False(t, f.Allow(message(-100500, "supergroup")))
}
