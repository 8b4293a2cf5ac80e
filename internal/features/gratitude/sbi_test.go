package gratitude_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"spasibo.team/recognition-bot/internal/features/gratitude"
)

func validSBI() gratitude.SBI {
	return gratitude.SBI{
		Situation: "Закончился кофе в офисе",
		Behavior:  "принёс новый за свой счёт",
		Impact:    "команда взбодрилась и доделала релиз",
	}
}

func TestValidateSBI_Bounds(t *testing.T) {
	short := strings.Repeat("а", 9)
	min := strings.Repeat("а", 10)
	max := strings.Repeat("а", 320)
	long := strings.Repeat("а", 321)

	tests := []struct {
		name    string
		part    string
		wantErr string
	}{
		{"9 символов — слишком коротко", short, "слишком короткая"},
		{"10 символов проходит", min, ""},
		{"320 символов проходит", max, ""},
		{"321 символ — слишком длинно", long, "слишком длинная"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := gratitude.ValidateSBI(gratitude.SBI{Situation: tt.part, Behavior: min, Impact: min})
			if tt.wantErr == "" {
				assert.Empty(t, errs)
			} else {
				assert.Len(t, errs, 1)
				assert.Contains(t, errs[0], "Часть 1")
				assert.Contains(t, errs[0], tt.wantErr)
			}
		})
	}
}

func TestValidateSBI_AllViolationsTogetherInOrder(t *testing.T) {
	errs := gratitude.ValidateSBI(gratitude.SBI{
		Situation: "коротко",
		Behavior:  strings.Repeat("б", 321),
		Impact:    "тоже мало",
	})

	// Одно сообщение на часть, порядок S → B → I.
	assert.Len(t, errs, 3)
	assert.Contains(t, errs[0], "Часть 1")
	assert.Contains(t, errs[0], "короткая")
	assert.Contains(t, errs[1], "Часть 2")
	assert.Contains(t, errs[1], "длинная")
	assert.Contains(t, errs[2], "Часть 3")
	assert.Contains(t, errs[2], "короткая")
}

func TestValidateSBI_TrimsBeforeCounting(t *testing.T) {
	padded := "   " + strings.Repeat("а", 9) + "   "
	errs := gratitude.ValidateSBI(gratitude.SBI{
		Situation: padded,
		Behavior:  strings.Repeat("б", 10),
		Impact:    strings.Repeat("в", 10),
	})
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "короткая")
}

func TestBuildSentence_RefinesAllParts(t *testing.T) {
	got := gratitude.BuildSentence(validSBI())

	want := "🤗 Спасибо тебе! Когда у нас закончился кофе в офисе, " +
		"ты оперативно принёс новый за свой счёт. " +
		"Благодаря твоей помощи команда взбодрилась и доделала релиз. " +
		"Я это очень ценю!"
	assert.Equal(t, want, got)
}

func TestBuildSentence_StripsLeadingDashAndLowercases(t *testing.T) {
	got := gratitude.BuildSentence(gratitude.SBI{
		Situation: "Сдавали квартальный отчёт",
		Behavior:  "— Помог с релизом ночью",
		Impact:    "все выдохнули спокойно",
	})

	assert.Contains(t, got, "ты оперативно помог с релизом ночью")
	// Ситуация без триггера поломки — зачин «у нас» не подставляется.
	assert.Contains(t, got, "Когда сдавали квартальный отчёт,")
	// Влияние начинается с «все» — подлежащее не дублируется.
	assert.Contains(t, got, "Благодаря твоей помощи все выдохнули спокойно.")
}

func TestBuildSentence_KeepsExistingOpeners(t *testing.T) {
	got := gratitude.BuildSentence(gratitude.SBI{
		Situation: "У нас сломался деплой перед демо",
		Behavior:  "быстро нашёл причину",
		Impact:    "мы показали демо вовремя",
	})

	assert.Contains(t, got, "Когда у нас сломался деплой перед демо,")
	assert.NotContains(t, got, "у нас у нас")
	assert.Contains(t, got, "ты быстро нашёл причину")
	assert.Contains(t, got, "Благодаря твоей помощи мы показали демо вовремя.")
}

func TestPickEmoji(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"клиентская тема", "спас сделку с клиентом", "🤝"},
		{"приоритет: клиент раньше команды", "клиент благодарил всю команду", "🤝"},
		{"авария", "потушил аварию на проде", "⏱️"},
		{"командная помощь", "помощь всей команде", "🤗"},
		{"обучение", "провёл обучение новичков", "📚"},
		{"надёжность", "поднял надёжность сервиса", "🛡️"},
		{"улучшение", "улучшил процесс ревью", "✨"},
		{"дефолт", "просто хороший день", "🌟"},
		{"регистр не важен", "КЛИЕНТ доволен", "🤝"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gratitude.PickEmoji(tt.text))
		})
	}
}
