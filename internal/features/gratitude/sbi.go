// Package gratitude реализует движок признаний: правила лимитов,
// SBI-конвейер и отправку благодарности.
//
// sbi.go — конвейер текста: валидация длины частей, нормализация,
// смысловая доводка каждой части и сборка итоговой фразы с эмодзи.
package gratitude

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Границы длины одной части SBI (в символах, после trim).
const (
	sbiMinLen = 10
	sbiMaxLen = 320
)

// SBI — сырые части «ситуация / поведение / влияние».
type SBI struct {
	Situation string
	Behavior  string
	Impact    string
}

// ValidateSBI проверяет длину каждой части. Все нарушения собираются
// разом, по одной строке на часть, в порядке S → B → I.
func ValidateSBI(sbi SBI) []string {
	parts := []string{sbi.Situation, sbi.Behavior, sbi.Impact}
	var errs []string
	for i, p := range parts {
		n := utf8.RuneCountInString(strings.TrimSpace(p))
		if n < sbiMinLen {
			errs = append(errs, fmt.Sprintf("Часть %d слишком короткая (мин. %d символов)", i+1, sbiMinLen))
		}
		if n > sbiMaxLen {
			errs = append(errs, fmt.Sprintf("Часть %d слишком длинная (макс. %d символов)", i+1, sbiMaxLen))
		}
	}
	return errs
}

var leadingDash = regexp.MustCompile(`^[–—-]\s*`)

// normalizePart готовит часть к встраиванию в середину предложения:
// срезает ведущее тире и опускает первую букву.
func normalizePart(part string) string {
	trimmed := leadingDash.ReplaceAllString(strings.TrimSpace(part), "")
	if trimmed == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(trimmed)
	return string(unicode.ToLower(r)) + trimmed[size:]
}

// Триггеры «что-то сломалось/закончилось» и уже готовые зачины от
// первого лица.
var (
	situationTrigger = regexp.MustCompile(`(закончилась|закончился|кончилась|кончился|сломался|сломалась|пропал|пропала|не хватило)`)
	situationOpener  = regexp.MustCompile(`^у\s(нас|меня|команды)`)
)

// refineSituation добавляет зачин «у нас», если ситуация описывает
// поломку или нехватку и ещё не начинается с притяжательного оборота.
func refineSituation(s string) string {
	text := normalizePart(s)
	if text == "" {
		return ""
	}
	lower := strings.ToLower(text)
	if situationTrigger.MatchString(lower) && !situationOpener.MatchString(lower) {
		text = "у нас " + text
	}
	return text
}

var behaviorAdverbs = []string{"оперативно", "быстро", "профессионально", "заботливо"}

// refineBehavior подставляет наречие образа действия, если его нет.
func refineBehavior(b string) string {
	text := normalizePart(b)
	if text == "" {
		return ""
	}
	for _, adv := range behaviorAdverbs {
		if strings.HasPrefix(text, adv) {
			return text
		}
	}
	return behaviorAdverbs[0] + " " + text
}

var impactSubjects = []string{"мы", "команда", "отдел", "все"}

// refineImpact подставляет коллективное подлежащее, если его нет.
func refineImpact(i string) string {
	text := normalizePart(i)
	if text == "" {
		return ""
	}
	for _, w := range impactSubjects {
		if strings.HasPrefix(text, w) {
			return text
		}
	}
	return "мы " + text
}

// emojiRule — набор ключевых слов и эмодзи темы.
// Правила перебираются сверху вниз, побеждает первое совпадение —
// это данные, а не вложенные условия, чтобы легко расширять.
type emojiRule struct {
	keywords []string
	emoji    string
}

var emojiRules = []emojiRule{
	{[]string{"клиент", "customer", "сделк"}, "🤝"},
	{[]string{"срочн", "крит", "авар"}, "⏱️"},
	{[]string{"команд", "помощ"}, "🤗"},
	{[]string{"обуч", "эксперт"}, "📚"},
	{[]string{"качество", "надёж", "надеж"}, "🛡️"},
	{[]string{"иннова", "улучш"}, "✨"},
}

const defaultEmoji = "🌟"

// PickEmoji выбирает тематический эмодзи по ключевым словам.
// Тотальная функция: любой текст получает ровно один эмодзи.
func PickEmoji(text string) string {
	t := strings.ToLower(text)
	for _, rule := range emojiRules {
		for _, kw := range rule.keywords {
			if strings.Contains(t, kw) {
				return rule.emoji
			}
		}
	}
	return defaultEmoji
}

// BuildSentence собирает итоговую фразу благодарности из сырых частей:
// доводит каждую часть и встраивает их в фиксированный шаблон.
func BuildSentence(sbi SBI) string {
	s := refineSituation(sbi.Situation)
	b := refineBehavior(sbi.Behavior)
	i := refineImpact(sbi.Impact)
	emoji := PickEmoji(s + " " + b + " " + i)
	return fmt.Sprintf("%s Спасибо тебе! Когда %s, ты %s. Благодаря твоей помощи %s. Я это очень ценю!", emoji, s, b, i)
}
