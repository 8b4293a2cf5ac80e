package discovery_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spasibo.team/recognition-bot/internal/config"
	"spasibo.team/recognition-bot/internal/features/discovery"
	"spasibo.team/recognition-bot/internal/storage"
	"spasibo.team/recognition-bot/internal/storage/jsonfile"
)

// Среда, 12 марта 2025. Начало недели — понедельник 10 марта.
func fixedNow() time.Time {
	return time.Date(2025, time.March, 12, 12, 0, 0, 0, time.UTC)
}

func testConfig() *config.Config {
	return &config.Config{
		WeeklyPointLimit:   10,
		MaxDailySamePerson: 2,
		MaxDeptPerWeek:     2,
		RewardThreshold:    15,
		ShadowDepartments:  []string{"Аналитика", "Саппорт", "Разработка", "Бухгалтерия", "Инфраструктура"},
		Categories:         []string{"Клиентский успех", "Командная помощь"},
	}
}

func newFixture(t *testing.T) (*jsonfile.Store, *discovery.Service) {
	t.Helper()
	store, err := jsonfile.New(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	svc := discovery.NewService(store, testConfig(), fixedNow).WithPerturb(func() int { return 0 })
	return store, svc
}

func addEntry(t *testing.T, store storage.Store, sender, receiver, dept, category string, date time.Time) {
	t.Helper()
	err := store.AddGratitude(context.Background(), storage.Gratitude{
		ID:                 uuid.NewString(),
		SenderID:           sender,
		ReceiverID:         receiver,
		ReceiverDepartment: dept,
		Text:               "тестовая запись для истории",
		Category:           category,
		Points:             1,
		Date:               date,
	})
	require.NoError(t, err)
}

func heroIDs(heroes []discovery.InvisibleHero) []string {
	out := make([]string, 0, len(heroes))
	for _, h := range heroes {
		out = append(out, h.ID)
	}
	return out
}

func suggestionIDs(s []discovery.Suggestion) []string {
	out := make([]string, 0, len(s))
	for _, x := range s {
		out = append(out, x.ID)
	}
	return out
}

func TestInvisibleHeroes_ShadowDepartmentsFirst(t *testing.T) {
	store, svc := newFixture(t)
	now := fixedNow()

	// Иван получил благодарность вчера — он не «невидимый».
	addEntry(t, store, "u101", "u102", "Разработка", "Командная помощь", now.AddDate(0, 0, -1))

	heroes, err := svc.InvisibleHeroes(context.Background())
	require.NoError(t, err)

	// Теневые отделы впереди, добор из остальных в исходном порядке.
	assert.Equal(t, []string{"u103", "u104", "u107", "u108", "u101"}, heroIDs(heroes))
	assert.Equal(t, 2, heroes[0].Score)
	assert.Equal(t, 0, heroes[4].Score)
}

func TestInvisibleHeroes_OldGratitudeDoesNotHide(t *testing.T) {
	store, svc := newFixture(t)
	now := fixedNow()

	// 15 дней назад — за пределами окна, Мария снова кандидат.
	addEntry(t, store, "u101", "u103", "Аналитика", "Командная помощь", now.AddDate(0, 0, -15))

	heroes, err := svc.InvisibleHeroes(context.Background())
	require.NoError(t, err)
	assert.Contains(t, heroIDs(heroes), "u103")
}

func TestInvisibleHeroes_CapsAtFive(t *testing.T) {
	_, svc := newFixture(t)

	heroes, err := svc.InvisibleHeroes(context.Background())
	require.NoError(t, err)

	require.Len(t, heroes, 5)
	assert.Equal(t, []string{"u102", "u103", "u104", "u107", "u108"}, heroIDs(heroes))
}

func TestInvisibleHeroes_PerturbShiftsScore(t *testing.T) {
	store, err := jsonfile.New(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	svc := discovery.NewService(store, testConfig(), fixedNow).WithPerturb(func() int { return 2 })

	heroes, err := svc.InvisibleHeroes(context.Background())
	require.NoError(t, err)

	// Теневой отдел: 2 + довесок 2 = 4.
	assert.Equal(t, "u102", heroes[0].ID)
	assert.Equal(t, 4, heroes[0].Score)
}

func TestWeeklyHero_ScoreBreakdown(t *testing.T) {
	store, svc := newFixture(t)
	now := fixedNow()

	// Екатерина: 3 благодарности из 2 отделов-отправителей в 2 категориях.
	addEntry(t, store, "u101", "u105", "Маркетинг", "Командная помощь", now.Add(-4*time.Hour))
	addEntry(t, store, "u102", "u105", "Маркетинг", "Клиентский успех", now.Add(-3*time.Hour))
	addEntry(t, store, "u101", "u105", "Маркетинг", "Командная помощь", now.Add(-2*time.Hour))
	// Сергей: одна благодарность для сравнения.
	addEntry(t, store, "u103", "u106", "Финансы", "Командная помощь", now.Add(-time.Hour))
	// Прошлая неделя не считается.
	addEntry(t, store, "u104", "u106", "Финансы", "Командная помощь", now.AddDate(0, 0, -7))

	heroes, err := svc.WeeklyHero(context.Background())
	require.NoError(t, err)

	require.Len(t, heroes, 2)

	top := heroes[0]
	assert.Equal(t, "u105", top.Receiver.ID)
	assert.Equal(t, "Екатерина", top.Receiver.Name)
	assert.Equal(t, 3, top.Total)
	assert.Equal(t, 2, top.DepartmentCount)
	// Категории в порядке первого появления.
	assert.Equal(t, []string{"Командная помощь", "Клиентский успех"}, top.Categories)
	// 3 + 1.5×2 + 0.5×2 = 7.
	assert.InDelta(t, 7.0, top.Score, 1e-9)

	assert.Equal(t, "u106", heroes[1].Receiver.ID)
	assert.InDelta(t, 3.0, heroes[1].Score, 1e-9)
}

func TestWeeklyHero_DepartmentsAreSenderDepartments(t *testing.T) {
	store, svc := newFixture(t)
	now := fixedNow()

	// Оба отправителя из одного отдела (снимки отделов получателя в
	// записях разные — они не должны влиять на подсчёт).
	addEntry(t, store, "u101", "u105", "Маркетинг", "Командная помощь", now.Add(-2*time.Hour))
	addEntry(t, store, "u101", "u105", "Другой снимок", "Клиентский успех", now.Add(-time.Hour))

	heroes, err := svc.WeeklyHero(context.Background())
	require.NoError(t, err)

	require.Len(t, heroes, 1)
	assert.Equal(t, 1, heroes[0].DepartmentCount)
}

func TestWeeklyHero_UnknownSenderSkippedInDepartments(t *testing.T) {
	store, svc := newFixture(t)
	now := fixedNow()

	addEntry(t, store, "u999", "u105", "Маркетинг", "Командная помощь", now.Add(-time.Hour))

	heroes, err := svc.WeeklyHero(context.Background())
	require.NoError(t, err)

	require.Len(t, heroes, 1)
	assert.Equal(t, 1, heroes[0].Total)
	assert.Equal(t, 0, heroes[0].DepartmentCount)
}

func TestWeeklyHero_CapsAtThree(t *testing.T) {
	store, svc := newFixture(t)
	now := fixedNow()

	addEntry(t, store, "u101", "u105", "Маркетинг", "Командная помощь", now.Add(-4*time.Hour))
	addEntry(t, store, "u101", "u105", "Маркетинг", "Командная помощь", now.Add(-4*time.Hour))
	addEntry(t, store, "u102", "u106", "Финансы", "Командная помощь", now.Add(-3*time.Hour))
	addEntry(t, store, "u103", "u107", "Бухгалтерия", "Командная помощь", now.Add(-2*time.Hour))
	addEntry(t, store, "u104", "u108", "Инфраструктура", "Командная помощь", now.Add(-time.Hour))

	heroes, err := svc.WeeklyHero(context.Background())
	require.NoError(t, err)

	require.Len(t, heroes, 3)
	assert.Equal(t, "u105", heroes[0].Receiver.ID)
}

func TestSuggestReceivers_ExcludesSelfAndThisWeeksReceivers(t *testing.T) {
	store, svc := newFixture(t)
	now := fixedNow()

	// Анна уже поблагодарила Ивана на этой неделе.
	addEntry(t, store, "u101", "u102", "Разработка", "Командная помощь", now.Add(-time.Hour))

	got, err := svc.SuggestReceivers(context.Background(), "u101")
	require.NoError(t, err)

	ids := suggestionIDs(got)
	assert.NotContains(t, ids, "u101")
	assert.NotContains(t, ids, "u102")
	// Невидимые герои из теневых отделов (3+2+1=6) впереди, дальше
	// просто чужие отделы (2).
	assert.Equal(t, []string{"u103", "u104", "u107", "u108", "u105", "u106"}, ids)
	assert.Equal(t, 6, got[0].Score)
	assert.Equal(t, 2, got[4].Score)
}

func TestSuggestReceivers_DepartmentPenalty(t *testing.T) {
	store, svc := newFixture(t)
	now := fixedNow()

	// Отправка в Финансы на этой неделе штрафует всех кандидатов из
	// Финансов на единицу.
	addEntry(t, store, "u101", "u999", "Финансы", "Командная помощь", now.Add(-time.Hour))

	got, err := svc.SuggestReceivers(context.Background(), "u101")
	require.NoError(t, err)

	ids := suggestionIDs(got)
	require.Len(t, ids, 6)
	// Сергей (Финансы, 2−1=1) вытеснен Екатериной (Маркетинг, 2).
	assert.NotContains(t, ids, "u106")
	assert.Equal(t, "u105", ids[5])
}

func TestSuggestReceivers_UnknownSenderGetsNoCrossDeptBonus(t *testing.T) {
	_, svc := newFixture(t)

	got, err := svc.SuggestReceivers(context.Background(), "u999")
	require.NoError(t, err)

	require.Len(t, got, 6)
	// Теневые невидимые: 3+1=4, без бонуса за чужой отдел.
	assert.Equal(t, []string{"u102", "u103", "u104", "u107", "u108", "u101"}, suggestionIDs(got))
	assert.Equal(t, 4, got[0].Score)
	assert.Equal(t, 0, got[5].Score)
}
