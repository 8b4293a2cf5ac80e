package metrics_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spasibo.team/recognition-bot/internal/config"
	"spasibo.team/recognition-bot/internal/features/badges"
	"spasibo.team/recognition-bot/internal/features/metrics"
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
	}
}

func newFixture(t *testing.T) (*jsonfile.Store, *metrics.Service) {
	t.Helper()
	store, err := jsonfile.New(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	cfg := testConfig()
	svc := metrics.NewService(store, badges.NewService(store, cfg, fixedNow), cfg, fixedNow)
	return store, svc
}

func addEntry(t *testing.T, store storage.Store, sender, receiver string, points int, date time.Time) {
	t.Helper()
	err := store.AddGratitude(context.Background(), storage.Gratitude{
		ID:                 uuid.NewString(),
		SenderID:           sender,
		ReceiverID:         receiver,
		ReceiverDepartment: "отдел",
		Text:               "тестовая запись для истории",
		Category:           "Командная помощь",
		Points:             points,
		Date:               date,
	})
	require.NoError(t, err)
}

func TestUserMetrics_FreshWeek(t *testing.T) {
	_, svc := newFixture(t)

	m, err := svc.UserMetrics(context.Background(), "u101")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), m.WeekStart)
	assert.Equal(t, 0, m.PointsUsed)
	assert.Equal(t, 10, m.PointsLeft)
	assert.Equal(t, 0, m.ReceivedCount)
	assert.Equal(t, 0, m.UniqueDepartmentCount)
	assert.Empty(t, m.Badges)
	assert.Equal(t, 15, m.NextRewardPoints)
}

func TestUserMetrics_CountsWeekActivity(t *testing.T) {
	store, svc := newFixture(t)
	now := fixedNow()

	// Потрачено 4 балла на этой неделе.
	addEntry(t, store, "u101", "u105", 3, now.Add(-3*time.Hour))
	addEntry(t, store, "u101", "u106", 1, now.Add(-2*time.Hour))
	// Получено из двух отделов: Разработка (u102) и Аналитика (u103),
	// повтор из Разработки отдел не удваивает.
	addEntry(t, store, "u102", "u101", 1, now.Add(-4*time.Hour))
	addEntry(t, store, "u103", "u101", 1, now.Add(-3*time.Hour))
	addEntry(t, store, "u102", "u101", 1, now.Add(-time.Hour))
	// Прошлая неделя в сводку не входит.
	addEntry(t, store, "u101", "u107", 3, now.AddDate(0, 0, -7))
	addEntry(t, store, "u104", "u101", 1, now.AddDate(0, 0, -7))

	m, err := svc.UserMetrics(context.Background(), "u101")
	require.NoError(t, err)

	assert.Equal(t, 4, m.PointsUsed)
	assert.Equal(t, 6, m.PointsLeft)
	assert.Equal(t, 3, m.ReceivedCount)
	assert.Equal(t, 2, m.UniqueDepartmentCount)
	assert.Equal(t, 11, m.NextRewardPoints)
}

func TestUserMetrics_PointsLeftNeverNegative(t *testing.T) {
	store, svc := newFixture(t)
	now := fixedNow()

	// 12 баллов в истории (больше лимита — например, после смены лимита).
	addEntry(t, store, "u101", "u102", 3, now.Add(-4*time.Hour))
	addEntry(t, store, "u101", "u103", 3, now.Add(-3*time.Hour))
	addEntry(t, store, "u101", "u104", 3, now.Add(-2*time.Hour))
	addEntry(t, store, "u101", "u105", 3, now.Add(-time.Hour))

	m, err := svc.UserMetrics(context.Background(), "u101")
	require.NoError(t, err)

	assert.Equal(t, 12, m.PointsUsed)
	assert.Equal(t, 0, m.PointsLeft)
	assert.Equal(t, 3, m.NextRewardPoints)
}

func TestUserMetrics_UnknownSenderSkippedInDepartments(t *testing.T) {
	store, svc := newFixture(t)
	now := fixedNow()

	addEntry(t, store, "u999", "u101", 1, now.Add(-time.Hour))

	m, err := svc.UserMetrics(context.Background(), "u101")
	require.NoError(t, err)

	assert.Equal(t, 1, m.ReceivedCount)
	assert.Equal(t, 0, m.UniqueDepartmentCount)
}

func TestUserMetrics_IncludesBadges(t *testing.T) {
	store, svc := newFixture(t)

	err := store.AddBadge(context.Background(), storage.Badge{
		UserID:      "u101",
		BadgeName:   badges.GenerousColleague,
		Description: "Использовал весь недельный лимит благодарностей",
		DateAwarded: fixedNow(),
	})
	require.NoError(t, err)

	m, err := svc.UserMetrics(context.Background(), "u101")
	require.NoError(t, err)

	require.Len(t, m.Badges, 1)
	assert.Equal(t, badges.GenerousColleague, m.Badges[0].BadgeName)
}
