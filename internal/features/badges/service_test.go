package badges_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spasibo.team/recognition-bot/internal/config"
	"spasibo.team/recognition-bot/internal/features/badges"
	"spasibo.team/recognition-bot/internal/storage"
	"spasibo.team/recognition-bot/internal/storage/jsonfile"
)

func fixedNow() time.Time {
	return time.Date(2025, time.March, 12, 12, 0, 0, 0, time.UTC)
}

func newFixture(t *testing.T) (*jsonfile.Store, *badges.Service) {
	t.Helper()
	store, err := jsonfile.New(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	svc := badges.NewService(store, &config.Config{WeeklyPointLimit: 10}, fixedNow)
	return store, svc
}

func entry(sender, receiver string, points int) storage.Gratitude {
	return storage.Gratitude{
		ID:         "g1",
		SenderID:   sender,
		ReceiverID: receiver,
		Points:     points,
		Date:       fixedNow(),
	}
}

func TestEvaluate_NoBadgesForOrdinaryEntry(t *testing.T) {
	store, svc := newFixture(t)

	require.NoError(t, svc.Evaluate(context.Background(), entry("u101", "u102", 1), 1))

	all, err := store.ListBadges(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestEvaluate_BigContributionGoesToReceiver(t *testing.T) {
	store, svc := newFixture(t)

	require.NoError(t, svc.Evaluate(context.Background(), entry("u101", "u102", 3), 3))

	all, err := store.ListBadges(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "u102", all[0].UserID)
	assert.Equal(t, badges.BigContribution, all[0].BadgeName)
	assert.Equal(t, fixedNow(), all[0].DateAwarded)
}

func TestEvaluate_GenerousColleagueGoesToSender(t *testing.T) {
	store, svc := newFixture(t)

	require.NoError(t, svc.Evaluate(context.Background(), entry("u101", "u102", 1), 10))

	all, err := store.ListBadges(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "u101", all[0].UserID)
	assert.Equal(t, badges.GenerousColleague, all[0].BadgeName)
}

func TestEvaluate_BothBadgesAtOnce(t *testing.T) {
	store, svc := newFixture(t)

	// Большой вклад, добивший недельный лимит отправителя.
	require.NoError(t, svc.Evaluate(context.Background(), entry("u101", "u102", 3), 10))

	all, err := store.ListBadges(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestEvaluate_Idempotent(t *testing.T) {
	store, svc := newFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Evaluate(ctx, entry("u101", "u102", 3), 10))
	require.NoError(t, svc.Evaluate(ctx, entry("u101", "u102", 3), 13))

	all, err := store.ListBadges(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUserBadges_FiltersByUser(t *testing.T) {
	_, svc := newFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Evaluate(ctx, entry("u101", "u102", 3), 10))

	got, err := svc.UserBadges(ctx, "u102")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, badges.BigContribution, got[0].BadgeName)

	got, err = svc.UserBadges(ctx, "u103")
	require.NoError(t, err)
	assert.Empty(t, got)
}
