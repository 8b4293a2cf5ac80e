// Package app инициализирует компоненты движка признаний.
// app.go — точка сборки: хранилище, генератор текста и сервисы.
// Обе точки входа (бот и веб-сервер) собирают движок здесь.
package app

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"spasibo.team/recognition-bot/internal/config"
	"spasibo.team/recognition-bot/internal/features/badges"
	"spasibo.team/recognition-bot/internal/features/discovery"
	"spasibo.team/recognition-bot/internal/features/gratitude"
	"spasibo.team/recognition-bot/internal/features/metrics"
	"spasibo.team/recognition-bot/internal/storage"
	"spasibo.team/recognition-bot/internal/storage/jsonfile"
	"spasibo.team/recognition-bot/internal/storage/postgres"
	"spasibo.team/recognition-bot/internal/textgen"
)

// App содержит собранный движок признаний.
type App struct {
	Store storage.Store

	Gratitude *gratitude.Service
	Badges    *badges.Service
	Discovery *discovery.Service
	Metrics   *metrics.Service
}

// New создаёт и инициализирует движок.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. Хранилище ===
	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// === 2. Часы ===
	loc := cfg.Location()
	now := func() time.Time { return time.Now().In(loc) }

	// === 3. Генератор текста ===
	var generator textgen.Generator = textgen.Disabled{}
	if cfg.AIEndpoint != "" {
		generator = textgen.NewHTTPGenerator(cfg.AIEndpoint, cfg.AIKey, cfg.AITimeout)
		log.WithField("endpoint", cfg.AIEndpoint).Info("Внешний генератор текста подключён")
	}

	// === 4. Сервисы ===
	badgeService := badges.NewService(store, cfg, now)
	limitValidator := gratitude.NewValidator(store, cfg)
	gratitudeService := gratitude.NewService(store, limitValidator, badgeService, generator, cfg, now)
	discoveryService := discovery.NewService(store, cfg, now)
	metricsService := metrics.NewService(store, badgeService, cfg, now)

	return &App{
		Store:     store,
		Gratitude: gratitudeService,
		Badges:    badgeService,
		Discovery: discoveryService,
		Metrics:   metricsService,
	}, nil
}

// Close освобождает ресурсы движка.
func (a *App) Close() {
	a.Store.Close()
}

// newStore выбирает бэкенд хранилища по конфигурации.
func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StoreDriver {
	case "jsonfile":
		store, err := jsonfile.New(cfg.DataFile)
		if err != nil {
			return nil, fmt.Errorf("ошибка открытия файла данных: %w", err)
		}
		return store, nil

	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ошибка миграций: %w", err)
		}
		return postgres.NewStore(pool), nil

	default:
		return nil, fmt.Errorf("неизвестный STORE_DRIVER %q", cfg.StoreDriver)
	}
}
