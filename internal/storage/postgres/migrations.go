// Package postgres — migrations.go выполняет встроенные SQL-миграции.
// Миграции применяются последовательно по номеру; применённые версии
// фиксируются в таблице schema_migrations.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Migrate применяет все миграции по порядку.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("ошибка создания таблицы миграций: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Employees},
		{2, migration002Gratitudes},
		{3, migration003Badges},
		{4, migration004Seed},
	}

	for _, m := range migrations {
		if err := execMigration(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}

	return nil
}

// execMigration выполняет одну миграцию в транзакции.
// Если запрос упадёт — транзакция откатится автоматически.
func execMigration(ctx context.Context, pool *pgxpool.Pool, version int, sql string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", version,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("ошибка проверки миграции: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(ctx, sql); err != nil {
		return fmt.Errorf("ошибка выполнения миграции %d: %w", version, err)
	}

	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (version) VALUES ($1)", version,
	); err != nil {
		return fmt.Errorf("ошибка записи версии миграции: %w", err)
	}

	return tx.Commit(ctx)
}

// SQL-миграции встроены в код для упрощения деплоя.

var migration001Employees = `
CREATE TABLE IF NOT EXISTS employees (
    id VARCHAR(64) PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    department VARCHAR(255) NOT NULL,
    join_date DATE NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_employees_name ON employees(LOWER(name));
`

var migration002Gratitudes = `
CREATE TABLE IF NOT EXISTS gratitudes (
    seq BIGSERIAL PRIMARY KEY,
    id VARCHAR(64) UNIQUE NOT NULL,
    sender_id VARCHAR(64) NOT NULL REFERENCES employees(id),
    receiver_id VARCHAR(64) NOT NULL REFERENCES employees(id),
    receiver_department VARCHAR(255) NOT NULL,
    text TEXT NOT NULL,
    category VARCHAR(255) NOT NULL,
    type VARCHAR(64) NOT NULL,
    points INTEGER NOT NULL,
    extra TEXT DEFAULT '',
    date TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_gratitudes_sender ON gratitudes(sender_id);
CREATE INDEX IF NOT EXISTS idx_gratitudes_receiver ON gratitudes(receiver_id);
CREATE INDEX IF NOT EXISTS idx_gratitudes_date ON gratitudes(date DESC);
`

var migration003Badges = `
CREATE TABLE IF NOT EXISTS badges (
    id BIGSERIAL PRIMARY KEY,
    user_id VARCHAR(64) NOT NULL REFERENCES employees(id),
    badge_name VARCHAR(255) NOT NULL,
    description TEXT NOT NULL,
    date_awarded TIMESTAMPTZ NOT NULL,
    UNIQUE (user_id, badge_name)
);
`

var migration004Seed = `
INSERT INTO employees (id, name, department, join_date) VALUES
    ('u101', 'Анна', 'Продажи', '2022-03-15'),
    ('u102', 'Иван', 'Разработка', '2021-11-01'),
    ('u103', 'Мария', 'Аналитика', '2023-02-10'),
    ('u104', 'Дмитрий', 'Саппорт', '2020-08-20'),
    ('u105', 'Екатерина', 'Маркетинг', '2022-07-05'),
    ('u106', 'Сергей', 'Финансы', '2021-04-22'),
    ('u107', 'Ольга', 'Бухгалтерия', '2019-09-17'),
    ('u108', 'Роман', 'Инфраструктура', '2020-12-01')
ON CONFLICT (id) DO NOTHING;
`
