// Package postgres — store.go реализует storage.Store поверх pgxpool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"spasibo.team/recognition-bot/internal/common"
	"spasibo.team/recognition-bot/internal/storage"
)

// Store — PostgreSQL-бэкенд хранилища.
type Store struct {
	db *pgxpool.Pool
}

// NewStore оборачивает готовый пул в storage.Store.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Employees(ctx context.Context) ([]storage.Employee, error) {
	query := `SELECT id, name, department, to_char(join_date, 'YYYY-MM-DD') FROM employees ORDER BY id`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("выборка сотрудников: %w", err)
	}
	defer rows.Close()

	var out []storage.Employee
	for rows.Next() {
		var e storage.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Department, &e.JoinDate); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) EmployeeByID(ctx context.Context, id string) (*storage.Employee, error) {
	query := `SELECT id, name, department, to_char(join_date, 'YYYY-MM-DD') FROM employees WHERE id = $1`
	var e storage.Employee
	err := s.db.QueryRow(ctx, query, id).Scan(&e.ID, &e.Name, &e.Department, &e.JoinDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("выборка сотрудника: %w", err)
	}
	return &e, nil
}

func (s *Store) SearchEmployees(ctx context.Context, term string) ([]storage.Employee, error) {
	query := `
		SELECT id, name, department, to_char(join_date, 'YYYY-MM-DD')
		FROM employees
		WHERE LOWER(name) LIKE '%' || LOWER(TRIM($1)) || '%' OR LOWER(id) = LOWER(TRIM($1))
		ORDER BY id
	`
	rows, err := s.db.Query(ctx, query, term)
	if err != nil {
		return nil, fmt.Errorf("поиск сотрудников: %w", err)
	}
	defer rows.Close()

	var out []storage.Employee
	for rows.Next() {
		var e storage.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Department, &e.JoinDate); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) ListGratitudes(ctx context.Context) ([]storage.Gratitude, error) {
	query := `
		SELECT id, sender_id, receiver_id, receiver_department,
		       text, category, type, points, extra, date
		FROM gratitudes ORDER BY seq
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("выборка благодарностей: %w", err)
	}
	defer rows.Close()

	var out []storage.Gratitude
	for rows.Next() {
		var g storage.Gratitude
		var date time.Time
		if err := rows.Scan(
			&g.ID, &g.SenderID, &g.ReceiverID, &g.ReceiverDepartment,
			&g.Text, &g.Category, &g.Type, &g.Points, &g.Extra, &date,
		); err != nil {
			return nil, err
		}
		g.Date = date
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) AddGratitude(ctx context.Context, g storage.Gratitude) error {
	query := `
		INSERT INTO gratitudes
			(id, sender_id, receiver_id, receiver_department, text, category, type, points, extra, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.Exec(ctx, query,
		g.ID, g.SenderID, g.ReceiverID, g.ReceiverDepartment,
		g.Text, g.Category, g.Type, g.Points, g.Extra, g.Date,
	)
	if err != nil {
		return fmt.Errorf("запись благодарности: %w", err)
	}
	return nil
}

func (s *Store) ListBadges(ctx context.Context) ([]storage.Badge, error) {
	query := `SELECT user_id, badge_name, description, date_awarded FROM badges ORDER BY id`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("выборка бейджей: %w", err)
	}
	defer rows.Close()

	var out []storage.Badge
	for rows.Next() {
		var b storage.Badge
		if err := rows.Scan(&b.UserID, &b.BadgeName, &b.Description, &b.DateAwarded); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) AddBadge(ctx context.Context, b storage.Badge) error {
	// UNIQUE (user_id, badge_name) страхует инвариант «один бейдж
	// каждого имени на пользователя» и на уровне базы.
	query := `
		INSERT INTO badges (user_id, badge_name, description, date_awarded)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, badge_name) DO NOTHING
	`
	_, err := s.db.Exec(ctx, query, b.UserID, b.BadgeName, b.Description, b.DateAwarded)
	if err != nil {
		return fmt.Errorf("запись бейджа: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	s.db.Close()
}
