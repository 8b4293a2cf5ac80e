// Package jsonfile — хранилище в плоском JSON-файле.
// Всё состояние держится в памяти и после каждой записи целиком
// сбрасывается на диск. Для инструмента в темпе живого общения
// этого достаточно; транзакционность не требуется.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"spasibo.team/recognition-bot/internal/common"
	"spasibo.team/recognition-bot/internal/storage"
)

// fileData — формат файла данных.
type fileData struct {
	Employees  []storage.Employee  `json:"employees"`
	Gratitudes []storage.Gratitude `json:"gratitudes"`
	Badges     []storage.Badge     `json:"badges"`
}

// Store — файловое хранилище. Безопасно для конкурентного доступа:
// все операции проходят под одним мьютексом.
type Store struct {
	mu   sync.RWMutex
	path string
	data fileData
}

// New открывает (или создаёт с сид-данными) файл хранилища.
func New(path string) (*Store, error) {
	s := &Store{path: path}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать каталог данных: %w", err)
	}

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		s.data = seedData()
		if err := s.flush(); err != nil {
			return nil, err
		}
		log.WithField("path", path).Info("Файл данных создан с сид-данными")
	case err != nil:
		return nil, fmt.Errorf("не удалось прочитать файл данных: %w", err)
	default:
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, fmt.Errorf("повреждённый файл данных %s: %w", path, err)
		}
	}

	return s, nil
}

// flush пишет всё состояние на диск. Вызывать под mu.
func (s *Store) flush() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("сериализация данных: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("запись файла данных: %w", err)
	}
	return nil
}

func (s *Store) Employees(ctx context.Context) ([]storage.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]storage.Employee, len(s.data.Employees))
	copy(out, s.data.Employees)
	return out, nil
}

func (s *Store) EmployeeByID(ctx context.Context, id string) (*storage.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.data.Employees {
		if e.ID == id {
			emp := e
			return &emp, nil
		}
	}
	return nil, common.ErrEmployeeNotFound
}

func (s *Store) SearchEmployees(ctx context.Context, term string) ([]storage.Employee, error) {
	q := strings.ToLower(strings.TrimSpace(term))
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []storage.Employee
	for _, e := range s.data.Employees {
		if strings.Contains(strings.ToLower(e.Name), q) || strings.ToLower(e.ID) == q {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) ListGratitudes(ctx context.Context) ([]storage.Gratitude, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]storage.Gratitude, len(s.data.Gratitudes))
	copy(out, s.data.Gratitudes)
	return out, nil
}

func (s *Store) AddGratitude(ctx context.Context, g storage.Gratitude) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Gratitudes = append(s.data.Gratitudes, g)
	return s.flush()
}

func (s *Store) ListBadges(ctx context.Context) ([]storage.Badge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]storage.Badge, len(s.data.Badges))
	copy(out, s.data.Badges)
	return out, nil
}

func (s *Store) AddBadge(ctx context.Context, b storage.Badge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Badges = append(s.data.Badges, b)
	return s.flush()
}

func (s *Store) Close() {}

// seedData — стартовый состав команды. Благодарности и бейджи
// появляются только через отправку.
func seedData() fileData {
	return fileData{
		Employees: []storage.Employee{
			{ID: "u101", Name: "Анна", Department: "Продажи", JoinDate: "2022-03-15"},
			{ID: "u102", Name: "Иван", Department: "Разработка", JoinDate: "2021-11-01"},
			{ID: "u103", Name: "Мария", Department: "Аналитика", JoinDate: "2023-02-10"},
			{ID: "u104", Name: "Дмитрий", Department: "Саппорт", JoinDate: "2020-08-20"},
			{ID: "u105", Name: "Екатерина", Department: "Маркетинг", JoinDate: "2022-07-05"},
			{ID: "u106", Name: "Сергей", Department: "Финансы", JoinDate: "2021-04-22"},
			{ID: "u107", Name: "Ольга", Department: "Бухгалтерия", JoinDate: "2019-09-17"},
			{ID: "u108", Name: "Роман", Department: "Инфраструктура", JoinDate: "2020-12-01"},
		},
		Gratitudes: []storage.Gratitude{},
		Badges:     []storage.Badge{},
	}
}
