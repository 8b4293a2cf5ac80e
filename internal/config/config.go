// Package config загружает конфигурацию сервиса из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Telegram ---
	// Токен обязателен только для cmd/bot, веб-сервер работает без него.
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	// Чат команды: сюда уходят еженедельные анонсы. 0 — анонсы выключены.
	TeamChatID int64 `envconfig:"TEAM_CHAT_ID"`

	// --- Storage ---
	// jsonfile — плоский JSON-файл (по умолчанию), postgres — pgx-пул.
	StoreDriver string `envconfig:"STORE_DRIVER" default:"jsonfile"`
	DataFile    string `envconfig:"DATA_FILE" default:"data/data.json"`

	// --- Database (для STORE_DRIVER=postgres) ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose).
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"botuser"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"recognition"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Europe/Moscow"`

	// --- HTTP (cmd/server) ---
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// --- Bot runtime ---
	// Сколько апдейтов обрабатываем параллельно.
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	// Таймаут long polling (секунды)
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Правила признаний ---
	WeeklyPointLimit   int `envconfig:"WEEKLY_POINT_LIMIT" default:"10"`
	MaxDailySamePerson int `envconfig:"MAX_DAILY_SAME_PERSON" default:"2"`
	MaxDeptPerWeek     int `envconfig:"MAX_DEPT_PER_WEEK" default:"2"`
	// Порог «следующей награды» в метриках. Намеренно выше недельного
	// лимита — двухуровневая система наград.
	RewardThreshold int `envconfig:"REWARD_THRESHOLD" default:"15"`

	// «Теневые» отделы — редко получают благодарности, их кандидаты
	// получают бонус в эвристиках.
	ShadowDepartmentsRaw string   `envconfig:"SHADOW_DEPARTMENTS" default:"Аналитика,Саппорт,Разработка,Бухгалтерия,Инфраструктура"`
	ShadowDepartments    []string `envconfig:"-"`

	CategoriesRaw string   `envconfig:"CATEGORIES" default:"Клиентский успех,Решение критической ситуации,Командная помощь,Экспертность / обучение,Качество / надежность,Инновация и улучшение процессов"`
	Categories    []string `envconfig:"-"`

	// --- Генерация текста (опционально) ---
	// Если AI_SBI_ENDPOINT пуст — работает эвристический синтез.
	AIEndpoint string        `envconfig:"AI_SBI_ENDPOINT"`
	AIKey      string        `envconfig:"AI_SBI_KEY"`
	AITimeout  time.Duration `envconfig:"AI_SBI_TIMEOUT" default:"5s"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// Location возвращает часовой пояс приложения.
// Если зону загрузить не удалось — фиксированный UTC+3.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.AppTimezone)
	if err != nil {
		return time.FixedZone("MSK", 3*60*60)
	}
	return loc
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// IsShadowDepartment сообщает, входит ли отдел в список «теневых».
func (c *Config) IsShadowDepartment(dept string) bool {
	for _, d := range c.ShadowDepartments {
		if d == dept {
			return true
		}
	}
	return false
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "jsonfile":
		if c.DataFile == "" {
			return fmt.Errorf("DATA_FILE не задан")
		}
	case "postgres":
		if c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD обязателен при STORE_DRIVER=postgres")
		}
		if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
		}
	default:
		return fmt.Errorf("неизвестный STORE_DRIVER %q", c.StoreDriver)
	}
	if c.WeeklyPointLimit <= 0 {
		return fmt.Errorf("WEEKLY_POINT_LIMIT должен быть > 0")
	}
	if c.MaxDailySamePerson <= 0 || c.MaxDeptPerWeek <= 0 {
		return fmt.Errorf("лимиты MAX_DAILY_SAME_PERSON/MAX_DEPT_PER_WEEK должны быть > 0")
	}
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("CATEGORIES не заданы")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	cfg.ShadowDepartments = splitCSV(cfg.ShadowDepartmentsRaw)
	cfg.Categories = splitCSV(cfg.CategoriesRaw)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
