// Package textgen — http.go ходит за формулировкой на внешний эндпоинт.
// Контракт: POST {situation, behavior, impact} → {text}. Опциональный
// ключ передаётся как Bearer-токен. Таймаут ограничен конфигурацией.
package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPGenerator — клиент внешнего генератора формулировок.
type HTTPGenerator struct {
	endpoint string
	key      string
	client   *http.Client
}

// NewHTTPGenerator создаёт клиент с ограниченным таймаутом.
func NewHTTPGenerator(endpoint, key string, timeout time.Duration) *HTTPGenerator {
	return &HTTPGenerator{
		endpoint: endpoint,
		key:      key,
		client:   &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Situation string `json:"situation"`
	Behavior  string `json:"behavior"`
	Impact    string `json:"impact"`
}

type generateResponse struct {
	Text string `json:"text"`
}

func (g *HTTPGenerator) Generate(ctx context.Context, situation, behavior, impact string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Situation: situation,
		Behavior:  behavior,
		Impact:    impact,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.key != "" {
		req.Header.Set("Authorization", "Bearer "+g.key)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("генератор ответил статусом %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}

	text := strings.TrimSpace(out.Text)
	if text == "" {
		return "", fmt.Errorf("генератор вернул пустой текст")
	}
	return text, nil
}
