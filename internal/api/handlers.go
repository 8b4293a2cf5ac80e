// Package api — handlers.go реализует обработчики веб-фронта.
// Вся логика живёт в сервисах; здесь только JSON туда-обратно.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"spasibo.team/recognition-bot/internal/features/discovery"
	"spasibo.team/recognition-bot/internal/features/gratitude"
	"spasibo.team/recognition-bot/internal/features/metrics"
	"spasibo.team/recognition-bot/internal/storage"
)

// Сколько записей отдаёт лента недели.
const feedSize = 5

// Handler держит сервисы движка для обработчиков.
type Handler struct {
	store            storage.Store
	gratitudeService *gratitude.Service
	discoveryService *discovery.Service
	metricsService   *metrics.Service
}

// NewHandler создаёт обработчики веб-API.
func NewHandler(
	store storage.Store,
	gratitudeService *gratitude.Service,
	discoveryService *discovery.Service,
	metricsService *metrics.Service,
) *Handler {
	return &Handler{
		store:            store,
		gratitudeService: gratitudeService,
		discoveryService: discoveryService,
		metricsService:   metricsService,
	}
}

// ListEmployees — GET /api/employees?q=…
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	var (
		employees []storage.Employee
		err       error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		employees, err = h.store.SearchEmployees(r.Context(), q)
	} else {
		employees, err = h.store.Employees(r.Context())
	}
	if err != nil {
		h.serverError(w, err)
		return
	}

	out := make([]employeeDTO, 0, len(employees))
	for _, e := range employees {
		out = append(out, toEmployeeDTO(e))
	}
	h.writeJSON(w, http.StatusOK, out)
}

// SubmitGratitude — POST /api/gratitudes.
// Отказ правил — это 422 со списком причин, а не 500.
func (h *Handler) SubmitGratitude(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, submitResponse{
			OK:     false,
			Errors: []string{"некорректный JSON в теле запроса"},
		})
		return
	}

	res, err := h.gratitudeService.Submit(r.Context(), gratitude.SubmitInput{
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		SBI: gratitude.SBI{
			Situation: req.Situation,
			Behavior:  req.Behavior,
			Impact:    req.Impact,
		},
		Category:         req.Category,
		Type:             req.Type,
		ExtraImpact:      req.ExtraImpact,
		PregeneratedText: req.PregeneratedText,
	})
	if err != nil {
		h.serverError(w, err)
		return
	}

	status := http.StatusCreated
	if !res.OK {
		status = http.StatusUnprocessableEntity
	}
	h.writeJSON(w, status, submitResponse{
		OK:         res.OK,
		Errors:     res.Errors,
		Entry:      res.Entry,
		PointsUsed: res.PointsUsed,
	})
}

// WeeklyFeed — GET /api/feed.
func (h *Handler) WeeklyFeed(w http.ResponseWriter, r *http.Request) {
	feed, err := h.gratitudeService.WeeklyFeed(r.Context(), feedSize)
	if err != nil {
		h.serverError(w, err)
		return
	}
	out := make([]feedItemDTO, 0, len(feed))
	for _, item := range feed {
		out = append(out, feedItemDTO{
			Entry:        item.Entry,
			SenderName:   item.SenderName,
			ReceiverName: item.ReceiverName,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

// WeeklyHero — GET /api/heroes/weekly.
func (h *Handler) WeeklyHero(w http.ResponseWriter, r *http.Request) {
	heroes, err := h.discoveryService.WeeklyHero(r.Context())
	if err != nil {
		h.serverError(w, err)
		return
	}
	out := make([]weeklyHeroDTO, 0, len(heroes))
	for _, hero := range heroes {
		out = append(out, weeklyHeroDTO{
			Receiver:        toEmployeeDTO(hero.Receiver),
			Total:           hero.Total,
			DepartmentCount: hero.DepartmentCount,
			Categories:      hero.Categories,
			Score:           hero.Score,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

// InvisibleHeroes — GET /api/heroes/invisible.
func (h *Handler) InvisibleHeroes(w http.ResponseWriter, r *http.Request) {
	heroes, err := h.discoveryService.InvisibleHeroes(r.Context())
	if err != nil {
		h.serverError(w, err)
		return
	}
	out := make([]scoredEmployeeDTO, 0, len(heroes))
	for _, hero := range heroes {
		out = append(out, scoredEmployeeDTO{
			employeeDTO: toEmployeeDTO(hero.Employee),
			Score:       hero.Score,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

// Suggestions — GET /api/employees/{id}/suggestions.
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	senderID := chi.URLParam(r, "id")
	suggestions, err := h.discoveryService.SuggestReceivers(r.Context(), senderID)
	if err != nil {
		h.serverError(w, err)
		return
	}
	out := make([]scoredEmployeeDTO, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, scoredEmployeeDTO{
			employeeDTO: toEmployeeDTO(s.Employee),
			Score:       s.Score,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

// UserMetrics — GET /api/employees/{id}/metrics.
func (h *Handler) UserMetrics(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	m, err := h.metricsService.UserMetrics(r.Context(), userID)
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, metricsDTO{
		WeekStart:             m.WeekStart,
		PointsUsed:            m.PointsUsed,
		PointsLeft:            m.PointsLeft,
		ReceivedCount:         m.ReceivedCount,
		UniqueDepartmentCount: m.UniqueDepartmentCount,
		Badges:                m.Badges,
		NextRewardPoints:      m.NextRewardPoints,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Ошибка сериализации ответа")
	}
}

func (h *Handler) serverError(w http.ResponseWriter, err error) {
	log.WithError(err).Error("Внутренняя ошибка API")
	http.Error(w, "internal error", http.StatusInternalServerError)
}
