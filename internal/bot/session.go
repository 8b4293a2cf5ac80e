// Package bot — session.go хранит состояние диалога отправки.
// Диалог ведётся по шагам: получатель → S → B → I → категория →
// тип → (уточнение для «большого вклада») → подтверждение.
package bot

import "sync"

// Шаги диалога отправки благодарности.
const (
	stepChooseReceiver = "choose_receiver"
	stepSituation      = "s"
	stepBehavior       = "b"
	stepImpact         = "i"
	stepCategory       = "category"
	stepType           = "type"
	stepExtra          = "extra"
	stepConfirm        = "confirm"
)

// session — накопленный черновик одного пользователя.
type session struct {
	Step       string
	ReceiverID string
	Situation  string
	Behavior   string
	Impact     string
	Category   string
	Type       string
	Extra      string
}

// sessionStore — потокобезопасная карта диалогов по telegram user id.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[int64]*session)}
}

func (s *sessionStore) get(userID int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[userID]
}

func (s *sessionStore) set(userID int64, sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = sess
}

func (s *sessionStore) drop(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
