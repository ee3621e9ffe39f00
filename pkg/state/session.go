// Package state хранит сессии пользователей.
//
// Сессия — это авторизационный контекст (токены, merchant_id, branch_id),
// язык общения и история диалога с агентом. Каждый фронтенд (консоль,
// TUI, телеграм) держит по сессии на пользователя; все они переживают
// рестарт процесса через SQLite store.
package state

import (
	"sync"

	"github.com/Lazizkhan1/Easify/pkg/llm"
	"github.com/Lazizkhan1/Easify/pkg/oygul"
)

// Session — сессия одного пользователя. Thread-safe.
type Session struct {
	mu sync.RWMutex

	key          string
	userID       string
	merchantID   string
	branchID     string
	bearerToken  string
	refreshToken string
	lang         string
	history      []llm.Message
}

// NewSession создаёт пустую сессию с ключом фронтенда
// (например, "console" или telegram chat id).
func NewSession(key string) *Session {
	return &Session{
		key:  key,
		lang: "ru",
	}
}

// Key возвращает ключ сессии.
func (s *Session) Key() string {
	return s.key
}

// SetCredentials записывает результат логина в сессию.
func (s *Session) SetCredentials(creds *oygul.Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = creds.UserID
	s.merchantID = creds.MerchantID
	s.branchID = creds.BranchID
	s.bearerToken = creds.Token
	s.refreshToken = creds.RefreshToken
}

// SetTokens обновляет пару токенов после refresh.
func (s *Session) SetTokens(bearer, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bearerToken = bearer
	if refresh != "" {
		s.refreshToken = refresh
	}
}

// SetLang выставляет язык общения: "uz", "ru" или "en".
func (s *Session) SetLang(lang string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lang = lang
}

// Authorized сообщает есть ли в сессии действующий bearer токен.
func (s *Session) Authorized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bearerToken != ""
}

// Token возвращает bearer токен.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bearerToken
}

// RefreshToken возвращает refresh токен.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// UserID возвращает id пользователя.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// MerchantID возвращает id мерчанта.
func (s *Session) MerchantID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.merchantID
}

// BranchID возвращает id филиала.
func (s *Session) BranchID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.branchID
}

// Lang возвращает язык общения.
func (s *Session) Lang() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// AppendHistory дописывает сообщения в историю диалога.
func (s *Session) AppendHistory(msgs ...llm.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, msgs...)
}

// History возвращает копию истории диалога.
func (s *Session) History() []llm.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]llm.Message, len(s.history))
	copy(out, s.history)
	return out
}

// ResetHistory очищает историю диалога, сохраняя авторизацию.
func (s *Session) ResetHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}
