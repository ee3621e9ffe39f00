// SQLite хранилище сессий.
package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Lazizkhan1/Easify/pkg/llm"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	key           TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL DEFAULT '',
	merchant_id   TEXT NOT NULL DEFAULT '',
	branch_id     TEXT NOT NULL DEFAULT '',
	bearer_token  TEXT NOT NULL DEFAULT '',
	refresh_token TEXT NOT NULL DEFAULT '',
	lang          TEXT NOT NULL DEFAULT 'ru',
	history       TEXT NOT NULL DEFAULT '[]',
	updated_at    TEXT NOT NULL
);`

// Store — хранилище сессий на SQLite.
//
// Путь ":memory:" даёт эфемерное хранилище для тестов и разовых запусков.
type Store struct {
	db *sql.DB
}

// OpenStore открывает (или создаёт) базу сессий по указанному пути.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sessions db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sessions schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close закрывает базу.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save записывает сессию, перезаписывая старую версию с тем же ключом.
func (s *Store) Save(sess *Session) error {
	history, err := json.Marshal(sess.History())
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO sessions (key, user_id, merchant_id, branch_id, bearer_token, refresh_token, lang, history, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			user_id = excluded.user_id,
			merchant_id = excluded.merchant_id,
			branch_id = excluded.branch_id,
			bearer_token = excluded.bearer_token,
			refresh_token = excluded.refresh_token,
			lang = excluded.lang,
			history = excluded.history,
			updated_at = excluded.updated_at`,
		sess.Key(), sess.UserID(), sess.MerchantID(), sess.BranchID(),
		sess.Token(), sess.RefreshToken(), sess.Lang(), string(history),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save session '%s': %w", sess.Key(), err)
	}
	return nil
}

// Load читает сессию по ключу. Возвращает (nil, nil) если сессии нет.
func (s *Store) Load(key string) (*Session, error) {
	row := s.db.QueryRow(`
		SELECT user_id, merchant_id, branch_id, bearer_token, refresh_token, lang, history
		FROM sessions WHERE key = ?`, key)

	var userID, merchantID, branchID, bearer, refresh, lang, historyJSON string
	err := row.Scan(&userID, &merchantID, &branchID, &bearer, &refresh, &lang, &historyJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session '%s': %w", key, err)
	}

	var history []llm.Message
	if err := json.Unmarshal([]byte(historyJSON), &history); err != nil {
		return nil, fmt.Errorf("unmarshal history for '%s': %w", key, err)
	}

	sess := NewSession(key)
	sess.mu.Lock()
	sess.userID = userID
	sess.merchantID = merchantID
	sess.branchID = branchID
	sess.bearerToken = bearer
	sess.refreshToken = refresh
	sess.lang = lang
	sess.history = history
	sess.mu.Unlock()

	return sess, nil
}

// Delete удаляет сессию по ключу.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete session '%s': %w", key, err)
	}
	return nil
}
