package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"trustchat/internal/domain"
)

// SessionRepository handles session and turn log persistence
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create creates a new session
func (r *SessionRepository) Create(session *domain.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO sessions (id, created_at, updated_at)
		VALUES (?, ?, ?)
	`, session.ID, session.CreatedAt, session.UpdatedAt)

	return err
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(id string) (*domain.Session, error) {
	session := &domain.Session{}

	err := r.db.QueryRow(`
		SELECT id, created_at, updated_at
		FROM sessions WHERE id = ?
	`, id).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return session, nil
}

// Touch updates a session's updated_at timestamp
func (r *SessionRepository) Touch(id string) error {
	_, err := r.db.Exec(`UPDATE sessions SET updated_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

// AppendTurn appends a turn to the session's log
func (r *SessionRepository) AppendTurn(turn *domain.Turn) error {
	if turn.ID == "" {
		turn.ID = uuid.New().String()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(`
		INSERT INTO turns (id, session_id, sender, text, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, turn.ID, turn.SessionID, turn.Sender.String(), turn.Text, turn.CreatedAt)

	return err
}

// ListTurns retrieves all turns for a session in insertion order
func (r *SessionRepository) ListTurns(sessionID string) ([]domain.Turn, error) {
	rows, err := r.db.Query(`
		SELECT id, session_id, sender, text, created_at
		FROM turns WHERE session_id = ?
		ORDER BY created_at ASC, id ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []domain.Turn
	for rows.Next() {
		var turn domain.Turn
		var sender string

		if err := rows.Scan(&turn.ID, &turn.SessionID, &sender,
			&turn.Text, &turn.CreatedAt); err != nil {
			return nil, err
		}
		turn.Sender = domain.ParseSender(sender)
		turns = append(turns, turn)
	}

	return turns, rows.Err()
}

// ClearTurns empties the session's turn log
func (r *SessionRepository) ClearTurns(sessionID string) error {
	_, err := r.db.Exec(`DELETE FROM turns WHERE session_id = ?`, sessionID)
	return err
}

// CountTurns returns the number of turns in a session's log
func (r *SessionRepository) CountTurns(sessionID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM turns WHERE session_id = ?`, sessionID).Scan(&count)
	return count, err
}
