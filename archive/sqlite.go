package archive

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

var _ Archive = &SQLiteArchive{}

// SQLiteArchive implements Archive on a local SQLite database.
type SQLiteArchive struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at dbPath and ensures the schema
// exists.
func NewSQLite(dbPath string) (*SQLiteArchive, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	a := &SQLiteArchive{db: db}
	if err := a.initDB(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return a, nil
}

func (a *SQLiteArchive) initDB() error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS turns (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		user_message TEXT NOT NULL,
		assistant_message TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id);`

	if _, err := a.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (a *SQLiteArchive) Close() error {
	return a.db.Close()
}

// RecordTurn stores a completed turn for the given session.
func (a *SQLiteArchive) RecordTurn(sessionID, userMessage, assistantMessage string) error {
	query := `
	INSERT INTO turns (id, session_id, user_message, assistant_message, created_at)
	VALUES (?, ?, ?, ?, ?)
	`
	_, err := a.db.Exec(query, uuid.NewString(), sessionID, userMessage, assistantMessage, time.Now())
	if err != nil {
		return fmt.Errorf("failed to record turn: %w", err)
	}
	return nil
}

// Turns returns the recorded turns for a session in insertion order.
func (a *SQLiteArchive) Turns(sessionID string) ([]Turn, error) {
	query := `
	SELECT id, session_id, user_message, assistant_message, created_at
	FROM turns
	WHERE session_id = ?
	ORDER BY created_at ASC, rowid ASC
	`
	rows, err := a.db.Query(query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.SessionID, &t.UserMessage, &t.AssistantMessage, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return turns, nil
}
