package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDB represents a SQLite database connection
type SQLiteDB struct {
	db   *sql.DB
	path string
}

// Message represents one stored conversation message
type Message struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"` // user, assistant
	Content   string    `json:"content"`
	Metadata  string    `json:"metadata"` // JSON
	CreatedAt time.Time `json:"created_at"`
}

// NewSQLiteDB creates a new SQLite database connection. busyTimeout
// bounds how long a writer waits on a locked database.
func NewSQLiteDB(dbPath string, busyTimeout time.Duration) (*SQLiteDB, error) {
	// Create directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if busyTimeout <= 0 {
		busyTimeout = 30 * time.Second
	}
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=%d",
		dbPath, busyTimeout.Milliseconds())

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	sqliteDB := &SQLiteDB{
		db:   db,
		path: dbPath,
	}

	if err := sqliteDB.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return sqliteDB, nil
}

// initSchema creates the database schema
func (db *SQLiteDB) initSchema() error {
	schema := `
    -- Sessions table
    CREATE TABLE IF NOT EXISTS sessions (
        session_id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        source TEXT DEFAULT '',
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        last_active DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    -- Messages table
    CREATE TABLE IF NOT EXISTS messages (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        session_id TEXT NOT NULL,
        user_id TEXT NOT NULL,
        role TEXT NOT NULL,
        content TEXT NOT NULL,
        metadata TEXT DEFAULT '{}',
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (session_id) REFERENCES sessions(session_id)
    );

    -- Performance metrics table
    CREATE TABLE IF NOT EXISTS performance_metrics (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        request_id TEXT NOT NULL,
        metric_name TEXT NOT NULL,
        metric_value REAL NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    -- Indexes
    CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, created_at);
    CREATE INDEX IF NOT EXISTS idx_metrics_request ON performance_metrics(request_id);
    `

	_, err := db.db.Exec(schema)
	return err
}

// EnsureSession creates the session row if it does not exist and bumps
// its last_active timestamp.
func (db *SQLiteDB) EnsureSession(sessionID, userID, source string) error {
	_, err := db.db.Exec(`
        INSERT INTO sessions (session_id, user_id, source)
        VALUES (?, ?, ?)
        ON CONFLICT(session_id) DO UPDATE SET last_active = CURRENT_TIMESTAMP`,
		sessionID, userID, source)
	return err
}

// StoreUserMessage appends the raw user query to the session history
func (db *SQLiteDB) StoreUserMessage(sessionID, userID, content string) error {
	_, err := db.db.Exec(`
        INSERT INTO messages (session_id, user_id, role, content)
        VALUES (?, ?, 'user', ?)`,
		sessionID, userID, content)
	return err
}

// StoreAssistantMessage appends an assistant response and its metadata
func (db *SQLiteDB) StoreAssistantMessage(sessionID, userID, content string, metadata interface{}) error {
	metadataJSON := "{}"
	if metadata != nil {
		if encoded, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(encoded)
		}
	}

	_, err := db.db.Exec(`
        INSERT INTO messages (session_id, user_id, role, content, metadata)
        VALUES (?, ?, 'assistant', ?, ?)`,
		sessionID, userID, content, metadataJSON)
	return err
}

// StorePerformanceMetric records one named measurement for a request
func (db *SQLiteDB) StorePerformanceMetric(requestID, name string, value float64) error {
	_, err := db.db.Exec(`
        INSERT INTO performance_metrics (request_id, metric_name, metric_value)
        VALUES (?, ?, ?)`,
		requestID, name, value)
	return err
}

// RecentMessages returns the newest messages for a session, oldest first
func (db *SQLiteDB) RecentMessages(sessionID string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.db.Query(`
        SELECT id, session_id, user_id, role, content, metadata, created_at
        FROM (
            SELECT * FROM messages
            WHERE session_id = ?
            ORDER BY created_at DESC, id DESC
            LIMIT ?
        )
        ORDER BY created_at ASC, id ASC`,
		sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.UserID, &msg.Role,
			&msg.Content, &msg.Metadata, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// Close closes the database connection
func (db *SQLiteDB) Close() error {
	return db.db.Close()
}
