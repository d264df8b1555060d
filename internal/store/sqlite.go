package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/averin/shiftbot/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

// NewMemory creates an in-memory repository for testing.
func NewMemory() (Repository, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A memory database exists per connection; a second connection would
	// see an empty schema.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS work_days (
		user_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		start_time TEXT NOT NULL DEFAULT '',
		end_time TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (user_id, date)
	);

	CREATE TABLE IF NOT EXISTS work_tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		description TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_work_tasks_user_date ON work_tasks(user_id, date);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetWorkDay retrieves one user's punch record for a date.
func (s *SQLiteStore) GetWorkDay(ctx context.Context, userID int64, date string) (*domain.WorkDay, error) {
	query := `
		SELECT user_id, date, start_time, end_time
		FROM work_days WHERE user_id = ? AND date = ?`

	row := s.db.QueryRowContext(ctx, query, userID, date)

	var day domain.WorkDay
	err := row.Scan(&day.UserID, &day.Date, &day.StartTime, &day.EndTime)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan work day row: %w", err)
	}

	return &day, nil
}

// UpsertWorkDay creates or replaces the punch record for (UserID, Date).
func (s *SQLiteStore) UpsertWorkDay(ctx context.Context, day *domain.WorkDay) error {
	query := `
	INSERT INTO work_days (user_id, date, start_time, end_time)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(user_id, date) DO UPDATE SET
		start_time = excluded.start_time,
		end_time = excluded.end_time`

	_, err := s.db.ExecContext(ctx, query, day.UserID, day.Date, day.StartTime, day.EndTime)
	if err != nil {
		return fmt.Errorf("upsert work day: %w", err)
	}
	return nil
}

// AddTask appends a free-text task entry for a user and date.
func (s *SQLiteStore) AddTask(ctx context.Context, task *domain.WorkTask) error {
	query := `
	INSERT INTO work_tasks (user_id, date, description, created_at)
	VALUES (?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, query,
		task.UserID, task.Date, task.Description, task.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("insert work task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("work task insert id: %w", err)
	}
	task.ID = id
	return nil
}

// TasksForDay retrieves a user's tasks for one date, in creation order.
func (s *SQLiteStore) TasksForDay(ctx context.Context, userID int64, date string) ([]*domain.WorkTask, error) {
	query := `
		SELECT id, user_id, date, description, created_at
		FROM work_tasks WHERE user_id = ? AND date = ?
		ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer closeRows(rows, "tasks")

	return scanTasks(rows)
}

// WorkPeriod retrieves punch records and tasks within an inclusive date range.
func (s *SQLiteStore) WorkPeriod(ctx context.Context, userID int64, startDate, endDate string) ([]*domain.WorkDay, []*domain.WorkTask, error) {
	dayQuery := `
		SELECT user_id, date, start_time, end_time
		FROM work_days
		WHERE user_id = ? AND date BETWEEN ? AND ?
		ORDER BY date`

	rows, err := s.db.QueryContext(ctx, dayQuery, userID, startDate, endDate)
	if err != nil {
		return nil, nil, fmt.Errorf("query work days: %w", err)
	}
	defer closeRows(rows, "work days")

	var days []*domain.WorkDay
	for rows.Next() {
		var day domain.WorkDay
		if err := rows.Scan(&day.UserID, &day.Date, &day.StartTime, &day.EndTime); err != nil {
			return nil, nil, fmt.Errorf("scan work day row: %w", err)
		}
		days = append(days, &day)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate work days: %w", err)
	}

	taskQuery := `
		SELECT id, user_id, date, description, created_at
		FROM work_tasks
		WHERE user_id = ? AND date BETWEEN ? AND ?
		ORDER BY date, created_at, id`

	taskRows, err := s.db.QueryContext(ctx, taskQuery, userID, startDate, endDate)
	if err != nil {
		return nil, nil, fmt.Errorf("query tasks: %w", err)
	}
	defer closeRows(taskRows, "tasks")

	tasks, err := scanTasks(taskRows)
	if err != nil {
		return nil, nil, err
	}

	return days, tasks, nil
}

// ResetDay deletes the punch record and all tasks for one user and date.
func (s *SQLiteStore) ResetDay(ctx context.Context, userID int64, date string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM work_days WHERE user_id = ? AND date = ?`, userID, date); err != nil {
		return fmt.Errorf("delete work day: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM work_tasks WHERE user_id = ? AND date = ?`, userID, date); err != nil {
		return fmt.Errorf("delete work tasks: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func scanTasks(rows *sql.Rows) ([]*domain.WorkTask, error) {
	var tasks []*domain.WorkTask
	for rows.Next() {
		var task domain.WorkTask
		var createdAt int64
		if err := rows.Scan(&task.ID, &task.UserID, &task.Date, &task.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		task.CreatedAt = time.Unix(createdAt, 0)
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func closeRows(rows *sql.Rows, what string) {
	if err := rows.Close(); err != nil {
		slog.Warn("failed to close rows", "what", what, "error", err)
	}
}
