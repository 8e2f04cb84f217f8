package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	// memoryCap is the maximum number of entries kept per session.
	memoryCap = 10
	// memoryMaxChars is the maximum length of a single memory entry.
	memoryMaxChars = 400
)

// Store defines the interface for database operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetSession retrieves a session by sender JID. Returns nil, nil if not found.
	GetSession(ctx context.Context, jid string) (*Session, error)

	// EnsureSession creates a default session (mode ai, not greeted, empty
	// memory) if absent and returns the current record. Idempotent.
	EnsureSession(ctx context.Context, jid string) (*Session, error)

	// SetSessionMode overwrites a session's mode, creating the session first
	// if needed.
	SetSessionMode(ctx context.Context, jid string, mode Mode) error

	// MarkGreeted sets the one-time greeting flag on a session.
	MarkGreeted(ctx context.Context, jid string) error

	// ListSessionsByMode retrieves all sessions currently in the given mode.
	ListSessionsByMode(ctx context.Context, mode Mode) ([]Session, error)

	// AppendMemory appends one conversation turn to a session's memory,
	// truncating the text and evicting the oldest entries beyond the cap.
	AppendMemory(ctx context.Context, jid, role, content string) error

	// GetMemory retrieves a session's memory entries in chronological order.
	GetMemory(ctx context.Context, jid string) ([]MemoryEntry, error)

	// CreateOrder assigns the next sequential order ID and inserts the record.
	// The counter increment and the insert share one transaction.
	CreateOrder(ctx context.Context, order *Order) error

	// GetOrder retrieves an order by ID. Returns nil, nil if not found.
	GetOrder(ctx context.Context, orderID string) (*Order, error)

	// ListOrders retrieves all orders in creation order.
	ListOrders(ctx context.Context) ([]Order, error)

	// UpdateOrder overwrites an existing order record.
	UpdateOrder(ctx context.Context, order *Order) error

	// DeleteOrder removes an order. The ID counter is never decremented, so
	// IDs are not reused. Returns false if the order did not exist.
	DeleteOrder(ctx context.Context, orderID string) (bool, error)
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) GetSession(ctx context.Context, jid string) (*Session, error) {
	if jid == "" {
		return nil, fmt.Errorf("jid cannot be empty")
	}

	var session Session
	query := `SELECT jid, mode, greeted, created_at, updated_at FROM sessions WHERE jid = ?`

	err := s.db.GetContext(ctx, &session, query, jid)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting session", "jid", jid, "error", err)
		return nil, fmt.Errorf("failed to get session for %s: %w", jid, err)
	}

	return &session, nil
}

func (s *sqlxStore) EnsureSession(ctx context.Context, jid string) (*Session, error) {
	if jid == "" {
		return nil, fmt.Errorf("jid cannot be empty")
	}

	now := time.Now().UTC()
	query := `
        INSERT INTO sessions (jid, mode, greeted, created_at, updated_at)
        VALUES (?, ?, 0, ?, ?)
        ON CONFLICT (jid) DO NOTHING;
    `
	if _, err := s.db.ExecContext(ctx, query, jid, ModeAI, now, now); err != nil {
		s.logger.ErrorContext(ctx, "Error ensuring session", "jid", jid, "error", err)
		return nil, fmt.Errorf("failed to ensure session for %s: %w", jid, err)
	}

	return s.GetSession(ctx, jid)
}

func (s *sqlxStore) SetSessionMode(ctx context.Context, jid string, mode Mode) error {
	if _, err := s.EnsureSession(ctx, jid); err != nil {
		return err
	}

	query := `UPDATE sessions SET mode = ?, updated_at = ? WHERE jid = ?`
	if _, err := s.db.ExecContext(ctx, query, mode, time.Now().UTC(), jid); err != nil {
		s.logger.ErrorContext(ctx, "Error setting session mode", "jid", jid, "mode", mode, "error", err)
		return fmt.Errorf("failed to set mode for %s: %w", jid, err)
	}

	s.logger.DebugContext(ctx, "Session mode updated", "jid", jid, "mode", mode)
	return nil
}

func (s *sqlxStore) MarkGreeted(ctx context.Context, jid string) error {
	if _, err := s.EnsureSession(ctx, jid); err != nil {
		return err
	}

	query := `UPDATE sessions SET greeted = 1, updated_at = ? WHERE jid = ?`
	if _, err := s.db.ExecContext(ctx, query, time.Now().UTC(), jid); err != nil {
		s.logger.ErrorContext(ctx, "Error marking session greeted", "jid", jid, "error", err)
		return fmt.Errorf("failed to mark session greeted for %s: %w", jid, err)
	}
	return nil
}

func (s *sqlxStore) ListSessionsByMode(ctx context.Context, mode Mode) ([]Session, error) {
	var sessions []Session
	query := `SELECT jid, mode, greeted, created_at, updated_at FROM sessions WHERE mode = ? ORDER BY jid`

	if err := s.db.SelectContext(ctx, &sessions, query, mode); err != nil {
		s.logger.ErrorContext(ctx, "Error listing sessions by mode", "mode", mode, "error", err)
		return nil, fmt.Errorf("failed to list sessions in mode %s: %w", mode, err)
	}
	return sessions, nil
}

func (s *sqlxStore) AppendMemory(ctx context.Context, jid, role, content string) error {
	if jid == "" {
		return fmt.Errorf("jid cannot be empty")
	}
	if role != RoleUser && role != RoleBot {
		return fmt.Errorf("invalid memory role %q", role)
	}

	content = truncateChars(strings.TrimSpace(content), memoryMaxChars)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for memory append", "jid", jid, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	insert := `INSERT INTO session_memory (jid, role, content, timestamp) VALUES (?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insert, jid, role, content, time.Now().UTC()); err != nil {
		s.logger.ErrorContext(ctx, "Error appending memory entry", "jid", jid, "error", err)
		return fmt.Errorf("failed to append memory for %s: %w", jid, err)
	}

	// FIFO eviction: keep only the newest memoryCap rows for this sender.
	trim := `
        DELETE FROM session_memory
        WHERE jid = ? AND id NOT IN (
            SELECT id FROM session_memory WHERE jid = ? ORDER BY id DESC LIMIT ?
        );
    `
	if _, err := tx.ExecContext(ctx, trim, jid, jid, memoryCap); err != nil {
		s.logger.ErrorContext(ctx, "Error trimming memory entries", "jid", jid, "error", err)
		return fmt.Errorf("failed to trim memory for %s: %w", jid, err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit memory append", "jid", jid, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	return nil
}

func (s *sqlxStore) GetMemory(ctx context.Context, jid string) ([]MemoryEntry, error) {
	if jid == "" {
		return nil, fmt.Errorf("jid cannot be empty")
	}

	var entries []MemoryEntry
	query := `SELECT id, jid, role, content, timestamp FROM session_memory WHERE jid = ? ORDER BY id ASC`

	if err := s.db.SelectContext(ctx, &entries, query, jid); err != nil {
		s.logger.ErrorContext(ctx, "Error getting memory entries", "jid", jid, "error", err)
		return nil, fmt.Errorf("failed to get memory for %s: %w", jid, err)
	}
	return entries, nil
}

func (s *sqlxStore) CreateOrder(ctx context.Context, order *Order) error {
	if order == nil {
		return fmt.Errorf("cannot create nil order")
	}
	if order.Price <= 0 {
		return fmt.Errorf("order price must be positive, got %d", order.Price)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for order creation", "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	var next int64
	if err := tx.GetContext(ctx, &next, `SELECT next FROM order_counter WHERE id = 1`); err != nil {
		s.logger.ErrorContext(ctx, "Error reading order counter", "error", err)
		return fmt.Errorf("failed to read order counter: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE order_counter SET next = next + 1 WHERE id = 1`); err != nil {
		s.logger.ErrorContext(ctx, "Error incrementing order counter", "error", err)
		return fmt.Errorf("failed to increment order counter: %w", err)
	}

	order.OrderID = fmt.Sprintf("ORD-%04d", next)
	if order.Status == "" {
		order.Status = StatusTodo
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	insert := `
        INSERT INTO orders (order_id, orderer_name, price, details, work, status, created_at, deadline)
        VALUES (:order_id, :orderer_name, :price, :details, :work, :status, :created_at, :deadline);
    `
	if _, err := tx.NamedExecContext(ctx, insert, order); err != nil {
		s.logger.ErrorContext(ctx, "Error inserting order", "order_id", order.OrderID, "error", err)
		return fmt.Errorf("failed to insert order %s: %w", order.OrderID, err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit order creation", "order_id", order.OrderID, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Order created", "order_id", order.OrderID, "price", order.Price)
	return nil
}

func (s *sqlxStore) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order_id cannot be empty")
	}

	var order Order
	query := `SELECT order_id, orderer_name, price, details, work, status, created_at, deadline
	          FROM orders WHERE order_id = ?`

	err := s.db.GetContext(ctx, &order, query, orderID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting order", "order_id", orderID, "error", err)
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}

	return &order, nil
}

func (s *sqlxStore) ListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	query := `SELECT order_id, orderer_name, price, details, work, status, created_at, deadline
	          FROM orders ORDER BY order_id ASC`

	if err := s.db.SelectContext(ctx, &orders, query); err != nil {
		s.logger.ErrorContext(ctx, "Error listing orders", "error", err)
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *sqlxStore) UpdateOrder(ctx context.Context, order *Order) error {
	if order == nil {
		return fmt.Errorf("cannot update nil order")
	}
	if order.Price <= 0 {
		return fmt.Errorf("order price must be positive, got %d", order.Price)
	}

	query := `
        UPDATE orders SET
            orderer_name = :orderer_name,
            price = :price,
            details = :details,
            work = :work,
            status = :status,
            deadline = :deadline
        WHERE order_id = :order_id;
    `
	result, err := s.db.NamedExecContext(ctx, query, order)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error updating order", "order_id", order.OrderID, "error", err)
		return fmt.Errorf("failed to update order %s: %w", order.OrderID, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected number of rows affected when updating order",
			"order_id", order.OrderID, "affected", affected)
	}
	return nil
}

func (s *sqlxStore) DeleteOrder(ctx context.Context, orderID string) (bool, error) {
	if orderID == "" {
		return false, fmt.Errorf("order_id cannot be empty")
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE order_id = ?`, orderID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting order", "order_id", orderID, "error", err)
		return false, fmt.Errorf("failed to delete order %s: %w", orderID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not get affected row count for order delete",
			"order_id", orderID, "error", err)
		return true, nil
	}

	s.logger.DebugContext(ctx, "Order delete executed", "order_id", orderID, "affected", affected)
	return affected > 0, nil
}

// ContextBlock renders memory entries as alternating "User:"/"Bot:" lines in
// chronological order. Returns the empty string when there is no memory.
func ContextBlock(entries []MemoryEntry) string {
	if len(entries) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, e := range entries {
		label := "User"
		if e.Role == RoleBot {
			label = "Bot"
		}
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(e.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}

// truncateChars shortens s to at most max runes.
func truncateChars(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
