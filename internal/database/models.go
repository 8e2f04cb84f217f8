package database

import (
	"database/sql"
	"strings"
	"time"
)

// Mode governs whether automated responses are produced for a session.
type Mode string

const (
	// ModeAI means the bot answers messages automatically.
	ModeAI Mode = "ai"
	// ModeHuman means messages are forwarded to the admin and the bot stays silent.
	ModeHuman Mode = "human"
)

// ParseMode normalizes a mode string. The second return is false for
// values outside the closed enum.
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeAI:
		return ModeAI, true
	case ModeHuman:
		return ModeHuman, true
	}
	return "", false
}

// Status tracks the lifecycle of an order.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusOnProgress Status = "on progress"
	StatusDone       Status = "done"
	StatusCanceled   Status = "canceled"
)

// ParseStatus normalizes a status string case-insensitively. The second
// return is false for values outside the closed enum.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusTodo:
		return StatusTodo, true
	case StatusOnProgress:
		return StatusOnProgress, true
	case StatusDone:
		return StatusDone, true
	case StatusCanceled:
		return StatusCanceled, true
	}
	return "", false
}

// Memory entry roles.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// Session is the durable per-sender record of automation mode, the
// one-time greeting flag, and bounded conversation memory.
type Session struct {
	JID       string    `db:"jid"`
	Mode      Mode      `db:"mode"`
	Greeted   bool      `db:"greeted"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// MemoryEntry is one turn of a session's rolling conversation memory.
type MemoryEntry struct {
	ID        uint      `db:"id"`
	JID       string    `db:"jid"`
	Role      string    `db:"role"`
	Content   string    `db:"content"`
	Timestamp time.Time `db:"timestamp"`
}

// Order is a service-order record. OrderID is assigned from a persisted
// monotonic counter and is never reused, even after deletion.
type Order struct {
	OrderID     string       `db:"order_id"`
	OrdererName string       `db:"orderer_name"`
	Price       int64        `db:"price"`
	Details     string       `db:"details"`
	Work        string       `db:"work"`
	Status      Status       `db:"status"`
	CreatedAt   time.Time    `db:"created_at"`
	Deadline    sql.NullTime `db:"deadline"`
}
