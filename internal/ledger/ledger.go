// Package ledger implements the order ledger: validated CRUD over the
// durable order store, free-text order parsing, and spreadsheet export.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"wabot/internal/database"
)

// Typed failures reported to the invoking admin. None of them are fatal.
var (
	// ErrValidation marks a bad order field: non-positive price, unknown
	// status, unparseable deadline, or an unknown editable field.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks an unknown order ID.
	ErrNotFound = errors.New("order not found")
)

// deadlineLayouts are tried in order; the first that parses wins.
var deadlineLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
}

// editableFields is the closed set of fields accepted by Edit, keyed by
// lowercased field name.
var editableFields = map[string]struct{}{
	"orderername": {},
	"price":       {},
	"details":     {},
	"work":        {},
	"status":      {},
	"deadline":    {},
}

// Ledger provides validated order operations on top of the Store.
type Ledger struct {
	store  database.Store
	logger *slog.Logger
}

// New creates a Ledger backed by the given store.
func New(store database.Store, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		store:  store,
		logger: logger.With("component", "ledger"),
	}
}

// Create validates the parsed input and inserts a new order with the next
// sequential ID, status todo, and the current creation timestamp.
func (l *Ledger) Create(ctx context.Context, in *Input) (*database.Order, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: empty order input", ErrValidation)
	}

	price, err := parsePrice(in.PriceRaw)
	if err != nil {
		return nil, err
	}

	order := &database.Order{
		OrdererName: in.OrdererName,
		Price:       price,
		Details:     in.Details,
		Work:        in.Work,
		Status:      database.StatusTodo,
		CreatedAt:   time.Now().UTC(),
	}

	if in.DeadlineRaw != "" {
		deadline, err := ParseDeadline(in.DeadlineRaw)
		if err != nil {
			return nil, err
		}
		order.Deadline = sql.NullTime{Time: deadline, Valid: true}
	}

	if err := l.store.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	l.logger.InfoContext(ctx, "Order created", "order_id", order.OrderID, "orderer", order.OrdererName)
	return order, nil
}

// Get retrieves an order by ID, returning ErrNotFound for unknown IDs.
func (l *Ledger) Get(ctx context.Context, orderID string) (*database.Order, error) {
	order, err := l.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, orderID)
	}
	return order, nil
}

// All retrieves every order in creation order.
func (l *Ledger) All(ctx context.Context) ([]database.Order, error) {
	return l.store.ListOrders(ctx)
}

// Edit updates a single field of an existing order. The field name must be
// in the editable set; price, status, and deadline values are validated
// before anything is written, so a failed Edit leaves the record unchanged.
func (l *Ledger) Edit(ctx context.Context, orderID, field, rawValue string) (*database.Order, error) {
	key := strings.ToLower(strings.TrimSpace(field))
	if _, ok := editableFields[key]; !ok {
		return nil, fmt.Errorf("%w: unknown field %q", ErrValidation, field)
	}

	order, err := l.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch key {
	case "orderername":
		order.OrdererName = rawValue
	case "details":
		order.Details = rawValue
	case "work":
		order.Work = rawValue
	case "price":
		price, err := parsePrice(rawValue)
		if err != nil {
			return nil, err
		}
		order.Price = price
	case "status":
		status, ok := database.ParseStatus(rawValue)
		if !ok {
			return nil, fmt.Errorf("%w: invalid status %q (todo, on progress, done, canceled)", ErrValidation, rawValue)
		}
		order.Status = status
	case "deadline":
		if strings.TrimSpace(rawValue) == "" {
			order.Deadline = sql.NullTime{}
			break
		}
		deadline, err := ParseDeadline(rawValue)
		if err != nil {
			return nil, err
		}
		order.Deadline = sql.NullTime{Time: deadline, Valid: true}
	}

	if err := l.store.UpdateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	l.logger.InfoContext(ctx, "Order updated", "order_id", orderID, "field", key)
	return order, nil
}

// Delete removes an order. The ID counter is never decremented, so the ID
// is not reused.
func (l *Ledger) Delete(ctx context.Context, orderID string) error {
	deleted, err := l.store.DeleteOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrNotFound, orderID)
	}

	l.logger.InfoContext(ctx, "Order deleted", "order_id", orderID)
	return nil
}

// ParseDeadline parses a deadline using the accepted date patterns in
// order. Non-matching non-empty input fails with ErrValidation.
func ParseDeadline(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid deadline %q (use YYYY-MM-DD, DD/MM/YYYY, or DD-MM-YYYY)", ErrValidation, s)
}

func parsePrice(raw string) (int64, error) {
	price, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: price %q is not a number", ErrValidation, raw)
	}
	if price <= 0 {
		return 0, fmt.Errorf("%w: price must be positive, got %d", ErrValidation, price)
	}
	return price, nil
}
