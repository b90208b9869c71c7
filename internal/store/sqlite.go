package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/FahadImdad/khaadi-ai-chat-store/internal/domain"
)

// SQLiteOrderStore implements OrderStore using SQLite.
type SQLiteOrderStore struct {
	db *sql.DB
}

var _ OrderStore = (*SQLiteOrderStore)(nil)

// NewSQLiteOrderStore opens the database and runs migrations.
func NewSQLiteOrderStore(dsn string) (*SQLiteOrderStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s := &SQLiteOrderStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteOrderStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			order_number TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			items TEXT NOT NULL,
			total REAL NOT NULL,
			address TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_session ON orders(session_id, created_at)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// CreateOrder inserts a placed order.
func (s *SQLiteOrderStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}
	var address []byte
	if order.Address != nil {
		address, err = json.Marshal(order.Address)
		if err != nil {
			return fmt.Errorf("failed to marshal order address: %w", err)
		}
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO orders (order_number, session_id, items, total, address, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		order.OrderNumber, order.SessionID, string(items), order.Total,
		nullableString(address), order.Status, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// GetOrder fetches a single order by its number, or (nil, nil) when unknown.
func (s *SQLiteOrderStore) GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT order_number, session_id, items, total, address, status, created_at
		 FROM orders WHERE order_number = ?`, orderNumber)
	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// ListOrdersBySession returns a session's orders in placement order.
func (s *SQLiteOrderStore) ListOrdersBySession(ctx context.Context, sessionID string) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT order_number, session_id, items, total, address, status, created_at
		 FROM orders WHERE session_id = ? ORDER BY created_at ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

// Close closes the database.
func (s *SQLiteOrderStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order     domain.Order
		items     string
		address   sql.NullString
		createdAt time.Time
	)
	if err := row.Scan(&order.OrderNumber, &order.SessionID, &items, &order.Total,
		&address, &order.Status, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &order.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}
	if address.Valid && address.String != "" {
		var addr domain.ShippingAddress
		if err := json.Unmarshal([]byte(address.String), &addr); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order address: %w", err)
		}
		order.Address = &addr
	}
	order.CreatedAt = createdAt
	return &order, nil
}

func nullableString(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
