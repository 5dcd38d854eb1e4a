package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"agrolink/internal/domain"
	"agrolink/internal/errors"
	"agrolink/internal/infrastructure/mysql"
	"agrolink/internal/storage"
)

const orderColumns = `o.id, o.userId, o.customerName, o.customerEmail, o.customerPhone,
	       o.deliverySlot, o.logisticsMode, o.deliveryPointId, o.notes, o.status,
	       o.cancellationReason, o.cancellationViewed, o.totalItems, o.createdAt, o.updatedAt`

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var o domain.Order
	var slot, mode, status string
	var pointID *string

	err := row.Scan(
		&o.ID, &o.UserID, &o.Customer.Name, &o.Customer.Email, &o.Customer.Phone,
		&slot, &mode, &pointID, &o.Notes, &status,
		&o.CancellationReason, &o.CancellationViewed, &o.TotalItems, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return o, err
	}

	o.DeliverySlot = domain.DeliverySlot(slot)
	o.Status = domain.OrderStatus(status)
	o.Logistics, err = domain.ParseLogistics(mode, pointID)
	if err != nil {
		return o, fmt.Errorf("decoding logistics of order %s: %w", o.ID, err)
	}
	return o, nil
}

// Create inserts the order header and its lines inside tx. It assigns the id,
// timestamps, total item count and the initial pending status.
func (r *MySQLOrderRepository) Create(ctx context.Context, tx storage.Tx, order *domain.Order) error {
	if len(order.Lines) == 0 {
		return errors.NewEmptyCartError()
	}
	sqlTx, err := mysql.SQLTx(tx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	order.ID = uuid.NewString()
	order.Status = domain.OrderStatusPending
	order.CancellationReason = nil
	order.TotalItems = domain.TotalQuantity(order.Lines)
	order.CreatedAt = now
	order.UpdatedAt = now

	var pointID *string
	if id, ok := order.Logistics.MeetingPointID(); ok {
		pointID = &id
	}

	query := `INSERT INTO Orders (id, userId, customerName, customerEmail, customerPhone,
		deliverySlot, logisticsMode, deliveryPointId, notes, status, totalItems, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = sqlTx.ExecContext(ctx, query,
		order.ID, order.UserID, order.Customer.Name, order.Customer.Email, order.Customer.Phone,
		string(order.DeliverySlot), string(order.Logistics.Mode()), pointID, order.Notes,
		string(order.Status), order.TotalItems, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return mysql.Classify(fmt.Errorf("inserting order: %w", err))
	}

	lineQuery := `INSERT INTO OrderItems (id, orderId, productId, farmerId, productName, quantity, position, createdAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	for i := range order.Lines {
		line := &order.Lines[i]
		line.ID = uuid.NewString()
		line.OrderID = order.ID
		line.CreatedAt = now

		_, err := sqlTx.ExecContext(ctx, lineQuery,
			line.ID, line.OrderID, line.ProductID, line.FarmerID, line.ProductName, line.Quantity, i, line.CreatedAt,
		)
		if err != nil {
			return mysql.Classify(fmt.Errorf("inserting order item: %w", err))
		}
	}

	return nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.findByID(ctx, r.db, id, "")
}

// FindByIDForUpdate locks the order row until tx ends.
func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, tx storage.Tx, id string) (*domain.Order, error) {
	sqlTx, err := mysql.SQLTx(tx)
	if err != nil {
		return nil, err
	}
	return r.findByID(ctx, sqlTx, id, " FOR UPDATE")
}

func (r *MySQLOrderRepository) findByID(ctx context.Context, q querier, id, lock string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders o WHERE o.id = ?` + lock

	order, err := scanOrder(q.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	if err != nil {
		return nil, mysql.Classify(fmt.Errorf("querying order by id: %w", err))
	}

	if err := r.loadLines(ctx, q, []*domain.Order{&order}); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *MySQLOrderRepository) loadLines(ctx context.Context, q querier, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Order, len(orders))
	placeholders := make([]string, 0, len(orders))
	args := make([]any, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		o.Lines = []domain.OrderLine{}
		placeholders = append(placeholders, "?")
		args = append(args, o.ID)
	}

	query := fmt.Sprintf(`SELECT id, orderId, productId, farmerId, productName, quantity, createdAt
		FROM OrderItems WHERE orderId IN (%s) ORDER BY orderId, position`, strings.Join(placeholders, ", "))

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return mysql.Classify(fmt.Errorf("querying order items: %w", err))
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.FarmerID,
			&line.ProductName, &line.Quantity, &line.CreatedAt); err != nil {
			return fmt.Errorf("scanning order item row: %w", err)
		}
		if o, ok := byID[line.OrderID]; ok {
			o.Lines = append(o.Lines, line)
		}
	}

	if err := rows.Err(); err != nil {
		return mysql.Classify(fmt.Errorf("iterating order item rows: %w", err))
	}
	return nil
}

// UpdateStatus moves the order from one status to another. The WHERE clause
// on the current status makes the write fail when a concurrent transition got
// there first.
func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, tx storage.Tx, id string, from, to domain.OrderStatus, reason *string) error {
	if !domain.CanTransition(from, to) {
		return errors.NewInvalidTransitionError(string(from), string(to))
	}
	if to == domain.OrderStatusCancelled && (reason == nil || strings.TrimSpace(*reason) == "") {
		return errors.NewMissingReasonError()
	}
	if to != domain.OrderStatusCancelled {
		reason = nil
	}

	sqlTx, err := mysql.SQLTx(tx)
	if err != nil {
		return err
	}

	query := `UPDATE Orders SET status = ?, cancellationReason = ?, cancellationViewed = 0, updatedAt = ?
		WHERE id = ? AND status = ?`

	result, err := sqlTx.ExecContext(ctx, query, string(to), reason, time.Now().UTC(), id, string(from))
	if err != nil {
		return mysql.Classify(fmt.Errorf("updating order status: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var exists bool
		if err := sqlTx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM Orders WHERE id = ?)`, id).Scan(&exists); err != nil {
			return mysql.Classify(fmt.Errorf("checking order existence: %w", err))
		}
		if !exists {
			return errors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
		}
		return errors.NewConflictError(fmt.Sprintf("order %s is no longer %s", id, from))
	}

	return nil
}

// Delete removes the order; OrderItems rows cascade.
func (r *MySQLOrderRepository) Delete(ctx context.Context, tx storage.Tx, id string) error {
	sqlTx, err := mysql.SQLTx(tx)
	if err != nil {
		return err
	}

	result, err := sqlTx.ExecContext(ctx, `DELETE FROM Orders WHERE id = ?`, id)
	if err != nil {
		return mysql.Classify(fmt.Errorf("deleting order: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	return nil
}

func (r *MySQLOrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders o WHERE o.userId = ? ORDER BY o.createdAt DESC`
	return r.list(ctx, query, userID)
}

// ListByFarmer returns orders holding at least one line for the farmer's products.
func (r *MySQLOrderRepository) ListByFarmer(ctx context.Context, farmerID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders o
		WHERE EXISTS (SELECT 1 FROM OrderItems i WHERE i.orderId = o.id AND i.farmerId = ?)
		ORDER BY o.createdAt DESC`
	return r.list(ctx, query, farmerID)
}

func (r *MySQLOrderRepository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mysql.Classify(fmt.Errorf("querying orders: %w", err))
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, mysql.Classify(fmt.Errorf("iterating order rows: %w", err))
	}

	ptrs := make([]*domain.Order, len(orders))
	for i := range orders {
		ptrs[i] = &orders[i]
	}
	if err := r.loadLines(ctx, r.db, ptrs); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *MySQLOrderRepository) CountUnviewedCancellations(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM Orders WHERE userId = ? AND status = ? AND cancellationViewed = 0`
	if err := r.db.QueryRowContext(ctx, query, userID, string(domain.OrderStatusCancelled)).Scan(&count); err != nil {
		return 0, mysql.Classify(fmt.Errorf("counting cancelled orders: %w", err))
	}
	return count, nil
}

func (r *MySQLOrderRepository) MarkCancellationsViewed(ctx context.Context, userID string) (int, error) {
	query := `UPDATE Orders SET cancellationViewed = 1 WHERE userId = ? AND status = ? AND cancellationViewed = 0`
	result, err := r.db.ExecContext(ctx, query, userID, string(domain.OrderStatusCancelled))
	if err != nil {
		return 0, mysql.Classify(fmt.Errorf("marking cancellations viewed: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	return int(rowsAffected), nil
}
