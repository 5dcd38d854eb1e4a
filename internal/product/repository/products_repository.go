package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"agrolink/internal/domain"
	"agrolink/internal/errors"
	"agrolink/internal/infrastructure/mysql"
	"agrolink/internal/storage"
)

const productColumns = `id, farmerId, name, category, priceRange, harvestWindow, location, imageUrl,
	       stock, availability, isActive, createdAt, updatedAt`

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var availability string
	err := row.Scan(
		&p.ID, &p.FarmerID, &p.Name, &p.Category, &p.PriceRange, &p.HarvestWindow,
		&p.Location, &p.ImageURL, &p.Stock, &availability, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
	p.Availability = domain.Availability(availability)
	return p, err
}

func (r *MySQLRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM Product WHERE id = ?`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %s not found", id))
	}
	if err != nil {
		return nil, mysql.Classify(fmt.Errorf("querying product by id: %w", err))
	}

	return &p, nil
}

func (r *MySQLRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var conditions []string
	var args []any
	if filter.FarmerID != "" {
		conditions = append(conditions, "farmerId = ?")
		args = append(args, filter.FarmerID)
	}
	if filter.OnlyActive {
		conditions = append(conditions, "isActive = 1")
	}

	query := `SELECT ` + productColumns + ` FROM Product`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY createdAt DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mysql.Classify(fmt.Errorf("querying products: %w", err))
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, mysql.Classify(fmt.Errorf("iterating product rows: %w", err))
	}

	return products, nil
}

func (r *MySQLRepository) GetStock(ctx context.Context, id string) (int, error) {
	var stock int
	err := r.db.QueryRowContext(ctx, `SELECT stock FROM Product WHERE id = ?`, id).Scan(&stock)
	if err == sql.ErrNoRows {
		return 0, errors.NewNotFoundError(fmt.Sprintf("product with id %s not found", id))
	}
	if err != nil {
		return 0, mysql.Classify(fmt.Errorf("querying product stock: %w", err))
	}
	return stock, nil
}

// FindByIDsForUpdate locks the requested rows in ascending id order and returns
// the products found. Missing ids are simply absent from the result.
func (r *MySQLRepository) FindByIDsForUpdate(ctx context.Context, tx storage.Tx, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	sqlTx, err := mysql.SQLTx(tx)
	if err != nil {
		return nil, err
	}

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	placeholders := make([]string, len(sorted))
	args := make([]any, len(sorted))
	for i, id := range sorted {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT %s FROM Product WHERE id IN (%s) ORDER BY id FOR UPDATE`,
		productColumns, strings.Join(placeholders, ", "))

	rows, err := sqlTx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mysql.Classify(fmt.Errorf("locking products: %w", err))
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, mysql.Classify(fmt.Errorf("iterating product rows: %w", err))
	}

	return products, nil
}

func (r *MySQLRepository) FindByIDForUpdate(ctx context.Context, tx storage.Tx, id string) (*domain.Product, error) {
	products, err := r.FindByIDsForUpdate(ctx, tx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %s not found", id))
	}
	return &products[0], nil
}

// AdjustStock applies delta to the locked row and rewrites availability in the
// same statement. The WHERE guard keeps stock non-negative even if a caller
// skipped the lock.
func (r *MySQLRepository) AdjustStock(ctx context.Context, tx storage.Tx, id string, delta int) (int, error) {
	product, err := r.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		return 0, err
	}

	newStock := product.Stock + delta
	if newStock < 0 {
		return 0, errors.NewInsufficientStockError(product.ID, product.Name, product.Stock, -delta)
	}

	sqlTx, err := mysql.SQLTx(tx)
	if err != nil {
		return 0, err
	}

	query := `UPDATE Product SET stock = stock + ?, availability = ?, updatedAt = ?
		WHERE id = ? AND stock + ? >= 0`
	result, err := sqlTx.ExecContext(ctx, query,
		delta, string(domain.AvailabilityFor(newStock)), time.Now().UTC(), id, delta)
	if err != nil {
		return 0, mysql.Classify(fmt.Errorf("adjusting product stock: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return 0, errors.NewInsufficientStockError(product.ID, product.Name, product.Stock, -delta)
	}

	return newStock, nil
}

// BatchAdjust applies adjustments in ascending product id order. Results are
// returned in the caller's order. The first failure aborts; the caller owns
// the transaction and rolls it back.
func (r *MySQLRepository) BatchAdjust(ctx context.Context, tx storage.Tx, adjustments []domain.StockAdjustment) ([]int, error) {
	return batchAdjust(adjustments, func(adj domain.StockAdjustment) (int, error) {
		return r.AdjustStock(ctx, tx, adj.ProductID, adj.Delta)
	})
}

func batchAdjust(adjustments []domain.StockAdjustment, adjust func(domain.StockAdjustment) (int, error)) ([]int, error) {
	order := make([]int, len(adjustments))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return adjustments[order[a]].ProductID < adjustments[order[b]].ProductID
	})

	results := make([]int, len(adjustments))
	for _, idx := range order {
		newStock, err := adjust(adjustments[idx])
		if err != nil {
			return nil, err
		}
		results[idx] = newStock
	}
	return results, nil
}

func (r *MySQLRepository) Create(ctx context.Context, p *domain.Product) error {
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.SetStock(p.Stock)
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `INSERT INTO Product (id, farmerId, name, category, priceRange, harvestWindow, location,
		imageUrl, stock, availability, isActive, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.FarmerID, p.Name, p.Category, p.PriceRange, p.HarvestWindow, p.Location,
		p.ImageURL, p.Stock, string(p.Availability), p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return mysql.Classify(fmt.Errorf("inserting product: %w", err))
	}
	return nil
}

// Update writes every mutable column of a product previously locked in tx.
func (r *MySQLRepository) Update(ctx context.Context, tx storage.Tx, p *domain.Product) error {
	sqlTx, err := mysql.SQLTx(tx)
	if err != nil {
		return err
	}
	if p.Stock < 0 {
		return errors.NewValidationError("stock must be non-negative", errors.ValidationDetail{
			Field:   "stock",
			Message: "stock must be non-negative",
		})
	}
	p.UpdatedAt = time.Now().UTC()

	query := `UPDATE Product SET name = ?, category = ?, priceRange = ?, harvestWindow = ?, location = ?,
		imageUrl = ?, stock = ?, availability = ?, isActive = ?, updatedAt = ?
		WHERE id = ?`

	result, err := sqlTx.ExecContext(ctx, query,
		p.Name, p.Category, p.PriceRange, p.HarvestWindow, p.Location,
		p.ImageURL, p.Stock, string(p.Availability), p.IsActive, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return mysql.Classify(fmt.Errorf("updating product: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("product with id %s not found", p.ID))
	}
	return nil
}

func (r *MySQLRepository) IsReferenced(ctx context.Context, tx storage.Tx, id string) (bool, error) {
	sqlTx, err := mysql.SQLTx(tx)
	if err != nil {
		return false, err
	}

	var exists bool
	err = sqlTx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM OrderItems WHERE productId = ?)`, id).Scan(&exists)
	if err != nil {
		return false, mysql.Classify(fmt.Errorf("checking product references: %w", err))
	}
	return exists, nil
}

func (r *MySQLRepository) Delete(ctx context.Context, tx storage.Tx, id string) error {
	sqlTx, err := mysql.SQLTx(tx)
	if err != nil {
		return err
	}

	result, err := sqlTx.ExecContext(ctx, `DELETE FROM Product WHERE id = ?`, id)
	if err != nil {
		return mysql.Classify(fmt.Errorf("deleting product: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("product with id %s not found", id))
	}
	return nil
}
