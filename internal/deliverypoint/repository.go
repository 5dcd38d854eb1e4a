package deliverypoint

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"agrolink/internal/domain"
	apperrors "agrolink/internal/errors"
	"agrolink/internal/infrastructure/mysql"
)

const pointColumns = `id, farmerId, name, address, zone, latitude, longitude, isActive, createdAt, updatedAt`

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoint(row rowScanner) (domain.DeliveryPoint, error) {
	var p domain.DeliveryPoint
	err := row.Scan(&p.ID, &p.FarmerID, &p.Name, &p.Address, &p.Zone,
		&p.Latitude, &p.Longitude, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *MySQLRepository) Create(ctx context.Context, point *domain.DeliveryPoint) error {
	now := time.Now().UTC()
	if point.ID == "" {
		point.ID = uuid.NewString()
	}
	point.CreatedAt = now
	point.UpdatedAt = now

	query := `INSERT INTO DeliveryPoints (` + pointColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		point.ID, point.FarmerID, point.Name, point.Address, point.Zone,
		point.Latitude, point.Longitude, point.IsActive, point.CreatedAt, point.UpdatedAt,
	)
	if err != nil {
		return mysql.Classify(fmt.Errorf("inserting delivery point: %w", err))
	}
	return nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id string) (*domain.DeliveryPoint, error) {
	query := `SELECT ` + pointColumns + ` FROM DeliveryPoints WHERE id = ?`

	p, err := scanPoint(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("delivery point with id %s not found", id))
	}
	if err != nil {
		return nil, mysql.Classify(fmt.Errorf("querying delivery point by id: %w", err))
	}
	return &p, nil
}

func (r *MySQLRepository) Update(ctx context.Context, point *domain.DeliveryPoint) error {
	point.UpdatedAt = time.Now().UTC()

	query := `UPDATE DeliveryPoints SET name = ?, address = ?, zone = ?, latitude = ?, longitude = ?,
		isActive = ?, updatedAt = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		point.Name, point.Address, point.Zone, point.Latitude, point.Longitude,
		point.IsActive, point.UpdatedAt, point.ID,
	)
	if err != nil {
		return mysql.Classify(fmt.Errorf("updating delivery point: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("delivery point with id %s not found", point.ID))
	}
	return nil
}

func (r *MySQLRepository) List(ctx context.Context, filter domain.DeliveryPointFilter) ([]domain.DeliveryPoint, error) {
	var conditions []string
	var args []any
	if filter.FarmerID != "" {
		conditions = append(conditions, "farmerId = ?")
		args = append(args, filter.FarmerID)
	}
	if filter.Zone != "" {
		conditions = append(conditions, "zone = ?")
		args = append(args, filter.Zone)
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "isActive = 1")
	}

	query := `SELECT ` + pointColumns + ` FROM DeliveryPoints`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mysql.Classify(fmt.Errorf("querying delivery points: %w", err))
	}
	defer rows.Close()

	points := []domain.DeliveryPoint{}
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning delivery point row: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mysql.Classify(fmt.Errorf("iterating delivery point rows: %w", err))
	}
	return points, nil
}
