package farmer

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"agrolink/internal/domain"
	apperrors "agrolink/internal/errors"
	"agrolink/internal/infrastructure/mysql"
)

const profileColumns = `id, name, email, phone, location, bio, website, createdAt, updatedAt`

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (domain.FarmerProfile, error) {
	var p domain.FarmerProfile
	err := row.Scan(&p.FarmerID, &p.Name, &p.Email, &p.Phone, &p.Location,
		&p.Bio, &p.Website, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func notFound(farmerID string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("profile for farmer %s not found", farmerID))
}

func (r *MySQLRepository) Upsert(ctx context.Context, profile *domain.FarmerProfile) error {
	now := time.Now().UTC()

	query := `INSERT INTO Farmers (` + profileColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE name = VALUES(name), email = VALUES(email), phone = VALUES(phone),
		location = VALUES(location), bio = VALUES(bio), website = VALUES(website), updatedAt = VALUES(updatedAt)`
	_, err := r.db.ExecContext(ctx, query,
		profile.FarmerID, profile.Name, profile.Email, profile.Phone, profile.Location,
		profile.Bio, profile.Website, now, now,
	)
	if err != nil {
		return mysql.Classify(fmt.Errorf("upserting farmer profile: %w", err))
	}

	stored, err := r.FindByID(ctx, profile.FarmerID)
	if err != nil {
		return err
	}
	*profile = *stored
	return nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, farmerID string) (*domain.FarmerProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM Farmers WHERE id = ?`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, farmerID))
	if err == sql.ErrNoRows {
		return nil, notFound(farmerID)
	}
	if err != nil {
		return nil, mysql.Classify(fmt.Errorf("querying farmer profile: %w", err))
	}
	return &p, nil
}

func (r *MySQLRepository) List(ctx context.Context) ([]domain.FarmerProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM Farmers ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mysql.Classify(fmt.Errorf("listing farmer profiles: %w", err))
	}
	defer rows.Close()

	profiles := []domain.FarmerProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning farmer profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mysql.Classify(fmt.Errorf("iterating farmer profiles: %w", err))
	}
	return profiles, nil
}

func (r *MySQLRepository) FindByFarmerID(ctx context.Context, farmerID string) (*domain.FarmerContact, error) {
	query := `SELECT id, name, email FROM Farmers WHERE id = ?`

	var contact domain.FarmerContact
	err := r.db.QueryRowContext(ctx, query, farmerID).Scan(&contact.FarmerID, &contact.Name, &contact.Email)
	if err == sql.ErrNoRows {
		return nil, notFound(farmerID)
	}
	if err != nil {
		return nil, mysql.Classify(fmt.Errorf("querying farmer contact: %w", err))
	}
	return &contact, nil
}
