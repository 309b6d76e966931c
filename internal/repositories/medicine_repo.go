package repositories

import (
	"context"
	"fmt"

	"pharmpal/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MedicineRepository interface {
	Create(ctx context.Context, medicine *models.Medicine) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Medicine, error)
	GetByBarcode(ctx context.Context, userID uuid.UUID, barcode string) (*models.Medicine, error)
	FindByName(ctx context.Context, userID uuid.UUID, name string) (*models.Medicine, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Medicine, error)
	Update(ctx context.Context, medicine *models.Medicine) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type medicineRepo struct {
	db DBTX
}

func NewMedicineRepo(db DBTX) MedicineRepository {
	return &medicineRepo{db: db}
}

const medicineColumns = `id, user_id, barcode, name, manufacturer, strength, price, expiry_date, created_at, updated_at`

func scanMedicine(row pgx.Row) (*models.Medicine, error) {
	m := &models.Medicine{}
	err := row.Scan(&m.ID, &m.UserID, &m.Barcode, &m.Name, &m.Manufacturer, &m.Strength, &m.Price, &m.ExpiryDate.Time, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *medicineRepo) Create(ctx context.Context, medicine *models.Medicine) error {
	if medicine.ID == uuid.Nil {
		medicine.ID = uuid.New()
	}
	query := `
		INSERT INTO medicines (id, user_id, barcode, name, manufacturer, strength, price, expiry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, medicine.ID, medicine.UserID, medicine.Barcode, medicine.Name, medicine.Manufacturer, medicine.Strength, medicine.Price, medicine.ExpiryDate.Time).
		Scan(&medicine.CreatedAt, &medicine.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateBarcode
		}
		return fmt.Errorf("insert medicine: %w", err)
	}
	return nil
}

func (r *medicineRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Medicine, error) {
	query := `SELECT ` + medicineColumns + `
		FROM medicines
		WHERE id = $1 AND user_id = $2
	`
	m, err := scanMedicine(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return m, nil
}

func (r *medicineRepo) GetByBarcode(ctx context.Context, userID uuid.UUID, barcode string) (*models.Medicine, error) {
	query := `SELECT ` + medicineColumns + `
		FROM medicines
		WHERE user_id = $1 AND barcode = $2
	`
	m, err := scanMedicine(r.db.QueryRow(ctx, query, userID, barcode))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return m, nil
}

// FindByName returns the oldest medicine whose name contains name, ignoring case.
func (r *medicineRepo) FindByName(ctx context.Context, userID uuid.UUID, name string) (*models.Medicine, error) {
	query := `SELECT ` + medicineColumns + `
		FROM medicines
		WHERE user_id = $1 AND name ILIKE $2
		ORDER BY created_at, id
		LIMIT 1
	`
	m, err := scanMedicine(r.db.QueryRow(ctx, query, userID, likePattern(name)))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return m, nil
}

func (r *medicineRepo) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Medicine, error) {
	query := `SELECT ` + medicineColumns + `
		FROM medicines
		WHERE user_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	defer rows.Close()

	medicines := []*models.Medicine{}
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		medicines = append(medicines, m)
	}
	return medicines, rows.Err()
}

func (r *medicineRepo) Update(ctx context.Context, medicine *models.Medicine) error {
	query := `
		UPDATE medicines
		SET barcode = $1, name = $2, manufacturer = $3, strength = $4, price = $5, expiry_date = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, medicine.Barcode, medicine.Name, medicine.Manufacturer, medicine.Strength, medicine.Price, medicine.ExpiryDate.Time, medicine.ID, medicine.UserID).
		Scan(&medicine.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateBarcode
		}
		return notFoundOr(err)
	}
	return nil
}

func (r *medicineRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM medicines WHERE id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete medicine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
