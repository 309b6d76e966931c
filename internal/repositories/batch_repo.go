package repositories

import (
	"context"
	"fmt"
	"time"

	"pharmpal/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BatchRepository interface {
	Create(ctx context.Context, batch *models.InventoryBatch) error
	// GetForUpdate locks the batch row and its parent medicine row for the
	// rest of the transaction, so dispenses of sibling batches serialize. The
	// batch must belong to a medicine owned by userID.
	GetForUpdate(ctx context.Context, userID, id uuid.UUID) (*models.InventoryBatch, error)
	ListByMedicine(ctx context.Context, medicineID uuid.UUID) ([]*models.InventoryBatch, error)
	ListByMedicines(ctx context.Context, medicineIDs []uuid.UUID) (map[uuid.UUID][]*models.InventoryBatch, error)
	UpdateQuantity(ctx context.Context, batch *models.InventoryBatch) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByMedicine(ctx context.Context, medicineID uuid.UUID) (int64, error)
	CountByMedicine(ctx context.Context, medicineID uuid.UUID) (int, error)
	SumQuantity(ctx context.Context, medicineID uuid.UUID) (int, error)
	ListExpiring(ctx context.Context, userID uuid.UUID, before time.Time) ([]*models.ExpiringBatch, error)
}

type batchRepo struct {
	db DBTX
}

func NewBatchRepo(db DBTX) BatchRepository {
	return &batchRepo{db: db}
}

const batchColumns = `b.id, b.medicine_id, b.lot_number, b.expiry_date, b.quantity, b.created_at, b.updated_at`

func scanBatch(row pgx.Row) (*models.InventoryBatch, error) {
	b := &models.InventoryBatch{}
	if err := row.Scan(&b.ID, &b.MedicineID, &b.LotNumber, &b.ExpiryDate.Time, &b.Quantity, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *batchRepo) Create(ctx context.Context, batch *models.InventoryBatch) error {
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	query := `
		INSERT INTO inventory_batches (id, medicine_id, lot_number, expiry_date, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, batch.ID, batch.MedicineID, batch.LotNumber, batch.ExpiryDate.Time, batch.Quantity).
		Scan(&batch.CreatedAt, &batch.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

func (r *batchRepo) GetForUpdate(ctx context.Context, userID, id uuid.UUID) (*models.InventoryBatch, error) {
	query := `SELECT ` + batchColumns + `
		FROM inventory_batches b
		JOIN medicines m ON m.id = b.medicine_id
		WHERE b.id = $1 AND m.user_id = $2
		FOR UPDATE OF b, m
	`
	b, err := scanBatch(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return b, nil
}

func (r *batchRepo) ListByMedicine(ctx context.Context, medicineID uuid.UUID) ([]*models.InventoryBatch, error) {
	query := `SELECT ` + batchColumns + `
		FROM inventory_batches b
		WHERE b.medicine_id = $1
		ORDER BY b.expiry_date, b.created_at
	`
	rows, err := r.db.Query(ctx, query, medicineID)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	batches := []*models.InventoryBatch{}
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// ListByMedicines loads the batches of several medicines in one round trip,
// keyed by medicine id.
func (r *batchRepo) ListByMedicines(ctx context.Context, medicineIDs []uuid.UUID) (map[uuid.UUID][]*models.InventoryBatch, error) {
	result := make(map[uuid.UUID][]*models.InventoryBatch, len(medicineIDs))
	if len(medicineIDs) == 0 {
		return result, nil
	}

	query := `SELECT ` + batchColumns + `
		FROM inventory_batches b
		WHERE b.medicine_id = ANY($1)
		ORDER BY b.expiry_date, b.created_at
	`
	rows, err := r.db.Query(ctx, query, medicineIDs)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		result[b.MedicineID] = append(result[b.MedicineID], b)
	}
	return result, rows.Err()
}

func (r *batchRepo) UpdateQuantity(ctx context.Context, batch *models.InventoryBatch) error {
	query := `
		UPDATE inventory_batches
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at
	`
	if err := r.db.QueryRow(ctx, query, batch.Quantity, batch.ID).Scan(&batch.UpdatedAt); err != nil {
		return notFoundOr(err)
	}
	return nil
}

func (r *batchRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM inventory_batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *batchRepo) DeleteByMedicine(ctx context.Context, medicineID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM inventory_batches WHERE medicine_id = $1`, medicineID)
	if err != nil {
		return 0, fmt.Errorf("delete batches: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *batchRepo) CountByMedicine(ctx context.Context, medicineID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_batches WHERE medicine_id = $1`, medicineID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count batches: %w", err)
	}
	return count, nil
}

func (r *batchRepo) SumQuantity(ctx context.Context, medicineID uuid.UUID) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(quantity), 0) FROM inventory_batches WHERE medicine_id = $1`, medicineID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum batch quantity: %w", err)
	}
	return total, nil
}

// ListExpiring returns the user's batches expiring on or before the given date,
// soonest first.
func (r *batchRepo) ListExpiring(ctx context.Context, userID uuid.UUID, before time.Time) ([]*models.ExpiringBatch, error) {
	query := `
		SELECT m.id, m.name, b.lot_number, b.expiry_date, b.quantity
		FROM inventory_batches b
		JOIN medicines m ON m.id = b.medicine_id
		WHERE m.user_id = $1 AND b.expiry_date <= $2
		ORDER BY b.expiry_date, m.name
	`
	rows, err := r.db.Query(ctx, query, userID, before)
	if err != nil {
		return nil, fmt.Errorf("list expiring batches: %w", err)
	}
	defer rows.Close()

	expiring := []*models.ExpiringBatch{}
	for rows.Next() {
		e := &models.ExpiringBatch{}
		if err := rows.Scan(&e.MedicineID, &e.MedicineName, &e.LotNumber, &e.ExpiryDate.Time, &e.Quantity); err != nil {
			return nil, err
		}
		expiring = append(expiring, e)
	}
	return expiring, rows.Err()
}
