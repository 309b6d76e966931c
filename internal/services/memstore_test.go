package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"pharmpal/internal/models"
	"pharmpal/internal/repositories"

	"github.com/google/uuid"
)

// memStore is an in-memory repositories.Store. WithTx snapshots the data and
// restores it when fn fails, so tests can check rollback behaviour.
type memStore struct {
	medicines map[uuid.UUID]models.Medicine
	batches   map[uuid.UUID]models.InventoryBatch
	users     map[uuid.UUID]models.User
	clock     time.Time
	failOn    map[string]error
	commits   int
	rollbacks int
}

func newMemStore() *memStore {
	return &memStore{
		medicines: map[uuid.UUID]models.Medicine{},
		batches:   map[uuid.UUID]models.InventoryBatch{},
		users:     map[uuid.UUID]models.User{},
		clock:     time.Date(2026, time.January, 1, 8, 0, 0, 0, time.UTC),
		failOn:    map[string]error{},
	}
}

var errInjected = errors.New("injected storage failure")

func (s *memStore) fail(op string) error {
	return s.failOn[op]
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) Medicines() repositories.MedicineRepository { return (*memMedicines)(s) }
func (s *memStore) Batches() repositories.BatchRepository     { return (*memBatches)(s) }
func (s *memStore) Users() repositories.UserRepository         { return (*memUsers)(s) }

func (s *memStore) WithTx(ctx context.Context, fn func(repositories.Store) error) error {
	if err := s.fail("begin"); err != nil {
		return err
	}
	medicines := make(map[uuid.UUID]models.Medicine, len(s.medicines))
	for k, v := range s.medicines {
		medicines[k] = v
	}
	batches := make(map[uuid.UUID]models.InventoryBatch, len(s.batches))
	for k, v := range s.batches {
		batches[k] = v
	}

	if err := fn(s); err != nil {
		s.medicines, s.batches = medicines, batches
		s.rollbacks++
		return err
	}
	s.commits++
	return nil
}

func (s *memStore) batchesOf(medicineID uuid.UUID) []*models.InventoryBatch {
	out := []*models.InventoryBatch{}
	for _, b := range s.batches {
		if b.MedicineID == medicineID {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpiryDate.Equal(out[j].ExpiryDate.Time) {
			return out[i].ExpiryDate.Before(out[j].ExpiryDate.Time)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

type memMedicines memStore

func (r *memMedicines) store() *memStore { return (*memStore)(r) }

func (r *memMedicines) Create(ctx context.Context, medicine *models.Medicine) error {
	s := r.store()
	if err := s.fail("medicines.Create"); err != nil {
		return err
	}
	if medicine.Barcode != nil {
		for _, m := range s.medicines {
			if m.UserID == medicine.UserID && m.Barcode != nil && *m.Barcode == *medicine.Barcode {
				return repositories.ErrDuplicateBarcode
			}
		}
	}
	if medicine.ID == uuid.Nil {
		medicine.ID = uuid.New()
	}
	now := s.tick()
	medicine.CreatedAt, medicine.UpdatedAt = now, now
	stored := *medicine
	stored.Batches = nil
	s.medicines[medicine.ID] = stored
	return nil
}

func (r *memMedicines) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Medicine, error) {
	m, ok := r.store().medicines[id]
	if !ok || m.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	return &m, nil
}

func (r *memMedicines) GetByBarcode(ctx context.Context, userID uuid.UUID, barcode string) (*models.Medicine, error) {
	for _, m := range r.store().medicines {
		if m.UserID == userID && m.Barcode != nil && *m.Barcode == barcode {
			m := m
			return &m, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memMedicines) ordered(userID uuid.UUID) []*models.Medicine {
	var out []*models.Medicine
	for _, m := range r.store().medicines {
		if m.UserID == userID {
			m := m
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (r *memMedicines) FindByName(ctx context.Context, userID uuid.UUID, name string) (*models.Medicine, error) {
	for _, m := range r.ordered(userID) {
		if strings.Contains(strings.ToLower(m.Name), strings.ToLower(name)) {
			return m, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memMedicines) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Medicine, error) {
	all := r.ordered(userID)
	if offset >= len(all) {
		return []*models.Medicine{}, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *memMedicines) Update(ctx context.Context, medicine *models.Medicine) error {
	s := r.store()
	if err := s.fail("medicines.Update"); err != nil {
		return err
	}
	current, ok := s.medicines[medicine.ID]
	if !ok || current.UserID != medicine.UserID {
		return repositories.ErrNotFound
	}
	if medicine.Barcode != nil {
		for id, m := range s.medicines {
			if id != medicine.ID && m.UserID == medicine.UserID && m.Barcode != nil && *m.Barcode == *medicine.Barcode {
				return repositories.ErrDuplicateBarcode
			}
		}
	}
	medicine.UpdatedAt = s.tick()
	stored := *medicine
	stored.Batches = nil
	s.medicines[medicine.ID] = stored
	return nil
}

func (r *memMedicines) Delete(ctx context.Context, userID, id uuid.UUID) error {
	s := r.store()
	if err := s.fail("medicines.Delete"); err != nil {
		return err
	}
	m, ok := s.medicines[id]
	if !ok || m.UserID != userID {
		return repositories.ErrNotFound
	}
	delete(s.medicines, id)
	for bid, b := range s.batches {
		if b.MedicineID == id {
			delete(s.batches, bid)
		}
	}
	return nil
}

type memBatches memStore

func (r *memBatches) store() *memStore { return (*memStore)(r) }

func (r *memBatches) Create(ctx context.Context, batch *models.InventoryBatch) error {
	s := r.store()
	if err := s.fail("batches.Create"); err != nil {
		return err
	}
	if _, ok := s.medicines[batch.MedicineID]; !ok {
		return errors.New("foreign key violation")
	}
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	now := s.tick()
	batch.CreatedAt, batch.UpdatedAt = now, now
	s.batches[batch.ID] = *batch
	return nil
}

func (r *memBatches) GetForUpdate(ctx context.Context, userID, id uuid.UUID) (*models.InventoryBatch, error) {
	s := r.store()
	b, ok := s.batches[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if m, ok := s.medicines[b.MedicineID]; !ok || m.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	return &b, nil
}

func (r *memBatches) ListByMedicine(ctx context.Context, medicineID uuid.UUID) ([]*models.InventoryBatch, error) {
	return r.store().batchesOf(medicineID), nil
}

func (r *memBatches) ListByMedicines(ctx context.Context, medicineIDs []uuid.UUID) (map[uuid.UUID][]*models.InventoryBatch, error) {
	out := map[uuid.UUID][]*models.InventoryBatch{}
	for _, id := range medicineIDs {
		if batches := r.store().batchesOf(id); len(batches) > 0 {
			out[id] = batches
		}
	}
	return out, nil
}

func (r *memBatches) UpdateQuantity(ctx context.Context, batch *models.InventoryBatch) error {
	s := r.store()
	if err := s.fail("batches.UpdateQuantity"); err != nil {
		return err
	}
	current, ok := s.batches[batch.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	current.Quantity = batch.Quantity
	current.UpdatedAt = s.tick()
	batch.UpdatedAt = current.UpdatedAt
	s.batches[batch.ID] = current
	return nil
}

func (r *memBatches) Delete(ctx context.Context, id uuid.UUID) error {
	s := r.store()
	if err := s.fail("batches.Delete"); err != nil {
		return err
	}
	if _, ok := s.batches[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.batches, id)
	return nil
}

func (r *memBatches) DeleteByMedicine(ctx context.Context, medicineID uuid.UUID) (int64, error) {
	s := r.store()
	if err := s.fail("batches.DeleteByMedicine"); err != nil {
		return 0, err
	}
	var n int64
	for id, b := range s.batches {
		if b.MedicineID == medicineID {
			delete(s.batches, id)
			n++
		}
	}
	return n, nil
}

func (r *memBatches) CountByMedicine(ctx context.Context, medicineID uuid.UUID) (int, error) {
	if err := r.store().fail("batches.CountByMedicine"); err != nil {
		return 0, err
	}
	return len(r.store().batchesOf(medicineID)), nil
}

func (r *memBatches) SumQuantity(ctx context.Context, medicineID uuid.UUID) (int, error) {
	total := 0
	for _, b := range r.store().batchesOf(medicineID) {
		total += b.Quantity
	}
	return total, nil
}

func (r *memBatches) ListExpiring(ctx context.Context, userID uuid.UUID, before time.Time) ([]*models.ExpiringBatch, error) {
	s := r.store()
	out := []*models.ExpiringBatch{}
	for _, b := range s.batches {
		m, ok := s.medicines[b.MedicineID]
		if !ok || m.UserID != userID || b.ExpiryDate.After(before) {
			continue
		}
		out = append(out, &models.ExpiringBatch{
			MedicineID:   m.ID,
			MedicineName: m.Name,
			LotNumber:    b.LotNumber,
			ExpiryDate:   b.ExpiryDate,
			Quantity:     b.Quantity,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpiryDate.Equal(out[j].ExpiryDate.Time) {
			return out[i].ExpiryDate.Before(out[j].ExpiryDate.Time)
		}
		return out[i].MedicineName < out[j].MedicineName
	})
	return out, nil
}

type memUsers memStore

func (r *memUsers) store() *memStore { return (*memStore)(r) }

func (r *memUsers) Create(ctx context.Context, user *models.User) error {
	s := r.store()
	for _, u := range s.users {
		if u.Username == user.Username {
			return repositories.ErrDuplicateUsername
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = s.tick()
	s.users[user.ID] = *user
	return nil
}

func (r *memUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := r.store().users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (r *memUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range r.store().users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memUsers) ListActive(ctx context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range r.store().users {
		if u.IsActive {
			u := u
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
