package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/emart/backend/internal/domain/inventory"
	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryRecordRepo is an in-memory InventoryRecordRepository. Values are
// stored by copy so uncommitted mutations never leak into the store.
type memoryRecordRepo struct {
	byKey map[string]inventory.InventoryRecord
}

func newMemoryRecordRepo() *memoryRecordRepo {
	return &memoryRecordRepo{byKey: make(map[string]inventory.InventoryRecord)}
}

func recordKey(productID uuid.UUID, location string) string {
	return fmt.Sprintf("%s/%s", productID, location)
}

func (r *memoryRecordRepo) snapshot() map[string]inventory.InventoryRecord {
	s := make(map[string]inventory.InventoryRecord, len(r.byKey))
	for k, v := range r.byKey {
		s[k] = v
	}
	return s
}

func (r *memoryRecordRepo) restore(s map[string]inventory.InventoryRecord) {
	r.byKey = s
}

func (r *memoryRecordRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryRecord, error) {
	for _, v := range r.byKey {
		if v.ID == id {
			rec := v
			return &rec, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryRecordRepo) FindByProductAndLocation(_ context.Context, productID uuid.UUID, location string) (*inventory.InventoryRecord, error) {
	if v, ok := r.byKey[recordKey(productID, location)]; ok {
		rec := v
		return &rec, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memoryRecordRepo) FindByProductAndLocationForUpdate(ctx context.Context, productID uuid.UUID, location string) (*inventory.InventoryRecord, error) {
	return r.FindByProductAndLocation(ctx, productID, location)
}

func (r *memoryRecordRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]inventory.InventoryRecord, error) {
	var out []inventory.InventoryRecord
	for _, v := range r.byKey {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *memoryRecordRepo) matches(v inventory.InventoryRecord, filter shared.Filter) bool {
	if pid, ok := filter.Filters["product_id"]; ok && v.ProductID != pid.(uuid.UUID) {
		return false
	}
	if loc, ok := filter.Filters["location"]; ok && v.Location != loc.(string) {
		return false
	}
	return true
}

func (r *memoryRecordRepo) FindAll(_ context.Context, filter shared.Filter) ([]inventory.InventoryRecord, error) {
	var out []inventory.InventoryRecord
	for _, v := range r.byKey {
		if r.matches(v, filter) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *memoryRecordRepo) Count(_ context.Context, filter shared.Filter) (int64, error) {
	var n int64
	for _, v := range r.byKey {
		if r.matches(v, filter) {
			n++
		}
	}
	return n, nil
}

func (r *memoryRecordRepo) GetOrCreate(_ context.Context, productID uuid.UUID, location string) (*inventory.InventoryRecord, error) {
	key := recordKey(productID, location)
	if v, ok := r.byKey[key]; ok {
		rec := v
		return &rec, nil
	}
	rec, err := inventory.NewInventoryRecord(productID, location)
	if err != nil {
		return nil, err
	}
	r.byKey[key] = *rec
	out := *rec
	return &out, nil
}

func (r *memoryRecordRepo) Save(_ context.Context, record *inventory.InventoryRecord) error {
	r.byKey[recordKey(record.ProductID, record.Location)] = *record
	return nil
}

func (r *memoryRecordRepo) SaveWithLock(_ context.Context, record *inventory.InventoryRecord) error {
	key := recordKey(record.ProductID, record.Location)
	stored, ok := r.byKey[key]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != record.Version-1 && stored.Version != record.Version {
		return shared.ErrConcurrencyConflict
	}
	r.byKey[key] = *record
	return nil
}

// memoryMovementRepo is an in-memory, append-only StockMovementRepository
type memoryMovementRepo struct {
	entries   []inventory.StockMovement
	createErr error
}

func newMemoryMovementRepo() *memoryMovementRepo {
	return &memoryMovementRepo{}
}

func (r *memoryMovementRepo) Create(_ context.Context, movement *inventory.StockMovement) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.entries = append(r.entries, *movement)
	return nil
}

func (r *memoryMovementRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockMovement, error) {
	for _, m := range r.entries {
		if m.ID == id {
			out := m
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryMovementRepo) FindAll(_ context.Context, filter shared.Filter) ([]inventory.StockMovement, error) {
	out := make([]inventory.StockMovement, len(r.entries))
	copy(out, r.entries)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.PageSize > 0 && len(out) > filter.PageSize {
		out = out[:filter.PageSize]
	}
	return out, nil
}

func (r *memoryMovementRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.entries)), nil
}

func (r *memoryMovementRepo) FindByProduct(_ context.Context, productID uuid.UUID, limit int) ([]inventory.StockMovement, error) {
	var out []inventory.StockMovement
	for _, m := range r.entries {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// atomicScope serializes Execute calls and rolls the in-memory stores back
// when the function fails, mirroring the all-or-nothing contract of the real
// database transaction scope.
type atomicScope struct {
	mu        sync.Mutex
	records   *memoryRecordRepo
	movements *memoryMovementRepo
}

func newAtomicScope(records *memoryRecordRepo, movements *memoryMovementRepo) *atomicScope {
	return &atomicScope{records: records, movements: movements}
}

func (s *atomicScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recordSnap := s.records.snapshot()
	movementSnap := make([]inventory.StockMovement, len(s.movements.entries))
	copy(movementSnap, s.movements.entries)

	if err := fn(s); err != nil {
		s.records.restore(recordSnap)
		s.movements.entries = movementSnap
		return err
	}
	return nil
}

func (s *atomicScope) RecordRepo() inventory.InventoryRecordRepository {
	return s.records
}

func (s *atomicScope) MovementRepo() inventory.StockMovementRepository {
	return s.movements
}

var _ TransactionScope = (*atomicScope)(nil)

// lockTrackingRepo records which locations are read under a row lock
type lockTrackingRepo struct {
	*memoryRecordRepo
	lockedLocations []string
}

func (r *lockTrackingRepo) FindByProductAndLocationForUpdate(ctx context.Context, productID uuid.UUID, location string) (*inventory.InventoryRecord, error) {
	r.lockedLocations = append(r.lockedLocations, location)
	return r.memoryRecordRepo.FindByProductAndLocationForUpdate(ctx, productID, location)
}

type lockTrackingScope struct {
	*atomicScope
	tracking *lockTrackingRepo
}

func (s *lockTrackingScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return s.atomicScope.Execute(ctx, func(TransactionalRepositories) error { return fn(s) })
}

func (s *lockTrackingScope) RecordRepo() inventory.InventoryRecordRepository {
	return s.tracking
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
}

type serviceFixture struct {
	service   *Service
	records   *memoryRecordRepo
	movements *memoryMovementRepo
	publisher *capturingPublisher
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	records := newMemoryRecordRepo()
	movements := newMemoryMovementRepo()
	publisher := &capturingPublisher{}
	service := NewService(newAtomicScope(records, movements), records, movements, zap.NewNop()).
		WithEventPublisher(publisher)
	return &serviceFixture{service: service, records: records, movements: movements, publisher: publisher}
}

func (f *serviceFixture) seedStock(t *testing.T, productID uuid.UUID, location string, quantity int64) {
	t.Helper()
	rec, err := inventory.NewInventoryRecord(productID, location)
	require.NoError(t, err)
	if quantity > 0 {
		require.NoError(t, rec.Receive(quantity, uuid.Nil))
	}
	rec.ClearDomainEvents()
	require.NoError(t, f.records.Save(context.Background(), rec))
}

func (f *serviceFixture) stockAt(t *testing.T, productID uuid.UUID, location string) int64 {
	t.Helper()
	rec, err := f.records.FindByProductAndLocation(context.Background(), productID, location)
	if errors.Is(err, shared.ErrNotFound) {
		return 0
	}
	require.NoError(t, err)
	return rec.QuantityInStock
}

// replayLedger reconstructs net stock per location for a product from the
// movement ledger alone
func (f *serviceFixture) replayLedger(productID uuid.UUID) map[string]int64 {
	net := make(map[string]int64)
	for _, m := range f.movements.entries {
		if m.ProductID != productID {
			continue
		}
		if m.FromLocation != nil {
			net[*m.FromLocation] -= m.Quantity
		}
		if m.ToLocation != nil {
			net[*m.ToLocation] += m.Quantity
		}
	}
	return net
}

func TestService_Transfer(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("moves stock and creates destination lazily", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := uuid.New()
		f.seedStock(t, productID, inventory.LocationWarehouse, 100)

		result, err := f.service.Transfer(ctx, TransferRequest{
			ProductID:    productID,
			FromLocation: inventory.LocationWarehouse,
			ToLocation:   inventory.LocationShelf,
			Quantity:     30,
			UserID:       userID,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(70), result.Source.QuantityInStock)
		assert.Equal(t, int64(30), result.Destination.QuantityInStock)
		assert.Equal(t, int64(70), f.stockAt(t, productID, inventory.LocationWarehouse))
		assert.Equal(t, int64(30), f.stockAt(t, productID, inventory.LocationShelf))

		require.Len(t, f.movements.entries, 1)
		m := f.movements.entries[0]
		assert.Equal(t, inventory.MovementTypeTransfer, m.MovementType)
		assert.Equal(t, int64(30), m.Quantity)
		assert.Equal(t, inventory.LocationWarehouse, *m.FromLocation)
		assert.Equal(t, inventory.LocationShelf, *m.ToLocation)
		assert.Equal(t, userID, *m.CreatedBy)
	})

	t.Run("locks both rows of the pair", func(t *testing.T) {
		records := newMemoryRecordRepo()
		movements := newMemoryMovementRepo()
		tracking := &lockTrackingRepo{memoryRecordRepo: records}
		scope := &lockTrackingScope{atomicScope: newAtomicScope(records, movements), tracking: tracking}
		service := NewService(scope, records, movements, zap.NewNop())

		productID := uuid.New()
		for _, seed := range []struct {
			location string
			quantity int64
		}{
			{inventory.LocationWarehouse, 50},
			{inventory.LocationShelf, 5},
		} {
			rec, err := inventory.NewInventoryRecord(productID, seed.location)
			require.NoError(t, err)
			require.NoError(t, rec.Receive(seed.quantity, uuid.Nil))
			rec.ClearDomainEvents()
			require.NoError(t, records.Save(ctx, rec))
		}

		_, err := service.Transfer(ctx, TransferRequest{
			ProductID:    productID,
			FromLocation: inventory.LocationWarehouse,
			ToLocation:   inventory.LocationShelf,
			Quantity:     10,
			UserID:       userID,
		})

		require.NoError(t, err)
		assert.Equal(t, []string{inventory.LocationWarehouse, inventory.LocationShelf}, tracking.lockedLocations)
	})

	t.Run("conserves total quantity across locations", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := uuid.New()
		f.seedStock(t, productID, inventory.LocationWarehouse, 60)
		f.seedStock(t, productID, inventory.LocationShelf, 15)
		before := f.stockAt(t, productID, inventory.LocationWarehouse) + f.stockAt(t, productID, inventory.LocationShelf)

		_, err := f.service.Transfer(ctx, TransferRequest{
			ProductID:    productID,
			FromLocation: inventory.LocationWarehouse,
			ToLocation:   inventory.LocationShelf,
			Quantity:     25,
			UserID:       userID,
		})

		require.NoError(t, err)
		after := f.stockAt(t, productID, inventory.LocationWarehouse) + f.stockAt(t, productID, inventory.LocationShelf)
		assert.Equal(t, before, after)
	})

	t.Run("insufficient stock leaves no trace", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := uuid.New()
		f.seedStock(t, productID, inventory.LocationWarehouse, 100)

		_, err := f.service.Transfer(ctx, TransferRequest{
			ProductID:    productID,
			FromLocation: inventory.LocationWarehouse,
			ToLocation:   inventory.LocationShelf,
			Quantity:     150,
			UserID:       userID,
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, int64(100), f.stockAt(t, productID, inventory.LocationWarehouse))
		assert.Equal(t, int64(0), f.stockAt(t, productID, inventory.LocationShelf))
		assert.Empty(t, f.movements.entries)
	})

	t.Run("missing source is zero stock", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.Transfer(ctx, TransferRequest{
			ProductID:    uuid.New(),
			FromLocation: inventory.LocationWarehouse,
			ToLocation:   inventory.LocationShelf,
			Quantity:     1,
			UserID:       userID,
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("full quantity transfer leaves source at zero", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := uuid.New()
		f.seedStock(t, productID, inventory.LocationWarehouse, 40)

		result, err := f.service.Transfer(ctx, TransferRequest{
			ProductID:    productID,
			FromLocation: inventory.LocationWarehouse,
			ToLocation:   inventory.LocationShelf,
			Quantity:     40,
			UserID:       userID,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(0), result.Source.QuantityInStock)
		assert.Equal(t, int64(40), result.Destination.QuantityInStock)
	})

	t.Run("rejects non-positive quantity before any read", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.Transfer(ctx, TransferRequest{
			ProductID:    uuid.New(),
			FromLocation: inventory.LocationWarehouse,
			ToLocation:   inventory.LocationShelf,
			Quantity:     0,
			UserID:       userID,
		})

		assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)
	})

	t.Run("rejects same source and destination", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.Transfer(ctx, TransferRequest{
			ProductID:    uuid.New(),
			FromLocation: inventory.LocationShelf,
			ToLocation:   inventory.LocationShelf,
			Quantity:     5,
			UserID:       userID,
		})

		assert.ErrorIs(t, err, inventory.ErrSameLocation)
	})

	t.Run("ledger append failure rolls the whole transfer back", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := uuid.New()
		f.seedStock(t, productID, inventory.LocationWarehouse, 100)
		f.movements.createErr = errors.New("connection reset")

		_, err := f.service.Transfer(ctx, TransferRequest{
			ProductID:    productID,
			FromLocation: inventory.LocationWarehouse,
			ToLocation:   inventory.LocationShelf,
			Quantity:     10,
			UserID:       userID,
		})

		require.Error(t, err)
		assert.Equal(t, int64(100), f.stockAt(t, productID, inventory.LocationWarehouse))
		assert.Equal(t, int64(0), f.stockAt(t, productID, inventory.LocationShelf))
		assert.Empty(t, f.movements.entries)
	})

	t.Run("concurrent transfers on the same pair serialize", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := uuid.New()
		f.seedStock(t, productID, inventory.LocationShelf, 5)

		results := make(chan error, 2)
		for i := 0; i < 2; i++ {
			go func() {
				_, err := f.service.Transfer(ctx, TransferRequest{
					ProductID:    productID,
					FromLocation: inventory.LocationShelf,
					ToLocation:   inventory.LocationWarehouse,
					Quantity:     4,
					UserID:       userID,
				})
				results <- err
			}()
		}

		var succeeded, insufficient int
		for i := 0; i < 2; i++ {
			err := <-results
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, shared.ErrInsufficientStock):
				insufficient++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}

		assert.Equal(t, 1, succeeded)
		assert.Equal(t, 1, insufficient)
		assert.Equal(t, int64(1), f.stockAt(t, productID, inventory.LocationShelf))
		assert.Equal(t, int64(4), f.stockAt(t, productID, inventory.LocationWarehouse))
		require.Len(t, f.movements.entries, 1)
	})

	t.Run("replaying the ledger reconstructs the counters", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := uuid.New()

		_, err := f.service.Adjust(ctx, AdjustRequest{
			ProductID: productID, Location: inventory.LocationWarehouse,
			MovementType: inventory.MovementTypeIn, Quantity: 100, UserID: userID,
		})
		require.NoError(t, err)

		_, err = f.service.Transfer(ctx, TransferRequest{
			ProductID: productID, FromLocation: inventory.LocationWarehouse,
			ToLocation: inventory.LocationShelf, Quantity: 30, UserID: userID,
		})
		require.NoError(t, err)

		_, err = f.service.Adjust(ctx, AdjustRequest{
			ProductID: productID, Location: inventory.LocationShelf,
			MovementType: inventory.MovementTypeOut, Quantity: 12, UserID: userID,
		})
		require.NoError(t, err)

		net := f.replayLedger(productID)
		assert.Equal(t, f.stockAt(t, productID, inventory.LocationWarehouse), net[inventory.LocationWarehouse])
		assert.Equal(t, f.stockAt(t, productID, inventory.LocationShelf), net[inventory.LocationShelf])
	})
}

func TestService_Adjust(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("inbound adjustment creates the record lazily", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := uuid.New()

		result, err := f.service.Adjust(ctx, AdjustRequest{
			ProductID:    productID,
			Location:     inventory.LocationWarehouse,
			MovementType: inventory.MovementTypeIn,
			Quantity:     20,
			Reference:    "GRN-041",
			UserID:       userID,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(20), result.Record.QuantityInStock)
		require.Len(t, f.movements.entries, 1)
		m := f.movements.entries[0]
		assert.Equal(t, inventory.MovementTypeIn, m.MovementType)
		assert.Nil(t, m.FromLocation)
		assert.Equal(t, inventory.LocationWarehouse, *m.ToLocation)
		assert.Equal(t, "GRN-041", m.Reference)
	})

	t.Run("outbound adjustment respects the non-negative invariant", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := uuid.New()
		f.seedStock(t, productID, inventory.LocationShelf, 3)

		_, err := f.service.Adjust(ctx, AdjustRequest{
			ProductID:    productID,
			Location:     inventory.LocationShelf,
			MovementType: inventory.MovementTypeOut,
			Quantity:     5,
			UserID:       userID,
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, int64(3), f.stockAt(t, productID, inventory.LocationShelf))
		assert.Empty(t, f.movements.entries)
	})

	t.Run("outbound adjustment sets only the source location", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := uuid.New()
		f.seedStock(t, productID, inventory.LocationShelf, 10)

		_, err := f.service.Adjust(ctx, AdjustRequest{
			ProductID:    productID,
			Location:     inventory.LocationShelf,
			MovementType: inventory.MovementTypeOut,
			Quantity:     4,
			Reason:       "customer sale",
			UserID:       userID,
		})

		require.NoError(t, err)
		require.Len(t, f.movements.entries, 1)
		m := f.movements.entries[0]
		assert.Equal(t, inventory.LocationShelf, *m.FromLocation)
		assert.Nil(t, m.ToLocation)
	})

	t.Run("damage write-off conserves units across counters", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := uuid.New()
		f.seedStock(t, productID, inventory.LocationWarehouse, 50)

		result, err := f.service.Adjust(ctx, AdjustRequest{
			ProductID:    productID,
			Location:     inventory.LocationWarehouse,
			MovementType: inventory.MovementTypeOut,
			Quantity:     6,
			Damaged:      true,
			Reason:       "water damage",
			UserID:       userID,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(44), result.Record.QuantityInStock)
		assert.Equal(t, int64(6), result.Record.DamagedQuantity)
	})

	t.Run("manual correction honors direction", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := uuid.New()
		f.seedStock(t, productID, inventory.LocationWarehouse, 20)

		_, err := f.service.Adjust(ctx, AdjustRequest{
			ProductID:    productID,
			Location:     inventory.LocationWarehouse,
			MovementType: inventory.MovementTypeAdjustment,
			Quantity:     5,
			Increase:     false,
			Reason:       "cycle count",
			UserID:       userID,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(15), f.stockAt(t, productID, inventory.LocationWarehouse))
		require.Len(t, f.movements.entries, 1)
		assert.Equal(t, inventory.MovementTypeAdjustment, f.movements.entries[0].MovementType)
	})

	t.Run("rejects transfer movement type", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.Adjust(ctx, AdjustRequest{
			ProductID:    uuid.New(),
			Location:     inventory.LocationWarehouse,
			MovementType: inventory.MovementTypeTransfer,
			Quantity:     1,
			UserID:       userID,
		})

		require.Error(t, err)
	})

	t.Run("publishes a low stock event when crossing the threshold", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := uuid.New()
		f.seedStock(t, productID, inventory.LocationShelf, 15)

		_, err := f.service.Adjust(ctx, AdjustRequest{
			ProductID:    productID,
			Location:     inventory.LocationShelf,
			MovementType: inventory.MovementTypeOut,
			Quantity:     8,
			UserID:       userID,
		})

		require.NoError(t, err)
		var found bool
		for _, e := range f.publisher.events {
			if e.EventType() == inventory.EventTypeStockBelowThreshold {
				found = true
			}
		}
		assert.True(t, found, "expected a stock below threshold event")
	})
}

func TestService_UpdateRecord(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("quantity change is ledger-backed", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := uuid.New()
		f.seedStock(t, productID, inventory.LocationWarehouse, 50)
		rec, err := f.records.FindByProductAndLocation(ctx, productID, inventory.LocationWarehouse)
		require.NoError(t, err)

		target := int64(30)
		result, err := f.service.UpdateRecord(ctx, rec.ID, UpdateRecordRequest{
			QuantityInStock: &target,
			Reason:          "stock take",
			UserID:          userID,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(30), result.QuantityInStock)
		require.Len(t, f.movements.entries, 1)
		m := f.movements.entries[0]
		assert.Equal(t, inventory.MovementTypeAdjustment, m.MovementType)
		assert.Equal(t, int64(20), m.Quantity)
		require.NotNil(t, m.FromLocation)
	})

	t.Run("reorder point change writes no movement", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := uuid.New()
		f.seedStock(t, productID, inventory.LocationWarehouse, 50)
		rec, err := f.records.FindByProductAndLocation(ctx, productID, inventory.LocationWarehouse)
		require.NoError(t, err)

		point := int64(25)
		result, err := f.service.UpdateRecord(ctx, rec.ID, UpdateRecordRequest{
			ReorderPoint: &point,
			UserID:       userID,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(25), result.ReorderPoint)
		assert.Empty(t, f.movements.entries)
	})

	t.Run("rejects negative target quantity", func(t *testing.T) {
		f := newServiceFixture(t)
		target := int64(-1)

		_, err := f.service.UpdateRecord(ctx, uuid.New(), UpdateRecordRequest{QuantityInStock: &target})

		assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)
	})

	t.Run("rejects empty update", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.UpdateRecord(ctx, uuid.New(), UpdateRecordRequest{})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestService_Queries(t *testing.T) {
	ctx := context.Background()

	t.Run("list records filters by product and location", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := uuid.New()
		f.seedStock(t, productID, inventory.LocationWarehouse, 10)
		f.seedStock(t, productID, inventory.LocationShelf, 5)
		f.seedStock(t, uuid.New(), inventory.LocationWarehouse, 7)

		all, total, err := f.service.ListRecords(ctx, ListRecordsQuery{})
		require.NoError(t, err)
		assert.Len(t, all, 3)
		assert.Equal(t, int64(3), total)

		byProduct, total, err := f.service.ListRecords(ctx, ListRecordsQuery{ProductID: &productID})
		require.NoError(t, err)
		assert.Len(t, byProduct, 2)
		assert.Equal(t, int64(2), total)

		byPair, _, err := f.service.ListRecords(ctx, ListRecordsQuery{ProductID: &productID, Location: inventory.LocationShelf})
		require.NoError(t, err)
		require.Len(t, byPair, 1)
		assert.Equal(t, int64(5), byPair[0].QuantityInStock)
	})

	t.Run("movement query caps at the default limit", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := uuid.New()
		for i := 0; i < DefaultMovementLimit+10; i++ {
			_, err := f.service.Adjust(ctx, AdjustRequest{
				ProductID:    productID,
				Location:     inventory.LocationWarehouse,
				MovementType: inventory.MovementTypeIn,
				Quantity:     1,
				UserID:       uuid.New(),
			})
			require.NoError(t, err)
		}

		movements, err := f.service.ListMovements(ctx, ListMovementsQuery{ProductID: &productID})
		require.NoError(t, err)
		assert.Len(t, movements, DefaultMovementLimit)
	})

	t.Run("seed records creates both special locations at zero", func(t *testing.T) {
		f := newServiceFixture(t)
		productID := uuid.New()

		require.NoError(t, f.service.SeedRecords(ctx, productID))

		assert.Equal(t, int64(0), f.stockAt(t, productID, inventory.LocationWarehouse))
		records, err := f.records.FindByProduct(ctx, productID)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}
