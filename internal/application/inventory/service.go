package inventory

import (
	"context"
	"errors"

	"github.com/emart/backend/internal/domain/inventory"
	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMovementLimit caps ledger queries when the caller does not ask for a
// specific page size
const DefaultMovementLimit = 50

// MaxMovementLimit is the hard cap for a single ledger query
const MaxMovementLimit = 500

// Service orchestrates all inventory mutations. Every mutation runs inside a
// transaction scope so the counter update and its ledger append are atomic,
// and every touched row is locked for the read-validate-write sequence so
// concurrent mutations of the same (product, location) pair serialize instead
// of losing updates.
type Service struct {
	txScope   TransactionScope
	records   inventory.InventoryRecordRepository
	movements inventory.StockMovementRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewService creates a new inventory service
func NewService(
	txScope TransactionScope,
	records inventory.InventoryRecordRepository,
	movements inventory.StockMovementRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		txScope:   txScope,
		records:   records,
		movements: movements,
		logger:    logger,
	}
}

// WithEventPublisher sets the publisher used for post-commit domain events
func (s *Service) WithEventPublisher(publisher shared.EventPublisher) *Service {
	s.publisher = publisher
	return s
}

// Transfer moves quantity of a product from one location to another as a
// single atomic operation: lock and validate the source, decrement it, lazily
// create and increment the destination, and append exactly one transfer
// movement. Either all of it commits or none of it does. A missing source
// record is treated as zero stock and fails the sufficiency check.
func (s *Service) Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	if req.Quantity <= 0 {
		return nil, inventory.ErrInvalidQuantity
	}
	if req.FromLocation == "" || req.ToLocation == "" {
		return nil, inventory.ErrInvalidLocation
	}
	if req.FromLocation == req.ToLocation {
		return nil, inventory.ErrSameLocation
	}

	var (
		source      *inventory.InventoryRecord
		destination *inventory.InventoryRecord
		movement    *inventory.StockMovement
		events      []shared.DomainEvent
	)

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		source, err = repos.RecordRepo().FindByProductAndLocationForUpdate(ctx, req.ProductID, req.FromLocation)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrInsufficientStock
			}
			return err
		}

		if err = source.Consume(req.Quantity, req.UserID); err != nil {
			return err
		}
		if err = repos.RecordRepo().SaveWithLock(ctx, source); err != nil {
			return err
		}

		// The destination is locked like the source, so a transfer into a
		// busy location waits for the row instead of failing the version
		// check on save.
		destination, err = repos.RecordRepo().FindByProductAndLocationForUpdate(ctx, req.ProductID, req.ToLocation)
		if errors.Is(err, shared.ErrNotFound) {
			destination, err = repos.RecordRepo().GetOrCreate(ctx, req.ProductID, req.ToLocation)
		}
		if err != nil {
			return err
		}
		if err = destination.Receive(req.Quantity, req.UserID); err != nil {
			return err
		}
		if err = repos.RecordRepo().SaveWithLock(ctx, destination); err != nil {
			return err
		}

		movement, err = inventory.NewTransferMovement(req.ProductID, req.FromLocation, req.ToLocation, req.Quantity, req.UserID)
		if err != nil {
			return err
		}
		movement.WithReference(req.Reference).WithReason(req.Reason)
		if err = repos.MovementRepo().Create(ctx, movement); err != nil {
			return err
		}

		events = append(events, source.GetDomainEvents()...)
		events = append(events, inventory.NewStockTransferredEvent(source, req.ToLocation, req.Quantity))
		source.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)
	s.logger.Info("stock transferred",
		zap.String("product_id", req.ProductID.String()),
		zap.String("from", req.FromLocation),
		zap.String("to", req.ToLocation),
		zap.Int64("quantity", req.Quantity),
	)

	return &TransferResult{
		Source:      ToInventoryRecordResponse(source),
		Destination: ToInventoryRecordResponse(destination),
		Movement:    ToStockMovementResponse(movement),
	}, nil
}

// Adjust applies a single-location stock change: receiving ("in"),
// consumption or damage write-off ("out"), or a manual correction
// ("adjustment"). Exactly one movement is appended per successful call,
// inside the same transaction as the counter update.
func (s *Service) Adjust(ctx context.Context, req AdjustRequest) (*AdjustResult, error) {
	if req.Quantity <= 0 {
		return nil, inventory.ErrInvalidQuantity
	}
	if req.Location == "" {
		return nil, inventory.ErrInvalidLocation
	}
	switch req.MovementType {
	case inventory.MovementTypeIn, inventory.MovementTypeOut, inventory.MovementTypeAdjustment:
	default:
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Adjustment must be of type in, out or adjustment")
	}

	increase := req.MovementType == inventory.MovementTypeIn ||
		(req.MovementType == inventory.MovementTypeAdjustment && req.Increase)

	var (
		record   *inventory.InventoryRecord
		movement *inventory.StockMovement
		events   []shared.DomainEvent
	)

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		if increase {
			record, err = repos.RecordRepo().GetOrCreate(ctx, req.ProductID, req.Location)
		} else {
			record, err = repos.RecordRepo().FindByProductAndLocationForUpdate(ctx, req.ProductID, req.Location)
			if errors.Is(err, shared.ErrNotFound) {
				err = shared.ErrInsufficientStock
			}
		}
		if err != nil {
			return err
		}

		switch {
		case increase:
			err = record.Receive(req.Quantity, req.UserID)
		case req.MovementType == inventory.MovementTypeOut && req.Damaged:
			err = record.WriteOffDamaged(req.Quantity, req.UserID)
		default:
			err = record.Consume(req.Quantity, req.UserID)
		}
		if err != nil {
			return err
		}
		if err = repos.RecordRepo().SaveWithLock(ctx, record); err != nil {
			return err
		}

		switch req.MovementType {
		case inventory.MovementTypeIn:
			movement, err = inventory.NewInboundMovement(req.ProductID, req.Location, req.Quantity, req.UserID)
		case inventory.MovementTypeOut:
			movement, err = inventory.NewOutboundMovement(req.ProductID, req.Location, req.Quantity, req.UserID)
		default:
			movement, err = inventory.NewAdjustmentMovement(req.ProductID, req.Location, req.Quantity, increase, req.UserID)
		}
		if err != nil {
			return err
		}
		movement.WithReference(req.Reference).WithReason(req.Reason)
		if err = repos.MovementRepo().Create(ctx, movement); err != nil {
			return err
		}

		events = append(events, record.GetDomainEvents()...)
		events = append(events, inventory.NewStockAdjustedEvent(record, req.MovementType, req.Quantity))
		record.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)
	s.logger.Info("stock adjusted",
		zap.String("product_id", req.ProductID.String()),
		zap.String("location", req.Location),
		zap.String("movement_type", string(req.MovementType)),
		zap.Int64("quantity", req.Quantity),
	)

	return &AdjustResult{
		Record:   ToInventoryRecordResponse(record),
		Movement: ToStockMovementResponse(movement),
	}, nil
}

// UpdateRecord partially updates one inventory record. A quantity change is
// applied as a manual correction through the same transactional path as
// Adjust, so it still produces a ledger entry; the reorder point changes
// without one.
func (s *Service) UpdateRecord(ctx context.Context, id uuid.UUID, req UpdateRecordRequest) (*InventoryRecordResponse, error) {
	if req.QuantityInStock == nil && req.ReorderPoint == nil {
		return nil, shared.ErrInvalidInput
	}
	if req.QuantityInStock != nil && *req.QuantityInStock < 0 {
		return nil, inventory.ErrInvalidQuantity
	}

	var (
		record *inventory.InventoryRecord
		events []shared.DomainEvent
	)

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		record, err = repos.RecordRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}

		if req.QuantityInStock != nil {
			delta := *req.QuantityInStock - record.QuantityInStock
			if delta != 0 {
				quantity := delta
				increase := true
				if delta < 0 {
					quantity = -delta
					increase = false
				}
				if increase {
					err = record.Receive(quantity, req.UserID)
				} else {
					err = record.Consume(quantity, req.UserID)
				}
				if err != nil {
					return err
				}

				movement, err := inventory.NewAdjustmentMovement(record.ProductID, record.Location, quantity, increase, req.UserID)
				if err != nil {
					return err
				}
				movement.WithReason(req.Reason)
				if err = repos.MovementRepo().Create(ctx, movement); err != nil {
					return err
				}
			}
		}

		if req.ReorderPoint != nil {
			if err = record.SetReorderPoint(*req.ReorderPoint, req.UserID); err != nil {
				return err
			}
		}

		if err = repos.RecordRepo().SaveWithLock(ctx, record); err != nil {
			return err
		}

		events = append(events, record.GetDomainEvents()...)
		record.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)

	resp := ToInventoryRecordResponse(record)
	return &resp, nil
}

// GetRecord returns one inventory record by id
func (s *Service) GetRecord(ctx context.Context, id uuid.UUID) (*InventoryRecordResponse, error) {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToInventoryRecordResponse(record)
	return &resp, nil
}

// GetByProductAndLocation returns the record for a pair; a missing pair is a
// valid zero-stock state reported as shared.ErrNotFound
func (s *Service) GetByProductAndLocation(ctx context.Context, productID uuid.UUID, location string) (*InventoryRecordResponse, error) {
	record, err := s.records.FindByProductAndLocation(ctx, productID, location)
	if err != nil {
		return nil, err
	}
	resp := ToInventoryRecordResponse(record)
	return &resp, nil
}

// ListRecords returns inventory records ordered by most recently updated first
func (s *Service) ListRecords(ctx context.Context, query ListRecordsQuery) ([]InventoryRecordResponse, int64, error) {
	filter := shared.DefaultFilter()
	filter.OrderBy = "updated_at"
	filter.OrderDir = "desc"
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	if query.ProductID != nil {
		filter.Filters["product_id"] = *query.ProductID
	}
	if query.Location != "" {
		filter.Filters["location"] = query.Location
	}

	records, err := s.records.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.records.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InventoryRecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, ToInventoryRecordResponse(&records[i]))
	}
	return responses, total, nil
}

// ListMovements returns ledger entries ordered by creation time descending,
// capped at the requested limit (default 50)
func (s *Service) ListMovements(ctx context.Context, query ListMovementsQuery) ([]StockMovementResponse, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultMovementLimit
	}
	if limit > MaxMovementLimit {
		limit = MaxMovementLimit
	}

	var (
		movements []inventory.StockMovement
		err       error
	)
	if query.ProductID != nil {
		movements, err = s.movements.FindByProduct(ctx, *query.ProductID, limit)
	} else {
		filter := shared.DefaultFilter()
		filter.PageSize = limit
		filter.OrderBy = "created_at"
		filter.OrderDir = "desc"
		movements, err = s.movements.FindAll(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]StockMovementResponse, 0, len(movements))
	for i := range movements {
		responses = append(responses, ToStockMovementResponse(&movements[i]))
	}
	return responses, nil
}

// SeedRecords lazily creates zero-quantity warehouse and shelf records for a
// product. Called when a product enters the catalog; existing records are
// left untouched.
func (s *Service) SeedRecords(ctx context.Context, productID uuid.UUID) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, location := range []string{inventory.LocationWarehouse, inventory.LocationShelf} {
			if _, err := repos.RecordRepo().GetOrCreate(ctx, productID, location); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	s.publisher.Publish(ctx, events...)
}
