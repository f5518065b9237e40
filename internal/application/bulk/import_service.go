package bulk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	catalogapp "github.com/emart/backend/internal/application/catalog"
	partnerapp "github.com/emart/backend/internal/application/partner"
	"github.com/emart/backend/internal/domain/bulk"
	"github.com/emart/backend/internal/domain/shared"
	"github.com/emart/backend/internal/infrastructure/importer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductCreator creates products from approved import rows
type ProductCreator interface {
	Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
}

// SupplierCreator creates suppliers from approved import rows
type SupplierCreator interface {
	Create(ctx context.Context, req partnerapp.CreateSupplierRequest) (*partnerapp.SupplierResponse, error)
}

// ImportService runs the maker/checker CSV import workflow: an upload is
// parsed and validated into a pending job, and a different user approves it
// (applying the rows) or rejects it.
type ImportService struct {
	jobRepo   bulk.ImportJobRepository
	parser    *importer.Parser
	products  ProductCreator
	suppliers SupplierCreator
	logger    *zap.Logger
}

// NewImportService creates a new ImportService
func NewImportService(
	jobRepo bulk.ImportJobRepository,
	parser *importer.Parser,
	products ProductCreator,
	suppliers SupplierCreator,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		jobRepo:   jobRepo,
		parser:    parser,
		products:  products,
		suppliers: suppliers,
		logger:    logger,
	}
}

// ImportJobResponse is the transport representation of an import job
type ImportJobResponse struct {
	ID           uuid.UUID             `json:"id"`
	EntityType   string                `json:"entity_type"`
	FileName     string                `json:"file_name"`
	RowCount     int                   `json:"row_count"`
	Status       string                `json:"status"`
	Errors       []bulk.ImportRowError `json:"errors,omitempty"`
	RejectReason string                `json:"reject_reason,omitempty"`
	UploadedBy   uuid.UUID             `json:"uploaded_by"`
	ReviewedBy   *uuid.UUID            `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time            `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

// ApplyResult summarizes an approved import
type ApplyResult struct {
	Job         ImportJobResponse     `json:"job"`
	AppliedRows int                   `json:"applied_rows"`
	FailedRows  int                   `json:"failed_rows"`
	ApplyErrors []bulk.ImportRowError `json:"apply_errors,omitempty"`
}

func toImportJobResponse(job *bulk.ImportJob) ImportJobResponse {
	rowErrors, err := job.RowErrors()
	if err != nil {
		rowErrors = nil
	}
	return ImportJobResponse{
		ID:           job.ID,
		EntityType:   string(job.EntityType),
		FileName:     job.FileName,
		RowCount:     job.RowCount,
		Status:       string(job.Status),
		Errors:       rowErrors,
		RejectReason: job.RejectReason,
		UploadedBy:   job.UploadedBy,
		ReviewedBy:   job.ReviewedBy,
		ReviewedAt:   job.ReviewedAt,
		CreatedAt:    job.CreatedAt,
	}
}

func requiredColumns(entityType bulk.ImportEntityType) []string {
	switch entityType {
	case bulk.ImportEntityProducts:
		return []string{"name", "sku", "selling_price"}
	case bulk.ImportEntitySuppliers:
		return []string{"name"}
	}
	return nil
}

// Upload parses a CSV file into a pending import job. Validation errors are
// recorded on the job; a job with errors can still be reviewed but not
// approved.
func (s *ImportService) Upload(ctx context.Context, entityType bulk.ImportEntityType, fileName string, file io.Reader, uploadedBy uuid.UUID) (*ImportJobResponse, error) {
	job, err := bulk.NewImportJob(entityType, fileName, uploadedBy)
	if err != nil {
		return nil, err
	}

	rows, err := s.parser.Parse(file, requiredColumns(entityType))
	if err != nil {
		return nil, shared.NewDomainError("INVALID_FILE", err.Error())
	}

	rowErrors := s.validateRows(entityType, rows)
	rowsJSON, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rows: %w", err)
	}
	if err := job.SetRows(len(rows), string(rowsJSON), rowErrors); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info("import uploaded",
		zap.String("entity_type", string(entityType)),
		zap.String("file_name", fileName),
		zap.Int("rows", len(rows)),
		zap.Int("row_errors", len(rowErrors)),
	)

	response := toImportJobResponse(job)
	return &response, nil
}

func (s *ImportService) validateRows(entityType bulk.ImportEntityType, rows []importer.Row) []bulk.ImportRowError {
	var errs []bulk.ImportRowError
	seenSKU := make(map[string]int)
	for i, row := range rows {
		// data rows start after the header
		rowNum := i + 2
		switch entityType {
		case bulk.ImportEntityProducts:
			if row["name"] == "" {
				errs = append(errs, bulk.ImportRowError{Row: rowNum, Column: "name", Message: "name is required"})
			}
			sku := row["sku"]
			if sku == "" {
				errs = append(errs, bulk.ImportRowError{Row: rowNum, Column: "sku", Message: "sku is required"})
			} else if first, dup := seenSKU[sku]; dup {
				errs = append(errs, bulk.ImportRowError{
					Row: rowNum, Column: "sku", Value: sku,
					Message: fmt.Sprintf("duplicate of row %d", first),
				})
			} else {
				seenSKU[sku] = rowNum
			}
			if price, err := decimal.NewFromString(row["selling_price"]); err != nil || price.IsNegative() {
				errs = append(errs, bulk.ImportRowError{
					Row: rowNum, Column: "selling_price", Value: row["selling_price"],
					Message: "selling_price must be a non-negative number",
				})
			}
			if rate := row["gst_rate"]; rate != "" {
				if parsed, err := decimal.NewFromString(rate); err != nil || parsed.IsNegative() || parsed.GreaterThan(decimal.NewFromInt(100)) {
					errs = append(errs, bulk.ImportRowError{
						Row: rowNum, Column: "gst_rate", Value: rate,
						Message: "gst_rate must be between 0 and 100",
					})
				}
			}
		case bulk.ImportEntitySuppliers:
			if row["name"] == "" {
				errs = append(errs, bulk.ImportRowError{Row: rowNum, Column: "name", Message: "name is required"})
			}
			if gst := row["gst_number"]; gst != "" && len(gst) != 15 {
				errs = append(errs, bulk.ImportRowError{
					Row: rowNum, Column: "gst_number", Value: gst,
					Message: "gst_number must be 15 characters",
				})
			}
		}
	}
	return errs
}

// GetByID retrieves an import job
func (s *ImportService) GetByID(ctx context.Context, jobID uuid.UUID) (*ImportJobResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	response := toImportJobResponse(job)
	return &response, nil
}

// List retrieves import jobs, optionally filtered by status
func (s *ImportService) List(ctx context.Context, status string, page, pageSize int) ([]ImportJobResponse, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	var (
		jobs []bulk.ImportJob
		err  error
	)
	if status != "" {
		importStatus := bulk.ImportStatus(status)
		if !importStatus.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown import status")
		}
		jobs, err = s.jobRepo.FindByStatus(ctx, importStatus, filter)
	} else {
		jobs, err = s.jobRepo.FindAll(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]ImportJobResponse, 0, len(jobs))
	for i := range jobs {
		responses = append(responses, toImportJobResponse(&jobs[i]))
	}
	return responses, nil
}

// Approve applies a pending import. The reviewer must differ from the
// uploader, and a job with validation errors cannot be approved. Rows that
// fail at apply time (e.g. a SKU created since upload) are reported but do
// not abort the rest.
func (s *ImportService) Approve(ctx context.Context, jobID, reviewedBy uuid.UUID) (*ApplyResult, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.HasErrors() {
		return nil, shared.NewDomainError("INVALID_STATE", "Import has validation errors and cannot be approved")
	}
	if err := job.Approve(reviewedBy); err != nil {
		return nil, err
	}

	var rows []importer.Row
	if err := json.Unmarshal([]byte(job.RowsJSON), &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rows: %w", err)
	}

	applied := 0
	var applyErrors []bulk.ImportRowError
	for i, row := range rows {
		rowNum := i + 2
		if err := s.applyRow(ctx, job.EntityType, row); err != nil {
			applyErrors = append(applyErrors, bulk.ImportRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		applied++
	}

	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info("import approved",
		zap.String("job_id", job.ID.String()),
		zap.String("entity_type", string(job.EntityType)),
		zap.Int("applied", applied),
		zap.Int("failed", len(applyErrors)),
	)

	return &ApplyResult{
		Job:         toImportJobResponse(job),
		AppliedRows: applied,
		FailedRows:  len(applyErrors),
		ApplyErrors: applyErrors,
	}, nil
}

func (s *ImportService) applyRow(ctx context.Context, entityType bulk.ImportEntityType, row importer.Row) error {
	switch entityType {
	case bulk.ImportEntityProducts:
		sellingPrice, err := decimal.NewFromString(row["selling_price"])
		if err != nil {
			return fmt.Errorf("invalid selling_price: %w", err)
		}
		req := catalogapp.CreateProductRequest{
			Name:         row["name"],
			SKU:          row["sku"],
			Barcode:      row["barcode"],
			Description:  row["description"],
			Unit:         row["unit"],
			SellingPrice: sellingPrice,
			HSNCode:      row["hsn_code"],
		}
		if rate := row["gst_rate"]; rate != "" {
			parsed, err := decimal.NewFromString(rate)
			if err != nil {
				return fmt.Errorf("invalid gst_rate: %w", err)
			}
			req.GSTRate = &parsed
		}
		if price := row["purchase_price"]; price != "" {
			parsed, err := decimal.NewFromString(price)
			if err != nil {
				return fmt.Errorf("invalid purchase_price: %w", err)
			}
			req.PurchasePrice = &parsed
		}
		if level := row["min_stock_level"]; level != "" {
			parsed, err := strconv.ParseInt(level, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid min_stock_level: %w", err)
			}
			req.MinStockLevel = &parsed
		}
		_, err = s.products.Create(ctx, req)
		return err
	case bulk.ImportEntitySuppliers:
		_, err := s.suppliers.Create(ctx, partnerapp.CreateSupplierRequest{
			Name:          row["name"],
			ContactPerson: row["contact_person"],
			Phone:         row["phone"],
			Email:         row["email"],
			Address:       row["address"],
			GSTNumber:     row["gst_number"],
		})
		return err
	}
	return shared.NewDomainError("INVALID_ENTITY_TYPE", fmt.Sprintf("Unknown entity type: %s", entityType))
}

// Reject marks a pending import rejected without applying any rows
func (s *ImportService) Reject(ctx context.Context, jobID, reviewedBy uuid.UUID, reason string) (*ImportJobResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := job.Reject(reviewedBy, reason); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, err
	}

	response := toImportJobResponse(job)
	return &response, nil
}
