package bulk

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ImportEntityType represents the type of entity being imported
type ImportEntityType string

const (
	ImportEntityProducts  ImportEntityType = "products"
	ImportEntitySuppliers ImportEntityType = "suppliers"
)

// IsValid checks if the entity type is valid
func (e ImportEntityType) IsValid() bool {
	switch e {
	case ImportEntityProducts, ImportEntitySuppliers:
		return true
	}
	return false
}

// ImportStatus is the maker/checker state of an uploaded file. An upload
// starts pending and a different user either approves or rejects it; both
// transitions are terminal.
type ImportStatus string

const (
	ImportStatusPending  ImportStatus = "pending"
	ImportStatusApproved ImportStatus = "approved"
	ImportStatusRejected ImportStatus = "rejected"
)

// IsValid checks if the status is valid
func (s ImportStatus) IsValid() bool {
	switch s {
	case ImportStatusPending, ImportStatusApproved, ImportStatusRejected:
		return true
	}
	return false
}

// IsTerminal returns true if this is a terminal state
func (s ImportStatus) IsTerminal() bool {
	return s == ImportStatusApproved || s == ImportStatusRejected
}

// ImportRowError describes a validation failure on one CSV row
type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// ImportJob tracks one uploaded CSV file through the maker/checker workflow.
// The parsed rows are held on the job until a checker approves them, so the
// apply step works from exactly what was validated at upload time.
type ImportJob struct {
	shared.BaseAggregateRoot
	EntityType   ImportEntityType `gorm:"type:varchar(30);not null"`
	FileName     string           `gorm:"type:varchar(255);not null"`
	RowCount     int              `gorm:"not null;default:0"`
	Status       ImportStatus     `gorm:"type:varchar(20);not null;default:'pending'"`
	RowsJSON     string           `gorm:"type:text"`
	ErrorsJSON   string           `gorm:"type:text"`
	RejectReason string           `gorm:"type:varchar(255)"`
	UploadedBy   uuid.UUID        `gorm:"type:uuid;not null"`
	ReviewedBy   *uuid.UUID       `gorm:"type:uuid"`
	ReviewedAt   *time.Time
}

// TableName returns the database table name
func (ImportJob) TableName() string {
	return "import_jobs"
}

// NewImportJob creates a pending import job
func NewImportJob(entityType ImportEntityType, fileName string, uploadedBy uuid.UUID) (*ImportJob, error) {
	if !entityType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", fmt.Sprintf("Invalid entity type: %s", entityType))
	}
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if uploadedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UPLOADER", "Uploader cannot be empty")
	}

	return &ImportJob{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EntityType:        entityType,
		FileName:          fileName,
		Status:            ImportStatusPending,
		UploadedBy:        uploadedBy,
	}, nil
}

// SetRows stores the parsed row payload and validation errors
func (j *ImportJob) SetRows(rowCount int, rowsJSON string, errors []ImportRowError) error {
	if rowCount < 0 {
		return shared.NewDomainError("INVALID_ROW_COUNT", "Row count cannot be negative")
	}
	if errors == nil {
		errors = []ImportRowError{}
	}
	data, err := json.Marshal(errors)
	if err != nil {
		return fmt.Errorf("failed to marshal row errors: %w", err)
	}
	j.RowCount = rowCount
	j.RowsJSON = rowsJSON
	j.ErrorsJSON = string(data)
	j.UpdatedAt = time.Now()
	j.IncrementVersion()
	return nil
}

// RowErrors returns the per-row validation errors recorded at upload
func (j *ImportJob) RowErrors() ([]ImportRowError, error) {
	if j.ErrorsJSON == "" || j.ErrorsJSON == "[]" || j.ErrorsJSON == "null" {
		return []ImportRowError{}, nil
	}
	var errs []ImportRowError
	if err := json.Unmarshal([]byte(j.ErrorsJSON), &errs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal row errors: %w", err)
	}
	return errs, nil
}

// Approve marks a pending job approved. The checker must not be the maker.
func (j *ImportJob) Approve(reviewedBy uuid.UUID) error {
	if j.Status != ImportStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve from state: %s", j.Status))
	}
	if reviewedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_REVIEWER", "Reviewer cannot be empty")
	}
	if reviewedBy == j.UploadedBy {
		return shared.NewDomainError("SELF_APPROVAL", "Uploader cannot approve their own import")
	}

	now := time.Now()
	j.Status = ImportStatusApproved
	j.ReviewedBy = &reviewedBy
	j.ReviewedAt = &now
	j.UpdatedAt = now
	j.IncrementVersion()
	return nil
}

// Reject marks a pending job rejected with a reason
func (j *ImportJob) Reject(reviewedBy uuid.UUID, reason string) error {
	if j.Status != ImportStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject from state: %s", j.Status))
	}
	if reviewedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_REVIEWER", "Reviewer cannot be empty")
	}

	now := time.Now()
	j.Status = ImportStatusRejected
	j.RejectReason = reason
	j.ReviewedBy = &reviewedBy
	j.ReviewedAt = &now
	j.UpdatedAt = now
	j.IncrementVersion()
	return nil
}

// HasErrors returns true if any row failed validation at upload. Jobs stored
// before errors were normalized may carry a JSON null instead of an empty
// array, which also counts as clean.
func (j *ImportJob) HasErrors() bool {
	return j.ErrorsJSON != "" && j.ErrorsJSON != "[]" && j.ErrorsJSON != "null"
}
