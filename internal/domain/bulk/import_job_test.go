package bulk

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestJob(t *testing.T, uploadedBy uuid.UUID) *ImportJob {
	t.Helper()
	job, err := NewImportJob(ImportEntityProducts, "products.csv", uploadedBy)
	require.NoError(t, err)
	return job
}

func TestNewImportJob(t *testing.T) {
	t.Run("starts pending", func(t *testing.T) {
		maker := uuid.New()
		job := createTestJob(t, maker)

		assert.Equal(t, ImportStatusPending, job.Status)
		assert.Equal(t, maker, job.UploadedBy)
		assert.Nil(t, job.ReviewedBy)
	})

	t.Run("rejects invalid arguments", func(t *testing.T) {
		_, err := NewImportJob(ImportEntityType("invoices"), "f.csv", uuid.New())
		assert.Error(t, err)
		_, err = NewImportJob(ImportEntityProducts, "", uuid.New())
		assert.Error(t, err)
		_, err = NewImportJob(ImportEntityProducts, "f.csv", uuid.Nil)
		assert.Error(t, err)
	})
}

func TestImportJob_SetRows(t *testing.T) {
	t.Run("records row errors", func(t *testing.T) {
		job := createTestJob(t, uuid.New())

		rowErrs := []ImportRowError{{Row: 3, Column: "sku", Message: "duplicate SKU", Value: "RICE-BAS-5KG"}}
		require.NoError(t, job.SetRows(10, `[{"name":"Milk"}]`, rowErrs))

		assert.Equal(t, 10, job.RowCount)
		assert.True(t, job.HasErrors())

		parsed, err := job.RowErrors()
		require.NoError(t, err)
		require.Len(t, parsed, 1)
		assert.Equal(t, 3, parsed[0].Row)
	})

	t.Run("clean upload has no errors", func(t *testing.T) {
		job := createTestJob(t, uuid.New())

		require.NoError(t, job.SetRows(2, `[{"name":"Milk"},{"name":"Tea"}]`, nil))

		assert.Equal(t, "[]", job.ErrorsJSON)
		assert.False(t, job.HasErrors())

		parsed, err := job.RowErrors()
		require.NoError(t, err)
		assert.Empty(t, parsed)
	})

	t.Run("stored JSON null counts as clean", func(t *testing.T) {
		job := createTestJob(t, uuid.New())
		job.ErrorsJSON = "null"

		assert.False(t, job.HasErrors())

		parsed, err := job.RowErrors()
		require.NoError(t, err)
		assert.Empty(t, parsed)
	})
}

func TestImportJob_Approve(t *testing.T) {
	maker := uuid.New()
	checker := uuid.New()

	t.Run("pending job approved by another user", func(t *testing.T) {
		job := createTestJob(t, maker)

		require.NoError(t, job.Approve(checker))

		assert.Equal(t, ImportStatusApproved, job.Status)
		require.NotNil(t, job.ReviewedBy)
		assert.Equal(t, checker, *job.ReviewedBy)
		assert.NotNil(t, job.ReviewedAt)
	})

	t.Run("maker cannot approve own upload", func(t *testing.T) {
		job := createTestJob(t, maker)
		err := job.Approve(maker)
		require.Error(t, err)
		assert.Equal(t, ImportStatusPending, job.Status)
	})

	t.Run("terminal states cannot be approved again", func(t *testing.T) {
		job := createTestJob(t, maker)
		require.NoError(t, job.Approve(checker))
		require.Error(t, job.Approve(checker))

		rejected := createTestJob(t, maker)
		require.NoError(t, rejected.Reject(checker, "bad data"))
		require.Error(t, rejected.Approve(checker))
	})
}

func TestImportJob_Reject(t *testing.T) {
	job := createTestJob(t, uuid.New())
	checker := uuid.New()

	require.NoError(t, job.Reject(checker, "column headers missing"))

	assert.Equal(t, ImportStatusRejected, job.Status)
	assert.Equal(t, "column headers missing", job.RejectReason)
	require.NotNil(t, job.ReviewedBy)
	assert.Equal(t, checker, *job.ReviewedBy)

	require.Error(t, job.Reject(checker, "twice"))
}

func TestImportStatus(t *testing.T) {
	assert.True(t, ImportStatusPending.IsValid())
	assert.False(t, ImportStatusPending.IsTerminal())
	assert.True(t, ImportStatusApproved.IsTerminal())
	assert.True(t, ImportStatusRejected.IsTerminal())
	assert.False(t, ImportStatus("processing").IsValid())
}
