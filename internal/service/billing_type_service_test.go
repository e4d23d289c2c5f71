package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spp-be-svc/internal/apperrors"
	"spp-be-svc/internal/models"
)

func TestBillingTypeDelete(t *testing.T) {
	t.Run("deletes an unreferenced billing type", func(t *testing.T) {
		repo := newFakeBillingTypeRepo()
		svc := NewBillingTypeService(repo, testLogger())
		billingType := &models.BillingType{Name: "Uang Gedung", DefaultAmount: 2000000}
		require.NoError(t, repo.Create(billingType))

		err := svc.Delete(billingType.ID)

		require.NoError(t, err)
		_, err = repo.GetByID(billingType.ID)
		assert.Error(t, err)
	})

	t.Run("blocks deletion while invoices reference the type", func(t *testing.T) {
		repo := newFakeBillingTypeRepo()
		svc := NewBillingTypeService(repo, testLogger())
		billingType := &models.BillingType{Name: "SPP", DefaultAmount: 500000}
		require.NoError(t, repo.Create(billingType))
		repo.invoiceCount[billingType.ID] = 12

		err := svc.Delete(billingType.ID)

		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("fails for an unknown billing type", func(t *testing.T) {
		svc := NewBillingTypeService(newFakeBillingTypeRepo(), testLogger())

		err := svc.Delete(404)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestBillingTypeUpdate(t *testing.T) {
	repo := newFakeBillingTypeRepo()
	svc := NewBillingTypeService(repo, testLogger())
	billingType := &models.BillingType{Name: "SPP", DefaultAmount: 500000, Recurrence: models.RecurrenceMonthly}
	require.NoError(t, repo.Create(billingType))

	updated, err := svc.Update(billingType.ID, "", "", "", 550000, boolPtr(false))

	require.NoError(t, err)
	assert.Equal(t, "SPP", updated.Name, "empty fields keep their current value")
	assert.Equal(t, int64(550000), updated.DefaultAmount)
	assert.False(t, *updated.IsActive)
}
