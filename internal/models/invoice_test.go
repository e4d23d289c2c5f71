package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeEffectiveStatus(t *testing.T) {
	asOf := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		status   InvoiceStatus
		dueDate  time.Time
		expected InvoiceStatus
	}{
		{
			name:     "pending before due date stays pending",
			status:   InvoiceStatusPending,
			dueDate:  asOf.AddDate(0, 0, 5),
			expected: InvoiceStatusPending,
		},
		{
			name:     "pending past due date becomes overdue",
			status:   InvoiceStatusPending,
			dueDate:  asOf.AddDate(0, 0, -5),
			expected: InvoiceStatusOverdue,
		},
		{
			name:     "due exactly now is not yet overdue",
			status:   InvoiceStatusPending,
			dueDate:  asOf,
			expected: InvoiceStatusPending,
		},
		{
			name:     "paid past due date stays paid",
			status:   InvoiceStatusPaid,
			dueDate:  asOf.AddDate(0, 0, -30),
			expected: InvoiceStatusPaid,
		},
		{
			name:     "paid before due date stays paid",
			status:   InvoiceStatusPaid,
			dueDate:  asOf.AddDate(0, 0, 30),
			expected: InvoiceStatusPaid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoice := &Invoice{Status: tt.status, DueDate: tt.dueDate}
			assert.Equal(t, tt.expected, ComputeEffectiveStatus(invoice, asOf))
		})
	}
}

func TestComputeEffectiveStatusDoesNotMutate(t *testing.T) {
	asOf := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	invoice := &Invoice{Status: InvoiceStatusPending, DueDate: asOf.AddDate(0, 0, -1)}

	first := ComputeEffectiveStatus(invoice, asOf)
	second := ComputeEffectiveStatus(invoice, asOf)

	assert.Equal(t, InvoiceStatusOverdue, first)
	assert.Equal(t, first, second)
	assert.Equal(t, InvoiceStatusPending, invoice.Status, "stored status must stay pending")
}
