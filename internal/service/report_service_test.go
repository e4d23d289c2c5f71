package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spp-be-svc/internal/models"
	"spp-be-svc/internal/repository"
)

type fakeReportRepo struct {
	totals          *repository.TotalsRow
	monthlyTargets  []*repository.MonthAmountRow
	monthlyRealized []*repository.MonthAmountRow
	groups          []*repository.GroupRow
	overdue         []*repository.OverdueRow
	recent          []*repository.RecentClaimRow
	totalsCalls     int
}

func (f *fakeReportRepo) Totals(academicYearID *uint, asOf time.Time) (*repository.TotalsRow, error) {
	f.totalsCalls++
	if f.totals == nil {
		return &repository.TotalsRow{}, nil
	}
	return f.totals, nil
}

func (f *fakeReportRepo) MonthlyTargets(academicYearID *uint) ([]*repository.MonthAmountRow, error) {
	return f.monthlyTargets, nil
}

func (f *fakeReportRepo) MonthlyRealized(academicYearID *uint) ([]*repository.MonthAmountRow, error) {
	return f.monthlyRealized, nil
}

func (f *fakeReportRepo) GroupByBillingType(academicYearID *uint) ([]*repository.GroupRow, error) {
	return f.groups, nil
}

func (f *fakeReportRepo) GroupByClass(academicYearID *uint) ([]*repository.GroupRow, error) {
	return f.groups, nil
}

func (f *fakeReportRepo) OverdueInvoices(academicYearID *uint, asOf time.Time, limit int) ([]*repository.OverdueRow, error) {
	if limit < len(f.overdue) {
		return f.overdue[:limit], nil
	}
	return f.overdue, nil
}

func (f *fakeReportRepo) RecentApprovedClaims(limit int) ([]*repository.RecentClaimRow, error) {
	return f.recent, nil
}

func newReportServiceForTest(repo *fakeReportRepo) ReportService {
	return NewReportService(repo, disabledCache(), testLogger())
}

func TestRealizationPercentage(t *testing.T) {
	tests := []struct {
		name     string
		realized int64
		target   int64
		expected float64
	}{
		{"half realized", 500000, 1000000, 50.0},
		{"fully realized", 1000000, 1000000, 100.0},
		{"zero target yields zero", 500000, 0, 0},
		{"nothing realized", 0, 1000000, 0},
		{"rounds to two decimals", 1, 3, 33.33},
		{"rounds up", 2, 3, 66.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, realizationPercentage(tt.realized, tt.target))
		})
	}
}

func TestTotals(t *testing.T) {
	t.Run("maps the aggregate row", func(t *testing.T) {
		repo := &fakeReportRepo{totals: &repository.TotalsRow{Invoiced: 1000000, Realized: 500000, Pending: 300000, Overdue: 200000}}
		svc := newReportServiceForTest(repo)

		totals, err := svc.Totals(nil, time.Now())

		require.NoError(t, err)
		assert.Equal(t, int64(1000000), totals.Invoiced)
		assert.Equal(t, int64(500000), totals.Realized)
		assert.Equal(t, int64(300000), totals.Pending)
		assert.Equal(t, int64(200000), totals.Overdue)
	})

	t.Run("defaults to zero on empty data", func(t *testing.T) {
		svc := newReportServiceForTest(&fakeReportRepo{})

		totals, err := svc.Totals(nil, time.Now())

		require.NoError(t, err)
		assert.Zero(t, totals.Invoiced)
		assert.Zero(t, totals.Realized)
	})
}

func TestBreakdownByMonth(t *testing.T) {
	t.Run("fills all twelve months from sparse rows", func(t *testing.T) {
		repo := &fakeReportRepo{
			monthlyTargets:  []*repository.MonthAmountRow{{Month: 1, Amount: 1000}, {Month: 7, Amount: 2000}},
			monthlyRealized: []*repository.MonthAmountRow{{Month: 2, Amount: 500}},
		}
		svc := newReportServiceForTest(repo)

		items, err := svc.BreakdownByMonth(nil)

		require.NoError(t, err)
		require.Len(t, items, 12)
		assert.Equal(t, int64(1000), items[0].Target)
		assert.Equal(t, int64(2000), items[6].Target)
		assert.Equal(t, int64(500), items[1].Realized)
		assert.Zero(t, items[0].Realized, "target and realized sit on independent time axes")
		assert.Zero(t, items[11].Target)
		for i, item := range items {
			assert.Equal(t, i+1, item.Month)
		}
	})

	t.Run("ignores out-of-range month buckets", func(t *testing.T) {
		repo := &fakeReportRepo{monthlyTargets: []*repository.MonthAmountRow{{Month: 0, Amount: 99}, {Month: 13, Amount: 99}}}
		svc := newReportServiceForTest(repo)

		items, err := svc.BreakdownByMonth(nil)

		require.NoError(t, err)
		for _, item := range items {
			assert.Zero(t, item.Target)
		}
	})
}

func TestBreakdownByBillingType(t *testing.T) {
	repo := &fakeReportRepo{groups: []*repository.GroupRow{
		{ID: 1, Name: "SPP", Target: 1000000, Realized: 500000},
		{ID: 2, Name: "Uang Gedung", Target: 0, Realized: 0},
	}}
	svc := newReportServiceForTest(repo)

	items, err := svc.BreakdownByBillingType(nil)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 50.0, items[0].Percentage)
	assert.Equal(t, 0.0, items[1].Percentage, "zero target must not divide")
}

func TestTopOverdue(t *testing.T) {
	asOf := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	repo := &fakeReportRepo{overdue: []*repository.OverdueRow{
		{InvoiceID: 1, StudentName: "Andi", Amount: 500000, DueDate: asOf.AddDate(0, -1, 0), Status: models.InvoiceStatusPending},
		{InvoiceID: 2, StudentName: "Budi", Amount: 500000, DueDate: asOf.AddDate(0, 1, 0), Status: models.InvoiceStatusPending},
	}}
	svc := newReportServiceForTest(repo)

	items, err := svc.TopOverdue(nil, 10, asOf)

	require.NoError(t, err)
	require.Len(t, items, 1, "rows not overdue under the canonical rule are dropped")
	assert.Equal(t, uint(1), items[0].InvoiceID)
	assert.Equal(t, "Andi", items[0].StudentName)
}

func TestRecentApprovedPayments(t *testing.T) {
	paymentDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	repo := &fakeReportRepo{recent: []*repository.RecentClaimRow{
		{ClaimID: 9, InvoiceID: 4, StudentName: "Citra", Amount: 500000, PaymentDate: paymentDate, PaymentMethod: "transfer"},
	}}
	svc := newReportServiceForTest(repo)

	items, err := svc.RecentApprovedPayments(10)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "2026-03-10", items[0].PaymentDate)
	assert.Equal(t, "transfer", items[0].PaymentMethod)
}

func TestSnapshot(t *testing.T) {
	repo := &fakeReportRepo{
		totals: &repository.TotalsRow{Invoiced: 1000, Realized: 400},
		groups: []*repository.GroupRow{{ID: 1, Name: "SPP", Target: 1000, Realized: 400}},
	}
	svc := newReportServiceForTest(repo)

	snapshot, err := svc.Snapshot(context.Background(), nil, time.Now())

	require.NoError(t, err)
	assert.Equal(t, int64(1000), snapshot.Totals.Invoiced)
	assert.Len(t, snapshot.ByMonth, 12)
	require.Len(t, snapshot.ByBillingType, 1)
	assert.Equal(t, 40.0, snapshot.ByBillingType[0].Percentage)
	assert.Equal(t, 1, repo.totalsCalls)
}
