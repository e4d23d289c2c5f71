package response

// TotalsResponse represents the target-vs-realized totals of the reconciliation report
type TotalsResponse struct {
	Invoiced int64 `json:"invoiced" example:"4500000"`
	Realized int64 `json:"realized" example:"3000000"`
	Pending  int64 `json:"pending" example:"1200000"`
	Overdue  int64 `json:"overdue" example:"300000"`
}

// MonthlyBreakdownItem represents one calendar-month bucket. Target is keyed
// by invoice creation month, realized by payment month; the two series are
// independent time axes and are not meant to reconcile bucket-for-bucket.
type MonthlyBreakdownItem struct {
	Month    int   `json:"month" example:"7"`
	Target   int64 `json:"target" example:"1500000"`
	Realized int64 `json:"realized" example:"1350000"`
}

// GroupBreakdownItem represents target vs realization for one billing type or class
type GroupBreakdownItem struct {
	ID         uint    `json:"id" example:"3"`
	Name       string  `json:"name" example:"Iuran Bulanan"`
	Target     int64   `json:"target" example:"300000"`
	Realized   int64   `json:"realized" example:"150000"`
	Percentage float64 `json:"percentage" example:"50.0"`
}

// OverdueInvoiceItem represents one overdue invoice in the report listing
type OverdueInvoiceItem struct {
	InvoiceID       uint   `json:"invoice_id" example:"12"`
	StudentID       uint   `json:"student_id" example:"7"`
	StudentName     string `json:"student_name" example:"Ahmad Fauzi"`
	ClassName       string `json:"class_name" example:"VIII-A"`
	BillingTypeName string `json:"billing_type_name" example:"Iuran Bulanan"`
	Amount          int64  `json:"amount" example:"150000"`
	DueDate         string `json:"due_date" example:"2025-06-01"`
}

// RecentPaymentItem represents one recently approved payment claim
type RecentPaymentItem struct {
	ClaimID         uint   `json:"claim_id" example:"31"`
	InvoiceID       uint   `json:"invoice_id" example:"12"`
	StudentName     string `json:"student_name" example:"Ahmad Fauzi"`
	BillingTypeName string `json:"billing_type_name" example:"Iuran Bulanan"`
	Amount          int64  `json:"amount" example:"150000"`
	PaymentDate     string `json:"payment_date" example:"2025-06-15"`
	PaymentMethod   string `json:"payment_method" example:"transfer"`
}

// ReconciliationSnapshot bundles the full report for one academic-year filter.
// It is always recomputed from the invoice and payment stores; the Redis cache
// in front of it is invalidated on every invoice or payment mutation.
type ReconciliationSnapshot struct {
	Totals        TotalsResponse         `json:"totals"`
	ByMonth       []MonthlyBreakdownItem `json:"by_month"`
	ByBillingType []GroupBreakdownItem   `json:"by_billing_type"`
	ByClass       []GroupBreakdownItem   `json:"by_class"`
}
