package response

// InvoiceListItem represents one row of the invoice register, enriched with
// student/class/billing-type names and the effective (derived) status.
type InvoiceListItem struct {
	ID              uint   `json:"id" example:"12"`
	StudentID       uint   `json:"student_id" example:"7"`
	StudentName     string `json:"student_name" example:"Ahmad Fauzi"`
	NIS             string `json:"nis" example:"2025-0107"`
	ClassName       string `json:"class_name" example:"VIII-A"`
	BillingTypeName string `json:"billing_type_name" example:"Iuran Bulanan"`
	Amount          int64  `json:"amount" example:"150000"`
	DueDate         string `json:"due_date" example:"2025-07-01"`
	Status          string `json:"status" example:"pending"`
	EffectiveStatus string `json:"effective_status" example:"overdue"`
	Description     string `json:"description" example:"SPP Juli 2025"`
}

// SkippedStudent reports one student excluded from a bulk invoice run
type SkippedStudent struct {
	StudentID uint   `json:"student_id" example:"7"`
	Reason    string `json:"reason" example:"duplicate pending invoice"`
}

// BulkInvoiceResponse represents the outcome of a bulk invoice creation
type BulkInvoiceResponse struct {
	Created int              `json:"created" example:"2"`
	Skipped []SkippedStudent `json:"skipped"`
}
