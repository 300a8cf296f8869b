package domain

// BatchItem is a per-invoice note attached to a batch result.
type BatchItem struct {
	InvoiceID     string `json:"invoiceID"`
	InvoiceNumber string `json:"invoiceNumber"`
	Message       string `json:"message"`
}

// BatchResult is what every reconciliation batch returns. Count is the number of
// entries created, deleted or linked depending on the batch.
type BatchResult struct {
	Count    int         `json:"count"`
	Scanned  int         `json:"scanned"`
	Message  string      `json:"message"`
	Warnings []BatchItem `json:"warnings"`
	Failures []BatchItem `json:"failures"`
}
