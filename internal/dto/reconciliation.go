package dto

import "github.com/SscSPs/erp_ledger/internal/core/domain"

// BatchResultResponse is returned by every reconciliation endpoint.
type BatchResultResponse struct {
	Batch    string             `json:"batch"`
	Count    int                `json:"count"`
	Scanned  int                `json:"scanned"`
	Message  string             `json:"message"`
	Warnings []domain.BatchItem `json:"warnings"`
	Failures []domain.BatchItem `json:"failures"`
	// Error is set when the batch stopped before scanning every item.
	Error string `json:"error,omitempty"`
}

// ToBatchResultResponse converts a batch result, labelling it with the batch name.
func ToBatchResultResponse(batch string, result *domain.BatchResult) BatchResultResponse {
	warnings := result.Warnings
	if warnings == nil {
		warnings = []domain.BatchItem{}
	}
	failures := result.Failures
	if failures == nil {
		failures = []domain.BatchItem{}
	}
	return BatchResultResponse{
		Batch:    batch,
		Count:    result.Count,
		Scanned:  result.Scanned,
		Message:  result.Message,
		Warnings: warnings,
		Failures: failures,
	}
}
