package ingest

import "github.com/claude/meetday/internal/models"

// Result holds the outcome of an ingest operation.
type Result struct {
	RowsReceived     int                     `json:"rows_received"`
	PlansUpserted    int                     `json:"plans_upserted"`
	AttemptsUpserted int                     `json:"attempts_upserted"`
	RowsRejected     int                     `json:"rows_rejected"`
	Rejected         []models.SheetRejection `json:"rejected,omitempty"`

	Message string `json:"message,omitempty"`
}

// Reject records a row that was not stored.
func (r *Result) Reject(line int, text, reason string) {
	r.RowsRejected++
	r.Rejected = append(r.Rejected, models.SheetRejection{Line: line, Text: text, Reason: reason})
}
