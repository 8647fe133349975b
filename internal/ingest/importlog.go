package ingest

import (
	"encoding/json"

	"github.com/claude/meetday/internal/storage"
	"github.com/google/uuid"
)

// ImportLog builds the import_logs entry for one ingest. A nil result is
// logged with zero counts.
func ImportLog(competitionID uuid.UUID, source string, result *Result, importErr error, durationMs int) storage.ImportLog {
	status := "success"
	var errMsg *string
	if importErr != nil {
		status = "error"
		msg := importErr.Error()
		errMsg = &msg
	}
	if result == nil {
		result = &Result{}
	}

	entry := storage.ImportLog{
		CompetitionID:    &competitionID,
		Source:           source,
		Status:           status,
		RowsReceived:     result.RowsReceived,
		PlansUpserted:    result.PlansUpserted,
		AttemptsUpserted: result.AttemptsUpserted,
		RowsRejected:     result.RowsRejected,
		DurationMs:       &durationMs,
		ErrorMessage:     errMsg,
	}
	if len(result.Rejected) > 0 {
		if b, err := json.Marshal(map[string]any{"rejected": result.Rejected}); err == nil {
			raw := json.RawMessage(b)
			entry.Metadata = &raw
		}
	}
	return entry
}
