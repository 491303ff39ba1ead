package kickoff

import (
	"github.com/google/uuid"

	"github.com/dcortinas/fablink-backend/pkg/db/models"
	"github.com/dcortinas/fablink-backend/pkg/enums"
)

// Progress is the checklist rollup for one awarded (quote, supplier)
// pair.
type Progress struct {
	TotalTasks     int  `json:"total_tasks"`
	CompletedTasks int  `json:"completed_tasks"`
	IsComplete     bool `json:"is_complete"`
}

// Rollup counts checklist progress. Only tasks belonging to the awarded
// supplier count; stale rows from a re-award never inflate the totals.
// The quote-level administrative override is not consulted here, the
// caller applies it after.
func Rollup(tasks []models.KickoffTask, awardedSupplierID uuid.UUID) Progress {
	progress := Progress{}
	for _, task := range tasks {
		if task.SupplierID != awardedSupplierID {
			continue
		}
		progress.TotalTasks++
		if task.Status == enums.KickoffTaskStatusComplete {
			progress.CompletedTasks++
		}
	}
	progress.IsComplete = progress.TotalTasks > 0 && progress.CompletedTasks == progress.TotalTasks
	return progress
}

// applyOverride forces completion when the quote carries the
// kickoff_completed_at marker, regardless of per-task counts.
func applyOverride(progress Progress, quote models.Quote) Progress {
	if quote.KickoffCompletedAt != nil {
		progress.IsComplete = true
	}
	return progress
}
