package tasks

import (
	"fmt"

	"github.com/desertthunder/vasync/internal/models"
)

// ProgressUpdate represents a progress event during a job run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	CountResources Phase = iota
	RefreshResources
	AuditResources
	LoadSnapshot
	ImportLenders
	CommitBatch
	CountLenders
	WriteAuditLog
)

func (p Phase) String() string {
	switch p {
	case CountResources:
		return "count_resources"
	case RefreshResources:
		return "refresh_resources"
	case AuditResources:
		return "audit_resources"
	case LoadSnapshot:
		return "load_snapshot"
	case ImportLenders:
		return "import_lenders"
	case CommitBatch:
		return "commit_batch"
	case CountLenders:
		return "count_lenders"
	case WriteAuditLog:
		return "write_audit_log"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
		// Channel full, skip this update
	}
}

func countResourcesUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CountResources,
		Step:    1,
		Total:   3,
		Message: fmt.Sprintf("Found %d resources", total),
	}
}

func refreshedResourcesUpdate(refreshed int64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RefreshResources,
		Step:    2,
		Total:   3,
		Message: fmt.Sprintf("Refreshed %d active resources", refreshed),
	}
}

func auditResourcesUpdate(incomplete []models.Resource) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AuditResources,
		Step:    3,
		Total:   3,
		Message: fmt.Sprintf("%d resources missing phone and URL", len(incomplete)),
		Data:    incomplete,
	}
}

func loadSnapshotUpdate(existing, rows int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadSnapshot,
		Step:    0,
		Total:   rows,
		Message: fmt.Sprintf("Loaded %d existing lenders", existing),
	}
}

func importLenderUpdate(step, total int, record models.LenderRecord, inserted bool) ProgressUpdate {
	verb := "Updated"
	if inserted {
		verb = "Added"
	}
	return ProgressUpdate{
		Phase:   ImportLenders,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s %s", step, total, verb, record.DisplayName),
		Data:    record,
	}
}

func commitBatchUpdate(step, total, batch int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CommitBatch,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Committed batch %d (%d/%d rows)", batch, step, total),
	}
}

func countLendersUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CountLenders,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Total lenders in database: %d", count),
	}
}

func writeAuditLogUpdate(action string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteAuditLog,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Recorded %s in audit log", action),
	}
}
