package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/vasync/internal/models"
	"github.com/desertthunder/vasync/internal/repositories"
	"github.com/desertthunder/vasync/internal/shared"
)

// RefreshResult contains the counters of one resource refresh run.
type RefreshResult struct {
	RunID      string            `json:"run_id"`
	Total      int               `json:"total"`      // All resources, active or not
	Refreshed  int64             `json:"refreshed"`  // Active rows stamped with RanAt
	Active     int               `json:"active"`     // Active resources after the update
	Incomplete []models.Resource `json:"incomplete"` // Active resources with neither phone nor URL
	RanAt      time.Time         `json:"ran_at"`
}

// ResourceRefresher stamps every active resource as verified and audits contact completeness.
type ResourceRefresher struct {
	job
	auditLimit int
}

// NewResourceRefresher creates a [ResourceRefresher]. auditLimit is clamped to 1..[shared.MaxAuditLimit].
func NewResourceRefresher(db *sql.DB, auditLimit int, opts JobOpts) *ResourceRefresher {
	if auditLimit <= 0 || auditLimit > shared.MaxAuditLimit {
		auditLimit = shared.MaxAuditLimit
	}
	return &ResourceRefresher{job: newJob(db, opts), auditLimit: auditLimit}
}

// Run refreshes updatedAt on all active resources and lists those missing both phone and URL.
//
// The update is committed before the audit queries run. Any database error aborts the run.
func (r *ResourceRefresher) Run(ctx context.Context, progress chan<- ProgressUpdate) (*RefreshResult, error) {
	result := &RefreshResult{RunID: shared.GenerateID(), RanAt: r.now()}
	logger := shared.WithLogger(r.logger, "job", "resources", "run_id", result.RunID)

	resources := repositories.NewResourceRepository(r.db)

	total, err := resources.Count(ctx)
	if err != nil {
		return nil, err
	}
	result.Total = total
	logger.Info("counted resources", "total", total)
	sendProgress(progress, countResourcesUpdate(total))

	refreshed, err := r.touchActive(ctx, result.RanAt)
	if err != nil {
		return nil, err
	}
	result.Refreshed = refreshed
	logger.Info("refreshed active resources", "rows", refreshed, "at", result.RanAt.Format(time.RFC3339))
	sendProgress(progress, refreshedResourcesUpdate(refreshed))

	incomplete, err := resources.ListIncomplete(ctx, r.auditLimit)
	if err != nil {
		return nil, err
	}
	result.Incomplete = incomplete
	for _, res := range incomplete {
		logger.Warn("resource missing contact info", "id", res.ID, "name", res.Name, "category", res.Category)
	}
	sendProgress(progress, auditResourcesUpdate(incomplete))

	active, err := resources.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	result.Active = active

	detail := map[string]any{
		"run_id":     result.RunID,
		"total":      result.Total,
		"refreshed":  result.Refreshed,
		"active":     result.Active,
		"incomplete": len(result.Incomplete),
	}
	if err := r.recordRun(ctx, progress, ActionResourcesRefreshed, "resource", detail); err != nil {
		return result, err
	}

	logger.Info("resource refresh complete", "active", active, "incomplete", len(incomplete))
	return result, nil
}

func (r *ResourceRefresher) touchActive(ctx context.Context, at time.Time) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	n, err := repositories.NewResourceRepository(tx).TouchActive(ctx, at)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit resource refresh: %w", err)
	}
	return n, nil
}
