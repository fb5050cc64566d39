// package tasks implements the VA directory maintenance jobs.
//
// Each job is a linear pass over the database: read, write, commit, report.
// Jobs emit progress updates via channels for non-blocking status reporting to the CLI layer.
package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vasync/internal/models"
	"github.com/desertthunder/vasync/internal/repositories"
	"github.com/desertthunder/vasync/internal/shared"
)

// Audit log actions written by the jobs.
const (
	ActionResourcesRefreshed = "resources.refreshed"
	ActionLendersImported    = "lenders.imported"
)

// JobOpts contains the dependencies shared by every job.
type JobOpts struct {
	Logger *log.Logger      // Defaults to a stderr logger
	Now    func() time.Time // Run clock (default: time.Now in UTC)
	Audit  bool             // Write an audit_logs entry on completion
}

// job holds the resolved [JobOpts] for a run.
type job struct {
	db     *sql.DB
	logger *log.Logger
	now    func() time.Time
	audit  bool
}

func newJob(db *sql.DB, opts JobOpts) job {
	j := job{db: db, logger: opts.Logger, now: opts.Now, audit: opts.Audit}
	if j.logger == nil {
		j.logger = shared.NewLogger(nil)
	}
	if j.now == nil {
		j.now = func() time.Time { return time.Now().UTC() }
	}
	return j
}

// recordRun writes an audit entry for a completed run when auditing is enabled.
//
// Must not be called while a transaction is open on a single-connection pool.
func (j job) recordRun(ctx context.Context, progress chan<- ProgressUpdate, action, entity string, detail map[string]any) error {
	if !j.audit {
		return nil
	}

	entry := &models.AuditEntry{
		Action:     action,
		EntityType: entity,
		Detail:     detail,
		CreatedAt:  j.now(),
	}
	if err := repositories.NewAuditRepository(j.db).Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to record %s: %w", action, err)
	}

	j.logger.Debug("recorded audit entry", "action", action, "id", entry.ID)
	sendProgress(progress, writeAuditLogUpdate(action))
	return nil
}
