package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/vasync/internal/models"
	"github.com/desertthunder/vasync/internal/repositories"
	"github.com/desertthunder/vasync/internal/shared"
	"golang.org/x/time/rate"
)

// DefaultBatchSize is the number of processed rows between commits.
const DefaultBatchSize = 100

// progressLogInterval spaces out the "importing lenders" log lines of a long run.
const progressLogInterval = 10 * time.Second

// ImportOpts contains configuration for a lender import run.
type ImportOpts struct {
	Source    string // Workbook path, recorded in logs and the audit entry
	BatchSize int    // Rows per commit (default: 100)
	DryRun    bool   // Roll back instead of committing
}

// ImportResult contains the counters of one lender import run.
type ImportResult struct {
	RunID   string    `json:"run_id"`
	Source  string    `json:"source,omitempty"`
	Rows    int       `json:"rows"`    // Rows processed
	Added   int       `json:"added"`   // Lenders inserted
	Updated int       `json:"updated"` // Lenders whose description was refreshed
	Batches int       `json:"batches"` // Commits made
	Total   int       `json:"total"`   // Lenders in the table after the run
	DryRun  bool      `json:"dry_run"`
	RanAt   time.Time `json:"ran_at"`
}

// LenderImporter upserts lender rows parsed from the VA loan volume report.
type LenderImporter struct {
	job
}

// NewLenderImporter creates a [LenderImporter].
func NewLenderImporter(db *sql.DB, opts JobOpts) *LenderImporter {
	return &LenderImporter{job: newJob(db, opts)}
}

// batch is the open transaction of an import run and the repository bound to it.
type batch struct {
	tx      *sql.Tx
	lenders *repositories.LenderRepository
}

func (i *LenderImporter) begin(ctx context.Context) (*batch, error) {
	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &batch{tx: tx, lenders: repositories.NewLenderRepository(tx)}, nil
}

// Run inserts lenders not yet in the table and refreshes the description of those that are.
//
// Names are matched case-insensitively against a snapshot taken at the start of the run. Names inserted
// during the run join the snapshot, so a repeated name updates the row added earlier. Every
// opts.BatchSize rows the open transaction is committed; an error aborts the run and rolls back only the
// current batch.
func (i *LenderImporter) Run(ctx context.Context, progress chan<- ProgressUpdate, rows []models.LenderRow, opts ImportOpts) (*ImportResult, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}

	result := &ImportResult{
		RunID:  shared.GenerateID(),
		Source: opts.Source,
		DryRun: opts.DryRun,
		RanAt:  i.now(),
	}
	logger := shared.WithLogger(i.logger, "job", "lenders", "run_id", result.RunID)

	b, err := i.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if b != nil {
			b.tx.Rollback()
		}
	}()

	names, err := b.lenders.NameSet(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded existing lenders", "count", len(names), "rows", len(rows), "dry_run", opts.DryRun)
	sendProgress(progress, loadSnapshotUpdate(len(names), len(rows)))

	logEvery := rate.Sometimes{Interval: progressLogInterval}
	for n, row := range rows {
		record := models.NewLenderRecord(row)

		inserted, err := i.upsert(ctx, b.lenders, names, record, result.RanAt)
		if err != nil {
			return result, fmt.Errorf("row %d (%s): %w", row.Row, row.Name, err)
		}
		if inserted {
			result.Added++
		} else {
			result.Updated++
		}
		result.Rows = n + 1
		sendProgress(progress, importLenderUpdate(result.Rows, len(rows), record, inserted))
		logEvery.Do(func() {
			logger.Info("importing lenders", "processed", result.Rows, "of", len(rows))
		})

		if opts.DryRun || result.Rows%opts.BatchSize != 0 || result.Rows == len(rows) {
			continue
		}

		if err := b.tx.Commit(); err != nil {
			b = nil
			return result, fmt.Errorf("failed to commit batch: %w", err)
		}
		result.Batches++
		logger.Info("committed batch", "batch", result.Batches, "processed", result.Rows, "added", result.Added, "updated", result.Updated)
		sendProgress(progress, commitBatchUpdate(result.Rows, len(rows), result.Batches))

		if b, err = i.begin(ctx); err != nil {
			return result, err
		}
	}

	if opts.DryRun {
		err = b.tx.Rollback()
		b = nil
		if err != nil {
			return result, fmt.Errorf("failed to roll back dry run: %w", err)
		}
		logger.Info("dry run rolled back", "added", result.Added, "updated", result.Updated)
	} else {
		err = b.tx.Commit()
		b = nil
		if err != nil {
			return result, fmt.Errorf("failed to commit batch: %w", err)
		}
		result.Batches++
		sendProgress(progress, commitBatchUpdate(result.Rows, len(rows), result.Batches))
	}

	total, err := repositories.NewLenderRepository(i.db).Count(ctx)
	if err != nil {
		return result, err
	}
	result.Total = total
	sendProgress(progress, countLendersUpdate(total))

	if !opts.DryRun {
		detail := map[string]any{
			"run_id":  result.RunID,
			"source":  result.Source,
			"rows":    result.Rows,
			"added":   result.Added,
			"updated": result.Updated,
			"batches": result.Batches,
			"total":   result.Total,
		}
		if err := i.recordRun(ctx, progress, ActionLendersImported, "lender", detail); err != nil {
			return result, err
		}
	}

	logger.Info("lender import complete", "added", result.Added, "updated", result.Updated, "total", result.Total)
	return result, nil
}

// upsert applies one record and reports whether it was inserted.
//
// An insert that hits a unique index, because another writer added the name after the snapshot
// was taken, falls back to an update.
func (i *LenderImporter) upsert(
	ctx context.Context,
	lenders *repositories.LenderRepository,
	names map[string]struct{},
	record models.LenderRecord,
	at time.Time,
) (bool, error) {
	if _, ok := names[record.Key]; ok {
		_, err := lenders.UpdateDescription(ctx, record.Key, record.Description, at)
		return false, err
	}

	lender := record.Lender(at)
	err := lenders.Create(ctx, &lender)
	switch {
	case errors.Is(err, shared.ErrDuplicateEntry):
		i.logger.Warn("lender added concurrently, updating instead", "name", record.DisplayName)
		if _, err := lenders.UpdateDescription(ctx, record.Key, record.Description, at); err != nil {
			return false, err
		}
		names[record.Key] = struct{}{}
		return false, nil
	case err != nil:
		return false, err
	}

	names[record.Key] = struct{}{}
	return true, nil
}
