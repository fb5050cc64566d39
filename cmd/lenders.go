package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vasync/internal/formatter"
	"github.com/desertthunder/vasync/internal/models"
	"github.com/desertthunder/vasync/internal/shared"
	"github.com/desertthunder/vasync/internal/tasks"
	"github.com/desertthunder/vasync/internal/ui"
	"github.com/desertthunder/vasync/internal/workbook"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

// LendersImport upserts lenders from the VA loan volume workbook.
func (r *Runner) LendersImport(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig()
	if err != nil {
		return err
	}

	path, sheet := r.workbookSource(cmd, config)

	batchSize := config.Lenders.BatchSize
	if cmd.IsSet("batch-size") {
		batchSize = int(cmd.Int("batch-size"))
		if batchSize < 1 {
			return fmt.Errorf("%w: --batch-size must be at least 1, got %d", shared.ErrInvalidFlag, batchSize)
		}
	}

	r.logger.Info("reading lender workbook", "path", path, "sheet", sheet)
	rows, err := workbook.ReadLenderReport(path, sheet)
	if err != nil {
		return err
	}
	r.logger.Info("parsed lender rows", "rows", len(rows))

	db, closeDB, err := r.openDatabase(ctx, config)
	if err != nil {
		return err
	}
	defer closeDB()

	importer := tasks.NewLenderImporter(db, tasks.JobOpts{
		Logger: r.logger,
		Now:    r.now,
		Audit:  config.Audit.Enabled,
	})

	var progress chan<- tasks.ProgressUpdate
	stop := func() {}
	if cmd.Bool("progress") {
		progress, stop = r.trackProgress(len(rows), "Importing lenders")
	}

	result, err := importer.Run(ctx, progress, rows, tasks.ImportOpts{
		Source:    path,
		BatchSize: batchSize,
		DryRun:    cmd.Bool("dry-run"),
	})
	stop()
	if err != nil {
		if result != nil && result.Batches > 0 {
			r.logger.Warn("earlier batches stay committed", "batches", result.Batches, "rows", result.Rows)
		}
		return fmt.Errorf("lender import failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	title := "Lender Import"
	if result.DryRun {
		title += " (dry run)"
	}
	r.writePlainHeader(title)
	r.writePlain("%s\n", ui.Fields(
		"Rows processed", models.FormatCount(result.Rows),
		"Added", models.FormatCount(result.Added),
		"Updated", models.FormatCount(result.Updated),
		"Total lenders", models.FormatCount(result.Total),
	))

	if result.DryRun {
		r.writePlainln("%s", ui.Muted("No changes were committed."))
		return nil
	}
	r.writePlainln("%s", ui.Success(fmt.Sprintf("Imported %s lenders in %d batches", models.FormatCount(result.Rows), result.Batches)))
	return nil
}

// LendersPreview renders the records an import would write, without connecting to the database.
func (r *Runner) LendersPreview(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig()
	if err != nil {
		return err
	}

	path, sheet := r.workbookSource(cmd, config)

	rows, err := workbook.ReadLenderReport(path, sheet)
	if err != nil {
		return err
	}

	if limit := int(cmd.Int("limit")); limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	records := make([]models.LenderRecord, len(rows))
	for i, row := range rows {
		records[i] = models.NewLenderRecord(row)
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	format := cmd.String("format")
	title := fmt.Sprintf("VA Lenders (%s)", path)

	if output := cmd.String("output"); output != "" {
		if err := formatter.WriteExport(records, format, title, output); err != nil {
			return err
		}
		r.logger.Info("preview written", "path", output, "lenders", len(records))
		r.writePlain("%s\n", ui.Success(fmt.Sprintf("Wrote %d lenders to %s", len(records), output)))
		return nil
	}

	data, err := formatter.Render(records, format, title)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// workbookSource returns the workbook path and sheet from flags, falling back to config.
func (r *Runner) workbookSource(cmd *cli.Command, config *shared.Config) (string, string) {
	path := cmd.String("file")
	if path == "" {
		path = config.Lenders.Workbook
	}
	sheet := cmd.String("sheet")
	if sheet == "" {
		sheet = config.Lenders.Sheet
	}
	return path, sheet
}

// trackProgress drives a progress bar from import updates. The returned func closes the channel
// and waits for the bar to finish.
func (r *Runner) trackProgress(total int, description string) (chan<- tasks.ProgressUpdate, func()) {
	updates := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.progress),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(r.progress)
		}),
	)

	go func() {
		defer close(done)
		for u := range updates {
			switch u.Phase {
			case tasks.ImportLenders:
				if err := bar.Set(u.Step); err != nil {
					r.logger.Debug("failed to update progress bar", "error", err)
				}
			case tasks.CommitBatch:
				bar.Describe(fmt.Sprintf("%s (%d committed)", description, u.Step))
			}
		}
		if err := bar.Finish(); err != nil {
			r.logger.Debug("failed to finish progress bar", "error", err)
		}
	}()

	return updates, func() {
		close(updates)
		<-done
	}
}
