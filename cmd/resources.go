package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/vasync/internal/tasks"
	"github.com/desertthunder/vasync/internal/ui"
	"github.com/urfave/cli/v3"
)

// ResourcesRefresh stamps every active resource with the run time and lists those missing contact info.
func (r *Runner) ResourcesRefresh(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig()
	if err != nil {
		return err
	}

	db, closeDB, err := r.openDatabase(ctx, config)
	if err != nil {
		return err
	}
	defer closeDB()

	refresher := tasks.NewResourceRefresher(db, config.Resources.AuditLimit, tasks.JobOpts{
		Logger: r.logger,
		Now:    r.now,
		Audit:  config.Audit.Enabled,
	})

	result, err := refresher.Run(ctx, nil)
	if err != nil {
		return fmt.Errorf("resource refresh failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Resource Refresh")
	r.writePlain("%s\n", ui.Fields(
		"Total resources", result.Total,
		"Refreshed", result.Refreshed,
		"Active resources", result.Active,
	))

	if len(result.Incomplete) > 0 {
		r.writePlainln("%s", ui.Warning(fmt.Sprintf("%d active resources have no phone or URL:", len(result.Incomplete))))
		for _, res := range result.Incomplete {
			r.writePlain("  #%d %s (%s)\n", res.ID, res.Name, res.Category)
		}
	}

	r.writePlainln("%s", ui.Success("Refresh completed at "+result.RanAt.Format(time.RFC3339)))
	return nil
}
