// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/vasync/internal/formatter"
	"github.com/urfave/cli/v3"
)

// app builds the root command. --config and --debug are visible to every subcommand.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "vasync",
		Usage:   "Maintenance jobs for the VA resource and lender directory",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.Before,
		Commands: r.register(),
	}
}

// resourcesCommand handles the weekly resource refresh
func resourcesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "resources",
		Aliases: []string{"res"},
		Usage:   "VA benefit resource operations",
		Commands: []*cli.Command{
			{
				Name:  "refresh",
				Usage: "Stamp active resources as verified and report those missing contact info",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the run result as JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
						Value: true,
					},
				},
				Action: r.ResourcesRefresh,
			},
		},
	}
}

// lendersCommand handles the monthly lender import
func lendersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "lenders",
		Usage: "VA-approved lender operations",
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Insert new lenders and refresh existing ones from the workbook",
				Flags: []cli.Flag{
					fileFlag(),
					sheetFlag(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Rows per commit (default: lenders.batch_size)",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Derive and match every row, then roll back",
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Show a progress bar",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the run result as JSON",
					},
				},
				Action: r.LendersImport,
			},
			{
				Name:  "preview",
				Usage: "Render derived lender records without touching the database",
				Flags: []cli.Flag{
					fileFlag(),
					sheetFlag(),
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format: text, csv or md",
						Value: formatter.FormatText,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write to a file instead of stdout",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of lenders to render (0 for all)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
					},
				},
				Action: r.LendersPreview,
			},
		},
	}
}

// setupCommand handles local database and configuration setup.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the directory tables in a local SQLite database",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration of a local SQLite database",
				Action: r.SetupRollback,
			},
			{
				Name:   "config",
				Usage:  "Write a config file from the built-in template",
				Action: r.SetupConfig,
			},
		},
	}
}

// fileFlag and sheetFlag are shared by the lender subcommands. Flags carry parse state, so each
// command gets its own instance.
func fileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "Path to the VA lender loan volume workbook (default: lenders.workbook)",
	}
}

func sheetFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "sheet",
		Usage: "Workbook sheet to read (default: lenders.sheet)",
	}
}
