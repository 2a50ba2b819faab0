package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"ladangwatch/internal/db"
	"ladangwatch/internal/export"
	"ladangwatch/internal/policy"
	"ladangwatch/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// exportCommand is operator tooling: it dumps the full (unscoped) report
// table to a CSV file, equivalent to what an executive downloads from the
// dashboard.
var exportCommand = &cli.Command{
	Name:  "export",
	Usage: "Export all stored reports to a CSV file",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "Output file path (defaults to the dated export name)",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		reportRepo := store.NewReportRepository(pool)

		reports, err := reportRepo.Reports(ctx, policy.Scope{})
		if err != nil {
			return fmt.Errorf("failed to fetch reports: %w", err)
		}

		path := c.String("out")
		if path == "" {
			path = export.Filename(time.Now())
		}

		if err := os.WriteFile(path, []byte(export.CSV(reports)), 0o644); err != nil {
			return fmt.Errorf("failed to write export file: %w", err)
		}

		logrus.WithFields(logrus.Fields{
			"path":    path,
			"reports": len(reports),
		}).Info("exported reports")

		return nil
	},
}
