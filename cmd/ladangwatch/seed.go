package main

import (
	"context"
	"fmt"

	"ladangwatch/internal/db"
	"ladangwatch/internal/seed"
	"ladangwatch/internal/store"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with fixture profiles and reports",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		if err := db.Migrate(cfg.DatabaseURL, logrus.StandardLogger()); err != nil {
			return err
		}

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		profileRepo := store.NewProfileRepository(pool)
		reportRepo := store.NewReportRepository(pool)

		logrus.Info("Seeding profiles...")
		profiles, err := seed.SeedProfiles(ctx, profileRepo)
		if err != nil {
			return fmt.Errorf("failed to seed profiles: %w", err)
		}

		logrus.Info("Seeding reports...")
		reports, err := seed.SeedReports(ctx, reportRepo)
		if err != nil {
			return fmt.Errorf("failed to seed reports: %w", err)
		}

		pp.Println(map[string]int{"profiles": profiles, "reports": reports})

		logrus.Info("Seed data applied successfully")

		return nil
	},
}
