// cmd/seed/main.go
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func openDB(c *cli.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Load stock snapshot data into the advisory database",
		Commands: []*cli.Command{
			{
				Name:  "snapshots",
				Usage: "Load daily stock snapshot CSV files, optionally downloading them first",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Directory containing snapshot CSV files (YYYYMMDD.csv)",
						Value:   "./data/snapshots",
						EnvVars: []string{"SNAPSHOT_DATA_DIR"},
					},
					&cli.StringFlag{
						Name:  "date",
						Usage: "Only load the snapshot for this date (YYYYMMDD); default loads every file",
					},
					&cli.BoolFlag{
						Name:  "download",
						Usage: "Download snapshot files from object storage before loading",
					},
					&cli.StringFlag{
						Name:    "redis-url",
						Usage:   "Redis URL of the dashboard cache to invalidate after loading",
						EnvVars: []string{"REDIS_URL"},
					},
					&cli.StringFlag{
						Name:    "bucket-endpoint",
						EnvVars: []string{"SNAPSHOT_BUCKET_ENDPOINT"},
					},
					&cli.StringFlag{
						Name:    "bucket-access-key",
						EnvVars: []string{"SNAPSHOT_BUCKET_ACCESS_KEY"},
					},
					&cli.StringFlag{
						Name:    "bucket-secret-key",
						EnvVars: []string{"SNAPSHOT_BUCKET_SECRET_KEY"},
					},
					&cli.StringFlag{
						Name:    "bucket-name",
						EnvVars: []string{"SNAPSHOT_BUCKET_NAME"},
					},
					&cli.StringFlag{
						Name:    "bucket-prefix",
						Value:   "snapshots/",
						EnvVars: []string{"SNAPSHOT_BUCKET_PREFIX"},
					},
					&cli.BoolFlag{
						Name:    "bucket-use-ssl",
						Value:   true,
						EnvVars: []string{"SNAPSHOT_BUCKET_USE_SSL"},
					},
				},
				Action: runSnapshots,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
