// wasteboard-ingest loads a waste-audit CSV through the dataset loader and
// bulk-inserts the enriched records into the SQLite backend, so the server
// can run with DATA_BACKEND=sqlite.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"wasteboard/internal/config"
	"wasteboard/internal/dataset"
	applog "wasteboard/internal/log"
	"wasteboard/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	csvPath := flag.String("csv", cfg.CSVPath, "path of the waste-audit CSV to ingest")
	dbPath := flag.String("db", cfg.SQLiteDBPath, "path of the SQLite database")
	flag.Parse()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: "ingest",
	})
	applog.SetDefault(logger)

	ds, err := dataset.Load(*csvPath)
	if err != nil {
		logger.Error("Failed to load CSV", "error", err, "path", *csvPath)
		os.Exit(1)
	}
	logger.Info("CSV loaded",
		"path", *csvPath,
		"records", len(ds.Records),
		"has_waste_type", ds.HasWasteType,
		"source_bin_color", ds.HasBinColor)

	repo, err := storage.NewSQLiteRepository(*dbPath)
	if err != nil {
		logger.Error("Failed to open SQLite database", "error", err, "path", *dbPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := repo.InsertRecords(ctx, ds.Records); err != nil {
		logger.Error("Ingest failed", "error", err)
		os.Exit(1)
	}

	total, err := repo.Count(ctx)
	if err != nil {
		logger.Error("Count failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Ingest complete", "inserted", len(ds.Records), "total_rows", total, "db", *dbPath)
}
