package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"pillsee-be/internal/bootstrap"
	"pillsee-be/internal/config"
	"pillsee-be/internal/service"
	"pillsee-be/pkg/database"
	"pillsee-be/pkg/sukl"

	"github.com/fatih/color"
	"gorm.io/gorm"
)

func main() {
	filePath := flag.String("file", "", "path to the SÚKL CSV export")
	replace := flag.Bool("replace", false, "wipe the corpus before importing")
	batchSize := flag.Int("batch", 100, "records per ingest batch")
	flag.Parse()

	if *filePath == "" {
		color.Red("Usage: import -file <sukl-export.csv> [-replace] [-batch N]")
		os.Exit(1)
	}

	color.Cyan("🚀 Starting SÚKL corpus import\n")

	cfg := config.Load()

	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			color.Red("Failed to connect to database: %v", err)
			os.Exit(1)
		}
		gormDB = db
	} else {
		color.Yellow("No DB_CONNECTION_STRING set, importing into the in-memory corpus (lost on exit)")
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	// 1. Parse the export
	color.Yellow("\n1. Reading %s", *filePath)
	records, err := sukl.ReadFile(*filePath)
	if err != nil {
		color.Red("Failed to read export: %v", err)
		os.Exit(1)
	}
	color.Green("Parsed %d valid records", len(records))

	ctx := context.Background()

	// 2. Optional wholesale refresh
	if *replace {
		color.Yellow("\n2. Replacing existing corpus")
		if err := container.MedicationRepository.DeleteAllUnscoped(ctx); err != nil {
			color.Red("Failed to clear corpus: %v", err)
			os.Exit(1)
		}
		color.Green("Corpus cleared")
	}

	// 3. Embed and insert through the ingest bus
	color.Yellow("\n3. Embedding and inserting (batch size %d)", *batchSize)
	ingest := service.NewIngestService(container.MedicationRepository, container.EmbeddingProvider)
	if err := ingest.Consume(ctx); err != nil {
		color.Red("Failed to start ingest consumer: %v", err)
		os.Exit(1)
	}

	start := time.Now()
	for begin := 0; begin < len(records); begin += *batchSize {
		end := begin + *batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := ingest.Publish(ctx, records[begin:end]); err != nil {
			log.Printf("[ERROR] Failed to publish batch starting at %d: %v", begin, err)
		}
	}
	ingest.Wait()

	inserted, failed := ingest.Stats()
	color.Green("\n✅ Import finished in %s: %d inserted, %d failed", time.Since(start).Round(time.Second), inserted, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
