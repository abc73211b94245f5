package main

import (
	"context"
	"log"

	"pillsee-be/internal/bootstrap"
	"pillsee-be/internal/config"
	"pillsee-be/internal/server"
	"pillsee-be/internal/tracer"
	"pillsee-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database (optional: the in-memory corpus serves local dev)
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		gormDB = db
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Initialize and Run Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
