package main

import (
	"log"

	"course-qa-be/internal/config"
	"course-qa-be/internal/model"
	"course-qa-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDB(cfg.Database.Driver, cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: Extensions (postgres only)
	if database.IsPostgres(db) {
		log.Println("Step 1: Setting up Extensions...")
		setupSQL := []string{
			`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
			`CREATE EXTENSION IF NOT EXISTS vector;`,
		}
		for _, sql := range setupSQL {
			if err := db.Exec(sql).Error; err != nil {
				log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
			}
		}
	}

	// 4. AutoMigrate All Models
	models := model.All()
	log.Printf("Step 2: Running AutoMigrate for %d Tables...", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Views
	if database.IsPostgres(db) {
		log.Println("Step 3: Creating Views...")
		postMigrationSQL := []string{
			// View: latest coverage per course week, joined to the plan
			`CREATE OR REPLACE VIEW course_week_coverage AS
			 SELECT c.course_code, p.week_number, p.planned_end_date,
			        e.coverage_percent, e.coverage_status, e.scoring_mode, e.last_updated_at
			 FROM courses c
			 JOIN weekly_plans p ON p.course_id = c.id
			 LEFT JOIN weekly_executions e ON e.course_id = p.course_id AND e.week_number = p.week_number;`,
		}
		for _, sql := range postMigrationSQL {
			if err := db.Exec(sql).Error; err != nil {
				log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
			}
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
