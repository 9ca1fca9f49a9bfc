package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/COSC-499-W2025/capstone-project-team-3-sub001/internal/models"
)

// MasterResumeName is the display name given to the one undeletable résumé.
const MasterResumeName = "Master Resume"

// ConnectAndMigrate opens the store selected by DATABASE_DSN (sqlite file by
// default, postgres when the DSN says so) and brings the schema up to date.
func ConnectAndMigrate(rawDSN string) (*gorm.DB, error) {
	dsn := NormalizeDSN(rawDSN)
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN is empty; check environment configuration")
	}

	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var db *gorm.DB
	var err error
	if IsPostgresDSN(dsn) {
		for i := 0; i < 10; i++ {
			db, err = gorm.Open(postgres.Open(dsn), cfg)
			if err == nil {
				break
			}
			fmt.Println("Retrying DB connection...", err)
			time.Sleep(2 * time.Second)
		}
	} else {
		if dir := filepath.Dir(dsn); dir != "." && !strings.HasPrefix(dsn, "file:") {
			if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
				return nil, fmt.Errorf("create db directory: %w", mkErr)
			}
		}
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	// Print masked DSN once for diagnostics.
	masked := dsn
	if strings.Contains(masked, "password=") {
		re := regexp.MustCompile(`(password=)([^\s]+)`)
		masked = re.ReplaceAllString(masked, `${1}***`)
	}
	fmt.Println("[DB] Using DSN:", masked)

	// MIGRATIONS=1 runs sql migrations via golang-migrate (postgres only);
	// otherwise AutoMigrate keeps the dev sqlite schema current.
	if v := strings.ToLower(os.Getenv("MIGRATIONS")); v == "1" || v == "true" || v == "yes" {
		if !IsPostgresDSN(dsn) {
			return nil, errors.New("MIGRATIONS=1 requires a postgres DSN")
		}
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
	}

	for _, table := range []string{"profiles", "projects", "resumes"} {
		if !db.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}

	if err := EnsureMasterResume(db); err != nil {
		return nil, err
	}

	if v := strings.ToLower(os.Getenv("DB_SEED")); v == "1" || v == "true" || v == "yes" {
		seed(db)
	}
	return db, nil
}

// AutoMigrate applies the gorm schema for every model this service owns.
func AutoMigrate(db *gorm.DB) error {
	modelsToMigrate := []interface{}{
		&models.Profile{}, &models.Project{}, &models.Bullet{}, &models.Skill{},
		&models.Resume{}, &models.ResumeProject{}, &models.ResumeSkillSet{},
	}
	for _, m := range modelsToMigrate {
		if migErr := db.AutoMigrate(m); migErr != nil {
			return fmt.Errorf("automigrate %T: %w", m, migErr)
		}
	}
	return nil
}

// EnsureMasterResume guarantees exactly one master résumé row exists. The
// master is distinguished by the persisted IsMaster flag, not by a magic id.
func EnsureMasterResume(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Resume{}).Where("is_master = ?", true).Count(&count).Error; err != nil {
		return fmt.Errorf("check master resume: %w", err)
	}
	if count > 0 {
		return nil
	}
	master := models.Resume{Name: MasterResumeName, IsMaster: true}
	if err := db.Create(&master).Error; err != nil {
		return fmt.Errorf("create master resume: %w", err)
	}
	return nil
}

func seed(db *gorm.DB) {
	var existing models.Project
	if err := db.Where("signature = ?", "seed-project").First(&existing).Error; err != gorm.ErrRecordNotFound {
		return
	}
	project := models.Project{
		Signature:    "seed-project",
		Name:         "sample analyzer project",
		Rank:         1,
		CreatedAt:    "2024-01-01",
		LastModified: "2024-06-01",
	}
	db.Create(&project)
	db.Create(&models.Bullet{ProjectID: project.Signature, Text: "Built backend services"})
	db.Create(&models.Bullet{ProjectID: project.Signature, Text: "Designed REST APIs"})
	for _, s := range []string{"Go", "SQL", "Docker"} {
		db.Create(&models.Skill{ProjectID: project.Signature, Name: s, Source: "code"})
	}
}

// runSQLMigrations executes migrations in ./migrations using golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
