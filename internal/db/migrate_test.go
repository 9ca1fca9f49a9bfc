package db

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/COSC-499-W2025/capstone-project-team-3-sub001/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestAutoMigrateCreatesTables(t *testing.T) {
	conn := openTestDB(t)
	for _, table := range []string{"profiles", "projects", "bullets", "skills", "resumes", "resume_projects", "resume_skill_sets"} {
		if !conn.Migrator().HasTable(table) {
			t.Errorf("missing table %s", table)
		}
	}
}

func TestEnsureMasterResumeIdempotent(t *testing.T) {
	conn := openTestDB(t)

	for i := 0; i < 3; i++ {
		if err := EnsureMasterResume(conn); err != nil {
			t.Fatalf("pass %d: %v", i, err)
		}
	}
	var masters []models.Resume
	if err := conn.Where("is_master = ?", true).Find(&masters).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(masters) != 1 {
		t.Fatalf("%d master rows", len(masters))
	}
	if masters[0].Name != MasterResumeName {
		t.Fatalf("master name %q", masters[0].Name)
	}
}

func TestResumeProjectUniqueIndex(t *testing.T) {
	conn := openTestDB(t)
	r := models.Resume{Name: "Untitled Resume"}
	if err := conn.Create(&r).Error; err != nil {
		t.Fatalf("create resume: %v", err)
	}
	p := models.Project{Signature: "p1", Name: "alpha"}
	if err := conn.Create(&p).Error; err != nil {
		t.Fatalf("create project: %v", err)
	}

	first := models.ResumeProject{ResumeID: r.ID, ProjectID: "p1", DisplayOrder: 1}
	if err := conn.Create(&first).Error; err != nil {
		t.Fatalf("first selection: %v", err)
	}
	dup := models.ResumeProject{ResumeID: r.ID, ProjectID: "p1", DisplayOrder: 2}
	if err := conn.Create(&dup).Error; err == nil {
		t.Fatal("duplicate selection accepted")
	}
}
