package resume

import (
	"context"
	"errors"
	"testing"

	"github.com/COSC-499-W2025/capstone-project-team-3-sub001/internal/models"
)

func TestCreateAttachAndList(t *testing.T) {
	conn := setupTestDB(t)
	seedPipeline(t, conn)
	store := NewStore(conn)
	ctx := context.Background()

	id, err := store.CreateResume(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.AttachProjects(ctx, id, []string{"p1", "p2", "p1"}); err != nil {
		t.Fatalf("attach: %v", err)
	}

	var count int64
	if err := conn.Model(&models.ResumeProject{}).Where("resume_id = ?", id).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("duplicate signature not collapsed: %d rows", count)
	}

	list, err := store.ListResumes(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != id || list[0].Name != "Untitled Resume" {
		t.Fatalf("list: %+v", list)
	}
}

func TestAttachProjectsUnknownResume(t *testing.T) {
	conn := setupTestDB(t)
	seedPipeline(t, conn)
	store := NewStore(conn)

	err := store.AttachProjects(context.Background(), 999, []string{"p1"})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("want ErrPersistence, got %v", err)
	}
}

func TestAttachProjectsUnknownSignature(t *testing.T) {
	conn := setupTestDB(t)
	seedPipeline(t, conn)
	store := NewStore(conn)
	ctx := context.Background()

	id, err := store.CreateResume(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	err = store.AttachProjects(ctx, id, []string{"p1", "no-such-project"})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("want ErrPersistence, got %v", err)
	}
	var count int64
	if err := conn.Model(&models.ResumeProject{}).Where("resume_id = ?", id).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("partial attach leaked %d rows", count)
	}
}

func TestLoadSavedResumeInheritsBase(t *testing.T) {
	conn := setupTestDB(t)
	seedPipeline(t, conn)
	store := NewStore(conn)
	ctx := context.Background()

	id, _ := store.CreateResume(ctx)
	if err := store.AttachProjects(ctx, id, []string{"p1"}); err != nil {
		t.Fatalf("attach: %v", err)
	}

	model, err := store.LoadSavedResume(ctx, id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(model.Projects) != 1 || model.Projects[0].Title != "alpha_project" {
		t.Fatalf("projects: %+v", model.Projects)
	}
	if model.Projects[0].Dates != "Jan 2024 – Jun 2024" {
		t.Fatalf("dates not inherited: %q", model.Projects[0].Dates)
	}
}

func TestSaveEditsOverridesFields(t *testing.T) {
	conn := setupTestDB(t)
	seedPipeline(t, conn)
	store := NewStore(conn)
	ctx := context.Background()

	id, _ := store.CreateResume(ctx)
	if err := store.AttachProjects(ctx, id, []string{"p1"}); err != nil {
		t.Fatalf("attach: %v", err)
	}

	payload := []byte(`{
		"skills": ["Go", "Kubernetes"],
		"projects": [{
			"project_id": "p1",
			"project_name": "Alpha Renamed",
			"start_date": "2025-01-01",
			"end_date": "2025-03-01",
			"skills": ["Go"],
			"bullets": ["Rewrote the thing"],
			"display_order": 1
		}]
	}`)
	if err := store.SaveEdits(ctx, id, payload); err != nil {
		t.Fatalf("save: %v", err)
	}

	model, err := store.LoadSavedResume(ctx, id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p := model.Projects[0]
	if p.Title != "Alpha Renamed" {
		t.Fatalf("title: %q", p.Title)
	}
	if p.Dates != "Jan 2025 – Mar 2025" {
		t.Fatalf("dates: %q", p.Dates)
	}
	if p.Skills != "Go" {
		t.Fatalf("skills line: %q", p.Skills)
	}
	top := model.Skills["Skills"]
	if len(top) != 2 || top[0] != "Go" || top[1] != "Kubernetes" {
		t.Fatalf("top-level skills: %v", top)
	}
}

func TestSaveEditsIdempotent(t *testing.T) {
	conn := setupTestDB(t)
	seedPipeline(t, conn)
	store := NewStore(conn)
	ctx := context.Background()

	id, _ := store.CreateResume(ctx)
	if err := store.AttachProjects(ctx, id, []string{"p1"}); err != nil {
		t.Fatalf("attach: %v", err)
	}

	payload := []byte(`{"skills":["Go"],"projects":[{"project_id":"p1","project_name":"Alpha","display_order":1}]}`)
	if err := store.SaveEdits(ctx, id, payload); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.SaveEdits(ctx, id, payload); err != nil {
		t.Fatalf("second save: %v", err)
	}

	var projRows, setRows int64
	conn.Model(&models.ResumeProject{}).Where("resume_id = ?", id).Count(&projRows)
	conn.Model(&models.ResumeSkillSet{}).Where("resume_id = ?", id).Count(&setRows)
	if projRows != 1 || setRows != 1 {
		t.Fatalf("duplicated rows after resave: %d project, %d skill set", projRows, setRows)
	}
}

func TestSaveEditsRejectsBadPayload(t *testing.T) {
	conn := setupTestDB(t)
	seedPipeline(t, conn)
	store := NewStore(conn)
	ctx := context.Background()

	id, _ := store.CreateResume(ctx)

	cases := map[string][]byte{
		"not json":           []byte(`{`),
		"missing project_id": []byte(`{"projects":[{"project_name":"X"}]}`),
		"skills not array":   []byte(`{"skills":"Go"}`),
	}
	for name, raw := range cases {
		if err := store.SaveEdits(ctx, id, raw); !errors.Is(err, ErrInvalidPayload) {
			t.Errorf("%s: want ErrInvalidPayload, got %v", name, err)
		}
	}
}

func TestSaveEditsUnknownResume(t *testing.T) {
	conn := setupTestDB(t)
	seedPipeline(t, conn)
	store := NewStore(conn)

	err := store.SaveEdits(context.Background(), 42, []byte(`{"skills":["Go"]}`))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDeleteResumeCascades(t *testing.T) {
	conn := setupTestDB(t)
	seedPipeline(t, conn)
	store := NewStore(conn)
	ctx := context.Background()

	id, _ := store.CreateResume(ctx)
	if err := store.AttachProjects(ctx, id, []string{"p1"}); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := store.SaveEdits(ctx, id, []byte(`{"skills":["Go"]}`)); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := store.DeleteResume(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var projRows, setRows, baseProjects int64
	conn.Model(&models.ResumeProject{}).Where("resume_id = ?", id).Count(&projRows)
	conn.Model(&models.ResumeSkillSet{}).Where("resume_id = ?", id).Count(&setRows)
	conn.Model(&models.Project{}).Count(&baseProjects)
	if projRows != 0 || setRows != 0 {
		t.Fatalf("overlay rows survived delete: %d project, %d skill set", projRows, setRows)
	}
	if baseProjects != 2 {
		t.Fatalf("base projects touched by delete: %d", baseProjects)
	}

	if err := store.DeleteResume(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}

func TestDeleteMasterResumeRefused(t *testing.T) {
	conn := setupTestDB(t)
	seedPipeline(t, conn)
	store := NewStore(conn)

	master := models.Resume{Name: "Master Resume", IsMaster: true}
	if err := conn.Create(&master).Error; err != nil {
		t.Fatalf("seed master: %v", err)
	}
	err := store.DeleteResume(context.Background(), master.ID)
	if !errors.Is(err, ErrMasterResume) {
		t.Fatalf("want ErrMasterResume, got %v", err)
	}
	list, _ := store.ListResumes(context.Background())
	if len(list) != 1 || !list[0].IsMaster {
		t.Fatalf("master missing after refused delete: %+v", list)
	}
}

func TestLoadSavedResumeUnknown(t *testing.T) {
	conn := setupTestDB(t)
	seedPipeline(t, conn)
	store := NewStore(conn)

	_, err := store.LoadSavedResume(context.Background(), 1234)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
