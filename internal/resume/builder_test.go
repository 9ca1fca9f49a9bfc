package resume

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appdb "github.com/COSC-499-W2025/capstone-project-team-3-sub001/internal/db"
	"github.com/COSC-499-W2025/capstone-project-team-3-sub001/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := appdb.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func seedPipeline(t *testing.T, conn *gorm.DB) {
	t.Helper()
	profile := models.Profile{
		ID: models.SingletonProfileID, Name: "John Doe", Email: "john@example.com",
		GithubUser: "johndoe", Education: "University X", JobTitle: "Developer",
	}
	if err := conn.Create(&profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	projects := []models.Project{
		{Signature: "p1", Name: "alpha_project", Rank: 2, CreatedAt: "2024-01-01", LastModified: "2024-06-01"},
		{Signature: "p2", Name: "Beta Project", Rank: 1, CreatedAt: "2023-01-01", LastModified: "2023-12-01"},
	}
	if err := conn.Create(&projects).Error; err != nil {
		t.Fatalf("seed projects: %v", err)
	}
	bullets := []models.Bullet{
		{ProjectID: "p1", Text: "Built backend services"},
		{ProjectID: "p1", Text: "Designed REST APIs"},
		{ProjectID: "p2", Text: "Implemented ML pipeline"},
	}
	if err := conn.Create(&bullets).Error; err != nil {
		t.Fatalf("seed bullets: %v", err)
	}
	var skills []models.Skill
	for _, name := range []string{"Python", "Flask", "SQL", "Docker", "Git", "ExtraSkill"} {
		skills = append(skills, models.Skill{ProjectID: "p1", Name: name})
	}
	skills = append(skills,
		models.Skill{ProjectID: "p2", Name: "Python"},
		models.Skill{ProjectID: "p2", Name: "Machine Learning"},
	)
	if err := conn.Create(&skills).Error; err != nil {
		t.Fatalf("seed skills: %v", err)
	}
}

func TestFormatDates(t *testing.T) {
	if got := formatDates("2024-01-01", "2024-06-01"); got != "Jan 2024 – Jun 2024" {
		t.Fatalf("valid dates: got %q", got)
	}
	if got := formatDates("bad-date", "also-bad"); got != "" {
		t.Fatalf("invalid dates: got %q, want empty", got)
	}
	if got := formatDates("2024-01-01", "nope"); got != "" {
		t.Fatalf("one invalid date: got %q, want empty", got)
	}
	if got := formatDates("2024-01-01T10:30:00Z", "2024-06-01T08:00:00Z"); got != "Jan 2024 – Jun 2024" {
		t.Fatalf("timestamp form: got %q", got)
	}
}

func TestLimitSkillsDedupAndCap(t *testing.T) {
	in := []string{"Python", "Flask", "Python", "SQL", "Docker", "Git"}
	got := limitSkills(in, 5)
	want := []string{"Python", "Flask", "SQL", "Docker", "Git"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestBuildModelAllProjects(t *testing.T) {
	conn := setupTestDB(t)
	seedPipeline(t, conn)
	b := NewBuilder(conn)

	model, err := b.BuildModel(context.Background(), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if model.Name != "John Doe" || model.Email != "john@example.com" {
		t.Fatalf("header: %+v", model)
	}
	if len(model.Links) != 1 || model.Links[0].URL != "https://github.com/johndoe" {
		t.Fatalf("links: %+v", model.Links)
	}
	// rank DESC: p1 (rank 2) before p2 (rank 1)
	if len(model.Projects) != 2 {
		t.Fatalf("projects: %+v", model.Projects)
	}
	if model.Projects[0].Title != "alpha_project" || model.Projects[1].Title != "Beta Project" {
		t.Fatalf("order: %q, %q", model.Projects[0].Title, model.Projects[1].Title)
	}
	if model.Projects[0].Dates != "Jan 2024 – Jun 2024" {
		t.Fatalf("dates: %q", model.Projects[0].Dates)
	}
}

func TestBuildModelSkillCapAndUnion(t *testing.T) {
	conn := setupTestDB(t)
	seedPipeline(t, conn)
	b := NewBuilder(conn)

	model, err := b.BuildModel(context.Background(), []string{"p1"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(model.Projects) != 1 {
		t.Fatalf("projects: %+v", model.Projects)
	}
	// Per-project line caps at 5 skills; the aggregated set keeps all 6.
	line := model.Projects[0].Skills
	if line != "Python, Flask, SQL, Docker, Git" {
		t.Fatalf("skills line: %q", line)
	}
	all := model.Skills["Skills"]
	if len(all) != 6 {
		t.Fatalf("aggregated skills: %v", all)
	}
	// sorted, case-sensitive
	for i := 1; i < len(all); i++ {
		if all[i-1] > all[i] {
			t.Fatalf("not sorted: %v", all)
		}
	}
}

func TestBuildModelSelectionUnion(t *testing.T) {
	conn := setupTestDB(t)
	seedPipeline(t, conn)
	b := NewBuilder(conn)

	model, err := b.BuildModel(context.Background(), []string{"p1", "p2"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	titles := []string{model.Projects[0].Title, model.Projects[1].Title}
	if titles[0] != "alpha_project" || titles[1] != "Beta Project" {
		t.Fatalf("order: %v", titles)
	}
	set := map[string]bool{}
	for _, s := range model.Skills["Skills"] {
		set[s] = true
	}
	if len(set) != 7 || !set["Machine Learning"] {
		t.Fatalf("union: %v", model.Skills["Skills"])
	}
}

func TestBuildModelMissingProfile(t *testing.T) {
	conn := setupTestDB(t)
	b := NewBuilder(conn)
	_, err := b.BuildModel(context.Background(), nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestBuildModelBulletOrder(t *testing.T) {
	conn := setupTestDB(t)
	seedPipeline(t, conn)
	b := NewBuilder(conn)

	model, err := b.BuildModel(context.Background(), []string{"p1"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	bullets, ok := model.Projects[0].Bullets.([]string)
	if !ok {
		t.Fatalf("bullets type: %T", model.Projects[0].Bullets)
	}
	if len(bullets) != 2 || bullets[0] != "Built backend services" || bullets[1] != "Designed REST APIs" {
		t.Fatalf("bullets: %v", bullets)
	}
}
