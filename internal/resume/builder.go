package resume

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/COSC-499-W2025/capstone-project-team-3-sub001/internal/models"
)

// maxProjectSkills caps the per-project "Skills:" line. The cap applies only
// to that line; the top-level aggregated skill set is never truncated.
const maxProjectSkills = 5

// Builder assembles a DocumentModel from the base profile/project/bullet/skill
// rows. It never returns a partially populated model: any store failure or a
// missing profile aborts the build.
type Builder struct {
	db *gorm.DB
}

func NewBuilder(db *gorm.DB) *Builder { return &Builder{db: db} }

// BuildModel assembles the résumé model. A nil or empty projectIDs selects
// every project ordered by rank descending (master/preview-all mode); a
// non-empty set restricts to exactly those signatures, still rank-descending.
func (b *Builder) BuildModel(ctx context.Context, projectIDs []string) (*DocumentModel, error) {
	profile, err := b.loadProfile(ctx)
	if err != nil {
		return nil, err
	}

	var projects []models.Project
	q := b.db.WithContext(ctx).Order("rank DESC")
	if len(projectIDs) > 0 {
		q = q.Where("signature IN ?", projectIDs)
	}
	if err := q.Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("load projects: %v: %w", err, ErrService)
	}

	selected := make([]string, 0, len(projects))
	for _, p := range projects {
		selected = append(selected, p.Signature)
	}
	bulletsByProject, err := b.loadBullets(ctx, selected)
	if err != nil {
		return nil, err
	}
	skillsByProject, err := b.loadSkills(ctx, selected)
	if err != nil {
		return nil, err
	}

	entries := make([]ProjectEntry, 0, len(projects))
	for _, p := range projects {
		limited := limitSkills(skillsByProject[p.Signature], maxProjectSkills)
		entries = append(entries, ProjectEntry{
			Title:   p.Name,
			Dates:   formatDates(p.CreatedAt, p.LastModified),
			Skills:  strings.Join(limited, ", "),
			Bullets: bulletsByProject[p.Signature],
		})
	}

	union := map[string]struct{}{}
	for _, sig := range selected {
		for _, s := range skillsByProject[sig] {
			union[s] = struct{}{}
		}
	}
	allSkills := make([]string, 0, len(union))
	for s := range union {
		allSkills = append(allSkills, s)
	}
	sort.Strings(allSkills)

	return &DocumentModel{
		Name:  profile.Name,
		Email: profile.Email,
		Links: profileLinks(profile),
		Education: []EducationEntry{{
			School: profile.Education,
			Degree: profile.JobTitle,
		}},
		Skills:   map[string][]string{"Skills": allSkills},
		Projects: entries,
	}, nil
}

func (b *Builder) loadProfile(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	err := b.db.WithContext(ctx).First(&profile, models.SingletonProfileID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("profile record: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %v: %w", err, ErrService)
	}
	return &profile, nil
}

func (b *Builder) loadBullets(ctx context.Context, projectIDs []string) (map[string][]string, error) {
	out := map[string][]string{}
	if len(projectIDs) == 0 {
		return out, nil
	}
	var rows []models.Bullet
	// Insertion (id) order is the display order.
	if err := b.db.WithContext(ctx).Where("project_id IN ?", projectIDs).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load bullets: %v: %w", err, ErrService)
	}
	for _, r := range rows {
		out[r.ProjectID] = append(out[r.ProjectID], r.Text)
	}
	return out, nil
}

func (b *Builder) loadSkills(ctx context.Context, projectIDs []string) (map[string][]string, error) {
	out := map[string][]string{}
	if len(projectIDs) == 0 {
		return out, nil
	}
	var rows []models.Skill
	if err := b.db.WithContext(ctx).Where("project_id IN ?", projectIDs).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load skills: %v: %w", err, ErrService)
	}
	for _, r := range rows {
		out[r.ProjectID] = append(out[r.ProjectID], r.Name)
	}
	return out, nil
}

// profileLinks builds the labeled hyperlink row for the résumé header. Only a
// GitHub link for now; more link types slot in here later.
func profileLinks(p *models.Profile) []Link {
	links := []Link{}
	if p.GithubUser != "" {
		links = append(links, Link{Label: "GitHub", URL: "https://github.com/" + p.GithubUser})
	}
	return links
}

// limitSkills returns up to max unique skills preserving first-seen order.
func limitSkills(skills []string, max int) []string {
	seen := map[string]struct{}{}
	limited := make([]string, 0, max)
	for _, s := range skills {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			limited = append(limited, s)
		}
		if len(limited) == max {
			break
		}
	}
	return limited
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", s)
}

// formatDates renders a short month/year range, e.g. "Jan 2024 – Jun 2024".
// Either timestamp failing to parse yields the empty string; the analyzer
// occasionally writes dirty values and a résumé without dates beats a 500.
func formatDates(start, end string) string {
	s, err := parseDate(start)
	if err != nil {
		return ""
	}
	e, err := parseDate(end)
	if err != nil {
		return ""
	}
	return s.Format("Jan 2006") + " – " + e.Format("Jan 2006")
}
