package resume

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/COSC-499-W2025/capstone-project-team-3-sub001/internal/models"
)

// Store persists per-résumé project selections and user overrides, and layers
// them onto the base data when a saved résumé is loaded. Base
// Project/Bullet/Skill rows are never written by this type.
type Store struct {
	db      *gorm.DB
	builder *Builder
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, builder: NewBuilder(db)}
}

// ResumeInfo is one row of the résumé listing.
type ResumeInfo struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	IsMaster bool   `json:"is_master"`
}

// editPayload mirrors templates/resume_edits.schema.json.
type editPayload struct {
	Skills   []string      `json:"skills"`
	Projects []projectEdit `json:"projects"`
}

type projectEdit struct {
	ProjectID    string   `json:"project_id"`
	ProjectName  string   `json:"project_name"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Skills       []string `json:"skills"`
	Bullets      any      `json:"bullets"`
	DisplayOrder int      `json:"display_order"`
}

// CreateResume allocates a new non-master résumé row and returns its id.
func (s *Store) CreateResume(ctx context.Context) (uint, error) {
	r := models.Resume{Name: "Untitled Resume"}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return 0, fmt.Errorf("create resume: %v: %w", err, ErrService)
	}
	return r.ID, nil
}

// AttachProjects associates the given project signatures with a résumé. Every
// signature must reference an existing project and the résumé id must be
// known; otherwise nothing is written.
func (s *Store) AttachProjects(ctx context.Context, id uint, projectIDs []string) error {
	exists, err := s.ResumeExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("resume %d: %w", id, ErrPersistence)
	}

	seen := map[string]struct{}{}
	unique := make([]string, 0, len(projectIDs))
	for _, pid := range projectIDs {
		if _, ok := seen[pid]; !ok {
			seen[pid] = struct{}{}
			unique = append(unique, pid)
		}
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Project{}).Where("signature IN ?", unique).Count(&count).Error; err != nil {
		return fmt.Errorf("verify projects: %v: %w", err, ErrService)
	}
	if count != int64(len(unique)) {
		return fmt.Errorf("unknown project signature: %w", ErrPersistence)
	}

	rows := make([]models.ResumeProject, 0, len(unique))
	for i, pid := range unique {
		rows = append(rows, models.ResumeProject{ResumeID: id, ProjectID: pid, DisplayOrder: i + 1})
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "resume_id"}, {Name: "project_id"}},
		DoNothing: true,
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("attach projects: %v: %w", err, ErrPersistence)
	}
	return nil
}

// ListResumes returns every résumé, master first, then by id.
func (s *Store) ListResumes(ctx context.Context) ([]ResumeInfo, error) {
	var rows []models.Resume
	if err := s.db.WithContext(ctx).Order("is_master DESC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list resumes: %v: %w", err, ErrService)
	}
	out := make([]ResumeInfo, 0, len(rows))
	for _, r := range rows {
		out = append(out, ResumeInfo{ID: r.ID, Name: r.Name, IsMaster: r.IsMaster})
	}
	return out, nil
}

func (s *Store) ResumeExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Resume{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("resume exists: %v: %w", err, ErrService)
	}
	return count > 0, nil
}

// LoadSavedResume reconstructs a DocumentModel from a résumé's selected
// projects, applying stored field overrides per project. Title, dates, skills
// and bullets are each independently overridable; an empty column inherits
// from the base rows at load time.
func (s *Store) LoadSavedResume(ctx context.Context, id uint) (*DocumentModel, error) {
	exists, err := s.ResumeExists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("resume %d: %w", id, ErrNotFound)
	}

	profile, err := s.builder.loadProfile(ctx)
	if err != nil {
		return nil, err
	}

	var selections []models.ResumeProject
	if err := s.db.WithContext(ctx).Where("resume_id = ?", id).Order("display_order ASC, id ASC").Find(&selections).Error; err != nil {
		return nil, fmt.Errorf("load resume projects: %v: %w", err, ErrService)
	}

	projectIDs := make([]string, 0, len(selections))
	for _, sel := range selections {
		projectIDs = append(projectIDs, sel.ProjectID)
	}
	baseProjects := map[string]models.Project{}
	if len(projectIDs) > 0 {
		var rows []models.Project
		if err := s.db.WithContext(ctx).Where("signature IN ?", projectIDs).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("load base projects: %v: %w", err, ErrService)
		}
		for _, p := range rows {
			baseProjects[p.Signature] = p
		}
	}
	baseBullets, err := s.builder.loadBullets(ctx, projectIDs)
	if err != nil {
		return nil, err
	}
	baseSkills, err := s.builder.loadSkills(ctx, projectIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]ProjectEntry, 0, len(selections))
	skillUnion := map[string]struct{}{}
	for _, sel := range selections {
		base := baseProjects[sel.ProjectID]

		title := sel.Title
		if title == "" {
			title = base.Name
		}

		start, end := sel.StartDate, sel.EndDate
		if start == "" {
			start = base.CreatedAt
		}
		if end == "" {
			end = base.LastModified
		}

		skills := baseSkills[sel.ProjectID]
		if sel.Skills != "" {
			var edited []string
			if err := json.Unmarshal([]byte(sel.Skills), &edited); err == nil {
				skills = edited
			}
		}
		for _, sk := range skills {
			skillUnion[sk] = struct{}{}
		}

		// An edited bullet column is passed through as the raw stored text;
		// the renderer normalizes whichever shape it holds.
		var bullets any = baseBullets[sel.ProjectID]
		if sel.Bullets != "" {
			bullets = sel.Bullets
		}

		entries = append(entries, ProjectEntry{
			Title:   title,
			Dates:   formatDates(start, end),
			Skills:  strings.Join(limitSkills(skills, maxProjectSkills), ", "),
			Bullets: bullets,
		})
	}

	allSkills := make([]string, 0, len(skillUnion))
	for sk := range skillUnion {
		allSkills = append(allSkills, sk)
	}
	sort.Strings(allSkills)

	// A stored skill-set override replaces the aggregated top-level list.
	var skillSet models.ResumeSkillSet
	err = s.db.WithContext(ctx).Where("resume_id = ?", id).First(&skillSet).Error
	if err == nil {
		edited := []string{}
		for _, sk := range strings.Split(skillSet.Skills, ",") {
			if sk = strings.TrimSpace(sk); sk != "" {
				edited = append(edited, sk)
			}
		}
		allSkills = edited
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load resume skills: %v: %w", err, ErrService)
	}

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

// SaveEdits validates the résumé exists, checks the payload against the edit
// schema, then upserts override rows. Saving the same payload twice leaves
// the stored state identical to a single save.
func (s *Store) SaveEdits(ctx context.Context, id uint, raw []byte) error {
	exists, err := s.ResumeExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("resume %d: %w", id, ErrNotFound)
	}

	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidPayload)
	}
	if err := models.ValidateEdits(generic); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidPayload)
	}
	var payload editPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidPayload)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, edit := range payload.Projects {
			row := models.ResumeProject{
				ResumeID:     id,
				ProjectID:    edit.ProjectID,
				Title:        edit.ProjectName,
				StartDate:    edit.StartDate,
				EndDate:      edit.EndDate,
				DisplayOrder: edit.DisplayOrder,
			}
			if edit.Skills != nil {
				b, mErr := json.Marshal(edit.Skills)
				if mErr != nil {
					return mErr
				}
				row.Skills = string(b)
			}
			if edit.Bullets != nil {
				b, mErr := json.Marshal(edit.Bullets)
				if mErr != nil {
					return mErr
				}
				row.Bullets = string(b)
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "resume_id"}, {Name: "project_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"title", "start_date", "end_date", "skills", "bullets", "display_order",
				}),
			}).Create(&row).Error; err != nil {
				return err
			}
		}
		if payload.Skills != nil {
			set := models.ResumeSkillSet{ResumeID: id, Skills: strings.Join(payload.Skills, ",")}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "resume_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"skills"}),
			}).Create(&set).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save edits: %v: %w", err, ErrPersistence)
	}
	return nil
}

// DeleteResume removes a résumé and cascades to its overlay rows. The master
// résumé is refused; base Project/Bullet/Skill rows are never touched.
func (s *Store) DeleteResume(ctx context.Context, id uint) error {
	var r models.Resume
	err := s.db.WithContext(ctx).First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("resume %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load resume: %v: %w", err, ErrService)
	}
	if r.IsMaster {
		return ErrMasterResume
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("resume_id = ?", id).Delete(&models.ResumeProject{}).Error; err != nil {
			return err
		}
		if err := tx.Where("resume_id = ?", id).Delete(&models.ResumeSkillSet{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Resume{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete resume: %v: %w", err, ErrService)
	}
	return nil
}
