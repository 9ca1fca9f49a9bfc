package models

import "time"

// Resume is a named, persisted selection of projects plus optional per-project
// overrides. Exactly one row carries IsMaster and can never be deleted; it is
// created at startup if absent.
type Resume struct {
	ID        uint            `gorm:"primaryKey"`
	Name      string
	IsMaster  bool            `gorm:"not null;default:false"`
	Projects  []ResumeProject `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResumeProject associates a résumé with one project and carries the user's
// field-level overrides. An empty column means "inherit from the base
// Project/Bullet/Skill rows at render time". Skills and Bullets hold JSON
// array text when edited; bullets in particular arrive in several shapes
// (string, array, nested array) and are only normalized by the renderer.
type ResumeProject struct {
	ID           uint   `gorm:"primaryKey"`
	ResumeID     uint   `gorm:"not null;uniqueIndex:idx_resume_project"`
	ProjectID    string `gorm:"not null;uniqueIndex:idx_resume_project"`
	Title        string
	StartDate    string
	EndDate      string
	Skills       string
	Bullets      string
	DisplayOrder int
}

// ResumeSkillSet overrides the top-level aggregated skill list of one résumé
// with a comma-joined list. Absent row means "aggregate from the selected
// projects".
type ResumeSkillSet struct {
	ID       uint   `gorm:"primaryKey"`
	ResumeID uint   `gorm:"not null;uniqueIndex"`
	Skills   string `gorm:"not null"`
}
