package models

// Project rows are produced by the analysis pipeline and are read-only here
// (except ThumbnailPath). The signature is the analyzer's content hash of the
// repository and never changes. CreatedAt/LastModified are kept as the raw
// ISO strings the analyzer wrote; they are parsed only when a date range is
// formatted, and dirty values degrade to an empty range instead of erroring.
type Project struct {
	Signature     string `gorm:"primaryKey"`
	Name          string `gorm:"not null"`
	Path          string
	SizeBytes     int64
	Rank          int `gorm:"index"`
	ThumbnailPath string
	CreatedAt     string
	LastModified  string
}

// Bullet is one achievement statement for a project. Insertion order (the
// auto-increment id) is the display order.
type Bullet struct {
	ID        uint    `gorm:"primaryKey"`
	ProjectID string  `gorm:"not null;index"`
	Project   Project `gorm:"foreignKey:ProjectID;references:Signature;constraint:OnDelete:CASCADE"`
	Text      string  `gorm:"not null"`
}

// Skill is a short label attached to a project by the analyzers. The same
// label commonly appears on several projects; aggregation dedups.
type Skill struct {
	ID        uint    `gorm:"primaryKey"`
	ProjectID string  `gorm:"not null;index"`
	Project   Project `gorm:"foreignKey:ProjectID;references:Signature;constraint:OnDelete:CASCADE"`
	Name      string  `gorm:"not null"`
	Source    string // "code" or "non-code"
}
