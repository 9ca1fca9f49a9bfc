package models

import "time"

// Profile is the single user-preferences record the résumé header is built
// from. There is exactly one row (SingletonProfileID); preference saves upsert
// it in place rather than appending history.
type Profile struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	GithubUser string    `json:"github_user"`
	Industry   string    `json:"industry"`
	Education  string    `json:"education"`
	JobTitle   string    `json:"job_title"`
	UpdatedAt  time.Time `json:"-"`
}

// SingletonProfileID is the fixed id of the one Profile row.
const SingletonProfileID uint = 1
