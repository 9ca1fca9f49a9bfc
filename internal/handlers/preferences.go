package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/COSC-499-W2025/capstone-project-team-3-sub001/internal/httpx"
	"github.com/COSC-499-W2025/capstone-project-team-3-sub001/internal/models"
)

// PreferencesHandler manages the singleton profile row the résumé header is
// assembled from.
type PreferencesHandler struct {
	DB *gorm.DB
}

func NewPreferencesHandler(db *gorm.DB) *PreferencesHandler {
	return &PreferencesHandler{DB: db}
}

// Get: GET /user-preferences
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	err := h.DB.WithContext(r.Context()).First(&profile, models.SingletonProfileID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "no_user_preferences", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_preferences", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}

// Save: POST /user-preferences - upsert in place; the profile is a singleton,
// saves never append history.
func (h *PreferencesHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		GithubUser string `json:"github_user"`
		Education  string `json:"education"`
		Industry   string `json:"industry"`
		JobTitle   string `json:"job_title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	violations := map[string]string{}
	if req.Name == "" {
		violations["name"] = "required"
	}
	if req.Email == "" {
		violations["email"] = "required"
	}
	if len(violations) > 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", violations)
		return
	}

	profile := models.Profile{
		ID:         models.SingletonProfileID,
		Name:       req.Name,
		Email:      req.Email,
		GithubUser: req.GithubUser,
		Education:  req.Education,
		Industry:   req.Industry,
		JobTitle:   req.JobTitle,
	}
	err := h.DB.WithContext(r.Context()).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "email", "github_user", "education", "industry", "job_title", "updated_at",
		}),
	}).Create(&profile).Error
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_save_preferences", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
