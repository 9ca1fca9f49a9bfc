package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/COSC-499-W2025/capstone-project-team-3-sub001/internal/httpx"
	"github.com/COSC-499-W2025/capstone-project-team-3-sub001/internal/models"
)

// ProjectsHandler exposes the analyzed project list for selection UIs and the
// CLI.
type ProjectsHandler struct {
	DB *gorm.DB
}

func NewProjectsHandler(db *gorm.DB) *ProjectsHandler {
	return &ProjectsHandler{DB: db}
}

type projectSummary struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

// List: GET /projects - every project by rank descending with a short skills
// preview (first five labels, display only).
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	var projects []models.Project
	if err := h.DB.WithContext(r.Context()).Order("rank DESC").Find(&projects).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_projects", nil)
		return
	}
	var skills []models.Skill
	if err := h.DB.WithContext(r.Context()).Order("id ASC").Find(&skills).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_projects", nil)
		return
	}
	byProject := map[string][]string{}
	for _, s := range skills {
		byProject[s.ProjectID] = append(byProject[s.ProjectID], s.Name)
	}

	out := make([]projectSummary, 0, len(projects))
	for _, p := range projects {
		preview := byProject[p.Signature]
		if len(preview) > 5 {
			preview = preview[:5]
		}
		if preview == nil {
			preview = []string{}
		}
		out = append(out, projectSummary{ID: p.Signature, Name: p.Name, Skills: preview})
	}
	httpx.JSON(w, http.StatusOK, out)
}
