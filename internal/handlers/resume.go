package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/COSC-499-W2025/capstone-project-team-3-sub001/internal/httpx"
	"github.com/COSC-499-W2025/capstone-project-team-3-sub001/internal/latex"
	"github.com/COSC-499-W2025/capstone-project-team-3-sub001/internal/resume"
	"github.com/COSC-499-W2025/capstone-project-team-3-sub001/internal/texcache"
)

// ResumeHandler serves the résumé pipeline: preview models, saved résumés,
// edits, and the .tex/.pdf exports.
type ResumeHandler struct {
	builder *resume.Builder
	store   *resume.Store
	cache   *texcache.Cache
}

func NewResumeHandler(db *gorm.DB, cache *texcache.Cache) *ResumeHandler {
	return &ResumeHandler{
		builder: resume.NewBuilder(db),
		store:   resume.NewStore(db),
		cache:   cache,
	}
}

// projectIDsFromQuery accepts both repeated project_ids params and a single
// comma-separated value.
func projectIDsFromQuery(q url.Values) []string {
	out := []string{}
	for _, v := range q["project_ids"] {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func resumeIDFromPath(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// writeError translates the pipeline error taxonomy to HTTP statuses. Nothing
// below this point leaks raw store errors to the client.
func writeError(w http.ResponseWriter, err error) {
	var compileErr *texcache.CompileError
	switch {
	case errors.Is(err, resume.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, resume.ErrMasterResume):
		httpx.JSONError(w, http.StatusBadRequest, "master_resume_undeletable", nil)
	case errors.Is(err, resume.ErrInvalidPayload):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_payload", err.Error())
	case errors.Is(err, resume.ErrPersistence):
		httpx.JSONError(w, http.StatusConflict, "persistence_conflict", err.Error())
	case errors.Is(err, texcache.ErrTimeout):
		httpx.JSONError(w, http.StatusGatewayTimeout, "compilation_timeout", nil)
	case errors.Is(err, texcache.ErrToolMissing):
		httpx.JSONError(w, http.StatusInternalServerError, "pdflatex_missing", nil)
	case errors.Is(err, texcache.ErrInvalidKey):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_cache_key", nil)
	case errors.As(err, &compileErr):
		httpx.JSONError(w, http.StatusUnprocessableEntity, "compilation_failed", map[string]any{
			"exit_code": compileErr.ExitCode,
			"stdout":    compileErr.Stdout,
			"stderr":    compileErr.Stderr,
		})
	default:
		log.Printf("resume handler error: %v", err)
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

// Preview: GET /resume - JSON document model for the given selection, or for
// every project (master mode) when no selection is supplied.
func (h *ResumeHandler) Preview(w http.ResponseWriter, r *http.Request) {
	model, err := h.builder.BuildModel(r.Context(), projectIDsFromQuery(r.URL.Query()))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, model)
}

// GetSaved: GET /resume/{id} - JSON document model of a saved résumé.
func (h *ResumeHandler) GetSaved(w http.ResponseWriter, r *http.Request) {
	id, ok := resumeIDFromPath(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	model, err := h.store.LoadSavedResume(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, model)
}

// List: GET /resumes
func (h *ResumeHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListResumes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}

// Create: POST /resume - allocate a résumé over a non-empty project selection.
func (h *ResumeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectIDs []string `json:"project_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if len(req.ProjectIDs) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"project_ids": "required"})
		return
	}
	id, err := h.store.CreateResume(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.store.AttachProjects(r.Context(), id, req.ProjectIDs); err != nil {
		// Roll the empty résumé row back so a bad selection leaves no trace.
		if delErr := h.store.DeleteResume(r.Context(), id); delErr != nil {
			log.Printf("cleanup of resume %d failed: %v", id, delErr)
		}
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": id})
}

// Edit: POST /resume/{id}/edit - validate and upsert override rows.
func (h *ResumeHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := resumeIDFromPath(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if err := h.store.SaveEdits(r.Context(), id, body); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"id": id, "status": "saved"})
}

// Delete: DELETE /resume/{id} - refused for the master résumé.
func (h *ResumeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := resumeIDFromPath(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.store.DeleteResume(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// errBadSelector rejects export requests that supply both (or a malformed)
// selector; exactly one of project_ids or resume_id may be present, and
// neither means the full master selection.
var errBadSelector = errors.New("exactly one of project_ids or resume_id")

func (h *ResumeHandler) selectModel(r *http.Request) (*resume.DocumentModel, error) {
	q := r.URL.Query()
	projectIDs := projectIDsFromQuery(q)
	resumeParam := strings.TrimSpace(q.Get("resume_id"))
	if len(projectIDs) > 0 && resumeParam != "" {
		return nil, errBadSelector
	}
	if resumeParam != "" {
		id, err := strconv.ParseUint(resumeParam, 10, 32)
		if err != nil {
			return nil, errBadSelector
		}
		return h.store.LoadSavedResume(r.Context(), uint(id))
	}
	return h.builder.BuildModel(r.Context(), projectIDs)
}

// ExportTex: GET /resume/export/tex
func (h *ResumeHandler) ExportTex(w http.ResponseWriter, r *http.Request) {
	model, err := h.selectModel(r)
	if errors.Is(err, errBadSelector) {
		httpx.JSONError(w, http.StatusBadRequest, "exactly_one_of_project_ids_or_resume_id", nil)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.Attachment(w, "application/x-tex", "resume.tex", []byte(latex.Render(model)))
}

// ExportPDF: GET /resume/export/pdf
func (h *ResumeHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	model, err := h.selectModel(r)
	if errors.Is(err, errBadSelector) {
		httpx.JSONError(w, http.StatusBadRequest, "exactly_one_of_project_ids_or_resume_id", nil)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	pdf, err := h.cache.GetOrCompile(r.Context(), latex.Render(model))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.Attachment(w, "application/pdf", "resume.pdf", pdf)
}
