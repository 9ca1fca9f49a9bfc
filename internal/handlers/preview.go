package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/COSC-499-W2025/capstone-project-team-3-sub001/internal/httpx"
	"github.com/COSC-499-W2025/capstone-project-team-3-sub001/internal/latex"
)

// ViewPage: GET /resume/view - a small HTML page with download links and the
// generated LaTeX source, accepting the same selector as the exports.

var previewTemplate = template.Must(template.New("preview").Parse(`<html>
<body style="font-family: system-ui, -apple-system, Segoe UI, Roboto, Helvetica, Arial, sans-serif;">
	<h2>Resume Export</h2>
	<p>Download your LaTeX/PDF resume:</p>
	<p><a href="/resume/export/tex">Download resume.tex</a></p>
	<p><a href="/resume/export/pdf">Download resume.pdf</a></p>
	<h3>Preview (LaTeX)</h3>
	<pre style="white-space: pre-wrap; border:1px solid #ddd; padding:10px; max-height: 50vh; overflow:auto; background:#fafafa;">{{.Tex}}</pre>
</body>
</html>
`))

func (h *ResumeHandler) ViewPage(w http.ResponseWriter, r *http.Request) {
	model, err := h.selectModel(r)
	if errors.Is(err, errBadSelector) {
		httpx.JSONError(w, http.StatusBadRequest, "exactly_one_of_project_ids_or_resume_id", nil)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := previewTemplate.Execute(w, map[string]string{"Tex": latex.Render(model)}); err != nil {
		log.Printf("render preview page: %v", err)
	}
}
