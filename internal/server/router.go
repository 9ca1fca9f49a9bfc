package server

import (
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/COSC-499-W2025/capstone-project-team-3-sub001/internal/handlers"
	"github.com/COSC-499-W2025/capstone-project-team-3-sub001/internal/httpx"
	"github.com/COSC-499-W2025/capstone-project-team-3-sub001/internal/texcache"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, cache *texcache.Cache) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		// Lightweight DB check; detailed errors stay out of the body.
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	rh := handlers.NewResumeHandler(db, cache)
	mux.HandleFunc("GET /resume", rh.Preview)
	mux.HandleFunc("POST /resume", rh.Create)
	mux.HandleFunc("GET /resumes", rh.List)
	mux.HandleFunc("GET /resume/view", rh.ViewPage)
	mux.HandleFunc("GET /resume/export/tex", rh.ExportTex)
	mux.HandleFunc("GET /resume/export/pdf", rh.ExportPDF)
	mux.HandleFunc("GET /resume/{id}", rh.GetSaved)
	mux.HandleFunc("POST /resume/{id}/edit", rh.Edit)
	mux.HandleFunc("DELETE /resume/{id}", rh.Delete)

	ph := handlers.NewProjectsHandler(db)
	mux.HandleFunc("GET /projects", ph.List)

	prefs := handlers.NewPreferencesHandler(db)
	mux.HandleFunc("GET /user-preferences", prefs.Get)
	mux.HandleFunc("POST /user-preferences", prefs.Save)

	return withRecover(withLogging(mux))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
