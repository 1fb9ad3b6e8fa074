package ui

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/adapters/excel"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/app"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/internal"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/internal/metrics"
)

//go:embed templates/*.html
var embeddedFiles embed.FS

// maxUploadBytes bounds a multipart table upload
const maxUploadBytes = 64 << 20

// App represents the UI application
type App struct {
	router    *chi.Mux
	service   *app.AnalysisService
	reader    *excel.DataReader
	logger    *internal.Logger
	metrics   *metrics.Metrics
	templates *template.Template
	config    Config
	server    *http.Server
}

// Config holds UI application configuration
type Config struct {
	Port string
}

// NewApp creates a new UI application. m may be nil, in which case /metrics is not served.
func NewApp(config Config, service *app.AnalysisService, reader *excel.DataReader,
	logger *internal.Logger, m *metrics.Metrics) (*App, error) {

	funcMap := template.FuncMap{
		"about": renderAbout,
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		service:   service,
		reader:    reader,
		logger:    logger,
		metrics:   m,
		templates: templates,
		config:    config,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.RealIP)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5, "text/html", "text/csv", "application/json"))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)

	a.router.Route("/api", func(r chi.Router) {
		r.Post("/tables", a.handleUploadTables)

		r.Get("/attributes", a.handleAttributes)
		r.Get("/attributes/{name}/levels", a.handleAttributeLevels)

		r.Post("/tests/{family}", a.handleRunTest)
		r.Get("/about/{family}", a.handleAbout)

		r.Get("/results/{key}", a.handleResult)
		r.Get("/results/{key}/csv", a.handleResultCSV)
		r.Get("/results/{key}/volcano.png", a.handleVolcano)
		r.Get("/results/{key}/box/{feature}", a.handleBoxPlot)
		r.Get("/results/{key}/features/{feature}", a.handleFeatureGroups)
	})

	if a.metrics != nil {
		a.router.Method(http.MethodGet, "/metrics", a.metrics.Handler())
	}
}

// Handler exposes the router, for tests and embedding
func (a *App) Handler() http.Handler {
	return a.router
}

// Start starts the HTTP server and blocks until it stops
func (a *App) Start() error {
	a.server = &http.Server{
		Addr:              ":" + a.config.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.logger.Info("Starting FBMN stats server on %s", a.server.Addr)
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (a *App) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// Template helpers
func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		a.logger.Error("Template error: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}
