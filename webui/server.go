package webui

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rawprouk/scrape/casestudy"
	"github.com/rawprouk/scrape/config"
	"github.com/rawprouk/scrape/discovery"
)

//go:embed templates/*.html
var templateFS embed.FS

// Scraper runs one complete scrape.
type Scraper interface {
	ScrapeAll(ctx context.Context, maxPages int, reporter discovery.Reporter) ([]casestudy.CaseStudy, error)
}

// Server is the browser front end: a page-count control and a start button,
// a live status feed while the scrape runs, and a results table with a CSV
// download.
type Server struct {
	scraper Scraper
	runs    *runStore
	config  *config.Config
	logger  *log.Logger
}

// NewServer creates a server around scraper. A nil logger uses the package
// default.
func NewServer(scraper Scraper, cfg *config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	return &Server{
		scraper: scraper,
		runs:    newRunStore(cfg.Server.KeepRuns),
		config:  cfg,
		logger:  logger,
	}
}

// SetupRouter configures the Gin router with the UI and API routes.
func (s *Server) SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(s.logger))

	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	router.GET("/", s.HandleIndex)
	router.GET("/healthz", s.HandleHealth)
	router.GET("/runs/:id", s.HandleShowRun)
	router.GET("/runs/:id/csv", s.HandleDownloadCSV)

	api := router.Group("/api/v1")
	api.GET("/scrape", scrapeRateLimit(s.config.Server.RateLimit), s.HandleScrape)
	api.GET("/runs/:id", s.HandleGetRun)

	return router
}

// requestLogger logs one line per request.
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client", c.ClientIP(),
		)
	}
}

// errorResponse creates a standardized error response.
func errorResponse(code, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

// DoneEvent is the final stream event of a successful run.
type DoneEvent struct {
	RunID string `json:"run_id,omitempty"`
	Count int    `json:"count"`
}

// FailedEvent is the final stream event of an aborted run.
type FailedEvent struct {
	Message string `json:"message"`
}

// parsePages reads the page count, falling back to the configured default.
func (s *Server) parsePages(raw string) (int, error) {
	if raw == "" {
		return s.config.Scrape.DefaultPages, nil
	}

	pages, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("pages must be a whole number")
	}
	if pages < 1 || pages > s.config.Scrape.MaxPages {
		return 0, fmt.Errorf("pages must be between 1 and %d", s.config.Scrape.MaxPages)
	}
	return pages, nil
}

// HandleIndex handles GET /.
func (s *Server) HandleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"DefaultPages": s.config.Scrape.DefaultPages,
		"MaxPages":     s.config.Scrape.MaxPages,
		"Origin":       s.config.Site.Origin,
	})
}

// HandleHealth handles GET /healthz.
func (s *Server) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleScrape handles GET /api/v1/scrape?pages=N. The scrape runs inside
// the request and its status is streamed as server-sent events: progress,
// entry and warning while running, then exactly one of done or failed.
func (s *Server) HandleScrape(c *gin.Context) {
	pages, err := s.parsePages(c.Query("pages"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	reporter := discovery.ReporterFunc(func(e discovery.Event) {
		c.SSEvent(string(e.Kind), e)
		c.Writer.Flush()
	})

	s.logger.Info("Scrape started", "pages", pages, "client", c.ClientIP())

	studies, err := s.scraper.ScrapeAll(c.Request.Context(), pages, reporter)
	if err != nil {
		s.logger.Error("Scrape failed", "pages", pages, "err", err)
		c.SSEvent("failed", FailedEvent{Message: err.Error()})
		c.Writer.Flush()
		return
	}

	done := DoneEvent{Count: len(studies)}
	if len(studies) > 0 {
		run := s.runs.add(pages, studies)
		done.RunID = run.ID.String()
	}

	s.logger.Info("Scrape finished", "pages", pages, "count", done.Count, "run", done.RunID)

	c.SSEvent("done", done)
	c.Writer.Flush()
}

// lookupRun resolves the :id parameter.
func (s *Server) lookupRun(c *gin.Context) (*Run, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, ErrRunNotFound
	}
	return s.runs.get(id)
}

// tableRow is one rendered result row.
type tableRow struct {
	Title    string
	Summary  string
	URL      string
	FullText string
}

// HandleShowRun handles GET /runs/:id.
func (s *Server) HandleShowRun(c *gin.Context) {
	run, err := s.lookupRun(c)
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{
			"Message": "That result set is no longer available. Start a new scrape.",
		})
		return
	}

	rows := make([]tableRow, 0, len(run.Studies))
	for _, study := range run.Studies {
		rows = append(rows, tableRow{
			Title:    casestudy.Deref(study.Title),
			Summary:  casestudy.Deref(study.Summary),
			URL:      casestudy.Deref(study.URL),
			FullText: study.FullText,
		})
	}

	c.HTML(http.StatusOK, "results.html", gin.H{
		"Count":    len(run.Studies),
		"Pages":    run.Pages,
		"Columns":  casestudy.Columns,
		"Rows":     rows,
		"CSVPath":  "/runs/" + run.ID.String() + "/csv",
		"Filename": casestudy.Filename,
	})
}

// HandleDownloadCSV handles GET /runs/:id/csv.
func (s *Server) HandleDownloadCSV(c *gin.Context) {
	run, err := s.lookupRun(c)
	if err != nil {
		c.JSON(http.StatusNotFound, errorResponse("not_found", err.Error()))
		return
	}

	data, err := casestudy.MarshalCSV(run.Studies)
	if err != nil {
		s.logger.Error("Failed to encode CSV", "run", run.ID, "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to encode CSV"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", casestudy.Filename))
	c.Data(http.StatusOK, casestudy.ContentType, data)
}

// HandleGetRun handles GET /api/v1/runs/:id.
func (s *Server) HandleGetRun(c *gin.Context) {
	run, err := s.lookupRun(c)
	if errors.Is(err, ErrRunNotFound) {
		c.JSON(http.StatusNotFound, errorResponse("not_found", err.Error()))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to load run"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":       run.ID,
		"created_at":   run.CreatedAt,
		"pages":        run.Pages,
		"count":        len(run.Studies),
		"case_studies": run.Studies,
	})
}
