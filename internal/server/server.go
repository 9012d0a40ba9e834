// Package server exposes the report pipeline over HTTP: a small
// upload form for humans and JSON endpoints for tooling. All report
// state is request-scoped; the only shared state is the read-through
// dictionary cache.
package server

import (
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tsereda/declarant/internal/cache"
	"github.com/tsereda/declarant/internal/dictionary"
	"github.com/tsereda/declarant/internal/model"
	"github.com/tsereda/declarant/internal/pipeline"
	"github.com/tsereda/declarant/internal/rules"
	"github.com/tsereda/declarant/internal/worker"
)

const formHTML = `<!doctype html>
<title>PFAS Reporter</title>
<h1>PFAS Reporting</h1>
<form method="post" enctype="multipart/form-data">
  <label>Supplier CSV: <input type="file" name="csv" required></label><br>
  <label>PFAS Dictionary (optional): <input type="file" name="pfas_dict"></label><br>
  <input type="submit" value="Generate Report">
</form>
`

// Server wires the pipeline, ruleset and middleware into a gin engine.
type Server struct {
	config    *model.Config
	pipeline  *pipeline.Pipeline
	ruleset   rules.RuleSet
	dictCache cache.Cache
	limiter   *worker.KeyedLimiter
	logger    *slog.Logger
	engine    *gin.Engine
}

// New creates a server. A nil ruleset falls back to the built-in
// tables; a nil logger discards nothing and defaults to slog.Default.
func New(cfg *model.Config, ruleset rules.RuleSet, logger *slog.Logger) *Server {
	if ruleset == nil {
		ruleset = rules.DefaultRuleSet()
	}
	if logger == nil {
		logger = slog.Default()
	}

	var dictCache cache.Cache
	if cfg.Cache.Enabled {
		dictCache = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}

	s := &Server{
		config:    cfg,
		pipeline:  pipeline.NewPipeline(cfg),
		ruleset:   ruleset,
		dictCache: dictCache,
		limiter:   worker.NewKeyedLimiter(cfg.Server.RequestsPerSecond, cfg.Server.BurstSize),
		logger:    logger,
	}
	s.engine = s.buildEngine()
	return s
}

func (s *Server) buildEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), s.logRequests(), s.rateLimit())
	engine.MaxMultipartMemory = s.config.Server.MaxUploadBytes
	engine.SetHTMLTemplate(template.Must(template.New("form").Parse(formHTML)))

	engine.GET("/", s.handleForm)
	engine.POST("/", s.handleReport)
	engine.POST("/api/report", s.handleReport)
	engine.POST("/api/profile", s.handleProfile)
	engine.GET("/healthz", s.handleHealth)

	return engine
}

// Handler returns the underlying HTTP handler, for tests and custom servers.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the server on the configured address and blocks.
func (s *Server) Run() error {
	s.logger.Info("listening", "addr", s.config.Server.Addr)
	srv := &http.Server{
		Addr:              s.config.Server.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client", c.ClientIP(),
		)
	}
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func (s *Server) handleForm(c *gin.Context) {
	c.HTML(http.StatusOK, "form", nil)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleReport accepts a multipart upload with a required "csv" part
// and an optional "pfas_dict" part and responds with the report
// document.
func (s *Server) handleReport(c *gin.Context) {
	csvFile, err := c.FormFile("csv")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV file is required"})
		return
	}

	csvText, err := readUpload(csvFile)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("read csv: %v", err)})
		return
	}

	declarations, err := pipeline.DecodeDeclarationsText(csvText)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("decode csv: %v", err)})
		return
	}

	var dict *dictionary.Dictionary
	if dictFile, err := c.FormFile("pfas_dict"); err == nil {
		dictText, err := readUpload(dictFile)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("read dictionary: %v", err)})
			return
		}
		dict = s.loadDictionary(dictText)
	}

	result, err := s.pipeline.Run(c.Request.Context(), declarations, dict)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.logger.Info("report generated",
		"suppliers", result.Report.Summary.SupplierCount,
		"promoted", result.Promoted,
	)
	c.JSON(http.StatusOK, result.Report)
}

// handleProfile analyzes an organization profile against the ruleset.
func (s *Server) handleProfile(c *gin.Context) {
	var profile rules.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("decode profile: %v", err)})
		return
	}
	c.JSON(http.StatusOK, s.ruleset.Analyze(profile))
}

// loadDictionary parses uploaded dictionary text, consulting the
// content-hash cache so repeated uploads of the same file skip
// re-parsing.
func (s *Server) loadDictionary(text string) *dictionary.Dictionary {
	if s.dictCache == nil {
		return dictionary.New(strings.Split(text, "\n"))
	}

	key := cache.ContentKey([]byte(text))
	if cached, ok := s.dictCache.Get(key); ok {
		if dict, ok := cached.(*dictionary.Dictionary); ok {
			return dict
		}
	}

	dict := dictionary.New(strings.Split(text, "\n"))
	_ = s.dictCache.Set(key, dict, s.config.Cache.TTL)
	return dict
}

func readUpload(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	return string(data), nil
}
