// Package api exposes the enrichment pipeline over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/brieflynews/insights/internal/article"
	"github.com/brieflynews/insights/internal/metrics"
	"github.com/brieflynews/insights/internal/pipeline"
	"github.com/brieflynews/insights/internal/wordcloud"
)

type Server struct {
	pipeline  *pipeline.Pipeline
	wordcloud *wordcloud.Renderer // nil when no font is configured
	addr      string
	srv       *http.Server
}

func NewServer(p *pipeline.Pipeline, wc *wordcloud.Renderer, addr string) *Server {
	return &Server{pipeline: p, wordcloud: wc, addr: addr}
}

func (s *Server) router() *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", s.handleHealth)
	router.GET("/metrics", s.handleMetrics)

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/news/search", s.handleSearch)
		apiGroup.POST("/analysis/keywords", s.handleKeywords)
		apiGroup.POST("/analysis/articles/keywords", s.handleArticleKeywords)
		apiGroup.POST("/analysis/wordcloud", s.handleWordcloud)
		apiGroup.GET("/wordcloud/:file", s.handleWordcloudFile)
	}

	return router
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM, then
// shuts down gracefully.
func (s *Server) Run() error {
	s.srv = &http.Server{
		Addr:    s.addr,
		Handler: s.router(),
	}

	go func() {
		slog.Info("starting HTTP server", "addr", s.addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": data})
}

func fail(c *gin.Context, code int, detail string) {
	c.JSON(code, gin.H{"status": "error", "detail": detail})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "briefly",
		"healthy": metrics.Global.GetStats()["is_healthy"],
	})
}

func (s *Server) handleMetrics(c *gin.Context) {
	success(c, metrics.Global.GetStats())
}

func (s *Server) handleSearch(c *gin.Context) {
	req := pipeline.SearchRequest{
		Keyword:     c.Query("keyword"),
		Country:     c.Query("country"),
		TranslateTo: c.Query("translate_to"),
		From:        c.Query("from"),
		To:          c.Query("to"),
		SummaryMode: c.Query("summary"),
	}
	if v := c.Query("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			fail(c, http.StatusBadRequest, "page_size must be a positive integer")
			return
		}
		req.PageSize = n
	}
	if v := c.Query("max_sentences"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			req.MaxSentences = n
		}
	}

	resp, err := s.pipeline.SearchAndEnrich(c.Request.Context(), req)
	if err != nil {
		fail(c, http.StatusInternalServerError, "news search failed")
		return
	}
	success(c, resp)
}

type keywordsRequest struct {
	Texts     []string `json:"texts"`
	TopN      int      `json:"top_n"`
	MinLength int      `json:"min_length"`
}

func (s *Server) handleKeywords(c *gin.Context) {
	var req keywordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Texts) == 0 {
		fail(c, http.StatusBadRequest, "texts must not be empty")
		return
	}
	if req.TopN <= 0 {
		req.TopN = 20
	}
	if req.MinLength <= 0 {
		req.MinLength = 2
	}
	success(c, s.pipeline.ExtractKeywords(req.Texts, req.TopN, req.MinLength))
}

type articleKeywordsRequest struct {
	Articles []article.Article `json:"articles"`
	TopN     int               `json:"top_n"`
}

func (s *Server) handleArticleKeywords(c *gin.Context) {
	var req articleKeywordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TopN <= 0 {
		req.TopN = 20
	}
	success(c, s.pipeline.ExtractArticleKeywords(req.Articles, req.TopN))
}

func (s *Server) handleWordcloud(c *gin.Context) {
	if s.wordcloud == nil {
		fail(c, http.StatusServiceUnavailable, "wordcloud rendering is not configured")
		return
	}

	var req articleKeywordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Articles) == 0 {
		fail(c, http.StatusBadRequest, "articles must not be empty")
		return
	}
	if req.TopN <= 0 {
		req.TopN = 50
	}

	result := s.pipeline.ExtractArticleKeywords(req.Articles, req.TopN)
	if len(result.Keywords) == 0 {
		fail(c, http.StatusUnprocessableEntity, "no keywords to render")
		return
	}

	freqs := make(map[string]int, len(result.Keywords))
	for _, kc := range result.Keywords {
		freqs[kc.Word] = kc.Count
	}

	url, err := s.wordcloud.Render(freqs)
	if err != nil {
		slog.Error("wordcloud render failed", "error", err)
		fail(c, http.StatusInternalServerError, "wordcloud rendering failed")
		return
	}
	success(c, gin.H{"url": url, "keywords": result.Keywords})
}

func (s *Server) handleWordcloudFile(c *gin.Context) {
	if s.wordcloud == nil {
		fail(c, http.StatusServiceUnavailable, "wordcloud rendering is not configured")
		return
	}
	path, err := s.wordcloud.FilePath(c.Param("file"))
	if err != nil {
		fail(c, http.StatusNotFound, "file not found")
		return
	}
	c.File(path)
}
