package server

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"intellisheet/internal/api"
	"intellisheet/internal/config"
	"intellisheet/internal/normalizer"
	"intellisheet/internal/store"
)

//go:embed web
var staticFiles embed.FS

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	api    *api.Handler
}

// NewServer 创建服务器；store 由调用方打开并负责关闭
func NewServer(cfg *config.AppConfig, st *store.Store, log zerolog.Logger) (*Server, error) {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare data directory: %w", err)
	}

	handler := api.NewHandler(api.Options{
		Store:      st,
		Normalizer: normalizer.New(cfg.VocabularyOrDefault()),
		ParseOpts:  cfg.ParserOptions(),
		UploadDir:  config.GetDataPath(cfg, "uploads", ""),
		Logger:     log.With().Str("scope", "api").Logger(),
	})

	router := gin.New()
	router.Use(gin.Recovery(), accessLog(log, time.Second))

	s := &Server{
		router: router,
		api:    handler,
	}
	s.setupRoutes()

	log.Info().Str("data_dir", dataDir).Str("db", st.Path()).Msg("server ready")
	return s, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}

	// 内置的只读报表页
	sub, _ := fs.Sub(staticFiles, "web")
	s.router.GET("/", func(c *gin.Context) {
		data, err := fs.ReadFile(sub, "index.html")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	})
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

// Handler 返回 http.Handler（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// accessLog 记录方法、路径、状态码、耗时；慢请求提升为 warn
func accessLog(log zerolog.Logger, slow time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		evt := log.Debug()
		if slow > 0 && elapsed >= slow {
			evt = log.Warn()
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			evt = log.Error()
		}
		evt.Int("status", c.Writer.Status()).
			Dur("elapsed", elapsed).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("bytes", c.Writer.Size()).
			Msg("request done")
	}
}
