package server

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "hranalyse/internal/api/v1"
	"hranalyse/internal/benchmark"
	"hranalyse/internal/config"
	"hranalyse/internal/exporter"
	"hranalyse/internal/importer"
	"hranalyse/internal/store"
)

//go:embed all:dist
var staticFiles embed.FS

// Version 服务版本（构建时可用 -ldflags 覆盖）
var Version = "dev"

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	store  *store.Store
	api    *v1.Handler
	logger *zap.Logger
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	if _, err := config.EnsureDataDir(cfg); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	sqliteStore, err := store.New(config.DBPath(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	table, err := benchmark.Load(cfg.Benchmark.Path)
	if err != nil {
		_ = sqliteStore.Close()
		return nil, err
	}

	coordinator := importer.NewCoordinator(importer.Config{
		Logger:     logger.Named("importer"),
		Benchmarks: table,
		Thresholds: cfg.Quality,
		Exporter:   exporter.NewExporter(cfg.ExporterOptions()),
	})
	handler := v1.NewHandler(v1.Options{
		Store:       sqliteStore,
		Coordinator: coordinator,
		Benchmarks:  table,
		Defaults:    store.Settings{RetirementAge: cfg.Analysis.RetirementAge, Region: cfg.Analysis.Region},
		DownloadTTL: cfg.DownloadTTL(),
		MaxUpload:   int64(cfg.Server.MaxUploadMB) << 20,
		Version:     Version,
		Logger:      logger.Named("api"),
	})

	s := &Server{
		router: gin.New(),
		store:  sqliteStore,
		api:    handler,
		logger: logger,
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	if devMode {
		s.router.Use(gin.Logger())
	}
	s.router.MaxMultipartMemory = int64(cfg.Server.MaxUploadMB) << 20
	s.setupRoutes()

	return s, nil
}

// requestLogger 使用 zap 记录请求
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api")
	{
		s.api.RegisterRoutes(api)
	}

	// 上传页面（内嵌）
	sub, _ := fs.Sub(staticFiles, "dist")
	index := func(c *gin.Context) {
		data, err := fs.ReadFile(sub, "index.html")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	}
	s.router.GET("/", index)
	s.router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Nicht gefunden"})
			return
		}
		index(c)
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

// Close 关闭数据库
func (s *Server) Close() error {
	return s.store.Close()
}
