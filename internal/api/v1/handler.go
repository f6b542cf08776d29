package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"hranalyse/internal/benchmark"
	"hranalyse/internal/importer"
	"hranalyse/internal/store"
)

// Options 处理器依赖
type Options struct {
	Store       *store.Store // 可为 nil：不保存设置与运行记录
	Coordinator *importer.Coordinator
	Benchmarks  *benchmark.Table
	Defaults    store.Settings
	DownloadTTL time.Duration
	MaxUpload   int64
	Version     string
	Logger      *zap.Logger
}

// Handler API 处理器
type Handler struct {
	store       *store.Store
	coordinator *importer.Coordinator
	benchmarks  *benchmark.Table
	defaults    store.Settings
	downloadTTL time.Duration
	maxUpload   int64
	version     string
	logger      *zap.Logger
	downloads   *exportDownloadStore
}

// NewHandler 创建 API 处理器
func NewHandler(opts Options) *Handler {
	h := &Handler{
		store:       opts.Store,
		coordinator: opts.Coordinator,
		benchmarks:  opts.Benchmarks,
		defaults:    opts.Defaults,
		downloadTTL: opts.DownloadTTL,
		maxUpload:   opts.MaxUpload,
		version:     opts.Version,
		logger:      opts.Logger,
		downloads:   newExportDownloadStore(),
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	if h.benchmarks == nil {
		h.benchmarks = benchmark.Default()
	}
	if h.coordinator == nil {
		h.coordinator = importer.NewCoordinator(importer.Config{Logger: h.logger, Benchmarks: h.benchmarks})
	}
	if h.downloadTTL <= 0 {
		h.downloadTTL = 10 * time.Minute
	}
	if h.maxUpload <= 0 {
		h.maxUpload = 32 << 20
	}
	if h.defaults.Region == "" {
		h.defaults.Region = h.benchmarks.Default
	}
	return h
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 默认参数
	router.GET("/config", h.GetConfig)
	router.PATCH("/config", h.UpdateConfig)

	// 参考数据与模板
	router.GET("/benchmarks", h.ListBenchmarks)
	router.GET("/template", h.DownloadTemplate)

	// 分析
	router.POST("/analyze", h.Analyze)
	router.POST("/analyze/stream", h.AnalyzeStream)
	router.GET("/runs", h.ListRuns)

	// 结果下载
	router.GET("/export/download/:token", h.DownloadExport)
}

// writeJSON 使用 go-json 编码较大的响应体
func writeJSON(c *gin.Context, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Antwort konnte nicht erstellt werden"})
		return
	}
	c.Data(status, "application/json; charset=utf-8", b)
}
