package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hranalyse/internal/calculator"
	"hranalyse/internal/store"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Service          string             `json:"service"`
	Version          string             `json:"version"`
	Regions          []string           `json:"regions"`
	MinRetirementAge int                `json:"minRetirementAge"`
	MaxRetirementAge int                `json:"maxRetirementAge"`
	Defaults         store.Settings     `json:"defaults"`
	LastRun          *store.AnalysisRun `json:"lastRun,omitempty"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{
		Service:          "hranalyse",
		Version:          h.version,
		Regions:          h.benchmarks.Names(),
		MinRetirementAge: calculator.MinRetirementAge,
		MaxRetirementAge: calculator.MaxRetirementAge,
		Defaults:         h.settings(),
	}
	if h.store != nil {
		runs, err := h.store.RecentRuns(1)
		if err != nil {
			h.logger.Warn("failed to load last run", zap.Error(err))
		} else if len(runs) > 0 {
			resp.LastRun = &runs[0]
		}
	}
	c.JSON(http.StatusOK, resp)
}

// ListRuns 最近的分析记录
// GET /api/runs
func (h *Handler) ListRuns(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusOK, []store.AnalysisRun{})
		return
	}
	runs, err := h.store.RecentRuns(20)
	if err != nil {
		h.logger.Error("failed to list runs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verlauf konnte nicht geladen werden"})
		return
	}
	c.JSON(http.StatusOK, runs)
}
