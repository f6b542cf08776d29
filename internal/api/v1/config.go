package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hranalyse/internal/calculator"
	"hranalyse/internal/importer"
	"hranalyse/internal/store"
)

// UpdateConfigRequest 部分更新默认参数
type UpdateConfigRequest struct {
	RetirementAge *int    `json:"retirementAge"`
	Region        *string `json:"region"`
}

// settings 当前默认参数：已保存的值优先于配置文件
func (h *Handler) settings() store.Settings {
	if h.store == nil {
		return h.defaults
	}
	s, err := h.store.GetSettings(h.defaults)
	if err != nil {
		h.logger.Warn("failed to load saved settings", zap.Error(err))
		return h.defaults
	}
	return s
}

// validateSettings 校验退休年龄与区域；空区域替换为默认区域
func (h *Handler) validateSettings(s store.Settings) (store.Settings, error) {
	if err := calculator.ValidateRetirementAge(s.RetirementAge); err != nil {
		return s, err
	}
	ref, err := h.benchmarks.Lookup(s.Region)
	if err != nil {
		return s, err
	}
	s.Region = ref.Region
	return s, nil
}

// GetConfig 获取默认参数
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings())
}

// UpdateConfig 更新默认参数
// PATCH /api/config
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Anfrage"})
		return
	}

	next := h.settings()
	if req.RetirementAge != nil {
		next.RetirementAge = *req.RetirementAge
	}
	if req.Region != nil {
		next.Region = *req.Region
	}
	next, err := h.validateSettings(next)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": importer.UserMessage(err)})
		return
	}

	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Einstellungen können nicht gespeichert werden"})
		return
	}
	if err := h.store.SaveSettings(next); err != nil {
		h.logger.Error("failed to save settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Einstellungen konnten nicht gespeichert werden"})
		return
	}
	c.JSON(http.StatusOK, next)
}
