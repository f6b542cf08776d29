package v1

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hranalyse/internal/service/excel"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ListBenchmarks 区域参考表
// GET /api/benchmarks
func (h *Handler) ListBenchmarks(c *gin.Context) {
	c.JSON(http.StatusOK, h.benchmarks)
}

// DownloadTemplate 下载空白模板
// GET /api/template
func (h *Handler) DownloadTemplate(c *gin.Context) {
	var buf bytes.Buffer
	if _, err := excel.NewTemplateExporter().WriteTo(&buf); err != nil {
		h.logger.Error("failed to build template", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Vorlage konnte nicht erstellt werden"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, excel.TemplateFileName))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
