package v1

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"hranalyse/internal/exporter"
	"hranalyse/internal/importer"
	"hranalyse/internal/model"
	"hranalyse/internal/parser"
	"hranalyse/internal/store"
)

// requestError 请求参数错误（消息直接返回给用户）
type requestError string

func (e requestError) Error() string { return string(e) }

type analyzeRequest struct {
	fileName string
	data     []byte
	params   store.Settings
}

// AnalyzeResponse 同步分析响应
type AnalyzeResponse struct {
	Report      *model.Report         `json:"report"`
	Columns     []parser.FieldMapping `json:"columns"`
	Unmapped    []string              `json:"unmapped"`
	DownloadURL string                `json:"downloadUrl"`
}

// AnalyzeSummary SSE 完成事件的摘要
type AnalyzeSummary struct {
	ReportID     string            `json:"reportId"`
	FileName     string            `json:"fileName"`
	RowCount     int               `json:"rowCount"`
	Parameters   model.Parameters  `json:"parameters"`
	KPIs         model.KPIs        `json:"kpis"`
	QualityScore float64           `json:"qualityScore"`
	QualityBand  model.QualityBand `json:"qualityBand"`
	Charts       []string          `json:"charts"`
	Unmapped     []string          `json:"unmapped"`
	DownloadURL  string            `json:"downloadUrl"`
}

// readRequest 读取上传文件与参数；缺省参数取已保存的默认值
func (h *Handler) readRequest(c *gin.Context) (analyzeRequest, error) {
	var req analyzeRequest

	fh, err := c.FormFile("file")
	if err != nil {
		return req, requestError("❌ Keine Datei hochgeladen.")
	}
	if fh.Size > h.maxUpload {
		return req, requestError(fmt.Sprintf("❌ Die Datei ist zu groß (maximal %d MB).", h.maxUpload>>20))
	}
	f, err := fh.Open()
	if err != nil {
		return req, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.maxUpload+1))
	if err != nil {
		return req, fmt.Errorf("failed to read upload: %w", err)
	}

	params := h.settings()
	if v := strings.TrimSpace(c.PostForm("retirementAge")); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil {
			return req, requestError("❌ Das Renteneintrittsalter muss eine ganze Zahl sein.")
		}
		params.RetirementAge = age
	}
	if v := strings.TrimSpace(c.PostForm("region")); v != "" {
		params.Region = v
	}

	req.fileName = fh.Filename
	req.data = data
	req.params = params
	return req, nil
}

func (h *Handler) coordinatorOptions(req analyzeRequest) importer.Options {
	return importer.Options{
		FileName:      req.fileName,
		Reader:        bytes.NewReader(req.data),
		RetirementAge: req.params.RetirementAge,
		Region:        req.params.Region,
	}
}

// writeRequestError 请求错误返回 400，其余返回 500
func writeRequestError(c *gin.Context, err error) {
	if re, ok := err.(requestError); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": string(re)})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": importer.UserMessage(err)})
}

// Analyze 上传并分析（同步返回完整结果）
// POST /api/analyze
func (h *Handler) Analyze(c *gin.Context) {
	req, err := h.readRequest(c)
	if err != nil {
		writeRequestError(c, err)
		return
	}

	runID := h.startRun(req)
	res, err := h.coordinator.Analyze(c.Request.Context(), h.coordinatorOptions(req))
	if err != nil {
		msg := importer.UserMessage(err)
		h.failRun(runID, msg)
		status := http.StatusInternalServerError
		if importer.IsUserError(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}

	downloadURL := h.publish(c, res)
	h.finishRun(runID, res.Report)
	writeJSON(c, http.StatusOK, AnalyzeResponse{
		Report:      res.Report,
		Columns:     res.Resolution.Mappings,
		Unmapped:    res.Resolution.Unmapped,
		DownloadURL: downloadURL,
	})
}

// AnalyzeStream 上传并分析（SSE 进度 + 完成后提供下载地址）
// POST /api/analyze/stream
func (h *Handler) AnalyzeStream(c *gin.Context) {
	req, err := h.readRequest(c)
	if err != nil {
		writeRequestError(c, err)
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming wird nicht unterstützt"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	send := func(event importer.ProgressEvent) {
		b, err := json.Marshal(event)
		if err != nil {
			h.logger.Warn("failed to encode progress event", zap.Error(err))
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}

	runID := h.startRun(req)
	for event := range h.coordinator.Run(c.Request.Context(), h.coordinatorOptions(req)) {
		switch event.Type {
		case importer.EventDone:
			res, ok := event.Data.(*importer.Result)
			if !ok {
				continue
			}
			downloadURL := h.publish(c, res)
			h.finishRun(runID, res.Report)
			event.Data = summarize(res, downloadURL)
		case importer.EventError:
			h.failRun(runID, event.Message)
		}
		send(event)
	}
}

// publish 登记 ZIP 下载，返回下载地址
func (h *Handler) publish(c *gin.Context, res *importer.Result) string {
	if len(res.Bundle) == 0 {
		return ""
	}
	token := h.downloads.put(res.Bundle, exporter.BundleFileName, res.Report.ID, h.downloadTTL)
	prefix := strings.TrimSuffix(c.FullPath(), "/analyze/stream")
	prefix = strings.TrimSuffix(prefix, "/analyze")
	return fmt.Sprintf("%s/export/download/%s", prefix, token)
}

func summarize(res *importer.Result, downloadURL string) AnalyzeSummary {
	r := res.Report
	ids := make([]string, len(r.Charts))
	for i, ch := range r.Charts {
		ids[i] = ch.ID
	}
	return AnalyzeSummary{
		ReportID:     r.ID,
		FileName:     r.FileName,
		RowCount:     r.RowCount,
		Parameters:   r.Parameters,
		KPIs:         r.KPIs,
		QualityScore: r.Quality.Score,
		QualityBand:  r.Quality.Band,
		Charts:       ids,
		Unmapped:     res.Resolution.Unmapped,
		DownloadURL:  downloadURL,
	}
}

// DownloadExport 下载结果包（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token fehlt"})
		return
	}

	item, ok := h.downloads.take(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Der Download-Link ist abgelaufen"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, item.fileName))
	c.Data(http.StatusOK, "application/zip", item.data)
}

func (h *Handler) startRun(req analyzeRequest) int64 {
	if h.store == nil {
		return 0
	}
	id, err := h.store.CreateRun(req.fileName, req.params.RetirementAge, req.params.Region)
	if err != nil {
		h.logger.Warn("failed to record run", zap.Error(err))
		return 0
	}
	return id
}

func (h *Handler) finishRun(id int64, r *model.Report) {
	if h.store == nil || id == 0 {
		return
	}
	if err := h.store.FinishRun(id, r.ID, r.RowCount, len(r.Charts), r.Quality.Score); err != nil {
		h.logger.Warn("failed to finish run", zap.Int64("run_id", id), zap.Error(err))
	}
}

func (h *Handler) failRun(id int64, message string) {
	if h.store == nil || id == 0 {
		return
	}
	if err := h.store.FailRun(id, message); err != nil {
		h.logger.Warn("failed to record run failure", zap.Int64("run_id", id), zap.Error(err))
	}
}
