package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"hranalyse/internal/benchmark"
	"hranalyse/internal/calculator"
	"hranalyse/internal/exporter"
	"hranalyse/internal/model"
	"hranalyse/internal/parser"
	"hranalyse/internal/service/excel"
)

// 进度事件类型
const (
	EventStart = "start"
	EventInfo  = "info"
	EventStage = "stage"
	EventDone  = "done"
	EventError = "error"
)

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`      // start/info/stage/done/error
	Message   string      `json:"message"`   // 事件消息
	Data      interface{} `json:"data"`      // 附加数据
	Timestamp time.Time   `json:"timestamp"` // 时间戳
}

// ErrInternal 分析过程中出现 panic
var ErrInternal = errors.New("internal analysis error")

// Config 协调器依赖
type Config struct {
	Logger     *zap.Logger
	Benchmarks *benchmark.Table
	Thresholds calculator.Thresholds
	Exporter   *exporter.Exporter
	Mapper     *parser.FieldMapper
	Now        func() time.Time
}

// Coordinator 分析协调器：读取 → 识别列 → 派生 → 分析 → 打包
type Coordinator struct {
	logger     *zap.Logger
	benchmarks *benchmark.Table
	thresholds calculator.Thresholds
	exporter   *exporter.Exporter
	mapper     *parser.FieldMapper
	now        func() time.Time
}

// NewCoordinator 创建分析协调器
func NewCoordinator(cfg Config) *Coordinator {
	c := &Coordinator{
		logger:     cfg.Logger,
		benchmarks: cfg.Benchmarks,
		thresholds: cfg.Thresholds,
		exporter:   cfg.Exporter,
		mapper:     cfg.Mapper,
		now:        cfg.Now,
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.benchmarks == nil {
		c.benchmarks = benchmark.Default()
	}
	if c.thresholds == (calculator.Thresholds{}) {
		c.thresholds = calculator.DefaultThresholds()
	}
	if c.exporter == nil {
		c.exporter = exporter.NewExporter(exporter.Options{})
	}
	if c.mapper == nil {
		c.mapper = parser.NewFieldMapper(nil)
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Options 单次分析参数
type Options struct {
	FileName      string
	Reader        io.Reader
	RetirementAge int
	Region        string
	// SkipBundle 为 true 时不生成 ZIP
	SkipBundle bool
}

// Result 分析结果
type Result struct {
	Report     *model.Report     `json:"report"`
	Resolution parser.Resolution `json:"resolution"`
	Bundle     []byte            `json:"-"`
}

// Run 异步执行分析，返回进度通道；结束后通道关闭
func (c *Coordinator) Run(ctx context.Context, opts Options) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		emit := func(ev ProgressEvent) { c.sendProgress(ctx, progressChan, ev) }
		res, err := c.safeRun(ctx, opts, emit)
		if err != nil {
			emit(ProgressEvent{Type: EventError, Message: UserMessage(err), Timestamp: time.Now()})
			return
		}
		emit(ProgressEvent{
			Type:      EventDone,
			Message:   "🎉 Fertig! Ihre Analyse ist abgeschlossen.",
			Data:      res,
			Timestamp: time.Now(),
		})
	}()

	return progressChan
}

// Analyze 同步执行分析
func (c *Coordinator) Analyze(ctx context.Context, opts Options) (*Result, error) {
	return c.safeRun(ctx, opts, nil)
}

// safeRun 执行分析，panic 记录堆栈后转为 ErrInternal
func (c *Coordinator) safeRun(ctx context.Context, opts Options, emit func(ProgressEvent)) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("analysis panicked",
				zap.String("file", filepath.Base(opts.FileName)),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			res, err = nil, fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()
	return c.run(ctx, opts, emit)
}

func (c *Coordinator) run(ctx context.Context, opts Options, emit func(ProgressEvent)) (*Result, error) {
	if emit == nil {
		emit = func(ProgressEvent) {}
	}
	started := c.now()
	name := filepath.Base(opts.FileName)
	log := c.logger.With(zap.String("file", name))

	engine, err := calculator.NewEngine(calculator.Options{
		RetirementAge: opts.RetirementAge,
		Region:        opts.Region,
		Now:           c.now,
		Thresholds:    &c.thresholds,
		Benchmarks:    c.benchmarks,
	})
	if err != nil {
		log.Warn("invalid analysis parameters", zap.Error(err))
		return nil, err
	}

	emit(ProgressEvent{
		Type:      EventStart,
		Message:   "Analyse gestartet",
		Data:      map[string]string{"filename": name},
		Timestamp: time.Now(),
	})

	// 读取
	p := excel.NewParserWithMapper(c.mapper)
	if err := p.LoadFile(opts.FileName, opts.Reader); err != nil {
		log.Warn("failed to load upload", zap.Error(err))
		return nil, err
	}
	sheet, err := p.Sheet()
	if err != nil {
		log.Warn("failed to read worksheet", zap.Error(err))
		return nil, err
	}
	log.Debug("worksheet selected", zap.String("sheet", sheet.Name), zap.Any("sheets", p.Recognitions()))
	emit(ProgressEvent{
		Type:      EventInfo,
		Message:   fmt.Sprintf("✅ Datei geladen: %s", name),
		Data:      map[string]interface{}{"sheet_name": sheet.Name, "rows": len(sheet.Rows), "sheets": p.Recognitions()},
		Timestamp: time.Now(),
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 识别列
	ds, res, err := excel.BuildDataset(name, sheet, c.mapper)
	if err != nil {
		log.Info("upload has no data rows", zap.Error(err))
		return nil, err
	}
	emit(ProgressEvent{
		Type:    EventInfo,
		Message: fmt.Sprintf("✅ %d Mitarbeiter wurden erfolgreich geladen!", ds.Len()),
		Data: map[string]interface{}{
			"mappings": res.Mappings,
			"unmapped": res.Unmapped,
		},
		Timestamp: time.Now(),
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 分析
	emit(ProgressEvent{Type: EventStage, Message: "Auswertung läuft", Data: map[string]int{"percent": 0}, Timestamp: time.Now()})
	report, err := engine.Analyze(ds)
	if err != nil {
		log.Error("analysis failed", zap.Error(err))
		return nil, err
	}
	c.exporter.AttachCharts(report)
	emit(ProgressEvent{
		Type:      EventInfo,
		Message:   fmt.Sprintf("✅ %d Diagramme wurden erstellt!", len(report.Charts)),
		Data:      map[string]int{"charts": len(report.Charts)},
		Timestamp: time.Now(),
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{Report: report, Resolution: res}
	if !opts.SkipBundle {
		bundle, err := c.exporter.Bundle(report, func(ev exporter.ProgressEvent) {
			emit(ProgressEvent{
				Type:      EventStage,
				Message:   ev.Stage,
				Data:      map[string]int{"percent": ev.Percent},
				Timestamp: time.Now(),
			})
		})
		if err != nil {
			log.Error("failed to build bundle", zap.Error(err))
			return nil, err
		}
		result.Bundle = bundle
	}

	log.Info("analysis finished",
		zap.String("report_id", report.ID),
		zap.Int("rows", report.RowCount),
		zap.Int("charts", len(report.Charts)),
		zap.Int("bundle_bytes", len(result.Bundle)),
		zap.Duration("duration", c.now().Sub(started)),
	)
	return result, nil
}

// sendProgress 发送进度事件；ctx 取消后放弃发送
func (c *Coordinator) sendProgress(ctx context.Context, ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	case <-ctx.Done():
	}
}

// UserMessage 将错误转换为面向用户的德语提示
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, excel.ErrEmptyDataset):
		return "❌ Die Excel-Datei ist leer! Bitte füllen Sie zuerst Daten ein."
	case errors.Is(err, excel.ErrUnsupportedFormat):
		return "❌ Dateiformat nicht unterstützt. Bitte laden Sie eine .xlsx- oder .xls-Datei hoch."
	case errors.Is(err, excel.ErrUnreadable):
		return "❌ Die Datei konnte nicht gelesen werden. Bitte prüfen Sie, ob es eine gültige Excel-Datei ist."
	case errors.Is(err, calculator.ErrInvalidRetirementAge):
		return fmt.Sprintf("❌ Das Renteneintrittsalter muss zwischen %d und %d liegen.", calculator.MinRetirementAge, calculator.MaxRetirementAge)
	case errors.Is(err, benchmark.ErrUnknownRegion):
		return "❌ Unbekannte Region für den Vergleich."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "❌ Die Analyse wurde abgebrochen."
	case errors.Is(err, ErrInternal):
		return "❌ Bei der Auswertung ist ein interner Fehler aufgetreten. Bitte prüfen Sie die Datei und versuchen Sie es erneut."
	default:
		return fmt.Sprintf("❌ Es ist ein Fehler aufgetreten: %v", err)
	}
}

// IsUserError 是否为用户输入导致的错误（API 返回 400）
func IsUserError(err error) bool {
	return errors.Is(err, excel.ErrEmptyDataset) ||
		errors.Is(err, excel.ErrUnsupportedFormat) ||
		errors.Is(err, excel.ErrUnreadable) ||
		errors.Is(err, calculator.ErrInvalidRetirementAge) ||
		errors.Is(err, benchmark.ErrUnknownRegion)
}
