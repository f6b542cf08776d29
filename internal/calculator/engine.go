package calculator

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hranalyse/internal/benchmark"
	"hranalyse/internal/model"
)

// ErrInvalidRetirementAge 退休年龄超出 [60,70]
var ErrInvalidRetirementAge = errors.New("retirement age out of range")

// Options 分析参数
type Options struct {
	RetirementAge int              // 0 表示使用默认值 67
	Region        string           // 空表示使用参考表默认区域
	Now           func() time.Time // 注入当前时间，便于测试
	Thresholds    *Thresholds      // nil 表示使用默认阈值
	Benchmarks    *benchmark.Table // nil 表示使用内嵌参考表
}

// Engine 分析引擎
type Engine struct {
	opts Options
	ref  benchmark.Reference
}

// NewEngine 创建分析引擎并校验参数
func NewEngine(opts Options) (*Engine, error) {
	if opts.RetirementAge == 0 {
		opts.RetirementAge = DefaultRetirementAge
	}
	if err := ValidateRetirementAge(opts.RetirementAge); err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Thresholds == nil {
		th := DefaultThresholds()
		opts.Thresholds = &th
	}
	if opts.Benchmarks == nil {
		opts.Benchmarks = benchmark.Default()
	}

	ref, err := opts.Benchmarks.Lookup(opts.Region)
	if err != nil {
		return nil, err
	}
	opts.Region = ref.Region
	return &Engine{opts: opts, ref: ref}, nil
}

// ValidateRetirementAge 校验退休年龄
func ValidateRetirementAge(age int) error {
	if age < MinRetirementAge || age > MaxRetirementAge {
		return fmt.Errorf("%w: %d (allowed %d-%d)", ErrInvalidRetirementAge, age, MinRetirementAge, MaxRetirementAge)
	}
	return nil
}

// Analyze 对数据集执行全部分析；会就地写入派生列
func (e *Engine) Analyze(ds *model.Dataset) (*model.Report, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, errors.New("dataset is empty")
	}

	now := e.opts.Now()
	Derive(ds, now.Year())

	report := &model.Report{
		ID:          uuid.New().String(),
		FileName:    ds.FileName,
		RowCount:    ds.Len(),
		GeneratedAt: now,
		Parameters: model.Parameters{
			RetirementAge: e.opts.RetirementAge,
			Region:        e.opts.Region,
			CurrentYear:   ds.CurrentYear,
		},
		Columns: make(map[model.Field]string, len(ds.Columns)),
		Charts:  []model.Chart{},
	}
	for f := range ds.Columns {
		report.Columns[f] = ds.Header(f)
	}

	// 概览
	report.KPIs = kpis(ds)

	// 数据质量
	report.Quality = AssessQuality(ds, *e.opts.Thresholds)

	// 退休 / 司龄 / 知识流失
	report.Retirement = ProjectRetirement(ds, e.opts.RetirementAge)
	report.Tenure = AnalyzeTenure(ds)
	report.Risk = AssessKnowledgeRisk(ds, e.opts.RetirementAge)

	// 人员结构 / 职业发展
	report.Demographics = AnalyzeDemographics(ds)
	report.Career = AnalyzeCareer(ds)

	// 区域对标
	report.Benchmark = CompareBenchmark(ds, e.ref)

	return report, nil
}

// Analyze 便捷入口
func Analyze(ds *model.Dataset, opts Options) (*model.Report, error) {
	e, err := NewEngine(opts)
	if err != nil {
		return nil, err
	}
	return e.Analyze(ds)
}

func kpis(ds *model.Dataset) model.KPIs {
	k := model.KPIs{Headcount: ds.Len()}
	if m, ok := mean(validFloats(ds.Age)); ok {
		v := round1(m)
		k.MeanAge = &v
	}
	if m, ok := mean(validFloats(ds.Tenure)); ok {
		v := round1(m)
		k.MeanTenure = &v
	}
	if m, ok := mean(validFloats(ds.Salary)); ok {
		v := round1(m)
		k.MeanSalary = &v
	}
	return k
}
