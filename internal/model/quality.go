package model

// Tier 状态等级
type Tier string

const (
	TierOK       Tier = "OK"
	TierWarning  Tier = "WARNING"
	TierCritical Tier = "CRITICAL"
)

// Label 德语展示名
func (t Tier) Label() string {
	switch t {
	case TierCritical:
		return "KRITISCH"
	case TierWarning:
		return "WARNUNG"
	default:
		return "OK"
	}
}

// Message 面向用户的提示（等级 + 文本）
type Message struct {
	Level string `json:"level"` // success/info/warning/error
	Text  string `json:"text"`
}

const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// FieldQuality 单列缺失情况
type FieldQuality struct {
	Field   Field   `json:"field"`
	Label   string  `json:"label"`
	Header  string  `json:"header"`
	Missing int     `json:"missing"`
	Percent float64 `json:"percent"`
	Status  Tier    `json:"status"`
}

// Outlier 异常值类别统计
type Outlier struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
	Severity Tier   `json:"severity"`
	Status   Tier   `json:"status"`
}

// OutlierExample 异常值示例记录
type OutlierExample struct {
	Category string `json:"category"`
	ID       string `json:"id"`
	RowNo    int    `json:"rowNo"`
	Detail   string `json:"detail"`
}

// QualityBand 数据质量总评
type QualityBand string

const (
	BandGood   QualityBand = "good"
	BandMedium QualityBand = "medium"
	BandPoor   QualityBand = "poor"
)

// QualityReport 数据质量报告
type QualityReport struct {
	Fields       []FieldQuality   `json:"fields"`
	Outliers     []Outlier        `json:"outliers"`
	Examples     []OutlierExample `json:"examples"`
	Completeness float64          `json:"completeness"`
	Plausibility float64          `json:"plausibility"`
	Score        float64          `json:"score"`
	Band         QualityBand      `json:"band"`
	Messages     []Message        `json:"messages"`
}

// Problems 返回计数大于 0 的异常类别
func (q *QualityReport) Problems() []Outlier {
	out := make([]Outlier, 0, len(q.Outliers))
	for _, o := range q.Outliers {
		if o.Count > 0 {
			out = append(out, o)
		}
	}
	return out
}
