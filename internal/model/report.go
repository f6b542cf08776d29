package model

import "time"

// Bucket 分组计数
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// YearCount 按年份计数
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// YearAmount 按年份汇总
type YearAmount struct {
	Year      int     `json:"year"`
	Amount    float64 `json:"amount"`
	Highlight bool    `json:"highlight"`
}

// HorizonCount 累计计数（horizon 年内）
type HorizonCount struct {
	Horizon int     `json:"horizon"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// GroupStat 分组均值/占比
type GroupStat struct {
	Group string  `json:"group"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// HistogramBin 直方图区间
type HistogramBin struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Count int     `json:"count"`
}

// Parameters 分析参数
type Parameters struct {
	RetirementAge int    `json:"retirementAge"`
	Region        string `json:"region"`
	CurrentYear   int    `json:"currentYear"`
}

// KPIs 概览指标（无源列时为 nil）
type KPIs struct {
	Headcount  int      `json:"headcount"`
	MeanAge    *float64 `json:"meanAge"`
	MeanTenure *float64 `json:"meanTenure"`
	MeanSalary *float64 `json:"meanSalary"`
}

// RetirementReport 退休预测
type RetirementReport struct {
	Employees        int            `json:"employees"`
	Bands            []Bucket       `json:"bands"`
	PerYear          []YearCount    `json:"perYear"`
	Cumulative       []HorizonCount `json:"cumulative"`
	Within5          int            `json:"within5"`
	Within5Percent   float64        `json:"within5Percent"`
	Within10         int            `json:"within10"`
	Within10Percent  float64        `json:"within10Percent"`
	AgeHistogram     []HistogramBin `json:"ageHistogram"`
	AgeByDepartment  []GroupStat    `json:"ageByDepartment,omitempty"`
	LossByDepartment []GroupStat    `json:"lossByDepartment,omitempty"`
	Messages         []Message      `json:"messages"`
}

// TenureReport 司龄/忠诚度统计
type TenureReport struct {
	Employees          int            `json:"employees"`
	Buckets            []Bucket       `json:"buckets"`
	Anniversaries      []Bucket       `json:"anniversaries"`
	LongServing        int            `json:"longServing"`
	Histogram          []HistogramBin `json:"histogram"`
	TenureByDepartment []GroupStat    `json:"tenureByDepartment,omitempty"`
	Messages           []Message      `json:"messages"`
}

// RiskRecord 单个员工的知识流失风险
type RiskRecord struct {
	ID                string  `json:"id"`
	RowNo             int     `json:"rowNo"`
	Age               float64 `json:"age"`
	Tenure            float64 `json:"tenure"`
	YearsToRetirement float64 `json:"yearsToRetirement"`
	RetirementYear    int     `json:"retirementYear"`
	Tier              Tier    `json:"tier"`
}

// RiskReport 知识流失风险
type RiskReport struct {
	Records           []RiskRecord `json:"records"`
	Critical          int          `json:"critical"`
	Warning           int          `json:"warning"`
	OK                int          `json:"ok"`
	ExperienceLost5   float64      `json:"experienceLost5"`
	TotalExperience   float64      `json:"totalExperience"`
	ExperiencePerYear []YearAmount `json:"experiencePerYear"`
	Messages          []Message    `json:"messages"`
}

// Distribution 分类分布
type Distribution struct {
	Field   Field    `json:"field"`
	Label   string   `json:"label"`
	Buckets []Bucket `json:"buckets"`
	Total   int      `json:"total"`
}

// DemographicsReport 人员结构
type DemographicsReport struct {
	Gender          *Distribution  `json:"gender,omitempty"`
	Departments     *Distribution  `json:"departments,omitempty"`
	Levels          *Distribution  `json:"levels,omitempty"`
	WorkTime        *Distribution  `json:"workTime,omitempty"`
	Locations       *Distribution  `json:"locations,omitempty"`
	Education       *Distribution  `json:"education,omitempty"`
	ContractTypes   *Distribution  `json:"contractTypes,omitempty"`
	SalaryHistogram []HistogramBin `json:"salaryHistogram,omitempty"`
	HoursHistogram  []HistogramBin `json:"hoursHistogram,omitempty"`
}

// CareerPath 职业发展示例
type CareerPath struct {
	ID     string  `json:"id"`
	Entry  string  `json:"entry"`
	Now    string  `json:"current"`
	Tenure float64 `json:"tenure"`
}

// Flow 部门 → 级别 人数流向
type Flow struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Count  int    `json:"count"`
}

// CareerReport 职业发展
type CareerReport struct {
	Examples []CareerPath `json:"examples,omitempty"`
	Flows    []Flow       `json:"flows,omitempty"`
}

// BenchmarkRow 对标项
type BenchmarkRow struct {
	Metric    string  `json:"metric"`
	Label     string  `json:"label"`
	Company   float64 `json:"company"`
	Reference float64 `json:"reference"`
}

// BenchmarkReport 区域对标
type BenchmarkReport struct {
	Region string         `json:"region"`
	Rows   []BenchmarkRow `json:"rows"`
}

// Report 一次分析的完整结果（只在内存中存在）
type Report struct {
	ID           string             `json:"id"`
	FileName     string             `json:"fileName"`
	RowCount     int                `json:"rowCount"`
	GeneratedAt  time.Time          `json:"generatedAt"`
	Parameters   Parameters         `json:"parameters"`
	KPIs         KPIs               `json:"kpis"`
	Columns      map[Field]string   `json:"columns"`
	Quality      QualityReport      `json:"quality"`
	Retirement   *RetirementReport  `json:"retirement,omitempty"`
	Tenure       *TenureReport      `json:"tenure,omitempty"`
	Risk         *RiskReport        `json:"risk,omitempty"`
	Demographics DemographicsReport `json:"demographics"`
	Career       *CareerReport      `json:"career,omitempty"`
	Benchmark    *BenchmarkReport   `json:"benchmark,omitempty"`
	Charts       []Chart            `json:"charts"`
}
