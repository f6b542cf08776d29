package store

import (
	"database/sql"
	"fmt"
	"time"
)

// 运行状态
const (
	RunProcessing = "processing"
	RunSuccess    = "success"
	RunFailed     = "failed"
)

// AnalysisRun 分析运行记录
type AnalysisRun struct {
	ID            int64      `json:"id"`
	ReportID      string     `json:"reportId"`
	FileName      string     `json:"fileName"`
	RetirementAge int        `json:"retirementAge"`
	Region        string     `json:"region"`
	RowCount      int        `json:"rowCount"`
	ChartCount    int        `json:"chartCount"`
	QualityScore  float64    `json:"qualityScore"`
	Status        string     `json:"status"`
	ErrorMessage  string     `json:"errorMessage,omitempty"`
	StartedAt     time.Time  `json:"startedAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

// CreateRun 创建运行记录，返回 id
func (s *Store) CreateRun(fileName string, retirementAge int, region string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO analysis_runs (filename, retirement_age, region, status)
		VALUES (?, ?, ?, ?)
	`, fileName, retirementAge, region, RunProcessing)
	if err != nil {
		return 0, fmt.Errorf("failed to create analysis run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get analysis run id: %w", err)
	}
	return id, nil
}

// FinishRun 成功完成
func (s *Store) FinishRun(id int64, reportID string, rowCount, chartCount int, qualityScore float64) error {
	_, err := s.db.Exec(`
		UPDATE analysis_runs SET
			report_id = ?,
			row_count = ?,
			chart_count = ?,
			quality_score = ?,
			status = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, reportID, rowCount, chartCount, qualityScore, RunSuccess, id)
	if err != nil {
		return fmt.Errorf("failed to update analysis run: %w", err)
	}
	return nil
}

// FailRun 记录失败原因
func (s *Store) FailRun(id int64, message string) error {
	_, err := s.db.Exec(`
		UPDATE analysis_runs SET status = ?, error_message = ?, completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, RunFailed, message, id)
	if err != nil {
		return fmt.Errorf("failed to update analysis run: %w", err)
	}
	return nil
}

// RecentRuns 最近的运行记录（按开始时间倒序）
func (s *Store) RecentRuns(limit int) ([]AnalysisRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, COALESCE(report_id, ''), filename, retirement_age, region, row_count, chart_count,
		       quality_score, status, COALESCE(error_message, ''), started_at, completed_at
		FROM analysis_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer rows.Close()

	runs := []AnalysisRun{}
	for rows.Next() {
		var r AnalysisRun
		var completed sql.NullTime
		if err := rows.Scan(&r.ID, &r.ReportID, &r.FileName, &r.RetirementAge, &r.Region, &r.RowCount, &r.ChartCount,
			&r.QualityScore, &r.Status, &r.ErrorMessage, &r.StartedAt, &completed); err != nil {
			return nil, err
		}
		if completed.Valid {
			t := completed.Time
			r.CompletedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
