// Package benchmark 提供区域参考值（平均年龄、女性占比、兼职占比、月薪）。
package benchmark

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed benchmarks.yaml
var defaultTable []byte

// ErrUnknownRegion 区域不在参考表中
var ErrUnknownRegion = errors.New("unknown benchmark region")

// Reference 一个区域的参考值
type Reference struct {
	Region        string  `yaml:"name" json:"region"`
	MeanAge       float64 `yaml:"alter" json:"meanAge"`
	FemalePercent float64 `yaml:"frauen" json:"femalePercent"`
	PartTime      float64 `yaml:"teilzeit" json:"partTimePercent"`
	MonthlySalary float64 `yaml:"gehalt" json:"monthlySalary"`
}

// Table 只读参考表，保持文件中的区域顺序
type Table struct {
	Default string      `yaml:"default" json:"default"`
	Regions []Reference `yaml:"regions" json:"regions"`
}

// Default 内嵌参考表
func Default() *Table {
	t, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("embedded benchmark table is invalid: %v", err))
	}
	return t
}

// Load 从文件加载参考表；path 为空时返回内嵌表
func Load(path string) (*Table, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read benchmark table: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse benchmark table %s: %w", path, err)
	}
	return t, nil
}

// Parse 解析 YAML 参考表
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	if len(t.Regions) == 0 {
		return nil, errors.New("no regions defined")
	}
	seen := make(map[string]struct{}, len(t.Regions))
	for _, r := range t.Regions {
		if strings.TrimSpace(r.Region) == "" {
			return nil, errors.New("region without name")
		}
		if _, dup := seen[r.Region]; dup {
			return nil, fmt.Errorf("duplicate region %q", r.Region)
		}
		seen[r.Region] = struct{}{}
	}
	if t.Default == "" {
		t.Default = t.Regions[len(t.Regions)-1].Region
	}
	if _, ok := seen[t.Default]; !ok {
		return nil, fmt.Errorf("%w: default %q", ErrUnknownRegion, t.Default)
	}
	return &t, nil
}

// Names 区域名列表
func (t *Table) Names() []string {
	out := make([]string, len(t.Regions))
	for i, r := range t.Regions {
		out[i] = r.Region
	}
	return out
}

// Lookup 按名称查找区域；空名称返回默认区域
func (t *Table) Lookup(region string) (Reference, error) {
	if region == "" {
		region = t.Default
	}
	for _, r := range t.Regions {
		if r.Region == region {
			return r, nil
		}
	}
	return Reference{}, fmt.Errorf("%w: %q", ErrUnknownRegion, region)
}
