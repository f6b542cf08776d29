package calculator

import (
	"strings"

	"hranalyse/internal/model"
	"hranalyse/internal/parser"
)

// Derive 计算派生列：年龄、司龄、年薪
//
// 源列未识别时对应派生列保持 nil；非数字单元格记为缺失。
func Derive(ds *model.Dataset, currentYear int) {
	ds.CurrentYear = currentYear
	ds.Age, ds.Tenure, ds.Salary = nil, nil, nil

	n := ds.Len()
	if ds.Has(model.FieldBirthYear) {
		ds.Age = make([]model.Value, n)
		for i := 0; i < n; i++ {
			if y, ok := parser.ParseNumber(ds.Text(i, model.FieldBirthYear)); ok {
				ds.Age[i] = model.Some(float64(currentYear) - y)
			}
		}
	}
	if ds.Has(model.FieldHireYear) {
		ds.Tenure = make([]model.Value, n)
		for i := 0; i < n; i++ {
			if y, ok := parser.ParseNumber(ds.Text(i, model.FieldHireYear)); ok {
				ds.Tenure[i] = model.Some(float64(currentYear) - y)
			}
		}
	}
	if ds.Has(model.FieldSalary) {
		ds.Salary = make([]model.Value, n)
		for i := 0; i < n; i++ {
			if v, ok := parser.ExtractNumber(ds.Text(i, model.FieldSalary)); ok {
				ds.Salary[i] = model.Some(v)
			}
		}
	}
}

// numericColumn 解析任意列为数值（允许逗号小数）
func numericColumn(ds *model.Dataset, f model.Field) []model.Value {
	if !ds.Has(f) {
		return nil
	}
	out := make([]model.Value, ds.Len())
	for i := range out {
		if v, ok := parser.ParseNumber(commaToDot(ds.Text(i, f))); ok {
			out[i] = model.Some(v)
		}
	}
	return out
}

func commaToDot(s string) string {
	return strings.ReplaceAll(s, ",", ".")
}
