package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	separatorRe  = regexp.MustCompile(`[\s_\-.]+`)
	nonNumericRe = regexp.MustCompile(`[^0-9.]`)
)

// NormalizeColumnName 规范化列名：小写并去除空白、下划线、连字符和点
func NormalizeColumnName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return separatorRe.ReplaceAllString(name, "")
}

// ContainsAny 检查字符串是否包含任意一个关键词
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// IsBlank 单元格是否为空
func IsBlank(cell string) bool {
	return strings.TrimSpace(cell) == ""
}

// IsBlankRow 整行是否为空
func IsBlankRow(row []string) bool {
	for _, c := range row {
		if !IsBlank(c) {
			return false
		}
	}
	return true
}

// ParseNumber 数值转换，非数字返回 false
//
// NaN 与 ±Inf（"nan"、"inf"、"Infinity" 等写法）视为非数字。
func ParseNumber(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ExtractNumber 从自由文本中提取数值（如 "45000 €"）
//
// 只保留数字和小数点；剩余内容无法解析时返回 false。
func ExtractNumber(cell string) (float64, bool) {
	return ParseNumber(nonNumericRe.ReplaceAllString(cell, ""))
}
