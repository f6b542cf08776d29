package calculator

import (
	"math"
	"sort"

	"github.com/go-gota/gota/series"

	"hranalyse/internal/model"
)

// histogramBins 直方图默认分箱数
const histogramBins = 20

// validFloats 取出有效值
func validFloats(values []model.Value) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v.Valid {
			out = append(out, v.Float)
		}
	}
	return out
}

// mean 算术平均；空切片返回 false
func mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	return series.Floats(values).Mean(), true
}

// sampleStdDev 样本标准差（n-1）；少于 2 个值时返回 false
func sampleStdDev(values []float64) (float64, bool) {
	if len(values) < 2 {
		return 0, false
	}
	sd := series.Floats(values).StdDev()
	if math.IsNaN(sd) {
		return 0, false
	}
	return sd, true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}

// histogram 等宽分箱；最大值落在最后一箱，NaN 与 ±Inf 不计入
func histogram(values []float64, bins int) []model.HistogramBin {
	values = finite(values)
	if len(values) == 0 || bins <= 0 {
		return nil
	}
	s := series.Floats(values)
	lo, hi := s.Min(), s.Max()
	if lo == hi {
		return []model.HistogramBin{{From: lo, To: hi, Count: len(values)}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]model.HistogramBin, bins)
	for i := range out {
		out[i].From = lo + float64(i)*width
		out[i].To = lo + float64(i+1)*width
	}
	out[bins-1].To = hi
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out
}

func finite(values []float64) []float64 {
	out := values[:0:0]
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

type groupAcc struct {
	name  string
	count int
	sum   float64
	hits  int
}

// groupStats 按分组累积；order 保持首次出现顺序
type groupStats struct {
	order []string
	byKey map[string]*groupAcc
}

func newGroupStats() *groupStats {
	return &groupStats{byKey: make(map[string]*groupAcc)}
}

func (g *groupStats) add(key string, value float64, hit bool) {
	acc, ok := g.byKey[key]
	if !ok {
		acc = &groupAcc{name: key}
		g.byKey[key] = acc
		g.order = append(g.order, key)
	}
	acc.count++
	acc.sum += value
	if hit {
		acc.hits++
	}
}

// means 每组均值，按值升序
func (g *groupStats) means() []model.GroupStat {
	out := make([]model.GroupStat, 0, len(g.order))
	for _, k := range g.order {
		acc := g.byKey[k]
		out = append(out, model.GroupStat{Group: k, Count: acc.count, Value: round1(acc.sum / float64(acc.count))})
	}
	sortGroupStats(out)
	return out
}

// shares 每组命中占比（%），按值升序
func (g *groupStats) shares() []model.GroupStat {
	out := make([]model.GroupStat, 0, len(g.order))
	for _, k := range g.order {
		acc := g.byKey[k]
		out = append(out, model.GroupStat{Group: k, Count: acc.count, Value: percent(acc.hits, acc.count)})
	}
	sortGroupStats(out)
	return out
}

func sortGroupStats(stats []model.GroupStat) {
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Value < stats[j].Value
	})
}
