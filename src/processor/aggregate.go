// aggregate.go
package processor

import (
	"math"
	"sort"
	"strings"

	"DeliveryInsight/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// filterEq 单列等值过滤的简写
func filterEq(df dataframe.DataFrame, col, value string) dataframe.DataFrame {
	return df.Filter(
		dataframe.F{Colname: col, Comparator: series.Eq, Comparando: value},
	)
}

// 聚合原语: 每个业务指标都是对这组原语的一次参数化调用
// (分组键, 取值列, 操作)三元组, 不再散落成链式的临时变换

// GroupCount 一个分组的行数
type GroupCount struct {
	Keys  []string
	Count int
}

// GroupStat 一个分组的均值与样本标准差(n-1)
type GroupStat struct {
	Keys []string
	N    int
	Mean float64
	Std  float64
}

// Extreme 极值及其所在行
type Extreme struct {
	Value float64
	Row   map[string]string
}

// 分组键内部拼接符, 取不会出现在数据里的控制字符
const keySep = "\x1f"

// CountDistinct 列中互不相同的非缺失值数量
func CountDistinct(df dataframe.DataFrame, col string) int {
	if !utils.HasColumn(df, col) || df.Nrow() == 0 {
		return 0
	}
	seen := make(map[string]struct{})
	for _, v := range df.Col(col).Records() {
		if isMissingToken(v) {
			continue
		}
		seen[v] = struct{}{}
	}
	return len(seen)
}

// CountByGroup 按分组键统计行数, 结果按键升序
// 键值缺失的行不参与分组, 空表返回空结果
func CountByGroup(df dataframe.DataFrame, keys ...string) []GroupCount {
	groups := groupRows(df, keys)

	out := make([]GroupCount, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupCount{Keys: g.keys, Count: len(g.rows)})
	}
	return out
}

// GroupStats 按分组键计算取值列的均值与样本标准差
// 缺失值不进分母; 整组缺失的分组直接跳过; 单行分组的标准差按0报告
func GroupStats(df dataframe.DataFrame, valueCol string, keys ...string) []GroupStat {
	if !utils.HasColumn(df, valueCol) {
		return nil
	}
	groups := groupRows(df, keys)
	values := df.Col(valueCol).Float()

	out := make([]GroupStat, 0, len(groups))
	for _, g := range groups {
		var vals []float64
		for _, row := range g.rows {
			if !math.IsNaN(values[row]) {
				vals = append(vals, values[row])
			}
		}
		if len(vals) == 0 {
			continue
		}

		std := 0.0
		if len(vals) > 1 {
			std = stat.StdDev(vals, nil)
		}
		out = append(out, GroupStat{
			Keys: g.keys,
			N:    len(vals),
			Mean: stat.Mean(vals, nil),
			Std:  std,
		})
	}
	return out
}

// MinMaxRows 取值列的最小/最大值及对应行
// 并列时取原始行序里先出现的那行; 没有可用值时ok为false
func MinMaxRows(df dataframe.DataFrame, valueCol string) (min, max Extreme, ok bool) {
	if !utils.HasColumn(df, valueCol) || df.Nrow() == 0 {
		return Extreme{}, Extreme{}, false
	}

	values := df.Col(valueCol).Float()
	minIdx, maxIdx := -1, -1
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if minIdx < 0 || v < values[minIdx] {
			minIdx = i
		}
		if maxIdx < 0 || v > values[maxIdx] {
			maxIdx = i
		}
	}
	if minIdx < 0 {
		return Extreme{}, Extreme{}, false
	}

	return Extreme{Value: values[minIdx], Row: rowMap(df, minIdx)},
		Extreme{Value: values[maxIdx], Row: rowMap(df, maxIdx)},
		true
}

// TopNPerGroup 每个分组按排名列取前n行
// 稳定排序, 并列按原始行序; n大于组大小时返回整组
func TopNPerGroup(df dataframe.DataFrame, groupKeys []string, rankCol string, n int, ascending bool) dataframe.DataFrame {
	if !utils.HasColumn(df, rankCol) || n <= 0 {
		return dataframe.DataFrame{}
	}
	groups := groupRows(df, groupKeys)
	values := df.Col(rankCol).Float()

	var picked []int
	for _, g := range groups {
		var rows []int
		for _, row := range g.rows {
			if !math.IsNaN(values[row]) {
				rows = append(rows, row)
			}
		}
		sort.SliceStable(rows, func(i, j int) bool {
			if ascending {
				return values[rows[i]] < values[rows[j]]
			}
			return values[rows[i]] > values[rows[j]]
		})

		limit := n
		if limit > len(rows) {
			limit = len(rows)
		}
		picked = append(picked, rows[:limit]...)
	}

	if len(picked) == 0 {
		return dataframe.DataFrame{}
	}
	return df.Subset(picked)
}

type rowGroup struct {
	keys []string
	rows []int
}

// groupRows 把行号按分组键归桶, 桶按键升序
// keys为空时所有行归入一个无键分组
func groupRows(df dataframe.DataFrame, keys []string) []rowGroup {
	n := df.Nrow()
	if n == 0 {
		return nil
	}

	if len(keys) == 0 {
		rows := make([]int, n)
		for i := range rows {
			rows[i] = i
		}
		return []rowGroup{{rows: rows}}
	}

	keyCols := make([][]string, len(keys))
	for i, k := range keys {
		if !utils.HasColumn(df, k) {
			return nil
		}
		keyCols[i] = df.Col(k).Records()
	}

	buckets := make(map[string]*rowGroup)
	for row := 0; row < n; row++ {
		keyVals := make([]string, len(keys))
		missing := false
		for i := range keys {
			v := keyCols[i][row]
			if isMissingToken(v) {
				missing = true
				break
			}
			keyVals[i] = v
		}
		if missing {
			continue
		}

		id := strings.Join(keyVals, keySep)
		g, ok := buckets[id]
		if !ok {
			g = &rowGroup{keys: keyVals}
			buckets[id] = g
		}
		g.rows = append(g.rows, row)
	}

	out := make([]rowGroup, 0, len(buckets))
	for _, g := range buckets {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		return utils.CompareKeys(out[i].keys, out[j].keys) < 0
	})
	return out
}

// isMissingToken 字符串视角下的缺失: 空串或浮点列打印出的NaN
func isMissingToken(v string) bool {
	return v == "" || v == "NaN"
}

func rowMap(df dataframe.DataFrame, row int) map[string]string {
	out := make(map[string]string, len(df.Names()))
	for _, name := range df.Names() {
		out[name] = df.Col(name).Elem(row).String()
	}
	return out
}
