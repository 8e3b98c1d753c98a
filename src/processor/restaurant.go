// restaurant.go
package processor

import (
	"math"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"
)

// 餐厅视角的指标

// DistinctDeliverers 平台上互不相同的配送员数量
func DistinctDeliverers(df dataframe.DataFrame) int {
	return CountDistinct(df, ColDelivererID)
}

// MeanDistance 餐厅到送达点的平均距离(公里)
// 距离无效的行(坐标缺失或占位)不进分母
func MeanDistance(df dataframe.DataFrame) (float64, bool) {
	if df.Nrow() == 0 {
		return 0, false
	}
	var vals []float64
	for _, v := range df.Col(ColDistanceKm).Float() {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return 0, false
	}
	return stat.Mean(vals, nil), true
}

// DistancePerCity 各城市的平均配送距离
func DistancePerCity(df dataframe.DataFrame) []GroupStat {
	return GroupStats(df, ColDistanceKm, ColCity)
}

// DeliveryTimeByCity 各城市配送时长的均值与标准差
func DeliveryTimeByCity(df dataframe.DataFrame) []GroupStat {
	return GroupStats(df, ColDeliveryTime, ColCity)
}

// DeliveryTimeByCityOrderType 城市x下单类型的配送时长统计
func DeliveryTimeByCityOrderType(df dataframe.DataFrame) []GroupStat {
	return GroupStats(df, ColDeliveryTime, ColCity, ColTypeOfOrder)
}

// DeliveryTimeByCityTraffic 城市x交通状况的配送时长统计
func DeliveryTimeByCityTraffic(df dataframe.DataFrame) []GroupStat {
	return GroupStats(df, ColDeliveryTime, ColCity, ColTrafficDensity)
}

// DeliveryTimeByFestival 节日与平日的配送时长对比
func DeliveryTimeByFestival(df dataframe.DataFrame) []GroupStat {
	return GroupStats(df, ColDeliveryTime, ColFestival)
}
