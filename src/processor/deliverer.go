// deliverer.go
package processor

import (
	"github.com/go-gota/gota/dataframe"
)

// 配送员视角的指标

// 快慢榜默认取前10
const topDeliverersPerCity = 10

// AgeRange 最年轻与最年长的配送员
// 哨兵串造成的缺失年龄完全不参与, 不会被当成0岁
func AgeRange(df dataframe.DataFrame) (youngest, oldest Extreme, ok bool) {
	return MinMaxRows(df, ColDelivererAge)
}

// VehicleConditionRange 车况最差与最好的配送员
func VehicleConditionRange(df dataframe.DataFrame) (worst, best Extreme, ok bool) {
	return MinMaxRows(df, ColVehicleCond)
}

// RatingPerDeliverer 每个配送员的平均评分
func RatingPerDeliverer(df dataframe.DataFrame) []GroupStat {
	return GroupStats(df, ColAggregateRating, ColDelivererID)
}

// RatingByTraffic 各交通状况下的评分均值与标准差
func RatingByTraffic(df dataframe.DataFrame) []GroupStat {
	return GroupStats(df, ColAggregateRating, ColTrafficDensity)
}

// RatingByWeather 各天气状况下的评分均值与标准差
func RatingByWeather(df dataframe.DataFrame) []GroupStat {
	return GroupStats(df, ColAggregateRating, ColWeather)
}

// FastestPerCity 每个城市最快的10个配送记录
func FastestPerCity(df dataframe.DataFrame) dataframe.DataFrame {
	return TopNPerGroup(df, []string{ColCity}, ColDeliveryTime, topDeliverersPerCity, true)
}

// SlowestPerCity 每个城市最慢的10个配送记录
func SlowestPerCity(df dataframe.DataFrame) dataframe.DataFrame {
	return TopNPerGroup(df, []string{ColCity}, ColDeliveryTime, topDeliverersPerCity, false)
}
